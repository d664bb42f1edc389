package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/freshbasket/freshbasket-backend/pkg/enums"
)

// CartRecord is the authoritative server-side cart, one active record per
// user. Totals are never stored on it; every response derives them from the
// items so screens cannot disagree.
type CartRecord struct {
	ID         uuid.UUID        `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     uuid.UUID        `gorm:"column:user_id;type:uuid;not null"`
	Status     enums.CartStatus `gorm:"column:status;not null;default:'active'"`
	CouponCode *string          `gorm:"column:coupon_code"`
	Items      []CartItem       `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}
