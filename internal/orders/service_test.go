package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/freshbasket/freshbasket-backend/internal/cart"
	"github.com/freshbasket/freshbasket-backend/internal/catalog"
	"github.com/freshbasket/freshbasket-backend/pkg/db/models"
	"github.com/freshbasket/freshbasket-backend/pkg/enums"
	pkgerrors "github.com/freshbasket/freshbasket-backend/pkg/errors"
	"github.com/freshbasket/freshbasket-backend/pkg/pagination"
)

type stubTx struct{}

func (stubTx) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubOrderRepo struct {
	created *models.Order
	order   *models.Order
	orders  []models.Order
	status  enums.OrderStatus
}

func (s *stubOrderRepo) WithTx(*gorm.DB) OrderRepository { return s }

func (s *stubOrderRepo) Create(_ context.Context, order *models.Order) (*models.Order, error) {
	order.ID = uuid.New()
	order.PlacedAt = time.Now().UTC()
	s.created = order
	return order, nil
}

func (s *stubOrderRepo) FindByIDAndUser(_ context.Context, _, _ uuid.UUID) (*models.Order, error) {
	if s.order == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.order, nil
}

func (s *stubOrderRepo) ListByUser(_ context.Context, _ uuid.UUID, _ *pagination.Cursor, limit int) ([]models.Order, error) {
	if limit < len(s.orders) {
		return s.orders[:limit], nil
	}
	return s.orders, nil
}

func (s *stubOrderRepo) UpdateStatus(_ context.Context, _, _ uuid.UUID, status enums.OrderStatus) error {
	s.status = status
	return nil
}

type stubCarts struct {
	record  *models.CartRecord
	retired enums.CartStatus
}

func (s *stubCarts) WithTx(*gorm.DB) cart.CartRepository { return s }

func (s *stubCarts) FindActiveByUser(context.Context, uuid.UUID) (*models.CartRecord, error) {
	if s.record == nil {
		return nil, gorm.ErrRecordNotFound
	}
	return s.record, nil
}

func (s *stubCarts) Create(_ context.Context, record *models.CartRecord) (*models.CartRecord, error) {
	s.record = record
	return record, nil
}

func (s *stubCarts) ReplaceItems(context.Context, uuid.UUID, []models.CartItem) error { return nil }

func (s *stubCarts) SetCouponCode(context.Context, uuid.UUID, *string) error { return nil }

func (s *stubCarts) UpdateStatus(_ context.Context, _ uuid.UUID, status enums.CartStatus) error {
	s.retired = status
	return nil
}

type stubStock struct {
	short       map[uuid.UUID]bool
	decremented map[uuid.UUID]int
	restored    map[uuid.UUID]int
}

func (s *stubStock) WithTx(*gorm.DB) catalog.ProductRepository { return s }

func (s *stubStock) GetByID(context.Context, uuid.UUID) (*models.Product, error) {
	return nil, gorm.ErrRecordNotFound
}

func (s *stubStock) List(context.Context, catalog.ListQuery) ([]models.Product, error) {
	return nil, nil
}

func (s *stubStock) DecrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	if s.short[id] {
		return gorm.ErrRecordNotFound
	}
	if s.decremented == nil {
		s.decremented = map[uuid.UUID]int{}
	}
	s.decremented[id] += quantity
	return nil
}

func (s *stubStock) IncrementStock(_ context.Context, id uuid.UUID, quantity int) error {
	if s.restored == nil {
		s.restored = map[uuid.UUID]int{}
	}
	s.restored[id] += quantity
	return nil
}

type stubCoupons struct {
	coupons map[string]*models.Coupon
}

func (s *stubCoupons) GetByCode(_ context.Context, code string) (*models.Coupon, error) {
	if c, ok := s.coupons[code]; ok {
		return c, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func activeCart(userID uuid.UUID, couponCode *string) *models.CartRecord {
	cartID := uuid.New()
	return &models.CartRecord{
		ID:         cartID,
		UserID:     userID,
		Status:     enums.CartStatusActive,
		CouponCode: couponCode,
		Items: []models.CartItem{{
			ID:                uuid.New(),
			CartID:            cartID,
			ProductID:         uuid.New(),
			Name:              "Alphonso Mango",
			Unit:              enums.ProductUnitKilogram,
			Quantity:          2,
			UnitPrice:         decimal.RequireFromString("45.00"),
			OriginalUnitPrice: decimal.RequireFromString("53.00"),
			GSTPercent:        decimal.NewFromInt(5),
		}},
	}
}

func newTestService(t *testing.T, repo *stubOrderRepo, carts *stubCarts, stock *stubStock, coupons *stubCoupons) Service {
	t.Helper()

	if repo == nil {
		repo = &stubOrderRepo{}
	}
	if carts == nil {
		carts = &stubCarts{}
	}
	if stock == nil {
		stock = &stubStock{}
	}
	if coupons == nil {
		coupons = &stubCoupons{coupons: map[string]*models.Coupon{}}
	}
	svc, err := NewService(repo, stubTx{}, carts, stock, coupons)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCheckoutSnapshotsBreakdown(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	carts := &stubCarts{record: activeCart(userID, nil)}
	repo := &stubOrderRepo{}
	stock := &stubStock{}
	svc := newTestService(t, repo, carts, stock, nil)

	dto, err := svc.Checkout(context.Background(), userID, CheckoutInput{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}

	// subtotal 90, discount 16, gst 4.5, shipping 20, platform 2.
	if !dto.Breakdown.Subtotal.Equal(decimal.RequireFromString("90.00")) {
		t.Fatalf("expected subtotal 90.00, got %s", dto.Breakdown.Subtotal)
	}
	if !dto.Breakdown.TotalDiscount.Equal(decimal.RequireFromString("16.00")) {
		t.Fatalf("expected discount 16.00, got %s", dto.Breakdown.TotalDiscount)
	}
	if !dto.Breakdown.GrandTotal.Equal(decimal.RequireFromString("116.5")) {
		t.Fatalf("expected grand total 116.5, got %s", dto.Breakdown.GrandTotal)
	}
	if dto.Status != "placed" {
		t.Fatalf("expected placed order, got %q", dto.Status)
	}

	productID := carts.record.Items[0].ProductID
	if stock.decremented[productID] != 2 {
		t.Fatalf("expected stock reserved for 2 units, got %d", stock.decremented[productID])
	}
	if carts.retired != enums.CartStatusConverted {
		t.Fatalf("expected cart converted, got %q", carts.retired)
	}
	if repo.created == nil || len(repo.created.Items) != 1 {
		t.Fatalf("expected persisted order with snapshot items")
	}
}

func TestCheckoutWithCouponPersistsDiscount(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	code := "FRESH10"
	carts := &stubCarts{record: activeCart(userID, &code)}
	coupons := &stubCoupons{coupons: map[string]*models.Coupon{
		code: {Code: code, Type: enums.CouponTypeFlat, Value: decimal.NewFromInt(10), IsActive: true},
	}}
	svc := newTestService(t, nil, carts, nil, coupons)

	dto, err := svc.Checkout(context.Background(), userID, CheckoutInput{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !dto.Breakdown.CouponDiscount.Equal(decimal.NewFromInt(10)) {
		t.Fatalf("expected coupon discount 10, got %s", dto.Breakdown.CouponDiscount)
	}
	if dto.CouponCode == nil || *dto.CouponCode != code {
		t.Fatalf("expected coupon code on order, got %v", dto.CouponCode)
	}
}

func TestCheckoutDropsExpiredCoupon(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	code := "FRESH10"
	expiry := time.Now().Add(-time.Hour)
	carts := &stubCarts{record: activeCart(userID, &code)}
	coupons := &stubCoupons{coupons: map[string]*models.Coupon{
		code: {Code: code, Type: enums.CouponTypeFlat, Value: decimal.NewFromInt(10), IsActive: true, ExpiresAt: &expiry},
	}}
	svc := newTestService(t, nil, carts, nil, coupons)

	dto, err := svc.Checkout(context.Background(), userID, CheckoutInput{})
	if err != nil {
		t.Fatalf("checkout: %v", err)
	}
	if !dto.Breakdown.CouponDiscount.IsZero() {
		t.Fatalf("expected expired coupon to carry no discount, got %s", dto.Breakdown.CouponDiscount)
	}
	if !dto.Breakdown.GrandTotal.Equal(decimal.RequireFromString("116.5")) {
		t.Fatalf("expected grand total without coupon 116.5, got %s", dto.Breakdown.GrandTotal)
	}
}

func TestCheckoutEmptyCartFails(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, nil, &stubCarts{}, nil, nil)
	_, err := svc.Checkout(context.Background(), uuid.New(), CheckoutInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestCheckoutShortStockConflicts(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	carts := &stubCarts{record: activeCart(userID, nil)}
	stock := &stubStock{short: map[uuid.UUID]bool{carts.record.Items[0].ProductID: true}}
	svc := newTestService(t, nil, carts, stock, nil)

	_, err := svc.Checkout(context.Background(), userID, CheckoutInput{})
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on short stock, got %v", err)
	}
	if carts.retired != "" {
		t.Fatal("cart must not be retired when checkout fails")
	}
}

func TestCancelOrderRestoresStock(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	productID := uuid.New()
	repo := &stubOrderRepo{order: &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: enums.OrderStatusPlaced,
		Items: []models.OrderItem{{
			ID:        uuid.New(),
			ProductID: productID,
			Name:      "Banana",
			Unit:      enums.ProductUnitDozen,
			Quantity:  3,
		}},
	}}
	stock := &stubStock{}
	svc := newTestService(t, repo, nil, stock, nil)

	dto, err := svc.CancelOrder(context.Background(), userID, repo.order.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if dto.Status != "cancelled" {
		t.Fatalf("expected cancelled, got %q", dto.Status)
	}
	if stock.restored[productID] != 3 {
		t.Fatalf("expected 3 units restored, got %d", stock.restored[productID])
	}
	if repo.status != enums.OrderStatusCancelled {
		t.Fatalf("expected persisted cancel, got %q", repo.status)
	}
}

func TestCancelDeliveredOrderConflicts(t *testing.T) {
	t.Parallel()

	userID := uuid.New()
	repo := &stubOrderRepo{order: &models.Order{
		ID:     uuid.New(),
		UserID: userID,
		Status: enums.OrderStatusDelivered,
	}}
	svc := newTestService(t, repo, nil, nil, nil)

	_, err := svc.CancelOrder(context.Background(), userID, repo.order.ID)
	if typed := pkgerrors.As(err); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for delivered order, got %v", err)
	}
}

func TestListOrdersPaginates(t *testing.T) {
	t.Parallel()

	base := time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)
	repo := &stubOrderRepo{orders: []models.Order{
		{ID: uuid.New(), Status: enums.OrderStatusPlaced, PlacedAt: base.Add(2 * time.Hour)},
		{ID: uuid.New(), Status: enums.OrderStatusDelivered, PlacedAt: base.Add(time.Hour)},
		{ID: uuid.New(), Status: enums.OrderStatusDelivered, PlacedAt: base},
	}}
	svc := newTestService(t, repo, nil, nil, nil)

	page, err := svc.ListOrders(context.Background(), uuid.New(), pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(page.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page.Orders))
	}
	if page.NextCursor == nil {
		t.Fatal("expected next cursor")
	}
}
