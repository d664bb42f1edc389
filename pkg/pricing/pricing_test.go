package pricing

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/enums"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

func item(unitPrice, originalPrice, gst string, qty int) types.CartLineItem {
	return types.CartLineItem{
		ItemID:            uuid.New(),
		ProductID:         uuid.New(),
		Quantity:          qty,
		UnitPrice:         decimal.RequireFromString(unitPrice),
		OriginalUnitPrice: decimal.RequireFromString(originalPrice),
		GSTPercent:        decimal.RequireFromString(gst),
	}
}

func TestSubtotalUsesDiscountedUnitPrice(t *testing.T) {
	t.Parallel()

	items := []types.CartLineItem{
		item("45", "53", "0", 2),
		item("30.50", "30.50", "0", 1),
	}

	got := Subtotal(items)
	if want := decimal.RequireFromString("120.50"); !got.Equal(want) {
		t.Fatalf("expected subtotal %s, got %s", want, got)
	}
}

func TestSubtotalEmptyCartIsZero(t *testing.T) {
	t.Parallel()

	if got := Subtotal(nil); !got.IsZero() {
		t.Fatalf("expected zero subtotal for empty cart, got %s", got)
	}
}

func TestTotalDiscountFloorsMalformedLines(t *testing.T) {
	t.Parallel()

	items := []types.CartLineItem{
		item("45", "53", "0", 2), // saves 16
		item("60", "50", "0", 3), // malformed: unit above original, contributes 0
	}

	got := TotalDiscount(items)
	if want := decimal.NewFromInt(16); !got.Equal(want) {
		t.Fatalf("expected discount %s, got %s", want, got)
	}
}

func TestTotalGSTAggregatesPerLine(t *testing.T) {
	t.Parallel()

	items := []types.CartLineItem{
		item("100", "100", "5", 2),
		item("50", "50", "12", 1),
	}

	got := TotalGST(items)
	if want := decimal.NewFromInt(16); !got.Equal(want) {
		t.Fatalf("expected gst %s, got %s", want, got)
	}
}

func TestTotalGSTMissingPercentIsZero(t *testing.T) {
	t.Parallel()

	items := []types.CartLineItem{item("100", "100", "0", 5)}
	if got := TotalGST(items); !got.IsZero() {
		t.Fatalf("expected zero gst, got %s", got)
	}
}

func TestShippingFeeThreshold(t *testing.T) {
	t.Parallel()

	if got := ShippingFee(decimal.RequireFromString("499.99")); !got.Equal(FlatShippingFee) {
		t.Fatalf("expected flat fee below threshold, got %s", got)
	}
	if got := ShippingFee(decimal.RequireFromString("500.00")); !got.IsZero() {
		t.Fatalf("expected free shipping at threshold, got %s", got)
	}
	if got := ShippingFee(decimal.NewFromInt(1200)); !got.IsZero() {
		t.Fatalf("expected free shipping above threshold, got %s", got)
	}
}

func TestCouponDiscountPercentageCap(t *testing.T) {
	t.Parallel()

	cap := decimal.NewFromInt(50)
	coupon := &types.Coupon{
		Code:        "SAVE20",
		Type:        enums.CouponTypePercentage,
		Value:       decimal.NewFromInt(20),
		MaxDiscount: &cap,
	}

	got := CouponDiscount(decimal.NewFromInt(1000), coupon)
	if want := decimal.NewFromInt(50); !got.Equal(want) {
		t.Fatalf("expected capped discount %s, got %s", want, got)
	}
}

func TestCouponDiscountPercentageUncapped(t *testing.T) {
	t.Parallel()

	coupon := &types.Coupon{
		Code:  "SAVE10",
		Type:  enums.CouponTypePercentage,
		Value: decimal.NewFromInt(10),
	}

	got := CouponDiscount(decimal.NewFromInt(800), coupon)
	if want := decimal.NewFromInt(80); !got.Equal(want) {
		t.Fatalf("expected discount %s, got %s", want, got)
	}
}

func TestCouponDiscountFlatNeverExceedsSubtotal(t *testing.T) {
	t.Parallel()

	coupon := &types.Coupon{
		Code:  "FLAT1000",
		Type:  enums.CouponTypeFlat,
		Value: decimal.NewFromInt(1000),
	}

	got := CouponDiscount(decimal.NewFromInt(30), coupon)
	if want := decimal.NewFromInt(30); !got.Equal(want) {
		t.Fatalf("expected discount clamped to subtotal, got %s", got)
	}
}

func TestCouponDiscountBelowMinPurchase(t *testing.T) {
	t.Parallel()

	coupon := &types.Coupon{
		Code:        "BIGCART",
		Type:        enums.CouponTypeFlat,
		Value:       decimal.NewFromInt(100),
		MinPurchase: decimal.NewFromInt(500),
	}

	if got := CouponDiscount(decimal.NewFromInt(499), coupon); !got.IsZero() {
		t.Fatalf("expected zero discount below min purchase, got %s", got)
	}
}

func TestCouponDiscountAbsentCoupon(t *testing.T) {
	t.Parallel()

	if got := CouponDiscount(decimal.NewFromInt(100), nil); !got.IsZero() {
		t.Fatalf("expected zero discount with no coupon, got %s", got)
	}
}

func TestQuoteEndToEnd(t *testing.T) {
	t.Parallel()

	items := []types.CartLineItem{item("45", "53", "5", 2)}
	breakdown := Quote(items, nil)

	assertEqual := func(name string, got decimal.Decimal, want string) {
		t.Helper()
		if !got.Equal(decimal.RequireFromString(want)) {
			t.Fatalf("expected %s %s, got %s", name, want, got)
		}
	}

	assertEqual("subtotal", breakdown.Subtotal, "90")
	assertEqual("total_discount", breakdown.TotalDiscount, "16")
	assertEqual("total_gst", breakdown.TotalGST, "4.5")
	assertEqual("shipping_fee", breakdown.ShippingFee, "20")
	assertEqual("platform_fee", breakdown.PlatformFee, "2")
	assertEqual("coupon_discount", breakdown.CouponDiscount, "0")
	assertEqual("grand_total", breakdown.GrandTotal, "116.5")
}

func TestGrandTotalIdempotentRecompute(t *testing.T) {
	t.Parallel()

	items := []types.CartLineItem{
		item("45", "53", "5", 2),
		item("120", "140", "12", 3),
	}
	coupon := &types.Coupon{
		Code:  "SAVE10",
		Type:  enums.CouponTypePercentage,
		Value: decimal.NewFromInt(10),
	}

	first := GrandTotal(items, coupon)
	second := GrandTotal(items, coupon)
	if !first.Equal(second) {
		t.Fatalf("expected identical recompute, got %s then %s", first, second)
	}
}

func TestGrandTotalNonNegative(t *testing.T) {
	t.Parallel()

	items := []types.CartLineItem{item("10", "10", "0", 1)}
	coupon := &types.Coupon{
		Code:  "FLAT500",
		Type:  enums.CouponTypeFlat,
		Value: decimal.NewFromInt(500),
	}

	got := GrandTotal(items, coupon)
	if got.IsNegative() {
		t.Fatalf("grand total must never be negative, got %s", got)
	}
	// Flat coupon eats the whole subtotal; fees and GST remain.
	if want := decimal.NewFromInt(22); !got.Equal(want) {
		t.Fatalf("expected %s, got %s", want, got)
	}
}

func TestCouponRemovalRestoresBaseline(t *testing.T) {
	t.Parallel()

	items := []types.CartLineItem{item("250", "260", "5", 1)}
	coupon := &types.Coupon{
		Code:  "SAVE20",
		Type:  enums.CouponTypePercentage,
		Value: decimal.NewFromInt(20),
	}

	baseline := GrandTotal(items, nil)
	withCoupon := GrandTotal(items, coupon)
	if withCoupon.Equal(baseline) {
		t.Fatal("expected coupon to change the total")
	}
	if restored := GrandTotal(items, nil); !restored.Equal(baseline) {
		t.Fatalf("expected baseline %s after removal, got %s", baseline, restored)
	}
}
