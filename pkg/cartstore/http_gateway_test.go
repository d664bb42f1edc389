package cartstore

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/freshbasket/freshbasket-backend/pkg/enums"
	pkgerrors "github.com/freshbasket/freshbasket-backend/pkg/errors"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

func TestHTTPGatewayFetchCart(t *testing.T) {
	t.Parallel()

	want := cartPayload{
		Items: []types.CartLineItem{{
			ItemID:            uuid.New(),
			ProductID:         uuid.New(),
			Name:              "Organic Spinach",
			Unit:              enums.ProductUnitPack,
			Quantity:          2,
			UnitPrice:         decimal.RequireFromString("35.00"),
			OriginalUnitPrice: decimal.RequireFromString("40.00"),
			GSTPercent:        decimal.NewFromInt(5),
		}},
		AppliedCoupon: &types.Coupon{
			Code:  "FRESH50",
			Type:  enums.CouponTypeFlat,
			Value: decimal.NewFromInt(50),
		},
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/v1/cart" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer token-123" {
			t.Errorf("missing bearer token, got %q", got)
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(cartEnvelope{Data: want})
	}))
	defer srv.Close()

	gw, err := NewHTTPGateway(HTTPGatewayOptions{BaseURL: srv.URL, AccessToken: "token-123"})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	state, err := gw.FetchCart(context.Background())
	if err != nil {
		t.Fatalf("fetch cart: %v", err)
	}
	if len(state.Items) != 1 || state.Items[0].Name != "Organic Spinach" {
		t.Fatalf("unexpected items: %+v", state.Items)
	}
	if state.AppliedCoupon == nil || state.AppliedCoupon.Code != "FRESH50" {
		t.Fatalf("unexpected coupon: %+v", state.AppliedCoupon)
	}
}

func TestHTTPGatewayDecodesErrorEnvelope(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(types.ErrorEnvelope{Error: types.APIError{
			Code:    string(pkgerrors.CodeConflict),
			Message: "insufficient stock",
			Details: map[string]any{"available": 3},
		}})
	}))
	defer srv.Close()

	gw, err := NewHTTPGateway(HTTPGatewayOptions{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	_, err = gw.AddItem(context.Background(), uuid.New(), 10)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
	details, ok := typed.Details().(map[string]any)
	if !ok || details["available"] != float64(3) {
		t.Fatalf("expected available quantity in details, got %v", typed.Details())
	}
}

func TestHTTPGatewayUnreachableIsRetryable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	gw, err := NewHTTPGateway(HTTPGatewayOptions{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	_, err = gw.RemoveCoupon(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if !pkgerrors.IsRetryable(err) {
		t.Fatal("gateway outage must be retryable")
	}
}

func TestHTTPGatewayNonEnvelopeErrorFallsBackToStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	gw, err := NewHTTPGateway(HTTPGatewayOptions{BaseURL: srv.URL})
	if err != nil {
		t.Fatalf("new gateway: %v", err)
	}

	_, err = gw.Clear(context.Background())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error for 5xx, got %v", err)
	}
}

func TestNewHTTPGatewayRequiresBaseURL(t *testing.T) {
	t.Parallel()

	if _, err := NewHTTPGateway(HTTPGatewayOptions{}); err == nil {
		t.Fatal("expected error for missing base URL")
	}
}
