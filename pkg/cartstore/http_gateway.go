package cartstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	pkgerrors "github.com/freshbasket/freshbasket-backend/pkg/errors"
	"github.com/freshbasket/freshbasket-backend/pkg/types"
)

// HTTPGateway talks to the FreshBasket cart API. Responses are decoded from
// the standard data/error envelopes; transport failures surface as
// DEPENDENCY_ERROR so callers can distinguish retryable outages from
// server-side rejections.
type HTTPGateway struct {
	baseURL     string
	accessToken string
	client      *http.Client
}

type HTTPGatewayOptions struct {
	BaseURL     string
	AccessToken string
	Client      *http.Client
}

func NewHTTPGateway(opts HTTPGatewayOptions) (*HTTPGateway, error) {
	if opts.BaseURL == "" {
		return nil, fmt.Errorf("base URL is required")
	}
	if _, err := url.Parse(opts.BaseURL); err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	client := opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPGateway{
		baseURL:     strings.TrimRight(opts.BaseURL, "/"),
		accessToken: opts.AccessToken,
		client:      client,
	}, nil
}

type cartPayload struct {
	Items         []types.CartLineItem `json:"items"`
	AppliedCoupon *types.Coupon        `json:"applied_coupon,omitempty"`
}

type cartEnvelope struct {
	Data cartPayload `json:"data"`
}

func (g *HTTPGateway) FetchCart(ctx context.Context) (types.CartState, error) {
	return g.do(ctx, http.MethodGet, "/v1/cart", nil)
}

func (g *HTTPGateway) AddItem(ctx context.Context, productID uuid.UUID, quantity int) (types.CartState, error) {
	body := map[string]any{"product_id": productID, "quantity": quantity}
	return g.do(ctx, http.MethodPost, "/v1/cart/items", body)
}

func (g *HTTPGateway) SetQuantity(ctx context.Context, itemID uuid.UUID, quantity int) (types.CartState, error) {
	body := map[string]any{"quantity": quantity}
	return g.do(ctx, http.MethodPut, "/v1/cart/items/"+itemID.String(), body)
}

func (g *HTTPGateway) RemoveItem(ctx context.Context, itemID uuid.UUID) (types.CartState, error) {
	return g.do(ctx, http.MethodDelete, "/v1/cart/items/"+itemID.String(), nil)
}

func (g *HTTPGateway) Clear(ctx context.Context) (types.CartState, error) {
	return g.do(ctx, http.MethodDelete, "/v1/cart", nil)
}

func (g *HTTPGateway) ApplyCoupon(ctx context.Context, code string) (types.CartState, error) {
	body := map[string]any{"code": code}
	return g.do(ctx, http.MethodPost, "/v1/cart/coupon", body)
}

func (g *HTTPGateway) RemoveCoupon(ctx context.Context) (types.CartState, error) {
	return g.do(ctx, http.MethodDelete, "/v1/cart/coupon", nil)
}

func (g *HTTPGateway) do(ctx context.Context, method, path string, body any) (types.CartState, error) {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return types.CartState{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "encoding request body")
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, g.baseURL+path, reader)
	if err != nil {
		return types.CartState{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "building request")
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if g.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+g.accessToken)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return types.CartState{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cart gateway unreachable")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return types.CartState{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "reading cart gateway response")
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return types.CartState{}, decodeAPIError(resp.StatusCode, raw)
	}

	var envelope cartEnvelope
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return types.CartState{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decoding cart gateway response")
	}

	return types.CartState{
		Items:         envelope.Data.Items,
		AppliedCoupon: envelope.Data.AppliedCoupon,
	}, nil
}

// decodeAPIError turns an error envelope back into a typed error, falling
// back to a status-derived code when the body is not an envelope.
func decodeAPIError(status int, raw []byte) error {
	var envelope types.ErrorEnvelope
	if err := json.Unmarshal(raw, &envelope); err == nil && envelope.Error.Code != "" {
		apiErr := pkgerrors.New(pkgerrors.Code(envelope.Error.Code), envelope.Error.Message)
		if envelope.Error.Details != nil {
			apiErr = apiErr.WithDetails(envelope.Error.Details)
		}
		return apiErr
	}

	switch {
	case status == http.StatusNotFound:
		return pkgerrors.New(pkgerrors.CodeNotFound, "resource not found")
	case status == http.StatusUnauthorized:
		return pkgerrors.New(pkgerrors.CodeUnauthorized, "authentication required")
	case status >= 500:
		return pkgerrors.New(pkgerrors.CodeDependency, fmt.Sprintf("cart gateway returned status %d", status))
	default:
		return pkgerrors.New(pkgerrors.CodeInternal, fmt.Sprintf("cart gateway returned status %d", status))
	}
}
