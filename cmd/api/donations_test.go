package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"givestack/internal/paystack"
)

func checkoutBody(t *testing.T, overrides map[string]any) *bytes.Reader {
	t.Helper()

	payload := map[string]any{
		"amount":     100.0,
		"currency":   "NGN",
		"email":      "donor@example.com",
		"first_name": "Ada",
		"last_name":  "Obi",
		"form_id":    7,
		"form_title": "Clean Water Fund",
	}
	for k, v := range overrides {
		if v == nil {
			delete(payload, k)
			continue
		}
		payload[k] = v
	}

	b, err := json.Marshal(payload)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(b)
}

func TestCheckoutRedirect(t *testing.T) {
	store := newStubStore()

	gateway := &stubGateway{
		initializeFn: func(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeData, error) {
			if req.Amount != 10000 {
				t.Errorf("expected amount in minor units 10000, got %d", req.Amount)
			}
			if req.Email != "donor@example.com" {
				t.Errorf("unexpected email %s", req.Email)
			}
			return &paystack.InitializeData{
				AuthorizationURL: "https://checkout.paystack.com/abc123",
				AccessCode:       "abc123",
				Reference:        req.Reference,
			}, nil
		},
	}

	app := newTestApplication(t, store, gateway)
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodPost, "/v1/donations/checkout", checkoutBody(t, nil))
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusOK, rr.Code)

	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Data["authorization_url"] != "https://checkout.paystack.com/abc123" {
		t.Errorf("unexpected authorization_url %s", body.Data["authorization_url"])
	}
	if body.Data["reference"] == "" {
		t.Error("expected a generated reference")
	}
}

func TestCheckoutInlineSkipsGateway(t *testing.T) {
	store := newStubStore()

	// No initializeFn: the inline path must never call the gateway.
	app := newTestApplication(t, store, &stubGateway{})
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodPost, "/v1/donations/checkout?mode=inline", checkoutBody(t, nil))
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusOK, rr.Code)

	var body struct {
		Data paystack.InlineParams `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Data.Key != "pk_test_abc" {
		t.Errorf("expected public key in inline params, got %s", body.Data.Key)
	}
	if body.Data.Amount != 10000 {
		t.Errorf("expected amount 10000, got %d", body.Data.Amount)
	}
}

func TestCheckoutValidation(t *testing.T) {
	app := newTestApplication(t, newStubStore(), &stubGateway{})
	mux := app.mount()

	cases := []struct {
		name      string
		overrides map[string]any
	}{
		{"missing email", map[string]any{"email": nil}},
		{"zero amount", map[string]any{"amount": 0}},
		{"negative amount", map[string]any{"amount": -5}},
		{"lowercase currency", map[string]any{"currency": "ngn"}},
		{"unsupported currency", map[string]any{"currency": "GBP"}},
		{"missing form id", map[string]any{"form_id": nil}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req, _ := http.NewRequest(http.MethodPost, "/v1/donations/checkout", checkoutBody(t, tc.overrides))
			rr := executeRequest(req, mux)
			checkResponseCode(t, http.StatusBadRequest, rr.Code)
		})
	}
}

func TestCheckoutInvalidMode(t *testing.T) {
	app := newTestApplication(t, newStubStore(), &stubGateway{})
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodPost, "/v1/donations/checkout?mode=popup", checkoutBody(t, nil))
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusBadRequest, rr.Code)
}

func TestCheckoutGatewayRejection(t *testing.T) {
	store := newStubStore()

	gateway := &stubGateway{
		initializeFn: func(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeData, error) {
			return nil, &paystack.APIError{StatusCode: http.StatusUnauthorized, Message: "Invalid key"}
		},
	}

	app := newTestApplication(t, store, gateway)
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodPost, "/v1/donations/checkout", checkoutBody(t, nil))
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusBadGateway, rr.Code)

	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Message != "Invalid key" {
		t.Errorf("expected the gateway's message, got %q", body.Message)
	}
}

func TestCheckoutRecordCreationFailure(t *testing.T) {
	store := newStubStore()
	store.createErr = errors.New("connection reset by peer")

	// No initializeFn: the donor must never reach the gateway without a record.
	app := newTestApplication(t, store, &stubGateway{})
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodPost, "/v1/donations/checkout", checkoutBody(t, nil))
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusInternalServerError, rr.Code)
}

func TestCheckoutConfig(t *testing.T) {
	app := newTestApplication(t, newStubStore(), &stubGateway{})
	mux := app.mount()

	req, _ := http.NewRequest(http.MethodGet, "/v1/donations/checkout/config", nil)
	rr := executeRequest(req, mux)

	checkResponseCode(t, http.StatusOK, rr.Code)

	var body struct {
		Data struct {
			Key            string           `json:"key"`
			BillingDetails bool             `json:"billing_details"`
			Currencies     []map[string]any `json:"currencies"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &body); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if body.Data.Key != "pk_test_abc" {
		t.Errorf("expected the public key, got %s", body.Data.Key)
	}
	if len(body.Data.Currencies) == 0 {
		t.Error("expected the supported currency catalogue")
	}
}
