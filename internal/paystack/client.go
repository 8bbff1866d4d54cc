// Package paystack is a minimal client for the two Paystack transaction
// endpoints this service uses: initialize and verify.
package paystack

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultBaseURL = "https://api.paystack.co"

	// StatusSuccess is the verify-time transaction state that releases value.
	StatusSuccess = "success"

	defaultTimeout = 30 * time.Second
)

// APIError is a response Paystack itself produced (status:false or a non-2xx
// with a parseable body), as opposed to a transport failure.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("paystack api error: http=%d message=%q", e.StatusCode, e.Message)
}

type Client struct {
	SecretKey  string
	BaseURL    string
	httpClient *http.Client
}

// NewClient returns a client using secretKey as the bearer credential.
// baseURL may be empty for the production API.
func NewClient(secretKey, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		SecretKey:  secretKey,
		BaseURL:    baseURL,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Initialize creates a hosted-checkout transaction and returns the
// authorization URL the donor should be redirected to. A gateway rejection
// comes back as *APIError carrying Paystack's message.
func (c *Client) Initialize(ctx context.Context, req InitializeRequest) (*InitializeData, error) {
	body, _ := json.Marshal(req)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/transaction/initialize", bytes.NewBuffer(body))
	if err != nil {
		return nil, fmt.Errorf("paystack initialize request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Cache-Control", "no-cache")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack initialize: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	var res struct {
		Status  bool           `json:"status"`
		Message string         `json:"message"`
		Data    InitializeData `json:"data"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("paystack initialize decode: http=%d err=%w body=%s", resp.StatusCode, err, string(raw))
	}

	if resp.StatusCode != http.StatusOK || !res.Status {
		return nil, &APIError{StatusCode: resp.StatusCode, Message: res.Message}
	}
	if res.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("paystack initialize: missing authorization_url body=%s", string(raw))
	}
	return &res.Data, nil
}

// Verify fetches the server-side state of a transaction by reference. Any
// transport-level failure (network error, non-2xx, malformed body) is an
// error; callers must not treat it as a verdict on the transaction.
//
// Paystack replies have been observed in two shapes: the documented
// {status:true,data:{status:"success",...}} and an older {status:true,...}
// with no nested state. The nested data.status string is authoritative; a
// bare top-level true with no data.status is read as success.
func (c *Client) Verify(ctx context.Context, reference string) (*VerifyData, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/transaction/verify/"+reference, nil)
	if err != nil {
		return nil, fmt.Errorf("paystack verify request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.SecretKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("paystack verify: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(resp.Body)

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("paystack verify: http=%d body=%s", resp.StatusCode, string(raw))
	}

	var res struct {
		Status  json.RawMessage `json:"status"`
		Message string          `json:"message"`
		Data    VerifyData      `json:"data"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("paystack verify decode: err=%w body=%s", err, string(raw))
	}

	data := res.Data
	if data.Status == "" {
		var ok bool
		if json.Unmarshal(res.Status, &ok) == nil && ok {
			data.Status = StatusSuccess
		}
	}
	if data.Message == "" {
		data.Message = res.Message
	}
	return &data, nil
}
