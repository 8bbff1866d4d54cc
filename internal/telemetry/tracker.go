// Package telemetry reports successful charges to the Paystack plugin
// tracker. Calls are best-effort: callers log and drop any error.
package telemetry

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const defaultEndpoint = "https://plugin-tracker.paystackintegrations.com/log/charge_success"

type Tracker struct {
	PluginName string
	PublicKey  string
	Endpoint   string
	httpClient *http.Client
}

// NewTracker returns a tracker identifying this integration by pluginName and
// its public key. The secret key never leaves the service through here.
func NewTracker(pluginName, publicKey string) *Tracker {
	return &Tracker{
		PluginName: pluginName,
		PublicKey:  publicKey,
		Endpoint:   defaultEndpoint,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}
}

// LogChargeSuccess posts one form-encoded usage record for a verified charge.
func (t *Tracker) LogChargeSuccess(ctx context.Context, reference string) error {
	form := url.Values{}
	form.Set("plugin_name", t.PluginName)
	form.Set("transaction_reference", reference)
	form.Set("public_key", t.PublicKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("tracker request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("tracker post: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode >= http.StatusBadRequest {
		return fmt.Errorf("tracker post: http=%d", resp.StatusCode)
	}
	return nil
}
