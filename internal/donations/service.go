// Package donations implements the two halves of the Paystack donation flow:
// initiating a checkout for a pending donation and verifying the transaction
// when the gateway calls back.
package donations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"givestack/internal/currency"
	"givestack/internal/paystack"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Gateway is the slice of the Paystack client the flow needs.
type Gateway interface {
	Initialize(ctx context.Context, req paystack.InitializeRequest) (*paystack.InitializeData, error)
	Verify(ctx context.Context, reference string) (*paystack.VerifyData, error)
}

// UsageLogger records a verified charge with the plugin tracker. Optional.
type UsageLogger interface {
	LogChargeSuccess(ctx context.Context, reference string) error
}

// ReceiptSender emails the donor after a completed donation. Optional.
type ReceiptSender interface {
	SendReceipt(ctx context.Context, d *Donation) error
}

// CheckoutMode picks between the hosted redirect page and the inline widget.
type CheckoutMode string

const (
	ModeRedirect CheckoutMode = "redirect"
	ModeInline   CheckoutMode = "inline"
)

func ParseCheckoutMode(s string) (CheckoutMode, error) {
	switch CheckoutMode(s) {
	case ModeRedirect, ModeInline:
		return CheckoutMode(s), nil
	case "":
		return ModeRedirect, nil
	default:
		return "", fmt.Errorf("invalid checkout mode %q (want redirect or inline)", s)
	}
}

// CheckoutRequest is a validated donation submission.
type CheckoutRequest struct {
	Amount      float64 `json:"amount" validate:"required,gt=0"`
	Currency    string  `json:"currency" validate:"required,len=3,uppercase"`
	Email       string  `json:"email" validate:"required,email"`
	FirstName   string  `json:"first_name" validate:"max=100"`
	LastName    string  `json:"last_name" validate:"max=100"`
	FormID      int64   `json:"form_id" validate:"required,gt=0"`
	FormTitle   string  `json:"form_title" validate:"max=255"`
	PriceID     string  `json:"price_id" validate:"max=64"`
	PurchaseKey string  `json:"purchase_key" validate:"max=64"`
}

type InitiationKind string

const (
	InitiationRedirect     InitiationKind = "redirect"
	InitiationInline       InitiationKind = "inline_widget"
	InitiationCheckoutErr  InitiationKind = "checkout_error"
	InitiationRecordFailed InitiationKind = "record_creation_failed"
)

// Initiation is the outcome of one checkout attempt. Exactly one of
// RedirectURL and Inline is set for the happy paths; Message is donor-facing
// for the error kinds.
type Initiation struct {
	Kind        InitiationKind
	Donation    *Donation
	RedirectURL string
	Inline      *paystack.InlineParams
	Message     string
}

type VerificationKind string

const (
	VerificationGranted      VerificationKind = "granted"
	VerificationDenied       VerificationKind = "denied"
	VerificationUnknownRef   VerificationKind = "unknown_reference"
	VerificationTransportErr VerificationKind = "transport_error"
)

// Verification is the outcome of one callback verification.
type Verification struct {
	Kind        VerificationKind
	Donation    *Donation
	RedirectURL string
	Message     string
}

// Config is the static wiring the flow needs.
type Config struct {
	PublicKey       string
	CallbackBaseURL string // e.g. https://give.example.com/v1/paystack/callback
	SuccessPageURL  string
	PluginName      string // reported in transaction metadata and telemetry
}

type Service struct {
	store    Store
	gateway  Gateway
	tracker  UsageLogger
	receipts ReceiptSender
	logger   *zap.SugaredLogger
	cfg      Config
}

// NewService wires the donation flow. tracker and receipts may be nil; both
// are strictly best-effort side channels.
func NewService(store Store, gateway Gateway, tracker UsageLogger, receipts ReceiptSender, logger *zap.SugaredLogger, cfg Config) *Service {
	return &Service{
		store:    store,
		gateway:  gateway,
		tracker:  tracker,
		receipts: receipts,
		logger:   logger,
		cfg:      cfg,
	}
}

// VerifyCallbackURL builds the callback URL handed to Paystack so the
// gateway's redirect lands back on the verification endpoint.
func (s *Service) VerifyCallbackURL(reference string) string {
	q := url.Values{}
	q.Set(APIQueryVar, APIVerifyValue)
	q.Set("reference", reference)
	return s.cfg.CallbackBaseURL + "?" + q.Encode()
}

// Initiate records a pending donation and starts the charge. In redirect mode
// it initializes a hosted checkout with the gateway; in inline mode it only
// emits the widget parameters and the charge happens in the donor's browser.
// The pending record is never rolled back on gateway failure; a later
// verification attempt (or an operator) resolves it.
func (s *Service) Initiate(ctx context.Context, req CheckoutRequest, mode CheckoutMode) Initiation {
	key := strings.TrimSpace(req.PurchaseKey)
	if key == "" {
		key = uuid.NewString()
	}

	d := &Donation{
		Amount:      req.Amount,
		Currency:    req.Currency,
		Email:       req.Email,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		PurchaseKey: key,
		Status:      StatusPending,
		FormID:      req.FormID,
		FormTitle:   req.FormTitle,
		PriceID:     req.PriceID,
	}

	created, err := s.store.Create(ctx, d)
	if err != nil {
		payload, _ := json.Marshal(d)
		s.logger.Errorw("donation record creation failed before sending donor to paystack",
			"reference", key, "payload", string(payload), "error", err.Error())
		return Initiation{
			Kind:    InitiationRecordFailed,
			Message: "your donation could not be recorded, please try again",
		}
	}

	amountMinor := currency.MinorUnits(req.Amount)
	meta := paystack.Metadata{CustomFields: []paystack.MetadataField{
		{DisplayName: "Form Title", VariableName: "form_title", Value: req.FormTitle},
		{DisplayName: "Plugin", VariableName: "plugin", Value: s.cfg.PluginName},
	}}
	callbackURL := s.VerifyCallbackURL(key)

	if mode == ModeInline {
		return Initiation{
			Kind:     InitiationInline,
			Donation: created,
			Inline: &paystack.InlineParams{
				Key:         s.cfg.PublicKey,
				Email:       req.Email,
				Amount:      amountMinor,
				Reference:   key,
				Currency:    req.Currency,
				CallbackURL: callbackURL,
				Metadata:    meta,
			},
		}
	}

	data, err := s.gateway.Initialize(ctx, paystack.InitializeRequest{
		Email:       req.Email,
		Amount:      amountMinor,
		Reference:   key,
		CallbackURL: callbackURL,
		Currency:    req.Currency,
		Metadata:    meta,
	})
	if err != nil {
		msg := "unable to reach the payment gateway, please try again"
		var apiErr *paystack.APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		s.logger.Errorw("paystack initialize failed", "reference", key, "error", err.Error())
		return Initiation{Kind: InitiationCheckoutErr, Donation: created, Message: msg}
	}

	return Initiation{Kind: InitiationRedirect, Donation: created, RedirectURL: data.AuthorizationURL}
}

// Verify resolves a callback reference to a terminal donation status. It is
// idempotent: an unknown reference or a transport failure mutates nothing and
// is safe to retry; a donation already in a terminal state short-circuits to
// its stored outcome.
func (s *Service) Verify(ctx context.Context, reference string) Verification {
	reference = strings.TrimSpace(reference)
	if reference == "" {
		return Verification{Kind: VerificationUnknownRef, Message: "missing transaction reference"}
	}

	d, err := s.store.GetByPurchaseKey(ctx, reference)
	if err != nil {
		s.logger.Errorw("donation lookup failed", "reference", reference, "error", err.Error())
		return Verification{Kind: VerificationTransportErr, Message: "donation lookup failed, retry later"}
	}
	if d == nil {
		return Verification{Kind: VerificationUnknownRef, Message: "not a valid reference"}
	}

	if d.Status.Terminal() {
		return s.storedOutcome(d)
	}

	data, err := s.gateway.Verify(ctx, reference)
	if err != nil {
		s.logger.Errorw("paystack verify failed", "reference", reference, "error", err.Error())
		return Verification{
			Kind:     VerificationTransportErr,
			Donation: d,
			Message:  "verification could not be completed, retry later",
		}
	}

	_ = s.store.SetGatewayResponse(ctx, d.ID, data)

	if data.Status == paystack.StatusSuccess {
		applied, err := s.store.MarkComplete(ctx, d.ID)
		if err != nil {
			s.logger.Errorw("marking donation complete failed", "reference", reference, "error", err.Error())
			return Verification{
				Kind:     VerificationTransportErr,
				Donation: d,
				Message:  "verification result could not be recorded, retry later",
			}
		}
		d.Status = StatusComplete
		if applied {
			s.afterComplete(ctx, d)
		}
		return Verification{Kind: VerificationGranted, Donation: d, RedirectURL: s.cfg.SuccessPageURL}
	}

	gatewayMsg := data.Message
	if gatewayMsg == "" {
		gatewayMsg = data.GatewayResponse
	}
	if gatewayMsg == "" {
		gatewayMsg = data.Status
	}

	applied, err := s.store.MarkFailed(ctx, d.ID)
	if err != nil {
		s.logger.Errorw("marking donation failed errored", "reference", reference, "error", err.Error())
		return Verification{
			Kind:     VerificationTransportErr,
			Donation: d,
			Message:  "verification result could not be recorded, retry later",
		}
	}
	d.Status = StatusFailed
	if applied {
		if nerr := s.store.AppendNote(ctx, d.ID, "ERROR: "+gatewayMsg); nerr != nil {
			s.logger.Warnw("appending donation note failed", "reference", reference, "error", nerr.Error())
		}
	}

	userMsg := data.GatewayResponse
	if userMsg == "" {
		userMsg = gatewayMsg
	}
	return Verification{
		Kind:     VerificationDenied,
		Donation: d,
		Message:  fmt.Sprintf("transaction was not successful: last gateway response was: %s", userMsg),
	}
}

// storedOutcome replays the terminal state of an already-verified donation
// without touching the store or the gateway.
func (s *Service) storedOutcome(d *Donation) Verification {
	if d.Status == StatusComplete {
		return Verification{Kind: VerificationGranted, Donation: d, RedirectURL: s.cfg.SuccessPageURL}
	}
	return Verification{
		Kind:     VerificationDenied,
		Donation: d,
		Message:  "transaction was not successful: donation is already marked failed",
	}
}

// afterComplete runs the best-effort side channels for a donation that just
// completed. Neither can change the verification outcome.
func (s *Service) afterComplete(ctx context.Context, d *Donation) {
	if s.tracker != nil {
		if err := s.tracker.LogChargeSuccess(ctx, d.PurchaseKey); err != nil {
			s.logger.Warnw("usage tracker call failed", "reference", d.PurchaseKey, "error", err.Error())
		}
	}
	if s.receipts != nil {
		if err := s.receipts.SendReceipt(ctx, d); err != nil {
			s.logger.Warnw("donation receipt email failed", "reference", d.PurchaseKey, "error", err.Error())
		}
	}
}
