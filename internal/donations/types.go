package donations

import (
	"context"
	"time"
)

// Query params a Paystack callback must carry to trigger verification.
const (
	APIQueryVar    = "paystack-api"
	APIVerifyValue = "verify"
)

// Status is the lifecycle state of a donation. Transitions are one-shot:
// pending -> complete or pending -> failed, never back.
type Status string

const (
	StatusPending  Status = "pending"
	StatusComplete Status = "complete"
	StatusFailed   Status = "failed"
)

func (s Status) Terminal() bool {
	return s == StatusComplete || s == StatusFailed
}

// Donation is one recorded donation attempt. PurchaseKey doubles as the
// Paystack transaction reference and is the only correlation key between
// checkout and the verification callback.
type Donation struct {
	ID          int64     `json:"id"`
	Amount      float64   `json:"amount"` // major units
	Currency    string    `json:"currency"`
	Email       string    `json:"email"`
	FirstName   string    `json:"first_name"`
	LastName    string    `json:"last_name"`
	PurchaseKey string    `json:"purchase_key"`
	Status      Status    `json:"status"`
	FormID      int64     `json:"form_id"`
	FormTitle   string    `json:"form_title"`
	PriceID     string    `json:"price_id,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Note is an operator-visible annotation on a donation, e.g. the gateway
// message recorded when verification is denied.
type Note struct {
	ID         int64     `json:"id"`
	DonationID int64     `json:"donation_id"`
	Body       string    `json:"body"`
	CreatedAt  time.Time `json:"created_at"`
}

// Store is the persistence boundary for donations. Lookups that find nothing
// return (nil, nil). MarkComplete and MarkFailed apply only to rows still
// pending and report whether the write took effect, so concurrent callbacks
// for the same reference can only ever race to a single identical transition.
type Store interface {
	Create(ctx context.Context, d *Donation) (*Donation, error)
	GetByID(ctx context.Context, id int64) (*Donation, error)
	GetByPurchaseKey(ctx context.Context, key string) (*Donation, error)
	MarkComplete(ctx context.Context, id int64) (bool, error)
	MarkFailed(ctx context.Context, id int64) (bool, error)
	SetGatewayResponse(ctx context.Context, id int64, raw any) error
	AppendNote(ctx context.Context, id int64, body string) error
	ListNotes(ctx context.Context, id int64) ([]*Note, error)
	List(ctx context.Context, status Status, limit, offset int) ([]*Donation, int, error)
}
