package donations

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"givestack/internal/infra/dbx"

	"github.com/jackc/pgx/v5"
)

const donationColumns = `id, amount, currency, email, first_name, last_name,
	       purchase_key, status, form_id, form_title, price_id,
	       created_at, updated_at`

type Repository struct{ q dbx.Querier }

func NewRepository(q dbx.Querier) *Repository { return &Repository{q: q} }

func (r *Repository) Create(ctx context.Context, d *Donation) (*Donation, error) {
	if err := r.q.QueryRow(ctx, `
		INSERT INTO donations (amount, currency, email, first_name, last_name,
		                       purchase_key, status, form_id, form_title, price_id)
		VALUES (
			$1,
			COALESCE(NULLIF($2,''),'NGN'),
			$3, $4, $5, $6,
			COALESCE(NULLIF($7,''),'pending')::donation_status,
			$8, $9, $10
		)
		RETURNING id, status, created_at, updated_at
	`, d.Amount, d.Currency, d.Email, d.FirstName, d.LastName,
		d.PurchaseKey, string(d.Status), d.FormID, d.FormTitle, d.PriceID).
		Scan(&d.ID, &d.Status, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, fmt.Errorf("create donation: %w", err)
	}
	return d, nil
}

func (r *Repository) GetByID(ctx context.Context, id int64) (*Donation, error) {
	return r.getOne(ctx, `SELECT `+donationColumns+` FROM donations WHERE id=$1`, id)
}

func (r *Repository) GetByPurchaseKey(ctx context.Context, key string) (*Donation, error) {
	return r.getOne(ctx, `SELECT `+donationColumns+` FROM donations WHERE purchase_key=$1 LIMIT 1`, key)
}

func (r *Repository) getOne(ctx context.Context, query string, arg any) (*Donation, error) {
	var d Donation
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&d.ID, &d.Amount, &d.Currency, &d.Email, &d.FirstName, &d.LastName,
		&d.PurchaseKey, &d.Status, &d.FormID, &d.FormTitle, &d.PriceID,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get donation: %w", err)
	}
	return &d, nil
}

// MarkComplete transitions a pending donation to complete. The status guard in
// the WHERE clause makes the transition one-shot under concurrent callbacks.
func (r *Repository) MarkComplete(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE donations
		   SET status='complete'::donation_status,
		       completed_at=now(),
		       updated_at=now()
		 WHERE id=$1 AND status='pending'::donation_status
	`, id)
	if err != nil {
		return false, fmt.Errorf("mark donation complete: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *Repository) MarkFailed(ctx context.Context, id int64) (bool, error) {
	tag, err := r.q.Exec(ctx, `
		UPDATE donations
		   SET status='failed'::donation_status,
		       updated_at=now()
		 WHERE id=$1 AND status='pending'::donation_status
	`, id)
	if err != nil {
		return false, fmt.Errorf("mark donation failed: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetGatewayResponse stores the raw verify payload for support and audit.
func (r *Repository) SetGatewayResponse(ctx context.Context, id int64, raw any) error {
	var jb []byte
	if raw != nil {
		if b, err := json.Marshal(raw); err == nil {
			jb = b
		}
	}
	_, err := r.q.Exec(ctx, `
		UPDATE donations SET gateway_response=$2, updated_at=now() WHERE id=$1
	`, id, jb)
	return err
}

func (r *Repository) AppendNote(ctx context.Context, id int64, body string) error {
	_, err := r.q.Exec(ctx, `
		INSERT INTO donation_notes (donation_id, body) VALUES ($1, $2)
	`, id, body)
	if err != nil {
		return fmt.Errorf("append donation note: %w", err)
	}
	return nil
}

func (r *Repository) ListNotes(ctx context.Context, id int64) ([]*Note, error) {
	rows, err := r.q.Query(ctx, `
		SELECT id, donation_id, body, created_at
		FROM donation_notes WHERE donation_id=$1 ORDER BY id ASC
	`, id)
	if err != nil {
		return nil, fmt.Errorf("list donation notes: %w", err)
	}
	defer rows.Close()

	var out []*Note
	for rows.Next() {
		var n Note
		if err := rows.Scan(&n.ID, &n.DonationID, &n.Body, &n.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan donation note: %w", err)
		}
		out = append(out, &n)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// List returns donations newest-first with an optional status filter and a
// total count for pagination.
func (r *Repository) List(ctx context.Context, status Status, limit, offset int) ([]*Donation, int, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.q.Query(ctx, `
		SELECT `+donationColumns+`,
		       COUNT(*) OVER() AS total_count
		FROM donations
		WHERE ($1 = '' OR status = $1::donation_status)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3
	`, string(status), limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list donations: %w", err)
	}
	defer rows.Close()

	var (
		out   []*Donation
		total int
	)
	for rows.Next() {
		var d Donation
		var t int
		if err := rows.Scan(
			&d.ID, &d.Amount, &d.Currency, &d.Email, &d.FirstName, &d.LastName,
			&d.PurchaseKey, &d.Status, &d.FormID, &d.FormTitle, &d.PriceID,
			&d.CreatedAt, &d.UpdatedAt, &t,
		); err != nil {
			return nil, 0, fmt.Errorf("scan donation: %w", err)
		}
		if total == 0 {
			total = t
		}
		out = append(out, &d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows error: %w", err)
	}
	return out, total, nil
}
