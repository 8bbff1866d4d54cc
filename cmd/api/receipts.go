package main

import (
	"context"

	"givestack/internal/donations"
	"givestack/internal/mailer"
)

// receiptMailer adapts the mailer client to the donation flow's best-effort
// receipt hook.
type receiptMailer struct {
	client mailer.Client
}

func (m receiptMailer) SendReceipt(ctx context.Context, d *donations.Donation) error {
	_, err := m.client.Send(mailer.DonationReceiptTemplate, d.FirstName, d.Email, d)
	return err
}
