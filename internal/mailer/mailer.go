package mailer

import "embed"

const (
	FromName                = "Givestack"
	maxRetries              = 3
	DonationReceiptTemplate = "donation_receipt.tmpl"
)

//go:embed "templates"
var FS embed.FS

type Client interface {
	Send(templateFile, name, email string, data any) (int, error)
}
