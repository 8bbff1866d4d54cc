package paystack

// MetadataField is one entry of metadata.custom_fields on a transaction.
type MetadataField struct {
	DisplayName  string `json:"display_name"`
	VariableName string `json:"variable_name"`
	Value        string `json:"value"`
}

type Metadata struct {
	CustomFields []MetadataField `json:"custom_fields"`
}

// InitializeRequest is the body for POST /transaction/initialize.
// Amount is in integer minor units (kobo, pesewas, cents).
type InitializeRequest struct {
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"`
	Reference   string   `json:"reference"`
	CallbackURL string   `json:"callback_url"`
	Currency    string   `json:"currency"`
	Metadata    Metadata `json:"metadata"`
}

// InitializeData is the data object of a successful initialization.
type InitializeData struct {
	AuthorizationURL string `json:"authorization_url"`
	AccessCode       string `json:"access_code"`
	Reference        string `json:"reference"`
}

// VerifyData is the data object of GET /transaction/verify/{reference}.
// Status is the authoritative transaction state ("success", "failed",
// "abandoned", ...).
type VerifyData struct {
	Status          string `json:"status"`
	Message         string `json:"message"`
	GatewayResponse string `json:"gateway_response"`
	Amount          int64  `json:"amount"`
	Currency        string `json:"currency"`
	Channel         string `json:"channel"`
	PaidAt          string `json:"paid_at"`
}

// InlineParams is everything a browser-side inline checkout widget needs to
// open a charge without a server-side initialization call. It deliberately
// carries the public key only.
type InlineParams struct {
	Key         string   `json:"key"`
	Email       string   `json:"email"`
	Amount      int64    `json:"amount"`
	Reference   string   `json:"ref"`
	Currency    string   `json:"currency"`
	CallbackURL string   `json:"callback_url"`
	Metadata    Metadata `json:"metadata"`
}
