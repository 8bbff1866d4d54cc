// Package currency holds the fixed catalogue of donation currencies the
// Paystack gateway accepts, plus the display metadata a checkout form needs.
package currency

import "math"

// Currency describes one supported donation currency.
type Currency struct {
	Code               string `json:"code"`
	Label              string `json:"label"`
	Symbol             string `json:"symbol"`
	SymbolPosition     string `json:"symbol_position"` // "before" or "after" the amount
	ThousandsSeparator string `json:"thousands_separator"`
	DecimalSeparator   string `json:"decimal_separator"`
	Decimals           int    `json:"decimals"`
}

// codes preserves a stable listing order for Supported.
var codes = []string{"NGN", "GHS", "ZAR", "KES", "XOF", "EGP", "USD"}

var catalogue = map[string]Currency{
	"NGN": {
		Code:               "NGN",
		Label:              "Nigerian Naira",
		Symbol:             "₦",
		SymbolPosition:     "before",
		ThousandsSeparator: ",",
		DecimalSeparator:   ".",
		Decimals:           2,
	},
	"GHS": {
		Code:               "GHS",
		Label:              "Ghana Cedis",
		Symbol:             "GHS",
		SymbolPosition:     "before",
		ThousandsSeparator: ".",
		DecimalSeparator:   ",",
		Decimals:           2,
	},
	"ZAR": {
		Code:               "ZAR",
		Label:              "South African Rands",
		Symbol:             "ZAR",
		SymbolPosition:     "before",
		ThousandsSeparator: ".",
		DecimalSeparator:   ",",
		Decimals:           2,
	},
	"KES": {
		Code:               "KES",
		Label:              "Kenyan Shillings",
		Symbol:             "KES",
		SymbolPosition:     "before",
		ThousandsSeparator: ".",
		DecimalSeparator:   ",",
		Decimals:           2,
	},
	"XOF": {
		Code:               "XOF",
		Label:              "West African CFA franc",
		Symbol:             "XOF",
		SymbolPosition:     "before",
		ThousandsSeparator: ".",
		DecimalSeparator:   ",",
		Decimals:           2,
	},
	"EGP": {
		Code:               "EGP",
		Label:              "Egyptian Pound",
		Symbol:             "£",
		SymbolPosition:     "before",
		ThousandsSeparator: ".",
		DecimalSeparator:   ",",
		Decimals:           2,
	},
	"USD": {
		Code:               "USD",
		Label:              "US Dollars",
		Symbol:             "USD",
		SymbolPosition:     "before",
		ThousandsSeparator: ",",
		DecimalSeparator:   ".",
		Decimals:           2,
	},
}

// Get returns the catalogue entry for code.
func Get(code string) (Currency, bool) {
	c, ok := catalogue[code]
	return c, ok
}

// IsSupported reports whether code is in the catalogue.
func IsSupported(code string) bool {
	_, ok := catalogue[code]
	return ok
}

// Supported returns all catalogue entries in a stable order.
func Supported() []Currency {
	out := make([]Currency, 0, len(codes))
	for _, code := range codes {
		out = append(out, catalogue[code])
	}
	return out
}

// MinorUnits converts a major-unit amount to the integer minor-unit amount
// the gateway expects (25.50 -> 2550).
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}
