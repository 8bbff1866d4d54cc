package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"givestack/internal/currency"
	"givestack/internal/donations"
)

// checkoutDonationHandler godoc
//
//	@Summary		Start a donation checkout
//	@Description	Records a pending donation and either returns the Paystack hosted-page URL (redirect mode) or the inline widget parameters (inline mode)
//	@Tags			donations
//	@Accept			json
//	@Produce		json
//	@Param			mode	query		string						false	"Checkout mode: redirect (default) or inline"
//	@Param			payload	body		donations.CheckoutRequest	true	"Donation submission"
//	@Success		200		{object}	map[string]any				"Redirect URL or inline params"
//	@Failure		400		{object}	error						"Invalid submission"
//	@Failure		502		{object}	error						"Gateway rejected or unreachable"
//	@Router			/donations/checkout [post]
func (app *application) checkoutDonationHandler(w http.ResponseWriter, r *http.Request) {
	var payload donations.CheckoutRequest
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if err := Validate.Struct(&payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	if !currency.IsSupported(payload.Currency) {
		app.badRequestResponse(w, r, fmt.Errorf("unsupported currency: %s", payload.Currency))
		return
	}

	mode, err := donations.ParseCheckoutMode(r.URL.Query().Get("mode"))
	if err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	out := app.donations.Initiate(ctx, payload, mode)

	switch out.Kind {
	case donations.InitiationRedirect:
		app.jsonResponse(w, http.StatusOK, map[string]string{
			"authorization_url": out.RedirectURL,
			"reference":         out.Donation.PurchaseKey,
		})

	case donations.InitiationInline:
		app.jsonResponse(w, http.StatusOK, out.Inline)

	case donations.InitiationCheckoutErr:
		// The donor goes back to checkout; surface the gateway's message.
		app.badGatewayResponse(w, r, out.Message)

	default: // donations.InitiationRecordFailed
		writeJSONError(w, http.StatusInternalServerError, out.Message)
	}
}

// checkoutConfigHandler godoc
//
//	@Summary		Checkout form configuration
//	@Description	Public key, billing-details toggle and supported currencies for a client-side donation form
//	@Tags			donations
//	@Produce		json
//	@Success		200	{object}	map[string]any
//	@Router			/donations/checkout/config [get]
func (app *application) checkoutConfigHandler(w http.ResponseWriter, r *http.Request) {
	creds := app.config.paystack.keys.Credentials()

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"key":             creds.PublicKey,
		"billing_details": app.config.paystack.billingDetails,
		"currencies":      currency.Supported(),
	})
}
