package main

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"givestack/internal/donations"
)

// paystackCallbackHandler godoc
//
//	@Summary		Paystack verification callback
//	@Description	Verifies a transaction server-side after Paystack redirects the donor back. Requires paystack-api=verify and a reference
//	@Tags			donations
//	@Produce		json
//	@Param			paystack-api	query	string	true	"Must be 'verify'"
//	@Param			reference		query	string	true	"Transaction reference (purchase key)"
//	@Success		302	"Redirect to the success page"
//	@Success		200	{object}	map[string]string	"Explicit non-success body"
//	@Failure		404	{object}	error				"Unknown reference"
//	@Failure		502	{object}	error				"Verification could not be completed; safe to retry"
//	@Router			/paystack/callback [get]
func (app *application) paystackCallbackHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	if q.Get(donations.APIQueryVar) != donations.APIVerifyValue {
		app.notFoundResponse(w, r, fmt.Errorf("missing or invalid %s action", donations.APIQueryVar))
		return
	}

	reference := q.Get("reference")
	if reference == "" {
		app.badRequestResponse(w, r, fmt.Errorf("missing reference"))
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 35*time.Second)
	defer cancel()

	out := app.donations.Verify(ctx, reference)

	switch out.Kind {
	case donations.VerificationGranted:
		http.Redirect(w, r, out.RedirectURL, http.StatusFound)

	case donations.VerificationDenied:
		writeJSON(w, http.StatusOK, map[string]string{
			"status":  "not-given",
			"message": out.Message,
		})

	case donations.VerificationUnknownRef:
		// Never create a record for a reference we did not issue.
		writeJSONError(w, http.StatusNotFound, out.Message)

	default: // donations.VerificationTransportErr
		// No state changed; the gateway (or donor) may retry the same reference.
		app.badGatewayResponse(w, r, out.Message)
	}
}
