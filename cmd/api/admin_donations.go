package main

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"givestack/internal/donations"

	"github.com/go-chi/chi/v5"
)

// listDonationsHandler godoc
//
//	@Summary		List donations
//	@Description	Paginated donation list for operators, optionally filtered by status
//	@Tags			admin
//	@Produce		json
//	@Param			status	query		string	false	"pending | complete | failed"
//	@Param			limit	query		int		false	"Page size (default 20, max 100)"
//	@Param			offset	query		int		false	"Offset"
//	@Success		200		{object}	map[string]any
//	@Security		BasicAuth
//	@Router			/admin/donations [get]
func (app *application) listDonationsHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	q := r.URL.Query()

	status := donations.Status(q.Get("status"))
	switch status {
	case "", donations.StatusPending, donations.StatusComplete, donations.StatusFailed:
	default:
		app.badRequestResponse(w, r, fmt.Errorf("invalid status filter: %s", status))
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	list, total, err := app.store.List(ctx, status, limit, offset)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"donations": list,
		"total":     total,
	})
}

// getDonationHandler godoc
//
//	@Summary		Get one donation
//	@Description	A single donation with its operator notes
//	@Tags			admin
//	@Produce		json
//	@Param			donationID	path		int	true	"Donation ID"
//	@Success		200			{object}	map[string]any
//	@Failure		404			{object}	error
//	@Security		BasicAuth
//	@Router			/admin/donations/{donationID} [get]
func (app *application) getDonationHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	id, err := strconv.ParseInt(chi.URLParam(r, "donationID"), 10, 64)
	if err != nil || id <= 0 {
		app.badRequestResponse(w, r, fmt.Errorf("invalid donation id"))
		return
	}

	d, err := app.store.GetByID(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}
	if d == nil {
		app.notFoundResponse(w, r, fmt.Errorf("donation %d not found", id))
		return
	}

	notes, err := app.store.ListNotes(ctx, id)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"donation": d,
		"notes":    notes,
	})
}
