package main

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/lifecycle"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/media"
	"github.com/go-chi/chi/v5"
)

// bookingView is a cached booking decorated with the actions the client may
// offer for it, looked up from the transition table rather than re-derived
// per call site.
type bookingView struct {
	*booking.Booking
	Actions []booking.Action `json:"actions"`
}

type collectionResponse struct {
	Bookings []bookingView `json:"bookings"`
	Stale    bool          `json:"stale"`
}

func viewsOf(bs []*booking.Booking) []bookingView {
	out := make([]bookingView, 0, len(bs))
	for _, b := range bs {
		out = append(out, bookingView{Booking: b, Actions: booking.LegalActions(b)})
	}
	return out
}

// listBookingsHandler serves the cached collection, syncing first if this
// user has never been synced. A stale cache is served as-is but flagged.
func (app *application) listBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := getActor(r)

	bs, stale, ok := app.controller.Sync().Snapshot(userID)
	if !ok {
		fresh, err := app.controller.Sync().Resync(r.Context(), userID)
		if err != nil {
			app.mutationErrorResponse(w, r, err)
			return
		}
		bs, stale = fresh, false
	}

	if err := app.jsonResponse(w, http.StatusOK, collectionResponse{Bookings: viewsOf(bs), Stale: stale}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// refreshBookingsHandler forces a resync. On failure the last-known
// collection stays cached and flagged stale; the client gets the error and
// keeps showing what it has.
func (app *application) refreshBookingsHandler(w http.ResponseWriter, r *http.Request) {
	userID := getActor(r)

	bs, err := app.controller.Sync().Resync(r.Context(), userID)
	if err != nil {
		app.logger.Warnw("manual refresh failed", "user", userID, "error", err)
		writeJSONError(w, http.StatusBadGateway, "could not refresh bookings; showing the last known state")
		return
	}

	if err := app.jsonResponse(w, http.StatusOK, collectionResponse{Bookings: viewsOf(bs), Stale: false}); err != nil {
		app.internalServerError(w, r, err)
	}
}

func (app *application) getBookingHandler(w http.ResponseWriter, r *http.Request) {
	b, err := app.controller.Get(r.Context(), getActor(r), chi.URLParam(r, "bookingID"))
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, bookingView{Booking: b, Actions: booking.LegalActions(b)}); err != nil {
		app.internalServerError(w, r, err)
	}
}

// afterMutation translates a controller result into the response. A refresh
// failure after a successful mutation is reported as success with the
// staleness visible, never as the mutation failing.
func (app *application) afterMutation(w http.ResponseWriter, r *http.Request, err error) {
	if err == nil {
		app.jsonResponse(w, http.StatusOK, map[string]any{"success": true, "stale": false})
		return
	}
	var rerr *lifecycle.RefreshError
	if errors.As(err, &rerr) {
		app.jsonResponse(w, http.StatusOK, map[string]any{
			"success": true,
			"stale":   true,
			"warning": rerr.Error(),
		})
		return
	}
	app.mutationErrorResponse(w, r, err)
}

// lockBooking takes the per-booking busy flag so a double click on any
// mutating control bounces off with a conflict instead of firing twice.
func (app *application) lockBooking(w http.ResponseWriter, r *http.Request, bookingID string) (func(), bool) {
	release, err := app.sessions.Acquire(r.Context(), "booking:"+bookingID)
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return nil, false
	}
	return release, true
}

func (app *application) deleteBookingHandler(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingID")
	release, ok := app.lockBooking(w, r, bookingID)
	if !ok {
		return
	}
	defer release()

	err := app.controller.Delete(r.Context(), getActor(r), bookingID)
	app.afterMutation(w, r, err)
}

type cancelBookingPayload struct {
	CancellationDescription string `json:"cancellationDescription" validate:"required,max=1000"`
}

func (app *application) cancelBookingHandler(w http.ResponseWriter, r *http.Request) {
	var payload cancelBookingPayload
	if err := readJSON(w, r, &payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(payload); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	bookingID := chi.URLParam(r, "bookingID")
	release, ok := app.lockBooking(w, r, bookingID)
	if !ok {
		return
	}
	defer release()

	err := app.controller.Cancel(r.Context(), getActor(r), bookingID, payload.CancellationDescription)
	app.afterMutation(w, r, err)
}

const maxCompletionUploadBytes = 120 * 1024 * 1024 // images plus one video

// completeBookingHandler accepts up to three images and one video as
// completion evidence. Extra images are silently dropped at selection; the
// uploads run sequentially in the coordinator.
func (app *application) completeBookingHandler(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxCompletionUploadBytes)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	images := selectionsFrom(r.MultipartForm.File["images"])
	if len(images) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("at least one completion image is required"))
		return
	}

	var video *media.Selection
	if vids := selectionsFrom(r.MultipartForm.File["video"]); len(vids) > 0 {
		// One video at most; extras are ignored like extra images.
		video = &vids[0]
	}

	bookingID := chi.URLParam(r, "bookingID")
	release, ok := app.lockBooking(w, r, bookingID)
	if !ok {
		return
	}
	defer release()

	err := app.controller.MarkComplete(r.Context(), getActor(r), bookingID, images, video)
	app.afterMutation(w, r, err)
}
