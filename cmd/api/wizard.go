package main

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/lifecycle"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/media"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/session"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/validate"
	"github.com/go-chi/chi/v5"
)

type startWizardPayload struct {
	// BookingID seeds an edit session from an existing pending booking.
	BookingID string `json:"bookingId,omitempty"`
}

func (app *application) startWizardHandler(w http.ResponseWriter, r *http.Request) {
	userID := getActor(r)

	var payload startWizardPayload
	if r.ContentLength > 0 {
		if err := readJSON(w, r, &payload); err != nil {
			app.badRequestResponse(w, r, err)
			return
		}
	}

	draft := &booking.Draft{}
	if payload.BookingID != "" {
		// Editing: the draft is seeded from a fresh server copy, and only a
		// pending booking may be edited.
		current, err := app.controller.Get(r.Context(), userID, payload.BookingID)
		if err != nil {
			app.mutationErrorResponse(w, r, err)
			return
		}
		if !booking.ActionAllowed(booking.ActionEdit, current) {
			app.conflictResponse(w, r, lifecycle.ErrActionNotAllowed)
			return
		}
		draft = booking.DraftFrom(current)
	}

	st, err := app.sessions.Start(r.Context(), userID, draft)
	if err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if err := app.jsonResponse(w, http.StatusCreated, st); err != nil {
		app.internalServerError(w, r, err)
	}
}

// ownedSession loads the session and enforces that the caller owns it. A
// foreign session reads as not found rather than forbidden, so session IDs
// cannot be probed.
func (app *application) ownedSession(r *http.Request) (*session.State, error) {
	st, err := app.sessions.Get(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		return nil, err
	}
	if st.UserID != getActor(r) {
		return nil, session.ErrNotFound
	}
	return st, nil
}

func (app *application) getWizardHandler(w http.ResponseWriter, r *http.Request) {
	st, err := app.ownedSession(r)
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, st); err != nil {
		app.internalServerError(w, r, err)
	}
}

type contactStepPayload struct {
	FirstName string `json:"firstName" validate:"max=100"`
	LastName  string `json:"lastName" validate:"max=100"`
	Email     string `json:"email" validate:"omitempty,email"`
}

type eventStepPayload struct {
	EventType         string   `json:"eventType" validate:"eventtype"`
	OtherEventType    string   `json:"otherEventType" validate:"max=100"`
	EventDate         string   `json:"eventDate" validate:"max=10"`
	PreferredTimeSlot string   `json:"preferredTimeSlot" validate:"timeslot"`
	Location          string   `json:"location" validate:"max=255"`
	Latitude          *float64 `json:"latitude" validate:"omitempty,latitude"`
	Longitude         *float64 `json:"longitude" validate:"omitempty,longitude"`
	ArtistTravel      string   `json:"artistTravelsToClient" validate:"travelpref"`
	VenueName         string   `json:"venueName" validate:"max=255"`
}

type styleStepPayload struct {
	DesignStyle        string `json:"designStyle" validate:"designstyle"`
	CoveragePreference string `json:"coveragePreference" validate:"max=255"`
}

type budgetStepPayload struct {
	MinimumBudget      int    `json:"minimumBudget" validate:"min=0"`
	MaximumBudget      int    `json:"maximumBudget" validate:"min=0"`
	NumberOfPeople     int    `json:"numberOfPeople" validate:"min=0"`
	Duration           int    `json:"duration" validate:"min=0,max=24"`
	AdditionalRequests string `json:"additionalRequests" validate:"max=1000"`
}

// saveStepHandler stores one step's values into the draft and validates the
// step. Values are kept even when validation fails — the wizard re-opens the
// offending step with everything the user typed still in place.
func (app *application) saveStepHandler(w http.ResponseWriter, r *http.Request) {
	step, ok := validate.ParseStep(chi.URLParam(r, "step"))
	if !ok {
		app.badRequestResponse(w, r, fmt.Errorf("unknown wizard step %q", chi.URLParam(r, "step")))
		return
	}

	release, err := app.sessions.Acquire(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}
	defer release()

	st, err := app.ownedSession(r)
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}

	if err := app.applyStep(w, r, step, st.Draft); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	verr := validate.Check(step, st.Draft, time.Now().UTC())
	if verr != nil {
		st.Step = verr.Step
	} else if step < validate.StepBudget {
		st.Step = step + 1
	}

	if err := app.sessions.Save(r.Context(), st); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	if verr != nil {
		app.validationErrorResponse(w, r, verr)
		return
	}
	if err := app.jsonResponse(w, http.StatusOK, st); err != nil {
		app.internalServerError(w, r, err)
	}
}

// applyStep decodes the step payload and replaces that step's slice of the
// draft wholesale.
func (app *application) applyStep(w http.ResponseWriter, r *http.Request, step validate.Step, d *booking.Draft) error {
	switch step {
	case validate.StepContact:
		var p contactStepPayload
		if err := readJSON(w, r, &p); err != nil {
			return err
		}
		if err := Validate.Struct(p); err != nil {
			return err
		}
		d.FirstName, d.LastName, d.Email = p.FirstName, p.LastName, p.Email

	case validate.StepEvent:
		var p eventStepPayload
		if err := readJSON(w, r, &p); err != nil {
			return err
		}
		if err := Validate.Struct(p); err != nil {
			return err
		}
		d.EventType = booking.EventType(p.EventType)
		d.OtherEventType = p.OtherEventType
		d.EventDate = p.EventDate
		d.PreferredTimeSlot = booking.TimeSlot(p.PreferredTimeSlot)
		d.Location = p.Location
		d.Latitude = p.Latitude
		d.Longitude = p.Longitude
		d.ArtistTravel = booking.TravelPreference(p.ArtistTravel)
		d.VenueName = p.VenueName

	case validate.StepStyle:
		var p styleStepPayload
		if err := readJSON(w, r, &p); err != nil {
			return err
		}
		if err := Validate.Struct(p); err != nil {
			return err
		}
		d.DesignStyle = booking.DesignStyle(p.DesignStyle)
		d.CoveragePreference = p.CoveragePreference

	case validate.StepBudget:
		var p budgetStepPayload
		if err := readJSON(w, r, &p); err != nil {
			return err
		}
		if err := Validate.Struct(p); err != nil {
			return err
		}
		d.MinimumBudget = p.MinimumBudget
		d.MaximumBudget = p.MaximumBudget
		d.NumberOfPeople = p.NumberOfPeople
		d.Duration = p.Duration
		d.AdditionalRequests = p.AdditionalRequests
	}
	return nil
}

func (app *application) submitWizardHandler(w http.ResponseWriter, r *http.Request) {
	// One in-flight mutation per session; double clicks bounce off here.
	// The lock is taken before the draft is read so a racing mutation can
	// never be acting on a stale copy.
	release, err := app.sessions.Acquire(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}
	defer release()

	st, err := app.ownedSession(r)
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}

	b, err := app.controller.Submit(r.Context(), st.UserID, st.Draft)
	if err != nil {
		var rerr *lifecycle.RefreshError
		if errors.As(err, &rerr) {
			// The booking went through; only the resync failed. Report
			// success with the staleness made visible.
			if err := app.sessions.Delete(r.Context(), st.ID); err != nil {
				app.logger.Warnw("failed to delete submitted session", "session", st.ID, "error", err)
			}
			app.jsonResponse(w, http.StatusCreated, map[string]any{
				"booking": b,
				"stale":   true,
				"warning": rerr.Error(),
			})
			return
		}
		var verr *validate.StepError
		if errors.As(err, &verr) {
			// Jump-back: persist the step the wizard must re-open.
			st.Step = verr.Step
			if err := app.sessions.Save(r.Context(), st); err != nil {
				app.logger.Warnw("failed to persist jump-back step", "session", st.ID, "error", err)
			}
		}
		app.mutationErrorResponse(w, r, err)
		return
	}

	if err := app.sessions.Delete(r.Context(), st.ID); err != nil {
		app.logger.Warnw("failed to delete submitted session", "session", st.ID, "error", err)
	}

	app.jsonResponse(w, http.StatusCreated, map[string]any{
		"booking": b,
		"stale":   false,
	})
}

const (
	maxInspirationUploadBytes = 25 * 1024 * 1024

	// In-memory threshold for multipart parsing; anything larger spills to
	// temp files while MaxBytesReader still caps the request as a whole.
	maxMultipartMemory = 32 * 1024 * 1024
)

// uploadInspirationHandler uploads the selected files concurrently and
// appends their URLs to the draft's inspiration list in selection order.
func (app *application) uploadInspirationHandler(w http.ResponseWriter, r *http.Request) {
	// Draft mutations share the session's busy flag with submit; a second
	// upload racing this one would clobber the whole-draft save below.
	release, err := app.sessions.Acquire(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}
	defer release()

	st, err := app.ownedSession(r)
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxInspirationUploadBytes)
	if err := r.ParseMultipartForm(maxMultipartMemory); err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("parse form: %w", err))
		return
	}

	files := selectionsFrom(r.MultipartForm.File["images"])
	if len(files) == 0 {
		app.badRequestResponse(w, r, fmt.Errorf("no images in request"))
		return
	}

	urls, err := app.coordinator.UploadInspiration(r.Context(), files)
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}

	for _, u := range urls {
		st.Draft.AppendInspiration(u)
	}
	if err := app.sessions.Save(r.Context(), st); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"designInspiration": st.Draft.DesignInspiration,
	})
}

type inspirationLinkPayload struct {
	URL string `json:"url" validate:"required,url,max=2048"`
}

// appendInspirationLinkHandler attaches a pasted link without uploading.
func (app *application) appendInspirationLinkHandler(w http.ResponseWriter, r *http.Request) {
	var p inspirationLinkPayload
	if err := readJSON(w, r, &p); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}
	if err := Validate.Struct(p); err != nil {
		app.badRequestResponse(w, r, err)
		return
	}

	release, err := app.sessions.Acquire(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}
	defer release()

	st, err := app.ownedSession(r)
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}

	st.Draft.AppendInspiration(p.URL)
	if err := app.sessions.Save(r.Context(), st); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"designInspiration": st.Draft.DesignInspiration,
	})
}

// removeInspirationHandler detaches a reference by index. The remote media
// object is left alone.
func (app *application) removeInspirationHandler(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid index: %w", err))
		return
	}

	release, err := app.sessions.Acquire(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}
	defer release()

	st, err := app.ownedSession(r)
	if err != nil {
		app.mutationErrorResponse(w, r, err)
		return
	}

	if !st.Draft.RemoveInspiration(idx) {
		app.notFoundResponse(w, r, fmt.Errorf("no inspiration at index %d", idx))
		return
	}

	if err := app.sessions.Save(r.Context(), st); err != nil {
		app.internalServerError(w, r, err)
		return
	}

	app.jsonResponse(w, http.StatusOK, map[string]any{
		"designInspiration": st.Draft.DesignInspiration,
	})
}

func selectionsFrom(headers []*multipart.FileHeader) []media.Selection {
	var out []media.Selection
	for _, fh := range headers {
		out = append(out, media.NewSelection(fh.Filename, func() (io.ReadCloser, error) {
			return fh.Open()
		}))
	}
	return out
}
