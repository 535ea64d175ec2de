package main

import (
	"errors"
	"net/http"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/lifecycle"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/media"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/session"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/upstream"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/validate"
)

func (app *application) internalServerError(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Errorw("internal error", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusInternalServerError, "the server encountered a problem")
}

func (app *application) badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("bad request", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusBadRequest, err.Error())
}

func (app *application) notFoundResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("not found", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusNotFound, err.Error())
}

func (app *application) conflictResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("conflict", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusConflict, err.Error())
}

func (app *application) unauthorizedErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	app.logger.Warnw("unauthorized", "method", r.Method, "path", r.URL.Path, "error", err.Error())
	writeJSONError(w, http.StatusUnauthorized, "unauthorized")
}

func (app *application) rateLimitExceededResponse(w http.ResponseWriter, r *http.Request, retryAfter string) {
	app.logger.Warnw("rate limit exceeded", "path", r.URL.Path)
	w.Header().Set("Retry-After", retryAfter)
	writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded, retry after: "+retryAfter)
}

// validationErrorResponse carries the jump-back target alongside the message
// so the wizard knows which step to re-open.
func (app *application) validationErrorResponse(w http.ResponseWriter, r *http.Request, verr *validate.StepError) {
	type envelope struct {
		Success    bool   `json:"success"`
		Message    string `json:"message"`
		StepToShow string `json:"step_to_show"`
	}
	writeJSON(w, http.StatusUnprocessableEntity, &envelope{
		Success:    false,
		Message:    verr.Message,
		StepToShow: verr.Step.String(),
	})
}

// mutationErrorResponse maps the error taxonomy onto HTTP statuses. Every
// mutating handler funnels through here.
func (app *application) mutationErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	var (
		verr   *validate.StepError
		uerr   *media.UploadError
		apiErr *upstream.APIError
	)
	switch {
	case errors.As(err, &verr):
		app.validationErrorResponse(w, r, verr)
	case errors.As(err, &uerr):
		// A failed batch aborts everything; nothing partial was committed.
		app.logger.Errorw("upload batch aborted", "path", r.URL.Path, "error", uerr.Error())
		writeJSONError(w, http.StatusBadGateway, uerr.Error())
	case errors.Is(err, upstream.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.Is(err, lifecycle.ErrActionNotAllowed),
		errors.Is(err, lifecycle.ErrEventNotPassed),
		errors.Is(err, lifecycle.ErrPaymentIncomplete),
		errors.Is(err, lifecycle.ErrCancellationReason):
		app.conflictResponse(w, r, err)
	case errors.Is(err, session.ErrBusy):
		app.conflictResponse(w, r, err)
	case errors.Is(err, session.ErrNotFound):
		app.notFoundResponse(w, r, err)
	case errors.As(err, &apiErr):
		// Surface the upstream's own message when it has one.
		app.logger.Errorw("upstream rejected mutation", "path", r.URL.Path, "status", apiErr.StatusCode, "error", apiErr.Error())
		writeJSONError(w, http.StatusBadGateway, apiErr.Error())
	default:
		app.internalServerError(w, r, err)
	}
}
