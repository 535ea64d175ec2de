package main

import (
	"fmt"
	"net/http"
	"strconv"
)

// geoLabelHandler turns picked coordinates into a short display label. The
// lookup itself never fails: the geo client falls back to formatted
// coordinates on any error.
func (app *application) geoLabelHandler(w http.ResponseWriter, r *http.Request) {
	lat, err := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid lat: %w", err))
		return
	}
	lng, err := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if err != nil {
		app.badRequestResponse(w, r, fmt.Errorf("invalid lng: %w", err))
		return
	}

	label := app.geocoder.Label(r.Context(), lat, lng)

	if err := app.jsonResponse(w, http.StatusOK, map[string]string{"label": label}); err != nil {
		app.internalServerError(w, r, err)
	}
}
