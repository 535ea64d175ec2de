package main

import (
	"encoding/json"
	"net/http"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
	"github.com/go-playground/validator/v10"
)

var Validate *validator.Validate

func init() {
	Validate = validator.New(validator.WithRequiredStructEnabled())

	// Domain enums arrive as free strings from the client; validate them
	// here so bad values never reach a draft.
	Validate.RegisterValidation("eventtype", func(fl validator.FieldLevel) bool {
		switch booking.EventType(fl.Field().String()) {
		case "", booking.EventWedding, booking.EventEid, booking.EventParty, booking.EventFestival, booking.EventOther:
			return true
		}
		return false
	})
	Validate.RegisterValidation("designstyle", func(fl validator.FieldLevel) bool {
		switch booking.DesignStyle(fl.Field().String()) {
		case "", booking.StyleBridal, booking.StyleArabic, booking.StyleIndian, booking.StylePakistani, booking.StyleSimple:
			return true
		}
		return false
	})
	Validate.RegisterValidation("timeslot", func(fl validator.FieldLevel) bool {
		switch booking.TimeSlot(fl.Field().String()) {
		case "", booking.SlotMorning, booking.SlotAfternoon, booking.SlotEvening, booking.SlotNight:
			return true
		}
		return false
	})
	Validate.RegisterValidation("travelpref", func(fl validator.FieldLevel) bool {
		switch booking.TravelPreference(fl.Field().String()) {
		case "", booking.TravelYes, booking.TravelNo, booking.TravelBoth:
			return true
		}
		return false
	})
}

func writeJSON(w http.ResponseWriter, status int, data any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(data)
}

func readJSON(w http.ResponseWriter, r *http.Request, data any) error {
	maxBytes := 1_048_578 //1mb
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(data)
}

func writeJSONError(w http.ResponseWriter, status int, message string) error {
	type envelope struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
		Status  int    `json:"status"`
	}

	return writeJSON(w, status, &envelope{
		Success: false,
		Message: message,
		Status:  status,
	})
}

func (app *application) jsonResponse(w http.ResponseWriter, status int, data any) error {
	type envelope struct {
		Data any `json:"data"`
	}
	return writeJSON(w, status, &envelope{Data: data})
}
