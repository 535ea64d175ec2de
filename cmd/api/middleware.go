package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
)

type contextKey string

const actorKey contextKey = "actor"

// ActorMiddleware trusts the authenticated user identity the shell resolved
// for us. Authentication itself is the shell's job; requests arriving here
// without an identity are rejected, not guessed at.
func (app *application) ActorMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID := r.Header.Get("X-User-ID")
		if userID == "" {
			app.unauthorizedErrorResponse(w, r, errors.New("missing X-User-ID header"))
			return
		}
		ctx := context.WithValue(r.Context(), actorKey, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getActor(r *http.Request) string {
	userID, _ := r.Context().Value(actorKey).(string)
	return userID
}

// RateLimitMiddleware guards the upload endpoints.
func (app *application) RateLimitMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if app.config.rateLimiter.Enabled {
			key := getActor(r)
			if key == "" {
				key = r.RemoteAddr
			}
			if allow, retryAfter := app.rateLimiter.Allow(key); !allow {
				app.rateLimitExceededResponse(w, r, fmt.Sprintf("%.0fs", retryAfter.Seconds()))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
