// Package upstream is the HTTP client for the booking persistence service.
// That service is the source of truth for every booking; this client never
// caches, the lifecycle layer owns the cache and its resync policy.
package upstream

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
)

// ErrNotFound maps the upstream 404 onto a sentinel the callers can test.
var ErrNotFound = errors.New("booking not found")

// APIError is a non-success upstream response with a usable message. The
// message is surfaced to the user verbatim when present.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("booking service returned %d", e.StatusCode)
	}
	return e.Message
}

// CancelRequest carries everything the upstream cancellation endpoint wants.
// The administrative fee is computed entirely upstream; we only pass the
// description through.
type CancelRequest struct {
	BookingID               string `json:"bookingId"`
	ArtistID                string `json:"artistId,omitempty"`
	CancellationDescription string `json:"cancellationDescription"`
}

// RefundRequest asks upstream to refund a paid, cancelled booking.
type RefundRequest struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId"`
	ArtistID  string `json:"artistId,omitempty"`
}

// Client talks to the booking service. The authenticated actor is forwarded
// per request; authentication itself lives with the shell, not here.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, method, path, userID string, in, out any) error {
	var body io.Reader
	if in != nil {
		buf, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("booking service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &APIError{StatusCode: resp.StatusCode, Message: readMessage(resp.Body)}
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// readMessage pulls a human message out of an error body, tolerating both
// {"message": "..."} and {"error": "..."} shapes.
func readMessage(r io.Reader) string {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if err := json.NewDecoder(io.LimitReader(r, 1<<16)).Decode(&body); err != nil {
		return ""
	}
	if body.Message != "" {
		return body.Message
	}
	return body.Error
}

func (c *Client) CreateBooking(ctx context.Context, userID string, p booking.Payload) (*booking.Booking, error) {
	var rec booking.Record
	if err := c.do(ctx, http.MethodPost, "/bookings", userID, p, &rec); err != nil {
		return nil, err
	}
	return rec.Booking(), nil
}

func (c *Client) GetMyBookings(ctx context.Context, userID string) ([]*booking.Booking, error) {
	var recs []booking.Record
	if err := c.do(ctx, http.MethodGet, "/bookings/mine", userID, nil, &recs); err != nil {
		return nil, err
	}
	out := make([]*booking.Booking, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.Booking())
	}
	return out, nil
}

func (c *Client) GetBooking(ctx context.Context, userID, id string) (*booking.Booking, error) {
	var rec booking.Record
	if err := c.do(ctx, http.MethodGet, "/bookings/"+id, userID, nil, &rec); err != nil {
		return nil, err
	}
	return rec.Booking(), nil
}

func (c *Client) UpdateBooking(ctx context.Context, userID, id string, p booking.Payload) (*booking.Booking, error) {
	var rec booking.Record
	if err := c.do(ctx, http.MethodPut, "/bookings/"+id, userID, p, &rec); err != nil {
		return nil, err
	}
	return rec.Booking(), nil
}

func (c *Client) DeleteBooking(ctx context.Context, userID, id string) error {
	return c.do(ctx, http.MethodDelete, "/bookings/"+id, userID, nil, nil)
}

func (c *Client) CancelBooking(ctx context.Context, userID string, req CancelRequest) error {
	return c.do(ctx, http.MethodPost, "/bookings/cancel", userID, req, nil)
}

func (c *Client) CompleteBooking(ctx context.Context, userID, id string, evidence booking.CompletionEvidence) error {
	return c.do(ctx, http.MethodPost, "/bookings/"+id+"/complete", userID, evidence, nil)
}

func (c *Client) ProcessRefund(ctx context.Context, userID string, req RefundRequest) error {
	return c.do(ctx, http.MethodPost, "/payments/refund", userID, req, nil)
}
