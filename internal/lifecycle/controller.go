// Package lifecycle is the status-gated booking controller. Which mutations
// are legal comes from one transition table (booking.LegalActions); every
// mutation is re-checked against a fresh server copy, executed upstream, and
// followed by a full resync of the cached collection.
package lifecycle

import (
	"context"
	"strings"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/media"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/upstream"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/validate"
	"go.uber.org/zap"
)

// BookingService is what the controller needs from the upstream persistence
// service.
type BookingService interface {
	CreateBooking(ctx context.Context, userID string, p booking.Payload) (*booking.Booking, error)
	GetMyBookings(ctx context.Context, userID string) ([]*booking.Booking, error)
	GetBooking(ctx context.Context, userID, id string) (*booking.Booking, error)
	UpdateBooking(ctx context.Context, userID, id string, p booking.Payload) (*booking.Booking, error)
	DeleteBooking(ctx context.Context, userID, id string) error
	CancelBooking(ctx context.Context, userID string, req upstream.CancelRequest) error
	CompleteBooking(ctx context.Context, userID, id string, ev booking.CompletionEvidence) error
	ProcessRefund(ctx context.Context, userID string, req upstream.RefundRequest) error
}

type Controller struct {
	svc    BookingService
	sync   *Synchronizer
	media  *media.Coordinator
	logger *zap.SugaredLogger

	// now is swappable for the date-gate tests.
	now func() time.Time
}

func NewController(svc BookingService, sync *Synchronizer, coord *media.Coordinator, logger *zap.SugaredLogger) *Controller {
	return &Controller{
		svc:    svc,
		sync:   sync,
		media:  coord,
		logger: logger,
		now:    time.Now,
	}
}

// Sync exposes the refresh synchronizer for read paths.
func (c *Controller) Sync() *Synchronizer { return c.sync }

// Get fetches a fresh copy of one booking from the server, bypassing the
// cache. Action gates always work from a copy obtained here.
func (c *Controller) Get(ctx context.Context, userID, id string) (*booking.Booking, error) {
	return c.svc.GetBooking(ctx, userID, id)
}

// finish runs the mandatory post-mutation resync. The mutation already
// succeeded, so a failure here comes back as *RefreshError and must never be
// reported as the mutation failing.
func (c *Controller) finish(ctx context.Context, userID string) error {
	if _, err := c.sync.Resync(ctx, userID); err != nil {
		c.logger.Warnw("resync after mutation failed", "user", userID, "error", err)
		return &RefreshError{Err: err}
	}
	return nil
}

// Submit validates the draft and creates the booking, or updates it when the
// draft edits an existing one. New bookings always come back pending.
func (c *Controller) Submit(ctx context.Context, userID string, d *booking.Draft) (*booking.Booking, error) {
	if verr := validate.Submit(d, c.now()); verr != nil {
		return nil, verr
	}

	if d.BookingID == "" {
		b, err := c.svc.CreateBooking(ctx, userID, d.Payload())
		if err != nil {
			return nil, err
		}
		return b, c.finish(ctx, userID)
	}

	// Editing: only a pending booking may be updated, and pending is
	// re-checked server-side right before the write. The server remains the
	// arbiter if the status flips between our check and the update.
	current, err := c.svc.GetBooking(ctx, userID, d.BookingID)
	if err != nil {
		return nil, err
	}
	if !booking.ActionAllowed(booking.ActionEdit, current) {
		return nil, ErrActionNotAllowed
	}

	b, err := c.svc.UpdateBooking(ctx, userID, d.BookingID, d.Payload())
	if err != nil {
		return nil, err
	}
	return b, c.finish(ctx, userID)
}

// Delete removes a pending booking.
func (c *Controller) Delete(ctx context.Context, userID, id string) error {
	current, err := c.svc.GetBooking(ctx, userID, id)
	if err != nil {
		return err
	}
	if !booking.ActionAllowed(booking.ActionDelete, current) {
		return ErrActionNotAllowed
	}
	if err := c.svc.DeleteBooking(ctx, userID, id); err != nil {
		return err
	}
	return c.finish(ctx, userID)
}

// Cancel cancels a confirmed booking. Irreversible; the upstream service
// applies its administrative fee, we only carry the description. A fully
// paid booking also gets a refund request.
func (c *Controller) Cancel(ctx context.Context, userID, id, description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrCancellationReason
	}

	current, err := c.svc.GetBooking(ctx, userID, id)
	if err != nil {
		return err
	}
	if !booking.ActionAllowed(booking.ActionCancel, current) {
		return ErrActionNotAllowed
	}

	err = c.svc.CancelBooking(ctx, userID, upstream.CancelRequest{
		BookingID:               id,
		ArtistID:                current.AssignedArtist,
		CancellationDescription: description,
	})
	if err != nil {
		return err
	}

	if current.FullyPaid() {
		err := c.svc.ProcessRefund(ctx, userID, upstream.RefundRequest{
			BookingID: id,
			UserID:    userID,
			ArtistID:  current.AssignedArtist,
		})
		if err != nil {
			// The cancellation stands; the refund can be retried upstream.
			c.logger.Errorw("refund request failed after cancellation", "booking", id, "error", err)
		}
	}
	return c.finish(ctx, userID)
}

// MarkComplete uploads completion evidence sequentially and then marks the
// booking complete. Gates, in order: status confirmed, payment captured in
// full, event date passed. The date gate failing is an informational block —
// no upload is started and no mutation is sent.
func (c *Controller) MarkComplete(ctx context.Context, userID, id string, images []media.Selection, video *media.Selection) error {
	current, err := c.svc.GetBooking(ctx, userID, id)
	if err != nil {
		return err
	}
	if current.Status != booking.StatusConfirmed {
		return ErrActionNotAllowed
	}
	if !current.FullyPaid() {
		return ErrPaymentIncomplete
	}
	if !current.EventDatePassed(c.now()) {
		return ErrEventNotPassed
	}

	evidence, err := c.media.UploadCompletion(ctx, images, video)
	if err != nil {
		// The booking mutation is deliberately not sent: a failed batch
		// leaves nothing partially committed.
		return err
	}

	if err := c.svc.CompleteBooking(ctx, userID, id, evidence); err != nil {
		return err
	}
	return c.finish(ctx, userID)
}
