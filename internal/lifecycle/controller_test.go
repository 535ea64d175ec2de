package lifecycle

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/ZainManzoor2003/mehndi-sub003/internal/booking"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/media"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/upstream"
	"github.com/ZainManzoor2003/mehndi-sub003/internal/validate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

var testNow = time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

// fakeService records calls and serves canned bookings.
type fakeService struct {
	calls    []string
	bookings map[string]*booking.Booking

	listErr     error
	mutationErr error
}

func newFakeService(bs ...*booking.Booking) *fakeService {
	f := &fakeService{bookings: make(map[string]*booking.Booking)}
	for _, b := range bs {
		f.bookings[b.ID] = b
	}
	return f
}

func (f *fakeService) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeService) CreateBooking(ctx context.Context, userID string, p booking.Payload) (*booking.Booking, error) {
	f.record("create")
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	b := p.Draft()
	created := &booking.Booking{ID: "new", Status: booking.StatusPending, EventType: b.EventType}
	f.bookings[created.ID] = created
	return created, nil
}

func (f *fakeService) GetMyBookings(ctx context.Context, userID string) ([]*booking.Booking, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*booking.Booking
	for _, b := range f.bookings {
		out = append(out, b)
	}
	return out, nil
}

func (f *fakeService) GetBooking(ctx context.Context, userID, id string) (*booking.Booking, error) {
	f.record("get")
	b, ok := f.bookings[id]
	if !ok {
		return nil, upstream.ErrNotFound
	}
	return b, nil
}

func (f *fakeService) UpdateBooking(ctx context.Context, userID, id string, p booking.Payload) (*booking.Booking, error) {
	f.record("update")
	if f.mutationErr != nil {
		return nil, f.mutationErr
	}
	return f.bookings[id], nil
}

func (f *fakeService) DeleteBooking(ctx context.Context, userID, id string) error {
	f.record("delete")
	if f.mutationErr != nil {
		return f.mutationErr
	}
	delete(f.bookings, id)
	return nil
}

func (f *fakeService) CancelBooking(ctx context.Context, userID string, req upstream.CancelRequest) error {
	f.record("cancel")
	return f.mutationErr
}

func (f *fakeService) CompleteBooking(ctx context.Context, userID, id string, ev booking.CompletionEvidence) error {
	f.record("complete")
	return f.mutationErr
}

func (f *fakeService) ProcessRefund(ctx context.Context, userID string, req upstream.RefundRequest) error {
	f.record("refund")
	return nil
}

type okUploader struct{ fail bool }

func (u okUploader) Upload(ctx context.Context, file io.Reader, kind media.Kind, name string) (string, error) {
	if u.fail {
		return "", &media.UploadError{Filename: name, Err: errors.New("boom")}
	}
	return "https://cdn.example.com/" + name, nil
}

func newController(svc *fakeService, up media.Uploader) *Controller {
	c := NewController(svc, NewSynchronizer(svc), media.NewCoordinator(up), zap.NewNop().Sugar())
	c.now = func() time.Time { return testNow }
	return c
}

func validDraft() *booking.Draft {
	return &booking.Draft{
		FirstName:         "Ayesha",
		EventType:         booking.EventWedding,
		EventDate:         "2026-08-29",
		PreferredTimeSlot: booking.SlotEvening,
		Location:          "Lahore",
		ArtistTravel:      booking.TravelYes,
		DesignStyle:       booking.StyleArabic,
		MinimumBudget:     100,
		MaximumBudget:     250,
		NumberOfPeople:    2,
	}
}

func fileSel(name string) media.Selection {
	return media.NewSelection(name, func() (io.ReadCloser, error) {
		return io.NopCloser(strings.NewReader("data")), nil
	})
}

func TestSubmitCreatesPendingBooking(t *testing.T) {
	svc := newFakeService()
	c := newController(svc, okUploader{})

	b, err := c.Submit(context.Background(), "u1", validDraft())
	require.NoError(t, err)
	assert.Equal(t, booking.StatusPending, b.Status)
	assert.Equal(t, []string{"create", "list"}, svc.calls, "resync must follow the mutation")

	got, stale, ok := c.Sync().Snapshot("u1")
	require.True(t, ok)
	assert.False(t, stale)
	assert.Len(t, got, 1)
}

func TestSubmitRejectsInvertedBudget(t *testing.T) {
	svc := newFakeService()
	c := newController(svc, okUploader{})

	d := validDraft()
	d.MinimumBudget = 250
	d.MaximumBudget = 100

	_, err := c.Submit(context.Background(), "u1", d)
	var verr *validate.StepError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, validate.StepBudget, verr.Step)
	assert.Empty(t, svc.calls, "nothing may reach the service")
}

func TestSubmitEditRequiresPending(t *testing.T) {
	svc := newFakeService(&booking.Booking{ID: "b1", Status: booking.StatusConfirmed})
	c := newController(svc, okUploader{})

	d := validDraft()
	d.BookingID = "b1"

	_, err := c.Submit(context.Background(), "u1", d)
	assert.ErrorIs(t, err, ErrActionNotAllowed)
	assert.Equal(t, []string{"get"}, svc.calls)
}

func TestSubmitEditUpdatesPending(t *testing.T) {
	svc := newFakeService(&booking.Booking{ID: "b1", Status: booking.StatusPending})
	c := newController(svc, okUploader{})

	d := validDraft()
	d.BookingID = "b1"

	_, err := c.Submit(context.Background(), "u1", d)
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "update", "list"}, svc.calls)
}

func TestDeleteGatedOnPending(t *testing.T) {
	svc := newFakeService(
		&booking.Booking{ID: "p", Status: booking.StatusPending},
		&booking.Booking{ID: "c", Status: booking.StatusConfirmed},
	)
	ctl := newController(svc, okUploader{})

	require.NoError(t, ctl.Delete(context.Background(), "u1", "p"))
	assert.ErrorIs(t, ctl.Delete(context.Background(), "u1", "c"), ErrActionNotAllowed)
}

func TestCancelRequiresDescription(t *testing.T) {
	svc := newFakeService(&booking.Booking{ID: "b1", Status: booking.StatusConfirmed})
	c := newController(svc, okUploader{})

	err := c.Cancel(context.Background(), "u1", "b1", "   ")
	assert.ErrorIs(t, err, ErrCancellationReason)
	assert.Empty(t, svc.calls)
}

func TestCancelOnlyFromConfirmed(t *testing.T) {
	svc := newFakeService(&booking.Booking{ID: "b1", Status: booking.StatusPending})
	c := newController(svc, okUploader{})

	err := c.Cancel(context.Background(), "u1", "b1", "plans changed")
	assert.ErrorIs(t, err, ErrActionNotAllowed)
}

func TestCancelPaidBookingRequestsRefund(t *testing.T) {
	svc := newFakeService(&booking.Booking{ID: "b1", Status: booking.StatusConfirmed, IsPaid: booking.PaymentFull, AssignedArtist: "a1"})
	c := newController(svc, okUploader{})

	require.NoError(t, c.Cancel(context.Background(), "u1", "b1", "plans changed"))
	assert.Equal(t, []string{"get", "cancel", "refund", "list"}, svc.calls)
}

func TestCancelUnpaidBookingSkipsRefund(t *testing.T) {
	svc := newFakeService(&booking.Booking{ID: "b1", Status: booking.StatusConfirmed})
	c := newController(svc, okUploader{})

	require.NoError(t, c.Cancel(context.Background(), "u1", "b1", "plans changed"))
	assert.Equal(t, []string{"get", "cancel", "list"}, svc.calls)
}

func TestMarkCompleteHappyPath(t *testing.T) {
	svc := newFakeService(&booking.Booking{
		ID:        "b1",
		Status:    booking.StatusConfirmed,
		IsPaid:    booking.PaymentFull,
		EventDate: "2026-08-27", // yesterday
	})
	c := newController(svc, okUploader{})

	video := fileSel("done.mp4")
	err := c.MarkComplete(context.Background(), "u1", "b1", []media.Selection{fileSel("1.jpg")}, &video)
	require.NoError(t, err)
	assert.Equal(t, []string{"get", "complete", "list"}, svc.calls)
}

func TestMarkCompleteBeforeEventDateIsBlocked(t *testing.T) {
	svc := newFakeService(&booking.Booking{
		ID:        "b1",
		Status:    booking.StatusConfirmed,
		IsPaid:    booking.PaymentFull,
		EventDate: "2026-08-29", // tomorrow
	})
	c := newController(svc, okUploader{})

	err := c.MarkComplete(context.Background(), "u1", "b1", []media.Selection{fileSel("1.jpg")}, nil)
	assert.ErrorIs(t, err, ErrEventNotPassed)
	assert.Equal(t, []string{"get"}, svc.calls, "no upload, no mutation")
}

func TestMarkCompleteRequiresFullPayment(t *testing.T) {
	svc := newFakeService(&booking.Booking{
		ID:        "b1",
		Status:    booking.StatusConfirmed,
		IsPaid:    "partial",
		EventDate: "2026-08-27",
	})
	c := newController(svc, okUploader{})

	err := c.MarkComplete(context.Background(), "u1", "b1", nil, nil)
	assert.ErrorIs(t, err, ErrPaymentIncomplete)
}

func TestMarkCompleteUploadFailureLeavesBookingUntouched(t *testing.T) {
	svc := newFakeService(&booking.Booking{
		ID:        "b1",
		Status:    booking.StatusConfirmed,
		IsPaid:    booking.PaymentFull,
		EventDate: "2026-08-27",
	})
	c := newController(svc, okUploader{fail: true})

	err := c.MarkComplete(context.Background(), "u1", "b1", []media.Selection{fileSel("1.jpg")}, nil)
	var ue *media.UploadError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, []string{"get"}, svc.calls, "complete must not be sent after a failed batch")
}

func TestRefreshFailureIsNotAMutationFailure(t *testing.T) {
	svc := newFakeService(&booking.Booking{ID: "b1", Status: booking.StatusPending})
	c := newController(svc, okUploader{})

	// Seed the cache, then make the post-mutation resync fail.
	_, err := c.Sync().Resync(context.Background(), "u1")
	require.NoError(t, err)
	svc.listErr = errors.New("upstream down")

	err = c.Delete(context.Background(), "u1", "b1")
	var rerr *RefreshError
	require.ErrorAs(t, err, &rerr, "delete succeeded, only the refresh failed")

	// Last-known collection survives, flagged stale.
	got, stale, ok := c.Sync().Snapshot("u1")
	require.True(t, ok)
	assert.True(t, stale)
	assert.Len(t, got, 1)
}

func TestResyncReplacesWholesale(t *testing.T) {
	svc := newFakeService(&booking.Booking{ID: "b1", Status: booking.StatusPending})
	s := NewSynchronizer(svc)

	_, err := s.Resync(context.Background(), "u1")
	require.NoError(t, err)

	svc.bookings["b2"] = &booking.Booking{ID: "b2", Status: booking.StatusConfirmed}
	delete(svc.bookings, "b1")

	got, err := s.Resync(context.Background(), "u1")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b2", got[0].ID)
}
