package booking

import "time"

// Status values a booking can carry. The upstream service owns the status;
// the client side only ever requests the transitions in actions.go and must
// render any value it has never seen without breaking.
type Status string

const (
	StatusPending    Status = "pending"
	StatusConfirmed  Status = "confirmed"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Terminal reports whether the booking can never leave this status.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

type EventType string

const (
	EventWedding  EventType = "wedding"
	EventEid      EventType = "eid"
	EventParty    EventType = "party"
	EventFestival EventType = "festival"
	EventOther    EventType = "other" // free-text label in OtherEventType
)

type DesignStyle string

const (
	StyleBridal    DesignStyle = "bridal"
	StyleArabic    DesignStyle = "arabic"
	StyleIndian    DesignStyle = "indian"
	StylePakistani DesignStyle = "pakistani"
	StyleSimple    DesignStyle = "simple"
)

type TimeSlot string

const (
	SlotMorning   TimeSlot = "morning"
	SlotAfternoon TimeSlot = "afternoon"
	SlotEvening   TimeSlot = "evening"
	SlotNight     TimeSlot = "night"
)

// TravelPreference says whether the artist comes to the client.
type TravelPreference string

const (
	TravelYes  TravelPreference = "yes"
	TravelNo   TravelPreference = "no"
	TravelBoth TravelPreference = "both"
)

// PaymentFull is the only payment state that unlocks mark-complete.
const PaymentFull = "full"

// DateLayout is the wire format for event dates. The wizard captures a bare
// calendar date; time-of-day is carried separately in PreferredTimeSlot.
const DateLayout = "2006-01-02"

// DefaultDurationHours is applied when the client leaves duration empty.
const DefaultDurationHours = 3

// Booking is the server-owned record. The client holds a cached copy and
// never mutates it in place; every change goes through the upstream service
// followed by a full resync.
type Booking struct {
	ID string `json:"_id"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`

	EventType         EventType        `json:"eventType"`
	OtherEventType    string           `json:"otherEventType,omitempty"`
	EventDate         string           `json:"eventDate"` // DateLayout
	PreferredTimeSlot TimeSlot         `json:"preferredTimeSlot"`
	Location          string           `json:"location"`
	Latitude          *float64         `json:"latitude,omitempty"`
	Longitude         *float64         `json:"longitude,omitempty"`
	ArtistTravel      TravelPreference `json:"artistTravelsToClient"`
	VenueName         string           `json:"venueName,omitempty"` // required iff bridal

	DesignStyle        DesignStyle `json:"designStyle"`
	DesignInspiration  []string    `json:"designInspiration,omitempty"`
	CoveragePreference string      `json:"coveragePreference,omitempty"` // required iff bridal

	MinimumBudget  int `json:"minimumBudget"`
	MaximumBudget  int `json:"maximumBudget"`
	NumberOfPeople int `json:"numberOfPeople"`
	Duration       int `json:"duration"`

	Status         Status `json:"status"`
	AssignedArtist string `json:"assignedArtist,omitempty"`
	IsPaid         string `json:"isPaid,omitempty"`

	CompletionImages []string `json:"completionImages,omitempty"` // at most 3
	CompletionVideo  string   `json:"completionVideo,omitempty"`  // at most 1

	AdditionalRequests      string `json:"additionalRequests,omitempty"`
	CancellationDescription string `json:"cancellationDescription,omitempty"`

	CreatedAt time.Time `json:"createdAt,omitempty"`
	UpdatedAt time.Time `json:"updatedAt,omitempty"`
}

// EventDatePassed reports whether the booking's event date is today or
// earlier. A zero or malformed date counts as not passed, so the gate stays
// closed rather than letting a broken record complete.
func (b *Booking) EventDatePassed(now time.Time) bool {
	d, err := time.Parse(DateLayout, b.EventDate)
	if err != nil {
		return false
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return !d.After(today)
}

// FullyPaid reports whether payment has been captured in full.
func (b *Booking) FullyPaid() bool {
	return b.IsPaid == PaymentFull
}

// CompletionEvidence is the media batch attached when a booking is marked
// complete, distinct from design inspiration.
type CompletionEvidence struct {
	Images []string `json:"images"`
	Video  string   `json:"video,omitempty"`
}

// Draft is the mutable booking-in-edit a wizard session owns. Exactly one
// session owns a draft; steps replace whole values, nothing is shared.
type Draft struct {
	// BookingID is set when the draft edits an existing pending booking.
	BookingID string `json:"bookingId,omitempty"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`

	EventType         EventType        `json:"eventType"`
	OtherEventType    string           `json:"otherEventType,omitempty"`
	EventDate         string           `json:"eventDate"`
	PreferredTimeSlot TimeSlot         `json:"preferredTimeSlot"`
	Location          string           `json:"location"`
	Latitude          *float64         `json:"latitude,omitempty"`
	Longitude         *float64         `json:"longitude,omitempty"`
	ArtistTravel      TravelPreference `json:"artistTravelsToClient"`
	VenueName         string           `json:"venueName,omitempty"`

	DesignStyle        DesignStyle `json:"designStyle"`
	DesignInspiration  []string    `json:"designInspiration,omitempty"`
	CoveragePreference string      `json:"coveragePreference,omitempty"`

	MinimumBudget  int `json:"minimumBudget"`
	MaximumBudget  int `json:"maximumBudget"`
	NumberOfPeople int `json:"numberOfPeople"`
	Duration       int `json:"duration"`

	AdditionalRequests string `json:"additionalRequests,omitempty"`
}

// DraftFrom seeds an edit draft from an existing booking.
func DraftFrom(b *Booking) *Draft {
	return &Draft{
		BookingID:          b.ID,
		FirstName:          b.FirstName,
		LastName:           b.LastName,
		Email:              b.Email,
		EventType:          b.EventType,
		OtherEventType:     b.OtherEventType,
		EventDate:          b.EventDate,
		PreferredTimeSlot:  b.PreferredTimeSlot,
		Location:           b.Location,
		Latitude:           b.Latitude,
		Longitude:          b.Longitude,
		ArtistTravel:       b.ArtistTravel,
		VenueName:          b.VenueName,
		DesignStyle:        b.DesignStyle,
		DesignInspiration:  append([]string(nil), b.DesignInspiration...),
		CoveragePreference: b.CoveragePreference,
		MinimumBudget:      b.MinimumBudget,
		MaximumBudget:      b.MaximumBudget,
		NumberOfPeople:     b.NumberOfPeople,
		Duration:           b.Duration,
		AdditionalRequests: b.AdditionalRequests,
	}
}

// AppendInspiration adds a media URL (uploaded or pasted link) to the end of
// the inspiration list. Insertion order is what the artist will see.
func (d *Draft) AppendInspiration(url string) {
	d.DesignInspiration = append(d.DesignInspiration, url)
}

// RemoveInspiration detaches the reference at idx and re-packs the list so
// the remaining indexes stay contiguous. The remote object is never deleted.
func (d *Draft) RemoveInspiration(idx int) bool {
	if idx < 0 || idx >= len(d.DesignInspiration) {
		return false
	}
	d.DesignInspiration = append(d.DesignInspiration[:idx], d.DesignInspiration[idx+1:]...)
	return true
}
