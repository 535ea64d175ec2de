package booking

import "time"

// The upstream service stores eventType and preferredTimeSlot as arrays even
// though the wizard captures exactly one choice each. The conversion below is
// lossless only because nothing on the client ever produces more than one
// element; extra elements coming back from the server are dropped past the
// first.

func wrapChoice(v string) []string {
	if v == "" {
		return nil
	}
	return []string{v}
}

func unwrapChoice(vs []string) string {
	if len(vs) == 0 {
		return ""
	}
	return vs[0]
}

// Payload is the transport form of a draft sent on create and update.
type Payload struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`

	EventType         []string         `json:"eventType"`
	OtherEventType    string           `json:"otherEventType,omitempty"`
	EventDate         string           `json:"eventDate"`
	PreferredTimeSlot []string         `json:"preferredTimeSlot"`
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

// Payload converts the draft to its transport form, wrapping single-choice
// fields and applying the duration default.
func (d *Draft) Payload() Payload {
	duration := d.Duration
	if duration == 0 {
		duration = DefaultDurationHours
	}
	return Payload{
		FirstName:          d.FirstName,
		LastName:           d.LastName,
		Email:              d.Email,
		EventType:          wrapChoice(string(d.EventType)),
		OtherEventType:     d.OtherEventType,
		EventDate:          d.EventDate,
		PreferredTimeSlot:  wrapChoice(string(d.PreferredTimeSlot)),
		Location:           d.Location,
		Latitude:           d.Latitude,
		Longitude:          d.Longitude,
		ArtistTravel:       d.ArtistTravel,
		VenueName:          d.VenueName,
		DesignStyle:        d.DesignStyle,
		DesignInspiration:  append([]string(nil), d.DesignInspiration...),
		CoveragePreference: d.CoveragePreference,
		MinimumBudget:      d.MinimumBudget,
		MaximumBudget:      d.MaximumBudget,
		NumberOfPeople:     d.NumberOfPeople,
		Duration:           duration,
		AdditionalRequests: d.AdditionalRequests,
	}
}

// Draft unwraps a payload back into the wizard's editing form.
func (p Payload) Draft() *Draft {
	return &Draft{
		FirstName:          p.FirstName,
		LastName:           p.LastName,
		Email:              p.Email,
		EventType:          EventType(unwrapChoice(p.EventType)),
		OtherEventType:     p.OtherEventType,
		EventDate:          p.EventDate,
		PreferredTimeSlot:  TimeSlot(unwrapChoice(p.PreferredTimeSlot)),
		Location:           p.Location,
		Latitude:           p.Latitude,
		Longitude:          p.Longitude,
		ArtistTravel:       p.ArtistTravel,
		VenueName:          p.VenueName,
		DesignStyle:        p.DesignStyle,
		DesignInspiration:  append([]string(nil), p.DesignInspiration...),
		CoveragePreference: p.CoveragePreference,
		MinimumBudget:      p.MinimumBudget,
		MaximumBudget:      p.MaximumBudget,
		NumberOfPeople:     p.NumberOfPeople,
		Duration:           p.Duration,
		AdditionalRequests: p.AdditionalRequests,
	}
}

// Record is a booking as the upstream service returns it.
type Record struct {
	ID string `json:"_id"`

	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`

	EventType         []string         `json:"eventType"`
	OtherEventType    string           `json:"otherEventType"`
	EventDate         string           `json:"eventDate"`
	PreferredTimeSlot []string         `json:"preferredTimeSlot"`
	Location          string           `json:"location"`
	Latitude          *float64         `json:"latitude"`
	Longitude         *float64         `json:"longitude"`
	ArtistTravel      TravelPreference `json:"artistTravelsToClient"`
	VenueName         string           `json:"venueName"`

	DesignStyle        DesignStyle `json:"designStyle"`
	DesignInspiration  []string    `json:"designInspiration"`
	CoveragePreference string      `json:"coveragePreference"`

	MinimumBudget  int `json:"minimumBudget"`
	MaximumBudget  int `json:"maximumBudget"`
	NumberOfPeople int `json:"numberOfPeople"`
	Duration       int `json:"duration"`

	Status         Status `json:"status"`
	AssignedArtist string `json:"assignedArtist"`
	IsPaid         string `json:"isPaid"`

	CompletionImages []string `json:"completionImages"`
	CompletionVideo  string   `json:"completionVideo"`

	AdditionalRequests      string `json:"additionalRequests"`
	CancellationDescription string `json:"cancellationDescription"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Booking unwraps the record into the client's cached form.
func (r Record) Booking() *Booking {
	return &Booking{
		ID:                      r.ID,
		FirstName:               r.FirstName,
		LastName:                r.LastName,
		Email:                   r.Email,
		EventType:               EventType(unwrapChoice(r.EventType)),
		OtherEventType:          r.OtherEventType,
		EventDate:               r.EventDate,
		PreferredTimeSlot:       TimeSlot(unwrapChoice(r.PreferredTimeSlot)),
		Location:                r.Location,
		Latitude:                r.Latitude,
		Longitude:               r.Longitude,
		ArtistTravel:            r.ArtistTravel,
		VenueName:               r.VenueName,
		DesignStyle:             r.DesignStyle,
		DesignInspiration:       r.DesignInspiration,
		CoveragePreference:      r.CoveragePreference,
		MinimumBudget:           r.MinimumBudget,
		MaximumBudget:           r.MaximumBudget,
		NumberOfPeople:          r.NumberOfPeople,
		Duration:                r.Duration,
		Status:                  r.Status,
		AssignedArtist:          r.AssignedArtist,
		IsPaid:                  r.IsPaid,
		CompletionImages:        r.CompletionImages,
		CompletionVideo:         r.CompletionVideo,
		AdditionalRequests:      r.AdditionalRequests,
		CancellationDescription: r.CancellationDescription,
		CreatedAt:               r.CreatedAt,
		UpdatedAt:               r.UpdatedAt,
	}
}
