package wcaclient

import (
	"encoding/json"
	"time"

	wcifdomain "github.com/Black-And-White-Club/wcif-bot/app/modules/wcif/domain"
)

// Competition is the summary returned by the competitions listing.
type Competition struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	RegistrationOpen  time.Time       `json:"registration_open"`
	RegistrationClose time.Time       `json:"registration_close"`
	AnnouncedAt       *time.Time      `json:"announced_at"`
	StartDate         wcifdomain.Date `json:"start_date"`
	EndDate           wcifdomain.Date `json:"end_date"`
	CompetitorLimit   *uint64         `json:"competitor_limit"`
	CancelledAt       *time.Time      `json:"cancelled_at"`
	URL               string          `json:"url"`
	Website           string          `json:"website"`
	ShortName         string          `json:"short_name"`
	City              string          `json:"city"`
	VenueAddress      string          `json:"venue_address"`
	VenueDetails      string          `json:"venue_details"`
	LatitudeDegrees   float64         `json:"latitude_degrees"`
	LongitudeDegrees  float64         `json:"longitude_degrees"`
	CountryIso2       string          `json:"country_iso2"`
	EventIDs          []string        `json:"event_ids"`
	Delegates         json.RawMessage `json:"delegates"`
	Organizers        json.RawMessage `json:"organizers"`
}

func (c *Competition) IsCancelled() bool {
	return c.CancelledAt != nil
}
