package graph

import (
	"encoding/json"
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used for meeting dates in forms and JSON
const DateLayout = "2006-01-02"

// Person is a registered individual. ID is the database-assigned node id.
type Person struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	Phone  string `json:"phone"`
	Status string `json:"status"`
}

// Meeting is a gathering people take part in
type Meeting struct {
	ID    int64     `json:"id"`
	Title string    `json:"title"`
	Date  time.Time `json:"date"` // calendar date, UTC midnight
}

// Day formats the meeting date as YYYY-MM-DD
func (m Meeting) Day() string {
	if m.Date.IsZero() {
		return ""
	}
	return m.Date.Format(DateLayout)
}

type meetingJSON struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
	Date  string `json:"date"`
}

// MarshalJSON writes the date as YYYY-MM-DD, the same layout the API accepts
func (m Meeting) MarshalJSON() ([]byte, error) {
	return json.Marshal(meetingJSON{ID: m.ID, Title: m.Title, Date: m.Day()})
}

func (m *Meeting) UnmarshalJSON(data []byte) error {
	var raw meetingJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*m = Meeting{ID: raw.ID, Title: raw.Title}
	if raw.Date == "" {
		return nil
	}
	date, err := time.Parse(DateLayout, raw.Date)
	if err != nil {
		return fmt.Errorf("meeting date must be formatted YYYY-MM-DD: %q", raw.Date)
	}
	m.Date = date
	return nil
}

// Contact is the reduced person view returned for contacts and participants
type Contact struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

// MeetingParticipants pairs a meeting with everyone linked to it
type MeetingParticipants struct {
	Meeting      Meeting   `json:"meeting"`
	Participants []Contact `json:"participants"`
}

// NewPerson carries the attributes of a person to create
type NewPerson struct {
	Name   string
	Phone  string
	Status string
}

// NewMeeting carries the attributes of a meeting to create
type NewMeeting struct {
	Title string
	Date  time.Time
}
