package graph

import (
	"errors"
	"fmt"
)

// ErrPersonNotFound is returned when no person matches a phone or id lookup
type ErrPersonNotFound struct {
	Phone string
	ID    int64
}

func (e ErrPersonNotFound) Error() string {
	if e.Phone != "" {
		return fmt.Sprintf("person not found: phone %s", e.Phone)
	}
	return fmt.Sprintf("person not found: id %d", e.ID)
}

// ErrMeetingNotFound is returned when no meeting has the given id
type ErrMeetingNotFound struct {
	ID int64
}

func (e ErrMeetingNotFound) Error() string {
	return fmt.Sprintf("meeting not found: id %d", e.ID)
}

// ErrDuplicatePhone is returned when creating a person whose phone is already registered
type ErrDuplicatePhone struct {
	Phone string
}

func (e ErrDuplicatePhone) Error() string {
	return fmt.Sprintf("phone already registered: %s", e.Phone)
}

// ErrParticipantNotLinked is returned when the person or the meeting of a
// participation does not exist, so no edge was merged.
type ErrParticipantNotLinked struct {
	Phone     string
	MeetingID int64
}

func (e ErrParticipantNotLinked) Error() string {
	return fmt.Sprintf("cannot link phone %s to meeting %d: person or meeting not found", e.Phone, e.MeetingID)
}

// IsNotFound reports whether err means the requested person, meeting or
// participation endpoints do not exist.
func IsNotFound(err error) bool {
	var personErr ErrPersonNotFound
	var meetingErr ErrMeetingNotFound
	var linkErr ErrParticipantNotLinked
	return errors.As(err, &personErr) || errors.As(err, &meetingErr) || errors.As(err, &linkErr)
}
