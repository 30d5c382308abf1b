package web

import (
	"context"

	"contact-tracer/backend/internal/graph"
)

// Store is the data access the handlers need. *graph.Repository implements it.
type Store interface {
	ListPeople(ctx context.Context) ([]graph.Person, error)
	ListMeetings(ctx context.Context) ([]graph.Meeting, error)
	CreatePerson(ctx context.Context, p graph.NewPerson) (*graph.Person, error)
	CreateMeeting(ctx context.Context, m graph.NewMeeting) (*graph.Meeting, error)
	AddParticipant(ctx context.Context, phone string, meetingID int64) error
	FindPersonByPhone(ctx context.Context, phone string) (*graph.Person, error)
	FindPersonByID(ctx context.Context, id int64) (*graph.Person, error)
	ChangeStatus(ctx context.Context, id int64, status string) (*graph.Person, error)
	Contacts(ctx context.Context, phone string) ([]graph.Contact, error)
	MeetingWithParticipants(ctx context.Context, meetingID int64) (*graph.MeetingParticipants, error)
	ContactWindowDays() int
	Ping(ctx context.Context) error
}

var _ Store = (*graph.Repository)(nil)
