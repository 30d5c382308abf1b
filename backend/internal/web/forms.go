package web

import (
	"fmt"
	"time"

	"contact-tracer/backend/internal/graph"
)

type personForm struct {
	Name   string `form:"name" json:"name" binding:"required"`
	Phone  string `form:"phone" json:"phone" binding:"required"`
	Status string `form:"status" json:"status"`
}

func (f personForm) toNewPerson() graph.NewPerson {
	return graph.NewPerson{Name: f.Name, Phone: f.Phone, Status: f.Status}
}

type meetingForm struct {
	Title string `form:"title" json:"title" binding:"required"`
	Date  string `form:"date" json:"date" binding:"required"`
}

func (f meetingForm) toNewMeeting() (graph.NewMeeting, error) {
	date, err := time.Parse(graph.DateLayout, f.Date)
	if err != nil {
		return graph.NewMeeting{}, fmt.Errorf("date must be formatted YYYY-MM-DD: %q", f.Date)
	}
	return graph.NewMeeting{Title: f.Title, Date: date}, nil
}

// Node ids start at zero, so required id fields are pointers.
type participantForm struct {
	Phone     string `form:"phone" json:"phone" binding:"required"`
	MeetingID *int64 `form:"meeting_id" json:"meeting_id" binding:"required"`
}

type phoneForm struct {
	Phone string `form:"phone" json:"phone" binding:"required"`
}

type statusForm struct {
	ID     *int64 `form:"id" json:"id" binding:"required"`
	Status string `form:"status" json:"status"`
}
