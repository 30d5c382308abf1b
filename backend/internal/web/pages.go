package web

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"

	"contact-tracer/backend/internal/graph"
)

// ============================================================================
// HTML Pages
// ============================================================================

func (h *Handler) home(c *gin.Context) {
	c.HTML(http.StatusOK, "index.html", gin.H{})
}

func (h *Handler) addPeoplePage(c *gin.Context) {
	people, err := h.store.ListPeople(c.Request.Context())
	if err != nil {
		h.renderError(c, "Failed to list people", err)
		return
	}
	c.HTML(http.StatusOK, "addpeople.html", gin.H{"people": people})
}

func (h *Handler) addMeetingPage(c *gin.Context) {
	meetings, err := h.store.ListMeetings(c.Request.Context())
	if err != nil {
		h.renderError(c, "Failed to list meetings", err)
		return
	}
	c.HTML(http.StatusOK, "addmeeting.html", gin.H{"meetings": meetings})
}

func (h *Handler) createPerson(c *gin.Context) {
	var form personForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderBadRequest(c, err)
		return
	}

	if _, err := h.store.CreatePerson(c.Request.Context(), form.toNewPerson()); err != nil {
		h.renderError(c, "Failed to create person", err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

func (h *Handler) createMeeting(c *gin.Context) {
	var form meetingForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderBadRequest(c, err)
		return
	}
	newMeeting, err := form.toNewMeeting()
	if err != nil {
		h.renderBadRequest(c, err)
		return
	}

	meeting, err := h.store.CreateMeeting(c.Request.Context(), newMeeting)
	if err != nil {
		h.renderError(c, "Failed to create meeting", err)
		return
	}
	c.HTML(http.StatusOK, "meeting.html", gin.H{
		"meeting":      meeting,
		"participants": []graph.Contact{},
	})
}

func (h *Handler) addParticipant(c *gin.Context) {
	var form participantForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderBadRequest(c, err)
		return
	}
	ctx := c.Request.Context()

	if err := h.store.AddParticipant(ctx, form.Phone, *form.MeetingID); err != nil {
		h.renderError(c, "Failed to add participant", err)
		return
	}

	answer, err := h.store.MeetingWithParticipants(ctx, *form.MeetingID)
	if err != nil {
		h.renderError(c, "Failed to load meeting participants", err)
		return
	}
	c.HTML(http.StatusOK, "meeting.html", gin.H{
		"meeting":      answer.Meeting,
		"participants": answer.Participants,
	})
}

func (h *Handler) searchPerson(c *gin.Context) {
	var form phoneForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderBadRequest(c, err)
		return
	}

	person, err := h.store.FindPersonByPhone(c.Request.Context(), form.Phone)
	if err != nil {
		h.renderError(c, "Failed to search person", err)
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"person": person})
}

func (h *Handler) showContacts(c *gin.Context) {
	var form phoneForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderBadRequest(c, err)
		return
	}

	var (
		person *graph.Person
		people []graph.Contact
	)
	g, ctx := errgroup.WithContext(c.Request.Context())
	g.Go(func() error {
		p, err := h.store.FindPersonByPhone(ctx, form.Phone)
		person = p
		return err
	})
	g.Go(func() error {
		contacts, err := h.store.Contacts(ctx, form.Phone)
		people = contacts
		return err
	})
	if err := g.Wait(); err != nil {
		h.renderError(c, "Failed to show contacts", err)
		return
	}

	c.HTML(http.StatusOK, "index.html", gin.H{
		"person":        person,
		"people":        people,
		"contactsShown": true,
		"windowDays":    h.store.ContactWindowDays(),
	})
}

func (h *Handler) personDetails(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		h.renderBadRequest(c, err)
		return
	}

	person, err := h.store.FindPersonByID(c.Request.Context(), id)
	if err != nil {
		h.renderError(c, "Failed to load person", err)
		return
	}
	c.HTML(http.StatusOK, "persondetails.html", gin.H{"person": person})
}

func (h *Handler) changeStatus(c *gin.Context) {
	var form statusForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderBadRequest(c, err)
		return
	}

	person, err := h.store.ChangeStatus(c.Request.Context(), *form.ID, form.Status)
	if err != nil {
		h.renderError(c, "Failed to change status", err)
		return
	}
	c.HTML(http.StatusOK, "persondetails.html", gin.H{"person": person})
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}
