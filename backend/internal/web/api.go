package web

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ============================================================================
// JSON API
// ============================================================================

func (h *Handler) apiListPeople(c *gin.Context) {
	people, err := h.store.ListPeople(c.Request.Context())
	if err != nil {
		h.jsonError(c, "Failed to list people", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"people": people})
}

func (h *Handler) apiCreatePerson(c *gin.Context) {
	var req personForm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	person, err := h.store.CreatePerson(c.Request.Context(), req.toNewPerson())
	if err != nil {
		h.jsonError(c, "Failed to create person", err)
		return
	}
	c.JSON(http.StatusCreated, person)
}

func (h *Handler) apiGetPerson(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	person, err := h.store.FindPersonByID(c.Request.Context(), id)
	if err != nil {
		h.jsonError(c, "Failed to load person", err)
		return
	}
	c.JSON(http.StatusOK, person)
}

func (h *Handler) apiChangeStatus(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req struct {
		Status string `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	person, err := h.store.ChangeStatus(c.Request.Context(), id, req.Status)
	if err != nil {
		h.jsonError(c, "Failed to change status", err)
		return
	}
	c.JSON(http.StatusOK, person)
}

func (h *Handler) apiContacts(c *gin.Context) {
	phone := c.Param("phone")

	contacts, err := h.store.Contacts(c.Request.Context(), phone)
	if err != nil {
		h.jsonError(c, "Failed to show contacts", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"phone":       phone,
		"window_days": h.store.ContactWindowDays(),
		"contacts":    contacts,
	})
}

func (h *Handler) apiListMeetings(c *gin.Context) {
	meetings, err := h.store.ListMeetings(c.Request.Context())
	if err != nil {
		h.jsonError(c, "Failed to list meetings", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"meetings": meetings})
}

func (h *Handler) apiCreateMeeting(c *gin.Context) {
	var req meetingForm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	newMeeting, err := req.toNewMeeting()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	meeting, err := h.store.CreateMeeting(c.Request.Context(), newMeeting)
	if err != nil {
		h.jsonError(c, "Failed to create meeting", err)
		return
	}
	c.JSON(http.StatusCreated, meeting)
}

func (h *Handler) apiGetMeeting(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	answer, err := h.store.MeetingWithParticipants(c.Request.Context(), id)
	if err != nil {
		h.jsonError(c, "Failed to load meeting", err)
		return
	}
	c.JSON(http.StatusOK, answer)
}

func (h *Handler) apiAddParticipant(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req phoneForm
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()

	if err := h.store.AddParticipant(ctx, req.Phone, id); err != nil {
		h.jsonError(c, "Failed to add participant", err)
		return
	}

	answer, err := h.store.MeetingWithParticipants(ctx, id)
	if err != nil {
		h.jsonError(c, "Failed to load meeting", err)
		return
	}
	c.JSON(http.StatusOK, answer)
}
