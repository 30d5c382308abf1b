package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ============================================================================
// Meeting Operations
// ============================================================================

// ListMeetings returns every meeting in the graph
func (r *Repository) ListMeetings(ctx context.Context) ([]Meeting, error) {
	nodes, err := r.runNodes(ctx, neo4j.AccessModeRead, "list meetings",
		"MATCH (m:Meeting) RETURN m", nil)
	if err != nil {
		return nil, err
	}
	return mapSlice(nodes, meetingFromNode), nil
}

// CreateMeeting creates a meeting node with its date stored as a Neo4j date
func (r *Repository) CreateMeeting(ctx context.Context, m NewMeeting) (*Meeting, error) {
	query := "CREATE (m:Meeting { title: $title, date: $date }) RETURN m"

	nodes, err := r.runNodes(ctx, neo4j.AccessModeWrite, "create meeting", query, map[string]any{
		"title": m.Title,
		"date":  neo4j.DateOf(m.Date),
	})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, noRows("create meeting")
	}

	meeting := meetingFromNode(nodes[0])
	r.logger.Info("Meeting created",
		zap.Int64("meeting_id", meeting.ID),
		zap.String("title", meeting.Title),
		zap.String("date", meeting.Day()),
	)
	return &meeting, nil
}

// MeetingByID returns the meeting with the given node id
func (r *Repository) MeetingByID(ctx context.Context, id int64) (*Meeting, error) {
	nodes, err := r.runNodes(ctx, neo4j.AccessModeRead, "search meeting by id",
		"MATCH (m:Meeting) WHERE id(m)=$id RETURN m",
		map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrMeetingNotFound{ID: id}
	}

	meeting := meetingFromNode(nodes[0])
	return &meeting, nil
}

// AddParticipant links the person with phone to the meeting. Linking the same
// pair twice leaves a single relationship.
func (r *Repository) AddParticipant(ctx context.Context, phone string, meetingID int64) error {
	query := "MATCH (m:Meeting), (p:Person {phone: $phone}) WHERE id(m)=$id MERGE (p)-[:TAKE_PART_IN]->(m) RETURN p"

	nodes, err := r.runNodes(ctx, neo4j.AccessModeWrite, "add participant", query, map[string]any{
		"phone": phone,
		"id":    meetingID,
	})
	if err != nil {
		return err
	}
	if len(nodes) == 0 {
		return ErrParticipantNotLinked{Phone: phone, MeetingID: meetingID}
	}

	r.logger.Info("Participant added",
		zap.String("phone", phone),
		zap.Int64("meeting_id", meetingID),
	)
	return nil
}

// Participants returns everyone linked to the meeting. A meeting without
// participants, or an unknown meeting, yields an empty list.
func (r *Repository) Participants(ctx context.Context, meetingID int64) ([]Contact, error) {
	nodes, err := r.runNodes(ctx, neo4j.AccessModeRead, "list participants",
		"MATCH (p:Person)-[:TAKE_PART_IN]->(m:Meeting) WHERE id(m)=$id RETURN p",
		map[string]any{"id": meetingID})
	if err != nil {
		return nil, err
	}
	return mapSlice(nodes, contactFromNode), nil
}

// MeetingWithParticipants loads a meeting and its participants with two
// independent reads run concurrently.
func (r *Repository) MeetingWithParticipants(ctx context.Context, meetingID int64) (*MeetingParticipants, error) {
	var (
		meeting      *Meeting
		participants []Contact
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		m, err := r.MeetingByID(gctx, meetingID)
		meeting = m
		return err
	})
	g.Go(func() error {
		p, err := r.Participants(gctx, meetingID)
		participants = p
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &MeetingParticipants{
		Meeting:      *meeting,
		Participants: participants,
	}, nil
}
