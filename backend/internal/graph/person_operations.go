package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// ============================================================================
// Person Operations
// ============================================================================

// ListPeople returns every person in the graph, in no particular order
func (r *Repository) ListPeople(ctx context.Context) ([]Person, error) {
	nodes, err := r.runNodes(ctx, neo4j.AccessModeRead, "list people",
		"MATCH (n:Person) RETURN n", nil)
	if err != nil {
		return nil, err
	}
	return mapSlice(nodes, personFromNode), nil
}

// CreatePerson creates a person node. The phone must not already be registered.
func (r *Repository) CreatePerson(ctx context.Context, p NewPerson) (*Person, error) {
	query := "CREATE (p:Person { name: $name, phone: $phone, status: $status }) RETURN p"

	nodes, err := r.runNodes(ctx, neo4j.AccessModeWrite, "create person", query, map[string]any{
		"name":   p.Name,
		"phone":  p.Phone,
		"status": p.Status,
	})
	if err != nil {
		if isConstraintViolation(err) {
			return nil, ErrDuplicatePhone{Phone: p.Phone}
		}
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, noRows("create person")
	}

	person := personFromNode(nodes[0])
	r.logger.Info("Person created",
		zap.Int64("person_id", person.ID),
		zap.String("phone", person.Phone),
	)
	return &person, nil
}

// FindPersonByPhone returns the person registered with phone
func (r *Repository) FindPersonByPhone(ctx context.Context, phone string) (*Person, error) {
	nodes, err := r.runNodes(ctx, neo4j.AccessModeRead, "search person",
		"MATCH (p:Person {phone: $phone}) RETURN p",
		map[string]any{"phone": phone})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrPersonNotFound{Phone: phone}
	}
	if len(nodes) > 1 {
		r.logger.Warn("Phone matches several people, using the first",
			zap.String("phone", phone),
			zap.Int("matches", len(nodes)),
		)
	}

	person := personFromNode(nodes[0])
	return &person, nil
}

// FindPersonByID returns the person with the given node id
func (r *Repository) FindPersonByID(ctx context.Context, id int64) (*Person, error) {
	nodes, err := r.runNodes(ctx, neo4j.AccessModeRead, "search person by id",
		"MATCH (p:Person) WHERE id(p)=$id RETURN p",
		map[string]any{"id": id})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrPersonNotFound{ID: id}
	}

	person := personFromNode(nodes[0])
	return &person, nil
}

// ChangeStatus sets the status of a person and returns the updated record
func (r *Repository) ChangeStatus(ctx context.Context, id int64, status string) (*Person, error) {
	nodes, err := r.runNodes(ctx, neo4j.AccessModeWrite, "change status",
		"MATCH (p:Person) WHERE id(p)=$id SET p.status = $status RETURN p",
		map[string]any{"id": id, "status": status})
	if err != nil {
		return nil, err
	}
	if len(nodes) == 0 {
		return nil, ErrPersonNotFound{ID: id}
	}

	person := personFromNode(nodes[0])
	r.logger.Info("Person status changed",
		zap.Int64("person_id", person.ID),
		zap.String("status", person.Status),
	)
	return &person, nil
}
