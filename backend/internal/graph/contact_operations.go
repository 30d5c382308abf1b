package graph

import (
	"context"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"
)

// contactsQuery matches everyone who took part in a meeting with the person
// whose phone is given, keeping meetings less than $windowDays whole days
// before the transaction date. The person themself is part of the result.
const contactsQuery = `
	MATCH (a:Person {phone: $phone})-[:TAKE_PART_IN]->(m:Meeting),
	      (b:Person)-[:TAKE_PART_IN]->(m:Meeting)
	WHERE duration.inDays(date(m.date), date.transaction()).days < $windowDays
	RETURN DISTINCT b
`

// Contacts returns the distinct people who shared a meeting with phone inside
// the exposure window. An unknown phone yields an empty list.
func (r *Repository) Contacts(ctx context.Context, phone string) ([]Contact, error) {
	nodes, err := r.runNodes(ctx, neo4j.AccessModeRead, "show contacts", contactsQuery, map[string]any{
		"phone":      phone,
		"windowDays": r.windowDays,
	})
	if err != nil {
		return nil, err
	}

	contacts := mapSlice(nodes, contactFromNode)
	r.logger.Debug("Contacts resolved",
		zap.String("phone", phone),
		zap.Int("window_days", r.windowDays),
		zap.Int("contacts", len(contacts)),
	)
	return contacts, nil
}
