package graph

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
)

// ============================================================================
// Record Mapping
// ============================================================================

const constraintViolationCode = "Neo.ClientError.Schema.ConstraintValidationFailed"

// collectNodes runs query inside tx and returns the node in the first column of every row
func collectNodes(ctx context.Context, tx neo4j.ManagedTransaction, query string, params map[string]any) ([]neo4j.Node, error) {
	result, err := tx.Run(ctx, query, params)
	if err != nil {
		return nil, err
	}

	records, err := result.Collect(ctx)
	if err != nil {
		return nil, err
	}

	nodes := make([]neo4j.Node, 0, len(records))
	for _, record := range records {
		node, err := nodeFromRecord(record)
		if err != nil {
			return nil, err
		}
		nodes = append(nodes, node)
	}
	return nodes, nil
}

func nodeFromRecord(record *neo4j.Record) (neo4j.Node, error) {
	if record == nil || len(record.Values) == 0 {
		return neo4j.Node{}, fmt.Errorf("empty record")
	}
	node, ok := record.Values[0].(neo4j.Node)
	if !ok {
		return neo4j.Node{}, fmt.Errorf("expected node in first column, got %T", record.Values[0])
	}
	return node, nil
}

func personFromNode(node neo4j.Node) Person {
	return Person{
		ID:     node.Id,
		Name:   getStringFromProps(node.Props, "name"),
		Phone:  getStringFromProps(node.Props, "phone"),
		Status: getStringFromProps(node.Props, "status"),
	}
}

func contactFromNode(node neo4j.Node) Contact {
	return Contact{
		ID:    node.Id,
		Name:  getStringFromProps(node.Props, "name"),
		Phone: getStringFromProps(node.Props, "phone"),
	}
}

func meetingFromNode(node neo4j.Node) Meeting {
	return Meeting{
		ID:    node.Id,
		Title: getStringFromProps(node.Props, "title"),
		Date:  getDateFromProps(node.Props, "date"),
	}
}

func getStringFromProps(props map[string]any, key string) string {
	val, ok := props[key]
	if !ok || val == nil {
		return ""
	}
	if str, ok := val.(string); ok {
		return str
	}
	return ""
}

// getDateFromProps accepts native dates as well as the ISO strings older
// deployments stored.
func getDateFromProps(props map[string]any, key string) time.Time {
	val, ok := props[key]
	if !ok || val == nil {
		return time.Time{}
	}
	switch v := val.(type) {
	case neo4j.Date:
		return v.Time()
	case time.Time:
		return v
	case string:
		if t, err := time.Parse(DateLayout, v); err == nil {
			return t
		}
	}
	return time.Time{}
}

func isConstraintViolation(err error) bool {
	var neoErr *neo4j.Neo4jError
	return errors.As(err, &neoErr) && neoErr.Code == constraintViolationCode
}

func mapSlice[N any, T any](nodes []N, fn func(N) T) []T {
	out := make([]T, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, fn(n))
	}
	return out
}
