package graph

import (
	"context"
	"errors"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"go.uber.org/zap"

	"contact-tracer/backend/pkg/config"
	apperrors "contact-tracer/backend/pkg/errors"
	"contact-tracer/backend/pkg/logger"
)

// DefaultContactWindowDays is the exposure window: people who shared a meeting
// dated fewer than this many days before the transaction date are contacts.
const DefaultContactWindowDays = config.DefaultContactWindowDays

var errNoRows = errors.New("query returned no rows")

// Repository handles all Neo4j database operations. The driver is the
// connection pool; every operation runs in its own session and managed
// transaction, so a single Repository is safe for concurrent use.
type Repository struct {
	driver     neo4j.DriverWithContext
	logger     *zap.Logger
	database   string
	windowDays int
}

// Option configures a Repository
type Option func(*Repository)

// WithDatabase selects the Neo4j database sessions run against
func WithDatabase(name string) Option {
	return func(r *Repository) {
		r.database = name
	}
}

// WithContactWindow overrides the exposure window in days
func WithContactWindow(days int) Option {
	return func(r *Repository) {
		if days > 0 {
			r.windowDays = days
		}
	}
}

// WithLogger replaces the global logger
func WithLogger(l *zap.Logger) Option {
	return func(r *Repository) {
		if l != nil {
			r.logger = l
		}
	}
}

// NewRepository creates a new graph repository
func NewRepository(driver neo4j.DriverWithContext, opts ...Option) *Repository {
	r := &Repository{
		driver:     driver,
		logger:     logger.Get(),
		windowDays: DefaultContactWindowDays,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// NewDriver creates a Neo4j driver and verifies it can reach the server
func NewDriver(ctx context.Context, uri, user, password string) (neo4j.DriverWithContext, error) {
	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, password, ""))
	if err != nil {
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	if err := driver.VerifyConnectivity(ctx); err != nil {
		_ = driver.Close(ctx)
		return nil, apperrors.NewGraphConnectionFailed(uri, err)
	}
	return driver, nil
}

// Close closes the Neo4j driver connection
func (r *Repository) Close(ctx context.Context) error {
	return r.driver.Close(ctx)
}

// Ping verifies the database is reachable
func (r *Repository) Ping(ctx context.Context) error {
	if err := r.driver.VerifyConnectivity(ctx); err != nil {
		return r.queryFailed(ctx, "ping", err)
	}
	return nil
}

// ContactWindowDays returns the exposure window used by Contacts
func (r *Repository) ContactWindowDays() int {
	return r.windowDays
}

const (
	phoneConstraint  = "CREATE CONSTRAINT person_phone_unique IF NOT EXISTS FOR (p:Person) REQUIRE p.phone IS UNIQUE"
	meetingDateIndex = "CREATE INDEX meeting_date IF NOT EXISTS FOR (m:Meeting) ON (m.date)"
	duplicatePhones  = "MATCH (p:Person) WITH p.phone AS phone, count(*) AS c WHERE c > 1 RETURN phone"
)

// EnsureSchema creates the phone uniqueness constraint and the meeting date index.
// When existing people already share a phone the constraint cannot be created;
// the duplicates are logged and phone lookups fall back to the first match.
func (r *Repository) EnsureSchema(ctx context.Context) error {
	enforced := true
	if err := r.runSchema(ctx, phoneConstraint); err != nil {
		if ctx.Err() != nil {
			return apperrors.NewContextCancelled("ensure schema", err)
		}
		phones, dupErr := r.DuplicatePhones(ctx)
		if dupErr != nil || len(phones) == 0 {
			return r.queryFailed(ctx, "ensure schema", err)
		}
		r.logger.Warn("Phone uniqueness not enforced, existing people share phone numbers",
			zap.Strings("duplicate_phones", phones),
			zap.Error(err),
		)
		enforced = false
	}

	if err := r.runSchema(ctx, meetingDateIndex); err != nil {
		return r.queryFailed(ctx, "ensure schema", err)
	}

	r.logger.Info("Graph schema ensured", zap.Bool("phone_unique", enforced))
	return nil
}

// DuplicatePhones returns every phone number held by more than one person
func (r *Repository) DuplicatePhones(ctx context.Context) ([]string, error) {
	session := r.newSession(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	res, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, duplicatePhones, nil)
		if err != nil {
			return nil, err
		}
		records, err := result.Collect(ctx)
		if err != nil {
			return nil, err
		}
		phones := make([]string, 0, len(records))
		for _, record := range records {
			if phone, ok := record.Values[0].(string); ok {
				phones = append(phones, phone)
			}
		}
		return phones, nil
	})
	if err != nil {
		return nil, r.queryFailed(ctx, "find duplicate phones", err)
	}

	phones, _ := res.([]string)
	return phones, nil
}

func (r *Repository) runSchema(ctx context.Context, stmt string) error {
	session := r.newSession(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(ctx, stmt, nil)
		if err != nil {
			return nil, err
		}
		return result.Consume(ctx)
	})
	return err
}

func (r *Repository) newSession(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return r.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   mode,
		DatabaseName: r.database,
	})
}

// runNodes executes query in a single managed transaction of the given mode
// and returns the node from the first column of each row.
func (r *Repository) runNodes(ctx context.Context, mode neo4j.AccessMode, operation, query string, params map[string]any) ([]neo4j.Node, error) {
	session := r.newSession(ctx, mode)
	defer session.Close(ctx)

	work := func(tx neo4j.ManagedTransaction) (any, error) {
		return collectNodes(ctx, tx, query, params)
	}

	var (
		res any
		err error
	)
	if mode == neo4j.AccessModeRead {
		res, err = session.ExecuteRead(ctx, work)
	} else {
		res, err = session.ExecuteWrite(ctx, work)
	}
	if err != nil {
		return nil, r.queryFailed(ctx, operation, err)
	}

	nodes, _ := res.([]neo4j.Node)
	return nodes, nil
}

func (r *Repository) queryFailed(ctx context.Context, operation string, err error) error {
	if ctx.Err() != nil {
		return apperrors.NewContextCancelled(operation, err)
	}
	// Constraint violations are mapped to domain errors by the caller
	if isConstraintViolation(err) {
		r.logger.Debug("Graph constraint violated",
			zap.String("operation", operation),
			zap.Error(err),
		)
		return apperrors.NewGraphQueryFailed(operation, err)
	}
	r.logger.Error("Graph operation failed",
		zap.String("operation", operation),
		zap.Error(err),
	)
	return apperrors.NewGraphQueryFailed(operation, err)
}

// noRows reports a write that matched nothing where a row was guaranteed
func noRows(operation string) error {
	return apperrors.NewGraphQueryFailed(operation, errNoRows)
}
