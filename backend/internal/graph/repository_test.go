package graph

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// These tests require a running Neo4j instance.
// Set NEO4J_URI, NEO4J_USER, NEO4J_PASSWORD to point at it.

type fixture struct {
	t      *testing.T
	ctx    context.Context
	driver neo4j.DriverWithContext
	repo   *Repository

	mu  sync.Mutex
	ids []int64
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	ctx := context.Background()
	driver, err := createTestDriver(ctx)
	if err != nil {
		t.Skipf("Neo4j not reachable: %v", err)
	}

	f := &fixture{t: t, ctx: ctx, driver: driver, repo: NewRepository(driver)}
	require.NoError(t, f.repo.EnsureSchema(ctx))

	t.Cleanup(func() {
		session := driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
		_, _ = session.Run(ctx, "MATCH (n) WHERE id(n) IN $ids DETACH DELETE n", map[string]any{"ids": f.ids})
		_ = session.Close(ctx)
		_ = driver.Close(ctx)
	})
	return f
}

func (f *fixture) track(id int64) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ids = append(f.ids, id)
}

func (f *fixture) person(name, status string) *Person {
	f.t.Helper()
	p, err := f.repo.CreatePerson(f.ctx, NewPerson{
		Name:   name,
		Phone:  uniquePhone(),
		Status: status,
	})
	require.NoError(f.t, err)
	f.track(p.ID)
	return p
}

func (f *fixture) meeting(title string, date time.Time) *Meeting {
	f.t.Helper()
	m, err := f.repo.CreateMeeting(f.ctx, NewMeeting{Title: title, Date: date})
	require.NoError(f.t, err)
	f.track(m.ID)
	return m
}

// exec runs a raw write query outside the repository
func (f *fixture) exec(query string, params map[string]any) []*neo4j.Record {
	f.t.Helper()
	session := f.driver.NewSession(f.ctx, neo4j.SessionConfig{AccessMode: neo4j.AccessModeWrite})
	defer session.Close(f.ctx)

	res, err := session.ExecuteWrite(f.ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		result, err := tx.Run(f.ctx, query, params)
		if err != nil {
			return nil, err
		}
		return result.Collect(f.ctx)
	})
	require.NoError(f.t, err)
	records, _ := res.([]*neo4j.Record)
	return records
}

func uniquePhone() string {
	return gofakeit.Numerify("+1##########") + "-" + time.Now().Format("150405.000000000")
}

func daysAgo(n int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -n)
}

func TestRepository_CreatePersonThenFindByID(t *testing.T) {
	f := newFixture(t)

	created := f.person(gofakeit.Name(), "healthy")

	found, err := f.repo.FindPersonByID(f.ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *found)

	byPhone, err := f.repo.FindPersonByPhone(f.ctx, created.Phone)
	require.NoError(t, err)
	assert.Equal(t, created.ID, byPhone.ID)
}

func TestRepository_CreatePerson_DuplicatePhone(t *testing.T) {
	f := newFixture(t)

	first := f.person("First", "healthy")

	_, err := f.repo.CreatePerson(f.ctx, NewPerson{Name: "Second", Phone: first.Phone, Status: "healthy"})
	require.Error(t, err)
	assert.ErrorAs(t, err, &ErrDuplicatePhone{})
}

func TestRepository_EnsureSchema_ToleratesDuplicatePhones(t *testing.T) {
	f := newFixture(t)
	phone := uniquePhone()

	f.exec("DROP CONSTRAINT person_phone_unique IF EXISTS", nil)
	var ids []int64
	for _, name := range []string{"Legacy One", "Legacy Two"} {
		records := f.exec("CREATE (p:Person {name: $name, phone: $phone, status: 'healthy'}) RETURN id(p)",
			map[string]any{"name": name, "phone": phone})
		require.Len(t, records, 1)
		id := records[0].Values[0].(int64)
		ids = append(ids, id)
		f.track(id)
	}
	t.Cleanup(func() {
		f.exec("MATCH (p:Person) WHERE id(p) IN $ids DETACH DELETE p", map[string]any{"ids": ids})
		_ = f.repo.EnsureSchema(f.ctx)
	})

	core, logs := observer.New(zap.WarnLevel)
	repo := NewRepository(f.driver, WithLogger(zap.New(core)))

	require.NoError(t, repo.EnsureSchema(f.ctx))

	warnings := logs.FilterMessageSnippet("Phone uniqueness not enforced").All()
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0].ContextMap()["duplicate_phones"], phone)

	dups, err := repo.DuplicatePhones(f.ctx)
	require.NoError(t, err)
	assert.Contains(t, dups, phone)

	found, err := repo.FindPersonByPhone(f.ctx, phone)
	require.NoError(t, err)
	assert.Contains(t, ids, found.ID)
}

func TestRepository_FindPerson_NotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.repo.FindPersonByPhone(f.ctx, "no-such-phone-"+uniquePhone())
	assert.True(t, IsNotFound(err))

	_, err = f.repo.FindPersonByID(f.ctx, -1)
	assert.True(t, IsNotFound(err))
}

func TestRepository_ChangeStatus_Idempotent(t *testing.T) {
	f := newFixture(t)

	p := f.person(gofakeit.Name(), "healthy")

	first, err := f.repo.ChangeStatus(f.ctx, p.ID, "quarantined")
	require.NoError(t, err)
	second, err := f.repo.ChangeStatus(f.ctx, p.ID, "quarantined")
	require.NoError(t, err)
	assert.Equal(t, *first, *second)

	found, err := f.repo.FindPersonByID(f.ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "quarantined", found.Status)
	assert.Equal(t, p.Name, found.Name)
	assert.Equal(t, p.Phone, found.Phone)

	_, err = f.repo.ChangeStatus(f.ctx, -1, "sick")
	assert.True(t, IsNotFound(err))
}

func TestRepository_AddParticipant_Idempotent(t *testing.T) {
	f := newFixture(t)

	alice := f.person("Alice", "healthy")
	bob := f.person("Bob", "healthy")
	m := f.meeting("Retro", daysAgo(2))

	require.NoError(t, f.repo.AddParticipant(f.ctx, alice.Phone, m.ID))
	require.NoError(t, f.repo.AddParticipant(f.ctx, alice.Phone, m.ID))
	require.NoError(t, f.repo.AddParticipant(f.ctx, bob.Phone, m.ID))

	participants, err := f.repo.Participants(f.ctx, m.ID)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Contact{
		{ID: alice.ID, Name: "Alice", Phone: alice.Phone},
		{ID: bob.ID, Name: "Bob", Phone: bob.Phone},
	}, participants)
}

func TestRepository_AddParticipant_MissingEndpoint(t *testing.T) {
	f := newFixture(t)

	p := f.person(gofakeit.Name(), "healthy")
	m := f.meeting("Planning", daysAgo(1))

	err := f.repo.AddParticipant(f.ctx, "unknown-"+uniquePhone(), m.ID)
	assert.ErrorAs(t, err, &ErrParticipantNotLinked{})

	err = f.repo.AddParticipant(f.ctx, p.Phone, -1)
	assert.ErrorAs(t, err, &ErrParticipantNotLinked{})
}

func TestRepository_MeetingWithParticipants_Empty(t *testing.T) {
	f := newFixture(t)

	m := f.meeting("Empty room", daysAgo(0))

	got, err := f.repo.MeetingWithParticipants(f.ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, *m, got.Meeting)
	assert.Empty(t, got.Participants)

	_, err = f.repo.MeetingWithParticipants(f.ctx, -1)
	assert.ErrorAs(t, err, &ErrMeetingNotFound{})
}

func TestRepository_Contacts_Window(t *testing.T) {
	f := newFixture(t)

	subject := f.person("Subject", "sick")
	recent := f.person("Recent", "healthy")
	boundary := f.person("Boundary", "healthy")
	stranger := f.person("Stranger", "healthy")

	tenDays := f.meeting("Ten days ago", daysAgo(10))
	elevenDays := f.meeting("Eleven days ago", daysAgo(11))
	unrelated := f.meeting("Unrelated", daysAgo(1))

	for _, link := range []struct {
		phone   string
		meeting int64
	}{
		{subject.Phone, tenDays.ID},
		{recent.Phone, tenDays.ID},
		{subject.Phone, elevenDays.ID},
		{boundary.Phone, elevenDays.ID},
		{stranger.Phone, unrelated.ID},
	} {
		require.NoError(t, f.repo.AddParticipant(f.ctx, link.phone, link.meeting))
	}

	contacts, err := f.repo.Contacts(f.ctx, subject.Phone)
	require.NoError(t, err)

	ids := make([]int64, 0, len(contacts))
	for _, c := range contacts {
		ids = append(ids, c.ID)
	}
	assert.ElementsMatch(t, []int64{subject.ID, recent.ID}, ids)
}

func TestRepository_Contacts_WiderWindow(t *testing.T) {
	f := newFixture(t)
	wide := NewRepository(f.driver, WithContactWindow(30))

	a := f.person("A", "sick")
	b := f.person("B", "healthy")
	m := f.meeting("Old", daysAgo(20))
	require.NoError(t, f.repo.AddParticipant(f.ctx, a.Phone, m.ID))
	require.NoError(t, f.repo.AddParticipant(f.ctx, b.Phone, m.ID))

	narrow, err := f.repo.Contacts(f.ctx, a.Phone)
	require.NoError(t, err)
	assert.Empty(t, narrow)

	widened, err := wide.Contacts(f.ctx, a.Phone)
	require.NoError(t, err)
	assert.Len(t, widened, 2)
}

func TestRepository_Scenario(t *testing.T) {
	f := newFixture(t)

	alice, err := f.repo.CreatePerson(f.ctx, NewPerson{Name: "Alice", Phone: "111-" + uniquePhone(), Status: "healthy"})
	require.NoError(t, err)
	f.track(alice.ID)

	standup := f.meeting("Standup", time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, "2024-01-01", standup.Day())

	require.NoError(t, f.repo.AddParticipant(f.ctx, alice.Phone, standup.ID))

	got, err := f.repo.MeetingWithParticipants(f.ctx, standup.ID)
	require.NoError(t, err)
	assert.Equal(t, "Standup", got.Meeting.Title)
	assert.Equal(t, []Contact{{ID: alice.ID, Name: "Alice", Phone: alice.Phone}}, got.Participants)

	people, err := f.repo.ListPeople(f.ctx)
	require.NoError(t, err)
	assert.Contains(t, people, *alice)

	meetings, err := f.repo.ListMeetings(f.ctx)
	require.NoError(t, err)
	assert.Contains(t, meetings, *standup)
}

func createTestDriver(ctx context.Context) (neo4j.DriverWithContext, error) {
	uri := envOr("NEO4J_URI", "bolt://localhost:7687")
	user := envOr("NEO4J_USER", "neo4j")
	password := envOr("NEO4J_PASSWORD", "password")

	return NewDriver(ctx, uri, user, password)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
