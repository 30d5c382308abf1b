package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/brianvoe/gofakeit/v6"

	"contact-tracer/backend/internal/graph"
)

var (
	seedStatuses = []string{"healthy", "healthy", "healthy", "sick", "quarantined"}
	seedKinds    = []string{"standup", "review", "lunch", "workshop", "sync"}
)

type seedOptions struct {
	People     int
	Meetings   int
	PerMeeting int
	MaxDaysAgo int
	Seed       int64
}

type seedSummary struct {
	People         int
	Meetings       int
	Participations int
}

func (o seedOptions) validate() error {
	switch {
	case o.People < 0 || o.Meetings < 0:
		return fmt.Errorf("--people and --meetings must not be negative")
	case o.Meetings > 0 && o.People == 0:
		return fmt.Errorf("meetings need at least one person")
	case o.PerMeeting < 1 && o.Meetings > 0:
		return fmt.Errorf("--per-meeting must be at least 1")
	case o.MaxDaysAgo < 0:
		return fmt.Errorf("--max-days must not be negative")
	}
	return nil
}

// seedGraph creates fake people, then meetings between now and now-MaxDaysAgo
// attended by distinct random subsets of those people.
func seedGraph(ctx context.Context, t tracer, opts seedOptions, now time.Time) (seedSummary, error) {
	var summary seedSummary
	if err := opts.validate(); err != nil {
		return summary, err
	}

	faker := gofakeit.New(opts.Seed)

	people := make([]*graph.Person, 0, opts.People)
	for attempts := 0; len(people) < opts.People; attempts++ {
		if attempts >= opts.People*3 {
			return summary, fmt.Errorf("gave up after %d phone collisions", attempts-len(people))
		}

		p, err := t.CreatePerson(ctx, graph.NewPerson{
			Name:   faker.Name(),
			Phone:  faker.Phone(),
			Status: faker.RandomString(seedStatuses),
		})
		var dup graph.ErrDuplicatePhone
		if errors.As(err, &dup) {
			continue
		}
		if err != nil {
			return summary, err
		}
		people = append(people, p)
	}
	summary.People = len(people)

	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	for i := 0; i < opts.Meetings; i++ {
		m, err := t.CreateMeeting(ctx, graph.NewMeeting{
			Title: fmt.Sprintf("%s %s", faker.BuzzWord(), faker.RandomString(seedKinds)),
			Date:  today.AddDate(0, 0, -faker.Number(0, opts.MaxDaysAgo)),
		})
		if err != nil {
			return summary, err
		}
		summary.Meetings++

		for _, idx := range pickDistinct(faker, len(people), opts.PerMeeting) {
			if err := t.AddParticipant(ctx, people[idx].Phone, m.ID); err != nil {
				return summary, err
			}
			summary.Participations++
		}
	}

	return summary, nil
}

// pickDistinct returns min(k, n) distinct indexes in [0, n)
func pickDistinct(faker *gofakeit.Faker, n, k int) []int {
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	if k > n {
		k = n
	}
	for i := 0; i < k; i++ {
		j := faker.Number(i, n-1)
		idx[i], idx[j] = idx[j], idx[i]
	}
	return idx[:k]
}
