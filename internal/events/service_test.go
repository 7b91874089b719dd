package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radpocket/radpocket/internal/construction"
	"github.com/radpocket/radpocket/internal/events"
	"github.com/radpocket/radpocket/internal/sites"
)

type fakeTickets struct {
	name   string
	events []events.Event
	err    error
}

func (f *fakeTickets) Events(_ context.Context, _ sites.Site, _ events.DateRange) ([]events.Event, error) {
	return f.events, f.err
}

func (f *fakeTickets) Name() string { return f.name }

type fakeSchedule struct {
	games    []events.Event
	err      error
	inRadius bool
}

func (f *fakeSchedule) HomeGames(_ context.Context, _ events.DateRange) ([]events.Event, error) {
	return f.games, f.err
}

func (f *fakeSchedule) InRadius(_ sites.Site) bool { return f.inRadius }

type fakeConstruction struct {
	projects []construction.Project
	err      error
}

func (f *fakeConstruction) Projects(_ context.Context, _ sites.Site) ([]construction.Project, error) {
	return f.projects, f.err
}

func testSites() []sites.Site {
	return sites.Facilities()[:2]
}

func TestAggregate_MergesDedupesAndRanks(t *testing.T) {
	game := events.Event{
		ID: "mlb-1", Title: "Braves vs Phillies", DateTime: "2024-04-12T23:05:00Z",
		StartTimestamp: ts(3000), Source: events.SourceMLB, Category: events.CategorySports,
	}
	svc := events.NewService(events.ServiceConfig{
		Sites: testSites(),
		Ticketmaster: &fakeTickets{name: "ticketmaster", events: []events.Event{
			{ID: "tm-1", Title: "Braves vs Phillies", DateTime: "2024-04-12T23:05:00Z", StartTimestamp: ts(3000), Source: events.SourceTicketmaster, Category: events.CategorySports},
			{ID: "tm-2", Title: "Big Concert", DateTime: "2024-04-11T01:00:00Z", StartTimestamp: ts(1000), Source: events.SourceTicketmaster, Category: events.CategoryConcert},
		}},
		SeatGeek: &fakeTickets{name: "seatgeek", events: []events.Event{
			{ID: "sg-1", Title: "Braves vs Phillies", DateTime: "2024-04-12T23:05:00Z", StartTimestamp: ts(3000), Source: events.SourceSeatGeek, Category: events.CategorySports},
		}},
		Schedule: &fakeSchedule{games: []events.Event{game}, inRadius: true},
	})

	cards := svc.Aggregate(context.Background())
	require.Len(t, cards, 2)

	for _, card := range cards {
		assert.Equal(t, events.StatusReady, card.Status)
		// tm-1, sg-1, and mlb-1 share a dedupe key; first-seen wins.
		require.Len(t, card.Events, 2)
		assert.Equal(t, "tm-2", card.Events[0].ID, "earlier start sorts first")
		assert.Equal(t, "tm-1", card.Events[1].ID)
	}
}

func TestAggregate_NoKeysAndScheduleFailureStillReady(t *testing.T) {
	// Unconfigured ticketing adapters return no events and no error; the
	// league schedule fetch fails outright. Construction needs no key.
	svc := events.NewService(events.ServiceConfig{
		Sites:        testSites(),
		Ticketmaster: &fakeTickets{name: "ticketmaster"},
		SeatGeek:     &fakeTickets{name: "seatgeek"},
		Schedule:     &fakeSchedule{err: errors.New("schedule endpoint down"), inRadius: true},
		Construction: &fakeConstruction{projects: []construction.Project{
			{ID: "gdot-1", Title: "I-75 resurfacing", Status: "Active", Source: "GDOT"},
		}},
	})

	cards := svc.Aggregate(context.Background())
	require.Len(t, cards, 2)
	for _, card := range cards {
		assert.Equal(t, events.StatusReady, card.Status)
		assert.Empty(t, card.Events)
		assert.Len(t, card.Construction, 1)
	}
}

func TestAggregate_SiteWithoutCoordinatesIsError(t *testing.T) {
	bad := sites.Unlocated(sites.Default())
	svc := events.NewService(events.ServiceConfig{
		Sites:        []sites.Site{bad},
		Ticketmaster: &fakeTickets{name: "ticketmaster"},
	})

	cards := svc.Aggregate(context.Background())
	require.Len(t, cards, 1)
	assert.Equal(t, events.StatusError, cards[0].Status)
	assert.NotEmpty(t, cards[0].Error)
	assert.Empty(t, cards[0].Events)
}

func TestAggregate_ProviderErrorDoesNotBlockOthers(t *testing.T) {
	svc := events.NewService(events.ServiceConfig{
		Sites:        testSites()[:1],
		Ticketmaster: &fakeTickets{name: "ticketmaster", err: errors.New("boom")},
		SeatGeek: &fakeTickets{name: "seatgeek", events: []events.Event{
			{ID: "sg-1", Title: "Spring Festival", DateTime: "2024-05-01T12:00:00Z", StartTimestamp: ts(500), Source: events.SourceSeatGeek, Category: events.CategoryFestival},
		}},
	})

	cards := svc.Aggregate(context.Background())
	require.Len(t, cards, 1)
	assert.Equal(t, events.StatusReady, cards[0].Status)
	require.Len(t, cards[0].Events, 1)
	assert.Equal(t, "sg-1", cards[0].Events[0].ID)
}

func TestAggregate_CapsEventsAndConstruction(t *testing.T) {
	var many []events.Event
	for i := 0; i < 12; i++ {
		ms := int64(i * 100)
		many = append(many, events.Event{
			ID: string(rune('a' + i)), Title: "Concert " + string(rune('a'+i)),
			DateTime: "2024-05-01T12:00:00Z", StartTimestamp: &ms,
			Source: events.SourceTicketmaster, Category: events.CategoryConcert,
		})
	}
	var projects []construction.Project
	for i := 0; i < 9; i++ {
		projects = append(projects, construction.Project{ID: string(rune('a' + i)), Status: "Active"})
	}

	svc := events.NewService(events.ServiceConfig{
		Sites:        testSites()[:1],
		Ticketmaster: &fakeTickets{name: "ticketmaster", events: many},
		Construction: &fakeConstruction{projects: projects},
	})

	cards := svc.Aggregate(context.Background())
	require.Len(t, cards, 1)
	assert.Len(t, cards[0].Events, events.MaxEventsPerSite)
	assert.Len(t, cards[0].Construction, events.MaxConstructionPerSite)
}

func TestCards_ServesCachedResult(t *testing.T) {
	tm := &fakeTickets{name: "ticketmaster", events: []events.Event{
		{ID: "tm-1", Title: "Spring Festival", DateTime: "2024-05-01T12:00:00Z", StartTimestamp: ts(500), Source: events.SourceTicketmaster},
	}}
	svc := events.NewService(events.ServiceConfig{
		Sites:        testSites()[:1],
		Ticketmaster: tm,
	})

	first := svc.Cards(context.Background())
	require.Len(t, first, 1)

	// Swap the provider's data; the cached card should still be served.
	tm.events = nil
	second := svc.Cards(context.Background())
	require.Len(t, second, 1)
	assert.Equal(t, first[0].Events, second[0].Events)
}
