package ticketmaster_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/radpocket/radpocket/internal/events"
	"github.com/radpocket/radpocket/internal/events/ticketmaster"
	"github.com/radpocket/radpocket/internal/provider/fetch"
	"github.com/radpocket/radpocket/internal/provider/resilience"
	"github.com/radpocket/radpocket/internal/sites"
)

func testFetcher() *fetch.Client {
	return fetch.New(fetch.Config{
		Name: "ticketmaster",
		Client: resilience.NewClient(resilience.Config{
			Name:            "ticketmaster",
			Timeout:         2 * time.Second,
			MaxRetries:      1,
			InitialInterval: time.Millisecond,
			MaxInterval:     time.Millisecond,
		}),
	})
}

func testWindow() events.DateRange {
	return events.NewDateRange(time.Date(2024, 4, 12, 12, 0, 0, 0, time.UTC))
}

func TestEvents_MapsDiscoveryPayload(t *testing.T) {
	var gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		w.Write([]byte(`{
			"_embedded": {"events": [
				{
					"id": "G5vYZ4F1e",
					"name": "Braves vs Phillies",
					"url": "https://tickets.example/braves",
					"dates": {"start": {"dateTime": "2024-04-12T23:05:00Z", "localDate": "2024-04-12"}},
					"classifications": [{"segment": {"name": "Sports"}}],
					"_embedded": {"venues": [{"name": "Truist Park"}]}
				},
				{
					"id": "K8xZW2",
					"name": "Evening Jazz",
					"dates": {"start": {"localDate": "2024-04-13", "localTime": "20:00:00"}},
					"classifications": [{"segment": {"name": "Music"}}]
				}
			]}
		}`))
	}))
	defer server.Close()

	client := ticketmaster.NewClient(ticketmaster.ClientConfig{
		APIKey:  "key123",
		BaseURL: server.URL,
		Fetcher: testFetcher(),
	})

	got, err := client.Events(context.Background(), sites.Default(), testWindow())
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "tm-G5vYZ4F1e", got[0].ID)
	assert.Equal(t, "Braves vs Phillies", got[0].Title)
	assert.Equal(t, "Truist Park", got[0].Venue)
	assert.Equal(t, events.CategorySports, got[0].Category)
	assert.Equal(t, events.SourceTicketmaster, got[0].Source)
	require.NotNil(t, got[0].StartTimestamp)
	assert.Equal(t, time.Date(2024, 4, 12, 23, 5, 0, 0, time.UTC).UnixMilli(), *got[0].StartTimestamp)

	// Local date plus time is stitched together when no UTC datetime exists.
	assert.Equal(t, "2024-04-13T20:00:00", got[1].DateTime)
	assert.Equal(t, events.CategoryConcert, got[1].Category)
	assert.Equal(t, "", got[1].Venue)

	assert.Contains(t, gotQuery, "apikey=key123")
	assert.Contains(t, gotQuery, "size=20")
	assert.Contains(t, gotQuery, "sort=date")
}

func TestEvents_TitleKeywordOverridesTaxonomy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"_embedded": {"events": [
			{"id": "1", "name": "Peachtree Road Race", "dates": {"start": {"dateTime": "2024-07-04T11:00:00Z"}},
			 "classifications": [{"segment": {"name": "Sports"}}]}
		]}}`))
	}))
	defer server.Close()

	client := ticketmaster.NewClient(ticketmaster.ClientConfig{
		APIKey: "key", BaseURL: server.URL, Fetcher: testFetcher(),
	})

	got, err := client.Events(context.Background(), sites.Default(), testWindow())
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, events.CategoryRace, got[0].Category)
}

func TestEvents_NoAPIKeySkipsNetwork(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		t.Fatal("network call with no api key")
	}))
	defer server.Close()

	client := ticketmaster.NewClient(ticketmaster.ClientConfig{
		BaseURL: server.URL, Fetcher: testFetcher(),
	})

	got, err := client.Events(context.Background(), sites.Default(), testWindow())
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestEvents_UnlocatedSiteSkipsNetwork(t *testing.T) {
	client := ticketmaster.NewClient(ticketmaster.ClientConfig{
		APIKey: "key", BaseURL: "http://127.0.0.1:0", Fetcher: testFetcher(),
	})

	got, err := client.Events(context.Background(), sites.Unlocated(sites.Default()), testWindow())
	assert.NoError(t, err)
	assert.Empty(t, got)
}

func TestEvents_ProviderFailureYieldsNoEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client := ticketmaster.NewClient(ticketmaster.ClientConfig{
		APIKey: "key", BaseURL: server.URL, Fetcher: testFetcher(),
	})

	got, err := client.Events(context.Background(), sites.Default(), testWindow())
	assert.NoError(t, err)
	assert.Empty(t, got)
}
