package boards

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applysink/applysink/bridge"
	"github.com/applysink/applysink/database"
	"github.com/applysink/applysink/providers"
)

const boardPayload = `{
	"jobs": [
		{"id": 1, "title": "Backend Engineer", "absolute_url": "https://example.com/1", "location": {"name": "Berlin"}},
		{"id": 2, "title": "Frontend Engineer", "absolute_url": "https://example.com/2", "location": {"name": "Remote"}},
		{"id": 3, "title": "Engineering Manager", "absolute_url": "https://example.com/3", "location": {"name": "Berlin"}}
	]
}`

const jobPayload = `{
	"id": 1,
	"title": "Backend Engineer",
	"absolute_url": "https://example.com/1",
	"content": "<p>Go backend role</p>",
	"location": {"name": "Berlin"},
	"questions": [{"label": "Why us?"}, {"label": "Visa status"}]
}`

func newBoardServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/boards/acme/jobs", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(boardPayload))
	})
	mux.HandleFunc("/boards/acme/jobs/1", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(jobPayload))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func newTestGreenhouse(t *testing.T) *Greenhouse {
	greenhouse := NewGreenhouse("acme")
	greenhouse.BaseURL = newBoardServer(t).URL
	return greenhouse
}

// scriptedSession feeds a fixed decision to the gate and collects emitted frames.
type scriptedSession struct {
	decision  bridge.Decision
	cancelled bool
	events    []bridge.ApplyEvent
}

func (session *scriptedSession) Emit(event bridge.ApplyEvent) {
	session.events = append(session.events, event)
}

func (session *scriptedSession) AwaitConfirmation(timeout time.Duration) bridge.Decision {
	return session.decision
}

func (session *scriptedSession) Cancelled() bool {
	return session.cancelled
}

func (session *scriptedSession) kinds() []bridge.EventKind {
	var kinds []bridge.EventKind
	for _, event := range session.events {
		kinds = append(kinds, event.Kind)
	}
	return kinds
}

func TestGreenhouseSearchFiltersByTitle(t *testing.T) {
	greenhouse := newTestGreenhouse(t)

	// Matching is a case-insensitive title substring, so "engineer" also covers
	// "Engineering Manager".
	listings, err := greenhouse.Search(context.Background(), "engineer")
	require.NoError(t, err)
	require.Len(t, listings, 3)
	assert.Equal(t, "1", listings[0].ExternalID)
	assert.Equal(t, "Backend Engineer", listings[0].Title)
	assert.Equal(t, "Berlin", listings[0].Location)

	backend, err := greenhouse.Search(context.Background(), "backend")
	require.NoError(t, err)
	require.Len(t, backend, 1)
	assert.Equal(t, "Backend Engineer", backend[0].Title)

	all, err := greenhouse.Search(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	none, err := greenhouse.Search(context.Background(), "astronaut")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestGreenhouseFetchDetail(t *testing.T) {
	greenhouse := newTestGreenhouse(t)

	posting, err := greenhouse.FetchDetail(context.Background(), "1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", posting.Title)
	assert.Equal(t, "<p>Go backend role</p>", posting.Description)
	assert.Equal(t, []string{"Why us?", "Visa status"}, posting.Questions)
}

func TestGreenhouseErrorStatusBecomesAutomationError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	greenhouse := NewGreenhouse("acme")
	greenhouse.BaseURL = server.URL

	_, err := greenhouse.Search(context.Background(), "")
	require.Error(t, err)

	var automationErr *providers.AutomationError
	require.ErrorAs(t, err, &automationErr)
	assert.Equal(t, bridge.CategoryPageState, automationErr.Category)
}

func TestGreenhouseApplyConfirmed(t *testing.T) {
	greenhouse := newTestGreenhouse(t)
	session := &scriptedSession{decision: bridge.DecisionConfirmed}

	job := &database.Application{ApplicationKey: "acme-backend-engineer", Title: "Backend Engineer", ExternalID: "1"}
	outcome, err := greenhouse.Apply(context.Background(), job, providers.ModeSemi, session)

	require.NoError(t, err)
	assert.Equal(t, database.OutcomeSubmitted, outcome)
	assert.Equal(t, []bridge.EventKind{
		bridge.EventProgress,
		bridge.EventManualIntervention,
		bridge.EventAwaitingConfirm,
		bridge.EventConfirmed,
	}, session.kinds())

	// The manual frame carries the posting so the dashboard can render it.
	assert.Contains(t, session.events[1].Message, "https://example.com/1")
	assert.Equal(t, "<p>Go backend role</p>", session.events[1].HTML)
}

func TestGreenhouseApplyCancelledAndTimedOut(t *testing.T) {
	greenhouse := newTestGreenhouse(t)

	job := &database.Application{ApplicationKey: "acme-backend-engineer", Title: "Backend Engineer", ExternalID: "1"}

	cancelled := &scriptedSession{decision: bridge.DecisionCancelled}
	outcome, err := greenhouse.Apply(context.Background(), job, providers.ModeSemi, cancelled)
	require.NoError(t, err)
	assert.Equal(t, database.OutcomeCancelled, outcome)

	lapsed := &scriptedSession{decision: bridge.DecisionTimedOut}
	outcome, err = greenhouse.Apply(context.Background(), job, providers.ModeSemi, lapsed)
	require.NoError(t, err)
	assert.Equal(t, database.OutcomeTimedOut, outcome)
}

func TestGreenhouseApplyCancelledBeforeStart(t *testing.T) {
	greenhouse := newTestGreenhouse(t)
	session := &scriptedSession{cancelled: true}

	job := &database.Application{ApplicationKey: "acme-backend-engineer", ExternalID: "1"}
	outcome, err := greenhouse.Apply(context.Background(), job, providers.ModeSemi, session)

	require.NoError(t, err)
	assert.Equal(t, database.OutcomeCancelled, outcome)
	assert.Empty(t, session.events)
}
