package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applysink/applysink/bridge"
	"github.com/applysink/applysink/database"
	"github.com/applysink/applysink/patterns"
	"github.com/applysink/applysink/providers"
)

const testKey = database.ApplicationKey("acme-senior-gopher")

type recordedOutcome struct {
	Key     database.ApplicationKey
	Outcome database.Outcome
	Detail  string
}

type fakeStore struct {
	mu       sync.Mutex
	status   map[database.ApplicationKey]string
	outcomes []recordedOutcome
}

func newFakeStore() *fakeStore {
	return &fakeStore{status: make(map[database.ApplicationKey]string)}
}

func (store *fakeStore) GetApplicationStatus(key database.ApplicationKey) (string, error) {
	store.mu.Lock()
	defer store.mu.Unlock()
	return store.status[key], nil
}

func (store *fakeStore) FindApplication(key database.ApplicationKey) (*database.Application, error) {
	return &database.Application{
		ApplicationKey: key,
		Company:        "Acme",
		Title:          "Senior Gopher",
	}, nil
}

func (store *fakeStore) RecordOutcome(key database.ApplicationKey, outcome database.Outcome, detail string) error {
	store.mu.Lock()
	defer store.mu.Unlock()
	store.outcomes = append(store.outcomes, recordedOutcome{Key: key, Outcome: outcome, Detail: detail})
	return nil
}

func (store *fakeStore) recorded() []recordedOutcome {
	store.mu.Lock()
	defer store.mu.Unlock()
	return append([]recordedOutcome(nil), store.outcomes...)
}

// fakeProvider Emits one progress frame, stops at the confirmation gate and maps
// the decision onto the outcome, like a real board provider would.
type fakeProvider struct {
	caps        providers.Capabilities
	gateTimeout time.Duration

	mu      sync.Mutex
	sawMode providers.ApplyMode
}

func newFakeProvider(flags ...string) *fakeProvider {
	return &fakeProvider{
		caps:        providers.Capabilities{Kind: providers.KindAPI, Flags: flags},
		gateTimeout: 5 * time.Second,
	}
}

func (p *fakeProvider) Name() string                              { return "boardA" }
func (p *fakeProvider) ProbeCapabilities() providers.Capabilities { return p.caps }

func (p *fakeProvider) Search(ctx context.Context, query string) ([]providers.Listing, error) {
	return nil, nil
}

func (p *fakeProvider) FetchDetail(ctx context.Context, externalID string) (*providers.Posting, error) {
	return &providers.Posting{}, nil
}

func (p *fakeProvider) Apply(ctx context.Context, job *database.Application, mode providers.ApplyMode, session providers.ApplySession) (database.Outcome, error) {
	p.mu.Lock()
	p.sawMode = mode
	p.mu.Unlock()

	session.Emit(bridge.ApplyEvent{Kind: bridge.EventProgress, Message: "filling form"})

	if mode == providers.ModeAuto {
		return database.OutcomeSubmitted, nil
	}

	session.Emit(bridge.ApplyEvent{Kind: bridge.EventAwaitingConfirm, Message: "review"})

	switch session.AwaitConfirmation(p.gateTimeout) {
	case bridge.DecisionConfirmed:
		session.Emit(bridge.ApplyEvent{Kind: bridge.EventConfirmed, Message: "submitting"})
		return database.OutcomeSubmitted, nil
	case bridge.DecisionCancelled:
		return database.OutcomeCancelled, nil
	default:
		return database.OutcomeTimedOut, nil
	}
}

func (p *fakeProvider) mode() providers.ApplyMode {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.sawMode
}

type panicProvider struct {
	fakeProvider
}

func (p *panicProvider) Apply(ctx context.Context, job *database.Application, mode providers.ApplyMode, session providers.ApplySession) (database.Outcome, error) {
	panic("selector exploded")
}

func newTestOrchestrator(t *testing.T, store RecordStore, provider providers.Provider, flags ...string) *Orchestrator {
	t.Helper()

	registry := providers.NewRegistry()
	require.NoError(t, registry.Register("boardA", "Board A",
		providers.Capabilities{Kind: providers.KindAPI, Flags: flags}, provider))

	return NewOrchestrator(registry, bridge.NewBridge(32), store)
}

// waitForKind Reads the stream until the wanted kind shows up.
func waitForKind(t *testing.T, events <-chan bridge.ApplyEvent, kind bridge.EventKind) bridge.ApplyEvent {
	t.Helper()

	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				t.Fatalf("stream closed before a %s event arrived", kind)
			}
			if event.Kind == kind {
				return event
			}
		case <-deadline:
			t.Fatalf("no %s event within deadline", kind)
		}
	}
}

// drain Reads the stream to its close and returns every frame.
func drain(t *testing.T, events <-chan bridge.ApplyEvent) []bridge.ApplyEvent {
	t.Helper()

	var all []bridge.ApplyEvent
	deadline := time.After(2 * time.Second)
	for {
		select {
		case event, ok := <-events:
			if !ok {
				return all
			}
			all = append(all, event)
		case <-deadline:
			t.Fatal("stream did not terminate")
		}
	}
}

func TestStartApplicationRejectsSecondRun(t *testing.T) {
	provider := newFakeProvider()
	orchestrator := newTestOrchestrator(t, newFakeStore(), provider)

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeSemi)
	require.NoError(t, err)

	second, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeSemi)
	assert.Nil(t, second)
	assert.ErrorIs(t, err, bridge.ErrSessionAlreadyActive)

	// The first run is unaffected and reaches the confirmation gate.
	waitForKind(t, session.Events(), bridge.EventAwaitingConfirm)

	orchestrator.Cancel(testKey)
	orchestrator.Stop()
}

func TestStartApplicationShortCircuitsWhenAlreadyApplied(t *testing.T) {
	store := newFakeStore()
	store.status[testKey] = database.StatusApplied
	orchestrator := newTestOrchestrator(t, store, newFakeProvider())

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeSemi)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrAlreadyApplied)

	// No session was ever created.
	assert.Equal(t, 0, orchestrator.ActiveCount())

	recorded := store.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, database.OutcomeAlreadyApplied, recorded[0].Outcome)
}

func TestStartApplicationUnknownProvider(t *testing.T) {
	orchestrator := newTestOrchestrator(t, newFakeStore(), newFakeProvider())

	session, err := orchestrator.StartApplication(testKey, "boardZ", providers.ModeSemi)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, providers.ErrUnknownProvider)
}

func TestConfirmedRunSubmitsAndCloses(t *testing.T) {
	store := newFakeStore()
	orchestrator := newTestOrchestrator(t, store, newFakeProvider())

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeSemi)
	require.NoError(t, err)

	waitForKind(t, session.Events(), bridge.EventAwaitingConfirm)
	assert.True(t, orchestrator.Confirm(testKey))

	events := drain(t, session.Events())
	require.NotEmpty(t, events)
	last := events[len(events)-1]
	assert.Equal(t, bridge.EventDone, last.Kind)

	// A confirmed frame precedes the terminal one: submission never happens
	// straight out of form filling.
	var kinds []bridge.EventKind
	for _, event := range events {
		kinds = append(kinds, event.Kind)
	}
	assert.Contains(t, kinds, bridge.EventConfirmed)

	recorded := store.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, database.OutcomeSubmitted, recorded[0].Outcome)

	// Idempotency after the session closed.
	assert.False(t, orchestrator.Confirm(testKey))
	assert.Equal(t, 0, orchestrator.ActiveCount())
}

func TestCancelAtGateEndsWithCancelledNotDone(t *testing.T) {
	store := newFakeStore()
	orchestrator := newTestOrchestrator(t, store, newFakeProvider())

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeSemi)
	require.NoError(t, err)

	waitForKind(t, session.Events(), bridge.EventAwaitingConfirm)
	assert.True(t, orchestrator.Cancel(testKey))

	events := drain(t, session.Events())
	last := events[len(events)-1]
	assert.Equal(t, bridge.EventCancelled, last.Kind)

	for _, event := range events {
		assert.NotEqual(t, bridge.EventDone, event.Kind, "a cancelled run must never submit")
	}

	recorded := store.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, database.OutcomeCancelled, recorded[0].Outcome)
	assert.False(t, orchestrator.Cancel(testKey))
}

func TestGateTimeoutEndsWithTimedOut(t *testing.T) {
	store := newFakeStore()
	provider := newFakeProvider()
	provider.gateTimeout = 30 * time.Millisecond
	orchestrator := newTestOrchestrator(t, store, provider)

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeSemi)
	require.NoError(t, err)

	events := drain(t, session.Events())
	last := events[len(events)-1]
	assert.Equal(t, bridge.EventTimedOut, last.Kind, "a lapsed window is neither an error nor a cancellation")

	recorded := store.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, database.OutcomeTimedOut, recorded[0].Outcome)
}

func TestWorkerBoundaryContainsPanics(t *testing.T) {
	store := newFakeStore()
	orchestrator := newTestOrchestrator(t, store, &panicProvider{fakeProvider: *newFakeProvider()})

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeSemi)
	require.NoError(t, err)

	events := drain(t, session.Events())
	last := events[len(events)-1]
	assert.Equal(t, bridge.EventError, last.Kind)
	assert.Equal(t, bridge.CategoryProvider, last.Category)

	// The session closed despite the panic; a new run can start.
	assert.Equal(t, 0, orchestrator.ActiveCount())

	recorded := store.recorded()
	require.Len(t, recorded, 1)
	assert.Equal(t, database.OutcomeError, recorded[0].Outcome)
}

func TestKnownFlowModeRefusesProvidersWithoutFlag(t *testing.T) {
	orchestrator := newTestOrchestrator(t, newFakeStore(), newFakeProvider())

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeKnownFlow)
	assert.Nil(t, session)
	assert.ErrorIs(t, err, ErrNoKnownFlow)
	assert.Equal(t, 0, orchestrator.ActiveCount())
}

func TestAutoModeDegradesWithoutPolicy(t *testing.T) {
	provider := newFakeProvider(providers.FlagAutoApply)
	orchestrator := newTestOrchestrator(t, newFakeStore(), provider, providers.FlagAutoApply)
	// AllowAutoApply stays false: the flag alone must not skip the gate.

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeAuto)
	require.NoError(t, err)

	waitForKind(t, session.Events(), bridge.EventAwaitingConfirm)
	assert.Equal(t, providers.ModeSemi, provider.mode())

	orchestrator.Cancel(testKey)
	orchestrator.Stop()
}

func TestAutoModeSkipsGateWhenPolicyAllows(t *testing.T) {
	store := newFakeStore()
	provider := newFakeProvider(providers.FlagAutoApply)
	orchestrator := newTestOrchestrator(t, store, provider, providers.FlagAutoApply)
	orchestrator.AllowAutoApply = true

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeAuto)
	require.NoError(t, err)

	events := drain(t, session.Events())
	last := events[len(events)-1]
	assert.Equal(t, bridge.EventDone, last.Kind)
	assert.Equal(t, providers.ModeAuto, provider.mode())

	for _, event := range events {
		assert.NotEqual(t, bridge.EventAwaitingConfirm, event.Kind)
	}
}

func TestEventStreamUnknownKey(t *testing.T) {
	orchestrator := newTestOrchestrator(t, newFakeStore(), newFakeProvider())

	events, err := orchestrator.EventStream("nobody-nothing")
	assert.Nil(t, events)
	assert.ErrorIs(t, err, bridge.ErrUnknownSession)
}

// browserFake A browser-kind provider that records its session lifecycle.
type browserFake struct {
	fakeProvider

	lifecycleMu sync.Mutex
	opened      bool
	closed      bool
}

func (p *browserFake) ProbeCapabilities() providers.Capabilities {
	return providers.Capabilities{Kind: providers.KindBrowser, Flags: []string{providers.FlagAutoApply}}
}

func (p *browserFake) OpenSession(ctx context.Context, credentials providers.Credentials) error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	p.opened = true
	return nil
}

func (p *browserFake) CloseSession() error {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	p.closed = true
	return nil
}

func (p *browserFake) lifecycle() (bool, bool) {
	p.lifecycleMu.Lock()
	defer p.lifecycleMu.Unlock()
	return p.opened, p.closed
}

func TestBrowserProviderSessionOpensAndCloses(t *testing.T) {
	store := newFakeStore()
	provider := &browserFake{fakeProvider: *newFakeProvider(providers.FlagAutoApply)}

	registry := providers.NewRegistry()
	require.NoError(t, registry.Register("boardA", "Board A",
		providers.Capabilities{Kind: providers.KindBrowser, Flags: []string{providers.FlagAutoApply}}, provider))

	orchestrator := NewOrchestrator(registry, bridge.NewBridge(32), store)

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeSemi)
	require.NoError(t, err)

	waitForKind(t, session.Events(), bridge.EventAwaitingConfirm)
	require.True(t, orchestrator.Confirm(testKey))
	drain(t, session.Events())

	opened, closed := provider.lifecycle()
	assert.True(t, opened, "worker must open the driver session before the run")
	assert.True(t, closed, "worker must tear the driver session down after the run")
}

func TestMirroredFramesCarrySessionIdentity(t *testing.T) {
	var mirrorMu sync.Mutex
	var mirrored []patterns.Event[bridge.ApplyEvent]
	applyEvents.Subscribe(func(event patterns.Event[bridge.ApplyEvent]) {
		mirrorMu.Lock()
		mirrored = append(mirrored, event)
		mirrorMu.Unlock()
	})

	orchestrator := newTestOrchestrator(t, newFakeStore(), newFakeProvider())

	session, err := orchestrator.StartApplication(testKey, "boardA", providers.ModeSemi)
	require.NoError(t, err)

	waitForKind(t, session.Events(), bridge.EventAwaitingConfirm)
	require.True(t, orchestrator.Confirm(testKey))
	drain(t, session.Events())

	mirrorMu.Lock()
	defer mirrorMu.Unlock()
	require.NotEmpty(t, mirrored)
	for _, event := range mirrored {
		assert.Equal(t, "application:"+string(event.Data.Kind), event.Name)
		// The dashboard mirror fans all runs into one socket, so every frame
		// must identify its run the same way the session stream does.
		assert.Equal(t, testKey, event.Data.Key)
		assert.NotZero(t, event.Data.Seq)
		assert.False(t, event.Data.CreatedAt.IsZero())
	}
}
