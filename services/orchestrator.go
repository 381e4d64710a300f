package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/applysink/applysink/bridge"
	"github.com/applysink/applysink/conf"
	"github.com/applysink/applysink/database"
	"github.com/applysink/applysink/providers"
)

var (
	ErrAlreadyApplied = errors.New("an application for this job already went out")
	ErrNoKnownFlow    = errors.New("provider declares no low-friction apply flow")
	ErrNoRecord       = errors.New("no application record for this key")
)

// Orchestrator Coordinates application runs: resolves the run mode once at queue
// time, opens the session, hands the blocking provider work to a dedicated worker
// goroutine and emits the terminal outcome. Everything the worker reports crosses
// the bridge; nothing else is shared between the worker and the web side.
type Orchestrator struct {
	registry *providers.Registry
	bridge   *bridge.Bridge
	store    RecordStore
	guard    *Guard

	// AllowAutoApply Policy switch for the capability-gated confirmation bypass.
	// Off by default; a provider flag alone never skips the gate.
	AllowAutoApply bool

	wg sync.WaitGroup
}

func NewOrchestrator(registry *providers.Registry, sessionBridge *bridge.Bridge, store RecordStore) *Orchestrator {
	return &Orchestrator{
		registry: registry,
		bridge:   sessionBridge,
		store:    store,
		guard:    NewGuard(store),
	}
}

// StartApplication Begins a run for one posting. Rejects keys with a live session,
// short-circuits postings that already reached an applied-or-later state without
// ever opening a session, and resolves the run mode before the worker starts.
func (orchestrator *Orchestrator) StartApplication(key database.ApplicationKey, providerName string, mode providers.ApplyMode) (*bridge.ApplicationSession, error) {
	if err := key.IsValid(); err != nil {
		return nil, err
	}

	applied, err := orchestrator.guard.AlreadyApplied(key)
	if err != nil {
		return nil, err
	}
	if applied != nil {
		if err := orchestrator.store.RecordOutcome(key, *applied, "start rejected, already applied"); err != nil {
			log.Errorf("[Orchestrator] Error recording short-circuit outcome for '%s': %s", key, err)
		}
		return nil, fmt.Errorf("%w: '%s'", ErrAlreadyApplied, key)
	}

	info, err := orchestrator.registry.Lookup(providerName)
	if err != nil {
		return nil, err
	}

	resolved, err := orchestrator.resolveMode(info, mode)
	if err != nil {
		return nil, err
	}

	application, err := orchestrator.store.FindApplication(key)
	if err != nil {
		return nil, fmt.Errorf("%w: '%s'", ErrNoRecord, key)
	}

	session, err := orchestrator.bridge.OpenSession(key)
	if err != nil {
		return nil, err
	}

	log.Infof("[Orchestrator] Starting run %s for '%s' via %s (mode %s)", session.RunID, key, info.Name, resolved)

	orchestrator.wg.Add(1)
	go orchestrator.worker(session, info, application, resolved)

	return session, nil
}

// resolveMode Fixes the run mode at queue time; it never changes mid-run. The
// automatic mode only survives when the provider declares the one-click flow AND
// the configuration allows the bypass, otherwise the run degrades to a confirmed
// one. Known-flow mode refuses providers without the flag outright.
func (orchestrator *Orchestrator) resolveMode(info *providers.ProviderInfo, mode providers.ApplyMode) (providers.ApplyMode, error) {
	switch mode {
	case providers.ModeKnownFlow:
		if !info.Capabilities.HasFlag(providers.FlagAutoApply) {
			return "", fmt.Errorf("%w: '%s'", ErrNoKnownFlow, info.Name)
		}
		return providers.ModeKnownFlow, nil
	case providers.ModeAuto:
		if !orchestrator.AllowAutoApply || !info.Capabilities.HasFlag(providers.FlagAutoApply) {
			log.Warnf("[Orchestrator] Auto-apply not permitted for '%s', degrading to semi-automatic", info.Name)
			return providers.ModeSemi, nil
		}
		return providers.ModeAuto, nil
	default:
		return providers.ModeSemi, nil
	}
}

// Confirm Releases a run blocked at the confirmation gate. Idempotent; false when
// no live undecided session exists for the key.
func (orchestrator *Orchestrator) Confirm(key database.ApplicationKey) bool {
	return orchestrator.bridge.Confirm(key)
}

// Cancel Cooperatively cancels a run. The worker unwinds at its next suspension
// point; no partial submission happens after the cancellation is observed.
func (orchestrator *Orchestrator) Cancel(key database.ApplicationKey) bool {
	return orchestrator.bridge.Cancel(key)
}

// EventStream The live event channel for a run. The channel closes after the
// terminal event, so consumers can simply range over it.
func (orchestrator *Orchestrator) EventStream(key database.ApplicationKey) (<-chan bridge.ApplyEvent, error) {
	session, ok := orchestrator.bridge.Session(key)
	if !ok {
		return nil, bridge.ErrUnknownSession
	}
	return session.Events(), nil
}

// ActiveSessions Snapshot for the admin view.
func (orchestrator *Orchestrator) ActiveSessions() []*bridge.ApplicationSession {
	return orchestrator.bridge.Active()
}

func (orchestrator *Orchestrator) ActiveCount() int {
	return orchestrator.bridge.ActiveCount()
}

// Stop Cancels every live run and waits for the workers to unwind.
func (orchestrator *Orchestrator) Stop() {
	for _, session := range orchestrator.bridge.Active() {
		orchestrator.bridge.Cancel(session.Key)
	}
	orchestrator.wg.Wait()
}

// worker Runs one application on its own goroutine. The provider may block for
// minutes inside; the only way results leave here is the bridge. Every failure is
// caught at this boundary, the terminal event is emitted exactly once and the
// session always closes.
func (orchestrator *Orchestrator) worker(session *bridge.ApplicationSession, info *providers.ProviderInfo, application *database.Application, mode providers.ApplyMode) {
	defer orchestrator.wg.Done()
	defer orchestrator.bridge.CloseSession(session)

	outcome, err := orchestrator.runProvider(session, info, application, mode)

	switch {
	case err != nil:
		category := bridge.CategoryProvider
		var automationErr *providers.AutomationError
		if errors.As(err, &automationErr) {
			category = automationErr.Category
		}
		log.Errorf("[Orchestrator] Run %s for '%s' failed (%s): %s", session.RunID, session.Key, category, err)
		orchestrator.emit(session, bridge.ApplyEvent{
			Kind:     bridge.EventError,
			Message:  err.Error(),
			Category: category,
		})
		orchestrator.record(session.Key, database.OutcomeError, err.Error())

	case outcome == database.OutcomeSubmitted:
		orchestrator.emit(session, bridge.ApplyEvent{Kind: bridge.EventDone, Message: "Application submitted"})
		orchestrator.record(session.Key, database.OutcomeSubmitted, fmt.Sprintf("submitted via %s", info.Name))

	case outcome == database.OutcomeCancelled:
		orchestrator.emit(session, bridge.ApplyEvent{Kind: bridge.EventCancelled, Message: "Run cancelled"})
		orchestrator.record(session.Key, database.OutcomeCancelled, "cancelled by user")

	case outcome == database.OutcomeTimedOut:
		orchestrator.emit(session, bridge.ApplyEvent{Kind: bridge.EventTimedOut, Message: "Confirmation window lapsed"})
		orchestrator.record(session.Key, database.OutcomeTimedOut, "confirmation window lapsed")

	default:
		orchestrator.emit(session, bridge.ApplyEvent{
			Kind:     bridge.EventError,
			Message:  fmt.Sprintf("provider returned unexpected outcome '%s'", outcome),
			Category: bridge.CategoryContract,
		})
		orchestrator.record(session.Key, database.OutcomeError, string(outcome))
	}
}

// runProvider Calls into the provider with panic containment. A panicking provider
// becomes an error outcome, never a crashed worker pool.
func (orchestrator *Orchestrator) runProvider(session *bridge.ApplicationSession, info *providers.ProviderInfo, application *database.Application, mode providers.ApplyMode) (outcome database.Outcome, err error) {
	defer func() {
		if r := recover(); r != nil {
			outcome = database.OutcomeError
			err = providers.Automation(bridge.CategoryProvider, "provider panic: %v", r)
		}
	}()

	orchestrator.emit(session, bridge.ApplyEvent{
		Kind:    bridge.EventProgress,
		Message: fmt.Sprintf("Launching %s run for '%s'", info.DisplayName, application.Title),
	})

	ctx := context.Background()

	// Browser-driven providers own a stateful driver session around the run.
	if browser, ok := info.Provider().(providers.BrowserProvider); ok {
		orchestrator.emit(session, bridge.ApplyEvent{Kind: bridge.EventProgress, Message: "Opening browser session"})
		if err := browser.OpenSession(ctx, browserCredentials()); err != nil {
			return database.OutcomeError, err
		}
		defer func() {
			if closeErr := browser.CloseSession(); closeErr != nil {
				log.Errorf("[Orchestrator] Error closing browser session for '%s': %s", session.Key, closeErr)
			}
		}()
	}

	adapter := &applySession{orchestrator: orchestrator, session: session}
	return info.Provider().Apply(ctx, application, mode, adapter)
}

func browserCredentials() providers.Credentials {
	return providers.Credentials{
		Username:    conf.AppCfg.BrowserUsername,
		Password:    conf.AppCfg.BrowserPassword,
		ProfilePath: conf.AppCfg.BrowserProfilePath,
	}
}

func (orchestrator *Orchestrator) emit(session *bridge.ApplicationSession, event bridge.ApplyEvent) {
	stamped := orchestrator.bridge.Emit(session, event)
	notifyApplyEvent(stamped)
}

func (orchestrator *Orchestrator) record(key database.ApplicationKey, outcome database.Outcome, detail string) {
	if err := orchestrator.store.RecordOutcome(key, outcome, detail); err != nil {
		log.Errorf("[Orchestrator] Error persisting outcome '%s' for '%s': %s", outcome, key, err)
	}
}

// applySession The session face handed to providers. Emit mirrors every frame to
// the global event fan-out in addition to the session channel.
type applySession struct {
	orchestrator *Orchestrator
	session      *bridge.ApplicationSession
}

func (adapter *applySession) Emit(event bridge.ApplyEvent) {
	adapter.orchestrator.emit(adapter.session, event)
}

func (adapter *applySession) AwaitConfirmation(timeout time.Duration) bridge.Decision {
	return adapter.orchestrator.bridge.AwaitConfirmation(adapter.session, timeout)
}

func (adapter *applySession) Cancelled() bool {
	return adapter.session.Decision() == bridge.DecisionCancelled
}
