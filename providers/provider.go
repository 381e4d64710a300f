package providers

import (
	"context"
	"fmt"
	"time"

	"github.com/applysink/applysink/bridge"
	"github.com/applysink/applysink/database"
)

// CapabilityKind How a provider reaches its job board.
type CapabilityKind string

const (
	// KindBrowser Drives a real browser: stateful session, login, form filling.
	KindBrowser CapabilityKind = "browser"
	// KindAPI Talks to a remote API only, no session state.
	KindAPI CapabilityKind = "api"
)

// Feature flags a provider may declare.
const (
	// FlagAutoApply The board offers a low-friction one-click apply flow.
	FlagAutoApply = "auto_apply"
)

type Capabilities struct {
	Kind  CapabilityKind `json:"kind"`
	Flags []string       `json:"flags"`
}

func (capabilities Capabilities) HasFlag(flag string) bool {
	for _, f := range capabilities.Flags {
		if f == flag {
			return true
		}
	}
	return false
}

// ApplyMode How much of the run happens without a human.
type ApplyMode string

const (
	// ModeAuto Skips the confirmation gate, only for providers declaring
	// FlagAutoApply and only when the configuration explicitly allows it.
	ModeAuto ApplyMode = "auto"
	// ModeSemi Always stops at the confirmation gate.
	ModeSemi ApplyMode = "semi"
	// ModeKnownFlow Refuses providers without a declared low-friction apply flow,
	// then still stops at the gate.
	ModeKnownFlow ApplyMode = "known_flow"
)

func ParseApplyMode(value string) (ApplyMode, error) {
	switch ApplyMode(value) {
	case ModeAuto, ModeSemi, ModeKnownFlow:
		return ApplyMode(value), nil
	case "":
		return ModeSemi, nil
	}
	return "", fmt.Errorf("unknown apply mode '%s'", value)
}

// Listing One search hit on a job board.
type Listing struct {
	ExternalID string `json:"externalId"`
	Company    string `json:"company"`
	Title      string `json:"title"`
	Location   string `json:"location"`
	URL        string `json:"url"`
	PostedAt   string `json:"postedAt,omitempty"`
}

// Posting A full job posting fetched by detail lookup.
type Posting struct {
	Listing
	Description string   `json:"description"`
	Questions   []string `json:"questions,omitempty"`
}

// Credentials Login material for browser-driven boards.
type Credentials struct {
	Username    string
	Password    string
	ProfilePath string
}

// ApplySession What a provider gets to talk back through during an apply run.
// Emit never blocks; AwaitConfirmation blocks only the worker the provider runs on.
// Providers are contractually required to check Cancelled at every suspension point
// and unwind without side effects when it reports true.
type ApplySession interface {
	Emit(event bridge.ApplyEvent)
	AwaitConfirmation(timeout time.Duration) bridge.Decision
	Cancelled() bool
}

// Provider Everything an automation provider for one job board implements.
type Provider interface {
	Name() string
	ProbeCapabilities() Capabilities
	Search(ctx context.Context, query string) ([]Listing, error)
	FetchDetail(ctx context.Context, externalID string) (*Posting, error)

	// Apply drives one application run on the calling worker. It may block for
	// minutes. The returned outcome matches the terminal event it emitted.
	Apply(ctx context.Context, job *database.Application, mode ApplyMode, session ApplySession) (database.Outcome, error)
}

// BrowserProvider A provider that drives a real browser and therefore owns a
// stateful driver session with explicit setup and teardown.
type BrowserProvider interface {
	Provider
	OpenSession(ctx context.Context, credentials Credentials) error
	CloseSession() error
}
