package providers

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applysink/applysink/database"
)

type stubProvider struct {
	name string
	caps Capabilities
}

func (p *stubProvider) Name() string                    { return p.name }
func (p *stubProvider) ProbeCapabilities() Capabilities { return p.caps }

func (p *stubProvider) Search(ctx context.Context, query string) ([]Listing, error) {
	return nil, nil
}

func (p *stubProvider) FetchDetail(ctx context.Context, externalID string) (*Posting, error) {
	return &Posting{}, nil
}

func (p *stubProvider) Apply(ctx context.Context, job *database.Application, mode ApplyMode, session ApplySession) (database.Outcome, error) {
	return database.OutcomeSubmitted, nil
}

type stubBrowserProvider struct {
	stubProvider
}

func (p *stubBrowserProvider) OpenSession(ctx context.Context, credentials Credentials) error {
	return nil
}

func (p *stubBrowserProvider) CloseSession() error { return nil }

func apiStub(name string, flags ...string) *stubProvider {
	return &stubProvider{name: name, caps: Capabilities{Kind: KindAPI, Flags: flags}}
}

func browserStub(name string, flags ...string) *stubBrowserProvider {
	return &stubBrowserProvider{stubProvider{name: name, caps: Capabilities{Kind: KindBrowser, Flags: flags}}}
}

func TestRegisterAndLookup(t *testing.T) {
	registry := NewRegistry()

	err := registry.Register("boardA", "Board A", Capabilities{Kind: KindAPI}, apiStub("boardA"))
	require.NoError(t, err)

	info, err := registry.Lookup("boardA")
	require.NoError(t, err)
	assert.Equal(t, "boardA", info.Name)
	assert.Equal(t, "Board A", info.DisplayName)
	assert.Equal(t, KindAPI, info.Capabilities.Kind)
	assert.NotNil(t, info.Provider())
}

func TestRegisterDuplicateFails(t *testing.T) {
	registry := NewRegistry()

	require.NoError(t, registry.Register("boardA", "Board A", Capabilities{Kind: KindAPI}, apiStub("boardA")))

	err := registry.Register("boardA", "Board A again", Capabilities{Kind: KindAPI}, apiStub("boardA"))
	assert.ErrorIs(t, err, ErrDuplicateProvider)
}

func TestRegisterValidatesContractAtRegistration(t *testing.T) {
	registry := NewRegistry()

	// Declares a browser session without implementing setup/teardown.
	broken := &stubProvider{name: "headless", caps: Capabilities{Kind: KindBrowser}}
	err := registry.Register("headless", "Headless", Capabilities{Kind: KindBrowser}, broken)
	assert.ErrorIs(t, err, ErrContractViolation)

	err = registry.Register("", "Nameless", Capabilities{Kind: KindAPI}, apiStub(""))
	assert.ErrorIs(t, err, ErrContractViolation)

	err = registry.Register("boardB", "Board B", Capabilities{Kind: KindAPI}, nil)
	assert.ErrorIs(t, err, ErrContractViolation)

	err = registry.Register("boardC", "Board C", Capabilities{Kind: "carrier-pigeon"}, apiStub("boardC"))
	assert.ErrorIs(t, err, ErrContractViolation)

	// Declared kind must match what the implementation probes.
	err = registry.Register("boardD", "Board D", Capabilities{Kind: KindBrowser}, browserStub("boardD"))
	require.NoError(t, err)
	mismatched := browserStub("boardE")
	mismatched.caps.Kind = KindAPI
	err = registry.Register("boardE", "Board E", Capabilities{Kind: KindBrowser}, mismatched)
	assert.ErrorIs(t, err, ErrContractViolation)
}

func TestLookupUnknownFails(t *testing.T) {
	registry := NewRegistry()

	info, err := registry.Lookup("missing")
	assert.Nil(t, info)
	assert.ErrorIs(t, err, ErrUnknownProvider)
}

func TestAllKeepsRegistrationOrder(t *testing.T) {
	registry := NewRegistry()

	names := []string{"zeta", "alpha", "mid"}
	for _, name := range names {
		require.NoError(t, registry.Register(name, name, Capabilities{Kind: KindAPI}, apiStub(name)))
	}

	var got []string
	for _, info := range registry.All() {
		got = append(got, info.Name)
	}
	assert.Equal(t, names, got)
}
