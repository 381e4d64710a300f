package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/applysink/applysink/database"
)

func TestGuardAlreadyApplied(t *testing.T) {
	tests := []struct {
		status  string
		applied bool
	}{
		{database.StatusDiscovered, false},
		{database.StatusQueued, false},
		{database.StatusApplied, true},
		{database.StatusInterviewing, true},
		{database.StatusOffer, true},
		{database.StatusHired, true},
		{database.StatusRejected, false},
	}

	for _, tt := range tests {
		store := newFakeStore()
		store.status[testKey] = tt.status
		guard := NewGuard(store)

		outcome, err := guard.AlreadyApplied(testKey)
		require.NoError(t, err)

		if tt.applied {
			require.NotNil(t, outcome, "status %q should count as applied", tt.status)
			assert.Equal(t, database.OutcomeAlreadyApplied, *outcome)
		} else {
			assert.Nil(t, outcome, "status %q should not count as applied", tt.status)
		}
	}
}

func TestGuardMissingRecordMeansNotApplied(t *testing.T) {
	guard := NewGuard(newFakeStore())

	outcome, err := guard.AlreadyApplied("never-seen-before")
	require.NoError(t, err)
	assert.Nil(t, outcome)
}
