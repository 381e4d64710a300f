package services

import (
	"github.com/applysink/applysink/database"
)

// RecordStore The slice of the job record store the apply core needs: the current
// pipeline status, the application record itself, and a place to persist terminal
// outcomes. database.Store is the production implementation.
type RecordStore interface {
	GetApplicationStatus(key database.ApplicationKey) (string, error)
	FindApplication(key database.ApplicationKey) (*database.Application, error)
	RecordOutcome(key database.ApplicationKey, outcome database.Outcome, detail string) error
}

// Guard Read-only duplicate-application check. Answers whether a job already
// reached an applied-or-later pipeline state, to prevent double submission.
type Guard struct {
	store RecordStore
}

func NewGuard(store RecordStore) *Guard {
	return &Guard{store: store}
}

// AlreadyApplied Returns a populated outcome if the posting is at or beyond
// "applied". A missing record means "not yet applied" and is never an error.
func (guard *Guard) AlreadyApplied(key database.ApplicationKey) (*database.Outcome, error) {
	status, err := guard.store.GetApplicationStatus(key)
	if err != nil {
		return nil, err
	}

	if database.AppliedOrLater(status) {
		outcome := database.OutcomeAlreadyApplied
		return &outcome, nil
	}

	return nil, nil
}
