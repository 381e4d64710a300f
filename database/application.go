package database

import (
	"errors"
	"time"

	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Pipeline statuses of a tracked application, ordered. Everything at or beyond
// StatusApplied counts as already applied for the duplicate guard.
const (
	StatusDiscovered   = "discovered"
	StatusScored       = "scored"
	StatusQueued       = "queued"
	StatusApplied      = "applied"
	StatusInterviewing = "interviewing"
	StatusOffer        = "offer"
	StatusHired        = "hired"
	StatusRejected     = "rejected"
	StatusWithdrawn    = "withdrawn"
)

var statusRank = map[string]int{
	StatusDiscovered:   0,
	StatusScored:       1,
	StatusQueued:       2,
	StatusApplied:      3,
	StatusInterviewing: 4,
	StatusOffer:        5,
	StatusHired:        6,
}

// AppliedOrLater Reports whether a pipeline status means a submission already went out.
// Rejected and withdrawn postings may be re-applied to and do not count.
func AppliedOrLater(status string) bool {
	rank, ok := statusRank[status]
	return ok && rank >= statusRank[StatusApplied]
}

// Outcome Terminal outcome of one application run.
type Outcome string

const (
	OutcomeSubmitted      Outcome = "submitted"
	OutcomeCancelled      Outcome = "cancelled"
	OutcomeError          Outcome = "error"
	OutcomeTimedOut       Outcome = "timed_out"
	OutcomeAlreadyApplied Outcome = "already_applied"
)

type Application struct {
	ApplicationID  uint           `json:"applicationId" gorm:"autoIncrement;primaryKey;column:application_id" extensions:"!x-nullable"`
	ApplicationKey ApplicationKey `json:"applicationKey" gorm:"uniqueIndex;not null"`

	Company  string `json:"company" gorm:"not null"`
	Title    string `json:"title" gorm:"not null"`
	URL      string `json:"url"`
	Provider string `json:"provider"`
	Location string `json:"location"`

	Status string `json:"status" gorm:"not null;default:'discovered';index:idx_status"`

	Score        float64 `json:"score"`
	SalaryMin    int     `json:"salaryMin"`
	SalaryMax    int     `json:"salaryMax"`
	Description  string  `json:"description" gorm:"type:text"`
	ExternalID   string  `json:"externalId"`
	ResumePath   string  `json:"resumePath"`
	CoverLetter  string  `json:"coverLetter" gorm:"type:text"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// OutcomeRecord Audit row for every terminal run outcome, so a user who was not
// watching the live stream can still see what happened later.
type OutcomeRecord struct {
	OutcomeID      uint           `json:"outcomeId" gorm:"autoIncrement;primaryKey;column:outcome_id" extensions:"!x-nullable"`
	ApplicationKey ApplicationKey `json:"applicationKey" gorm:"not null;index:idx_outcome_key"`
	Outcome        Outcome        `json:"outcome" gorm:"not null"`
	Detail         string         `json:"detail" gorm:"type:text"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func CreateApplication(application *Application) error {
	if err := application.ApplicationKey.IsValid(); err != nil {
		return err
	}
	return DB.Create(application).Error
}

func FindApplicationByKey(key ApplicationKey) (*Application, error) {
	var application *Application
	if err := DB.Where("application_key = ?", key.String()).First(&application).Error; err != nil {
		return nil, err
	}
	return application, nil
}

func ApplicationList() ([]*Application, error) {
	var applications []*Application
	if err := DB.Order("applications.updated_at DESC").
		Find(&applications).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return applications, nil
}

func UpdateApplicationStatus(key ApplicationKey, status string) error {
	return DB.Model(&Application{}).
		Where("application_key = ?", key.String()).
		Update("status", status).Error
}

func DestroyApplication(key ApplicationKey) error {
	if err := DB.Where("application_key = ?", key.String()).Delete(&Application{}).Error; err != nil {
		return err
	}
	return DB.Where("application_key = ?", key.String()).Delete(&OutcomeRecord{}).Error
}

// Store The record-store face the apply core talks to. It only ever needs the
// current pipeline status and a place to persist terminal outcomes.
type Store struct{}

// GetApplicationStatus Returns the pipeline status for a key. A missing record is
// not an error, it means the posting has never been applied to.
func (Store) GetApplicationStatus(key ApplicationKey) (string, error) {
	application, err := FindApplicationByKey(key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return application.Status, nil
}

// FindApplication Loads the full record for a key.
func (Store) FindApplication(key ApplicationKey) (*Application, error) {
	return FindApplicationByKey(key)
}

// RecordOutcome Persists a terminal run outcome and advances the pipeline status
// when a submission actually went out. Cancellation never writes a success record.
func (Store) RecordOutcome(key ApplicationKey, outcome Outcome, detail string) error {
	record := OutcomeRecord{
		ApplicationKey: key,
		Outcome:        outcome,
		Detail:         detail,
		CreatedAt:      time.Now(),
	}
	if err := DB.Create(&record).Error; err != nil {
		log.Errorf("[Application] Error recording outcome '%s' for '%s': %s", outcome, key, err)
		return err
	}

	if outcome == OutcomeSubmitted {
		return UpdateApplicationStatus(key, StatusApplied)
	}

	return nil
}

func OutcomeList(key ApplicationKey) ([]*OutcomeRecord, error) {
	var records []*OutcomeRecord
	if err := DB.Where("application_key = ?", key.String()).
		Order("created_at ASC").
		Find(&records).Error; err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return records, nil
}
