package boards

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/applysink/applysink/bridge"
	"github.com/applysink/applysink/conf"
	"github.com/applysink/applysink/database"
	"github.com/applysink/applysink/providers"
)

const greenhouseBaseURL = "https://boards-api.greenhouse.io/v1"

// Greenhouse API-only provider for Greenhouse-hosted job boards. The public board
// API is read-only, so the apply flow fetches and renders the posting and then
// hands the actual submission to the human.
type Greenhouse struct {
	BoardToken string
	BaseURL    string
	Client     *http.Client
}

func NewGreenhouse(boardToken string) *Greenhouse {
	return &Greenhouse{
		BoardToken: boardToken,
		BaseURL:    greenhouseBaseURL,
		Client:     &http.Client{Timeout: 30 * time.Second},
	}
}

func (greenhouse *Greenhouse) Name() string {
	return "greenhouse"
}

func (greenhouse *Greenhouse) ProbeCapabilities() providers.Capabilities {
	return providers.Capabilities{Kind: providers.KindAPI, Flags: []string{}}
}

type greenhouseJob struct {
	ID          int64  `json:"id"`
	Title       string `json:"title"`
	AbsoluteURL string `json:"absolute_url"`
	UpdatedAt   string `json:"updated_at"`
	Content     string `json:"content"`
	Location    struct {
		Name string `json:"name"`
	} `json:"location"`
	Questions []struct {
		Label string `json:"label"`
	} `json:"questions"`
}

func (greenhouse *Greenhouse) getJSON(ctx context.Context, url string, out interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := greenhouse.Client.Do(req)
	if err != nil {
		return providers.Automation(bridge.CategoryTimeout, "greenhouse request failed: %s", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return providers.Automation(bridge.CategoryPageState, "greenhouse returned status %d for %s", resp.StatusCode, url)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (greenhouse *Greenhouse) Search(ctx context.Context, query string) ([]providers.Listing, error) {
	var payload struct {
		Jobs []greenhouseJob `json:"jobs"`
	}

	url := fmt.Sprintf("%s/boards/%s/jobs", greenhouse.BaseURL, greenhouse.BoardToken)
	if err := greenhouse.getJSON(ctx, url, &payload); err != nil {
		return nil, err
	}

	needle := strings.ToLower(query)
	var listings []providers.Listing
	for _, job := range payload.Jobs {
		if needle != "" && !strings.Contains(strings.ToLower(job.Title), needle) {
			continue
		}
		listings = append(listings, providers.Listing{
			ExternalID: fmt.Sprintf("%d", job.ID),
			Company:    greenhouse.BoardToken,
			Title:      job.Title,
			Location:   job.Location.Name,
			URL:        job.AbsoluteURL,
			PostedAt:   job.UpdatedAt,
		})
	}

	log.Infof("[Greenhouse] Search '%s' found %d of %d listings", query, len(listings), len(payload.Jobs))

	return listings, nil
}

func (greenhouse *Greenhouse) FetchDetail(ctx context.Context, externalID string) (*providers.Posting, error) {
	var job greenhouseJob

	url := fmt.Sprintf("%s/boards/%s/jobs/%s?questions=true", greenhouse.BaseURL, greenhouse.BoardToken, externalID)
	if err := greenhouse.getJSON(ctx, url, &job); err != nil {
		return nil, err
	}

	posting := &providers.Posting{
		Listing: providers.Listing{
			ExternalID: externalID,
			Company:    greenhouse.BoardToken,
			Title:      job.Title,
			Location:   job.Location.Name,
			URL:        job.AbsoluteURL,
			PostedAt:   job.UpdatedAt,
		},
		Description: job.Content,
	}
	for _, question := range job.Questions {
		posting.Questions = append(posting.Questions, question.Label)
	}

	return posting, nil
}

// Apply The board API cannot submit, so this renders the posting, raises a
// manual-intervention frame pointing the human at the form, and waits at the gate
// until they report the submission done (or cancel, or the window lapses).
func (greenhouse *Greenhouse) Apply(ctx context.Context, job *database.Application, mode providers.ApplyMode, session providers.ApplySession) (database.Outcome, error) {
	if session.Cancelled() {
		return database.OutcomeCancelled, nil
	}

	session.Emit(bridge.ApplyEvent{
		Kind:    bridge.EventProgress,
		Message: fmt.Sprintf("Fetching posting '%s' from Greenhouse", job.Title),
	})

	posting, err := greenhouse.FetchDetail(ctx, job.ExternalID)
	if err != nil {
		return database.OutcomeError, err
	}

	if session.Cancelled() {
		return database.OutcomeCancelled, nil
	}

	session.Emit(bridge.ApplyEvent{
		Kind:    bridge.EventManualIntervention,
		Message: fmt.Sprintf("Greenhouse has no automated apply flow. Complete the form at %s, then confirm here.", posting.URL),
		HTML:    posting.Description,
	})

	// The run waits at the same gate as a form-filling provider, so consumers
	// keying on the awaiting frame see a uniform wire contract.
	session.Emit(bridge.ApplyEvent{
		Kind:    bridge.EventAwaitingConfirm,
		Message: "Waiting for confirmation that the application went out",
	})

	switch session.AwaitConfirmation(conf.ConfirmTimeout()) {
	case bridge.DecisionConfirmed:
		session.Emit(bridge.ApplyEvent{
			Kind:    bridge.EventConfirmed,
			Message: "Manual submission confirmed",
		})
		return database.OutcomeSubmitted, nil
	case bridge.DecisionCancelled:
		return database.OutcomeCancelled, nil
	default:
		return database.OutcomeTimedOut, nil
	}
}
