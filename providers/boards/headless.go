package boards

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/applysink/applysink/bridge"
	"github.com/applysink/applysink/conf"
	"github.com/applysink/applysink/database"
	"github.com/applysink/applysink/providers"
)

// Headless Browser-driven provider. It owns a long-lived headless driver process
// (a Playwright runner) and speaks a JSON-lines protocol with it: one command per
// line on stdin, one event per line on stdout. Screenshots are written by the
// driver into the configured screenshot folder and referenced by filename.
type Headless struct {
	DriverPath string

	// One driver session means one page at a time; Search, FetchDetail and
	// Apply are serialized on it.
	mu      sync.Mutex
	cmd     *exec.Cmd
	stdin   io.WriteCloser
	scanner *bufio.Scanner
}

func NewHeadless(driverPath string) *Headless {
	return &Headless{DriverPath: driverPath}
}

type driverCommand struct {
	Cmd        string            `json:"cmd"`
	Query      string            `json:"query,omitempty"`
	URL        string            `json:"url,omitempty"`
	ExternalID string            `json:"externalId,omitempty"`
	Fields     map[string]string `json:"fields,omitempty"`
}

type driverEvent struct {
	Type       string              `json:"type"`
	Message    string              `json:"message,omitempty"`
	Screenshot string              `json:"screenshot,omitempty"`
	HTML       string              `json:"html,omitempty"`
	Fields     map[string]string   `json:"fields,omitempty"`
	Category   string              `json:"category,omitempty"`
	Listings   []providers.Listing `json:"listings,omitempty"`
	Posting    *providers.Posting  `json:"posting,omitempty"`
}

func (headless *Headless) Name() string {
	return "headless"
}

func (headless *Headless) ProbeCapabilities() providers.Capabilities {
	return providers.Capabilities{Kind: providers.KindBrowser, Flags: []string{providers.FlagAutoApply}}
}

// OpenSession Starts the driver process with the given browser profile and waits
// for its ready frame. Login credentials travel via the environment, never argv.
func (headless *Headless) OpenSession(ctx context.Context, credentials providers.Credentials) error {
	headless.mu.Lock()
	defer headless.mu.Unlock()

	if headless.cmd != nil {
		return errors.New("driver session already open")
	}
	if headless.DriverPath == "" {
		return errors.New("no browser driver path configured")
	}

	cmd := exec.Command(headless.DriverPath,
		"--profile", credentials.ProfilePath,
		"--screenshot-dir", conf.AppCfg.ScreenshotsAbsolutePath)
	cmd.Env = append(os.Environ(),
		"DRIVER_USERNAME="+credentials.Username,
		"DRIVER_PASSWORD="+credentials.Password)

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return err
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("starting browser driver: %w", err)
	}

	headless.cmd = cmd
	headless.stdin = stdin
	headless.scanner = bufio.NewScanner(stdout)
	headless.scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	event, err := headless.next()
	if err != nil {
		headless.teardown()
		return err
	}
	if event.Type != "ready" {
		headless.teardown()
		return fmt.Errorf("driver sent '%s' instead of ready", event.Type)
	}

	log.Infof("[Headless] Driver started, pid %d", cmd.Process.Pid)

	return nil
}

// CloseSession Asks the driver to quit and reaps the process; kills it if it does
// not exit within a few seconds.
func (headless *Headless) CloseSession() error {
	headless.mu.Lock()
	defer headless.mu.Unlock()

	if headless.cmd == nil {
		return nil
	}

	_ = headless.send(driverCommand{Cmd: "quit"})

	done := make(chan error, 1)
	go func() {
		done <- headless.cmd.Wait()
	}()

	select {
	case err := <-done:
		headless.reset()
		return err
	case <-time.After(5 * time.Second):
		log.Warnln("[Headless] Driver did not quit, killing it")
		headless.teardown()
		return nil
	}
}

func (headless *Headless) teardown() {
	if headless.cmd != nil && headless.cmd.Process != nil {
		_ = headless.cmd.Process.Kill()
		_ = headless.cmd.Wait()
	}
	headless.reset()
}

func (headless *Headless) reset() {
	headless.cmd = nil
	headless.stdin = nil
	headless.scanner = nil
}

func (headless *Headless) send(cmd driverCommand) error {
	if headless.stdin == nil {
		return errors.New("driver session not open")
	}
	line, err := json.Marshal(cmd)
	if err != nil {
		return err
	}
	_, err = headless.stdin.Write(append(line, '\n'))
	return err
}

func (headless *Headless) next() (*driverEvent, error) {
	if headless.scanner == nil {
		return nil, errors.New("driver session not open")
	}
	if !headless.scanner.Scan() {
		if err := headless.scanner.Err(); err != nil {
			return nil, providers.Automation(bridge.CategoryDriver, "reading driver output: %s", err)
		}
		return nil, providers.Automation(bridge.CategoryDriver, "driver closed its output pipe")
	}

	var event driverEvent
	if err := json.Unmarshal(headless.scanner.Bytes(), &event); err != nil {
		return nil, providers.Automation(bridge.CategoryDriver, "malformed driver frame: %s", err)
	}
	return &event, nil
}

func (headless *Headless) Search(ctx context.Context, query string) ([]providers.Listing, error) {
	headless.mu.Lock()
	defer headless.mu.Unlock()

	if err := headless.send(driverCommand{Cmd: "search", Query: query}); err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		event, err := headless.next()
		if err != nil {
			return nil, err
		}

		switch event.Type {
		case "progress":
			log.Debugf("[Headless] search: %s", event.Message)
		case "results":
			return event.Listings, nil
		case "error":
			return nil, providers.Automation(errCategory(event), "%s", event.Message)
		}
	}
}

func (headless *Headless) FetchDetail(ctx context.Context, externalID string) (*providers.Posting, error) {
	headless.mu.Lock()
	defer headless.mu.Unlock()

	if err := headless.send(driverCommand{Cmd: "detail", ExternalID: externalID}); err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		event, err := headless.next()
		if err != nil {
			return nil, err
		}

		switch event.Type {
		case "progress":
			log.Debugf("[Headless] detail: %s", event.Message)
		case "posting":
			if event.Posting == nil {
				return nil, providers.Automation(bridge.CategoryPageState, "driver sent an empty posting")
			}
			return event.Posting, nil
		case "error":
			return nil, providers.Automation(errCategory(event), "%s", event.Message)
		}
	}
}

// Apply Drives the board's form in the browser. The driver navigates and fills;
// this side relays its frames onto the session, pauses on login/captcha
// challenges, and holds the form at the confirmation gate before the one
// irreversible submit command.
func (headless *Headless) Apply(ctx context.Context, job *database.Application, mode providers.ApplyMode, session providers.ApplySession) (database.Outcome, error) {
	headless.mu.Lock()
	defer headless.mu.Unlock()

	fields := map[string]string{}
	if job.ResumePath != "" {
		fields["resume"] = job.ResumePath
	}
	if job.CoverLetter != "" {
		fields["cover_letter"] = job.CoverLetter
	}

	if err := headless.send(driverCommand{Cmd: "apply", URL: job.URL, ExternalID: job.ExternalID, Fields: fields}); err != nil {
		return database.OutcomeError, err
	}

	for {
		if session.Cancelled() {
			headless.abort()
			return database.OutcomeCancelled, nil
		}

		event, err := headless.next()
		if err != nil {
			return database.OutcomeError, err
		}

		switch event.Type {
		case "progress":
			session.Emit(bridge.ApplyEvent{
				Kind:       bridge.EventProgress,
				Message:    event.Message,
				Screenshot: screenshotPath(event),
			})

		case "challenge":
			// CAPTCHA, login wall, verification code. Reported, never solved
			// automatically; the human clears it in the browser and confirms.
			session.Emit(bridge.ApplyEvent{
				Kind:       bridge.EventManualIntervention,
				Message:    event.Message,
				Screenshot: screenshotPath(event),
			})

			switch session.AwaitConfirmation(conf.ConfirmTimeout()) {
			case bridge.DecisionConfirmed:
				session.Emit(bridge.ApplyEvent{Kind: bridge.EventProgress, Message: "Challenge cleared, resuming"})
				if err := headless.send(driverCommand{Cmd: "continue"}); err != nil {
					return database.OutcomeError, err
				}
			case bridge.DecisionCancelled:
				headless.abort()
				return database.OutcomeCancelled, nil
			default:
				headless.abort()
				return database.OutcomeTimedOut, nil
			}

		case "form_ready":
			if mode == providers.ModeAuto {
				session.Emit(bridge.ApplyEvent{
					Kind:    bridge.EventProgress,
					Message: "Auto-apply enabled, submitting without confirmation",
					Fields:  event.Fields,
				})
				if err := headless.send(driverCommand{Cmd: "submit"}); err != nil {
					return database.OutcomeError, err
				}
				continue
			}

			session.Emit(bridge.ApplyEvent{
				Kind:       bridge.EventAwaitingConfirm,
				Message:    "Form filled, waiting for your confirmation to submit",
				HTML:       event.HTML,
				Fields:     event.Fields,
				Screenshot: screenshotPath(event),
			})

			switch session.AwaitConfirmation(conf.ConfirmTimeout()) {
			case bridge.DecisionConfirmed:
				session.Emit(bridge.ApplyEvent{Kind: bridge.EventConfirmed, Message: "Confirmed, submitting"})
				if err := headless.send(driverCommand{Cmd: "submit"}); err != nil {
					return database.OutcomeError, err
				}
			case bridge.DecisionCancelled:
				headless.abort()
				return database.OutcomeCancelled, nil
			default:
				headless.abort()
				return database.OutcomeTimedOut, nil
			}

		case "submitted":
			return database.OutcomeSubmitted, nil

		case "error":
			return database.OutcomeError, providers.Automation(errCategory(event), "%s", event.Message)

		default:
			// Unknown driver frames are ignorable progress, newer drivers may
			// send more than we know about.
			log.Debugf("[Headless] Ignoring driver frame '%s'", event.Type)
		}
	}
}

func (headless *Headless) abort() {
	if err := headless.send(driverCommand{Cmd: "abort"}); err != nil {
		log.Errorf("[Headless] Error aborting driver action: %s", err)
	}
}

func screenshotPath(event *driverEvent) string {
	if event.Screenshot == "" {
		return ""
	}
	return conf.RelativeScreenshotPath(event.Screenshot)
}

func errCategory(event *driverEvent) string {
	if event.Category != "" {
		return event.Category
	}
	return bridge.CategoryProvider
}
