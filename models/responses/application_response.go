package responses

import "time"

// SessionResponse One live application run.
type SessionResponse struct {
	Key       string    `json:"key"`
	RunID     string    `json:"runId"`
	CreatedAt time.Time `json:"createdAt"`
}

// StartResponse Returned when an automation run was accepted.
type StartResponse struct {
	Key   string `json:"key"`
	RunID string `json:"runId"`
}
