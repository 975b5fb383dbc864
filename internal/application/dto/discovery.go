package dto

import "time"

type DiscoveryResult struct {
	FirstAccountID  string `json:"first_account_id,omitempty"`
	AccountsCreated int    `json:"accounts_created"`
	AccountsFailed  int    `json:"accounts_failed"`
	Scanned         int    `json:"scanned"`
}

type DiscoveryJobQuery struct {
	JobID string
}

type DiscoveryJobView struct {
	ID              string     `json:"id"`
	RootIdentifier  string     `json:"root_identifier"`
	Status          string     `json:"status"`
	Scanned         int        `json:"scanned"`
	AccountsCreated int        `json:"accounts_created"`
	AccountsFailed  int        `json:"accounts_failed"`
	FirstAccountID  string     `json:"first_account_id,omitempty"`
	Outcome         string     `json:"outcome,omitempty"`
	Error           *JobError  `json:"error,omitempty"`
	RetryOf         string     `json:"retry_of,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

type JobError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type DiscoveryResultEvent struct {
	EventID     string
	EventType   string
	CallbackURL string
	Job         DiscoveryJobView
}

type DiscoveryResultEventOutput struct {
	StatusCode int
}
