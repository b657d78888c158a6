package models

import "time"

// HireStatus — статус заявки на найм.
type HireStatus string

const (
	HirePending  HireStatus = "pending"
	HireAccepted HireStatus = "accepted"
	HireRejected HireStatus = "rejected"
)

// Progress — ход работ по принятой заявке.
type Progress string

const (
	ProgressOngoing Progress = "ongoing"
	ProgressDone    Progress = "done"
)

// HireRequest — заявка клиента конкретному исполнителю.
type HireRequest struct {
	ID          string     `json:"id"`
	ClientID    string     `json:"client_id"`
	WorkerID    string     `json:"worker_id"`
	JobID       string     `json:"job_id,omitempty"`
	Message     string     `json:"message"`
	Status      HireStatus `json:"status"`
	Progress    Progress   `json:"progress"`
	FavoritedBy []string   `json:"favorited_by"`
	Version     int        `json:"version"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}
