package models

import "time"

// ApplicationStatus — статус отклика на вакансию.
type ApplicationStatus string

const (
	ApplicationApplied  ApplicationStatus = "applied"
	ApplicationAccepted ApplicationStatus = "accepted"
	ApplicationRejected ApplicationStatus = "rejected"
)

// Contact — контактные данные исполнителя на момент отклика.
type Contact struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

// Application — отклик исполнителя на вакансию. Один на пару (вакансия, исполнитель).
type Application struct {
	ID        string            `json:"id"`
	JobID     string            `json:"job_id"`
	WorkerID  string            `json:"worker_id"`
	Contact   Contact           `json:"contact"`
	ResumeRef string            `json:"resume_ref"`
	Status    ApplicationStatus `json:"status"`
	Version   int               `json:"version"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
