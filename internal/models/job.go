package models

import "time"

// JobType — тип занятости в вакансии.
type JobType string

const (
	JobTypeFullTime   JobType = "full-time"
	JobTypePartTime   JobType = "part-time"
	JobTypeContract   JobType = "contract"
	JobTypeInternship JobType = "internship"
)

// Budget — вилка оплаты.
type Budget struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// ApplicationEntry — краткое представление отклика в карточке вакансии.
// Строится при чтении из таблицы откликов и не хранится отдельно.
type ApplicationEntry struct {
	ApplicationID string            `json:"application_id"`
	WorkerID      string            `json:"worker_id"`
	Status        ApplicationStatus `json:"status"`
	AppliedAt     time.Time         `json:"applied_at"`
}

// Job — вакансия, принадлежащая создавшему её клиенту.
type Job struct {
	ID           string             `json:"id"`
	ClientID     string             `json:"client_id"`
	Title        string             `json:"title"`
	Location     string             `json:"location"`
	Type         JobType            `json:"type"`
	Description  string             `json:"description"`
	Category     string             `json:"category"`
	Budget       Budget             `json:"budget"`
	Applications []ApplicationEntry `json:"applications"`
	BookmarkedBy []string           `json:"bookmarked_by"`
	Version      int                `json:"version"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

// JobInput — изменяемые поля вакансии.
type JobInput struct {
	Title       string  `json:"title" validate:"required,max=200"`
	Location    string  `json:"location" validate:"required"`
	Type        JobType `json:"type" validate:"required,oneof=full-time part-time contract internship"`
	Description string  `json:"description" validate:"required"`
	Category    string  `json:"category" validate:"required"`
	Budget      Budget  `json:"budget"`
}

// JobFilter — параметры выборки списка вакансий.
type JobFilter struct {
	Category string
	Type     JobType
	Location string
	Limit    int
	Offset   int
}
