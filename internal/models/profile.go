package models

import "time"

// Availability — доступность исполнителя.
type Availability string

const (
	AvailabilityAvailable Availability = "available"
	AvailabilityBusy      Availability = "busy"
	AvailabilityOffline   Availability = "offline"
)

// WorkerProfile — профиль исполнителя с отзывами клиентов.
// RatingAverage всегда равен среднему оценок в Reviews.
type WorkerProfile struct {
	UserID             string       `json:"user_id"`
	Bio                string       `json:"bio"`
	Skills             []string     `json:"skills"`
	ExperienceYears    int          `json:"experience_years"`
	AvailabilityStatus Availability `json:"availability_status"`
	RatingAverage      float64      `json:"rating_average"`
	Reviews            []Review     `json:"reviews"`
	UpdatedAt          time.Time    `json:"updated_at"`
}

// Review — отзыв клиента, не более одного на пару (исполнитель, клиент).
type Review struct {
	WorkerID  string    `json:"worker_id"`
	ClientID  string    `json:"client_id"`
	Rating    int       `json:"rating"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
