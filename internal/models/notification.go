package models

// NotificationKind — тип уведомления для сервиса рассылки.
type NotificationKind string

const (
	NotificationVerifyEmail   NotificationKind = "verify_email"
	NotificationPasswordReset NotificationKind = "password_reset"
	NotificationWorkflow      NotificationKind = "workflow"
)

// Notification — сообщение, публикуемое в RabbitMQ и доставляемое по e-mail.
type Notification struct {
	Kind    NotificationKind `json:"kind"`
	ActorID string           `json:"actor_id,omitempty"`
	Email   string           `json:"email"`
	Name    string           `json:"name"`
	Subject string           `json:"subject"`
	Body    string           `json:"body,omitempty"`
	Link    string           `json:"link,omitempty"`
}
