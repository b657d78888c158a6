package rabbitmq

// Exchange — direct-обменник для уведомлений.
const Exchange = "notifications"

// Сообщения, которые не удалось обработать повторно, уходят через
// DeadLetterExchange в DeadLetterQueue и ждут ручного разбора.
const (
	DeadLetterExchange = "notifications.dlx"
	DeadLetterQueue    = "notifications.dead"
)

// Ключи маршрутизации уведомлений.
const (
	RoutingVerifyEmail   = "email.verify"
	RoutingPasswordReset = "email.reset"
	RoutingWorkflow      = "workflow.event"
)

// QueueConfig связывает очередь с ключом маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди, которые слушает сервис рассылки.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: "notifications.email.verify", RoutingKey: RoutingVerifyEmail},
		{QueueName: "notifications.email.reset", RoutingKey: RoutingPasswordReset},
		{QueueName: "notifications.workflow", RoutingKey: RoutingWorkflow},
	}
}
