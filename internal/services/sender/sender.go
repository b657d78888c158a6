// Package sender превращает уведомления из очередей в письма.
package sender

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/magabrotheeeer/job-marketplace/internal/lib/sl"
	"github.com/magabrotheeeer/job-marketplace/internal/lib/smtp"
	"github.com/magabrotheeeer/job-marketplace/internal/models"
)

// Mailer отправляет письмо.
type Mailer interface {
	Send(mail smtp.Mail) error
}

// SenderService обрабатывает сообщения очередей уведомлений.
type SenderService struct {
	mailer Mailer
	log    *slog.Logger
}

// NewSenderService создает новый экземпляр SenderService.
func NewSenderService(log *slog.Logger, mailer Mailer) *SenderService {
	return &SenderService{
		mailer: mailer,
		log:    log,
	}
}

// Handle разбирает уведомление и отправляет письмо. Некорректные сообщения
// отбрасываются, ошибка отправки возвращает сообщение в очередь.
func (s *SenderService) Handle(body []byte) error {
	const op = "sender.Handle"
	log := s.log.With(slog.String("op", op))

	var n models.Notification
	if err := json.Unmarshal(body, &n); err != nil {
		log.Error("dropping malformed notification", sl.Err(err))
		return nil
	}
	if n.Email == "" {
		log.Error("dropping notification without recipient", slog.String("kind", string(n.Kind)))
		return nil
	}

	mail, err := render(n)
	if err != nil {
		log.Error("dropping notification", sl.Err(err))
		return nil
	}
	if err := s.mailer.Send(mail); err != nil {
		log.Error("failed to send email", slog.String("kind", string(n.Kind)), sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}

	log.Info("email sent successfully", slog.String("kind", string(n.Kind)), slog.String("actor_id", n.ActorID))
	return nil
}

func render(n models.Notification) (smtp.Mail, error) {
	greeting := "Hello"
	if n.Name != "" {
		greeting += ", " + n.Name
	}
	mail := smtp.Mail{To: n.Email, Subject: n.Subject}

	switch n.Kind {
	case models.NotificationVerifyEmail:
		mail.Text = fmt.Sprintf("%s!\n\nPlease confirm your email address by opening the link below:\n%s\n", greeting, n.Link)
		mail.HTML = fmt.Sprintf(`<p>%s!</p><p>Please confirm your email address:</p><p><a href="%s">Verify email</a></p>`, greeting, n.Link)
	case models.NotificationPasswordReset:
		mail.Text = fmt.Sprintf("%s!\n\nUse the link below to reset your password. It expires in one hour.\n%s\n", greeting, n.Link)
		mail.HTML = fmt.Sprintf(`<p>%s!</p><p>Use the link below to reset your password. It expires in one hour.</p><p><a href="%s">Reset password</a></p>`, greeting, n.Link)
	case models.NotificationWorkflow:
		mail.Text = fmt.Sprintf("%s!\n\n%s\n", greeting, n.Body)
	default:
		return smtp.Mail{}, fmt.Errorf("unknown notification kind %q", n.Kind)
	}
	if mail.Subject == "" {
		mail.Subject = "Job marketplace notification"
	}
	return mail, nil
}
