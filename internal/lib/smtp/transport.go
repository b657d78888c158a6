package smtp

import (
	"crypto/tls"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/magabrotheeeer/job-marketplace/internal/config"
)

// Transport отправляет письма от имени адреса From.
type Transport struct {
	dialer Dialer
	from   string
}

// NewTransport создаёт транспорт по настройкам SMTP. Соединение
// устанавливается на каждую отправку, STARTTLS обязателен, если сервер
// его поддерживает.
func NewTransport(cfg config.SMTP) *Transport {
	d := gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
	d.TLSConfig = &tls.Config{
		ServerName: cfg.SMTPHost,
		MinVersion: tls.VersionTLS12,
	}
	from := cfg.SMTPFrom
	if from == "" {
		from = cfg.SMTPUser
	}
	return NewTransportWithDialer(d, from)
}

// NewTransportWithDialer создаёт транспорт поверх произвольного Dialer.
func NewTransportWithDialer(d Dialer, from string) *Transport {
	return &Transport{dialer: d, from: from}
}

// From возвращает адрес отправителя.
func (t *Transport) From() string {
	return t.from
}

// Send формирует и отправляет письмо. При наличии HTML текстовая часть
// добавляется как альтернативная.
func (t *Transport) Send(mail Mail) error {
	const op = "smtp.Transport.Send"
	if mail.To == "" {
		return fmt.Errorf("%s: empty recipient", op)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", t.from)
	m.SetHeader("To", mail.To)
	m.SetHeader("Subject", mail.Subject)
	switch {
	case mail.HTML != "" && mail.Text != "":
		m.SetBody("text/plain", mail.Text)
		m.AddAlternative("text/html", mail.HTML)
	case mail.HTML != "":
		m.SetBody("text/html", mail.HTML)
	default:
		m.SetBody("text/plain", mail.Text)
	}

	if err := t.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
