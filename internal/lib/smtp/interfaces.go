// Package smtp отправляет письма через SMTP-сервер.
package smtp

import "gopkg.in/gomail.v2"

// Dialer отправляет подготовленные сообщения. Реализуется *gomail.Dialer.
type Dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// Mail — письмо одному получателю.
type Mail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}
