package smtp

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/gomail.v2"

	"github.com/magabrotheeeer/job-marketplace/internal/config"
)

type recordingDialer struct {
	sent []*gomail.Message
	err  error
}

func (d *recordingDialer) DialAndSend(m ...*gomail.Message) error {
	d.sent = append(d.sent, m...)
	return d.err
}

func TestTransport_Send(t *testing.T) {
	tests := []struct {
		name      string
		mail      Mail
		dialerErr error
		wantErr   bool
		wantSent  int
	}{
		{
			name:     "plain text",
			mail:     Mail{To: "worker@example.com", Subject: "Hi", Text: "hello"},
			wantSent: 1,
		},
		{
			name:     "html with text alternative",
			mail:     Mail{To: "worker@example.com", Subject: "Hi", Text: "hello", HTML: "<b>hello</b>"},
			wantSent: 1,
		},
		{
			name:    "empty recipient",
			mail:    Mail{Subject: "Hi", Text: "hello"},
			wantErr: true,
		},
		{
			name:      "dial failure",
			mail:      Mail{To: "worker@example.com", Subject: "Hi", Text: "hello"},
			dialerErr: errors.New("connection refused"),
			wantErr:   true,
			wantSent:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &recordingDialer{err: tt.dialerErr}
			tr := NewTransportWithDialer(d, "noreply@example.com")

			err := tr.Send(tt.mail)
			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			require.Len(t, d.sent, tt.wantSent)
			if tt.wantSent > 0 {
				m := d.sent[0]
				assert.Equal(t, []string{"noreply@example.com"}, m.GetHeader("From"))
				assert.Equal(t, []string{tt.mail.To}, m.GetHeader("To"))
				assert.Equal(t, []string{tt.mail.Subject}, m.GetHeader("Subject"))
			}
		})
	}
}

func TestNewTransport_FromFallsBackToUser(t *testing.T) {
	tr := NewTransport(config.SMTP{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPUser: "user@example.com"})
	assert.Equal(t, "user@example.com", tr.From())

	tr = NewTransport(config.SMTP{SMTPHost: "smtp.example.com", SMTPPort: 587, SMTPUser: "u", SMTPFrom: "team@example.com"})
	assert.Equal(t, "team@example.com", tr.From())
}
