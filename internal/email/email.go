package email

import (
	"github.com/rs/zerolog/log"
	"gopkg.in/gomail.v2"

	"github.com/vetcare/clinic-api/internal/config"
)

// Sender delivers transactional mail. Services depend on the interface so
// tests can swap in a recorder.
type Sender interface {
	Send(to, subject, body string) error
}

type smtpSender struct {
	dialer *gomail.Dialer
	from   string
}

// NewSender returns an SMTP-backed sender, or a logging no-op when SMTP is
// not configured so reminder delivery degrades instead of failing.
func NewSender(cfg config.SMTPConfig) Sender {
	if !cfg.Enabled() {
		log.Info().Msg("smtp not configured, email delivery disabled")
		return &noopSender{}
	}
	return &smtpSender{
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:   cfg.From,
	}
}

func (s *smtpSender) Send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)
	return s.dialer.DialAndSend(m)
}

type noopSender struct{}

func (n *noopSender) Send(to, subject, _ string) error {
	log.Debug().Str("to", to).Str("subject", subject).Msg("email suppressed")
	return nil
}
