package mailer

import (
	"context"

	"github.com/wneessen/go-mail"
)

// Sender delivers plain-text mail over SMTP.
type Sender struct {
	client *mail.Client
	from   string
}

func NewSender(host string, port int, username, password, from string) (*Sender, error) {
	opts := []mail.Option{mail.WithPort(port)}
	if username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(username),
			mail.WithPassword(password),
		)
	}
	c, err := mail.NewClient(host, opts...)
	if err != nil {
		return nil, err
	}
	return &Sender{client: c, from: from}, nil
}

func (s *Sender) Send(ctx context.Context, to, subject, body string) error {
	m := mail.NewMsg()
	if err := m.From(s.from); err != nil {
		return err
	}
	if err := m.To(to); err != nil {
		return err
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextPlain, body)
	return s.client.DialAndSendWithContext(ctx, m)
}
