package mail

import (
	"context"
	"fmt"
	"log/slog"

	gomail "github.com/wneessen/go-mail"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	To       string
}

// Message is a plain-text notification sent to the site owner. ReplyTo is
// the address of whoever triggered it.
type Message struct {
	Subject     string
	Body        string
	ReplyToName string
	ReplyTo     string
}

type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer, or a logging no-op mailer when no host is
// configured.
func New(cfg Config, logger *slog.Logger) (Mailer, error) {
	if cfg.Host == "" {
		logger.Warn("mail host not configured, contact messages will only be stored")
		return &NoopMailer{logger: logger}, nil
	}
	if cfg.From == "" || cfg.To == "" {
		return nil, fmt.Errorf("mail.from and mail.to are required when mail.host is set")
	}

	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithTLSPolicy(gomail.TLSMandatory),
	}
	if cfg.Username != "" {
		opts = append(opts,
			gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
			gomail.WithUsername(cfg.Username),
			gomail.WithPassword(cfg.Password),
		)
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPMailer{client: client, from: cfg.From, to: cfg.To, logger: logger}, nil
}

type SMTPMailer struct {
	client *gomail.Client
	from   string
	to     string
	logger *slog.Logger
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	out, err := BuildMessage(m.from, m.to, msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	m.logger.Info("mail sent", "subject", msg.Subject)
	return nil
}

// BuildMessage assembles the outgoing message without sending it.
func BuildMessage(from, to string, msg Message) (*gomail.Msg, error) {
	out := gomail.NewMsg()
	if err := out.From(from); err != nil {
		return nil, fmt.Errorf("from address: %w", err)
	}
	if err := out.To(to); err != nil {
		return nil, fmt.Errorf("to address: %w", err)
	}
	if msg.ReplyTo != "" {
		if err := out.ReplyToFormat(msg.ReplyToName, msg.ReplyTo); err != nil {
			return nil, fmt.Errorf("reply-to address: %w", err)
		}
	}
	out.Subject(msg.Subject)
	out.SetBodyString(gomail.TypeTextPlain, msg.Body)
	return out, nil
}

type NoopMailer struct {
	logger *slog.Logger
}

func (m *NoopMailer) Send(_ context.Context, msg Message) error {
	m.logger.Info("mail delivery disabled, dropping message", "subject", msg.Subject)
	return nil
}
