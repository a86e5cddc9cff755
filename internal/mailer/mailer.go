package mailer

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/frahmantamala/police-portal/internal"
	"github.com/frahmantamala/police-portal/internal/core/events"
	"github.com/wneessen/go-mail"
)

// Message is one outgoing email.
type Message struct {
	To      string
	Subject string
	HTML    string
	Text    string
}

type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPSender delivers through an SMTP relay.
type SMTPSender struct {
	client *mail.Client
	from   string
}

func NewSMTPSender(cfg internal.MailConfig) (*SMTPSender, error) {
	opts := []mail.Option{
		mail.WithTLSPolicy(mail.TLSOpportunistic),
		mail.WithTimeout(15 * time.Second),
	}
	if cfg.Port > 0 {
		opts = append(opts, mail.WithPort(cfg.Port))
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("create smtp client: %w", err)
	}
	return &SMTPSender{client: client, from: cfg.From}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m, err := buildMsg(s.from, msg)
	if err != nil {
		return err
	}
	if err := s.client.DialAndSendWithContext(ctx, m); err != nil {
		return fmt.Errorf("send mail: %w", err)
	}
	return nil
}

func buildMsg(from string, msg Message) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.From(from); err != nil {
		return nil, fmt.Errorf("invalid from address: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextHTML, msg.HTML)
	if msg.Text != "" {
		m.AddAlternativeString(mail.TypeTextPlain, msg.Text)
	}
	return m, nil
}

// LogSender stands in when mail is disabled. It logs the recipient and
// subject only; bodies carry reset secrets.
type LogSender struct {
	logger *slog.Logger
}

func NewLogSender(logger *slog.Logger) *LogSender {
	return &LogSender{logger: logger}
}

func (s *LogSender) Send(ctx context.Context, msg Message) error {
	s.logger.Info("mail delivery disabled, message dropped", "to", msg.To, "subject", msg.Subject)
	return nil
}

type Mailer struct {
	sender Sender
	logger *slog.Logger
}

func NewMailer(sender Sender, logger *slog.Logger) *Mailer {
	return &Mailer{sender: sender, logger: logger}
}

// SendPasswordReset renders and sends the reset email for link.
func (m *Mailer) SendPasswordReset(ctx context.Context, to, link string, validFor time.Duration) error {
	html, err := renderPasswordReset(link, validFor)
	if err != nil {
		return fmt.Errorf("render password reset email: %w", err)
	}

	return m.sender.Send(ctx, Message{
		To:      to,
		Subject: passwordResetSubject,
		HTML:    html,
		Text:    plainPasswordReset(link, validFor),
	})
}

func (m *Mailer) HandlePasswordResetRequested(ctx context.Context, event events.Event) error {
	resetEvent, ok := event.(events.PasswordResetRequested)
	if !ok {
		m.logger.Error("invalid event type for password reset handler", "event_type", event.EventType())
		return fmt.Errorf("expected PasswordResetRequested, got %T", event)
	}

	validFor := resetEvent.ExpiresAt.Sub(resetEvent.Timestamp).Round(time.Minute)
	if validFor <= 0 {
		validFor = 15 * time.Minute
	}

	if err := m.SendPasswordReset(ctx, resetEvent.Email, resetEvent.Link, validFor); err != nil {
		m.logger.Error("failed to send password reset email", "event_id", resetEvent.EventID(), "error", err)
		return err
	}

	m.logger.Info("password reset email sent", "event_id", resetEvent.EventID())
	return nil
}

func (m *Mailer) RegisterEventHandlers(eventBus *events.EventBus) {
	eventBus.Subscribe(events.EventTypePasswordResetRequested, m.HandlePasswordResetRequested)

	m.logger.Info("mailer event handlers registered",
		"handlers", []string{events.EventTypePasswordResetRequested})
}
