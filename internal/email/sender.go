package email

import (
	"context"
	"fmt"
	"time"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"

	"github.com/spigell/mentor-match/internal/logger"
	"github.com/spigell/mentor-match/internal/utils"
)

const (
	// sendPause spaces out deliveries so the SMTP relay is not hammered.
	sendPause = 200 * time.Millisecond

	bodyPreviewLength = 120
)

// Sender delivers one rendered message.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// SMTPConfig configures the outgoing mail account.
type SMTPConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	SenderEmail string `mapstructure:"sender-email"`
	SenderName  string `mapstructure:"sender-name"`
	// Password is resolved from secrets before the sender is built.
	Password string `mapstructure:"-"`
}

// SMTPSender delivers messages over SMTP with STARTTLS.
type SMTPSender struct {
	cfg SMTPConfig
}

func NewSMTPSender(cfg SMTPConfig) (*SMTPSender, error) {
	if cfg.Host == "" || cfg.SenderEmail == "" {
		return nil, fmt.Errorf("smtp host and sender email are required")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}
	return &SMTPSender{cfg: cfg}, nil
}

func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	m := mail.NewMsg()
	if err := m.FromFormat(s.cfg.SenderName, s.cfg.SenderEmail); err != nil {
		return fmt.Errorf("setting sender: %w", err)
	}
	if err := m.To(msg.To); err != nil {
		return fmt.Errorf("setting recipient: %w", err)
	}
	m.Subject(msg.Subject)
	m.SetBodyString(mail.TypeTextPlain, msg.Body)

	client, err := mail.NewClient(s.cfg.Host,
		mail.WithPort(s.cfg.Port),
		mail.WithTLSPolicy(mail.TLSMandatory),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(s.cfg.SenderEmail),
		mail.WithPassword(s.cfg.Password),
	)
	if err != nil {
		return fmt.Errorf("building smtp client: %w", err)
	}

	return client.DialAndSendWithContext(ctx, m)
}

// DryRunSender logs rendered messages instead of delivering them.
type DryRunSender struct {
	Logger *zap.Logger
}

func (s *DryRunSender) Send(_ context.Context, msg Message) error {
	s.Logger.Info("dry run, not sending",
		zap.String("to", fmt.Sprintf("%s <%s>", msg.Name, msg.To)),
		zap.String("subject", msg.Subject),
		zap.String("body_preview", logger.TruncateForLog(msg.Body, bodyPreviewLength)),
	)
	return nil
}

// Deliver sends every message through the sender, pacing the deliveries. A
// failed message is logged and counted but does not stop the rest.
func Deliver(ctx context.Context, sender Sender, messages []Message, log *zap.Logger) (sent int, failed int) {
	for i, msg := range messages {
		if i > 0 {
			if err := utils.WaitFor(ctx, sendPause); err != nil {
				log.Warn("delivery interrupted", zap.Error(err), zap.Int("remaining", len(messages)-i))
				return sent, failed + len(messages) - i
			}
		}

		if err := sender.Send(ctx, msg); err != nil {
			log.Error("sending email failed",
				zap.String("to", msg.To),
				zap.Error(err),
			)
			failed++
			continue
		}

		sent++
		log.Info("email sent", zap.String("to", msg.To))
	}

	return sent, failed
}
