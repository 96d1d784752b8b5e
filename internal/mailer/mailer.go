package mailer

import (
	"context"
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// Mailer sends emails over SMTP. It is safe for concurrent use; every Send
// dials its own connection.
type Mailer struct {
	config *mailerConfig
	dialer *gomail.Dialer
}

// Email represents a single outbound message. When both bodies are set the
// plain-text body is attached as an alternative part.
type Email struct {
	To       string
	Subject  string
	Body     string
	HTMLBody string
}

// NewMailer creates a new Mailer instance configured from the environment.
func NewMailer(logger *zerolog.Logger) *Mailer {
	cfg := newMailerConfig(logger)

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate Mailer configuration")
	}

	dialer := gomail.NewDialer(
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
	)

	return &Mailer{
		config: cfg,
		dialer: dialer,
	}
}

// Send delivers a single email. The context bounds the whole dial-and-send
// round trip; a context timeout is reported as an ordinary send failure.
func (m *Mailer) Send(ctx context.Context, email Email) error {
	if email.To == "" {
		return fmt.Errorf("no recipient specified")
	}

	msg := gomail.NewMessage()
	m.setEmailMessage(msg, email)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return fmt.Errorf("sending email to %s: %w", email.To, ctx.Err())
	}
}

func (m *Mailer) setEmailMessage(msg *gomail.Message, email Email) {
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", email.To)
	msg.SetHeader("Subject", email.Subject)

	if email.HTMLBody != "" {
		msg.SetBody("text/html", email.HTMLBody)
		if email.Body != "" {
			msg.AddAlternative("text/plain", email.Body)
		}
	} else {
		msg.SetBody("text/plain", email.Body)
	}
}

// mailerConfig holds SMTP configuration for sending emails.
type mailerConfig struct {
	Host     string `env:"SMTP_HOST"`
	Port     int    `env:"SMTP_PORT"`
	Username string `env:"SMTP_USERNAME"`
	Password string `env:"SMTP_PASSWORD"`
	From     string `env:"SMTP_FROM"`
}

// newMailerConfig creates a mailerConfig instance from environment variables.
func newMailerConfig(logger *zerolog.Logger) *mailerConfig {
	cfg, err := env.ParseAs[mailerConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	return &cfg
}

// validate checks if the Mailer configuration is valid.
func (c *mailerConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
