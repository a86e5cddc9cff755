package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/frahmantamala/police-portal/internal/core/events"
	"github.com/frahmantamala/police-portal/pkg/logger"
	"github.com/spf13/cobra"
)

var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "Mail delivery commands",
}

var mailTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a sample password reset email",
	Long:  `Publish a password reset event through the event bus so the configured mailer delivers a sample message.`,
	RunE:  runMailTest,
}

var mailTestTo string

func runMailTest(cmd *cobra.Command, _ []string) error {
	to := strings.TrimSpace(mailTestTo)
	if to == "" {
		return errors.New("--to is required")
	}

	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}
	logger.Setup(cfg.Observability.Logging.Format, cfg.Observability.Logging.Level)
	lg := logger.LoggerWrapper()

	mail, err := newMailer(cfg.Mail, lg)
	if err != nil {
		return err
	}

	bus := events.NewEventBus(lg)
	mail.RegisterEventHandlers(bus)

	link := fmt.Sprintf("%s/reset-password?token=%s", strings.TrimRight(cfg.Server.BaseURL, "/"), "sample-token")
	event := events.NewPasswordResetRequested(to, link, time.Now().UTC().Add(15*time.Minute))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := bus.PublishSync(ctx, event); err != nil {
		return fmt.Errorf("send test email: %w", err)
	}

	lg.Info("test email dispatched", "to", to, "smtp", cfg.Mail.Enabled)
	return nil
}

func init() {
	mailTestCmd.Flags().StringVar(&mailTestTo, "to", "", "recipient address")
	mailCmd.AddCommand(mailTestCmd)
}
