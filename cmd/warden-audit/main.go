// warden-audit dumps the users table for audit review. Contact fields are
// PII, so every line goes through the redacting logger before it reaches
// stdout.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"warden/config"
	logs "warden/internal/infra/log"
	"warden/internal/infra/persistence/postgres"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Audit dump failed", slog.Any("error", err))
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.New()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Redaction == nil {
		return fmt.Errorf("redaction must be configured for the audit dump")
	}

	redactor := logs.NewRedactor(cfg.Redaction)
	handler := slog.NewTextHandler(os.Stdout, nil)
	logger := slog.New(redactor.Handler(handler))

	db, err := postgres.Open(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	userRepo := postgres.NewUserRepository(db)

	users, err := userRepo.List(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list users: %w", err)
	}

	separator := cfg.Redaction.Separator
	for _, user := range users {
		fields := []string{
			"user_id=" + user.ID.String(),
			"name=" + user.Name,
			"email=" + user.Email,
			"phone=" + user.Phone,
			"created_at=" + user.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		}

		// The redacting handler masks the listed PII fields in the message.
		logger.Info(strings.Join(fields, separator+" "))
	}

	logger.Info("Audit dump complete", slog.Int("users", len(users)))

	return nil
}
