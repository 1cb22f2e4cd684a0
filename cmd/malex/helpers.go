package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Veraticus/malex-office/internal/api"
	"github.com/Veraticus/malex-office/internal/auth"
	"github.com/Veraticus/malex-office/internal/cli"
	"github.com/Veraticus/malex-office/internal/common"
	"github.com/Veraticus/malex-office/internal/config"
	"github.com/Veraticus/malex-office/internal/format"
	"github.com/Veraticus/malex-office/internal/storage"
)

// app bundles what most commands need: configuration, the local database,
// the session and an authenticated backend client.
type app struct {
	store  *storage.SQLiteStorage
	auth   *auth.Manager
	client *api.Client
	reader *cli.NonBlockingReader
	out    io.Writer
	clock  format.Clock
	cfg    config.Config
}

// initApp loads the configuration and opens storage. Callers must Close it.
func initApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	store, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	manager, err := auth.NewManager(ctx, store)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	client := api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.APITimeout),
		api.WithTokenSource(manager),
		api.WithUnauthorizedHandler(manager.Invalidate),
	)

	return &app{
		cfg:    cfg,
		store:  store,
		auth:   manager,
		client: client,
		reader: cli.NewNonBlockingReader(os.Stdin),
		out:    os.Stdout,
		clock:  format.NewClock(cfg.Location, cfg.OffsetHours),
	}, nil
}

// initAuthedApp is initApp for commands that need a signed-in user.
func initAuthedApp(ctx context.Context) (*app, error) {
	a, err := initApp(ctx)
	if err != nil {
		return nil, err
	}
	if err := a.auth.RequireAuth(); err != nil {
		a.Close()
		return nil, err
	}
	return a, nil
}

// Close releases the database.
func (a *app) Close() {
	if err := a.store.Close(); err != nil {
		slog.Error("failed to close storage", "error", err)
	}
}

// userName is the name recorded in the activity log.
func (a *app) userName() string {
	user, _ := a.auth.User()
	return user.DisplayName()
}

// logActivity journals a mutation. Failures are logged only.
func (a *app) logActivity(ctx context.Context, action, subject, subjectID, detail string) {
	err := a.store.LogActivity(ctx, &storage.Activity{
		Action:    action,
		Subject:   subject,
		SubjectID: subjectID,
		Detail:    detail,
		User:      a.userName(),
	})
	if err != nil {
		common.LogBestEffort(err, "activity log")
	}
}

// ask prompts for a value, keeping def on an empty answer.
func (a *app) ask(ctx context.Context, label, def string) (string, error) {
	return a.reader.Ask(ctx, a.out, label, def)
}

// askFloat prompts for a number, keeping def on an empty answer.
func (a *app) askFloat(ctx context.Context, label string, def float64) (float64, error) {
	defText := ""
	if def != 0 {
		defText = strconv.FormatFloat(def, 'f', -1, 64)
	}
	for {
		answer, err := a.ask(ctx, label, defText)
		if err != nil {
			return 0, err
		}
		if answer == "" {
			return 0, nil
		}
		value, err := parseAmount(answer)
		if err == nil {
			return value, nil
		}
		fmt.Fprintln(a.out, cli.FormatWarning(err.Error())) //nolint:forbidigo // User-facing output
	}
}

// confirm asks a yes/no question unless force is set.
func (a *app) confirm(ctx context.Context, force bool, question string) (bool, error) {
	if force {
		return true, nil
	}
	return a.reader.Confirm(ctx, a.out, question)
}

// parseAmount accepts plain and thousands-separated numbers, optionally
// prefixed with the currency.
func parseAmount(s string) (float64, error) {
	cleaned := strings.TrimSpace(s)
	cleaned = strings.TrimPrefix(cleaned, format.Currency)
	cleaned = strings.ReplaceAll(strings.TrimSpace(cleaned), ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	return value, nil
}

// Output formats of the list commands.
const (
	outputTable = "table"
	outputJSON  = "json"
	outputYAML  = "yaml"
)

func addOutputFlag(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", outputTable, "output format (table, json, yaml)")
}

// outputFormat validates the --output flag.
func outputFormat(cmd *cobra.Command) (string, error) {
	output, _ := cmd.Flags().GetString("output")
	switch output {
	case outputTable, outputJSON, outputYAML:
		return output, nil
	case "yml":
		return outputYAML, nil
	}
	return "", fmt.Errorf("%w: unknown output format %q", common.ErrInvalidConfig, output)
}

// writeStructured prints v as JSON or YAML.
func writeStructured(w io.Writer, output string, v any) error {
	switch output {
	case outputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("%w: %q is not a structured format", common.ErrInvalidConfig, output)
}
