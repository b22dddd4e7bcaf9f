package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/abdul-hamid-achik/pinga/packages/core/config"
	"github.com/abdul-hamid-achik/pinga/packages/core/env"
	"github.com/abdul-hamid-achik/pinga/packages/core/parser"
	"github.com/abdul-hamid-achik/pinga/packages/core/runner"
	"github.com/abdul-hamid-achik/pinga/packages/http"
	"github.com/abdul-hamid-achik/pinga/packages/logger"
	"github.com/abdul-hamid-achik/pinga/packages/output"
)

func runRequest(ctx context.Context, opts *rootOptions, configPath string) error {
	settings, err := loadSettings()
	if err != nil {
		output.NewConsoleFormatter(output.WithWriter(opts.stderr)).FormatError("Invalid settings: " + err.Error())
		return exitError(ExitFailure, err)
	}

	console := output.NewConsoleFormatter(
		output.WithWriter(opts.stderr),
		output.WithNoColor(settings.GetNoColor()),
	)

	log := logger.NewLogger(opts.stderr, settings.LogLevel)
	defer log.Close()
	if settings.Source != "" {
		log.Info("settings loaded from %s", settings.Source)
	}

	cfg, err := parser.LoadRequestConfig(configPath)
	if err != nil {
		console.FormatError(configMessage(err))
		return exitError(ExitFailure, err)
	}

	mode := runner.ModeCapture
	switch {
	case opts.silent:
		mode = runner.ModeDiscard
	case opts.excludeHeaders:
		mode = runner.ModeBody
	}

	r := runner.NewRunner(&runner.Config{
		Mode:           mode,
		Output:         opts.stdout,
		Timeout:        settings.GetTimeout(),
		FollowRedirect: settings.GetFollowRedirects(),
		MaxRedirects:   settings.MaxRedirects,
		ValidateSSL:    settings.GetValidateSSL(),
		Proxy:          settings.Proxy,
		DefaultHeaders: settings.Headers,
		Logger:         log,
	})
	defer r.Close()

	result, err := r.Run(ctx, cfg)
	if err != nil {
		var te *http.TransportError
		if !errors.As(err, &te) {
			console.FormatError(configMessage(err))
			return exitError(ExitFailure, err)
		}
		console.FormatTransportError(err)
		if opts.silent {
			return exitError(ExitTransportError, err)
		}
		return exitError(ExitFailure, err)
	}

	if result.Response != nil {
		formatter := output.NewJSONFormatter(
			output.JSONWithWriter(opts.stdout),
			output.JSONWithMaxBodyTokens(settings.MaxBodyTokens),
		)
		if err := formatter.FormatResponse(result.Response); err != nil {
			return exitError(ExitFailure, fmt.Errorf("writing response: %w", err))
		}
	}

	if opts.silent && result.StatusCode >= 400 {
		return exitError(ExitHTTPError, fmt.Errorf("HTTP status %d", result.StatusCode))
	}

	return nil
}

// loadSettings reads the settings file and applies PINGA_ overrides.
func loadSettings() (*config.Config, error) {
	settings, err := config.LoadConfig(os.Getenv(config.SettingsEnv))
	if err != nil {
		return nil, err
	}
	if err := settings.ApplyEnv(env.LoadSystemEnv(env.Prefix)); err != nil {
		return nil, err
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// configMessages holds the wording shown for request config errors.
var configMessages = []struct {
	err error
	msg string
}{
	{parser.ErrInvalid, "Invalid JSON structure."},
	{parser.ErrMissingURL, "Missing required field: url"},
	{parser.ErrInvalidURL, "Invalid url value."},
	{parser.ErrInvalidMethod, "Invalid method value."},
	{parser.ErrInvalidPayload, "Invalid payload value."},
	{parser.ErrPayloadConflict, "Use only one of payload or payload_file."},
	{parser.ErrInvalidFile, "Invalid payload_file value."},
}

// configMessage turns an error from loading or assembling a request into the
// line printed for the user.
func configMessage(err error) string {
	if errors.Is(err, parser.ErrTooLarge) {
		return fmt.Sprintf("Config too large: more than %d JSON tokens.", parser.MaxConfigTokens)
	}

	var readErr *parser.ReadError
	if errors.As(err, &readErr) {
		return fmt.Sprintf("Failed to read %s: %s", readErr.What, readErr.Path)
	}

	var collErr *parser.CollectionError
	if errors.As(err, &collErr) {
		if collErr.Form == "" {
			return fmt.Sprintf("Invalid %s: expected array or object.", collErr.Label)
		}
		return fmt.Sprintf("Invalid %s entry: %s must be strings (got %s/%s).",
			collErr.Label, collErr.Form, collErr.NameKind, collErr.ValueKind)
	}

	for _, m := range configMessages {
		if errors.Is(err, m.err) {
			return m.msg
		}
	}
	return err.Error()
}
