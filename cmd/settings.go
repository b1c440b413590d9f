package main

import (
	"context"
	"fmt"

	"github.com/uniworld/cli/internal/repositories"
	"github.com/uniworld/cli/internal/shared"
	"github.com/urfave/cli/v3"
)

var settingKeys = []string{
	repositories.SettingDefaultProvider,
	repositories.SettingLanguage,
}

func validSettingKey(key string) bool {
	for _, known := range settingKeys {
		if key == known {
			return true
		}
	}
	return false
}

// preferredLanguage returns the stored language preference, falling
// back to the config file value.
func (r *Runner) preferredLanguage() string {
	settings, err := r.settings()
	if err != nil {
		return r.config.Email.Language
	}

	language, err := settings.GetDefault(repositories.SettingLanguage, r.config.Email.Language)
	if err != nil {
		return r.config.Email.Language
	}
	return language
}

// SettingsShow prints the stored preferences, falling back to config
// defaults for unset keys.
func (r *Runner) SettingsShow(ctx context.Context, cmd *cli.Command) error {
	settings, err := r.settings()
	if err != nil {
		return err
	}

	provider, err := settings.GetDefault(repositories.SettingDefaultProvider, r.config.Email.DefaultProvider)
	if err != nil {
		return err
	}
	language, err := settings.GetDefault(repositories.SettingLanguage, r.config.Email.Language)
	if err != nil {
		return err
	}

	r.writePlainHeader("Settings")
	r.writePlain("%s: %s\n", repositories.SettingDefaultProvider, provider)
	r.writePlain("%s: %s\n", repositories.SettingLanguage, language)
	r.writePlain("\nNote: sending uses the first connected provider; default_provider is a display preference.\n")

	return nil
}

// SettingsSet stores one preference.
func (r *Runner) SettingsSet(ctx context.Context, cmd *cli.Command) error {
	key := cmd.StringArg("key")
	value := cmd.StringArg("value")

	if !validSettingKey(key) {
		return fmt.Errorf("%w: unknown setting %q (known: %v)", shared.ErrInvalidArgument, key, settingKeys)
	}
	if value == "" {
		return fmt.Errorf("%w: value is required", shared.ErrMissingArgument)
	}

	settings, err := r.settings()
	if err != nil {
		return err
	}

	if err := settings.Set(key, value); err != nil {
		return fmt.Errorf("failed to save setting: %w", err)
	}

	return r.writePlain("✓ %s set to %s\n", key, value)
}
