/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"fmt"
	"sync"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/logger"
	"github.com/josephgoksu/officekit/internal/telemetry"
	"github.com/josephgoksu/officekit/internal/ui"
)

// posthogAPIKey is injected at release build time. Empty builds never send events.
var posthogAPIKey = ""

var (
	telemetryMu     sync.Mutex
	telemetryClient telemetry.Client = telemetry.NewNoopClient()
)

// initTelemetry creates the PostHog client when the user opted in.
func initTelemetry() {
	if viper.GetBool("telemetry.disabled") || telemetry.DisabledByEnv() {
		return
	}
	apiKey := viper.GetString("telemetry.apiKey")
	if apiKey == "" {
		apiKey = posthogAPIKey
	}
	if apiKey == "" {
		return
	}

	store, err := telemetry.NewStore(nil, "")
	if err != nil {
		return
	}
	consent, err := store.Load()
	if err != nil || !consent.IsEnabled() {
		return
	}

	client, err := telemetry.NewPostHogClient(telemetry.ClientConfig{
		APIKey:   apiKey,
		Version:  version,
		Config:   consent,
		Endpoint: viper.GetString("telemetry.endpoint"),
	})
	if err != nil {
		logger.L().Debug("telemetry unavailable", zap.Error(err))
		return
	}

	telemetryMu.Lock()
	telemetryClient = client
	telemetryMu.Unlock()
}

func tracker() telemetry.Client {
	telemetryMu.Lock()
	defer telemetryMu.Unlock()
	return telemetryClient
}

func closeTelemetry() {
	telemetryMu.Lock()
	defer telemetryMu.Unlock()
	_ = telemetryClient.Close()
	telemetryClient = telemetry.NewNoopClient()
}

var telemetryCmd = &cobra.Command{
	Use:   "telemetry",
	Short: "Manage anonymous usage telemetry",
	Long: `View and manage officekit's anonymous telemetry.

Events carry command names, durations, turn status and complexity band.
Prompts, generated code and Azure resource ids are never sent.
Setting OFFICEKIT_TELEMETRY_DISABLED=1 or DO_NOT_TRACK=1 always wins.`,
}

var telemetryStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current telemetry status",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := telemetry.NewStore(nil, "")
		if err != nil {
			return err
		}
		consent, err := store.Load()
		if err != nil {
			return fmt.Errorf("read telemetry status: %w", err)
		}

		status := "disabled"
		if consent.IsEnabled() {
			status = "enabled"
		}
		if isJSON() {
			return printJSON(map[string]any{
				"status":        status,
				"consentAsked":  consent.ConsentAsked,
				"disabledByEnv": telemetry.DisabledByEnv(),
				"path":          store.Path(),
			})
		}

		ui.KeyValues(cmd.OutOrStdout(), [][2]string{
			{"Telemetry", ui.StatusStyle(status).Render(status)},
			{"Anonymous ID", consent.AnonymousID},
			{"File", store.Path()},
		})
		if telemetry.DisabledByEnv() {
			cmd.Println("\n  Disabled by environment (OFFICEKIT_TELEMETRY_DISABLED or DO_NOT_TRACK).")
		}
		return nil
	},
}

var telemetryEnableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Enable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, true)
	},
}

var telemetryDisableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Disable anonymous telemetry",
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTelemetry(cmd, false)
	},
}

func setTelemetry(cmd *cobra.Command, enabled bool) error {
	store, err := telemetry.NewStore(nil, "")
	if err != nil {
		return err
	}
	consent, err := store.Load()
	if err != nil {
		return err
	}
	if enabled {
		consent.Enable()
	} else {
		consent.Disable()
	}
	if err := store.Save(consent); err != nil {
		return fmt.Errorf("save telemetry consent: %w", err)
	}

	if !isQuiet() {
		if enabled {
			cmd.Println(ui.StyleSuccess.Render("✓") + " Telemetry enabled. Thank you for helping improve officekit!")
		} else {
			cmd.Println(ui.StyleSuccess.Render("✓") + " Telemetry disabled.")
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(telemetryCmd)
	telemetryCmd.AddCommand(telemetryStatusCmd)
	telemetryCmd.AddCommand(telemetryEnableCmd)
	telemetryCmd.AddCommand(telemetryDisableCmd)
}
