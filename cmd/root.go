/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/josephgoksu/officekit/internal/config"
	"github.com/josephgoksu/officekit/internal/logger"
	"github.com/josephgoksu/officekit/internal/telemetry"
)

var (
	// cfgFile is the path to the configuration file.
	cfgFile string
	// version is the application version, overridden at build time.
	version = "0.1.0"
	// commandStart is when the current command began, for command_executed.
	commandStart time.Time
)

// GetVersion returns the application version.
func GetVersion() string {
	return version
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   config.AppName,
	Short: "officekit - AI copilot and deploy tooling for Office add-ins",
	Long: `officekit turns natural-language requests into Office JavaScript API code
and deploys add-in backends to Azure Functions.

  officekit generate "insert a chart for the selected range"
  officekit deploy --env dev`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		commandStart = time.Now()
		if err := logger.Init(logger.Options{Verbose: isVerbose(), JSON: isJSON()}); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}
		logger.SetVersion(version)
		logger.SetCommand(cmd.CommandPath())
		if dir, err := config.GetGlobalConfigDir(); err == nil {
			logger.SetBasePath(dir)
		}
		initTelemetry()
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		trackCommand(cmd, true)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	defer logger.HandlePanic()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	cmd, err := rootCmd.ExecuteContextC(ctx)
	stop()

	if err != nil {
		if cmd != nil && !errors.Is(err, context.Canceled) {
			trackCommand(cmd, false)
		}
		printError(err)
	}
	closeTelemetry()
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(InitConfig)

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default is ./.officekit.yaml or $HOME/.officekit.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Bool("json", false, "print machine-readable JSON")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "print only essential output")

	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = viper.BindPFlag("json", rootCmd.PersistentFlags().Lookup("json"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
}

func trackCommand(cmd *cobra.Command, success bool) {
	if commandStart.IsZero() {
		return
	}
	tracker().Track(telemetry.EventCommandExecuted, telemetry.CommandProps(cmd.CommandPath(), success, time.Since(commandStart)))
	logger.L().Debug("command finished", zap.String("command", cmd.CommandPath()), zap.Bool("success", success))
}
