package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pong-guard/internal/app"
	"github.com/MKhiriev/go-pong-guard/internal/config"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/tui"
)

var (
	flags *config.Flags

	rootCmd = &cobra.Command{
		Use:   "pongguard",
		Short: "Two-player Pong with a signed, password-protected host",
		Long: `Pong for two players on one machine or across the network.

The host keeps an ECDSA key pair and a save-game key in a vault unlocked by
a password. On every start the host checks that the game artifact still
matches the signature left by the previous session; on exit it signs the
artifact again. The peer only waits for the host's result.

Run without a subcommand to choose the role interactively.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadConfig("pongguard")
			if err != nil {
				return err
			}
			printBuildInfo(cmd.OutOrStdout())

			launcher, err := app.NewLauncher(cfg, newTUI(cfg, log), log)
			if err != nil {
				return err
			}
			return launcher.Run(cmd.Context())
		},
	}
)

func init() {
	flags = config.BindFlags(rootCmd.PersistentFlags())
	rootCmd.Version = buildInfo().BuildVersion()
	rootCmd.SetVersionTemplate("{{printf \"%s\\n\" .Version}}")

	rootCmd.AddCommand(hostCmd)
	rootCmd.AddCommand(peerCmd)
	rootCmd.AddCommand(keygenCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(versionCmd)
}

// loadConfig reads the full configuration and opens the logger for role.
func loadConfig(role string) (*config.StructuredConfig, *logger.Logger, error) {
	cfg, err := config.Load(flags)
	if err != nil {
		return nil, nil, fmt.Errorf("error getting configs: %w", err)
	}
	logger.SetLevel(cfg.Log.Level)
	return cfg, logger.NewFileLogger(role, cfg.Log.File), nil
}

func newTUI(cfg *config.StructuredConfig, log *logger.Logger) *tui.TUI {
	return tui.New(tui.Options{
		AltScreen:    true,
		WinningScore: cfg.Game.WinningScore,
		BuildInfo:    buildInfo(),
	}, log)
}

func newLinePrompter(cmd *cobra.Command) *tui.LinePrompter {
	return tui.NewLinePrompter(os.Stdin, cmd.ErrOrStderr())
}
