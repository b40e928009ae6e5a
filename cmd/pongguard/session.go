package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/MKhiriev/go-pong-guard/internal/app"
	"github.com/MKhiriev/go-pong-guard/internal/config"
	"github.com/MKhiriev/go-pong-guard/internal/logger"
	"github.com/MKhiriev/go-pong-guard/internal/tui"
)

var hostCmd = &cobra.Command{
	Use:   "host",
	Short: "Host a session",
	Long: `Hosts a session without the role screen.

On the first run the host creates the vault; later runs verify the artifact
signature first. The outcome is published on --address for the peer.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := loadConfig("host")
		if err != nil {
			return err
		}
		printBuildInfo(cmd.OutOrStdout())

		host, err := app.NewHost(cfg, newTUI(cfg, log), log)
		if err != nil {
			return err
		}
		return host.Run(cmd.Context())
	},
}

var peerCmd = &cobra.Command{
	Use:   "peer",
	Short: "Join a session hosted at --address",
	Long: `Joins a session without the role screen and waits for the host's
result. The peer reads only the transport and log settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadPeer(flags)
		if err != nil {
			return fmt.Errorf("error getting configs: %w", err)
		}
		logger.SetLevel(cfg.Log.Level)
		log := logger.NewFileLogger("peer", cfg.Log.File)
		printBuildInfo(cmd.OutOrStdout())

		prompter := tui.New(tui.Options{AltScreen: true, BuildInfo: buildInfo()}, log)
		peer, err := app.NewPeer(cfg, prompter, log)
		if err != nil {
			return err
		}
		return peer.Run(cmd.Context())
	},
}
