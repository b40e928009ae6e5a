// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Command pongguard runs a two-player Pong session whose host keeps its
// signing keys in a password-protected vault.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/MKhiriev/go-pong-guard/internal/app"
	"github.com/MKhiriev/go-pong-guard/models"
)

var (
	buildVersion string
	buildDate    string
	buildCommit  string
)

func buildInfo() models.AppBuildInfo {
	return models.NewAppBuildInfo(buildVersion, buildDate, buildCommit)
}

func printBuildInfo(w io.Writer) {
	fmt.Fprintln(w, buildInfo())
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if app.IsUserQuit(err) {
			return
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
