// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package app wires the configuration, the crypto services, the outcome
// channel and the terminal UI into runnable Pong sessions.
//
// [Launcher] asks for a role and starts the matching session. [Host] and
// [Peer] can also be run directly. [Keygen], [Verify] and [Inspect] are
// the one-shot vault tools behind the CLI subcommands.
package app
