// Package config provides configuration loading, merging, and validation
// facilities for the application.
//
// Configuration is assembled from multiple sources in the following priority
// order (earlier sources win for every field they set):
//  1. Command-line flags
//  2. Environment variables (prefix PONG_)
//  3. JSON config file
//  4. Built-in defaults
//
// The main entry points are [Load] for the host and [LoadPeer] for the peer,
// which only needs the transport and logging sections.
package config
