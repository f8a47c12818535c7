// Package commands defines the marsestate CLI.
//
// Commands
//
//   - browse   Interactive listings browser (default)
//   - list     Fetch once and print listings as a table, JSON or YAML
//
// The root command loads configuration before any subcommand runs; each
// subcommand builds its own overview controller and disposes it on exit.
package commands
