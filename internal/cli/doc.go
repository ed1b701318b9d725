// Package cli implements the pulse command-line interface.
//
// The root command is "pulse" with one subcommand per role:
//
//	pulse collect   - run the collector: probe a process family, serve frames
//	pulse watch     - connect to a collector and draw the dashboard
//	pulse init      - write a .pulse.yaml
//	pulse version   - print build information
//
// Every command loads configuration the same way (flags over PULSE_*
// environment variables over .pulse.yaml over defaults) and reports failures
// as structured errors from internal/errors, exiting with status 1.
package cli
