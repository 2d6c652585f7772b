// Package main hosts the recodec CLI entrypoint and command graph.
//
// The root command converts one directory: it overlays command-line flags
// onto the resolved configuration, takes the per-directory run lock, runs
// the preflight checks and hands the batch to the workflow runner. Plans
// and summaries go to stdout; logs go to stderr.
//
// The config and check subcommands scaffold a configuration file and report
// whether ffmpeg and ffprobe are ready.
package main
