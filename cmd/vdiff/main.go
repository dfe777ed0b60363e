package main

import (
	"fmt"
	"os"

	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/vango-dev/vdiff/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

const banner = `
  ┬  ┬┌┬┐┬┌─┐┌─┐
  └┐┌┘ │││├┤ ├┤
   └┘ ─┴┘┴└  └
`

// stderr carries banners, status lines and formatted errors.
var stderr = termenv.NewOutput(os.Stderr)

func main() {
	if err := rootCmd().Execute(); err != nil {
		errors.Fprint(stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vdiff",
		Short: "Positional virtual tree reconciler",
		Long: `vdiff reconciles virtual node trees against a live node graph.

It computes the minimal positional mutations that turn one tree into
another and can serve mounts whose mutations stream to remote replicas:

  • diff two tree documents (JSON or YAML)
  • serve mounts over HTTP with a binary WebSocket stream
  • watch a mount and replay its stream locally
  • benchmark render-to-replay latency`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.AddCommand(
		diffCmd(),
		demoCmd(),
		serveCmd(),
		watchCmd(),
		initCmd(),
		benchCmd(),
		versionCmd(),
	)
	return cmd
}

// printBanner prints the vdiff ASCII art banner.
func printBanner() {
	fmt.Fprint(stderr, stderr.String(banner).Foreground(stderr.Color("6")))
}

// success prints a success message.
func success(format string, args ...any) {
	mark := stderr.String("✓").Foreground(stderr.Color("2"))
	fmt.Fprintf(stderr, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// info prints an info message.
func info(format string, args ...any) {
	fmt.Fprintf(stderr, "  %s\n", fmt.Sprintf(format, args...))
}

// warn prints a warning message.
func warn(format string, args ...any) {
	mark := stderr.String("⚠").Foreground(stderr.Color("3"))
	fmt.Fprintf(stderr, "%s %s\n", mark, fmt.Sprintf(format, args...))
}
