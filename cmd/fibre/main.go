package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const banner = `
  ┌─┐┬┌┐ ┬─┐┌─┐
  ├┤ │├┴┐├┬┘├┤
  └  ┴└─┘┴└─└─┘
`

func main() {
	rootCmd := &cobra.Command{
		Use:   "fibre",
		Short: "An incremental reactive evaluation runtime",
		Long: `fibre drives a tree of descriptors through an incremental
evaluation runtime, re-evaluating only the fibres whose props or
tracked dependencies changed since the last tick.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		runCmd(),
		vizCmd(),
		benchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "\033[31mError:\033[0m %s\n", err)
		os.Exit(1)
	}
}

func printBanner() {
	fmt.Print(banner)
}

func success(format string, args ...any) {
	fmt.Printf("\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}

func info(format string, args ...any) {
	fmt.Printf("  %s\n", fmt.Sprintf(format, args...))
}

func warn(format string, args ...any) {
	fmt.Printf("\033[33m⚠\033[0m %s\n", fmt.Sprintf(format, args...))
}
