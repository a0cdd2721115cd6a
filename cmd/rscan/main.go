package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ludo-technologies/rscan/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "rscan",
		Short: "rscan - React Server Component static analyzer",
		Long: `rscan is a static analyzer for React Server Component codebases.
It classifies files as server or client scoped, checks serialization
boundaries, route segment configuration, and bundle composition, and
reports duplicate shared dependencies across client bundles.`,
		Version: version.GetVersion(),
	}

	rootCmd.AddCommand(analyzeCmd())
	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		if exitErr, ok := err.(*AnalyzeExitError); ok {
			// Findings are already printed; only the exit code matters
			os.Exit(exitErr.Code)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			verbose, _ := cmd.Flags().GetBool("verbose")
			if verbose {
				fmt.Println(version.GetFullVersion())
			} else {
				fmt.Printf("rscan version %s\n", version.GetVersion())
			}
		},
	}

	cmd.Flags().BoolP("verbose", "v", false, "Show detailed version information")
	return cmd
}
