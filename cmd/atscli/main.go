// Package main provides the atscli command for analysing resumes from the
// terminal.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	applog "alfredoptarigan/resume-ats/internal/logger"
)

var (
	vocabularyPath string
	logLevel       string
	outputFile     string
)

var rootCmd = &cobra.Command{
	Use:   "atscli",
	Short: "Resume ATS analysis",
	Long:  "atscli parses PDF and DOCX resumes, scores them for ATS compatibility and matches them against job descriptions.",
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		applog.SetupWriter(os.Stderr, logLevel)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&vocabularyPath, "vocabulary", os.Getenv("VOCABULARY_PATH"), "Path to a vocabulary JSON override")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVarP(&outputFile, "out", "o", "", "Write JSON output to this file instead of stdout")
}

func main() {
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
