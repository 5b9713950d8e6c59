package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"alfredoptarigan/resume-ats/internal/services"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Match a resume against job descriptions",
	Long: "Compare a resume with one or more job descriptions: keyword overlap, must-have skills, formatting problems and parsing quality. " +
		"With --semantic and GEMINI_API_KEY set, embedding similarity is added. Two or more job descriptions also trigger career path analysis.",
	RunE: runMatch,
}

var (
	matchResumeFile string
	matchJDFiles    []string
	matchSemantic   bool
	matchAPIKey     string
)

func init() {
	matchCmd.Flags().StringVarP(&matchResumeFile, "resume", "r", "", "Path to the resume (pdf, docx or txt)")
	matchCmd.Flags().StringArrayVar(&matchJDFiles, "jd", nil, "Job description file (repeatable)")
	matchCmd.Flags().BoolVar(&matchSemantic, "semantic", false, "Add embedding similarity using Gemini")
	matchCmd.Flags().StringVar(&matchAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	_ = matchCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(_ *cobra.Command, _ []string) error {
	tk, err := newToolkit()
	if err != nil {
		return err
	}

	features, err := tk.parseResume(matchResumeFile)
	if err != nil {
		return err
	}

	descriptions, err := tk.readJobDescriptions(matchJDFiles)
	if err != nil {
		return err
	}

	ctx := context.Background()

	var embedder services.EmbeddingService
	if matchSemantic {
		apiKey := matchAPIKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		gemini, err := services.NewGeminiService(ctx, apiKey, os.Getenv("GEMINI_EMBED_MODEL"))
		if err != nil {
			return fmt.Errorf("semantic matching requested: %w", err)
		}
		embedder = gemini
	}

	semantic := services.NewSemanticAnalyzer(embedder, services.NewTextChunker(), tk.vocab, 0)
	report := services.NewJobMatcher(tk.vocab, semantic).Match(ctx, features, descriptions)

	return writeJSON(report)
}
