package main

import (
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-ats/internal/services"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a resume for ATS compatibility",
	Long:  "Score a resume across format, keywords, sections, contact info, experience, skills and length, and print the report as JSON.",
	RunE:  runScore,
}

var (
	scoreResumeFile string
	scoreJDFile     string
)

func init() {
	scoreCmd.Flags().StringVarP(&scoreResumeFile, "resume", "r", "", "Path to the resume (pdf, docx or txt)")
	scoreCmd.Flags().StringVar(&scoreJDFile, "jd", "", "Optional job description file")
	_ = scoreCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(scoreCmd)
}

func runScore(_ *cobra.Command, _ []string) error {
	tk, err := newToolkit()
	if err != nil {
		return err
	}

	features, err := tk.parseResume(scoreResumeFile)
	if err != nil {
		return err
	}

	var jd string
	if scoreJDFile != "" {
		descriptions, err := tk.readJobDescriptions([]string{scoreJDFile})
		if err != nil {
			return err
		}
		jd = descriptions[0]
	}

	report, err := services.NewATSScorer(tk.vocab).Score(features, jd)
	if err != nil {
		return err
	}

	return writeJSON(report)
}
