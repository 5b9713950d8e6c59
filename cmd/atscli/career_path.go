package main

import (
	"github.com/spf13/cobra"

	"alfredoptarigan/resume-ats/internal/services"
)

var careerPathCmd = &cobra.Command{
	Use:   "career-path",
	Short: "Analyse a set of job descriptions for a career path",
	Long:  "Aggregate keywords across at least three job descriptions and report common and high-demand skills, skill gaps against the resume and synonym suggestions.",
	RunE:  runCareerPath,
}

var (
	careerResumeFile string
	careerJDFiles    []string
)

func init() {
	careerPathCmd.Flags().StringVarP(&careerResumeFile, "resume", "r", "", "Path to the resume (pdf, docx or txt)")
	careerPathCmd.Flags().StringArrayVar(&careerJDFiles, "jd", nil, "Job description file (repeatable, at least 3)")
	_ = careerPathCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(careerPathCmd)
}

func runCareerPath(_ *cobra.Command, _ []string) error {
	tk, err := newToolkit()
	if err != nil {
		return err
	}

	features, err := tk.parseResume(careerResumeFile)
	if err != nil {
		return err
	}

	descriptions, err := tk.readJobDescriptions(careerJDFiles)
	if err != nil {
		return err
	}

	report, err := services.NewJobMatcher(tk.vocab, nil).AnalyzeCareerPath(features, descriptions)
	if err != nil {
		return err
	}

	return writeJSON(report)
}
