package main

import (
	"github.com/spf13/cobra"
)

var parseCmd = &cobra.Command{
	Use:   "parse",
	Short: "Extract ATS features from a resume",
	Long:  "Extract text from a PDF or DOCX resume and print the detected features (contact details, sections, action verbs, quantified results) as JSON.",
	RunE:  runParse,
}

var parseResumeFile string

func init() {
	parseCmd.Flags().StringVarP(&parseResumeFile, "resume", "r", "", "Path to the resume (pdf, docx or txt)")
	_ = parseCmd.MarkFlagRequired("resume")

	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, _ []string) error {
	tk, err := newToolkit()
	if err != nil {
		return err
	}

	features, err := tk.parseResume(parseResumeFile)
	if err != nil {
		return err
	}

	return writeJSON(features)
}
