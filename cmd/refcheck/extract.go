package main

import (
	"github.com/matsen/refcheck/internal/service"
	"github.com/matsen/refcheck/internal/verify"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(extractCmd)
}

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract the references of a document",
	Long: `Extract the references of a PDF or DOCX document without verifying them.

Prints the detected heading, the detection method and every reference with
its citation style and cleaned title.

Examples:
  refcheck extract paper.pdf
  refcheck extract thesis.docx --human`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg := mustLoadConfig()
	svc := service.New(newPipeline(cfg), verify.New(), nil, nil)

	result, err := svc.Extract(args[0])
	if err != nil {
		exitWithError(documentExitCode(err), "reading %s: %v", args[0], err)
	}

	if humanOutput {
		outputHuman("%s", formatResultHuman(result))
		return nil
	}
	return outputJSON(result)
}
