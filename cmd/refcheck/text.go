package main

import (
	"strings"

	"github.com/matsen/refcheck/internal/reference"
	"github.com/matsen/refcheck/internal/style"
	"github.com/matsen/refcheck/internal/title"
	"github.com/spf13/cobra"
)

var cleanRemedial bool

func init() {
	cleanCmd.Flags().BoolVar(&cleanRemedial, "remedial", false, "Produce the full-text comparison key instead of the title key")
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(classifyCmd)
}

// CleanResponse is the response for the clean command.
type CleanResponse struct {
	Input   string `json:"input"`
	Cleaned string `json:"cleaned"`
}

// ClassifyResponse is the response for the classify command.
type ClassifyResponse struct {
	Input string             `json:"input"`
	Style reference.StyleTag `json:"style"`
}

var cleanCmd = &cobra.Command{
	Use:   "clean <text>",
	Short: "Print the comparison key of a reference",
	Long: `Print the key a reference is compared by during title searches.

Examples:
  refcheck clean "[3] Smith, J. (2019). Deep learning. Nature, 1-10."
  refcheck clean --remedial "Smith, J. (2019). Deep learning."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClean,
}

func runClean(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	cleaned := title.Clean(input)
	if cleanRemedial {
		cleaned = title.CleanForRemedial(input)
	}

	if humanOutput {
		outputHuman("%s\n", cleaned)
		return nil
	}
	return outputJSON(CleanResponse{Input: input, Cleaned: cleaned})
}

var classifyCmd = &cobra.Command{
	Use:   "classify <text>",
	Short: "Print the citation style of a reference",
	Long: `Print the citation style of a reference: IEEE, APA, APA_LIKE or Unknown.

Examples:
  refcheck classify "[1] A. Smith, Title, 2019."
  refcheck classify "Smith, J. (2019). Title."`,
	Args: cobra.MinimumNArgs(1),
	RunE: runClassify,
}

func runClassify(cmd *cobra.Command, args []string) error {
	input := strings.Join(args, " ")
	tag := style.Classify(input)

	if humanOutput {
		outputHuman("%s\n", tag)
		return nil
	}
	return outputJSON(ClassifyResponse{Input: input, Style: tag})
}
