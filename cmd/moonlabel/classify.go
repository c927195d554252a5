package main

import (
	"github.com/spf13/cobra"

	"moonlabel.dev/internal/classify"
	"moonlabel.dev/internal/models"
)

func newClassifyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "classify [values...]",
		Short: "Classify codes given on the command line",
		Long: `Classify each argument and print the results as JSON, in argument order.
An argument equal to the --null token is classified as a missing value.`,
		Example: `  moonlabel classify 문120 45 --null NULL`,
		Args:    cobra.MinimumNArgs(1),
		RunE:    executeClassifyCommand,
	}

	cmd.Flags().String("null", "null", "Argument that stands for a missing value")

	return cmd
}

func executeClassifyCommand(cmd *cobra.Command, args []string) error {
	marker, err := cmd.Flags().GetString("marker")
	if err != nil {
		return err
	}
	nullToken, err := cmd.Flags().GetString("null")
	if err != nil {
		return err
	}

	values := make([]*string, len(args))
	for i := range args {
		if args[i] != nullToken {
			values[i] = &args[i]
		}
	}

	classified := classify.New(marker).ClassifyValues(values)
	out := make([]models.Classification, len(values))
	for i, v := range classified {
		out[i] = models.NewClassification(values[i], v)
	}

	return writeJSON(cmd.OutOrStdout(), out)
}
