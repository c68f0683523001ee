package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/internal/descriptor"
	"github.com/pdiddy/compound-etl/internal/pipeline"
)

var describeCmd = &cobra.Command{
	Use:   "describe <smiles>",
	Short: "Compute molecular descriptors for a SMILES string",
	Long: `Describe parses a SMILES string and prints the molecular weight,
calculated LogP, and hydrogen-bond donor and acceptor counts. The
computation is deterministic and makes no network calls.`,
	Args: cobra.ExactArgs(1),
	RunE: runDescribe,
}

func init() {
	describeCmd.Flags().Bool("json", false, "output descriptors as JSON")

	rootCmd.AddCommand(describeCmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	desc, err := descriptor.Compute(args[0])
	if err != nil {
		logger.Error("descriptor computation failed",
			zap.String("category", string(pipeline.Categorize(err))),
			zap.Error(err))
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return writeOutput(desc, asJSON)
}
