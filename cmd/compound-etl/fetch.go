package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/internal/fetch"
	"github.com/pdiddy/compound-etl/internal/httputil"
	"github.com/pdiddy/compound-etl/internal/pipeline"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch <compound>",
	Short: "Fetch a compound record from PubChem",
	Long: `Fetch queries the PubChem compound-by-name endpoint and prints the
record with its connectivity SMILES. Only the first compound entry of the
response is used.`,
	Args: cobra.ExactArgs(1),
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	fetchCmd.Flags().String("base-url", "", "PubChem compound-by-name endpoint")
	fetchCmd.Flags().Bool("json", false, "output the record as JSON")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	fcfg := fetchConfigFromFlags(cmd)
	client := httputil.NewClient(fcfg.HTTPConfig)
	fetcher := fetch.New(client, fcfg, logger)

	rec, err := fetcher.Compound(cmd.Context(), args[0])
	if err != nil {
		logger.Error("fetch failed",
			zap.String("category", string(pipeline.Categorize(err))),
			zap.Error(err))
		return err
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	return writeOutput(rec, asJSON)
}
