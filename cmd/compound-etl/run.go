package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/compound-etl/internal/fetch"
	"github.com/pdiddy/compound-etl/internal/httputil"
	"github.com/pdiddy/compound-etl/internal/pipeline"
	"github.com/pdiddy/compound-etl/internal/secrets"
	"github.com/pdiddy/compound-etl/internal/store"
	"github.com/pdiddy/compound-etl/pkg/types"
)

const (
	defaultUserAgent = "compound-etl/0.1"
	exampleCompound  = "aspirin"
)

var runCmd = &cobra.Command{
	Use:   "run [compound]",
	Short: "Run the full fetch, describe, and store pipeline",
	Long: `Run fetches a compound record from PubChem by name, computes molecular
descriptors from its connectivity SMILES, and writes the combined document
to the document store, printing each stage's output. With no argument it
runs the classic example compound, aspirin.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRun,
}

func init() {
	runCmd.Flags().Duration("timeout", 0, "HTTP request timeout (default 30s)")
	runCmd.Flags().String("base-url", "", "PubChem compound-by-name endpoint")
	runCmd.Flags().String("store", "mongo", "store backend: mongo or sqlite")
	runCmd.Flags().String("store-uri", "", "MongoDB connection string (default mongodb://localhost:27017)")
	runCmd.Flags().String("sqlite-path", "compounds.db", "SQLite database file (sqlite backend only)")
	runCmd.Flags().String("database", "", "database name (default science_db)")
	runCmd.Flags().String("collection", "", "collection name (default compounds)")
	runCmd.Flags().Duration("store-timeout", 10*time.Second, "store connection timeout")

	rootCmd.AddCommand(runCmd)
}

func runRun(cmd *cobra.Command, args []string) error {
	name := exampleCompound
	if len(args) > 0 {
		name = args[0]
	}

	fcfg := fetchConfigFromFlags(cmd)
	scfg := storeConfigFromFlags(cmd)

	st, err := store.New(scfg, logger)
	if err != nil {
		return err
	}

	client := httputil.NewClient(fcfg.HTTPConfig)
	fetcher := fetch.New(client, fcfg, logger)
	p := pipeline.New(fetcher, st, logger)

	result, err := p.Run(cmd.Context(), name)
	if err != nil {
		logger.Error("pipeline failed",
			zap.String("compound", name),
			zap.String("category", string(pipeline.Categorize(err))),
			zap.Error(err))
		return err
	}

	fmt.Printf("fetched: %s (%s)\n", result.Record.Name, result.Record.SMILES)
	fmt.Printf("descriptors: MolWt=%.3f LogP=%.3f NumHDonors=%d NumHAcceptors=%d\n",
		result.Descriptors.MolWt, result.Descriptors.LogP,
		result.Descriptors.NumHDonors, result.Descriptors.NumHAcceptors)
	fmt.Printf("stored document id=%s\n", result.ID)
	return nil
}

// fetchConfigFromFlags builds the fetch-stage configuration from flags,
// falling back to the config file and compiled-in defaults.
func fetchConfigFromFlags(cmd *cobra.Command) types.FetchConfig {
	timeout, _ := cmd.Flags().GetDuration("timeout")
	baseURL, _ := cmd.Flags().GetString("base-url")
	if baseURL == "" {
		baseURL = viper.GetString("fetch.base_url")
	}
	return types.FetchConfig{
		HTTPConfig: types.HTTPConfig{Timeout: timeout, UserAgent: defaultUserAgent},
		BaseURL:    baseURL,
	}
}

// storeConfigFromFlags builds the store configuration from flags, the
// config file, and the store-uri secret, in that order of precedence.
func storeConfigFromFlags(cmd *cobra.Command) types.StoreConfig {
	backend, _ := cmd.Flags().GetString("store")
	uri, _ := cmd.Flags().GetString("store-uri")
	if uri == "" {
		uri = viper.GetString("store.uri")
	}
	uri = secrets.Get(loadedSecrets, "store-uri", uri)

	path, _ := cmd.Flags().GetString("sqlite-path")
	database, _ := cmd.Flags().GetString("database")
	if database == "" {
		database = viper.GetString("store.database")
	}
	collection, _ := cmd.Flags().GetString("collection")
	if collection == "" {
		collection = viper.GetString("store.collection")
	}
	storeTimeout, _ := cmd.Flags().GetDuration("store-timeout")

	return types.StoreConfig{
		Backend:    types.StoreBackend(backend),
		URI:        uri,
		Path:       path,
		Database:   database,
		Collection: collection,
		Timeout:    storeTimeout,
	}
}
