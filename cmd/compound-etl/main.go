// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the compound-etl CLI.
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/compound-etl/internal/secrets"
)

// version is set at build time via ldflags.
var version = "dev"

// loadedSecrets holds credentials loaded from .secrets/ at startup.
var loadedSecrets map[string]string

// logger is built in PersistentPreRunE and shared by all subcommands.
var logger *zap.Logger

// rootCmd is the base command for the compound-etl CLI.
var rootCmd = &cobra.Command{
	Use:   "compound-etl",
	Short: "Fetch, describe, and store chemical compound data",
	Long: `compound-etl is a small extract-transform-load pipeline for chemical
compound data. It fetches a compound from PubChem by name, computes
molecular descriptors (MolWt, LogP, hydrogen-bond donor and acceptor
counts) from the connectivity SMILES, and writes the combined document to
a document store.

Each stage is also exposed as its own subcommand: fetch retrieves the
record, describe computes descriptors for a SMILES string, and run
executes the full pipeline.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		var err error
		if verbose {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		if err != nil {
			return fmt.Errorf("building logger: %w", err)
		}

		s, err := secrets.Load(".secrets/")
		if err != nil {
			return err
		}
		loadedSecrets = s
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			logger.Sync()
		}
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./compound-etl.yaml or ~/.config/compound-etl/config.yaml)")
	rootCmd.PersistentFlags().Bool("verbose", false, "enable debug logging")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("compound-etl")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "compound-etl"))
		}
	}

	viper.SetEnvPrefix("COMPOUND_ETL")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// writeOutput prints v to stdout as YAML, or as indented JSON when
// asJSON is set.
func writeOutput(v any, asJSON bool) error {
	if asJSON {
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	data, err := yaml.Marshal(v)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
