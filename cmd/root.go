/*
Copyright © 2026 NAME HERE <EMAIL ADDRESS>
*/
package cmd

import (
	"errors"
	"log"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"github.com/phillipboles/aci-contract/internal/llm"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "aci-contract",
	Short: "Contract testing toolkit for the newsletter automation admin APIs",
	Long: `aci-contract checks payloads and running servers against an OpenAPI
specification document.

It parses the specification into an explicit context object, resolves
schema references, and validates payloads structurally, reporting every
violation it finds. On top of that it lints documents, generates example
payloads, runs live contract tests and benchmarks endpoints.`,
}

// Shared display helpers for the whole command tree.
var (
	isTTY = term.IsTerminal(int(os.Stdout.Fd()))

	green  = color.New(color.FgGreen).SprintFunc()
	red    = color.New(color.FgRed).SprintFunc()
	cyan   = color.New(color.FgCyan, color.Bold).SprintFunc()
	yellow = color.New(color.FgYellow).SprintFunc()
	white  = color.New(color.FgWhite, color.Bold).SprintFunc()
)

func Execute() {
	cobra.OnInitialize(initConfig)
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}

// initConfig reads config.toml from the working directory when present
// and binds the ACIC_* environment variables. A missing file is fine;
// a broken one is not.
func initConfig() {
	viper.SetConfigName("config")
	viper.SetConfigType("toml")
	viper.AddConfigPath(".")

	viper.SetDefault("server", "")
	viper.SetDefault("timeout", 30)
	viper.SetDefault("llm.model", "")
	viper.SetDefault("llm.temperature", 0.2)
	viper.SetDefault("llm.max_tokens", 1024)

	viper.SetEnvPrefix("ACIC")
	viper.AutomaticEnv()
	viper.BindEnv("llm.api_key", "ACIC_LLM_API_KEY", "OPENAI_API_KEY")

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			log.Fatalf("Error reading config file: %v", err)
		}
	}
}

// llmConfigFromViper assembles the model settings for commands that
// enrich payloads.
func llmConfigFromViper() llm.Config {
	return llm.Config{
		APIKey:      viper.GetString("llm.api_key"),
		Model:       viper.GetString("llm.model"),
		Temperature: viper.GetFloat64("llm.temperature"),
		MaxTokens:   viper.GetInt("llm.max_tokens"),
	}
}
