package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"nr1-risk-backend/initializers"

	"github.com/spf13/cobra"
)

var (
	flagOrg    string
	flagConfig string
)

var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "Análise de riscos psicossociais (NR-1) pela linha de comando",
	Long: `riskctl executa as mesmas operações de análise da API, aplicando as
regras de anonimato, e imprime o resultado em JSON.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if flagConfig != "" {
			_ = os.Setenv("CONFIG_FILE", flagConfig)
		}
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "arquivo de configuração (padrão: config.yml)")
	rootCmd.PersistentFlags().StringVar(&flagOrg, "org", "", "ID da organização")
}

// initServices connects to the database and wires the analytics service.
func initServices(cmd *cobra.Command) context.Context {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	initializers.InitAnalyticsServices(ctx)
	return ctx
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
