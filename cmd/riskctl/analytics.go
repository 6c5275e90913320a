package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nr1-risk-backend/lib/analytics"
	analyticsapimodels "nr1-risk-backend/models/api/analytics"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var flagOutput string

var analyticsCmd = &cobra.Command{
	Use:   "analytics <assessment-id>",
	Short: "Pontuação por categoria da avaliação",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := initServices(cmd)
		data, err := analytics.Instance.ComputeAssessmentAnalytics(ctx, flagOrg, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), data)
	},
}

var departmentsCmd = &cobra.Command{
	Use:   "departments <assessment-id>",
	Short: "Pontuação por departamento",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := initServices(cmd)
		data, err := analytics.Instance.ComputeDepartmentAnalytics(ctx, flagOrg, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), data)
	},
}

var distributionCmd = &cobra.Command{
	Use:   "distribution <assessment-id> <question-id>",
	Short: "Distribuição das respostas de uma pergunta",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := initServices(cmd)
		data, err := analytics.Instance.ComputeQuestionDistribution(ctx, flagOrg, args[0], args[1])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), data)
	},
}

var checkThresholdsCmd = &cobra.Command{
	Use:   "check-thresholds <assessment-id>",
	Short: "Verifica limites de risco e envia alertas",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := initServices(cmd)
		data, err := analytics.Instance.CheckRiskThresholds(ctx, flagOrg, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), data)
	},
}

var reportCmd = &cobra.Command{
	Use:   "report <assessment-id>",
	Short: "Dados do relatório; com --output grava .xlsx ou .pdf",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := initServices(cmd)
		if flagOutput == "" {
			data, err := analytics.Instance.ComputeReportData(ctx, flagOrg, args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), data)
		}
		format, err := formatFromPath(flagOutput)
		if err != nil {
			return err
		}
		file, err := analytics.Instance.ExportReport(ctx, flagOrg, args[0], format)
		if err != nil {
			return err
		}
		return os.WriteFile(flagOutput, file.Body.Bytes(), 0o644)
	},
}

var exportResponsesCmd = &cobra.Command{
	Use:   "export-responses <assessment-id>",
	Short: "Exporta respostas detalhadas para .csv ou .xlsx",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagOutput == "" {
			return errors.New("informe --output")
		}
		format, err := formatFromPath(flagOutput)
		if err != nil {
			return err
		}
		ctx := initServices(cmd)
		file, gate, err := analytics.Instance.ExportResponses(ctx, flagOrg, args[0], format)
		if err != nil {
			return err
		}
		if file == nil {
			return exportRefusal(gate)
		}
		if err = os.WriteFile(flagOutput, file.Body.Bytes(), 0o644); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), flagOutput)
		return nil
	},
}

func formatFromPath(path string) (analytics.ExportFormat, error) {
	ext := filepath.Ext(path)
	if ext == "" || strings.TrimSuffix(filepath.Base(path), ext) == "" {
		return "", errors.Errorf("extensão não suportada: %s", path)
	}
	switch format := analytics.ExportFormat(strings.ToLower(strings.TrimPrefix(ext, "."))); format {
	case analytics.FormatXlsx, analytics.FormatCsv, analytics.FormatPdf:
		return format, nil
	}
	return "", errors.Errorf("extensão não suportada: %s", path)
}

func exportRefusal(gate analyticsapimodels.ExportDecision) error {
	if gate.State == analyticsapimodels.ExportNoData {
		return errors.New("nenhuma resposta para exportar")
	}
	return errors.Errorf("exportação bloqueada pelas regras de anonimato (mínimo %d, faltam %d participantes)", gate.Threshold, gate.Remaining)
}

func init() {
	reportCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "arquivo de saída (.xlsx ou .pdf)")
	exportResponsesCmd.Flags().StringVarP(&flagOutput, "output", "o", "", "arquivo de saída (.csv ou .xlsx)")
	for _, cmd := range []*cobra.Command{analyticsCmd, departmentsCmd, distributionCmd, checkThresholdsCmd, reportCmd, exportResponsesCmd} {
		cmd.PreRunE = requireOrg
		rootCmd.AddCommand(cmd)
	}
}

func requireOrg(cmd *cobra.Command, args []string) error {
	if flagOrg == "" {
		return errors.New("informe --org")
	}
	return nil
}
