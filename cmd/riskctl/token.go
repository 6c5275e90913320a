package main

import (
	"fmt"
	"time"

	"nr1-risk-backend/config"
	authutils "nr1-risk-backend/lib/utils/auth-utils"
	"nr1-risk-backend/models"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var (
	flagRole string
	flagUser string
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Gera um token de acesso para integrações",
	RunE: func(cmd *cobra.Command, args []string) error {
		if flagOrg == "" {
			return errors.New("informe --org")
		}
		role := models.UserRole(flagRole)
		if role.ToHuman() == flagRole {
			return errors.Errorf("papel desconhecido: %s", flagRole)
		}
		config.InitConfig()
		if config.Conf.Auth.JWTSecret == "" {
			return errors.New("JWT_SECRET não configurado")
		}
		token, err := authutils.GetToken(config.Conf.Auth.JWTSecret, flagUser, flagOrg, role,
			time.Duration(config.Conf.Auth.JWTExpireInSec)*time.Second)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVar(&flagRole, "role", string(models.OrgViewerRole), "papel do usuário")
	tokenCmd.Flags().StringVar(&flagUser, "user", "riskctl", "identificador do usuário")
	rootCmd.AddCommand(tokenCmd)
}
