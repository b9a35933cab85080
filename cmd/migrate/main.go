package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/vfg2006/adops-finance-api/pkg/log"
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "migrate",
		Short:         "Migrações de schema e dados iniciais do adops-finance-api",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(upCmd())
	rootCmd.AddCommand(downCmd())
	rootCmd.AddCommand(versionCmd())
	rootCmd.AddCommand(forceCmd())
	rootCmd.AddCommand(seedAdminCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func upCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Aplica todas as migrações pendentes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.migrator.Up(); err != nil {
				return fmt.Errorf("erro ao aplicar migrações: %w", err)
			}
			return env.logVersion()
		},
	}
}

func downCmd() *cobra.Command {
	var steps int
	var all bool

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Desfaz migrações (uma por padrão)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if all {
				steps = 0
			} else if steps < 1 {
				return fmt.Errorf("--steps deve ser maior que zero")
			}

			env, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.migrator.Down(steps); err != nil {
				return fmt.Errorf("erro ao desfazer migrações: %w", err)
			}
			return env.logVersion()
		},
	}

	cmd.Flags().IntVar(&steps, "steps", 1, "quantidade de migrações a desfazer")
	cmd.Flags().BoolVar(&all, "all", false, "desfaz todas as migrações")

	return cmd
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Mostra a versão atual do schema",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			return env.logVersion()
		},
	}
}

func forceCmd() *cobra.Command {
	var version int

	cmd := &cobra.Command{
		Use:   "force",
		Short: "Marca a versão do schema sem executar scripts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer env.Close()

			if err := env.migrator.Force(version); err != nil {
				return fmt.Errorf("erro ao forçar versão %d: %w", version, err)
			}
			return env.logVersion()
		},
	}

	cmd.Flags().IntVar(&version, "version", 0, "versão a registrar")
	_ = cmd.MarkFlagRequired("version")

	return cmd
}

func init() {
	level := os.Getenv("LOG_LEVEL")
	if level == "" {
		level = "info"
	}
	log.Configure(level, false)
	logrus.SetOutput(os.Stdout)
}
