// inventoryctl tareas operativas de inventory-core: migraciones, carga inicial de catálogo,
// alta del primer administrador y emisión de tokens para pruebas.
//
// Uso:
//
//	inventoryctl migrate
//	inventoryctl seed productos.csv --encoding latin1
//	inventoryctl create-admin --username admin --email admin@example.com --password ********
//	inventoryctl token --username admin --role ADMIN
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jhoicas/inventory-core/internal/application/auth"
	"github.com/jhoicas/inventory-core/internal/application/dto"
	"github.com/jhoicas/inventory-core/internal/domain/entity"
	"github.com/jhoicas/inventory-core/internal/infrastructure/postgres"
	"github.com/jhoicas/inventory-core/pkg/config"
	"github.com/jhoicas/inventory-core/pkg/jwt"
	"github.com/jhoicas/inventory-core/pkg/logger"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "inventoryctl",
		Short:        "Herramientas operativas de inventory-core",
		SilenceUsage: true,
	}
	root.AddCommand(newMigrateCmd(), newSeedCmd(), newCreateAdminCmd(), newTokenCmd())
	return root
}

// env configuración y logger compartidos por los subcomandos.
type env struct {
	cfg *config.Config
	log *logger.Logger
}

func loadEnv() (*env, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("cargar configuración: %w", err)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel, Output: os.Stderr})
	return &env{cfg: cfg, log: log}, nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones pendientes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(cmd.Context(), e.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			applied, err := postgres.Migrate(cmd.Context(), pool)
			for _, name := range applied {
				e.log.Info().Str("migration", name).Msg("migración aplicada")
			}
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				e.log.Info().Msg("sin migraciones pendientes")
			}
			return nil
		},
	}
}

func newCreateAdminCmd() *cobra.Command {
	var in dto.RegisterRequest
	cmd := &cobra.Command{
		Use:   "create-admin",
		Short: "Crea un usuario ADMIN (el registro por API solo permite STAFF sin un ADMIN previo)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := loadEnv()
			if err != nil {
				return err
			}
			pool, err := postgres.NewPool(cmd.Context(), e.cfg.DB)
			if err != nil {
				return err
			}
			defer pool.Close()

			uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), auth.JWTConfig{
				Secret:     e.cfg.JWT.Secret,
				ExpMinutes: e.cfg.JWT.Expiration,
				Issuer:     e.cfg.JWT.Issuer,
			})
			in.Role = entity.RoleAdmin
			out, err := uc.Register(cmd.Context(), in, entity.RoleAdmin)
			if err != nil {
				return err
			}
			e.log.Info().Str("username", out.Username).Msg("administrador creado")
			fmt.Fprintln(cmd.OutOrStdout(), out.Token)
			return nil
		},
	}
	cmd.Flags().StringVar(&in.Username, "username", "admin", "usuario")
	cmd.Flags().StringVar(&in.Email, "email", "", "correo")
	cmd.Flags().StringVar(&in.Password, "password", "", "contraseña (mínimo 8 caracteres)")
	cmd.Flags().StringVar(&in.FullName, "full-name", "", "nombre completo")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newTokenCmd() *cobra.Command {
	var (
		userID     int64
		username   string
		role       string
		expMinutes int
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Emite un JWT firmado con el secreto configurado",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !entity.ValidRole(role) {
				return fmt.Errorf("rol desconocido %q", role)
			}
			e, err := loadEnv()
			if err != nil {
				return err
			}
			if expMinutes <= 0 {
				expMinutes = e.cfg.JWT.Expiration
			}
			tok, err := jwt.Generate(e.cfg.JWT.Secret, userID, username, role, e.cfg.JWT.Issuer, expMinutes)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	cmd.Flags().Int64Var(&userID, "user-id", 0, "id del usuario")
	cmd.Flags().StringVar(&username, "username", "", "usuario (queda como createdBy)")
	cmd.Flags().StringVar(&role, "role", entity.RoleStaff, "ADMIN | MANAGER | STAFF")
	cmd.Flags().IntVar(&expMinutes, "exp", 0, "minutos de validez (0 = JWT_EXPIRATION)")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}
