// Package admin implements accountctl, the operator CLI: schema migrations
// and direct account management against the server's database.
package admin

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/accountd/internal/clockx"
	"github.com/dmitrijs2005/accountd/internal/logging"
	"github.com/dmitrijs2005/accountd/internal/server"
	"github.com/dmitrijs2005/accountd/internal/server/auth"
	"github.com/dmitrijs2005/accountd/internal/server/config"
	"github.com/dmitrijs2005/accountd/internal/server/services"
)

type options struct {
	cfg        config.Config
	bcryptCost int
}

// NewRootCmd creates the accountctl command tree. Database settings come
// from the same environment variables as the server and can be overridden
// with --driver and --dsn.
func NewRootCmd() *cobra.Command {
	o := &options{bcryptCost: auth.DefaultBcryptCost}
	o.cfg.LoadDefaults()
	return newRootCmd(o)
}

func newRootCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "accountctl",
		Short:         "Administer accountd accounts",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// flags win over the environment
			driver, dsn := o.cfg.DatabaseDriver, o.cfg.DatabaseDSN
			if err := config.ApplyEnv(&o.cfg, nil); err != nil {
				return err
			}
			if cmd.Flags().Changed("driver") {
				o.cfg.DatabaseDriver = driver
			}
			if cmd.Flags().Changed("dsn") {
				o.cfg.DatabaseDSN = dsn
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&o.cfg.DatabaseDriver, "driver", o.cfg.DatabaseDriver, "database driver (pgx|sqlite)")
	cmd.PersistentFlags().StringVar(&o.cfg.DatabaseDSN, "dsn", o.cfg.DatabaseDSN, "database DSN")

	cmd.AddCommand(newMigrateCmd(o))
	cmd.AddCommand(newAccountsCmd(o))

	return cmd
}

// open connects and migrates, returning the store and the services on top.
func (o *options) open(ctx context.Context, cmd *cobra.Command) (*sql.DB, *services.Directory, *services.AuthService, error) {
	db, rm, err := server.OpenStore(ctx, &o.cfg)
	if err != nil {
		return nil, nil, nil, err
	}

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn})))
	dir := services.NewDirectory(db, rm, clockx.New(), logger)
	// CreateAccount never issues tokens, so no issuer is wired.
	authService := services.NewAuthService(dir, auth.NewBcryptHasher(o.bcryptCost), nil, logger)

	return db, dir, authService, nil
}
