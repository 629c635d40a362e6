package admin

import (
	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/accountd/internal/server"
)

func newMigrateCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long:  `Apply all pending schema migrations for the configured driver.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.Println("Running migrations...")
			db, _, err := server.OpenStore(cmd.Context(), &o.cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			cmd.Println("Migrations completed successfully")
			return nil
		},
	}
}
