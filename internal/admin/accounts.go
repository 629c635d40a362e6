package admin

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmitrijs2005/accountd/internal/server/models"
	"github.com/dmitrijs2005/accountd/internal/server/services"
)

func newAccountsCmd(o *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
	}
	cmd.AddCommand(newCreateCmd(o), newListCmd(o), newGetCmd(o), newDeleteCmd(o))
	return cmd
}

func newCreateCmd(o *options) *cobra.Command {
	var (
		cred          services.Credentials
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Long: `Create an account with the same validation rules as self-registration.
The password is prompted for twice without echo, or read from stdin with --password-stdin.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			if passwordStdin {
				cred.Password, err = ReadLine(cmd.InOrStdin())
			} else {
				cred.Password, err = readNewPassword(cmd.OutOrStdout())
			}
			if err != nil {
				return fmt.Errorf("read password: %w", err)
			}

			db, _, authService, err := o.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			summary, err := authService.CreateAccount(cmd.Context(), cred)
			if err != nil {
				return err
			}

			cmd.Printf("Created account %s (%s)\n", summary.ID, summary.Email)
			return nil
		},
	}

	cmd.Flags().StringVar(&cred.FirstName, "first-name", "", "first name")
	cmd.Flags().StringVar(&cred.LastName, "last-name", "", "last name")
	cmd.Flags().StringVar(&cred.Email, "email", "", "email address")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("email")

	return cmd
}

func newListCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List accounts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, dir, _, err := o.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			list, err := dir.List(cmd.Context())
			if err != nil {
				return err
			}
			return printAccounts(cmd.OutOrStdout(), list)
		},
	}
}

func newGetCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, dir, _, err := o.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			a, err := dir.FindByID(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("account %s: %w", args[0], err)
			}
			return printAccounts(cmd.OutOrStdout(), []models.Account{*a})
		},
	}
}

func newDeleteCmd(o *options) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, dir, _, err := o.open(cmd.Context(), cmd)
			if err != nil {
				return err
			}
			defer db.Close()

			if err := dir.Delete(cmd.Context(), args[0]); err != nil {
				return fmt.Errorf("account %s: %w", args[0], err)
			}
			cmd.Printf("Deleted account %s\n", args[0])
			return nil
		},
	}
}

func printAccounts(w io.Writer, list []models.Account) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tEMAIL\tFIRST NAME\tLAST NAME\tCREATED\tUPDATED")
	for _, a := range list {
		updated := "-"
		if a.UpdatedAt != nil {
			updated = a.UpdatedAt.UTC().Format(time.RFC3339)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			a.ID, a.Email, a.FirstName, a.LastName, a.CreatedAt.UTC().Format(time.RFC3339), updated)
	}
	return tw.Flush()
}
