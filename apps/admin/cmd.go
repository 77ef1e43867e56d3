package main

import (
	"database/sql"
	"fmt"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/trezcool/chuo/core/academic"
	"github.com/trezcool/chuo/core/user"
)

var readPasswordFunc = term.ReadPassword // mockable

type commandLine struct {
	db      *sql.DB
	usrRepo user.Repository
	acadSvc *academic.Service
}

func newRootCmd(cli *commandLine) *cobra.Command {
	root := &cobra.Command{
		Use:           "admin",
		Short:         "Chuo administration commands",
		SilenceUsage: true,
	}
	root.AddCommand(
		cli.newAddUserCmd(),
		cli.newMigrateCmd(),
		cli.newReportCmd(),
	)
	return root
}

func (cli *commandLine) newAddUserCmd() *cobra.Command {
	var name, uname, email string
	var super bool

	cmd := &cobra.Command{
		Use:   "adduser",
		Short: "Create or update an admin user; the password is prompted",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if uname == "" && email == "" {
				return fmt.Errorf("one of --username or --email is required")
			}
			fmt.Fprint(cmd.OutOrStdout(), "Enter password:")
			pwd, err := readPasswordFunc(int(syscall.Stdin))
			fmt.Fprintln(cmd.OutOrStdout())
			if err != nil {
				return err
			}
			usr, err := cli.addUser(cmd.Context(), name, uname, email, string(pwd), super)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "user %q saved\n", usr.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "The user's full name")
	cmd.Flags().StringVar(&uname, "username", "", "The user's username")
	cmd.Flags().StringVar(&email, "email", "", "The user's email")
	cmd.Flags().BoolVar(&super, "super", false, "Grant the super admin role")
	return cmd
}

func (cli *commandLine) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate COMMAND [ARGS...]",
		Short: "Run a goose migration command (up, up-by-one, up-to, down, down-to, redo, reset, status, version)",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.migrate(cmd.Context(), args)
		},
	}
}

func (cli *commandLine) newReportCmd() *cobra.Command {
	var opts reportOptions

	cmd := &cobra.Command{
		Use:       "report attendance|status|marks|subjects|grades|library",
		Short:     "Print a dashboard report",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: reportKinds,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.kind = args[0]
			return cli.report(cmd.Context(), cmd.OutOrStdout(), opts)
		},
	}
	cmd.Flags().StringVar(&opts.filter.StudentID, "student", "", "Only include this student")
	cmd.Flags().StringVar(&opts.filter.SubjectID, "subject", "", "Only include this subject")
	cmd.Flags().StringVar(&opts.filter.Month, "month", "", "Only include this month (YYYY-MM)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "json", "Output format: json or yaml")
	return cmd
}
