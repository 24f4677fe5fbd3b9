package main

import (
	"errors"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/trezcool/wazazi/core"
	"github.com/trezcool/wazazi/core/attendance"
	"github.com/trezcool/wazazi/core/parent"
	"github.com/trezcool/wazazi/core/student"
)

var errHelp = errors.New("help provided")

type commandLine struct {
	conf          *core.Config
	db            *sqlx.DB
	out           io.Writer
	validate      *validator.Validate
	parentSvc     *parent.Service
	studentSvc    *student.Service
	attendanceSvc *attendance.Service
}

// run executes the command line (args[0] being the program name).
func (cli *commandLine) run(args []string) error {
	root := cli.rootCmd()
	if len(args) > 0 {
		args = args[1:]
	}
	root.SetArgs(args)
	return root.Execute()
}

func (cli *commandLine) rootCmd() *cobra.Command {
	out := cli.out
	if out == nil {
		out = os.Stdout
	}

	root := &cobra.Command{
		Use:           "admin",
		Short:         cli.conf.AppName + " administration",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	root.SetOut(out)
	root.SetErr(out)

	root.AddCommand(
		cli.migrateCmd(),
		cli.parentCmd(),
		cli.studentCmd(),
		cli.subjectCmd(),
		cli.gradeCmd(),
		cli.attendanceCmd(),
		cli.tokenCmd(),
	)
	return root
}

// groupCmd returns a command that only holds subcommands.
func groupCmd(use, short string, subs ...*cobra.Command) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return errHelp
		},
	}
	cmd.AddCommand(subs...)
	return cmd
}
