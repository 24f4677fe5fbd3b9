package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	echoapi "github.com/trezcool/wazazi/apps/api/echo"
)

func (cli *commandLine) tokenCmd() *cobra.Command {
	var (
		parentID int64
		isStaff  bool
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue an API access token",
		RunE: func(cmd *cobra.Command, args []string) error {
			if parentID <= 0 && !isStaff {
				_ = cmd.Help()
				return errHelp
			}
			if parentID > 0 {
				if _, err := cli.parentSvc.GetByID(context.Background(), parentID); err != nil {
					return err
				}
			}

			token, err := echoapi.GenerateToken(cli.conf, echoapi.NewClaims(cli.conf, parentID, isStaff))
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().Int64Var(&parentID, "parent", 0, "ID of the parent the token authenticates")
	cmd.Flags().BoolVar(&isStaff, "staff", false, "allow recording attendance")
	return cmd
}
