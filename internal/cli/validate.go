package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pomiya/landing/domain/waitlist"
	"github.com/pomiya/landing/pkg/apperror"
)

func newValidateCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "validate <email>",
		Short: "Check an address the way the signup form does",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			email, err := waitlist.NormalizeEmail(args[0])
			if err != nil {
				if perr := printResult(cmd.OutOrStdout(), v, Result{
					Email:   args[0],
					Status:  "invalid",
					Message: waitlist.NotificationFor(err).Message,
					Code:    apperror.CodeOf(err),
				}); perr != nil {
					return perr
				}
				return err
			}
			return printResult(cmd.OutOrStdout(), v, Result{Email: email, Status: "valid"})
		},
	}
}
