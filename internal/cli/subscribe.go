package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pomiya/landing/domain/waitlist"
	"github.com/pomiya/landing/pkg/apperror"
)

func newSubscribeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "subscribe <email>",
		Short: "Submit one address to the waitlist",
		Long: `Runs a single submit action: the address is validated, then sent once to
the configured provider. Nothing is retried.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v)
			if err != nil {
				return err
			}
			log := newLogger(v, cmd.ErrOrStderr())

			sub, err := waitlist.NewSubscriber(cfg, log)
			if err != nil {
				return err
			}
			flow := waitlist.NewFlow(sub, nil, nil, waitlist.OptionsFromConfig(cfg), log)

			pv := waitlist.NewPageView()
			note, err := flow.Submit(cmd.Context(), pv, args[0])

			result := Result{
				Email:      args[0],
				Status:     "subscribed",
				Message:    note.Message,
				PageViewID: pv.ID.String(),
			}
			if err != nil {
				result.Status = "failed"
				result.Code = apperror.CodeOf(err)
			}
			if perr := printResult(cmd.OutOrStdout(), v, result); perr != nil {
				return perr
			}
			return err
		},
	}
}
