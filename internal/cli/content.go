package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pomiya/landing/internal/content"
)

func newContentCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "content",
		Short: "Work with the landing page copy",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check [path]",
		Short: "Parse a site content file, or the embedded default",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			c, err := content.Load(path)
			if err != nil {
				return err
			}
			source := path
			if source == "" {
				source = "embedded"
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\t%q, %d steps, %d values\n",
				source, c.Title, len(c.HowItWorks.Items), len(c.WhyItWorks.Items))
			return err
		},
	})

	return cmd
}
