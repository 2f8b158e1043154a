package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func (a *app) sendCmd() *cobra.Command {
	var flags messageFlags

	cmd := &cobra.Command{
		Use:   "send",
		Short: "Encrypt a payload and deliver it to a subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			keys, err := a.loadKeys(ctx)
			if err != nil {
				return err
			}
			opts, err := flags.options(cmd.InOrStdin(), keys)
			if err != nil {
				return err
			}
			client, err := a.client()
			if err != nil {
				return err
			}

			res, err := client.Push(ctx, opts)
			if err != nil {
				return err
			}

			a.logger.Info("push accepted", slog.Int("status", res.StatusCode), slog.String("location", res.Location))
			_, err = fmt.Fprintln(a.out, res.StatusCode)
			return err
		},
	}
	flags.register(cmd, a.cfg.AdminContact)
	return cmd
}
