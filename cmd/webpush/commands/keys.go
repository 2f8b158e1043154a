package commands

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/vaultsandbox/webpush"
	"github.com/vaultsandbox/webpush/keystore"
)

func (a *app) keysCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage VAPID application server keys",
	}
	cmd.AddCommand(a.keysGenerateCmd(), a.keysShowCmd())
	return cmd
}

func (a *app) keysGenerateCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate and store a new key pair",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			if !force {
				_, err := store.Load(ctx)
				if err == nil {
					return fmt.Errorf("%s already holds keys; use --force to replace them", a.cfg.KeysFile)
				}
				if !errors.Is(err, keystore.ErrNotFound) {
					return err
				}
			}

			keys, err := webpush.GenerateApplicationServerKeys(nil)
			if err != nil {
				return err
			}
			if err := store.Save(ctx, keys.ToJSON()); err != nil {
				return err
			}

			a.logger.Info("stored application server keys", slog.String("file", a.cfg.KeysFile))
			_, err = fmt.Fprintln(a.out, keys.PublicKeyBase64())
			return err
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "replace existing keys")
	return cmd
}

func (a *app) keysShowCmd() *cobra.Command {
	var private bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the public key (the applicationServerKey for subscribe)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := a.openStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			serialized, err := store.Load(ctx)
			if err != nil {
				return err
			}
			keys, err := webpush.ApplicationServerKeysFromJSON(nil, serialized)
			if err != nil {
				return err
			}

			if !private {
				_, err = fmt.Fprintln(a.out, keys.PublicKeyBase64())
				return err
			}

			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(keys.ToJSON())
		},
	}
	cmd.Flags().BoolVar(&private, "private", false, "print both keys as JSON")
	return cmd
}
