package commands

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultsandbox/webpush"
	"github.com/vaultsandbox/webpush/keystore"
)

// app carries state shared by the subcommands of one invocation.
type app struct {
	cfg    Config
	logger *slog.Logger
	out    io.Writer
}

// Execute runs the CLI with os.Args.
func Execute() error {
	return NewRootCommand(LoadConfig(), os.Stdout, os.Stderr).Execute()
}

// NewRootCommand builds the command tree. cfg supplies flag defaults.
func NewRootCommand(cfg Config, out, errOut io.Writer) *cobra.Command {
	a := &app{cfg: cfg, out: out}

	root := &cobra.Command{
		Use:           "webpush",
		Short:         "Encrypted Web Push with VAPID",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := a.cfg.Level()
			if err != nil {
				return err
			}
			a.logger = slog.New(slog.NewTextHandler(errOut, &slog.HandlerOptions{Level: level}))
			return nil
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	flags := root.PersistentFlags()
	flags.StringVar(&a.cfg.KeysFile, "keys-file", cfg.KeysFile, "VAPID keys file")
	flags.StringVar(&a.cfg.KeeperURL, "keeper-url", cfg.KeeperURL, "gocloud.dev keeper URL sealing the keys file (e.g. base64key://...)")
	flags.StringVar(&a.cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	root.AddCommand(a.keysCmd(), a.requestCmd(), a.sendCmd())
	return root
}

func (a *app) openStore(ctx context.Context) (keystore.Store, error) {
	return keystore.Open(ctx, a.cfg.KeysFile, a.cfg.KeeperURL)
}

// loadKeys returns the stored keys, generating them on first use.
func (a *app) loadKeys(ctx context.Context) (*webpush.ApplicationServerKeys, error) {
	store, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	keys, created, err := keystore.LoadOrGenerate(ctx, store, nil)
	if err != nil {
		return nil, err
	}
	if created {
		a.logger.Info("generated application server keys", slog.String("file", a.cfg.KeysFile))
	}
	return keys, nil
}

func (a *app) client() (*webpush.Client, error) {
	return webpush.New(
		webpush.WithTTL(a.cfg.TTL),
		webpush.WithJWTTTL(a.cfg.JWTTTL),
		webpush.WithHTTPTimeout(a.cfg.HTTPTimeout),
		webpush.WithLogger(a.logger),
	)
}
