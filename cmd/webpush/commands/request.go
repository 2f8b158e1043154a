package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/vaultsandbox/webpush"
	"github.com/vaultsandbox/webpush/internal/crypto"
)

// messageFlags are shared by request and send.
type messageFlags struct {
	subscription string
	payload      string
	payloadFile  string
	contact      string
}

func (f *messageFlags) register(cmd *cobra.Command, defaultContact string) {
	cmd.Flags().StringVar(&f.subscription, "subscription", "", "PushSubscription JSON file, or - for stdin")
	cmd.Flags().StringVar(&f.payload, "payload", "", "message payload")
	cmd.Flags().StringVar(&f.payloadFile, "payload-file", "", "read the payload from a file")
	cmd.Flags().StringVar(&f.contact, "contact", defaultContact, "admin contact (mailto: or https: URI, or an e-mail address)")
	_ = cmd.MarkFlagRequired("subscription")
	cmd.MarkFlagsMutuallyExclusive("payload", "payload-file")
}

func (f *messageFlags) options(in io.Reader, keys *webpush.ApplicationServerKeys) (webpush.PushOptions, error) {
	var (
		data []byte
		err  error
	)
	if f.subscription == "-" {
		data, err = io.ReadAll(in)
	} else {
		data, err = os.ReadFile(f.subscription)
	}
	if err != nil {
		return webpush.PushOptions{}, fmt.Errorf("read subscription: %w", err)
	}

	target, err := webpush.ParseSubscription(data)
	if err != nil {
		return webpush.PushOptions{}, err
	}

	payload := []byte(f.payload)
	if f.payloadFile != "" {
		payload, err = os.ReadFile(f.payloadFile)
		if err != nil {
			return webpush.PushOptions{}, fmt.Errorf("read payload: %w", err)
		}
	}

	return webpush.PushOptions{
		Payload:      payload,
		Keys:         keys,
		Target:       target,
		AdminContact: f.contact,
	}, nil
}

// requestOutput is the JSON printed by the request command.
type requestOutput struct {
	Endpoint string      `json:"endpoint"`
	Headers  [][2]string `json:"headers"`
	Body     string      `json:"body"`
}

func (a *app) requestCmd() *cobra.Command {
	var flags messageFlags

	cmd := &cobra.Command{
		Use:   "request",
		Short: "Print the encrypted request for a subscription without sending it",
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

			req, err := client.GeneratePushHTTPRequest(ctx, opts)
			if err != nil {
				return err
			}

			out := requestOutput{
				Endpoint: req.Endpoint,
				Headers:  make([][2]string, 0, len(req.Headers)),
				Body:     crypto.ToBase64URL(req.Body),
			}
			for _, h := range req.Headers {
				out.Headers = append(out.Headers, [2]string{h.Name, h.Value})
			}

			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(out)
		},
	}
	flags.register(cmd, a.cfg.AdminContact)
	return cmd
}
