// Command webpush manages VAPID keys and sends encrypted Web Push messages.
package main

import (
	"fmt"
	"os"

	"github.com/vaultsandbox/webpush/cmd/webpush/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
