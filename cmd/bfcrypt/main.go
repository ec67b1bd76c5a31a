// The bfcrypt command encrypts and decrypts files with Blowfish under a
// password supplied on the command line or typed at a prompt.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var (
	ConfigFlag  string
	OutputFlag  string
	WorkersFlag int
	ForceFlag   bool
)

func main() {
	// Ctrl-C stops the command before it writes anything.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if err := rootCommand().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "bfcrypt error: %v\n", err)
		cancel()
		os.Exit(1)
	}
}

func rootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "bfcrypt",
		Short:         "Encrypt and decrypt files with Blowfish",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().StringVarP(&ConfigFlag, "config", "c", "", "Path to the directory containing config.yaml")

	for _, cmd := range []*cobra.Command{encryptCommand(), decryptCommand()} {
		cmd.Flags().StringVarP(&OutputFlag, "output", "o", "", "Path of the file to write (defaults to a name derived from the input)")
		cmd.Flags().IntVarP(&WorkersFlag, "workers", "w", -1, "Number of goroutines to process blocks with (0 uses one per CPU, overrides the config file)")
		cmd.Flags().BoolVarP(&ForceFlag, "force", "f", false, "Overwrite the output file if it already exists")
		rootCmd.AddCommand(cmd)
	}
	return rootCmd
}
