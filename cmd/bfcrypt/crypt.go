package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dcrodman/bfcrypt/internal/core"
	"github.com/dcrodman/bfcrypt/internal/encryption"
	"github.com/dcrodman/bfcrypt/internal/filecrypt"
)

func encryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "encrypt <file> [password]",
		Short: "Encrypts a file, writing the result to <file>.bf",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, filecrypt.Encrypt, args)
		},
	}
}

func decryptCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decrypt <file> [password]",
		Short: "Decrypts a file produced by encrypt",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runJob(cmd, filecrypt.Decrypt, args)
		},
	}
}

func runJob(cmd *cobra.Command, mode filecrypt.Mode, args []string) error {
	var password []byte
	if len(args) > 1 {
		password = []byte(args[1])
	} else {
		var err error
		if password, err = passwordPrompt(cmd, mode == filecrypt.Encrypt); err != nil {
			return err
		}
	}
	if err := encryption.ValidatePassword(password); err != nil {
		return fmt.Errorf("password must be between 1 and 56 bytes long: %w", err)
	}

	cfg, err := core.LoadConfig(ConfigFlag)
	if err != nil {
		return err
	}
	if WorkersFlag >= 0 {
		cfg.Crypto.Workers = WorkersFlag
	}
	if ForceFlag {
		cfg.Files.Overwrite = true
	}

	logger, err := core.NewLogger(cfg)
	if err != nil {
		return err
	}

	runner := filecrypt.NewRunner(cfg, logger)
	outPath, err := runner.Run(cmd.Context(), filecrypt.Job{
		Mode:       mode,
		InputPath:  args[0],
		OutputPath: OutputFlag,
		Password:   password,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), outPath)
	return nil
}
