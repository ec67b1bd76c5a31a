// Package filecrypt connects the cipher to the filesystem: it reads an input
// file, encrypts or decrypts its contents and writes the result next to it.
package filecrypt

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/dcrodman/bfcrypt/internal/core"
	"github.com/dcrodman/bfcrypt/internal/encryption"
)

// Mode selects the direction of a Job.
type Mode int

const (
	Encrypt Mode = iota
	Decrypt
)

func (m Mode) String() string {
	switch m {
	case Encrypt:
		return "encrypt"
	case Decrypt:
		return "decrypt"
	default:
		return ""
	}
}

// Job describes a single file to process.
type Job struct {
	Mode      Mode
	InputPath string
	// Optional. Derived from InputPath and the configured suffixes when blank.
	OutputPath string
	Password   []byte
}

// ErrOutputExists is returned when the output file is already present and
// overwriting hasn't been enabled.
var ErrOutputExists = errors.New("output file already exists")

// Runner executes Jobs using the settings in a Config.
type Runner struct {
	Config *core.Config
	Logger *logrus.Logger

	crypter encryption.Crypter
}

// NewRunner returns a Runner whose block processing is spread across the
// configured number of workers.
func NewRunner(cfg *core.Config, logger *logrus.Logger) *Runner {
	return &Runner{
		Config:  cfg,
		Logger:  logger,
		crypter: encryption.Crypter{Workers: cfg.WorkerCount()},
	}
}

// OutputPath returns where the result of job will be written. Encrypted files
// get the encrypted suffix appended; decrypting strips it again, or appends
// the decrypted suffix if the input doesn't carry it.
func (r *Runner) OutputPath(job Job) string {
	if job.OutputPath != "" {
		return job.OutputPath
	}
	suffix := r.Config.Files.EncryptedSuffix
	if job.Mode == Encrypt {
		return job.InputPath + suffix
	}
	if suffix != "" && strings.HasSuffix(job.InputPath, suffix) && len(filepath.Base(job.InputPath)) > len(suffix) {
		return strings.TrimSuffix(job.InputPath, suffix)
	}
	return job.InputPath + r.Config.Files.DecryptedSuffix
}

// Run processes job and returns the path of the file that was written. The
// cipher itself can't be interrupted, but ctx is checked before the input is
// read and again before anything is written.
func (r *Runner) Run(ctx context.Context, job Job) (string, error) {
	if err := encryption.ValidatePassword(job.Password); err != nil {
		return "", err
	}
	outPath := r.OutputPath(job)
	if filepath.Clean(outPath) == filepath.Clean(job.InputPath) {
		return "", fmt.Errorf("output path %s is the same as the input", outPath)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	input, err := os.ReadFile(job.InputPath)
	if err != nil {
		return "", fmt.Errorf("reading input file: %w", err)
	}

	start := time.Now()
	var output []byte
	switch job.Mode {
	case Encrypt:
		output, err = r.crypter.Encrypt(job.Password, input)
	case Decrypt:
		output, err = r.crypter.Decrypt(job.Password, input)
	default:
		return "", fmt.Errorf("unknown mode %d", job.Mode)
	}
	if err != nil {
		return "", fmt.Errorf("%s %s: %w", job.Mode, job.InputPath, err)
	}

	r.Logger.WithFields(logrus.Fields{
		"mode":     job.Mode.String(),
		"input":    job.InputPath,
		"bytes_in": len(input),
		"workers":  r.crypter.Workers,
		"elapsed":  time.Since(start),
	}).Debug("processed blocks")

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if err := r.writeOutput(outPath, output); err != nil {
		return "", err
	}

	r.Logger.WithFields(logrus.Fields{
		"mode":      job.Mode.String(),
		"input":     job.InputPath,
		"output":    outPath,
		"bytes_out": len(output),
	}).Info("wrote output file")
	return outPath, nil
}

func (r *Runner) writeOutput(path string, data []byte) error {
	flags := os.O_WRONLY | os.O_CREATE | os.O_EXCL
	if r.Config.Files.Overwrite {
		flags = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	}

	f, err := os.OpenFile(path, flags, 0600)
	if err != nil {
		if errors.Is(err, os.ErrExist) {
			return fmt.Errorf("%w: %s", ErrOutputExists, path)
		}
		return fmt.Errorf("creating output file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("writing output file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing output file: %w", err)
	}
	return nil
}
