// Package logic implements the file-level encode, decode and key generation runs.
package logic

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/idelchi/gob64/internal/codec"
	"github.com/idelchi/gob64/internal/config"
	"github.com/idelchi/gob64/internal/envelope"
	"github.com/idelchi/gob64/internal/fileutil"
	"github.com/idelchi/gob64/internal/scheduler"
)

// ErrChunksDropped is returned when a run completed but some chunks failed and were left out.
var ErrChunksDropped = errors.New("chunks dropped")

const outputPerm = 0o644

// Run encodes or decodes cfg.Input into cfg.Output.
//
// The output is written to a temporary file and only renamed into place once every
// chunk has been written, so a fatal error never leaves partial output behind.
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (err error) {
	start := time.Now()

	pipeline, err := newPipeline(cfg, logger)
	if err != nil {
		return err
	}

	tc, err := fileutil.NewTempContext(cfg.Output)
	if err != nil {
		return fmt.Errorf("preparing atomic write: %w", err)
	}

	defer tc.CleanupOnError(&err)

	sched := scheduler.New(scheduler.Options{
		Workers:  cfg.Threads,
		Logger:   logger,
		Progress: progress(cfg.Quiet),
	})

	logger.Debug("starting run",
		"mode", cfg.Mode,
		"input", cfg.Input,
		"output", cfg.Output,
		"threads", cfg.Threads,
		"salted", cfg.Salt != "",
		"compress", cfg.Compress,
		"encrypt", cfg.Encrypt != "",
		"decrypt", cfg.Decrypt != "",
	)

	writer := bufio.NewWriter(tc.TmpFile)

	var report scheduler.Report

	if cfg.Mode == config.ModeDecode {
		report, err = decodeFile(ctx, cfg.Input, writer, sched, pipeline, logger)
	} else {
		report, err = encodeFile(ctx, cfg.Input, writer, sched, pipeline)
	}

	if !cfg.Quiet && report.Chunks > 0 {
		fmt.Fprintln(os.Stderr)
	}

	if err != nil {
		return err
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}

	size, err := tc.Commit(outputPerm)
	if err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "%sd %q -> %q\n", cfg.Mode, cfg.Input, cfg.Output)
	}

	if cfg.Stats {
		printStats(cfg, report, size, time.Since(start))
	}

	if report.Dropped > 0 {
		return fmt.Errorf("%w: %d of %d", ErrChunksDropped, report.Dropped, report.Chunks)
	}

	return nil
}

// newPipeline builds the chunk transforms, loading key material only when requested.
func newPipeline(cfg *config.Config, logger *slog.Logger) (*codec.Pipeline, error) {
	pipeline := &codec.Pipeline{
		Salt:     cfg.Salt,
		Compress: cfg.Compress,
		Lenient:  cfg.Lenient,
		Logger:   logger,
	}

	if cfg.Encrypt == "" && cfg.Decrypt == "" {
		return pipeline, nil
	}

	crypto, err := envelope.New(envelope.Options{PublicKey: cfg.Encrypt, PrivateKey: cfg.Decrypt})
	if err != nil {
		return nil, fmt.Errorf("initializing encryption: %w", err)
	}

	if sealer := crypto.Sealer(); sealer != nil {
		pipeline.Wrapper = sealer
	}

	if opener := crypto.Opener(); opener != nil {
		pipeline.Unwrapper = opener
	}

	return pipeline, nil
}

func encodeFile(
	ctx context.Context,
	input string,
	writer io.Writer,
	sched *scheduler.Scheduler,
	pipeline *codec.Pipeline,
) (scheduler.Report, error) {
	inFile, err := os.Open(filepath.Clean(input))
	if err != nil {
		return scheduler.Report{}, fmt.Errorf("opening input file: %w", err)
	}
	defer inFile.Close()

	info, err := inFile.Stat()
	if err != nil {
		return scheduler.Report{}, fmt.Errorf("getting file info: %w", err)
	}

	report, err := sched.Encode(ctx, inFile, info.Size(), writer, pipeline.EncodeChunk)
	if err != nil {
		return report, fmt.Errorf("encoding %q: %w", input, err)
	}

	return report, nil
}

func decodeFile(
	ctx context.Context,
	input string,
	writer io.Writer,
	sched *scheduler.Scheduler,
	pipeline *codec.Pipeline,
	logger *slog.Logger,
) (scheduler.Report, error) {
	raw, err := os.ReadFile(filepath.Clean(input))
	if err != nil {
		return scheduler.Report{}, fmt.Errorf("reading input file: %w", err)
	}

	frames, err := codec.ReadFrames(raw)
	if err != nil {
		return scheduler.Report{}, fmt.Errorf("parsing %q: %w", input, err)
	}

	if frames.Trailing > 0 {
		logger.Warn("discarding incomplete trailing frame", "bytes", frames.Trailing)
	}

	report, err := sched.Decode(ctx, frames.Payloads, codec.LengthPrefixSize, int64(len(raw)), writer, pipeline.DecodeChunk)
	if err != nil {
		return report, fmt.Errorf("decoding %q: %w", input, err)
	}

	return report, nil
}

// progress returns a printer for the percentage of input consumed, or nil when quiet.
func progress(quiet bool) scheduler.ProgressFunc {
	if quiet {
		return nil
	}

	return func(done, total int64) {
		if total <= 0 {
			return
		}

		percent := min(float64(done)/float64(total)*100, 100) //nolint:mnd

		fmt.Fprintf(os.Stderr, "\rProgress: %.1f%%", percent)
	}
}

func printStats(cfg *config.Config, report scheduler.Report, size int64, duration time.Duration) {
	fmt.Fprintf(os.Stderr, "\nStats\n")
	fmt.Fprintf(os.Stderr, "  Chunks:    %d\n", report.Chunks)
	fmt.Fprintf(os.Stderr, "  Dropped:   %d\n", report.Dropped)
	//nolint:gosec // sizes are always non-negative
	fmt.Fprintf(os.Stderr, "  Input:     %s\n", humanize.IBytes(uint64(max(0, report.BytesIn))))
	//nolint:gosec // sizes are always non-negative
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", humanize.IBytes(uint64(max(0, size))))

	if cfg.Mode == config.ModeEncode && cfg.Compress && cfg.Encrypt == "" && report.BytesIn > 0 {
		saved := (1 - float64(size)/float64(report.BytesIn)) * 100 //nolint:mnd

		fmt.Fprintf(os.Stderr, "  Saved:     %.2f%%\n", saved)
	}

	fmt.Fprintf(os.Stderr, "  Duration:  %s\n", duration.Round(time.Millisecond))
}

// RunKeygen generates an RSA key pair and writes it to the configured files.
func RunKeygen(cfg *config.Keygen, logger *slog.Logger) error {
	if _, err := envelope.New(envelope.Options{}); err != nil {
		return fmt.Errorf("initializing encryption: %w", err)
	}

	logger.Debug("generating key pair", "bits", cfg.Size)

	key, err := envelope.GenerateKeyPair(cfg.Size)
	if err != nil {
		return err
	}

	if err := envelope.WriteKeyPair(key, cfg.Public, cfg.Private); err != nil {
		return err
	}

	if !cfg.Quiet {
		fmt.Fprintf(os.Stderr, "Generated %d-bit RSA key pair\n", cfg.Size)
		fmt.Fprintf(os.Stderr, "  Public:  %q\n", cfg.Public)
		fmt.Fprintf(os.Stderr, "  Private: %q\n", cfg.Private)
		fmt.Fprintln(os.Stderr, "Keep the private key secret.")
	}

	return nil
}
