// Package scheduler runs per-chunk transforms on a bounded worker pool and writes
// their results strictly in submission order.
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultChunkSize is the size of the plaintext slices an input is split into.
const DefaultChunkSize = 3 * 1024 * 1024

// Transform processes the chunk at position index.
// It must only depend on its arguments and read-only shared state.
type Transform func(index int, data []byte) ([]byte, error)

// ProgressFunc is called after each dispatched chunk with the consumed and total input sizes.
type ProgressFunc func(done, total int64)

// Options configures a Scheduler.
type Options struct {
	// Workers bounds the number of concurrent transforms. Defaults to runtime.NumCPU().
	Workers int

	// ChunkSize is the maximum size of an input chunk on encode. Defaults to DefaultChunkSize.
	ChunkSize int

	// Logger receives dropped-chunk reports. Nil discards them.
	Logger *slog.Logger

	// Progress, if set, is called from the submitting goroutine.
	Progress ProgressFunc
}

// Report summarizes a run.
type Report struct {
	// Chunks is the number of chunks dispatched.
	Chunks int

	// Dropped is the number of chunks whose transform failed and which are absent from the output.
	Dropped int

	// BytesIn is the amount of input consumed.
	BytesIn int64

	// BytesOut is the amount of output written.
	BytesOut int64
}

// Scheduler is an order-preserving parallel map from chunks to output bytes.
type Scheduler struct {
	opts Options
}

// New returns a Scheduler with defaults filled in.
func New(opts Options) *Scheduler {
	if opts.Workers < 1 {
		opts.Workers = runtime.NumCPU()
	}

	if opts.ChunkSize < 1 {
		opts.ChunkSize = DefaultChunkSize
	}

	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	return &Scheduler{opts: opts}
}

// Encode splits reader into chunks of at most ChunkSize bytes and writes fn's result
// for each chunk to writer, in input order. total is only used for progress reporting.
func (s *Scheduler) Encode(ctx context.Context, reader io.Reader, total int64, writer io.Writer, fn Transform) (Report, error) {
	next := func() ([]byte, int64, error) {
		buf := make([]byte, s.opts.ChunkSize)

		n, err := io.ReadFull(reader, buf)

		switch {
		case errors.Is(err, io.EOF):
			return nil, 0, io.EOF
		case errors.Is(err, io.ErrUnexpectedEOF), err == nil:
			return buf[:n], int64(n), nil
		default:
			return nil, 0, fmt.Errorf("reading input: %w", err)
		}
	}

	return s.run(ctx, next, total, writer, fn)
}

// Decode writes fn's result for each payload to writer, in slice order.
// Progress counts each payload together with its frame length prefix.
func (s *Scheduler) Decode(
	ctx context.Context,
	payloads [][]byte,
	prefixSize int,
	total int64,
	writer io.Writer,
	fn Transform,
) (Report, error) {
	var index int

	next := func() ([]byte, int64, error) {
		if index == len(payloads) {
			return nil, 0, io.EOF
		}

		payload := payloads[index]
		index++

		return payload, int64(len(payload) + prefixSize), nil
	}

	return s.run(ctx, next, total, writer, fn)
}

type result struct {
	index int
	data  []byte
	err   error
}

// source yields the next chunk and the number of input bytes it accounts for.
// It returns io.EOF once exhausted.
type source func() ([]byte, int64, error)

// run submits chunks sequentially and hands one result slot per chunk to the writer
// through a FIFO, so output order equals submission order whatever order workers finish in.
//
//nolint:funlen
func (s *Scheduler) run(ctx context.Context, next source, total int64, writer io.Writer, fn Transform) (Report, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var (
		report  Report
		pending = make(chan chan result, s.opts.Workers)
		written = make(chan error, 1)
	)

	go func() {
		written <- s.drain(pending, writer, &report, cancel)
	}()

	workers := errgroup.Group{}
	workers.SetLimit(s.opts.Workers)

	var (
		submitErr error
		consumed  int64
	)

submit:
	for index := 0; ; index++ {
		if err := ctx.Err(); err != nil {
			submitErr = err

			break
		}

		chunk, size, err := next()
		if errors.Is(err, io.EOF) {
			break
		}

		if err != nil {
			submitErr = err

			break
		}

		slot := make(chan result, 1)

		select {
		case pending <- slot:
		case <-ctx.Done():
			submitErr = ctx.Err()

			break submit
		}

		workers.Go(func() error {
			data, err := fn(index, chunk)
			slot <- result{index: index, data: data, err: err}

			return nil
		})

		report.Chunks++
		consumed += size

		if s.opts.Progress != nil {
			s.opts.Progress(consumed, total)
		}
	}

	close(pending)

	_ = workers.Wait()

	writeErr := <-written

	report.BytesIn = consumed

	// A write failure cancels the context, so it takes precedence over the resulting context error.
	if writeErr != nil {
		return report, writeErr
	}

	if submitErr != nil {
		return report, submitErr
	}

	return report, nil
}

// drain writes results in FIFO order. After a write error it keeps consuming slots
// so that no worker or the submitter blocks, and returns the first error.
func (s *Scheduler) drain(pending <-chan chan result, writer io.Writer, report *Report, cancel context.CancelFunc) error {
	var firstErr error

	for slot := range pending {
		res := <-slot

		if firstErr != nil {
			continue
		}

		if res.err != nil {
			report.Dropped++

			s.opts.Logger.Error("chunk dropped", "chunk", res.index, "error", res.err)

			continue
		}

		n, err := writer.Write(res.data)
		report.BytesOut += int64(n)

		if err != nil {
			firstErr = fmt.Errorf("writing chunk %d: %w", res.index, err)

			cancel()
		}
	}

	return firstErr
}
