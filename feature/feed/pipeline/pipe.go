package pipeline

import (
	"context"
	"errors"
	"io"

	"catalog-sync/feature/feed/decode"

	"golang.org/x/sync/errgroup"
)

// Source yields records until io.EOF.
type Source interface {
	Next() (decode.Record, error)
}

// Sink consumes one record.
type Sink func(ctx context.Context, rec decode.Record) error

// PipeStats describes one drained pipe.
type PipeStats struct {
	// Records is how many records the sink accepted.
	Records int
	// PeakBuffered is the largest number of decoded records waiting for the
	// sink: those in the channel plus the one the producer is sending.
	// It never exceeds highWater+1.
	PeakBuffered int
}

// Pipe runs src and sink as a producer/consumer pair joined by a channel of
// capacity highWater. The producer blocks while the channel is full, so at most
// highWater+1 decoded records wait ahead of the sink, plus the one it is applying.
//
// A sink error stops both sides at once. A source error stops decoding, but the
// records already decoded are still handed to the sink before it is returned.
func Pipe(ctx context.Context, src Source, sink Sink, highWater int) (PipeStats, error) {
	if highWater <= 0 {
		highWater = 16
	}

	records := make(chan decode.Record, highWater)
	g, gctx := errgroup.WithContext(ctx)

	var (
		peak     int
		accepted int
		srcErr   error
	)

	g.Go(func() error {
		defer close(records)
		for {
			rec, err := src.Next()
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				srcErr = err
				return nil
			}

			if n := len(records) + 1; n > peak {
				peak = n
			}
			select {
			case records <- rec:
			case <-gctx.Done():
				return gctx.Err()
			}
		}
	})

	g.Go(func() error {
		for rec := range records {
			if err := gctx.Err(); err != nil {
				return err
			}
			if err := sink(gctx, rec); err != nil {
				return err
			}
			accepted++
		}
		return nil
	})

	err := g.Wait()
	if err == nil {
		err = srcErr
	}
	return PipeStats{Records: accepted, PeakBuffered: peak}, err
}
