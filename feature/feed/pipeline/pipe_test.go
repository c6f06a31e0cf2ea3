package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"catalog-sync/feature/feed/decode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// countingSource yields n records, failing at failAt when set.
type countingSource struct {
	n      int
	failAt int
	calls  atomic.Int64
}

func (s *countingSource) Next() (decode.Record, error) {
	call := int(s.calls.Add(1))
	if s.failAt > 0 && call == s.failAt {
		return decode.Record{}, &decode.DecodeError{Msg: "broken"}
	}
	if call > s.n {
		return decode.Record{}, io.EOF
	}
	return decode.Record{Code: fmt.Sprintf("P%d", call)}, nil
}

func TestPipe_Backpressure(t *testing.T) {
	src := &countingSource{n: 200}
	var seen []string

	stats, err := Pipe(context.Background(), src, func(ctx context.Context, rec decode.Record) error {
		time.Sleep(100 * time.Microsecond)
		seen = append(seen, rec.Code)
		return nil
	}, 4)

	require.NoError(t, err)
	assert.Equal(t, 200, stats.Records)
	// Channel of four plus the record being sent
	assert.LessOrEqual(t, stats.PeakBuffered, 4+1)
	assert.Greater(t, stats.PeakBuffered, 0)
	assert.Equal(t, "P1", seen[0])
	assert.Equal(t, "P200", seen[199])
}

func TestPipe_ProducerStallsWhileSinkBlocks(t *testing.T) {
	src := &countingSource{n: 1000}
	release := make(chan struct{})
	done := make(chan struct{})
	var stats PipeStats

	go func() {
		defer close(done)
		stats, _ = Pipe(context.Background(), src, func(ctx context.Context, rec decode.Record) error {
			<-release
			return nil
		}, 8)
	}()

	time.Sleep(50 * time.Millisecond)
	// One record in the sink, eight in the channel, one held by the producer
	assert.LessOrEqual(t, src.calls.Load(), int64(10))
	close(release)
	<-done
	assert.Equal(t, 8+1, stats.PeakBuffered)
	assert.Equal(t, 1000, stats.Records)
}

func TestPipe_SourceErrorDrainsDecoded(t *testing.T) {
	src := &countingSource{n: 100, failAt: 5}

	stats, err := Pipe(context.Background(), src, func(ctx context.Context, rec decode.Record) error {
		return nil
	}, 2)

	var decErr *decode.DecodeError
	assert.ErrorAs(t, err, &decErr)
	assert.Equal(t, 4, stats.Records, "records decoded before the error are applied")
}

func TestPipe_SinkErrorStopsProducer(t *testing.T) {
	src := &countingSource{n: 1000}
	boom := errors.New("boom")

	stats, err := Pipe(context.Background(), src, func(ctx context.Context, rec decode.Record) error {
		if rec.Code == "P3" {
			return boom
		}
		return nil
	}, 2)

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 2, stats.Records)
	assert.Less(t, src.calls.Load(), int64(20))
}

func TestPipe_Empty(t *testing.T) {
	stats, err := Pipe(context.Background(), &countingSource{}, func(ctx context.Context, rec decode.Record) error {
		return nil
	}, 0)
	assert.NoError(t, err)
	assert.Equal(t, PipeStats{}, stats)
}
