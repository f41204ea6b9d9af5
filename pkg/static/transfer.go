package static

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"github.com/marmos91/dittoserve/internal/logger"
	"github.com/marmos91/dittoserve/internal/telemetry"
	"github.com/marmos91/dittoserve/pkg/bufpool"
)

// TransferState is the lifecycle state of a Transfer.
type TransferState int

const (
	TransferIdle TransferState = iota
	TransferActive
	TransferCompleted
	TransferStopped
)

func (s TransferState) String() string {
	switch s {
	case TransferIdle:
		return "idle"
	case TransferActive:
		return "active"
	case TransferCompleted:
		return "completed"
	case TransferStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Transfer streams a window of an open file to a Channel.
//
// Each Resume copies at most one chunk. Resume and Stop are serialized
// by the transfer's mutex, so chunks are written in offset order and the
// file is never closed under an in-flight read. The file and channel are
// released together exactly once, on completion, failure, or Stop.
type Transfer struct {
	mu sync.Mutex

	id    uuid.UUID
	file  io.ReadCloser
	ch    Channel
	ctx   context.Context
	total int64
	sent  int64
	state TransferState

	chunkSize int
	limiter   *semaphore.Weighted
	metrics   Metrics
	started   time.Time
}

// NewTransfer registers a transfer of total bytes read from file on ch.
// file must already be positioned at the first byte to send.
func NewTransfer(file io.ReadCloser, total int64, ch Channel, opts *Options) *Transfer {
	t := &Transfer{
		id:        uuid.New(),
		file:      file,
		ch:        ch,
		ctx:       context.Background(),
		total:     total,
		chunkSize: DefaultChunkSize,
		started:   time.Now(),
	}
	if r := ch.Request(); r != nil {
		t.ctx = r.Context()
	}
	if opts != nil {
		if opts.ChunkSize > 0 {
			t.chunkSize = opts.ChunkSize
		}
		t.limiter = opts.ReadLimiter
		t.metrics = opts.Metrics
	}
	if t.metrics != nil {
		t.metrics.RecordTransferStarted()
	}

	ch.RegisterProducer(t)
	logger.DebugCtx(t.ctx, "Transfer registered",
		logger.KeyTransferID, t.id.String(),
		logger.KeySize, total)
	return t
}

// ID returns the session identifier used in logs.
func (t *Transfer) ID() uuid.UUID { return t.id }

// State returns the current lifecycle state.
func (t *Transfer) State() TransferState {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// Sent returns the number of bytes written so far.
func (t *Transfer) Sent() int64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.sent
}

// Resume writes the next chunk, finishing the channel once the whole
// window has been sent.
func (t *Transfer) Resume() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil || t.ch == nil {
		return
	}
	t.state = TransferActive

	remaining := t.total - t.sent
	if remaining <= 0 {
		t.completeLocked()
		return
	}

	if t.limiter != nil {
		if err := t.limiter.Acquire(t.ctx, 1); err != nil {
			t.failLocked(fmt.Errorf("wait for read slot: %w", err))
			return
		}
		defer t.limiter.Release(1)
	}

	buf := bufpool.Get(int(min(int64(t.chunkSize), remaining)))
	defer bufpool.Put(buf)

	n, err := io.ReadFull(t.file, buf)
	if n > 0 {
		if werr := t.ch.Write(buf[:n]); werr != nil {
			t.failLocked(fmt.Errorf("write at offset %d: %w", t.sent, werr))
			return
		}
		t.sent += int64(n)
		if t.metrics != nil {
			t.metrics.RecordBytesSent(int64(n))
		}
	}
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			err = fmt.Errorf("file ended after %d of %d bytes: %w", t.sent, t.total, err)
		}
		t.failLocked(err)
		return
	}

	if t.sent >= t.total {
		t.completeLocked()
	}
}

// Pause is advisory. Writes stop until the next Resume.
func (t *Transfer) Pause() {}

// Stop closes the file and drops the channel.
func (t *Transfer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.file == nil && t.ch == nil {
		return
	}
	t.releaseLocked(TransferStopped, OutcomeStopped)
	t.event(telemetry.EventTransferStopped)
	logger.DebugCtx(t.ctx, "Transfer stopped",
		logger.KeyTransferID, t.id.String(),
		logger.KeyBytes, t.sent,
		logger.KeySize, t.total)
}

func (t *Transfer) completeLocked() {
	ch := t.ch
	t.releaseLocked(TransferCompleted, OutcomeCompleted)
	ch.Finish()
	t.event(telemetry.EventTransferCompleted)
	logger.DebugCtx(t.ctx, "Transfer completed",
		logger.KeyTransferID, t.id.String(),
		logger.KeyBytes, t.sent,
		logger.KeyDuration, logger.Duration(t.started))
}

func (t *Transfer) failLocked(err error) {
	t.releaseLocked(TransferStopped, OutcomeFailed)
	telemetry.RecordError(t.ctx, err)
	t.event(telemetry.EventTransferFailed)
	logger.WarnCtx(t.ctx, "Transfer aborted",
		logger.KeyTransferID, t.id.String(),
		logger.KeyBytes, t.sent,
		logger.KeySize, t.total,
		logger.KeyError, err)
}

// event records the transfer's end on the request span.
func (t *Transfer) event(name string) {
	telemetry.AddEvent(t.ctx, name,
		telemetry.TransferID(t.id.String()),
		telemetry.TransferSent(t.sent))
}

// releaseLocked unregisters from the channel and closes the file.
func (t *Transfer) releaseLocked(state TransferState, outcome string) {
	if t.ch != nil {
		t.ch.UnregisterProducer()
		t.ch = nil
	}
	if t.file != nil {
		if err := t.file.Close(); err != nil {
			logger.DebugCtx(t.ctx, "Close failed",
				logger.KeyTransferID, t.id.String(),
				logger.KeyError, err)
		}
		t.file = nil
	}
	t.state = state
	if t.metrics != nil {
		t.metrics.RecordTransfer(outcome, time.Since(t.started))
	}
}
