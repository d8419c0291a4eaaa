package transport

import (
	"io"
	"sync"
	"time"

	"github.com/screenworks/matcat/pkg/merrors"
	"github.com/screenworks/matcat/pkg/mlog"
)

// RefreshRate is the dispatch loop's target iteration frequency, in Hz
// (spec §4.7). A value <=0 is a fatal configuration error.
type RefreshRate float64

// Period returns the target time between iterations.
func (r RefreshRate) Period() time.Duration {
	return time.Duration(float64(time.Second) / float64(r))
}

// Conn is the subset of net.Conn the dispatch loop needs: a frame
// read/write surface plus the deadline knob used to make inbound reads
// non-blocking within one iteration.
type Conn interface {
	io.Reader
	io.Writer
	SetReadDeadline(t time.Time) error
}

// Loop is the client dispatch loop of spec §4.7: a background goroutine
// that, at a fixed refresh rate, drains a mutex-protected outbound queue of
// already-framed-and-encrypted messages, checks for at most one inbound
// message per iteration, and hands any inbound AES payload to onMessage.
// Ownership of an inbound message transfers to onMessage; the loop never
// touches it again once called.
type Loop struct {
	conn      Conn
	rate      RefreshRate
	onMessage func([]byte)
	logger    mlog.Logger

	mu      sync.Mutex
	pending []Frame

	running bool
	done    chan struct{}
}

// NewLoop builds a Loop. rate must be >0; a non-positive rate is a fatal
// configuration error per spec §4.7.
func NewLoop(conn Conn, rate RefreshRate, onMessage func([]byte), logger mlog.Logger) (*Loop, error) {
	if rate <= 0 {
		return nil, merrors.NewConfigurationError("refreshRate", merrors.NewDeserializationError("RefreshRate", "must be > 0"))
	}

	if logger == nil {
		logger = mlog.NoopLogger{}
	}

	return &Loop{
		conn:      conn,
		rate:      rate,
		onMessage: onMessage,
		logger:    logger,
		done:      make(chan struct{}),
	}, nil
}

// Enqueue appends an already-framed message to the outbound queue. It is
// safe to call from any goroutine.
func (l *Loop) Enqueue(f Frame) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.pending = append(l.pending, f)
}

// Run drives the loop until Stop is called. It is meant to run in its own
// goroutine; the caller joins it by waiting on the channel returned from
// Stop, or simply by Run returning.
func (l *Loop) Run() {
	l.mu.Lock()
	l.running = true
	l.mu.Unlock()

	for {
		l.mu.Lock()
		stillRunning := l.running
		l.mu.Unlock()

		if !stillRunning {
			break
		}

		start := time.Now()

		l.drainOutbound()
		l.pollInbound()

		elapsed := time.Since(start)
		if sleep := l.rate.Period() - elapsed; sleep > 0 {
			time.Sleep(sleep)
		}
	}

	close(l.done)
}

func (l *Loop) drainOutbound() {
	l.mu.Lock()
	batch := l.pending
	l.pending = nil
	l.mu.Unlock()

	for _, f := range batch {
		if err := WriteFrame(l.conn, f); err != nil {
			l.logger.Warnf("dispatch loop: %s", err)
		}
	}
}

// pollInbound checks for at most one inbound frame, waiting no longer than
// a fixed 1ms read deadline.
func (l *Loop) pollInbound() {
	if err := l.conn.SetReadDeadline(time.Now().Add(1 * time.Millisecond)); err != nil {
		l.logger.Warnf("dispatch loop: set read deadline: %s", err)
		return
	}

	frame, err := ReadFrame(l.conn)
	if err != nil {
		return
	}

	if frame.Tag == DisconnectMessage {
		l.Stop()
		return
	}

	if l.onMessage != nil {
		l.onMessage(frame.Payload)
	}
}

// Stop signals Run to exit after its current iteration, sends a final
// DISCONNECT frame, and discards anything still queued outbound. It
// returns a channel closed once Run has actually exited.
func (l *Loop) Stop() <-chan struct{} {
	l.mu.Lock()
	wasRunning := l.running
	l.running = false
	l.pending = nil
	l.mu.Unlock()

	if wasRunning {
		if err := WriteFrame(l.conn, Frame{Tag: DisconnectMessage}); err != nil {
			l.logger.Warnf("dispatch loop: disconnect: %s", err)
		}
	}

	return l.done
}
