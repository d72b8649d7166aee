// Package filter pumps input_event records from a reader to a writer
// through the remap engine.
//
// Each iteration reads exactly one record and writes every record it causes
// before the next read. Output is flushed after each record. Any read, decode
// or write failure ends Run; there is no resynchronization or retry.
package filter

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sync/atomic"

	"golang.org/x/sys/unix"

	"capsnav/internal/inputevent"
	"capsnav/internal/logging"
	"capsnav/internal/remap"
)

var (
	// ErrInputClosed is returned when the input ends on a record boundary.
	ErrInputClosed = errors.New("filter: input closed")

	// ErrOutputClosed is returned when a record cannot be written.
	ErrOutputClosed = errors.New("filter: output closed")
)

// IsBrokenPipe reports whether err was caused by the downstream reader
// going away.
func IsBrokenPipe(err error) bool {
	return errors.Is(err, unix.EPIPE)
}

// Stats counts records seen by a Filter.
type Stats struct {
	Records     int64 // records read
	KeyEvents   int64 // EV_KEY records
	Passthrough int64 // non-key records copied unchanged
	Forwarded   int64 // key records written unchanged
	Suppressed  int64 // key records dropped by the engine
	Synthesized int64 // key records produced by the engine
}

type counters struct {
	records, keyEvents, passthrough   atomic.Int64
	forwarded, suppressed, synthesized atomic.Int64
}

// Option configures a Filter.
type Option func(*Filter)

// WithLogger sets the logger used for trace output.
func WithLogger(l *logging.Logger) Option {
	return func(f *Filter) {
		f.log = l
	}
}

// WithTrace enables per-event debug logging from the start.
func WithTrace(on bool) Option {
	return func(f *Filter) {
		f.trace.Store(on)
	}
}

// Filter connects an input stream, the remap engine and an output stream.
// Run must be called from a single goroutine; Stats and SetTrace may be
// called concurrently with it.
type Filter struct {
	in     io.Reader
	out    *bufio.Writer
	engine *remap.Engine
	log    *logging.Logger
	trace  atomic.Bool
	stats  counters
}

// New returns a filter reading records from in and writing them to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Filter {
	f := &Filter{
		in:  in,
		out: bufio.NewWriterSize(out, 4*inputevent.Size),
		log: logging.Discard(),
	}
	f.engine = remap.New(remap.SinkFunc(f.emit))
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// SetTrace turns per-event debug logging on or off.
func (f *Filter) SetTrace(on bool) {
	f.trace.Store(on)
}

// Stats returns a snapshot of the counters.
func (f *Filter) Stats() Stats {
	return Stats{
		Records:     f.stats.records.Load(),
		KeyEvents:   f.stats.keyEvents.Load(),
		Passthrough: f.stats.passthrough.Load(),
		Forwarded:   f.stats.forwarded.Load(),
		Suppressed:  f.stats.suppressed.Load(),
		Synthesized: f.stats.synthesized.Load(),
	}
}

// Run processes records until the input ends, a record is malformed, the
// output fails, or ctx is done. It always returns a non-nil error.
//
// ctx is checked between records; a read that is already blocked is not
// interrupted.
func (f *Filter) Run(ctx context.Context) error {
	var buf [inputevent.Size]byte
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := f.step(buf[:]); err != nil {
			return err
		}
	}
}

func (f *Filter) step(buf []byte) error {
	if _, err := io.ReadFull(f.in, buf); err != nil {
		switch {
		case errors.Is(err, io.EOF):
			return ErrInputClosed
		case errors.Is(err, io.ErrUnexpectedEOF):
			return fmt.Errorf("read record: %w", inputevent.ErrShortRecord)
		default:
			return fmt.Errorf("read record: %w", err)
		}
	}
	f.stats.records.Add(1)

	rec, err := inputevent.DecodeRecord(buf)
	if err != nil {
		return err
	}
	if !rec.IsKey() {
		f.stats.passthrough.Add(1)
		return f.write(buf)
	}

	ev, err := inputevent.NewKeyEvent(rec)
	if err != nil {
		return err
	}
	f.stats.keyEvents.Add(1)
	f.traceEvent("in", ev)

	if err := f.engine.Handle(&ev); err != nil {
		return err
	}
	if !ev.Forward {
		f.stats.suppressed.Add(1)
		return nil
	}
	f.stats.forwarded.Add(1)
	return f.write(buf)
}

// emit is the engine's sink.
func (f *Filter) emit(ev inputevent.KeyEvent) error {
	rec := ev.Encode()
	if err := f.write(rec[:]); err != nil {
		return err
	}
	f.stats.synthesized.Add(1)
	f.traceEvent("out", ev)
	return nil
}

func (f *Filter) write(rec []byte) error {
	if _, err := f.out.Write(rec); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputClosed, err)
	}
	if err := f.out.Flush(); err != nil {
		return fmt.Errorf("%w: %w", ErrOutputClosed, err)
	}
	return nil
}

func (f *Filter) traceEvent(dir string, ev inputevent.KeyEvent) {
	if !f.trace.Load() {
		return
	}
	f.log.Debug("key event",
		"dir", dir,
		"code", inputevent.KeyName(ev.Code),
		"value", ev.Value.String(),
	)
}
