// Package engine drives an external UCI chess engine over the standard
// input/output of a child process and turns its verdicts into scores for
// every legal move of a position.
package engine

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
	"time"

	"fishwrap/uci"

	"github.com/rs/zerolog"
)

const DefaultGracePeriod = 100 * time.Millisecond

// ErrEngineClosed is returned once the engine's output pipe reaches EOF.
var ErrEngineClosed = errors.New("engine closed its output")

// Conn is one strict request/response connection to an engine.
type Conn interface {
	Send(msg uci.Message) error
	Receive() (uci.Message, error)
}

// Driver owns the engine subprocess and its two pipe endpoints. It is not
// safe to interleave searches from several goroutines on one Driver.
type Driver struct {
	cmd   *exec.Cmd
	in    *bufio.Writer
	out   *bufio.Scanner
	log   zerolog.Logger
	grace time.Duration

	mu       sync.Mutex
	shutdown sync.Once
	exitErr  error
}

type Option func(d *Driver)

func WithLogger(log zerolog.Logger) Option {
	return func(d *Driver) {
		d.log = log.With().Str("component", "driver").Logger()
	}
}

func WithGracePeriod(grace time.Duration) Option {
	return func(d *Driver) {
		if grace > 0 {
			d.grace = grace
		}
	}
}

// Spawn starts the engine binary with piped stdin/stdout. Its stderr is
// discarded.
func Spawn(path string, args []string, opts ...Option) (*Driver, error) {
	cmd := exec.Command(path, args...)
	cmd.Stderr = nil

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stdin: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("engine stdout: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("unable to start %s: %w", path, err)
	}

	d := NewDriver(stdout, stdin, opts...)
	d.cmd = cmd
	d.log.Info().Str("path", path).Int("pid", cmd.Process.Pid).Msg("engine started")
	return d, nil
}

// NewDriver speaks the protocol over an already connected reader/writer
// pair. Shutdown on such a driver only sends quit.
func NewDriver(r io.Reader, w io.Writer, opts ...Option) *Driver {
	d := &Driver{
		in:    bufio.NewWriter(w),
		out:   bufio.NewScanner(r),
		log:   zerolog.Nop(),
		grace: DefaultGracePeriod,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Send writes one line and flushes it.
func (d *Driver) Send(msg uci.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	line := msg.String()
	d.log.Debug().Str("line", line).Msg("send")
	if _, err := fmt.Fprintln(d.in, line); err != nil {
		return fmt.Errorf("write to engine: %w", err)
	}
	if err := d.in.Flush(); err != nil {
		return fmt.Errorf("flush engine pipe: %w", err)
	}
	return nil
}

// Receive blocks until the engine produces a line it can decode. Unknown
// and malformed lines are logged and skipped.
func (d *Driver) Receive() (uci.Message, error) {
	for d.out.Scan() {
		line := d.out.Text()
		msg, err := uci.Parse(line)
		if err != nil {
			d.log.Debug().Err(err).Str("line", line).Msg("ignoring engine output")
			continue
		}
		d.log.Debug().Str("line", line).Msg("receive")
		return msg, nil
	}
	if err := d.out.Err(); err != nil {
		return nil, fmt.Errorf("read from engine: %w", err)
	}
	return nil, ErrEngineClosed
}

// Handshake runs "uci"/"uciok" followed by "isready"/"readyok".
func (d *Driver) Handshake() error {
	if err := d.Send(uci.Uci{}); err != nil {
		return err
	}
	err := waitFor(d, func(msg uci.Message) bool {
		if id, ok := msg.(uci.ID); ok {
			d.log.Info().Str("name", id.Name).Str("author", id.Author).Msg("engine identified")
		}
		_, ok := msg.(uci.UciOk)
		return ok
	})
	if err != nil {
		return err
	}
	return ready(d)
}

// Shutdown asks the engine to quit, waits the grace period and kills it if
// it is still running. It is safe to call more than once; only the first
// call does anything.
func (d *Driver) Shutdown() error {
	d.shutdown.Do(func() {
		if err := d.Send(uci.Quit{}); err != nil {
			d.log.Warn().Err(err).Msg("unable to send quit")
		}
		if d.cmd == nil {
			return
		}

		done := make(chan error, 1)
		go func() { done <- d.cmd.Wait() }()

		select {
		case err := <-done:
			d.exitErr = err
			if err != nil {
				d.log.Warn().Err(err).Msg("engine exited with errors")
			} else {
				d.log.Info().Msg("engine exited successfully")
			}
		case <-time.After(d.grace):
			d.log.Warn().Dur("grace", d.grace).Msg("engine has not yet exited, killing")
			// Kill errors only mean the process is already gone.
			_ = d.cmd.Process.Kill()
			<-done
		}
	})
	return d.exitErr
}

// Exited reports whether the subprocess has been reaped.
func (d *Driver) Exited() bool {
	return d.cmd != nil && d.cmd.ProcessState != nil
}

func waitFor(conn Conn, match func(uci.Message) bool) error {
	for {
		msg, err := conn.Receive()
		if err != nil {
			return err
		}
		if match(msg) {
			return nil
		}
	}
}

func ready(conn Conn) error {
	if err := conn.Send(uci.IsReady{}); err != nil {
		return err
	}
	return waitFor(conn, func(msg uci.Message) bool {
		_, ok := msg.(uci.ReadyOk)
		return ok
	})
}
