// Package session drives one run of an external command line program: it
// spawns the process, feeds it input, reads its output line by line or until
// a prompt appears, and tears it down on every exit path.
package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/output"
)

const readChunkSize = 4096

// Options configures a Session.
type Options struct {
	// ReadTimeout bounds each wait for more output. Zero disables it and
	// leaves only the context.
	ReadTimeout time.Duration
	// Grace is how long Terminate lets a process that closed its output
	// exit before killing it.
	Grace time.Duration
	// Logger receives debug lines tagged with the session ID.
	Logger *common.AppLogger
}

// Option mutates Options.
type Option func(*Options)

// WithReadTimeout sets Options.ReadTimeout.
func WithReadTimeout(d time.Duration) Option {
	return func(o *Options) { o.ReadTimeout = d }
}

// WithGrace sets Options.Grace.
func WithGrace(d time.Duration) Option {
	return func(o *Options) { o.Grace = d }
}

// WithLogger sets Options.Logger.
func WithLogger(l *common.AppLogger) Option {
	return func(o *Options) { o.Logger = l }
}

func defaultOptions() Options {
	return Options{
		ReadTimeout: common.ReadTimeout,
		Grace:       common.TerminateGrace,
	}
}

// Session is one running command. It is not safe for concurrent use.
type Session struct {
	// ID identifies the session in log lines.
	ID string

	ctx     context.Context
	command string
	proc    Process
	opts    Options
	log     *common.AppLogger

	chunks  chan []byte
	readErr error
	done    chan struct{}

	pending    []byte
	transcript bytes.Buffer
	eof        bool
	err        error

	once    sync.Once
	termErr error
}

// Start splits commandLine into argv, launches it and begins reading its
// output. Launch failures wrap common.ErrSpawn.
func Start(ctx context.Context, launcher Launcher, commandLine string, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.Logger == nil {
		o.Logger = common.GetLogger()
	}

	argv, err := SplitCommandLine(commandLine)
	if err != nil {
		return nil, err
	}

	proc, err := launcher.Launch(ctx, argv)
	if err != nil {
		if !errors.Is(err, common.ErrSpawn) {
			err = fmt.Errorf("%w: %s: %v", common.ErrSpawn, argv[0], err)
		}
		return nil, err
	}

	id := uuid.NewString()
	s := &Session{
		ID:      id,
		ctx:     ctx,
		command: commandLine,
		proc:    proc,
		opts:    o,
		log:     o.Logger.With("session", id[:8]),
		chunks:  make(chan []byte),
		done:    make(chan struct{}),
	}
	s.log.Debug("started %s", commandLine)

	go s.pump()
	return s, nil
}

// Command returns the command line the session was started with.
func (s *Session) Command() string {
	return s.command
}

func (s *Session) pump() {
	defer close(s.chunks)
	for {
		buf := make([]byte, readChunkSize)
		n, err := s.proc.Read(buf)
		if n > 0 {
			select {
			case s.chunks <- buf[:n]:
			case <-s.done:
				return
			}
		}
		if err != nil {
			s.readErr = err
			return
		}
	}
}

// fill waits for the next chunk of output and appends it to pending.
func (s *Session) fill() error {
	if s.err != nil {
		return s.err
	}
	if s.eof {
		return io.EOF
	}

	var timeout <-chan time.Time
	if s.opts.ReadTimeout > 0 {
		timer := time.NewTimer(s.opts.ReadTimeout)
		defer timer.Stop()
		timeout = timer.C
	}

	select {
	case chunk, ok := <-s.chunks:
		if !ok {
			s.eof = true
			if s.readErr != nil && !errors.Is(s.readErr, io.EOF) {
				s.log.Debug("read ended: %v", s.readErr)
			}
			return io.EOF
		}
		s.pending = append(s.pending, chunk...)
		s.transcript.Write(chunk)
		return nil

	case <-timeout:
		s.err = common.NewOutputError(common.ErrTimeout, s.command,
			fmt.Sprintf("no output for %s", s.opts.ReadTimeout), s.Transcript())

	case <-s.ctx.Done():
		if errors.Is(s.ctx.Err(), context.DeadlineExceeded) {
			s.err = common.NewOutputError(common.ErrTimeout, s.command,
				"operation deadline exceeded", s.Transcript())
		} else {
			s.err = fmt.Errorf("%s: %w", s.command, s.ctx.Err())
		}
	}

	s.log.Warn("aborting: %v", s.err)
	_ = s.Terminate()
	return s.err
}

// ReadLine returns the next line of output without its line terminator.
// At the end of output it returns io.EOF. A final unterminated line is
// returned before io.EOF.
func (s *Session) ReadLine() (string, error) {
	for {
		if i := bytes.IndexByte(s.pending, '\n'); i >= 0 {
			line := string(s.pending[:i])
			s.pending = s.pending[i+1:]
			return strings.TrimRight(line, "\r"), nil
		}
		if err := s.fill(); err != nil {
			if err == io.EOF && len(s.pending) > 0 {
				line := string(s.pending)
				s.pending = nil
				return strings.TrimRight(line, "\r"), nil
			}
			return "", err
		}
	}
}

// ReadAll drains the remaining output and returns it as lines.
func (s *Session) ReadAll() ([]string, error) {
	var lines []string
	for {
		line, err := s.ReadLine()
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return lines, err
		}
		lines = append(lines, line)
	}
}

// ExpectOneOf waits until the output contains one of patterns and returns
// its index. When several patterns are present the one that starts first in
// the output wins, and ties go to the lowest index. Output up to the end of
// the match is consumed. Patterns are matched against sanitized text.
//
// If the output ends before any pattern appears the error wraps
// common.ErrUnrecognizedProtocol and carries what was seen.
func (s *Session) ExpectOneOf(patterns ...string) (int, error) {
	for {
		text := output.Sanitize(string(s.pending))

		best, at, end := -1, -1, 0
		for i, p := range patterns {
			if p == "" {
				continue
			}
			if j := strings.Index(text, p); j >= 0 && (at < 0 || j < at) {
				best, at, end = i, j, j+len(p)
			}
		}
		if best >= 0 {
			s.pending = []byte(text[end:])
			s.log.Debug("matched %q", patterns[best])
			return best, nil
		}

		if err := s.fill(); err != nil {
			if err == io.EOF {
				return -1, common.NewOutputError(common.ErrUnrecognizedProtocol, s.command,
					fmt.Sprintf("none of %q appeared", patterns),
					output.NonEmpty(output.SanitizeLines(strings.Split(text, "\n"))))
			}
			return -1, err
		}
	}
}

// SendLine writes text followed by a newline. The text is never logged.
func (s *Session) SendLine(text string) error {
	if s.err != nil {
		return s.err
	}
	if _, err := io.WriteString(s.proc, text+"\n"); err != nil {
		return fmt.Errorf("write to %s: %w", s.command, err)
	}
	s.log.Debug("sent %d bytes", len(text)+1)
	return nil
}

// Transcript returns every line of output seen so far, sanitized.
func (s *Session) Transcript() []string {
	text := strings.TrimRight(s.transcript.String(), "\r\n")
	if text == "" {
		return nil
	}
	return output.SanitizeLines(strings.Split(text, "\n"))
}

// Terminate stops the process if it is still running, releases its terminal
// and reaps it. Calling it more than once is safe.
func (s *Session) Terminate() error {
	s.once.Do(func() {
		close(s.done)

		waited := make(chan error, 1)
		if s.eof && s.opts.Grace > 0 {
			go func() { waited <- s.proc.Wait() }()
			select {
			case err := <-waited:
				s.termErr = s.close()
				s.log.Debug("exited: %v", err)
				return
			case <-time.After(s.opts.Grace):
			}
			if err := s.proc.Kill(); err != nil {
				s.log.Debug("kill: %v", err)
			}
			s.termErr = s.close()
			s.log.Debug("killed after grace: %v", <-waited)
			return
		}

		if err := s.proc.Kill(); err != nil {
			s.log.Debug("kill: %v", err)
		}
		s.termErr = s.close()
		s.log.Debug("terminated: %v", s.proc.Wait())
	})
	return s.termErr
}

func (s *Session) close() error {
	err := s.proc.Close()
	if errors.Is(err, os.ErrClosed) {
		return nil
	}
	return err
}

// Run starts commandLine, drains all of its output and terminates it.
func Run(ctx context.Context, launcher Launcher, commandLine string, opts ...Option) ([]string, error) {
	s, err := Start(ctx, launcher, commandLine, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Terminate()

	return s.ReadAll()
}
