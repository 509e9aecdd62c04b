// Package sessiontest provides an in-memory Launcher that plays scripted
// conversations, for testing code built on package session without a real
// binary.
package sessiontest

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/yllada/windscribe-client/common"
	"github.com/yllada/windscribe-client/session"
)

type stepKind int

const (
	stepOutput stepKind = iota
	stepInput
	stepHang
)

// Step is one turn of a scripted conversation.
type Step struct {
	kind stepKind
	text string
}

// Out makes the process print text verbatim.
func Out(text string) Step { return Step{kind: stepOutput, text: text} }

// Lines makes the process print each line followed by "\r\n", the way a
// terminal delivers it.
func Lines(lines ...string) Step {
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l)
		b.WriteString("\r\n")
	}
	return Out(b.String())
}

// In makes the process wait for one line of input and record a mismatch if
// it differs from want.
func In(want string) Step { return Step{kind: stepInput, text: want} }

// Hang makes the process go silent until it is killed.
func Hang() Step { return Step{kind: stepHang} }

// Launcher maps argument lists to scripts. The program name is ignored.
type Launcher struct {
	mu      sync.Mutex
	scripts map[string][]Step
	calls   [][]string
	procs   []*Process
}

// NewLauncher returns an empty Launcher.
func NewLauncher() *Launcher {
	return &Launcher{scripts: make(map[string][]Step)}
}

func key(args []string) string {
	return strings.Join(args, "\x00")
}

// Handle registers the script played when the program is run with args.
func (l *Launcher) Handle(args []string, steps ...Step) *Launcher {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.scripts[key(args)] = steps
	return l
}

// Launch implements session.Launcher.
func (l *Launcher) Launch(_ context.Context, argv []string) (session.Process, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.calls = append(l.calls, append([]string(nil), argv...))
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty argv", common.ErrSpawn)
	}
	steps, ok := l.scripts[key(argv[1:])]
	if !ok {
		return nil, fmt.Errorf("%w: %s: no script for %q", common.ErrSpawn, argv[0], argv[1:])
	}

	p := newProcess(argv, steps)
	l.procs = append(l.procs, p)
	return p, nil
}

// Calls returns the argv of every launch attempt, in order.
func (l *Launcher) Calls() [][]string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([][]string(nil), l.calls...)
}

// Processes returns every process started, in order.
func (l *Launcher) Processes() []*Process {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]*Process(nil), l.procs...)
}

// Process is a scripted session.Process.
type Process struct {
	Argv []string

	steps []Step
	r     *io.PipeReader
	w     *io.PipeWriter
	input chan string
	stop  chan struct{}
	ended chan struct{}

	stopOnce sync.Once

	mu         sync.Mutex
	partial    strings.Builder
	inputs     []string
	mismatches []string
	killed     bool
	closed     bool
}

func newProcess(argv []string, steps []Step) *Process {
	r, w := io.Pipe()
	p := &Process{
		Argv:  argv,
		steps: steps,
		r:     r,
		w:     w,
		input: make(chan string, 64),
		stop:  make(chan struct{}),
		ended: make(chan struct{}),
	}
	go p.run()
	return p
}

func (p *Process) run() {
	defer close(p.ended)
	defer p.w.Close()

	for _, step := range p.steps {
		switch step.kind {
		case stepOutput:
			if _, err := io.WriteString(p.w, step.text); err != nil {
				return
			}
		case stepInput:
			select {
			case got := <-p.input:
				if got != step.text {
					p.mu.Lock()
					p.mismatches = append(p.mismatches, fmt.Sprintf("input %q, want %q", got, step.text))
					p.mu.Unlock()
				}
			case <-p.stop:
				return
			}
		case stepHang:
			<-p.stop
			return
		}
	}
}

func (p *Process) halt() {
	p.stopOnce.Do(func() {
		close(p.stop)
		p.w.CloseWithError(io.EOF)
	})
}

// Read implements io.Reader.
func (p *Process) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

// Write records input and hands each complete line to the script.
func (p *Process) Write(b []byte) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.closed {
		return 0, io.ErrClosedPipe
	}

	p.partial.Write(b)
	buf := p.partial.String()
	for {
		i := strings.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(buf[:i], "\r")
		buf = buf[i+1:]
		p.inputs = append(p.inputs, line)
		select {
		case p.input <- line:
		default:
		}
	}
	p.partial.Reset()
	p.partial.WriteString(buf)
	return len(b), nil
}

// Kill stops the script.
func (p *Process) Kill() error {
	p.mu.Lock()
	p.killed = true
	p.mu.Unlock()
	p.halt()
	return nil
}

// Wait blocks until the script has finished or been stopped.
func (p *Process) Wait() error {
	<-p.ended
	return nil
}

// Close releases the output pipe.
func (p *Process) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	p.halt()
	return p.r.Close()
}

// Inputs returns every line written to the process.
func (p *Process) Inputs() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.inputs...)
}

// Mismatches describes input lines that differed from the script.
func (p *Process) Mismatches() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]string(nil), p.mismatches...)
}

// Killed reports whether Kill was called.
func (p *Process) Killed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.killed
}

// Closed reports whether Close was called.
func (p *Process) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}

// Finished reports whether the script ran to completion or was stopped.
func (p *Process) Finished() bool {
	select {
	case <-p.ended:
		return true
	default:
		return false
	}
}
