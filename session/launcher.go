package session

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"syscall"

	"github.com/creack/pty"

	"github.com/yllada/windscribe-client/common"
)

// Process is a running external program with one combined output stream.
type Process interface {
	io.Reader
	io.Writer
	// Kill stops the process. Killing an exited process is not an error.
	Kill() error
	// Wait reaps the process.
	Wait() error
	// Close releases the terminal or pipes.
	Close() error
}

// Launcher starts processes. argv[0] is the program.
type Launcher interface {
	Launch(ctx context.Context, argv []string) (Process, error)
}

// NewLauncher returns the launcher for kind: "pipe" or "pty" (default).
func NewLauncher(kind string, env []string) Launcher {
	switch kind {
	case "pipe":
		return PipeLauncher{Env: env}
	default:
		return PTYLauncher{Env: env}
	}
}

// lookCommand resolves argv[0] and builds the command. Failures wrap
// common.ErrSpawn.
func lookCommand(argv []string, env []string) (*exec.Cmd, error) {
	if len(argv) == 0 {
		return nil, fmt.Errorf("%w: empty argv", common.ErrSpawn)
	}
	path, err := exec.LookPath(argv[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrSpawn, argv[0], err)
	}
	cmd := exec.Command(path, argv[1:]...)
	cmd.Env = append(os.Environ(), env...)
	return cmd, nil
}

// PTYLauncher runs the program on a pseudo-terminal. Interactive clients
// print prompts and colours only when attached to a terminal.
type PTYLauncher struct {
	// Env is appended to the inherited environment.
	Env []string
}

// Launch implements Launcher.
func (l PTYLauncher) Launch(_ context.Context, argv []string) (Process, error) {
	cmd, err := lookCommand(argv, l.Env)
	if err != nil {
		return nil, err
	}
	f, err := pty.Start(cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", common.ErrSpawn, argv[0], err)
	}
	return &ptyProcess{cmd: cmd, tty: f}, nil
}

type ptyProcess struct {
	cmd *exec.Cmd
	tty *os.File
}

func (p *ptyProcess) Read(b []byte) (int, error) {
	n, err := p.tty.Read(b)
	// Linux reports EIO on the master once the child side is gone.
	if err != nil && errors.Is(err, syscall.EIO) {
		err = io.EOF
	}
	return n, err
}

func (p *ptyProcess) Write(b []byte) (int, error) { return p.tty.Write(b) }
func (p *ptyProcess) Kill() error                 { return killProcess(p.cmd) }
func (p *ptyProcess) Wait() error                 { return p.cmd.Wait() }
func (p *ptyProcess) Close() error                { return p.tty.Close() }

// PipeLauncher runs the program with plain pipes. Standard output and
// standard error share one pipe so ordering is preserved.
type PipeLauncher struct {
	Env []string
}

// Launch implements Launcher.
func (l PipeLauncher) Launch(_ context.Context, argv []string) (Process, error) {
	cmd, err := lookCommand(argv, l.Env)
	if err != nil {
		return nil, err
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("%w: stdin pipe: %v", common.ErrSpawn, err)
	}
	r, w, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("%w: output pipe: %v", common.ErrSpawn, err)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	if err := cmd.Start(); err != nil {
		r.Close()
		w.Close()
		return nil, fmt.Errorf("%w: %s: %v", common.ErrSpawn, argv[0], err)
	}
	// The child holds its own copy of the write end.
	w.Close()

	return &pipeProcess{cmd: cmd, stdin: stdin, out: r}, nil
}

type pipeProcess struct {
	cmd   *exec.Cmd
	stdin io.WriteCloser
	out   *os.File
}

func (p *pipeProcess) Read(b []byte) (int, error)  { return p.out.Read(b) }
func (p *pipeProcess) Write(b []byte) (int, error) { return p.stdin.Write(b) }
func (p *pipeProcess) Kill() error                 { return killProcess(p.cmd) }
func (p *pipeProcess) Wait() error                 { return p.cmd.Wait() }

func (p *pipeProcess) Close() error {
	err := p.stdin.Close()
	if cerr := p.out.Close(); err == nil {
		err = cerr
	}
	return err
}

func killProcess(cmd *exec.Cmd) error {
	if cmd.Process == nil {
		return nil
	}
	if err := cmd.Process.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}
