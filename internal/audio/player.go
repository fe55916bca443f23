package audio

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"strings"
	"sync"

	"codeberg.org/snonux/flashdeck/internal/logging"
)

// Routing is how one clip reaches the speakers: the player process, its
// arguments, and environment that marks the stream as media playback.
type Routing struct {
	Command string
	Args    []string
	Env     []string
}

// Player plays one clip at a time through an external player process.
type Player struct {
	command string // configured override, may be empty
	log     logging.Logger

	// routeFor is resolved before every play; tests replace it.
	routeFor func(command, path string) (Routing, error)

	ctrl    sync.Mutex // serializes Play and Stop
	mu      sync.Mutex // guards session
	session *playSession
}

type playSession struct {
	cmd  *exec.Cmd
	path string
	done chan struct{}
	err  error
}

// NewPlayer creates a player. command overrides the probed backend,
// e.g. "mpv --no-video"; the clip path is appended to it.
func NewPlayer(command string, log logging.Logger) *Player {
	if log == nil {
		log = logging.Nop()
	}
	return &Player{
		command:  strings.TrimSpace(command),
		log:      log,
		routeFor: platformRouting,
	}
}

// Play stops any current session and starts playing path. It returns once
// the player process has started; the session is released when the process
// exits.
func (p *Player) Play(ctx context.Context, path string) error {
	p.ctrl.Lock()
	defer p.ctrl.Unlock()

	p.stopLocked()

	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("audio file not available: %w", err)
	}

	routing, err := p.routeFor(p.command, path)
	if err != nil {
		return err
	}

	cmd := exec.Command(routing.Command, routing.Args...)
	cmd.Env = append(os.Environ(), routing.Env...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to start %s: %w", routing.Command, err)
	}

	s := &playSession{cmd: cmd, path: path, done: make(chan struct{})}
	p.mu.Lock()
	p.session = s
	p.mu.Unlock()

	p.log.Debug(ctx, "playback started", "path", path, "player", routing.Command)

	go func() {
		s.err = cmd.Wait()
		p.mu.Lock()
		if p.session == s {
			p.session = nil
		}
		p.mu.Unlock()
		close(s.done)
	}()

	return nil
}

// Stop kills the current session, if any, and waits for it to be released.
func (p *Player) Stop() {
	p.ctrl.Lock()
	defer p.ctrl.Unlock()
	p.stopLocked()
}

func (p *Player) stopLocked() {
	p.mu.Lock()
	s := p.session
	p.session = nil
	p.mu.Unlock()

	if s == nil {
		return
	}
	if s.cmd.Process != nil {
		s.cmd.Process.Kill()
	}
	<-s.done
}

// Playing reports whether a session is active.
func (p *Player) Playing() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.session != nil
}

// Wait blocks until the current session ends or ctx is done, in which case
// the session is stopped.
func (p *Player) Wait(ctx context.Context) error {
	p.mu.Lock()
	s := p.session
	p.mu.Unlock()

	if s == nil {
		return nil
	}

	select {
	case <-s.done:
		if s.err != nil {
			return fmt.Errorf("player exited: %w", s.err)
		}
		return nil
	case <-ctx.Done():
		p.Stop()
		return ctx.Err()
	}
}

// platformRouting picks the player backend. On Linux and for a configured
// command the stream env marks the clip as music playback, so PulseAudio and
// PipeWire never route it as a capture stream. afplay and the Windows shell
// play through the system output and take no stream properties.
func platformRouting(command, path string) (Routing, error) {
	env := []string{"PULSE_PROP=media.role=music", "PIPEWIRE_PROPS=media.role=Music"}

	if command != "" {
		fields := strings.Fields(command)
		return Routing{Command: fields[0], Args: append(fields[1:], path), Env: env}, nil
	}

	switch runtime.GOOS {
	case "darwin":
		return Routing{Command: "afplay", Args: []string{path}}, nil
	case "linux":
		// mpg123 first since it handles MP3 files best
		candidates := []Routing{
			{Command: "mpg123", Args: []string{"-q", path}},
			{Command: "ffplay", Args: []string{"-nodisp", "-autoexit", "-loglevel", "quiet", path}},
			{Command: "play", Args: []string{"-q", path}},
			{Command: "paplay", Args: []string{"--property=media.role=music", path}},
			{Command: "aplay", Args: []string{"-q", path}},
		}
		for _, c := range candidates {
			if _, err := exec.LookPath(c.Command); err == nil {
				c.Env = env
				return c, nil
			}
		}
		return Routing{}, fmt.Errorf("no audio player found. Install mpg123, ffplay, sox, paplay, or aplay")
	case "windows":
		return Routing{Command: "cmd", Args: []string{"/c", "start", "/min", path}}, nil
	default:
		return Routing{}, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}
