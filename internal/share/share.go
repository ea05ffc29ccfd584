// Package share hands message text to the system clipboard or an external
// share command. Every action is fire and forget: the command is started
// and never waited on by the caller.
package share

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/atotto/clipboard"

	"github.com/pders01/jaenan/internal/config"
	"github.com/pders01/jaenan/internal/debuglog"
)

// ErrNoTarget means no configured command is installed.
var ErrNoTarget = errors.New("no share target available")

// Clipboard is the system clipboard.
type Clipboard interface {
	WriteAll(text string) error
}

type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return errors.New("clipboard unsupported on this system")
	}
	return clipboard.WriteAll(text)
}

// Method names what carried out an action.
const MethodClipboard = "clipboard"

type Sharer struct {
	clip      Clipboard
	registry  *Registry
	clipCmds  []string
	shareCmds []string

	lookPath func(string) (string, error)
	start    func(*exec.Cmd) error
}

// New builds a Sharer for the running platform.
func New(cfg config.ShareConfig) *Sharer {
	registry, err := NewRegistry()
	if err != nil {
		debuglog.Warnf("share targets unavailable: %v", err)
		registry = &Registry{targets: make(map[string]Target)}
	}

	cmds := cfg.Platform()
	return &Sharer{
		clip:      systemClipboard{},
		registry:  registry,
		clipCmds:  cmds.Clipboard,
		shareCmds: cmds.Share,
		lookPath:  exec.LookPath,
		start:     startDetached,
	}
}

// Copy puts text on the clipboard. The native clipboard is tried first,
// then the configured clipboard commands. It returns the method used.
func (s *Sharer) Copy(text string) (string, error) {
	err := s.clip.WriteAll(text)
	if err == nil {
		return MethodClipboard, nil
	}
	debuglog.Debugf("native clipboard failed: %v", err)

	name, cmdErr := s.run(s.clipCmds, text)
	if cmdErr != nil {
		return "", fmt.Errorf("copying to clipboard: %w", errors.Join(err, cmdErr))
	}
	return name, nil
}

// Share sends text to the first installed share command. Without one the
// text is copied instead and the method reports that.
func (s *Sharer) Share(text string) (string, error) {
	name, err := s.run(s.shareCmds, text)
	if err == nil {
		return name, nil
	}
	if !errors.Is(err, ErrNoTarget) {
		return "", fmt.Errorf("sharing: %w", err)
	}

	debuglog.Infof("no share command installed, copying instead")
	return s.Copy(text)
}

// Available lists the installed clipboard and share commands.
func (s *Sharer) Available() (clip, share []string) {
	return s.installed(s.clipCmds), s.installed(s.shareCmds)
}

func (s *Sharer) installed(names []string) []string {
	var out []string
	for _, n := range names {
		if _, err := s.lookPath(n); err == nil {
			out = append(out, n)
		}
	}
	return out
}

func (s *Sharer) run(candidates []string, text string) (string, error) {
	for _, name := range s.installed(candidates) {
		cmd, stdin, err := s.registry.Command(name, text)
		if err != nil {
			debuglog.Debugf("skipping %s: %v", name, err)
			continue
		}
		if stdin {
			cmd.Stdin = strings.NewReader(text)
		}
		if err := s.start(cmd); err != nil {
			return "", fmt.Errorf("starting %s: %w", name, err)
		}
		debuglog.With(debuglog.Fields{"command": name}).Infof("handed off %d bytes", len(text))
		return name, nil
	}
	return "", ErrNoTarget
}

func startDetached(cmd *exec.Cmd) error {
	if err := cmd.Start(); err != nil {
		return err
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}
