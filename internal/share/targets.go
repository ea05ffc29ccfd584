package share

import (
	_ "embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"slices"

	"github.com/pelletier/go-toml/v2"
)

//go:embed targets.toml
var targetsTOML []byte

// Target describes how to hand text to an external command.
type Target struct {
	Description string   `toml:"description"`
	Platforms   []string `toml:"platforms"`
	Args        []string `toml:"args,omitempty"`
	ArgsDarwin  []string `toml:"args_darwin,omitempty"`
	ArgsLinux   []string `toml:"args_linux,omitempty"`
	ArgsWindows []string `toml:"args_windows,omitempty"`
	// Stdin pipes the text to the command; otherwise it is the last argument.
	Stdin bool `toml:"stdin"`
}

type targetsFile struct {
	Targets map[string]Target `toml:"targets"`
}

// Registry maps command names to invocation details.
type Registry struct {
	targets map[string]Target
	goos    string
}

// NewRegistry loads the built-in targets and merges the user's file when
// one exists.
func NewRegistry() (*Registry, error) {
	r, err := parseRegistry(targetsTOML)
	if err != nil {
		return nil, fmt.Errorf("parsing targets.toml: %w", err)
	}
	if home, err := os.UserHomeDir(); err == nil {
		r.mergeFile(filepath.Join(home, ".config", "jaenan", "targets.toml"))
	}
	return r, nil
}

func parseRegistry(data []byte) (*Registry, error) {
	var f targetsFile
	if err := toml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Targets == nil {
		f.Targets = make(map[string]Target)
	}
	return &Registry{targets: f.Targets, goos: runtime.GOOS}, nil
}

// mergeFile overrides built-in targets with those in path. A missing or
// malformed file is ignored.
func (r *Registry) mergeFile(path string) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	user, err := parseRegistry(data)
	if err != nil {
		return
	}
	for name, t := range user.targets {
		r.targets[name] = t
	}
}

func (r *Registry) Lookup(name string) (Target, bool) {
	t, ok := r.targets[name]
	return t, ok
}

// Command builds the invocation of name for text. Unknown commands get the
// text on stdin.
func (r *Registry) Command(name, text string) (*exec.Cmd, bool, error) {
	t, ok := r.targets[name]
	if !ok {
		return exec.Command(name), true, nil
	}
	if len(t.Platforms) > 0 && !slices.Contains(t.Platforms, r.goos) {
		return nil, false, fmt.Errorf("%s not supported on %s", name, r.goos)
	}

	args := append([]string(nil), r.args(t)...)
	if !t.Stdin {
		args = append(args, text)
	}
	return exec.Command(name, args...), t.Stdin, nil
}

func (r *Registry) args(t Target) []string {
	switch r.goos {
	case "darwin":
		if len(t.ArgsDarwin) > 0 {
			return t.ArgsDarwin
		}
	case "linux":
		if len(t.ArgsLinux) > 0 {
			return t.ArgsLinux
		}
	case "windows":
		if len(t.ArgsWindows) > 0 {
			return t.ArgsWindows
		}
	}
	return t.Args
}
