package process

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/smazurov/vidrec/internal/logging"
)

// Spawner starts a shell command line as a subprocess.
type Spawner interface {
	// Spawn starts command with stdout and stderr redirected to output.
	// A nil output discards both streams.
	Spawn(command string, output *os.File) (*Handle, error)
	// Quote quotes one argument for the spawner's shell.
	Quote(arg string) string
}

// shellSpawner runs commands through a platform shell ("sh -c", "cmd.exe /c").
type shellSpawner struct {
	shell  string
	flag   string
	logger logging.Logger
}

// NewSpawner returns the spawner for the current platform.
func NewSpawner(logger logging.Logger) Spawner {
	shell, flag := defaultShell()
	return &shellSpawner{shell: shell, flag: flag, logger: logger}
}

// Spawn implements Spawner.
func (s *shellSpawner) Spawn(command string, output *os.File) (*Handle, error) {
	if command == "" {
		return nil, fmt.Errorf("empty command")
	}

	cmd := exec.Command(s.shell, s.flag, command)
	cmd.SysProcAttr = sysProcAttr()
	setCmdLine(cmd, s.shell, s.flag, command)

	// An *os.File is handed to the child directly, no copy goroutine in
	// between. Nil leaves both streams on the null device.
	if output != nil {
		cmd.Stdout = output
		cmd.Stderr = output
	}

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("create stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		_ = stdin.Close()
		return nil, fmt.Errorf("start %s: %w", s.shell, err)
	}

	s.logger.Info("Process started", "pid", cmd.Process.Pid, "command", command)
	return newHandle(cmd, stdin, s.logger), nil
}

// Quote implements Spawner.
func (s *shellSpawner) Quote(arg string) string {
	return quoteArg(arg)
}
