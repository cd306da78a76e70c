//go:build !windows

package process

import (
	"errors"
	"os"
	"os/exec"
	"regexp"
	"strings"
	"syscall"

	"golang.org/x/sys/unix"
)

func defaultShell() (shell, flag string) {
	return "sh", "-c"
}

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func setCmdLine(*exec.Cmd, string, string, string) {}

// terminate sends SIGTERM to the whole process group.
func terminate(p *os.Process) error {
	return signalGroup(p, unix.SIGTERM)
}

// forceKill sends SIGKILL to the whole process group.
func forceKill(p *os.Process) error {
	return signalGroup(p, unix.SIGKILL)
}

func signalGroup(p *os.Process, sig unix.Signal) error {
	err := unix.Kill(-p.Pid, sig)
	if errors.Is(err, unix.ESRCH) {
		// group gone, the shell itself may still need reaping
		if sigErr := p.Signal(sig); sigErr != nil && !errors.Is(sigErr, os.ErrProcessDone) {
			return sigErr
		}
		return nil
	}
	return err
}

func exitCode(state *os.ProcessState) int {
	if ws, ok := state.Sys().(syscall.WaitStatus); ok && ws.Signaled() {
		return 128 + int(ws.Signal())
	}
	return state.ExitCode()
}

var safeArg = regexp.MustCompile(`^[A-Za-z0-9_@%+=:,./-]+$`)

// quoteArg single-quotes arg for sh unless it is made of safe characters.
func quoteArg(arg string) string {
	if arg == "" {
		return "''"
	}
	if safeArg.MatchString(arg) {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'"'"'`) + "'"
}
