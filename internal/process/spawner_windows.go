//go:build windows

package process

import (
	"os"
	"os/exec"
	"strconv"
	"strings"
	"syscall"

	"golang.org/x/sys/windows"
)

func defaultShell() (shell, flag string) {
	return "cmd.exe", "/c"
}

func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{
		CreationFlags: windows.CREATE_NEW_PROCESS_GROUP | windows.CREATE_NO_WINDOW,
	}
}

// setCmdLine passes the command to cmd.exe untouched; Go's default
// argument escaping would mangle the quotes quoteArg added.
func setCmdLine(cmd *exec.Cmd, shell, flag, command string) {
	cmd.SysProcAttr.CmdLine = shell + " " + flag + " " + command
}

// terminate kills the process tree rooted at the cmd.exe shell.
func terminate(p *os.Process) error {
	if err := exec.Command("taskkill", "/T", "/F", "/PID", strconv.Itoa(p.Pid)).Run(); err != nil {
		return p.Kill()
	}
	return nil
}

func forceKill(p *os.Process) error {
	return p.Kill()
}

func exitCode(state *os.ProcessState) int {
	return state.ExitCode()
}

// quoteArg double-quotes arg for cmd.exe when it contains separators.
func quoteArg(arg string) string {
	if arg == "" {
		return `""`
	}
	if !strings.ContainsAny(arg, " \t&|<>^()\"") {
		return arg
	}
	return `"` + strings.ReplaceAll(arg, `"`, `""`) + `"`
}
