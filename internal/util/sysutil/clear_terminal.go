package sysutil

import (
	"io"
	"os/exec"
	"runtime"
)

// ClearTerminal clears the terminal attached to w in supported operating
// systems.
func ClearTerminal(w io.Writer) {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "windows":
		cmd = exec.Command("cmd", "/c", "cls")
	case "linux", "darwin", "freebsd", "openbsd", "netbsd":
		cmd = exec.Command("clear")
	default:
		return
	}
	cmd.Stdout = w
	_ = cmd.Run()
}
