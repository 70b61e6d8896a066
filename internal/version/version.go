package version

import (
	"github.com/fatih/color"
	"github.com/nsqlite/tsqlite/sqlite"
)

const Version = "v0.1.0"

// asciiArtTpl returns the ASCII art banner, with a %s verb for the binary
// name.
func asciiArtTpl() string {
	asciiArt := `
  __                 ___ __     
 / /__________ _/ (_) /____ 
/ __/ ___/ __ ` + "`" + `/ / / __/ _ \
/ /_(__  ) /_/ / / / /_/  __/
\__/____/\__, /_/_/\__/\___/
           /_/
%s ` + Version + ` (SQLite %s)`

	return asciiArt[1:] // Drops the leading newline
}

func banner(name string) string {
	return color.New(color.FgCyan, color.Bold).Sprintf(asciiArtTpl(), name, sqlite.LibVersion())
}

// ShellVersion returns the version banner of the tsqlite shell.
func ShellVersion() string {
	return banner("Shell")
}

// BenchVersion returns the version banner of tsqlitebench.
func BenchVersion() string {
	return banner("Bench")
}
