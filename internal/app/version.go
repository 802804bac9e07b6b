package app

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
)

// Build metadata, overridden at link time:
//
//	go build -ldflags "-X github.com/agbru/lanterncalc/internal/app.Version=v1.2.0"
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildDate = "unknown"
)

// HasVersionFlag reports whether args request the version instead of a run.
func HasVersionFlag(args []string) bool {
	for _, arg := range args {
		switch arg {
		case "--version", "-version", "-V":
			return true
		case "--":
			return false
		}
	}
	return false
}

// PrintVersion writes the version banner to out.
func PrintVersion(out io.Writer) {
	version := Version
	if version == "dev" {
		if info, ok := debug.ReadBuildInfo(); ok && info.Main.Version != "" && info.Main.Version != "(devel)" {
			version = info.Main.Version
		}
	}
	fmt.Fprintf(out, "lanterncalc %s\n", version)
	fmt.Fprintf(out, "  commit:  %s\n", Commit)
	fmt.Fprintf(out, "  built:   %s\n", BuildDate)
	fmt.Fprintf(out, "  runtime: %s %s/%s\n", runtime.Version(), runtime.GOOS, runtime.GOARCH)
}
