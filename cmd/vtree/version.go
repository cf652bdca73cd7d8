package main

import (
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// buildInfo describes the running binary. Values stamped with -ldflags win;
// otherwise the module version and VCS settings recorded by the Go
// toolchain fill the gaps.
type buildInfo struct {
	Version   string
	Commit    string
	Date      string
	Modified  bool
	GoVersion string
}

func readBuildInfo() buildInfo {
	bi := buildInfo{Version: version, Commit: commit, Date: date, GoVersion: runtime.Version()}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return bi
	}
	if bi.Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		bi.Version = info.Main.Version
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if bi.Commit == "none" {
				bi.Commit = s.Value
			}
		case "vcs.time":
			if bi.Date == "unknown" {
				bi.Date = s.Value
			}
		case "vcs.modified":
			bi.Modified = s.Value == "true"
		}
	}
	return bi
}

func (b buildInfo) write(w io.Writer) {
	rev := b.Commit
	if b.Modified {
		rev += " (modified)"
	}
	fmt.Fprintf(w, "vtree %s\n", b.Version)
	fmt.Fprintf(w, "  commit  %s\n", rev)
	fmt.Fprintf(w, "  built   %s\n", b.Date)
	fmt.Fprintf(w, "  go      %s %s/%s\n", b.GoVersion, runtime.GOOS, runtime.GOARCH)
}

func versionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long: `Print the vtree version with the commit and build time it was built
from. Release builds stamp these with -ldflags; binaries built with
'go install' report the module version and VCS data recorded by Go.`,
		Args: exactArgs(0),
		Run: func(cmd *cobra.Command, args []string) {
			bi := readBuildInfo()
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), bi.Version)
				return
			}
			bi.write(cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Print only the version")

	return cmd
}
