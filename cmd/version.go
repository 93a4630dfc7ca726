package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

// Set with -ldflags "-X github.com/aallbrig/clause/cmd.Version=v1.2.3", and
// likewise for Commit and BuildDate.
var (
	Version   = "dev"
	Commit    = ""
	BuildDate = ""
)

// buildInfo describes the running binary.
type buildInfo struct {
	Version   string `json:"version" yaml:"version"`
	Commit    string `json:"commit,omitempty" yaml:"commit,omitempty"`
	BuildDate string `json:"build_date,omitempty" yaml:"build_date,omitempty"`
	GoVersion string `json:"go_version" yaml:"go_version"`
}

// currentBuild merges the ldflags values with what the toolchain embedded.
// A commit from ldflags wins over vcs.revision.
func currentBuild() buildInfo {
	b := buildInfo{Version: Version, Commit: Commit, BuildDate: BuildDate, GoVersion: runtime.Version()}
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return b
	}
	for _, s := range info.Settings {
		switch s.Key {
		case "vcs.revision":
			if b.Commit == "" && len(s.Value) >= 7 {
				b.Commit = s.Value[:7]
			}
		case "vcs.time":
			if b.BuildDate == "" {
				b.BuildDate = s.Value
			}
		}
	}
	return b
}

func (b buildInfo) String() string {
	s := "clause " + b.Version
	if b.Commit != "" {
		s += " (" + b.Commit + ")"
	}
	if b.BuildDate != "" {
		s += " built " + b.BuildDate
	}
	return s
}

// versionString is the line printed by `version` and the --version global.
func versionString() string { return currentBuild().String() }

func writeBuild(w io.Writer, b buildInfo, format string) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(b)
	case "yaml":
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(b)
	case "text", "":
		_, err := fmt.Fprintln(w, b)
		return err
	}
	return fmt.Errorf("unknown output format %q (want text, json or yaml)", format)
}

func newVersionCmd() *cobra.Command {
	var output string
	c := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  "Print the version, git commit, build date and Go version of this clause binary.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeBuild(cmd.OutOrStdout(), currentBuild(), output)
		},
	}
	c.Flags().StringVarP(&output, "output", "o", "text", "Output format: text, json, yaml")
	return c
}
