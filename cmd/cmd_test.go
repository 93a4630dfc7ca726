package cmd_test

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aallbrig/clause/cmd"
)

const demoManifest = `
name: demo
default: status
subcommands:
  - name: deploy
    options:
      - name: region
        alias: r
        valid: [eu, us]
      - name: force
        type: boolean
        optional: true
    positionals:
      - name: target
  - name: status
  - name: fail
    exec: [sh, -c, 'exit 3']
groups:
  - name: remote
    members:
      - name: add
        positionals:
          - name: url
`

// setup isolates HOME and the history dir and writes the demo manifest.
func setup(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("HOME", dir)
	t.Setenv("CLAUSE_HISTORY_DIR", filepath.Join(dir, "history"))
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	return writeFile(t, dir, "clause.yaml", demoManifest)
}

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func runCmd(args ...string) (string, error) {
	c := cmd.NewRootCmd()
	buf := &bytes.Buffer{}
	c.SetOut(buf)
	c.SetErr(buf)
	c.SetArgs(args)
	err := c.Execute()
	return buf.String(), err
}

func exitCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		return cmd.ExitSuccess
	}
	var exitErr *cmd.ExitError
	if !errors.As(err, &exitErr) {
		t.Fatalf("error %v is not an ExitError", err)
	}
	return exitErr.Code
}

func TestVersion(t *testing.T) {
	out, err := runCmd("version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.Contains(out, "clause") {
		t.Errorf("version output = %q, want 'clause ...'", out)
	}
}

func TestVersion_output(t *testing.T) {
	tests := []struct {
		format string
		want   string
	}{
		{"json", `"version": "dev"`},
		{"yaml", "version: dev"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			out, err := runCmd("version", "--output", tt.format)
			if err != nil {
				t.Fatalf("version error: %v", err)
			}
			if !strings.Contains(out, tt.want) || !strings.Contains(out, "go_version") {
				t.Errorf("version output = %q, want %q", out, tt.want)
			}
		})
	}
	if _, err := runCmd("version", "-o", "xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestRootHelp(t *testing.T) {
	out, err := runCmd("--help")
	if err != nil {
		t.Fatalf("--help error: %v", err)
	}
	if !strings.Contains(out, "clause") {
		t.Errorf("help output missing 'clause': %q", out)
	}
}

func TestExec(t *testing.T) {
	tests := []struct {
		name string
		args []string
		code int
		want []string
	}{
		{
			name: "sub-command",
			args: []string{"exec", "deploy", "--region", "eu", "web"},
			want: []string{"command: deploy", "region: eu", "target: web"},
		},
		{
			name: "short alias and implicit boolean",
			args: []string{"exec", "deploy", "-r", "us", "--force", "web"},
			want: []string{"region: us", "force: true", "target: web"},
		},
		{
			name: "group member",
			args: []string{"exec", "remote", "add", "git@example.com"},
			want: []string{"command: remote:add", "url: git@example.com"},
		},
		{
			name: "default command",
			args: []string{"exec"},
			want: []string{"command: status"},
		},
		{
			name: "built-in global",
			args: []string{"exec", "--", "--version"},
			want: []string{"clause dev"},
		},
		{
			name: "built-in modifier",
			args: []string{"exec", "--", "--log-level", "error", "status"},
			want: []string{"command: status"},
		},
		{
			name: "unused token warns",
			args: []string{"--no-color", "exec", "status", "extra"},
			want: []string{"warning: unused argument: extra", "command: status"},
		},
		{
			name: "illegal value",
			args: []string{"--no-color", "exec", "deploy", "--region", "mars", "web"},
			code: cmd.ExitParseError,
			want: []string{"error: deploy: invalid arguments"},
		},
		{
			name: "two primaries",
			args: []string{"--no-color", "exec", "status", "deploy"},
			code: cmd.ExitParseError,
			want: []string{"more than one command specified"},
		},
		{
			name: "group without member",
			args: []string{"--no-color", "exec", "remote"},
			code: cmd.ExitParseError,
			want: []string{"expected one of remote:add"},
		},
		{
			name: "strict",
			args: []string{"--no-color", "--strict", "exec", "status", "extra"},
			code: cmd.ExitParseError,
			want: []string{"unused arguments: extra"},
		},
		{
			name: "command failure",
			args: []string{"--no-color", "exec", "fail"},
			code: cmd.ExitCommandError,
			want: []string{"error executing fail"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			manifest := setup(t)
			out, err := runCmd(append([]string{"--manifest", manifest}, tt.args...)...)
			if got := exitCode(t, err); got != tt.code {
				t.Fatalf("exit code = %d, want %d\n%s", got, tt.code, out)
			}
			for _, want := range tt.want {
				if !strings.Contains(out, want) {
					t.Errorf("output missing %q:\n%s", want, out)
				}
			}
		})
	}
}

func TestExec_logLevelModifier(t *testing.T) {
	manifest := setup(t)
	if _, err := runCmd("--manifest", manifest, "exec", "--", "--log-level", "error", "status"); err != nil {
		t.Fatalf("exec error: %v", err)
	}
	if zerolog.GlobalLevel() != zerolog.ErrorLevel {
		t.Errorf("global level = %v, want error", zerolog.GlobalLevel())
	}
}

func TestExec_configSeedsArguments(t *testing.T) {
	manifest := setup(t)
	cfg := writeFile(t, filepath.Dir(manifest), "config.yaml", "commands:\n  deploy:\n    region: us\n")
	out, err := runCmd("--manifest", manifest, "--config", cfg, "exec", "deploy", "web")
	if err != nil {
		t.Fatalf("exec error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "region: us") {
		t.Errorf("config value not used:\n%s", out)
	}
}

func TestExec_withoutManifest(t *testing.T) {
	setup(t)
	out, err := runCmd("exec", "--", "--version")
	if err != nil {
		t.Fatalf("exec error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "clause") {
		t.Errorf("version output = %q", out)
	}
}

func TestExec_manifestOverridesBuiltin(t *testing.T) {
	dir := filepath.Dir(setup(t))
	manifest := writeFile(t, dir, "override.yaml", "globals:\n  - name: version\n")
	out, err := runCmd("--manifest", manifest, "exec", "--", "--version")
	if err != nil {
		t.Fatalf("exec error: %v\n%s", err, out)
	}
	if !strings.Contains(out, "command: version") {
		t.Errorf("manifest global should win over the built-in:\n%s", out)
	}
}

func TestExec_badManifest(t *testing.T) {
	dir := filepath.Dir(setup(t))
	manifest := writeFile(t, dir, "bad.yaml", "subcommands:\n  - name: has space\n")
	if _, err := runCmd("--manifest", manifest, "exec", "x"); err == nil {
		t.Error("expected registration error")
	}
}

func TestCommands(t *testing.T) {
	manifest := setup(t)
	out, err := runCmd("--manifest", manifest, "--no-color", "commands")
	if err != nil {
		t.Fatalf("commands error: %v", err)
	}
	for _, want := range []string{"demo", "deploy", "remote", "--log-level", "--version, -V"} {
		if !strings.Contains(out, want) {
			t.Errorf("commands output missing %q:\n%s", want, out)
		}
	}
}

func TestCommands_json(t *testing.T) {
	manifest := setup(t)
	out, err := runCmd("--manifest", manifest, "commands", "--output=json", "--filter=deploy")
	if err != nil {
		t.Fatalf("commands error: %v", err)
	}
	if !strings.Contains(out, `"name": "demo"`) || !strings.Contains(out, `"name": "deploy"`) {
		t.Errorf("unexpected JSON output:\n%s", out)
	}
	if strings.Contains(out, `"name": "status"`) {
		t.Errorf("filtered command in output:\n%s", out)
	}
}

func TestHistory(t *testing.T) {
	manifest := setup(t)
	if _, err := runCmd("--manifest", manifest, "exec", "deploy", "--region", "eu", "web"); err != nil {
		t.Fatalf("exec error: %v", err)
	}
	runCmd("--manifest", manifest, "exec", "remote")

	out, err := runCmd("--manifest", manifest, "history", "list")
	if err != nil {
		t.Fatalf("history list error: %v", err)
	}
	for _, want := range []string{"success", "deploy --region eu web", "parse-error"} {
		if !strings.Contains(out, want) {
			t.Errorf("history list missing %q:\n%s", want, out)
		}
	}

	out, _ = runCmd("--manifest", manifest, "history", "commands")
	if strings.TrimSpace(out) != "deploy" {
		t.Errorf("history commands = %q, want deploy", out)
	}

	out, err = runCmd("--manifest", manifest, "history", "clear")
	if err != nil || !strings.Contains(out, "History cleared.") {
		t.Fatalf("history clear = %q, %v", out, err)
	}
	out, _ = runCmd("--manifest", manifest, "history", "list")
	if !strings.Contains(out, "(history is empty)") {
		t.Errorf("history not cleared:\n%s", out)
	}
}

func TestHistory_disabled(t *testing.T) {
	manifest := setup(t)
	if _, err := runCmd("--manifest", manifest, "--no-history", "history", "list"); err == nil {
		t.Error("expected error with history disabled")
	}
}
