package manifest

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/aallbrig/clause/models"
)

// EnvPrefix starts the name of every argument variable passed to exec commands.
const EnvPrefix = "CLAUSE_ARG_"

// EnvName returns the environment variable an argument is exported as.
func EnvName(arg string) string {
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(arg, "-", "_"))
}

// Environ returns the argument variables for args, sorted by name.
func Environ(args models.Args) []string {
	env := make([]string, 0, len(args))
	for k, v := range args {
		env = append(env, EnvName(k)+"="+models.Format(v))
	}
	sort.Strings(env)
	return env
}

var refRe = regexp.MustCompile(`\$\{([A-Za-z0-9_-]+)\}`)

// Expand substitutes ${name} references to arguments in argv. An element that
// is exactly ${name} expands to one element per value of the argument, or to
// nothing when the argument is absent. Other text, including $VAR references
// meant for a shell, is left alone.
func Expand(argv []string, args models.Args) []string {
	out := make([]string, 0, len(argv))
	for _, a := range argv {
		if m := refRe.FindStringSubmatch(a); m != nil && m[0] == a {
			v, ok := args[m[1]]
			if !ok {
				continue
			}
			for _, e := range models.Elements(v) {
				out = append(out, models.Format(e))
			}
			continue
		}
		out = append(out, refRe.ReplaceAllStringFunc(a, func(ref string) string {
			if v, ok := args[ref[2:len(ref)-1]]; ok {
				return models.Format(v)
			}
			return ref
		}))
	}
	return out
}

// resolveBinary finds the executable for name: PATH first, then dir.
func resolveBinary(name, dir string) (string, error) {
	if strings.ContainsRune(name, filepath.Separator) {
		if !filepath.IsAbs(name) && dir != "" {
			name = filepath.Join(dir, name)
		}
		return name, nil
	}
	if p, err := exec.LookPath(name); err == nil {
		return p, nil
	}
	if dir != "" {
		candidate := filepath.Join(dir, name)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate, nil
		}
	}
	return name, fmt.Errorf("command %q not found in PATH or %s", name, dir)
}

func execRun(label string, argv []string, opts Options) models.RunFunc {
	return func(ctx context.Context, args models.Args, _ models.Env) error {
		expanded := Expand(argv, args)
		if len(expanded) == 0 {
			return fmt.Errorf("exec for %s expands to an empty command", label)
		}
		bin, err := resolveBinary(expanded[0], opts.Dir)
		if err != nil {
			return err
		}
		cmd := exec.CommandContext(ctx, bin, expanded[1:]...) //nolint:gosec
		cmd.Dir = opts.Dir
		cmd.Env = append(os.Environ(), "CLAUSE_COMMAND="+label)
		cmd.Env = append(cmd.Env, Environ(args)...)
		cmd.Stdout = opts.Out
		cmd.Stderr = opts.Err
		if err := cmd.Run(); err != nil {
			return fmt.Errorf("%s: %w", strings.Join(expanded, " "), err)
		}
		return nil
	}
}

// echoRun prints the command and its arguments as YAML.
func echoRun(label string, w io.Writer) models.RunFunc {
	return func(_ context.Context, args models.Args, _ models.Env) error {
		doc := struct {
			Command string      `yaml:"command"`
			Args    models.Args `yaml:"args,omitempty"`
		}{Command: label, Args: args}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return err
		}
		return enc.Close()
	}
}
