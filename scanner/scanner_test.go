package scanner_test

import (
	"context"
	"reflect"
	"testing"

	"github.com/aallbrig/clause/models"
	"github.com/aallbrig/clause/registry"
	"github.com/aallbrig/clause/scanner"
)

func noop(context.Context, models.Args, models.Env) error { return nil }

func newScanner(t *testing.T) *scanner.Scanner {
	t.Helper()
	r := registry.New()
	cmds := []models.Command{
		&models.SubCommand{Base: models.Base{Name: "alpha", Run: noop}, Aliases: []string{"a"}},
		&models.GroupCommand{Base: models.Base{Name: "remote"}, Members: []*models.SubCommand{
			{Base: models.Base{Name: "add", Run: noop}},
		}},
		&models.GlobalCommand{Base: models.Base{Name: "beta", Run: noop}, ShortAlias: "b",
			Argument: &models.GlobalArgument{Argument: models.Argument{Name: "val"}}},
		&models.GlobalModifierCommand{GlobalCommand: models.GlobalCommand{Base: models.Base{Name: "alpha", Run: noop}}, RunPriority: 1},
	}
	for _, c := range cmds {
		if err := r.Add(c); err != nil {
			t.Fatalf("Add(%s): %v", models.Name(c), err)
		}
	}
	return scanner.New(r)
}

type clause struct {
	name string
	kind models.Kind
	args []string
}

func summarize(res scanner.Result) []clause {
	out := make([]clause, len(res.Clauses))
	for i, c := range res.Clauses {
		out[i] = clause{name: c.Name(), kind: c.Command.Kind(), args: c.PotentialArgs}
	}
	return out
}

func TestScan(t *testing.T) {
	tests := []struct {
		name        string
		tokens      []string
		wantLeading []string
		want        []clause
	}{
		{
			name:        "segmentation",
			tokens:      []string{"x", "alpha", "1", "--beta", "2", "y"},
			wantLeading: []string{"x"},
			want: []clause{
				{"alpha", models.KindSub, []string{"1"}},
				{"beta", models.KindGlobal, []string{"2", "y"}},
			},
		},
		{
			name:   "inline global value",
			tokens: []string{"--beta=2", "alpha"},
			want: []clause{
				{"beta", models.KindGlobal, []string{"2"}},
				{"alpha", models.KindSub, nil},
			},
		},
		{
			name:   "short alias",
			tokens: []string{"-b", "v", "a", "--x"},
			want: []clause{
				{"beta", models.KindGlobal, []string{"v"}},
				{"alpha", models.KindSub, []string{"--x"}},
			},
		},
		{
			name:   "long form of short alias is not a global",
			tokens: []string{"alpha", "--b"},
			want:   []clause{{"alpha", models.KindSub, []string{"--b"}}},
		},
		{
			name:   "bare word prefers the sub-command",
			tokens: []string{"alpha", "--alpha"},
			want: []clause{
				{"alpha", models.KindSub, nil},
				{"alpha", models.KindGlobalModifier, nil},
			},
		},
		{
			name:   "bare global name",
			tokens: []string{"beta", "3"},
			want:   []clause{{"beta", models.KindGlobal, []string{"3"}}},
		},
		{
			name:   "qualified member",
			tokens: []string{"remote:add", "origin"},
			want:   []clause{{"remote:add", models.KindSub, []string{"origin"}}},
		},
		{
			name:   "two token member",
			tokens: []string{"remote", "add", "origin"},
			want:   []clause{{"remote:add", models.KindSub, []string{"origin"}}},
		},
		{
			name:   "group without member",
			tokens: []string{"remote", "nope"},
			want:   []clause{{"remote", models.KindGroup, []string{"nope"}}},
		},
		{
			name:        "no commands",
			tokens:      []string{"x", "--y", "z"},
			wantLeading: []string{"x", "--y", "z"},
			want:        []clause{},
		},
	}
	s := newScanner(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := s.Scan(tt.tokens)
			if !reflect.DeepEqual(res.UnusedLeadingArgs, tt.wantLeading) {
				t.Errorf("UnusedLeadingArgs = %#v, want %#v", res.UnusedLeadingArgs, tt.wantLeading)
			}
			if got := summarize(res); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("clauses = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestScanKeepsWrittenToken(t *testing.T) {
	res := newScanner(t).Scan([]string{"--beta=2"})
	if len(res.Clauses) != 1 || res.Clauses[0].Token != "--beta=2" {
		t.Fatalf("clauses = %+v", res.Clauses)
	}
}
