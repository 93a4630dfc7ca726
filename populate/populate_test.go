package populate_test

import (
	"reflect"
	"testing"

	"github.com/aallbrig/clause/models"
	"github.com/aallbrig/clause/populate"
)

func option(name, alias string, typ models.ValueType) models.Option {
	return models.Option{Argument: models.Argument{Name: name, Type: typ}, ShortAlias: alias}
}

func positional(name string) models.Positional {
	return models.Positional{Argument: models.Argument{Name: name}}
}

func globalShape(typ models.ValueType) models.Shape {
	return models.ShapeOf(&models.GlobalModifierCommand{GlobalCommand: models.GlobalCommand{
		Base:     models.Base{Name: "color"},
		Argument: &models.GlobalArgument{Argument: models.Argument{Name: "enabled", Type: typ}},
	}})
}

func TestPopulate(t *testing.T) {
	tests := []struct {
		name        string
		shape       models.Shape
		tokens      []string
		wantValues  models.Args
		wantUnused  []string
		wantMissing []string
	}{
		{
			name:       "round trip",
			shape:      models.Shape{Options: []models.Option{option("opt", "", models.TypeString)}, Positionals: []models.Positional{positional("pos")}},
			tokens:     []string{"--opt", "v", "pos"},
			wantValues: models.Args{"opt": "v", "pos": "pos"},
		},
		{
			name:       "array merge",
			shape:      models.Shape{Options: []models.Option{option("foo", "f", models.TypeString)}},
			tokens:     []string{"--foo", "a", "--foo", "b"},
			wantValues: models.Args{"foo": []string{"a", "b"}},
		},
		{
			name:       "array merge inline and alias",
			shape:      models.Shape{Options: []models.Option{option("foo", "f", models.TypeString)}},
			tokens:     []string{"--foo=a", "-f", "b"},
			wantValues: models.Args{"foo": []string{"a", "b"}},
		},
		{
			name:       "alias inline value",
			shape:      models.Shape{Options: []models.Option{option("foo", "f", models.TypeString)}},
			tokens:     []string{"-f=x=y"},
			wantValues: models.Args{"foo": "x=y"},
		},
		{
			name:       "implicit boolean before positional",
			shape:      models.Shape{Options: []models.Option{option("verbose", "", models.TypeBool)}, Positionals: []models.Positional{positional("task")}},
			tokens:     []string{"--verbose", "run"},
			wantValues: models.Args{"verbose": true, "task": "run"},
		},
		{
			name:       "explicit boolean value",
			shape:      models.Shape{Options: []models.Option{option("verbose", "", models.TypeBool)}, Positionals: []models.Positional{positional("task")}},
			tokens:     []string{"--verbose", "false", "run"},
			wantValues: models.Args{"verbose": "false", "task": "run"},
		},
		{
			name:       "implicit boolean at end of input",
			shape:      models.Shape{Options: []models.Option{option("verbose", "v", models.TypeBool)}},
			tokens:     []string{"-v"},
			wantValues: models.Args{"verbose": true},
		},
		{
			name:        "missing value at end of input",
			shape:       models.Shape{Options: []models.Option{option("out", "", models.TypeString)}},
			tokens:      []string{"--out"},
			wantValues:  models.Args{},
			wantMissing: []string{"out"},
		},
		{
			name:        "missing value before another option",
			shape:       models.Shape{Options: []models.Option{option("out", "", models.TypeString), option("force", "", models.TypeBool)}},
			tokens:      []string{"--out", "--force"},
			wantValues:  models.Args{"force": true},
			wantMissing: []string{"out"},
		},
		{
			name: "varargs boundary",
			shape: models.Shape{Positionals: []models.Positional{
				positional("foo"),
				{Argument: models.Argument{Name: "bar"}, IsVarArgMultiple: true},
			}},
			tokens:     []string{"f", "b1", "b2"},
			wantValues: models.Args{"foo": "f", "bar": []string{"b1", "b2"}},
		},
		{
			name: "vararg interleaved with options",
			shape: models.Shape{
				Options: []models.Option{option("tag", "t", models.TypeString)},
				Positionals: []models.Positional{
					{Argument: models.Argument{Name: "files"}, IsVarArgMultiple: true},
				},
			},
			tokens:     []string{"a", "-t", "x", "b", "--tag=y", "c"},
			wantValues: models.Args{"files": []string{"a", "b", "c"}, "tag": []string{"x", "y"}},
		},
		{
			name:       "extra positionals are unused",
			shape:      models.Shape{Positionals: []models.Positional{positional("one")}},
			tokens:     []string{"a", "b", "c"},
			wantValues: models.Args{"one": "a"},
			wantUnused: []string{"b", "c"},
		},
		{
			name:       "unknown option flushes the rest",
			shape:      models.Shape{Options: []models.Option{option("known", "", models.TypeString)}, Positionals: []models.Positional{positional("p")}},
			tokens:     []string{"--nope", "p1", "--known", "v"},
			wantValues: models.Args{},
			wantUnused: []string{"--nope", "p1", "--known", "v"},
		},
		{
			name:        "unknown option after pending string",
			shape:       models.Shape{Options: []models.Option{option("out", "", models.TypeString)}},
			tokens:      []string{"--out", "--nope"},
			wantValues:  models.Args{},
			wantUnused:  []string{"--nope"},
			wantMissing: []string{"out"},
		},
		{
			name:       "long form does not match alias",
			shape:      models.Shape{Options: []models.Option{option("foo", "f", models.TypeString)}},
			tokens:     []string{"--f", "x"},
			wantValues: models.Args{},
			wantUnused: []string{"--f", "x"},
		},
		{
			name:       "lone dash is a value",
			shape:      models.Shape{Positionals: []models.Positional{positional("input")}},
			tokens:     []string{"-"},
			wantValues: models.Args{"input": "-"},
		},
		{
			name:       "repeated boolean",
			shape:      models.Shape{Options: []models.Option{option("v", "", models.TypeBool)}},
			tokens:     []string{"--v", "--v=false"},
			wantValues: models.Args{"v": []any{true, "false"}},
		},
		{
			name: "long name wins over another option's alias",
			shape: models.Shape{
				Options:     []models.Option{option("verbose", "v", models.TypeBool), option("v", "", models.TypeString)},
				Positionals: []models.Positional{{Argument: models.Argument{Name: "rest"}, IsVarArgOptional: true}},
			},
			tokens:     []string{"--v", "value"},
			wantValues: models.Args{"v": "value"},
		},
		{
			name:       "negative number for number option",
			shape:      models.Shape{Options: []models.Option{option("count", "c", models.TypeNumber)}},
			tokens:     []string{"--count", "-5"},
			wantValues: models.Args{"count": "-5"},
		},
		{
			name:        "negative number for string option is an option",
			shape:       models.Shape{Options: []models.Option{option("out", "", models.TypeString)}},
			tokens:      []string{"--out", "-5"},
			wantValues:  models.Args{},
			wantUnused:  []string{"-5"},
			wantMissing: []string{"out"},
		},
		{
			name:       "negative number for number positional",
			shape:      models.Shape{Positionals: []models.Positional{{Argument: models.Argument{Name: "offset", Type: models.TypeNumber}}}},
			tokens:     []string{"-2.5"},
			wantValues: models.Args{"offset": "-2.5"},
		},
		{
			name:       "boolean global argument leaves a non-boolean token",
			shape:      globalShape(models.TypeBool),
			tokens:     []string{"bob", "x"},
			wantValues: models.Args{"enabled": true},
			wantUnused: []string{"bob", "x"},
		},
		{
			name:       "boolean global argument takes an explicit value",
			shape:      globalShape(models.TypeBool),
			tokens:     []string{"false", "x"},
			wantValues: models.Args{"enabled": "false"},
			wantUnused: []string{"x"},
		},
		{
			name:       "string global argument takes any token",
			shape:      globalShape(models.TypeString),
			tokens:     []string{"bob"},
			wantValues: models.Args{"enabled": "bob"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := populate.Populate(tt.shape, tt.tokens)
			if !reflect.DeepEqual(res.Values, tt.wantValues) {
				t.Errorf("Values = %#v, want %#v", res.Values, tt.wantValues)
			}
			if !reflect.DeepEqual(res.Unused, tt.wantUnused) {
				t.Errorf("Unused = %#v, want %#v", res.Unused, tt.wantUnused)
			}
			if !reflect.DeepEqual(res.Missing, tt.wantMissing) {
				t.Errorf("Missing = %#v, want %#v", res.Missing, tt.wantMissing)
			}
		})
	}
}

func TestStepBooleanLookaheadDoesNotConsume(t *testing.T) {
	shape := models.Shape{Options: []models.Option{option("verbose", "", models.TypeBool)}}
	m, events, consumed := populate.Step(shape, populate.Machine{}, "--verbose")
	if !consumed || m.State != populate.OptionNameFound || len(events) != 0 {
		t.Fatalf("after --verbose: state=%v events=%v consumed=%v", m.State, events, consumed)
	}
	m, events, consumed = populate.Step(shape, m, "run")
	if consumed {
		t.Error("lookahead token must not be consumed")
	}
	if m.State != populate.Empty {
		t.Errorf("state = %v, want Empty", m.State)
	}
	if len(events) != 1 || events[0].Kind != populate.EventImplicitTrue || events[0].Name != "verbose" {
		t.Errorf("events = %+v", events)
	}
}

func TestStepStates(t *testing.T) {
	shape := models.Shape{
		Options:     []models.Option{option("out", "o", models.TypeString)},
		Positionals: []models.Positional{positional("p")},
	}
	steps := []struct {
		token string
		want  populate.State
	}{
		{"-o", populate.OptionNameFound},
		{"file", populate.OptionNameAndValueFound},
		{"x", populate.PositionalFound},
		{"--bogus", populate.UnexpectedOptionFound},
		{"y", populate.UnexpectedOptionFound},
	}
	var m populate.Machine
	for _, s := range steps {
		var consumed bool
		m, _, consumed = populate.Step(shape, m, s.token)
		if !consumed {
			t.Fatalf("%q not consumed", s.token)
		}
		if m.State != s.want {
			t.Errorf("after %q: state = %v, want %v", s.token, m.State, s.want)
		}
	}
	if ev := populate.Flush(shape, m); ev != nil {
		t.Errorf("Flush in flush mode = %v, want nil", ev)
	}
}
