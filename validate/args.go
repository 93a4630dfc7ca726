package validate

import (
	"strings"

	"github.com/aallbrig/clause/models"
)

// Result is the typed outcome of validating one clause.
type Result struct {
	Args    models.Args
	Invalid []*ArgError
}

// Valid reports whether no argument was rejected.
func (r Result) Valid() bool { return len(r.Invalid) == 0 }

// Args validates populated values against shape.
//
// values are the raw values read from the clause's tokens and missing names
// the options that were given without a value. seed holds the per-command
// configuration; explicit values win over it and it wins over declared
// defaults. Neither seed nor the definitions in shape are modified.
func Args(shape models.Shape, values models.Args, missing []string, seed models.Args) Result {
	res := Result{Args: models.Args{}}
	merged := models.Args{}
	for k, v := range seed {
		merged[k] = models.CloneValue(v)
	}
	for k, v := range values {
		merged[k] = v
	}
	skip := make(map[string]bool, len(missing))
	for _, name := range missing {
		if skip[name] {
			continue
		}
		skip[name] = true
		res.Invalid = append(res.Invalid, &ArgError{Kind: MissingValue, Arg: name, Expected: "a value"})
	}

	for _, o := range shape.Options {
		if skip[o.Name] {
			continue
		}
		v, ok := merged[o.Name]
		if !ok {
			if o.DefaultValue == nil {
				if o.Required() {
					res.Invalid = append(res.Invalid, &ArgError{Kind: MissingValue, Arg: o.Name, Expected: "a " + o.Type.String()})
				}
				continue
			}
			v = models.CloneValue(o.DefaultValue)
		}
		res.check(o.Argument, v, o.IsArray)
	}

	for _, p := range shape.Positionals {
		v, ok := merged[p.Name]
		if !ok {
			if g := shape.Global; g != nil {
				switch {
				case g.DefaultValue != nil:
					v = models.CloneValue(g.DefaultValue)
				case g.Type == models.TypeBool:
					v = true
				case g.IsOptional:
					continue
				default:
					res.Invalid = append(res.Invalid, &ArgError{Kind: MissingValue, Arg: p.Name, Expected: "a " + p.Type.String()})
					continue
				}
			} else {
				if !p.IsVarArgOptional {
					res.Invalid = append(res.Invalid, &ArgError{Kind: MissingValue, Arg: p.Name, Expected: "a " + p.Type.String()})
				}
				continue
			}
		}
		res.check(p.Argument, v, p.IsVarArgMultiple)
	}
	return res
}

// check coerces v to the declared type of a and records it or an error.
func (r *Result) check(a models.Argument, v models.Value, multiple bool) {
	if !multiple {
		if models.IsSequence(v) {
			r.Invalid = append(r.Invalid, &ArgError{Kind: IllegalMultipleValues, Arg: a.Name, Got: v, Expected: "a single " + a.Type.String()})
			return
		}
		typed, err := models.Coerce(v, a.Type)
		if err != nil {
			r.Invalid = append(r.Invalid, &ArgError{Kind: IncorrectType, Arg: a.Name, Got: v, Expected: a.Type.String()})
			return
		}
		if len(a.ValidValues) > 0 && !models.Contains(a.ValidValues, typed, a.Type) {
			r.Invalid = append(r.Invalid, &ArgError{Kind: IllegalValue, Arg: a.Name, Got: v, Expected: oneOf(a.ValidValues)})
			return
		}
		r.Args[a.Name] = typed
		return
	}

	typed, err := models.CoerceSequence(v, a.Type)
	if err != nil {
		r.Invalid = append(r.Invalid, &ArgError{Kind: IncorrectType, Arg: a.Name, Got: v, Expected: "a list of " + a.Type.String()})
		return
	}
	if len(a.ValidValues) > 0 {
		for _, e := range models.Elements(typed) {
			if !models.Contains(a.ValidValues, e, a.Type) {
				r.Invalid = append(r.Invalid, &ArgError{Kind: IllegalValue, Arg: a.Name, Got: e, Expected: oneOf(a.ValidValues)})
				return
			}
		}
	}
	r.Args[a.Name] = typed
}

func oneOf(valid []models.Value) string {
	parts := make([]string, len(valid))
	for i, v := range valid {
		parts[i] = models.Format(v)
	}
	return "one of " + strings.Join(parts, ", ")
}
