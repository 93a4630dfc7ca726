// Package populate turns the tokens of one clause into raw argument values.
//
// Population is driven by a small state machine. Step is a pure function of
// (machine, token) returning the next machine, the events the token produced,
// and whether the token was consumed. A token that is not consumed is fed to
// Step again; this is how a boolean option gives up its would-be value:
// "--verbose run" yields verbose=true and then "run" as a positional.
package populate

import (
	"strings"

	"github.com/aallbrig/clause/models"
)

// State is the populator's position in its state machine.
type State int

const (
	Empty State = iota
	OptionNameFound
	OptionNameAndValueFound
	PositionalFound
	UnexpectedOptionFound
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case Empty:
		return "Empty"
	case OptionNameFound:
		return "OptionNameFound"
	case OptionNameAndValueFound:
		return "OptionNameAndValueFound"
	case PositionalFound:
		return "PositionalFound"
	case UnexpectedOptionFound:
		return "UnexpectedOptionFound"
	}
	return "Unknown"
}

// EventKind classifies what a step emitted.
type EventKind int

const (
	// EventValue assigns Raw to the argument Name.
	EventValue EventKind = iota
	// EventImplicitTrue resolves a boolean option given without a value.
	EventImplicitTrue
	// EventMissing reports an option that never received its value.
	EventMissing
	// EventUnused reports a token no argument accepted.
	EventUnused
)

// Event is one output of a step.
type Event struct {
	Kind EventKind
	Name string
	Raw  string
	// Multiple is set for values of a vararg-multiple positional.
	Multiple bool
}

// Machine is the populator state carried between steps.
type Machine struct {
	State State
	// Pending is the option waiting for its value in OptionNameFound.
	Pending models.Option
	// Slot is the index of the next positional to fill.
	Slot int
}

// Step advances m by one token.
func Step(shape models.Shape, m Machine, token string) (Machine, []Event, bool) {
	if m.State == UnexpectedOptionFound {
		return m, []Event{{Kind: EventUnused, Raw: token}}, true
	}

	if m.State == OptionNameFound {
		opt := m.Pending
		next := Machine{State: Empty, Slot: m.Slot}
		if isOptionToken(token) && !isNumberFor(token, opt.Type) {
			return next, []Event{flushPending(opt)}, false
		}
		if opt.Type == models.TypeBool && token != "true" && token != "false" {
			return next, []Event{{Kind: EventImplicitTrue, Name: opt.Name}}, false
		}
		next.State = OptionNameAndValueFound
		return next, []Event{{Kind: EventValue, Name: opt.Name, Raw: token}}, true
	}

	if isOptionToken(token) && !isNumberFor(token, nextPositionalType(shape, m.Slot)) {
		name, value, hasValue, long := splitOption(token)
		opt, ok := lookup(shape, name, long)
		if !ok {
			return Machine{State: UnexpectedOptionFound, Slot: m.Slot}, []Event{{Kind: EventUnused, Raw: token}}, true
		}
		if hasValue {
			return Machine{State: OptionNameAndValueFound, Slot: m.Slot}, []Event{{Kind: EventValue, Name: opt.Name, Raw: value}}, true
		}
		return Machine{State: OptionNameFound, Pending: opt, Slot: m.Slot}, nil, true
	}

	if m.Slot >= len(shape.Positionals) {
		return m, []Event{{Kind: EventUnused, Raw: token}}, true
	}
	p := shape.Positionals[m.Slot]
	next := Machine{State: PositionalFound, Slot: m.Slot}
	if !p.IsVarArgMultiple {
		next.Slot++
	}
	// A boolean global argument takes only "true" or "false"; anything else
	// is left for whoever comes next.
	if g := shape.Global; g != nil && g.Type == models.TypeBool && token != "true" && token != "false" {
		return next, []Event{{Kind: EventImplicitTrue, Name: p.Name}}, false
	}
	return next, []Event{{Kind: EventValue, Name: p.Name, Raw: token, Multiple: p.IsVarArgMultiple}}, true
}

// Flush ends the input. A pending option resolves by the same rules as mid-stream.
func Flush(_ models.Shape, m Machine) []Event {
	if m.State != OptionNameFound {
		return nil
	}
	return []Event{flushPending(m.Pending)}
}

func flushPending(opt models.Option) Event {
	if opt.Type == models.TypeBool {
		return Event{Kind: EventImplicitTrue, Name: opt.Name}
	}
	return Event{Kind: EventMissing, Name: opt.Name}
}

// isOptionToken reports whether token looks like an option. A lone "-" is a
// value (the usual stdin placeholder).
func isOptionToken(token string) bool {
	return len(token) > 1 && token[0] == '-'
}

// isNumberFor reports whether token is a negative number that should be read
// as a value of type t rather than as an option.
func isNumberFor(token string, t models.ValueType) bool {
	if t != models.TypeNumber {
		return false
	}
	_, err := models.Coerce(token, models.TypeNumber)
	return err == nil
}

func nextPositionalType(shape models.Shape, slot int) models.ValueType {
	if slot >= len(shape.Positionals) {
		return models.TypeString
	}
	return shape.Positionals[slot].Type
}

// splitOption breaks --name=value or -a=value into its parts.
func splitOption(token string) (name, value string, hasValue, long bool) {
	long = strings.HasPrefix(token, "--")
	name = strings.TrimPrefix(token, "-")
	if long {
		name = strings.TrimPrefix(name, "-")
	}
	if idx := strings.Index(name, "="); idx >= 0 {
		return name[:idx], name[idx+1:], true, long
	}
	return name, "", false, long
}

func lookup(shape models.Shape, name string, long bool) (models.Option, bool) {
	for _, o := range shape.Options {
		if long && o.Name == name {
			return o, true
		}
		if !long && o.ShortAlias != "" && o.ShortAlias == name {
			return o, true
		}
	}
	return models.Option{}, false
}

// Result is the outcome of populating one clause.
type Result struct {
	// Values holds raw values: strings, true for implicit booleans, and
	// sequences for repeated options or vararg positionals.
	Values models.Args
	// Unused holds tokens no argument accepted, in input order.
	Unused []string
	// Missing names options that were given without a value.
	Missing []string
}

// Populate runs the state machine over tokens.
func Populate(shape models.Shape, tokens []string) Result {
	res := Result{Values: models.Args{}}
	var m Machine
	for i := 0; i < len(tokens); {
		next, events, consumed := Step(shape, m, tokens[i])
		res.apply(events)
		m = next
		if consumed {
			i++
		}
	}
	res.apply(Flush(shape, m))
	return res
}

func (r *Result) apply(events []Event) {
	for _, ev := range events {
		switch ev.Kind {
		case EventValue:
			if ev.Multiple {
				existing, _ := r.Values[ev.Name].([]string)
				r.Values[ev.Name] = append(existing, ev.Raw)
				continue
			}
			r.merge(ev.Name, ev.Raw)
		case EventImplicitTrue:
			r.merge(ev.Name, true)
		case EventMissing:
			r.Missing = append(r.Missing, ev.Name)
		case EventUnused:
			r.Unused = append(r.Unused, ev.Raw)
		}
	}
}

// merge records v for name; a second occurrence promotes the value to a sequence.
func (r *Result) merge(name string, v any) {
	existing, ok := r.Values[name]
	if !ok {
		r.Values[name] = v
		return
	}
	switch cur := existing.(type) {
	case []string:
		if s, isString := v.(string); isString {
			r.Values[name] = append(cur, s)
			return
		}
		r.Values[name] = append(models.Elements(cur), v)
	case []any:
		r.Values[name] = append(cur, v)
	default:
		prev, prevString := cur.(string)
		next, nextString := v.(string)
		if prevString && nextString {
			r.Values[name] = []string{prev, next}
			return
		}
		r.Values[name] = []any{cur, v}
	}
}
