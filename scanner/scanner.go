// Package scanner splits a token sequence into command clauses.
package scanner

import (
	"strings"

	"github.com/aallbrig/clause/models"
)

// Index is the read-only view of the registered commands the scanner needs.
// *registry.Registry satisfies it.
type Index interface {
	Lookup(name string) (models.Command, bool)
	LookupGlobal(nameOrAlias string) (models.Command, bool)
	Member(group, name string) (*models.SubCommand, bool)
}

// Clause is a command and the tokens that followed it up to the next command.
type Clause struct {
	Command models.Command
	// Group is set when Command is addressed as a member of a group.
	Group *models.GroupCommand
	// Token is the command token as it was written.
	Token         string
	PotentialArgs []string
}

// Name is the name the clause is reported under: the qualified name for group
// members, the command name otherwise.
func (c Clause) Name() string {
	if c.Group != nil {
		return models.QualifiedName(c.Group.Name, models.Name(c.Command))
	}
	return models.Name(c.Command)
}

// Result is the output of Scan.
type Result struct {
	Clauses           []Clause
	UnusedLeadingArgs []string
}

// Scanner segments tokens using an Index.
type Scanner struct {
	index Index
}

// New returns a Scanner over index.
func New(index Index) *Scanner {
	return &Scanner{index: index}
}

// tokenKind classifies a token before segmentation.
type tokenKind int

const (
	tokenRaw tokenKind = iota // bare word: command name or value
	tokenLong                 // --name[=value]
	tokenShort                // -alias[=value]
)

func classify(tok string) (name string, kind tokenKind) {
	switch {
	case len(tok) > 2 && strings.HasPrefix(tok, "--"):
		return tok[2:], tokenLong
	case len(tok) > 1 && tok[0] == '-' && tok[1] != '-':
		return tok[1:], tokenShort
	}
	return tok, tokenRaw
}

// token is a normalized input token. global is set for tokens that named a
// global command in option form.
type token struct {
	text   string
	global models.Command
}

// normalize rewrites --name, --name=value, -alias and -alias=value for known
// global commands into a marked command token, followed by the inline value
// as a separate token. Everything else passes through unchanged.
func (s *Scanner) normalize(tokens []string) []token {
	out := make([]token, 0, len(tokens))
	for _, tok := range tokens {
		name, kind := classify(tok)
		if kind == tokenRaw {
			out = append(out, token{text: tok})
			continue
		}
		value, hasValue := "", false
		if idx := strings.IndexByte(name, '='); idx >= 0 {
			name, value, hasValue = name[:idx], name[idx+1:], true
		}
		cmd, ok := s.index.LookupGlobal(name)
		if ok {
			g, _ := models.Global(cmd)
			if (kind == tokenLong && g.Name != name) || (kind == tokenShort && g.ShortAlias != name) {
				ok = false
			}
		}
		if !ok {
			out = append(out, token{text: tok})
			continue
		}
		out = append(out, token{text: tok, global: cmd})
		if hasValue {
			out = append(out, token{text: value})
		}
	}
	return out
}

// Scan segments tokens into clauses in discovery order. Unknown tokens never
// open or close a clause.
func (s *Scanner) Scan(tokens []string) Result {
	var res Result
	var open *Clause
	start := func(c Clause) {
		if open != nil {
			res.Clauses = append(res.Clauses, *open)
		}
		open = &c
	}
	carry := func(text string) {
		if open == nil {
			res.UnusedLeadingArgs = append(res.UnusedLeadingArgs, text)
			return
		}
		open.PotentialArgs = append(open.PotentialArgs, text)
	}

	norm := s.normalize(tokens)
	for i := 0; i < len(norm); i++ {
		tok := norm[i]
		if tok.global != nil {
			start(Clause{Command: tok.global, Token: tok.text})
			continue
		}
		if _, kind := classify(tok.text); kind != tokenRaw || tok.text == "" {
			carry(tok.text)
			continue
		}
		if group, member, ok := strings.Cut(tok.text, ":"); ok {
			if g, isGroup := s.lookupGroup(group); isGroup {
				if m, found := s.index.Member(group, member); found {
					start(Clause{Command: m, Group: g, Token: tok.text})
					continue
				}
			}
		}
		if cmd, ok := s.index.Lookup(tok.text); ok {
			if g, isGroup := cmd.(*models.GroupCommand); isGroup {
				if i+1 < len(norm) && norm[i+1].global == nil {
					if m, found := s.index.Member(g.Name, norm[i+1].text); found {
						start(Clause{Command: m, Group: g, Token: tok.text + " " + norm[i+1].text})
						i++
						continue
					}
				}
			}
			start(Clause{Command: cmd, Token: tok.text})
			continue
		}
		if cmd, ok := s.index.LookupGlobal(tok.text); ok && models.Name(cmd) == tok.text {
			start(Clause{Command: cmd, Token: tok.text})
			continue
		}
		carry(tok.text)
	}
	if open != nil {
		res.Clauses = append(res.Clauses, *open)
	}
	return res
}

func (s *Scanner) lookupGroup(name string) (*models.GroupCommand, bool) {
	cmd, ok := s.index.Lookup(name)
	if !ok {
		return nil, false
	}
	g, ok := cmd.(*models.GroupCommand)
	return g, ok
}
