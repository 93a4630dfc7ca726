// Package printer provides the diagnostic sinks the runner reports through.
package printer

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/aallbrig/clause/config"
)

// Printer receives human-readable diagnostic lines.
type Printer interface {
	Info(msg string)
	Warn(msg string)
	Error(msg string)
}

// Level is the severity of a diagnostic line.
type Level int

const (
	LevelInfo Level = iota
	LevelWarn
	LevelError
)

// String implements fmt.Stringer.
func (l Level) String() string {
	switch l {
	case LevelWarn:
		return "warning"
	case LevelError:
		return "error"
	}
	return "info"
}

// Console writes styled lines to a stream and mirrors them to a logger.
type Console struct {
	mu     sync.Mutex
	out    io.Writer
	log    zerolog.Logger
	colors config.ColorScheme
	styles styles
}

type styles struct {
	info  lipgloss.Style
	warn  lipgloss.Style
	error lipgloss.Style
}

var _ Printer = (*Console)(nil)

// NewConsole returns a Console writing to out.
func NewConsole(out io.Writer, colors config.ColorScheme, noColor bool, log zerolog.Logger) *Console {
	c := &Console{out: out, log: log, colors: colors}
	c.setStyles(noColor)
	return c
}

// SetNoColor switches styling off or back on.
func (c *Console) SetNoColor(noColor bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.setStyles(noColor)
}

func (c *Console) setStyles(noColor bool) {
	if noColor {
		c.styles = styles{info: lipgloss.NewStyle(), warn: lipgloss.NewStyle(), error: lipgloss.NewStyle()}
		return
	}
	c.styles = styles{
		info:  lipgloss.NewStyle().Faint(true),
		warn:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.colors.Warn)),
		error: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(c.colors.Invalid)),
	}
}

// Info implements Printer.
func (c *Console) Info(msg string) { c.print(LevelInfo, msg) }

// Warn implements Printer.
func (c *Console) Warn(msg string) { c.print(LevelWarn, msg) }

// Error implements Printer.
func (c *Console) Error(msg string) { c.print(LevelError, msg) }

func (c *Console) print(level Level, msg string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	msg = strings.ReplaceAll(msg, "\n", "; ")
	if level == LevelInfo {
		fmt.Fprintln(c.out, c.styles.info.Render(msg))
		return
	}
	c.log.Debug().Str("level", level.String()).Msg(msg)
	style := c.styles.warn
	if level == LevelError {
		style = c.styles.error
	}
	fmt.Fprintln(c.out, style.Render(level.String()+":")+" "+msg)
}

// Entry is one line recorded by a Buffer.
type Entry struct {
	Level Level
	Msg   string
}

// Buffer records diagnostics in memory. It is meant for tests.
type Buffer struct {
	mu      sync.RWMutex
	entries []Entry
}

var _ Printer = (*Buffer)(nil)

// NewBuffer returns an empty Buffer.
func NewBuffer() *Buffer { return &Buffer{} }

// Info implements Printer.
func (b *Buffer) Info(msg string) { b.add(LevelInfo, msg) }

// Warn implements Printer.
func (b *Buffer) Warn(msg string) { b.add(LevelWarn, msg) }

// Error implements Printer.
func (b *Buffer) Error(msg string) { b.add(LevelError, msg) }

func (b *Buffer) add(level Level, msg string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = append(b.entries, Entry{Level: level, Msg: msg})
}

// Entries returns every recorded line in order.
func (b *Buffer) Entries() []Entry {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Entry(nil), b.entries...)
}

// Lines returns the messages recorded at level.
func (b *Buffer) Lines(level Level) []string {
	b.mu.RLock()
	defer b.mu.RUnlock()
	var out []string
	for _, e := range b.entries {
		if e.Level == level {
			out = append(out, e.Msg)
		}
	}
	return out
}

// Warnings returns the warning messages.
func (b *Buffer) Warnings() []string { return b.Lines(LevelWarn) }

// Errors returns the error messages.
func (b *Buffer) Errors() []string { return b.Lines(LevelError) }

// Contains reports whether any recorded message contains s.
func (b *Buffer) Contains(s string) bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, e := range b.entries {
		if strings.Contains(e.Msg, s) {
			return true
		}
	}
	return false
}

// Reset drops every recorded line.
func (b *Buffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries = nil
}
