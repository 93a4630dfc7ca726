package printer_test

import (
	"bytes"
	"reflect"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"github.com/aallbrig/clause/config"
	"github.com/aallbrig/clause/printer"
)

func TestConsoleNoColor(t *testing.T) {
	var out bytes.Buffer
	c := printer.NewConsole(&out, config.DefaultColors(), true, zerolog.Nop())
	c.Warn("unused argument: x")
	c.Error("boom\nsecond line")
	c.Info("done")
	want := "warning: unused argument: x\nerror: boom; second line\ndone\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestConsoleMirrorsToLogger(t *testing.T) {
	var out, logs bytes.Buffer
	log := zerolog.New(&logs).Level(zerolog.DebugLevel)
	c := printer.NewConsole(&out, config.DefaultColors(), true, log)
	c.Warn("careful")
	if !strings.Contains(logs.String(), `"message":"careful"`) {
		t.Errorf("log output = %q", logs.String())
	}
	c.SetNoColor(false)
	c.Error("styled")
	if !strings.Contains(out.String(), "styled") {
		t.Errorf("output = %q", out.String())
	}
}

func TestBuffer(t *testing.T) {
	b := printer.NewBuffer()
	b.Warn("w1")
	b.Error("e1")
	b.Warn("w2")
	if got := b.Warnings(); !reflect.DeepEqual(got, []string{"w1", "w2"}) {
		t.Errorf("Warnings() = %v", got)
	}
	if got := b.Errors(); !reflect.DeepEqual(got, []string{"e1"}) {
		t.Errorf("Errors() = %v", got)
	}
	if !b.Contains("e1") || b.Contains("zzz") {
		t.Error("Contains mismatch")
	}
	if n := len(b.Entries()); n != 3 {
		t.Errorf("Entries() = %d, want 3", n)
	}
	b.Reset()
	if len(b.Entries()) != 0 {
		t.Error("Reset did not clear entries")
	}
}
