package progress

import (
	"bytes"
	"strings"
	"testing"
)

func TestStepFormat(t *testing.T) {
	var buf bytes.Buffer
	p := NewTerminal(&buf)
	p.Step(1, 2)
	got := buf.String()
	if !strings.HasPrefix(got, "\r\033[K") {
		t.Fatalf("expected in-place overwrite prefix, got %q", got)
	}
	if !strings.HasSuffix(got, " 50% -  1 of  2 complete") {
		t.Fatalf("unexpected render %q", got)
	}
}

func TestStepOverwritesPreviousRender(t *testing.T) {
	var buf bytes.Buffer
	p := NewTerminal(&buf)
	p.Step(1, 4)
	p.Step(2, 4)
	p.Done()
	got := buf.String()
	if strings.Count(got, "\r") != 2 {
		t.Fatalf("expected one carriage return per step, got %q", got)
	}
	if !strings.HasSuffix(got, " 50% -  2 of  4 complete\n") {
		t.Fatalf("unexpected final render %q", got)
	}
}

func TestStepZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	p := NewTerminal(&buf)
	p.Step(0, 0)
	p.Done()
	if buf.Len() != 0 {
		t.Fatalf("expected no output for empty batch, got %q", buf.String())
	}
}

func TestNopIsSilent(t *testing.T) {
	var n Nop
	n.Step(1, 2)
	n.Done()
}
