package console

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestReportNonInteractive(t *testing.T) {
	var out bytes.Buffer
	sig := NewCloseSignal(0)
	r := NewReporterTo(&out, strings.NewReader(""), false, sig)

	r.Report(errors.New("cannot open display"))

	if got := out.String(); got != "[Error] (conpix): cannot open display\n" {
		t.Errorf("Unexpected report %q", got)
	}
	if !sig.ShouldClose() {
		t.Error("Expected report to request close")
	}
}

func TestReportWaitsForEnter(t *testing.T) {
	var out bytes.Buffer
	in := strings.NewReader("\nleftover")
	r := NewReporterTo(&out, in, true, nil)

	r.Report(errors.New("boom"))

	if !strings.Contains(out.String(), "Press Enter to exit.") {
		t.Errorf("Expected prompt, got %q", out.String())
	}
	if in.Len() == len("\nleftover") {
		t.Error("Expected input to be read")
	}
}

func TestReportNil(t *testing.T) {
	var out bytes.Buffer
	NewReporterTo(&out, nil, true, nil).Report(nil)
	if out.Len() != 0 {
		t.Errorf("Expected no output, got %q", out.String())
	}
}
