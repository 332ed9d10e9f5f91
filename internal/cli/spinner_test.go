package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerDrawsAndClears(t *testing.T) {
	var buf bytes.Buffer
	sp := newSpinner(context.Background(), &buf, "Rendering f1-dnf...")
	sp.start()
	sp.stop()

	out := buf.String()
	if !strings.Contains(out, "Rendering f1-dnf...") {
		t.Errorf("spinner output %q should contain the message", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("spinner should clear its line on stop, got %q", out)
	}
	if sp.interrupted() {
		t.Error("a plain stop is not an interruption")
	}
}

func TestSpinnerStopTwice(t *testing.T) {
	var buf bytes.Buffer
	sp := newSpinner(context.Background(), &buf, "Rendering nfl-landscape...")
	sp.start()
	sp.stop()
	n := buf.Len()
	sp.stop()
	if buf.Len() != n {
		t.Error("second stop should not write")
	}
}

func TestSpinnerInterrupted(t *testing.T) {
	tests := map[string]func() (context.Context, context.CancelFunc){
		"cancel": func() (context.Context, context.CancelFunc) {
			return context.WithCancel(context.Background())
		},
		"timeout": func() (context.Context, context.CancelFunc) {
			return context.WithTimeout(context.Background(), 20*time.Millisecond)
		},
	}
	for name, mk := range tests {
		t.Run(name, func(t *testing.T) {
			ctx, cancel := mk()
			defer cancel()

			var buf bytes.Buffer
			sp := newSpinner(ctx, &buf, "Rendering nfl-winprob...")
			sp.start()
			if name == "cancel" {
				cancel()
			}
			<-ctx.Done()
			sp.stop()

			if !sp.interrupted() {
				t.Error("spinner should report the interruption")
			}
		})
	}
}

func TestSpinnerFail(t *testing.T) {
	var buf bytes.Buffer
	sp := newSpinner(context.Background(), &buf, "Rendering nfl-momentum...")
	sp.start()
	time.Sleep(2 * spinnerInterval)
	sp.fail("Rendering nfl-momentum failed")

	if strings.Count(buf.String(), "Rendering nfl-momentum...") < 2 {
		t.Errorf("spinner should redraw while running, got %q", buf.String())
	}
}
