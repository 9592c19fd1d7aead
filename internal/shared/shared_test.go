package shared

import (
	"strings"
	"testing"
)

func TestNewLogger(t *testing.T) {
	t.Run("Defaults To Stderr", func(t *testing.T) {
		if logger := NewLogger(nil); logger == nil {
			t.Fatal("expected a logger")
		}
	})

	t.Run("Writes To Given Writer", func(t *testing.T) {
		var buf strings.Builder
		logger := NewLogger(&buf)
		logger.Info("hello")

		if !strings.Contains(buf.String(), "hello") {
			t.Errorf("expected log output in buffer, got %q", buf.String())
		}
	})
}

func TestGenerateState(t *testing.T) {
	a := GenerateState()
	b := GenerateState()

	if a == b {
		t.Error("expected unique state tokens")
	}
	if len(a) != 36 || strings.Count(a, "-") != 4 {
		t.Errorf("expected a v4 UUID, got %q", a)
	}
}

func TestBrowserCommand(t *testing.T) {
	t.Run("Known Platforms", func(t *testing.T) {
		for rt, launcher := range map[string]string{
			"darwin":  "open",
			"linux":   "xdg-open",
			"windows": "cmd",
		} {
			cmd, err := browserCommand(rt, "https://example.com")
			if err != nil {
				t.Fatalf("%s: expected no error, got %v", rt, err)
			}
			if len(cmd.Args) == 0 || !strings.HasSuffix(cmd.Args[0], launcher) {
				t.Errorf("%s: expected %s launcher, got %v", rt, launcher, cmd.Args)
			}
			if cmd.Args[len(cmd.Args)-1] != "https://example.com" {
				t.Errorf("%s: expected URL as final argument, got %v", rt, cmd.Args)
			}
		}
	})

	t.Run("Unsupported Platform", func(t *testing.T) {
		if _, err := browserCommand("plan9", "https://example.com"); err == nil {
			t.Error("expected error for unsupported platform")
		}
	})
}

func TestMarshalJSON(t *testing.T) {
	data := map[string]string{"key": "value"}

	t.Run("Pretty", func(t *testing.T) {
		out, err := MarshalJSON(data, true)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.Contains(string(out), "  \"key\": \"value\"") {
			t.Errorf("expected indented JSON, got %s", out)
		}
	})

	t.Run("Compact", func(t *testing.T) {
		out, err := MarshalJSON(data, false)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if string(out) != `{"key":"value"}` {
			t.Errorf("expected compact JSON, got %s", out)
		}
	})

	t.Run("Unserializable Data", func(t *testing.T) {
		if _, err := MarshalJSON(make(chan int), false); err == nil {
			t.Error("expected error for non-serializable data")
		}
	})
}
