package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
)

// decode parses the single JSON line written by a zerolog adapter.
func decode(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	if err := json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry); err != nil {
		t.Fatalf("log line is not JSON: %v\n%s", err, buf.String())
	}
	return entry
}

func TestFieldHelpers(t *testing.T) {
	testErr := errors.New("bind failed")
	tests := []struct {
		name  string
		field Field
		key   string
		value any
	}{
		{"String", String("phase", "gathering"), "phase", "gathering"},
		{"Int", Int("timers", 11), "timers", 11},
		{"Bool", Bool("overlay", true), "overlay", true},
		{"Duration", Duration("at", 5400*time.Millisecond), "at", 5400 * time.Millisecond},
		{"Err", Err(testErr), "error", testErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.field.Key != tt.key || tt.field.Value != tt.value {
				t.Errorf("%s() = %+v, want {%s %v}", tt.name, tt.field, tt.key, tt.value)
			}
		})
	}
}

func TestZerologAdapter_Levels(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(zerolog.InfoLevel) })

	tests := []struct {
		name      string
		log       func(Logger)
		wantLevel string
		wantMsg   string
	}{
		{"info", func(l Logger) { l.Info("sequence activated") }, "info", "sequence activated"},
		{"debug", func(l Logger) { l.Debug("timer fired") }, "debug", "timer fired"},
		{"error", func(l Logger) { l.Error("listen failed", errors.New("in use")) }, "error", "listen failed"},
		{"printf", func(l Logger) { l.Printf("word %d of %d", 2, 3) }, "info", "word 2 of 3"},
		{"println", func(l Logger) { l.Println("logo", "revealed") }, "info", "logo revealed"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.log(NewZerologAdapter(zerolog.New(&buf)))
			entry := decode(t, &buf)
			if entry["level"] != tt.wantLevel {
				t.Errorf("level = %v, want %s", entry["level"], tt.wantLevel)
			}
			if entry["message"] != tt.wantMsg {
				t.Errorf("message = %v, want %q", entry["message"], tt.wantMsg)
			}
		})
	}
}

func TestZerologAdapter_Fields(t *testing.T) {
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))
	l.Info("phase transition",
		String("to", "rotation-active"),
		Int("version", 9),
		Bool("overlay", false),
		Duration("at", 1500*time.Millisecond),
		Field{Key: "count", Value: int64(7)},
		Field{Key: "ratio", Value: 0.5},
		Field{Key: "cause", Value: errors.New("late")},
		Field{Key: "words", Value: []string{"Sell.", "Deliver."}},
	)

	entry := decode(t, &buf)
	want := map[string]any{
		"to":      "rotation-active",
		"version": float64(9),
		"overlay": false,
		"at":      float64(1500),
		"count":   float64(7),
		"ratio":   0.5,
		"cause":   "late",
	}
	for k, v := range want {
		if entry[k] != v {
			t.Errorf("%s = %v (%T), want %v", k, entry[k], entry[k], v)
		}
	}
	words, ok := entry["words"].([]any)
	if !ok || len(words) != 2 || words[1] != "Deliver." {
		t.Errorf("words = %v", entry["words"])
	}
}

func TestZerologAdapter_ErrorAttachesCause(t *testing.T) {
	var buf bytes.Buffer
	NewZerologAdapter(zerolog.New(&buf)).Error("stream write failed", errors.New("broken pipe"), String("path", "/events"))

	entry := decode(t, &buf)
	if entry["error"] != "broken pipe" {
		t.Errorf("error = %v, want broken pipe", entry["error"])
	}
	if entry["path"] != "/events" {
		t.Errorf("path = %v, want /events", entry["path"])
	}
}

func TestZerologAdapter_RespectsGlobalLevel(t *testing.T) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	var buf bytes.Buffer
	l := NewZerologAdapter(zerolog.New(&buf))
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug entry written at info level: %s", buf.String())
	}
	l.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("info entry missing: %s", buf.String())
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	NewLogger(&buf, "splash").Info("serving")

	entry := decode(t, &buf)
	if entry["component"] != "splash" {
		t.Errorf("component = %v, want splash", entry["component"])
	}
	if _, ok := entry["time"]; !ok {
		t.Error("timestamp missing")
	}
}

func TestNewNop(t *testing.T) {
	l := NewNop()
	l.Info("ignored", String("k", "v"))
	l.Error("ignored", errors.New("x"))
	l.Debug("ignored")
	l.Printf("%d", 1)
	l.Println("ignored")
}

func TestZerologAdapter_ImplementsLogger(t *testing.T) {
	var _ Logger = (*ZerologAdapter)(nil)
}
