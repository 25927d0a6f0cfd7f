package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/sirupsen/logrus"
)

func TestNew_JSONFormatterAndLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := New("warn", "json", &buf)

	logger.Info("dropped")
	logger.WithField("quotation_id", 7).Warn("kept")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("expected one JSON line, got %q: %v", buf.String(), err)
	}
	if line["msg"] != "kept" || line["quotation_id"] != float64(7) {
		t.Errorf("unexpected entry: %v", line)
	}
}

func TestNew_BadLevelFallsBackToInfo(t *testing.T) {
	logger := New("loud", "text", &bytes.Buffer{})
	if logger.GetLevel() != logrus.InfoLevel {
		t.Errorf("level = %v, want info", logger.GetLevel())
	}
}

func TestFromContext(t *testing.T) {
	var buf bytes.Buffer
	entry := New("info", "json", &buf).WithField("request_id", "abc")
	ctx := WithLogger(context.Background(), entry)

	if got := FromContext(ctx); got != entry {
		t.Error("expected stored entry")
	}
	if FromContext(context.Background()) == nil {
		t.Error("expected fallback entry")
	}
}
