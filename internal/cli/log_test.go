package cli

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vabarbosa/simple-data-vis/pkg/observability"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			if gotLog := buf.Len() > 0; gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.InfoLevel))
	time.Sleep(10 * time.Millisecond)
	prog.done("Rendered 2 charts")

	if !strings.Contains(buf.String(), "Rendered 2 charts (") {
		t.Errorf("progress.done() output = %q, want message with duration", buf.String())
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Error("loggerFromContext should fall back to the default logger")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	ctx := withLogger(context.Background(), custom)
	if got := loggerFromContext(ctx); got != custom {
		t.Error("loggerFromContext should return the attached logger")
	}
}

func TestLogHooks(t *testing.T) {
	var buf bytes.Buffer
	h := &logHooks{logger: newLogger(&buf, log.DebugLevel)}
	ctx := context.Background()

	h.OnResolveStart(ctx, "url", "http://example.com/db")
	h.OnResolveComplete(ctx, "url", "http://example.com/db", 12*time.Millisecond, errors.New("boom"))
	h.OnSelect(ctx, "", "bar-chart", 4)
	h.OnRenderStart(ctx, "bar-chart", 3)
	h.OnRenderComplete(ctx, "bar-chart", time.Millisecond, nil)
	h.OnCacheHit(ctx, "artifact")
	h.OnCacheMiss(ctx, "http")
	h.OnCacheSet(ctx, "artifact", 512)
	h.OnRequest(ctx, "GET", "example.com", "/db")
	h.OnResponse(ctx, "GET", "example.com", "/db", 200, time.Millisecond)
	h.OnError(ctx, "GET", "example.com", "/db", errors.New("refused"))

	out := buf.String()
	for _, want := range []string{
		"resolve start", "resolve done", "boom", "chart selected", "bar-chart",
		"render start", "render done", "cache hit", "cache miss", "cache set",
		"http request", "http response", "http error", "refused",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("hook output missing %q", want)
		}
	}
}

func TestSetLogLevelRoutesHooks(t *testing.T) {
	t.Cleanup(observability.Reset)

	var buf bytes.Buffer
	c := New(&buf, LogInfo)
	c.SetLogLevel(LogDebug)

	observability.Chart().OnSelect(context.Background(), "pie-chart", "pie-chart", 2)
	if !strings.Contains(buf.String(), "chart selected") {
		t.Errorf("debug level should route chart hooks to the logger, got %q", buf.String())
	}
}
