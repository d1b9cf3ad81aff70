package qpdf

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLifecycleLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	src := openBytes(t, pdfWithPages(t, 1))
	dst, err := Empty()
	if err != nil {
		t.Fatal(err)
	}
	page, _ := src.Page(0)
	if err := dst.AddPage(page, false); err != nil {
		t.Fatal(err)
	}
	if err := src.Close(); err != nil {
		t.Fatal(err)
	}
	if err := dst.Close(); err != nil {
		t.Fatal(err)
	}

	for _, msg := range []string{"document registry", "document destroyed", "engine context created"} {
		if logs.FilterMessage(msg).Len() == 0 {
			t.Errorf("no %q entry logged", msg)
		}
	}

	held := logs.FilterMessage("document closed while referenced").All()
	if len(held) != 1 {
		t.Fatalf("got %d closed-while-referenced entries, want 1", len(held))
	}
	if n, ok := held[0].ContextMap()["holders"].(int64); !ok || n != 1 {
		t.Errorf("holders = %v, want 1", held[0].ContextMap()["holders"])
	}

	destroyed := logs.FilterMessage("document destroyed").All()
	last := destroyed[len(destroyed)-1].ContextMap()
	if n, ok := last["foreign_released"].(int64); !ok || n != 1 {
		t.Errorf("foreign_released = %v, want 1", last["foreign_released"])
	}
}

func TestEngineErrorLogging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	SetLogger(zap.New(core))
	defer SetLogger(zap.NewNop())

	doc := openEmpty(t)
	if _, err := doc.ParseObject("<< /A 1 /B [ 1 2 >>"); err == nil {
		t.Fatal("expected parse error")
	}

	entries := logs.FilterMessage("engine error").All()
	if len(entries) == 0 {
		t.Fatal("translated engine error not logged")
	}
	if _, ok := entries[len(entries)-1].ContextMap()["error"]; !ok {
		t.Error("engine error entry has no error field")
	}
}
