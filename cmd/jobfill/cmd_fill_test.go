package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"jobfill/internal/logging"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type syncBuffer struct {
	bytes.Buffer
	synced bool
}

func (b *syncBuffer) Sync() error {
	b.synced = true
	return nil
}

type closeRecorder struct{ closed bool }

func (c *closeRecorder) Close() error {
	c.closed = true
	return nil
}

func TestInterrupt_FlushesLogsAndExits(t *testing.T) {
	ws := setupWorkspace(t)
	if err := logging.Initialize(ws, logging.Config{DebugMode: true, Level: "debug"}); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		logging.CloseAll()
		_ = logging.Initialize(ws, logging.Config{})
	})

	sink := &syncBuffer{}
	logger = zap.New(zapcore.NewCore(zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()), sink, zap.InfoLevel))

	code := -1
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = os.Exit })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	engine := &closeRecorder{}

	output := captureOutput(t, func() {
		interrupt(cancel, engine)
	})

	if code != 130 {
		t.Errorf("expected exit code 130, got %d", code)
	}
	if ctx.Err() == nil {
		t.Error("run context should be cancelled")
	}
	if !engine.closed {
		t.Error("browser should be closed")
	}
	if !strings.Contains(output, "Interrupted") {
		t.Errorf("expected interrupt notice, got: %s", output)
	}
	if !sink.synced {
		t.Error("CLI logger was not synced")
	}
	if !strings.Contains(sink.String(), "Received shutdown signal") {
		t.Errorf("shutdown not logged: %s", sink.String())
	}

	// Category logs are closed: the boot file holds the interrupt line and
	// nothing written afterwards.
	logging.Boot("after shutdown")
	matches, _ := filepath.Glob(filepath.Join(ws, ".jobfill", "logs", "*_boot.log"))
	if len(matches) != 1 {
		t.Fatalf("expected one boot log, got %v", matches)
	}
	data, err := os.ReadFile(matches[0])
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "interrupted, closing browser") {
		t.Errorf("interrupt not in boot log: %s", data)
	}
	if strings.Contains(string(data), "after shutdown") {
		t.Error("boot log still open after interrupt")
	}
}
