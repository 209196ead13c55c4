package logger

import (
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	prev := Level()
	t.Cleanup(func() { level.SetLevel(prev) })

	if err := SetLevel("warn"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if Level() != zapcore.WarnLevel {
		t.Errorf("expected warn, got %s", Level())
	}

	if err := SetLevel(""); err != nil {
		t.Fatalf("empty level should be ignored: %v", err)
	}
	if Level() != zapcore.WarnLevel {
		t.Errorf("empty level changed the level to %s", Level())
	}

	if err := SetLevel("loud"); err == nil {
		t.Error("expected an error for an unknown level")
	}
}

func TestGet_NeverNil(t *testing.T) {
	Init("test")
	if Get() == nil {
		t.Fatal("expected a logger")
	}
}

func TestGet_Concurrent(t *testing.T) {
	var wg sync.WaitGroup
	loggers := make(chan *zap.SugaredLogger, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			loggers <- Get()
		}()
	}
	wg.Wait()
	close(loggers)

	first := Get()
	for l := range loggers {
		if l != first {
			t.Fatal("expected every goroutine to see the same logger")
		}
	}
}
