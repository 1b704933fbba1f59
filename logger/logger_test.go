package logger

import (
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

var waitGroup sync.WaitGroup

func loopGetLogger(t *testing.T, routineNum int) {
	defer waitGroup.Done()
	for i := 0; i < 1000; i++ {
		logger1 := GetLogger()
		if logger1 == nil {
			t.Errorf("GetLogger() = nil in goroutine %d, expected a non-nil logger", routineNum)
		}
	}
}

func TestGetLogger(t *testing.T) {
	if GetLogger() == nil {
		t.Errorf("GetLogger() = nil, expected a non-nil logger")
	}

	waitGroup.Add(2)
	go loopGetLogger(t, 1)
	go loopGetLogger(t, 2)
	waitGroup.Wait()
}

func TestGetLoggerConfiguredSetsLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	defer zerolog.SetGlobalLevel(prev)

	if GetLoggerConfigured(zerolog.WarnLevel) != GetLogger() {
		t.Fatalf("expected the configured logger to be the shared instance")
	}
	if zerolog.GlobalLevel() != zerolog.WarnLevel {
		t.Fatalf("global level = %v, want %v", zerolog.GlobalLevel(), zerolog.WarnLevel)
	}
}

func TestParseLevel(t *testing.T) {
	if ParseLevel("") != zerolog.InfoLevel {
		t.Fatalf("empty level should default to info")
	}
	if ParseLevel("debug") != zerolog.DebugLevel {
		t.Fatalf("debug not parsed")
	}
	if ParseLevel("shouting") != zerolog.InfoLevel {
		t.Fatalf("unknown level should default to info")
	}
}
