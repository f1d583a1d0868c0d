package utils

import "testing"

func TestNewLogger(t *testing.T) {
	for _, debug := range []bool{true, false} {
		logger, err := NewLogger(debug)
		if err != nil {
			t.Fatalf("NewLogger(%v) error: %v", debug, err)
		}
		if logger == nil {
			t.Fatalf("NewLogger(%v) returned nil logger", debug)
		}
		_ = logger.Sync()
	}
}

func TestNewProductionLogger(t *testing.T) {
	logger, err := NewProductionLogger()
	if err != nil {
		t.Fatalf("NewProductionLogger error: %v", err)
	}
	if logger == nil {
		t.Fatal("NewProductionLogger returned nil logger")
	}
	_ = logger.Sync()
}
