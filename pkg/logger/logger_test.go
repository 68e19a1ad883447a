package logger

import "testing"

func TestNewAcceptsUnknownLevel(t *testing.T) {
	l, err := New("verbose")
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.Core().Enabled(-1) {
		t.Error("debug should be disabled when level falls back to info")
	}
}

func TestNamedNilBase(t *testing.T) {
	if Named(nil, "x") == nil {
		t.Fatal("Named(nil) returned nil logger")
	}
}
