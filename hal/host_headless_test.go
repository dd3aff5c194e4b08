package hal

import (
	"context"
	"testing"
)

// TestRunHeadlessStepsAndShutsDown checks that the headless loop calls the
// app's step function once per tick and runs its shutdown function on exit.
func TestRunHeadlessStepsAndShutsDown(t *testing.T) {
	steps := 0
	shutdowns := 0
	err := RunHeadless(context.Background(), func(h HAL) (func() error, func()) {
		if h == nil {
			t.Fatal("nil HAL handed to app constructor")
		}
		return func() error { steps++; return nil }, func() { shutdowns++ }
	}, HeadlessConfig{Hz: 1000, Ticks: 3})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
	if steps != 3 {
		t.Fatalf("step calls = %d, want 3", steps)
	}
	if shutdowns != 1 {
		t.Fatalf("shutdown calls = %d, want 1", shutdowns)
	}
}

func TestRunHeadlessNilShutdown(t *testing.T) {
	err := RunHeadless(context.Background(), func(h HAL) (func() error, func()) {
		return nil, nil
	}, HeadlessConfig{Hz: 1000, Ticks: 1})
	if err != nil {
		t.Fatalf("RunHeadless: %v", err)
	}
}
