package build

import (
	"errors"
	"sync/atomic"
	"testing"
)

func TestForEach(t *testing.T) {
	items := []int{1, 2, 3, 4, 5, 6, 7, 8}
	var sum atomic.Int64

	err := forEach(items, 3, func(n int) error {
		sum.Add(int64(n))
		return nil
	})
	if err != nil {
		t.Fatalf("forEach: %v", err)
	}
	if sum.Load() != 36 {
		t.Errorf("sum = %d, want 36", sum.Load())
	}
}

func TestForEach_Empty(t *testing.T) {
	called := false
	if err := forEach(nil, 4, func(int) error { called = true; return nil }); err != nil {
		t.Fatal(err)
	}
	if called {
		t.Error("fn should not be called for no items")
	}
}

func TestForEach_FirstError(t *testing.T) {
	boom := errors.New("boom")
	err := forEach([]string{"a", "b", "c"}, 0, func(s string) error {
		if s == "b" {
			return boom
		}
		return nil
	})
	if !errors.Is(err, boom) {
		t.Errorf("got %v, want %v", err, boom)
	}
}
