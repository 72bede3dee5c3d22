package reload

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func TestRelevant(t *testing.T) {
	w := &Watcher{cfg: Config{Path: "/data/bible.db"}}
	tests := []struct {
		name string
		want bool
	}{
		{"/data/bible.db", true},
		{"/data/bible.db-wal", true},
		{"/data/bible.db-journal", true},
		{"/data/bible.db.lock", false},
		{"/data/other.db", false},
	}
	for _, tt := range tests {
		if got := w.relevant(tt.name); got != tt.want {
			t.Errorf("relevant(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestReloadIsDebounced(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bible.db")
	if err := os.WriteFile(path, []byte("v0"), 0o600); err != nil {
		t.Fatal(err)
	}
	var calls atomic.Int32
	w, err := New(Config{
		Path:     path,
		Debounce: 100 * time.Millisecond,
		Reload: func(ctx context.Context) error {
			calls.Add(1)
			return nil
		},
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := w.Start(ctx); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer w.Stop()

	for i := 0; i < 5; i++ {
		if err := os.WriteFile(path, []byte{byte(i)}, 0o600); err != nil {
			t.Fatal(err)
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(300 * time.Millisecond)
	if got := calls.Load(); got != 1 {
		t.Errorf("Reload called %d times, want 1", got)
	}
}
