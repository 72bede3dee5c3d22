package history

import (
	"fmt"
	"sync"
	"testing"
)

func entry(q string) Entry {
	return Entry{Query: q, Options: Options{Mode: "natural", Versions: []string{"KJV"}}}
}

func TestAppendEvictsOldest(t *testing.T) {
	const n = 5
	l := New(n)
	for i := 0; i <= n; i++ {
		l.Append(entry(fmt.Sprintf("q%d", i)))
	}
	if l.Len() != n {
		t.Fatalf("Len() = %d, want %d", l.Len(), n)
	}
	got := l.Recent(0)
	if got[0].Query != "q5" {
		t.Errorf("newest = %s, want q5", got[0].Query)
	}
	if got[n-1].Query != "q1" {
		t.Errorf("oldest = %s, want q1", got[n-1].Query)
	}
	for _, e := range got {
		if e.Query == "q0" {
			t.Error("q0 should have been evicted")
		}
	}
}

func TestRecentLimit(t *testing.T) {
	l := New(10)
	for i := 0; i < 4; i++ {
		l.Append(entry(fmt.Sprintf("q%d", i)))
	}
	tests := []struct {
		limit int
		want  []string
	}{
		{2, []string{"q3", "q2"}},
		{0, []string{"q3", "q2", "q1", "q0"}},
		{99, []string{"q3", "q2", "q1", "q0"}},
	}
	for _, tt := range tests {
		got := l.Recent(tt.limit)
		if len(got) != len(tt.want) {
			t.Errorf("Recent(%d) = %d entries, want %d", tt.limit, len(got), len(tt.want))
			continue
		}
		for i := range got {
			if got[i].Query != tt.want[i] {
				t.Errorf("Recent(%d)[%d] = %s, want %s", tt.limit, i, got[i].Query, tt.want[i])
			}
		}
	}
}

func TestClear(t *testing.T) {
	l := New(3)
	l.Append(entry("faith"))
	l.Append(entry("hope"))
	l.Clear()
	for _, limit := range []int{0, 1, 10} {
		if got := l.Recent(limit); len(got) != 0 {
			t.Errorf("Recent(%d) after Clear = %v, want empty", limit, got)
		}
	}
}

func TestAppendDeduplicates(t *testing.T) {
	l := New(10)
	first := l.Append(entry("love"))
	l.Append(entry("faith"))
	again := entry("love")
	again.Options.Versions = []string{"kjv"}
	l.Append(again)

	got := l.Recent(0)
	if len(got) != 2 {
		t.Fatalf("Len = %d, want 2", len(got))
	}
	if got[0].Query != "love" || got[0].ID == first.ID {
		t.Errorf("newest = %+v, want a fresh love entry", got[0])
	}

	other := entry("love")
	other.Options.Mode = "boolean"
	l.Append(other)
	if l.Len() != 3 {
		t.Errorf("different mode should not dedupe, Len = %d", l.Len())
	}
}

func TestAppendFillsDefaults(t *testing.T) {
	l := New(0)
	if l.Capacity() != DefaultCapacity {
		t.Errorf("Capacity() = %d, want %d", l.Capacity(), DefaultCapacity)
	}
	e := l.Append(entry("grace"))
	if e.ID == "" || e.Timestamp.IsZero() {
		t.Errorf("Append() = %+v, want ID and Timestamp set", e)
	}
}

func TestConcurrentAppend(t *testing.T) {
	l := New(20)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Append(entry(fmt.Sprintf("q%d", i)))
			_ = l.Recent(5)
		}(i)
	}
	wg.Wait()
	if l.Len() != 20 {
		t.Errorf("Len() = %d, want 20", l.Len())
	}
}
