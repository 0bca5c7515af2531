package task

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Create(Task{ID: "t1", Status: StatusPending, CurrentStep: "Queued"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := s.Get("t1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != StatusPending || got.Progress != 0 {
		t.Fatalf("got %+v, want pending at 0", got)
	}
	if got.CreatedAt.IsZero() || got.UpdatedAt.IsZero() {
		t.Fatal("timestamps not set")
	}

	updated, err := s.Update("t1", func(t *Task) {
		t.Status = StatusTranscribing
		t.Progress = 30
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != StatusTranscribing || updated.Progress != 30 {
		t.Fatalf("updated = %+v", updated)
	}

	removed, err := s.Delete("t1")
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if removed.Progress != 30 {
		t.Fatalf("removed progress = %d, want 30", removed.Progress)
	}

	if _, err := s.Get("t1"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("get after delete error = %v, want %v", err, ErrTaskNotFound)
	}
}

func TestMemoryStoreErrors(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Create(Task{ID: "dup"}); err != nil {
		t.Fatalf("create: %v", err)
	}

	tests := []struct {
		name string
		call func() error
		want error
	}{
		{"duplicate create", func() error { return s.Create(Task{ID: "dup"}) }, ErrDuplicateTask},
		{"get missing", func() error { _, err := s.Get("missing"); return err }, ErrTaskNotFound},
		{"update missing", func() error {
			_, err := s.Update("missing", func(*Task) {})
			return err
		}, ErrTaskNotFound},
		{"delete missing", func() error { _, err := s.Delete("missing"); return err }, ErrTaskNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.call(); !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestMemoryStoreUpdateKeepsID(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Create(Task{ID: "t1"}); err != nil {
		t.Fatal(err)
	}
	got, err := s.Update("t1", func(t *Task) { t.ID = "other" })
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != "t1" {
		t.Fatalf("id = %q, want t1", got.ID)
	}
}

func TestMemoryStoreList(t *testing.T) {
	s := NewMemoryStore()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		task := Task{ID: fmt.Sprintf("t%d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := s.Create(task); err != nil {
			t.Fatal(err)
		}
	}

	all := s.List(0)
	if len(all) != 3 || all[0].ID != "t2" || all[2].ID != "t0" {
		t.Fatalf("List(0) order = %v", ids(all))
	}
	if got := s.List(2); len(got) != 2 || got[0].ID != "t2" {
		t.Fatalf("List(2) = %v", ids(got))
	}
}

func TestMemoryStoreConcurrentAccess(t *testing.T) {
	s := NewMemoryStore()
	var wg sync.WaitGroup

	for i := 0; i < 20; i++ {
		id := fmt.Sprintf("task-%d", i)
		if err := s.Create(Task{ID: id}); err != nil {
			t.Fatal(err)
		}
		wg.Add(2)
		go func() {
			defer wg.Done()
			for p := 10; p <= 100; p += 10 {
				if _, err := s.Update(id, func(t *Task) { t.Progress = p }); err != nil {
					t.Errorf("update: %v", err)
				}
			}
		}()
		go func() {
			defer wg.Done()
			last := 0
			for j := 0; j < 50; j++ {
				got, err := s.Get(id)
				if err != nil {
					t.Errorf("get: %v", err)
					return
				}
				if got.Progress < last {
					t.Errorf("progress went back from %d to %d", last, got.Progress)
				}
				last = got.Progress
			}
		}()
	}
	wg.Wait()

	for _, task := range s.List(0) {
		if task.Progress != 100 {
			t.Errorf("%s progress = %d, want 100", task.ID, task.Progress)
		}
	}
}

func TestStatusTerminal(t *testing.T) {
	for _, s := range []Status{StatusCompleted, StatusFailed} {
		if !s.Terminal() {
			t.Errorf("%s should be terminal", s)
		}
	}
	for _, s := range []Status{StatusPending, StatusExtractingAudio, StatusBuildingQuiz} {
		if s.Terminal() {
			t.Errorf("%s should not be terminal", s)
		}
	}
}

func ids(tasks []Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}
