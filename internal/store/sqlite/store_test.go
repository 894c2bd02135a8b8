package sqlite

import (
	"testing"
)

func TestRunLifecycle(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	run := RunRecord{RunID: "r1", Source: "/srv/fdroid", CSV: "out.csv", Mode: "tags"}
	if err := s.BeginRun(run); err != nil {
		t.Fatalf("BeginRun() error = %v", err)
	}
	outcomes := []OutcomeRecord{
		{RunID: "r1", Project: "/srv/fdroid/appA", Layout: "/srv/fdroid/appA/res/layout", Status: "dispatched"},
		{RunID: "r1", Project: "/srv/fdroid/appB", Status: "no-layout"},
		{RunID: "r1", Project: "/srv/fdroid/appC", Layout: "/srv/fdroid/appC/res/layout", Status: "tool-error", Message: "Error: bad xml"},
	}
	for _, o := range outcomes {
		if err := s.InsertOutcome(o); err != nil {
			t.Fatalf("InsertOutcome() error = %v", err)
		}
	}
	if err := s.FinishRun("r1", 3, 2, 1, 1); err != nil {
		t.Fatalf("FinishRun() error = %v", err)
	}

	runs, err := s.ListRuns(10)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("expected 1 run, got %d", len(runs))
	}
	got := runs[0]
	if got.Total != 3 || got.Dispatched != 2 || got.Skipped != 1 || got.Problems != 1 {
		t.Fatalf("unexpected counters: %+v", got)
	}
	if got.EndedAt == "" {
		t.Fatal("expected ended_at to be set")
	}

	recorded, err := s.ListOutcomes("r1")
	if err != nil {
		t.Fatalf("ListOutcomes() error = %v", err)
	}
	if len(recorded) != 3 {
		t.Fatalf("expected 3 outcomes, got %d", len(recorded))
	}
	if recorded[1].Layout != "" {
		t.Fatalf("expected empty layout for no-layout outcome, got %q", recorded[1].Layout)
	}
	if recorded[2].Message != "Error: bad xml" {
		t.Fatalf("unexpected message %q", recorded[2].Message)
	}
}

func TestListRunsEmpty(t *testing.T) {
	s, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer s.Close()

	runs, err := s.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 0 {
		t.Fatalf("expected no runs, got %d", len(runs))
	}
}
