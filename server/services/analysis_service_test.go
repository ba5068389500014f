package services

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"vendoranalysis/analysis"
	"vendoranalysis/internal/config"
	"vendoranalysis/normalization"
)

func newTestService(t *testing.T) *AnalysisService {
	t.Helper()

	pipeline, err := analysis.NewPipeline(config.DefaultAnalysisConfig())
	if err != nil {
		t.Fatalf("NewPipeline() error: %v", err)
	}
	return NewAnalysisService(pipeline)
}

func waitForCompletion(t *testing.T, s *AnalysisService, taskID string) AnalysisTask {
	t.Helper()

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		task, err := s.GetTask(taskID)
		if err != nil {
			t.Fatalf("GetTask() error: %v", err)
		}
		if task.Status != TaskStatusRunning {
			return task
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("task did not finish in time")
	return AnalysisTask{}
}

func TestAnalysisService_StartAndComplete(t *testing.T) {
	s := newTestService(t)

	records := []*normalization.VendorRecord{
		{ID: "V001", RawName: "Acme Corp", TaxID: "123456789", AnnualSpend: 60000},
		{ID: "V002", RawName: "Acme Corporation Inc", TaxID: "123456789", AnnualSpend: 60000},
	}

	taskID, err := s.StartAnalysis(records, nil)
	if err != nil {
		t.Fatalf("StartAnalysis() error: %v", err)
	}

	task := waitForCompletion(t, s, taskID)
	if task.Status != TaskStatusCompleted {
		t.Fatalf("task status = %q, want %q (error: %s)", task.Status, TaskStatusCompleted, task.Error)
	}
	if task.CompletedAt == nil {
		t.Error("CompletedAt is nil for finished task")
	}

	result, err := s.GetResult(taskID)
	if err != nil {
		t.Fatalf("GetResult() error: %v", err)
	}
	if len(result.Pairs) != 1 {
		t.Errorf("found %d pairs, want 1", len(result.Pairs))
	}
}

func TestAnalysisService_FailedTask(t *testing.T) {
	s := newTestService(t)

	// Запись без ID проваливает прогон
	records := []*normalization.VendorRecord{
		{ID: "", RawName: "No ID"},
	}

	taskID, err := s.StartAnalysis(records, nil)
	if err != nil {
		t.Fatalf("StartAnalysis() error: %v", err)
	}

	task := waitForCompletion(t, s, taskID)
	if task.Status != TaskStatusFailed {
		t.Fatalf("task status = %q, want %q", task.Status, TaskStatusFailed)
	}
	if task.Error == "" {
		t.Error("failed task has empty error message")
	}

	if _, err := s.GetResult(taskID); err == nil {
		t.Error("GetResult() expected error for failed task")
	}
}

func TestAnalysisService_EmptyRecords(t *testing.T) {
	s := newTestService(t)

	if _, err := s.StartAnalysis(nil, nil); err == nil {
		t.Fatal("StartAnalysis() expected error for empty records")
	}
}

func TestAnalysisService_UnknownTask(t *testing.T) {
	s := newTestService(t)

	if _, err := s.GetTask("missing"); err == nil {
		t.Error("GetTask() expected error for unknown task")
	}
	if _, err := s.GetResult("missing"); err == nil {
		t.Error("GetResult() expected error for unknown task")
	}
}

// Опрос статуса идет параллельно с фоновым завершением задачи,
// поэтому снимок из GetTask должен сериализоваться без гонок (go test -race).
func TestAnalysisService_ConcurrentStatusPolling(t *testing.T) {
	s := newTestService(t)

	records := make([]*normalization.VendorRecord, 0, 600)
	for i := 0; i < 600; i++ {
		records = append(records, &normalization.VendorRecord{
			ID:      fmt.Sprintf("V%04d", i),
			RawName: fmt.Sprintf("Vendor %d LLC", i),
		})
	}

	taskID, err := s.StartAnalysis(records, nil)
	if err != nil {
		t.Fatalf("StartAnalysis() error: %v", err)
	}

	deadline := time.Now().Add(10 * time.Second)
	for time.Now().Before(deadline) {
		task, err := s.GetTask(taskID)
		if err != nil {
			t.Fatalf("GetTask() error: %v", err)
		}
		if _, err := json.Marshal(task); err != nil {
			t.Fatalf("Marshal() error: %v", err)
		}
		if task.Status != TaskStatusRunning {
			if task.Status != TaskStatusCompleted {
				t.Fatalf("task status = %q, want %q (error: %s)", task.Status, TaskStatusCompleted, task.Error)
			}
			return
		}
	}
	t.Fatal("task did not finish in time")
}

func TestAnalysisService_UniqueTaskIDs(t *testing.T) {
	s := newTestService(t)

	records := []*normalization.VendorRecord{
		{ID: "V001", RawName: "Acme Corp"},
	}

	seen := make(map[string]bool)
	for i := 0; i < 10; i++ {
		taskID, err := s.StartAnalysis(records, nil)
		if err != nil {
			t.Fatalf("StartAnalysis() error: %v", err)
		}
		if seen[taskID] {
			t.Fatalf("duplicate task ID %q", taskID)
		}
		seen[taskID] = true
	}
}
