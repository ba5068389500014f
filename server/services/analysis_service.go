// Package services сервисы HTTP API
package services

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"vendoranalysis/analysis"
	"vendoranalysis/normalization"
	apperrors "vendoranalysis/server/errors"
)

// Статусы задачи анализа
const (
	TaskStatusRunning   = "running"
	TaskStatusCompleted = "completed"
	TaskStatusFailed    = "failed"
)

// AnalysisTask задача анализа поставщиков
type AnalysisTask struct {
	ID          string           `json:"id"`
	Status      string           `json:"status"`
	TotalItems  int              `json:"total_items"`
	Error       string           `json:"error,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Result      *analysis.Result `json:"-"`
}

// AnalysisService сервис для запуска анализа в фоне.
// Результаты хранятся в памяти до перезапуска сервера.
type AnalysisService struct {
	pipeline *analysis.Pipeline

	tasks   map[string]*AnalysisTask
	tasksMu sync.RWMutex

	taskCounter   int
	taskCounterMu sync.Mutex
}

// NewAnalysisService создает новый сервис анализа
func NewAnalysisService(pipeline *analysis.Pipeline) *AnalysisService {
	return &AnalysisService{
		pipeline: pipeline,
		tasks:    make(map[string]*AnalysisTask),
	}
}

// StartAnalysis запускает анализ набора записей в фоне и возвращает ID задачи
func (s *AnalysisService) StartAnalysis(records []*normalization.VendorRecord, spend map[string]float64) (string, error) {
	if len(records) == 0 {
		return "", apperrors.NewValidationError("список поставщиков пуст", nil)
	}

	taskID := s.generateTaskID()
	task := &AnalysisTask{
		ID:         taskID,
		Status:     TaskStatusRunning,
		TotalItems: len(records),
		StartedAt:  time.Now(),
	}

	s.tasksMu.Lock()
	s.tasks[taskID] = task
	s.tasksMu.Unlock()

	go s.runAnalysis(task, records, spend)

	return taskID, nil
}

// runAnalysis выполняет анализ и обновляет задачу по завершении
func (s *AnalysisService) runAnalysis(task *AnalysisTask, records []*normalization.VendorRecord, spend map[string]float64) {
	result, err := s.pipeline.Run(context.Background(), records, spend)

	now := time.Now()
	s.tasksMu.Lock()
	defer s.tasksMu.Unlock()

	task.CompletedAt = &now
	if err != nil {
		task.Status = TaskStatusFailed
		task.Error = err.Error()
		slog.Error("analysis task failed", "task_id", task.ID, "error", err)
		return
	}

	task.Status = TaskStatusCompleted
	task.Result = result
}

// GetTask получает статус задачи.
// Возвращается копия: задача обновляется фоновой горутиной,
// и живой указатель нельзя читать после снятия блокировки.
func (s *AnalysisService) GetTask(taskID string) (AnalysisTask, error) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return AnalysisTask{}, apperrors.NewNotFoundError("задача не найдена", nil)
	}

	return *task, nil
}

// GetResult получает результат завершенной задачи
func (s *AnalysisService) GetResult(taskID string) (*analysis.Result, error) {
	s.tasksMu.RLock()
	defer s.tasksMu.RUnlock()

	task, ok := s.tasks[taskID]
	if !ok {
		return nil, apperrors.NewNotFoundError("задача не найдена", nil)
	}

	switch task.Status {
	case TaskStatusRunning:
		return nil, apperrors.NewConflictError("задача еще выполняется", nil)
	case TaskStatusFailed:
		return nil, apperrors.NewInternalError("задача завершилась с ошибкой", fmt.Errorf("%s", task.Error))
	}

	return task.Result, nil
}

// Threshold возвращает порог уверенности используемого пайплайна
func (s *AnalysisService) Threshold() float64 {
	return s.pipeline.Threshold()
}

// generateTaskID генерирует уникальный ID задачи
func (s *AnalysisService) generateTaskID() string {
	s.taskCounterMu.Lock()
	s.taskCounter++
	id := fmt.Sprintf("analysis_%d_%d", time.Now().Unix(), s.taskCounter)
	s.taskCounterMu.Unlock()
	return id
}
