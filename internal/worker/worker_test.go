package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/ragcore-labs/ragcore/internal/core/domain"
	"github.com/stretchr/testify/require"
)

type mockTaskQueue struct {
	mu    sync.Mutex
	tasks []domain.IngestionTask
	popFn func(ctx context.Context) (domain.IngestionTask, error)
}

func newMockTaskQueue(tasks ...domain.IngestionTask) *mockTaskQueue {
	return &mockTaskQueue{tasks: tasks}
}

func (m *mockTaskQueue) Push(ctx context.Context, task domain.IngestionTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tasks = append(m.tasks, task)
	return nil
}

func (m *mockTaskQueue) Pop(ctx context.Context) (domain.IngestionTask, error) {
	if m.popFn != nil {
		return m.popFn(ctx)
	}
	m.mu.Lock()
	if len(m.tasks) > 0 {
		task := m.tasks[0]
		m.tasks = m.tasks[1:]
		m.mu.Unlock()
		return task, nil
	}
	m.mu.Unlock()

	<-ctx.Done()
	return domain.IngestionTask{}, ctx.Err()
}

type mockOrchestrator struct {
	mu        sync.Mutex
	processed []domain.IngestionTask
	processFn func(ctx context.Context, task domain.IngestionTask) error
}

func (m *mockOrchestrator) Process(ctx context.Context, task domain.IngestionTask) error {
	m.mu.Lock()
	m.processed = append(m.processed, task)
	m.mu.Unlock()
	if m.processFn != nil {
		return m.processFn(ctx, task)
	}
	return nil
}

func (m *mockOrchestrator) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.processed)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(discardWriter{}, nil))
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

func TestWorker_ProcessesPoppedTask(t *testing.T) {
	task := domain.IngestionTask{Type: domain.TaskTypePDF, ID: "source-1", UserID: "user-1"}
	queue := newMockTaskQueue(task)
	orchestrator := &mockOrchestrator{}

	w := New(Config{TaskQueue: queue, Orchestrator: orchestrator, Logger: discardLogger(), Concurrency: 1})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.Eventually(t, func() bool { return orchestrator.count() == 1 }, time.Second, 10*time.Millisecond)

	cancel()
	w.Stop()

	require.Equal(t, "source-1", orchestrator.processed[0].ID)
}

func TestWorker_ContinuesAfterProcessError(t *testing.T) {
	tasks := []domain.IngestionTask{
		{Type: domain.TaskTypePDF, ID: "fails"},
		{Type: domain.TaskTypePDF, ID: "succeeds"},
	}
	queue := newMockTaskQueue(tasks...)
	orchestrator := &mockOrchestrator{
		processFn: func(ctx context.Context, task domain.IngestionTask) error {
			if task.ID == "fails" {
				return errors.New("boom")
			}
			return nil
		},
	}

	w := New(Config{TaskQueue: queue, Orchestrator: orchestrator, Logger: discardLogger(), Concurrency: 1})

	ctx, cancel := context.WithCancel(context.Background())
	w.Start(ctx)

	require.Eventually(t, func() bool { return orchestrator.count() == 2 }, time.Second, 10*time.Millisecond)

	cancel()
	w.Stop()
}

func TestWorker_StopWithoutStartReturns(t *testing.T) {
	queue := newMockTaskQueue()
	orchestrator := &mockOrchestrator{}
	w := New(Config{TaskQueue: queue, Orchestrator: orchestrator, Logger: discardLogger()})

	w.Stop()
}
