package tasks

import (
	"context"
	"log/slog"
	"sync"
)

// Runner executes tasks on a fixed pool of workers and returns when every
// task has run or the context is cancelled.
type Runner struct {
	workerCount int
}

func NewRunner(workerCount int) *Runner {
	if workerCount < 1 {
		workerCount = 1
	}
	return &Runner{workerCount: workerCount}
}

func (r *Runner) Run(ctx context.Context, tasks []Task) {
	queue := make(chan Task)

	var wg sync.WaitGroup
	for i := 0; i < r.workerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for task := range queue {
				r.execute(ctx, id, task)
			}
		}(i)
	}

	for _, task := range tasks {
		select {
		case queue <- task:
		case <-ctx.Done():
			slog.Warn("Update pass cancelled", "remaining", len(tasks))
			close(queue)
			wg.Wait()
			return
		}
	}
	close(queue)
	wg.Wait()
}

func (r *Runner) execute(ctx context.Context, workerID int, task Task) {
	task.Start()
	if err := task.Execute(ctx); err != nil {
		slog.Error("Task execution failed", "worker_id", workerID, "task", task.Name(), "error", err)
	}
}
