// internal/common/camunda/worker.go
package camunda

import (
	"time"

	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/camunda/zeebe/clients/go/v8/pkg/zbc"

	"scholarship-engine/internal/common/config"
	"scholarship-engine/internal/common/logger"
)

// Registration binds a task type to its handler.
type Registration struct {
	TaskType string
	Handler  worker.JobHandler
}

// WorkerSet owns the job workers opened for one process.
type WorkerSet struct {
	workers []worker.JobWorker
	logger  logger.Logger
}

func NewWorkerSet(log logger.Logger) *WorkerSet {
	return &WorkerSet{logger: log.WithFields(map[string]interface{}{"component": "worker-set"})}
}

// Start opens a job worker for each enabled registration. A task type with
// no entry under workers is treated as disabled.
func (s *WorkerSet) Start(client zbc.Client, regs []Registration, cfgs map[string]config.WorkerConfig) int {
	started := 0
	for _, reg := range regs {
		wcfg, ok := cfgs[reg.TaskType]
		if !ok || !wcfg.Enabled {
			s.logger.Info("worker disabled", map[string]interface{}{"taskType": reg.TaskType})
			continue
		}

		jw := client.NewJobWorker().
			JobType(reg.TaskType).
			Handler(reg.Handler).
			MaxJobsActive(wcfg.MaxJobsActive).
			Timeout(time.Duration(wcfg.Timeout) * time.Millisecond).
			Open()
		s.workers = append(s.workers, jw)
		started++

		s.logger.Info("worker started", map[string]interface{}{
			"taskType":      reg.TaskType,
			"maxJobsActive": wcfg.MaxJobsActive,
			"timeout_ms":    wcfg.Timeout,
		})
	}
	return started
}

// Stop closes every worker and waits for in-flight jobs.
func (s *WorkerSet) Stop() {
	for _, jw := range s.workers {
		jw.Close()
		jw.AwaitClose()
	}
	s.logger.Info("workers stopped", map[string]interface{}{"count": len(s.workers)})
	s.workers = nil
}
