package app

import (
	"sort"

	"scholarship-engine/internal/common/config"
	ge "scholarship-engine/internal/workers/essay/generate-essay"
	ms "scholarship-engine/internal/workers/scholarship/match-scholarships"
	"scholarship-engine/pkg/registry"
)

// Activities lists the Zeebe job types this service works.
func Activities(version string) *registry.ActivityRegistry {
	return registry.New(version, ms.Activity(), ge.Activity())
}

// UnknownWorkers returns the keys under workers that match no activity,
// usually a typo in the task type.
func UnknownWorkers(reg *registry.ActivityRegistry, workers map[string]config.WorkerConfig) []string {
	keys := make([]string, 0, len(workers))
	for k := range workers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return reg.Missing(keys)
}
