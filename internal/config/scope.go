// internal/config/scope.go
package config

import (
	"github.com/vmunix/mediarr/internal/catchup"
)

// CatchupScope builds the immutable scope snapshot the dispatch engine
// reads. Called at startup and again on every settings save.
func (c *Config) CatchupScope() *catchup.Scope {
	tasks := make([]catchup.TaskKind, 0, len(c.Catchup.Tasks))
	for _, t := range c.Catchup.Tasks {
		kind, err := catchup.ParseTaskKind(t)
		if err != nil {
			// Validate reports unknown names; skip here.
			continue
		}
		tasks = append(tasks, kind)
	}

	return &catchup.Scope{
		CatchupEnabled:       c.Catchup.Enabled,
		EnabledTasks:         catchup.NewTaskSet(tasks...),
		FingerprintLibraries: catchup.NormalizeLibrarySet(c.Catchup.FingerprintLibraries),
		IntroSkipLibraries:   catchup.NormalizeLibrarySet(c.Catchup.IntroSkipLibraries),
		FingerprintUnlocked:  c.Catchup.FingerprintUnlocked,
		ExclusiveExtract:     c.Catchup.ExclusiveExtract,
		PersistMediaInfo:     c.Catchup.PersistMediaInfo,
		EnhancePeople:        c.Catchup.EnhancePeople,
	}
}

// CatchupManagerConfig maps the queue sections onto the queue manager's
// sizing knobs.
func (c *Config) CatchupManagerConfig() catchup.ManagerConfig {
	return catchup.ManagerConfig{
		MediaInfo:   queueConfig(c.Catchup.Queues.MediaInfo),
		Fingerprint: queueConfig(c.Catchup.Queues.Fingerprint),
		IntroSkip:   queueConfig(c.Catchup.Queues.IntroSkip),
	}
}

func queueConfig(q QueueConfig) catchup.QueueConfig {
	return catchup.QueueConfig{
		Workers:      q.Workers,
		Capacity:     q.Capacity,
		MaxAttempts:  q.MaxAttempts,
		RetryBackoff: q.RetryBackoff.Std(),
	}
}
