// Package catchup implements the event-driven enrichment pipeline: the
// dispatch rules that turn library and session events into queued work, the
// per-task queues with their worker pools, and the scope configuration that
// gates both.
package catchup

import "fmt"

// TaskKind identifies one of the three enrichment task families.
type TaskKind string

const (
	TaskMediaInfo   TaskKind = "mediainfo"
	TaskFingerprint TaskKind = "fingerprint"
	TaskIntroSkip   TaskKind = "introskip"
)

// AllTasks lists every task kind in a stable order.
var AllTasks = []TaskKind{TaskMediaInfo, TaskFingerprint, TaskIntroSkip}

// ParseTaskKind converts a config string to a TaskKind.
func ParseTaskKind(s string) (TaskKind, error) {
	switch TaskKind(s) {
	case TaskMediaInfo, TaskFingerprint, TaskIntroSkip:
		return TaskKind(s), nil
	}
	return "", fmt.Errorf("unknown task kind: %q", s)
}

// TaskSet is an explicit set of task kinds. Membership tests are named
// operations rather than bit arithmetic.
type TaskSet map[TaskKind]struct{}

// NewTaskSet builds a set from the given kinds.
func NewTaskSet(kinds ...TaskKind) TaskSet {
	s := make(TaskSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Contains reports whether the set includes the given kind.
func (s TaskSet) Contains(k TaskKind) bool {
	_, ok := s[k]
	return ok
}

// Kinds returns the members in the stable AllTasks order.
func (s TaskSet) Kinds() []TaskKind {
	out := make([]TaskKind, 0, len(s))
	for _, k := range AllTasks {
		if s.Contains(k) {
			out = append(out, k)
		}
	}
	return out
}
