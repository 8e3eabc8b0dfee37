package catchup

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskKind(t *testing.T) {
	for _, k := range AllTasks {
		got, err := ParseTaskKind(string(k))
		require.NoError(t, err)
		assert.Equal(t, k, got)
	}

	_, err := ParseTaskKind("bogus")
	assert.Error(t, err)
}

func TestTaskSet(t *testing.T) {
	s := NewTaskSet(TaskIntroSkip, TaskMediaInfo)
	assert.True(t, s.Contains(TaskMediaInfo))
	assert.True(t, s.Contains(TaskIntroSkip))
	assert.False(t, s.Contains(TaskFingerprint))

	// stable order regardless of construction order
	assert.Equal(t, []TaskKind{TaskMediaInfo, TaskIntroSkip}, s.Kinds())
}

func TestScope_LibraryInScope(t *testing.T) {
	sc := &Scope{
		FingerprintLibraries: NormalizeLibrarySet([]string{"TV Shows"}),
	}

	assert.True(t, sc.LibraryInScope("TV Shows", TaskFingerprint))
	assert.True(t, sc.LibraryInScope("tv shows", TaskFingerprint))
	assert.False(t, sc.LibraryInScope("Movies", TaskFingerprint))

	// empty set means every library qualifies
	assert.True(t, sc.LibraryInScope("Movies", TaskIntroSkip))

	// media-info has no library restriction
	assert.True(t, sc.LibraryInScope("Movies", TaskMediaInfo))
}

func TestHolder_SwapVisibleToReaders(t *testing.T) {
	h := NewHolder(&Scope{CatchupEnabled: false})
	assert.False(t, h.Current().CatchupEnabled)

	h.Swap(&Scope{CatchupEnabled: true, EnabledTasks: NewTaskSet(TaskMediaInfo)})

	got := h.Current()
	assert.True(t, got.CatchupEnabled)
	assert.True(t, got.IsTaskEnabled(TaskMediaInfo))
}

func TestHolder_ConcurrentReadersSeeWholeSnapshots(t *testing.T) {
	h := NewHolder(&Scope{})

	// Each snapshot either has all three tasks or none. A reader observing a
	// mixed set would mean a torn read.
	var wg sync.WaitGroup
	stop := make(chan struct{})
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-stop:
					return
				default:
				}
				sc := h.Current()
				n := len(sc.EnabledTasks)
				assert.True(t, n == 0 || n == 3, "observed partial scope: %d tasks", n)
			}
		}()
	}

	for i := 0; i < 1000; i++ {
		if i%2 == 0 {
			h.Swap(&Scope{EnabledTasks: NewTaskSet(AllTasks...)})
		} else {
			h.Swap(&Scope{})
		}
	}
	close(stop)
	wg.Wait()
}
