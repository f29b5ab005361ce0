package convert

import "sync"

var (
	sharedMu sync.Mutex
	shared   *Engine
)

// Shared returns the process-wide engine, constructing it on first call with
// the given options. Construction happens at most once per process; later
// calls return the cached handle and ignore opts. The server calls this once
// at startup so request handlers always hit the cached path.
func Shared(opts Options) *Engine {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	if shared == nil {
		shared = NewEngine(opts)
	}
	return shared
}
