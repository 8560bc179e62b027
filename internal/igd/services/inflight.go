package services

import "sync"

// inflight mencatat operasi mutasi yang sedang berjalan per kunci.
type inflight struct {
	mu   sync.Mutex
	keys map[string]struct{}
}

func newInflight() *inflight {
	return &inflight{keys: make(map[string]struct{})}
}

// acquire gagal dengan ErrSedangDiproses bila kunci yang sama masih berjalan.
func (f *inflight) acquire(key string) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, busy := f.keys[key]; busy {
		return nil, ErrSedangDiproses
	}
	f.keys[key] = struct{}{}
	return func() {
		f.mu.Lock()
		delete(f.keys, key)
		f.mu.Unlock()
	}, nil
}
