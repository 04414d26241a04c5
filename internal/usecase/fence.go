package usecase

import "sync"

// fence emite tokens crescentes por slot. Só a resposta do token mais recente pode alterar o estado.
type fence struct {
	mu     sync.Mutex
	latest map[string]uint64
}

func newFence() *fence {
	return &fence{latest: make(map[string]uint64)}
}

func (f *fence) issue(slot string) uint64 {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.latest[slot]++
	return f.latest[slot]
}

func (f *fence) isLatest(slot string, token uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.latest[slot] == token
}
