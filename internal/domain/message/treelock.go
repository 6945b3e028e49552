package message

import "sync"

// treeLocks serializes structural mutations per simulation. Selection and
// id-ordering invariants both break under interleaved writes to one tree,
// so every mutation takes the tree's lock for its full duration. Reads do
// not lock; they see whatever the store's snapshot isolation provides.
type treeLocks struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func newTreeLocks() *treeLocks {
	return &treeLocks{locks: make(map[uint]*sync.Mutex)}
}

func (t *treeLocks) get(simulationID uint) *sync.Mutex {
	t.mu.Lock()
	defer t.mu.Unlock()
	lock, ok := t.locks[simulationID]
	if !ok {
		lock = &sync.Mutex{}
		t.locks[simulationID] = lock
	}
	return lock
}

// release drops the lock entry for a deleted simulation. Callers must not
// hold the lock they are releasing.
func (t *treeLocks) release(simulationID uint) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.locks, simulationID)
}
