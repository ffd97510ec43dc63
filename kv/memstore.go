package kv

import (
	"bytes"
	"sort"
	"sync"
)

// memStore keeps the full key space as a sorted slice of entries. Lookups and
// inserts binary search. Scans copy the matching range so a statement can
// read and write the same table.
type memStore struct {
	mu      sync.RWMutex
	entries []memEntry
}

type memEntry struct {
	key   []byte
	value []byte
}

// NewMemStore returns an empty in memory store.
func NewMemStore() Store {
	return &memStore{}
}

// search returns the index of key and whether it is present.
func (m *memStore) search(key []byte) (int, bool) {
	i := sort.Search(len(m.entries), func(i int) bool {
		return bytes.Compare(m.entries[i].key, key) >= 0
	})
	found := i < len(m.entries) && bytes.Equal(m.entries[i].key, key)
	return i, found
}

func (m *memStore) Put(key, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(key, value)
	return nil
}

func (m *memStore) put(key, value []byte) {
	k := bytes.Clone(key)
	v := bytes.Clone(value)
	i, found := m.search(key)
	if found {
		m.entries[i].value = v
		return
	}
	m.entries = append(m.entries, memEntry{})
	copy(m.entries[i+1:], m.entries[i:])
	m.entries[i] = memEntry{key: k, value: v}
}

func (m *memStore) Get(key []byte) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	i, found := m.search(key)
	if !found {
		return nil, false, nil
	}
	return bytes.Clone(m.entries[i].value), true, nil
}

func (m *memStore) Delete(key []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delete(key)
	return nil
}

func (m *memStore) delete(key []byte) {
	i, found := m.search(key)
	if !found {
		return
	}
	m.entries = append(m.entries[:i], m.entries[i+1:]...)
}

func (m *memStore) Scan(prefix []byte) (Iterator, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	start, _ := m.search(prefix)
	var snapshot []memEntry
	for i := start; i < len(m.entries); i += 1 {
		if !bytes.HasPrefix(m.entries[i].key, prefix) {
			break
		}
		snapshot = append(snapshot, memEntry{
			key:   bytes.Clone(m.entries[i].key),
			value: bytes.Clone(m.entries[i].value),
		})
	}
	return &sliceIterator{entries: snapshot, pos: -1}, nil
}

func (m *memStore) DeletePrefix(prefix []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	start, _ := m.search(prefix)
	end := start
	for end < len(m.entries) && bytes.HasPrefix(m.entries[end].key, prefix) {
		end += 1
	}
	m.entries = append(m.entries[:start], m.entries[end:]...)
	return nil
}

func (m *memStore) Batch() WriteBatch {
	return &memBatch{store: m}
}

func (m *memStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = nil
	return nil
}

// sliceIterator walks a snapshot of entries taken at Scan time.
type sliceIterator struct {
	entries []memEntry
	pos     int
}

func (it *sliceIterator) Next() bool {
	if it.pos+1 >= len(it.entries) {
		return false
	}
	it.pos += 1
	return true
}

func (it *sliceIterator) Key() []byte {
	return it.entries[it.pos].key
}

func (it *sliceIterator) Value() []byte {
	return it.entries[it.pos].value
}

func (it *sliceIterator) Close() {}

// memBatch buffers writes and applies them under one lock acquisition so a
// reader never observes half of a batch.
type memBatch struct {
	store *memStore
	ops   []batchOp
}

type batchOp struct {
	key      []byte
	value    []byte
	isDelete bool
}

func (b *memBatch) Put(key, value []byte) {
	b.ops = append(b.ops, batchOp{key: bytes.Clone(key), value: bytes.Clone(value)})
}

func (b *memBatch) Delete(key []byte) {
	b.ops = append(b.ops, batchOp{key: bytes.Clone(key), isDelete: true})
}

func (b *memBatch) Commit() error {
	b.store.mu.Lock()
	defer b.store.mu.Unlock()
	for _, op := range b.ops {
		if op.isDelete {
			b.store.delete(op.key)
		} else {
			b.store.put(op.key, op.value)
		}
	}
	b.ops = nil
	return nil
}
