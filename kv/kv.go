// kv defines the ordered key value contract the engine runs on. The engine
// only ever talks to storage through the Store interface: point reads and
// writes, ascending prefix scans, prefix deletes, and atomic write batches.
// Two implementations live in this package. memStore keeps the key space in
// memory and backs tests and :memory: databases. fileStore appends to a log
// file and rebuilds its index on open.
package kv

// Store is the minimal surface an ordered key value store exposes to the
// engine. Keys order bytewise ascending. A Store is single writer for the
// duration of a statement.
type Store interface {
	// Put sets key to value, overwriting any previous value.
	Put(key, value []byte) error
	// Get returns the value for key and whether the key exists.
	Get(key []byte) ([]byte, bool, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(key []byte) error
	// Scan returns an iterator over all pairs whose key starts with prefix,
	// in ascending byte order of key.
	Scan(prefix []byte) (Iterator, error)
	// DeletePrefix removes every pair whose key starts with prefix.
	DeletePrefix(prefix []byte) error
	// Batch returns a write batch whose puts and deletes apply atomically on
	// Commit.
	Batch() WriteBatch
	// Close releases the store. The store cannot be used afterwards.
	Close() error
}

// Iterator walks key value pairs in ascending key order. Next must be called
// before the first Key/Value access. Callers must Close on every exit path.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() []byte
	Close()
}

// WriteBatch buffers puts and deletes until Commit applies them atomically.
type WriteBatch interface {
	Put(key, value []byte)
	Delete(key []byte)
	Commit() error
}

// Open returns a file backed store for filename, or a memory backed store
// when useMemory is set.
func Open(useMemory bool, filename string) (Store, error) {
	if useMemory {
		return NewMemStore(), nil
	}
	return OpenFileStore(filename)
}
