package kv

import (
	"bytes"
	"encoding/binary"
	"io"
	"os"
	"sort"
	"sync"

	"github.com/golang/groupcache/lru"
)

const (
	recPut    = byte(1)
	recDelete = byte(2)
	// recCommit marks the records since the previous marker as durable.
	// Records after the last marker are discarded during replay.
	recCommit = byte(3)
)

// valueCacheSize is the number of values kept in the read cache.
const valueCacheSize = 4096

// fileStore is an append only log with an in memory ordered index. Every
// mutation appends put and delete records followed by a commit marker. The
// index maps each live key to the offset of its value bytes in the log.
// Values read from the log go through an LRU cache keyed by offset.
type fileStore struct {
	mu    sync.Mutex
	file  *os.File
	size  int64
	index []indexEntry
	cache *lru.Cache
}

type indexEntry struct {
	key    []byte
	offset int64
	length int
}

// OpenFileStore opens or creates the log at filename and replays it to
// rebuild the index.
func OpenFileStore(filename string) (Store, error) {
	f, err := os.OpenFile(filename, os.O_RDWR|os.O_CREATE, 0644)
	if err != nil {
		return nil, err
	}
	s := &fileStore{
		file:  f,
		cache: lru.New(valueCacheSize),
	}
	if err := s.replay(); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// replay scans the log applying committed records to the index. A torn tail
// with no trailing commit marker is truncated.
func (s *fileStore) replay() error {
	info, err := s.file.Stat()
	if err != nil {
		return err
	}
	data := make([]byte, info.Size())
	if _, err := io.ReadFull(io.NewSectionReader(s.file, 0, info.Size()), data); err != nil {
		return err
	}
	type replayOp struct {
		key      []byte
		offset   int64
		length   int
		isDelete bool
	}
	var pending []replayOp
	var pos int64
	committed := int64(0)
	for pos < int64(len(data)) {
		rec := data[pos]
		pos += 1
		switch rec {
		case recCommit:
			for _, op := range pending {
				if op.isDelete {
					s.indexDelete(op.key)
				} else {
					s.indexPut(op.key, op.offset, op.length)
				}
			}
			pending = pending[:0]
			committed = pos
		case recPut, recDelete:
			klen, n := binary.Uvarint(data[pos:])
			if n <= 0 {
				return s.truncate(committed)
			}
			pos += int64(n)
			if pos+int64(klen) > int64(len(data)) {
				return s.truncate(committed)
			}
			key := bytes.Clone(data[pos : pos+int64(klen)])
			pos += int64(klen)
			if rec == recDelete {
				pending = append(pending, replayOp{key: key, isDelete: true})
				continue
			}
			vlen, n := binary.Uvarint(data[pos:])
			if n <= 0 {
				return s.truncate(committed)
			}
			pos += int64(n)
			if pos+int64(vlen) > int64(len(data)) {
				return s.truncate(committed)
			}
			pending = append(pending, replayOp{key: key, offset: pos, length: int(vlen)})
			pos += int64(vlen)
		default:
			return s.truncate(committed)
		}
	}
	s.size = int64(len(data))
	if committed != int64(len(data)) {
		return s.truncate(committed)
	}
	return nil
}

func (s *fileStore) truncate(size int64) error {
	if err := s.file.Truncate(size); err != nil {
		return err
	}
	s.size = size
	return nil
}

func (s *fileStore) indexSearch(key []byte) (int, bool) {
	i := sort.Search(len(s.index), func(i int) bool {
		return bytes.Compare(s.index[i].key, key) >= 0
	})
	found := i < len(s.index) && bytes.Equal(s.index[i].key, key)
	return i, found
}

func (s *fileStore) indexPut(key []byte, offset int64, length int) {
	i, found := s.indexSearch(key)
	if found {
		s.index[i].offset = offset
		s.index[i].length = length
		return
	}
	s.index = append(s.index, indexEntry{})
	copy(s.index[i+1:], s.index[i:])
	s.index[i] = indexEntry{key: bytes.Clone(key), offset: offset, length: length}
}

func (s *fileStore) indexDelete(key []byte) {
	i, found := s.indexSearch(key)
	if !found {
		return
	}
	s.index = append(s.index[:i], s.index[i+1:]...)
}

// append writes raw bytes at the current tail and returns the offset the
// write started at.
func (s *fileStore) append(b []byte) (int64, error) {
	off := s.size
	if _, err := s.file.WriteAt(b, off); err != nil {
		return 0, err
	}
	s.size += int64(len(b))
	return off, nil
}

// appendPut writes a put record and returns the offset of the value bytes.
func (s *fileStore) appendPut(key, value []byte) (int64, error) {
	rec := []byte{recPut}
	rec = binary.AppendUvarint(rec, uint64(len(key)))
	rec = append(rec, key...)
	rec = binary.AppendUvarint(rec, uint64(len(value)))
	valueAt := int64(len(rec))
	rec = append(rec, value...)
	off, err := s.append(rec)
	if err != nil {
		return 0, err
	}
	return off + valueAt, nil
}

func (s *fileStore) appendDelete(key []byte) error {
	rec := []byte{recDelete}
	rec = binary.AppendUvarint(rec, uint64(len(key)))
	rec = append(rec, key...)
	_, err := s.append(rec)
	return err
}

func (s *fileStore) appendCommit() error {
	if _, err := s.append([]byte{recCommit}); err != nil {
		return err
	}
	return s.file.Sync()
}

func (s *fileStore) Put(key, value []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	off, err := s.appendPut(key, value)
	if err != nil {
		return err
	}
	if err := s.appendCommit(); err != nil {
		return err
	}
	s.indexPut(key, off, len(value))
	s.cache.Add(off, bytes.Clone(value))
	return nil
}

func (s *fileStore) Get(key []byte) ([]byte, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, found := s.indexSearch(key)
	if !found {
		return nil, false, nil
	}
	v, err := s.readValue(s.index[i])
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

// readValue fetches value bytes through the LRU cache.
func (s *fileStore) readValue(e indexEntry) ([]byte, error) {
	if v, hit := s.cache.Get(e.offset); hit {
		return bytes.Clone(v.([]byte)), nil
	}
	v := make([]byte, e.length)
	if _, err := s.file.ReadAt(v, e.offset); err != nil {
		return nil, err
	}
	s.cache.Add(e.offset, bytes.Clone(v))
	return v, nil
}

func (s *fileStore) Delete(key []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, found := s.indexSearch(key); !found {
		return nil
	}
	if err := s.appendDelete(key); err != nil {
		return err
	}
	if err := s.appendCommit(); err != nil {
		return err
	}
	s.indexDelete(key)
	return nil
}

func (s *fileStore) Scan(prefix []byte) (Iterator, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	start, _ := s.indexSearch(prefix)
	var snapshot []memEntry
	for i := start; i < len(s.index); i += 1 {
		if !bytes.HasPrefix(s.index[i].key, prefix) {
			break
		}
		v, err := s.readValue(s.index[i])
		if err != nil {
			return nil, err
		}
		snapshot = append(snapshot, memEntry{
			key:   bytes.Clone(s.index[i].key),
			value: v,
		})
	}
	return &sliceIterator{entries: snapshot, pos: -1}, nil
}

func (s *fileStore) DeletePrefix(prefix []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	start, _ := s.indexSearch(prefix)
	end := start
	for end < len(s.index) && bytes.HasPrefix(s.index[end].key, prefix) {
		if err := s.appendDelete(s.index[end].key); err != nil {
			return err
		}
		end += 1
	}
	if end == start {
		return nil
	}
	if err := s.appendCommit(); err != nil {
		return err
	}
	s.index = append(s.index[:start], s.index[end:]...)
	return nil
}

func (s *fileStore) Batch() WriteBatch {
	return &fileBatch{store: s}
}

func (s *fileStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.file.Close()
}

// fileBatch buffers operations and appends them followed by a single commit
// marker. Replay discards the records if the marker never makes it to disk.
type fileBatch struct {
	store *fileStore
	ops   []batchOp
}

func (b *fileBatch) Put(key, value []byte) {
	b.ops = append(b.ops, batchOp{key: bytes.Clone(key), value: bytes.Clone(value)})
}

func (b *fileBatch) Delete(key []byte) {
	b.ops = append(b.ops, batchOp{key: bytes.Clone(key), isDelete: true})
}

func (b *fileBatch) Commit() error {
	s := b.store
	s.mu.Lock()
	defer s.mu.Unlock()
	offsets := make([]int64, len(b.ops))
	for i, op := range b.ops {
		if op.isDelete {
			if err := s.appendDelete(op.key); err != nil {
				return err
			}
			continue
		}
		off, err := s.appendPut(op.key, op.value)
		if err != nil {
			return err
		}
		offsets[i] = off
	}
	if err := s.appendCommit(); err != nil {
		return err
	}
	for i, op := range b.ops {
		if op.isDelete {
			s.indexDelete(op.key)
		} else {
			s.indexPut(op.key, offsets[i], len(op.value))
		}
	}
	b.ops = nil
	return nil
}
