package kv

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

// storesUnderTest runs the same assertions against both implementations.
func storesUnderTest(t *testing.T) map[string]func(t *testing.T) Store {
	return map[string]func(t *testing.T) Store{
		"memory": func(t *testing.T) Store {
			return NewMemStore()
		},
		"file": func(t *testing.T) Store {
			s, err := OpenFileStore(filepath.Join(t.TempDir(), "kv.log"))
			if err != nil {
				t.Fatalf("err opening file store: %s", err)
			}
			return s
		},
	}
}

func TestPutGetDelete(t *testing.T) {
	for name, open := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			_, found, err := s.Get([]byte("missing"))
			assert.NoError(t, err)
			assert.False(t, found)

			assert.NoError(t, s.Put([]byte("a"), []byte("1")))
			assert.NoError(t, s.Put([]byte("a"), []byte("2")))
			v, found, err := s.Get([]byte("a"))
			assert.NoError(t, err)
			assert.True(t, found)
			assert.Equal(t, []byte("2"), v)

			assert.NoError(t, s.Delete([]byte("a")))
			_, found, err = s.Get([]byte("a"))
			assert.NoError(t, err)
			assert.False(t, found)
		})
	}
}

func TestScanIsOrderedAndPrefixed(t *testing.T) {
	for name, open := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			pairs := map[string]string{
				"\x01c": "3",
				"\x01a": "1",
				"\x01b": "2",
				"\x02a": "other table",
			}
			for k, v := range pairs {
				assert.NoError(t, s.Put([]byte(k), []byte(v)))
			}

			it, err := s.Scan([]byte{0x01})
			assert.NoError(t, err)
			defer it.Close()
			var keys []string
			for it.Next() {
				keys = append(keys, string(it.Key()))
			}
			assert.Equal(t, []string{"\x01a", "\x01b", "\x01c"}, keys)
		})
	}
}

func TestDeletePrefix(t *testing.T) {
	for name, open := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			s := open(t)
			defer s.Close()

			assert.NoError(t, s.Put([]byte("\x01a"), []byte("1")))
			assert.NoError(t, s.Put([]byte("\x01b"), []byte("2")))
			assert.NoError(t, s.Put([]byte("\x02a"), []byte("3")))
			assert.NoError(t, s.DeletePrefix([]byte{0x01}))

			it, err := s.Scan(nil)
			assert.NoError(t, err)
			defer it.Close()
			var keys []string
			for it.Next() {
				keys = append(keys, string(it.Key()))
			}
			assert.Equal(t, []string{"\x02a"}, keys)
		})
	}
}

func TestBatchIsAtomicAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.log")
	s, err := OpenFileStore(path)
	assert.NoError(t, err)

	b := s.Batch()
	b.Put([]byte("a"), []byte("1"))
	b.Put([]byte("b"), []byte("2"))
	assert.NoError(t, b.Commit())
	assert.NoError(t, s.Close())

	s, err = OpenFileStore(path)
	assert.NoError(t, err)
	defer s.Close()
	v, found, err := s.Get([]byte("b"))
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("2"), v)
}

func TestReplayDiscardsTornTail(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kv.log")
	s, err := OpenFileStore(path)
	assert.NoError(t, err)
	assert.NoError(t, s.Put([]byte("a"), []byte("1")))

	// Append a put record with no commit marker, as if the process died mid
	// batch.
	fs := s.(*fileStore)
	_, err = fs.appendPut([]byte("b"), []byte("2"))
	assert.NoError(t, err)
	assert.NoError(t, s.Close())

	s, err = OpenFileStore(path)
	assert.NoError(t, err)
	defer s.Close()
	_, found, err := s.Get([]byte("b"))
	assert.NoError(t, err)
	assert.False(t, found)
	v, found, err := s.Get([]byte("a"))
	assert.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("1"), v)
}
