package native

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// reader is satisfied by both *leveldb.DB and *leveldb.Snapshot.
type reader interface {
	Get(key []byte, ro *opt.ReadOptions) ([]byte, error)
}

type pendingEntry struct {
	value   []byte
	deleted bool
}

// overlay journals every write a call makes on top of a read view. Nothing
// reaches the database until flush, so a trapped or reverted call is undone
// by simply dropping the overlay.
type overlay struct {
	base    reader
	pending map[string]pendingEntry
}

func newOverlay(base reader) *overlay {
	return &overlay{base: base, pending: make(map[string]pendingEntry)}
}

// get returns the value at key, checking pending writes first.
func (o *overlay) get(key []byte) ([]byte, bool, error) {
	if e, ok := o.pending[string(key)]; ok {
		if e.deleted {
			return nil, false, nil
		}
		return append([]byte(nil), e.value...), true, nil
	}
	v, err := o.base.Get(key, nil)
	if errors.Is(err, leveldb.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return v, true, nil
}

func (o *overlay) put(key, value []byte) {
	o.pending[string(key)] = pendingEntry{value: append([]byte(nil), value...)}
}

func (o *overlay) delete(key []byte) {
	o.pending[string(key)] = pendingEntry{deleted: true}
}

// dirty reports whether any write is pending.
func (o *overlay) dirty() bool { return len(o.pending) > 0 }

// flush writes the journal to db as one atomic batch and clears it.
func (o *overlay) flush(db *leveldb.DB) error {
	if !o.dirty() {
		return nil
	}
	batch := new(leveldb.Batch)
	for k, e := range o.pending {
		if e.deleted {
			batch.Delete([]byte(k))
			continue
		}
		batch.Put([]byte(k), e.value)
	}
	if err := db.Write(batch, nil); err != nil {
		return err
	}
	o.pending = make(map[string]pendingEntry)
	return nil
}
