package native

import "github.com/syndtr/goleveldb/leveldb"

// view picks the read view a call runs against. Committing calls read the
// live database so their overlay can be flushed onto it. Read-only calls get
// a leveldb snapshot, which the returned release func must free.
func view(db *leveldb.DB, commit bool) (reader, func(), error) {
	if commit {
		return db, func() {}, nil
	}
	snap, err := db.GetSnapshot()
	if err != nil {
		return nil, nil, err
	}
	return snap, snap.Release, nil
}
