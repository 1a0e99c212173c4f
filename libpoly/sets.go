package libpoly

import (
	"github.com/dgraph-io/badger/v4"

	"github.com/polytope-systems/gopoly/gopoly"
)

// FaceSet allows adding faces to an internal set and returning if a given
// face has already been added. Faces are keyed by their atom set alone.
type FaceSet interface {
	gopoly.FaceAdder

	// TryAddKey adds an already-encoded face key if it is not present.
	TryAddKey(key FaceLSM) bool

	// Close removes all previously added items from this set.
	//
	// If you make subsequent calls to TryAddFace(), call Close() when you're done.
	Close()
}

// NewFaceSet returns an empty FaceSet backed by an in-memory LSM db.
func NewFaceSet() FaceSet {
	return &faceSet{}
}

type faceSet struct {
	lsmSet
}

func (fs *faceSet) TryAddFace(f gopoly.Face) bool {
	var buf [96]byte
	key := AppendAtomSetLSM(buf[:0], f.Atoms)
	return fs.tryAdd(key)
}

func (fs *faceSet) TryAddKey(key FaceLSM) bool {
	return fs.tryAdd(key)
}

type lsmSet struct {
	db *badger.DB
}

func (set *lsmSet) autoOpen() {
	if set.db == nil {
		dbOpts := badger.DefaultOptions("").WithInMemory(true)
		dbOpts.Logger = nil
		dbOpts.MetricsEnabled = false

		var err error
		set.db, err = badger.Open(dbOpts)
		if err != nil {
			panic(err)
		}
	}
}

func (set *lsmSet) tryAdd(key []byte) bool {
	set.autoOpen()

	txn := set.db.NewTransaction(true)
	defer txn.Commit()

	added := false
	_, err := txn.Get(key)
	if err == nil {
		// no-op since the key is already in the db
	} else if err == badger.ErrKeyNotFound {
		err = txn.Set(key, nil)
		added = true
	}

	if err != nil {
		panic(err)
	}

	return added
}

func (set *lsmSet) Close() {
	if set.db != nil {
		set.db.Close()
		set.db = nil
	}
}
