package catalog

import (
	"bytes"
	"encoding/binary"
	"runtime"

	"github.com/dgraph-io/badger/v4"
	"github.com/pkg/errors"

	"github.com/polytope-systems/gopoly/gopoly"
	"github.com/polytope-systems/gopoly/libpoly"
)

/***

Catalog database format:

	gCatalogStateKey => CatalogState

	'P', dim (byte), PolyLSM => FVectorLSM
		...

The above structure allows to:
	1) count cataloged polytopes per dimension without a scan
	2) enumerate all polytopes of a given dimension (in key order)
	3) check if a given incidence structure has been added
	4) recover every cataloged polytope (the key embeds the incidences)

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gPolyKeyPrefix   = byte('P')
)

const (
	kMajorVers = 2024
	kMinorVers = 1
)

// CatalogState is the mutable header of a catalog db.
type CatalogState struct {
	MajorVers    int32
	MinorVers    int32
	MaxDim       int32
	NumPolytopes []uint64 // indexed by polytope dimension
}

func (state *CatalogState) Marshal() []byte {
	var scrap [binary.MaxVarintLen64]byte

	out := make([]byte, 0, 32+8*len(state.NumPolytopes))
	for _, v := range []uint64{uint64(state.MajorVers), uint64(state.MinorVers), uint64(state.MaxDim)} {
		n := binary.PutUvarint(scrap[:], v)
		out = append(out, scrap[:n]...)
	}
	for _, count := range state.NumPolytopes {
		n := binary.PutUvarint(scrap[:], count)
		out = append(out, scrap[:n]...)
	}
	return out
}

func (state *CatalogState) Unmarshal(in []byte) error {
	rdr := bytes.NewReader(in)

	fields := [3]uint64{}
	for i := range fields {
		v, err := binary.ReadUvarint(rdr)
		if err != nil {
			return gopoly.ErrUnmarshal
		}
		fields[i] = v
	}
	state.MajorVers = int32(fields[0])
	state.MinorVers = int32(fields[1])
	state.MaxDim = int32(fields[2])

	state.NumPolytopes = make([]uint64, state.MaxDim+1)
	for i := range state.NumPolytopes {
		count, err := binary.ReadUvarint(rdr)
		if err != nil {
			return gopoly.ErrUnmarshal
		}
		state.NumPolytopes[i] = count
	}
	return nil
}

// catalog is a db wrapper for a polytope catalog
type catalog struct {
	ctx        gopoly.CatalogContext
	readOnly   bool
	stateDirty bool
	state      CatalogState
	db         *badger.DB
}

// OpenCatalog opens (or creates) a polytope catalog and attaches it to the
// given context for lifecycle management.
func OpenCatalog(ctx gopoly.CatalogContext, opts gopoly.CatalogOpts) (gopoly.Catalog, error) {
	if opts.MaxDim <= 0 {
		opts.MaxDim = 24
	}

	cat := &catalog{
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // not needed so disable for performance
	dbOpts.Logger = nil
	dbOpts.MetricsEnabled = false

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(gopoly.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once the db is open, the catalog ctx is blocked until the catalog closes
	cat.ctx = ctx
	ctx.AttachCatalog(cat)

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = true
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
		cat.state.MaxDim = opts.MaxDim
		cat.state.NumPolytopes = make([]uint64, opts.MaxDim+1)
	}

	if err == nil {
		if cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers {
			err = errors.New("catalog version is incompatible")
		} else if opts.MaxDim > cat.state.MaxDim {
			err = errors.New("catalog's MaxDim is below the requested MaxDim")
		}
	}

	if err != nil {
		cat.Close()
		return nil, err
	}

	return cat, nil
}

func (cat *catalog) loadState() error {
	err := cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err == nil {
			item.Value(func(val []byte) error {
				return cat.state.Unmarshal(val)
			})
		}
		return err
	})
	return err
}

func (cat *catalog) flushState() {
	if cat.stateDirty && !cat.readOnly {
		err := cat.db.Update(func(txn *badger.Txn) error {
			return txn.Set(gCatalogStateKey, cat.state.Marshal())
		})
		if err != nil {
			panic(err)
		}
		cat.stateDirty = false
	}
}

func (cat *catalog) Close() error {
	cat.flushState()
	if cat.db != nil {
		cat.db.Close()
		cat.db = nil
		if cat.ctx != nil {
			cat.ctx.DetachCatalog(cat)
			cat.ctx = nil
		}
	}
	return nil
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumPolytopes(forDim int32) int64 {
	if forDim < 0 || int(forDim) >= len(cat.state.NumPolytopes) {
		return 0
	}
	return int64(cat.state.NumPolytopes[forDim])
}

// formPolyKey embeds a polytope's dimension and full incidence encoding,
// so every entry can be rebuilt from its key alone.
func formPolyKey(key []byte, P gopoly.PolytopeState) []byte {
	key = append(key, gPolyKeyPrefix, byte(P.Dimension()))
	key = P.AppendPolyLSM(key)
	return key
}

// TryAddPolytope adds the given polytope if its incidence encoding is not
// already cataloged. The stored value is the polytope's f-vector, so adding
// performs a full face enumeration for new entries.
func (cat *catalog) TryAddPolytope(P gopoly.PolytopeState) bool {
	if cat.readOnly {
		return false
	}
	dim := P.Dimension()
	if dim < 0 || dim > int(cat.state.MaxDim) {
		return false
	}

	var keyBuf [192]byte
	key := formPolyKey(keyBuf[:0], P)

	added := false
	err := cat.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		if err == nil {
			// no-op since the polytope is already cataloged
			return nil
		}
		if err != badger.ErrKeyNotFound {
			return err
		}
		fv, err := P.FVector()
		if err != nil {
			return err
		}
		if err = txn.Set(append([]byte{}, key...), fv.AppendFVectorLSM(nil)); err != nil {
			return err
		}
		added = true
		return nil
	})
	if err != nil {
		panic(err)
	}

	if added {
		cat.state.NumPolytopes[dim]++
		cat.stateDirty = true
	}
	return added
}

// Select will call onHit() with each cataloged polytope matching the given
// search criteria. Enumeration stops when there are no more matches.
func (cat *catalog) Select(sel gopoly.PolySelector, onHit gopoly.OnPolyHit) {
	minKey := [2]byte{gPolyKeyPrefix, byte(sel.Min.Dim)}

	txn := cat.db.NewTransaction(false)
	defer txn.Discard()

	itr := txn.NewIterator(badger.IteratorOptions{
		Prefix: []byte{gPolyKeyPrefix},
	})
	defer itr.Close()

	for itr.Seek(minKey[:]); itr.Valid(); itr.Next() {
		key := itr.Item().Key()
		if len(key) < 2 {
			continue
		}
		dim := int32(key[1])
		if dim > sel.Max.Dim {
			break
		}
		P, err := libpoly.PolytopeFromLSM(gopoly.PolyLSM(key[2:]))
		if err != nil {
			panic(err)
		}
		if sel.SelectsPolytope(P) {
			onHit <- P
		}
	}
}
