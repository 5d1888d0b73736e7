package catalog

import (
	"runtime"
	"sync"

	"github.com/dgraph-io/badger/v3"
	"github.com/gogo/protobuf/proto"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/2x3systems/topomap/topo"
)

/***

Catalog database format:

	gCatalogStateKey                => CatalogState

	gMapKeyPrefix, name (utf8)      => MapState
	...

Map names are stored verbatim after the prefix, so badger's key order is name order and
a Select on a name prefix is a badger prefix scan.

***/

var (
	gCatalogStateKey = []byte{0x00, 0x00, 0x01}
	gMapKeyPrefix    = []byte{0x01, 'M'}
)

const (
	kMajorVers = 2024
	kMinorVers = 1
)

// catalog is a badger wrapper holding named map snapshots
type catalog struct {
	ctx      topo.CatalogContext
	readOnly bool

	// dbMu is held for reading by every db access and for writing by Close.
	dbMu sync.RWMutex
	db   *badger.DB

	mu         sync.Mutex // serializes writes and guards state
	stateDirty bool
	state      topo.CatalogState
}

// OpenCatalog opens (or creates) the catalog described by opts and attaches it to ctx.
func OpenCatalog(ctx topo.CatalogContext, opts topo.CatalogOpts) (topo.Catalog, error) {
	cat := &catalog{
		ctx:      ctx,
		readOnly: opts.ReadOnly,
	}

	dbOpts := badger.DefaultOptions(opts.DbPathName)
	dbOpts.ReadOnly = opts.ReadOnly
	dbOpts.DetectConflicts = false // writes are serialized by cat.mu
	dbOpts.Logger = nil

	// Badger for windows currently does not support read-only mode
	if runtime.GOOS == "windows" {
		dbOpts.ReadOnly = false
	}

	if len(opts.DbPathName) == 0 {
		if opts.ReadOnly {
			return nil, errors.Wrap(topo.ErrBadCatalogParam, "DbPathName must be specified for read-only catalog")
		}
		dbOpts.InMemory = true
	}

	var err error
	cat.db, err = badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}

	// Once attached, the catalog ctx is blocked until the catalog closes
	if err = ctx.AttachCatalog(cat); err != nil {
		cat.db.Close()
		return nil, err
	}

	err = cat.loadState()
	if err == badger.ErrKeyNotFound {
		err = nil
		cat.stateDirty = !cat.readOnly
		cat.state.MajorVers = kMajorVers
		cat.state.MinorVers = kMinorVers
	}
	if err == nil && (cat.state.MajorVers != kMajorVers || cat.state.MinorVers != kMinorVers) {
		err = errors.Wrapf(topo.ErrCatalogVersion, "found v%d.%d", cat.state.MajorVers, cat.state.MinorVers)
	}
	if err != nil {
		cat.Close()
		return nil, err
	}

	klog.V(2).Infof("opened catalog %q holding %d maps", opts.DbPathName, cat.state.NumMaps)
	return cat, nil
}

func (cat *catalog) loadState() error {
	return cat.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gCatalogStateKey)
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			if err := proto.Unmarshal(val, &cat.state); err != nil {
				return errors.Wrap(topo.ErrUnmarshal, err.Error())
			}
			return nil
		})
	})
}

func (cat *catalog) flushState() error {
	if !cat.stateDirty {
		return nil
	}
	stateBuf, err := proto.Marshal(&cat.state)
	if err != nil {
		return err
	}
	err = cat.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gCatalogStateKey, stateBuf)
	})
	if err == nil {
		cat.stateDirty = false
	}
	return err
}

// acquireDB returns the open db, holding dbMu for reading until releaseDB.
func (cat *catalog) acquireDB() (*badger.DB, error) {
	cat.dbMu.RLock()
	if cat.db == nil {
		cat.dbMu.RUnlock()
		return nil, topo.ErrCatalogClosed
	}
	return cat.db, nil
}

func (cat *catalog) releaseDB() {
	cat.dbMu.RUnlock()
}

// Close waits for running reads (including a Select still sending hits) to finish.
func (cat *catalog) Close() error {
	cat.dbMu.Lock()
	defer cat.dbMu.Unlock()
	cat.mu.Lock()
	defer cat.mu.Unlock()

	if cat.db == nil {
		return nil
	}
	err := cat.flushState()
	if closeErr := cat.db.Close(); err == nil {
		err = closeErr
	}
	cat.db = nil
	cat.ctx.DetachCatalog(cat)
	return err
}

func (cat *catalog) IsReadOnly() bool {
	return cat.readOnly
}

func (cat *catalog) NumMaps() int64 {
	cat.mu.Lock()
	defer cat.mu.Unlock()
	return cat.state.NumMaps
}

func formMapKey(name string) []byte {
	key := make([]byte, 0, len(gMapKeyPrefix)+len(name))
	key = append(key, gMapKeyPrefix...)
	return append(key, name...)
}

func (cat *catalog) TryAddMap(name string, st *topo.MapState) (bool, error) {
	return cat.putMap(name, st, false)
}

func (cat *catalog) PutMap(name string, st *topo.MapState) error {
	_, err := cat.putMap(name, st, true)
	return err
}

func (cat *catalog) putMap(name string, st *topo.MapState, overwrite bool) (bool, error) {
	if cat.readOnly {
		return false, topo.ErrReadOnly
	}
	if len(name) == 0 {
		return false, errors.Wrap(topo.ErrBadCatalogParam, "map name is empty")
	}
	val, err := proto.Marshal(st)
	if err != nil {
		return false, err
	}

	db, err := cat.acquireDB()
	if err != nil {
		return false, err
	}
	defer cat.releaseDB()
	cat.mu.Lock()
	defer cat.mu.Unlock()

	key := formMapKey(name)
	added := false
	err = db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(key)
		switch {
		case err == badger.ErrKeyNotFound:
			added = true
		case err != nil:
			return err
		case !overwrite:
			return nil
		}
		return txn.Set(key, val)
	})
	if err != nil {
		return false, err
	}
	if added {
		cat.state.NumMaps++
		cat.stateDirty = true
	}
	return added, nil
}

func (cat *catalog) GetMap(name string) (*topo.MapState, error) {
	db, err := cat.acquireDB()
	if err != nil {
		return nil, err
	}
	defer cat.releaseDB()

	st := &topo.MapState{}
	err = db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(formMapKey(name))
		if err == badger.ErrKeyNotFound {
			return errors.Wrapf(topo.ErrMapNotFound, "%q", name)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return unmarshalState(val, st)
		})
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

func unmarshalState(val []byte, st *topo.MapState) error {
	if err := proto.Unmarshal(val, st); err != nil {
		return errors.Wrap(topo.ErrUnmarshal, err.Error())
	}
	return nil
}

// Select sends every map whose name starts with prefix to onHit, in name order.
//
// onHit is not closed; Select blocks until each hit is received.
func (cat *catalog) Select(prefix string, onHit topo.OnMapHit) error {
	db, err := cat.acquireDB()
	if err != nil {
		return err
	}
	defer cat.releaseDB()

	txn := db.NewTransaction(false)
	defer txn.Discard()

	it := txn.NewIterator(badger.IteratorOptions{
		PrefetchValues: true,
		PrefetchSize:   100,
		Prefix:         formMapKey(prefix),
	})
	defer it.Close()

	for it.Rewind(); it.Valid(); it.Next() {
		item := it.Item()
		hit := topo.MapHit{
			Name:  string(item.Key()[len(gMapKeyPrefix):]),
			State: &topo.MapState{},
		}
		err := item.Value(func(val []byte) error {
			return unmarshalState(val, hit.State)
		})
		if err != nil {
			return errors.Wrapf(err, "map %q", hit.Name)
		}
		onHit <- hit
	}
	return nil
}
