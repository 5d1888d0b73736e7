// Package marker provides pooled boolean tag spaces over dart or index keys.
//
// Two flavors are offered.  A Store marker remembers what it marked so Release clears
// exactly those keys.  A Light marker stamps keys with the epoch it was checked out
// under, so Release is O(1) and stale stamps simply stop matching.
package marker

// Marker is the common surface of Store and Light.
type Marker[K ~uint32] interface {
	Mark(k K)
	Unmark(k K)
	IsMarked(k K) bool

	// Release returns the marker to its pool.  The marker must not be used afterwards.
	Release()
}

// Pool hands out markers over one key space and takes them back on Release.
//
// A Pool is not safe for concurrent use.
type Pool[K ~uint32] struct {
	epoch       uint32
	lights      []*Light[K]
	stores      []*Store[K]
	outstanding int
	allocs      int
}

// Light checks out a light marker, reusing a released one if available.
func (p *Pool[K]) Light() *Light[K] {
	var mk *Light[K]
	if n := len(p.lights); n > 0 {
		mk = p.lights[n-1]
		p.lights = p.lights[:n-1]
	} else {
		mk = &Light[K]{pool: p}
		p.allocs++
	}

	p.epoch++
	if p.epoch == 0 {
		p.wrapEpoch(mk)
	}
	mk.epoch = p.epoch
	p.outstanding++
	return mk
}

// Store checks out a store marker, reusing a released one if available.
func (p *Pool[K]) Store() *Store[K] {
	var mk *Store[K]
	if n := len(p.stores); n > 0 {
		mk = p.stores[n-1]
		p.stores = p.stores[:n-1]
	} else {
		mk = &Store[K]{pool: p}
		p.allocs++
	}
	p.outstanding++
	return mk
}

// Outstanding returns how many markers are checked out and not yet released.
func (p *Pool[K]) Outstanding() int {
	return p.outstanding
}

// Allocs returns how many markers this pool has ever allocated.
func (p *Pool[K]) Allocs() int {
	return p.allocs
}

// Every stamp ever issued is about to become ambiguous, so zero all idle buffers
// (checked out lights hold their own epoch and are zeroed when they come back).
func (p *Pool[K]) wrapEpoch(mk *Light[K]) {
	clear(mk.stamps)
	for _, idle := range p.lights {
		clear(idle.stamps)
	}
	p.epoch = 1
}

// Light is a marker whose Release is O(1).
type Light[K ~uint32] struct {
	pool   *Pool[K]
	stamps []uint32
	epoch  uint32
}

func (mk *Light[K]) Mark(k K) {
	if int(k) >= len(mk.stamps) {
		mk.stamps = grow(mk.stamps, int(k)+1)
	}
	mk.stamps[k] = mk.epoch
}

func (mk *Light[K]) Unmark(k K) {
	if int(k) < len(mk.stamps) {
		mk.stamps[k] = 0
	}
}

func (mk *Light[K]) IsMarked(k K) bool {
	return int(k) < len(mk.stamps) && mk.stamps[k] == mk.epoch
}

func (mk *Light[K]) Release() {
	p := mk.pool
	if mk.epoch > p.epoch {
		// the pool wrapped while this marker was out
		clear(mk.stamps)
	}
	mk.epoch = 0
	p.lights = append(p.lights, mk)
	p.outstanding--
}

// Store is a marker that keeps the list of keys it marked.
type Store[K ~uint32] struct {
	pool   *Pool[K]
	bits   []bool
	marked []K
}

func (mk *Store[K]) Mark(k K) {
	if int(k) >= len(mk.bits) {
		mk.bits = grow(mk.bits, int(k)+1)
	}
	if !mk.bits[k] {
		mk.bits[k] = true
		mk.marked = append(mk.marked, k)
	}
}

// Unmark clears k; its slot in the marked list is dropped lazily.
func (mk *Store[K]) Unmark(k K) {
	if int(k) < len(mk.bits) {
		mk.bits[k] = false
	}
}

func (mk *Store[K]) IsMarked(k K) bool {
	return int(k) < len(mk.bits) && mk.bits[k]
}

// Marked appends the currently marked keys to dst, in marking order.
func (mk *Store[K]) Marked(dst []K) []K {
	for _, k := range mk.marked {
		if mk.bits[k] {
			dst = append(dst, k)
		}
	}
	return dst
}

// Release unmarks exactly the keys this marker touched and returns it to the pool.
func (mk *Store[K]) Release() {
	for _, k := range mk.marked {
		mk.bits[k] = false
	}
	mk.marked = mk.marked[:0]
	p := mk.pool
	p.stores = append(p.stores, mk)
	p.outstanding--
}

func grow[T any](buf []T, minLen int) []T {
	newLen := 8 + 2*cap(buf)
	if newLen < minLen {
		newLen = minLen
	}
	grown := make([]T, newLen)
	copy(grown, buf)
	return grown
}
