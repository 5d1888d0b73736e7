// Package assemble builds a 3-map from a soup of volumes that share vertices by id.
//
// Each volume is added as an open pyramid or prism whose corners are tagged with soup
// vertex ids.  Faces of different volumes that run over the same vertices in opposite
// order are then sewn across φ3, and whatever stays open is closed with boundary caps.
package assemble

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/plan-systems/klog"

	"github.com/2x3systems/topomap/libtopo/attribute"
	"github.com/2x3systems/topomap/libtopo/maps"
	"github.com/2x3systems/topomap/libtopo/marker"
	"github.com/2x3systems/topomap/topo"
)

// Shape names a volume type of a soup.
type Shape byte

const (
	Tetra Shape = iota + 1
	Pyramid
	Prism
	Hexa
)

var shapeNames = []string{"", "tetra", "pyramid", "prism", "hexa"}

func (s Shape) String() string {
	if int(s) < len(shapeNames) && s != 0 {
		return shapeNames[s]
	}
	return "shape?"
}

// ParseShape returns the shape with the given name (case insensitive).
func ParseShape(str string) (Shape, error) {
	for i, name := range shapeNames {
		if i > 0 && strings.EqualFold(name, str) {
			return Shape(i), nil
		}
	}
	return 0, errors.Wrapf(topo.ErrUnsupportedVolumeShape, "%q", str)
}

// NumVertices returns the number of corners of s, or 0 if s is not a known shape.
func (s Shape) NumVertices() int {
	switch s {
	case Tetra:
		return 4
	case Pyramid:
		return 5
	case Prism:
		return 6
	case Hexa:
		return 8
	}
	return 0
}

// Volume lists the soup vertex ids of one volume: the base polygon first, then the apex
// (tetra, pyramid) or the top polygon in matching order (prism, hexa).
type Volume struct {
	Shape    Shape
	Vertices []uint32
}

// Soup is a set of volumes indexing a shared vertex table.
type Soup struct {
	NumVertices int
	Volumes     []Volume
	Positions   [][3]float64 // optional, one per vertex
}

// Report summarizes an assembly.
type Report struct {
	Volumes       int // volumes added
	BoundaryFaces int // faces that found no partner
	Mismatches    int // partner faces that could not be sewn
	Holes         int // holes closed
}

// Target is the map an assembly writes into (a CMap3 or GMap3).
type Target interface {
	maps.Attributed
	AddPyramid(n int) topo.Cell
	AddPrism(n int) topo.Cell
	SewFaces(d, e topo.Dart) error
	Close() int
	Phi1(d topo.Dart) topo.Dart
	Phi_1(d topo.Dart) topo.Dart
	Phi3(d topo.Dart) topo.Dart
	Markers() *marker.Pool[topo.Dart]
}

// Names of the Vertex attributes filled in by Assemble.
const (
	VertexIDAttr = "vertex_id"
	PositionAttr = "position"
)

// Corners of each shape as φ paths from the dart AddPyramid / AddPrism returns.
var corners = map[Shape][][]int{
	Tetra:   {{}, {1}, {-1}, {-1, 2, -1}},
	Pyramid: {{}, {1}, {1, 1}, {-1}, {-1, 2, -1}},
	Prism:   {{}, {1}, {-1}, {-1, 2, 1, 1, 2}, {2, 1, 1, 2}, {1, 2, 1, 1, 2}},
	Hexa:    {{}, {1}, {1, 1}, {-1}, {-1, 2, 1, 1, 2}, {2, 1, 1, 2}, {1, 2, 1, 1, 2}, {1, 1, 2, 1, 1, 2}},
}

// Validate checks shapes, vertex counts and vertex ids without touching any map.
func (soup *Soup) Validate() error {
	if soup.Positions != nil && len(soup.Positions) != soup.NumVertices {
		return errors.Wrapf(topo.ErrBadVolume, "%d positions for %d vertices", len(soup.Positions), soup.NumVertices)
	}
	for i, vol := range soup.Volumes {
		n := vol.Shape.NumVertices()
		if n == 0 {
			return errors.Wrapf(topo.ErrUnsupportedVolumeShape, "volume %d has shape %d", i, vol.Shape)
		}
		if len(vol.Vertices) != n {
			return errors.Wrapf(topo.ErrBadVolume, "volume %d: %v with %d vertices", i, vol.Shape, len(vol.Vertices))
		}
		for _, vid := range vol.Vertices {
			if int(vid) >= soup.NumVertices {
				return errors.Wrapf(topo.ErrBadVolume, "volume %d: vertex id %d out of range", i, vid)
			}
		}
	}
	return nil
}

type assembler struct {
	m       Target
	soup    *Soup
	tag     *attributeTag
	dartsAt [][]topo.Dart // soup vertex id => darts starting there
	volOf   []int32       // dart => 1 + index of the soup volume holding it
	report  Report
}

// Assemble adds every volume of soup to m, sews the faces they share, and closes m.
// On return m's vertices are indexed and carry VertexIDAttr (and PositionAttr if the soup has positions).
func Assemble(m Target, soup *Soup) (Report, error) {
	if err := soup.Validate(); err != nil {
		return Report{}, err
	}
	if m.NumDarts() != 0 {
		return Report{}, errors.Wrapf(topo.ErrBadVolume, "target map already has %d darts", m.NumDarts())
	}

	tag, err := newAttributeTag(m)
	if err != nil {
		return Report{}, err
	}
	defer tag.release()

	asm := &assembler{
		m:       m,
		soup:    soup,
		tag:     tag,
		dartsAt: make([][]topo.Dart, soup.NumVertices),
	}
	for _, vol := range soup.Volumes {
		asm.addVolume(vol)
	}
	asm.sewAll()
	if asm.report.BoundaryFaces > 0 || asm.report.Mismatches > 0 {
		asm.report.Holes = m.Close()
	}
	if err = asm.exportVertices(); err != nil {
		return asm.report, err
	}

	klog.V(2).Infof("assembled %d volumes: %d boundary faces, %d mismatches, %d holes closed",
		asm.report.Volumes, asm.report.BoundaryFaces, asm.report.Mismatches, asm.report.Holes)
	return asm.report, nil
}

func (asm *assembler) addVolume(vol Volume) {
	var w topo.Cell
	switch vol.Shape {
	case Tetra:
		w = asm.m.AddPyramid(3)
	case Pyramid:
		w = asm.m.AddPyramid(4)
	case Prism:
		w = asm.m.AddPrism(3)
	case Hexa:
		w = asm.m.AddPrism(4)
	}
	asm.report.Volumes++
	for d := range asm.m.Orbit(topo.VolumeOf(w.Dart)) {
		for int(d) >= len(asm.volOf) {
			asm.volOf = append(asm.volOf, 0)
		}
		asm.volOf[d] = int32(asm.report.Volumes)
	}
	for i, path := range corners[vol.Shape] {
		dv := asm.m.Phi(w.Dart, path...)
		vid := vol.Vertices[i]
		asm.tag.set(dv, vid)
		for d := range asm.m.Orbit(topo.Vertex2Of(dv)) {
			asm.dartsAt[vid] = append(asm.dartsAt[vid], d)
		}
	}
}

// partner finds a φ3-free dart of another volume running from the end of d back to its start.
//
// On a gmap each face also appears in the reverse orientation inside d's own volume, and that
// copy runs over the same corners, so darts of d's volume are never candidates.
func (asm *assembler) partner(d topo.Dart) topo.Dart {
	m := asm.m
	v1 := asm.tag.get(d)
	v2 := asm.tag.get(m.Phi1(m.Phi1(d)))
	for _, e := range asm.dartsAt[asm.tag.get(m.Phi1(d))] {
		if asm.volOf[e] == asm.volOf[d] || m.Phi3(e) != e {
			continue
		}
		if asm.tag.get(m.Phi1(e)) != v1 || asm.tag.get(m.Phi_1(e)) != v2 {
			continue
		}
		return e
	}
	return topo.NilDart
}

func (asm *assembler) sewAll() {
	m := asm.m
	done := m.Markers().Store()
	defer done.Release()

	var open []topo.Dart
	for d := range m.Darts() {
		if m.Phi3(d) == d {
			open = append(open, d)
		}
	}

	for _, d := range open {
		if done.IsMarked(d) || m.Phi3(d) != d {
			continue
		}
		for fd := range m.Orbit(topo.Face2Of(d)) {
			done.Mark(fd)
		}

		var found topo.Dart
		it := d
		for {
			if e := asm.partner(it); e != topo.NilDart && !done.IsMarked(e) {
				found = e
				break
			}
			if it = m.Phi1(it); it == d {
				break
			}
		}
		if found == topo.NilDart {
			asm.report.BoundaryFaces++
			continue
		}

		for fd := range m.Orbit(topo.Face2Of(found)) {
			done.Mark(fd)
		}
		if err := m.SewFaces(it, found); err != nil {
			asm.report.Mismatches++
			klog.V(2).Infof("face of dart %d left open: %v", it, err)
		}
	}
}

func (asm *assembler) exportVertices() error {
	m := asm.m
	ids, err := maps.GetOrAddAttribute[uint32](m, topo.Vertex, VertexIDAttr)
	if err != nil {
		return err
	}
	defer ids.Release()

	var pos *attribute.Attribute[[3]float64]
	if asm.soup.Positions != nil {
		if pos, err = maps.GetOrAddAttribute[[3]float64](m, topo.Vertex, PositionAttr); err != nil {
			return err
		}
		defer pos.Release()
	}

	for v := range m.Cells(topo.Vertex) {
		vid := asm.tag.get(v.Dart)
		idx := m.IndexOf(v)
		*ids.Value(idx) = vid
		if pos != nil {
			*pos.Value(idx) = asm.soup.Positions[vid]
		}
	}
	return nil
}

const tagAttr = "__soup_vertex"

// attributeTag keeps the soup vertex id of each corner on the Vertex2 cells of the map being built.
type attributeTag struct {
	m    Target
	attr *attribute.Attribute[uint32]
}

func newAttributeTag(m Target) (*attributeTag, error) {
	attr, err := maps.AddAttribute[uint32](m, topo.Vertex2, tagAttr)
	if err != nil {
		return nil, err
	}
	return &attributeTag{m: m, attr: attr}, nil
}

// Stored ids are offset by one so an untagged corner reads as zero.
func (tag *attributeTag) set(d topo.Dart, vid uint32) {
	*maps.Value(tag.m, tag.attr, topo.Vertex2Of(d)) = vid + 1
}

func (tag *attributeTag) get(d topo.Dart) uint32 {
	return *maps.Value(tag.m, tag.attr, topo.Vertex2Of(d)) - 1
}

func (tag *attributeTag) release() {
	tag.attr.Release()
	maps.RemoveAttribute(tag.m, topo.Vertex2, tagAttr)
}
