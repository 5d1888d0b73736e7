package topo

import (
	"github.com/gogo/protobuf/proto"
)

// The messages below are marshaled through gogo/protobuf's reflection (table-driven) path,
// so field tags are the wire schema:
//
//	message MapState {
//	    int32                    encoding   = 1;
//	    int32                    dim        = 2;
//	    uint32                   num_slots  = 3;
//	    repeated RelationColumn  relations  = 4;
//	    bytes                    flags      = 5;
//	    repeated uint32          free       = 6;
//	    repeated EmbeddingColumn embeddings = 7;
//	}

// MapState is a snapshot of a map's topology and cell indices (attribute values are not included).
type MapState struct {
	Encoding   int32              `protobuf:"varint,1,opt,name=encoding,proto3" json:"encoding,omitempty"`
	Dim        int32              `protobuf:"varint,2,opt,name=dim,proto3" json:"dim,omitempty"`
	NumSlots   uint32             `protobuf:"varint,3,opt,name=num_slots,json=numSlots,proto3" json:"num_slots,omitempty"`
	Relations  []*RelationColumn  `protobuf:"bytes,4,rep,name=relations,proto3" json:"relations,omitempty"`
	Flags      []byte             `protobuf:"bytes,5,opt,name=flags,proto3" json:"flags,omitempty"`
	Free       []uint32           `protobuf:"varint,6,rep,packed,name=free,proto3" json:"free,omitempty"`
	Embeddings []*EmbeddingColumn `protobuf:"bytes,7,rep,name=embeddings,proto3" json:"embeddings,omitempty"`
}

func (m *MapState) Reset()         { *m = MapState{} }
func (m *MapState) String() string { return proto.CompactTextString(m) }
func (*MapState) ProtoMessage()    {}

// RelationColumn holds one relation array; Darts[0] is the nil slot.
type RelationColumn struct {
	Slot  int32    `protobuf:"varint,1,opt,name=slot,proto3" json:"slot,omitempty"`
	Darts []uint32 `protobuf:"varint,2,rep,packed,name=darts,proto3" json:"darts,omitempty"`
}

func (m *RelationColumn) Reset()         { *m = RelationColumn{} }
func (m *RelationColumn) String() string { return proto.CompactTextString(m) }
func (*RelationColumn) ProtoMessage()    {}

// EmbeddingColumn holds the per-dart indices of one indexed cell kind.
type EmbeddingColumn struct {
	Kind    int32    `protobuf:"varint,1,opt,name=kind,proto3" json:"kind,omitempty"`
	Indices []uint32 `protobuf:"varint,2,rep,packed,name=indices,proto3" json:"indices,omitempty"`
}

func (m *EmbeddingColumn) Reset()         { *m = EmbeddingColumn{} }
func (m *EmbeddingColumn) String() string { return proto.CompactTextString(m) }
func (*EmbeddingColumn) ProtoMessage()    {}

// CatalogState is stored under a fixed key of every catalog.
type CatalogState struct {
	MajorVers int32 `protobuf:"varint,1,opt,name=major_vers,json=majorVers,proto3" json:"major_vers,omitempty"`
	MinorVers int32 `protobuf:"varint,2,opt,name=minor_vers,json=minorVers,proto3" json:"minor_vers,omitempty"`
	NumMaps   int64 `protobuf:"varint,3,opt,name=num_maps,json=numMaps,proto3" json:"num_maps,omitempty"`
}

func (m *CatalogState) Reset()         { *m = CatalogState{} }
func (m *CatalogState) String() string { return proto.CompactTextString(m) }
func (*CatalogState) ProtoMessage()    {}

// Flag bits stored per dart in MapState.Flags.
const (
	FlagLive     byte = 1 << 0
	FlagBoundary byte = 1 << 1
)
