package topo

import "github.com/pkg/errors"

// Errors
var (
	ErrUnmarshal              = errors.New("unmarshal failed")
	ErrBadCatalogParam        = errors.New("bad catalog param")
	ErrCatalogVersion         = errors.New("catalog version is incompatible")
	ErrReadOnly               = errors.New("catalog is in read-only mode")
	ErrMapNotFound            = errors.New("map not found")
	ErrCatalogClosed          = errors.New("catalog is closed")
	ErrBadState               = errors.New("bad or inconsistent map state")
	ErrBadEncoding            = errors.New("bad map encoding")
	ErrBadCellKind            = errors.New("cell kind not supported by map")
	ErrBadRelationPath        = errors.New("bad relation path")
	ErrAttributeExists        = errors.New("attribute already exists")
	ErrAttributeTypeMismatch  = errors.New("attribute exists with a different type")
	ErrDegreeMismatch         = errors.New("faces to glue have different degrees")
	ErrFaceNotOpen            = errors.New("face is already sewn across dimension 3")
	ErrIntegrity              = errors.New("map integrity violated")
	ErrBadVolume              = errors.New("bad volume description")
	ErrUnsupportedVolumeShape = errors.New("unsupported volume shape")
)
