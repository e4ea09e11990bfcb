package isolib

import "errors"

var (
	ErrEmptyRaster         = errors.New("isolib raster is empty")
	ErrWrongBandCount      = errors.New("isolib wrong band count")
	ErrLevelsNotSorted     = errors.New("isolib levels not sorted")
	ErrMissingParameter    = errors.New("isolib missing mandatory parameter")
	ErrBadParameter        = errors.New("isolib parameter out of domain")
	ErrInverseNotSupported = errors.New("isolib inverse transform not supported")
	ErrNoConvergence       = errors.New("isolib inverse iteration did not converge")
	ErrOutsideGrid         = errors.New("isolib coordinate outside datum shift grid")
	ErrBadGridFile         = errors.New("isolib malformed datum shift grid file")
	ErrDuplicateGridCell   = errors.New("isolib duplicate datum shift grid cell")
	ErrEmptyIsolines       = errors.New("isolib no isolines to write")
)
