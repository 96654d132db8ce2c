package catalog

import "errors"

var (
	ErrDatasetNotFound   = errors.New("catalog: dataset not found")
	ErrInvalidPlanetType = errors.New("catalog: invalid planet type")
	ErrInvalidRichness   = errors.New("catalog: invalid richness")
	ErrInvalidRow        = errors.New("catalog: invalid dataset row")
	ErrUnknownFormat     = errors.New("catalog: unsupported dataset format")
)
