package windfield

import "fmt"

// InsufficientPointsError is returned when fewer than three usable stations
// are available to build a triangulation.
type InsufficientPointsError struct {
	Got int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("triangulation needs at least 3 non-collinear stations, got %d", e.Got)
}

// RasterTargetError is returned when an offscreen target of the requested
// size cannot be allocated.
type RasterTargetError struct {
	Width, Height int
	Reason        string
}

func (e *RasterTargetError) Error() string {
	return fmt.Sprintf("raster target %dx%d: %s", e.Width, e.Height, e.Reason)
}

// DataShapeMismatchError is returned when a measurement cube does not line
// up with the declared station and channel counts.
type DataShapeMismatchError struct {
	Len      int
	Stations int
	Channels int
	Reason   string
}

func (e *DataShapeMismatchError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("measurement cube of %d values for %d stations x %d channels: %s", e.Len, e.Stations, e.Channels, e.Reason)
	}
	return fmt.Sprintf("measurement cube of %d values is not divisible by %d stations x %d channels", e.Len, e.Stations, e.Channels)
}
