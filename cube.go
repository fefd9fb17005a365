package windfield

// MeasurementCube is a dense [hours][stations][channels] block of hourly
// measurements aligned by station index.
type MeasurementCube struct {
	values   []float32
	stations int
	hours    int
}

// NewMeasurementCube wraps an hour-major flat array. The slice is not copied
// and must not be modified afterwards.
func NewMeasurementCube(values []float32, stations int) (*MeasurementCube, error) {
	if stations <= 0 {
		return nil, &DataShapeMismatchError{Len: len(values), Stations: stations, Channels: MeasurementChannels, Reason: "station count must be positive"}
	}
	stride := stations * MeasurementChannels
	if len(values)%stride != 0 {
		return nil, &DataShapeMismatchError{Len: len(values), Stations: stations, Channels: MeasurementChannels}
	}
	return &MeasurementCube{values: values, stations: stations, hours: len(values) / stride}, nil
}

// NewMeasurementCubeStationMajor accepts the [stations][hours][channels]
// layout and transposes it to hour-major order.
func NewMeasurementCubeStationMajor(values []float32, stations, hours int) (*MeasurementCube, error) {
	if stations <= 0 || hours <= 0 {
		return nil, &DataShapeMismatchError{Len: len(values), Stations: stations, Channels: MeasurementChannels, Reason: "station and hour counts must be positive"}
	}
	if len(values) != stations*hours*MeasurementChannels {
		return nil, &DataShapeMismatchError{Len: len(values), Stations: stations, Channels: MeasurementChannels, Reason: "length does not match stations x hours x channels"}
	}

	out := make([]float32, len(values))
	for s := 0; s < stations; s++ {
		for h := 0; h < hours; h++ {
			src := (s*hours + h) * MeasurementChannels
			dst := (h*stations + s) * MeasurementChannels
			copy(out[dst:dst+MeasurementChannels], values[src:src+MeasurementChannels])
		}
	}
	return &MeasurementCube{values: out, stations: stations, hours: hours}, nil
}

func (c *MeasurementCube) Hours() int    { return c.hours }
func (c *MeasurementCube) Stations() int { return c.stations }

func (c *MeasurementCube) At(hour, station int) [MeasurementChannels]float32 {
	var v [MeasurementChannels]float32
	i := (hour*c.stations + station) * MeasurementChannels
	copy(v[:], c.values[i:i+MeasurementChannels])
	return v
}

// Hour returns the per-station measurements of one hour.
func (c *MeasurementCube) Hour(hour int) [][MeasurementChannels]float32 {
	out := make([][MeasurementChannels]float32, c.stations)
	for s := range out {
		out[s] = c.At(hour, s)
	}
	return out
}
