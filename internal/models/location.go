package models

type Location struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Coordinates returns the GeoJSON ordering [lng, lat].
func (l Location) Coordinates() []float64 {
	return []float64{l.Lng, l.Lat}
}
