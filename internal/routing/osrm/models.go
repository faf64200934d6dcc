package osrm

// OSRM service response codes.
const (
	osrmCodeOK           = "Ok"
	osrmCodeNoRoute      = "NoRoute"
	osrmCodeNoSegment    = "NoSegment"
	osrmCodeInvalidQuery = "InvalidQuery"
	osrmCodeInvalidValue = "InvalidValue"
)

// osrmResponse is the wire format of the OSRM route endpoint.
type osrmResponse struct {
	Code    string      `json:"code"`
	Message string      `json:"message,omitempty"`
	Routes  []osrmRoute `json:"routes"`
}

type osrmRoute struct {
	// Distance is the total route distance in meters.
	Distance float64 `json:"distance"`

	// Duration is the OSRM-estimated duration in seconds. Unused for the
	// delay model but kept for logging and debugging.
	Duration float64 `json:"duration"`

	Geometry osrmGeometry `json:"geometry"`
}

// osrmGeometry is a GeoJSON LineString: coordinates are [lng, lat] pairs.
type osrmGeometry struct {
	Type        string      `json:"type"`
	Coordinates [][]float64 `json:"coordinates"`
}
