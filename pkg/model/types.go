package model

type LatLon struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type Bus struct {
	Route        *BusRoute
	Location     LatLon
	Destination  string
	RecordedTime string
}

func NewBus(route *BusRoute, lat, lon float64, destination, recordedTime string) *Bus {
	return &Bus{
		Route:        route,
		Location:     LatLon{Latitude: lat, Longitude: lon},
		Destination:  destination,
		RecordedTime: recordedTime,
	}
}
