package model

import "sort"

// BusStop owns the routes serving it. Wait times and buses always point at a
// route from that registry, never at a copy.
//
// A BusStop is not safe for concurrent use; refreshes of the same stop must be
// serialized by the caller.
type BusStop struct {
	Number   int
	Name     string
	Location LatLon

	routes    map[string]*BusRoute
	waitTimes []*BusWaitTime
	buses     []*Bus
}

func NewBusStop(number int, name string, lat, lon float64) *BusStop {
	return &BusStop{
		Number:   number,
		Name:     name,
		Location: LatLon{Latitude: lat, Longitude: lon},
		routes:   map[string]*BusRoute{},
	}
}

// RouteNamed returns the stop's route with the given name, registering a new
// one if the stop does not know it yet.
func (s *BusStop) RouteNamed(name string) *BusRoute {
	if s.routes == nil {
		s.routes = map[string]*BusRoute{}
	}

	if route, ok := s.routes[name]; ok {
		return route
	}

	route := NewBusRoute(name)
	s.routes[name] = route

	return route
}

func (s *BusStop) HasRoute(name string) bool {
	_, ok := s.routes[name]
	return ok
}

// Routes returns the routes serving the stop ordered by name.
func (s *BusStop) Routes() []*BusRoute {
	routes := make([]*BusRoute, 0, len(s.routes))
	for _, route := range s.routes {
		routes = append(routes, route)
	}

	sort.Slice(routes, func(i, j int) bool {
		return routes[i].Compare(routes[j]) < 0
	})

	return routes
}

func (s *BusStop) AddWaitTime(waitTime *BusWaitTime) {
	s.waitTimes = append(s.waitTimes, waitTime)
}

func (s *BusStop) ClearWaitTimes() {
	s.waitTimes = nil
}

// WaitTimes returns the estimates in the order they were added.
func (s *BusStop) WaitTimes() []*BusWaitTime {
	return append([]*BusWaitTime(nil), s.waitTimes...)
}

func (s *BusStop) SortedWaitTimes() []*BusWaitTime {
	waitTimes := s.WaitTimes()

	sort.Slice(waitTimes, func(i, j int) bool {
		return waitTimes[i].Less(waitTimes[j])
	})

	return waitTimes
}

func (s *BusStop) AddBus(bus *Bus) {
	s.buses = append(s.buses, bus)
}

func (s *BusStop) ClearBuses() {
	s.buses = nil
}

func (s *BusStop) Buses() []*Bus {
	return append([]*Bus(nil), s.buses...)
}

// BusLocations lists the positions of the buses currently known at the stop.
func (s *BusStop) BusLocations() []LatLon {
	locations := make([]LatLon, 0, len(s.buses))
	for _, bus := range s.buses {
		locations = append(locations, bus.Location)
	}

	return locations
}
