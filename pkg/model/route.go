package model

import "strings"

const UnknownRouteName = "unknown"

// BusRoute is identified by its name, e.g. "099".
type BusRoute struct {
	name string
}

func NewBusRoute(name string) *BusRoute {
	return &BusRoute{name: name}
}

func DefaultBusRoute() *BusRoute {
	return NewBusRoute(UnknownRouteName)
}

func (r *BusRoute) Name() string {
	return r.name
}

// SetName is only meant for repairing a route created with DefaultBusRoute.
func (r *BusRoute) SetName(name string) {
	r.name = name
}

func (r *BusRoute) String() string {
	return r.name
}

func (r *BusRoute) Equal(other *BusRoute) bool {
	if r == nil || other == nil {
		return r == other
	}

	return r.name == other.name
}

func (r *BusRoute) Compare(other *BusRoute) int {
	return strings.Compare(r.name, other.name)
}
