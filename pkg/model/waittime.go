package model

import "fmt"

// BusWaitTime is an estimate of when the next bus on a route reaches a stop.
// A bus counts as cancelled if either its visit to the stop or its whole trip
// has been cancelled.
type BusWaitTime struct {
	Route     *BusRoute
	Estimate  int
	Cancelled bool
}

// WaitTimeKey holds the fields that define wait time equality,
// so it can be used as a map key.
type WaitTimeKey struct {
	Route     string
	Estimate  int
	Cancelled bool
}

func NewBusWaitTime(route *BusRoute, estimate int, cancelled bool) *BusWaitTime {
	return &BusWaitTime{
		Route:     route,
		Estimate:  estimate,
		Cancelled: cancelled,
	}
}

func (w *BusWaitTime) Key() WaitTimeKey {
	key := WaitTimeKey{Estimate: w.Estimate, Cancelled: w.Cancelled}
	if w.Route != nil {
		key.Route = w.Route.Name()
	}

	return key
}

func (w *BusWaitTime) Equal(other *BusWaitTime) bool {
	if w == nil || other == nil {
		return w == other
	}

	return w.Cancelled == other.Cancelled &&
		w.Estimate == other.Estimate &&
		w.Route.Equal(other.Route)
}

// Compare orders wait times by increasing estimate. On equal estimates a
// cancelled bus comes first, and otherwise the route name decides.
func (w *BusWaitTime) Compare(other *BusWaitTime) int {
	switch {
	case w.Estimate == other.Estimate && w.Cancelled == other.Cancelled:
		return w.Route.Compare(other.Route)
	case w.Estimate == other.Estimate:
		if w.Cancelled {
			return -1
		}
		return 1
	case w.Estimate < other.Estimate:
		return -1
	default:
		return 1
	}
}

func (w *BusWaitTime) Less(other *BusWaitTime) bool {
	return w.Compare(other) < 0
}

// String renders the estimate the way it is shown to riders, for example
// "099: NOW", "014: 5 mins - cancelled" or "004: 17 mins".
func (w *BusWaitTime) String() string {
	wait := "NOW"
	if w.Estimate >= 2 {
		wait = fmt.Sprintf("%d mins", w.Estimate)
	}

	if w.Cancelled {
		return fmt.Sprintf("%s: %s - cancelled", w.Route.Name(), wait)
	}

	return fmt.Sprintf("%s: %s", w.Route.Name(), wait)
}
