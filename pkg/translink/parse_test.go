package translink

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/weininghu1012/NextBus/pkg/model"
)

const stopJSON = `{"StopNo":51479,"Name":"WB W 16 AVE FS BIRCH ST","BayNo":"N","City":"VANCOUVER","OnStreet":"W 16 AVE","AtStreet":"BIRCH ST","Latitude":49.257,"Longitude":-123.1,"WheelchairAccess":1,"Distance":-1,"Routes":"033, 099, 033"}`

func TestNormalizer_ParseStop(t *testing.T) {
	stop, err := NewNormalizer(nil).ParseStop(stopJSON)
	require.NoError(t, err)
	require.NotNil(t, stop)

	assert.Equal(t, 51479, stop.Number)
	assert.Equal(t, "WB W 16 AVE FS BIRCH ST", stop.Name)
	assert.Equal(t, model.LatLon{Latitude: 49.257, Longitude: -123.1}, stop.Location)

	var routes []string
	for _, route := range stop.Routes() {
		routes = append(routes, route.Name())
	}
	assert.Equal(t, []string{"033", "099"}, routes)
}

func TestNormalizer_ParseStop_ProviderError(t *testing.T) {
	stop, err := NewNormalizer(nil).ParseStop(`{"Code":"404","Message":"not found"}`)

	assert.NoError(t, err)
	assert.Nil(t, stop)
}

func TestNormalizer_ParseStop_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing routes", input: `{"StopNo":51479,"Name":"X","Latitude":49.2,"Longitude":-123.1}`},
		{name: "missing stop number", input: `{"Name":"X","Latitude":49.2,"Longitude":-123.1,"Routes":"099"}`},
		{name: "wrong type", input: `{"StopNo":"abc","Name":"X","Latitude":49.2,"Longitude":-123.1,"Routes":"099"}`},
		{name: "numeric error code", input: `{"Code":404,"Message":"not found"}`},
		{name: "only a code", input: `{"Code":"404"}`},
		{name: "array", input: `[]`},
		{name: "not json", input: `<html>`},
		{name: "empty", input: ``},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stop, err := NewNormalizer(nil).ParseStop(tc.input)

			assert.Error(t, err)
			assert.Nil(t, stop)
		})
	}
}

func TestNormalizer_ParseStop_RouteTokens(t *testing.T) {
	input := `{"StopNo":1,"Name":"X","Latitude":0,"Longitude":0,"Routes":" 004 ,014,,  014"}`

	stop, err := NewNormalizer(nil).ParseStop(input)
	require.NoError(t, err)

	require.Len(t, stop.Routes(), 2)
	assert.Equal(t, "004", stop.Routes()[0].Name())
	assert.Equal(t, "014", stop.Routes()[1].Name())
}

func TestNormalizer_ParseWaitTimes(t *testing.T) {
	input := `[
		{"RouteNo":"099","RouteName":"COMMERCIAL-BROADWAY/UBC (B-LINE)","Direction":"WEST","Schedules":[
			{"Destination":"UBC","ExpectedLeaveTime":"10:23am","ExpectedCountdown":5,"CancelledTrip":false,"CancelledStop":true},
			{"Destination":"UBC","ExpectedLeaveTime":"10:30am","ExpectedCountdown":12,"CancelledTrip":false,"CancelledStop":false}
		]},
		{"RouteNo":"014","Schedules":[
			{"ExpectedCountdown":1,"CancelledTrip":true,"CancelledStop":false}
		]}
	]`

	stop := model.NewBusStop(51479, "stop", 0, 0)
	existing := stop.RouteNamed("099")

	err := NewNormalizer(nil).ParseWaitTimes(input, stop)
	require.NoError(t, err)

	waitTimes := stop.WaitTimes()
	require.Len(t, waitTimes, 3)

	assert.Same(t, existing, waitTimes[0].Route)
	assert.Same(t, existing, waitTimes[1].Route)
	assert.Same(t, stop.RouteNamed("014"), waitTimes[2].Route)

	assert.Equal(t, model.WaitTimeKey{Route: "099", Estimate: 5, Cancelled: true}, waitTimes[0].Key())
	assert.Equal(t, model.WaitTimeKey{Route: "099", Estimate: 12, Cancelled: false}, waitTimes[1].Key())
	assert.Equal(t, model.WaitTimeKey{Route: "014", Estimate: 1, Cancelled: true}, waitTimes[2].Key())
}

func TestNormalizer_ParseWaitTimes_SingleCancelledStop(t *testing.T) {
	input := `[{"RouteNo":"004","Schedules":[{"ExpectedCountdown":5,"CancelledStop":true,"CancelledTrip":false}]}]`

	stop := model.NewBusStop(1, "stop", 0, 0)
	require.NoError(t, NewNormalizer(nil).ParseWaitTimes(input, stop))

	require.Len(t, stop.WaitTimes(), 1)
	assert.True(t, stop.WaitTimes()[0].Cancelled)
	assert.Equal(t, 5, stop.WaitTimes()[0].Estimate)
}

func TestNormalizer_ParseWaitTimes_ProviderError(t *testing.T) {
	stop := model.NewBusStop(1, "stop", 0, 0)

	err := NewNormalizer(nil).ParseWaitTimes(`{"Code":"3005","Message":"Stop number not found"}`, stop)

	assert.NoError(t, err)
	assert.Empty(t, stop.WaitTimes())
}

func TestNormalizer_ParseWaitTimes_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "object without code", input: `{"RouteNo":"099"}`},
		{name: "missing schedules", input: `[{"RouteNo":"099"}]`},
		{name: "missing countdown", input: `[{"RouteNo":"099","Schedules":[{"CancelledStop":false,"CancelledTrip":false}]}]`},
		{name: "missing cancelled trip", input: `[{"RouteNo":"099","Schedules":[{"ExpectedCountdown":3,"CancelledStop":false}]}]`},
		{name: "countdown is text", input: `[{"RouteNo":"099","Schedules":[{"ExpectedCountdown":"3","CancelledStop":false,"CancelledTrip":false}]}]`},
		{name: "valid then invalid", input: `[{"RouteNo":"099","Schedules":[]},{"Schedules":[]}]`},
		{name: "null", input: `null`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			stop := model.NewBusStop(1, "stop", 0, 0)

			assert.Error(t, NewNormalizer(nil).ParseWaitTimes(tc.input, stop))
			assert.Empty(t, stop.WaitTimes())
		})
	}
}

func TestNormalizer_ParseBuses(t *testing.T) {
	input := `[
		{"VehicleNo":"9440","TripId":1,"RouteNo":"099","Direction":"WEST","Destination":"UBC","Pattern":"WB1","Latitude":49.2628,"Longitude":-123.1149,"RecordedTime":"10:22:05 am"},
		{"VehicleNo":"9441","RouteNo":"004","Destination":"UBC","Latitude":49.26,"Longitude":-123.2,"RecordedTime":"10:22:10 am"}
	]`

	stop := model.NewBusStop(51479, "stop", 0, 0)
	existing := stop.RouteNamed("099")

	require.NoError(t, NewNormalizer(nil).ParseBuses(input, stop))

	buses := stop.Buses()
	require.Len(t, buses, 2)

	assert.Same(t, existing, buses[0].Route)
	assert.Equal(t, model.LatLon{Latitude: 49.2628, Longitude: -123.1149}, buses[0].Location)
	assert.Equal(t, "UBC", buses[0].Destination)
	assert.Equal(t, "10:22:05 am", buses[0].RecordedTime)

	assert.Same(t, stop.RouteNamed("004"), buses[1].Route)
	assert.Len(t, stop.Routes(), 2)
}

func TestNormalizer_ParseBuses_ProviderError(t *testing.T) {
	stop := model.NewBusStop(1, "stop", 0, 0)

	err := NewNormalizer(nil).ParseBuses(`{"Code":"3005","Message":"No buses found"}`, stop)

	assert.NoError(t, err)
	assert.Empty(t, stop.Buses())
}

func TestNormalizer_ParseBuses_Malformed(t *testing.T) {
	for _, input := range []string{
		`{"RouteNo":"099"}`,
		`[{"RouteNo":"099","Latitude":49.2,"Longitude":-123.1,"Destination":"UBC"}]`,
		`[{"RouteNo":"099","Latitude":"north","Longitude":-123.1,"Destination":"UBC","RecordedTime":"10:22:05 am"}]`,
		`[`,
	} {
		stop := model.NewBusStop(1, "stop", 0, 0)

		assert.Error(t, NewNormalizer(nil).ParseBuses(input, stop), input)
		assert.Empty(t, stop.Buses())
	}
}

func TestProviderErrorFrom(t *testing.T) {
	providerErr, ok := providerErrorFrom(` {"Code":"3005","Message":"Stop number not found"}`)
	require.True(t, ok)
	assert.Equal(t, ProviderError{Code: "3005", Message: "Stop number not found"}, *providerErr)

	for _, input := range []string{
		`[{"Code":"3005","Message":"x"}]`,
		`{"Code":"3005"}`,
		`{"Message":"x"}`,
		`{"Code":null,"Message":"x"}`,
		`not json`,
	} {
		_, ok := providerErrorFrom(input)
		assert.False(t, ok, input)
	}
}
