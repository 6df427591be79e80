package server

import (
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/weininghu1012/NextBus/pkg/geo"
	"github.com/weininghu1012/NextBus/pkg/model"
)

var (
	waitTimesSummary = prometheus.NewSummary(prometheus.SummaryOpts{
		Name:        "req_stop",
		Help:        "Summary for serving requests related to a stop",
		ConstLabels: prometheus.Labels{"endpoint_type": "wait_times"},
	})
	busesSummary = prometheus.NewSummary(prometheus.SummaryOpts{
		Name:        "req_stop",
		Help:        "Summary for serving requests related to a stop",
		ConstLabels: prometheus.Labels{"endpoint_type": "buses"},
	})
)

func init() {
	prometheus.MustRegister(waitTimesSummary, busesSummary)
}

type StopService interface {
	FetchStop(ctx context.Context, stopNumber int) (*model.BusStop, error)
	RefreshWaitTimes(ctx context.Context, stop *model.BusStop) error
	RefreshBusLocations(ctx context.Context, stop *model.BusStop) error
}

type waitTimeView struct {
	Route     string `json:"route"`
	Estimate  int    `json:"estimate"`
	Cancelled bool   `json:"cancelled"`
	Display   string `json:"display"`
}

type busView struct {
	Route        string       `json:"route"`
	Location     model.LatLon `json:"location"`
	Destination  string       `json:"destination"`
	RecordedTime string       `json:"recordedTime"`
}

type stopView struct {
	StopNo    int            `json:"stopNo"`
	Name      string         `json:"name"`
	Location  model.LatLon   `json:"location"`
	Routes    []string       `json:"routes"`
	WaitTimes []waitTimeView `json:"waitTimes,omitempty"`
	Buses     []busView      `json:"buses,omitempty"`
	Viewport  *geo.Viewport  `json:"viewport,omitempty"`
}

// NewHandler serves wait times at /stops/{stop} and bus positions at
// /stops/{stop}/buses. Every request looks the stop up afresh, so no stop is
// shared between requests.
func NewHandler(service StopService, logger *zap.Logger) http.Handler {
	if logger == nil {
		logger = zap.NewNop()
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /stops/{stop}", WaitTimes(service, logger))
	mux.HandleFunc("GET /stops/{stop}/buses", Buses(service, logger))

	return mux
}

func WaitTimes(service StopService, logger *zap.Logger) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		reqStart := time.Now()
		defer func() { waitTimesSummary.Observe(time.Since(reqStart).Seconds()) }()

		stop, ok := lookupStop(writer, request, service, logger)
		if !ok {
			return
		}

		if err := service.RefreshWaitTimes(request.Context(), stop); err != nil {
			http.Error(writer, err.Error(), http.StatusServiceUnavailable)
			return
		}

		view := newStopView(stop)
		for _, wt := range stop.SortedWaitTimes() {
			view.WaitTimes = append(view.WaitTimes, waitTimeView{
				Route:     wt.Route.Name(),
				Estimate:  wt.Estimate,
				Cancelled: wt.Cancelled,
				Display:   wt.String(),
			})
		}

		var lines []string
		for _, wt := range view.WaitTimes {
			lines = append(lines, wt.Display)
		}

		render(writer, request, view, fmt.Sprintf("Next buses at %d", stop.Number), lines)
	}
}

func Buses(service StopService, logger *zap.Logger) func(http.ResponseWriter, *http.Request) {
	return func(writer http.ResponseWriter, request *http.Request) {
		reqStart := time.Now()
		defer func() { busesSummary.Observe(time.Since(reqStart).Seconds()) }()

		stop, ok := lookupStop(writer, request, service, logger)
		if !ok {
			return
		}

		if err := service.RefreshBusLocations(request.Context(), stop); err != nil {
			http.Error(writer, err.Error(), http.StatusServiceUnavailable)
			return
		}

		view := newStopView(stop)

		var lines []string
		for _, bus := range stop.Buses() {
			view.Buses = append(view.Buses, busView{
				Route:        bus.Route.Name(),
				Location:     bus.Location,
				Destination:  bus.Destination,
				RecordedTime: bus.RecordedTime,
			})
			lines = append(lines, fmt.Sprintf("%s to %s at (%f, %f), recorded %s",
				bus.Route.Name(), bus.Destination, bus.Location.Latitude, bus.Location.Longitude, bus.RecordedTime))
		}

		if locations := stop.BusLocations(); len(locations) > 0 {
			viewport := geo.ZoomToFit(locations)
			view.Viewport = &viewport
		}

		render(writer, request, view, fmt.Sprintf("Buses serving %d", stop.Number), lines)
	}
}

func lookupStop(writer http.ResponseWriter, request *http.Request, service StopService, logger *zap.Logger) (*model.BusStop, bool) {
	stopNumber, err := strconv.Atoi(request.PathValue("stop"))
	if err != nil {
		writer.WriteHeader(http.StatusBadRequest)
		return nil, false
	}

	stop, err := service.FetchStop(request.Context(), stopNumber)
	if err != nil {
		http.Error(writer, err.Error(), http.StatusServiceUnavailable)
		return nil, false
	}

	if stop == nil {
		logger.Info("Stop not found", zap.Int("stop", stopNumber))
		writer.WriteHeader(http.StatusNotFound)
		return nil, false
	}

	return stop, true
}

func newStopView(stop *model.BusStop) stopView {
	view := stopView{
		StopNo:   stop.Number,
		Name:     stop.Name,
		Location: stop.Location,
		Routes:   []string{},
	}

	for _, route := range stop.Routes() {
		view.Routes = append(view.Routes, route.Name())
	}

	return view
}

func render(writer http.ResponseWriter, request *http.Request, view stopView, title string, lines []string) {
	accept := request.Header.Get("Accept")

	if strings.Contains(accept, "application/json") {
		writer.Header().Add("Content-Type", "application/json")
		writer.Header().Add("Cache-Control", "no-cache")
		writer.WriteHeader(200)

		json.NewEncoder(writer).Encode(view)
	} else if strings.Contains(accept, "text/html") {
		writer.Header().Add("Content-Type", "text/html")
		writer.WriteHeader(200)

		content := ""
		for _, line := range lines {
			content += fmt.Sprintf("\t<li>%s</li>\n", html.EscapeString(line))
		}

		writer.Write([]byte(fmt.Sprintf(`<html>
<head>
	<title>%s</title>
</head>
<body>
<h1>%s</h1>
<h2>%s</h2>
<ul>
%s</ul>
</body>
</html>`,
			html.EscapeString(title),
			html.EscapeString(title),
			html.EscapeString(view.Name),
			content)))
	} else {
		writer.Header().Add("Content-Type", "text/plain")
		writer.WriteHeader(200)

		for _, line := range lines {
			writer.Write([]byte(line + "\n"))
		}
	}
}
