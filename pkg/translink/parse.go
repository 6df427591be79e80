package translink

import (
	"encoding/json"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/weininghu1012/NextBus/pkg/model"
)

// Normalizer turns Translink responses into the domain model.
//
// Each parse first checks for a provider error object ({"Code": ..., "Message": ...}).
// Such a response yields no data and no error. Anything else that does not
// match the expected shape is returned as an error.
type Normalizer struct {
	validate *validator.Validate
	logger   *zap.Logger
}

type stopPayload struct {
	StopNo    *int     `json:"StopNo" validate:"required"`
	Name      *string  `json:"Name" validate:"required"`
	Latitude  *float64 `json:"Latitude" validate:"required"`
	Longitude *float64 `json:"Longitude" validate:"required"`
	Routes    *string  `json:"Routes" validate:"required"`
}

type routeEstimatesPayload struct {
	RouteNo   *string           `json:"RouteNo" validate:"required"`
	Schedules []schedulePayload `json:"Schedules" validate:"required,dive"`
}

type schedulePayload struct {
	ExpectedCountdown *int  `json:"ExpectedCountdown" validate:"required"`
	CancelledStop     *bool `json:"CancelledStop" validate:"required"`
	CancelledTrip     *bool `json:"CancelledTrip" validate:"required"`
}

type busPayload struct {
	RouteNo      *string  `json:"RouteNo" validate:"required"`
	Latitude     *float64 `json:"Latitude" validate:"required"`
	Longitude    *float64 `json:"Longitude" validate:"required"`
	Destination  *string  `json:"Destination" validate:"required"`
	RecordedTime *string  `json:"RecordedTime" validate:"required"`
}

func NewNormalizer(logger *zap.Logger) *Normalizer {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Normalizer{
		validate: validator.New(),
		logger:   logger,
	}
}

// ParseStop returns the stop described by input, or nil if Translink
// answered with an error object.
func (n *Normalizer) ParseStop(input string) (*model.BusStop, error) {
	if n.isProviderError("stop", input) {
		return nil, nil
	}

	var payload stopPayload
	if err := json.Unmarshal([]byte(input), &payload); err != nil {
		return nil, errors.Wrap(err, "failed to decode stop")
	}

	if err := n.validate.Struct(payload); err != nil {
		return nil, errors.Wrap(err, "invalid stop")
	}

	stop := model.NewBusStop(*payload.StopNo, *payload.Name, *payload.Latitude, *payload.Longitude)

	for _, name := range strings.Split(*payload.Routes, ",") {
		if name = strings.TrimSpace(name); name != "" {
			stop.RouteNamed(name)
		}
	}

	return stop, nil
}

// ParseWaitTimes appends the estimates in input to stop, in response order.
// The stop is left untouched if input is an error object or malformed.
func (n *Normalizer) ParseWaitTimes(input string, stop *model.BusStop) error {
	if n.isProviderError("estimates", input) {
		return nil
	}

	var payloads []routeEstimatesPayload
	if err := decodeArray(input, &payloads); err != nil {
		return errors.Wrap(err, "failed to decode estimates")
	}

	for i, payload := range payloads {
		if err := n.validate.Struct(payload); err != nil {
			return errors.Wrapf(err, "invalid estimates for route at index %d", i)
		}
	}

	for _, payload := range payloads {
		route := stop.RouteNamed(*payload.RouteNo)

		for _, schedule := range payload.Schedules {
			cancelled := *schedule.CancelledStop || *schedule.CancelledTrip
			stop.AddWaitTime(model.NewBusWaitTime(route, *schedule.ExpectedCountdown, cancelled))
		}
	}

	return nil
}

// ParseBuses appends the buses in input to stop.
// The stop is left untouched if input is an error object or malformed.
func (n *Normalizer) ParseBuses(input string, stop *model.BusStop) error {
	if n.isProviderError("buses", input) {
		return nil
	}

	var payloads []busPayload
	if err := decodeArray(input, &payloads); err != nil {
		return errors.Wrap(err, "failed to decode buses")
	}

	for i, payload := range payloads {
		if err := n.validate.Struct(payload); err != nil {
			return errors.Wrapf(err, "invalid bus at index %d", i)
		}
	}

	for _, payload := range payloads {
		stop.AddBus(model.NewBus(
			stop.RouteNamed(*payload.RouteNo),
			*payload.Latitude, *payload.Longitude,
			*payload.Destination, *payload.RecordedTime))
	}

	return nil
}

func (n *Normalizer) isProviderError(operation, input string) bool {
	providerErr, ok := providerErrorFrom(input)
	if ok {
		n.logger.Info("Translink returned an error",
			zap.String("operation", operation),
			zap.String("code", providerErr.Code),
			zap.String("message", providerErr.Message))
	}

	return ok
}

// providerErrorFrom reports whether input is a JSON object with string
// Code and Message fields.
func providerErrorFrom(input string) (*ProviderError, bool) {
	if !strings.HasPrefix(strings.TrimSpace(input), "{") {
		return nil, false
	}

	var envelope struct {
		Code    *string `json:"Code"`
		Message *string `json:"Message"`
	}
	if err := json.Unmarshal([]byte(input), &envelope); err != nil {
		return nil, false
	}

	if envelope.Code == nil || envelope.Message == nil {
		return nil, false
	}

	return &ProviderError{Code: *envelope.Code, Message: *envelope.Message}, true
}

func decodeArray(input string, target interface{}) error {
	if !strings.HasPrefix(strings.TrimSpace(input), "[") {
		return errors.Errorf("expected a JSON array, got %q", abbreviate(input))
	}

	return json.Unmarshal([]byte(input), target)
}

func abbreviate(s string) string {
	if len(s) > 64 {
		return s[:64] + "..."
	}

	return s
}
