package translink

import (
	"context"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/weininghu1012/NextBus/pkg/client"
	"github.com/weininghu1012/NextBus/pkg/model"
)

const DefaultBaseURL = "http://api.translink.ca/RTTIAPI/V1"

// Service fetches real time bus information from Translink.
//
// Every operation makes exactly one request and blocks until it has been
// answered or has timed out. All failures are returned as *Error.
type Service struct {
	client     client.Client
	normalizer *Normalizer
	logger     *zap.Logger
}

func NewService(cli client.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Service{
		client:     cli,
		normalizer: NewNormalizer(logger),
		logger:     logger,
	}
}

// FetchStop looks up a stop by number. It returns a nil stop and no error
// when Translink reports that it cannot provide the stop.
func (s *Service) FetchStop(ctx context.Context, stopNumber int) (*model.BusStop, error) {
	body, err := s.client.FetchJSON(ctx, "stop", "stops/"+strconv.Itoa(stopNumber), nil)
	if err != nil {
		return nil, s.fail("stop", stopNumber, err)
	}

	stop, err := s.normalizer.ParseStop(body)
	if err != nil {
		return nil, s.fail("stop", stopNumber, err)
	}

	return stop, nil
}

// RefreshWaitTimes replaces the stop's wait time estimates with current ones.
// Existing estimates are cleared even if the refresh fails.
func (s *Service) RefreshWaitTimes(ctx context.Context, stop *model.BusStop) error {
	stop.ClearWaitTimes()

	path := "stops/" + strconv.Itoa(stop.Number) + "/estimates"

	body, err := s.client.FetchJSON(ctx, "estimates", path, nil)
	if err != nil {
		return s.fail("estimates", stop.Number, err)
	}

	if err := s.normalizer.ParseWaitTimes(body, stop); err != nil {
		return s.fail("estimates", stop.Number, err)
	}

	return nil
}

// RefreshBusLocations replaces the stop's buses with the ones currently
// serving it. Existing buses are cleared even if the refresh fails.
func (s *Service) RefreshBusLocations(ctx context.Context, stop *model.BusStop) error {
	stop.ClearBuses()

	query := url.Values{"stopNo": {strconv.Itoa(stop.Number)}}

	body, err := s.client.FetchJSON(ctx, "buses", "buses", query)
	if err != nil {
		return s.fail("buses", stop.Number, err)
	}

	if err := s.normalizer.ParseBuses(body, stop); err != nil {
		return s.fail("buses", stop.Number, err)
	}

	return nil
}

// fail logs the cause, which the returned Error only carries as a wrapped value.
func (s *Service) fail(operation string, stopNumber int, err error) error {
	translinkErr := newError(err)

	s.logger.Error("Translink request failed",
		zap.String("operation", operation),
		zap.Int("stop", stopNumber),
		zap.Stringer("kind", translinkErr.Kind),
		zap.Error(err))

	return translinkErr
}
