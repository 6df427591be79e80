package client

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	DefaultConnectTimeout = 3000 * time.Millisecond
	DefaultReadTimeout    = 3000 * time.Millisecond
	DefaultUserAgent      = "NextBus Translink client (https://github.com/weininghu1012/NextBus)"
)

type HttpClient struct {
	client       *http.Client
	baseURL      *url.URL
	connectivity Connectivity
}

type Options struct {
	BaseURL   string
	ApiKey    string
	UserAgent string

	// ConnectTimeout bounds dialling the provider and the TLS handshake,
	// ReadTimeout bounds waiting for the response headers. Reading the body is
	// only bounded by their sum, which also caps the whole exchange.
	// Zero or negative values fall back to the defaults.
	ConnectTimeout time.Duration
	ReadTimeout    time.Duration

	// Connectivity is consulted before every request, nil means AlwaysConnected.
	Connectivity Connectivity
}

var (
	requestCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "translink_request_count",
		Help: "Number of requests made to a Translink endpoint",
	}, []string{"operation"})
	responseCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "translink_response_count",
		Help: "Number of responses received from a Translink endpoint, by HTTP status",
	}, []string{"operation", "status"})
	errorCount = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "translink_error_count",
		Help: "Number of times a request to a Translink endpoint failed without a response",
	}, []string{"operation"})
)

func init() {
	prometheus.MustRegister(requestCount, responseCount, errorCount)
}

func (c *HttpClient) FetchJSON(ctx context.Context, operation, path string, query url.Values) (string, error) {
	requestCount.With(prometheus.Labels{"operation": operation}).Inc()

	if !c.connectivity.Available() {
		return retError(operation, ErrNotConnected)
	}

	target := c.baseURL.JoinPath(path)
	target.RawQuery = query.Encode()

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, target.String(), nil)
	if err != nil {
		return retError(operation, err)
	}

	response, err := c.client.Do(request)
	if err != nil {
		return retError(operation, err)
	}
	defer response.Body.Close()

	// error responses carry a JSON body too, so the status is only recorded
	responseCount.With(prometheus.Labels{
		"operation": operation,
		"status":    strconv.Itoa(response.StatusCode),
	}).Inc()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return retError(operation, err)
	}

	return strings.TrimSpace(string(body)), nil
}

func retError(operation string, err error) (string, error) {
	errorCount.With(prometheus.Labels{"operation": operation}).Inc()
	return "", err
}

func NewHttpClient(opts Options) (*HttpClient, error) {
	baseURL, err := url.Parse(opts.BaseURL)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid base URL %q", opts.BaseURL)
	}

	if opts.ConnectTimeout <= 0 {
		opts.ConnectTimeout = DefaultConnectTimeout
	}
	if opts.ReadTimeout <= 0 {
		opts.ReadTimeout = DefaultReadTimeout
	}

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	connectivity := opts.Connectivity
	if connectivity == nil {
		connectivity = AlwaysConnected
	}

	return &HttpClient{
		client: &http.Client{
			Timeout:   opts.ConnectTimeout + opts.ReadTimeout,
			Transport: newTransport(opts),
		},
		baseURL:      baseURL,
		connectivity: connectivity,
	}, nil
}

type apiTransport struct {
	ApiKey    string
	UserAgent string

	next http.RoundTripper
}

func (t *apiTransport) RoundTrip(request *http.Request) (*http.Response, error) {
	request = request.Clone(request.Context())

	request.Header.Set("User-Agent", t.UserAgent)
	request.Header.Set("Accept", "application/json")

	query := request.URL.Query()
	query.Set("apikey", t.ApiKey)
	request.URL.RawQuery = query.Encode()

	return t.next.RoundTrip(request)
}

func newTransport(opts Options) http.RoundTripper {
	dialer := &net.Dialer{Timeout: opts.ConnectTimeout}

	return &apiTransport{
		ApiKey:    opts.ApiKey,
		UserAgent: opts.UserAgent,
		next: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           dialer.DialContext,
			TLSHandshakeTimeout:   opts.ConnectTimeout,
			ResponseHeaderTimeout: opts.ReadTimeout,
		},
	}
}
