package directory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/sirupsen/logrus"
)

// RequestObserver is told about every completed request.
type RequestObserver interface {
	ObserveRequest(service, op string, d time.Duration, err error)
}

// ClientOptions configures the HTTP inventory clients.
type ClientOptions struct {
	// Timeout bounds a single HTTP attempt.
	Timeout time.Duration
	// Retries is how many times a 5xx or 429 answer is retried inside the
	// transport. Connection faults are never retried here; they surface as
	// transient faults for the caller to decide.
	Retries int
	// HTTPClient replaces the pooled default client; tests use it.
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
	Observer   RequestObserver
}

type restClient struct {
	service  string
	baseURL  string
	http     *retryablehttp.Client
	observer RequestObserver
}

func newRESTClient(service, baseURL string, opts ClientOptions) *restClient {
	hc := retryablehttp.NewClient()
	if opts.HTTPClient != nil {
		hc.HTTPClient = opts.HTTPClient
	}
	if opts.Timeout > 0 {
		hc.HTTPClient.Timeout = opts.Timeout
	}
	hc.RetryMax = opts.Retries
	hc.RetryWaitMin = 100 * time.Millisecond
	hc.RetryWaitMax = 2 * time.Second
	hc.CheckRetry = retryServerErrors
	hc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	hc.Logger = nil
	if opts.Logger != nil {
		hc.Logger = leveledLogger{opts.Logger.WithField("client", service)}
	}
	return &restClient{
		service:  service,
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     hc,
		observer: opts.Observer,
	}
}

// retryServerErrors retries overloaded or failing servers. Transport errors
// are returned unretried so the caller can classify them.
func retryServerErrors(ctx context.Context, resp *http.Response, err error) (bool, error) {
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if err != nil || resp == nil {
		return false, nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return true, nil
	}
	if resp.StatusCode >= 500 && resp.StatusCode != http.StatusNotImplemented {
		return true, nil
	}
	return false, nil
}

// maxResponseBytes caps how much of a response body is read.
var maxResponseBytes int64 = 32 << 20

// restError is the body restify services answer errors with.
type restError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (c *restClient) getJSON(ctx context.Context, op, path string, query url.Values, dst any) (err error) {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	start := time.Now()
	defer func() {
		if c.observer != nil {
			c.observer.ObserveRequest(c.service, op, time.Since(start), err)
		}
	}()

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return &Fault{Service: c.service, Op: op, URL: u, Err: err}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		if resp != nil {
			_ = resp.Body.Close()
		}
		return transportFault(c.service, op, u, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes+1))
	if err != nil {
		return transportFault(c.service, op, u, err)
	}
	if int64(len(body)) > maxResponseBytes {
		return &Fault{Service: c.service, Op: op, URL: u, StatusCode: resp.StatusCode,
			Err: fmt.Errorf("response body exceeds %d bytes", maxResponseBytes)}
	}

	if resp.StatusCode != http.StatusOK {
		f := &Fault{Service: c.service, Op: op, URL: u, StatusCode: resp.StatusCode}
		var re restError
		if json.Unmarshal(body, &re) == nil {
			f.Code = re.Code
			f.Message = re.Message
		}
		if f.Message == "" {
			f.Message = http.StatusText(resp.StatusCode)
		}
		return f
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return &Fault{Service: c.service, Op: op, URL: u, Err: fmt.Errorf("decoding response: %w", err)}
	}
	return nil
}

// leveledLogger adapts a logrus logger to retryablehttp.LeveledLogger.
type leveledLogger struct {
	log logrus.FieldLogger
}

func (l leveledLogger) fields(kv []interface{}) logrus.FieldLogger {
	f := logrus.Fields{}
	for i := 0; i+1 < len(kv); i += 2 {
		f[fmt.Sprint(kv[i])] = kv[i+1]
	}
	return l.log.WithFields(f)
}

func (l leveledLogger) Error(msg string, kv ...interface{}) { l.fields(kv).Error(msg) }
func (l leveledLogger) Info(msg string, kv ...interface{})  { l.fields(kv).Info(msg) }
func (l leveledLogger) Debug(msg string, kv ...interface{}) { l.fields(kv).Debug(msg) }
func (l leveledLogger) Warn(msg string, kv ...interface{})  { l.fields(kv).Warn(msg) }
