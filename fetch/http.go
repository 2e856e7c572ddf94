package fetch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	errors "github.com/goliatone/go-errors"
)

// EnvelopeOK is the envelope code the API uses for success.
const EnvelopeOK = 1

// Envelope is the JSON wrapper every list endpoint responds with.
type Envelope[T any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data []T    `json:"data"`
}

// Route maps a key to the request path and extra query parameters.
type Route func(key string) (path string, query url.Values)

// PathRoute puts the escaped key at the end of prefix, e.g. /FilterContent/{key}.
func PathRoute(prefix string) Route {
	prefix = strings.TrimRight(prefix, "/")
	return func(key string) (string, url.Values) {
		return prefix + "/" + url.PathEscape(key), nil
	}
}

// QueryRoute sends the key as a query parameter, e.g. /SearchArticle?keyword={key}.
func QueryRoute(path, param string) Route {
	return func(key string) (string, url.Values) {
		return path, url.Values{param: []string{key}}
	}
}

// HTTPOption customizes an HTTPFetcher.
type HTTPOption func(*httpConfig)

type httpConfig struct {
	client    *http.Client
	header    http.Header
	pageParam string
	sizeParam string
}

// WithHTTPClient sets the client used for requests.
func WithHTTPClient(client *http.Client) HTTPOption {
	return func(c *httpConfig) {
		if client != nil {
			c.client = client
		}
	}
}

// WithHeader adds a header sent with every request.
func WithHeader(name, value string) HTTPOption {
	return func(c *httpConfig) {
		c.header.Add(name, value)
	}
}

// WithPageParams renames the page and size query parameters.
func WithPageParams(page, size string) HTTPOption {
	return func(c *httpConfig) {
		c.pageParam = page
		c.sizeParam = size
	}
}

// HTTPFetcher loads pages from a JSON API that wraps results in an Envelope.
type HTTPFetcher[T any] struct {
	baseURL string
	route   Route
	cfg     httpConfig
}

// NewHTTPFetcher creates a fetcher for baseURL, e.g. http://localhost:8080/api.
func NewHTTPFetcher[T any](baseURL string, route Route, opts ...HTTPOption) *HTTPFetcher[T] {
	cfg := httpConfig{
		client:    &http.Client{Timeout: 10 * time.Second},
		header:    http.Header{},
		pageParam: "page",
		sizeParam: "size",
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &HTTPFetcher[T]{
		baseURL: strings.TrimRight(baseURL, "/"),
		route:   route,
		cfg:     cfg,
	}
}

// Func returns the fetcher as a Func.
func (f *HTTPFetcher[T]) Func() Func[T] {
	return f.Fetch
}

// Fetch requests one page and returns the envelope data.
func (f *HTTPFetcher[T]) Fetch(ctx context.Context, key string, page, size int) ([]T, error) {
	if err := ValidatePage(page, size); err != nil {
		return nil, err
	}

	path, query := f.route(key)
	if query == nil {
		query = url.Values{}
	}
	query.Set(f.cfg.pageParam, strconv.Itoa(page))
	query.Set(f.cfg.sizeParam, strconv.Itoa(size))
	target := f.baseURL + path + "?" + query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.CategoryBadInput, "building list request")
	}
	req.Header.Set("Accept", "application/json")
	for name, values := range f.cfg.header {
		for _, v := range values {
			req.Header.Add(name, v)
		}
	}

	meta := map[string]any{"url": target, "key": key, "page": page}

	res, err := f.cfg.client.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, errors.Wrap(err, errors.CategoryExternal, "list request canceled").WithMetadata(meta)
		}
		return nil, errors.WrapRetryable(err, errors.CategoryExternal, "list request failed").WithMetadata(meta)
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusInternalServerError {
		io.Copy(io.Discard, res.Body)
		return nil, errors.NewRetryable(fmt.Sprintf("list endpoint returned %d", res.StatusCode), errors.CategoryExternal).
			WithCode(res.StatusCode).
			WithMetadata(meta)
	}
	if res.StatusCode >= http.StatusBadRequest {
		io.Copy(io.Discard, res.Body)
		return nil, errors.New(fmt.Sprintf("list endpoint returned %d", res.StatusCode), errors.CategoryExternal).
			WithCode(res.StatusCode).
			WithMetadata(meta)
	}

	var env Envelope[T]
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, errors.Wrap(err, errors.CategoryExternal, "decoding list envelope").WithMetadata(meta)
	}

	if env.Code != EnvelopeOK {
		msg := env.Msg
		if msg == "" {
			msg = fmt.Sprintf("envelope code %d", env.Code)
		}
		return nil, errors.New(msg, errors.CategoryExternal).
			WithTextCode("ENVELOPE_REJECTED").
			WithMetadata(meta)
	}

	if env.Data == nil {
		return []T{}, nil
	}
	return env.Data, nil
}
