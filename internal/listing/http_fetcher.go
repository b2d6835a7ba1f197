package listing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"listkit/internal/transport"
)

// JSONClient is the part of transport.HTTPClient the fetcher needs.
type JSONClient interface {
	Get(ctx context.Context, endpoint string, params url.Values) (*transport.HTTPResponse, error)
	PostJSON(ctx context.Context, endpoint string, payload any) (*transport.HTTPResponse, error)
}

// EndpointConfig describes a list endpoint. ItemsKey is the name of the
// array in the response body ("users", "logs", ...) and defaults to
// "items". Method is GET or POST and defaults to GET.
type EndpointConfig struct {
	Path     string
	Method   string
	ItemsKey string
}

// HTTPFetcher fetches pages from a JSON endpoint answering
// {"total": n, "<ItemsKey>": [...]} or {"error": "..."}.
type HTTPFetcher[T any] struct {
	client   JSONClient
	endpoint EndpointConfig
}

// NewHTTPFetcher validates the endpoint and returns a fetcher for it.
func NewHTTPFetcher[T any](client JSONClient, endpoint EndpointConfig) (*HTTPFetcher[T], error) {
	if client == nil {
		return nil, &ConfigError{Problems: []string{"http client is required"}}
	}
	if endpoint.Path == "" {
		return nil, &ConfigError{Problems: []string{"endpoint path is required"}}
	}
	if endpoint.ItemsKey == "" {
		endpoint.ItemsKey = "items"
	}
	switch endpoint.Method {
	case "":
		endpoint.Method = http.MethodGet
	case http.MethodGet, http.MethodPost:
	default:
		return nil, &ConfigError{Problems: []string{fmt.Sprintf("unsupported method %q", endpoint.Method)}}
	}
	return &HTTPFetcher[T]{client: client, endpoint: endpoint}, nil
}

// FetchPage implements Fetcher.
func (f *HTTPFetcher[T]) FetchPage(ctx context.Context, req PageRequest) (PageResult[T], error) {
	var (
		resp *transport.HTTPResponse
		err  error
	)
	if f.endpoint.Method == http.MethodPost {
		resp, err = f.client.PostJSON(ctx, f.endpoint.Path, requestBody(req))
	} else {
		resp, err = f.client.Get(ctx, f.endpoint.Path, requestParams(req))
	}
	if err != nil {
		return PageResult[T]{}, &NetworkError{Op: "fetch " + f.endpoint.Path, Err: err}
	}
	if !resp.IsSuccess() {
		return PageResult[T]{}, &NetworkError{Op: "fetch " + f.endpoint.Path, StatusCode: resp.StatusCode}
	}

	return decodePage[T](resp, f.endpoint.ItemsKey)
}

func requestParams(req PageRequest) url.Values {
	params := url.Values{}
	for k, v := range req.ExtraFilters {
		params.Set(k, v)
	}
	params.Set("page", strconv.Itoa(req.Page))
	params.Set("query", req.Query)
	params.Set("limit", strconv.Itoa(req.Limit))
	return params
}

func requestBody(req PageRequest) map[string]any {
	body := make(map[string]any, len(req.ExtraFilters)+3)
	for k, v := range req.ExtraFilters {
		body[k] = v
	}
	body["page"] = req.Page
	body["query"] = req.Query
	body["limit"] = req.Limit
	return body
}

func decodePage[T any](resp *transport.HTTPResponse, itemsKey string) (PageResult[T], error) {
	op := "decode response"

	var body map[string]json.RawMessage
	if err := resp.UnmarshalJSON(&body); err != nil {
		return PageResult[T]{}, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: err}
	}

	if msg, ok := errorField(body["error"]); ok {
		return PageResult[T]{}, &ServerReportedError{Message: msg}
	}

	rawItems, ok := body[itemsKey]
	if !ok {
		return PageResult[T]{}, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("missing %q in response", itemsKey)}
	}
	var items []T
	if err := json.Unmarshal(rawItems, &items); err != nil {
		return PageResult[T]{}, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode %q: %w", itemsKey, err)}
	}

	total := len(items)
	if rawTotal, ok := body["total"]; ok {
		if err := json.Unmarshal(rawTotal, &total); err != nil {
			return PageResult[T]{}, &NetworkError{Op: op, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode total: %w", err)}
		}
	}

	return PageResult[T]{Items: items, Total: total}, nil
}

// errorField reports whether raw holds an application error. null, false
// and "" mean no error.
func errorField(raw json.RawMessage) (string, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "", false
	}
	switch string(raw) {
	case "null", "false", `""`:
		return "", false
	}
	var msg string
	if err := json.Unmarshal(raw, &msg); err == nil {
		return msg, true
	}
	return string(raw), true
}
