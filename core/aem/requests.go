package aem

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// ResponseError reports a non-2xx response.
type ResponseError struct {
	Method     string
	URL        string
	StatusCode int
	Status     string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("aem: HTTP error response: %s %s: %s", e.Method, e.URL, e.Status)
}

// IsNotFound reports whether err carries a 404 response.
func IsNotFound(err error) bool {
	var respErr *ResponseError
	return errors.As(err, &respErr) && respErr.StatusCode == http.StatusNotFound
}

// get performs an idempotent GET, retrying transport failures and 5xx responses.
func (api *API) get(ctx context.Context, u string) ([]byte, error) {
	for attempt := 1; ; attempt++ {
		body, err := api.do(ctx, http.MethodGet, u, nil)
		if err == nil {
			return body, nil
		}
		if attempt > api.retries || !retryable(err) || ctx.Err() != nil {
			return nil, err
		}
		if err := api.sleep(ctx, NextBackoffDelay(api.backoff, attempt, nil)); err != nil {
			return nil, err
		}
	}
}

// postForm sends a form-encoded POST exactly once.
func (api *API) postForm(ctx context.Context, u string, form url.Values) ([]byte, error) {
	return api.do(ctx, http.MethodPost, u, form)
}

func (api *API) do(ctx context.Context, method, u string, form url.Values) ([]byte, error) {
	var reqBody io.Reader
	if form != nil {
		reqBody = bytes.NewBufferString(form.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return nil, fmt.Errorf("aem: couldn't instantiate http request: %w", err)
	}

	req.Header.Add("Accept", "application/json, */*")
	if form != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	req.SetBasicAuth(api.user, api.password)

	response, err := api.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aem: couldn't perform http request: %w", err)
	}
	defer response.Body.Close()

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, fmt.Errorf("aem: couldn't read http response body: %w", err)
	}

	if response.StatusCode < 200 || response.StatusCode > 299 {
		return nil, &ResponseError{
			Method:     method,
			URL:        u,
			StatusCode: response.StatusCode,
			Status:     response.Status,
		}
	}

	return body, nil
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var respErr *ResponseError
	if errors.As(err, &respErr) {
		return respErr.StatusCode >= 500
	}
	return true
}
