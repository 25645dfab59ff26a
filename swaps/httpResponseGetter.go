package swaps

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultRequestTimeout is the timeout applied to every swaps API request
const DefaultRequestTimeout = 15 * time.Second

type httpResponseGetter struct {
	client *http.Client
}

// NewHttpResponseGetter returns a new http response getter using the provided request timeout
func NewHttpResponseGetter(requestTimeout time.Duration) (*httpResponseGetter, error) {
	if requestTimeout <= 0 {
		requestTimeout = DefaultRequestTimeout
	}

	return NewHttpResponseGetterWithClient(&http.Client{Timeout: requestTimeout})
}

// NewHttpResponseGetterWithClient returns a new http response getter using the provided http client
func NewHttpResponseGetterWithClient(client *http.Client) (*httpResponseGetter, error) {
	if client == nil {
		return nil, ErrNilHttpClient
	}

	return &httpResponseGetter{
		client: client,
	}, nil
}

// Get does a get operation on the specified url and tries to cast the response bytes over the response object through
// the json serializer
func (getter *httpResponseGetter) Get(ctx context.Context, url string, response interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := getter.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		errClose := resp.Body.Close()
		if errClose != nil {
			log.Error("can not close the response body", "url", url, "error", errClose)
		}
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return fmt.Errorf("http status %d while fetching %s: %s", resp.StatusCode, url, string(body))
	}

	return json.Unmarshal(body, response)
}
