package api

import (
	"encoding/json"
	"fmt"
)

// request is the interceptor-local description of one logical API call.
// The retry flag lives here rather than on a shared object, so a retried copy
// never affects other calls.
type request struct {
	method    string
	path      string
	body      []byte
	bearer    string // явный access token для повторного запроса
	anonymous bool   // без bearer и без refresh-and-retry
	retried   bool
}

func newRequest(method, path string, body any) (*request, error) {
	req := &request{method: method, path: path}
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		req.body = data
	}
	return req, nil
}

// retry returns a copy marked as retried that carries the fresh access token.
func (r *request) retry(access string) *request {
	clone := *r
	clone.retried = true
	clone.bearer = access
	return &clone
}
