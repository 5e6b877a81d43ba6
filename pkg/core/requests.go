package core

import "context"

// Requests is a generic interface for making API requests
type Requests interface {
	// MakeAPIRequest makes an HTTP request and returns the response body.
	MakeAPIRequest(ctx context.Context, httpMethod, endpoint string, body []byte, token string) ([]byte, error)
}
