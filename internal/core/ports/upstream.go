package ports

import "context"

// UpstreamRequest is a request relayed by the gateway. Only the two headers
// the backends care about are carried over.
type UpstreamRequest struct {
	Method        string
	Path          string
	RawQuery      string
	Authorization string
	ContentType   string
	Body          []byte
}

// UpstreamResponse is the backend's answer, relayed verbatim.
type UpstreamResponse struct {
	Status      int
	ContentType string
	Body        []byte
}

// Upstream forwards requests to one backend service. A transport failure is
// returned as an error; any HTTP status the backend produced is not.
type Upstream interface {
	Name() string
	Forward(ctx context.Context, req *UpstreamRequest) (*UpstreamResponse, error)
}
