package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/postblog/platform/internal/api/metrics"
	"github.com/postblog/platform/internal/core/domain"
	"github.com/postblog/platform/internal/core/ports"
)

// ProxyFallbacks is the status reported per operation when the upstream
// cannot be reached at all.
type ProxyFallbacks struct {
	List   int
	Get    int
	Create int
	Update int
	Delete int
}

var (
	// EntityFallbacks applies to users and posts.
	EntityFallbacks = ProxyFallbacks{
		List:   http.StatusNotFound,
		Get:    http.StatusNotFound,
		Create: http.StatusInternalServerError,
		Update: http.StatusNotFound,
		Delete: http.StatusNotFound,
	}
	// CommentFallbacks applies to comments.
	CommentFallbacks = ProxyFallbacks{
		List:   http.StatusNotFound,
		Get:    http.StatusNotFound,
		Create: http.StatusInternalServerError,
		Update: http.StatusInternalServerError,
		Delete: http.StatusInternalServerError,
	}
)

// ProxyHandler relays one resource (users, posts or comments) to its
// upstream. Status and body come back untouched.
type ProxyHandler struct {
	resource  string
	upstream  ports.Upstream
	fallbacks ProxyFallbacks
	log       zerolog.Logger
}

func NewProxyHandler(resource string, upstream ports.Upstream, fallbacks ProxyFallbacks, log zerolog.Logger) *ProxyHandler {
	return &ProxyHandler{resource: resource, upstream: upstream, fallbacks: fallbacks, log: log}
}

// List relays GET /api/<resource>.
func (h *ProxyHandler) List(c echo.Context) error {
	return h.relay(c, "get", h.fallbacks.List)
}

// Get relays GET /api/<resource>/:id.
func (h *ProxyHandler) Get(c echo.Context) error {
	if _, err := idParam(c, "id"); err != nil {
		return err
	}
	return h.relay(c, "get", h.fallbacks.Get)
}

// Create relays POST /api/<resource>.
func (h *ProxyHandler) Create(c echo.Context) error {
	return h.relay(c, "create", h.fallbacks.Create)
}

// Update relays PUT /api/<resource>/:id.
func (h *ProxyHandler) Update(c echo.Context) error {
	if _, err := idParam(c, "id"); err != nil {
		return err
	}
	return h.relay(c, "update", h.fallbacks.Update)
}

// Delete relays DELETE /api/<resource>/:id.
func (h *ProxyHandler) Delete(c echo.Context) error {
	if _, err := idParam(c, "id"); err != nil {
		return err
	}
	return h.relay(c, "delete", h.fallbacks.Delete)
}

func (h *ProxyHandler) relay(c echo.Context, op string, fallback int) error {
	r := c.Request()

	var body []byte
	if r.Body != nil {
		b, err := io.ReadAll(r.Body)
		if err != nil {
			return errInvalidPayload
		}
		body = b
	}

	start := time.Now()
	resp, err := h.upstream.Forward(r.Context(), &ports.UpstreamRequest{
		Method:        r.Method,
		Path:          r.URL.Path,
		RawQuery:      r.URL.RawQuery,
		Authorization: r.Header.Get(echo.HeaderAuthorization),
		ContentType:   r.Header.Get(echo.HeaderContentType),
		Body:          body,
	})
	metrics.UpstreamDuration.WithLabelValues(h.upstream.Name()).Observe(time.Since(start).Seconds())

	if err != nil {
		if errors.Is(err, domain.ErrUpstreamUnavailable) {
			metrics.UpstreamRequestsTotal.WithLabelValues(h.upstream.Name(), "unavailable").Inc()
			return domain.ErrUpstreamUnavailable
		}
		metrics.UpstreamRequestsTotal.WithLabelValues(h.upstream.Name(), "transport_error").Inc()
		h.log.Error().Err(err).Str("resource", h.resource).Str("op", op).Msg("upstream request failed")
		return domain.UpstreamFailure(fallback, fmt.Sprintf("failed to %s %s", op, h.resource))
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(h.upstream.Name(), "relayed").Inc()
	if len(resp.Body) == 0 {
		return c.NoContent(resp.Status)
	}
	contentType := resp.ContentType
	if contentType == "" {
		contentType = echo.MIMEApplicationJSON
	}
	return c.Blob(resp.Status, contentType, resp.Body)
}
