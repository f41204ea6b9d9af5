package static

import (
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/marmos91/dittoserve/internal/logger"
	"github.com/marmos91/dittoserve/internal/telemetry"
)

// Handler serves the tree under a root Node over HTTP.
type Handler struct {
	root *Node
}

// NewHandler returns a handler serving root.
func NewHandler(root *Node) *Handler {
	return &Handler{root: root}
}

// Root returns the configured root node.
func (h *Handler) Root() *Node { return h.root }

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	attrs := []attribute.KeyValue{telemetry.ClientAddress(r.RemoteAddr)}
	if id := middleware.GetReqID(r.Context()); id != "" {
		attrs = append(attrs, telemetry.RequestID(id))
	}
	ctx, span := telemetry.StartHTTPSpan(r.Context(), r.Method, r.URL.Path, attrs...)
	defer span.End()
	if lc := logger.FromContext(ctx); lc != nil && span.SpanContext().IsValid() {
		ctx = logger.WithContext(ctx, lc.WithTrace(telemetry.TraceID(ctx), telemetry.SpanID(ctx)))
	}
	r = r.WithContext(ctx)

	ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

	res, err := h.Resolve(r)
	if err != nil {
		res = h.errorResource(r, err)
	}

	status, err := Serve(ww, r, res)
	if err != nil {
		telemetry.RecordError(ctx, err)
		logger.ErrorCtx(ctx, "Request failed",
			logger.KeyPath, r.URL.Path,
			logger.KeyError, err)
		if ww.Status() == 0 {
			status, _ = Serve(ww, r, &ErrorPage{
				Status: http.StatusInternalServerError,
				Brief:  "Internal Server Error",
				Detail: "The server could not complete the request.",
			})
		}
	}

	span.SetAttributes(telemetry.HTTPStatus(status), telemetry.BytesSent(int64(ww.BytesWritten())))
	if status >= http.StatusInternalServerError {
		span.SetStatus(codes.Error, http.StatusText(status))
	}
	if m := h.root.opts.Metrics; m != nil {
		m.RecordResponse(r.Method, status)
	}
}

// Resolve walks the request path from the root and returns the resource
// that answers it.
//
// Segments are split on the escaped path before unescaping, so an encoded
// separator stays inside its segment and is rejected as dangerous.
func (h *Handler) Resolve(r *http.Request) (Resource, error) {
	segments := strings.Split(strings.TrimPrefix(r.URL.EscapedPath(), "/"), "/")

	var res Resource = h.root.similar(h.root.path)
	for _, raw := range segments {
		segment, err := url.PathUnescape(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		parent, ok := res.(Container)
		if !ok {
			return nil, ErrNotFound
		}
		res, err = parent.Child(segment)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func (h *Handler) errorResource(r *http.Request, err error) Resource {
	ctx := r.Context()
	switch {
	case errors.Is(err, ErrInvalidPath):
		logger.DebugCtx(ctx, "Rejected path", logger.KeyPath, r.URL.Path, logger.KeyError, err)
		return NotFoundPage(invalidURLDetail)
	case errors.Is(err, ErrNotFound):
		return NotFoundPage(notFoundDetail)
	case errors.Is(err, ErrForbidden):
		return ForbiddenPage()
	default:
		logger.ErrorCtx(ctx, "Resolve failed", logger.KeyPath, r.URL.Path, logger.KeyError, err)
		telemetry.RecordError(ctx, err)
		return &ErrorPage{
			Status: http.StatusInternalServerError,
			Brief:  "Internal Server Error",
			Detail: "The server could not complete the request.",
		}
	}
}
