// Package httpapi serves a JSON control and inspection API over a queue client.
package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/huynhanx03/xk6-queue/pkg/adapter"
	"github.com/huynhanx03/xk6-queue/pkg/common/apperr"
	"github.com/huynhanx03/xk6-queue/pkg/common/http/handler"
	"github.com/huynhanx03/xk6-queue/pkg/envelope"
	"github.com/huynhanx03/xk6-queue/pkg/queue"
)

// MaxPopTimeout caps how long one HTTP pop may hold a connection.
const MaxPopTimeout = 60 * time.Second

// Server routes HTTP requests to a queue client.
type Server struct {
	client *adapter.Client
	logger *zap.Logger
	engine *gin.Engine
}

// New builds the gin engine. gatherer backs /metrics and may be nil.
func New(client *adapter.Client, gatherer prometheus.Gatherer, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{client: client, logger: logger, engine: gin.New()}
	s.engine.Use(gin.Recovery(), s.accessLog())
	s.routes(gatherer)
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.engine }

func (s *Server) routes(gatherer prometheus.Gatherer) {
	s.engine.GET("/healthz", func(c *gin.Context) { c.String(http.StatusOK, "ok") })
	if gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	queues := s.engine.Group("/queues")
	queues.GET("", handler.Wrap(s.listQueues))
	queues.GET("/:name", handler.Wrap(s.getQueue))
	queues.POST("/:name/items", handler.Wrap(s.push))
	queues.GET("/:name/items", handler.Wrap(s.snapshot))
	queues.DELETE("/:name/items", handler.Wrap(s.clear))
	queues.POST("/:name/pop", handler.Wrap(s.pop))
}

func (s *Server) accessLog() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug("http request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}

// =============================================================================
// Requests / Responses
// =============================================================================

type emptyRequest struct{}

type nameRequest struct {
	Name string `uri:"name" form:"-" validate:"required"`
}

type pushRequest struct {
	Name  string         `uri:"name" form:"-" json:"-" validate:"required"`
	Value envelope.Value `json:"value" uri:"-" form:"-"`
}

type popRequest struct {
	Name      string `uri:"name" form:"-" validate:"required"`
	TimeoutMs int64  `uri:"-" form:"timeout_ms" validate:"gte=0"`
}

type listResponse struct {
	Queues []string `json:"queues"`
}

type pushResponse struct {
	Size int `json:"size"`
}

type popResponse struct {
	Value any  `json:"value"`
	Found bool `json:"found"`
}

type snapshotResponse struct {
	Items []any `json:"items"`
}

type clearResponse struct {
	Removed int `json:"removed"`
}

// =============================================================================
// Handlers
// =============================================================================

func (s *Server) listQueues(_ context.Context, _ *emptyRequest) (listResponse, error) {
	return listResponse{Queues: s.client.ListQueues()}, nil
}

func (s *Server) getQueue(_ context.Context, req *nameRequest) (queue.Stats, error) {
	q, ok := s.client.Registry().Get(req.Name)
	if !ok {
		return queue.Stats{}, apperr.NewError("queue "+req.Name, apperr.CodeNotFound, apperr.MsgNotFound, http.StatusNotFound, nil)
	}
	return q.Stats(), nil
}

func (s *Server) push(_ context.Context, req *pushRequest) (pushResponse, error) {
	if err := s.client.Push(req.Name, req.Value); err != nil {
		return pushResponse{}, mapQueueError(err, apperr.MsgPushFailed)
	}
	size, _ := s.client.Size(req.Name)
	return pushResponse{Size: size}, nil
}

// pop treats a missing timeout_ms as a non-blocking pop. The request context
// ends the wait early when the client goes away.
func (s *Server) pop(ctx context.Context, req *popRequest) (popResponse, error) {
	timeout := time.Duration(req.TimeoutMs) * time.Millisecond
	if timeout > MaxPopTimeout {
		timeout = MaxPopTimeout
	}

	v, err := s.client.PopWithTimeout(ctx, req.Name, timeout.Milliseconds())
	if err != nil {
		return popResponse{}, mapQueueError(err, apperr.MsgPopFailed)
	}
	return popResponse{Value: v, Found: v != nil}, nil
}

func (s *Server) snapshot(_ context.Context, req *nameRequest) (snapshotResponse, error) {
	items, err := s.client.Snapshot(req.Name)
	if err != nil {
		return snapshotResponse{}, mapQueueError(err, apperr.MsgGetFailed)
	}
	return snapshotResponse{Items: items}, nil
}

func (s *Server) clear(_ context.Context, req *nameRequest) (clearResponse, error) {
	n, err := s.client.Clear(req.Name)
	if err != nil {
		return clearResponse{}, mapQueueError(err, apperr.MsgClearFailed)
	}
	return clearResponse{Removed: n}, nil
}

func mapQueueError(err error, msg string) error {
	switch {
	case errors.Is(err, queue.ErrInvalidName):
		return apperr.MapError("queue", err, apperr.CodeInvalidName, msg, http.StatusBadRequest)
	case errors.Is(err, envelope.ErrUnsupportedType):
		return apperr.MapError("queue", err, apperr.CodeUnsupported, msg, http.StatusBadRequest)
	case errors.Is(err, queue.ErrQueueFull):
		return apperr.MapError("queue", err, apperr.CodeQueueFull, msg, http.StatusTooManyRequests)
	default:
		return apperr.MapError("queue", err, apperr.CodeInternal, msg, http.StatusInternalServerError)
	}
}
