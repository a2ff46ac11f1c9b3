// Package metrics collects Prometheus counters for task operations, tool calls,
// chat intents and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
)

// Collector implements usecase.Recorder on Prometheus vectors.
type Collector struct {
	taskOps      *prometheus.CounterVec
	toolCalls    *prometheus.CounterVec
	chatIntents  *prometheus.CounterVec
	httpRequests *prometheus.CounterVec
	httpLatency  *prometheus.HistogramVec
}

// NewCollector registers every metric on reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		taskOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskchat_task_operations_total",
			Help: "Task operations by operation and outcome.",
		}, []string{"operation", "outcome"}),
		toolCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskchat_tool_calls_total",
			Help: "Agent tool calls by tool and result.",
		}, []string{"tool", "result"}),
		chatIntents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskchat_chat_intents_total",
			Help: "Chat messages by classified intent.",
		}, []string{"intent"}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskchat_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status_code"}),
		httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "taskchat_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}

	reg.MustRegister(
		c.taskOps,
		c.toolCalls,
		c.chatIntents,
		c.httpRequests,
		c.httpLatency,
	)
	return c
}

func (c *Collector) RecordTaskOperation(operation, outcome string) {
	c.taskOps.WithLabelValues(operation, outcome).Inc()
}

func (c *Collector) RecordToolCall(tool string, isError bool) {
	result := "ok"
	if isError {
		result = "error"
	}
	c.toolCalls.WithLabelValues(tool, result).Inc()
}

func (c *Collector) RecordChatIntent(intent string) {
	c.chatIntents.WithLabelValues(intent).Inc()
}

// RecordHTTPRequest counts one served request. route is the registered
// pattern, not the raw path, to keep label cardinality bounded.
func (c *Collector) RecordHTTPRequest(method, route string, status int, elapsed time.Duration) {
	c.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.httpLatency.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Instrument wraps next so every request it serves is counted under route.
func (c *Collector) Instrument(route string, next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		next(ctx)
		c.RecordHTTPRequest(string(ctx.Method()), route, ctx.Response.StatusCode(), time.Since(start))
	}
}

// Handler serves the Prometheus exposition format for gatherer.
func Handler(gatherer prometheus.Gatherer) fasthttp.RequestHandler {
	return fasthttpadaptor.NewFastHTTPHandler(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
}
