package monitoring

import (
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.1, 0.5, 1, 2, 5},
		},
		[]string{"method", "endpoint"},
	)

	// GenerationTotal 按来源统计出题结果，origin=fallback 表示远程出题失败
	GenerationTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_generation_total",
			Help: "Exam generation attempts by origin and failure stage",
		},
		[]string{"origin", "stage"},
	)

	GenerationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "exam_generation_duration_seconds",
			Help:    "Duration of remote exam generation calls",
			Buckets: []float64{0.5, 1, 2, 5, 10, 20},
		},
	)

	SubmissionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exam_submissions_total",
			Help: "Submitted exam sessions by proficiency level",
		},
		[]string{"level"},
	)

	ResultSinkTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "result_sink_pushes_total",
			Help: "Result sink pushes by sink and outcome",
		},
		[]string{"sink", "outcome"},
	)
)

var initOnce sync.Once

func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestCounter,
			RequestDuration,
			GenerationTotal,
			GenerationDuration,
			SubmissionTotal,
			ResultSinkTotal,
		)
	})
}

func MetricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		duration := time.Since(start).Seconds()
		status := c.Writer.Status()

		RequestCounter.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
			strconv.Itoa(status),
		).Inc()

		RequestDuration.WithLabelValues(
			c.Request.Method,
			c.FullPath(),
		).Observe(duration)
	}
}

func PrometheusHandler() gin.HandlerFunc {
	h := promhttp.Handler()
	return func(c *gin.Context) {
		h.ServeHTTP(c.Writer, c.Request)
	}
}
