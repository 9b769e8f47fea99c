// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/tglkwon/aquaboard/internal/model"
)

// Collector はPrometheusメトリクスを収集する実装。
// middleware.MetricsRecorder、auth.MetricsRecorder、board.MetricsRecorderを満たす。
type Collector struct {
	httpStatus     *prometheus.CounterVec
	httpLatency    prometheus.Histogram
	postsCreated   prometheus.Counter
	repliesCreated prometheus.Counter
	authzDenied    *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aquaboard_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "aquaboard_http_latency_seconds",
			Help:    "HTTPリクエスト処理のレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		postsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aquaboard_posts_created_total",
			Help: "作成された投稿の合計数",
		}),
		repliesCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "aquaboard_replies_created_total",
			Help: "作成された返信の合計数",
		}),
		authzDenied: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "aquaboard_authz_denied_total",
			Help: "認可拒否の合計数（リソース種別・理由別）",
		}, []string{"kind", "reason"}),
	}

	reg.MustRegister(
		c.httpStatus,
		c.httpLatency,
		c.postsCreated,
		c.repliesCreated,
		c.authzDenied,
	)

	return c
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPLatency はリクエスト処理のレイテンシを記録する。
func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// RecordPostCreated は投稿作成を記録する。
func (c *Collector) RecordPostCreated() {
	c.postsCreated.Inc()
}

// RecordReplyCreated は返信作成を記録する。
func (c *Collector) RecordReplyCreated() {
	c.repliesCreated.Inc()
}

// RecordAuthzDenied は認可拒否を記録する。
func (c *Collector) RecordAuthzDenied(kind model.ResourceKind, reason string) {
	c.authzDenied.WithLabelValues(string(kind), reason).Inc()
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}
