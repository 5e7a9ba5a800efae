// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// カタログ・認可・ハンドラー層から利用する。
type MetricsCollector interface {
	RecordBookCreated()
	RecordBookDeleted()
	RecordStoreFault()
	RecordAccessDenied()
	RecordHTTPStatus(statusCode int)
	RecordQueryLatency(duration time.Duration)
	RecordSessionsCleaned(count int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	booksCreated    prometheus.Counter
	booksDeleted    prometheus.Counter
	storeFaults     prometheus.Counter
	accessDenied    prometheus.Counter
	httpStatus      *prometheus.CounterVec
	queryLatency    prometheus.Histogram
	sessionsCleaned prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		booksCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookhaven_books_created_total",
			Help: "作成された書籍の合計数",
		}),
		booksDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookhaven_books_deleted_total",
			Help: "削除された書籍の合計数",
		}),
		storeFaults: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookhaven_store_fault_total",
			Help: "レコードストア障害の合計数",
		}),
		accessDenied: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookhaven_access_denied_total",
			Help: "管理者権限チェックで拒否された回数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "bookhaven_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
		queryLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "bookhaven_query_latency_seconds",
			Help:    "レコードストア問い合わせのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		sessionsCleaned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "bookhaven_sessions_cleaned_total",
			Help: "クリーンアップされた期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.booksCreated,
		c.booksDeleted,
		c.storeFaults,
		c.accessDenied,
		c.httpStatus,
		c.queryLatency,
		c.sessionsCleaned,
	)

	return c
}

// RecordBookCreated は書籍の作成を記録する。
func (c *Collector) RecordBookCreated() {
	c.booksCreated.Inc()
}

// RecordBookDeleted は書籍の削除を記録する。
func (c *Collector) RecordBookDeleted() {
	c.booksDeleted.Inc()
}

// RecordStoreFault はレコードストア障害を記録する。
func (c *Collector) RecordStoreFault() {
	c.storeFaults.Inc()
}

// RecordAccessDenied は権限チェックの拒否を記録する。
func (c *Collector) RecordAccessDenied() {
	c.accessDenied.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// RecordQueryLatency はストア問い合わせのレイテンシを記録する。
func (c *Collector) RecordQueryLatency(duration time.Duration) {
	c.queryLatency.Observe(duration.Seconds())
}

// RecordSessionsCleaned はクリーンアップされたセッション数を記録する。
func (c *Collector) RecordSessionsCleaned(count int) {
	c.sessionsCleaned.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// SetupMetricsRoute は/metricsエンドポイントを提供するHTTPハンドラーを返す。
// Prometheusスクレイプに対応する。
func SetupMetricsRoute(gatherer prometheus.Gatherer) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/metrics", Handler(gatherer))
	return mux
}
