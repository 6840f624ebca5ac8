// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// サービス層から利用する。
type MetricsCollector interface {
	RecordRegistration()
	RecordLoginSuccess()
	RecordLoginFailure()
	RecordFlightCreated()
	RecordFlightDeleted()
	RecordBookingCreated()
	RecordHTTPStatus(statusCode int)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	registrations  prometheus.Counter
	loginSuccess   prometheus.Counter
	loginFail      prometheus.Counter
	flightsCreated prometheus.Counter
	flightsDeleted prometheus.Counter
	bookingsMade   prometheus.Counter
	httpStatus     *prometheus.CounterVec
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flightman_registrations_total",
			Help: "ユーザー登録の合計数",
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flightman_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flightman_login_fail_total",
			Help: "ログイン失敗の合計数",
		}),
		flightsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flightman_flights_created_total",
			Help: "追加されたフライトの合計数",
		}),
		flightsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flightman_flights_deleted_total",
			Help: "削除されたフライトの合計数",
		}),
		bookingsMade: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flightman_bookings_created_total",
			Help: "作成された予約の合計数",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "flightman_http_status_total",
			Help: "HTTPステータスコード別のレスポンス数",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.registrations,
		c.loginSuccess,
		c.loginFail,
		c.flightsCreated,
		c.flightsDeleted,
		c.bookingsMade,
		c.httpStatus,
	)

	return c
}

// RecordRegistration はユーザー登録を記録する。
func (c *Collector) RecordRegistration() {
	c.registrations.Inc()
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を記録する。
func (c *Collector) RecordLoginFailure() {
	c.loginFail.Inc()
}

// RecordFlightCreated はフライト追加を記録する。
func (c *Collector) RecordFlightCreated() {
	c.flightsCreated.Inc()
}

// RecordFlightDeleted はフライト削除を記録する。
func (c *Collector) RecordFlightDeleted() {
	c.flightsDeleted.Inc()
}

// RecordBookingCreated は予約作成を記録する。
func (c *Collector) RecordBookingCreated() {
	c.bookingsMade.Inc()
}

// RecordHTTPStatus はHTTPステータスコードを記録する。
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
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
