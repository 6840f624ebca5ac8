package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/flightman/internal/metrics"
	"github.com/hitoshi/flightman/internal/middleware"
	"github.com/hitoshi/flightman/internal/view"
)

// HealthChecker は/healthエンドポイントが必要とするDB疎通確認のインターフェース。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ミドルウェア依存
	SessionFinder middleware.SessionFinder
	RateLimiter   *middleware.RateLimiter
	StatusMetrics middleware.HTTPStatusRecorder
	Logger        *slog.Logger

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// フライト・予約
	FlightService  FlightServiceInterface
	BookingService BookingServiceInterface

	// 画面描画
	Renderer *view.Renderer

	// 運用エンドポイント
	HealthChecker HealthChecker
	Gatherer      prometheus.Gatherer
}

// NewRouter は全ルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → Logging → SecurityHeaders → Metrics
//
// 認証が必要なルートにはさらに Session → RateLimit(General) を重ねる。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	if deps.Logger != nil {
		r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	}
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.StatusMetrics != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusMetrics))
	}

	authHandler := NewAuthHandler(deps.AuthService, deps.Renderer, deps.AuthConfig)
	flightHandler := NewFlightHandler(deps.FlightService, deps.AuthService, deps.Renderer)
	bookingHandler := NewBookingHandler(deps.BookingService, deps.FlightService, deps.AuthService, deps.Renderer)

	// --- 認証不要のルート ---

	r.Get("/", flightHandler.Home)

	r.Get("/register", authHandler.ShowRegister)
	r.Post("/register", authHandler.Register)
	r.Get("/login", authHandler.ShowLogin)
	r.Post("/login", authHandler.Login)

	r.Get("/health", healthHandler(deps.HealthChecker))
	if deps.Gatherer != nil {
		r.Handle("/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証が必要なルート ---
	// ミドルウェアスタック: Session → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Get("/logout", authHandler.Logout)

		// 予約
		r.Get("/dashboard", bookingHandler.Dashboard)
		r.Get("/view_bookings", bookingHandler.ViewBookings)
		r.Get("/booked_flight", bookingHandler.BookedFlight)

		r.Route("/book_flight/{flight_id}", func(r chi.Router) {
			r.Get("/", bookingHandler.ShowBookFlight)
			// POST /book_flight/{flight_id} - 予約作成（予約専用レート制限を追加）
			r.With(deps.RateLimiter.BookingMiddleware()).Post("/", bookingHandler.BookFlight)
		})

		// フライト管理
		r.Get("/add_flight", flightHandler.ShowAddFlight)
		r.Post("/add_flight", flightHandler.AddFlight)
		r.Post("/remove_flight/{flight_id}", flightHandler.RemoveFlight)
	})

	return r
}

// healthHandler はDB疎通を確認するliveness用ハンドラーを返す。
func healthHandler(checker HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if checker != nil {
			if err := checker.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				http.Error(w, "unavailable", http.StatusServiceUnavailable)
				return
			}
		}
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
