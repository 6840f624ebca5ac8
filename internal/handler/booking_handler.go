package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/hitoshi/flightman/internal/middleware"
	"github.com/hitoshi/flightman/internal/model"
	"github.com/hitoshi/flightman/internal/view"
)

// BookingServiceInterface は予約ハンドラーが必要とするサービスインターフェース。
type BookingServiceInterface interface {
	BookFlight(ctx context.Context, userID, flightID string) (*model.Booking, error)
	ListForUser(ctx context.Context, userID string) ([]model.BookingWithFlight, error)
	ListAll(ctx context.Context) ([]model.BookingDetail, error)
}

// BookingHandler は予約作成・予約一覧のHTTPハンドラー。
type BookingHandler struct {
	service  BookingServiceInterface
	flights  FlightServiceInterface
	auth     AuthServiceInterface
	renderer *view.Renderer
}

// NewBookingHandler はBookingHandlerを生成する。
func NewBookingHandler(service BookingServiceInterface, flights FlightServiceInterface, auth AuthServiceInterface, renderer *view.Renderer) *BookingHandler {
	return &BookingHandler{
		service:  service,
		flights:  flights,
		auth:     auth,
		renderer: renderer,
	}
}

// Dashboard はログインユーザーの予約一覧を表示する。
// GET /dashboard
func (h *BookingHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	h.renderUserBookings(w, r, "dashboard", "ダッシュボード")
}

// ViewBookings はログインユーザーの予約一覧を表示する。
// GET /view_bookings
func (h *BookingHandler) ViewBookings(w http.ResponseWriter, r *http.Request) {
	h.renderUserBookings(w, r, "view_bookings", "予約一覧")
}

// ShowBookFlight は予約確認画面を表示する。
// 存在しないフライトIDでも画面は表示される（予約自体も拒否されない）。
// GET /book_flight/{flight_id}
func (h *BookingHandler) ShowBookFlight(w http.ResponseWriter, r *http.Request) {
	flightID, ok := flightIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	flight, err := h.flights.GetFlight(r.Context(), flightID)
	if err != nil {
		slog.Error("failed to get flight",
			slog.String("flight_id", flightID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, http.StatusOK, "book_flight", view.Page{
		Title:    "フライト予約",
		Username: usernameFromSession(r, h.auth),
		Flash:    popFlash(w, r),
		Data: struct {
			Flight   *model.Flight
			FlightID string
		}{Flight: flight, FlightID: flightID},
	})
}

// BookFlight は予約を作成する。フライトの存在は検証しない。
// POST /book_flight/{flight_id}
func (h *BookingHandler) BookFlight(w http.ResponseWriter, r *http.Request) {
	flightID, ok := flightIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	if _, err := h.service.BookFlight(r.Context(), userID, flightID); err != nil {
		slog.Error("failed to book flight",
			slog.String("user_id", userID),
			slog.String("flight_id", flightID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "success", "予約が完了しました。")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// BookedFlight は全ユーザーの予約一覧を表示する。
// GET /booked_flight
func (h *BookingHandler) BookedFlight(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.service.ListAll(r.Context())
	if err != nil {
		slog.Error("failed to list all bookings", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, http.StatusOK, "booked_flight", view.Page{
		Title:    "全予約一覧",
		Username: usernameFromSession(r, h.auth),
		Flash:    popFlash(w, r),
		Data:     struct{ Bookings []model.BookingDetail }{Bookings: bookings},
	})
}

func (h *BookingHandler) renderUserBookings(w http.ResponseWriter, r *http.Request, name, title string) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	bookings, err := h.service.ListForUser(r.Context(), userID)
	if err != nil {
		slog.Error("failed to list bookings",
			slog.String("user_id", userID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, http.StatusOK, name, view.Page{
		Title:    title,
		Username: usernameFromSession(r, h.auth),
		Flash:    popFlash(w, r),
		Data:     struct{ Bookings []model.BookingWithFlight }{Bookings: bookings},
	})
}
