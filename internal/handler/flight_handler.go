package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/hitoshi/flightman/internal/model"
	"github.com/hitoshi/flightman/internal/view"
)

// departureTimeLayout はフライト追加フォームで受け付ける出発時刻の書式。
const departureTimeLayout = "2006-01-02 15:04:05"

// FlightServiceInterface はフライトハンドラーが必要とするサービスインターフェース。
type FlightServiceInterface interface {
	AddFlight(ctx context.Context, flightNumber, departureCity, arrivalCity string, departureTime time.Time) (*model.Flight, error)
	RemoveFlight(ctx context.Context, flightID string) error
	GetFlight(ctx context.Context, flightID string) (*model.Flight, error)
	ListFlights(ctx context.Context) ([]*model.Flight, error)
}

// FlightHandler はフライト追加・削除・一覧のHTTPハンドラー。
type FlightHandler struct {
	service  FlightServiceInterface
	auth     AuthServiceInterface
	renderer *view.Renderer
}

// NewFlightHandler はFlightHandlerを生成する。
func NewFlightHandler(service FlightServiceInterface, auth AuthServiceInterface, renderer *view.Renderer) *FlightHandler {
	return &FlightHandler{
		service:  service,
		auth:     auth,
		renderer: renderer,
	}
}

// flightIDParam はURLパスのflight_idを取得して検証する。
// UUID形式でないIDはDBに到達させず、存在しないルートとして扱う。
func flightIDParam(r *http.Request) (string, bool) {
	id := chi.URLParam(r, "flight_id")
	if uuid.Validate(id) != nil {
		return "", false
	}
	return id, true
}

// addFlightFormData はフライト追加フォームの再描画時に入力値を保持する。
type addFlightFormData struct {
	FlightNumber  string
	DepartureCity string
	ArrivalCity   string
	DepartureTime string
}

// Home はトップページに予約可能なフライト一覧を表示する。
// GET /
func (h *FlightHandler) Home(w http.ResponseWriter, r *http.Request) {
	flights, err := h.service.ListFlights(r.Context())
	if err != nil {
		slog.Error("failed to list flights", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	h.renderer.Render(w, http.StatusOK, "home", view.Page{
		Title:    "ホーム",
		Username: usernameFromSession(r, h.auth),
		Flash:    popFlash(w, r),
		Data:     struct{ Flights []*model.Flight }{Flights: flights},
	})
}

// ShowAddFlight はフライト追加フォームを表示する。
// GET /add_flight
func (h *FlightHandler) ShowAddFlight(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "add_flight", view.Page{
		Title:    "フライト追加",
		Username: usernameFromSession(r, h.auth),
		Flash:    popFlash(w, r),
		Data:     addFlightFormData{},
	})
}

// AddFlight は新しいフライトを追加する。
// POST /add_flight
func (h *FlightHandler) AddFlight(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	form := addFlightFormData{
		FlightNumber:  r.PostFormValue("flight_number"),
		DepartureCity: r.PostFormValue("departure_city"),
		ArrivalCity:   r.PostFormValue("arrival_city"),
		DepartureTime: r.PostFormValue("departure_time"),
	}

	if form.FlightNumber == "" || form.DepartureCity == "" || form.ArrivalCity == "" || form.DepartureTime == "" {
		appErr := model.NewValidationFailedError("全ての項目")
		h.renderForm(w, r, form, appErr.Message)
		return
	}

	departureTime, err := time.Parse(departureTimeLayout, form.DepartureTime)
	if err != nil {
		appErr := model.NewValidationFailedError("出発時刻")
		h.renderForm(w, r, form, appErr.Message)
		return
	}

	_, err = h.service.AddFlight(r.Context(), form.FlightNumber, form.DepartureCity, form.ArrivalCity, departureTime)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			h.renderForm(w, r, form, appErr.Message)
			return
		}
		slog.Error("failed to add flight", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "success", "フライトを追加しました。")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// RemoveFlight はフライトを削除する。関連する予約は削除しない。
// POST /remove_flight/{flight_id}
func (h *FlightHandler) RemoveFlight(w http.ResponseWriter, r *http.Request) {
	flightID, ok := flightIDParam(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	err := h.service.RemoveFlight(r.Context(), flightID)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			setFlash(w, "danger", appErr.Message)
			http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
			return
		}
		slog.Error("failed to remove flight",
			slog.String("flight_id", flightID),
			slog.String("error", err.Error()),
		)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "success", "フライトを削除しました。")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (h *FlightHandler) renderForm(w http.ResponseWriter, r *http.Request, form addFlightFormData, message string) {
	h.renderer.Render(w, http.StatusOK, "add_flight", view.Page{
		Title:    "フライト追加",
		Username: usernameFromSession(r, h.auth),
		Flash:    &view.Flash{Level: "danger", Message: message},
		Data:     form,
	})
}
