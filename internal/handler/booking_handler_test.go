package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/flightman/internal/middleware"
	"github.com/hitoshi/flightman/internal/model"
)

// mockBookingService はBookingServiceInterfaceのテスト用モック。
type mockBookingService struct {
	bookFlightFunc  func(ctx context.Context, userID, flightID string) (*model.Booking, error)
	listForUserFunc func(ctx context.Context, userID string) ([]model.BookingWithFlight, error)
	listAllFunc     func(ctx context.Context) ([]model.BookingDetail, error)
}

func (m *mockBookingService) BookFlight(ctx context.Context, userID, flightID string) (*model.Booking, error) {
	if m.bookFlightFunc != nil {
		return m.bookFlightFunc(ctx, userID, flightID)
	}
	return &model.Booking{ID: "booking-1", UserID: userID, FlightID: flightID}, nil
}

func (m *mockBookingService) ListForUser(ctx context.Context, userID string) ([]model.BookingWithFlight, error) {
	if m.listForUserFunc != nil {
		return m.listForUserFunc(ctx, userID)
	}
	return []model.BookingWithFlight{}, nil
}

func (m *mockBookingService) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	if m.listAllFunc != nil {
		return m.listAllFunc(ctx)
	}
	return []model.BookingDetail{}, nil
}

func newBookingHandler(t *testing.T, service *mockBookingService, flights *mockFlightService) *BookingHandler {
	t.Helper()
	return NewBookingHandler(service, flights, &mockAuthService{}, mustRenderer(t))
}

// authedRequest はセッションミドルウェア通過後と同じユーザーIDをコンテキストに持つリクエストを返す。
func authedRequest(method, path, userID string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	return req.WithContext(middleware.ContextWithUserID(req.Context(), userID))
}

// TestDashboard_ListsUserBookings はログインユーザーの予約だけが一覧されることを検証する。
func TestDashboard_ListsUserBookings(t *testing.T) {
	var requestedUser string
	service := &mockBookingService{
		listForUserFunc: func(ctx context.Context, userID string) ([]model.BookingWithFlight, error) {
			requestedUser = userID
			return []model.BookingWithFlight{
				{
					Booking:       model.Booking{ID: "booking-1", UserID: userID, FlightID: "flight-1", BookingDate: time.Now()},
					HasFlight:     true,
					FlightNumber:  "NH205",
					DepartureCity: "Tokyo",
					ArrivalCity:   "Sapporo",
					DepartureTime: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
				},
			}, nil
		},
	}
	h := newBookingHandler(t, service, &mockFlightService{})

	w := httptest.NewRecorder()
	h.Dashboard(w, authedRequest(http.MethodGet, "/dashboard", "user-1"))

	if requestedUser != "user-1" {
		t.Errorf("requested user = %q, want %q", requestedUser, "user-1")
	}
	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "NH205") {
		t.Error("expected flight number in dashboard")
	}
}

// TestDashboard_OrphanedBooking_RendersPlaceholder はフライト削除済みの予約も表示されることを検証する。
func TestDashboard_OrphanedBooking_RendersPlaceholder(t *testing.T) {
	service := &mockBookingService{
		listForUserFunc: func(ctx context.Context, userID string) ([]model.BookingWithFlight, error) {
			return []model.BookingWithFlight{
				{
					Booking:   model.Booking{ID: "booking-1", UserID: userID, FlightID: "gone", BookingDate: time.Now()},
					HasFlight: false,
				},
			}, nil
		},
	}
	h := newBookingHandler(t, service, &mockFlightService{})

	w := httptest.NewRecorder()
	h.Dashboard(w, authedRequest(http.MethodGet, "/dashboard", "user-1"))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "削除されたフライト") {
		t.Error("expected orphaned booking placeholder in dashboard")
	}
}

// TestShowBookFlight_ExistingFlight_RendersDetails は予約確認画面にフライト詳細が表示されることを検証する。
func TestShowBookFlight_ExistingFlight_RendersDetails(t *testing.T) {
	flights := &mockFlightService{
		getFlightFunc: func(ctx context.Context, flightID string) (*model.Flight, error) {
			return &model.Flight{
				ID:            flightID,
				FlightNumber:  "NH205",
				DepartureCity: "Tokyo",
				ArrivalCity:   "Sapporo",
				DepartureTime: time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC),
			}, nil
		},
	}
	h := newBookingHandler(t, &mockBookingService{}, flights)

	r := chi.NewRouter()
	r.Get("/book_flight/{flight_id}", h.ShowBookFlight)

	req := authedRequest(http.MethodGet, "/book_flight/"+testFlightID, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "NH205") {
		t.Error("expected flight number in booking page")
	}
	if !strings.Contains(body, "/book_flight/"+testFlightID) {
		t.Error("expected booking form action in booking page")
	}
}

// TestShowBookFlight_UnknownFlight_StillRendersPage は存在しないフライトでも画面が表示されることを検証する。
func TestShowBookFlight_UnknownFlight_StillRendersPage(t *testing.T) {
	h := newBookingHandler(t, &mockBookingService{}, &mockFlightService{})

	r := chi.NewRouter()
	r.Get("/book_flight/{flight_id}", h.ShowBookFlight)

	req := authedRequest(http.MethodGet, "/book_flight/"+testFlightID, "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	if !strings.Contains(w.Body.String(), "フライト情報が見つかりません") {
		t.Error("expected missing flight notice in booking page")
	}
}

// TestShowBookFlight_InvalidID_ReturnsNotFound はUUID形式でないIDが404になることを検証する。
func TestShowBookFlight_InvalidID_ReturnsNotFound(t *testing.T) {
	h := newBookingHandler(t, &mockBookingService{}, &mockFlightService{})

	r := chi.NewRouter()
	r.Get("/book_flight/{flight_id}", h.ShowBookFlight)

	req := authedRequest(http.MethodGet, "/book_flight/123", "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestBookFlight_InvalidID_ReturnsNotFound はUUID形式でないIDでは予約が作成されないことを検証する。
func TestBookFlight_InvalidID_ReturnsNotFound(t *testing.T) {
	serviceCalled := false
	service := &mockBookingService{
		bookFlightFunc: func(ctx context.Context, userID, flightID string) (*model.Booking, error) {
			serviceCalled = true
			return &model.Booking{}, nil
		},
	}
	h := newBookingHandler(t, service, &mockFlightService{})

	r := chi.NewRouter()
	r.Post("/book_flight/{flight_id}", h.BookFlight)

	req := authedRequest(http.MethodPost, "/book_flight/not-a-uuid", "user-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
	if serviceCalled {
		t.Error("booking service should not be called for an invalid flight ID")
	}
}

// TestBookFlight_CreatesBookingForCurrentUser は予約がログインユーザーに紐付くことを検証する。
func TestBookFlight_CreatesBookingForCurrentUser(t *testing.T) {
	var gotUserID, gotFlightID string
	service := &mockBookingService{
		bookFlightFunc: func(ctx context.Context, userID, flightID string) (*model.Booking, error) {
			gotUserID = userID
			gotFlightID = flightID
			return &model.Booking{ID: "booking-1", UserID: userID, FlightID: flightID}, nil
		},
	}
	h := newBookingHandler(t, service, &mockFlightService{})

	r := chi.NewRouter()
	r.Post("/book_flight/{flight_id}", h.BookFlight)

	req := authedRequest(http.MethodPost, "/book_flight/"+testFlightID, "user-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if gotUserID != "user-7" {
		t.Errorf("booking user = %q, want %q", gotUserID, "user-7")
	}
	if gotFlightID != testFlightID {
		t.Errorf("booking flight = %q, want %q", gotFlightID, testFlightID)
	}
	if w.Code != http.StatusSeeOther {
		t.Errorf("status = %d, want %d", w.Code, http.StatusSeeOther)
	}
	if loc := w.Header().Get("Location"); loc != "/dashboard" {
		t.Errorf("Location = %q, want %q", loc, "/dashboard")
	}
}

// TestBookedFlight_ListsAllUsersBookings は全ユーザーの予約が一覧されることを検証する。
func TestBookedFlight_ListsAllUsersBookings(t *testing.T) {
	service := &mockBookingService{
		listAllFunc: func(ctx context.Context) ([]model.BookingDetail, error) {
			return []model.BookingDetail{
				{
					BookingWithFlight: model.BookingWithFlight{
						Booking:      model.Booking{ID: "booking-1", UserID: "user-1", FlightID: "flight-1"},
						HasFlight:    true,
						FlightNumber: "NH205",
					},
					Username: "alice",
				},
				{
					BookingWithFlight: model.BookingWithFlight{
						Booking:      model.Booking{ID: "booking-2", UserID: "user-2", FlightID: "flight-1"},
						HasFlight:    true,
						FlightNumber: "NH205",
					},
					Username: "bob",
				},
			}, nil
		},
	}
	h := newBookingHandler(t, service, &mockFlightService{})

	w := httptest.NewRecorder()
	h.BookedFlight(w, authedRequest(http.MethodGet, "/booked_flight", "user-1"))

	if w.Code != http.StatusOK {
		t.Errorf("status = %d, want %d", w.Code, http.StatusOK)
	}
	body := w.Body.String()
	if !strings.Contains(body, "alice") || !strings.Contains(body, "bob") {
		t.Error("expected all usernames in booked flights page")
	}
}
