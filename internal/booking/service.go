// Package booking は予約管理のビジネスロジックを提供する。
package booking

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/flightman/internal/model"
	"github.com/hitoshi/flightman/internal/repository"
)

// MetricsCollector は予約操作の計測インターフェース。
// 未指定の場合は計測をスキップする。
type MetricsCollector interface {
	RecordBookingCreated()
}

// Service は予約管理のビジネスロジックを提供する。
type Service struct {
	bookingRepo repository.BookingRepository
	metrics     MetricsCollector
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(bookingRepo repository.BookingRepository, metrics MetricsCollector) *Service {
	return &Service{
		bookingRepo: bookingRepo,
		metrics:     metrics,
	}
}

// BookFlight は認証済みユーザーの予約レコードを作成する。
// フライトの存在確認は行わず、同一フライトへの重複予約も独立した
// レコードとして作成する。
func (s *Service) BookFlight(ctx context.Context, userID, flightID string) (*model.Booking, error) {
	booking := &model.Booking{
		ID:          uuid.New().String(),
		UserID:      userID,
		FlightID:    flightID,
		BookingDate: time.Now(),
	}

	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordBookingCreated()
	}
	slog.Info("flight booked",
		slog.String("booking_id", booking.ID),
		slog.String("user_id", userID),
		slog.String("flight_id", flightID),
	)

	return booking, nil
}

// ListForUser は指定ユーザーの予約一覧をフライト情報付きで返す。
// 予約が存在しない場合は空スライスを返す。
func (s *Service) ListForUser(ctx context.Context, userID string) ([]model.BookingWithFlight, error) {
	bookings, err := s.bookingRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ListAll は全ユーザーの予約一覧を返す。
func (s *Service) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	details, err := s.bookingRepo.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list all bookings: %w", err)
	}
	return details, nil
}
