// Package flight はフライト管理のビジネスロジックを提供する。
package flight

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/hitoshi/flightman/internal/model"
	"github.com/hitoshi/flightman/internal/repository"
)

// MetricsCollector はフライト操作の計測インターフェース。
// 未指定の場合は計測をスキップする。
type MetricsCollector interface {
	RecordFlightCreated()
	RecordFlightDeleted()
}

// Service はフライト管理のビジネスロジックを提供する。
type Service struct {
	flightRepo repository.FlightRepository
	metrics    MetricsCollector
}

// NewService はServiceを生成する。metricsはnil可。
func NewService(flightRepo repository.FlightRepository, metrics MetricsCollector) *Service {
	return &Service{
		flightRepo: flightRepo,
		metrics:    metrics,
	}
}

// AddFlight は新規フライトを登録する。
// 同一フライト番号が存在する場合はDUPLICATE_FLIGHT_NUMBERエラーを返し、
// 既存レコードには触れない。
func (s *Service) AddFlight(ctx context.Context, flightNumber, departureCity, arrivalCity string, departureTime time.Time) (*model.Flight, error) {
	existing, err := s.flightRepo.FindByFlightNumber(ctx, flightNumber)
	if err != nil {
		return nil, fmt.Errorf("failed to check flight number: %w", err)
	}
	if existing != nil {
		return nil, model.NewDuplicateFlightNumberError(flightNumber)
	}

	flight := &model.Flight{
		ID:            uuid.New().String(),
		FlightNumber:  flightNumber,
		DepartureCity: departureCity,
		ArrivalCity:   arrivalCity,
		DepartureTime: departureTime,
		CreatedAt:     time.Now(),
	}

	if err := s.flightRepo.Create(ctx, flight); err != nil {
		return nil, fmt.Errorf("failed to create flight: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordFlightCreated()
	}
	slog.Info("flight added",
		slog.String("flight_id", flight.ID),
		slog.String("flight_number", flight.FlightNumber),
	)

	return flight, nil
}

// RemoveFlight は指定IDのフライトを削除する。
// フライトが存在しない場合はFLIGHT_NOT_FOUNDエラーを返す。
// 該当フライトを参照する既存予約はそのまま残る。
func (s *Service) RemoveFlight(ctx context.Context, flightID string) error {
	flight, err := s.flightRepo.FindByID(ctx, flightID)
	if err != nil {
		return fmt.Errorf("failed to find flight: %w", err)
	}
	if flight == nil {
		return model.NewFlightNotFoundError()
	}

	if err := s.flightRepo.DeleteByID(ctx, flightID); err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordFlightDeleted()
	}
	slog.Info("flight removed",
		slog.String("flight_id", flightID),
		slog.String("flight_number", flight.FlightNumber),
	)

	return nil
}

// GetFlight は指定IDのフライトを取得する。見つからない場合はnilを返す。
func (s *Service) GetFlight(ctx context.Context, flightID string) (*model.Flight, error) {
	flight, err := s.flightRepo.FindByID(ctx, flightID)
	if err != nil {
		return nil, fmt.Errorf("failed to find flight: %w", err)
	}
	return flight, nil
}

// ListFlights は全フライトを出発時刻昇順で返す。
func (s *Service) ListFlights(ctx context.Context) ([]*model.Flight, error) {
	flights, err := s.flightRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	return flights, nil
}
