package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/flightman/internal/model"
)

// PostgresFlightRepo はPostgreSQLを使用したフライトリポジトリ。
type PostgresFlightRepo struct {
	db *sql.DB
}

// NewPostgresFlightRepo はPostgresFlightRepoを生成する。
func NewPostgresFlightRepo(db *sql.DB) *PostgresFlightRepo {
	return &PostgresFlightRepo{db: db}
}

// Create はフライトを作成する。
func (r *PostgresFlightRepo) Create(ctx context.Context, flight *model.Flight) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO flights (id, flight_number, departure_city, arrival_city, departure_time, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		flight.ID, flight.FlightNumber, flight.DepartureCity, flight.ArrivalCity,
		flight.DepartureTime, flight.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert flight: %w", err)
	}
	return nil
}

// FindByID は指定IDのフライトを取得する。見つからない場合はnilを返す。
func (r *PostgresFlightRepo) FindByID(ctx context.Context, id string) (*model.Flight, error) {
	flight := &model.Flight{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, flight_number, departure_city, arrival_city, departure_time, created_at
		 FROM flights WHERE id = $1`,
		id,
	).Scan(&flight.ID, &flight.FlightNumber, &flight.DepartureCity,
		&flight.ArrivalCity, &flight.DepartureTime, &flight.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find flight by ID: %w", err)
	}

	return flight, nil
}

// FindByFlightNumber はフライト番号でフライトを検索する。見つからない場合はnilを返す。
func (r *PostgresFlightRepo) FindByFlightNumber(ctx context.Context, flightNumber string) (*model.Flight, error) {
	flight := &model.Flight{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, flight_number, departure_city, arrival_city, departure_time, created_at
		 FROM flights WHERE flight_number = $1`,
		flightNumber,
	).Scan(&flight.ID, &flight.FlightNumber, &flight.DepartureCity,
		&flight.ArrivalCity, &flight.DepartureTime, &flight.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find flight by flight number: %w", err)
	}

	return flight, nil
}

// List は全フライトを出発時刻昇順で返す。
func (r *PostgresFlightRepo) List(ctx context.Context) ([]*model.Flight, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, flight_number, departure_city, arrival_city, departure_time, created_at
		 FROM flights ORDER BY departure_time`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list flights: %w", err)
	}
	defer rows.Close()

	flights := make([]*model.Flight, 0)
	for rows.Next() {
		flight := &model.Flight{}
		if err := rows.Scan(&flight.ID, &flight.FlightNumber, &flight.DepartureCity,
			&flight.ArrivalCity, &flight.DepartureTime, &flight.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan flight: %w", err)
		}
		flights = append(flights, flight)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate flights: %w", err)
	}

	return flights, nil
}

// DeleteByID は指定IDのフライトを削除する。
// 該当フライトを参照する予約には触れない。
func (r *PostgresFlightRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM flights WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete flight: %w", err)
	}
	return nil
}

// compile-time interface check
var _ FlightRepository = (*PostgresFlightRepo)(nil)
