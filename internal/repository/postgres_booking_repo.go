package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/flightman/internal/model"
)

// PostgresBookingRepo はPostgreSQLを使用した予約リポジトリ。
type PostgresBookingRepo struct {
	db *sql.DB
}

// NewPostgresBookingRepo はPostgresBookingRepoを生成する。
func NewPostgresBookingRepo(db *sql.DB) *PostgresBookingRepo {
	return &PostgresBookingRepo{db: db}
}

// Create は予約を作成する。
// bookings.flight_idには外部キー制約がないため、存在しないフライトへの
// 予約もそのままINSERTされる。
func (r *PostgresBookingRepo) Create(ctx context.Context, booking *model.Booking) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bookings (id, user_id, flight_id, booking_date)
		 VALUES ($1, $2, $3, $4)`,
		booking.ID, booking.UserID, booking.FlightID, booking.BookingDate,
	)
	if err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

// ListByUserID は指定ユーザーの予約一覧をフライト情報付きで返す。
// フライト削除済みの予約も返すため、flightsとはLEFT JOINで結合する。
func (r *PostgresBookingRepo) ListByUserID(ctx context.Context, userID string) ([]model.BookingWithFlight, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.flight_id, b.booking_date,
		        f.flight_number, f.departure_city, f.arrival_city, f.departure_time
		 FROM bookings b
		 LEFT JOIN flights f ON f.id = b.flight_id
		 WHERE b.user_id = $1
		 ORDER BY b.booking_date`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings by user: %w", err)
	}
	defer rows.Close()

	return scanBookingsWithFlight(rows)
}

// ListAll は全ユーザーの予約一覧をユーザー名・フライト情報付きで返す。
func (r *PostgresBookingRepo) ListAll(ctx context.Context) ([]model.BookingDetail, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT b.id, b.user_id, b.flight_id, b.booking_date, u.username,
		        f.flight_number, f.departure_city, f.arrival_city, f.departure_time
		 FROM bookings b
		 JOIN users u ON u.id = b.user_id
		 LEFT JOIN flights f ON f.id = b.flight_id
		 ORDER BY b.booking_date`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list all bookings: %w", err)
	}
	defer rows.Close()

	details := make([]model.BookingDetail, 0)
	for rows.Next() {
		var d model.BookingDetail
		var flightNumber, departureCity, arrivalCity sql.NullString
		var departureTime sql.NullTime

		if err := rows.Scan(&d.ID, &d.UserID, &d.FlightID, &d.BookingDate, &d.Username,
			&flightNumber, &departureCity, &arrivalCity, &departureTime); err != nil {
			return nil, fmt.Errorf("failed to scan booking detail: %w", err)
		}

		d.HasFlight = flightNumber.Valid
		d.FlightNumber = flightNumber.String
		d.DepartureCity = departureCity.String
		d.ArrivalCity = arrivalCity.String
		d.DepartureTime = departureTime.Time

		details = append(details, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate booking details: %w", err)
	}

	return details, nil
}

// scanBookingsWithFlight はLEFT JOIN結果の行をBookingWithFlightに変換する。
// フライト側のカラムはNULLになり得るためNull型で受ける。
func scanBookingsWithFlight(rows *sql.Rows) ([]model.BookingWithFlight, error) {
	bookings := make([]model.BookingWithFlight, 0)
	for rows.Next() {
		var b model.BookingWithFlight
		var flightNumber, departureCity, arrivalCity sql.NullString
		var departureTime sql.NullTime

		if err := rows.Scan(&b.ID, &b.UserID, &b.FlightID, &b.BookingDate,
			&flightNumber, &departureCity, &arrivalCity, &departureTime); err != nil {
			return nil, fmt.Errorf("failed to scan booking: %w", err)
		}

		b.HasFlight = flightNumber.Valid
		b.FlightNumber = flightNumber.String
		b.DepartureCity = departureCity.String
		b.ArrivalCity = arrivalCity.String
		b.DepartureTime = departureTime.Time

		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bookings: %w", err)
	}

	return bookings, nil
}

// compile-time interface check
var _ BookingRepository = (*PostgresBookingRepo)(nil)
