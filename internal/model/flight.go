// Package model はドメインモデルを定義する。
package model

import "time"

// Flight は運航予定のフライトを表す。
// FlightNumberは全フライトで一意。
type Flight struct {
	ID            string
	FlightNumber  string
	DepartureCity string
	ArrivalCity   string
	DepartureTime time.Time
	CreatedAt     time.Time
}
