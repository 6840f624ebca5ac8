// Package model はドメインモデルを定義する。
package model

import "time"

// Booking はユーザーとフライトを結び付ける予約レコードを表す。
// 一意制約は持たず、同一ユーザーが同一フライトを複数回予約できる。
type Booking struct {
	ID          string
	UserID      string
	FlightID    string
	BookingDate time.Time
}

// BookingWithFlight は予約とフライト情報をLEFT JOINで結合したモデル。
// フライトが削除済みの場合、HasFlightはfalseになりフライト各欄はゼロ値。
type BookingWithFlight struct {
	Booking
	HasFlight     bool
	FlightNumber  string
	DepartureCity string
	ArrivalCity   string
	DepartureTime time.Time
}

// BookingDetail は全予約一覧表示用に予約・ユーザー名・フライト情報を
// 結合したモデル。
type BookingDetail struct {
	BookingWithFlight
	Username string
}
