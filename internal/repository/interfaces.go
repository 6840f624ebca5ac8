// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/flightman/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// Create はユーザーを作成する。
	Create(ctx context.Context, user *model.User) error

	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByUsername はユーザー名でユーザーを検索する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
}

// FlightRepository はフライトデータの永続化インターフェース。
type FlightRepository interface {
	// Create はフライトを作成する。
	Create(ctx context.Context, flight *model.Flight) error

	// FindByID は指定IDのフライトを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Flight, error)

	// FindByFlightNumber はフライト番号でフライトを検索する。見つからない場合はnilを返す。
	FindByFlightNumber(ctx context.Context, flightNumber string) (*model.Flight, error)

	// List は全フライトを出発時刻昇順で返す。
	List(ctx context.Context) ([]*model.Flight, error)

	// DeleteByID は指定IDのフライトを削除する。
	// 該当フライトを参照する予約は削除しない（孤児予約はワーカーが掃除する）。
	DeleteByID(ctx context.Context, id string) error
}

// BookingRepository は予約データの永続化インターフェース。
type BookingRepository interface {
	// Create は予約を作成する。
	// フライトの存在確認は行わない。重複予約も許容する。
	Create(ctx context.Context, booking *model.Booking) error

	// ListByUserID は指定ユーザーの予約一覧をフライト情報付きで返す。
	// フライトが削除済みの予約も結果に含まれる（LEFT JOIN）。
	ListByUserID(ctx context.Context, userID string) ([]model.BookingWithFlight, error)

	// ListAll は全ユーザーの予約一覧をユーザー名・フライト情報付きで返す。
	ListAll(ctx context.Context) ([]model.BookingDetail, error)
}
