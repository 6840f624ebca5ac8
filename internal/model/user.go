// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// PasswordHashにはbcryptハッシュのみを保持し、平文パスワードは
// 保存もログ出力もしない。
type User struct {
	ID           string
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

// Session はユーザーのログインセッションを表す。
// 有効期限は持たず、ログアウトで破棄されるまで有効。
type Session struct {
	ID        string
	UserID    string
	CreatedAt time.Time
}
