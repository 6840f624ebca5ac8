// Package model はドメインモデルを定義する。
package model

import "fmt"

// AppError は統一エラーフォーマットを表す。
// 画面に表示する原因カテゴリと対処方法を含む。
type AppError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, flight, booking, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeDuplicateUsername     = "DUPLICATE_USERNAME"
	ErrCodeDuplicateFlightNumber = "DUPLICATE_FLIGHT_NUMBER"
	ErrCodeAuthenticationFailed  = "AUTHENTICATION_FAILED"
	ErrCodeFlightNotFound        = "FLIGHT_NOT_FOUND"
	ErrCodeValidationFailed      = "VALIDATION_FAILED"
)

// NewDuplicateUsernameError はユーザー名重複エラーを生成する。
func NewDuplicateUsernameError(username string) *AppError {
	return &AppError{
		Code:     ErrCodeDuplicateUsername,
		Message:  fmt.Sprintf("そのユーザー名は既に使用されています: %s", username),
		Category: "auth",
		Action:   "別のユーザー名を選んでください。",
	}
}

// NewDuplicateFlightNumberError はフライト番号重複エラーを生成する。
func NewDuplicateFlightNumberError(flightNumber string) *AppError {
	return &AppError{
		Code:     ErrCodeDuplicateFlightNumber,
		Message:  fmt.Sprintf("そのフライト番号は既に登録されています: %s", flightNumber),
		Category: "flight",
		Action:   "別のフライト番号を指定してください。",
	}
}

// NewAuthenticationFailedError は認証失敗エラーを生成する。
// ユーザー不在とパスワード不一致を呼び出し側から区別できないよう、
// 共通のメッセージを返す。
func NewAuthenticationFailedError() *AppError {
	return &AppError{
		Code:     ErrCodeAuthenticationFailed,
		Message:  "ログインに失敗しました。",
		Category: "auth",
		Action:   "ユーザー名とパスワードを確認してください。",
	}
}

// NewFlightNotFoundError はフライト未検出エラーを生成する。
func NewFlightNotFoundError() *AppError {
	return &AppError{
		Code:     ErrCodeFlightNotFound,
		Message:  "指定されたフライトが見つかりません。",
		Category: "flight",
		Action:   "フライト一覧を確認してください。",
	}
}

// NewValidationFailedError は必須項目未入力エラーを生成する。
func NewValidationFailedError(field string) *AppError {
	return &AppError{
		Code:     ErrCodeValidationFailed,
		Message:  fmt.Sprintf("必須項目が入力されていません: %s", field),
		Category: "validation",
		Action:   "すべての必須項目を入力してください。",
	}
}
