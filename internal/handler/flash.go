package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/hitoshi/flightman/internal/view"
)

// flashCookieName は次のリクエストで一度だけ表示する通知を保持するCookieの名前。
const flashCookieName = "flash"

// setFlash は通知メッセージをCookieに保存する。
// リダイレクト先の画面描画時にpopFlashで取り出して表示する。
func setFlash(w http.ResponseWriter, level, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    url.QueryEscape(level + "|" + message),
		Path:     "/",
		MaxAge:   60,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// popFlash は通知メッセージを取り出し、Cookieを削除する。
// 通知が存在しない場合はnilを返す。
func popFlash(w http.ResponseWriter, r *http.Request) *view.Flash {
	cookie, err := r.Cookie(flashCookieName)
	if err != nil || cookie.Value == "" {
		return nil
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	decoded, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return nil
	}

	level, message, ok := strings.Cut(decoded, "|")
	if !ok {
		return nil
	}

	return &view.Flash{Level: level, Message: message}
}
