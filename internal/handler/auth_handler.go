// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/hitoshi/flightman/internal/model"
	"github.com/hitoshi/flightman/internal/view"
)

const sessionCookieName = "session_id"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	Register(ctx context.Context, username, password string) (*model.User, error)
	Login(ctx context.Context, username, password string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
	CurrentUser(ctx context.Context, sessionID string) (*model.User, error)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieSecure bool
}

// AuthHandler はユーザー登録・ログイン・ログアウトのHTTPハンドラー。
type AuthHandler struct {
	service  AuthServiceInterface
	renderer *view.Renderer
	config   AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, renderer *view.Renderer, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service:  service,
		renderer: renderer,
		config:   config,
	}
}

// registerFormData は登録・ログインフォームの再描画時に入力値を保持する。
type registerFormData struct {
	Username string
}

// ShowRegister は登録フォームを表示する。
// GET /register
func (h *AuthHandler) ShowRegister(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "register", view.Page{
		Title:    "ユーザー登録",
		Username: usernameFromSession(r, h.service),
		Flash:    popFlash(w, r),
		Data:     registerFormData{},
	})
}

// Register は新規ユーザーを登録する。
// POST /register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		appErr := model.NewValidationFailedError("ユーザー名とパスワード")
		h.renderer.Render(w, http.StatusOK, "register", view.Page{
			Title: "ユーザー登録",
			Flash: &view.Flash{Level: "danger", Message: appErr.Message},
			Data:  registerFormData{Username: username},
		})
		return
	}

	_, err := h.service.Register(r.Context(), username, password)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			h.renderer.Render(w, http.StatusOK, "register", view.Page{
				Title: "ユーザー登録",
				Flash: &view.Flash{Level: "danger", Message: appErr.Message},
				Data:  registerFormData{Username: username},
			})
			return
		}
		slog.Error("failed to register user", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	setFlash(w, "success", "登録が完了しました。ログインしてください。")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// ShowLogin はログインフォームを表示する。
// GET /login
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	h.renderer.Render(w, http.StatusOK, "login", view.Page{
		Title:    "ログイン",
		Username: usernameFromSession(r, h.service),
		Flash:    popFlash(w, r),
		Data:     registerFormData{},
	})
}

// Login は資格情報を検証し、セッションを発行する。
// POST /login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	if username == "" || password == "" {
		appErr := model.NewValidationFailedError("ユーザー名とパスワード")
		h.renderer.Render(w, http.StatusOK, "login", view.Page{
			Title: "ログイン",
			Flash: &view.Flash{Level: "danger", Message: appErr.Message},
			Data:  registerFormData{Username: username},
		})
		return
	}

	session, err := h.service.Login(r.Context(), username, password)
	if err != nil {
		var appErr *model.AppError
		if errors.As(err, &appErr) {
			h.renderer.Render(w, http.StatusOK, "login", view.Page{
				Title: "ログイン",
				Flash: &view.Flash{Level: "danger", Message: appErr.Message},
				Data:  registerFormData{Username: username},
			})
			return
		}
		slog.Error("failed to login", slog.String("error", err.Error()))
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	// セッションCookieを設定（ブラウザセッション限り、MaxAgeなし）
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    session.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	setFlash(w, "success", "ログインしました。")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// Logout はセッションを破棄する。
// GET /logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
			// ログアウト失敗してもCookieはクリアする
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	setFlash(w, "success", "ログアウトしました。")
	http.Redirect(w, r, "/login", http.StatusSeeOther)
}

// usernameFromSession はナビゲーション表示用に現在のユーザー名を解決する。
// 未ログインまたは解決失敗時は空文字を返す。
func usernameFromSession(r *http.Request, service AuthServiceInterface) string {
	cookie, err := r.Cookie(sessionCookieName)
	if err != nil || cookie.Value == "" {
		return ""
	}
	user, err := service.CurrentUser(r.Context(), cookie.Value)
	if err != nil || user == nil {
		return ""
	}
	return user.Username
}
