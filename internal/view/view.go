// Package view は埋め込みテンプレートによる画面描画を提供する。
package view

import (
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"
	"time"
)

//go:embed templates/*.html
var templatesFS embed.FS

// Flash は画面に一度だけ表示する通知メッセージを表す。
// Levelは"success"または"danger"。
type Flash struct {
	Level   string
	Message string
}

// Page は全テンプレート共通の描画データ。
// Usernameが空の場合は未ログインとして扱う。
type Page struct {
	Title    string
	Username string
	Flash    *Flash
	Data     any
}

// Renderer はパース済みテンプレートを保持し、画面を描画する。
type Renderer struct {
	tmpl *template.Template
}

// New は埋め込みテンプレートをパースしてRendererを生成する。
func New() (*Renderer, error) {
	tmpl, err := template.New("").Funcs(template.FuncMap{
		"datetime": formatDateTime,
	}).ParseFS(templatesFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// Render は指定テンプレートでページを描画する。
// 描画に失敗した場合は500を返し、詳細はログのみに記録する。
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, page Page) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := r.tmpl.ExecuteTemplate(w, name, page); err != nil {
		slog.Error("failed to render template",
			slog.String("template", name),
			slog.String("error", err.Error()),
		)
	}
}

// formatDateTime は日時を画面表示用に整形する。
func formatDateTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Format("2006-01-02 15:04")
}
