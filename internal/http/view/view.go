// Package view рендерит HTML-страницы приложения из встроенных шаблонов.
package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/Masterminds/sprig/v3"

	"github.com/magabrotheeeer/session-auth/internal/models"
)

// Имена страниц.
const (
	PageIndex   = "index"
	PageLogin   = "login"
	PageSignup  = "signup"
	PageLanding = "landing"
)

//go:embed templates/*.html
var templatesFS embed.FS

//go:embed static
var staticFS embed.FS

// LoginPage — данные формы входа.
type LoginPage struct {
	Email   string
	Error   string
	Success string
}

// SignupPage — данные формы регистрации. Пароль обратно в форму не возвращается.
type SignupPage struct {
	Username string
	Email    string
	Error    string
}

// LandingPage — данные страницы после входа. Users заполняется только для администратора.
type LandingPage struct {
	Username string
	Role     string
	Users    []models.PublicUser
}

// Renderer хранит разобранные шаблоны страниц.
type Renderer struct {
	pages map[string]*template.Template
}

// New разбирает встроенные шаблоны.
func New() (*Renderer, error) {
	const op = "view.New"

	layout, err := template.New("layout.html").
		Funcs(sprig.HtmlFuncMap()).
		ParseFS(templatesFS, "templates/layout.html")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	pages := make(map[string]*template.Template)
	for _, name := range []string{PageIndex, PageLogin, PageSignup, PageLanding} {
		clone, err := layout.Clone()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		page, err := clone.ParseFS(templatesFS, "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, name, err)
		}
		pages[name] = page
	}
	return &Renderer{pages: pages}, nil
}

// Render выполняет шаблон страницы в буфер и только затем пишет ответ,
// чтобы ошибка шаблона не оставила наполовину отправленную страницу.
func (r *Renderer) Render(w http.ResponseWriter, status int, name string, data any) error {
	const op = "view.Render"

	page, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("%s: unknown page %q", op, name)
	}

	var buf bytes.Buffer
	if err := page.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// Static возвращает файловую систему со статикой (css).
func Static() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
