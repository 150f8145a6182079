package handlers

import (
	"Testify/internal/model"
	"Testify/internal/service"
	"bytes"
	_ "embed"
	"errors"
	"html/template"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
)

//go:embed wall.html
var wallHTML string

var (
	wallTmpl = template.Must(template.New("wall").Parse(wallHTML))
	hexColor = regexp.MustCompile(`^[0-9A-Fa-f]{3,8}$`)
)

type wallCard struct {
	AuthorName string
	Text       string
	SocialURL  string
	Handle     string
	Initial    string
	Image      template.URL
}

type wallPage struct {
	Name            string
	NotFound        bool
	Testimonials    []wallCard
	BackgroundColor string
	CardColor       string
	CardBorderColor string
	CardTextColor   string
	AppURL          string
	AppDomain       string
}

// colorParam возвращает hex-цвет без "#" или пустую строку, если значение некорректно
func colorParam(q url.Values, name string) string {
	v := strings.TrimPrefix(strings.TrimSpace(q.Get(name)), "#")
	if !hexColor.MatchString(v) {
		return ""
	}
	return v
}

func toWallCard(t model.Testimonial) wallCard {
	c := wallCard{AuthorName: t.AuthorName, Text: t.Text, SocialURL: t.SocialURL}
	if r, _ := utf8.DecodeRuneInString(t.AuthorName); r != utf8.RuneError {
		c.Initial = strings.ToUpper(string(r))
	}
	c.Handle = socialHandle(t.SocialURL)
	// адрес уже проверен при создании отзыва (http(s) или data:image)
	if t.ImageURL != nil && *t.ImageURL != "" {
		c.Image = template.URL(*t.ImageURL)
	}
	return c
}

// socialHandle — последний сегмент пути ссылки ("https://x.com/jane" → "@jane").
// Ссылка без пути (только домен) хэндла не даёт.
func socialHandle(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	path := strings.Trim(u.Path, "/")
	if path == "" {
		return ""
	}
	return "@" + path[strings.LastIndex(path, "/")+1:]
}

// WallPage — встраиваемая HTML-стена (iframe) с цветами из query-параметров
func (h *SpaceHandler) WallPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page := wallPage{
		BackgroundColor: colorParam(q, "backgroundColor"),
		CardColor:       colorParam(q, "cardColor"),
		CardBorderColor: colorParam(q, "cardBorderColor"),
		CardTextColor:   colorParam(q, "cardTextColor"),
		AppURL:          h.Config.AppURL,
		AppDomain:       strings.TrimPrefix(strings.TrimPrefix(h.Config.AppURL, "https://"), "http://"),
	}

	status := http.StatusOK
	wall, err := h.SpaceService.GetWall(r.Context(), chi.URLParam(r, "spaceId"))
	switch {
	case err == nil:
		page.Name = wall.Name
		for _, t := range wall.Testimonials {
			page.Testimonials = append(page.Testimonials, toWallCard(t))
		}
	case errors.Is(err, service.ErrNotFound):
		// детали ошибки в публичный embed не выводим
		status = http.StatusNotFound
		page.NotFound = true
	default:
		h.Logger.Warnw("WallPage: failed to load wall", "error", err)
		status = http.StatusInternalServerError
		page.NotFound = true
	}

	var buf bytes.Buffer
	if err := wallTmpl.Execute(&buf, page); err != nil {
		h.Logger.Errorw("WallPage: render failed", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(buf.Bytes())
}
