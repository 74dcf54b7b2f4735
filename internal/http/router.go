package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pribylovaa/go-featured-image/internal/http/handlers"
	"github.com/pribylovaa/go-featured-image/internal/http/middleware"
	"github.com/pribylovaa/go-featured-image/internal/service"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	// Зависимости хендлеров.
	h := handlers.New(svc)

	// Регистрация маршрутов.
	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
func registerRoutes(r chi.Router, h *handlers.Handlers) {
	// обложки постов
	r.Put("/posts/{id}/external-image", h.SetExternalImage)
	r.Get("/posts/{id}/external-image", h.GetExternalImage)
	r.Post("/posts/{id}/external-image/resolve", h.ResolveExternalImage)
	r.Get("/posts/{id}/display-image", h.DisplayImage)
	r.Get("/posts/{id}/social-meta", h.SocialMeta)

	// превью
	r.Post("/preview", h.Preview)

	// настройки
	r.Get("/settings", h.GetSettings)
	r.Put("/settings", h.UpdateSettings)
}
