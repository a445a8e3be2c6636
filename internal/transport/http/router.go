package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/publication-admin/internal/application/auth"
	"github.com/publication-admin/internal/application/avatar"
	fileapp "github.com/publication-admin/internal/application/file"
	"github.com/publication-admin/internal/application/post"
	"github.com/publication-admin/internal/application/topic"
	"github.com/publication-admin/internal/application/user"
	"github.com/publication-admin/internal/config"
	"github.com/publication-admin/internal/metrics"
	"github.com/publication-admin/internal/transport/http/apierr"
	"github.com/publication-admin/internal/transport/http/handler"
	appmiddleware "github.com/publication-admin/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// Router is the application HTTP handler. Close releases the rate limiter.
type Router struct {
	http.Handler
	limiter *appmiddleware.RateLimiter
}

func (rt *Router) Close() { rt.limiter.Close() }

// NewRouter builds and returns the application router.
func NewRouter(cfg *config.Config, deps *Deps) *Router {
	collector, gatherer := deps.Metrics, deps.Gatherer
	if collector == nil {
		reg := prometheus.NewRegistry()
		collector, gatherer = metrics.NewCollector(reg), reg
	}
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(appmiddleware.RequestLogger)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: !cfg.AllowsAnyOrigin(),
		MaxAge:           300,
	}))
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		apierr.Write(w, http.StatusNotFound, apierr.CommonError, "Not Found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		apierr.Write(w, http.StatusMethodNotAllowed, apierr.CommonError, "Method Not Allowed", nil)
	})

	authMw := appmiddleware.Auth(deps.Tokens, deps.Users)

	// 5 requests/second, burst of 10 per client IP on the public auth endpoints.
	sensitiveRL := appmiddleware.NewRateLimiter(rate.Limit(5), 10)

	errs := handler.NewErrorWriter(cfg.ExposeErrorDetails())

	authSvc := auth.NewService(auth.ServiceDeps{
		Codes:            deps.EmailCodes,
		Users:            deps.Users,
		Tokens:           deps.Tokens,
		Mail:             deps.Mailer,
		Metrics:          collector,
		RateLimitEnabled: cfg.EnableEmailCodeRateLimit,
		Now:              deps.Now,
	})
	avatarSvc := avatar.NewService(avatar.ServiceDeps{
		Avatars: deps.Avatars,
		Images:  deps.Images,
		Text:    deps.Text,
		Media:   deps.Media,
		Metrics: collector,
	})
	userSvc := user.NewService(deps.Users)
	topicSvc := topic.NewService(deps.Topics)
	postSvc := post.NewService(deps.Avatars, deps.Posts)
	fileSvc := fileapp.NewService(deps.Media, cfg.ImageSizeLimit)

	authH := handler.NewAuthHandler(authSvc, errs)
	userH := handler.NewUserHandler(userSvc, errs)
	metaH := handler.NewMetaHandler(topicSvc, errs)
	avatarH := handler.NewAvatarHandler(avatarSvc, errs)
	postH := handler.NewPostHandler(postSvc, errs)
	fileH := handler.NewFileHandler(fileSvc, errs, cfg.ImageSizeLimit)

	r.Method(http.MethodGet, "/metrics", metrics.Handler(gatherer))

	r.Route("/api", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/meta/ping/", metaH.Ping)
		r.With(sensitiveRL.Limit).Post("/auth/get-code/", authH.GetCode)
		r.With(sensitiveRL.Limit).Post("/auth/authenticate/", authH.Authenticate)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)

			r.Get("/users/me/", userH.Me)
			r.Get("/topics/", metaH.Topics)
			r.Post("/files/image/upload/", fileH.UploadImage)

			r.Route("/avatars", func(r chi.Router) {
				r.Post("/", avatarH.Create)
				r.Post("/generate-bio/", avatarH.GenerateBio)
				r.Get("/current/", avatarH.Current)
				r.Patch("/current/", avatarH.Update)
				r.Delete("/current/", avatarH.Delete)
				r.Post("/current/init/", avatarH.TriggerInit)
				r.Get("/current/init-status/", avatarH.InitStatus)
				r.Post("/current/generate-profile-image/", avatarH.GenerateProfileImage)
				r.Get("/current/profile-images-status/", avatarH.ProfileImageStatus)
			})

			r.Route("/posts", func(r chi.Router) {
				r.Get("/", postH.List)
				r.Post("/", postH.Create)
				r.Get("/{post_uuid}", postH.Get)
				r.Delete("/{post_uuid}", postH.Delete)
			})
		})
	})

	return &Router{Handler: r, limiter: sensitiveRL}
}
