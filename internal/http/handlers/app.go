package handlers

import (
	"strings"
	"time"

	"antiquites/internal/config"
	"antiquites/internal/imageset"
	"antiquites/internal/log"
	"antiquites/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// NewApp builds the fiber application with its middleware chain and routes.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	app := fiber.New(fiber.Config{
		Views: NewEngine(cfg.TemplatesDir),
		// all photos of one announcement plus the text fields
		BodyLimit: imageset.MaxImages*storage.MaxFileSize + 1<<20,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Error(c, "server.error", err, nil)
			if rerr := c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{
				"Message": "Une erreur est survenue. Veuillez réessayer.",
			}); rerr != nil {
				return c.Status(fiber.StatusInternalServerError).SendString("Une erreur est survenue. Veuillez réessayer.")
			}
			return nil
		},
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(logger.New())
	app.Use(helmet.New())
	app.Use(Session(d.AuthSvc))
	app.Use(limiter.New(limiter.Config{
		Max:        120,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return strings.HasPrefix(p, "/static/") || strings.HasPrefix(p, "/uploads/")
		},
	}))
	app.Use(csrf.New(csrf.Config{
		KeyLookup:      "form:csrf",
		ContextKey:     "csrf",
		CookieName:     "csrf_",
		CookieSameSite: "Lax",
		CookieSecure:   cfg.CookieSecure,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Security(c, "csrf.fail", nil)
			return c.Status(fiber.StatusForbidden).Render("notfound", fiber.Map{"Message": "Contrôle de sécurité échoué. Rechargez la page et réessayez."})
		},
	}))
	app.Use(func(c *fiber.Ctx) error {
		if tok, ok := c.Locals("csrf").(string); ok {
			c.Locals("CSRFToken", tok)
		}
		return c.Next()
	})

	// ---------- Static assets ----------
	app.Static("/static", cfg.StaticDir)
	app.Get("/uploads/*", d.MediaHandler.Serve)

	// Public pages
	app.Get("/", d.ListingHandler.Home)
	app.Get("/announcement/:id", d.ListingHandler.Detail)
	app.Get("/search", d.SearchHandler.Search)

	// Auth (throttled)
	authLimiter := limiter.New(limiter.Config{
		Max:        10,
		Expiration: 10 * time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			log.Security(c, "rate.auth.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).Render("login", fiber.Map{"Err": "Trop de tentatives. Réessayez plus tard."})
		},
	})
	app.Get("/login", d.AuthHandler.LoginForm)
	app.Post("/login", authLimiter, d.AuthHandler.Login)
	app.Get("/register", d.AuthHandler.RegisterForm)
	app.Post("/register", authLimiter, d.AuthHandler.Register)
	app.Post("/logout", d.AuthHandler.Logout)
	app.Get("/logout", d.AuthHandler.Logout)

	// Owner area
	app.Get("/dashboard", RequireUser(d.AuthSvc), d.ListingHandler.Dashboard)
	app.Get("/create-announcement", RequireUser(d.AuthSvc), d.ListingHandler.CreateForm)
	app.Post("/create-announcement", RequireUser(d.AuthSvc), d.ListingHandler.Create)

	// Admin
	admin := app.Group("/admin", RequireAdmin(d.AuthSvc))
	admin.Get("/", d.AdminHandler.Dashboard)
	admin.Post("/validate/:id", d.AdminHandler.Validate)
	admin.Post("/reject/:id", d.AdminHandler.Reject)
	admin.Post("/delete/:id", d.AdminHandler.Delete)

	// Health, metrics & 404
	app.Get("/healthz", func(c *fiber.Ctx) error { return c.JSON(fiber.Map{"ok": true}) })
	if d.Metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(d.Metrics.Registry, promhttp.HandlerOpts{})))
	}
	app.Use(func(c *fiber.Ctx) error {
		return notFound(c, "Page introuvable")
	})

	return app
}
