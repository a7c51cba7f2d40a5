package handlers

import (
	"errors"
	"time"

	"antiquites/internal/domain"
	"antiquites/internal/log"
	"antiquites/internal/services"
	"antiquites/internal/validate"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type AuthHandler struct {
	Auth         *services.AuthService
	SecureCookie bool
}

// newSession issues a fresh sid cookie for a sign-in. The sid the client arrived
// with, if any, is unbound so it cannot carry the new identity.
func (h *AuthHandler) newSession(c *fiber.Ctx) string {
	if old := c.Cookies("sid"); old != "" {
		if err := h.Auth.Logout(c.UserContext(), old); err != nil {
			log.Error(c, "auth.session.unbind.fail", err, nil)
		}
	}
	sid := uuid.NewString()
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    sid,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
	})
	return sid
}

func landing(u *domain.User) string {
	if u != nil && u.IsAdmin {
		return "/admin"
	}
	return "/dashboard"
}

func (h *AuthHandler) LoginForm(c *fiber.Ctx) error {
	return render(c, "login", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email, ok := validate.Email(c.FormValue("email"))
	pass := c.FormValue("password")
	if !ok || pass == "" {
		log.Security(c, "auth.login.fail", map[string]any{"reason": "bad_format"})
		c.Status(fiber.StatusUnauthorized)
		return render(c, "login", fiber.Map{"Err": "Email et mot de passe requis"})
	}

	u, err := h.Auth.Authenticate(c.UserContext(), email, pass)
	if err != nil {
		if errors.Is(err, services.ErrBadCreds) {
			log.Security(c, "auth.login.fail", map[string]any{"email": email})
			c.Status(fiber.StatusUnauthorized)
			return render(c, "login", fiber.Map{"Err": "Email ou mot de passe incorrect"})
		}
		log.Error(c, "auth.login.error", err, nil)
		c.Status(fiber.StatusInternalServerError)
		return render(c, "login", fiber.Map{"Err": "Erreur de connexion"})
	}

	if err := h.Auth.Bind(c.UserContext(), h.newSession(c), u.ID); err != nil {
		log.Error(c, "auth.login.error", err, nil)
		c.Status(fiber.StatusInternalServerError)
		return render(c, "login", fiber.Map{"Err": "Erreur de connexion"})
	}

	log.Audit(c, "auth.login.success", map[string]any{"email": email})
	return c.Redirect(landing(u))
}

func (h *AuthHandler) RegisterForm(c *fiber.Ctx) error {
	return render(c, "register", fiber.Map{"Err": ""})
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	email, okEmail := validate.Email(c.FormValue("email"))
	name, okName := validate.Name(c.FormValue("name"))
	pass := c.FormValue("password")
	if !okEmail || !okName || !validate.Password(pass) {
		c.Status(fiber.StatusBadRequest)
		return render(c, "register", fiber.Map{"Err": "Données invalides"})
	}

	u, err := h.Auth.Register(c.UserContext(), email, pass, name)
	if err != nil {
		var ce *domain.ConstraintError
		if errors.As(err, &ce) {
			log.Security(c, "auth.register.duplicate", map[string]any{"email": email})
			c.Status(fiber.StatusConflict)
			return render(c, "register", fiber.Map{"Err": "Cet email est déjà utilisé"})
		}
		log.Error(c, "auth.register.error", err, nil)
		c.Status(fiber.StatusInternalServerError)
		return render(c, "register", fiber.Map{"Err": "Erreur d'inscription"})
	}

	if err := h.Auth.Bind(c.UserContext(), h.newSession(c), u.ID); err != nil {
		log.Error(c, "auth.register.error", err, nil)
		c.Status(fiber.StatusInternalServerError)
		return render(c, "register", fiber.Map{"Err": "Erreur d'inscription"})
	}

	log.Audit(c, "auth.register.success", map[string]any{"email": email})
	return c.Redirect("/dashboard")
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	sid := c.Cookies("sid")
	if sid != "" {
		_ = h.Auth.Logout(c.UserContext(), sid)
	}
	c.Cookie(&fiber.Cookie{
		Name:     "sid",
		Value:    "",
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   h.SecureCookie,
		Expires:  time.Now().Add(-1 * time.Hour),
	})
	log.Audit(c, "auth.logout", nil)
	return c.Redirect("/")
}
