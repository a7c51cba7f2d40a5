package handlers

import (
	"errors"
	"strings"

	"antiquites/internal/domain"
	"antiquites/internal/lifecycle"
	"antiquites/internal/log"
	"antiquites/internal/services"
	"antiquites/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	Moderation *services.ModerationService
}

// GET /admin
func (h *AdminHandler) Dashboard(c *fiber.Ctx) error {
	return h.page(c, fiber.StatusOK, "")
}

// page renders the dashboard, optionally with an error banner from a failed action.
func (h *AdminHandler) page(c *fiber.Ctx, status int, msg string) error {
	ctx := c.UserContext()
	pending, err := h.Moderation.ListPending(ctx)
	if err != nil {
		log.Error(c, "admin.pending.list.fail", err, nil)
	}
	published, err := h.Moderation.ListPublished(ctx)
	if err != nil {
		log.Error(c, "admin.published.list.fail", err, nil)
	}
	stats, err := h.Moderation.Stats(ctx)
	if err != nil {
		log.Error(c, "admin.stats.fail", err, nil)
	}
	c.Status(status)
	return render(c, "admin", fiber.Map{
		"Pending":   pending,
		"Published": published,
		"Stats":     stats,
		"Err":       msg,
	})
}

// actionError turns a moderation failure into a dashboard message.
func (h *AdminHandler) actionError(c *fiber.Ctx, action string, id int64, err error) error {
	var ve *domain.ValidationError
	switch {
	case errors.As(err, &ve):
		log.Security(c, "admin."+action+".invalid", map[string]any{"announcement_id": id, "field": ve.Field, "reason": ve.Reason})
		return h.page(c, fiber.StatusBadRequest, "Prix invalide : "+ve.Reason)
	case errors.Is(err, lifecycle.ErrIllegalTransition):
		log.Security(c, "admin."+action+".illegal", map[string]any{"announcement_id": id})
		return h.page(c, fiber.StatusConflict, "Cette annonce a déjà été traitée")
	}
	log.Error(c, "admin."+action+".fail", err, map[string]any{"announcement_id": id})
	return h.page(c, fiber.StatusInternalServerError, "L'opération a échoué, veuillez réessayer")
}

// POST /admin/validate/:id
func (h *AdminHandler) Validate(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/admin")
	}
	price := c.FormValue("price")
	if err := h.Moderation.Validate(c.UserContext(), id, price); err != nil {
		return h.actionError(c, "validate", id, err)
	}
	log.Audit(c, "admin.validate", map[string]any{"announcement_id": id, "price": price})
	return c.Redirect("/admin")
}

// POST /admin/reject/:id
func (h *AdminHandler) Reject(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/admin")
	}
	if err := h.Moderation.Reject(c.UserContext(), id); err != nil {
		return h.actionError(c, "reject", id, err)
	}
	log.Audit(c, "admin.reject", map[string]any{"announcement_id": id})
	return c.Redirect("/admin")
}

// POST /admin/delete/:id sends the admin back where the request came from.
func (h *AdminHandler) Delete(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return c.Redirect("/admin")
	}
	if err := h.Moderation.Remove(c.UserContext(), id); err != nil {
		return h.actionError(c, "delete", id, err)
	}
	log.Audit(c, "admin.delete", map[string]any{"announcement_id": id})
	if strings.Contains(c.Get(fiber.HeaderReferer), "/admin") {
		return c.Redirect("/admin")
	}
	return c.Redirect("/")
}
