package handlers

import (
	"strings"

	"antiquites/internal/log"
	"antiquites/internal/services"
	"antiquites/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type SearchHandler struct {
	Listings *services.ListingService
}

// GET /search?q=
func (h *SearchHandler) Search(c *fiber.Ctx) error {
	rawQ := c.Query("q")
	if strings.TrimSpace(rawQ) == "" {
		// first visit: empty form, no error
		return render(c, "search", fiber.Map{"Q": "", "Announcements": nil, "Count": 0})
	}
	q, ok := validate.Q(rawQ)
	if !ok {
		log.Security(c, "validation.fail", map[string]any{"field": "q"})
		c.Status(fiber.StatusBadRequest)
		return render(c, "search", fiber.Map{
			"Q": "", "Announcements": nil, "Count": 0, "Err": "Saisissez un mot-clé valide (lettres et chiffres)",
		})
	}

	list, err := h.Listings.Search(c.UserContext(), q)
	if err != nil {
		log.Error(c, "search.error", err, nil)
		return c.Status(fiber.StatusInternalServerError).Render("notfound", fiber.Map{"Message": "Impossible de charger les résultats. Réessayez."})
	}
	log.Info(c, "search", map[string]any{"results": len(list)})
	return render(c, "search", fiber.Map{"Q": q, "Announcements": list, "Count": len(list)})
}
