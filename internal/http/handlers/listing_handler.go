package handlers

import (
	"errors"

	"antiquites/internal/domain"
	"antiquites/internal/log"
	"antiquites/internal/services"
	"antiquites/internal/storage"
	"antiquites/internal/validate"

	"github.com/gofiber/fiber/v2"
)

type ListingHandler struct {
	Listings *services.ListingService
	Uploads  *storage.Uploader
}

// GET /
func (h *ListingHandler) Home(c *fiber.Ctx) error {
	list, err := h.Listings.Published(c.UserContext())
	if err != nil {
		log.Error(c, "listing.home.fail", err, nil)
		list = nil
	}
	return render(c, "index", fiber.Map{"Announcements": list})
}

// GET /announcement/:id
func (h *ListingHandler) Detail(c *fiber.Ctx) error {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		return notFound(c, "Annonce non trouvée")
	}
	a, err := h.Listings.Public(c.UserContext(), id)
	if errors.Is(err, domain.ErrNotFound) {
		return notFound(c, "Annonce non trouvée")
	}
	if err != nil {
		return err
	}
	return render(c, "announcement", fiber.Map{"A": a})
}

// GET /dashboard
func (h *ListingHandler) Dashboard(c *fiber.Ctx) error {
	u := CurrentUser(c)
	list, err := h.Listings.ForOwner(c.UserContext(), u.ID)
	if err != nil {
		log.Error(c, "listing.dashboard.fail", err, nil)
		list = nil
	}
	return render(c, "dashboard", fiber.Map{"Announcements": list})
}

// GET /create-announcement
func (h *ListingHandler) CreateForm(c *fiber.Ctx) error {
	return render(c, "create_announcement", fiber.Map{"Err": ""})
}

// POST /create-announcement
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	u := CurrentUser(c)
	in := services.Submission{
		Title:       c.FormValue("title"),
		Description: c.FormValue("description"),
		Phone:       c.FormValue("phone"),
	}
	formErr := func(status int, msg string) error {
		c.Status(status)
		return render(c, "create_announcement", fiber.Map{"Err": msg, "Form": in})
	}

	// checked before any photo is written
	_, okTitle := validate.Title(in.Title)
	_, okDesc := validate.Description(in.Description)
	_, okPhone := validate.Phone(in.Phone)
	if !okTitle || !okDesc || !okPhone {
		return formErr(fiber.StatusBadRequest, "Titre (min 3 car.), description (min 10 car.) et téléphone valide requis")
	}

	if form, err := c.MultipartForm(); err == nil && form != nil {
		names, err := h.Uploads.Accept(c.UserContext(), form.File["images"])
		if err != nil {
			var ve *domain.ValidationError
			if errors.As(err, &ve) {
				log.Security(c, "listing.upload.reject", map[string]any{"reason": ve.Reason})
				return formErr(fiber.StatusBadRequest, "Photos refusées : "+ve.Reason)
			}
			log.Error(c, "listing.upload.fail", err, nil)
			return formErr(fiber.StatusInternalServerError, "Erreur lors de l'envoi des photos")
		}
		in.Images = names
	}

	id, err := h.Listings.Submit(c.UserContext(), u.ID, in)
	if err != nil {
		// the row was not written, so the photos would be orphans
		h.Uploads.Discard(c.UserContext(), in.Images)
		var ve *domain.ValidationError
		if errors.As(err, &ve) {
			return formErr(fiber.StatusBadRequest, "Données invalides : "+ve.Field)
		}
		log.Error(c, "listing.create.fail", err, nil)
		return formErr(fiber.StatusInternalServerError, "Erreur lors de la création")
	}
	log.Audit(c, "listing.create", map[string]any{"announcement_id": id, "images": len(in.Images)})
	return c.Redirect("/dashboard")
}
