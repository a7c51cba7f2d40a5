package handlers

import (
	"errors"
	"mime"
	"path/filepath"

	"antiquites/internal/log"
	"antiquites/internal/storage"

	"github.com/gofiber/fiber/v2"
)

type MediaHandler struct {
	Store storage.Store
}

// GET /uploads/*
func (h *MediaHandler) Serve(c *fiber.Ctx) error {
	name := c.Params("*")
	rc, err := h.Store.Open(c.UserContext(), name)
	if errors.Is(err, storage.ErrInvalidName) {
		log.Security(c, "media.traversal.block", map[string]any{"path": name})
		return c.SendStatus(fiber.StatusNotFound)
	}
	if errors.Is(err, storage.ErrNotFound) {
		return c.SendStatus(fiber.StatusNotFound)
	}
	if err != nil {
		return err
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		c.Set(fiber.HeaderContentType, ct)
	}
	c.Set(fiber.HeaderCacheControl, "public, max-age=86400")
	// fasthttp closes the stream once it has been written
	return c.SendStream(rc)
}
