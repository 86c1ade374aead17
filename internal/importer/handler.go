package importer

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"

	"ballot-backend/internal/metadata"
)

type Handler struct {
	importer *Importer
}

func NewHandler(i *Importer) *Handler {
	return &Handler{importer: i}
}

func RegisterRoutes(app *fiber.App, h *Handler, middleware ...fiber.Handler) {
	handlers := append(middleware, h.Import)
	app.Post("/api/import/:slug", handlers...)
}

type importRequest struct {
	Format  string          `json:"format"`
	IDField string          `json:"id_field"`
	Data    json.RawMessage `json:"data"`
}

// Import handles POST /api/import/:slug
func (h *Handler) Import(c *fiber.Ctx) error {
	slug := c.Params("slug")

	var req importRequest
	if err := c.BodyParser(&req); err != nil {
		return InvalidPayloadError("Invalid JSON body")
	}

	var raw []byte
	switch strings.ToLower(req.Format) {
	case "csv":
		var text string
		if err := json.Unmarshal(req.Data, &text); err != nil {
			return InvalidPayloadError("csv data must be a string")
		}
		raw = []byte(text)
	case "json":
		raw = req.Data
	default:
		return InvalidPayloadError("format must be csv or json")
	}

	result, err := h.importer.ImportData(c.Context(), raw, Options{
		Slug:    slug,
		Format:  req.Format,
		User:    getUser(c),
		IDField: req.IDField,
	})
	if err != nil {
		return fmt.Errorf("import %s: %w", slug, err)
	}
	return c.JSON(result)
}

func getUser(c *fiber.Ctx) *metadata.UserContext {
	user, _ := c.Locals("user").(*metadata.UserContext)
	return user
}
