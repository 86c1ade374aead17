package auth

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"ballot-backend/internal/importer"
	"ballot-backend/internal/store"
)

type Handler struct {
	store  *store.Store
	secret string
}

func NewHandler(s *store.Store, secret string) *Handler {
	return &Handler{store: s, secret: secret}
}

func RegisterRoutes(app *fiber.App, h *Handler) {
	app.Post("/auth/login", h.Login)
	app.Post("/auth/refresh", h.Refresh)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login
func (h *Handler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return importer.NewAppError("INVALID_PAYLOAD", 400, "Invalid JSON body")
	}
	if req.Email == "" || req.Password == "" {
		return importer.NewAppError("INVALID_PAYLOAD", 400, "Email and password are required")
	}

	pb := h.store.Dialect.NewParamBuilder()
	row, err := store.QueryRow(c.Context(), h.store.DB,
		fmt.Sprintf("SELECT id, email, password_hash, roles FROM _users WHERE email = %s", pb.Add(req.Email)),
		pb.Params()...)
	if err != nil {
		return importer.UnauthorizedError("Invalid credentials")
	}

	hash, _ := row["password_hash"].(string)
	if !CheckPassword(req.Password, hash) {
		return importer.UnauthorizedError("Invalid credentials")
	}

	roles, err := h.store.Dialect.ScanArray(row["roles"])
	if err != nil {
		return fmt.Errorf("scan roles: %w", err)
	}

	userID := fmt.Sprintf("%v", row["id"])
	email := fmt.Sprintf("%v", row["email"])

	access, err := GenerateAccessToken(userID, email, roles, h.secret)
	if err != nil {
		return err
	}
	refresh, err := GenerateRefreshToken(userID, h.secret)
	if err != nil {
		return err
	}

	return c.JSON(TokenPair{AccessToken: access, RefreshToken: refresh})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh handles POST /auth/refresh
func (h *Handler) Refresh(c *fiber.Ctx) error {
	var req refreshRequest
	if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
		return importer.NewAppError("INVALID_PAYLOAD", 400, "Missing refresh token")
	}

	claims, err := ParseAccessToken(req.RefreshToken, h.secret)
	if err != nil {
		return importer.UnauthorizedError("Invalid or expired refresh token")
	}

	pb := h.store.Dialect.NewParamBuilder()
	row, err := store.QueryRow(c.Context(), h.store.DB,
		fmt.Sprintf("SELECT id, email, roles FROM _users WHERE id = %s", pb.Add(claims.Subject)),
		pb.Params()...)
	if err != nil {
		return importer.UnauthorizedError("Unknown user")
	}

	roles, err := h.store.Dialect.ScanArray(row["roles"])
	if err != nil {
		return fmt.Errorf("scan roles: %w", err)
	}

	userID := fmt.Sprintf("%v", row["id"])
	email := fmt.Sprintf("%v", row["email"])

	access, err := GenerateAccessToken(userID, email, roles, h.secret)
	if err != nil {
		return err
	}
	refresh, err := GenerateRefreshToken(userID, h.secret)
	if err != nil {
		return err
	}

	return c.JSON(TokenPair{AccessToken: access, RefreshToken: refresh})
}
