package handler

import (
	"feature-intake-bot/internal/pkg/logger"
	internalWS "feature-intake-bot/internal/websocket"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
)

// GatewayHandler upgrades chat-gateway connections onto the websocket hub.
// Each connection is bound to one chat user id carried in the handshake JWT.
type GatewayHandler struct {
	hub       *internalWS.Hub
	jwtSecret string
	logger    logger.ILogger
}

func NewGatewayHandler(hub *internalWS.Hub, jwtSecret string, log logger.ILogger) *GatewayHandler {
	return &GatewayHandler{
		hub:       hub,
		jwtSecret: jwtSecret,
		logger:    log,
	}
}

func (h *GatewayHandler) RegisterRoutes(r fiber.Router) {
	r.Get("/ws/gateway", h.authorize, websocket.New(h.serve))
}

func (h *GatewayHandler) authorize(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	// Fail closed: with no configured secret, a token signed with "" would
	// otherwise verify.
	if h.jwtSecret == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Gateway auth is not configured"})
	}

	// Priority 1: Query Param (Browser standard)
	tokenStr := ctx.Query("token")

	// Priority 2: Authorization Header (Tooling/Non-browser standard)
	if tokenStr == "" {
		authHeader := ctx.Get("Authorization")
		if len(authHeader) > 7 && authHeader[:7] == "Bearer " {
			tokenStr = authHeader[7:]
		}
	}

	if tokenStr == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Missing token (Query 'token' or Header 'Authorization')"})
	}

	token, err := jwt.Parse(tokenStr, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.ErrUnauthorized
		}
		return []byte(h.jwtSecret), nil
	})

	if err != nil || !token.Valid {
		h.logger.Warn("GatewayHandler", "Invalid token in WS handshake", map[string]interface{}{"error": err})
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid claims"})
	}

	userID, _ := claims["user_id"].(string)
	if userID == "" {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Token missing user_id"})
	}

	ctx.Locals("ws_user_id", userID)
	return ctx.Next()
}

func (h *GatewayHandler) serve(c *websocket.Conn) {
	userID, _ := c.Locals("ws_user_id").(string)
	if userID == "" {
		c.Close()
		return
	}
	internalWS.ServeWs(h.hub, c, userID)
}
