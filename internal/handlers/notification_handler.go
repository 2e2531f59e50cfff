package handlers

import (
	"context"
	"errors"
	"strings"

	websocket "github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/sohail-1209/learnx/internal/models"
	"github.com/sohail-1209/learnx/internal/services"
	notifyws "github.com/sohail-1209/learnx/internal/websocket"
	"github.com/sohail-1209/learnx/pkg/utils"
)

type NotificationHandler struct {
	service   notificationService
	hub       *notifyws.Hub
	jwtSecret string
}

type notificationService interface {
	List(ctx context.Context, userID int64, page, limit int) ([]models.Notification, error)
	MarkRead(ctx context.Context, userID, notificationID int64) (*models.Notification, error)
}

func NewNotificationHandler(
	service *services.NotificationService,
	hub *notifyws.Hub,
	jwtSecret string,
) *NotificationHandler {
	return &NotificationHandler{service: service, hub: hub, jwtSecret: jwtSecret}
}

func (h *NotificationHandler) ListNotifications(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	page, limit := parsePageParams(c)
	notifications, err := h.service.List(c.Context(), userID, page, limit)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := parseUserID(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid token"})
	}

	notificationID, err := parseIDParam(c, "id")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid notification id"})
	}

	notification, err := h.service.MarkRead(c.Context(), userID, notificationID)
	if err != nil {
		return mapServiceError(c, err)
	}

	return c.JSON(fiber.Map{"notification": notification})
}

func (h *NotificationHandler) WebSocketAuth(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return c.Status(fiber.StatusUpgradeRequired).JSON(fiber.Map{"error": "WebSocket upgrade required"})
	}

	claims, err := h.parseWSClaims(c)
	if err != nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Invalid or expired token"})
	}

	c.Locals("user_id", claims.UserID)
	c.Locals("role", claims.Role)
	return c.Next()
}

func (h *NotificationHandler) HandleWebSocket(conn *websocket.Conn) {
	userID, _ := conn.Locals("user_id").(string)
	client := notifyws.NewClient(h.hub, conn, userID)

	h.hub.Register(client)
	go client.WritePump()
	client.ReadPump()
}

func (h *NotificationHandler) parseWSClaims(c *fiber.Ctx) (*utils.Claims, error) {
	tokenString := strings.TrimSpace(c.Query("token"))
	if tokenString == "" {
		authHeader := strings.TrimSpace(c.Get("Authorization"))
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
	}

	if tokenString == "" {
		return nil, errors.New("missing token")
	}

	return utils.ValidateToken(tokenString, h.jwtSecret)
}
