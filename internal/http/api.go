package http

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"cart-backend/internal/domain"
	"cart-backend/internal/service"
)

const healthText = "Backend is running 🚀"

var errMalformedBody = errors.New("malformed request body")

// Handler wires HTTP routes to domain services.
type Handler struct {
	users  service.UserService
	carts  service.CartService
	logger logrus.FieldLogger
}

func NewHandler(users service.UserService, carts service.CartService, logger logrus.FieldLogger) *Handler {
	return &Handler{
		users:  users,
		carts:  carts,
		logger: logger,
	}
}

// NewRouter builds a gin engine with the middleware stack and all routes.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(h.logger))
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware())

	router.GET("/", h.health)
	router.GET("/health", h.health)

	router.POST("/register", h.register)
	router.POST("/login", h.login)
	router.POST("/cart", h.saveCart)
	router.GET("/cart", h.loadCart)
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type saveCartRequest struct {
	Token string      `json:"token"`
	Cart  domain.Cart `json:"cart"`
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

func (h *Handler) health(c *gin.Context) {
	c.String(http.StatusOK, healthText)
}

func (h *Handler) register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "register", fmt.Errorf("%w: %v", errMalformedBody, err))
		return
	}

	if _, err := h.users.Register(c.Request.Context(), req.Username, req.Password); err != nil {
		h.fail(c, "register", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Account created!"})
}

func (h *Handler) login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "login", fmt.Errorf("%w: %v", service.ErrInvalidCredentials, err))
		return
	}

	token, _, err := h.users.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		h.fail(c, "login", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

func (h *Handler) saveCart(c *gin.Context) {
	var req saveCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.fail(c, "save cart", fmt.Errorf("%w: %v", errMalformedBody, err))
		return
	}

	if err := h.carts.Save(c.Request.Context(), req.Token, req.Cart); err != nil {
		h.fail(c, "save cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart saved!"})
}

func (h *Handler) loadCart(c *gin.Context) {
	cart, err := h.carts.Load(c.Request.Context(), bearerToken(c.GetHeader("Authorization")))
	if err != nil {
		h.fail(c, "load cart", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cart": cart})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// fail maps a service error to its status and public message. The cause is
// only written to the log.
func (h *Handler) fail(c *gin.Context, op string, err error) {
	status, msg := errorResponse(err)
	entry := h.logger.WithFields(logrus.Fields{"op": op, "status": status})
	if status == http.StatusInternalServerError {
		entry.Errorf("%s failed: %v", op, err)
	} else {
		entry.Debugf("%s rejected: %v", op, err)
	}
	c.AbortWithStatusJSON(status, gin.H{"error": msg})
}

func errorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, errMalformedBody):
		return http.StatusBadRequest, "Invalid request body"
	case errors.Is(err, service.ErrPasswordTooLong):
		return http.StatusBadRequest, "Password must be at most 72 bytes"
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, "Username and password required"
	case errors.Is(err, service.ErrUserAlreadyExists):
		return http.StatusBadRequest, "Username already exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		return http.StatusUnauthorized, "Invalid credentials"
	case errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound, "User not found"
	default:
		return http.StatusInternalServerError, "Server error"
	}
}
