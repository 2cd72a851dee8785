// Package httpapi serves the blogdesk REST API with gin: /api/Auth for
// accounts and tokens, /api/Post for the posts of the signed-in user.
//
// Every body is JSON. Failures answer {"success": false, "message": ...}
// with a matching status code.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/blogdesk/internal/common"
	"github.com/dmitrijs2005/blogdesk/internal/logging"
	"github.com/dmitrijs2005/blogdesk/internal/server/models"
	"github.com/dmitrijs2005/blogdesk/internal/server/services"
)

const (
	msgUnauthorized       = "Unauthorized"
	msgTokenExpired       = "Token expired"
	msgInvalidCredentials = "Invalid email or password"
	msgEmailTaken         = "Email already exists"
	msgPostNotFound       = "Post not found"
	msgForbidden          = "You cannot modify this post"
	msgInvalidBody        = "Invalid request body"
	msgInvalidID          = "Invalid post id"
	msgInternal           = "Internal server error"
)

type userService interface {
	Register(ctx context.Context, in services.RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (string, *models.User, error)
	UserFromToken(ctx context.Context, token string) (*models.User, error)
}

type postService interface {
	List(ctx context.Context, userID string) ([]*models.Post, error)
	Get(ctx context.Context, userID string, id int64) (*models.Post, error)
	Create(ctx context.Context, userID string, in services.PostInput) (*models.Post, error)
	Update(ctx context.Context, userID string, id int64, in services.PostInput) (*models.Post, error)
	Delete(ctx context.Context, userID string, id int64) error
}

// Handler wires HTTP routes to the services.
type Handler struct {
	users  userService
	posts  postService
	logger logging.Logger
}

func NewHandler(users userService, posts postService, logger logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Handler{users: users, posts: posts, logger: logger.With("module", "http_api")}
}

// NewRouter returns a gin engine with recovery and all routes registered.
func NewRouter(h *Handler) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	h.RegisterRoutes(router)
	return router
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(h.requestContext(), corsMiddleware())

	api := router.Group("/api")
	{
		auth := api.Group("/Auth")
		auth.POST("/login", h.login)
		auth.POST("/register", h.register)
		auth.GET("/verify", h.authRequired(), h.verify)

		posts := api.Group("/Post", h.authRequired())
		posts.GET("", h.listPosts)
		posts.POST("", h.createPost)
		posts.GET("/:id", h.getPost)
		posts.PUT("/:id", h.updatePost)
		posts.DELETE("/:id", h.deletePost)

		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"success": true})
		})
	}
}

func abort(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "message": msg})
}

// fail maps a service error to a status and a display message. Unexpected
// errors are logged and hidden behind a generic message.
func (h *Handler) fail(c *gin.Context, err error) {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		abort(c, http.StatusBadRequest, verr.Message)
	case errors.Is(err, common.ErrTokenExpired):
		abort(c, http.StatusUnauthorized, msgTokenExpired)
	case errors.Is(err, common.ErrInvalidToken):
		abort(c, http.StatusUnauthorized, msgUnauthorized)
	case errors.Is(err, common.ErrorUnauthorized):
		abort(c, http.StatusUnauthorized, msgInvalidCredentials)
	case errors.Is(err, common.ErrorAlreadyExists):
		abort(c, http.StatusConflict, msgEmailTaken)
	case errors.Is(err, common.ErrorNotFound):
		abort(c, http.StatusNotFound, msgPostNotFound)
	case errors.Is(err, common.ErrorForbidden):
		abort(c, http.StatusForbidden, msgForbidden)
	default:
		h.requestLogger(c).Error(c.Request.Context(), "request failed", "err", err)
		abort(c, http.StatusInternalServerError, msgInternal)
	}
}

func (h *Handler) requestLogger(c *gin.Context) logging.Logger {
	if v, ok := c.Get(ctxLogger); ok {
		if l, ok := v.(logging.Logger); ok {
			return l
		}
	}
	return h.logger
}

func (h *Handler) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	token, user, err := h.users.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"userId":   user.ID,
		"token":    token,
		"userName": user.UserName,
		"email":    user.Email,
	})
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	user, err := h.users.Register(c.Request.Context(), req.input())
	if err != nil {
		h.fail(c, err)
		return
	}

	h.requestLogger(c).Info(c.Request.Context(), "user registered", "user_id", user.ID)
	c.JSON(http.StatusCreated, gin.H{"success": true, "message": "Registration successful", "userId": user.ID})
}

func (h *Handler) verify(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"success": true, "user": toUserResponse(currentUser(c))})
}

func (h *Handler) listPosts(c *gin.Context) {
	posts, err := h.posts.List(c.Request.Context(), currentUser(c).ID)
	if err != nil {
		h.fail(c, err)
		return
	}

	resp := make([]postResponse, len(posts))
	for i, p := range posts {
		resp[i] = toPostResponse(p)
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "posts": resp})
}

func postID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		abort(c, http.StatusBadRequest, msgInvalidID)
		return 0, false
	}
	return id, true
}

func (h *Handler) getPost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	p, err := h.posts.Get(c.Request.Context(), currentUser(c).ID, id)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "post": toPostResponse(p)})
}

func (h *Handler) createPost(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	p, err := h.posts.Create(c.Request.Context(), currentUser(c).ID, req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "id": p.ID, "post": toPostResponse(p)})
}

func (h *Handler) updatePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abort(c, http.StatusBadRequest, msgInvalidBody)
		return
	}

	p, err := h.posts.Update(c.Request.Context(), currentUser(c).ID, id, req.input())
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "post": toPostResponse(p)})
}

func (h *Handler) deletePost(c *gin.Context) {
	id, ok := postID(c)
	if !ok {
		return
	}

	if err := h.posts.Delete(c.Request.Context(), currentUser(c).ID, id); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Post deleted"})
}
