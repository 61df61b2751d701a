package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/serenechat/serenechat/internal/domain"
	"github.com/serenechat/serenechat/internal/service"
)

type HTTPHandler struct {
	service service.ChatService
}

func NewHTTPHandler(svc service.ChatService) *HTTPHandler {
	return &HTTPHandler{service: svc}
}

func (h *HTTPHandler) RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	{
		api.POST("/transform", h.Transform)
		api.GET("/rooms/:room/history", h.GetHistory)
	}

	r.GET("/health", h.HealthCheck)
}

type transformRequest struct {
	Message string `json:"message" binding:"required"`
}

// Transform rewrites a single message outside of any room, with the same
// fallback contract as the relay pipeline.
func (h *HTTPHandler) Transform(c *gin.Context) {
	var req transformRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, domain.APIResponse{
			Success: false,
			Error:   "message is required",
		})
		return
	}

	transformed := h.service.TransformOnce(c.Request.Context(), req.Message)

	c.JSON(http.StatusOK, domain.APIResponse{
		Success: true,
		Data: gin.H{
			"original":    req.Message,
			"transformed": transformed,
		},
	})
}

func (h *HTTPHandler) GetHistory(c *gin.Context) {
	roomID := c.Param("room")

	limit := 0
	if limitStr := c.Query("limit"); limitStr != "" {
		parsed, err := strconv.Atoi(limitStr)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, domain.APIResponse{
				Success: false,
				Error:   "limit must be a positive integer",
			})
			return
		}
		limit = parsed
	}

	messages := h.service.HistorySnapshot(roomID, limit)
	if messages == nil {
		messages = []domain.ChatMessage{}
	}

	c.JSON(http.StatusOK, domain.APIResponse{
		Success: true,
		Data:    gin.H{"messages": messages},
	})
}

func (h *HTTPHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
