package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/middleware"
	"jobboard/api/internal/models"
	"jobboard/api/internal/service"
)

type createSubscriberRequest struct {
	Name   string   `json:"name" binding:"required"`
	Email  string   `json:"email" binding:"required,email"`
	Skills []string `json:"skills" binding:"required"`
}

func (h HandlerSet) CreateSubscriber(c *gin.Context) {
	var req createSubscriberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sub, err := h.svc.Subscribers.Create(c.Request.Context(), models.Subscriber{
		Name:   req.Name,
		Email:  req.Email,
		Skills: req.Skills,
	}, middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"_id": sub.ID, "createdAt": sub.CreatedAt})
}

func (h HandlerSet) ListSubscribers(c *gin.Context) {
	subs, meta, err := h.svc.Subscribers.List(c.Request.Context(), pageFromQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaginated(subs, meta))
}

func (h HandlerSet) GetSubscriber(c *gin.Context) {
	sub, err := h.svc.Subscribers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h HandlerSet) SubscriberSkills(c *gin.Context) {
	sub, err := h.svc.Subscribers.SkillsOf(c.Request.Context(), middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": sub.Skills})
}

type subscriptionRequest struct {
	Name     string   `json:"name"`
	Skills   []string `json:"skills" binding:"required"`
	IsActive *bool    `json:"isActive"`
}

func (h HandlerSet) UpdateOwnSubscription(c *gin.Context) {
	var req subscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	sub, err := h.svc.Subscribers.Subscribe(c.Request.Context(), service.SubscriptionInput{
		Name:     req.Name,
		Skills:   req.Skills,
		IsActive: req.IsActive,
	}, middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, sub)
}

func (h HandlerSet) DeleteSubscriber(c *gin.Context) {
	if err := h.svc.Subscribers.Delete(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}
