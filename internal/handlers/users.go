package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/middleware"
	"jobboard/api/internal/repository"
	"jobboard/api/internal/service"
)

type createUserRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
	Age      int    `json:"age" binding:"gte=0"`
	Gender   string `json:"gender"`
	Address  string `json:"address"`
	Role     string `json:"role"`
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	result, err := h.svc.Users.Create(c.Request.Context(), service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Age:      req.Age,
		Gender:   req.Gender,
		Address:  req.Address,
		RoleID:   req.Role,
	}, middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	page := pageFromQuery(c)
	users, meta, err := h.svc.Users.List(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaginated(users, meta))
}

func (h HandlerSet) GetUser(c *gin.Context) {
	user, err := h.svc.Users.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

type updateUserRequest struct {
	Name    *string `json:"name"`
	Role    *string `json:"role"`
	Age     *int    `json:"age" binding:"omitempty,gte=0"`
	Gender  *string `json:"gender"`
	Address *string `json:"address"`
}

func (h HandlerSet) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	id := c.Param("id")
	err := h.svc.Users.Update(c.Request.Context(), id, repository.UserUpdate{
		Name:    req.Name,
		RoleID:  req.Role,
		Age:     req.Age,
		Gender:  req.Gender,
		Address: req.Address,
	}, middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.GetUser(c)
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	if err := h.svc.Users.Delete(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}
