package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/middleware"
	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

type createRoleRequest struct {
	Name        string   `json:"name" binding:"required"`
	Description string   `json:"description"`
	IsActive    *bool    `json:"isActive"`
	Permissions []string `json:"permissions"`
}

func (h HandlerSet) CreateRole(c *gin.Context) {
	var req createRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	active := true
	if req.IsActive != nil {
		active = *req.IsActive
	}
	role, err := h.svc.Roles.Create(c.Request.Context(), models.Role{
		Name:          req.Name,
		Description:   req.Description,
		IsActive:      active,
		PermissionIDs: req.Permissions,
	}, middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"_id": role.ID, "createdAt": role.CreatedAt})
}

func (h HandlerSet) ListRoles(c *gin.Context) {
	page := pageFromQuery(c)
	roles, meta, err := h.svc.Roles.List(c.Request.Context(), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaginated(roles, meta))
}

func (h HandlerSet) GetRole(c *gin.Context) {
	role, err := h.svc.Roles.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, role)
}

type updateRoleRequest struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	IsActive    *bool     `json:"isActive"`
	Permissions *[]string `json:"permissions"`
}

func (h HandlerSet) UpdateRole(c *gin.Context) {
	var req updateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	upd := repository.RoleUpdate{Name: req.Name, Description: req.Description, IsActive: req.IsActive}
	if req.Permissions != nil {
		upd.PermissionIDs = append([]string{}, *req.Permissions...)
	}
	if err := h.svc.Roles.Update(c.Request.Context(), c.Param("id"), upd, middleware.Actor(c)); err != nil {
		h.writeError(c, err)
		return
	}
	h.GetRole(c)
}

func (h HandlerSet) DeleteRole(c *gin.Context) {
	if err := h.svc.Roles.Delete(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}
