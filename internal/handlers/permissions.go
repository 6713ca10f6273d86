package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/middleware"
	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

type createPermissionRequest struct {
	Name    string `json:"name" binding:"required"`
	APIPath string `json:"apiPath" binding:"required"`
	Method  string `json:"method" binding:"required"`
	Module  string `json:"module" binding:"required"`
}

func (h HandlerSet) CreatePermission(c *gin.Context) {
	var req createPermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	p, err := h.svc.Permissions.Create(c.Request.Context(), models.Permission{
		Name:    req.Name,
		APIPath: req.APIPath,
		Method:  req.Method,
		Module:  req.Module,
	}, middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"_id": p.ID, "createdAt": p.CreatedAt})
}

func (h HandlerSet) ListPermissions(c *gin.Context) {
	page := pageFromQuery(c)
	permissions, meta, err := h.svc.Permissions.List(c.Request.Context(), c.Query("module"), page)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaginated(permissions, meta))
}

func (h HandlerSet) GetPermission(c *gin.Context) {
	p, err := h.svc.Permissions.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

type updatePermissionRequest struct {
	Name    *string `json:"name"`
	APIPath *string `json:"apiPath"`
	Method  *string `json:"method"`
	Module  *string `json:"module"`
}

func (h HandlerSet) UpdatePermission(c *gin.Context) {
	var req updatePermissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	upd := repository.PermissionUpdate{Name: req.Name, APIPath: req.APIPath, Method: req.Method, Module: req.Module}
	if err := h.svc.Permissions.Update(c.Request.Context(), c.Param("id"), upd, middleware.Actor(c)); err != nil {
		h.writeError(c, err)
		return
	}
	h.GetPermission(c)
}

func (h HandlerSet) DeletePermission(c *gin.Context) {
	if err := h.svc.Permissions.Delete(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}
