package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/middleware"
	"jobboard/api/internal/models"
	"jobboard/api/internal/service"
)

type createResumeRequest struct {
	URL       string `json:"url" binding:"required"`
	CompanyID string `json:"companyId" binding:"required"`
	JobID     string `json:"jobId" binding:"required"`
}

func (h HandlerSet) CreateResume(c *gin.Context) {
	var req createResumeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	resume, err := h.svc.Resumes.Create(c.Request.Context(), service.CreateResumeInput{
		URL:       req.URL,
		CompanyID: req.CompanyID,
		JobID:     req.JobID,
	}, middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"_id": resume.ID, "createdAt": resume.CreatedAt})
}

func (h HandlerSet) ResumesByUser(c *gin.Context) {
	resumes, err := h.svc.Resumes.ListByUser(c.Request.Context(), middleware.Actor(c).ID)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resumes)
}

func (h HandlerSet) ListResumes(c *gin.Context) {
	status := models.ResumeStatus(c.Query("status"))
	resumes, meta, err := h.svc.Resumes.List(c.Request.Context(), status, pageFromQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaginated(resumes, meta))
}

func (h HandlerSet) GetResume(c *gin.Context) {
	resume, err := h.svc.Resumes.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resume)
}

type resumeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

func (h HandlerSet) UpdateResumeStatus(c *gin.Context) {
	var req resumeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	err := h.svc.Resumes.UpdateStatus(c.Request.Context(), c.Param("id"), models.ResumeStatus(req.Status), middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	h.GetResume(c)
}

func (h HandlerSet) DeleteResume(c *gin.Context) {
	if err := h.svc.Resumes.Delete(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}
