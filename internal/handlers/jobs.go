package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"jobboard/api/internal/middleware"
	"jobboard/api/internal/models"
	"jobboard/api/internal/repository"
)

type jobRequest struct {
	Name        string            `json:"name" binding:"required"`
	Skills      []string          `json:"skills" binding:"required"`
	Company     models.CompanyRef `json:"company"`
	Location    string            `json:"location"`
	Salary      int64             `json:"salary"`
	Quantity    int               `json:"quantity"`
	Level       string            `json:"level"`
	Description string            `json:"description"`
	Logo        string            `json:"logo"`
	StartDate   time.Time         `json:"startDate"`
	EndDate     time.Time         `json:"endDate"`
	IsActive    *bool             `json:"isActive"`
}

func (r jobRequest) toJob() models.Job {
	active := true
	if r.IsActive != nil {
		active = *r.IsActive
	}
	return models.Job{
		Name:        r.Name,
		Skills:      r.Skills,
		Company:     r.Company,
		Location:    r.Location,
		Salary:      r.Salary,
		Quantity:    r.Quantity,
		Level:       r.Level,
		Description: r.Description,
		Logo:        r.Logo,
		StartDate:   r.StartDate,
		EndDate:     r.EndDate,
		IsActive:    active,
	}
}

func (h HandlerSet) CreateJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	job, err := h.svc.Jobs.Create(c.Request.Context(), req.toJob(), middleware.Actor(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"_id": job.ID, "createdAt": job.CreatedAt})
}

func (h HandlerSet) ListJobs(c *gin.Context) {
	filter := repository.JobFilter{
		Name:     c.Query("name"),
		Location: c.Query("location"),
	}
	if skills := c.Query("skills"); skills != "" {
		filter.Skills = strings.Split(skills, ",")
	}

	jobs, meta, err := h.svc.Jobs.List(c.Request.Context(), filter, pageFromQuery(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, newPaginated(jobs, meta))
}

func (h HandlerSet) GetJob(c *gin.Context) {
	job, err := h.svc.Jobs.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, job)
}

func (h HandlerSet) UpdateJob(c *gin.Context) {
	var req jobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if err := h.svc.Jobs.Update(c.Request.Context(), c.Param("id"), req.toJob(), middleware.Actor(c)); err != nil {
		h.writeError(c, err)
		return
	}
	h.GetJob(c)
}

func (h HandlerSet) DeleteJob(c *gin.Context) {
	if err := h.svc.Jobs.Delete(c.Request.Context(), c.Param("id"), middleware.Actor(c)); err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": 1})
}
