package handler

import (
	"errors"

	"github.com/gofiber/fiber/v3"

	"jobboard/internal/delivery/http/dto"
	"jobboard/internal/delivery/http/middleware"
	"jobboard/internal/domain/job"
	"jobboard/internal/pkg/response"
	"jobboard/internal/usecase"
)

type JobsHandler struct {
	list usecase.JobListUsecase
	jobs usecase.JobUsecase
}

func NewJobsHandler(list usecase.JobListUsecase, jobs usecase.JobUsecase) *JobsHandler {
	return &JobsHandler{list: list, jobs: jobs}
}

// RegisterRoutes mounts the read routes publicly. Creation runs behind
// authenticate and authorize, in that order.
func (h *JobsHandler) RegisterRoutes(r fiber.Router, authenticate, authorize fiber.Handler) {
	r.Get("", h.List)
	r.Get("/:id", h.Get)
	r.Post("", authenticate, authorize, h.Create)
}

func (h *JobsHandler) List(c fiber.Ctx) error {
	q := dto.JobQuery{
		Search:          c.Query("search"),
		Location:        c.Query("location"),
		Remote:          c.Query("remote"),
		SalaryMin:       c.Query("salaryMin"),
		SalaryMax:       c.Query("salaryMax"),
		Type:            c.Query("type"),
		ExperienceLevel: c.Query("experienceLevel"),
	}
	f, err := q.Filter()
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid query", nil, err)
	}

	items, err := h.list.ListJobs(c.Context(), f)
	if err != nil {
		return mapJobsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, items)
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	j, err := h.jobs.GetJob(c.Context(), c.Params("id"))
	if err != nil {
		return mapJobsUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, j)
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	var req job.NewJob
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	j, err := h.jobs.CreateJob(c.Context(), req)
	if err != nil {
		return mapJobsUsecaseError(err)
	}
	return response.Created(c, j)
}

func mapJobsUsecaseError(err error) error {
	switch {
	case errors.Is(err, usecase.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, response.MessageNotFound, nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Validation failed", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
