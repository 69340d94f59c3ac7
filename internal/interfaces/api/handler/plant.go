package handler

import (
	"errors"
	"fmt"
	"net/http"
	"plantreminder/internal/application/dto"
	"plantreminder/internal/application/service"
	"plantreminder/internal/domain/entity"
	appErrors "plantreminder/internal/pkg/errors"
	"plantreminder/internal/pkg/logger"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
)

// PlantHandler exposes the plant reminder operations over HTTP.
type PlantHandler struct {
	plantService service.PlantService
	now          func() time.Time
	log          logger.Logger
}

// NewPlantHandler creates a new PlantHandler. Wall-clock times in requests are
// read on now's date and in now's location; a nil now means time.Now.
func NewPlantHandler(plantService service.PlantService, now func() time.Time, log logger.Logger) *PlantHandler {
	if now == nil {
		now = time.Now
	}
	return &PlantHandler{
		plantService: plantService,
		now:          now,
		log:          log,
	}
}

// Save handles POST /plants.
func (h *PlantHandler) Save(c echo.Context) error {
	var req dto.SavePlantRequest
	if err := c.Bind(&req); err != nil {
		h.log.Warn(fmt.Sprintf("Invalid save plant request body: %v", err))
		return c.JSON(http.StatusBadRequest, dto.ErrorResponse{Message: "invalid request body"})
	}

	chosen, err := h.parseTime(req.Time)
	if err != nil {
		return h.respondError(c, err)
	}

	stored, err := h.plantService.Save(c.Request().Context(), req.ToPlant(), chosen)
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusCreated, dto.ToPlantResponse(stored))
}

// List handles GET /plants.
func (h *PlantHandler) List(c echo.Context) error {
	plants, err := h.plantService.LoadAll(c.Request().Context())
	if err != nil {
		return h.respondError(c, err)
	}
	return c.JSON(http.StatusOK, dto.ToPlantListResponse(plants))
}

// Remove handles DELETE /plants/:id.
func (h *PlantHandler) Remove(c echo.Context) error {
	id := c.Param("id")
	if err := h.plantService.Remove(c.Request().Context(), id); err != nil {
		return h.respondError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

// parseTime accepts "15:04" on the clock's date or a full RFC3339 timestamp.
func (h *PlantHandler) parseTime(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, fmt.Errorf("%w: time is required", appErrors.ErrInvalidTime)
	}
	if at, err := entity.ParseTimeOfDay(raw); err == nil {
		today := h.now()
		return time.Date(today.Year(), today.Month(), today.Day(), at.Hour, at.Minute, 0, 0, today.Location()), nil
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is neither HH:MM nor RFC3339", appErrors.ErrInvalidTime, raw)
	}
	return t, nil
}

func (h *PlantHandler) respondError(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, appErrors.ErrInvalidPlant), errors.Is(err, appErrors.ErrInvalidTime):
		status = http.StatusBadRequest
	case errors.Is(err, appErrors.ErrNoPlants):
		status = http.StatusNotFound
	case errors.Is(err, appErrors.ErrScheduling):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		h.log.Error(fmt.Sprintf("Request %s %s failed", c.Request().Method, c.Request().URL.Path), err)
	}
	return c.JSON(status, dto.ErrorResponse{Message: err.Error()})
}
