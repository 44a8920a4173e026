package countries

import (
	"errors"
	"net/url"

	"countrypulse/core/logger"
	"countrypulse/feature/countries/models"
	"countrypulse/feature/countries/source"
	"countrypulse/feature/countries/summary"

	"github.com/gofiber/fiber/v2"
	"github.com/jszwec/csvutil"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the countries feature.
type Handler struct {
	service   *Service
	artifacts *summary.ArtifactStore
	logger    *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, artifacts *summary.ArtifactStore, logger *zap.Logger) *Handler {
	return &Handler{service: service, artifacts: artifacts, logger: logger}
}

// RegisterRoutes registers the countries routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/countries")
	group.Post("/refresh", h.HandleRefresh)
	group.Get("/", h.HandleList)
	group.Get("/export.csv", h.HandleExportCSV)
	group.Get("/image", h.HandleSummaryImage)
	group.Get("/:name", h.HandleGet)
	group.Delete("/:name", h.HandleDelete)

	app.Get("/status", h.HandleStatus)
}

// HandleRefresh runs one refresh cycle.
// @Summary Refresh the country dataset
// @Description Fetches both external sources, reconciles and persists the full dataset atomically.
// @Tags countries
// @Produce json
// @Success 200 {object} models.RefreshResponse "Refresh outcome"
// @Failure 503 {object} map[string]string "External source unavailable"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /countries/refresh [post]
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRayID(h.logger, c)

	res, err := h.service.Refresh(c.Context())
	if err != nil {
		if errors.Is(err, source.ErrSourceUnavailable) || errors.Is(err, source.ErrSourceInvalid) {
			l.Warn("Refresh aborted", zap.Error(err))
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
				"error":   "External data source unavailable",
				"details": err.Error(),
			})
		}
		l.Error("Refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	return c.JSON(models.RefreshResponse{
		Message:         "Refresh completed",
		TotalCountries:  res.Total,
		LastRefreshedAt: res.RefreshedAt,
	})
}

// HandleList returns the filtered, sorted dataset.
// @Summary List countries
// @Description List reconciled country records with optional filters and sorting.
// @Tags countries
// @Produce json
// @Param region query string false "Exact region match"
// @Param currency query string false "Exact currency code match"
// @Param sort query string false "Sort key" Enums(name_asc, gdp_desc, gdp_asc, population_desc, population_asc)
// @Success 200 {array} models.Country "Countries"
// @Failure 400 {object} map[string]string "Invalid sort key"
// @Router /countries [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	f, err := h.filterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	records, err := h.service.List(c.Context(), f)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("List failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	if records == nil {
		records = []models.Country{}
	}
	return c.JSON(records)
}

// HandleExportCSV returns the same filtered list as CSV.
// @Summary Export countries as CSV
// @Tags countries
// @Produce text/csv
// @Param region query string false "Exact region match"
// @Param currency query string false "Exact currency code match"
// @Param sort query string false "Sort key"
// @Success 200 {string} string "CSV document"
// @Router /countries/export.csv [get]
func (h *Handler) HandleExportCSV(c *fiber.Ctx) error {
	f, err := h.filterFromQuery(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	records, err := h.service.List(c.Context(), f)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("CSV export failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	rows := lo.Map(records, func(r models.Country, _ int) models.CountryCSVRow {
		return models.CountryCSVRow{
			Name:         r.Name,
			Capital:      r.Capital,
			Region:       r.Region,
			Population:   r.Population,
			CurrencyCode: r.CurrencyCode,
			ExchangeRate: r.ExchangeRate,
			EstimatedGdp: r.EstimatedGdp,
		}
	})

	data, err := csvutil.Marshal(rows)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("CSV encoding failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	c.Set(fiber.HeaderContentType, "text/csv")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="countries.csv"`)
	return c.Send(data)
}

// HandleGet returns a single record by name, case-insensitively.
// @Summary Get a country
// @Tags countries
// @Produce json
// @Param name path string true "Country name (case-insensitive)"
// @Success 200 {object} models.Country "Country"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /countries/{name} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	record, err := h.service.Get(c.Context(), pathName(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Country not found",
			})
		}
		logger.WithRayID(h.logger, c).Error("Get failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(record)
}

// HandleDelete removes a single record by name, case-insensitively.
// @Summary Delete a country
// @Tags countries
// @Param name path string true "Country name (case-insensitive)"
// @Success 204 "Deleted"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /countries/{name} [delete]
func (h *Handler) HandleDelete(c *fiber.Ctx) error {
	err := h.service.Delete(c.Context(), pathName(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Country not found",
			})
		}
		logger.WithRayID(h.logger, c).Error("Delete failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleStatus returns the refresh bookkeeping row.
// @Summary Get refresh status
// @Tags countries
// @Produce json
// @Success 200 {object} models.RefreshStatus "Status"
// @Router /status [get]
func (h *Handler) HandleStatus(c *fiber.Ctx) error {
	st, err := h.service.Status(c.Context())
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Status failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}
	return c.JSON(st)
}

// HandleSummaryImage serves the most recently generated summary artifact.
// @Summary Get the summary image
// @Tags countries
// @Produce image/svg+xml
// @Success 200 {string} string "SVG document"
// @Failure 404 {object} map[string]string "No artifact yet"
// @Router /countries/image [get]
func (h *Handler) HandleSummaryImage(c *fiber.Ctx) error {
	data, err := h.artifacts.Fetch(c.Context())
	if err != nil {
		if errors.Is(err, summary.ErrNoArtifact) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Summary image not generated yet",
			})
		}
		logger.WithRayID(h.logger, c).Error("Summary fetch failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Internal server error",
		})
	}

	c.Set(fiber.HeaderContentType, summary.ContentType)
	return c.Send(data)
}

// pathName returns the :name path segment with percent-encoding removed.
// The router hands the segment through raw, so "South%20Africa" must be
// unescaped before the case-insensitive lookup.
func pathName(c *fiber.Ctx) string {
	raw := c.Params("name")
	name, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return name
}

func (h *Handler) filterFromQuery(c *fiber.Ctx) (Filter, error) {
	sort, err := ParseSortKey(c.Query("sort"))
	if err != nil {
		return Filter{}, err
	}
	return Filter{
		Region:   c.Query("region"),
		Currency: c.Query("currency"),
		Sort:     sort,
	}, nil
}
