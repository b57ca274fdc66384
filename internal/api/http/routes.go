package httpapi

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/text/unicode/norm"

	"github.com/greenroot/growth-data-aggregation/internal/dataset"
	"github.com/greenroot/growth-data-aggregation/internal/export"
	"github.com/greenroot/growth-data-aggregation/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *dataset.Service) {
	v1 := app.Group("/api/v1")

	v1.Get("/overview", func(c *fiber.Ctx) error {
		ov, err := service.GetOverview()
		if err != nil {
			return mapStoreError(err)
		}
		return c.JSON(ov)
	})

	v1.Get("/environment/summary", func(c *fiber.Ctx) error {
		rows, err := service.GetEnvironmentSummary()
		if err != nil {
			return mapStoreError(err)
		}
		return c.JSON(fiber.Map{"rows": rows})
	})

	v1.Get("/environment/stability", func(c *fiber.Ctx) error {
		rows, err := service.GetStability()
		if err != nil {
			return mapStoreError(err)
		}
		return c.JSON(fiber.Map{"rows": rows})
	})

	v1.Get("/environment/series", func(c *fiber.Ctx) error {
		school, err := parseSchoolQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		records, err := service.GetEnvironmentSeries(school)
		if err != nil {
			return mapStoreError(err)
		}
		target, _ := dataset.ECFor(school)
		return c.JSON(fiber.Map{
			"school":   school,
			"targetEc": target,
			"records":  records,
		})
	})

	v1.Get("/growth/performance", func(c *fiber.Ctx) error {
		rows, err := service.GetGrowthPerformance()
		if err != nil {
			return mapStoreError(err)
		}
		return c.JSON(fiber.Map{"rows": rows})
	})

	v1.Get("/growth/best-ec", func(c *fiber.Ctx) error {
		best, err := service.GetBestEC()
		if err != nil {
			return mapStoreError(err)
		}
		return c.JSON(best)
	})

	v1.Get("/growth/records", func(c *fiber.Ctx) error {
		school, err := parseSchoolQuery(c)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		records, err := service.GetGrowthRecords(school)
		if err != nil {
			return mapStoreError(err)
		}
		return c.JSON(fiber.Map{
			"school":  school,
			"records": records,
		})
	})

	v1.Get("/export/environment.csv", func(c *fiber.Ctx) error {
		data, err := service.AllEnvironment()
		if err != nil {
			return mapStoreError(err)
		}
		body, err := export.EnvironmentCSV(data)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build csv export")
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="environment_all.csv"`)
		return c.Send(body)
	})

	v1.Get("/export/growth.xlsx", func(c *fiber.Ctx) error {
		data, err := service.AllGrowth()
		if err != nil {
			return mapStoreError(err)
		}
		body, err := export.GrowthWorkbook(data)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build workbook export")
		}
		return sendWorkbook(c, "growth_all.xlsx", body)
	})

	v1.Get("/export/performance.xlsx", func(c *fiber.Ctx) error {
		rows, err := service.GetGrowthPerformance()
		if err != nil {
			return mapStoreError(err)
		}
		body, err := export.PerformanceWorkbook(rows)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to build workbook export")
		}
		return sendWorkbook(c, "performance.xlsx", body)
	})
}

// schoolQuery holds the query parameter identifying a school.
type schoolQuery struct {
	School string `validate:"required"`
}

// parseSchoolQuery binds and validates the school parameter. The value is
// NFC-normalized before lookup: clients on NFD filesystems may paste school
// names in decomposed form.
func parseSchoolQuery(c *fiber.Ctx) (dataset.School, error) {
	q := schoolQuery{School: c.Query("school")}
	if err := validate.Struct(q); err != nil {
		return "", err
	}

	school := dataset.School(norm.NFC.String(q.School))
	if _, ok := dataset.ECFor(school); !ok {
		return "", errors.New("unknown school: " + q.School)
	}
	return school, nil
}

func mapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotLoaded):
		return fiber.NewError(fiber.StatusServiceUnavailable, "datasets not loaded")
	case errors.Is(err, store.ErrNoSchool):
		return fiber.NewError(fiber.StatusNotFound, "no records for requested school")
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to read dataset")
	}
}

func sendWorkbook(c *fiber.Ctx, filename string, body []byte) error {
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(body)
}
