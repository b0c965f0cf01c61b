package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/bodega-api/internal/application/dto"
)

const dateLayout = "2006-01-02"

// parseDate acepta YYYY-MM-DD o RFC3339. Con endOfDay una fecha sin hora cubre el día completo.
func parseDate(s string, endOfDay bool) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(dateLayout, s, time.Local)
	if err != nil {
		return nil, err
	}
	if endOfDay {
		t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
	}
	return &t, nil
}

// dateRange lee start_date y end_date. Si falla ya escribió la respuesta 400 y devuelve ok=false.
func dateRange(c *fiber.Ctx) (from, to *time.Time, ok bool, err error) {
	from, perr := parseDate(c.Query("start_date"), false)
	if perr != nil {
		return nil, nil, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "start_date inválida"})
	}
	to, perr = parseDate(c.Query("end_date"), true)
	if perr != nil {
		return nil, nil, false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_DATE", Message: "end_date inválida"})
	}
	return from, to, true, nil
}

// pageQuery lee limit/offset de la query.
func pageQuery(c *fiber.Ctx) dto.PageRequest {
	p := dto.PageRequest{Limit: c.QueryInt("limit", dto.DefaultPageLimit), Offset: c.QueryInt("offset", 0)}
	p.DefaultPage()
	return p
}
