package catalogapi

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/araddon/dateparse"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/openmart/catalog/internal/app"
	"github.com/openmart/catalog/internal/webserver"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// GetDB returns the request-scoped gorm handle
func GetDB(c echo.Context) *gorm.DB {
	return c.Get(webserver.DBContextKey).(*gorm.DB)
}

// GetApp returns the application context
func GetApp(c echo.Context) app.AppContext {
	return c.Get(webserver.AppContextKey).(app.AppContext)
}

func ok(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusOK, data)
}

func created(c echo.Context, data interface{}) error {
	return c.JSON(http.StatusCreated, data)
}

func fail(c echo.Context, status int, code, msg string, detail interface{}) error {
	resp := echo.Map{"code": code, "message": msg}
	if detail != nil {
		resp["detail"] = detail
	}
	return c.JSON(status, resp)
}

func paged(c echo.Context, rows interface{}, total int64, page, pageSize int) error {
	return c.JSON(http.StatusOK, echo.Map{
		"count":     total,
		"page":      page,
		"page_size": pageSize,
		"results":   rows,
	})
}

func parsePagination(c echo.Context) (int, int) {
	settings := GetApp(c)
	pageSize := int(settings.GetSettingsInt64Value("system", "page_size"))
	if pageSize <= 0 {
		pageSize = 20
	}
	maxPageSize := int(settings.GetSettingsInt64Value("system", "max_page_size"))
	if maxPageSize <= 0 {
		maxPageSize = 100
	}

	page := 1
	if p, err := strconv.Atoi(c.QueryParam("page")); err == nil && p > 0 {
		page = p
	}
	if ps, err := strconv.Atoi(c.QueryParam("page_size")); err == nil && ps > 0 {
		if ps > maxPageSize {
			ps = maxPageSize
		}
		pageSize = ps
	}
	return page, pageSize
}

func parseIDParam(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// handleValidationError converts validator errors into a per-field
// error-message map keyed by json field name
func handleValidationError(c echo.Context, err error) error {
	verrs, isValidation := err.(validator.ValidationErrors)
	if !isValidation {
		return fail(c, http.StatusBadRequest, "INVALID_REQUEST", "Request validation failed", err.Error())
	}
	fieldErrors := map[string][]string{}
	for _, fe := range verrs {
		fieldErrors[fe.Field()] = append(fieldErrors[fe.Field()], validationMessage(fe))
	}
	return fail(c, http.StatusBadRequest, "VALIDATION_ERROR", "Request validation failed", fieldErrors)
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "url":
		return "Enter a valid URL."
	case "email":
		return "Enter a valid email address."
	case "min":
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return "Enter a valid value."
	}
}

// validPrice enforces the decimal(10,2) column: two decimal places,
// at most eight integer digits
func validPrice(d decimal.Decimal) bool {
	if d.Exponent() < -2 {
		return false
	}
	return d.Abs().LessThan(decimal.New(1, 8))
}

// parseSaleDate accepts any common date layout and truncates to the day
func parseSaleDate(value string) (*time.Time, error) {
	d, err := dateparse.ParseAny(value)
	if err != nil {
		return nil, err
	}
	day := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	return &day, nil
}
