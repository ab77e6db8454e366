package utils

import (
	"event_manager/apperror"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// AppErrorResponse writes err using its apperror kind. Unknown errors become INTERNAL.
func AppErrorResponse(c *fiber.Ctx, err error) error {
	appErr := apperror.From(err)
	if appErr.Kind == apperror.Internal {
		zap.L().Error("request failed",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.Error(err))
	}

	body := fiber.Map{
		"message": appErr.Message,
		"error":   nil,
		"reason":  appErr.Kind,
	}
	if appErr.Err != nil && appErr.Kind != apperror.Internal {
		body["error"] = appErr.Err.Error()
	}
	if len(appErr.Details) > 0 {
		body["details"] = appErr.Details
	}
	return c.Status(appErr.Status()).JSON(body)
}

func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func SuccessResponse(c *fiber.Ctx, status int, data any) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// NormalizePagination clamps limit to [1, 100] and page to >= 1.
func NormalizePagination(limit, page *int) (int, int) {
	l, p := 10, 1
	if limit != nil && *limit > 0 {
		l = *limit
		if l > 100 {
			l = 100
		}
	}
	if page != nil && *page > 0 {
		p = *page
	}
	return l, p
}

func ApplyPagination(query *gorm.DB, limit, page *int) *gorm.DB {
	if limit != nil && *limit > 0 && page != nil && *page >= 1 {
		query = query.Limit(*limit)
		offset := *limit * (*page - 1)
		query = query.Offset(offset)
	}

	return query
}

// LikePattern builds a case-insensitive LIKE argument for a search key.
func LikePattern(key string) string {
	return "%" + strings.ToLower(strings.TrimSpace(key)) + "%"
}

func IsValidMMYYYY(dateStr string) bool {
	if len(dateStr) != 7 {
		return false
	}
	parts := strings.Split(dateStr, "-")
	if len(parts) != 2 {
		return false
	}

	month, err := strconv.Atoi(parts[0])
	if err != nil || month < 1 || month > 12 {
		return false
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil || year < 1900 || year > 9999 {
		return false
	}
	_, err = time.Parse("01-2006", dateStr)
	return err == nil
}

func CalculateGrowth(today, yesterday float64) float64 {
	if yesterday == 0 {
		if today == 0 {
			return 0
		}
		return 100
	}
	return ((today - yesterday) / yesterday) * 100
}

func Ptr[T any](v T) *T {
	return &v
}
