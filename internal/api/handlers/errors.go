package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/alligatorO15/jalali-finance/internal/logger"
	"github.com/alligatorO15/jalali-finance/internal/service"
	"github.com/alligatorO15/jalali-finance/internal/stats"
	"github.com/gin-gonic/gin"
)

var errInvalidQuery = errors.New("invalid query parameter")

// errorStatus код ответа для ошибки сервиса
func errorStatus(err error) int {
	var (
		dateErr   *jalali.DateParseError
		periodErr *stats.InvalidPeriodError
	)
	switch {
	case errors.As(err, &dateErr), errors.As(err, &periodErr):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidTransactionType),
		errors.Is(err, service.ErrInvalidTransactionStatus),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidDateRange),
		errors.Is(err, errInvalidQuery):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrTransactionNotFound), errors.Is(err, service.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrGuestDisabled):
		return http.StatusForbidden
	case errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// respondError внутренние ошибки логируются, наружу уходит только общий текст
func respondError(c *gin.Context, err error) {
	status := errorStatus(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		log := logger.FromContext(c.Request.Context())
		log.Error().Err(err).Str("path", c.FullPath()).Msg("ошибка обработки запроса")
		c.JSON(status, gin.H{"error": "internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// queryInt целый query параметр; отсутствующий дает def
func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errInvalidQuery, name, raw)
	}
	return v, nil
}

// today текущий jalali день по часам сервера, дефолт для year/month
func today() jalali.Date {
	return jalali.FromTime(time.Now())
}
