package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/alligatorO15/jalali-finance/internal/service"
	"github.com/alligatorO15/jalali-finance/internal/stats"
	"github.com/gin-gonic/gin"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"date parse", &jalali.DateParseError{Raw: "x"}, http.StatusBadRequest},
		{"wrapped period", fmt.Errorf("load: %w", &stats.InvalidPeriodError{Field: "month", Value: 13}), http.StatusBadRequest},
		{"amount", service.ErrInvalidAmount, http.StatusBadRequest},
		{"range", fmt.Errorf("%w: x", service.ErrInvalidDateRange), http.StatusBadRequest},
		{"query", fmt.Errorf("%w: year", errInvalidQuery), http.StatusBadRequest},
		{"not found", service.ErrTransactionNotFound, http.StatusNotFound},
		{"credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"guest disabled", service.ErrGuestDisabled, http.StatusForbidden},
		{"user exists", service.ErrUserExists, http.StatusConflict},
		{"unknown", errors.New("connection refused"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := errorStatus(tt.err); got != tt.want {
				t.Errorf("errorStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestRespondErrorHidesInternalErrors(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(c, errors.New("dial tcp 10.0.0.1:5432: connection refused"))

	if w.Code != http.StatusInternalServerError {
		t.Errorf("status = %d, want 500", w.Code)
	}
	if strings.Contains(w.Body.String(), "10.0.0.1") {
		t.Errorf("internal error leaked: %s", w.Body.String())
	}
	if len(c.Errors) != 1 {
		t.Errorf("error not attached to context: %v", c.Errors)
	}
}
