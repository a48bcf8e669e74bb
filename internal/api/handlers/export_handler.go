package handlers

import (
	"fmt"
	"net/http"

	"github.com/alligatorO15/jalali-finance/internal/api/middleware"
	"github.com/alligatorO15/jalali-finance/internal/service"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	exportService service.ExportService
}

func NewExportHandler(exportService service.ExportService) *ExportHandler {
	return &ExportHandler{exportService: exportService}
}

func (h *ExportHandler) GetYearly(c *gin.Context) {
	year, err := queryInt(c, "year", today().Year)
	if err != nil {
		respondError(c, err)
		return
	}

	data, err := h.exportService.YearlyXLSX(c.Request.Context(), middleware.GetUserID(c), year)
	if err != nil {
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="report-%d.xlsx"`, year))
	c.Data(http.StatusOK, xlsxContentType, data)
}
