package api

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"flightdash/internal/domain"
)

const exportSheet = "Flights"

// export writes the filtered rows as an .xlsx download.
func (h *DashboardHandler) export(c *gin.Context) {
	criteria, ok := parseCriteria(c)
	if !ok {
		return
	}

	view, err := h.service.View(c.Request.Context(), criteria)
	if err != nil {
		writeError(c, err)
		return
	}

	f, err := buildWorkbook(view.Rows)
	if err != nil {
		writeError(c, err)
		return
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("close workbook: %v", err)
		}
	}()

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", `attachment; filename="flights.xlsx"`)
	c.Status(http.StatusOK)
	if err := f.Write(c.Writer); err != nil {
		log.Printf("write workbook: %v", err)
	}
}

func buildWorkbook(rows domain.Table) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", exportSheet); err != nil {
		return nil, err
	}

	for i, field := range domain.Fields {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetCellValue(exportSheet, cell, string(field)); err != nil {
			return nil, err
		}
	}

	for rowIdx, rec := range rows {
		values := []interface{}{
			rec.Airline,
			rec.FlightNumber,
			rec.SourceCity,
			rec.DepartureTime,
			rec.Stops,
			rec.ArrivalTime,
			rec.DestinationCity,
			rec.Class,
			rec.Duration,
			rec.DaysLeft,
			rec.Price,
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(exportSheet, cell, v); err != nil {
				return nil, fmt.Errorf("set cell %s: %w", cell, err)
			}
		}
	}
	return f, nil
}
