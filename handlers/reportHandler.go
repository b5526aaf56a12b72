package handlers

import (
	"github.com/financelog/finance_backend/models/reports"
	"github.com/gin-gonic/gin"
)

// ExportTransactionsHandler streams the user's transactions as an XLSX
// workbook, optionally bounded by start_date / end_date.
func ExportTransactionsHandler(c *gin.Context) {
	startDate, ok := queryDate(c, "start_date")
	if !ok {
		return
	}
	endDate, ok := queryDate(c, "end_date")
	if !ok {
		return
	}

	records, err := reports.GetTransactionsReport(c.Request.Context(), currentUserId(c), startDate, endDate)
	if err != nil {
		respondError(c, "reportHandler.go", "ExportTransactionsHandler", err)
		return
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", "attachment; filename=transactions.xlsx")
	if err := reports.WriteTransactionsXLSX(c.Writer, records); err != nil {
		respondError(c, "reportHandler.go", "ExportTransactionsHandler", err)
	}
}
