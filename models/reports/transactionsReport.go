package reports

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/financelog/finance_backend/config"
	"github.com/financelog/finance_backend/utils"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

type TransactionReportRow struct {
	Date         time.Time       `json:"Date"`
	Description  string          `json:"Description"`
	Type         string          `json:"Type"`
	Amount       decimal.Decimal `json:"Amount"`
	AccountName  *string         `json:"AccountName,omitempty"`
	CategoryName *string         `json:"CategoryName,omitempty"`
	Tags         string          `json:"Tags"`
}

func GetTransactionsReport(ctx context.Context, userId int, fromDate, toDate *utils.CalendarDate) ([]*TransactionReportRow, error) {

	sql := `
SELECT
    transactions.date,
    transactions.description,
    transactions.type,
    transactions.amount,
    transactions.tags,
    accounts.name AS account_name,
    categories.name AS category_name
FROM
    transactions
        LEFT JOIN
    accounts ON accounts.id = transactions.account_id
        LEFT JOIN
    categories ON categories.id = transactions.category_id
WHERE
    transactions.user_id = @userId
        AND transactions.date BETWEEN @fromDate AND @toDate
ORDER BY transactions.date;
`

	from := time.Date(1970, 1, 1, 0, 0, 0, 0, time.UTC)
	if fromDate != nil {
		from = fromDate.Time()
	}
	to := time.Now().UTC()
	if toDate != nil {
		to = toDate.Time()
	}

	var records []*TransactionReportRow
	db := config.GetDB()
	if err := db.WithContext(ctx).Raw(sql, map[string]interface{}{
		"userId":   userId,
		"fromDate": from,
		"toDate":   to,
	}).Scan(&records).Error; err != nil {
		return nil, err
	}

	return records, nil
}

func (r TransactionReportRow) GetCellValues() []interface{} {
	account := ""
	if r.AccountName != nil {
		account = *r.AccountName
	}
	category := ""
	if r.CategoryName != nil {
		category = *r.CategoryName
	}
	return []interface{}{
		utils.CalendarDateOf(r.Date.UTC()).String(),
		r.Description,
		r.Type,
		r.Amount,
		account,
		category,
		r.Tags,
	}
}

var transactionReportHeadings = []string{
	"Date", "Description", "Type", "Amount", "Account", "Category", "Tags",
}

// WriteTransactionsXLSX streams the report as an XLSX workbook.
func WriteTransactionsXLSX(w io.Writer, records []*TransactionReportRow) error {

	f := excelize.NewFile()
	sheetName := "Sheet1"
	if _, err := f.NewSheet(sheetName); err != nil {
		return err
	}

	col := 'A'
	for _, h := range transactionReportHeadings {
		if err := f.SetCellValue(sheetName, string(col)+"1", h); err != nil {
			return err
		}
		col++
	}

	rowNo := 2
	for _, r := range records {
		col := 'A'
		for _, value := range r.GetCellValues() {
			if err := f.SetCellValue(sheetName, string(col)+fmt.Sprint(rowNo), value); err != nil {
				return err
			}
			col++
		}
		rowNo++
	}

	return f.Write(w)
}
