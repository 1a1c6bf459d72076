// internal/app/system/csvutil/xlsx.go
package csvutil

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// PriceListSheet is the worksheet name used for price-list workbooks.
const PriceListSheet = "Price List"

// WritePriceListXLSX writes rows as an Excel workbook with the same columns
// as the CSV export. Prices are written as numbers.
func WritePriceListXLSX(w io.Writer, rows []PriceRow) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(PriceListSheet)
	if err != nil {
		return err
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#D9E1F2"},
			Pattern: 1,
		},
	})
	if err != nil {
		return err
	}

	for col, name := range PriceListHeader {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(PriceListSheet, cell, name); err != nil {
			return err
		}
	}
	last, _ := excelize.CoordinatesToCellName(len(PriceListHeader), 1)
	if err := f.SetCellStyle(PriceListSheet, "A1", last, headerStyle); err != nil {
		return err
	}
	if err := f.SetColWidth(PriceListSheet, "A", "D", 24); err != nil {
		return err
	}

	for i, r := range rows {
		values := []any{r.ID, r.Category, r.Subcategory, r.Item,
			r.Prices.A, r.Prices.B, r.Prices.C, r.Prices.D, r.Prices.E, r.SvgPath}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := f.SetCellValue(PriceListSheet, cell, v); err != nil {
				return err
			}
		}
	}

	if err := f.DeleteSheet("Sheet1"); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// ParsePriceListXLSX reads the first worksheet of a workbook with the same
// rules as ParsePriceList.
func ParsePriceListXLSX(r io.Reader) (ParseResult, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return ParseResult{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return ParseResult{}, nil
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return ParseResult{}, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	i := 0
	return parseTable(func() ([]string, error) {
		if i >= len(records) {
			return nil, io.EOF
		}
		i++
		return records[i-1], nil
	})
}
