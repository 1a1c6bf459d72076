// internal/app/system/csvutil/pricelist.go
package csvutil

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dalemusser/canopyhub/internal/domain/models"
)

// PriceListHeader is the fixed export column order.
var PriceListHeader = []string{
	"_id", "category", "subcategory", "item",
	"prices.A", "prices.B", "prices.C", "prices.D", "prices.E",
	"svgPath",
}

// PriceRow is one parsed price-list row. ID is informational; imports match
// on the natural key.
type PriceRow struct {
	ID          string
	Category    string
	Subcategory string
	Item        string
	Prices      models.Prices
	SvgPath     string
}

// Key returns the natural key {category, subcategory, item}.
func (r PriceRow) Key() [3]string {
	return [3]string{r.Category, r.Subcategory, r.Item}
}

// RowError describes a rejected row. Line is 1-based and counts the header.
type RowError struct {
	Line   int
	Item   string
	Reason string
}

// ParseResult is the outcome of a price-list parse.
type ParseResult struct {
	Rows   []PriceRow
	Errors []RowError
}

// HasErrors reports whether any row was rejected.
func (r ParseResult) HasErrors() bool { return len(r.Errors) > 0 }

// Summary formats the first few row errors for an API message.
func (r ParseResult) Summary() string {
	if len(r.Errors) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%d row(s) rejected", len(r.Errors))
	max := 5
	if len(r.Errors) < max {
		max = len(r.Errors)
	}
	for i := 0; i < max; i++ {
		e := r.Errors[i]
		fmt.Fprintf(&b, "; line %d", e.Line)
		if e.Item != "" {
			fmt.Fprintf(&b, " (%s)", e.Item)
		}
		b.WriteString(": ")
		b.WriteString(e.Reason)
	}
	return b.String()
}

// ItemRow converts a stored item into an export row.
func ItemRow(it models.PriceItem) PriceRow {
	return PriceRow{
		ID:          it.ID.Hex(),
		Category:    it.Category,
		Subcategory: it.Subcategory,
		Item:        it.Item,
		Prices:      it.Prices,
		SvgPath:     it.SvgPath,
	}
}

// Record returns the row's cells in PriceListHeader order.
func (r PriceRow) Record() []string {
	rec := []string{r.ID, r.Category, r.Subcategory, r.Item}
	for _, band := range models.PriceBands {
		v, _ := r.Prices.Band(band)
		rec = append(rec, strconv.FormatFloat(v, 'f', -1, 64))
	}
	return append(rec, r.SvgPath)
}

// WritePriceList writes the header and one record per row.
func WritePriceList(w io.Writer, rows []PriceRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(PriceListHeader); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write(r.Record()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ParsePriceList reads a price-list CSV. The header row is required and
// columns are matched by name, so order and missing price columns are
// tolerated. Missing or blank prices are 0. Text cells are kept verbatim so
// an exported natural key imports as the same key.
func ParsePriceList(r io.Reader) (ParseResult, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && string(b) == "\ufeff" {
		_, _ = br.Discard(3)
	}
	reader := csv.NewReader(br)
	reader.FieldsPerRecord = -1
	return parseTable(reader.Read)
}

// parseTable reads a header then data records from next until io.EOF.
func parseTable(next func() ([]string, error)) (ParseResult, error) {
	header, err := next()
	if err == io.EOF {
		return ParseResult{}, nil
	}
	if err != nil {
		return ParseResult{}, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(h)] = i
	}
	if _, ok := cols["item"]; !ok {
		return ParseResult{}, fmt.Errorf("header must include an item column")
	}

	var res ParseResult
	line := 1
	for {
		rec, err := next()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			res.Errors = append(res.Errors, RowError{Line: line, Reason: err.Error()})
			continue
		}
		if len(res.Rows) >= MaxRows {
			return res, fmt.Errorf("too many rows (max %d)", MaxRows)
		}
		get := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(rec) {
				return ""
			}
			return rec[i]
		}
		fields := map[string]any{}
		for _, name := range PriceListHeader {
			if v := get(name); strings.TrimSpace(v) != "" {
				fields[name] = v
			}
		}
		if len(fields) == 0 {
			continue
		}
		row, reason := rowFromFields(fields)
		if reason != "" {
			res.Errors = append(res.Errors, RowError{Line: line, Item: row.Item, Reason: reason})
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res, nil
}

// RowsFromJSON converts decoded JSON objects shaped like export rows. Prices
// may be flat ("prices.A": 12) or nested ("prices": {"A": 12}), as numbers or
// numeric strings.
func RowsFromJSON(items []map[string]any) ParseResult {
	var res ParseResult
	for i, it := range items {
		fields := make(map[string]any, len(it))
		for k, v := range it {
			fields[k] = v
		}
		if nested, ok := it["prices"].(map[string]any); ok {
			for band, v := range nested {
				if _, flat := fields["prices."+band]; !flat {
					fields["prices."+band] = v
				}
			}
		}
		row, reason := rowFromFields(fields)
		if reason != "" {
			res.Errors = append(res.Errors, RowError{Line: i + 1, Item: row.Item, Reason: reason})
			continue
		}
		res.Rows = append(res.Rows, row)
	}
	return res
}

func rowFromFields(f map[string]any) (PriceRow, string) {
	row := PriceRow{
		ID:          strings.TrimSpace(text(f["_id"])),
		Category:    text(f["category"]),
		Subcategory: text(f["subcategory"]),
		Item:        text(f["item"]),
		SvgPath:     text(f["svgPath"]),
	}
	if strings.TrimSpace(row.Category) == "" {
		return row, "missing category"
	}
	if strings.TrimSpace(row.Item) == "" {
		return row, "missing item"
	}
	for _, band := range models.PriceBands {
		v, ok := number(f["prices."+band])
		if !ok {
			return row, fmt.Sprintf("invalid price for band %s", band)
		}
		row.Prices.SetBand(band, v)
	}
	return row, ""
}

func text(v any) string {
	switch tv := v.(type) {
	case string:
		return tv
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	}
	return ""
}

// number parses a price cell. Absent and blank values are 0.
func number(v any) (float64, bool) {
	switch tv := v.(type) {
	case nil:
		return 0, true
	case float64:
		return tv, true
	case int:
		return float64(tv), true
	case string:
		s := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(tv), "£"))
		s = strings.ReplaceAll(s, ",", "")
		if s == "" {
			return 0, true
		}
		n, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
