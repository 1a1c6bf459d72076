package csvutil

import (
	"bytes"
	"testing"

	"github.com/dalemusser/canopyhub/internal/domain/models"
	"github.com/xuri/excelize/v2"
)

func TestPriceListXLSX_RoundTrip(t *testing.T) {
	in := []PriceRow{
		{ID: "64b000000000000000000001", Category: "Canopy", Subcategory: "Wall", Item: "Filter", Prices: models.Prices{A: 10, B: 12.5}},
		{Category: "Ductwork", Item: "Bend", Prices: models.Prices{E: 3}, SvgPath: "/svg/bend.svg"},
	}
	var buf bytes.Buffer
	if err := WritePriceListXLSX(&buf, in); err != nil {
		t.Fatalf("WritePriceListXLSX() error = %v", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("OpenReader() error = %v", err)
	}
	if got := f.GetSheetList(); len(got) != 1 || got[0] != PriceListSheet {
		t.Errorf("sheets = %v, want [%s]", got, PriceListSheet)
	}
	if v, _ := f.GetCellValue(PriceListSheet, "E1"); v != "prices.A" {
		t.Errorf("E1 = %q, want prices.A", v)
	}
	f.Close()

	res, err := ParsePriceListXLSX(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("ParsePriceListXLSX() error = %v", err)
	}
	if res.HasErrors() || len(res.Rows) != 2 {
		t.Fatalf("rows=%d errors=%v", len(res.Rows), res.Errors)
	}
	for i := range in {
		if res.Rows[i].Key() != in[i].Key() || res.Rows[i].Prices != in[i].Prices {
			t.Errorf("row %d = %+v, want %+v", i, res.Rows[i], in[i])
		}
	}
}
