// internal/app/features/pricelist/export.go
package pricelist

import (
	"fmt"
	"net/http"
	"time"

	pricestore "github.com/dalemusser/canopyhub/internal/app/store/pricelist"
	"github.com/dalemusser/canopyhub/internal/app/system/csvutil"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// ServeExport handles GET /export (?category=, ?format=csv|xlsx).
// Columns are always _id, category, subcategory, item, prices.A..E, svgPath.
func (h *Handler) ServeExport(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "xlsx" {
		respond.BadRequest(w, "format must be csv or xlsx")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "price list export")
	defer cancel()

	items, err := pricestore.New(h.DB).List(ctx, r.URL.Query().Get("category"))
	if err != nil {
		respond.ServerError(w, h.Log, "Error exporting price list", err)
		return
	}
	rows := make([]csvutil.PriceRow, 0, len(items))
	for _, it := range items {
		rows = append(rows, csvutil.ItemRow(it))
	}

	name := "price-list-" + time.Now().UTC().Format("2006-01-02")
	if format == "xlsx" {
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
		err = csvutil.WritePriceListXLSX(w, rows)
	} else {
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
		err = csvutil.WritePriceList(w, rows)
	}
	if err != nil {
		// Headers are already out; all we can do is log.
		h.Log.Error("price list export write failed", zap.String("format", format), zap.Error(err))
	}
}
