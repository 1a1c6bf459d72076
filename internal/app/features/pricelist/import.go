// internal/app/features/pricelist/import.go
package pricelist

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	pricestore "github.com/dalemusser/canopyhub/internal/app/store/pricelist"
	"github.com/dalemusser/canopyhub/internal/app/system/csvutil"
	"github.com/dalemusser/canopyhub/internal/app/system/respond"
	"github.com/dalemusser/canopyhub/internal/app/system/timeouts"
	"go.uber.org/zap"
)

// importResponse is returned by a successful import.
type importResponse struct {
	pricestore.ImportResult
	Rows int `json:"rows"`
}

// HandleImport handles POST /import. The body is one of:
//
//	application/json     array of export-shaped objects
//	text/csv             the export CSV
//	xlsx content type    the export workbook
//	multipart/form-data  a "file" part holding CSV or XLSX
//
// Rows are upserted by {category, subcategory, item}. If any row is invalid
// nothing is written and the 400 lists the rejected rows.
func (h *Handler) HandleImport(w http.ResponseWriter, r *http.Request) {
	limit := h.importLimit()
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	parsed, err := parseImport(r)
	if err != nil {
		msg := "Import could not be read: " + err.Error()
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			msg = fmt.Sprintf("Import is too large. Maximum size is %d KB.", limit>>10)
		}
		respond.BadRequest(w, msg)
		return
	}
	if parsed.HasErrors() {
		respond.BadRequest(w, parsed.Summary())
		return
	}
	if len(parsed.Rows) == 0 {
		respond.BadRequest(w, "Import contains no rows")
		return
	}
	if len(parsed.Rows) > csvutil.MaxRows {
		respond.BadRequest(w, fmt.Sprintf("Import has %d rows; the limit is %d", len(parsed.Rows), csvutil.MaxRows))
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Batch(), h.Log, "price list import")
	defer cancel()

	res, err := pricestore.New(h.DB).Upsert(ctx, parsed.Rows)
	if err != nil {
		respond.ServerError(w, h.Log, "Error importing price list", err, zap.Int("rows", len(parsed.Rows)))
		return
	}
	h.Log.Info("price list imported",
		zap.Int("rows", len(parsed.Rows)),
		zap.Int64("inserted", res.Inserted),
		zap.Int64("updated", res.Updated))
	respond.OK(w, importResponse{ImportResult: res, Rows: len(parsed.Rows)})
}

func parseImport(r *http.Request) (csvutil.ParseResult, error) {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch {
	case mt == "multipart/form-data":
		file, hdr, err := r.FormFile("file")
		if err != nil {
			return csvutil.ParseResult{}, fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()
		if strings.HasSuffix(strings.ToLower(hdr.Filename), ".xlsx") || hdr.Header.Get("Content-Type") == xlsxContentType {
			return csvutil.ParsePriceListXLSX(file)
		}
		return csvutil.ParsePriceList(file)
	case mt == xlsxContentType:
		return csvutil.ParsePriceListXLSX(r.Body)
	case mt == "text/csv" || mt == "text/plain":
		return csvutil.ParsePriceList(r.Body)
	default:
		var items []map[string]any
		if err := json.NewDecoder(r.Body).Decode(&items); err != nil {
			if errors.Is(err, io.EOF) {
				return csvutil.ParseResult{}, respond.ErrEmptyBody
			}
			return csvutil.ParseResult{}, err
		}
		return csvutil.RowsFromJSON(items), nil
	}
}
