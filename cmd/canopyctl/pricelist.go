package main

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

var exportFormat string

var priceListCmd = &cobra.Command{
	Use:     "pricelist",
	Aliases: []string{"prices"},
	Short:   "Export and import the price list",
}

var priceExportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "Download the price list as CSV or XLSX (stdout when no file)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newClient()
		if err != nil {
			return err
		}
		var buf bytes.Buffer
		if err := c.ExportPriceList(cmd.Context(), exportFormat, &buf); err != nil {
			return err
		}
		if len(args) == 0 {
			_, err := io.Copy(cmd.OutOrStdout(), &buf)
			return err
		}
		return os.WriteFile(args[0], buf.Bytes(), 0o644)
	},
}

var priceImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Upsert price list rows from a CSV, XLSX or JSON file",
	Long: `Import sends the file as is. Rows are matched on category, subcategory and
item; nothing is written when any row is invalid.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		c, err := newClient()
		if err != nil {
			return err
		}
		sum, err := c.ImportPriceList(cmd.Context(), f, contentTypeFor(args[0]))
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%d rows: %d inserted, %d updated, %d unchanged\n",
			sum.Rows, sum.Inserted, sum.Updated, sum.Unchanged)
		return nil
	},
}

func init() {
	priceExportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "csv or xlsx")
	priceListCmd.AddCommand(priceExportCmd, priceImportCmd)
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return xlsxContentType
	case ".json":
		return "application/json"
	}
	return "text/csv"
}
