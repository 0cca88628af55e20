package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// XlsxExtractor renders spreadsheets as text. Each sheet with content is
// emitted under a "--- Sheet: <name> ---" header, rows rendered as cell
// values joined by " | "; blank rows and empty sheets are omitted.
type XlsxExtractor struct{}

// Extract opens the workbook and renders every sheet in file order.
func (e *XlsxExtractor) Extract(ctx context.Context, path string) Result {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return Result{Text: failDiag("Excel", err), Method: "xlsx"}
	}
	defer f.Close()

	var sheets []string
	for _, name := range f.GetSheetList() {
		rows, err := f.GetRows(name)
		if err != nil {
			continue
		}

		parts := []string{fmt.Sprintf("--- Sheet: %s ---", name)}
		for _, row := range rows {
			rendered := strings.Join(row, " | ")
			if strings.TrimSpace(rendered) != "" {
				parts = append(parts, rendered)
			}
		}
		if len(parts) > 1 {
			sheets = append(sheets, strings.Join(parts, "\n\n"))
		}
	}

	return Result{Text: strings.Join(sheets, "\n\n"), Method: "xlsx"}
}
