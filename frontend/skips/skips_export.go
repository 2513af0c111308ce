package skips

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{
	"id", "size", "size_label", "hire_period_days", "price", "price_numeric",
	"price_before_vat", "vat_amount", "vat_rate", "transport_cost", "per_tonne_cost",
	"road_legal", "heavy_waste", "bin_bags", "description", "image",
}

func exportRow(s SkipViewModel) []string {
	return []string{
		strconv.FormatInt(s.ID, 10),
		strconv.Itoa(s.Size),
		s.SizeLabel,
		strconv.Itoa(s.HirePeriodDays),
		s.Price,
		strconv.FormatInt(s.PriceNumeric, 10),
		s.PriceBeforeVAT,
		s.VATAmount,
		s.VATRate.String(),
		nullString(s.TransportCost.Valid, s.TransportCost.Decimal.String()),
		nullString(s.PerTonneCost.Valid, s.PerTonneCost.Decimal.String()),
		yesNo(s.RoadLegal),
		yesNo(s.HeavyWasteSuitable),
		s.Capacity.BinBags,
		s.Capacity.Description,
		s.ImageURL,
	}
}

// WriteCSV writes the list in display order with a header row.
func WriteCSV(w io.Writer, list []SkipViewModel) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(exportHeader); err != nil {
		return err
	}
	for _, s := range list {
		if err := writer.Write(exportRow(s)); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

const xlsxSheet = "Skips"

// RenderXLSX builds a workbook of the displayed list under a title and summary row.
func RenderXLSX(data PageData) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), xlsxSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}

	titleStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 16}})
	if err != nil {
		return nil, fmt.Errorf("create title style: %w", err)
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF", Size: 11},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#2563EB"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	lastCol, err := excelize.ColumnNumberToName(len(exportHeader))
	if err != nil {
		return nil, err
	}

	_ = f.MergeCell(xlsxSheet, "A1", lastCol+"1")
	_ = f.SetCellValue(xlsxSheet, "A1", "Available Skip Sizes")
	_ = f.SetCellStyle(xlsxSheet, "A1", lastCol+"1", titleStyle)

	_ = f.MergeCell(xlsxSheet, "A2", lastCol+"2")
	_ = f.SetCellValue(xlsxSheet, "A2", summaryLine(data))

	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		_ = f.SetCellValue(xlsxSheet, cell, h)
	}
	_ = f.SetCellStyle(xlsxSheet, "A4", lastCol+"4", headerStyle)
	_ = f.SetPanes(xlsxSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      4,
		TopLeftCell: "A5",
		ActivePane:  "bottomLeft",
	})

	for rowIdx, s := range data.Skips {
		values := exportRow(s)
		for colIdx, v := range values {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+5)
			switch colIdx {
			case 0, 1, 3, 5:
				n, _ := strconv.ParseInt(v, 10, 64)
				_ = f.SetCellValue(xlsxSheet, cell, n)
			default:
				_ = f.SetCellValue(xlsxSheet, cell, v)
			}
		}
	}
	_ = f.SetColWidth(xlsxSheet, "A", lastCol, 14)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func summaryLine(data PageData) string {
	line := fmt.Sprintf("Showing %d of %d skips, sorted by %s", len(data.Skips), data.Total, data.Filters.SortBy)
	if data.Filters.RoadLegalOnly {
		line += ", road legal only"
	}
	if data.Filters.HeavyWasteOnly {
		line += ", heavy waste suitable"
	}
	return line
}

func nullString(valid bool, v string) string {
	if !valid {
		return ""
	}
	return v
}
