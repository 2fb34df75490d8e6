package ingest

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/xuri/excelize/v2"

	"insights-dashboard/internal/model"
)

// NullCell marks an absent value in tabular exports and imports. An empty
// cell is a present, empty value.
const NullCell = `\N`

// Columns is the column order used for tabular export. It matches the keys
// the readers accept, so an export can be imported again.
var Columns = []string{
	"id", "title", "insight", "url", "added", "published", "start_year", "end_year",
	"topic", "sector", "region", "pestle", "source", "swot", "country", "city",
	"intensity", "likelihood", "relevance", "impact",
}

// Export writes records to w as json, csv or xlsx
func Export(w io.Writer, format string, records []model.Record) error {
	switch format {
	case "json":
		return exportJSON(w, records)
	case "csv":
		return exportCSV(w, records)
	case "xlsx":
		return exportXLSX(w, records)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

func exportJSON(w io.Writer, records []model.Record) error {
	if records == nil {
		records = []model.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(records)
}

func exportCSV(w io.Writer, records []model.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}
	for _, r := range records {
		if err := cw.Write(row(r)); err != nil {
			return fmt.Errorf("write CSV row %s: %w", r.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

func exportXLSX(w io.Writer, records []model.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Sheet1"
	if err := f.SetSheetRow(sheet, "A1", &Columns); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := row(r)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write row %s: %w", r.ID, err)
		}
	}
	return f.Write(w)
}

// row renders a record in Columns order. Absent values are NullCell.
func row(r model.Record) []string {
	str := func(p *string) string {
		if p == nil {
			return NullCell
		}
		return *p
	}
	num := func(p *float64) string {
		if p == nil {
			return NullCell
		}
		return strconv.FormatFloat(*p, 'f', -1, 64)
	}
	year := func(p *int64) string {
		if p == nil {
			return NullCell
		}
		return strconv.FormatInt(*p, 10)
	}
	return []string{
		r.ID, str(r.Title), str(r.Insight), str(r.URL), str(r.Added), str(r.Published),
		year(r.StartYear), year(r.EndYear),
		str(r.Topic), str(r.Sector), str(r.Region), str(r.Pestle), str(r.Source),
		str(r.Swot), str(r.Country), str(r.City),
		num(r.Intensity), num(r.Likelihood), num(r.Relevance), num(r.Impact),
	}
}
