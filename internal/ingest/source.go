// Package ingest imports insight records from files into the store through a
// staged pipeline: read, validate, transform, store.
package ingest

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/xuri/excelize/v2"

	"insights-dashboard/internal/logger"
	"insights-dashboard/internal/model"
	"insights-dashboard/pkg/utils"
)

// metadata keys attached to every raw record
const (
	metaSource = "_source"
	metaRow    = "_row"
)

// SourceError reports a source that could not be read at all
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string { return fmt.Sprintf("source %s: %v", e.Path, e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

// SourceType returns the declared type of src, or guesses it from the
// file extension
func SourceType(src model.Source) string {
	if src.Type != "" {
		return strings.ToLower(src.Type)
	}
	switch strings.ToLower(filepath.Ext(strings.SplitN(src.Path, "?", 2)[0])) {
	case ".csv":
		return "csv"
	case ".xlsx":
		return "xlsx"
	default:
		return "json"
	}
}

// ReadSource reads every row of one source into out
func ReadSource(ctx context.Context, src model.Source, out chan<- model.RawRecord, errs chan<- error, log logger.Logger) {
	log = log.With(logger.String("source", src.Path))
	log.Info("Reading source", logger.String("type", SourceType(src)))

	var (
		n   int
		err error
	)
	switch SourceType(src) {
	case "csv":
		n, err = readCSV(ctx, src.Path, out)
	case "xlsx":
		n, err = readXLSX(ctx, src.Path, out)
	case "json":
		n, err = readJSON(ctx, src.Path, out)
	default:
		err = fmt.Errorf("unknown source type %q", src.Type)
	}

	if err != nil && !errors.Is(err, context.Canceled) {
		send(ctx, errs, &SourceError{Path: src.Path, Err: err})
		return
	}
	log.Info("Source read", logger.Int("records", n))
}

// StartIngestion reads all sources in parallel and returns when every source
// is done
func StartIngestion(ctx context.Context, sources []model.Source, out chan<- model.RawRecord, errs chan<- error, log logger.Logger) {
	var wg sync.WaitGroup
	for _, src := range sources {
		wg.Add(1)
		go func(s model.Source) {
			defer wg.Done()
			ReadSource(ctx, s, out, errs, log)
		}(src)
	}
	wg.Wait()
}

func open(ctx context.Context, pathOrURL string) (io.ReadCloser, error) {
	if strings.HasPrefix(pathOrURL, "http://") || strings.HasPrefix(pathOrURL, "https://") {
		return withRetry(ctx, DefaultRetry, func() (io.ReadCloser, error) {
			return get(ctx, pathOrURL)
		})
	}
	return os.Open(pathOrURL)
}

func get(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("GET: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("GET: %w", &statusError{Code: resp.StatusCode})
	}
	return resp.Body, nil
}

func readCSV(ctx context.Context, path string, out chan<- model.RawRecord) (int, error) {
	rc, err := open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	r := csv.NewReader(rc)
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	headers, err := r.Read()
	if err != nil {
		return 0, fmt.Errorf("read CSV header: %w", err)
	}

	n := 0
	for row := 2; ; row++ {
		cells, err := r.Read()
		if errors.Is(err, io.EOF) {
			return n, nil
		}
		if err != nil {
			return n, fmt.Errorf("CSV row %d: %w", row, err)
		}
		if !emit(ctx, out, rowRecord(headers, cells, path, row)) {
			return n, ctx.Err()
		}
		n++
	}
}

func readXLSX(ctx context.Context, path string, out chan<- model.RawRecord) (int, error) {
	rc, err := open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	f, err := excelize.OpenReader(rc)
	if err != nil {
		return 0, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return 0, errors.New("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return 0, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return 0, nil
	}

	n := 0
	for i, cells := range rows[1:] {
		if !emit(ctx, out, rowRecord(rows[0], cells, path, i+2)) {
			return n, ctx.Err()
		}
		n++
	}
	return n, nil
}

func readJSON(ctx context.Context, path string, out chan<- model.RawRecord) (int, error) {
	rc, err := open(ctx, path)
	if err != nil {
		return 0, err
	}
	defer rc.Close()

	var raw interface{}
	if err := json.NewDecoder(rc).Decode(&raw); err != nil {
		return 0, fmt.Errorf("decode JSON: %w", err)
	}

	var items []interface{}
	switch data := raw.(type) {
	case []interface{}:
		items = data
	case map[string]interface{}:
		items = []interface{}{data}
	default:
		return 0, fmt.Errorf("unexpected JSON structure %T", raw)
	}

	n := 0
	for i, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			m = map[string]interface{}{}
		}
		rec := make(model.RawRecord, len(m)+2)
		for k, v := range m {
			rec[normalizeKey(k)] = v
		}
		rec[metaSource] = path
		rec[metaRow] = i + 1
		if !ok {
			rec[metaInvalid] = fmt.Sprintf("item is %T, not an object", item)
		}
		if !emit(ctx, out, rec) {
			return n, ctx.Err()
		}
		n++
	}
	return n, nil
}

// rowRecord builds a record from a tabular row. Cells are typed with
// utils.ParseValue; NullCell and missing trailing cells are absent.
func rowRecord(headers, cells []string, path string, row int) model.RawRecord {
	rec := make(model.RawRecord, len(headers)+2)
	for i, h := range headers {
		if i >= len(cells) {
			break
		}
		key := normalizeKey(strings.ReplaceAll(h, `"`, ""))
		if key == "" || cells[i] == NullCell {
			continue
		}
		rec[key] = utils.ParseValue(cells[i])
	}
	rec[metaSource] = path
	rec[metaRow] = row
	return rec
}

func normalizeKey(k string) string {
	return strings.ToLower(strings.TrimSpace(k))
}

func emit(ctx context.Context, out chan<- model.RawRecord, rec model.RawRecord) bool {
	select {
	case <-ctx.Done():
		return false
	case out <- rec:
		return true
	}
}

func send(ctx context.Context, errs chan<- error, err error) {
	select {
	case <-ctx.Done():
	case errs <- err:
	}
}
