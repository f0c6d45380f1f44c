package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"towerdb/config"
	"towerdb/internal/utils"
	"towerdb/pkg/logger"
)

const (
	SpreadsheetBaseURL    = "https://docs.google.com/spreadsheets/d"
	SpreadsheetTimeoutSec = 60
	SpreadsheetUserAgent  = "towerdb/1.0 +spreadsheet-reload"
)

var ErrSpreadsheetNotConfigured = errors.New("spreadsheet id is not configured")

// SheetRow is one data row keyed by header name. Number counts from 1 for the
// first row after the header.
type SheetRow struct {
	Number int
	Cells  map[string]string
}

// Get returns the cleaned cell under header, or "" when the column is absent.
func (r SheetRow) Get(header string) string {
	return r.Cells[header]
}

// SpreadsheetService downloads the master tower list as CSV from the Google
// Sheets visualisation endpoint.
type SpreadsheetService struct {
	httpClient    *http.Client
	baseURL       string
	spreadsheetID string
	sheet         string
	log           logger.Logger
}

func NewSpreadsheetService(config config.Config) *SpreadsheetService {
	return &SpreadsheetService{
		httpClient:    &http.Client{Timeout: SpreadsheetTimeoutSec * time.Second},
		baseURL:       SpreadsheetBaseURL,
		spreadsheetID: config.SpreadsheetID,
		sheet:         config.SpreadsheetSheet,
		log:           logger.New("spreadsheetService"),
	}
}

// Source is the URL rows are fetched from.
func (s *SpreadsheetService) Source() string {
	query := url.Values{}
	query.Set("tqx", "out:csv")
	query.Set("sheet", s.sheet)
	return fmt.Sprintf("%s/%s/gviz/tq?%s", s.baseURL, url.PathEscape(s.spreadsheetID), query.Encode())
}

func (s *SpreadsheetService) Fetch(ctx context.Context) ([]SheetRow, error) {
	log := s.log.TraceFromContext(ctx).Function("Fetch")

	if s.spreadsheetID == "" {
		return nil, ErrSpreadsheetNotConfigured
	}

	source := s.Source()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, log.Err("failed to create HTTP request", err, "url", source)
	}
	req.Header.Set("User-Agent", SpreadsheetUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, log.Err("HTTP request failed", err, "url", source)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			log.Warn("failed to close response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, log.Err("HTTP request failed",
			fmt.Errorf("status code: %d", resp.StatusCode),
			"url", source,
			"statusCode", resp.StatusCode)
	}

	rows, err := ParseSheet(resp.Body)
	if err != nil {
		return nil, log.Err("failed to parse spreadsheet", err, "url", source)
	}

	log.Info("Spreadsheet fetched", "rows", len(rows))
	return rows, nil
}

// ParseSheet reads CSV with a header row. Short rows are padded with blanks.
func ParseSheet(r io.Reader) ([]SheetRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = utils.CleanCell(header[i])
	}

	var rows []SheetRow
	for number := 1; ; number++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row %d: %w", number, err)
		}

		cells := make(map[string]string, len(header))
		for i, name := range header {
			if name == "" {
				continue
			}
			if i < len(record) {
				cells[name] = utils.CleanCell(record[i])
			} else {
				cells[name] = ""
			}
		}
		rows = append(rows, SheetRow{Number: number, Cells: cells})
	}

	return rows, nil
}
