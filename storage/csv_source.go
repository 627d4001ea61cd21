package storage

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"z3-dashboard/models"
	"z3-dashboard/utils"
)

// Column names of the listings file.
const (
	ColTitle   = "titre"
	ColDate    = "date_publication"
	ColYear    = "annee"
	ColMileage = "kilometrage_km"
	ColPrice   = "prix_eur"
	ColCity    = "ville"
	ColSeller  = "type_vendeur"
	ColURL     = "url"
)

// Header is the canonical column order of the listings file.
var Header = []string{ColTitle, ColDate, ColYear, ColMileage, ColPrice, ColCity, ColSeller, ColURL}

// CSVSource reads raw listings from a comma-separated file with a header row.
// Columns are located by name, so their order does not matter.
type CSVSource struct {
	path   string
	logger *utils.Logger
}

// NewCSVSource returns a source for the file at path.
func NewCSVSource(path string, logger *utils.Logger) *CSVSource {
	return &CSVSource{path: path, logger: logger}
}

func (c *CSVSource) Key() string {
	return "csv:" + c.path
}

// ReadRaw opens the file once, hashing it while the rows are decoded.
func (c *CSVSource) ReadRaw(ctx context.Context) (*RawBatch, error) {
	f, err := os.Open(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("csv: %q: %w", c.path, models.ErrSourceUnavailable)
		}
		return nil, fmt.Errorf("csv: open %q: %w", c.path, err)
	}
	defer f.Close()

	hashed := utils.NewChecksumReader(f)
	rows, err := c.decode(ctx, hashed)
	if err != nil {
		return nil, err
	}
	// Drain anything the decoder left unread so the checksum covers the whole file.
	if _, err := io.Copy(io.Discard, hashed); err != nil {
		return nil, fmt.Errorf("csv: read %q: %w", c.path, err)
	}

	return &RawBatch{Rows: rows, Checksum: hashed.Sum()}, nil
}

func (c *CSVSource) decode(ctx context.Context, r io.Reader) ([]*models.RawListing, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("csv: %q has no header row", c.path)
		}
		return nil, fmt.Errorf("csv: read header: %w", err)
	}

	idx := indexHeader(header)
	for _, required := range []string{ColDate, ColPrice} {
		if _, ok := idx[required]; !ok {
			c.logger.Warn("[csv] Column %q missing from %s, every row will be dropped", required, c.path)
		}
	}

	var rows []*models.RawListing
	line := 1
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			// A row the CSV reader cannot tokenise is a malformed record: skip it.
			c.logger.Debug("[csv] Skipping unreadable line %d: %v", line, err)
			rows = append(rows, &models.RawListing{Row: line})
			continue
		}

		rows = append(rows, &models.RawListing{
			Row:             line,
			Title:           field(record, idx, ColTitle),
			PublicationDate: field(record, idx, ColDate),
			ModelYear:       field(record, idx, ColYear),
			Mileage:         field(record, idx, ColMileage),
			Price:           field(record, idx, ColPrice),
			City:            field(record, idx, ColCity),
			SellerType:      field(record, idx, ColSeller),
			URL:             field(record, idx, ColURL),
		})
	}

	return rows, nil
}

func indexHeader(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff")))
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

func field(record []string, idx map[string]int, name string) string {
	i, ok := idx[name]
	if !ok || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
