package importer

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"earthcare-backend/internal/domain"
	"github.com/shopspring/decimal"
)

type ProductWriter interface {
	Upsert(ctx context.Context, product domain.Product) (*domain.Product, error)
}

// CSVImporter reads catalog CSV exports and inserts/updates products.
// Expected columns: id, name, tagline, description, price, unit, image,
// benefits (semicolon separated), stock_quantity, is_active.
type CSVImporter struct {
	reader      *csv.Reader
	productRepo ProductWriter
}

func NewCSVImporter(r io.Reader, repo ProductWriter) *CSVImporter {
	csvr := csv.NewReader(r)
	csvr.FieldsPerRecord = -1 // rows may have trailing commas
	return &CSVImporter{
		reader:      csvr,
		productRepo: repo,
	}
}

// Run parses CSV rows and upserts one product per row.
func (i *CSVImporter) Run(ctx context.Context) (int, error) {
	headers, err := i.reader.Read()
	if err != nil {
		return 0, fmt.Errorf("read headers: %w", err)
	}
	index := headerIndex(headers)

	imported := 0
	for {
		record, err := i.reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return imported, fmt.Errorf("read row: %w", err)
		}

		product, err := parseRow(record, index)
		if err != nil {
			return imported, err
		}
		if product == nil {
			continue
		}

		if _, err := i.productRepo.Upsert(ctx, *product); err != nil {
			return imported, fmt.Errorf("upsert product %q: %w", product.ID, err)
		}
		imported++
	}

	return imported, nil
}

func headerIndex(headers []string) map[string]int {
	idx := make(map[string]int, len(headers))
	for i, h := range headers {
		idx[strings.TrimSpace(h)] = i
	}
	return idx
}

func parseRow(record []string, index map[string]int) (*domain.Product, error) {
	id := pick(record, index, "id")
	name := pick(record, index, "name")
	if id == "" && name == "" {
		return nil, nil
	}
	if id == "" || name == "" {
		return nil, fmt.Errorf("invalid product row (missing id or name): %v", record)
	}

	priceStr := pick(record, index, "price")
	price, err := decimal.NewFromString(priceStr)
	if err != nil {
		return nil, fmt.Errorf("invalid price for product %q: %q", id, priceStr)
	}
	if price.LessThan(decimal.RequireFromString("0.01")) {
		return nil, fmt.Errorf("price for product %q must be at least 0.01", id)
	}

	var benefits []string
	for _, b := range strings.Split(pick(record, index, "benefits"), ";") {
		if b = strings.TrimSpace(b); b != "" {
			benefits = append(benefits, b)
		}
	}

	stock := 0
	if stockStr := pick(record, index, "stock_quantity"); stockStr != "" {
		stock, err = strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("invalid stock_quantity for product %q: %q", id, stockStr)
		}
	}

	active := true
	if activeStr := pick(record, index, "is_active"); activeStr != "" {
		active, err = strconv.ParseBool(activeStr)
		if err != nil {
			return nil, fmt.Errorf("invalid is_active for product %q: %q", id, activeStr)
		}
	}

	return &domain.Product{
		ID:            id,
		Name:          name,
		Tagline:       pick(record, index, "tagline"),
		Description:   pick(record, index, "description"),
		Price:         price,
		Unit:          pick(record, index, "unit"),
		Image:         pick(record, index, "image"),
		Benefits:      benefits,
		IsActive:      active,
		StockQuantity: stock,
	}, nil
}

func pick(record []string, index map[string]int, key string) string {
	pos, ok := index[key]
	if !ok || pos >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[pos])
}
