package runner

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// siteColumn is the CSV header of the column holding site URLs.
const siteColumn = "SiteUrl"

// LoadSites resolves the site list from either a single site URL or a
// CSV file with a SiteUrl column. Blank cells are skipped. An empty
// resulting list is the caller's fatal condition, not an error here.
func LoadSites(siteURL, csvPath string) ([]string, error) {
	if siteURL != "" {
		return []string{siteURL}, nil
	}
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, fmt.Errorf("open site list: %w", err)
	}
	defer func() { _ = f.Close() }()
	return parseSiteCSV(f)
}

func parseSiteCSV(r io.Reader) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("read site list header: %w", err)
	}

	col := -1
	for i, name := range header {
		if strings.EqualFold(strings.TrimSpace(name), siteColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("site list is missing a %q column", siteColumn)
	}

	var sites []string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read site list: %w", err)
		}
		if col >= len(row) {
			continue
		}
		site := strings.TrimSpace(row[col])
		if site == "" {
			continue
		}
		sites = append(sites, site)
	}
	return sites, nil
}
