package corpus

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/example/vocabbot/pkg/models"
	"github.com/xuri/excelize/v2"
)

// ImportConfig defines where each field lives in a spreadsheet or CSV file
type ImportConfig struct {
	FilePath      string // Path to the JSON, Excel or CSV file
	AnswerColumn  string // Column with the answer word
	PromptColumn  string // Column with the question text
	MeaningColumn string // Column with the optional gloss
	RangeColumn   string // Column with the range key
	TitleColumn   string // Column with the range title
	SheetName     string // Name of the sheet to import
	StartRow      int    // The row to start importing from (1-based index)
}

// DefaultImportConfig returns the default import configuration
func DefaultImportConfig() ImportConfig {
	return ImportConfig{
		AnswerColumn:  "A",
		PromptColumn:  "B",
		MeaningColumn: "C",
		RangeColumn:   "D",
		TitleColumn:   "E",
		SheetName:     "Sheet1",
		StartRow:      2, // Skip header
	}
}

// ImportResult holds the result of an import operation
type ImportResult struct {
	TotalProcessed int
	Imported       int
	Skipped        int
	Errors         []string
}

// Load reads a corpus from path, choosing the format by extension
func Load(path string) (*Corpus, *ImportResult, error) {
	config := DefaultImportConfig()
	config.FilePath = path
	return Import(config)
}

// Import reads a corpus using config
func Import(config ImportConfig) (*Corpus, *ImportResult, error) {
	var (
		ranges []models.Range
		result = &ImportResult{Errors: make([]string, 0)}
		err    error
	)

	switch strings.ToLower(filepath.Ext(config.FilePath)) {
	case ".json":
		ranges, err = importFromJSON(config, result)
	case ".csv":
		ranges, err = importFromCSV(config, result)
	case ".xlsx", ".xlsm":
		ranges, err = importFromExcel(config, result)
	default:
		return nil, nil, fmt.Errorf("unsupported corpus format %q", filepath.Ext(config.FilePath))
	}
	if err != nil {
		return nil, nil, err
	}

	c, err := New(ranges)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid corpus %s: %w", config.FilePath, err)
	}
	return c, result, nil
}

// importFromJSON reads an array of ranges
func importFromJSON(config ImportConfig, result *ImportResult) ([]models.Range, error) {
	data, err := os.ReadFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read JSON file: %w", err)
	}

	var ranges []models.Range
	if err := json.Unmarshal(data, &ranges); err != nil {
		return nil, fmt.Errorf("failed to parse JSON corpus: %w", err)
	}

	for ri := range ranges {
		kept := ranges[ri].Items[:0]
		for i, it := range ranges[ri].Items {
			result.TotalProcessed++
			it, err := cleanItem(it)
			if err != nil {
				result.Skipped++
				result.Errors = append(result.Errors, fmt.Sprintf("Range %s item %d: %v", ranges[ri].Key, i+1, err))
				continue
			}
			result.Imported++
			kept = append(kept, it)
		}
		ranges[ri].Items = kept
	}
	return ranges, nil
}

// importFromExcel reads rows from a single sheet
func importFromExcel(config ImportConfig, result *ImportResult) ([]models.Range, error) {
	f, err := excelize.OpenFile(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(config.SheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows: %w", err)
	}

	b := newRangeBuilder()
	for i, row := range rows {
		if i < config.StartRow-1 {
			continue
		}
		processRow(row, config, b, result, i+1, "")
	}
	return b.ranges(), nil
}

// importFromCSV reads rows from a CSV file. A row with only its first cell
// set opens a new range named by that cell, for files without a range column.
func importFromCSV(config ImportConfig, result *ImportResult) ([]models.Range, error) {
	file, err := os.Open(config.FilePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open CSV file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // Allow variable number of fields
	reader.LazyQuotes = true

	b := newRangeBuilder()
	rowNum := 0
	currentRange := ""

	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading CSV: %w", err)
		}

		rowNum++
		if rowNum < config.StartRow {
			continue
		}

		if isHeaderRow(row) {
			currentRange = strings.Trim(strings.TrimSpace(row[0]), "\"")
			continue
		}
		processRow(row, config, b, result, rowNum, currentRange)
	}
	return b.ranges(), nil
}

// processRow turns one spreadsheet row into an item
func processRow(row []string, config ImportConfig, b *rangeBuilder, result *ImportResult, rowNum int, fallbackRange string) {
	result.TotalProcessed++

	cell := func(column string) string {
		if column == "" {
			return ""
		}
		if idx := columnToIndex(column); idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	key := cell(config.RangeColumn)
	if key == "" {
		key = fallbackRange
	}
	if key == "" {
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: no range", rowNum))
		return
	}

	it, err := cleanItem(models.Item{
		Answer:  cell(config.AnswerColumn),
		Prompt:  cell(config.PromptColumn),
		Meaning: cell(config.MeaningColumn),
	})
	if err != nil {
		result.Skipped++
		result.Errors = append(result.Errors, fmt.Sprintf("Row %d: %v", rowNum, err))
		return
	}

	b.add(key, cell(config.TitleColumn), it)
	result.Imported++
}

// cleanItem trims fields and checks the required ones
func cleanItem(it models.Item) (models.Item, error) {
	it.Answer = strings.TrimSpace(it.Answer)
	it.Prompt = strings.TrimSpace(it.Prompt)
	it.Meaning = strings.TrimSpace(it.Meaning)
	if it.Answer == "" {
		return it, fmt.Errorf("empty answer")
	}
	if it.Prompt == "" {
		return it, fmt.Errorf("empty prompt for %q", it.Answer)
	}
	return it, nil
}

func isHeaderRow(row []string) bool {
	if len(row) == 0 || strings.TrimSpace(row[0]) == "" {
		return false
	}
	for _, v := range row[1:] {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// columnToIndex converts a column letter ("A", "AB") to a zero-based index
func columnToIndex(column string) int {
	index := 0
	for _, ch := range strings.ToUpper(column) {
		index = index*26 + int(ch-'A'+1)
	}
	return index - 1
}

// rangeBuilder groups rows into ranges, keeping first-seen order
type rangeBuilder struct {
	order []string
	byKey map[string]*models.Range
}

func newRangeBuilder() *rangeBuilder {
	return &rangeBuilder{byKey: make(map[string]*models.Range)}
}

func (b *rangeBuilder) add(key, title string, it models.Item) {
	r, ok := b.byKey[key]
	if !ok {
		r = &models.Range{Key: key, Title: key}
		b.byKey[key] = r
		b.order = append(b.order, key)
	}
	if title != "" {
		r.Title = title
	}
	r.Items = append(r.Items, it)
}

func (b *rangeBuilder) ranges() []models.Range {
	out := make([]models.Range, 0, len(b.order))
	for _, key := range b.order {
		out = append(out, *b.byKey[key])
	}
	return out
}
