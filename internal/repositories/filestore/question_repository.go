package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/openexam/quiz-service/internal/models"
	"github.com/openexam/quiz-service/internal/repositories"
	"github.com/openexam/quiz-service/internal/validator"
	"github.com/xuri/excelize/v2"
)

// Question bank column names. These follow the original workbook layout;
// lookups are case-insensitive and optional columns may be absent.
const (
	colQuestion       = "question"
	colComprehension  = "comprehension"
	colQuestionImage  = "question image url"
	colType           = "type"
	colCorrectIndex   = "correct answer index"
	colCorrectIndices = "correct answer indices"
	colRangeLow       = "range low"
	colRangeHigh      = "range high"
	colWeightage      = "weightage"
)

const maxChoices = 4

type questionRepository struct {
	mu        sync.RWMutex
	path      string
	validator *validator.Validator
	logger    *slog.Logger

	loaded   bool
	order    []string
	sections map[string]*models.Section
}

func newQuestionRepository(path string, v *validator.Validator, logger *slog.Logger) *questionRepository {
	return &questionRepository{
		path:      path,
		validator: v,
		logger:    logger,
		sections:  make(map[string]*models.Section),
	}
}

func (r *questionRepository) Sections(ctx context.Context) ([]models.SectionInfo, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]models.SectionInfo, 0, len(r.order))
	for _, name := range r.order {
		infos = append(infos, models.SectionInfo{
			Name:          name,
			QuestionCount: len(r.sections[name].Questions),
		})
	}
	return infos, nil
}

func (r *questionRepository) Section(ctx context.Context, name string) (*models.Section, error) {
	if err := r.ensureLoaded(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	section, ok := r.sections[name]
	if !ok {
		return nil, repositories.ErrNotFound
	}

	out := &models.Section{
		Name:      section.Name,
		Questions: make([]models.Question, len(section.Questions)),
	}
	copy(out.Questions, section.Questions)
	return out, nil
}

func (r *questionRepository) Reload(ctx context.Context) error {
	return r.load()
}

func (r *questionRepository) ensureLoaded() error {
	r.mu.RLock()
	loaded := r.loaded
	r.mu.RUnlock()

	if loaded {
		return nil
	}
	return r.load()
}

func (r *questionRepository) load() error {
	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return fmt.Errorf("failed to open question bank: %w", err)
	}
	defer f.Close()

	order := make([]string, 0)
	sections := make(map[string]*models.Section)

	for _, sheetName := range f.GetSheetList() {
		rows, err := f.GetRows(sheetName)
		if err != nil {
			return fmt.Errorf("failed to read sheet %q: %w", sheetName, err)
		}
		if len(rows) < 2 {
			r.logger.Warn("Skipping section without data rows", "section", sheetName)
			continue
		}

		headerMap := make(map[string]int)
		for i, header := range rows[0] {
			headerMap[strings.ToLower(strings.TrimSpace(header))] = i
		}

		section := &models.Section{Name: sheetName}
		dropped := 0

		for rowIndex, row := range rows[1:] {
			question, err := r.parseRow(row, headerMap, len(section.Questions))
			if err != nil {
				dropped++
				r.logger.Warn("Dropping malformed question row",
					"section", sheetName,
					"row", rowIndex+2,
					"error", err)
				continue
			}
			section.Questions = append(section.Questions, *question)
		}

		order = append(order, sheetName)
		sections[sheetName] = section

		r.logger.Info("Loaded question section",
			"section", sheetName,
			"questions", len(section.Questions),
			"dropped", dropped)
	}

	r.mu.Lock()
	r.order = order
	r.sections = sections
	r.loaded = true
	r.mu.Unlock()

	return nil
}

// parseRow maps one sheet row onto a tagged question variant and validates
// the type-specific required fields.
func (r *questionRepository) parseRow(row []string, headers map[string]int, id int) (*models.Question, error) {
	question := &models.Question{
		ID:            id,
		Type:          parseQuestionType(cell(row, headers, colType)),
		Prompt:        cell(row, headers, colQuestion),
		PromptImage:   cell(row, headers, colQuestionImage),
		Comprehension: cell(row, headers, colComprehension),
		Marks:         1,
	}

	if raw := cell(row, headers, colWeightage); raw != "" {
		marks, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid weightage %q", raw)
		}
		question.Marks = marks
	}

	switch question.Type {
	case models.SingleChoice:
		question.Choices = parseChoices(row, headers)
		raw := cell(row, headers, colCorrectIndex)
		if raw == "" {
			return nil, fmt.Errorf("missing %s", colCorrectIndex)
		}
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid %s %q", colCorrectIndex, raw)
		}
		question.CorrectChoice = &idx

	case models.MultiSelect:
		question.Choices = parseChoices(row, headers)
		indices, err := parseIndexSet(cell(row, headers, colCorrectIndices))
		if err != nil {
			return nil, err
		}
		question.CorrectChoices = indices

	case models.NumericRange:
		bounds, err := parseBounds(cell(row, headers, colRangeLow), cell(row, headers, colRangeHigh))
		if err != nil {
			return nil, err
		}
		question.CorrectRange = bounds
	}

	if err := r.validator.Question().ValidateQuestion(question); err != nil {
		return nil, err
	}
	return question, nil
}

func parseChoices(row []string, headers map[string]int) []models.Choice {
	choices := make([]models.Choice, 0, maxChoices)
	for i := 1; i <= maxChoices; i++ {
		text := cell(row, headers, fmt.Sprintf("answer %d text", i))
		image := cell(row, headers, fmt.Sprintf("answer %d image url", i))
		if text == "" && image == "" {
			break
		}
		choices = append(choices, models.Choice{Text: text, ImageURL: image})
	}
	return choices
}

func parseIndexSet(raw string) ([]int, error) {
	if raw == "" {
		return nil, fmt.Errorf("missing %s", colCorrectIndices)
	}

	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == ' '
	})

	indices := make([]int, 0, len(parts))
	for _, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid index %q in %s", part, colCorrectIndices)
		}
		indices = append(indices, idx)
	}
	if len(indices) == 0 {
		return nil, fmt.Errorf("empty %s", colCorrectIndices)
	}
	return indices, nil
}

func parseBounds(rawLow, rawHigh string) (*models.NumericBounds, error) {
	if rawLow == "" || rawHigh == "" {
		return nil, fmt.Errorf("missing %s/%s", colRangeLow, colRangeHigh)
	}
	low, err := strconv.ParseFloat(rawLow, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", colRangeLow, rawLow)
	}
	high, err := strconv.ParseFloat(rawHigh, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s %q", colRangeHigh, rawHigh)
	}
	bounds := models.NumericBounds{Low: low, High: high}.Normalized()
	return &bounds, nil
}

// parseQuestionType accepts both the canonical names and the short exam
// forms used in older workbooks. An empty cell means single choice.
func parseQuestionType(raw string) models.QuestionType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "mcq", "singlechoice", "single_choice":
		return models.SingleChoice
	case "msq", "multiselect", "multi_select":
		return models.MultiSelect
	case "nat", "numeric", "numericrange", "numeric_range":
		return models.NumericRange
	default:
		return models.QuestionType(raw)
	}
}

func cell(row []string, headers map[string]int, name string) string {
	idx, ok := headers[name]
	if !ok || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}
