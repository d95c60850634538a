package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/openexam/quiz-service/internal/models"
	"github.com/xuri/excelize/v2"
)

const responsesSheet = "Responses"

// responseHeaders is the column order of the Responses sheet, identical to
// the original results workbook so existing files keep working.
var responseHeaders = []string{
	"timestamp", "username", "section", "question", "questionImage",
	"comprehension", "type", "response", "comment", "correct",
	"weightage", "score", "responseTime", "correctAnswer", "options",
	"submitTime",
}

type responseRepository struct {
	mu     sync.Mutex
	path   string
	logger *slog.Logger
}

func newResponseRepository(path string, logger *slog.Logger) *responseRepository {
	return &responseRepository{path: path, logger: logger}
}

// Append writes one row per assembled record to the Responses sheet,
// creating the workbook on first use.
func (r *responseRepository) Append(ctx context.Context, payload *models.SubmissionPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, created, err := r.openOrCreate()
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := f.GetRows(responsesSheet)
	if err != nil {
		return fmt.Errorf("failed to read responses sheet: %w", err)
	}
	nextRow := len(rows) + 1

	timestamp := payload.ExamStartTime.Format(models.TimestampLayout)
	submitTime := payload.SubmitTime.Format(models.TimestampLayout)

	for _, record := range payload.Responses {
		optionsJSON, err := json.Marshal(record.Options)
		if err != nil {
			return fmt.Errorf("failed to marshal options: %w", err)
		}

		row := []interface{}{
			timestamp,
			payload.Username,
			payload.Section,
			record.Question,
			record.QuestionImage,
			record.Comprehension,
			string(record.Type),
			record.Response,
			record.Comment,
			record.Correct,
			record.Weightage,
			payload.Score,
			record.ResponseTimeSeconds,
			record.CorrectAnswer,
			string(optionsJSON),
			submitTime,
		}

		cellName, err := excelize.CoordinatesToCellName(1, nextRow)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(responsesSheet, cellName, &row); err != nil {
			return fmt.Errorf("failed to write response row: %w", err)
		}
		nextRow++
	}

	if created {
		err = f.SaveAs(r.path)
	} else {
		err = f.Save()
	}
	if err != nil {
		return fmt.Errorf("failed to save responses workbook: %w", err)
	}

	r.logger.Info("Appended submission to responses workbook",
		"username", payload.Username,
		"section", payload.Section,
		"records", len(payload.Responses))

	return nil
}

func (r *responseRepository) ListAll(ctx context.Context) ([]models.StoredResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.readAll()
}

// Attempts summarizes stored rows into one entry per quiz attempt, grouped
// by (timestamp, username, score) as the original store did.
func (r *responseRepository) Attempts(ctx context.Context) ([]models.AttemptSummary, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.readAll()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	summaries := make([]models.AttemptSummary, 0)
	for _, row := range stored {
		key := fmt.Sprintf("%s|%s|%g", row.Timestamp, row.Username, row.Score)
		if seen[key] {
			continue
		}
		seen[key] = true
		summaries = append(summaries, models.AttemptSummary{
			Timestamp: row.Timestamp,
			Username:  row.Username,
			Section:   row.Section,
			Score:     row.Score,
		})
	}
	return summaries, nil
}

func (r *responseRepository) AttemptDetails(ctx context.Context, username, timestamp string) ([]models.StoredResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.readAll()
	if err != nil {
		return nil, err
	}

	details := make([]models.StoredResponse, 0)
	for _, row := range stored {
		if row.Username == username && row.Timestamp == timestamp {
			details = append(details, row)
		}
	}
	return details, nil
}

// Delete removes every row matching (username, timestamp) and rewrites the
// workbook. Returns the number of rows removed.
func (r *responseRepository) Delete(ctx context.Context, username, timestamp string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, err := r.readAll()
	if err != nil {
		return 0, err
	}

	kept := make([]models.StoredResponse, 0, len(stored))
	for _, row := range stored {
		if row.Username == username && row.Timestamp == timestamp {
			continue
		}
		kept = append(kept, row)
	}

	deleted := len(stored) - len(kept)
	if deleted == 0 {
		return 0, nil
	}

	if err := r.rewrite(kept); err != nil {
		return 0, err
	}

	r.logger.Info("Deleted stored responses",
		"username", username,
		"timestamp", timestamp,
		"rows", deleted)

	return deleted, nil
}

func (r *responseRepository) openOrCreate() (f *excelize.File, created bool, err error) {
	if _, statErr := os.Stat(r.path); statErr == nil {
		f, err = excelize.OpenFile(r.path)
		if err != nil {
			return nil, false, fmt.Errorf("failed to open responses workbook: %w", err)
		}
		if idx, _ := f.GetSheetIndex(responsesSheet); idx < 0 {
			if err := r.initSheet(f); err != nil {
				f.Close()
				return nil, false, err
			}
		}
		return f, false, nil
	}

	f = excelize.NewFile()
	if err := r.initSheet(f); err != nil {
		f.Close()
		return nil, false, err
	}
	return f, true, nil
}

func (r *responseRepository) initSheet(f *excelize.File) error {
	if _, err := f.NewSheet(responsesSheet); err != nil {
		return fmt.Errorf("failed to create responses sheet: %w", err)
	}
	if idx, _ := f.GetSheetIndex("Sheet1"); idx >= 0 {
		if err := f.DeleteSheet("Sheet1"); err != nil {
			return err
		}
	}

	header := make([]interface{}, len(responseHeaders))
	for i, h := range responseHeaders {
		header[i] = h
	}
	return f.SetSheetRow(responsesSheet, "A1", &header)
}

func (r *responseRepository) readAll() ([]models.StoredResponse, error) {
	if _, err := os.Stat(r.path); err != nil {
		// No submissions recorded yet.
		return []models.StoredResponse{}, nil
	}

	f, err := excelize.OpenFile(r.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open responses workbook: %w", err)
	}
	defer f.Close()

	rows, err := f.GetRows(responsesSheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read responses sheet: %w", err)
	}
	if len(rows) < 2 {
		return []models.StoredResponse{}, nil
	}

	headers := make(map[string]int)
	for i, h := range rows[0] {
		headers[strings.TrimSpace(h)] = i
	}

	stored := make([]models.StoredResponse, 0, len(rows)-1)
	for _, row := range rows[1:] {
		stored = append(stored, parseStoredRow(row, headers))
	}
	return stored, nil
}

func (r *responseRepository) rewrite(rows []models.StoredResponse) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := r.initSheet(f); err != nil {
		return err
	}

	for i, row := range rows {
		optionsJSON, err := json.Marshal(row.Options)
		if err != nil {
			return fmt.Errorf("failed to marshal options: %w", err)
		}

		values := []interface{}{
			row.Timestamp, row.Username, row.Section, row.Question,
			row.QuestionImage, row.Comprehension, string(row.Type),
			row.Response, row.Comment, row.Correct, row.Weightage,
			row.Score, row.ResponseTime, row.CorrectAnswer,
			string(optionsJSON), row.SubmitTime,
		}

		cellName, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(responsesSheet, cellName, &values); err != nil {
			return err
		}
	}

	if err := f.SaveAs(r.path); err != nil {
		return fmt.Errorf("failed to rewrite responses workbook: %w", err)
	}
	return nil
}

func parseStoredRow(row []string, headers map[string]int) models.StoredResponse {
	get := func(name string) string {
		idx, ok := headers[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return row[idx]
	}

	stored := models.StoredResponse{
		Timestamp:     get("timestamp"),
		Username:      get("username"),
		Section:       get("section"),
		Question:      get("question"),
		QuestionImage: get("questionImage"),
		Comprehension: get("comprehension"),
		Type:          models.QuestionType(get("type")),
		Response:      get("response"),
		Comment:       get("comment"),
		CorrectAnswer: get("correctAnswer"),
		SubmitTime:    get("submitTime"),
	}

	stored.Correct, _ = strconv.ParseBool(get("correct"))
	stored.Weightage, _ = strconv.ParseFloat(get("weightage"), 64)
	stored.Score, _ = strconv.ParseFloat(get("score"), 64)
	stored.ResponseTime, _ = strconv.Atoi(get("responseTime"))

	if raw := get("options"); raw != "" {
		// A row with unparseable options still loads; options are display-only.
		_ = json.Unmarshal([]byte(raw), &stored.Options)
	}

	return stored
}
