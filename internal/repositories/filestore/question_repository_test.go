package filestore

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/openexam/quiz-service/internal/models"
	"github.com/openexam/quiz-service/internal/repositories"
	"github.com/openexam/quiz-service/internal/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

var questionBankHeader = []interface{}{
	"Question", "Comprehension", "Question Image URL", "Type",
	"Answer 1 Text", "Answer 2 Text", "Answer 3 Text", "Answer 4 Text",
	"Correct Answer Index", "Correct Answer Indices",
	"Range Low", "Range High", "Weightage",
}

func writeQuestionBank(t *testing.T, path string, sheets map[string][][]interface{}) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	first := true
	for name, rows := range sheets {
		if first {
			require.NoError(t, f.SetSheetName("Sheet1", name))
			first = false
		} else {
			_, err := f.NewSheet(name)
			require.NoError(t, err)
		}

		require.NoError(t, f.SetSheetRow(name, "A1", &questionBankHeader))
		for i := range rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			require.NoError(t, err)
			require.NoError(t, f.SetSheetRow(name, cell, &rows[i]))
		}
	}

	require.NoError(t, f.SaveAs(path))
}

func physicsRows() [][]interface{} {
	return [][]interface{}{
		{"What is g?", "", "", "mcq", "9.8", "3.14", "42", "1.6", 0, "", "", "", 2},
		{"Select the vectors", "", "", "msq", "Force", "Mass", "Velocity", "", "", "0, 2", "", "", 1},
		{"Speed of sound in m/s?", "", "", "nat", "", "", "", "", "", "", 330, 350, 1},
	}
}

func newTestQuestionRepo(t *testing.T, sheets map[string][][]interface{}) *questionRepository {
	t.Helper()

	path := filepath.Join(t.TempDir(), "questions.xlsx")
	writeQuestionBank(t, path, sheets)
	return newQuestionRepository(path, validator.New(), testLogger())
}

func TestSectionsListing(t *testing.T) {
	repo := newTestQuestionRepo(t, map[string][][]interface{}{
		"Physics": physicsRows(),
	})

	infos, err := repo.Sections(context.Background())
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "Physics", infos[0].Name)
	assert.Equal(t, 3, infos[0].QuestionCount)
}

func TestSectionQuestionsParsed(t *testing.T) {
	repo := newTestQuestionRepo(t, map[string][][]interface{}{
		"Physics": physicsRows(),
	})

	section, err := repo.Section(context.Background(), "Physics")
	require.NoError(t, err)
	require.Len(t, section.Questions, 3)

	mcq := section.Questions[0]
	assert.Equal(t, models.SingleChoice, mcq.Type)
	assert.Equal(t, "What is g?", mcq.Prompt)
	require.NotNil(t, mcq.CorrectChoice)
	assert.Equal(t, 0, *mcq.CorrectChoice)
	assert.Len(t, mcq.Choices, 4)
	assert.Equal(t, 2.0, mcq.Marks)

	msq := section.Questions[1]
	assert.Equal(t, models.MultiSelect, msq.Type)
	assert.Equal(t, []int{0, 2}, msq.CorrectChoices)
	assert.Len(t, msq.Choices, 3)
	assert.Equal(t, 1.0, msq.Marks)

	nat := section.Questions[2]
	assert.Equal(t, models.NumericRange, nat.Type)
	require.NotNil(t, nat.CorrectRange)
	assert.Equal(t, 330.0, nat.CorrectRange.Low)
	assert.Equal(t, 350.0, nat.CorrectRange.High)
}

func TestSectionNotFound(t *testing.T) {
	repo := newTestQuestionRepo(t, map[string][][]interface{}{
		"Physics": physicsRows(),
	})

	_, err := repo.Section(context.Background(), "Chemistry")
	assert.True(t, repositories.IsNotFoundError(err))
}

func TestMalformedRowsDropped(t *testing.T) {
	rows := physicsRows()
	// Single choice without a correct index cannot be graded; the loader
	// must drop it rather than mis-score it later.
	rows = append(rows, []interface{}{"Broken", "", "", "mcq", "A", "B", "", "", "", "", "", "", 1})
	// Numeric question without bounds is equally unusable.
	rows = append(rows, []interface{}{"Also broken", "", "", "nat", "", "", "", "", "", "", "", "", 1})

	repo := newTestQuestionRepo(t, map[string][][]interface{}{
		"Physics": rows,
	})

	section, err := repo.Section(context.Background(), "Physics")
	require.NoError(t, err)
	assert.Len(t, section.Questions, 3)
}

func TestSectionReturnsCopy(t *testing.T) {
	repo := newTestQuestionRepo(t, map[string][][]interface{}{
		"Physics": physicsRows(),
	})

	section, err := repo.Section(context.Background(), "Physics")
	require.NoError(t, err)
	section.Questions[0].Prompt = "tampered"

	fresh, err := repo.Section(context.Background(), "Physics")
	require.NoError(t, err)
	assert.Equal(t, "What is g?", fresh.Questions[0].Prompt)
}

func TestReloadPicksUpChanges(t *testing.T) {
	path := filepath.Join(t.TempDir(), "questions.xlsx")
	writeQuestionBank(t, path, map[string][][]interface{}{
		"Physics": physicsRows(),
	})
	repo := newQuestionRepository(path, validator.New(), testLogger())

	section, err := repo.Section(context.Background(), "Physics")
	require.NoError(t, err)
	require.Len(t, section.Questions, 3)

	extended := append(physicsRows(),
		[]interface{}{"What is c?", "", "", "mcq", "3e8", "9.8", "", "", 0, "", "", "", 1})
	writeQuestionBank(t, path, map[string][][]interface{}{
		"Physics": extended,
	})

	require.NoError(t, repo.Reload(context.Background()))

	section, err = repo.Section(context.Background(), "Physics")
	require.NoError(t, err)
	assert.Len(t, section.Questions, 4)
}

func TestDefaultTypeIsSingleChoice(t *testing.T) {
	rows := [][]interface{}{
		{"Untyped question", "", "", "", "Yes", "No", "", "", 1, "", "", "", ""},
	}
	repo := newTestQuestionRepo(t, map[string][][]interface{}{
		"General": rows,
	})

	section, err := repo.Section(context.Background(), "General")
	require.NoError(t, err)
	require.Len(t, section.Questions, 1)
	assert.Equal(t, models.SingleChoice, section.Questions[0].Type)
	assert.Equal(t, 1.0, section.Questions[0].Marks)
}
