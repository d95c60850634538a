package filestore

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/openexam/quiz-service/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPayload(username string, start time.Time) *models.SubmissionPayload {
	correctIdx := 1
	return &models.SubmissionPayload{
		Username:      username,
		Section:       "Physics",
		ExamStartTime: start,
		SubmitTime:    start.Add(10 * time.Minute),
		Score:         2,
		Penalty:       0.33,
		Responses: []models.ResponseRecord{
			{
				Question:            "What is g?",
				Type:                models.SingleChoice,
				Options:             []models.Choice{{Text: "9.8"}, {Text: "42"}},
				CorrectAnswer:       "42",
				CorrectIndex:        &correctIdx,
				Response:            "42",
				Correct:             true,
				ResponseTimeSeconds: 12,
				Weightage:           2,
			},
			{
				Question:            "Speed of sound?",
				Type:                models.NumericRange,
				CorrectAnswer:       "330 to 350",
				Response:            "N/A",
				Correct:             false,
				ResponseTimeSeconds: 0,
				Weightage:           1,
			},
		},
	}
}

func newTestResponseRepo(t *testing.T) *responseRepository {
	t.Helper()
	path := filepath.Join(t.TempDir(), "responses.xlsx")
	return newResponseRepository(path, testLogger())
}

func TestAppendCreatesWorkbook(t *testing.T) {
	repo := newTestResponseRepo(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, testPayload("alice", start)))

	stored, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)

	first := stored[0]
	assert.Equal(t, "2025-03-10 09:00:00", first.Timestamp)
	assert.Equal(t, "alice", first.Username)
	assert.Equal(t, "Physics", first.Section)
	assert.Equal(t, "What is g?", first.Question)
	assert.Equal(t, models.SingleChoice, first.Type)
	assert.Equal(t, "42", first.Response)
	assert.True(t, first.Correct)
	assert.Equal(t, 2.0, first.Weightage)
	assert.Equal(t, 2.0, first.Score)
	assert.Equal(t, 12, first.ResponseTime)
	assert.Equal(t, "42", first.CorrectAnswer)
	assert.Equal(t, "2025-03-10 09:10:00", first.SubmitTime)
	require.Len(t, first.Options, 2)
	assert.Equal(t, "9.8", first.Options[0].Text)

	second := stored[1]
	assert.Equal(t, "N/A", second.Response)
	assert.False(t, second.Correct)
	assert.Empty(t, second.Options)
}

func TestAppendAccumulates(t *testing.T) {
	repo := newTestResponseRepo(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, testPayload("alice", start)))
	require.NoError(t, repo.Append(ctx, testPayload("bob", start.Add(time.Hour))))

	stored, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 4)
}

func TestListAllEmptyWithoutWorkbook(t *testing.T) {
	repo := newTestResponseRepo(t)

	stored, err := repo.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, stored)
}

func TestAttemptsGroupsRows(t *testing.T) {
	repo := newTestResponseRepo(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, testPayload("alice", start)))
	require.NoError(t, repo.Append(ctx, testPayload("bob", start.Add(time.Hour))))

	attempts, err := repo.Attempts(ctx)
	require.NoError(t, err)
	require.Len(t, attempts, 2)

	assert.Equal(t, "alice", attempts[0].Username)
	assert.Equal(t, "2025-03-10 09:00:00", attempts[0].Timestamp)
	assert.Equal(t, 2.0, attempts[0].Score)
	assert.Equal(t, "bob", attempts[1].Username)
}

func TestAttemptDetailsFilters(t *testing.T) {
	repo := newTestResponseRepo(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, testPayload("alice", start)))
	require.NoError(t, repo.Append(ctx, testPayload("bob", start)))

	details, err := repo.AttemptDetails(ctx, "alice", "2025-03-10 09:00:00")
	require.NoError(t, err)
	require.Len(t, details, 2)
	for _, row := range details {
		assert.Equal(t, "alice", row.Username)
	}

	none, err := repo.AttemptDetails(ctx, "carol", "2025-03-10 09:00:00")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestDeleteRemovesAttempt(t *testing.T) {
	repo := newTestResponseRepo(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, testPayload("alice", start)))
	require.NoError(t, repo.Append(ctx, testPayload("bob", start)))

	deleted, err := repo.Delete(ctx, "alice", "2025-03-10 09:00:00")
	require.NoError(t, err)
	assert.Equal(t, 2, deleted)

	stored, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, stored, 2)
	for _, row := range stored {
		assert.Equal(t, "bob", row.Username)
	}
}

func TestDeleteNoMatch(t *testing.T) {
	repo := newTestResponseRepo(t)
	ctx := context.Background()
	start := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	require.NoError(t, repo.Append(ctx, testPayload("alice", start)))

	deleted, err := repo.Delete(ctx, "alice", "2020-01-01 00:00:00")
	require.NoError(t, err)
	assert.Zero(t, deleted)

	stored, err := repo.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, stored, 2)
}
