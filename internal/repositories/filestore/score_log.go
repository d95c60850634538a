package filestore

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"sync"
)

// scoreLogRepository appends one line per finished session to a plain text
// file, keeping the original log format.
type scoreLogRepository struct {
	mu   sync.Mutex
	path string
}

func newScoreLogRepository(path string) *scoreLogRepository {
	return &scoreLogRepository{path: path}
}

func (r *scoreLogRepository) Append(ctx context.Context, username string, score, wrong float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	f, err := os.OpenFile(r.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open score log: %w", err)
	}
	defer f.Close()

	line := fmt.Sprintf("Username: %s, Score: %s, Lost: %s\n",
		username,
		strconv.FormatFloat(score, 'f', -1, 64),
		strconv.FormatFloat(wrong, 'f', -1, 64))

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("failed to append score line: %w", err)
	}
	return nil
}
