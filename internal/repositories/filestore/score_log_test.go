package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreLogAppend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scores.txt")
	repo := newScoreLogRepository(path)
	ctx := context.Background()

	require.NoError(t, repo.Append(ctx, "alice", 4.5, 0.66))
	require.NoError(t, repo.Append(ctx, "bob", 3, 0))

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	assert.Equal(t,
		"Username: alice, Score: 4.5, Lost: 0.66\n"+
			"Username: bob, Score: 3, Lost: 0\n",
		string(content))
}
