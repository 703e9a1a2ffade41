package blame

import (
	"context"
	_ "embed"
	"errors"
	"testing"

	"github.com/huangsam/siri/internal/contract"
	"github.com/huangsam/siri/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

const (
	aliceCommit = "3f2a9c1e4b5d6f708192a3b4c5d6e7f8091a2b3c"
	bobCommit   = "9e8d7c6b5a4f3e2d1c0b9a8f7e6d5c4b3a291807"
)

//go:embed testdata/line_porcelain.txt
var linePorcelain []byte

//go:embed testdata/porcelain.txt
var porcelain []byte

func TestParsePorcelain_LinePorcelain(t *testing.T) {
	lines, err := ParsePorcelain(linePorcelain)
	require.NoError(t, err)
	require.Len(t, lines, 6)

	for i, l := range lines {
		assert.Equal(t, i+1, l.Number, "lines are reported in file order")
	}

	assert.Equal(t, schema.BlameLine{
		Number: 1, Commit: aliceCommit, AuthorName: "Alice", AuthorEmail: "alice@example.com", Content: "package main",
	}, lines[0])
	assert.Empty(t, lines[1].Content)
	assert.Equal(t, "Bob Builder", lines[2].AuthorName)
	assert.Equal(t, "bob@example.com", lines[2].AuthorEmail)
	assert.Equal(t, "// main prints a greeting.", lines[2].Content)
	assert.Equal(t, "\tprintln(\"hi\")", lines[4].Content, "leading indentation after the marker tab is kept")
	assert.Equal(t, "carol@contractor.io", lines[5].AuthorEmail)
}

func TestParsePorcelain_RepeatedCommitWithoutHeaders(t *testing.T) {
	lines, err := ParsePorcelain(porcelain)
	require.NoError(t, err)
	require.Len(t, lines, 4)

	// Lines 2 and 4 repeat Alice's commit without author headers
	for _, idx := range []int{0, 1, 3} {
		assert.Equal(t, aliceCommit, lines[idx].Commit)
		assert.Equal(t, "Alice", lines[idx].AuthorName)
		assert.Equal(t, "alice@example.com", lines[idx].AuthorEmail)
	}
	assert.Equal(t, bobCommit, lines[2].Commit)
	assert.Equal(t, "func main() {}", lines[3].Content)
	assert.Equal(t, 4, lines[3].Number)
}

func TestParsePorcelain_Malformed(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"content before header", "\tpackage main\n", "content without a commit header"},
		{"bad header", "not-a-hash 1 1 1\n", "unexpected blame header"},
		{"bad line number", aliceCommit + " 1 x 1\n", "invalid line number"},
		{"truncated", aliceCommit + " 1 1 1\nauthor Alice\n", "truncated blame output"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePorcelain([]byte(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestParsePorcelain_Empty(t *testing.T) {
	lines, err := ParsePorcelain(nil)
	require.NoError(t, err)
	assert.Empty(t, lines)
}

func TestExtract(t *testing.T) {
	cfg := &contract.Config{RepoPath: "/repo", Ref: "HEAD"}
	match := schema.FileMatch{Path: "main.go", Category: schema.CodeCategory}

	t.Run("success", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("GetBlame", mock.Anything, "/repo", "HEAD", "main.go").Return(linePorcelain, nil)

		record, err := Extract(context.Background(), cfg, client, match)
		require.NoError(t, err)
		assert.Equal(t, "main.go", record.Path)
		assert.Equal(t, schema.CodeCategory, record.Category)
		assert.Len(t, record.Lines, 6)
		assert.Equal(t, 3, record.Lines[2].Number)
		assert.Equal(t, "bob@example.com", record.Lines[2].AuthorEmail)
		client.AssertExpectations(t)
	})

	t.Run("git failure is a history error", func(t *testing.T) {
		client := &contract.MockGitClient{}
		gitErr := errors.New("fatal: no such path 'main.go' in HEAD")
		client.On("GetBlame", mock.Anything, "/repo", "HEAD", "main.go").Return(nil, gitErr)

		_, err := Extract(context.Background(), cfg, client, match)
		var historyErr *contract.HistoryError
		require.ErrorAs(t, err, &historyErr)
		assert.Equal(t, "main.go", historyErr.Path)
		assert.ErrorIs(t, err, gitErr)
	})

	t.Run("malformed output is a history error", func(t *testing.T) {
		client := &contract.MockGitClient{}
		client.On("GetBlame", mock.Anything, "/repo", "HEAD", "main.go").Return([]byte("garbage\n"), nil)

		_, err := Extract(context.Background(), cfg, client, match)
		assert.True(t, contract.IsHistoryError(err))
	})

	t.Run("cancelled context is not a history error", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		client := &contract.MockGitClient{}
		client.On("GetBlame", mock.Anything, "/repo", "HEAD", "main.go").Return(nil, errors.New("signal: killed"))

		_, err := Extract(ctx, cfg, client, match)
		assert.ErrorIs(t, err, context.Canceled)
		assert.False(t, contract.IsHistoryError(err))
	})
}
