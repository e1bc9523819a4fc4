package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLogs_FiltersAndPaginates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "app.log")
	lines := `{"level":"INFO","timestamp":"t1","message":"first","module":"pipeline"}
not json
{"level":"ERROR","timestamp":"t2","message":"second","module":"pipeline"}
{"level":"INFO","timestamp":"t3","message":"third","module":"files"}
`
	require.NoError(t, os.WriteFile(path, []byte(lines), 0o644))

	l := &ZapLogger{filePath: path}

	all, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "third", all[0].Message)

	infos, err := l.GetLogs("INFO", 10, 0)
	require.NoError(t, err)
	assert.Len(t, infos, 2)

	page, err := l.GetLogs("", 1, 1)
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "second", page[0].Message)

	byID, err := l.GetLogById(all[2].Id)
	require.NoError(t, err)
	assert.Equal(t, "first", byID.Message)

	_, err = l.GetLogById("missing")
	assert.ErrorIs(t, err, ErrLogNotFound)
}

func TestGetLogs_MissingFile(t *testing.T) {
	l := &ZapLogger{filePath: filepath.Join(t.TempDir(), "none.log")}
	got, err := l.GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, got)

	got, err = NewNopLogger().GetLogs("", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, got)
}
