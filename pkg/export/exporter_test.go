package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	sheet := Sheet{
		Headers: []string{"Student", "Score", "Late"},
		Rows: [][]string{
			{"Asha, R", "8", "false"},
			{"Vikram"},
		},
	}

	out, err := NewCSVExporter().Render(sheet)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "Student,Score,Late", lines[0])
	assert.Equal(t, `"Asha, R",8,false`, lines[1])
	assert.Equal(t, "Vikram,,", lines[2])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Sheet{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	sheet := Sheet{
		Title:   "Quiz 1 submissions",
		Headers: []string{"Student", "Score"},
		Rows:    [][]string{{"Asha", "8"}, {strings.Repeat("x", 80), "2"}},
	}

	out, err := NewPDFExporter().Render(sheet)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short"))
	long := truncate(strings.Repeat("a", 50))
	assert.Len(t, []rune(long), maxCellRunes)
	assert.True(t, strings.HasSuffix(long, "..."))
}
