package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterWritesHeadersAndRows(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"type", "severity"},
		Rows: []map[string]string{
			{"type": "paper_leak_risk", "severity": "critical"},
			{"type": "approval_delay"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "type,severity\npaper_leak_risk,critical\napproval_delay,\n", string(out))

	_, err = NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRendersCoverSheet(t *testing.T) {
	out, err := NewPDFExporter().RenderCoverSheet(CoverSheet{
		Title:           "Final Chemistry",
		Subject:         "chemistry",
		Grade:           "11",
		ExamDate:        time.Date(2026, 11, 20, 8, 0, 0, 0, time.UTC),
		DurationMinutes: 180,
		TotalMarks:      80,
		Confidential:    true,
		Sections:        []CoverSection{{Name: "Multiple choice", Questions: 20, Marks: 20}},
		GeneratedBy:     "committee-1",
		GeneratedAt:     time.Now(),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = NewPDFExporter().RenderCoverSheet(CoverSheet{})
	assert.Error(t, err)
}
