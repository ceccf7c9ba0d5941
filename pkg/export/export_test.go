package export

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Headers: []string{"ID", "Status"},
		Rows: []map[string]string{
			{"ID": "APP000123", "Status": "APPROVED"},
			{"ID": "APP000124", "Status": "PENDING"},
		},
	})
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ID,Status", lines[0])
	assert.Equal(t, "APP000123,APPROVED", lines[1])
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	require.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	out, err := NewPDFExporter().Render(Dataset{
		Headers: []string{"ID"},
		Rows:    []map[string]string{{"ID": "APP000123"}},
	}, "applications")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(out), "%PDF"))
}
