package alerts

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Igorvich/huizen-holland/internal/cmd/output"
)

func TestWritePlain(t *testing.T) {
	var buf bytes.Buffer
	alert := NewWarning("2 records could not be apportioned").WithDetails("record 4 (1930, HO0003A-HO0003B)")

	require.NoError(t, NewFormatWriter(&buf, output.FormatTable, false).WriteAlert(alert))
	assert.Equal(t, "! 2 records could not be apportioned\n   record 4 (1930, HO0003A-HO0003B)\n", buf.String())
}

func TestWriteStructured(t *testing.T) {
	alert := NewError("run failed").WithError(errors.New("boom"))

	var buf bytes.Buffer
	require.NoError(t, NewFormatWriter(&buf, output.FormatJSON, true).WriteAlert(alert))
	assert.Contains(t, buf.String(), `"level": "error"`)
	assert.Contains(t, buf.String(), `"error": "boom"`)

	buf.Reset()
	require.NoError(t, NewFormatWriter(&buf, output.FormatYAML, true).WriteAlert(alert))
	assert.Contains(t, buf.String(), "message: run failed")
}

func TestLevel(t *testing.T) {
	assert.Equal(t, "warning", LevelWarning.String())
	assert.Equal(t, "unknown(9)", Level(9).String())
	assert.Equal(t, "✗ run failed: boom", NewError("run failed").WithError(errors.New("boom")).String())
}
