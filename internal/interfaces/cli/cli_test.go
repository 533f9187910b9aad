package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemo_EscribeRemisionYVerificaDigest(t *testing.T) {
	color.NoColor = true
	dir := t.TempDir()

	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"demo", "--dir", dir})
	require.NoError(t, root.Execute())

	text := out.String()
	assert.Contains(t, text, "advertencia", "REM-7 está en otra ubicación y no se incluye")
	assert.Contains(t, text, "Confirmación requerida")
	assert.Contains(t, text, "completed")

	files, err := filepath.Glob(filepath.Join(dir, "remision_*"))
	require.NoError(t, err)
	require.Len(t, files, 2)

	var xmlFile, digest string
	for _, f := range files {
		if strings.HasSuffix(f, ".xml") {
			xmlFile = f
		}
	}
	require.NotEmpty(t, xmlFile)
	for _, line := range strings.Split(text, "\n") {
		if d, ok := strings.CutPrefix(strings.TrimSpace(line), "digest: "); ok {
			digest = d
		}
	}
	require.NotEmpty(t, digest)

	verify := NewRootCmd()
	verify.SetOut(&bytes.Buffer{})
	verify.SetArgs([]string{"verify", xmlFile, "--digest", digest})
	assert.NoError(t, verify.Execute())

	data, err := os.ReadFile(xmlFile)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(xmlFile, bytes.Replace(data, []byte("FE-1001"), []byte("FE-9999"), 1), 0o644))

	tampered := NewRootCmd()
	tampered.SetOut(&bytes.Buffer{})
	tampered.SetArgs([]string{"verify", xmlFile, "--digest", digest})
	assert.Error(t, tampered.Execute())
}
