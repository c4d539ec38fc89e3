package cli

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVersionCmd_Use(t *testing.T) {
	assert.Equal(t, "version", versionCmd.Use)
}

func TestVersionCmd_Short(t *testing.T) {
	assert.Equal(t, "Print the version number", versionCmd.Short)
}

func TestVersionCmd_Executes(t *testing.T) {
	// Save and restore version
	originalVersion := version
	version = "test-version-1.0.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, nil, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "sercha-inspect version test-version-1.0.0")
	assert.Contains(t, out, "go: "+runtime.Version())
	assert.Contains(t, out, fmt.Sprintf("formats: %d, hash algorithms: %d", len(formatNames()), len(hashNames())))
}

func TestVersionCmd_DisplaysDevByDefault(t *testing.T) {
	originalVersion := version
	version = "dev"
	defer func() { version = originalVersion }()

	out, err := execute(t, nil, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "sercha-inspect version dev")
}

func TestVersionCmd_ShortFlag(t *testing.T) {
	originalVersion := version
	version = "1.4.0"
	defer func() { version = originalVersion }()

	out, err := execute(t, nil, "version", "--short")

	require.NoError(t, err)
	assert.Equal(t, "1.4.0\n", out)
}

func TestVersionCmd_RejectsArgs(t *testing.T) {
	_, err := execute(t, nil, "version", "extra")
	assert.Error(t, err)
}

func TestBundledNames(t *testing.T) {
	assert.Contains(t, formatNames(), "zip")
	assert.Contains(t, hashNames(), "sha256")
	assert.Contains(t, hashNames(), "blake3")
}

func TestSetVersion(t *testing.T) {
	originalVersion := version
	defer func() { version = originalVersion }()

	SetVersion("")
	assert.Equal(t, originalVersion, version)

	SetVersion("1.2.3")
	assert.Equal(t, "1.2.3", version)
}
