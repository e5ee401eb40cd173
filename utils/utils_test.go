package utils

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBytesMD5(t *testing.T) {
	assert.Equal(t, "d41d8cd98f00b204e9800998ecf8427e", BytesMD5(nil))
	assert.Equal(t, "900150983cd24fb0d6963f7d28e17f72", BytesMD5([]byte("abc")))
}

func TestFileMD5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.bin")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	sum, err := FileMD5(path)
	require.NoError(t, err)
	assert.Equal(t, BytesMD5([]byte("abc")), sum)

	_, err = FileMD5(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestPairKeyOrderMatters(t *testing.T) {
	a, b := []byte("selfie"), []byte("body")
	assert.Equal(t, BytesMD5(a)+":"+BytesMD5(b), PairKey(a, b))
	assert.NotEqual(t, PairKey(a, b), PairKey(b, a))
}

func TestGenerateID(t *testing.T) {
	id := GenerateID()
	_, err := uuid.Parse(id)
	require.NoError(t, err)
	assert.NotEqual(t, id, GenerateID())
}

func TestLoggerDefaultsToNop(t *testing.T) {
	require.NotNil(t, Logger)
	Logger.Info("discarded")
	Sync()
}

func TestInitLoggerWithFile(t *testing.T) {
	prev := Logger
	t.Cleanup(func() { Logger = prev })

	path := filepath.Join(t.TempDir(), "app.log")
	require.NoError(t, InitLoggerWithFile("release", RotateOptions{File: path, MaxSizeMB: 1}))
	Logger.Info("written to file")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}
