package validation

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileValidator_ValidateFile(t *testing.T) {
	tests := []struct {
		name          string
		setupFunc     func(t *testing.T) string
		wantErr       bool
		errorContains string
	}{
		{
			name: "readable file",
			setupFunc: func(t *testing.T) string {
				file := filepath.Join(t.TempDir(), "data.csv")
				require.NoError(t, os.WriteFile(file, []byte("timestamp\n1\n"), 0644))
				return file
			},
		},
		{
			name: "missing file",
			setupFunc: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "absent.csv")
			},
			wantErr:       true,
			errorContains: "does not exist",
		},
		{
			name: "directory instead of file",
			setupFunc: func(t *testing.T) string {
				return t.TempDir()
			},
			wantErr:       true,
			errorContains: "is a directory",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := NewFileValidator(nil)

			err := v.ValidateFile(tt.setupFunc(t))

			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errorContains)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileValidator_ValidateFile_WrapsNotExist(t *testing.T) {
	err := NewFileValidator(nil).ValidateFile(filepath.Join(t.TempDir(), "absent.csv"))

	assert.ErrorIs(t, err, fs.ErrNotExist)
}

func TestFileValidator_ValidateWritableFile(t *testing.T) {
	v := NewFileValidator(nil)
	file := filepath.Join(t.TempDir(), "data.csv")
	require.NoError(t, os.WriteFile(file, []byte("timestamp\n1\n"), 0644))

	require.NoError(t, v.ValidateWritableFile(file))

	content, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Equal(t, "timestamp\n1\n", string(content), "validation must not modify the file")

	assert.Error(t, v.ValidateWritableFile(filepath.Join(t.TempDir(), "absent.csv")))
}

func TestFileValidator_ValidateOutputDirectory(t *testing.T) {
	v := NewFileValidator(nil)
	dir := filepath.Join(t.TempDir(), "reports", "xlsx")

	require.NoError(t, v.ValidateOutputDirectory(dir))

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	_, err = os.Stat(filepath.Join(dir, ".write_test"))
	assert.True(t, os.IsNotExist(err), "probe file should be removed")
}

func TestFileValidator_ValidateOutputDirectory_BlockedByFile(t *testing.T) {
	v := NewFileValidator(nil)
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))

	err := v.ValidateOutputDirectory(filepath.Join(blocker, "sub"))
	assert.Error(t, err)
}
