package contract

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFraction(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected string
	}{
		{"full survival", 1.0, "1.0000"},
		{"rounded cohort value", 0.7143, "0.7143"},
		{"zero", 0, "0.0000"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, FormatFraction(tt.input, false))
		})
	}
}

func TestFormatFraction_Colored(t *testing.T) {
	tests := []struct {
		name     string
		fraction float64
	}{
		{"strong", 0.9},
		{"moderate", 0.5},
		{"weak", 0.1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Colored output still carries the plain digits
			assert.Contains(t, FormatFraction(tt.fraction, true), FormatFraction(tt.fraction, false))
		})
	}
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(os.TempDir(), "gitpulse_test_output.txt")
		defer func() { _ = os.Remove(tempFile) }() // cleanup

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestShouldIgnore(t *testing.T) {
	tests := []struct {
		name       string
		path       string
		excludes   []string
		wantIgnore bool
	}{
		{
			name:       "empty excludes",
			path:       "src/main.go",
			excludes:   []string{},
			wantIgnore: false,
		},
		{
			name:       "prefix match",
			path:       "vendor/github.com/lib/file.go",
			excludes:   []string{"vendor/"},
			wantIgnore: true,
		},
		{
			name:       "suffix match",
			path:       "dist/bundle.min.js",
			excludes:   []string{".min.js"},
			wantIgnore: true,
		},
		{
			name:       "glob match basename",
			path:       "src/file.min.js",
			excludes:   []string{"*.min.js"},
			wantIgnore: true,
		},
		{
			name:       "glob match with test suffix",
			path:       "test/unit_test.go",
			excludes:   []string{"*_test.go"},
			wantIgnore: true,
		},
		{
			name:       "substring match",
			path:       "src/generated/code.go",
			excludes:   []string{"generated"},
			wantIgnore: true,
		},
		{
			name:       "no match",
			path:       "src/core/engine.go",
			excludes:   []string{"vendor/", "node_modules/", ".min.js"},
			wantIgnore: false,
		},
		{
			name:       "multiple excludes with match",
			path:       "node_modules/react/index.js",
			excludes:   []string{"vendor/", "node_modules/", "third_party/"},
			wantIgnore: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldIgnore(tt.path, tt.excludes)
			assert.Equal(t, tt.wantIgnore, got)
		})
	}
}

func TestGetHistoryDBFilePath(t *testing.T) {
	path := GetHistoryDBFilePath()
	assert.NotEmpty(t, path)
	assert.Contains(t, path, ".gitpulse_history.db")

	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(path, homeDir), "path %s should start with home dir %s", path, homeDir)
}

func TestTruncatePath(t *testing.T) {
	tests := []struct {
		name     string
		path     string
		width    int
		expected string
	}{
		{"short path untouched", "src/main.go", 40, "src/main.go"},
		{"long path truncated", "very/long/path/to/file.go", 10, "...file.go"},
		{"width too small", "src/main.go", 3, "src/main.go"},
		{"multibyte runes", "src/日本語/ファイル.go", 8, "...イル.go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncatePath(tt.path, tt.width))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		got, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, got, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		got, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, got, s)
	}
	_, err := ParseBoolString("sometimes")
	assert.Error(t, err)
}

func TestShouldIgnore_RepositoryPaths(t *testing.T) {
	excludes := []string{"docs/", "*.lock", ".md"}
	tests := []struct {
		path       string
		wantIgnore bool
	}{
		{"README.md", true},
		{"docs/notes.txt", true},
		{"go.sum", false},
		{"frontend/yarn.lock", true},
		{"src/main.py", false},
		{"src/docs.py", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.wantIgnore, ShouldIgnore(tt.path, excludes))
		})
	}
}

func TestFormatFraction_SurvivalBands(t *testing.T) {
	if os.Getenv("NO_COLOR") != "" {
		t.Skip("NO_COLOR disables colors at package init")
	}
	noColor := color.NoColor
	color.NoColor = false
	t.Cleanup(func() { color.NoColor = noColor })

	tests := []struct {
		name     string
		fraction float64
		code     string
	}{
		{"strong at threshold", StrongSurvival, "\x1b[32;1m"},
		{"moderate at threshold", ModerateSurvival, "\x1b[33m"},
		{"weak below moderate", 0.3999, "\x1b[31m"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatFraction(tt.fraction, true)
			assert.True(t, strings.HasPrefix(got, tt.code), "got %q", got)
		})
	}
}
