package charts

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/pkg/trials"
)

var testBuckets = []trials.KeyCount{
	{Key: "Biogen", Count: 28},
	{Key: "Novartis Pharma AG", Count: 11},
	{Key: "Unknown", Count: 3},
}

// assertPNG checks that a rendered file exists and starts with the PNG
// magic bytes.
func assertPNG(t *testing.T, path string) {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(data), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, data[:4])
}

func TestBar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bar.png")
	require.NoError(t, Bar(path, "Top Sponsors", testBuckets))
	assertPNG(t, path)
}

func TestHorizontalBar(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hbar.png")
	require.NoError(t, HorizontalBar(path, "Top Sponsors", testBuckets))
	assertPNG(t, path)
}

func TestPie(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pie.png")
	require.NoError(t, Pie(path, "Sponsor Classes", testBuckets))
	assertPNG(t, path)
}

func TestLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "line.png")
	buckets := []trials.KeyCount{
		{Key: "2020", Count: 4},
		{Key: "2021", Count: 9},
		{Key: "2022", Count: 7},
	}
	require.NoError(t, Line(path, "Trials per Year", buckets))
	assertPNG(t, path)
}
