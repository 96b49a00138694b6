package trials

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitMultivalued(t *testing.T) {
	tests := []struct {
		name      string
		value     string
		delimiter string
		want      []string
	}{
		{
			name:      "comma with surrounding whitespace",
			value:     "USA, France ,  Germany",
			delimiter: ",",
			want:      []string{"USA", "France", "Germany"},
		},
		{
			name:      "semicolon delimited",
			value:     "Norway;Sweden; Denmark",
			delimiter: ";",
			want:      []string{"Norway", "Sweden", "Denmark"},
		},
		{
			name:      "empty input",
			value:     "",
			delimiter: ",",
			want:      nil,
		},
		{
			name:      "empty pieces dropped",
			value:     ", ,Italy,,",
			delimiter: ",",
			want:      []string{"Italy"},
		},
		{
			name:      "only delimiters",
			value:     ";;;",
			delimiter: ";",
			want:      nil,
		},
		{
			name:      "single value without delimiter",
			value:     "Spain",
			delimiter: ";",
			want:      []string{"Spain"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitMultivalued(tt.value, tt.delimiter))
		})
	}
}

func TestRegistries(t *testing.T) {
	got := Registries()
	assert.Equal(t, []Registry{ClinicalTrialsGov, WHOICTRP, EUCTIS}, got)
	assert.Equal(t, "WHO_ICTRP", WHOICTRP.String())
}

func TestParseRegistry(t *testing.T) {
	tests := []struct {
		input string
		want  Registry
		ok    bool
	}{
		{"ctgov", ClinicalTrialsGov, true},
		{"ClinicalTrials.gov", ClinicalTrialsGov, true},
		{"CLINICALTRIALS_GOV", ClinicalTrialsGov, true},
		{" ictrp ", WHOICTRP, true},
		{"who_ictrp", WHOICTRP, true},
		{"ctis", EUCTIS, true},
		{"EU_CTIS", EUCTIS, true},
		{"euctr", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := ParseRegistry(tt.input)
		assert.Equal(t, tt.ok, ok, tt.input)
		assert.Equal(t, tt.want, got, tt.input)
	}
}
