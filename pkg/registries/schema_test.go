package registries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trialscope/trialscope/pkg/trials"
)

func TestSchemaFor(t *testing.T) {
	for _, registry := range trials.Registries() {
		s, ok := SchemaFor(registry)
		require.True(t, ok, "registry %s must have a schema", registry)
		assert.Equal(t, registry, s.Registry)

		// Every schema resolves the identity and date fields.
		_, ok = s.Column(FieldTrialID)
		assert.True(t, ok)
		_, ok = s.Column(FieldDate)
		assert.True(t, ok)
		assert.NotEmpty(t, s.CountryDelimiter)
	}

	_, ok := SchemaFor(trials.Registry("NOPE"))
	assert.False(t, ok)
}

func TestSchemaDelimiters(t *testing.T) {
	ctgov, _ := SchemaFor(trials.ClinicalTrialsGov)
	ictrp, _ := SchemaFor(trials.WHOICTRP)

	assert.Equal(t, ",", ctgov.CountryDelimiter)
	assert.Equal(t, ";", ictrp.CountryDelimiter)
}

func TestClassLabel(t *testing.T) {
	ctgov, _ := SchemaFor(trials.ClinicalTrialsGov)

	assert.Equal(t, "Industry", ctgov.ClassLabel("INDUSTRY"))
	assert.Equal(t, "Government", ctgov.ClassLabel("OTHER_GOV"))
	assert.Equal(t, "SOMETHING_NEW", ctgov.ClassLabel("SOMETHING_NEW"),
		"unmapped vocabulary passes through unchanged")
	assert.Empty(t, ctgov.ClassLabel(""), "absent stays absent")
}
