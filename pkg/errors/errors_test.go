package errors_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"

	pkgerrors "github.com/trialscope/trialscope/pkg/errors"
)

func TestNew(t *testing.T) {
	err := pkgerrors.New("test error")
	assert.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestDataLoadError(t *testing.T) {
	t.Run("basic error", func(t *testing.T) {
		err := &pkgerrors.DataLoadError{
			Registry: "WHO_ICTRP",
			Path:     "data/ICTRP-Results.xlsx",
			Message:  "no such file",
		}
		assert.Equal(t, "failed to load WHO_ICTRP export data/ICTRP-Results.xlsx: no such file", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrDataLoad))
	})

	t.Run("constructor", func(t *testing.T) {
		base := errors.New("permission denied")
		err := pkgerrors.NewDataLoadError("EU_CTIS", "data/ctis.csv", base)
		assert.True(t, pkgerrors.IsDataLoad(err))
		assert.Equal(t, base, errors.Unwrap(err))
	})

	t.Run("wrap helper", func(t *testing.T) {
		assert.Nil(t, pkgerrors.WrapDataLoad("CLINICALTRIALS_GOV", "x.csv", nil))
		wrapped := pkgerrors.WrapDataLoad("CLINICALTRIALS_GOV", "x.csv", errors.New("not tabular"))
		assert.True(t, pkgerrors.IsDataLoad(wrapped))
	})
}

func TestValidationError(t *testing.T) {
	t.Run("with field", func(t *testing.T) {
		err := &pkgerrors.ValidationError{
			Field:   "date_range",
			Message: "start after end",
		}
		assert.Equal(t, "validation failed for field date_range: start after end", err.Error())
		assert.True(t, errors.Is(err, pkgerrors.ErrInvalidInput))
	})

	t.Run("without field", func(t *testing.T) {
		err := pkgerrors.NewValidationError("", nil, "empty config")
		assert.Equal(t, "validation failed: empty config", err.Error())
		assert.True(t, pkgerrors.IsValidationError(err))
	})
}

func TestAPIError(t *testing.T) {
	t.Run("with status code", func(t *testing.T) {
		err := pkgerrors.NewAPIError("CLINICALTRIALS_GOV", 503, "service unavailable")
		assert.Equal(t, "API error from CLINICALTRIALS_GOV (status 503): service unavailable", err.Error())
		assert.True(t, pkgerrors.IsRegistryUnavailable(err))
	})

	t.Run("client error is not unavailability", func(t *testing.T) {
		err := pkgerrors.NewAPIError("CLINICALTRIALS_GOV", 400, "bad request")
		assert.False(t, pkgerrors.IsRegistryUnavailable(err))
	})
}

func TestIOError(t *testing.T) {
	base := errors.New("disk full")
	err := pkgerrors.WrapIO("write", "charts/top_sponsors.png", base)
	assert.Equal(t, "IO error during write of charts/top_sponsors.png: disk full", err.Error())
	assert.Equal(t, base, errors.Unwrap(err))
}
