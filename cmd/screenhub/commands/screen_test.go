package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCriteria(t *testing.T) {
	criteria, err := parseCriteria([]string{
		"marketCapMin=500000000000",
		"sector=Technology",
		"peRatioMax=25.5",
	})
	require.NoError(t, err)

	assert.Equal(t, 500000000000.0, criteria["marketCapMin"])
	assert.Equal(t, "Technology", criteria["sector"])
	assert.Equal(t, 25.5, criteria["peRatioMax"])
}

func TestParseCriteriaInvalid(t *testing.T) {
	_, err := parseCriteria([]string{"noequals"})
	require.Error(t, err)

	_, err = parseCriteria([]string{"=value"})
	require.Error(t, err)
}
