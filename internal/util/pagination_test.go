package util

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCalculate(t *testing.T) {
	from, limit := Calculate(1, 10)
	require.Equal(t, 0, from)
	require.Equal(t, 10, limit)

	from, limit = Calculate(3, 20)
	require.Equal(t, 40, from)
	require.Equal(t, 20, limit)

	from, limit = Calculate(0, 0)
	require.Equal(t, 0, from)
	require.Equal(t, DefaultPageSize, limit)

	_, limit = Calculate(1, 1000)
	require.Equal(t, DefaultPageSize, limit)
}
