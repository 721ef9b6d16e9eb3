package utils

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestChunk(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	chunks := Chunk(items, 2)
	require.Equal(t, [][]int{{1, 2}, {3, 4}, {5}}, chunks)

	require.Equal(t, [][]int{{1, 2, 3, 4, 5}}, Chunk(items, 10))
	require.Nil(t, Chunk([]int{}, 2))
	require.Nil(t, Chunk(items, 0))
}
