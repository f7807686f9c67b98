package mapper

import (
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapSlice(t *testing.T) {
	assert.Nil(t, MapSlice[int, string](nil, strconv.Itoa))
	assert.Equal(t, []string{"1", "2"}, MapSlice([]int{1, 2}, strconv.Itoa))
	assert.Empty(t, MapSlice([]int{}, strconv.Itoa))
}

type row struct {
	id   uint
	name string
}

func TestMapSlicePtrWithID(t *testing.T) {
	toUpper := func(r *row) (*string, error) {
		if r.name == "" {
			return nil, errors.New("empty name")
		}
		if r.name == "skip" {
			return nil, nil
		}
		s := r.name + "!"
		return &s, nil
	}
	getID := func(r *row) uint { return r.id }

	got, err := MapSlicePtrWithID([]*row{{1, "a"}, nil, {2, "skip"}, {3, "b"}}, toUpper, getID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a!", *got[0])
	assert.Equal(t, "b!", *got[1])

	_, err = MapSlicePtrWithID([]*row{{7, ""}}, toUpper, getID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to map item ID 7")
}
