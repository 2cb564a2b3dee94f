package dto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/inventory-core/internal/domain"
)

func TestPageRequest_Validate(t *testing.T) {
	p := PageRequest{Page: -3, Size: 500}
	require.NoError(t, p.Validate())
	assert.Equal(t, 0, p.Page)
	assert.Equal(t, MaxPageSize, p.Size)

	p = PageRequest{Page: MaxPage, Size: MaxPageSize}
	require.NoError(t, p.Validate())
	assert.Positive(t, p.Offset())

	p = PageRequest{Page: math.MaxInt, Size: 50}
	assert.ErrorIs(t, p.Validate(), domain.ErrInvalidArgument)
}

func TestPageRequest_ListQuery(t *testing.T) {
	q, err := PageRequest{Page: 2, Size: 10, Sort: "name,desc"}.ListQuery([]string{"name"})
	require.NoError(t, err)
	assert.Equal(t, 20, q.Offset)
	assert.Equal(t, 10, q.Limit)
	assert.True(t, q.SortDesc)

	_, err = PageRequest{Page: math.MaxInt / 2, Size: 10}.ListQuery(nil)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = PageRequest{Sort: "password"}.ListQuery([]string{"name"})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}
