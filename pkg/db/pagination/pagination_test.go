package pagination

import (
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type row struct {
	id        snowflake.ID
	createdAt time.Time
}

func TestPageRoundTrip(t *testing.T) {
	base := time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)
	rows := []row{
		{id: 3, createdAt: base.Add(2 * time.Minute)},
		{id: 2, createdAt: base.Add(time.Minute)},
		{id: 1, createdAt: base},
	}

	items, info := Page(rows, 2, func(r row) (snowflake.ID, time.Time) { return r.id, r.createdAt })
	assert.Len(t, items, 2)
	assert.True(t, info.HasMore)

	pos, err := Pagination{PageToken: info.NextPageToken}.Position()
	require.NoError(t, err)
	require.NotNil(t, pos)
	assert.Equal(t, snowflake.ID(2), pos.ID)
	assert.True(t, pos.CreatedAt.Equal(base.Add(time.Minute)))
}

func TestPageWithoutMore(t *testing.T) {
	items, info := Page([]row{{id: 1}}, 10, func(r row) (snowflake.ID, time.Time) { return r.id, r.createdAt })
	assert.Len(t, items, 1)
	assert.False(t, info.HasMore)
	assert.Empty(t, info.NextPageToken)
}

func TestPositionRejectsGarbage(t *testing.T) {
	_, err := Pagination{PageToken: "not-a-token"}.Position()
	assert.ErrorIs(t, err, ErrInvalidPageToken)

	pos, err := Pagination{}.Position()
	assert.NoError(t, err)
	assert.Nil(t, pos)
}

func TestLimitClamps(t *testing.T) {
	assert.Equal(t, DefaultPageSize, Pagination{}.Limit())
	assert.Equal(t, MaxPageSize, Pagination{PageSize: 1000}.Limit())
	assert.Equal(t, 5, Pagination{PageSize: 5}.Limit())
}
