package redis

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brightdesk/user-directory/internal/core/domain"
)

func cachedUser(id int64) *domain.User {
	u := domain.NewUser("u@example.com", "user", "U", "Ser")
	u.ID = id
	return u
}

func TestActiveUserCache_DefaultTTL(t *testing.T) {
	c := NewActiveUserCache(nil, 0)
	assert.Equal(t, defaultCacheTTL, c.ttl)

	c = NewActiveUserCache(nil, 90*time.Second)
	assert.Equal(t, 90*time.Second, c.ttl)
}

func TestActiveUserCache_SetStoresJSONWithTTL(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewActiveUserCache(client, time.Minute)

	users := []*domain.User{cachedUser(1)}
	data, err := json.Marshal(users)
	require.NoError(t, err)

	mock.ExpectSet(activeUsersKey, data, time.Minute).SetVal("OK")

	require.NoError(t, c.Set(context.Background(), users))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveUserCache_GetHit(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewActiveUserCache(client, time.Minute)

	users := []*domain.User{cachedUser(1), cachedUser(2)}
	data, err := json.Marshal(users)
	require.NoError(t, err)

	mock.ExpectGet(activeUsersKey).SetVal(string(data))

	got, ok := c.Get(context.Background())
	require.True(t, ok)
	require.Len(t, got, 2)
	assert.Equal(t, int64(1), got[0].ID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveUserCache_GetMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewActiveUserCache(client, time.Minute)

	mock.ExpectGet(activeUsersKey).RedisNil()

	got, ok := c.Get(context.Background())
	assert.False(t, ok)
	assert.Nil(t, got)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestActiveUserCache_GetCorruptEntryIsAMiss(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewActiveUserCache(client, time.Minute)

	mock.ExpectGet(activeUsersKey).SetVal("{not json")

	_, ok := c.Get(context.Background())
	assert.False(t, ok)
}

func TestActiveUserCache_Invalidate(t *testing.T) {
	client, mock := redismock.NewClientMock()
	c := NewActiveUserCache(client, time.Minute)

	mock.ExpectDel(activeUsersKey).SetVal(1)

	require.NoError(t, c.Invalidate(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
