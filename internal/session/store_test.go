package session

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"storefront/internal/models"
)

func sampleRecord(now time.Time) *models.Session {
	return &models.Session{
		ID:        "sid-1",
		LoggedIn:  true,
		Nickname:  "bargainer",
		Cookies:   []models.Cookie{{Name: "JSESSIONID", Value: "abc"}},
		CreatedAt: now,
		UpdatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	now := time.Now()

	_, err := store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, sampleRecord(now)))
	rec, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "bargainer", rec.Nickname)

	store.now = func() time.Time { return now.Add(2 * time.Hour) }
	_, err = store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.Equal(t, 0, held(store))
}

func held(m *MemoryStore) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

func TestMemoryStoreUnsavedChangesStayLocal(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rec := sampleRecord(time.Now())
	rec.Pages = map[string]json.RawMessage{"catalog": json.RawMessage(`{"a":1}`)}
	require.NoError(t, store.Save(ctx, rec))

	// the caller's record is not the stored one either
	rec.Pages["catalog"][1] = 'X'
	rec.Cookies[0].Value = "changed"

	loaded, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	s := FromRecord(*loaded)
	require.NoError(t, s.PutPage("unsaved", "x"))
	s.SetCookies([]*http.Cookie{{Name: "JSESSIONID", Value: "rotated"}})
	s.AddFlash(FlashInfo, "hello")

	again, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.NotContains(t, again.Pages, "unsaved")
	assert.JSONEq(t, `{"a":1}`, string(again.Pages["catalog"]))
	assert.Equal(t, "abc", again.Cookies[0].Value)
	assert.Empty(t, again.Flashes)
}

func TestMemoryStoreConcurrentSessions(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	rec := sampleRecord(time.Now())
	rec.Pages = map[string]json.RawMessage{"catalog": json.RawMessage(`[]`)}
	require.NoError(t, store.Save(ctx, rec))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				loaded, err := store.Load(ctx, "sid-1")
				if !assert.NoError(t, err) {
					return
				}
				s := FromRecord(*loaded)
				assert.NoError(t, s.PutPage(fmt.Sprintf("page-%d", i), j))
				s.SetCookies([]*http.Cookie{{Name: "JSESSIONID", Value: fmt.Sprint(j)}})
				rec := s.Record()
				assert.NoError(t, store.Save(ctx, &rec))
			}
		}(i)
	}
	wg.Wait()

	loaded, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Contains(t, loaded.Pages, "catalog")
}

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("Failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})
	return mr, client
}

func TestRedisStore(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	store := NewRedisStoreWithClient(client, "")

	_, err := store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, store.Save(ctx, sampleRecord(time.Now())))
	assert.True(t, mr.Exists(defaultRedisPrefix+"sid-1"))

	rec, err := store.Load(ctx, "sid-1")
	require.NoError(t, err)
	assert.Equal(t, "bargainer", rec.Nickname)
	assert.Equal(t, "abc", rec.Cookies[0].Value)

	mr.FastForward(2 * time.Hour)
	_, err = store.Load(ctx, "sid-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRedisStoreDelete(t *testing.T) {
	mr, client := setupTestRedis(t)
	ctx := context.Background()
	store := NewRedisStoreWithClient(client, "test:")

	require.NoError(t, store.Save(ctx, sampleRecord(time.Now())))
	require.NoError(t, store.Delete(ctx, "sid-1"))
	assert.False(t, mr.Exists("test:sid-1"))
}

func TestMongoStore(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ns := "bargain." + SessionsCollection

	mt.Run("load found", func(mt *mtest.T) {
		now := time.Now()
		rec := sampleRecord(now)
		store := NewMongoStore(mt.Coll)
		payload := `{"id":"sid-1","loggedIn":true,"nickname":"bargainer"}`

		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: rec.ID},
			{Key: "payload", Value: payload},
			{Key: "expiresAt", Value: rec.ExpiresAt},
		}))
		got, err := store.Load(context.Background(), rec.ID)
		require.NoError(mt, err)
		assert.Equal(mt, "bargainer", got.Nickname)
	})

	mt.Run("load missing", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))
		_, err := store.Load(context.Background(), "nope")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("load expired", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateCursorResponse(1, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: "sid-1"},
			{Key: "payload", Value: `{}`},
			{Key: "expiresAt", Value: time.Now().Add(-time.Minute)},
		}))
		_, err := store.Load(context.Background(), "sid-1")
		assert.ErrorIs(mt, err, ErrNotFound)
	})

	mt.Run("save upserts", func(mt *mtest.T) {
		store := NewMongoStore(mt.Coll)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 0},
			bson.E{Key: "upserted", Value: bson.A{bson.D{{Key: "index", Value: 0}, {Key: "_id", Value: "sid-1"}}}},
		))
		require.NoError(mt, store.Save(context.Background(), sampleRecord(time.Now())))
	})
}
