package repositories

import (
	"context"
	"database/sql"
	"delivery-route-sim/internal/domain"
	"delivery-route-sim/internal/ports"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"
)

func sampleRecords() []domain.PackageRecord {
	return []domain.PackageRecord{
		{PackageID: "10", Street: "600 E 900 South", City: "Salt Lake City", State: "UT", Zip: "84105", Deadline: "EOD", Weight: "1"},
		{PackageID: "2", Street: "2530 S 500 E", City: "Salt Lake City", State: "UT", Zip: "84106", Deadline: "EOD", Weight: "44"},
		{PackageID: "9", Street: "300 State St", City: "Salt Lake City", State: "UT", Zip: "84103", Deadline: "EOD", Weight: "2", Instructions: "Wrong address listed"},
	}
}

// exerciseRecordStore runs the PackageRecordStore contract against store.
func exerciseRecordStore(t *testing.T, store ports.PackageRecordStore) {
	t.Helper()
	ctx := context.Background()

	require.NoError(t, SeedRecords(ctx, store, sampleRecords()))

	list, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []string{"2", "9", "10"}, []string{list[0].PackageID, list[1].PackageID, list[2].PackageID})

	got, err := store.Get(ctx, "9")
	require.NoError(t, err)
	assert.Equal(t, sampleRecords()[2], got)

	updated := sampleRecords()[0]
	updated.Weight = "5"
	require.NoError(t, store.Put(ctx, updated))
	got, err = store.Get(ctx, "10")
	require.NoError(t, err)
	assert.Equal(t, "5", got.Weight)

	_, err = store.Get(ctx, "404")
	require.ErrorIs(t, err, ports.ErrRecordNotFound)

	require.ErrorIs(t, store.Put(ctx, domain.PackageRecord{}), errEmptyID)
}

func TestMemoryRecordStore(t *testing.T) {
	exerciseRecordStore(t, NewMemoryRecordStore())
}

func TestRedisRecordStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisRecordStore(client, "")
	exerciseRecordStore(t, store)

	assert.True(t, mr.Exists(DefaultRedisKey))
	raw := mr.HGet(DefaultRedisKey, "2")
	assert.Contains(t, raw, `"street":"2530 S 500 E"`)
}

func TestSQLRecordStoreSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "records.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, InitSchema(ctx, db))
	require.NoError(t, InitSchema(ctx, db), "schema creation must be repeatable")

	exerciseRecordStore(t, NewSQLRecordStore(db, SQLite))
}

func TestSQLRecordStoreBind(t *testing.T) {
	pg := NewSQLRecordStore(nil, Postgres)
	assert.Equal(t, "SELECT $1, $2", pg.bind("SELECT ?, ?"))

	lite := NewSQLRecordStore(nil, SQLite)
	assert.Equal(t, "SELECT ?, ?", lite.bind("SELECT ?, ?"))
}

func TestStoresRejectNilBackends(t *testing.T) {
	ctx := context.Background()
	_, err := NewSQLRecordStore(nil, SQLite).List(ctx)
	require.Error(t, err)
	_, err = (&RedisRecordStore{}).List(ctx)
	require.Error(t, err)
	require.Error(t, InitSchema(ctx, nil))
}
