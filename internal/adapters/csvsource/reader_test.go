package csvsource

import (
	"context"
	"delivery-route-sim/internal/domain"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadAddresses(t *testing.T) {
	t.Run("single row with multi-line cells", func(t *testing.T) {
		path := writeFile(t, "locations.csv", "\"4001 South 700 East\n(84107)\", 1060 Dalton Ave S,1330 2100 S\n")
		got, err := ReadAddresses(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"4001 South 700 East", "1060 Dalton Ave S", "1330 2100 S"}, got)
	})

	t.Run("one address per row", func(t *testing.T) {
		path := writeFile(t, "locations.csv", "Hub\nA\nB\n")
		got, err := ReadAddresses(path)
		require.NoError(t, err)
		assert.Equal(t, []string{"Hub", "A", "B"}, got)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadAddresses(filepath.Join(t.TempDir(), "nope.csv"))
		require.ErrorIs(t, err, os.ErrNotExist)
	})
}

func TestReadDistanceMatrix(t *testing.T) {
	t.Run("lower triangle is mirrored", func(t *testing.T) {
		path := writeFile(t, "distances.csv", "0\n2,0\n5,4,0\n")
		m, err := ReadDistanceMatrix(path)
		require.NoError(t, err)
		assert.Equal(t, 3, m.Size())
		assert.Equal(t, 5.0, m.At(0, 2))
		assert.Equal(t, 4.0, m.At(1, 2))
	})

	t.Run("full matrix", func(t *testing.T) {
		m, err := ParseDistanceMatrix([][]string{{"0", "1.5"}, {"1.5", "0"}})
		require.NoError(t, err)
		assert.Equal(t, 1.5, m.At(1, 0))
	})

	t.Run("non numeric cell", func(t *testing.T) {
		_, err := ParseDistanceMatrix([][]string{{"0", "x"}, {"1", "0"}})
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("missing pair", func(t *testing.T) {
		_, err := ParseDistanceMatrix([][]string{{"0", ""}, {"", "0"}})
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("too many columns", func(t *testing.T) {
		_, err := ParseDistanceMatrix([][]string{{"0", "1", "2"}, {"1", "0", "3"}})
		require.ErrorIs(t, err, domain.ErrMatrixNotSquare)
	})

	t.Run("asymmetric", func(t *testing.T) {
		_, err := ParseDistanceMatrix([][]string{{"0", "1"}, {"2", "0"}})
		require.ErrorIs(t, err, domain.ErrMatrixAsymmetric)
	})
}

func TestReadPackageRecords(t *testing.T) {
	content := "Package ID,Address,City,State,Zip,Deadline,Weight,Notes\n" +
		"1,195 W Oakland Ave,Salt Lake City,UT,84115,10:30 AM,21,\n" +
		"9,300 State St,Salt Lake City,UT,84103,EOD,2,Wrong address listed\n"
	path := writeFile(t, "packages.csv", content)

	got, err := ReadPackageRecords(path)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, domain.PackageRecord{
		PackageID: "1", Street: "195 W Oakland Ave", City: "Salt Lake City", State: "UT",
		Zip: "84115", Deadline: "10:30 AM", Weight: "21",
	}, got[0])
	assert.Equal(t, "Wrong address listed", got[1].Instructions)

	t.Run("duplicate id", func(t *testing.T) {
		_, err := ParsePackageRecords([][]string{
			{"1", "a", "c", "s", "z", "EOD", "1", ""},
			{"1", "b", "c", "s", "z", "EOD", "1", ""},
		})
		require.ErrorIs(t, err, ErrMalformed)
	})

	t.Run("short row", func(t *testing.T) {
		_, err := ParsePackageRecords([][]string{{"1", "a"}})
		require.ErrorIs(t, err, ErrMalformed)
	})
}

func TestNetworkSource(t *testing.T) {
	addrs := writeFile(t, "locations.csv", "Hub,A,B\n")
	dists := writeFile(t, "distances.csv", "0,2,5\n2,0,4\n5,4,0\n")

	network, err := NewNetworkSource(addrs, dists).LoadNetwork(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, network.Addresses.Len())
	assert.Equal(t, 4.0, network.Distances.At(1, 2))

	short := writeFile(t, "short.csv", "Hub,A\n")
	_, err = NewNetworkSource(short, dists).LoadNetwork(context.Background())
	require.ErrorIs(t, err, ErrMalformed)
}
