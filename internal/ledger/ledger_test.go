package ledger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOpenMissingFile(t *testing.T) {
	l, err := Open(filepath.Join(t.TempDir(), "processed_details.txt"))
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 0, l.Len())
	require.False(t, l.Contains(10))
}

func TestOpenSkipsMalformedLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_reviews.txt")
	err := os.WriteFile(path, []byte("10\n\nabc\n 20 \n3.5\n20\n-7\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 3, l.Len())
	require.True(t, l.Contains(10))
	require.True(t, l.Contains(20))
	require.True(t, l.Contains(-7))
	require.False(t, l.Contains(3))
}

func TestMarkProcessedSurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "2024-05", "processed_players.txt")

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	for _, id := range []int64{10, 20, 10} {
		err := l.MarkProcessed(id)
		if err != nil {
			t.Fatal(err)
		}
	}
	require.True(t, l.Contains(10))
	require.Equal(t, 2, l.Len())

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "10\n20\n10\n", string(contents))

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 2, reopened.Len())
	require.True(t, reopened.Contains(20))
}

func TestMarkProcessedAfterTruncatedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_details.txt")
	err := os.WriteFile(path, []byte("10\n2x"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, l.Len())
	err = l.MarkProcessed(30)
	if err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	require.True(t, reopened.Contains(10))
	require.True(t, reopened.Contains(30))
	require.False(t, reopened.Contains(2))

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "10\n30\n", string(contents))
}

func TestPartialLastLineIsNotProcessed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_reviews.txt")
	// "123\n" cut short by a crash
	err := os.WriteFile(path, []byte("10\n12"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 1, l.Len())
	require.True(t, l.Contains(10))
	require.False(t, l.Contains(12))

	err = l.MarkProcessed(123)
	if err != nil {
		t.Fatal(err)
	}
	err = l.MarkProcessed(40)
	if err != nil {
		t.Fatal(err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	require.False(t, reopened.Contains(12))
	require.True(t, reopened.Contains(123))
	require.True(t, reopened.Contains(40))
	require.Equal(t, 3, reopened.Len())

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "10\n123\n40\n", string(contents))
}

func TestPartialOnlyLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed_players.txt")
	err := os.WriteFile(path, []byte("7"), 0644)
	if err != nil {
		t.Fatal(err)
	}

	l, err := Open(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, 0, l.Len())

	err = l.MarkProcessed(8)
	if err != nil {
		t.Fatal(err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	require.Equal(t, "8\n", string(contents))
}
