package dimension

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

var categoryLayout = Layout{
	FileName:   "categories.csv",
	IDColumn:   "category_id",
	DescColumn: "description",
}

func TestMergeAcrossItems(t *testing.T) {
	store := NewStore("categories")
	store.Seed([]Entry{{ID: 2, Description: "Single-player"}})

	testCases := []struct {
		item          int64
		observed      []Entry
		expectedAdded []Entry
		expectedLinks []Link
	}{
		{
			item: 10,
			observed: []Entry{
				{ID: 2, Description: "Single-player"},
				{ID: 22, Description: "Steam Achievements"},
				{ID: 1, Description: "Multi-player"},
			},
			expectedAdded: []Entry{
				{ID: 22, Description: "Steam Achievements"},
				{ID: 1, Description: "Multi-player"},
			},
			expectedLinks: []Link{{10, 2}, {10, 22}, {10, 1}},
		},
		{
			item: 20,
			observed: []Entry{
				{ID: 1, Description: "Multi-player"},
				{ID: 22, Description: "Steam Achievements"},
			},
			expectedAdded: nil,
			expectedLinks: []Link{{20, 1}, {20, 22}},
		},
		{
			item: 30,
			observed: []Entry{
				{ID: 35, Description: "In-App Purchases"},
				{ID: 35, Description: "In-App Purchases"},
				{ID: 2, Description: "Single-player"},
			},
			expectedAdded: []Entry{{ID: 35, Description: "In-App Purchases"}},
			expectedLinks: []Link{{30, 35}, {30, 2}},
		},
		{
			item:          40,
			observed:      nil,
			expectedAdded: nil,
			expectedLinks: nil,
		},
	}

	for _, test := range testCases {
		added, links := store.Merge(test.item, test.observed)
		if diff := cmp.Diff(test.expectedAdded, added); diff != "" {
			t.Fatalf("item %d added (-want +got):\n%s", test.item, diff)
		}
		if diff := cmp.Diff(test.expectedLinks, links); diff != "" {
			t.Fatalf("item %d links (-want +got):\n%s", test.item, diff)
		}
	}

	require.Equal(t, 4, store.Len())
	desc, ok := store.Known(35)
	require.True(t, ok)
	require.Equal(t, "In-App Purchases", desc)
}

func TestPlanDoesNotMutate(t *testing.T) {
	store := NewStore("genres")
	added, links := store.Plan(7, []Entry{{ID: 1, Description: "Action"}})
	require.Len(t, added, 1)
	require.Len(t, links, 1)
	require.Equal(t, 0, store.Len())

	store.Commit(added)
	added, _ = store.Plan(8, []Entry{{ID: 1, Description: "Action"}})
	require.Empty(t, added)
}

func TestSeedFromDataDir(t *testing.T) {
	dataDir := t.TempDir()

	write := func(period, contents string) {
		dir := filepath.Join(dataDir, period)
		err := os.MkdirAll(dir, 0755)
		if err != nil {
			t.Fatal(err)
		}
		err = os.WriteFile(filepath.Join(dir, "categories.csv"), []byte(contents), 0644)
		if err != nil {
			t.Fatal(err)
		}
	}
	write("2024-04", "category_id,description\n2,Single-player\nbad,Nope\n")
	write("2024-05", "category_id,description\n22,Steam Achievements\n2,Renamed\n")
	err := os.MkdirAll(filepath.Join(dataDir, "2024-06"), 0755)
	if err != nil {
		t.Fatal(err)
	}

	store := NewStore("categories")
	err = SeedFromDataDir(store, dataDir, categoryLayout)
	if err != nil {
		t.Fatal(err)
	}

	require.Equal(t, 2, store.Len())
	desc, ok := store.Known(2)
	require.True(t, ok)
	require.Equal(t, "Single-player", desc)

	added, links := store.Merge(10, []Entry{{ID: 22, Description: "Steam Achievements"}})
	require.Empty(t, added, "ids from earlier periods are global")
	require.Equal(t, []Link{{ItemID: 10, DimensionID: 22}}, links)
}

func TestLayoutRecord(t *testing.T) {
	require.Equal(t, []string{"category_id", "description"}, categoryLayout.Header())
	require.Equal(t, []string{"62", "Family Sharing"}, categoryLayout.Record(Entry{ID: 62, Description: "Family Sharing"}))
}
