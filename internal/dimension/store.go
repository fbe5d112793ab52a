// Package dimension tracks the secondary entities (categories, genres) that
// items reference, so each one is written to its lookup table only once over
// the lifetime of the dataset.
package dimension

// Entry is a single dimension value.
type Entry struct {
	ID          int64
	Description string
}

// Link records that an item belongs to a dimension value.
type Link struct {
	ItemID      int64
	DimensionID int64
}

// Store is the in-memory set of known dimension ids. It is not safe for
// concurrent use.
type Store struct {
	name  string
	known map[int64]string
}

func NewStore(name string) *Store {
	return &Store{
		name:  name,
		known: map[int64]string{},
	}
}

func (s *Store) Name() string {
	return s.name
}

func (s *Store) Len() int {
	return len(s.known)
}

// Known reports whether id has been seen, returning its description.
func (s *Store) Known(id int64) (string, bool) {
	desc, ok := s.known[id]
	return desc, ok
}

// Seed marks entries as already present in the dimension table. The first
// description seen for an id wins.
func (s *Store) Seed(entries []Entry) {
	for _, e := range entries {
		if _, ok := s.known[e.ID]; ok {
			continue
		}
		s.known[e.ID] = e.Description
	}
}

// Plan computes what Merge would produce without changing the store: the
// entries not known yet (each id once, in first-observed order) and one link
// per distinct observed id.
func (s *Store) Plan(itemID int64, observed []Entry) (added []Entry, links []Link) {
	seen := make(map[int64]struct{}, len(observed))
	for _, e := range observed {
		if _, dup := seen[e.ID]; dup {
			continue
		}
		seen[e.ID] = struct{}{}

		if _, ok := s.known[e.ID]; !ok {
			added = append(added, e)
		}
		links = append(links, Link{ItemID: itemID, DimensionID: e.ID})
	}
	return added, links
}

// Commit adds entries returned by Plan to the known set, it should be called
// once they are durably written.
func (s *Store) Commit(added []Entry) {
	s.Seed(added)
}

// Merge is Plan followed by Commit.
func (s *Store) Merge(itemID int64, observed []Entry) (added []Entry, links []Link) {
	added, links = s.Plan(itemID, observed)
	s.Commit(added)
	return added, links
}
