package ui

import (
	"testing"
	"time"

	"tastebook/internal/model"
)

func sampleRestaurants() []model.Restaurant {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	return []model.Restaurant{
		{ID: 1, Name: "Chez Janou", City: "Paris", Rating: 4, CreatedAt: base},
		{ID: 2, Name: "Bao", City: "London", Rating: 5, IsFavorite: true, CreatedAt: base.Add(time.Hour)},
		{ID: 3, Name: "Ar Sito", City: "Paris", Rating: 3, CreatedAt: base.Add(2 * time.Hour)},
	}
}

func names(rows []model.Restaurant) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.Name
	}
	return out
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestTable_SortActiveColumn(t *testing.T) {
	tests := []struct {
		name   string
		column int
		desc   bool
		want   []string
	}{
		{"name asc", 1, false, []string{"Ar Sito", "Bao", "Chez Janou"}},
		{"name desc", 1, true, []string{"Chez Janou", "Bao", "Ar Sito"}},
		{"rating asc", 3, false, []string{"Ar Sito", "Chez Janou", "Bao"}},
		// equal cities fall back to the newest id first
		{"city asc", 2, false, []string{"Bao", "Ar Sito", "Chez Janou"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewRestaurantsModel(model.ViewAll)
			m.SetRows(sampleRestaurants())
			if !m.JumpToColumn(tt.column) {
				t.Fatalf("JumpToColumn(%d) failed", tt.column)
			}
			m.SortActiveColumn(tt.desc)
			if got := names(m.rows); !equalStrings(got, tt.want) {
				t.Errorf("rows = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTable_SetRowsKeepsSelection(t *testing.T) {
	m := NewRestaurantsModel(model.ViewAll)
	m.SetRows(sampleRestaurants())
	m.MoveDown()
	m.MoveDown()
	if r, _ := m.Selected(); r.ID != 3 {
		t.Fatalf("selected id = %d, want 3", r.ID)
	}

	// A reload that reorders rows keeps the cursor on the same restaurant.
	rows := sampleRestaurants()
	rows[0], rows[2] = rows[2], rows[0]
	m.SetRows(rows)
	if r, _ := m.Selected(); r.ID != 3 {
		t.Errorf("selected id after reload = %d, want 3", r.ID)
	}

	// When the row disappears the cursor is clamped.
	m.SetRows(sampleRestaurants()[:1])
	if r, ok := m.Selected(); !ok || r.ID != 1 {
		t.Errorf("selected after shrink = %d, %v", r.ID, ok)
	}
}

func TestTable_FilterBySelectedValue(t *testing.T) {
	m := NewRestaurantsModel(model.ViewAll)
	m.SetRows(sampleRestaurants())
	m.JumpToColumn(2) // city

	if !m.FilterBySelectedValue() {
		t.Fatal("FilterBySelectedValue returned false")
	}
	if m.Len() != 2 {
		t.Fatalf("Len = %d, want 2 Paris rows", m.Len())
	}
	for _, r := range m.rows {
		if r.City != "Paris" {
			t.Errorf("unexpected row %q in filter", r.Name)
		}
	}

	if !m.ClearFilter() {
		t.Fatal("ClearFilter returned false")
	}
	if m.Len() != 3 {
		t.Errorf("Len after clear = %d, want 3", m.Len())
	}
	if m.ClearFilter() {
		t.Error("second ClearFilter should report nothing to clear")
	}
}

func TestTable_FilterOnEmptyCell(t *testing.T) {
	m := NewRestaurantsModel(model.ViewAll)
	m.SetRows(sampleRestaurants())
	m.JumpToColumn(5) // notes are empty
	if m.FilterBySelectedValue() {
		t.Error("filtering on an empty cell should be refused")
	}
}

func TestTable_HideColumns(t *testing.T) {
	m := NewRestaurantsModel(model.ViewAll)
	total := len(m.columns)
	for i := 1; i < total; i++ {
		if !m.HideActiveColumn() {
			t.Fatalf("hide %d failed", i)
		}
	}
	if m.HideActiveColumn() {
		t.Error("the last visible column must stay visible")
	}
	if got := len(m.visibleColumnIndexes()); got != 1 {
		t.Errorf("visible = %d, want 1", got)
	}
	if m.JumpToColumn(1) {
		t.Error("jumping to a hidden column should fail")
	}

	m.ShowAllColumns()
	if got := len(m.visibleColumnIndexes()); got != total {
		t.Errorf("visible after show all = %d, want %d", got, total)
	}
}

func TestTable_PrefsRoundTrip(t *testing.T) {
	m := NewRestaurantsModel(model.ViewAll)
	m.SetRows(sampleRestaurants())
	m.JumpToColumn(3)
	m.SortActiveColumn(true)
	m.JumpToColumn(5)
	m.HideActiveColumn()

	prefs := m.Prefs()
	if prefs.SortKey != "rating" || !prefs.SortDesc {
		t.Errorf("sort prefs = %q desc=%v", prefs.SortKey, prefs.SortDesc)
	}

	other := NewRestaurantsModel(model.ViewFavorites)
	other.ApplyPrefs(prefs)
	other.SetRows(sampleRestaurants())
	if got := names(other.rows); !equalStrings(got, []string{"Bao", "Chez Janou", "Ar Sito"}) {
		t.Errorf("rows = %v", got)
	}
	if !other.columns[4].hidden {
		t.Error("notes column should be hidden")
	}
	if other.columns[other.activeColumn].hidden {
		t.Error("active column must be visible")
	}
}

func TestTable_ApplyPrefsIgnoresUnknownSortKey(t *testing.T) {
	m := NewWishlistModel("")
	m.ApplyPrefs(TablePrefs{SortKey: "rating", SortDesc: true})
	if m.sortKey != "" {
		t.Errorf("sortKey = %q, want empty", m.sortKey)
	}
}

func TestTable_CursorMovement(t *testing.T) {
	m := NewRestaurantsModel(model.ViewAll)
	m.SetRows(sampleRestaurants())

	m.MoveUp()
	if m.cursor != 0 {
		t.Errorf("cursor = %d after MoveUp at top", m.cursor)
	}
	m.JumpToBottom()
	if m.cursor != 2 {
		t.Errorf("cursor = %d after JumpToBottom", m.cursor)
	}
	m.MoveDown()
	if m.cursor != 2 {
		t.Errorf("cursor = %d after MoveDown at bottom", m.cursor)
	}
	m.JumpToTop()
	if m.cursor != 0 {
		t.Errorf("cursor = %d after JumpToTop", m.cursor)
	}
	m.HalfPageDown(100)
	if m.cursor != 2 {
		t.Errorf("cursor = %d after HalfPageDown", m.cursor)
	}
	m.HalfPageUp(100)
	if m.cursor != 0 {
		t.Errorf("cursor = %d after HalfPageUp", m.cursor)
	}
}

func TestWishlist_PriorityColumnSortsByRank(t *testing.T) {
	m := NewWishlistModel("")
	m.SetRows([]model.WishlistItem{
		{ID: 1, Name: "A", Priority: model.PriorityLow},
		{ID: 2, Name: "B", Priority: model.PriorityHigh},
		{ID: 3, Name: "C", Priority: model.PriorityMedium},
	})
	m.JumpToColumn(3)
	m.SortActiveColumn(true)

	var got []model.Priority
	for _, it := range m.rows {
		got = append(got, it.Priority)
	}
	want := []model.Priority{model.PriorityHigh, model.PriorityMedium, model.PriorityLow}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("priorities = %v, want %v", got, want)
		}
	}
}

func TestNextPriorityFilter(t *testing.T) {
	seq := []model.Priority{"", model.PriorityHigh, model.PriorityMedium, model.PriorityLow, ""}
	for i := 0; i < len(seq)-1; i++ {
		if got := NextPriorityFilter(seq[i]); got != seq[i+1] {
			t.Errorf("NextPriorityFilter(%q) = %q, want %q", seq[i], got, seq[i+1])
		}
	}
}
