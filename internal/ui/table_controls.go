package ui

// tableController is the part of a list screen the root model drives from
// nav-mode keys. RestaurantsModel and WishlistModel get it from Table.
type tableController interface {
	NextColumn()
	PrevColumn()
	JumpToColumn(number int) bool
	SortActiveColumn(desc bool)
	HideActiveColumn() bool
	ShowAllColumns()
	FilterBySelectedValue() bool
	ClearFilter() bool
	TableMeta() string

	MoveDown()
	MoveUp()
	JumpToTop()
	JumpToBottom()
	HalfPageDown(pageSize int)
	HalfPageUp(pageSize int)
}

var (
	_ tableController = (*RestaurantsModel)(nil)
	_ tableController = (*WishlistModel)(nil)
)
