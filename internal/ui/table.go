package ui

import (
	"fmt"
	"sort"
	"strings"

	"tastebook/internal/util"

	"github.com/charmbracelet/lipgloss"
)

const defaultViewportHeight = 10

type column[T any] struct {
	key    string
	label  string
	width  int
	hidden bool
	// value is the sort and filter key of a cell.
	value func(T) string
	// render draws the cell; nil renders value truncated to width.
	render func(row T, width int) string
}

// Table is the sortable, filterable list shared by the restaurant and
// wishlist screens.
type Table[T any] struct {
	allRows []T
	rows    []T
	id      func(T) int64
	cursor  int
	offset  int

	viewportHeight int

	columns      []column[T]
	activeColumn int
	sortKey      string
	sortDesc     bool
	filterKey    string
	filterValue  string
}

func newTable[T any](columns []column[T], id func(T) int64) *Table[T] {
	return &Table[T]{columns: columns, id: id}
}

// SetRows replaces the data, keeping the cursor on the same row id when it
// is still present.
func (t *Table[T]) SetRows(rows []T) {
	var selected int64
	if row, ok := t.Selected(); ok {
		selected = t.id(row)
	}
	t.allRows = append([]T(nil), rows...)
	t.rebuild()
	if selected == 0 {
		return
	}
	for i, r := range t.rows {
		if t.id(r) == selected {
			t.cursor = i
			t.scrollToCursor()
			return
		}
	}
}

// Selected returns the row under the cursor.
func (t *Table[T]) Selected() (T, bool) {
	var zero T
	if len(t.rows) == 0 || t.cursor >= len(t.rows) {
		return zero, false
	}
	return t.rows[t.cursor], true
}

// Len is the number of rows after filtering.
func (t *Table[T]) Len() int { return len(t.rows) }

func (t *Table[T]) ApplyPrefs(prefs TablePrefs) {
	if prefs.SortKey != "" && t.columnIndex(prefs.SortKey) >= 0 {
		t.sortKey = prefs.SortKey
		t.sortDesc = prefs.SortDesc
	}
	hidden := make(map[string]bool, len(prefs.HiddenColumns))
	for _, c := range prefs.HiddenColumns {
		hidden[c] = true
	}
	for i := range t.columns {
		t.columns[i].hidden = hidden[t.columns[i].key]
	}
	if i := t.columnIndex(prefs.ActiveColumn); i >= 0 {
		t.activeColumn = i
	}
	t.ensureVisibleActiveColumn()
	t.rebuild()
}

func (t *Table[T]) Prefs() TablePrefs {
	var hidden []string
	for _, c := range t.columns {
		if c.hidden {
			hidden = append(hidden, c.key)
		}
	}
	return TablePrefs{
		SortKey:       t.sortKey,
		SortDesc:      t.sortDesc,
		HiddenColumns: hidden,
		ActiveColumn:  t.columns[t.activeColumn].key,
	}
}

func (t *Table[T]) columnIndex(key string) int {
	for i, c := range t.columns {
		if c.key == key {
			return i
		}
	}
	return -1
}

func (t *Table[T]) valueOf(row T, key string) string {
	if i := t.columnIndex(key); i >= 0 {
		return t.columns[i].value(row)
	}
	return ""
}

func (t *Table[T]) rebuild() {
	rows := append([]T(nil), t.allRows...)

	if t.filterKey != "" && t.filterValue != "" {
		filtered := make([]T, 0, len(rows))
		target := strings.TrimSpace(t.filterValue)
		for _, r := range rows {
			if strings.EqualFold(strings.TrimSpace(t.valueOf(r, t.filterKey)), target) {
				filtered = append(filtered, r)
			}
		}
		rows = filtered
	}

	if t.sortKey != "" {
		sort.SliceStable(rows, func(i, j int) bool {
			left := strings.ToLower(t.valueOf(rows[i], t.sortKey))
			right := strings.ToLower(t.valueOf(rows[j], t.sortKey))
			if left == right {
				return t.id(rows[i]) > t.id(rows[j])
			}
			if t.sortDesc {
				return left > right
			}
			return left < right
		})
	}

	t.rows = rows
	t.clampCursor()
}

func (t *Table[T]) clampCursor() {
	if len(t.rows) == 0 {
		t.cursor = 0
		t.offset = 0
		return
	}
	t.cursor = min(max(t.cursor, 0), len(t.rows)-1)
	if t.offset > t.cursor {
		t.offset = t.cursor
	}
}

func (t *Table[T]) visibleColumnIndexes() []int {
	var idxs []int
	for i, c := range t.columns {
		if !c.hidden {
			idxs = append(idxs, i)
		}
	}
	return idxs
}

func (t *Table[T]) ensureVisibleActiveColumn() {
	if !t.columns[t.activeColumn].hidden {
		return
	}
	for i := range t.columns {
		if !t.columns[i].hidden {
			t.activeColumn = i
			return
		}
	}
	t.columns[0].hidden = false
	t.activeColumn = 0
}

func (t *Table[T]) NextColumn() {
	start := t.activeColumn
	for {
		t.activeColumn = (t.activeColumn + 1) % len(t.columns)
		if !t.columns[t.activeColumn].hidden || t.activeColumn == start {
			return
		}
	}
}

func (t *Table[T]) PrevColumn() {
	start := t.activeColumn
	for {
		t.activeColumn--
		if t.activeColumn < 0 {
			t.activeColumn = len(t.columns) - 1
		}
		if !t.columns[t.activeColumn].hidden || t.activeColumn == start {
			return
		}
	}
}

func (t *Table[T]) JumpToColumn(number int) bool {
	if number < 1 || number > len(t.columns) {
		return false
	}
	idx := number - 1
	if t.columns[idx].hidden {
		return false
	}
	t.activeColumn = idx
	return true
}

func (t *Table[T]) SortActiveColumn(desc bool) {
	t.sortKey = t.columns[t.activeColumn].key
	t.sortDesc = desc
	t.rebuild()
}

func (t *Table[T]) HideActiveColumn() bool {
	if len(t.visibleColumnIndexes()) <= 1 {
		return false
	}
	t.columns[t.activeColumn].hidden = true
	t.ensureVisibleActiveColumn()
	return true
}

func (t *Table[T]) ShowAllColumns() {
	for i := range t.columns {
		t.columns[i].hidden = false
	}
}

func (t *Table[T]) FilterBySelectedValue() bool {
	row, ok := t.Selected()
	if !ok {
		return false
	}
	key := t.columns[t.activeColumn].key
	value := strings.TrimSpace(t.valueOf(row, key))
	if value == "" {
		return false
	}
	t.filterKey = key
	t.filterValue = value
	t.rebuild()
	return true
}

func (t *Table[T]) ClearFilter() bool {
	if t.filterKey == "" {
		return false
	}
	t.filterKey = ""
	t.filterValue = ""
	t.rebuild()
	return true
}

func (t *Table[T]) TableMeta() string {
	parts := []string{"col " + strings.ToUpper(t.columns[t.activeColumn].label)}
	if t.sortKey != "" {
		order := "asc"
		if t.sortDesc {
			order = "desc"
		}
		parts = append(parts, fmt.Sprintf("sort %s %s", strings.ToUpper(t.sortKey), order))
	}
	if t.filterKey != "" {
		parts = append(parts, fmt.Sprintf("filter %s=%q", strings.ToUpper(t.filterKey), t.filterValue))
	}
	return strings.Join(parts, "  ·  ")
}

// View renders the header, the visible rows and a status line. summary is
// prepended to the status line.
func (t *Table[T]) View(width, height int, empty, summary string) string {
	if len(t.allRows) == 0 {
		return EmptyStateStyle.Width(width).Height(height).Render(empty)
	}

	visible := t.visibleColumnIndexes()
	widths := make([]int, 0, len(visible))
	headers := make([]string, 0, len(visible))
	total := 0
	for _, idx := range visible {
		col := t.columns[idx]
		label := formatHeaderLabel(col.label)
		if idx == t.activeColumn {
			label = renderActiveHeaderLabel(label)
		}
		if t.sortKey == col.key {
			if t.sortDesc {
				label += " ↓"
			} else {
				label += " ↑"
			}
		}
		w := max(col.width+2, lipgloss.Width(label)+4)
		total += w
		widths = append(widths, w)
		headers = append(headers, label)
	}
	if extra := width - total - 2; extra > 0 {
		widths[len(widths)-1] += extra
	}

	header := renderTableRow(headers, widths, TableHeaderStyle)
	divider := renderTableDivider(widths)

	t.viewportHeight = max(1, height-4)
	var lines []string
	for i := t.offset; i < len(t.rows) && i < t.offset+t.viewportHeight; i++ {
		row := t.rows[i]
		style := NormalRowStyle
		if i == t.cursor {
			style = SelectedRowStyle
		}
		cells := make([]string, 0, len(visible))
		for _, idx := range visible {
			col := t.columns[idx]
			if col.render != nil {
				cells = append(cells, col.render(row, col.width))
			} else {
				cells = append(cells, util.TruncateString(col.value(row), col.width))
			}
		}
		lines = append(lines, renderTableRow(cells, widths, style))
	}
	if len(t.rows) == 0 {
		lines = append(lines, HelpDescStyle.Render("  No rows match the filter. Press N to clear it."))
	}

	status := summary
	if len(t.rows) > 0 {
		status += fmt.Sprintf("  ·  row %d/%d", t.cursor+1, len(t.rows))
	}
	if t.filterKey != "" {
		status += fmt.Sprintf("  ·  filtered: %d/%d", len(t.rows), len(t.allRows))
	}
	status = StatusBarStyle.Render(status + "  ·  " + t.TableMeta())

	content := lipgloss.JoinVertical(lipgloss.Left, header, divider, strings.Join(lines, "\n"))
	spacer := lipgloss.NewStyle().Height(max(0, height-lipgloss.Height(content)-lipgloss.Height(status))).Render("")
	return lipgloss.JoinVertical(lipgloss.Left, content, spacer, status)
}

func (t *Table[T]) viewport() int {
	if t.viewportHeight == 0 {
		return defaultViewportHeight
	}
	return t.viewportHeight
}

func (t *Table[T]) scrollToCursor() {
	vh := t.viewport()
	if t.cursor < t.offset {
		t.offset = t.cursor
	}
	if t.cursor >= t.offset+vh {
		t.offset = t.cursor - vh + 1
	}
}

// MoveDown moves the cursor down.
func (t *Table[T]) MoveDown() {
	if t.cursor < len(t.rows)-1 {
		t.cursor++
		t.scrollToCursor()
	}
}

// MoveUp moves the cursor up.
func (t *Table[T]) MoveUp() {
	if t.cursor > 0 {
		t.cursor--
		t.scrollToCursor()
	}
}

// JumpToTop jumps to the first item.
func (t *Table[T]) JumpToTop() {
	t.cursor = 0
	t.offset = 0
}

// JumpToBottom jumps to the last item.
func (t *Table[T]) JumpToBottom() {
	if len(t.rows) > 0 {
		t.cursor = len(t.rows) - 1
		t.scrollToCursor()
	}
}

// HalfPageDown moves down half a page.
func (t *Table[T]) HalfPageDown(pageSize int) {
	if len(t.rows) == 0 {
		return
	}
	t.cursor = min(t.cursor+pageSize/2, len(t.rows)-1)
	t.scrollToCursor()
}

// HalfPageUp moves up half a page.
func (t *Table[T]) HalfPageUp(pageSize int) {
	t.cursor = max(t.cursor-pageSize/2, 0)
	t.scrollToCursor()
}

func formatHeaderLabel(label string) string {
	return strings.ToUpper(label)
}

func renderActiveHeaderLabel(label string) string {
	return lipgloss.NewStyle().Underline(true).Render(label)
}

func renderTableRow(cells []string, widths []int, style lipgloss.Style) string {
	parts := make([]string, 0, len(cells))
	for i, cell := range cells {
		if i >= len(widths) {
			continue
		}
		parts = append(parts, style.Width(widths[i]).Render(cell))
	}
	return lipgloss.JoinHorizontal(lipgloss.Left, parts...)
}

func renderTableDivider(widths []int) string {
	total := 0
	for _, w := range widths {
		total += w
	}
	return BreadcrumbStyle.Render(strings.Repeat("─", total))
}
