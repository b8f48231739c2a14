package ui

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"tastebook/internal/api"
	"tastebook/internal/autocomplete"
	"tastebook/internal/data"
	"tastebook/internal/model"
	"tastebook/internal/session"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const sessionExpiredNotice = "Your session expired. Log in again to continue."

// Options configures the root model.
type Options struct {
	Sessions     *session.Store
	Store        *data.Store
	Navigator    *Navigator
	ConfigDir    string
	Autocomplete bool
	Logger       *slog.Logger
}

// Model is the root Bubble Tea model.
type Model struct {
	sessions     *session.Store
	store        *data.Store
	nav          *Navigator
	logger       *slog.Logger
	configDir    string
	autocomplete bool

	screen model.Screen
	mode   model.Mode
	// pendingG is set after a first g; a second one jumps to the top.
	pendingG bool

	width  int
	height int

	error       string
	info        string
	showingHelp bool
	columnJump  bool
	user        *model.User

	// Screen models
	auth             *AuthFormModel
	restaurants      *RestaurantsModel
	wishlist         *WishlistModel
	stats            *StatsModel
	restaurantDetail *RestaurantDetailModel
	wishlistDetail   *WishlistDetailModel
	restaurantForm   *RestaurantFormModel
	wishlistForm     *WishlistFormModel

	// formReturn is the screen a closed form goes back to.
	formReturn model.Screen

	keys  KeyMap
	prefs UIPreferences
}

// New creates a new root model. It starts on the checking screen until the
// session check completes.
func New(opts Options) Model {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	nav := opts.Navigator
	if nav == nil {
		nav = NewNavigator()
	}
	return Model{
		sessions:     opts.Sessions,
		store:        opts.Store,
		nav:          nav,
		logger:       logger,
		configDir:    opts.ConfigDir,
		autocomplete: opts.Autocomplete,
		screen:       model.ScreenChecking,
		mode:         model.ModeNav,
		keys:         DefaultKeyMap(),
		prefs:        loadUIPreferences(opts.ConfigDir),
	}
}

// Init checks the session and starts listening for redirects.
func (m Model) Init() tea.Cmd {
	return tea.Batch(checkSessionCmd(m.sessions), m.nav.wait())
}

// Update handles messages. The navigator always learns the resulting path so
// a 401 can tell whether the user is on a public screen.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.update(msg)
	next.nav.setPath(next.path())
	return next, cmd
}

func (m Model) update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case navigateMsg:
		next, cmd := m.navigateTo(msg.path)
		return next, tea.Batch(cmd, next.nav.wait())

	case sessionCheckedMsg:
		if msg.snap.Authenticated() {
			m.user = msg.snap.User
			return m.showRestaurants()
		}
		return m.enterAuth(false, "")

	case loggedInMsg:
		user := msg.user
		m.user = &user
		m.auth = nil
		m.error = ""
		m.info = "Welcome, " + user.Username
		return m.showRestaurants()

	case registeredMsg:
		m.auth = NewAuthFormModel(m.sessions, false)
		m.auth.SetNotice("Account created. Log in to continue.")
		m.screen = model.ScreenLogin
		m.mode = model.ModeInsert
		m.error = ""
		return m, m.auth.SetUsername(msg.username)

	case loggedOutMsg:
		if msg.err != nil {
			m.logger.Warn("logout", slog.String("error", msg.err.Error()))
		}
		m.user = nil
		m.dropScreens()
		next, cmd := m.enterAuth(false, "Logged out.")
		return next, cmd

	case formErrorMsg:
		return m, m.updateActiveForm(msg)

	case suggestionsMsg:
		var cmds []tea.Cmd
		if m.restaurantForm != nil {
			cmds = append(cmds, m.restaurantForm.Update(msg))
		}
		if m.wishlistForm != nil {
			cmds = append(cmds, m.wishlistForm.Update(msg))
		}
		return m, tea.Batch(cmds...)

	case spinner.TickMsg:
		var cmds []tea.Cmd
		if m.restaurantForm != nil {
			cmds = append(cmds, m.restaurantForm.Update(msg))
		}
		if m.wishlistForm != nil {
			cmds = append(cmds, m.wishlistForm.Update(msg))
		}
		return m, tea.Batch(cmds...)

	case model.ErrorMsg:
		m.error = api.Message(msg.Err)
		m.info = ""
		return m, nil

	case model.RestaurantsLoadedMsg:
		if m.restaurants == nil || m.restaurants.view != msg.View {
			return m, nil
		}
		m.restaurants.Load(msg)
		if msg.Stale {
			m.info = "Server unreachable, showing the last loaded list"
		} else {
			m.error = ""
		}
		return m, nil

	case model.RestaurantLoadedMsg:
		if m.restaurantDetail != nil && m.restaurantDetail.restaurant.ID == msg.Restaurant.ID {
			m.restaurantDetail.restaurant = msg.Restaurant
			m.error = ""
		}
		return m, nil

	case model.StatsLoadedMsg:
		m.stats = NewStatsModel(msg)
		m.error = ""
		return m, nil

	case model.WishlistLoadedMsg:
		if m.wishlist == nil || m.wishlist.priority != msg.Priority {
			return m, nil
		}
		m.wishlist.Load(msg)
		if msg.Stale {
			m.info = "Server unreachable, showing the last loaded list"
		} else {
			m.error = ""
		}
		return m, nil

	case model.WishlistItemLoadedMsg:
		if m.wishlistDetail != nil && m.wishlistDetail.item.ID == msg.Item.ID {
			m.wishlistDetail.item = msg.Item
			m.error = ""
		}
		return m, nil

	case model.RestaurantsChangedMsg:
		return m.restaurantsChanged(msg)

	case model.WishlistChangedMsg:
		return m.wishlistChanged(msg)

	case model.PromotedMsg:
		m.wishlistDetail = nil
		m.mode = model.ModeNav
		m.error = ""
		m.info = "Moved " + msg.Restaurant.Name + " to your restaurants"
		next, cmd := m.showRestaurants()
		return next, tea.Batch(cmd, next.reloadWishlist(), next.reloadStats())

	case model.FormCancelledMsg:
		m.closeForms()
		m.mode = model.ModeNav
		m.screen = m.formReturn
		return m, nil
	}

	if m.mode == model.ModeInsert {
		return m, m.updateActiveForm(msg)
	}
	return m, nil
}

// path is the route of the current screen.
func (m Model) path() string {
	switch m.screen {
	case model.ScreenLogin, model.ScreenRegister:
		if m.auth != nil {
			return m.auth.Path()
		}
		return session.LoginPath
	case model.ScreenRestaurants:
		return "/restaurants"
	case model.ScreenWishlist:
		return "/wishlist"
	case model.ScreenStats:
		return "/stats"
	case model.ScreenRestaurantDetail:
		if m.restaurantDetail != nil {
			return "/restaurants/" + strconv.FormatInt(m.restaurantDetail.restaurant.ID, 10)
		}
		return "/restaurants"
	case model.ScreenWishlistDetail:
		if m.wishlistDetail != nil {
			return "/wishlist/" + strconv.FormatInt(m.wishlistDetail.item.ID, 10)
		}
		return "/wishlist"
	case model.ScreenRestaurantForm:
		if m.restaurantForm != nil && m.restaurantForm.Editing() {
			return "/restaurants/" + strconv.FormatInt(m.restaurantForm.restaurantID, 10) + "/edit"
		}
		return "/restaurants/new"
	case model.ScreenWishlistForm:
		if m.wishlistForm != nil && m.wishlistForm.Editing() {
			return "/wishlist/" + strconv.FormatInt(m.wishlistForm.itemID, 10) + "/edit"
		}
		return "/wishlist/new"
	}
	return session.RootPath
}

// navigateTo shows the screen for a path requested from outside the update
// loop.
func (m Model) navigateTo(path string) (Model, tea.Cmd) {
	switch path {
	case session.LoginPath:
		// The backend no longer accepts the session.
		m.user = nil
		m.dropScreens()
		if m.store != nil {
			m.store.Clear()
		}
		m.error = ""
		return m.enterAuth(false, sessionExpiredNotice)
	case session.RegisterPath:
		return m.enterAuth(true, "")
	case "/restaurants":
		return m.showRestaurants()
	case "/wishlist":
		return m.showWishlist()
	case "/stats":
		return m.showStats()
	}
	m.screen = model.ScreenChecking
	return m, checkSessionCmd(m.sessions)
}

func (m Model) enterAuth(register bool, notice string) (Model, tea.Cmd) {
	m.auth = NewAuthFormModel(m.sessions, register)
	m.auth.SetNotice(notice)
	m.screen = model.ScreenLogin
	if register {
		m.screen = model.ScreenRegister
	}
	m.mode = model.ModeInsert
	m.info = ""
	return m, m.auth.Init()
}

// dropScreens forgets every signed-in screen.
func (m *Model) dropScreens() {
	m.closeForms()
	m.restaurants = nil
	m.wishlist = nil
	m.stats = nil
	m.restaurantDetail = nil
	m.wishlistDetail = nil
	m.showingHelp = false
	m.columnJump = false
}

func (m Model) showRestaurants() (Model, tea.Cmd) {
	m.screen = model.ScreenRestaurants
	m.mode = model.ModeNav
	if m.restaurants == nil {
		m.restaurants = NewRestaurantsModel(model.ViewAll)
		m.restaurants.ApplyPrefs(m.prefs.Restaurants)
	}
	return m, loadRestaurantsCmd(m.store, m.restaurants.view)
}

func (m Model) showWishlist() (Model, tea.Cmd) {
	m.screen = model.ScreenWishlist
	m.mode = model.ModeNav
	if m.wishlist == nil {
		m.wishlist = NewWishlistModel("")
		m.wishlist.ApplyPrefs(m.prefs.Wishlist)
	}
	return m, loadWishlistCmd(m.store, m.wishlist.priority)
}

func (m Model) showStats() (Model, tea.Cmd) {
	m.screen = model.ScreenStats
	m.mode = model.ModeNav
	return m, loadStatsCmd(m.store)
}

func (m Model) reloadRestaurants() tea.Cmd {
	if m.restaurants == nil {
		return nil
	}
	return loadRestaurantsCmd(m.store, m.restaurants.view)
}

func (m Model) reloadWishlist() tea.Cmd {
	if m.wishlist == nil {
		return nil
	}
	return loadWishlistCmd(m.store, m.wishlist.priority)
}

func (m Model) reloadStats() tea.Cmd {
	if m.stats == nil {
		return nil
	}
	return loadStatsCmd(m.store)
}

func (m Model) restaurantsChanged(msg model.RestaurantsChangedMsg) (Model, tea.Cmd) {
	m.info = msg.Info
	m.error = ""
	var cmds []tea.Cmd

	switch {
	case msg.ResetForm && m.screen == model.ScreenRestaurantForm && m.restaurantForm != nil:
		cmds = append(cmds, m.restaurantForm.Reset())
	case m.screen == model.ScreenRestaurantForm:
		m.closeForms()
		m.mode = model.ModeNav
		m.screen = m.formReturn
	}

	if m.restaurantDetail != nil && m.restaurantDetail.restaurant.ID == msg.Restaurant.ID {
		if msg.Deleted {
			m.restaurantDetail = nil
			if m.screen == model.ScreenRestaurantDetail {
				m.screen = model.ScreenRestaurants
			}
		} else {
			m.restaurantDetail.restaurant = msg.Restaurant
			m.restaurantDetail.confirmDelete = false
		}
	}

	if m.screen == model.ScreenRestaurants && m.restaurants == nil {
		next, cmd := m.showRestaurants()
		return next, tea.Batch(append(cmds, cmd, next.reloadStats())...)
	}
	cmds = append(cmds, m.reloadRestaurants(), m.reloadStats())
	return m, tea.Batch(cmds...)
}

func (m Model) wishlistChanged(msg model.WishlistChangedMsg) (Model, tea.Cmd) {
	m.info = msg.Info
	m.error = ""
	var cmds []tea.Cmd

	switch {
	case msg.ResetForm && m.screen == model.ScreenWishlistForm && m.wishlistForm != nil:
		cmds = append(cmds, m.wishlistForm.Reset())
	case m.screen == model.ScreenWishlistForm:
		m.closeForms()
		m.mode = model.ModeNav
		m.screen = m.formReturn
	}

	if m.wishlistDetail != nil && m.wishlistDetail.item.ID == msg.Item.ID {
		if msg.Deleted {
			m.wishlistDetail = nil
			if m.screen == model.ScreenWishlistDetail {
				m.screen = model.ScreenWishlist
			}
		} else {
			m.wishlistDetail.item = msg.Item
			m.wishlistDetail.confirmDelete = false
		}
	}

	if m.screen == model.ScreenWishlist && m.wishlist == nil {
		next, cmd := m.showWishlist()
		return next, tea.Batch(append(cmds, cmd, next.reloadStats())...)
	}
	cmds = append(cmds, m.reloadWishlist(), m.reloadStats())
	return m, tea.Batch(cmds...)
}

func (m *Model) openRestaurantForm(editing *model.Restaurant) tea.Cmd {
	m.closeForms()
	var box *autocomplete.Box
	if m.autocomplete {
		box = autocomplete.New(m.store.RestaurantSuggestions, autocomplete.WithLogger(m.logger))
	}
	m.restaurantForm = NewRestaurantFormModel(m.store, box)
	if editing != nil {
		m.restaurantForm.LoadRestaurant(*editing)
	}
	m.formReturn = m.screen
	m.screen = model.ScreenRestaurantForm
	m.mode = model.ModeInsert
	m.info = ""
	m.error = ""
	return m.restaurantForm.Init()
}

func (m *Model) openWishlistForm(editing *model.WishlistItem) tea.Cmd {
	m.closeForms()
	var box *autocomplete.Box
	if m.autocomplete {
		box = autocomplete.New(m.store.WishlistSuggestions, autocomplete.WithLogger(m.logger))
	}
	m.wishlistForm = NewWishlistFormModel(m.store, box)
	if editing != nil {
		m.wishlistForm.LoadItem(*editing)
	}
	m.formReturn = m.screen
	m.screen = model.ScreenWishlistForm
	m.mode = model.ModeInsert
	m.info = ""
	m.error = ""
	return m.wishlistForm.Init()
}

// closeForms releases both forms and their suggestion boxes.
func (m *Model) closeForms() {
	if m.restaurantForm != nil {
		m.restaurantForm.Close()
		m.restaurantForm = nil
	}
	if m.wishlistForm != nil {
		m.wishlistForm.Close()
		m.wishlistForm = nil
	}
}

// updateActiveForm routes a message to whatever owns the keyboard in insert
// mode.
func (m Model) updateActiveForm(msg tea.Msg) tea.Cmd {
	switch m.screen {
	case model.ScreenLogin, model.ScreenRegister:
		if m.auth != nil {
			return m.auth.Update(msg)
		}
	case model.ScreenRestaurantForm:
		if m.restaurantForm != nil {
			return m.restaurantForm.Update(msg)
		}
	case model.ScreenWishlistForm:
		if m.wishlistForm != nil {
			return m.wishlistForm.Update(msg)
		}
	case model.ScreenWishlistDetail:
		if m.wishlistDetail != nil && m.wishlistDetail.promoting {
			return m.wishlistDetail.UpdatePrompt(msg)
		}
	}
	return nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.mode == model.ModeNav && m.columnJump {
		if msg.String() == "esc" {
			m.columnJump = false
			m.info = ""
			return m, nil
		}
		if n, err := strconv.Atoi(msg.String()); err == nil {
			t := m.currentTable()
			if t != nil && t.JumpToColumn(n) {
				m.columnJump = false
				m.info = fmt.Sprintf("Jumped to column %d", n)
				m.persistCurrentTablePrefs()
				return m, nil
			}
			m.info = fmt.Sprintf("Column %d unavailable", n)
			return m, nil
		}
	}

	if m.mode == model.ModeNav && key.Matches(msg, m.keys.Help) {
		m.showingHelp = !m.showingHelp
		return m, nil
	}
	if m.showingHelp {
		if msg.String() == "esc" {
			m.showingHelp = false
		}
		return m, nil
	}

	if m.mode == model.ModeInsert {
		return m.handleInsertMode(msg)
	}
	return m.handleNavMode(msg)
}

func (m Model) handleInsertMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.screen == model.ScreenWishlistDetail && m.wishlistDetail != nil {
		d := m.wishlistDetail
		switch {
		case key.Matches(msg, formKeys.Cancel):
			d.CancelPromote()
			m.mode = model.ModeNav
			return m, nil
		case key.Matches(msg, formKeys.Submit), key.Matches(msg, formKeys.Save):
			rating, ok := d.PromoteRating()
			if !ok {
				return m, nil
			}
			d.CancelPromote()
			m.mode = model.ModeNav
			return m, promoteWishlistItemCmd(m.store, d.item.ID, rating)
		}
	}
	return m, m.updateActiveForm(msg)
}

func (m Model) handleNavMode(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.screen == model.ScreenChecking {
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil
	}

	if t := m.currentTable(); t != nil {
		if handled := m.handleTableKey(t, msg); handled {
			return m, nil
		}
	}

	if key.Matches(msg, m.keys.Top) {
		if m.pendingG {
			if t := m.currentTable(); t != nil {
				t.JumpToTop()
			}
		}
		m.pendingG = !m.pendingG
		return m, nil
	}
	m.pendingG = false

	if key.Matches(msg, m.keys.Logout) {
		return m, logoutCmd(m.sessions)
	}

	switch m.screen {
	case model.ScreenRestaurants, model.ScreenWishlist, model.ScreenStats:
		if next, cmd, ok := m.handleTabKey(msg); ok {
			return next, cmd
		}
	}

	switch m.screen {
	case model.ScreenRestaurants:
		return m.handleRestaurantsNav(msg)
	case model.ScreenWishlist:
		return m.handleWishlistNav(msg)
	case model.ScreenRestaurantDetail:
		return m.handleRestaurantDetailNav(msg)
	case model.ScreenWishlistDetail:
		return m.handleWishlistDetailNav(msg)
	}
	return m, nil
}

// handleTableKey applies column and cursor controls to the visible list.
func (m *Model) handleTableKey(t tableController, msg tea.KeyMsg) bool {
	switch {
	case key.Matches(msg, m.keys.NextColumn):
		t.NextColumn()
	case key.Matches(msg, m.keys.PrevColumn):
		t.PrevColumn()
	case key.Matches(msg, m.keys.ColumnJump):
		m.columnJump = true
		m.info = "Jump to column: press 1-9 (esc to cancel)"
		return true
	case key.Matches(msg, m.keys.SortAsc):
		t.SortActiveColumn(false)
		m.info = "Sorted ascending"
	case key.Matches(msg, m.keys.SortDesc):
		t.SortActiveColumn(true)
		m.info = "Sorted descending"
	case key.Matches(msg, m.keys.HideColumn):
		if !t.HideActiveColumn() {
			m.info = "Cannot hide last visible column"
			return true
		}
		m.info = "Column hidden"
	case key.Matches(msg, m.keys.ShowColumns):
		t.ShowAllColumns()
		m.info = "All columns shown"
	case key.Matches(msg, m.keys.FilterValue):
		if !t.FilterBySelectedValue() {
			m.info = "No filterable value in selected cell"
			return true
		}
		m.info = "Filter applied from selected value"
	case key.Matches(msg, m.keys.ClearFilter):
		if !t.ClearFilter() {
			return true
		}
		m.info = "Filter cleared"
	case key.Matches(msg, m.keys.Down):
		t.MoveDown()
		return true
	case key.Matches(msg, m.keys.Up):
		t.MoveUp()
		return true
	case key.Matches(msg, m.keys.Bottom):
		t.JumpToBottom()
		return true
	case key.Matches(msg, m.keys.HalfPageDown):
		t.HalfPageDown(m.height / 2)
		return true
	case key.Matches(msg, m.keys.HalfPageUp):
		t.HalfPageUp(m.height / 2)
		return true
	default:
		return false
	}
	m.persistCurrentTablePrefs()
	return true
}

var tabOrder = []model.Screen{model.ScreenRestaurants, model.ScreenWishlist, model.ScreenStats}

func (m Model) showTab(screen model.Screen) (Model, tea.Cmd) {
	switch screen {
	case model.ScreenWishlist:
		return m.showWishlist()
	case model.ScreenStats:
		return m.showStats()
	}
	return m.showRestaurants()
}

func (m Model) handleTabKey(msg tea.KeyMsg) (Model, tea.Cmd, bool) {
	current := 0
	for i, s := range tabOrder {
		if s == m.screen {
			current = i
		}
	}
	var target model.Screen
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit, true
	case key.Matches(msg, m.keys.Restaurants):
		target = model.ScreenRestaurants
	case key.Matches(msg, m.keys.Wishlist):
		target = model.ScreenWishlist
	case key.Matches(msg, m.keys.Overview):
		target = model.ScreenStats
	case key.Matches(msg, m.keys.NextTab):
		target = tabOrder[(current+1)%len(tabOrder)]
	case key.Matches(msg, m.keys.PrevTab):
		target = tabOrder[(current+len(tabOrder)-1)%len(tabOrder)]
	default:
		return m, nil, false
	}
	next, cmd := m.showTab(target)
	return next, cmd, true
}

func (m Model) handleRestaurantsNav(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.restaurants == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Add):
		cmd := m.openRestaurantForm(nil)
		return m, cmd
	case key.Matches(msg, m.keys.CycleView):
		m.restaurants.view = (m.restaurants.view + 1) % 3
		m.info = "Showing " + m.restaurants.view.String()
		return m, loadRestaurantsCmd(m.store, m.restaurants.view)
	case key.Matches(msg, m.keys.Select):
		r, ok := m.restaurants.Selected()
		if !ok {
			return m, nil
		}
		m.restaurantDetail = NewRestaurantDetailModel(r)
		m.screen = model.ScreenRestaurantDetail
		return m, loadRestaurantCmd(m.store, r.ID)
	}
	return m, nil
}

func (m Model) handleWishlistNav(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.wishlist == nil {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Add):
		cmd := m.openWishlistForm(nil)
		return m, cmd
	case key.Matches(msg, m.keys.Priority):
		m.wishlist.priority = NextPriorityFilter(m.wishlist.priority)
		if m.wishlist.priority == "" {
			m.info = "Showing every priority"
		} else {
			m.info = "Showing " + string(m.wishlist.priority) + " priority"
		}
		return m, loadWishlistCmd(m.store, m.wishlist.priority)
	case key.Matches(msg, m.keys.Select):
		item, ok := m.wishlist.Selected()
		if !ok {
			return m, nil
		}
		m.wishlistDetail = NewWishlistDetailModel(item)
		m.screen = model.ScreenWishlistDetail
		return m, loadWishlistItemCmd(m.store, item.ID)
	}
	return m, nil
}

func (m Model) handleRestaurantDetailNav(msg tea.KeyMsg) (Model, tea.Cmd) {
	d := m.restaurantDetail
	if d == nil {
		m.screen = model.ScreenRestaurants
		return m, nil
	}

	if key.Matches(msg, m.keys.Delete) {
		if d.confirmDelete {
			d.confirmDelete = false
			return m, deleteRestaurantCmd(m.store, d.restaurant)
		}
		d.confirmDelete = true
		return m, nil
	}
	if d.confirmDelete {
		d.confirmDelete = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.restaurantDetail = nil
		m.screen = model.ScreenRestaurants
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		r := d.restaurant
		cmd := m.openRestaurantForm(&r)
		return m, cmd
	case key.Matches(msg, m.keys.Favorite):
		return m, toggleFavoriteCmd(m.store, d.restaurant)
	}
	return m, nil
}

func (m Model) handleWishlistDetailNav(msg tea.KeyMsg) (Model, tea.Cmd) {
	d := m.wishlistDetail
	if d == nil {
		m.screen = model.ScreenWishlist
		return m, nil
	}

	if key.Matches(msg, m.keys.Delete) {
		if d.confirmDelete {
			d.confirmDelete = false
			return m, deleteWishlistItemCmd(m.store, d.item)
		}
		d.confirmDelete = true
		return m, nil
	}
	if d.confirmDelete {
		d.confirmDelete = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Back):
		m.wishlistDetail = nil
		m.screen = model.ScreenWishlist
		return m, nil
	case key.Matches(msg, m.keys.Edit):
		item := d.item
		cmd := m.openWishlistForm(&item)
		return m, cmd
	case key.Matches(msg, m.keys.Priority):
		m.mode = model.ModeInsert
		return m, d.StartPromote()
	}
	return m, nil
}

func (m *Model) currentTable() tableController {
	switch m.screen {
	case model.ScreenRestaurants:
		if m.restaurants != nil {
			return m.restaurants
		}
	case model.ScreenWishlist:
		if m.wishlist != nil {
			return m.wishlist
		}
	}
	return nil
}

func (m *Model) persistCurrentTablePrefs() {
	switch m.screen {
	case model.ScreenRestaurants:
		if m.restaurants != nil {
			m.prefs.Restaurants = m.restaurants.Prefs()
		}
	case model.ScreenWishlist:
		if m.wishlist != nil {
			m.prefs.Wishlist = m.wishlist.Prefs()
		}
	}
	if err := saveUIPreferences(m.configDir, m.prefs); err != nil {
		m.logger.Warn("save ui preferences", slog.String("error", err.Error()))
	}
}

// View renders the UI.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}

	if m.showingHelp {
		return RenderFullHelp(m.width, m.height)
	}

	var content string
	var breadcrumbParts []string

	showTabs := m.screen == model.ScreenRestaurants ||
		m.screen == model.ScreenWishlist ||
		m.screen == model.ScreenStats

	// header + footer + padding, and two lines of tabs when shown
	contentHeight := m.height - 4
	if showTabs {
		contentHeight -= 2
	}
	if m.error != "" {
		contentHeight--
	}
	if m.info != "" {
		contentHeight--
	}

	switch m.screen {
	case model.ScreenChecking:
		content = lipgloss.Place(m.width, max(1, contentHeight), lipgloss.Center, lipgloss.Center,
			HelpDescStyle.Render("Checking session..."))
	case model.ScreenLogin, model.ScreenRegister:
		breadcrumbParts = []string{"Log in"}
		if m.auth != nil {
			if m.auth.register {
				breadcrumbParts = []string{"Create account"}
			}
			content = m.auth.View(m.width, contentHeight)
		}
	case model.ScreenRestaurants:
		breadcrumbParts = []string{"Restaurants"}
		if m.restaurants != nil {
			content = m.restaurants.View(m.width, contentHeight)
		}
	case model.ScreenWishlist:
		breadcrumbParts = []string{"Wishlist"}
		if m.wishlist != nil {
			content = m.wishlist.View(m.width, contentHeight)
		}
	case model.ScreenStats:
		breadcrumbParts = []string{"Overview"}
		if m.stats != nil {
			content = m.stats.View(m.width, contentHeight)
		} else {
			content = EmptyStateStyle.Render("Loading...")
		}
	case model.ScreenRestaurantDetail:
		breadcrumbParts = []string{"Restaurants", "Detail"}
		if m.restaurantDetail != nil {
			breadcrumbParts = []string{"Restaurants", m.restaurantDetail.restaurant.Name}
			content = m.restaurantDetail.View(m.width, contentHeight)
		}
	case model.ScreenWishlistDetail:
		breadcrumbParts = []string{"Wishlist", "Detail"}
		if m.wishlistDetail != nil {
			breadcrumbParts = []string{"Wishlist", m.wishlistDetail.item.Name}
			content = m.wishlistDetail.View(m.width, contentHeight)
		}
	case model.ScreenRestaurantForm:
		breadcrumbParts = []string{"Restaurants", "Form"}
		if m.restaurantForm != nil {
			content = m.restaurantForm.View(m.width, contentHeight)
		}
	case model.ScreenWishlistForm:
		breadcrumbParts = []string{"Wishlist", "Form"}
		if m.wishlistForm != nil {
			content = m.wishlistForm.View(m.width, contentHeight)
		}
	}

	username := ""
	if m.user != nil {
		username = m.user.Username
	}
	parts := []string{renderHeader(breadcrumbParts, username, m.width)}
	if showTabs {
		parts = append(parts, renderTabs(m.screen, m.width))
	}
	if m.error != "" {
		parts = append(parts, ErrorStyle.Width(m.width).Render("Error: "+m.error))
	}
	if m.info != "" {
		parts = append(parts, SuccessStyle.Width(m.width).Render(m.info))
	}

	// Fill the available height to anchor the footer at the bottom.
	parts = append(parts,
		lipgloss.NewStyle().Width(m.width).Height(max(1, contentHeight)).Render(content),
		RenderHelp(m.screen, m.mode, m.width),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func renderTabs(screen model.Screen, width int) string {
	names := map[model.Screen]string{
		model.ScreenRestaurants: "Restaurants",
		model.ScreenWishlist:    "Wishlist",
		model.ScreenStats:       "Overview",
	}

	var tabStrings []string
	for _, s := range tabOrder {
		tabStyle := lipgloss.NewStyle().
			Padding(0, 2).
			Foreground(ColorMuted)
		if screen == s {
			tabStyle = tabStyle.
				Foreground(ColorText).
				Bold(true).
				Underline(true)
		}
		tabStrings = append(tabStrings, tabStyle.Render(names[s]))
	}

	tabBar := lipgloss.JoinHorizontal(lipgloss.Left, tabStrings...)
	return lipgloss.NewStyle().
		Width(width).
		Padding(0, 2).
		BorderBottom(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(ColorMuted).
		Render(tabBar)
}

func renderHeader(breadcrumbParts []string, username string, width int) string {
	title := HeaderStyle.Render("tastebook")

	var breadcrumb string
	if len(breadcrumbParts) > 0 {
		separator := BreadcrumbStyle.Render(" › ")
		parts := make([]string, len(breadcrumbParts))
		for i, part := range breadcrumbParts {
			if i == len(breadcrumbParts)-1 {
				parts[i] = BreadcrumbActiveStyle.Render(part)
			} else {
				parts[i] = BreadcrumbStyle.Render(part)
			}
		}
		breadcrumb = separator + strings.Join(parts, separator)
	}
	left := "  " + title + breadcrumb

	right := BreadcrumbStyle.Render(time.Now().Format("Mon 02 Jan")) + "  "
	if username != "" {
		right = BreadcrumbActiveStyle.Render(username) + BreadcrumbStyle.Render(" · ") + right
	}

	padding := max(0, width-lipgloss.Width(left)-lipgloss.Width(right))
	return TitleStyle.Width(width).Render(left + strings.Repeat(" ", padding) + right)
}
