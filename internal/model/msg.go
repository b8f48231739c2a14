package model

// Bubble Tea message types

// ErrorMsg represents an error message.
type ErrorMsg struct {
	Err error
}

// RestaurantView selects which restaurant read backs the list screen.
type RestaurantView int

const (
	ViewAll RestaurantView = iota
	ViewFavorites
	ViewRecent
)

func (v RestaurantView) String() string {
	switch v {
	case ViewFavorites:
		return "favorites"
	case ViewRecent:
		return "recent"
	}
	return "all"
}

// RestaurantsLoadedMsg is sent when a restaurant list read completes. Stale is
// set when the read failed and the last cached value is shown instead.
type RestaurantsLoadedMsg struct {
	View        RestaurantView
	Restaurants []Restaurant
	Stale       bool
}

// RestaurantLoadedMsg is sent when a restaurant detail is loaded.
type RestaurantLoadedMsg struct {
	Restaurant Restaurant
}

// StatsLoadedMsg is sent when restaurant stats and the wishlist count are loaded.
type StatsLoadedMsg struct {
	Stats         Stats
	WishlistCount int64
	Recent        []Restaurant
}

// WishlistLoadedMsg is sent when a wishlist read completes. Priority is empty
// for the unfiltered list.
type WishlistLoadedMsg struct {
	Priority Priority
	Items    []WishlistItem
	Stale    bool
}

// WishlistItemLoadedMsg is sent when a wishlist detail is loaded.
type WishlistItemLoadedMsg struct {
	Item WishlistItem
}

// RestaurantsChangedMsg is sent after a successful restaurant write. Screens
// showing restaurant data re-read on it.
type RestaurantsChangedMsg struct {
	Info       string
	Restaurant Restaurant
	ResetForm  bool
	Deleted    bool
}

// WishlistChangedMsg is sent after a successful wishlist write.
type WishlistChangedMsg struct {
	Info      string
	Item      WishlistItem
	ResetForm bool
	Deleted   bool
}

// PromotedMsg is sent when a wishlist entry became a restaurant.
type PromotedMsg struct {
	Restaurant Restaurant
}

// FormCancelledMsg is sent when a form is cancelled.
type FormCancelledMsg struct{}

// Screen represents different app screens.
type Screen int

const (
	ScreenChecking Screen = iota
	ScreenLogin
	ScreenRegister
	ScreenRestaurants
	ScreenWishlist
	ScreenStats
	ScreenRestaurantDetail
	ScreenWishlistDetail
	ScreenRestaurantForm
	ScreenWishlistForm
)

// Mode represents the current interaction mode.
type Mode int

const (
	ModeNav Mode = iota
	ModeInsert
)
