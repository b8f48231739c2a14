package ui

import (
	"context"
	"errors"
	"time"

	"tastebook/internal/api"
	"tastebook/internal/data"
	"tastebook/internal/model"
	"tastebook/internal/session"

	tea "github.com/charmbracelet/bubbletea"
)

const requestTimeout = 10 * time.Second

type sessionCheckedMsg struct {
	snap session.Snapshot
}

type loggedInMsg struct {
	user model.User
}

type registeredMsg struct {
	username string
}

type loggedOutMsg struct {
	err error
}

func withTimeout() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), requestTimeout)
}

// Session

func checkSessionCmd(sessions *session.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return sessionCheckedMsg{snap: sessions.CheckSession(ctx)}
	}
}

func loginCmd(sessions *session.Store, creds model.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := sessions.Login(ctx, creds); err != nil {
			return formErrorMsg{err: err}
		}
		snap := sessions.Snapshot()
		if snap.User == nil {
			return formErrorMsg{err: session.ErrNoSession}
		}
		return loggedInMsg{user: *snap.User}
	}
}

func registerCmd(sessions *session.Store, creds model.Credentials) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		user, err := sessions.Register(ctx, creds)
		if err != nil {
			return formErrorMsg{err: err}
		}
		return registeredMsg{username: user.Username}
	}
}

func logoutCmd(sessions *session.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		return loggedOutMsg{err: sessions.Logout(ctx)}
	}
}

// Reads. A failed read falls back to the last cached value when there is one,
// unless the session is gone.

func loadRestaurantsCmd(store *data.Store, view model.RestaurantView) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		var (
			rows []model.Restaurant
			err  error
			key  = data.RestaurantsKey()
		)
		switch view {
		case model.ViewFavorites:
			key = data.FavoritesKey()
			rows, err = store.FavoriteRestaurants(ctx)
		case model.ViewRecent:
			key = data.RecentKey(RecentLimit)
			rows, err = store.RecentRestaurants(ctx, RecentLimit)
		default:
			rows, err = store.Restaurants(ctx)
		}
		if err != nil {
			if st := store.Cache().Status(key); st.HasValue && !errors.Is(err, api.ErrUnauthorized) {
				if cached, ok := st.Value.([]model.Restaurant); ok {
					return model.RestaurantsLoadedMsg{View: view, Restaurants: cached, Stale: true}
				}
			}
			return model.ErrorMsg{Err: err}
		}
		return model.RestaurantsLoadedMsg{View: view, Restaurants: rows}
	}
}

func loadRestaurantCmd(store *data.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		r, err := store.Restaurant(ctx, id)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.RestaurantLoadedMsg{Restaurant: r}
	}
}

func loadStatsCmd(store *data.Store) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		stats, err := store.Stats(ctx)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		count, err := store.WishlistCount(ctx)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		recent, err := store.RecentRestaurants(ctx, RecentLimit)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.StatsLoadedMsg{Stats: stats, WishlistCount: count, Recent: recent}
	}
}

func loadWishlistCmd(store *data.Store, priority model.Priority) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()

		key := data.WishlistKey()
		var (
			items []model.WishlistItem
			err   error
		)
		if priority != "" {
			key = data.PriorityKey(priority)
			items, err = store.WishlistByPriority(ctx, priority)
		} else {
			items, err = store.Wishlist(ctx)
		}
		if err != nil {
			if st := store.Cache().Status(key); st.HasValue && !errors.Is(err, api.ErrUnauthorized) {
				if cached, ok := st.Value.([]model.WishlistItem); ok {
					return model.WishlistLoadedMsg{Priority: priority, Items: cached, Stale: true}
				}
			}
			return model.ErrorMsg{Err: err}
		}
		return model.WishlistLoadedMsg{Priority: priority, Items: items}
	}
}

func loadWishlistItemCmd(store *data.Store, id int64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		item, err := store.WishlistItem(ctx, id)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.WishlistItemLoadedMsg{Item: item}
	}
}

// Writes. Form submissions report failures as formErrorMsg so the form keeps
// its input.

func createRestaurantCmd(store *data.Store, in model.RestaurantInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		r, err := store.CreateRestaurant(ctx, in)
		if err != nil {
			return formErrorMsg{err: err}
		}
		return model.RestaurantsChangedMsg{
			Info:       "Added " + r.Name,
			Restaurant: r,
			ResetForm:  data.MutCreateRestaurant.ResetsForm,
		}
	}
}

func updateRestaurantCmd(store *data.Store, id int64, in model.RestaurantInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		r, err := store.UpdateRestaurant(ctx, id, in)
		if err != nil {
			return formErrorMsg{err: err}
		}
		return model.RestaurantsChangedMsg{
			Info:       "Saved " + r.Name,
			Restaurant: r,
			ResetForm:  data.MutUpdateRestaurant.ResetsForm,
		}
	}
}

// toggleFavoriteCmd flips the favorite flag of r from the detail screen.
func toggleFavoriteCmd(store *data.Store, r model.Restaurant) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		in := model.RestaurantInput{
			Name:        r.Name,
			City:        r.City,
			Description: r.Description,
			Rating:      r.Rating,
			IsFavorite:  !r.IsFavorite,
		}
		updated, err := store.UpdateRestaurant(ctx, r.ID, in)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		info := "Removed " + updated.Name + " from favorites"
		if updated.IsFavorite {
			info = "Marked " + updated.Name + " as favorite"
		}
		return model.RestaurantsChangedMsg{Info: info, Restaurant: updated}
	}
}

func deleteRestaurantCmd(store *data.Store, r model.Restaurant) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := store.DeleteRestaurant(ctx, r.ID); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.RestaurantsChangedMsg{Info: "Deleted " + r.Name, Restaurant: r, Deleted: true}
	}
}

func createWishlistItemCmd(store *data.Store, in model.WishlistInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		item, err := store.CreateWishlistItem(ctx, in)
		if err != nil {
			return formErrorMsg{err: err}
		}
		return model.WishlistChangedMsg{
			Info:      "Added " + item.Name + " to the wishlist",
			Item:      item,
			ResetForm: data.MutCreateWishlistItem.ResetsForm,
		}
	}
}

func updateWishlistItemCmd(store *data.Store, id int64, in model.WishlistInput) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		item, err := store.UpdateWishlistItem(ctx, id, in)
		if err != nil {
			return formErrorMsg{err: err}
		}
		return model.WishlistChangedMsg{
			Info:      "Saved " + item.Name,
			Item:      item,
			ResetForm: data.MutUpdateWishlistItem.ResetsForm,
		}
	}
}

func deleteWishlistItemCmd(store *data.Store, item model.WishlistItem) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		if err := store.DeleteWishlistItem(ctx, item.ID); err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.WishlistChangedMsg{Info: "Removed " + item.Name, Item: item, Deleted: true}
	}
}

func promoteWishlistItemCmd(store *data.Store, id int64, rating int) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := withTimeout()
		defer cancel()
		r, err := store.PromoteWishlistItem(ctx, id, rating)
		if err != nil {
			return model.ErrorMsg{Err: err}
		}
		return model.PromotedMsg{Restaurant: r}
	}
}
