package data

// Cache groups. Invalidating a group also invalidates every group nested
// under it, so "restaurants" covers the list, favorites, recent, detail and
// stats reads.
const (
	GroupRestaurants      = "restaurants"
	GroupRestaurantList   = "restaurants.list"
	GroupFavorites        = "restaurants.favorites"
	GroupRecent           = "restaurants.recent"
	GroupRestaurantDetail = "restaurants.detail"
	GroupStats            = "restaurants.stats"

	GroupWishlist         = "wishlist"
	GroupWishlistItems    = "wishlist.items"
	GroupWishlistCount    = "wishlist.count"
	GroupWishlistDetail   = "wishlist.detail"
	GroupWishlistPriority = "wishlist.priority"
)

// Mutation declares which cached reads a write makes stale and whether the
// form that submitted it should be cleared afterwards.
type Mutation struct {
	Name        string
	Invalidates []string
	ResetsForm  bool
}

var (
	MutCreateRestaurant = Mutation{
		Name:        "create restaurant",
		Invalidates: []string{GroupRestaurants, GroupStats},
		ResetsForm:  true,
	}
	MutUpdateRestaurant = Mutation{
		Name:        "update restaurant",
		Invalidates: []string{GroupRestaurants, GroupStats},
	}
	MutDeleteRestaurant = Mutation{
		Name:        "delete restaurant",
		Invalidates: []string{GroupRestaurants, GroupStats},
	}
	MutCreateWishlistItem = Mutation{
		Name:        "create wishlist item",
		Invalidates: []string{GroupWishlist},
		ResetsForm:  true,
	}
	MutUpdateWishlistItem = Mutation{
		Name:        "update wishlist item",
		Invalidates: []string{GroupWishlist},
	}
	MutDeleteWishlistItem = Mutation{
		Name:        "delete wishlist item",
		Invalidates: []string{GroupWishlist},
	}
	MutPromoteWishlistItem = Mutation{
		Name:        "promote wishlist item",
		Invalidates: []string{GroupWishlist, GroupRestaurants, GroupStats},
	}
)

// Mutations lists every write the client can perform.
var Mutations = []Mutation{
	MutCreateRestaurant,
	MutUpdateRestaurant,
	MutDeleteRestaurant,
	MutCreateWishlistItem,
	MutUpdateWishlistItem,
	MutDeleteWishlistItem,
	MutPromoteWishlistItem,
}
