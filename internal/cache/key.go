package cache

import (
	"fmt"
	"strings"
)

// Key identifies one cached resource. Group is a dot-separated hierarchy such
// as "restaurants.recent"; Params distinguishes parameterized reads within it.
type Key struct {
	Group  string
	Params string
}

// NewKey builds a key from a group and optional parameters.
func NewKey(group string, params ...any) Key {
	if len(params) == 0 {
		return Key{Group: group}
	}
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprint(p)
	}
	return Key{Group: group, Params: strings.Join(parts, "/")}
}

func (k Key) String() string {
	if k.Params == "" {
		return k.Group
	}
	return k.Group + "?" + k.Params
}

// InGroup reports whether k belongs to group g or any of its descendants.
// "restaurants" matches "restaurants.stats" but not "restaurantsx".
func (k Key) InGroup(g string) bool {
	return k.Group == g || strings.HasPrefix(k.Group, g+".")
}

func matchesAny(k Key, groups []string) bool {
	for _, g := range groups {
		if k.InGroup(g) {
			return true
		}
	}
	return false
}
