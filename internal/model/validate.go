package model

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"
)

// Field limits shared by the client forms and the backend.
const (
	NameMinLen        = 2
	NameMaxLen        = 100
	CityMinLen        = 2
	CityMaxLen        = 50
	DescriptionMaxLen = 500
	NotesMaxLen       = 300
	RatingMin         = 1
	RatingMax         = 5
	UsernameMinLen    = 3
	UsernameMaxLen    = 50
	PasswordMinLen    = 3
)

// ValidationErrors maps a field name to the reason it was rejected.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Field returns the message for a field, or "" if it passed.
func (v ValidationErrors) Field(name string) string {
	return v[name]
}

func (v ValidationErrors) orNil() error {
	if len(v) == 0 {
		return nil
	}
	return v
}

func checkLength(errs ValidationErrors, field, value string, minLen, maxLen int) {
	n := utf8.RuneCountInString(strings.TrimSpace(value))
	switch {
	case n == 0 && minLen > 0:
		errs[field] = "is required"
	case n < minLen:
		errs[field] = fmt.Sprintf("must be at least %d characters", minLen)
	case maxLen > 0 && n > maxLen:
		errs[field] = fmt.Sprintf("must be at most %d characters", maxLen)
	}
}

// Validate checks a restaurant submission.
func (in RestaurantInput) Validate() error {
	errs := ValidationErrors{}
	checkLength(errs, "name", in.Name, NameMinLen, NameMaxLen)
	checkLength(errs, "city", in.City, CityMinLen, CityMaxLen)
	checkLength(errs, "description", in.Description, 0, DescriptionMaxLen)
	if in.Rating < RatingMin || in.Rating > RatingMax {
		errs["rating"] = fmt.Sprintf("must be between %d and %d", RatingMin, RatingMax)
	}
	return errs.orNil()
}

// Normalize trims surrounding whitespace from text fields.
func (in RestaurantInput) Normalize() RestaurantInput {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// Validate checks a wishlist submission. An empty priority is accepted and
// defaults to medium on Normalize.
func (in WishlistInput) Validate() error {
	errs := ValidationErrors{}
	checkLength(errs, "name", in.Name, NameMinLen, NameMaxLen)
	checkLength(errs, "city", in.City, CityMinLen, CityMaxLen)
	checkLength(errs, "notes", in.Notes, 0, NotesMaxLen)
	if in.Priority != "" && !in.Priority.Valid() {
		errs["priority"] = "must be one of low, medium, high"
	}
	return errs.orNil()
}

// Normalize trims text fields and applies the default priority.
func (in WishlistInput) Normalize() WishlistInput {
	in.Name = strings.TrimSpace(in.Name)
	in.City = strings.TrimSpace(in.City)
	in.Notes = strings.TrimSpace(in.Notes)
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	return in
}

// Validate checks credentials for login and registration.
func (c Credentials) Validate() error {
	errs := ValidationErrors{}
	n := utf8.RuneCountInString(c.Username)
	switch {
	case n == 0:
		errs["username"] = "is required"
	case n < UsernameMinLen || n > UsernameMaxLen:
		errs["username"] = fmt.Sprintf("must be between %d and %d characters", UsernameMinLen, UsernameMaxLen)
	default:
		for _, r := range c.Username {
			if !isUsernameRune(r) {
				errs["username"] = "may only contain letters, numbers, underscore and dash"
				break
			}
		}
	}
	if utf8.RuneCountInString(c.Password) < PasswordMinLen {
		errs["password"] = fmt.Sprintf("must be at least %d characters", PasswordMinLen)
	}
	return errs.orNil()
}

func isUsernameRune(r rune) bool {
	return r == '_' || r == '-' ||
		(r >= 'a' && r <= 'z') ||
		(r >= 'A' && r <= 'Z') ||
		(r >= '0' && r <= '9')
}
