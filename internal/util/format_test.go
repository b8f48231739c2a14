package util

import (
	"testing"
	"time"
)

func TestFormatDateHuman(t *testing.T) {
	now := time.Date(2025, 6, 20, 15, 0, 0, 0, time.UTC)
	tests := []struct {
		in   time.Time
		want string
	}{
		{time.Time{}, "—"},
		{now.Add(-time.Hour), "Today"},
		{now.AddDate(0, 0, -1), "Yesterday"},
		{now.AddDate(0, 0, -3), "3d ago"},
		{time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "Jan 15"},
		{time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), "Jan 15 '24"},
	}
	for _, tt := range tests {
		if got := formatDateHumanAt(tt.in, now); got != tt.want {
			t.Errorf("formatDateHumanAt(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestFormatRatingStars(t *testing.T) {
	tests := map[int]string{
		0: "☆☆☆☆☆",
		3: "★★★☆☆",
		5: "★★★★★",
		9: "★★★★★",
	}
	for in, want := range tests {
		if got := FormatRatingStars(in); got != want {
			t.Errorf("FormatRatingStars(%d) = %q, want %q", in, got, want)
		}
	}
}

func TestParseRating(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"", 3, false},
		{" 4 ", 4, false},
		{"0", 0, true},
		{"6", 0, true},
		{"4.5", 0, true},
	}
	for _, tt := range tests {
		got, err := ParseRating(tt.in, 1, 5, 3)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseRating(%q) = %d, %v", tt.in, got, err)
		}
	}
}

func TestParseYesNo(t *testing.T) {
	tests := []struct {
		in      string
		want    bool
		wantErr bool
	}{
		{"y", true, false},
		{"YES", true, false},
		{"", false, false},
		{"no", false, false},
		{"maybe", false, true},
	}
	for _, tt := range tests {
		got, err := ParseYesNo(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseYesNo(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("Septime", 10); got != "Septime" {
		t.Errorf("got %q", got)
	}
	if got := TruncateString("Le Chateaubriand", 8); got != "Le Ch..." {
		t.Errorf("got %q", got)
	}
	if got := TruncateString("abc", 2); got != "ab" {
		t.Errorf("got %q", got)
	}
}
