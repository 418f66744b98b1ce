package core

import "testing"

func TestSuggestItemCategory(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"Milk", "Dairy"},
		{"bread", "Bakery"},
		{"Apples", "Produce"},
		{"Chicken Breast", "Meat"},
		{"pasta", "Dry Goods"},
		{"Coffee", "Beverages"},
		{"paper towels", "Household"},
		{"whole wheat bread", "Bakery"},
		{"sparkling water bottles", "Beverages"},
		{"greek yogurt cups", "Dairy"},
		{"watermelon slices", "Produce"},
		{"HDMI cable", DefaultItemCategory},
		{"", DefaultItemCategory},
		{"   ", DefaultItemCategory},
	}
	for _, tt := range tests {
		if got := SuggestItemCategory(tt.input); got != tt.want {
			t.Errorf("SuggestItemCategory(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}
