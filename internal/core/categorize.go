package core

import "strings"

// SuggestItemCategory guesses an item category from its name.
// Matching is case-insensitive: exact names first, then keywords contained
// in the name. Unknown names get DefaultItemCategory.
func SuggestItemCategory(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultItemCategory
	}
	if cat, ok := exactItemCategories[name]; ok {
		return cat
	}
	for _, kw := range itemKeywords {
		if strings.Contains(name, kw.keyword) {
			return kw.category
		}
	}
	return DefaultItemCategory
}

var exactItemCategories = map[string]string{
	// Dairy
	"milk":         "Dairy",
	"eggs":         "Dairy",
	"egg":          "Dairy",
	"butter":       "Dairy",
	"cheese":       "Dairy",
	"yogurt":       "Dairy",
	"cream":        "Dairy",
	"sour cream":   "Dairy",
	"mozzarella":   "Dairy",
	"cream cheese": "Dairy",

	// Bakery
	"bread":     "Bakery",
	"bagels":    "Bakery",
	"rolls":     "Bakery",
	"buns":      "Bakery",
	"croissant": "Bakery",
	"muffins":   "Bakery",
	"tortillas": "Bakery",

	// Produce
	"apple":        "Produce",
	"apples":       "Produce",
	"banana":       "Produce",
	"bananas":      "Produce",
	"tomato":       "Produce",
	"tomatoes":     "Produce",
	"potatoes":     "Produce",
	"onions":       "Produce",
	"garlic":       "Produce",
	"lettuce":      "Produce",
	"spinach":      "Produce",
	"carrots":      "Produce",
	"lemons":       "Produce",
	"oranges":      "Produce",
	"grapes":       "Produce",
	"avocado":      "Produce",
	"cucumber":     "Produce",
	"broccoli":     "Produce",
	"basil":        "Produce",
	"strawberries": "Produce",

	// Meat
	"chicken": "Meat",
	"beef":    "Meat",
	"pork":    "Meat",
	"turkey":  "Meat",
	"bacon":   "Meat",
	"ham":     "Meat",
	"steak":   "Meat",
	"salmon":  "Meat",
	"tuna":    "Meat",
	"shrimp":  "Meat",
	"sausage": "Meat",

	// Dry Goods
	"pasta":   "Dry Goods",
	"rice":    "Dry Goods",
	"flour":   "Dry Goods",
	"sugar":   "Dry Goods",
	"oats":    "Dry Goods",
	"cereal":  "Dry Goods",
	"beans":   "Dry Goods",
	"lentils": "Dry Goods",
	"salt":    "Dry Goods",

	// Beverages
	"coffee": "Beverages",
	"tea":    "Beverages",
	"water":  "Beverages",
	"juice":  "Beverages",
	"soda":   "Beverages",
	"beer":   "Beverages",
	"wine":   "Beverages",

	// Household
	"paper towels":  "Household",
	"toilet paper":  "Household",
	"dish soap":     "Household",
	"detergent":     "Household",
	"trash bags":    "Household",
	"sponges":       "Household",
	"aluminum foil": "Household",
	"light bulbs":   "Household",
}

type itemKeyword struct {
	keyword  string
	category string
}

// Longer, more specific keywords come first.
var itemKeywords = []itemKeyword{
	{"watermelon", "Produce"},
	{"peanut butter", "Dry Goods"},

	{"toilet paper", "Household"},
	{"paper towel", "Household"},
	{"detergent", "Household"},
	{"soap", "Household"},
	{"cleaner", "Household"},
	{"trash bag", "Household"},

	{"coconut water", "Beverages"},
	{"sparkling", "Beverages"},
	{"coffee", "Beverages"},
	{"juice", "Beverages"},
	{"soda", "Beverages"},
	{"water", "Beverages"},

	{"ground beef", "Meat"},
	{"chicken", "Meat"},
	{"breast", "Meat"},
	{"beef", "Meat"},
	{"pork", "Meat"},
	{"fish", "Meat"},
	{"steak", "Meat"},

	{"cheese", "Dairy"},
	{"yogurt", "Dairy"},
	{"milk", "Dairy"},
	{"cream", "Dairy"},

	{"bread", "Bakery"},
	{"baguette", "Bakery"},
	{"bagel", "Bakery"},
	{"cake", "Bakery"},

	{"spaghetti", "Dry Goods"},
	{"pasta", "Dry Goods"},
	{"rice", "Dry Goods"},
	{"cereal", "Dry Goods"},
	{"flour", "Dry Goods"},
	{"canned", "Dry Goods"},

	{"lettuce", "Produce"},
	{"spinach", "Produce"},
	{"apple", "Produce"},
	{"berr", "Produce"},
	{"tomato", "Produce"},
	{"pepper", "Produce"},
	{"onion", "Produce"},
	{"fruit", "Produce"},
}
