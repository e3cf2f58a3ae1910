// Package recipes holds the in-memory recipe book the cooking tools search.
package recipes

import (
	"fmt"
	"strings"
)

type Recipe struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Ingredients  []string `json:"ingredients"`
	Instructions string   `json:"instructions"`
	PrepMinutes  int      `json:"prep_minutes"`
	CookMinutes  int      `json:"cook_minutes"`
	Servings     int      `json:"servings"`
}

func (r Recipe) PrepTime() string { return fmt.Sprintf("%d min", r.PrepMinutes) }

func (r Recipe) CookTime() string { return fmt.Sprintf("%d min", r.CookMinutes) }

// Book is an ordered, read-only collection of recipes. It is safe for concurrent use.
type Book struct {
	recipes []Recipe
}

func NewBook(recipes ...Recipe) *Book {
	copied := make([]Recipe, len(recipes))
	copy(copied, recipes)
	return &Book{recipes: copied}
}

// Default returns the built-in recipe book.
func Default() *Book {
	return NewBook(defaultRecipes...)
}

func (b *Book) All() []Recipe {
	out := make([]Recipe, len(b.recipes))
	copy(out, b.recipes)
	return out
}

// Find matches a query case-insensitively against recipe id, name and ingredients.
func (b *Book) Find(query string) []Recipe {
	q := strings.ToLower(query)
	var matches []Recipe
	for _, r := range b.recipes {
		if strings.Contains(r.ID, q) || strings.Contains(strings.ToLower(r.Name), q) || anyContains(r.Ingredients, q) {
			matches = append(matches, r)
		}
	}
	return matches
}

// Lookup returns the first recipe whose id or name contains name.
func (b *Book) Lookup(name string) (Recipe, bool) {
	n := strings.ToLower(name)
	for _, r := range b.recipes {
		if strings.Contains(r.ID, n) || strings.Contains(strings.ToLower(r.Name), n) {
			return r, true
		}
	}
	return Recipe{}, false
}

// Suggest picks recipes for a dietary preference or meal type.
// Unrecognized preferences get the first three recipes.
func (b *Book) Suggest(preference string) []Recipe {
	var out []Recipe
	switch strings.ToLower(preference) {
	case "quick", "fast", "easy":
		for _, r := range b.recipes {
			if r.CookMinutes <= 15 {
				out = append(out, r)
			}
		}
	case "vegetarian", "veggie", "veg":
		out = b.filterByID("pasta", "soup", "salad", "cookies")
	case "meat", "protein":
		out = b.filterByID("chicken", "beef")
	case "dessert", "sweet":
		for _, r := range b.recipes {
			if strings.Contains(strings.ToLower(r.Name), "cookie") {
				out = append(out, r)
			}
		}
	default:
		n := min(3, len(b.recipes))
		out = append(out, b.recipes[:n]...)
	}
	return out
}

func (b *Book) filterByID(keywords ...string) []Recipe {
	var out []Recipe
	for _, r := range b.recipes {
		for _, k := range keywords {
			if strings.Contains(r.ID, k) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

func anyContains(values []string, sub string) bool {
	for _, v := range values {
		if strings.Contains(strings.ToLower(v), sub) {
			return true
		}
	}
	return false
}
