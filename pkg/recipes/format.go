package recipes

import (
	"fmt"
	"strings"
)

// SearchText renders the search_recipes tool output.
func (b *Book) SearchText(query string) string {
	matches := b.Find(query)
	if len(matches) == 0 {
		return fmt.Sprintf("No recipes found for '%s'. Try searching for: pasta, chicken, soup, cookies, salad, or tacos.", query)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d recipe(s) for '%s':\n\n", len(matches), query)
	for _, r := range matches {
		preview := r.Ingredients[:min(3, len(r.Ingredients))]
		fmt.Fprintf(&sb, "**%s**\n", r.Name)
		fmt.Fprintf(&sb, "  - Prep time: %s\n", r.PrepTime())
		fmt.Fprintf(&sb, "  - Cook time: %s\n", r.CookTime())
		fmt.Fprintf(&sb, "  - Servings: %d\n", r.Servings)
		fmt.Fprintf(&sb, "  - Ingredients: %s...\n\n", strings.Join(preview, ", "))
	}
	return sb.String()
}

// IngredientsText renders the extract_ingredients tool output.
func (b *Book) IngredientsText(name string) string {
	r, ok := b.Lookup(name)
	if !ok {
		return fmt.Sprintf("Recipe '%s' not found. Try searching for recipes first using search_recipes.", name)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "**Ingredients for %s** (Serves %d)\n\n", r.Name, r.Servings)
	for i, ingredient := range r.Ingredients {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, ingredient)
	}
	fmt.Fprintf(&sb, "\n**Instructions:** %s\n", r.Instructions)
	fmt.Fprintf(&sb, "**Total time:** %s prep + %s cooking\n", r.PrepTime(), r.CookTime())
	return sb.String()
}

// SuggestionsText renders the get_recipe_suggestions tool output.
func (b *Book) SuggestionsText(preference string) string {
	suggestions := b.Suggest(preference)
	if len(suggestions) == 0 {
		return "No specific suggestions found. Here are some popular recipes: Pasta Carbonara, Chicken Stir Fry, Tomato Soup."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Recipe suggestions for '%s':\n\n", preference)
	for _, r := range suggestions {
		fmt.Fprintf(&sb, "- **%s** (%s prep, %s cook)\n", r.Name, r.PrepTime(), r.CookTime())
	}
	return sb.String()
}
