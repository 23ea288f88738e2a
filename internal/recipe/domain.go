// Package recipe serves the user-owned attributes attached to recipes: tags
// and ingredients. Both share one implementation parameterised by Kind.
package recipe

// Kind identifies one owner-scoped attribute resource.
type Kind struct {
	// Name is the singular label used in logs and errors.
	Name string
	// Table is the backing table. It is a compile-time constant, never user input.
	Table string
}

var (
	// Tags labels recipes, e.g. "Vegan" or "Dessert".
	Tags = Kind{Name: "tag", Table: "tags"}
	// Ingredients lists what goes into a recipe, e.g. "Kale" or "Salt".
	Ingredients = Kind{Name: "ingredient", Table: "ingredients"}
)

// Attribute is a named record owned by exactly one user.
type Attribute struct {
	ID     int64  `json:"id"`
	Name   string `json:"name"`
	UserID int64  `json:"-"`
}
