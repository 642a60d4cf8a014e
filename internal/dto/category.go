package dto

// CategoryGroup is one parent category with its sub-categories, as consumed
// by the edit dropdowns of the UI.
type CategoryGroup struct {
	Parent        string   `json:"parent"`
	SubCategories []string `json:"subCategories"`
}
