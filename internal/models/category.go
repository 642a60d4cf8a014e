package models

// Category is one entry of the two-level taxonomy attached to transactions.
// Name is unique; ParentName is overwritten on re-categorization (upsert).
type Category struct {
	Name       string `json:"name"`
	ParentName string `json:"parentName"`
}

// ParentCategories is the fixed set of permitted parent categories the
// categorization pipeline constrains the model to.
var ParentCategories = []string{
	"Financier",
	"Revenu",
	"Alimentation",
	"Transport",
	"Logement",
	"Santé",
	"Divertissement",
	"Achats",
	"Éducation",
	"Voyages",
	"Services",
	"Autres",
}

// UncategorizedLabel is the fallback group label for expenses without a parent category.
const UncategorizedLabel = "Non catégorisé"
