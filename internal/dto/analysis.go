package dto

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// SpendingAnalysis is the schema the spending agent requires from the model.
// The four top-level sections are pointers so that a missing key is
// distinguishable from an empty object at validation time.
type SpendingAnalysis struct {
	Tendances     *SpendingTrends        `json:"tendances"`
	Optimisations *SpendingOptimisations `json:"optimisations"`
	Habitudes     *SpendingHabits        `json:"habitudes"`
	Suggestions   *SpendingSuggestions   `json:"suggestions"`
}

// SpendingTrends describes the major spending tendencies of the window.
type SpendingTrends struct {
	Titre       string                  `json:"titre"`
	Description string                  `json:"description"`
	Categories  []SpendingTrendCategory `json:"categories"`
}

// SpendingTrendCategory is one category line inside the trends section.
type SpendingTrendCategory struct {
	Nom         string `json:"nom"`
	Montant     string `json:"montant"`
	Pourcentage string `json:"pourcentage"`
	Variation   string `json:"variation"`
}

// SpendingOptimisations lists concrete saving opportunities.
type SpendingOptimisations struct {
	Titre       string                 `json:"titre"`
	Suggestions []SpendingOptimisation `json:"suggestions"`
}

// SpendingOptimisation is one saving opportunity.
type SpendingOptimisation struct {
	Categorie   string `json:"categorie"`
	Montant     string `json:"montant"`
	Description string `json:"description"`
}

// SpendingHabits sketches the financial profile behind the numbers.
type SpendingHabits struct {
	Titre       string   `json:"titre"`
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
}

// SpendingSuggestions lists longer-term strategic actions.
type SpendingSuggestions struct {
	Titre   string           `json:"titre"`
	Actions []SpendingAction `json:"actions"`
}

// SpendingAction is one strategic recommendation.
type SpendingAction struct {
	Titre       string `json:"titre"`
	Description string `json:"description"`
	Montant     string `json:"montant"`
}

// Validate checks that every required top-level section is present.
func (a *SpendingAnalysis) Validate() error {
	switch {
	case a.Tendances == nil:
		return fmt.Errorf("missing required key: tendances")
	case a.Optimisations == nil:
		return fmt.Errorf("missing required key: optimisations")
	case a.Habitudes == nil:
		return fmt.Errorf("missing required key: habitudes")
	case a.Suggestions == nil:
		return fmt.Errorf("missing required key: suggestions")
	}
	return nil
}

// RecurringVerdict is the model's judgment for one group of
// similarly-labelled transactions.
type RecurringVerdict struct {
	IsRecurring bool    `json:"isRecurring"`
	Confidence  float64 `json:"confidence"`
	Frequency   string  `json:"frequency"`
	Explanation string  `json:"explanation"`
}

// Validate checks that the verdict carries a usable confidence and frequency.
func (v *RecurringVerdict) Validate() error {
	if v.Confidence < 0 || v.Confidence > 1 {
		return fmt.Errorf("confidence out of range: %v", v.Confidence)
	}
	if v.Frequency == "" {
		return fmt.Errorf("missing required key: frequency")
	}
	return nil
}

// RecurringPayment is one detected recurring payment, returned to the UI and
// persisted in the audit record.
type RecurringPayment struct {
	Label       string          `json:"label"`
	Frequency   string          `json:"frequency"`
	Amount      decimal.Decimal `json:"amount"`
	Explanation string          `json:"explanation"`
}

// RecurringResponse is the payload of POST /analysis/recurring.
type RecurringResponse struct {
	RecurringPayments []RecurringPayment `json:"recurringPayments"`
}

// PurchasePlanRequest is the body of POST /analysis/purchase-plan.
type PurchasePlanRequest struct {
	ItemName       string          `json:"itemName" binding:"required"`
	TargetPrice    decimal.Decimal `json:"targetPrice" binding:"required"`
	CurrentBalance decimal.Decimal `json:"currentBalance"`
}

// PurchaseFeasibility is the schema the forecast agent requires from the model.
type PurchaseFeasibility struct {
	IsFeasible          *bool           `json:"isFeasible"`
	RecommendedDate     string          `json:"recommendedDate"`
	SavingRequired      decimal.Decimal `json:"savingRequired"`
	MonthlySavingTarget decimal.Decimal `json:"monthlySavingTarget"`
	Risks               []string        `json:"risks"`
	Recommendations     []string        `json:"recommendations"`
}

// Validate checks that every required key of the forecast shape is present.
func (f *PurchaseFeasibility) Validate() error {
	switch {
	case f.IsFeasible == nil:
		return fmt.Errorf("missing required key: isFeasible")
	case f.RecommendedDate == "":
		return fmt.Errorf("missing required key: recommendedDate")
	case f.Risks == nil:
		return fmt.Errorf("missing required key: risks")
	case f.Recommendations == nil:
		return fmt.Errorf("missing required key: recommendations")
	}
	return nil
}
