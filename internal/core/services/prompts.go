package services

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nicolasgrk/gestion-budget-ia/internal/models"
)

// The prompts are deliberately French and deliberately literal: each one
// embeds the exact JSON or pipe-delimited shape the service parses back.

func categorizationPrompt(label string) string {
	var b strings.Builder
	b.WriteString("Tu es un expert en finance personnelle et tu dois catégoriser cette transaction bancaire :\n\n")
	fmt.Fprintf(&b, "Transaction : %q\n\n", label)
	b.WriteString("Règles :\n")
	b.WriteString("1. Détermine d'abord une catégorie parent parmi :\n")
	b.WriteString("   " + strings.Join(models.ParentCategories, ", ") + "\n")
	b.WriteString("2. Détermine ensuite une sous-catégorie précise (ex: \"Banques\", \"Supermarchés\", \"Essence\", \"Médecin\").\n")
	b.WriteString("3. Réponds uniquement sous ce format (catégorie_parent | sous_catégorie)\n")
	b.WriteString("   Exemple : Financier | Banques ou Alimentation | Restaurants\n")
	b.WriteString("4. Ne donne aucune explication, juste le format demandé.\n\n")
	b.WriteString("Réponse :")
	return b.String()
}

func spendingAnalysisPrompt(totalSpent decimal.Decimal, spendingByCategory map[string]decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("En tant qu'analyste financier expérimenté, analyse les dépenses des 30 derniers jours en tenant compte des données suivantes :\n\n")
	fmt.Fprintf(&b, "Dépenses totales: %s€\n\n", totalSpent.StringFixed(2))
	b.WriteString("Répartition par catégorie:\n")
	categories := make([]string, 0, len(spendingByCategory))
	for category := range spendingByCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)
	for _, category := range categories {
		fmt.Fprintf(&b, "%s: %s€\n", category, spendingByCategory[category].StringFixed(2))
	}
	b.WriteString(`
Format de réponse attendu (JSON) :
{
  "tendances": {
    "titre": "Tendances principales",
    "description": "Description des tendances de dépenses majeures",
    "categories": [
      {
        "nom": "Nom de la catégorie",
        "montant": "Montant",
        "pourcentage": "Pourcentage",
        "variation": "Variation par rapport au mois précédent"
      }
    ]
  },
  "optimisations": {
    "titre": "Optimisations suggérées",
    "suggestions": [
      {
        "categorie": "Nom de la catégorie",
        "montant": "Montant potentiel d'économie",
        "description": "Description de l'optimisation"
      }
    ]
  },
  "habitudes": {
    "titre": "Habitudes de dépenses",
    "tags": ["tag1", "tag2", "tag3"],
    "description": "Description du profil financier"
  },
  "suggestions": {
    "titre": "Suggestions stratégiques",
    "actions": [
      {
        "titre": "Titre de l'action",
        "description": "Description détaillée",
        "montant": "Montant si applicable"
      }
    ]
  }
}

Attentes de l'analyse :
Tendances principales : Identifie les tendances de dépenses majeures, les pics et creux éventuels, et toute évolution notable par rapport à un mois classique.
Analyse des catégories dominantes : Mets en évidence les catégories les plus coûteuses, explique pourquoi ces dépenses pourraient être élevées et si elles semblent récurrentes ou ponctuelles.
Optimisation et économies : Propose des recommandations concrètes et applicables pour réduire les coûts, en tenant compte des habitudes observées.
Habitudes de dépenses et comportement financier : Donne un aperçu du profil financier basé sur ces dépenses (ex. : prudent, impulsif, axé sur le confort, prévoyant, etc.).
Suggestions stratégiques : Fournis des pistes d'amélioration à long terme, comme des stratégies d'investissement, des ajustements budgétaires ou des outils de gestion des finances personnelles qui pourraient aider à mieux optimiser ces dépenses.
Rends ton analyse détaillée mais concise, avec des insights pertinents et des recommandations actionnables.

IMPORTANT: Ta réponse doit être un objet JSON valide suivant exactement le format spécifié ci-dessus.`)
	return b.String()
}

func recurringPrompt(label string, amounts []string, dates []string) string {
	var b strings.Builder
	b.WriteString("Analyse cette série de transactions pour déterminer si elle représente un paiement récurrent:\n\n")
	fmt.Fprintf(&b, "Label: %s\n", label)
	fmt.Fprintf(&b, "Montants: %s€\n", strings.Join(amounts, ", "))
	fmt.Fprintf(&b, "Dates: %s\n\n", strings.Join(dates, ", "))
	b.WriteString(`Est-ce que cela semble être un paiement récurrent ? Réponds uniquement par un objet JSON:
{
  "isRecurring": boolean,
  "confidence": number (0-1),
  "frequency": "mensuel"|"hebdomadaire"|"annuel"|"inconnu",
  "explanation": "string"
}`)
	return b.String()
}

func forecastPrompt(itemName string, targetPrice, currentBalance, monthlyIncome, monthlyExpenses decimal.Decimal) string {
	var b strings.Builder
	b.WriteString("En tant que conseiller financier, analyse la faisabilité de cet achat:\n\n")
	fmt.Fprintf(&b, "Achat souhaité: %s\n", itemName)
	fmt.Fprintf(&b, "Prix cible: %s€\n\n", targetPrice.StringFixed(2))
	b.WriteString("Situation financière:\n")
	fmt.Fprintf(&b, "- Solde actuel: %s€\n", currentBalance.StringFixed(2))
	fmt.Fprintf(&b, "- Revenu mensuel moyen: %s€\n", monthlyIncome.StringFixed(2))
	fmt.Fprintf(&b, "- Dépenses mensuelles moyennes: %s€\n\n", monthlyExpenses.StringFixed(2))
	b.WriteString(`Analyse et recommande:
1. Si l'achat est raisonnable maintenant
2. Le meilleur moment pour faire cet achat
3. Des suggestions d'épargne si nécessaire
4. Des risques potentiels à considérer

Réponds avec un objet JSON:
{
  "isFeasible": boolean,
  "recommendedDate": "string (YYYY-MM)",
  "savingRequired": number,
  "monthlySavingTarget": number,
  "risks": string[],
  "recommendations": string[]
}`)
	return b.String()
}

func chatClassifyPrompt(question string) string {
	var b strings.Builder
	b.WriteString("En tant qu'expert en analyse de questions financières, analyse la question suivante et retourne une réponse JSON structurée.\n")
	fmt.Fprintf(&b, "Question: %q\n\n", question)
	b.WriteString(`Retourne un objet JSON avec les propriétés suivantes :
{
  "timeRange": { // période concernée, null si non spécifié
    "start": "YYYY-MM-DD",
    "end": "YYYY-MM-DD"
  },
  "type": "balance" | "expenses" | "income" | "transactions" | "categories" | "general",
  "category": "string ou null", // si la question concerne une catégorie spécifique
  "limit": number ou null, // nombre de transactions à retourner
  "aggregation": "sum" | "average" | "count" | null
}

Exemples:
"Quel est mon solde actuel ?" →
{
  "type": "balance",
  "timeRange": null,
  "category": null,
  "limit": null,
  "aggregation": "sum"
}

"Quelles sont mes dépenses en alimentation ce mois-ci ?" →
{
  "type": "expenses",
  "timeRange": { "start": "2024-03-01", "end": "2024-03-31" },
  "category": "alimentation",
  "limit": null,
  "aggregation": "sum"
}

Analyse la question et retourne UNIQUEMENT l'objet JSON, sans autre texte.`)
	return b.String()
}

func chatAnswerPrompt(question, data string, analysis queryAnalysis) string {
	var b strings.Builder
	b.WriteString("En tant qu'assistant financier, analyse ces données et réponds à la question.\n\n")
	fmt.Fprintf(&b, "Question: %q\n\n", question)
	fmt.Fprintf(&b, "Données: %s\n\n", data)
	fmt.Fprintf(&b, "Type d'analyse: %s\n", analysis.Type)
	if analysis.Category != nil {
		fmt.Fprintf(&b, "Catégorie: %s\n", *analysis.Category)
	}
	if analysis.TimeRange != nil {
		fmt.Fprintf(&b, "Période: du %s au %s\n", analysis.TimeRange.Start, analysis.TimeRange.End)
	}
	b.WriteString("\nRéponds de manière concise et professionnelle en français. Si pertinent, suggère des conseils d'optimisation budgétaire.")
	return b.String()
}
