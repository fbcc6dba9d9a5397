package mealplan

import (
	"fmt"
	"strconv"
	"strings"

	"pantry-chef-api/internal/model"
)

// Supported display languages.
const (
	LanguageEnglish = "en"
	LanguageGerman  = "de"
)

// singleDishPlans lists the plan types (English and German UI labels) that ask for one dish.
var singleDishPlans = map[string]bool{
	"1 dish":    true,
	"1 gericht": true,
}

// NormalizeLanguage maps any input to "en" or "de", defaulting to English.
func NormalizeLanguage(lang string) string {
	if strings.EqualFold(strings.TrimSpace(lang), LanguageGerman) {
		return LanguageGerman
	}
	return LanguageEnglish
}

// IsSingleDishPlan reports whether the plan type requests a single dish.
func IsSingleDishPlan(planType string) bool {
	return singleDishPlans[strings.ToLower(strings.TrimSpace(planType))]
}

// BuildUserMessage turns a request into the user message for the completion provider.
// Optional fields that are absent simply leave their line out.
func BuildUserMessage(req model.MealPlanRequest) string {
	lines := []string{
		"I need a meal plan with the following preferences:",
		"- Website language: " + NormalizeLanguage(req.Language),
		"- Plan Type: " + req.DietaryPreference,
		"- Diet Type: " + req.ActivityLevel,
		"- Nutritional Value: " + req.Goal,
	}

	// Meal type only matters for single-dish plans; omitting it keeps the prompt short.
	if IsSingleDishPlan(req.DietaryPreference) && strings.TrimSpace(req.MealFrequency) != "" {
		lines = append(lines, "- Meal Type: "+req.MealFrequency)
	}

	if req.QuickRecipe {
		lines = append(lines, "- Quick Recipes: Yes (20 minutes or less)")
	}

	if restrictions := strings.TrimSpace(req.CustomRestrictions); restrictions != "" {
		lines = append(lines, "- Dietary Restrictions: "+restrictions)
	}

	if len(req.FridgeItems) > 0 {
		lines = append(lines,
			"",
			"Available ingredients in my fridge and pantry. Prioritize using these ingredients and only add common complementary ingredients where necessary:",
		)
		for _, item := range req.FridgeItems {
			lines = append(lines, "- "+formatFridgeItem(item))
		}
	}

	lines = append(lines, "", "Please provide a detailed meal plan based on these preferences.")

	return strings.Join(lines, "\n")
}

// formatFridgeItem renders "name: quantity unit (category)".
func formatFridgeItem(item model.FridgeItem) string {
	amount := strings.TrimSpace(strconv.FormatFloat(item.Quantity, 'f', -1, 64) + " " + item.Unit)
	return fmt.Sprintf("%s: %s (%s)", item.Name, amount, item.Category)
}
