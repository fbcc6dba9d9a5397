package mealplan

import (
	"strings"
	"testing"

	"pantry-chef-api/internal/model"
)

func TestBuildUserMessage(t *testing.T) {
	base := model.MealPlanRequest{
		DietaryPreference: "1 Day Plan",
		ActivityLevel:     "Vegetarian",
		Goal:              "High Protein",
	}

	t.Run("RequiredOnly", func(t *testing.T) {
		got := BuildUserMessage(base)
		want := strings.Join([]string{
			"I need a meal plan with the following preferences:",
			"- Website language: en",
			"- Plan Type: 1 Day Plan",
			"- Diet Type: Vegetarian",
			"- Nutritional Value: High Protein",
			"",
			"Please provide a detailed meal plan based on these preferences.",
		}, "\n")
		if got != want {
			t.Errorf("BuildUserMessage() =\n%s\nwant\n%s", got, want)
		}
	})

	t.Run("MealTypeOnlyForSingleDish", func(t *testing.T) {
		req := base
		req.MealFrequency = "Dinner"
		if strings.Contains(BuildUserMessage(req), "Meal Type") {
			t.Error("meal type included for a day plan")
		}

		req.DietaryPreference = "1 gericht"
		if !strings.Contains(BuildUserMessage(req), "- Meal Type: Dinner") {
			t.Error("meal type missing for a single-dish plan")
		}
	})

	t.Run("OptionalLines", func(t *testing.T) {
		req := base
		req.QuickRecipe = true
		req.CustomRestrictions = "  no nuts  "
		req.Language = "DE"
		got := BuildUserMessage(req)

		for _, line := range []string{
			"- Website language: de",
			"- Quick Recipes: Yes (20 minutes or less)",
			"- Dietary Restrictions: no nuts",
		} {
			if !strings.Contains(got, line+"\n") {
				t.Errorf("missing line %q in\n%s", line, got)
			}
		}
	})

	t.Run("BlankRestrictionsOmitted", func(t *testing.T) {
		req := base
		req.CustomRestrictions = "   "
		if strings.Contains(BuildUserMessage(req), "Dietary Restrictions") {
			t.Error("blank restrictions should be omitted")
		}
	})

	t.Run("FridgeItems", func(t *testing.T) {
		req := base
		req.FridgeItems = []model.FridgeItem{
			{Name: "Eggs", Quantity: 6, Unit: "pcs", Category: model.CategoryFresh},
			{Name: "Flour", Quantity: 0.5, Unit: "kg", Category: model.CategoryEssential},
		}
		got := BuildUserMessage(req)

		if !strings.Contains(got, "- Eggs: 6 pcs (fresh)\n- Flour: 0.5 kg (essential)\n") {
			t.Errorf("fridge items not rendered:\n%s", got)
		}
		if !strings.HasSuffix(got, "\nPlease provide a detailed meal plan based on these preferences.") {
			t.Errorf("missing closing line:\n%s", got)
		}
	})
}

func TestNormalizeLanguage(t *testing.T) {
	tests := map[string]string{
		"":   "en",
		"en": "en",
		"de": "de",
		"De": "de",
		"fr": "en",
	}
	for in, want := range tests {
		if got := NormalizeLanguage(in); got != want {
			t.Errorf("NormalizeLanguage(%q) = %q, want %q", in, got, want)
		}
	}
}
