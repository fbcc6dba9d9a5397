package mealplan

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"pantry-chef-api/internal/model"
)

const soupCompletion = "<dishes><dish_name>Soup</dish_name><dish_ingredients>Water,Salt</dish_ingredients><dish_instructions>Boil.</dish_instructions><dish_nutritional_information><protine>2g</protine></dish_nutritional_information><dish_estimated_cooking_time>10 min</dish_estimated_cooking_time></dishes>"

func dishBlock(name string) string {
	return fmt.Sprintf(`<dish_name>%s</dish_name>
<dish_ingredients>Flour, Eggs</dish_ingredients>
<dish_instructions>Mix and bake.</dish_instructions>
<dish_nutritional_information><protine>5g</protine><carbs>30g</carbs><fat>4g</fat><calories>180kcal</calories></dish_nutritional_information>
<dish_estimated_cooking_time>25 minutes</dish_estimated_cooking_time>
`, name)
}

func TestParseDishes(t *testing.T) {
	t.Run("SingleDish", func(t *testing.T) {
		got := ParseDishes(soupCompletion)
		want := []model.Dish{{
			DishName:     "Soup",
			Ingredients:  "Water,Salt",
			Instructions: "Boil.",
			NutritionalInfo: model.NutritionalInfo{
				Protein:  "2g",
				Carbs:    "0g",
				Fat:      "0g",
				Calories: "0kcal",
			},
			CookingTime: "10 min",
		}}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("ParseDishes() = %+v, want %+v", got, want)
		}
	})

	t.Run("DocumentOrder", func(t *testing.T) {
		names := []string{"Pancakes", "Spätzle", "Rouladen", "Apfelstrudel"}
		var b strings.Builder
		b.WriteString("<dishes>\n")
		for _, n := range names {
			b.WriteString(dishBlock(n))
		}
		b.WriteString("</dishes>")

		got := ParseDishes(b.String())
		if len(got) != len(names) {
			t.Fatalf("got %d dishes, want %d", len(got), len(names))
		}
		for i, n := range names {
			if got[i].DishName != n {
				t.Errorf("dish %d = %q, want %q", i, got[i].DishName, n)
			}
			if got[i].NutritionalInfo.Calories != "180kcal" {
				t.Errorf("dish %d calories = %q", i, got[i].NutritionalInfo.Calories)
			}
		}
	})

	t.Run("IncompleteDishIsDropped", func(t *testing.T) {
		broken := "<dish_name>Broken</dish_name>\n<dish_ingredients>Salt</dish_ingredients>\n"
		raw := "<dishes>" + dishBlock("First") + broken + dishBlock("Last") + "</dishes>"

		got := ParseDishes(raw)
		if len(got) != 2 {
			t.Fatalf("got %d dishes, want 2", len(got))
		}
		if got[0].DishName != "First" || got[1].DishName != "Last" {
			t.Errorf("unexpected dishes: %q, %q", got[0].DishName, got[1].DishName)
		}
	})

	t.Run("BlankNameIsDropped", func(t *testing.T) {
		raw := "<dishes>" + dishBlock("   ") + "</dishes>"
		if got := ParseDishes(raw); len(got) != 0 {
			t.Errorf("got %d dishes, want 0", len(got))
		}
	})

	t.Run("FieldsDoNotLeakAcrossDishes", func(t *testing.T) {
		// The second dish has no instructions of its own; the first dish's must not be used.
		raw := "<dishes>" + dishBlock("First") +
			"<dish_name>Second</dish_name><dish_ingredients>Milk</dish_ingredients></dishes>" +
			"<dish_instructions>Trailing text</dish_instructions>"

		got := ParseDishes(raw)
		if len(got) != 1 || got[0].DishName != "First" {
			t.Fatalf("got %+v, want only First", got)
		}
	})

	t.Run("MissingClosingTag", func(t *testing.T) {
		raw := "<dishes>" + dishBlock("Eintopf")
		got := ParseDishes(raw)
		if len(got) != 1 || got[0].CookingTime != "25 minutes" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("MultilineFields", func(t *testing.T) {
		raw := "<dishes><dish_name>Stew</dish_name><dish_ingredients>\nBeef,\nOnions\n</dish_ingredients><dish_instructions>1. Brown the beef.\n2. Simmer.</dish_instructions></dishes>"
		got := ParseDishes(raw)
		if len(got) != 1 {
			t.Fatalf("got %d dishes, want 1", len(got))
		}
		if got[0].Ingredients != "Beef,\nOnions" {
			t.Errorf("ingredients = %q", got[0].Ingredients)
		}
		if got[0].Instructions != "1. Brown the beef.\n2. Simmer." {
			t.Errorf("instructions = %q", got[0].Instructions)
		}
		if got[0].CookingTime != DefaultCookingTime {
			t.Errorf("cooking time = %q, want %q", got[0].CookingTime, DefaultCookingTime)
		}
	})

	t.Run("NutritionDefaults", func(t *testing.T) {
		raw := "<dish_name>Salad</dish_name><dish_ingredients>Lettuce</dish_ingredients><dish_instructions>Toss.</dish_instructions>"
		got := ParseDishes(raw)
		if len(got) != 1 {
			t.Fatalf("got %d dishes, want 1", len(got))
		}
		want := model.NutritionalInfo{Protein: "0g", Carbs: "0g", Fat: "0g", Calories: "0kcal"}
		if got[0].NutritionalInfo != want {
			t.Errorf("nutrition = %+v, want %+v", got[0].NutritionalInfo, want)
		}
	})

	t.Run("NutritionTagsIgnoreCase", func(t *testing.T) {
		raw := "<dish_name>Salad</dish_name><dish_ingredients>Lettuce</dish_ingredients><dish_instructions>Toss.</dish_instructions>" +
			"<dish_nutritional_information><Protein>3g</Protein><CARBS>7g</CARBS><Fat>1g</Fat><Calories>50kcal</Calories></dish_nutritional_information>"
		got := ParseDishes(raw)
		if len(got) != 1 {
			t.Fatalf("got %d dishes, want 1", len(got))
		}
		want := model.NutritionalInfo{Protein: "3g", Carbs: "7g", Fat: "1g", Calories: "50kcal"}
		if got[0].NutritionalInfo != want {
			t.Errorf("nutrition = %+v, want %+v", got[0].NutritionalInfo, want)
		}
	})

	t.Run("ReasoningIsRemoved", func(t *testing.T) {
		raw := "<think>maybe <dish_name>Ghost</dish_name></think>" + soupCompletion +
			"<think>second thoughts</think></think>"
		got := ParseDishes(raw)
		if len(got) != 1 || got[0].DishName != "Soup" {
			t.Fatalf("got %+v, want only Soup", got)
		}
	})

	t.Run("UnmatchedThinkMarker", func(t *testing.T) {
		raw := "<think>" + soupCompletion
		got := ParseDishes(raw)
		if len(got) != 1 || got[0].DishName != "Soup" {
			t.Fatalf("got %+v, want only Soup", got)
		}
	})

	t.Run("NoDishes", func(t *testing.T) {
		for _, raw := range []string{"", "Sorry, I cannot help with that.", "<dishes></dishes>"} {
			got := ParseDishes(raw)
			if got == nil {
				t.Errorf("ParseDishes(%q) returned nil", raw)
			}
			if len(got) != 0 {
				t.Errorf("ParseDishes(%q) returned %d dishes", raw, len(got))
			}
		}
	})

	t.Run("Idempotent", func(t *testing.T) {
		raw := "<think>x</think><dishes>" + dishBlock("A") + dishBlock("B") + "</dishes>"
		first := ParseDishes(raw)
		second := ParseDishes(raw)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("results differ: %+v vs %+v", first, second)
		}
	})
}

func TestCleanContent(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"Plain", "  hello  ", "hello"},
		{"ThinkBlocks", "<think>a</think>one<think>\nb\n</think>two", "onetwo"},
		{"LeftoverMarkers", "</think>text<think>", "text"},
		{"BlankRuns", "a\n\n\n\nb\n \n\t\nc", "a\n\nb\n\nc"},
		{"KeepsSingleBlankLine", "a\n\nb", "a\n\nb"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanContent(tt.raw); got != tt.want {
				t.Errorf("CleanContent(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}
