package mealplan

import (
	"errors"
	"fmt"
	"log"
	"regexp"
	"strings"

	"pantry-chef-api/internal/model"
)

// Fallbacks for values the model left out.
const (
	DefaultMass        = "0g"
	DefaultCalories    = "0kcal"
	DefaultCookingTime = "Not specified"
)

const dishesCloseTag = "</dishes>"

var (
	thinkBlockPattern  = regexp.MustCompile(`(?s)<think>.*?</think>`)
	thinkMarkerPattern = regexp.MustCompile(`</?think>`)
	blankRunPattern    = regexp.MustCompile(`\n\s*\n\s*\n`)

	// dish names are single-line; their offsets delimit the candidate blocks.
	dishNamePattern = regexp.MustCompile(`<dish_name>(.*?)</dish_name>`)

	ingredientsPattern  = tagPattern("dish_ingredients")
	instructionsPattern = tagPattern("dish_instructions")
	cookingTimePattern  = tagPattern("dish_estimated_cooking_time")
	nutritionPattern    = tagPattern("dish_nutritional_information")

	// <protine> is the spelling the system instruction asks for; <protein> is accepted too.
	proteinPattern  = regexp.MustCompile(`(?is)<(?:protine|protein)>(.*?)</(?:protine|protein)>`)
	carbsPattern    = nutrientPattern("carbs")
	fatPattern      = nutrientPattern("fat")
	caloriesPattern = nutrientPattern("calories")
)

var errIncompleteDish = errors.New("dish is missing name, ingredients or instructions")

func tagPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?s)<` + tag + `>(.*?)</` + tag + `>`)
}

func nutrientPattern(tag string) *regexp.Regexp {
	return regexp.MustCompile(`(?is)<` + tag + `>(.*?)</` + tag + `>`)
}

// StripReasoning removes <think>…</think> sections and any unmatched think markers.
func StripReasoning(text string) string {
	text = thinkBlockPattern.ReplaceAllString(text, "")
	return thinkMarkerPattern.ReplaceAllString(text, "")
}

// CleanContent returns the completion without reasoning sections, with runs of blank
// lines collapsed and surrounding whitespace trimmed.
func CleanContent(raw string) string {
	cleaned := StripReasoning(raw)
	cleaned = blankRunPattern.ReplaceAllString(cleaned, "\n\n")
	return strings.TrimSpace(cleaned)
}

// ParseDishes extracts every complete dish from a raw completion in document order.
// It never fails: malformed candidates are dropped and the result is never nil.
func ParseDishes(raw string) (dishes []model.Dish) {
	dishes = []model.Dish{}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("[Parser] Giving up on completion: %v", r)
			dishes = []model.Dish{}
		}
	}()

	text := StripReasoning(raw)
	matches := dishNamePattern.FindAllStringSubmatchIndex(text, -1)

	for i := range matches {
		name := text[matches[i][2]:matches[i][3]]
		block := candidateBlock(text, matches, i)

		dish, err := parseCandidate(name, block)
		if err != nil {
			log.Printf("[Parser] Skipping dish %d: %v", i+1, err)
			continue
		}
		dishes = append(dishes, dish)
	}

	return dishes
}

// candidateBlock returns the text of the i-th dish: up to the next dish name, or for
// the last dish up to the closing </dishes> tag when the model remembered to emit it.
func candidateBlock(text string, matches [][]int, i int) string {
	start := matches[i][0]
	end := len(text)

	if i+1 < len(matches) {
		end = matches[i+1][0]
	} else if idx := strings.Index(text[start:], dishesCloseTag); idx >= 0 {
		end = start + idx
	}

	return text[start:end]
}

// parseCandidate builds one dish. A panic while parsing is turned into an error so
// that the remaining candidates are still processed.
func parseCandidate(name, block string) (dish model.Dish, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic while parsing: %v", r)
		}
	}()

	dish = model.Dish{
		DishName:        strings.TrimSpace(name),
		Ingredients:     firstMatch(ingredientsPattern, block),
		Instructions:    firstMatch(instructionsPattern, block),
		NutritionalInfo: parseNutrition(firstMatch(nutritionPattern, block)),
		CookingTime:     firstMatch(cookingTimePattern, block),
	}

	if dish.DishName == "" || dish.Ingredients == "" || dish.Instructions == "" {
		return model.Dish{}, errIncompleteDish
	}
	if dish.CookingTime == "" {
		dish.CookingTime = DefaultCookingTime
	}

	return dish, nil
}

// parseNutrition reads the four nutrient tags, defaulting any that are missing.
func parseNutrition(text string) model.NutritionalInfo {
	return model.NutritionalInfo{
		Protein:  orDefault(firstMatch(proteinPattern, text), DefaultMass),
		Carbs:    orDefault(firstMatch(carbsPattern, text), DefaultMass),
		Fat:      orDefault(firstMatch(fatPattern, text), DefaultMass),
		Calories: orDefault(firstMatch(caloriesPattern, text), DefaultCalories),
	}
}

// firstMatch returns the trimmed first capture group, or "" when nothing matches.
func firstMatch(re *regexp.Regexp, text string) string {
	m := re.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}
