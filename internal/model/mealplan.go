package model

// MealPlanRequest is the body of a meal plan request. It is never persisted.
type MealPlanRequest struct {
	DietaryPreference  string       `json:"dietaryPreference"` // plan type, e.g. "1 Dish" or "1 Day Plan"
	ActivityLevel      string       `json:"activityLevel"`     // diet type, e.g. "Vegan"
	Goal               string       `json:"goal"`
	MealFrequency      string       `json:"mealFrequency"` // meal type for single-dish plans
	CustomRestrictions string       `json:"customRestrictions"`
	QuickRecipe        bool         `json:"quickRecipe"`
	Language           string       `json:"language"`
	FridgeItems        []FridgeItem `json:"fridgeItems"`
}

// FridgeItem is one entry of the inventory snapshot sent with a request.
type FridgeItem struct {
	ID       string   `json:"id,omitempty"`
	Name     string   `json:"name"`
	Quantity float64  `json:"quantity"`
	Unit     string   `json:"unit"`
	Category Category `json:"category"`
}

// NutritionalInfo holds free-form magnitude+unit strings such as "12g".
type NutritionalInfo struct {
	Protein  string `json:"protein"`
	Carbs    string `json:"carbs"`
	Fat      string `json:"fat"`
	Calories string `json:"calories"`
}

// Dish is one recipe recovered from a model completion.
type Dish struct {
	DishName        string          `json:"dishName"`
	Ingredients     string          `json:"ingredients"`
	Instructions    string          `json:"instructions"`
	NutritionalInfo NutritionalInfo `json:"nutritionalInfo"`
	CookingTime     string          `json:"cookingTime"`
}

// TokenUsage reports the tokens consumed by a completion.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// MealPlanResponse is returned to the client after parsing a completion.
type MealPlanResponse struct {
	Content    string      `json:"content"`
	RawContent string      `json:"rawContent"`
	Model      string      `json:"model"`
	Meals      []Dish      `json:"meals"`
	Usage      *TokenUsage `json:"usage"`
}
