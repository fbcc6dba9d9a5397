package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"pantry-chef-api/internal/llm"
	"pantry-chef-api/internal/mealplan"
	"pantry-chef-api/internal/model"
	"pantry-chef-api/pkg/apierror"
)

// MealPlanService turns preferences into parsed dishes through a completion provider.
type MealPlanService struct {
	provider  llm.Provider
	inventory *InventoryService
}

// NewMealPlanService creates a meal plan service. provider is nil when no credential
// is configured; every request then fails with 503. inventory may be nil.
func NewMealPlanService(provider llm.Provider, inventory *InventoryService) *MealPlanService {
	return &MealPlanService{
		provider:  provider,
		inventory: inventory,
	}
}

// Configured reports whether a provider is available.
func (s *MealPlanService) Configured() bool {
	return s.provider != nil
}

// Generate validates req, composes the prompt, makes one provider call and parses the
// result. user is nil for anonymous callers; for signed-in callers that send no
// fridgeItems the stored inventory is used instead.
func (s *MealPlanService) Generate(ctx context.Context, user *model.User, req model.MealPlanRequest) (*model.MealPlanResponse, error) {
	if s.provider == nil {
		log.Printf("[MealPlanService] No completion provider configured")
		return nil, apierror.ServiceUnavailable("Server not configured. Please contact support.")
	}

	if err := validateMealPlanRequest(req); err != nil {
		return nil, err
	}

	if req.FridgeItems == nil && user != nil && s.inventory != nil {
		snapshot, err := s.inventory.Snapshot(ctx, user)
		if err != nil {
			log.Printf("[MealPlanService] Continuing without inventory for user %s: %v", user.ID, err)
		} else {
			req.FridgeItems = snapshot
		}
	}

	start := time.Now()
	completion, err := s.provider.Complete(ctx, mealplan.SystemInstruction, mealplan.BuildUserMessage(req))
	if err != nil {
		log.Printf("[MealPlanService] %s completion failed after %v: %v", s.provider.Name(), time.Since(start), err)
		return nil, upstreamError(err)
	}

	meals := mealplan.ParseDishes(completion.Text)
	log.Printf("[MealPlanService] %s returned %d dishes in %v", s.provider.Name(), len(meals), time.Since(start))

	resp := &model.MealPlanResponse{
		Content:    mealplan.CleanContent(completion.Text),
		RawContent: completion.Text,
		Model:      completion.Model,
		Meals:      meals,
	}
	if u := completion.Usage; u != nil {
		resp.Usage = &model.TokenUsage{
			PromptTokens:     u.PromptTokens,
			CompletionTokens: u.CompletionTokens,
			TotalTokens:      u.TotalTokens,
		}
	}

	return resp, nil
}

func validateMealPlanRequest(req model.MealPlanRequest) error {
	required := []struct {
		field string
		value string
	}{
		{"dietaryPreference", req.DietaryPreference},
		{"activityLevel", req.ActivityLevel},
		{"goal", req.Goal},
	}

	var (
		names   []string
		details []apierror.FieldError
	)
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			names = append(names, r.field)
			details = append(details, apierror.FieldError{Field: r.field, Message: "is required"})
		}
	}

	if len(names) > 0 {
		return apierror.ValidationError("Missing required fields: "+strings.Join(names, ", "), details...)
	}
	return nil
}

// upstreamError maps a provider failure onto the API error taxonomy.
func upstreamError(err error) error {
	if errors.Is(err, llm.ErrNotConfigured) {
		return apierror.ServiceUnavailable("Server not configured. Please contact support.")
	}

	switch llm.KindOf(err) {
	case llm.KindAuth:
		return apierror.Unauthorized("Authentication failed. Please contact support.")
	case llm.KindRateLimit:
		return apierror.TooManyRequests("Service temporarily unavailable due to high demand. Please try again later.")
	case llm.KindTimeout:
		return apierror.RequestTimeout("Request timeout. Please try again.")
	case llm.KindUnavailable:
		return apierror.ServiceUnavailable("Meal plan service is temporarily unavailable. Please try again later.")
	default:
		return apierror.InternalError("Failed to generate meal plan. Please try again.")
	}
}
