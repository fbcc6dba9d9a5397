package handler

import (
	"net/http"

	"pantry-chef-api/internal/middleware"
	"pantry-chef-api/internal/model"
	"pantry-chef-api/internal/service"
	"pantry-chef-api/pkg/response"
)

// MealPlanHandler handles meal plan generation.
type MealPlanHandler struct {
	identityService *service.IdentityService
	mealPlanService *service.MealPlanService
}

// NewMealPlanHandler creates a new meal plan handler.
func NewMealPlanHandler(identityService *service.IdentityService, mealPlanService *service.MealPlanService) *MealPlanHandler {
	return &MealPlanHandler{
		identityService: identityService,
		mealPlanService: mealPlanService,
	}
}

// Generate handles POST /api/v1/meal-plan
// Anonymous callers are served from the request alone; signed-in callers are
// resolved first so their stored inventory can stand in for fridgeItems.
func (h *MealPlanHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req model.MealPlanRequest
	if err := decodeJSON(w, r, &req); err != nil {
		response.Error(w, err)
		return
	}

	var user *model.User
	if middleware.GetPrincipal(r.Context()) != nil {
		u, err := currentUser(r, h.identityService)
		if err != nil {
			response.Error(w, err)
			return
		}
		user = u
	}

	resp, err := h.mealPlanService.Generate(r.Context(), user, req)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, resp)
}
