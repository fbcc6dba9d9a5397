package handler

import (
	"net/http"
	"strings"

	"pantry-chef-api/internal/model"
	"pantry-chef-api/internal/service"
	"pantry-chef-api/pkg/apierror"
	"pantry-chef-api/pkg/response"

	"github.com/go-chi/chi/v5"
)

// InventoryHandler handles inventory-related HTTP requests.
type InventoryHandler struct {
	identityService  *service.IdentityService
	inventoryService *service.InventoryService
}

// NewInventoryHandler creates a new inventory handler.
func NewInventoryHandler(identityService *service.IdentityService, inventoryService *service.InventoryService) *InventoryHandler {
	return &InventoryHandler{
		identityService:  identityService,
		inventoryService: inventoryService,
	}
}

type inventoryBody struct {
	Name     *string        `json:"name"`
	Quantity *quantityField `json:"quantity"`
	Unit     *string        `json:"unit"`
	Category *string        `json:"category"`
}

type itemsResponse struct {
	Items []model.InventoryItem `json:"items"`
}

type itemResponse struct {
	Item *model.InventoryItem `json:"item"`
}

// List handles GET /api/v1/inventory
func (h *InventoryHandler) List(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.identityService)
	if err != nil {
		response.Error(w, err)
		return
	}

	items, err := h.inventoryService.List(r.Context(), user)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, itemsResponse{Items: items})
}

// Create handles POST /api/v1/inventory
func (h *InventoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.identityService)
	if err != nil {
		response.Error(w, err)
		return
	}

	var body inventoryBody
	if err := decodeJSON(w, r, &body); err != nil {
		response.Error(w, err)
		return
	}

	if missing := missingInventoryFields(body); len(missing) > 0 {
		response.Error(w, apierror.ValidationError(service.MsgMissingInventoryFields, missing...))
		return
	}

	quantity, err := body.Quantity.positive()
	if err != nil {
		response.Error(w, err)
		return
	}

	item, err := h.inventoryService.Create(r.Context(), user, model.InventoryInput{
		Name:     *body.Name,
		Quantity: quantity,
		Unit:     *body.Unit,
		Category: model.Category(*body.Category),
	})
	if err != nil {
		response.Error(w, err)
		return
	}

	response.Created(w, itemResponse{Item: item})
}

// Update handles PUT /api/v1/inventory/{id}
func (h *InventoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.identityService)
	if err != nil {
		response.Error(w, err)
		return
	}

	var body inventoryBody
	if err := decodeJSON(w, r, &body); err != nil {
		response.Error(w, err)
		return
	}

	var upd model.InventoryUpdate
	upd.Name = body.Name
	upd.Unit = body.Unit
	if body.Category != nil && *body.Category != "" {
		category := model.Category(*body.Category)
		upd.Category = &category
	}
	if !body.Quantity.missing() {
		quantity, err := body.Quantity.positive()
		if err != nil {
			response.Error(w, err)
			return
		}
		upd.Quantity = &quantity
	}

	item, err := h.inventoryService.Update(r.Context(), user, chi.URLParam(r, "id"), upd)
	if err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, itemResponse{Item: item})
}

// Delete handles DELETE /api/v1/inventory/{id}
func (h *InventoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, err := currentUser(r, h.identityService)
	if err != nil {
		response.Error(w, err)
		return
	}

	if err := h.inventoryService.Delete(r.Context(), user, chi.URLParam(r, "id")); err != nil {
		response.Error(w, err)
		return
	}

	response.OK(w, response.Success{Success: true})
}

func missingInventoryFields(body inventoryBody) []apierror.FieldError {
	var missing []apierror.FieldError
	add := func(field string) {
		missing = append(missing, apierror.FieldError{Field: field, Message: "is required"})
	}

	if body.Name == nil || strings.TrimSpace(*body.Name) == "" {
		add("name")
	}
	if body.Quantity.missing() {
		add("quantity")
	}
	if body.Unit == nil || *body.Unit == "" {
		add("unit")
	}
	if body.Category == nil || *body.Category == "" {
		add("category")
	}
	return missing
}
