package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"pantry-chef-api/internal/model"
	"pantry-chef-api/internal/repository"
	"pantry-chef-api/pkg/apierror"
	"pantry-chef-api/pkg/uid"
)

// Validation messages shared with the HTTP layer.
const (
	MsgMissingInventoryFields = "Missing required fields: name, quantity, unit, and category are required"
	MsgInvalidQuantity        = "Quantity must be a positive number"
	MsgInvalidCategory        = "Category must be either 'essential' or 'fresh'"
	MsgItemNotFound           = "Item not found or access denied"
)

// InventoryService handles inventory business logic. Every operation is scoped to
// the resolved user passed in by the caller.
type InventoryService struct {
	inventoryRepo repository.InventoryRepository
	now           func() time.Time
}

// NewInventoryService creates a new inventory service.
// Returns nil if inventoryRepo is nil (required dependency).
func NewInventoryService(inventoryRepo repository.InventoryRepository) *InventoryService {
	if inventoryRepo == nil {
		return nil
	}
	return &InventoryService{
		inventoryRepo: inventoryRepo,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// List returns the user's items, newest first.
func (s *InventoryService) List(ctx context.Context, user *model.User) ([]model.InventoryItem, error) {
	items, err := s.inventoryRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		log.Printf("[InventoryService] List failed for user %s: %v", user.ID, err)
		return nil, apierror.InternalError("Failed to fetch fridge items. Please try again.")
	}
	return items, nil
}

// Create validates and stores a new item owned by user.
func (s *InventoryService) Create(ctx context.Context, user *model.User, in model.InventoryInput) (*model.InventoryItem, error) {
	in.Name = strings.TrimSpace(in.Name)
	if err := validateInput(in); err != nil {
		return nil, err
	}

	now := s.now()
	item := &model.InventoryItem{
		ID:        uid.New(),
		UserID:    user.ID,
		Name:      in.Name,
		Quantity:  in.Quantity,
		Unit:      in.Unit,
		Category:  in.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.inventoryRepo.Create(ctx, item); err != nil {
		log.Printf("[InventoryService] Create failed for user %s: %v", user.ID, err)
		return nil, apierror.InternalError("Failed to add fridge item. Please try again.")
	}
	return item, nil
}

// Update applies a partial update to an item owned by user. Blank name or unit
// values are treated as absent.
func (s *InventoryService) Update(ctx context.Context, user *model.User, id string, upd model.InventoryUpdate) (*model.InventoryItem, error) {
	if upd.Quantity != nil && !(*upd.Quantity > 0) {
		return nil, apierror.ValidationError(MsgInvalidQuantity, apierror.FieldError{Field: "quantity", Message: "must be greater than 0"})
	}
	if upd.Category != nil && !upd.Category.Valid() {
		return nil, apierror.ValidationError(MsgInvalidCategory, apierror.FieldError{Field: "category", Message: "must be essential or fresh"})
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		upd.Name = &name
		if name == "" {
			upd.Name = nil
		}
	}
	if upd.Unit != nil && *upd.Unit == "" {
		upd.Unit = nil
	}

	item, err := s.owned(ctx, user, id)
	if err != nil {
		return nil, err
	}

	upd.Apply(item)
	item.UpdatedAt = s.now()

	if err := s.inventoryRepo.Update(ctx, item); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound(MsgItemNotFound)
		}
		log.Printf("[InventoryService] Update %s failed: %v", id, err)
		return nil, apierror.InternalError("Failed to update fridge item. Please try again.")
	}
	return item, nil
}

// Delete removes an item owned by user.
func (s *InventoryService) Delete(ctx context.Context, user *model.User, id string) error {
	if _, err := s.owned(ctx, user, id); err != nil {
		return err
	}

	if err := s.inventoryRepo.Delete(ctx, id, user.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apierror.NotFound(MsgItemNotFound)
		}
		log.Printf("[InventoryService] Delete %s failed: %v", id, err)
		return apierror.InternalError("Failed to delete fridge item. Please try again.")
	}
	return nil
}

// Snapshot returns the user's inventory in the shape sent with a meal plan request.
func (s *InventoryService) Snapshot(ctx context.Context, user *model.User) ([]model.FridgeItem, error) {
	items, err := s.inventoryRepo.ListByOwner(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	snapshot := make([]model.FridgeItem, 0, len(items))
	for _, item := range items {
		snapshot = append(snapshot, model.FridgeItem{
			ID:       item.ID,
			Name:     item.Name,
			Quantity: item.Quantity,
			Unit:     item.Unit,
			Category: item.Category,
		})
	}
	return snapshot, nil
}

// owned re-fetches the item and checks ownership. Missing and foreign items produce
// the same error.
func (s *InventoryService) owned(ctx context.Context, user *model.User, id string) (*model.InventoryItem, error) {
	if id == "" {
		return nil, apierror.BadRequest("Item ID is required")
	}
	if !uid.IsValid(id) {
		return nil, apierror.NotFound(MsgItemNotFound)
	}

	item, err := s.inventoryRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apierror.NotFound(MsgItemNotFound)
		}
		log.Printf("[InventoryService] Get %s failed: %v", id, err)
		return nil, apierror.InternalError("")
	}
	if item.UserID != user.ID {
		return nil, apierror.NotFound(MsgItemNotFound)
	}
	return item, nil
}

func validateInput(in model.InventoryInput) error {
	var missing []apierror.FieldError
	if in.Name == "" {
		missing = append(missing, apierror.FieldError{Field: "name", Message: "is required"})
	}
	if in.Unit == "" {
		missing = append(missing, apierror.FieldError{Field: "unit", Message: "is required"})
	}
	if in.Category == "" {
		missing = append(missing, apierror.FieldError{Field: "category", Message: "is required"})
	}
	if len(missing) > 0 {
		return apierror.ValidationError(MsgMissingInventoryFields, missing...)
	}

	if !(in.Quantity > 0) {
		return apierror.ValidationError(MsgInvalidQuantity, apierror.FieldError{Field: "quantity", Message: "must be greater than 0"})
	}
	if !in.Category.Valid() {
		return apierror.ValidationError(MsgInvalidCategory, apierror.FieldError{Field: "category", Message: "must be essential or fresh"})
	}
	return nil
}
