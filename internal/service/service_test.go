package service

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"pantry-chef-api/internal/cache"
	"pantry-chef-api/internal/llm"
	"pantry-chef-api/internal/model"
	"pantry-chef-api/internal/repository"
	"pantry-chef-api/pkg/apierror"
)

func newStore(t *testing.T) *repository.SQLStore {
	t.Helper()

	store, err := repository.NewSQLiteStore(filepath.Join(t.TempDir(), "pantry.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func newUser(t *testing.T, identity *IdentityService, externalID string) *model.User {
	t.Helper()

	user, err := identity.GetOrCreateUser(context.Background(), &model.Principal{ExternalID: externalID})
	if err != nil {
		t.Fatalf("GetOrCreateUser() error = %v", err)
	}
	return user
}

// assertStatus checks that err is an API error with the given status code.
func assertStatus(t *testing.T, err error, status int) *apierror.Error {
	t.Helper()

	var apiErr *apierror.Error
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *apierror.Error with status %d, got %v", status, err)
	}
	if apiErr.StatusCode != status {
		t.Fatalf("status = %d, want %d (%s)", apiErr.StatusCode, status, apiErr.Message)
	}
	return apiErr
}

func ptr[T any](v T) *T { return &v }

// stubProvider is a hand-written llm.Provider.
type stubProvider struct {
	mu       sync.Mutex
	text     string
	err      error
	lastUser string
	calls    int
}

func (p *stubProvider) Complete(ctx context.Context, system, user string) (*llm.Completion, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.calls++
	p.lastUser = user
	if p.err != nil {
		return nil, p.err
	}
	return &llm.Completion{
		Text:  p.text,
		Model: "stub-model",
		Usage: &llm.Usage{PromptTokens: 3, CompletionTokens: 4, TotalTokens: 7},
	}, nil
}

func (p *stubProvider) Name() string { return "stub" }

func TestIdentityService(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	memory := cache.NewMemoryCache()
	defer memory.Close()
	identity := NewIdentityService(store, memory, time.Minute)

	t.Run("NilPrincipal", func(t *testing.T) {
		_, err := identity.GetOrCreateUser(ctx, nil)
		assertStatus(t, err, http.StatusUnauthorized)
	})

	t.Run("CreatesWithEmail", func(t *testing.T) {
		user, err := identity.GetOrCreateUser(ctx, &model.Principal{ExternalID: "user_1", Email: "a@example.com"})
		if err != nil {
			t.Fatalf("GetOrCreateUser() error = %v", err)
		}
		if user.ExternalID != "user_1" || user.Email == nil || *user.Email != "a@example.com" {
			t.Errorf("unexpected user: %+v", user)
		}

		again, err := identity.GetOrCreateUser(ctx, &model.Principal{ExternalID: "user_1"})
		if err != nil {
			t.Fatalf("GetOrCreateUser() error = %v", err)
		}
		if again.ID != user.ID {
			t.Errorf("second call returned a different user")
		}
	})

	t.Run("WithoutCache", func(t *testing.T) {
		uncached := NewIdentityService(store, nil, 0)
		user, err := uncached.GetOrCreateUser(ctx, &model.Principal{ExternalID: "user_1"})
		if err != nil {
			t.Fatalf("GetOrCreateUser() error = %v", err)
		}
		if user.Email == nil || *user.Email != "a@example.com" {
			t.Errorf("expected stored user, got %+v", user)
		}
	})
}

func TestInventoryService(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	identity := NewIdentityService(store, nil, 0)
	inventory := NewInventoryService(store)

	alice := newUser(t, identity, "alice")
	bob := newUser(t, identity, "bob")

	t.Run("CreateValidation", func(t *testing.T) {
		tests := []struct {
			name string
			in   model.InventoryInput
			msg  string
		}{
			{"MissingName", model.InventoryInput{Name: "  ", Quantity: 1, Unit: "kg", Category: model.CategoryFresh}, MsgMissingInventoryFields},
			{"MissingUnit", model.InventoryInput{Name: "Rice", Quantity: 1, Category: model.CategoryFresh}, MsgMissingInventoryFields},
			{"NegativeQuantity", model.InventoryInput{Name: "Rice", Quantity: -1, Unit: "kg", Category: model.CategoryEssential}, MsgInvalidQuantity},
			{"ZeroQuantity", model.InventoryInput{Name: "Rice", Quantity: 0, Unit: "kg", Category: model.CategoryEssential}, MsgInvalidQuantity},
			{"UnknownCategory", model.InventoryInput{Name: "Rice", Quantity: 1, Unit: "kg", Category: "frozen"}, MsgInvalidCategory},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := inventory.Create(ctx, alice, tt.in)
				apiErr := assertStatus(t, err, http.StatusBadRequest)
				if apiErr.Message != tt.msg {
					t.Errorf("message = %q, want %q", apiErr.Message, tt.msg)
				}
			})
		}
	})

	item, err := inventory.Create(ctx, alice, model.InventoryInput{
		Name: "  Milk ", Quantity: 1.5, Unit: "l", Category: model.CategoryFresh,
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	t.Run("CreateTrimsAndOwns", func(t *testing.T) {
		if item.Name != "Milk" || item.UserID != alice.ID || item.ID == "" {
			t.Errorf("unexpected item: %+v", item)
		}
	})

	t.Run("UpdatePartial", func(t *testing.T) {
		got, err := inventory.Update(ctx, alice, item.ID, model.InventoryUpdate{
			Quantity: ptr(3.0),
			Name:     ptr(""),
			Unit:     ptr(""),
		})
		if err != nil {
			t.Fatalf("Update() error = %v", err)
		}
		if got.Quantity != 3 || got.Name != "Milk" || got.Unit != "l" {
			t.Errorf("unexpected item: %+v", got)
		}
		if !got.UpdatedAt.After(item.UpdatedAt) && !got.UpdatedAt.Equal(item.UpdatedAt) {
			t.Errorf("UpdatedAt went backwards")
		}
	})

	t.Run("UpdateValidation", func(t *testing.T) {
		_, err := inventory.Update(ctx, alice, item.ID, model.InventoryUpdate{Quantity: ptr(-1.0)})
		assertStatus(t, err, http.StatusBadRequest)

		frozen := model.Category("frozen")
		_, err = inventory.Update(ctx, alice, item.ID, model.InventoryUpdate{Category: &frozen})
		assertStatus(t, err, http.StatusBadRequest)
	})

	t.Run("ForeignItemIsNotFound", func(t *testing.T) {
		_, err := inventory.Update(ctx, bob, item.ID, model.InventoryUpdate{Quantity: ptr(9.0)})
		apiErr := assertStatus(t, err, http.StatusNotFound)
		if apiErr.Message != MsgItemNotFound {
			t.Errorf("message = %q", apiErr.Message)
		}

		_, err = inventory.Update(ctx, bob, "does-not-exist", model.InventoryUpdate{Quantity: ptr(9.0)})
		assertStatus(t, err, http.StatusNotFound)

		err = inventory.Delete(ctx, bob, item.ID)
		assertStatus(t, err, http.StatusNotFound)
	})

	t.Run("ListAndSnapshot", func(t *testing.T) {
		items, err := inventory.List(ctx, alice)
		if err != nil || len(items) != 1 {
			t.Fatalf("List() = %v, %v", items, err)
		}

		others, err := inventory.List(ctx, bob)
		if err != nil || len(others) != 0 {
			t.Fatalf("List(bob) = %v, %v", others, err)
		}

		snapshot, err := inventory.Snapshot(ctx, alice)
		if err != nil {
			t.Fatalf("Snapshot() error = %v", err)
		}
		if len(snapshot) != 1 || snapshot[0].Name != "Milk" || snapshot[0].Quantity != 3 {
			t.Errorf("unexpected snapshot: %+v", snapshot)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		if err := inventory.Delete(ctx, alice, item.ID); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		err := inventory.Delete(ctx, alice, item.ID)
		assertStatus(t, err, http.StatusNotFound)
	})
}

const oneDish = "<think>planning</think><dishes><dish_name>Soup</dish_name><dish_ingredients>Water,Salt</dish_ingredients><dish_instructions>Boil.</dish_instructions></dishes>"

func TestMealPlanService(t *testing.T) {
	ctx := context.Background()
	validReq := model.MealPlanRequest{
		DietaryPreference: "1 Dish",
		ActivityLevel:     "Vegan",
		Goal:              "High Fiber",
	}

	t.Run("NotConfigured", func(t *testing.T) {
		svc := NewMealPlanService(nil, nil)
		_, err := svc.Generate(ctx, nil, validReq)
		assertStatus(t, err, http.StatusServiceUnavailable)
	})

	t.Run("MissingFields", func(t *testing.T) {
		provider := &stubProvider{text: oneDish}
		svc := NewMealPlanService(provider, nil)

		req := validReq
		req.DietaryPreference = ""
		req.Goal = " "
		_, err := svc.Generate(ctx, nil, req)
		apiErr := assertStatus(t, err, http.StatusBadRequest)
		if apiErr.Message != "Missing required fields: dietaryPreference, goal" {
			t.Errorf("message = %q", apiErr.Message)
		}
		if len(apiErr.Details) != 2 {
			t.Errorf("details = %+v", apiErr.Details)
		}
		if provider.calls != 0 {
			t.Errorf("provider called for an invalid request")
		}
	})

	t.Run("Success", func(t *testing.T) {
		provider := &stubProvider{text: oneDish}
		svc := NewMealPlanService(provider, nil)

		resp, err := svc.Generate(ctx, nil, validReq)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if len(resp.Meals) != 1 || resp.Meals[0].DishName != "Soup" {
			t.Fatalf("unexpected meals: %+v", resp.Meals)
		}
		if resp.RawContent != oneDish || resp.Model != "stub-model" {
			t.Errorf("unexpected response: %+v", resp)
		}
		if resp.Content != "<dishes><dish_name>Soup</dish_name><dish_ingredients>Water,Salt</dish_ingredients><dish_instructions>Boil.</dish_instructions></dishes>" {
			t.Errorf("content = %q", resp.Content)
		}
		if resp.Usage == nil || resp.Usage.TotalTokens != 7 {
			t.Errorf("usage = %+v", resp.Usage)
		}
	})

	t.Run("NoDishesIsNotAnError", func(t *testing.T) {
		svc := NewMealPlanService(&stubProvider{text: "I cannot help with that."}, nil)
		resp, err := svc.Generate(ctx, nil, validReq)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if resp.Meals == nil || len(resp.Meals) != 0 {
			t.Errorf("meals = %#v", resp.Meals)
		}
	})

	t.Run("UpstreamErrors", func(t *testing.T) {
		tests := []struct {
			name string
			err  error
			want int
		}{
			{"Auth", &llm.ProviderError{Kind: llm.KindAuth}, http.StatusUnauthorized},
			{"RateLimit", &llm.ProviderError{Kind: llm.KindRateLimit}, http.StatusTooManyRequests},
			{"Timeout", &llm.ProviderError{Kind: llm.KindTimeout}, http.StatusRequestTimeout},
			{"Unavailable", &llm.ProviderError{Kind: llm.KindUnavailable}, http.StatusServiceUnavailable},
			{"Empty", &llm.ProviderError{Kind: llm.KindEmpty}, http.StatusInternalServerError},
			{"UntypedQuota", errors.New("quota exceeded for project"), http.StatusTooManyRequests},
			{"UntypedAPIKey", errors.New("API key not valid"), http.StatusUnauthorized},
			{"Unknown", errors.New("boom"), http.StatusInternalServerError},
			{"NotConfigured", llm.ErrNotConfigured, http.StatusServiceUnavailable},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := NewMealPlanService(&stubProvider{err: tt.err}, nil)
				_, err := svc.Generate(ctx, nil, validReq)
				assertStatus(t, err, tt.want)
			})
		}
	})

	t.Run("UsesStoredInventory", func(t *testing.T) {
		store := newStore(t)
		identity := NewIdentityService(store, nil, 0)
		inventory := NewInventoryService(store)
		user := newUser(t, identity, "chef")

		if _, err := inventory.Create(ctx, user, model.InventoryInput{
			Name: "Eggs", Quantity: 6, Unit: "pcs", Category: model.CategoryFresh,
		}); err != nil {
			t.Fatalf("Create() error = %v", err)
		}

		provider := &stubProvider{text: oneDish}
		svc := NewMealPlanService(provider, inventory)

		if _, err := svc.Generate(ctx, user, validReq); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if want := "- Eggs: 6 pcs (fresh)"; !strings.Contains(provider.lastUser, want) {
			t.Errorf("prompt missing %q:\n%s", want, provider.lastUser)
		}

		// An explicit empty list means "ignore my inventory".
		req := validReq
		req.FridgeItems = []model.FridgeItem{}
		if _, err := svc.Generate(ctx, user, req); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if strings.Contains(provider.lastUser, "Eggs") {
			t.Errorf("inventory used despite explicit empty list")
		}

		// Anonymous callers never get stored inventory.
		if _, err := svc.Generate(ctx, nil, validReq); err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if strings.Contains(provider.lastUser, "Eggs") {
			t.Errorf("inventory used for anonymous caller")
		}
	})
}
