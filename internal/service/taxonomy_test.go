package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/lawrns/flavatix/internal/domain"
	"github.com/lawrns/flavatix/internal/repository"
)

func newTaxonomyService(t *testing.T) (*TaxonomyService, *repository.TaxonomyRepository) {
	t.Helper()
	repo := repository.NewTaxonomyRepository(newTestDB(t))
	svc := NewTaxonomyService(repo, &TaxonomyConfig{})
	return svc, repo
}

func TestTaxonomyService_TemplateFallback(t *testing.T) {
	svc, _ := newTaxonomyService(t)
	ctx := context.Background()

	tests := []struct {
		name         string
		category     string
		wantTemplate string
	}{
		{"exact match", "coffee", "coffee"},
		{"contained match", "Ethiopian Coffee", "coffee"},
		{"wine", "natural wine", "wine"},
		{"unknown falls back to general", "motor oil", "general"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.Resolve(ctx, tt.category)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !result.Generated {
				t.Error("expected first resolve to be freshly generated")
			}
			if result.Taxonomy.Payload.BaseTemplate != tt.wantTemplate {
				t.Errorf("expected template %q, got %q", tt.wantTemplate, result.Taxonomy.Payload.BaseTemplate)
			}
			if len(result.Taxonomy.Payload.AromaCategories) == 0 {
				t.Error("expected non-empty aroma categories")
			}
			// Template fallback never reports a model
			if result.Taxonomy.ModelName != "" {
				t.Errorf("expected empty model name, got %q", result.Taxonomy.ModelName)
			}
		})
	}
}

func TestTaxonomyService_IdempotentResolve(t *testing.T) {
	svc, repo := newTaxonomyService(t)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "Coffee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !first.Generated {
		t.Error("expected first resolve to generate")
	}

	// Case variant of the same category resolves to the same row
	second, err := svc.Resolve(ctx, "  coffee ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Generated {
		t.Error("expected second resolve to hit cache or store")
	}
	if second.Taxonomy.ID != first.Taxonomy.ID {
		t.Errorf("expected same taxonomy row, got %s and %s", first.Taxonomy.ID, second.Taxonomy.ID)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one stored taxonomy, got %d", count)
	}
}

func TestTaxonomyService_StoredRowSurvivesCacheMiss(t *testing.T) {
	db := newTestDB(t)
	repo := repository.NewTaxonomyRepository(db)

	svcA := NewTaxonomyService(repo, &TaxonomyConfig{})
	ctx := context.Background()

	first, err := svcA.Resolve(ctx, "mezcal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A second service instance has a cold cache but shares the store
	svcB := NewTaxonomyService(repo, &TaxonomyConfig{})
	second, err := svcB.Resolve(ctx, "mezcal")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if second.Generated {
		t.Error("expected stored taxonomy to be reused, not regenerated")
	}
	if second.Taxonomy.ID != first.Taxonomy.ID {
		t.Errorf("expected same row across instances, got %s and %s", first.Taxonomy.ID, second.Taxonomy.ID)
	}
}

func TestTaxonomyService_Regenerate(t *testing.T) {
	svc, repo := newTaxonomyService(t)
	ctx := context.Background()

	first, err := svc.Resolve(ctx, "coffee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	time.Sleep(5 * time.Millisecond)

	regen, err := svc.Regenerate(ctx, "coffee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !regen.Generated {
		t.Error("expected regenerate to report a fresh generation")
	}
	// The stored row keeps its identity across regeneration
	if regen.Taxonomy.ID != first.Taxonomy.ID {
		t.Errorf("expected same row after regenerate, got %s and %s", first.Taxonomy.ID, regen.Taxonomy.ID)
	}
	if !regen.Taxonomy.GeneratedAt.After(first.Taxonomy.GeneratedAt) {
		t.Errorf("expected fresher GeneratedAt, got %v then %v", first.Taxonomy.GeneratedAt, regen.Taxonomy.GeneratedAt)
	}

	count, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Errorf("expected one stored taxonomy, got %d", count)
	}

	// The cache carries the regenerated row, not the stale one
	after, err := svc.Resolve(ctx, "coffee")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if after.Generated {
		t.Error("expected resolve after regenerate to hit cache")
	}
	if !after.Taxonomy.GeneratedAt.Equal(regen.Taxonomy.GeneratedAt) {
		t.Errorf("expected cached row to match regenerated row, got %v and %v", after.Taxonomy.GeneratedAt, regen.Taxonomy.GeneratedAt)
	}
}

func TestTaxonomyService_RegenerateBlankName(t *testing.T) {
	svc, _ := newTaxonomyService(t)

	_, err := svc.Regenerate(context.Background(), "  ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestTaxonomyService_BlankName(t *testing.T) {
	svc, _ := newTaxonomyService(t)

	_, err := svc.Resolve(context.Background(), "   ")
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput for blank name, got %v", err)
	}
}

func TestTaxonomyCache_Eviction(t *testing.T) {
	cache := newTaxonomyCache(2, time.Minute)

	for _, key := range []string{"a", "b", "c"} {
		cache.Set(key, &domain.CategoryTaxonomy{NormalizedName: key})
	}

	if _, ok := cache.Get("a"); ok {
		t.Error("expected oldest entry evicted at capacity")
	}
	if _, ok := cache.Get("b"); !ok {
		t.Error("expected entry b retained")
	}
	if _, ok := cache.Get("c"); !ok {
		t.Error("expected entry c retained")
	}
}

func TestTaxonomyCache_TTL(t *testing.T) {
	cache := newTaxonomyCache(10, 10*time.Millisecond)
	cache.Set("coffee", &domain.CategoryTaxonomy{NormalizedName: "coffee"})

	if _, ok := cache.Get("coffee"); !ok {
		t.Fatal("expected fresh entry to hit")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := cache.Get("coffee"); ok {
		t.Error("expected expired entry to miss")
	}
}
