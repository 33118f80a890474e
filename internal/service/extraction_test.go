package service

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/lawrns/flavatix/internal/domain"
	"github.com/lawrns/flavatix/internal/repository"
)

func newExtractionService(t *testing.T) (*ExtractionService, *repository.DescriptorRepository) {
	t.Helper()
	db := newTestDB(t)
	descriptorRepo := repository.NewDescriptorRepository(db)
	logRepo := repository.NewExtractionLogRepository(db)
	taxonomySvc := NewTaxonomyService(repository.NewTaxonomyRepository(db), &TaxonomyConfig{})
	ai := NewAIExtractionService(&AIExtractionConfig{})

	svc := NewExtractionService(descriptorRepo, logRepo, NewKeywordExtractor(), ai, taxonomySvc, false)
	return svc, descriptorRepo
}

// newAIExtractionService wires a full pipeline against a fake provider URL
// with the AI path enabled.
func newAIExtractionService(t *testing.T, baseURL string) (*ExtractionService, *repository.DescriptorRepository, *repository.ExtractionLogRepository) {
	t.Helper()
	db := newTestDB(t)
	descriptorRepo := repository.NewDescriptorRepository(db)
	logRepo := repository.NewExtractionLogRepository(db)
	taxonomySvc := NewTaxonomyService(repository.NewTaxonomyRepository(db), &TaxonomyConfig{})
	ai := NewAIExtractionService(&AIExtractionConfig{
		Model:   "gpt-4o-mini",
		APIKey:  "test-key",
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
	})

	svc := NewExtractionService(descriptorRepo, logRepo, NewKeywordExtractor(), ai, taxonomySvc, true)
	return svc, descriptorRepo, logRepo
}

func TestExtractionService_Validation(t *testing.T) {
	svc, _ := newExtractionService(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *ExtractRequest
	}{
		{
			name: "missing user",
			req:  &ExtractRequest{SourceType: domain.SourceReview, SourceID: "r1", Text: "citrus"},
		},
		{
			name: "missing source id",
			req:  &ExtractRequest{UserID: "u1", SourceType: domain.SourceReview, Text: "citrus"},
		},
		{
			name: "bad source type",
			req:  &ExtractRequest{UserID: "u1", SourceType: "podcast", SourceID: "r1", Text: "citrus"},
		},
		{
			name: "no text and no notes",
			req:  &ExtractRequest{UserID: "u1", SourceType: domain.SourceReview, SourceID: "r1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Extract(ctx, tt.req)
			if !errors.Is(err, ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestExtractionService_KeywordPath(t *testing.T) {
	svc, repo := newExtractionService(t)
	ctx := context.Background()

	result, err := svc.Extract(ctx, &ExtractRequest{
		UserID:     "u1",
		SourceType: domain.SourceQuickTasting,
		SourceID:   "t1",
		Text:       "Bright citrus, floral jasmine, honey sweetness",
		Item:       &ItemContext{Name: "Yirgacheffe", Category: "coffee"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Method != domain.MethodKeyword {
		t.Errorf("expected keyword method, got %s", result.Method)
	}
	if result.SavedCount == 0 {
		t.Fatal("expected descriptors to be saved")
	}

	stored, err := repo.GetByUserTerm(ctx, "u1", "citrus", domain.TypeAroma)
	if err != nil {
		t.Fatalf("expected citrus row: %v", err)
	}
	if stored.ItemName != "Yirgacheffe" || stored.ItemCategory != "coffee" {
		t.Errorf("item context not persisted: %+v", stored)
	}
	if stored.AIGenerated {
		t.Error("keyword descriptor marked as AI generated")
	}
}

func TestExtractionService_Idempotent(t *testing.T) {
	svc, repo := newExtractionService(t)
	ctx := context.Background()

	req := &ExtractRequest{
		UserID:     "u1",
		SourceType: domain.SourceReview,
		SourceID:   "r1",
		Text:       "jasmine and honey",
	}

	first, err := svc.Extract(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := svc.Extract(ctx, req)
	if err != nil {
		t.Fatalf("unexpected error on repeat: %v", err)
	}
	if first.SavedCount != second.SavedCount {
		t.Errorf("expected same saved count, got %d then %d", first.SavedCount, second.SavedCount)
	}

	count, err := repo.CountByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if int(count) != first.SavedCount {
		t.Errorf("expected %d rows after repeat extraction, got %d", first.SavedCount, count)
	}
}

func TestExtractionService_CaseInsensitiveDedup(t *testing.T) {
	svc, repo := newExtractionService(t)
	ctx := context.Background()

	if _, err := svc.Extract(ctx, &ExtractRequest{
		UserID: "u1", SourceType: domain.SourceReview, SourceID: "r1",
		Notes: &StructuredNotes{Aroma: "Jasmine"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := svc.Extract(ctx, &ExtractRequest{
		UserID: "u1", SourceType: domain.SourceReview, SourceID: "r2",
		Notes: &StructuredNotes{Aroma: "JASMINE"},
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	count, err := repo.CountByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected one row for case variants, got %d", count)
	}

	stored, err := repo.GetByUserTerm(ctx, "u1", "jasmine", domain.TypeAroma)
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	// Last write wins on conflict
	if stored.SourceID != "r2" {
		t.Errorf("expected source r2 after overwrite, got %s", stored.SourceID)
	}
	if stored.RawText != "JASMINE" {
		t.Errorf("expected latest raw text, got %q", stored.RawText)
	}
}

func TestExtractionService_PerUserIsolation(t *testing.T) {
	svc, repo := newExtractionService(t)
	ctx := context.Background()

	for _, user := range []string{"u1", "u2"} {
		if _, err := svc.Extract(ctx, &ExtractRequest{
			UserID: user, SourceType: domain.SourceReview, SourceID: "r1",
			Notes: &StructuredNotes{Aroma: "jasmine"},
		}); err != nil {
			t.Fatalf("unexpected error for %s: %v", user, err)
		}
	}

	total, err := repo.Count(ctx)
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if total != 2 {
		t.Errorf("expected one row per user, got %d total", total)
	}
}

func TestExtractionService_InBatchDedup(t *testing.T) {
	svc, repo := newExtractionService(t)
	ctx := context.Background()

	// Both fields yield "citrus"; the flavor field and aroma field differ in
	// type so both survive, but repeated mentions within one field collapse
	result, err := svc.Extract(ctx, &ExtractRequest{
		UserID: "u1", SourceType: domain.SourceReview, SourceID: "r1",
		Notes: &StructuredNotes{Aroma: "citrus, citrus", Flavor: "citrus"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SavedCount != 2 {
		t.Errorf("expected 2 saved descriptors, got %d", result.SavedCount)
	}

	count, err := repo.CountByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 2 {
		t.Errorf("expected 2 rows, got %d", count)
	}
}

func TestExtractionService_AISuccess(t *testing.T) {
	content := `{"descriptors":[{"text":"citrus","type":"aroma","category":"fruity","confidence":0.9}]}`
	server := newChatServer(t, http.StatusOK, content)
	defer server.Close()

	svc, repo, logRepo := newAIExtractionService(t, server.URL)
	ctx := context.Background()

	result, err := svc.Extract(ctx, &ExtractRequest{
		UserID:     "u1",
		SourceType: domain.SourceProseReview,
		SourceID:   "r1",
		Text:       "bright citrus acidity",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Method != domain.MethodAI {
		t.Errorf("expected ai method, got %s", result.Method)
	}
	if result.TokensUsed != 42 {
		t.Errorf("expected token usage carried through, got %d", result.TokensUsed)
	}
	if result.SavedCount != 1 {
		t.Fatalf("expected 1 saved descriptor, got %d", result.SavedCount)
	}

	stored, err := repo.GetByUserTerm(ctx, "u1", "citrus", domain.TypeAroma)
	if err != nil {
		t.Fatalf("expected citrus row: %v", err)
	}
	if !stored.AIGenerated {
		t.Error("expected descriptor marked as AI generated")
	}
	if stored.ModelName != "gpt-4o-mini" {
		t.Errorf("expected model name recorded, got %q", stored.ModelName)
	}
	if stored.Confidence != 0.9 {
		t.Errorf("expected provider confidence preserved, got %v", stored.Confidence)
	}

	logs, err := logRepo.ListByUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("failed to list extraction logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected one extraction log row, got %d", len(logs))
	}
	if !logs[0].Success {
		t.Error("expected success log row")
	}
	if logs[0].TokensUsed != 42 || logs[0].DescriptorCount != 1 {
		t.Errorf("unexpected log metadata: %+v", logs[0])
	}
}

func TestExtractionService_AIFailureFallsBackToKeyword(t *testing.T) {
	server := newChatServer(t, http.StatusInternalServerError, "")
	defer server.Close()

	svc, repo, logRepo := newAIExtractionService(t, server.URL)
	ctx := context.Background()

	result, err := svc.Extract(ctx, &ExtractRequest{
		UserID:     "u1",
		SourceType: domain.SourceProseReview,
		SourceID:   "r1",
		Text:       "floral jasmine, honey sweetness",
	})
	// The provider failure never surfaces
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Method != domain.MethodKeyword {
		t.Errorf("expected keyword fallback, got %s", result.Method)
	}
	if result.SavedCount == 0 {
		t.Fatal("expected fallback descriptors to be saved")
	}

	stored, err := repo.GetByUserTerm(ctx, "u1", "jasmine", domain.TypeAroma)
	if err != nil {
		t.Fatalf("expected jasmine row: %v", err)
	}
	if stored.AIGenerated {
		t.Error("fallback descriptor marked as AI generated")
	}
	if stored.ModelName != "" {
		t.Errorf("expected no model name on fallback descriptor, got %q", stored.ModelName)
	}

	// The failed attempt is still logged, exactly once
	logs, err := logRepo.ListByUser(ctx, "u1", 10)
	if err != nil {
		t.Fatalf("failed to list extraction logs: %v", err)
	}
	if len(logs) != 1 {
		t.Fatalf("expected one extraction log row, got %d", len(logs))
	}
	if logs[0].Success {
		t.Error("expected failure log row")
	}
	if logs[0].RawResponse == "" {
		t.Error("expected provider error recorded in log row")
	}
}

func TestExtractionService_EmptyNotes(t *testing.T) {
	svc, repo := newExtractionService(t)
	ctx := context.Background()

	result, err := svc.Extract(ctx, &ExtractRequest{
		UserID:     "u1",
		SourceType: domain.SourceQuickTasting,
		SourceID:   "t1",
		Notes:      &StructuredNotes{},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Descriptors) != 0 {
		t.Errorf("expected no descriptors, got %+v", result.Descriptors)
	}
	if result.SavedCount != 0 {
		t.Errorf("expected nothing saved, got %d", result.SavedCount)
	}

	count, err := repo.CountByUser(ctx, "u1")
	if err != nil {
		t.Fatalf("count failed: %v", err)
	}
	if count != 0 {
		t.Errorf("expected no rows, got %d", count)
	}
}

func TestExtractionService_TextPrecedesNotes(t *testing.T) {
	svc, repo := newExtractionService(t)
	ctx := context.Background()

	result, err := svc.Extract(ctx, &ExtractRequest{
		UserID:     "u1",
		SourceType: domain.SourceReview,
		SourceID:   "r1",
		Text:       "bright citrus",
		Notes:      &StructuredNotes{Texture: "silky"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := repo.GetByUserTerm(ctx, "u1", "citrus", domain.TypeAroma); err != nil {
		t.Errorf("expected text-derived citrus row: %v", err)
	}
	if _, err := repo.GetByUserTerm(ctx, "u1", "silky", domain.TypeTexture); err == nil {
		t.Error("expected notes to be ignored when raw text is supplied")
	}
	for _, d := range result.Descriptors {
		if d.Text == "silky" {
			t.Errorf("notes-derived descriptor leaked into result: %+v", d)
		}
	}
}

func TestExtractionService_NoMatchesStillSucceeds(t *testing.T) {
	svc, _ := newExtractionService(t)
	ctx := context.Background()

	result, err := svc.Extract(ctx, &ExtractRequest{
		UserID: "u1", SourceType: domain.SourceProseReview, SourceID: "r1",
		Text: "nothing sensory to report today",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.SavedCount != 0 {
		t.Errorf("expected no saved descriptors, got %d", result.SavedCount)
	}
	if result.Descriptors == nil {
		t.Error("expected empty descriptor list, got nil")
	}
}
