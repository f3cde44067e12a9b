package interaction

import (
	"context"
	"errors"
	"testing"

	"github.com/immunekb/cytokb/internal/domain"
	"github.com/immunekb/cytokb/internal/domain/query"
	"github.com/immunekb/cytokb/internal/domain/schema"
)

// --- Mocks ---

type mockRepo struct {
	rows     []map[string]any
	total    int
	err      error
	called   bool
	lastPage query.Page
	lastProj schema.Projection
}

func (m *mockRepo) SelectPage(
	_ context.Context, _ query.Predicate, proj schema.Projection, page query.Page,
) ([]map[string]any, int, error) {
	m.called = true
	m.lastPage = page
	m.lastProj = proj
	return m.rows, m.total, m.err
}

// --- Tests ---

func TestList_Defaults(t *testing.T) {
	repo := &mockRepo{
		rows:  []map[string]any{{"id": int64(1)}},
		total: 120,
	}
	svc := New(repo, schema.Default())

	res, err := svc.List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Page != 1 {
		t.Errorf("absent page must default to 1, got %d", res.Page)
	}
	if res.Limit != defaultPageSize {
		t.Errorf("absent limit must default to %d, got %d", defaultPageSize, res.Limit)
	}
	if res.Total != 120 {
		t.Errorf("expected total 120, got %d", res.Total)
	}
	if res.TotalPages != 3 {
		t.Errorf("expected 3 total pages, got %d", res.TotalPages)
	}
	if len(res.Rows) != 1 {
		t.Errorf("expected 1 row, got %d", len(res.Rows))
	}
}

func TestList_LimitClamped(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, schema.Default())

	res, err := svc.List(context.Background(), ListParams{Limit: 9999})
	if err != nil {
		t.Fatalf("oversized limit must clamp, not fail: %v", err)
	}
	if res.Limit != maxPageSize {
		t.Errorf("expected clamped limit %d, got %d", maxPageSize, res.Limit)
	}
	if repo.lastPage.Limit() != maxPageSize {
		t.Errorf("repo must see the clamped limit, got %d", repo.lastPage.Limit())
	}
}

func TestList_WithPaginationOverrides(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, schema.Default()).WithPagination(25, 100)

	res, err := svc.List(context.Background(), ListParams{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Limit != 25 {
		t.Errorf("expected configured default 25, got %d", res.Limit)
	}

	res, err = svc.List(context.Background(), ListParams{Limit: 500})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Limit != 100 {
		t.Errorf("expected configured max 100, got %d", res.Limit)
	}
}

func TestList_ValidationBeforeStore(t *testing.T) {
	cases := []struct {
		name   string
		params ListParams
	}{
		{"unknown filter", ListParams{Filters: map[string]string{"bogus": "x"}}},
		{"non-filterable", ListParams{Filters: map[string]string{"id": "1"}}},
		{"bad numeric", ListParams{Filters: map[string]string{"confidence_score": "high"}}},
		{"unknown field", ListParams{Fields: []string{"bogus"}}},
		{"negative page", ListParams{Page: -1}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &mockRepo{}
			svc := New(repo, schema.Default())

			_, err := svc.List(context.Background(), tc.params)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !domain.IsValidation(err) {
				t.Errorf("expected a validation error, got %v", err)
			}
			if repo.called {
				t.Error("store must not be touched on invalid input")
			}
		})
	}
}

func TestList_PagePastEndIsNotAnError(t *testing.T) {
	repo := &mockRepo{rows: nil, total: 10}
	svc := New(repo, schema.Default())

	res, err := svc.List(context.Background(), ListParams{Page: 99})
	if err != nil {
		t.Fatalf("page past the end must succeed: %v", err)
	}
	if len(res.Rows) != 0 {
		t.Errorf("expected empty rows, got %d", len(res.Rows))
	}
	if res.Total != 10 {
		t.Errorf("expected true total 10, got %d", res.Total)
	}
}

func TestList_StoreErrorPassedThrough(t *testing.T) {
	repo := &mockRepo{err: domain.ErrStoreUnavailable}
	svc := New(repo, schema.Default())

	_, err := svc.List(context.Background(), ListParams{})
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("expected ErrStoreUnavailable, got %v", err)
	}
}

func TestList_ProjectionPassedToRepo(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, schema.Default())

	_, err := svc.List(context.Background(), ListParams{Fields: []string{"id", "species"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	names := repo.lastProj.Names()
	if len(names) != 2 || names[0] != "id" || names[1] != "species" {
		t.Errorf("expected projection [id species], got %v", names)
	}
}

func TestList_OffsetDerivedFromPage(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, schema.Default())

	_, err := svc.List(context.Background(), ListParams{Page: 4, Limit: 10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastPage.Offset() != 30 {
		t.Errorf("expected offset 30, got %d", repo.lastPage.Offset())
	}
}
