package report

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/planning"
)

func TestClient(t *testing.T) {
	t.Run("decodes a progress response", func(t *testing.T) {
		want := planning.BudgetProgress{
			BudgetID:   7,
			BudgetName: "January",
			Summary: planning.Summary{
				TotalPlannedCents:   50000,
				TotalSpentCents:     42000,
				TotalRemainingCents: 8000,
			},
			Categories: []planning.CategoryProgress{{
				CategoryID:      1,
				CategoryName:    "Groceries",
				PlannedCents:    50000,
				SpentCents:      42000,
				RemainingCents:  8000,
				ProgressPercent: 84.0,
				Status:          planning.StatusNearLimit,
			}},
		}
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/budgets/7/progress" {
				t.Errorf("unexpected path %s", r.URL.Path)
			}
			_ = json.NewEncoder(w).Encode(want)
		}))
		defer srv.Close()

		got, err := NewClient(srv.URL).GetBudgetProgress(context.Background(), 7)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got.BudgetID != want.BudgetID || got.Summary != want.Summary {
			t.Fatalf("got %+v, want %+v", got, want)
		}
		if len(got.Categories) != 1 || got.Categories[0] != want.Categories[0] {
			t.Fatalf("got categories %+v, want %+v", got.Categories, want.Categories)
		}
	})

	t.Run("non-200 is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer srv.Close()

		if _, err := NewClient(srv.URL).GetBudgetProgress(context.Background(), 1); err == nil {
			t.Fatal("expected error for 500 response")
		}
	})

	t.Run("malformed body is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer srv.Close()

		if _, err := NewClient(srv.URL).GetBudgetProgress(context.Background(), 1); err == nil {
			t.Fatal("expected error for malformed body")
		}
	})

	t.Run("unreachable service is an error", func(t *testing.T) {
		if _, err := NewClient("http://127.0.0.1:1").GetBudgetProgress(context.Background(), 1); err == nil {
			t.Fatal("expected error for unreachable service")
		}
	})

	t.Run("empty base URL is disabled", func(t *testing.T) {
		if NewClient("").Enabled() {
			t.Fatal("expected client with empty URL to be disabled")
		}
		if !NewClient("http://example.com").Enabled() {
			t.Fatal("expected configured client to be enabled")
		}
	})

	t.Run("health endpoint", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/health" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			w.WriteHeader(http.StatusOK)
		}))
		defer srv.Close()

		if err := NewClient(srv.URL).Health(context.Background()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})
}
