package integration

import (
	"fmt"
	"net/http"
	"testing"
)

func TestTransactionFlow_BalanceTracking(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "txnflow@test.com", "password123")

	accountID := app.createAccount(t, token, "Checking", 100000)
	categoryID := app.createCategory(t, token, "Daily Spend")

	// Expense of 25.50 given as a decimal string.
	rec := app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"account_id":%.0f,"category_id":%.0f,"amount":"-25.50","txn_date":"2024-01-10","description":"lunch"}`,
			accountID, categoryID), token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	txn := parseJSON(t, rec)["transaction"].(map[string]interface{})
	if txn["amount_cents"].(float64) != -2550 {
		t.Errorf("expected -2550 cents from \"-25.50\", got %v", txn["amount_cents"])
	}
	txnID := txn["id"].(float64)

	// The account balance reflects the expense.
	rec = app.request("GET", fmt.Sprintf("/api/v1/accounts/%.0f", accountID), "", token)
	account := parseJSON(t, rec)["account"].(map[string]interface{})
	if account["current_balance_cents"].(float64) != 97450 {
		t.Errorf("expected balance 97450, got %.0f", account["current_balance_cents"].(float64))
	}

	// Deleting the transaction restores the balance.
	rec = app.request("DELETE", fmt.Sprintf("/api/v1/transactions/%.0f", txnID), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	rec = app.request("GET", fmt.Sprintf("/api/v1/accounts/%.0f", accountID), "", token)
	account = parseJSON(t, rec)["account"].(map[string]interface{})
	if account["current_balance_cents"].(float64) != 100000 {
		t.Errorf("expected balance restored to 100000, got %.0f", account["current_balance_cents"].(float64))
	}
}

func TestTransactionFlow_RejectsAmbiguousAmount(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "ambiguous@test.com", "password123")
	accountID := app.createAccount(t, token, "Checking", 0)

	// Both representations at once.
	rec := app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"account_id":%.0f,"amount_cents":-100,"amount":"-1.00","txn_date":"2024-01-10"}`,
			accountID), token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for both amount forms, got %d: %s", rec.Code, rec.Body.String())
	}

	// Neither representation.
	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"account_id":%.0f,"txn_date":"2024-01-10"}`, accountID), token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for missing amount, got %d: %s", rec.Code, rec.Body.String())
	}

	// Unparseable decimal.
	rec = app.request("POST", "/api/v1/transactions",
		fmt.Sprintf(`{"account_id":%.0f,"amount":"12.3.4","txn_date":"2024-01-10"}`, accountID), token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for malformed amount, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestTransactionFlow_Filters(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "txnfilters@test.com", "password123")

	accountID := app.createAccount(t, token, "Checking", 100000)
	groceries := app.createCategory(t, token, "Filter Groceries")
	rent := app.createCategory(t, token, "Filter Rent")

	for _, txn := range []struct {
		category float64
		amount   int64
		date     string
	}{
		{groceries, -1000, "2024-01-05"},
		{rent, -2000, "2024-01-10"},
		{groceries, -3000, "2024-01-20"},
	} {
		rec := app.request("POST", "/api/v1/transactions",
			fmt.Sprintf(`{"account_id":%.0f,"category_id":%.0f,"amount_cents":%d,"txn_date":%q}`,
				accountID, txn.category, txn.amount, txn.date), token)
		if rec.Code != http.StatusCreated {
			t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
		}
	}

	rec := app.request("GET",
		fmt.Sprintf("/api/v1/transactions?category_id=%.0f", groceries), "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if got := parseJSON(t, rec)["total_items"].(float64); got != 2 {
		t.Errorf("expected 2 grocery transactions, got %.0f", got)
	}

	rec = app.request("GET", "/api/v1/transactions?from=2024-01-08&to=2024-01-15", "", token)
	if got := parseJSON(t, rec)["total_items"].(float64); got != 1 {
		t.Errorf("expected 1 transaction in range, got %.0f", got)
	}
}
