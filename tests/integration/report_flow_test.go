package integration

import (
	"fmt"
	"net/http"
	"testing"
)

// postTxn records a transaction through the API, failing the test on
// any non-201 response.
func postTxn(t *testing.T, app *testApp, token string, accountID float64, categoryID *float64, cents int64, date, description string) {
	t.Helper()
	category := ""
	if categoryID != nil {
		category = fmt.Sprintf(`"category_id":%.0f,`, *categoryID)
	}
	body := fmt.Sprintf(`{"account_id":%.0f,%s"amount_cents":%d,"txn_date":%q,"description":%q}`,
		accountID, category, cents, date, description)
	rec := app.request("POST", "/api/v1/transactions", body, token)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create transaction failed: %d %s", rec.Code, rec.Body.String())
	}
}

func TestReportFlow_SpendSummary(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "reports@test.com", "password123")
	accountID := app.createAccount(t, token, "Checking", 100000)
	rentID := app.createCategory(t, token, "Rent Reports")
	foodID := app.createCategory(t, token, "Food Reports")

	postTxn(t, app, token, accountID, &rentID, -30000, "2024-01-02", "rent")
	postTxn(t, app, token, accountID, &foodID, -5000, "2024-01-10", "groceries")
	postTxn(t, app, token, accountID, &foodID, -7000, "2024-01-20", "groceries")
	// Outside the requested range.
	postTxn(t, app, token, accountID, &rentID, -30000, "2024-02-02", "rent")

	rec := app.request("GET", "/api/v1/reports/spend-summary?from=2024-01-01&to=2024-01-31", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	summary := parseJSON(t, rec)
	if summary["total_spent_cents"].(float64) != 42000 {
		t.Errorf("total = %v, want 42000", summary["total_spent_cents"])
	}
	categories := summary["categories"].([]interface{})
	if len(categories) != 2 {
		t.Fatalf("got %d categories, want 2", len(categories))
	}
	top := categories[0].(map[string]interface{})
	if top["category_name"].(string) != "Rent Reports" || top["total_cents"].(float64) != 30000 {
		t.Errorf("top category = %v", top)
	}

	// Malformed date.
	rec = app.request("GET", "/api/v1/reports/spend-summary?from=January", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for a bad date, got %d", rec.Code)
	}
}

func TestReportFlow_Cashflow(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "cashflow@test.com", "password123")
	accountID := app.createAccount(t, token, "Checking", 0)

	postTxn(t, app, token, accountID, nil, 100000, "2024-01-05", "salary")
	postTxn(t, app, token, accountID, nil, -40000, "2024-01-20", "bills")
	postTxn(t, app, token, accountID, nil, -10000, "2024-02-10", "bills")

	rec := app.request("GET", "/api/v1/reports/cashflow?from=2024-01-01&to=2024-02-29&group_by=month", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)
	if report["total_income_cents"].(float64) != 100000 || report["net_cents"].(float64) != 50000 {
		t.Errorf("totals = %v", report)
	}
	periods := report["periods"].([]interface{})
	if len(periods) != 2 {
		t.Fatalf("got %d periods, want 2", len(periods))
	}
	feb := periods[1].(map[string]interface{})
	if feb["period"].(string) != "2024-02" || feb["running_balance_cents"].(float64) != 50000 {
		t.Errorf("february = %v", feb)
	}

	rec = app.request("GET", "/api/v1/reports/cashflow?group_by=fortnight", "", token)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown group_by, got %d", rec.Code)
	}
}

func TestReportFlow_AccountBalancesAndMerchants(t *testing.T) {
	app := setupApp(t)
	token, _ := app.registerUser(t, "balances@test.com", "password123")
	checkingID := app.createAccount(t, token, "Checking", 150000)
	app.createAccount(t, token, "Savings", 500000)

	postTxn(t, app, token, checkingID, nil, -500, "2024-01-05", "Coffee Shop")
	postTxn(t, app, token, checkingID, nil, -700, "2024-01-06", "Coffee Shop")
	postTxn(t, app, token, checkingID, nil, -9000, "2024-01-07", "Supermarket")

	rec := app.request("GET", "/api/v1/reports/account-balances", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	report := parseJSON(t, rec)
	// 650000 initial minus the 10200 spent on checking.
	if report["total_balance_cents"].(float64) != 639800 {
		t.Errorf("total balance = %v, want 639800", report["total_balance_cents"])
	}
	if len(report["accounts"].([]interface{})) != 2 {
		t.Errorf("accounts = %v", report["accounts"])
	}

	rec = app.request("GET", "/api/v1/reports/top-merchants?limit=1", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	merchants := parseJSON(t, rec)["top_merchants"].([]interface{})
	if len(merchants) != 1 {
		t.Fatalf("got %d merchants, want 1", len(merchants))
	}
	top := merchants[0].(map[string]interface{})
	if top["description"].(string) != "Supermarket" || top["total_cents"].(float64) != 9000 {
		t.Errorf("top merchant = %v", top)
	}
}
