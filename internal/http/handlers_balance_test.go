package http

import (
	"encoding/json"
	"net/http"
	"testing"

	"bilancio/internal/core"
)

// seedReference loads the fake with a small realistic budget:
// salary 2500 on the 5th, rent 800 on the 1st, quarterly insurance
// 120 on the 15th, yearly tax 600 on the 20th of October.
func seedReference(api *fakeAPI) {
	api.initial = 100000
	api.items = []core.RecurringItem{
		{ID: 1, Kind: core.Income, Label: "Salary", Amount: core.Money{Cents: 250000}, DayOfMonth: 5, Frequency: core.Monthly},
		{ID: 2, Kind: core.Expense, Label: "Rent", Amount: core.Money{Cents: 80000}, DayOfMonth: 1, Frequency: core.Monthly},
		{ID: 3, Kind: core.Expense, Label: "Insurance", Amount: core.Money{Cents: 12000}, DayOfMonth: 15, Frequency: core.Quarterly, Months: []int{1, 4, 7, 10}},
		{ID: 4, Kind: core.Expense, Label: "Tax", Amount: core.Money{Cents: 60000}, DayOfMonth: 20, Frequency: core.Yearly, Months: []int{10}},
	}
	api.nextID = 4
}

func TestBalanceEndpoint(t *testing.T) {
	api := &fakeAPI{}
	seedReference(api)
	srv := newTestServer(api)

	rr := doJSON(t, srv, http.MethodGet, "/api/balance?date=2026-07-08", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("balance status=%d body=%s", rr.Code, rr.Body.String())
	}

	var got balanceDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode balance: %v", err)
	}
	if got.AsOf != "2026-07-08" {
		t.Fatalf("as_of=%q", got.AsOf)
	}
	// 1000 + 2500 - 800 = 2700 as of July 8th
	if got.CurrentBalanceCents != 270000 {
		t.Fatalf("current balance=%d, want 270000", got.CurrentBalanceCents)
	}
	if got.CurrentBalance != "2700.00" {
		t.Fatalf("formatted balance=%q", got.CurrentBalance)
	}
	if len(got.Incomes) != 1 || len(got.Expenses) != 3 {
		t.Fatalf("ledger lines incomes=%d expenses=%d", len(got.Incomes), len(got.Expenses))
	}
}

func TestBalanceBadDate(t *testing.T) {
	srv := newTestServer(&fakeAPI{})

	rr := doJSON(t, srv, http.MethodGet, "/api/balance?date=08-07-2026", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("status=%d, want 400", rr.Code)
	}
}

func TestInitialBalanceRoundTrip(t *testing.T) {
	api := &fakeAPI{}
	srv := newTestServer(api)

	rr := doJSON(t, srv, http.MethodPut, "/api/balance/initial", `{"amount_cents":150000}`)
	if rr.Code != http.StatusOK {
		t.Fatalf("put status=%d body=%s", rr.Code, rr.Body.String())
	}
	if api.initial != 150000 {
		t.Fatalf("stored initial=%d", api.initial)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/balance/initial", "")
	var got initialBalanceDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.AmountCents != 150000 || got.Amount != "1500.00" {
		t.Fatalf("unexpected initial balance: %+v", got)
	}

	// Missing amount_cents is rejected
	rr = doJSON(t, srv, http.MethodPut, "/api/balance/initial", `{}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing amount status=%d, want 422", rr.Code)
	}
}

func TestAdjustments(t *testing.T) {
	api := &fakeAPI{}
	srv := newTestServer(api)

	// Negative amounts are allowed, they correct the balance downward
	rr := doJSON(t, srv, http.MethodPost, "/api/adjustments",
		`{"amount_cents":-2500,"description":"bank fee","reason":"reconciliation"}`)
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status=%d body=%s", rr.Code, rr.Body.String())
	}

	// Zero amount and missing description are rejected
	rr = doJSON(t, srv, http.MethodPost, "/api/adjustments", `{"amount_cents":0,"description":"x"}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("zero amount status=%d, want 422", rr.Code)
	}
	rr = doJSON(t, srv, http.MethodPost, "/api/adjustments", `{"amount_cents":100,"description":""}`)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty description status=%d, want 422", rr.Code)
	}

	rr = doJSON(t, srv, http.MethodGet, "/api/adjustments", "")
	var list []adjustmentDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &list); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(list) != 1 || list[0].AmountCents != -2500 {
		t.Fatalf("unexpected adjustments: %+v", list)
	}
}

func TestProjectionEndpoint(t *testing.T) {
	api := &fakeAPI{}
	seedReference(api)
	srv := newTestServer(api)

	rr := doJSON(t, srv, http.MethodGet, "/api/projection?date=2026-07-08&days=30", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}

	var points []projectionPointDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &points); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(points) != 30 {
		t.Fatalf("points=%d, want 30", len(points))
	}
	if points[0].Date != "2026-07-08" {
		t.Fatalf("first date=%q", points[0].Date)
	}
	// Day 0 matches the balance endpoint for the same date
	if points[0].BalanceCents != 270000 {
		t.Fatalf("day 0 balance=%d, want 270000", points[0].BalanceCents)
	}
}

func TestProjectionHorizonClamp(t *testing.T) {
	api := &fakeAPI{}
	srv := NewServer(":0", api, Options{DefaultHorizonDays: 7, MaxHorizonDays: 60, RequestsPerMinute: 10000})

	// Default horizon applies when days is absent
	rr := doJSON(t, srv, http.MethodGet, "/api/projection?date=2026-07-08", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if api.lastHorizon != 7 {
		t.Fatalf("default horizon=%d, want 7", api.lastHorizon)
	}

	// Oversized requests are clamped to the maximum
	rr = doJSON(t, srv, http.MethodGet, "/api/projection?date=2026-07-08&days=9999", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if api.lastHorizon != 60 {
		t.Fatalf("clamped horizon=%d, want 60", api.lastHorizon)
	}

	// Non-positive horizons are rejected outright
	rr = doJSON(t, srv, http.MethodGet, "/api/projection?days=0", "")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("days=0 status=%d, want 400", rr.Code)
	}
}

func TestOverviewEndpoint(t *testing.T) {
	api := &fakeAPI{}
	seedReference(api)
	srv := newTestServer(api)

	rr := doJSON(t, srv, http.MethodGet, "/api/recurring/overview", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}

	var got overviewDTO
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.MonthlyIncomeCents != 250000 {
		t.Fatalf("monthly income=%d, want 250000", got.MonthlyIncomeCents)
	}
	// rent 800 + insurance 120*4/12 + tax 600*1/12 = 890
	if got.MonthlyExpenseCents != 89000 {
		t.Fatalf("monthly expense=%d, want 89000", got.MonthlyExpenseCents)
	}
}
