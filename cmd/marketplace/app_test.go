package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amythology/seedsmart-client/internal/gateway"
	"github.com/amythology/seedsmart-client/internal/nav"
	"github.com/amythology/seedsmart-client/internal/notify"
	"github.com/amythology/seedsmart-client/internal/session"
	"github.com/amythology/seedsmart-client/pkg/config"
	"github.com/amythology/seedsmart-client/pkg/logger"
	"github.com/amythology/seedsmart-client/pkg/storage"
)

func newLoginApp(t *testing.T, role string) (*App, *[]nav.Route) {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{
			"access_token": "tok-1",
			"token_type":   "bearer",
			"user_id":      "u-1",
			"user_type":    role,
		})
	}))
	t.Cleanup(server.Close)

	routes := &[]nav.Route{}
	navigator := nav.Func(func(route nav.Route) {
		*routes = append(*routes, route)
	})

	logg := logger.New(logger.Options{ServiceName: "test"})
	hub := notify.NewHub(nil, 0)
	sessions, err := session.NewStore(storage.NewMemoryStore(), hub, navigator, logg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	client, err := gateway.NewClient(
		config.APIConfig{BaseURL: server.URL, Timeout: 5 * time.Second},
		sessions, sessions, navigator, logg,
	)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	return &App{
		Gateway: client,
		Session: sessions,
		Hub:     hub,
		Nav:     navigator,
		Logger:  logg,
		Out:     &bytes.Buffer{},
	}, routes
}

func TestLoginNavigatesBuyerToMarketplace(t *testing.T) {
	t.Parallel()

	app, routes := newLoginApp(t, "buyer")
	if err := app.login(context.Background(), []string{"ravi", "secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*routes) != 1 || (*routes)[0] != nav.RouteMarketplace {
		t.Fatalf("buyer login should land on the marketplace, got %v", *routes)
	}
}

func TestLoginNavigatesSellerToDashboard(t *testing.T) {
	t.Parallel()

	app, routes := newLoginApp(t, "seller")
	if err := app.login(context.Background(), []string{"ravi", "secret"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(*routes) != 1 || (*routes)[0] != nav.RouteDashboard {
		t.Fatalf("seller login should land on the dashboard, got %v", *routes)
	}
}
