package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/Tiliavir/hourglass/internal/config"
	"github.com/Tiliavir/hourglass/internal/model"
)

func TestEditSavedKeepsOtherFields(t *testing.T) {
	store := &config.MemoryStore{Config: config.Config{
		APIKey:  "key",
		Billing: model.BillingProfile{Name: "Jane", HourlyRate: 20, USDToDOPRate: 58},
	}}

	// Logging out keeps the profile.
	got, err := editSaved(store, func(c *config.Config) { c.APIKey = "" })
	if err != nil {
		t.Fatalf("editSaved: %v", err)
	}
	if got.APIKey != "" || store.Config.APIKey != "" {
		t.Errorf("APIKey = %q / %q, want cleared", got.APIKey, store.Config.APIKey)
	}
	if store.Config.Billing.HourlyRate != 20 {
		t.Errorf("HourlyRate = %v, want 20", store.Config.Billing.HourlyRate)
	}
}

func TestResetProfileClearsKeyAndBilling(t *testing.T) {
	store := &config.MemoryStore{Config: config.Config{
		APIKey:      "key",
		WorkspaceID: "ws",
		Timezone:    "UTC",
		Billing:     model.BillingProfile{Name: "Jane", HourlyRate: 20, USDToDOPRate: 58},
	}}
	if _, err := resetProfile(store); err != nil {
		t.Fatalf("resetProfile: %v", err)
	}
	want := config.Config{Timezone: "UTC"}
	if store.Config != want {
		t.Errorf("after reset = %+v, want %+v", store.Config, want)
	}
}

func TestEditSavedLoadError(t *testing.T) {
	boom := errors.New("boom")
	store := &config.MemoryStore{Err: boom}
	called := false
	if _, err := editSaved(store, func(*config.Config) { called = true }); !errors.Is(err, boom) {
		t.Errorf("err = %v, want boom", err)
	}
	if called {
		t.Error("edit ran after a failed load")
	}
}

func TestDescribeProfile(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.Config
		want []string
		not  []string
	}{
		{
			name: "complete",
			cfg:  config.Config{APIKey: "abcdef123456", Billing: model.BillingProfile{Name: "Jane", HourlyRate: 20, USDToDOPRate: 58.5}},
			want: []string{"Jane", "$20.00", "58.50", "********3456"},
			not:  []string{"abcdef", "incomplete"},
		},
		{
			name: "empty",
			cfg:  config.Config{},
			want: []string{"(not set)", "Profile incomplete"},
		},
	}
	for _, tt := range tests {
		got := describeProfile(tt.cfg)
		for _, w := range tt.want {
			if !strings.Contains(got, w) {
				t.Errorf("%s: output missing %q:\n%s", tt.name, w, got)
			}
		}
		for _, n := range tt.not {
			if strings.Contains(got, n) {
				t.Errorf("%s: output contains %q:\n%s", tt.name, n, got)
			}
		}
	}
}
