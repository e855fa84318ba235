package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Budget.Validate())
	assert.Equal(t, 10000.0, cfg.Budget.TotalAmount)
	assert.Len(t, cfg.Budget.Categories, 4)
}

func TestLoad_MissingFileFallsBackToDefault(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_EmptyPathFallsBackToDefault(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
budget:
  total_amount: 25000
  currency: EUR
  categories:
    - name: Operations
      percent: 60
    - name: Marketing
      percent: 40
email:
  enabled: true
  region: eu-west-1
  sender: noreply@example.com
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 25000.0, cfg.Budget.TotalAmount)
	assert.Equal(t, "EUR", cfg.Budget.Currency)
	assert.Len(t, cfg.Budget.Categories, 2)
	assert.True(t, cfg.Email.Enabled)
	assert.Equal(t, "noreply@example.com", cfg.Email.Sender)
}

func TestLoad_RejectsBadPercentSum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
budget:
  total_amount: 1000
  currency: USD
  categories:
    - name: Operations
      percent: 50
    - name: Marketing
      percent: 30
`)
	require.NoError(t, os.WriteFile(path, data, 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestBudgetDefaultsValidate(t *testing.T) {
	tests := []struct {
		name    string
		b       BudgetDefaults
		wantErr bool
	}{
		{"no categories is fine", BudgetDefaults{TotalAmount: 100}, false},
		{"zero total", BudgetDefaults{TotalAmount: 0}, true},
		{"negative percent", BudgetDefaults{TotalAmount: 100, Categories: []CategoryDefault{{Name: "X", Percent: -1}, {Name: "Y", Percent: 101}}}, true},
		{"sums to 100", BudgetDefaults{TotalAmount: 100, Categories: []CategoryDefault{{Name: "X", Percent: 60}, {Name: "Y", Percent: 40}}}, false},
		{"sums to 90", BudgetDefaults{TotalAmount: 100, Categories: []CategoryDefault{{Name: "X", Percent: 60}, {Name: "Y", Percent: 30}}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.b.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
