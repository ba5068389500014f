package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig with defaults failed: %v", err)
	}

	if config.Analysis.DuplicateThreshold != 0.85 {
		t.Errorf("default threshold = %f, want 0.85", config.Analysis.DuplicateThreshold)
	}
	if config.Analysis.PerVendorAdminCost != 750 {
		t.Errorf("default admin cost = %f, want 750", config.Analysis.PerVendorAdminCost)
	}
	if len(config.Analysis.VolumeTiers) != 4 {
		t.Errorf("default tiers = %d, want 4", len(config.Analysis.VolumeTiers))
	}
}

func TestLoadConfig_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"port": "8080",
		"analysis": {
			"country": "US",
			"duplicate_threshold": 0.9,
			"signal_weights": {"name": 0.5, "address": 0.2, "tax_id": 0.2, "email_domain": 0.05, "phone": 0.05},
			"baseline_discount_rate": 0.03,
			"volume_tiers": [{"threshold": 100000, "discount": 0.05}],
			"per_vendor_admin_cost": 500
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	config, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}

	if config.Port != "8080" {
		t.Errorf("port = %q, want 8080", config.Port)
	}
	if config.Analysis.DuplicateThreshold != 0.9 {
		t.Errorf("threshold = %f, want 0.9", config.Analysis.DuplicateThreshold)
	}
	if config.Analysis.PerVendorAdminCost != 500 {
		t.Errorf("admin cost = %f, want 500", config.Analysis.PerVendorAdminCost)
	}
}

// Веса с суммой != 1.0 отклоняются при загрузке, а не в середине анализа
func TestLoadConfig_RejectsBadWeights(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"analysis": {
			"country": "US",
			"duplicate_threshold": 0.85,
			"signal_weights": {"name": 0.9, "address": 0.2, "tax_id": 0.2, "email_domain": 0.05, "phone": 0.05},
			"volume_tiers": [{"threshold": 100000, "discount": 0.05}]
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("config with weights summing to 1.4 accepted")
	}
}

func TestLoadConfig_RejectsUnsortedTiers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	content := `{
		"analysis": {
			"country": "US",
			"duplicate_threshold": 0.85,
			"signal_weights": {"name": 0.5, "address": 0.2, "tax_id": 0.2, "email_domain": 0.05, "phone": 0.05},
			"volume_tiers": [
				{"threshold": 50000, "discount": 0.03},
				{"threshold": 500000, "discount": 0.10}
			]
		}
	}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadConfig(path); err == nil {
		t.Error("config with unsorted tiers accepted")
	}
}

func TestLoadConfig_EnvironmentOverride(t *testing.T) {
	t.Setenv("DUPLICATE_THRESHOLD", "0.92")

	config, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if config.Analysis.DuplicateThreshold != 0.92 {
		t.Errorf("threshold = %f, want 0.92 from env", config.Analysis.DuplicateThreshold)
	}

	t.Setenv("DUPLICATE_THRESHOLD", "not-a-number")
	if _, err := LoadConfig(""); err == nil {
		t.Error("invalid env threshold accepted")
	}
}
