package database

import (
	"path/filepath"
	"testing"

	"vendoranalysis/consolidation"
	"vendoranalysis/normalization"
)

func openTestDB(t *testing.T) *VendorsDB {
	t.Helper()

	db, err := Open(filepath.Join(t.TempDir(), "vendors_test.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	return db
}

func TestVendorsDB_UpsertAndList(t *testing.T) {
	db := openTestDB(t)

	records := []*normalization.VendorRecord{
		{ID: "V001", RawName: "Acme Corp", TaxID: "123456789", AnnualSpend: 0},
		{ID: "V002", RawName: "Globex LLC", Email: "ap@globex.com", IsInactive: true},
	}

	if err := db.UpsertVendors(records); err != nil {
		t.Fatalf("UpsertVendors() error: %v", err)
	}

	loaded, err := db.ListVendors("US")
	if err != nil {
		t.Fatalf("ListVendors() error: %v", err)
	}
	if len(loaded) != 2 {
		t.Fatalf("ListVendors() returned %d records, want 2", len(loaded))
	}

	// Нормализация применяется при чтении
	if loaded[0].NormalizedName != "acme" {
		t.Errorf("NormalizedName = %q, want %q", loaded[0].NormalizedName, "acme")
	}
	if !loaded[1].IsInactive {
		t.Error("vendor V002 should be inactive")
	}
}

func TestVendorsDB_UpsertOverwrites(t *testing.T) {
	db := openTestDB(t)

	first := []*normalization.VendorRecord{{ID: "V001", RawName: "Acme Corp"}}
	if err := db.UpsertVendors(first); err != nil {
		t.Fatalf("UpsertVendors() error: %v", err)
	}

	second := []*normalization.VendorRecord{{ID: "V001", RawName: "Acme Corporation", Phone: "555-0134"}}
	if err := db.UpsertVendors(second); err != nil {
		t.Fatalf("UpsertVendors() error: %v", err)
	}

	loaded, err := db.ListVendors("US")
	if err != nil {
		t.Fatalf("ListVendors() error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("ListVendors() returned %d records, want 1 after upsert", len(loaded))
	}
	if loaded[0].RawName != "Acme Corporation" {
		t.Errorf("RawName = %q, want %q", loaded[0].RawName, "Acme Corporation")
	}
	if loaded[0].Phone != "555-0134" {
		t.Errorf("Phone = %q, want %q", loaded[0].Phone, "555-0134")
	}
}

func TestVendorsDB_BillsRoundTrip(t *testing.T) {
	db := openTestDB(t)

	if err := db.UpsertVendors([]*normalization.VendorRecord{{ID: "V001", RawName: "Acme"}}); err != nil {
		t.Fatalf("UpsertVendors() error: %v", err)
	}

	bills := []consolidation.SpendRecord{
		{VendorID: "V001", Amount: 1500.50, TranDate: "2025-01-15"},
		{VendorID: "V001", Amount: 2200.00, TranDate: "2025-03-02"},
	}
	if err := db.ReplaceBills("V001", bills); err != nil {
		t.Fatalf("ReplaceBills() error: %v", err)
	}

	// Повторная выгрузка заменяет, а не добавляет
	if err := db.ReplaceBills("V001", bills[:1]); err != nil {
		t.Fatalf("ReplaceBills() error: %v", err)
	}

	loaded, err := db.ListBills()
	if err != nil {
		t.Fatalf("ListBills() error: %v", err)
	}
	if len(loaded) != 1 {
		t.Fatalf("ListBills() returned %d bills, want 1 after replace", len(loaded))
	}
	if loaded[0].Amount != 1500.50 {
		t.Errorf("Amount = %v, want 1500.50", loaded[0].Amount)
	}
}

func TestVendorsDB_VendorCount(t *testing.T) {
	db := openTestDB(t)

	count, err := db.VendorCount()
	if err != nil {
		t.Fatalf("VendorCount() error: %v", err)
	}
	if count != 0 {
		t.Errorf("VendorCount() = %d, want 0 for empty database", count)
	}

	records := []*normalization.VendorRecord{
		{ID: "V001", RawName: "Acme"},
		{ID: "V002", RawName: "Globex"},
		{ID: "V003", RawName: "Initech"},
	}
	if err := db.UpsertVendors(records); err != nil {
		t.Fatalf("UpsertVendors() error: %v", err)
	}

	count, err = db.VendorCount()
	if err != nil {
		t.Fatalf("VendorCount() error: %v", err)
	}
	if count != 3 {
		t.Errorf("VendorCount() = %d, want 3", count)
	}
}
