// Package database хранит снимок справочника поставщиков и их расходов
// между синхронизациями с внешней системой. Анализ работает с выгруженным
// в память снимком - само ядро матчинга в БД не ходит.
package database

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"vendoranalysis/consolidation"
	"vendoranalysis/normalization"
)

// VendorsDB обертка для работы с базой поставщиков
type VendorsDB struct {
	conn *sql.DB
}

// Open открывает базу и применяет миграции
func Open(path string) (*VendorsDB, error) {
	conn, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database %s: %w", path, err)
	}

	conn.SetMaxOpenConns(1) // sqlite: одна пишущая сессия
	conn.SetConnMaxLifetime(time.Hour)

	db := &VendorsDB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

// Close закрывает соединение
func (db *VendorsDB) Close() error {
	return db.conn.Close()
}

// migrate создает схему, если её еще нет
func (db *VendorsDB) migrate() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS vendors (
			id TEXT PRIMARY KEY,
			raw_name TEXT NOT NULL,
			address TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			email TEXT NOT NULL DEFAULT '',
			tax_id TEXT NOT NULL DEFAULT '',
			is_inactive INTEGER NOT NULL DEFAULT 0,
			synced_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS vendor_bills (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			vendor_id TEXT NOT NULL,
			amount REAL NOT NULL,
			tran_date TEXT NOT NULL DEFAULT '',
			FOREIGN KEY (vendor_id) REFERENCES vendors(id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_vendor_bills_vendor ON vendor_bills(vendor_id)`,
	}

	for _, stmt := range statements {
		if _, err := db.conn.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}

// UpsertVendors сохраняет пакет записей поставщиков в одной транзакции.
// Повторная синхронизация перезаписывает поля; записи никогда не удаляются -
// деактивация представлена флагом is_inactive.
func (db *VendorsDB) UpsertVendors(records []*normalization.VendorRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO vendors (id, raw_name, address, phone, email, tax_id, is_inactive, synced_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(id) DO UPDATE SET
			raw_name = excluded.raw_name,
			address = excluded.address,
			phone = excluded.phone,
			email = excluded.email,
			tax_id = excluded.tax_id,
			is_inactive = excluded.is_inactive,
			synced_at = CURRENT_TIMESTAMP
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	for _, record := range records {
		inactive := 0
		if record.IsInactive {
			inactive = 1
		}
		if _, err := stmt.Exec(record.ID, record.RawName, record.Address,
			record.Phone, record.Email, record.TaxID, inactive); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to upsert vendor %s: %w", record.ID, err)
		}
	}

	return tx.Commit()
}

// ListVendors выгружает всех поставщиков. Нормализованные поля
// пересчитываются при загрузке - в базе хранятся только сырые значения,
// производные поля всегда функция от них.
func (db *VendorsDB) ListVendors(country string) ([]*normalization.VendorRecord, error) {
	rows, err := db.conn.Query(`
		SELECT id, raw_name, address, phone, email, tax_id, is_inactive
		FROM vendors
		ORDER BY id
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query vendors: %w", err)
	}
	defer rows.Close()

	var records []*normalization.VendorRecord
	for rows.Next() {
		var record normalization.VendorRecord
		var inactive int
		if err := rows.Scan(&record.ID, &record.RawName, &record.Address,
			&record.Phone, &record.Email, &record.TaxID, &inactive); err != nil {
			return nil, fmt.Errorf("failed to scan vendor: %w", err)
		}
		record.IsInactive = inactive != 0
		record.Normalize(country)
		records = append(records, &record)
	}

	return records, rows.Err()
}

// ReplaceBills заменяет счета поставщика свежей выгрузкой
func (db *VendorsDB) ReplaceBills(vendorID string, bills []consolidation.SpendRecord) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if _, err := tx.Exec(`DELETE FROM vendor_bills WHERE vendor_id = ?`, vendorID); err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to clear bills for %s: %w", vendorID, err)
	}

	stmt, err := tx.Prepare(`INSERT INTO vendor_bills (vendor_id, amount, tran_date) VALUES (?, ?, ?)`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("failed to prepare bill insert: %w", err)
	}
	defer stmt.Close()

	for _, bill := range bills {
		if _, err := stmt.Exec(vendorID, bill.Amount, bill.TranDate); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to insert bill for %s: %w", vendorID, err)
		}
	}

	return tx.Commit()
}

// ListBills выгружает все счета для агрегации расходов
func (db *VendorsDB) ListBills() ([]consolidation.SpendRecord, error) {
	rows, err := db.conn.Query(`SELECT vendor_id, amount, tran_date FROM vendor_bills ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query bills: %w", err)
	}
	defer rows.Close()

	var bills []consolidation.SpendRecord
	for rows.Next() {
		var bill consolidation.SpendRecord
		if err := rows.Scan(&bill.VendorID, &bill.Amount, &bill.TranDate); err != nil {
			return nil, fmt.Errorf("failed to scan bill: %w", err)
		}
		bills = append(bills, bill)
	}

	return bills, rows.Err()
}

// VendorCount возвращает количество записей поставщиков
func (db *VendorsDB) VendorCount() (int, error) {
	var count int
	err := db.conn.QueryRow(`SELECT COUNT(*) FROM vendors`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count vendors: %w", err)
	}
	return count, nil
}
