package netsuite

import (
	"context"
	"fmt"
	"strconv"

	"vendoranalysis/consolidation"
	"vendoranalysis/normalization"
)

const (
	// vendorQuery выгружает справочник поставщиков.
	// Неактивные записи тоже выгружаются - фильтрация происходит на этапе анализа.
	vendorQuery = `SELECT id, companyname, defaultbillingaddress, phone, email, ` +
		`taxidnum, isinactive FROM vendor ORDER BY id`

	// billQuery выгружает счета поставщиков за последние 12 месяцев
	billQuery = `SELECT entity, foreigntotal, trandate FROM transaction ` +
		`WHERE type = 'VendBill' AND trandate >= ADD_MONTHS(SYSDATE, -12) ORDER BY id`
)

// FetchVendors выгружает всех поставщиков из внешней системы
func (c *Client) FetchVendors(ctx context.Context) ([]VendorRow, error) {
	items, err := c.QueryAll(ctx, vendorQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vendors: %w", err)
	}

	vendors := make([]VendorRow, 0, len(items))
	for _, item := range items {
		vendors = append(vendors, VendorRow{
			ID:         item.String("id"),
			Name:       item.String("companyname"),
			Address:    item.String("defaultbillingaddress"),
			Phone:      item.String("phone"),
			Email:      item.String("email"),
			TaxID:      item.String("taxidnum"),
			IsInactive: item.String("isinactive") == "T",
		})
	}

	return vendors, nil
}

// FetchVendorBills выгружает счета поставщиков
func (c *Client) FetchVendorBills(ctx context.Context) ([]BillRow, error) {
	items, err := c.QueryAll(ctx, billQuery)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vendor bills: %w", err)
	}

	bills := make([]BillRow, 0, len(items))
	for _, item := range items {
		amount, err := strconv.ParseFloat(item.String("foreigntotal"), 64)
		if err != nil {
			// Строки с нечисловой суммой пропускаем, не прерывая выгрузку
			continue
		}
		bills = append(bills, BillRow{
			VendorID: item.String("entity"),
			Amount:   amount,
			TranDate: item.String("trandate"),
		})
	}

	return bills, nil
}

// ToVendorRecords преобразует строки выгрузки в записи для анализа
func ToVendorRecords(rows []VendorRow) []*normalization.VendorRecord {
	records := make([]*normalization.VendorRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, &normalization.VendorRecord{
			ID:         row.ID,
			RawName:    row.Name,
			Address:    row.Address,
			Phone:      row.Phone,
			Email:      row.Email,
			TaxID:      row.TaxID,
			IsInactive: row.IsInactive,
		})
	}
	return records
}

// ToSpendRecords преобразует строки счетов в записи расходов
func ToSpendRecords(rows []BillRow) []consolidation.SpendRecord {
	records := make([]consolidation.SpendRecord, 0, len(rows))
	for _, row := range rows {
		records = append(records, consolidation.SpendRecord{
			VendorID: row.VendorID,
			Amount:   row.Amount,
			TranDate: row.TranDate,
		})
	}
	return records
}
