//go:build ignore
// +build ignore

// Генератор тестовых данных: создает JSON-наборы поставщиков с заложенными
// дубликатами для ручных прогонов и нагрузочных проверок.
//
// Запуск: go run scripts/generate_test_data.go
package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/brianvoe/gofakeit/v6"

	"vendoranalysis/normalization"
)

// TestDataset набор тестовых данных
type TestDataset struct {
	Count      int                           `json:"count"`
	Duplicates int                           `json:"planted_duplicates"`
	Vendors    []*normalization.VendorRecord `json:"vendors"`
}

func main() {
	// Фиксированный seed - наборы воспроизводимы от запуска к запуску
	gofakeit.Seed(42)

	sizes := []struct {
		name string
		size int
	}{
		{"100", 100},
		{"1K", 1000},
		{"10K", 10000},
	}

	dataDir := filepath.Join("tests", "data")
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		log.Fatalf("Failed to create data directory: %v", err)
	}

	for _, size := range sizes {
		fmt.Printf("Generating %s vendors...\n", size.name)

		dataset := generateDataset(size.size)

		filename := filepath.Join(dataDir, fmt.Sprintf("vendors_%s.json", size.name))
		file, err := os.Create(filename)
		if err != nil {
			log.Fatalf("Failed to create %s: %v", filename, err)
		}

		encoder := json.NewEncoder(file)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(dataset); err != nil {
			file.Close()
			log.Fatalf("Failed to encode %s: %v", filename, err)
		}
		file.Close()

		fmt.Printf("  %s: %d vendors, %d planted duplicates\n",
			filename, dataset.Count, dataset.Duplicates)
	}
}

// generateDataset создает набор поставщиков; каждый пятый получает
// дубликат с вариацией названия и теми же реквизитами
func generateDataset(size int) *TestDataset {
	dataset := &TestDataset{}

	for i := 0; i < size; i++ {
		company := gofakeit.Company()
		vendor := &normalization.VendorRecord{
			ID:          fmt.Sprintf("V%05d", i+1),
			RawName:     company,
			Address:     gofakeit.Address().Address,
			Phone:       gofakeit.Phone(),
			Email:       gofakeit.Email(),
			TaxID:       fmt.Sprintf("%09d", gofakeit.Number(100000000, 999999999)),
			AnnualSpend: float64(gofakeit.Number(1000, 800000)),
		}
		dataset.Vendors = append(dataset.Vendors, vendor)

		// Заложенный дубликат: та же компания, но с префиксом, суффиксом
		// и другим написанием реквизитов
		if i%5 == 0 {
			duplicate := &normalization.VendorRecord{
				ID:          fmt.Sprintf("V%05d-dup", i+1),
				RawName:     "The " + company + ", Inc.",
				Address:     vendor.Address,
				Phone:       vendor.Phone,
				Email:       vendor.Email,
				TaxID:       vendor.TaxID,
				AnnualSpend: float64(gofakeit.Number(1000, 800000)),
			}
			dataset.Vendors = append(dataset.Vendors, duplicate)
			dataset.Duplicates++
		}
	}

	dataset.Count = len(dataset.Vendors)
	return dataset
}
