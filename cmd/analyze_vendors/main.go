// Утилита пакетного анализа: выгружает поставщиков (из локальной базы или
// из NetSuite), ищет дубликаты, считает план консолидации и пишет отчет.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"golang.org/x/time/rate"

	"vendoranalysis/analysis"
	"vendoranalysis/consolidation"
	"vendoranalysis/database"
	"vendoranalysis/internal/config"
	"vendoranalysis/netsuite"
	"vendoranalysis/reporting"
)

func main() {
	configPath := flag.String("config", "", "путь к JSON-файлу конфигурации")
	sync := flag.Bool("sync", false, "выгрузить данные из NetSuite в локальную базу перед анализом")
	output := flag.String("output", "vendor_report.xlsx", "путь к файлу отчета")
	format := flag.String("format", "excel", "формат отчета: json, csv, excel")
	exhaustive := flag.Bool("exhaustive", false, "полное попарное сравнение вместо блочного индекса")
	topN := flag.Int("top", 10, "сколько лучших возможностей печатать в консоль")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Ошибка загрузки конфигурации: %v", err)
	}
	if *exhaustive {
		cfg.Analysis.Exhaustive = true
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Ошибка открытия базы данных: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if *sync {
		if err := syncFromNetSuite(ctx, cfg, db); err != nil {
			log.Fatalf("Ошибка синхронизации с NetSuite: %v", err)
		}
	}

	records, err := db.ListVendors(cfg.Analysis.Country)
	if err != nil {
		log.Fatalf("Ошибка чтения поставщиков: %v", err)
	}
	if len(records) == 0 {
		log.Fatal("База пуста. Запустите с флагом -sync или загрузите данные вручную")
	}

	bills, err := db.ListBills()
	if err != nil {
		log.Fatalf("Ошибка чтения счетов: %v", err)
	}
	// Расходы из счетов; при их отсутствии пайплайн возьмет AnnualSpend записей
	_, spend := consolidation.AggregateSpend(bills)
	if len(spend) == 0 {
		spend = nil
	}

	pipeline, err := analysis.NewPipeline(cfg.Analysis)
	if err != nil {
		log.Fatalf("Ошибка создания пайплайна: %v", err)
	}

	log.Printf("Анализ %d поставщиков (порог %.2f)...", len(records), pipeline.Threshold())

	result, err := pipeline.Run(ctx, records, spend)
	if err != nil {
		log.Fatalf("Ошибка анализа: %v", err)
	}

	report := reporting.NewReport(result.VendorCount, pipeline.Threshold(),
		result.Pairs, result.Opportunities, result.Warnings)

	if err := reporting.NewExporter().Export(report, reporting.ExportFormat(*format), *output); err != nil {
		log.Fatalf("Ошибка экспорта отчета: %v", err)
	}

	printSummary(report, *topN, *output)
}

// syncFromNetSuite выгружает справочник и счета в локальную базу
func syncFromNetSuite(ctx context.Context, cfg *config.Config, db *database.VendorsDB) error {
	if cfg.NetSuiteAccountID == "" || cfg.NetSuiteToken == "" {
		return fmt.Errorf("NS_ACCOUNT_ID и NS_TOKEN обязательны для синхронизации")
	}

	client := netsuite.NewClient(netsuite.ClientConfig{
		AccountID:  cfg.NetSuiteAccountID,
		Token:      cfg.NetSuiteToken,
		Timeout:    cfg.NetSuiteTimeout,
		RateLimit:  rate.Limit(cfg.NetSuiteRateLimit),
		PageSize:   cfg.NetSuiteBatchSize,
		MaxRetries: cfg.NetSuiteMaxRetries,
		RetryDelay: cfg.NetSuiteRetryDelay,
	})

	log.Println("Выгрузка справочника поставщиков...")
	vendors, err := client.FetchVendors(ctx)
	if err != nil {
		return err
	}
	if err := db.UpsertVendors(netsuite.ToVendorRecords(vendors)); err != nil {
		return err
	}
	log.Printf("✓ Поставщиков выгружено: %d", len(vendors))

	log.Println("Выгрузка счетов...")
	bills, err := client.FetchVendorBills(ctx)
	if err != nil {
		return err
	}

	byVendor := make(map[string][]consolidation.SpendRecord)
	for _, record := range netsuite.ToSpendRecords(bills) {
		byVendor[record.VendorID] = append(byVendor[record.VendorID], record)
	}
	for vendorID, vendorBills := range byVendor {
		if err := db.ReplaceBills(vendorID, vendorBills); err != nil {
			return err
		}
	}
	log.Printf("✓ Счетов выгружено: %d", len(bills))

	return nil
}

func printSummary(report *reporting.Report, topN int, output string) {
	fmt.Println("═══════════════════════════════════════════════════════")
	fmt.Printf("Поставщиков проанализировано: %d\n", report.VendorCount)
	fmt.Printf("Пар дубликатов:               %d\n", len(report.Pairs))
	fmt.Printf("Предупреждений качества:      %d\n", len(report.Warnings))
	fmt.Printf("Оценка экономии, итого:       %.2f\n", report.TotalEstimatedSavings())
	fmt.Println("═══════════════════════════════════════════════════════")

	if len(report.Opportunities) > 0 {
		fmt.Printf("Топ-%d возможностей консолидации:\n", topN)
		for i, opp := range report.Opportunities {
			if i >= topN {
				break
			}
			fmt.Printf("  %2d. %s + %s: экономия %.2f (уверенность %.2f)\n",
				i+1, opp.Pair.Name1, opp.Pair.Name2,
				opp.EstimatedSavings, opp.Pair.ConfidenceScore)
		}
	}

	fmt.Printf("Отчет сохранен: %s\n", output)
}
