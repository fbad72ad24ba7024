package reporting

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/vfg2006/income-report-api/internal/domain"
)

// Dados de contingência usados quando uma consulta falha. Os valores são os
// mesmos exibidos pelo painel antigo, para o front-end continuar desenhando.

var (
	previousFallback = map[domain.RevenueSource]decimal.Decimal{
		domain.SourceIncome365: decimal.NewFromInt(2000000),
		domain.SourceIncomeDMS: decimal.NewFromInt(1500000),
	}

	branchTotalsFallback = map[domain.RevenueSource][]domain.RevenueRecord{
		domain.SourceIncome365: {
			{Branch: "Minburi", Amount: decimal.RequireFromString("1005292.33")},
			{Branch: "Salaya", Amount: decimal.RequireFromString("923169.85")},
			{Branch: "Exp. Ramintra", Amount: decimal.RequireFromString("811357.80")},
		},
		domain.SourceIncomeDMS: {
			{Branch: "Minburi", Amount: decimal.RequireFromString("631132.18")},
			{Branch: "Salaya", Amount: decimal.RequireFromString("368436.98")},
			{Branch: "Exp. Ramintra", Amount: decimal.RequireFromString("572776.23")},
		},
	}
)

func strPtr(s string) *string {
	return &s
}

func summaryFallback(source domain.RevenueSource) []domain.SummaryRow {
	if source == domain.SourceIncomeDMS {
		return []domain.SummaryRow{
			{BranchCode: strPtr("gi01"), BranchName: "Minburi", OrderType: strPtr("General Repair"), Count: 150, TotalRevenue: decimal.RequireFromString("631132.18")},
			{BranchCode: strPtr("gi01"), BranchName: "Minburi", OrderType: strPtr("Claim"), Count: 45, TotalRevenue: decimal.NewFromInt(200000)},
			{BranchCode: strPtr("gi02"), BranchName: "Salaya", OrderType: strPtr("General Repair"), Count: 120, TotalRevenue: decimal.RequireFromString("368436.98")},
			{BranchCode: strPtr("gi03"), BranchName: "Exp. Ramintra", OrderType: strPtr("General Repair"), Count: 180, TotalRevenue: decimal.RequireFromString("572776.23")},
		}
	}

	return []domain.SummaryRow{
		{BranchName: "Minburi", Count: 590, TotalRevenue: decimal.RequireFromString("1005292.33")},
		{BranchName: "Salaya", Count: 196, TotalRevenue: decimal.RequireFromString("923169.85")},
		{BranchName: "Exp. Ramintra", Count: 469, TotalRevenue: decimal.RequireFromString("811357.80")},
		{BranchName: "Pibulsongkram", Count: 220, TotalRevenue: decimal.RequireFromString("404476.65")},
		{BranchName: "Kanchanapisek", Count: 199, TotalRevenue: decimal.RequireFromString("387650.70")},
		{BranchName: "Ayutthaya", Count: 130, TotalRevenue: decimal.RequireFromString("128782.63")},
		{BranchName: "Mahachai", Count: 123, TotalRevenue: decimal.RequireFromString("127702.33")},
		{BranchName: "Ubonratchathani", Count: 38, TotalRevenue: decimal.RequireFromString("16521.65")},
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func transactionsFallback(source domain.RevenueSource) []domain.Transaction {
	if source == domain.SourceIncomeDMS {
		firstSubmission := date(2024, time.March, 10)
		secondSubmission := date(2024, time.March, 12)
		return []domain.Transaction{
			domain.IncomeDMSTransaction{
				BranchCode:              strPtr("gi01"),
				BranchName:              "Minburi",
				OrderNumber:             strPtr("RO-2024-001"),
				BillingTime:             date(2024, time.March, 15),
				CarOwnerName:            strPtr("John Doe"),
				OrderTypeName:           strPtr("General"),
				RepairTypeName:          strPtr("Engine Repair"),
				WorkOrderStatusName:     strPtr("Completed"),
				LicenseNumber:           strPtr("ABC-123"),
				Brand:                   strPtr("Toyota"),
				VehicleSerialName:       strPtr("Camry"),
				VehicleModelName:        strPtr("2.5G"),
				VIN:                     strPtr("VIN1234567890"),
				ServiceAdvisor:          strPtr("SA1"),
				TotalAmountExcludingTax: decimal.NewNullDecimal(decimal.NewFromInt(5000)),
				TotalAmountIncludingTax: decimal.NewNullDecimal(decimal.NewFromInt(5350)),
				TaxAmount:               decimal.NewNullDecimal(decimal.NewFromInt(350)),
				SubmissionTime:          &firstSubmission,
				InPlantMileage:          decimal.NewNullDecimal(decimal.NewFromInt(100000)),
				Repairer:                strPtr("Mechanic A"),
				RepairerPhone:           strPtr("081-111-1111"),
				EngineNumber:            strPtr("ENG123"),
				ManHourCost:             decimal.NewNullDecimal(decimal.NewFromInt(1000)),
				CustomerDescription:     strPtr("Engine knocking sound"),
			},
			domain.IncomeDMSTransaction{
				BranchCode:              strPtr("gi02"),
				BranchName:              "Salaya",
				OrderNumber:             strPtr("RO-2024-002"),
				BillingTime:             date(2024, time.March, 14),
				CarOwnerName:            strPtr("Jane Smith"),
				OrderTypeName:           strPtr("Claim"),
				RepairTypeName:          strPtr("Body Repair"),
				WorkOrderStatusName:     strPtr("In Progress"),
				LicenseNumber:           strPtr("DEF-456"),
				Brand:                   strPtr("Honda"),
				VehicleSerialName:       strPtr("Civic"),
				VehicleModelName:        strPtr("1.8EL"),
				VIN:                     strPtr("VIN0987654321"),
				ServiceAdvisor:          strPtr("SA2"),
				TotalAmountExcludingTax: decimal.NewNullDecimal(decimal.NewFromInt(8500)),
				TotalAmountIncludingTax: decimal.NewNullDecimal(decimal.NewFromInt(9095)),
				TaxAmount:               decimal.NewNullDecimal(decimal.NewFromInt(595)),
				SubmissionTime:          &secondSubmission,
				InPlantMileage:          decimal.NewNullDecimal(decimal.NewFromInt(50000)),
				Repairer:                strPtr("Mechanic B"),
				RepairerPhone:           strPtr("082-222-2222"),
				EngineNumber:            strPtr("ENG456"),
				ManHourCost:             decimal.NewNullDecimal(decimal.NewFromInt(1500)),
				CustomerDescription:     strPtr("Front bumper damage"),
			},
		}
	}

	return []domain.Transaction{
		domain.Income365Transaction{
			InvoiceID:     strPtr("INV-001"),
			SalesID:       strPtr("SO-001"),
			InvoiceDate:   date(2024, time.March, 15),
			InvoiceAmount: decimal.NewFromInt(15000),
			BranchName:    "Minburi",
		},
		domain.Income365Transaction{
			InvoiceID:     strPtr("INV-002"),
			SalesID:       strPtr("SO-002"),
			InvoiceDate:   date(2024, time.March, 14),
			InvoiceAmount: decimal.RequireFromString("8500.50"),
			BranchName:    "Salaya",
		},
		domain.Income365Transaction{
			InvoiceID:     strPtr("INV-003"),
			SalesID:       strPtr("SO-003"),
			InvoiceDate:   date(2024, time.March, 14),
			InvoiceAmount: decimal.NewFromInt(12000),
			BranchName:    "Exp. Ramintra",
		},
	}
}

// placeholderTrend reparte o total geral em quatro meses fixos (10/20/30/40%)
func placeholderTrend(grandTotal decimal.Decimal) []domain.TrendPoint {
	names := []string{"Jan", "Feb", "Mar", "Apr"}
	trend := make([]domain.TrendPoint, 0, len(names))
	for i, name := range names {
		share := decimal.New(int64(i+1), -1)
		trend = append(trend, domain.TrendPoint{
			Name:  name,
			Total: grandTotal.Mul(share),
		})
	}
	return trend
}
