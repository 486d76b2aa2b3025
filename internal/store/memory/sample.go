package memory

import (
	"time"

	"ledger/internal/core"
)

// Sample returns the demonstration ledger used when no seed file is configured.
func Sample() core.Snapshot {
	updated := time.Date(2024, 1, 30, 0, 0, 0, 0, time.UTC)
	investor := func(id, name, phone string, share, invested, profit, withdrawn, balance int64) core.Investor {
		return core.Investor{
			ID:              id,
			Name:            name,
			Phone:           phone,
			SharePercentage: core.NewPercent(share),
			TotalInvested:   core.NewMoney(invested),
			TotalProfit:     core.NewMoney(profit),
			TotalWithdrawn:  core.NewMoney(withdrawn),
			CurrentBalance:  core.NewMoney(balance),
			LastUpdated:     updated,
		}
	}

	return core.Snapshot{
		Investors: []core.Investor{
			investor("INV001", "أحمد محمد", "+222 12345678", 25, 50000, 12500, 5000, 7500),
			investor("INV002", "فاطمة علي", "+222 23456789", 20, 40000, 10000, 3000, 7000),
			investor("INV003", "محمد عبد الله", "+222 34567890", 30, 60000, 15000, 8000, 7000),
			investor("INV004", "خديجة إبراهيم", "+222 45678901", 15, 30000, 7500, 2000, 5500),
			investor("INV005", "عمر حسن", "+222 56789012", 10, 20000, 5000, 1500, 3500),
		},
		Expenses: []core.Expense{
			{ID: "EXP001", Category: "مواد خام", Amount: core.NewMoney(15000), Date: core.NewDate(2024, 1, 15),
				Notes: "شراء مواد للإنتاج", AddedBy: "أحمد الإدارة",
				Attachments: []core.Attachment{{Name: "فاتورة_مواد_خام.pdf", Size: 245760, Type: "application/pdf"}}},
			{ID: "EXP002", Category: "رواتب", Amount: core.NewMoney(25000), Date: core.NewDate(2024, 1, 1),
				Notes: "رواتب الموظفين لشهر يناير", AddedBy: "أحمد الإدارة"},
			{ID: "EXP003", Category: "إيجار", Amount: core.NewMoney(8000), Date: core.NewDate(2024, 1, 1),
				Notes: "إيجار المكتب والمصنع", AddedBy: "أحمد الإدارة",
				Attachments: []core.Attachment{{Name: "عقد_الإيجار.pdf", Size: 512000, Type: "application/pdf"}}},
			{ID: "EXP004", Category: "كهرباء", Amount: core.NewMoney(3500), Date: core.NewDate(2024, 1, 10),
				Notes: "فاتورة الكهرباء", AddedBy: "فاطمة المحاسبة",
				Attachments: []core.Attachment{{Name: "فاتورة_كهرباء_يناير.jpg", Size: 1024000, Type: "image/jpeg"}}},
			{ID: "EXP005", Category: "نقل ومواصلات", Amount: core.NewMoney(2000), Date: core.NewDate(2024, 1, 20),
				Notes: "تكاليف النقل والتوصيل", AddedBy: "محمد العمليات"},
		},
		Revenues: []core.Revenue{
			{ID: "1", Amount: core.NewMoney(50000), Date: core.NewDate(2024, 1, 31), Description: "مبيعات الشهر", AddedBy: "أحمد محمد"},
			{ID: "2", Amount: core.NewMoney(30000), Date: core.NewDate(2024, 2, 15), Description: "خدمات استشارية", AddedBy: "فاطمة علي"},
			{ID: "3", Amount: core.NewMoney(25000), Date: core.NewDate(2024, 2, 20), Description: "عقد صيانة", AddedBy: "أحمد محمد"},
			{ID: "4", Amount: core.NewMoney(40000), Date: core.NewDate(2024, 2, 25), Description: "مشروع جديد", AddedBy: "أحمد محمد"},
			{ID: "5", Amount: core.NewMoney(20000), Date: core.NewDate(2024, 3, 1), Description: "عمولات", AddedBy: "فاطمة علي"},
		},
		Withdrawals: []core.Withdrawal{
			{ID: "1", InvestorName: "أحمد محمد", InvestorID: "INV001", Amount: core.NewMoney(5000),
				Date: core.NewDate(2024, 2, 1), Notes: "سحب أرباح", ApprovedBy: "أحمد محمد"},
			{ID: "2", InvestorName: "فاطمة علي", Amount: core.NewMoney(3000),
				Date: core.NewDate(2024, 2, 15), Notes: "سحب جزئي", ApprovedBy: "أحمد محمد"},
		},
		ProjectWithdrawals: []core.ProjectWithdrawal{
			{ID: "PW001", Amount: core.NewMoney(4000), Date: core.NewDate(2024, 2, 28),
				Notes: "صيانة المعدات", ApprovedBy: "أحمد محمد"},
		},
		Settings: core.Settings{
			ProjectPercentage: core.NewPercent(15),
			Currency:          core.DefaultCurrency,
			LastSync:          time.Date(2024, 1, 30, 14, 30, 0, 0, time.UTC),
			EnableAIInsights:  true,
			EnableDriveLink:   true,
		},
	}
}
