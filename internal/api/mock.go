package api

import (
	"time"

	"fiba/internal/core"
)

// Fixed demo payloads served when a read fails in degraded mode. Amounts and
// dates stay stable so the offline dashboard always renders the same view.

func demoTime(value string) time.Time {
	t, _ := time.Parse("2006-01-02T15:04:05", value)
	return t
}

func MockDashboard() core.Dashboard {
	return core.Dashboard{
		Stats: core.DashboardStats{
			MonthlySpending:    12450,
			PreviousMonth:      15200,
			TransactionCount:   47,
			AverageTransaction: 265,
			SavingsRate:        18,
		},
		HealthScore: 75,
		Streak:      12,
		Badges: []core.Badge{
			{ID: "first-week", Name: "First Week", Description: "Tracked for 7 days", Earned: true},
			{ID: "spending-master", Name: "Spending Master", Description: "50+ transactions", Earned: true},
			{ID: "streak-champion", Name: "Streak Champion", Description: "10 day streak", Earned: true},
			{ID: "budget-keeper", Name: "Budget Keeper", Description: "Stayed under budget", Earned: false},
			{ID: "financial-guru", Name: "Financial Guru", Description: "Health score 90+", Earned: false},
		},
		SpendingTrend: []core.TrendPoint{
			{Date: "2024-01-01", Amount: 1200},
			{Date: "2024-01-05", Amount: 1800},
			{Date: "2024-01-10", Amount: 1500},
			{Date: "2024-01-15", Amount: 2200},
			{Date: "2024-01-20", Amount: 1900},
			{Date: "2024-01-25", Amount: 2400},
			{Date: "2024-01-30", Amount: 2100},
		},
		CategoryBreakdown: []core.CategoryBreakdown{
			{Category: "Food & Dining", Amount: 4200, Color: "#ef4444"},
			{Category: "Transportation", Amount: 2800, Color: "#f59e0b"},
			{Category: "Shopping", Amount: 3100, Color: "#8b5cf6"},
			{Category: "Entertainment", Amount: 1500, Color: "#06b6d4"},
			{Category: "Bills & Utilities", Amount: 2200, Color: "#10b981"},
			{Category: "Others", Amount: 1650, Color: "#6b7280"},
		},
		RecentTransactions: MockTransactions()[:5],
	}
}

func MockTransactions() []core.Transaction {
	return []core.Transaction{
		{ID: "1", Amount: 450, Merchant: "Swiggy", Category: "Food & Dining", Date: demoTime("2024-01-20T14:30:00"), InputType: core.InputText, Description: "Lunch order", CategoryColor: "#ef4444"},
		{ID: "2", Amount: 1200, Merchant: "Uber", Category: "Transportation", Date: demoTime("2024-01-20T09:15:00"), InputType: core.InputAudio, Description: "Cab to office", CategoryColor: "#f59e0b"},
		{ID: "3", Amount: 2500, Merchant: "Amazon", Category: "Shopping", Date: demoTime("2024-01-19T18:45:00"), InputType: core.InputImage, Description: "Electronics purchase", CategoryColor: "#8b5cf6"},
		{ID: "4", Amount: 180, Merchant: "Cafe Coffee Day", Category: "Food & Dining", Date: demoTime("2024-01-19T16:20:00"), InputType: core.InputText, Description: "Evening coffee", CategoryColor: "#ef4444"},
		{ID: "5", Amount: 3200, Merchant: "Electricity Bill", Category: "Bills & Utilities", Date: demoTime("2024-01-18T10:00:00"), InputType: core.InputImage, Description: "Monthly electricity bill", CategoryColor: "#10b981"},
		{ID: "6", Amount: 850, Merchant: "BookMyShow", Category: "Entertainment", Date: demoTime("2024-01-17T20:30:00"), InputType: core.InputText, Description: "Movie tickets", CategoryColor: "#06b6d4"},
		{ID: "7", Amount: 650, Merchant: "Big Bazaar", Category: "Groceries", Date: demoTime("2024-01-17T11:00:00"), InputType: core.InputImage, Description: "Weekly groceries", CategoryColor: "#84cc16"},
		{ID: "8", Amount: 1500, Merchant: "Gym Membership", Category: "Health & Fitness", Date: demoTime("2024-01-16T08:00:00"), InputType: core.InputText, Description: "Monthly gym fee", CategoryColor: "#10b981"},
	}
}

func MockAnalytics() core.Analytics {
	return core.Analytics{
		CategoryComparison: []core.CategoryComparison{
			{Category: "Food & Dining", ThisMonth: 4200, LastMonth: 3800},
			{Category: "Transportation", ThisMonth: 2800, LastMonth: 2500},
			{Category: "Shopping", ThisMonth: 3100, LastMonth: 4100},
			{Category: "Entertainment", ThisMonth: 1500, LastMonth: 1800},
			{Category: "Bills & Utilities", ThisMonth: 2200, LastMonth: 2100},
			{Category: "Others", ThisMonth: 1650, LastMonth: 1400},
		},
		WeeklyBreakdown: []core.WeekBucket{
			{Week: "Week 1", Amount: 3200},
			{Week: "Week 2", Amount: 4100},
			{Week: "Week 3", Amount: 3800},
			{Week: "Week 4", Amount: 4350},
		},
		TopMerchants: []core.TopMerchant{
			{Name: "Swiggy", Amount: 2400, Transactions: 12, Category: "Food & Dining"},
			{Name: "Amazon", Amount: 3100, Transactions: 8, Category: "Shopping"},
			{Name: "Uber", Amount: 2100, Transactions: 15, Category: "Transportation"},
			{Name: "BookMyShow", Amount: 850, Transactions: 3, Category: "Entertainment"},
			{Name: "Big Bazaar", Amount: 1650, Transactions: 5, Category: "Groceries"},
		},
	}
}

func MockAnomalies() []core.Anomaly {
	return []core.Anomaly{
		{
			ID:          "1",
			Type:        "spending-spike",
			Title:       "Unusual Spending Detected",
			Description: "Your shopping expenses increased by 150% this week",
			Severity:    core.SeverityHigh,
			Date:        demoTime("2024-01-18T00:00:00"),
			Amount:      5600,
		},
		{
			ID:          "2",
			Type:        "duplicate",
			Title:       "Potential Duplicate Transaction",
			Description: "Similar transaction detected: Swiggy ₹450",
			Severity:    core.SeverityMedium,
			Date:        demoTime("2024-01-20T00:00:00"),
			Amount:      450,
		},
		{
			ID:          "3",
			Type:        "budget-warning",
			Title:       "Budget Limit Approaching",
			Description: "You've used 85% of your food budget this month",
			Severity:    core.SeverityMedium,
			Date:        demoTime("2024-01-19T00:00:00"),
			Amount:      4250,
		},
	}
}

func MockMessages() []core.Message {
	return []core.Message{
		{
			ID: "1", Type: core.InputText, Input: "Spent 550 on Zomato",
			Timestamp: demoTime("2024-01-20T14:30:00"), Processed: true,
			Transaction: core.ParsedTransaction{Amount: 550, Merchant: "Zomato", Category: "Food & Dining", Confidence: "high"},
			Reply:       core.MessageReply{Text: "Added ₹550 Zomato order", ScoreImpact: "medium"},
			Status:      "confirmed",
		},
		{
			ID: "2", Type: core.InputAudio, Input: "Voice message (12s)",
			Transcription: "I paid twelve hundred rupees for Uber cab",
			Timestamp:     demoTime("2024-01-20T09:15:00"), Processed: true,
			Transaction: core.ParsedTransaction{Amount: 1200, Merchant: "Uber", Category: "Transportation", Confidence: "high"},
			Reply:       core.MessageReply{Text: "Got it! ₹1,200 for Uber ride", ScoreImpact: "low"},
			Status:      "confirmed",
		},
		{
			ID: "3", Type: core.InputImage, Input: "Receipt image",
			Timestamp: demoTime("2024-01-19T18:45:00"), Processed: true,
			Receipt:     &core.ReceiptScan{Merchant: "Amazon", Amount: 2500, Date: "19/01/2024", Items: []string{"Electronics"}},
			Transaction: core.ParsedTransaction{Amount: 2500, Merchant: "Amazon", Category: "Shopping", Confidence: "medium"},
			Reply:       core.MessageReply{Text: "Added ₹2,500 Amazon purchase", ScoreImpact: "high"},
			Status:      "confirmed",
		},
		{
			ID: "4", Type: core.InputText, Input: "Electricity bill 3200",
			Timestamp: demoTime("2024-01-18T10:00:00"), Processed: true,
			Transaction: core.ParsedTransaction{Amount: 3200, Merchant: "Electricity Bill", Category: "Bills & Utilities", Confidence: "high"},
			Reply:       core.MessageReply{Text: "Logged ₹3,200 electricity bill", ScoreImpact: "medium"},
			Status:      "confirmed",
		},
		{
			ID: "5", Type: core.InputAudio, Input: "Voice message (8s)",
			Transcription: "Coffee at CCD one hundred eighty",
			Timestamp:     demoTime("2024-01-19T16:20:00"), Processed: true,
			Transaction: core.ParsedTransaction{Amount: 180, Merchant: "Cafe Coffee Day", Category: "Food & Dining", Confidence: "high"},
			Reply:       core.MessageReply{Text: "Added ₹180 CCD coffee", ScoreImpact: "low"},
			Status:      "confirmed",
		},
		{
			ID: "6", Type: core.InputImage, Input: "Bill screenshot",
			Timestamp: demoTime("2024-01-17T20:30:00"), Processed: true,
			Receipt:     &core.ReceiptScan{Merchant: "BookMyShow", Amount: 850, Date: "17/01/2024", Items: []string{"Movie tickets x2"}},
			Transaction: core.ParsedTransaction{Amount: 850, Merchant: "BookMyShow", Category: "Entertainment", Confidence: "high"},
			Reply:       core.MessageReply{Text: "Added ₹850 movie tickets", ScoreImpact: "medium"},
			Status:      "confirmed",
		},
	}
}

func MockProfile() core.UserProfile {
	return core.UserProfile{
		Name:     "User",
		Phone:    "+91-XXXXXXXXXX",
		Language: "en",
		Joined:   "2024-01-15",
	}
}
