package core

import (
	"errors"
	"strings"
	"time"
)

const (
	InputText  InputType = "text"
	InputAudio InputType = "audio"
	InputImage InputType = "image"
)

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

const (
	RangeWeek    TimeRange = "week"
	RangeMonth   TimeRange = "month"
	RangeQuarter TimeRange = "quarter"
	RangeYear    TimeRange = "year"
)

type (
	// InputType is the channel a transaction was captured through on WhatsApp.
	InputType string

	// Severity classifies an anomaly.
	Severity string

	// TimeRange selects the analytics window.
	TimeRange string

	// Transaction is a single spending record. Instances are created by the
	// WhatsApp ingestion pipeline and are immutable here; changes go through
	// the API facade.
	Transaction struct {
		ID            string    `json:"id"`
		Amount        int64     `json:"amount"` // whole rupees
		Merchant      string    `json:"merchant"`
		Category      string    `json:"category"`
		Date          time.Time `json:"date"`
		InputType     InputType `json:"inputType"`
		Description   string    `json:"description"`
		CategoryColor string    `json:"categoryColor"` // display hint only
	}

	// DashboardStats holds the headline numbers computed upstream.
	DashboardStats struct {
		MonthlySpending    int64 `json:"monthlySpending"`
		PreviousMonth      int64 `json:"previousMonth"`
		TransactionCount   int   `json:"transactionCount"`
		AverageTransaction int64 `json:"averageTransaction"`
		SavingsRate        int   `json:"savingsRate"`
	}

	// Badge is an achievement; Earned is materialized upstream.
	Badge struct {
		ID          string `json:"id"`
		Name        string `json:"name"`
		Description string `json:"description"`
		Earned      bool   `json:"earned"`
	}

	// Anomaly is a flagged spending pattern surfaced by the analytics source.
	Anomaly struct {
		ID          string    `json:"id"`
		Type        string    `json:"type"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Severity    Severity  `json:"severity"`
		Date        time.Time `json:"date"`
		Amount      int64     `json:"amount"`
	}

	// CategoryBreakdown is one slice of the spend distribution.
	CategoryBreakdown struct {
		Category string `json:"category"`
		Amount   int64  `json:"amount"`
		Color    string `json:"color"`
	}

	// TrendPoint is one point of the spending trend chart.
	TrendPoint struct {
		Date   string `json:"date"`
		Amount int64  `json:"amount"`
	}

	// Dashboard is the full payload behind GET /dashboard.
	Dashboard struct {
		Stats              DashboardStats      `json:"stats"`
		HealthScore        int                 `json:"healthScore"`
		Streak             int                 `json:"streak"`
		Badges             []Badge             `json:"badges"`
		SpendingTrend      []TrendPoint        `json:"spendingTrend"`
		CategoryBreakdown  []CategoryBreakdown `json:"categoryBreakdown"`
		RecentTransactions []Transaction       `json:"recentTransactions"`
	}

	// CategoryComparison contrasts one category across two months.
	CategoryComparison struct {
		Category  string `json:"category"`
		ThisMonth int64  `json:"thisMonth"`
		LastMonth int64  `json:"lastMonth"`
	}

	// WeekBucket is spending summed over one week of the window.
	WeekBucket struct {
		Week   string `json:"week"`
		Amount int64  `json:"amount"`
	}

	// TopMerchant is one of the most frequent spending destinations.
	TopMerchant struct {
		Name         string `json:"name"`
		Amount       int64  `json:"amount"`
		Transactions int    `json:"transactions"`
		Category     string `json:"category"`
	}

	// Analytics is the payload behind GET /analytics.
	Analytics struct {
		CategoryComparison []CategoryComparison `json:"categoryComparison"`
		WeeklyBreakdown    []WeekBucket         `json:"weeklyBreakdown"`
		TopMerchants       []TopMerchant        `json:"topMerchants"`
	}

	// UserProfile is the account data behind /user/profile.
	UserProfile struct {
		Name     string `json:"name"`
		Phone    string `json:"phone"`
		Language string `json:"language"`
		Joined   string `json:"joined"`
	}

	// WhatsAppStatus reports the state of the linked WhatsApp session.
	WhatsAppStatus struct {
		Connected bool      `json:"connected"`
		Phone     string    `json:"phone,omitempty"`
		LastSync  time.Time `json:"lastSync,omitempty"`
	}

	// ParsedTransaction is what the ingestion pipeline extracted from one
	// message, with its parse confidence.
	ParsedTransaction struct {
		Amount     int64  `json:"amount"`
		Merchant   string `json:"merchant"`
		Category   string `json:"category"`
		Confidence string `json:"confidence"` // high, medium, low
	}

	// ReceiptScan is the OCR result for an image message.
	ReceiptScan struct {
		Merchant string   `json:"merchant"`
		Amount   int64    `json:"amount"`
		Date     string   `json:"date"`
		Items    []string `json:"items"`
	}

	// MessageReply is the bot's answer sent back on WhatsApp.
	MessageReply struct {
		Text        string `json:"text"`
		ScoreImpact string `json:"scoreImpact"` // high, medium, low
	}

	// Message is one entry of the WhatsApp message history: the raw input,
	// what was extracted from it, and the reply the user got.
	Message struct {
		ID            string            `json:"id"`
		Type          InputType         `json:"type"`
		Input         string            `json:"input"`
		Transcription string            `json:"transcription,omitempty"`
		Timestamp     time.Time         `json:"timestamp"`
		Processed     bool              `json:"processed"`
		Receipt       *ReceiptScan      `json:"receipt,omitempty"`
		Transaction   ParsedTransaction `json:"transaction"`
		Reply         MessageReply      `json:"reply"`
		Status        string            `json:"status"`
	}

	// MessageStats counts history entries per capture channel.
	MessageStats struct {
		Text      int
		Audio     int
		Image     int
		Processed int
	}
)

// MessageCounts tallies a message history by input type and processed state.
func MessageCounts(messages []Message) MessageStats {
	var stats MessageStats
	for _, m := range messages {
		switch m.Type {
		case InputText:
			stats.Text++
		case InputAudio:
			stats.Audio++
		case InputImage:
			stats.Image++
		}
		if m.Processed {
			stats.Processed++
		}
	}
	return stats
}

// Categories is the fixed expense category set.
var Categories = []string{
	"Food & Dining",
	"Transportation",
	"Shopping",
	"Entertainment",
	"Bills & Utilities",
	"Groceries",
	"Health & Fitness",
	"Education",
	"Travel",
	"Others",
}

// InputTypes lists the valid capture channels.
var InputTypes = []InputType{InputText, InputAudio, InputImage}

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrEmptyMerchant    = errors.New("empty merchant")
	ErrEmptyCategory    = errors.New("empty category")
	ErrInvalidInputType = errors.New("invalid input type")
	ErrZeroDate         = errors.New("date cannot be zero")
)

func (it InputType) Valid() bool {
	switch it {
	case InputText, InputAudio, InputImage:
		return true
	}
	return false
}

func (tr TimeRange) Valid() bool {
	switch tr {
	case RangeWeek, RangeMonth, RangeQuarter, RangeYear:
		return true
	}
	return false
}

func (t Transaction) Validate() error {
	if t.Amount <= 0 {
		return ErrInvalidAmount
	}
	if strings.TrimSpace(t.Merchant) == "" {
		return ErrEmptyMerchant
	}
	if len(t.Merchant) > 200 {
		return errors.New("merchant too long (max 200 characters)")
	}
	if strings.TrimSpace(t.Category) == "" {
		return ErrEmptyCategory
	}
	if t.Date.IsZero() {
		return ErrZeroDate
	}
	if !t.InputType.Valid() {
		return ErrInvalidInputType
	}
	return nil
}
