package web

import (
	"errors"
	"html/template"
	"net/http"

	"fiba/internal/api"
	"fiba/internal/core"
	applog "fiba/internal/log"
)

func templateFuncs() template.FuncMap {
	return template.FuncMap{
		"rupees":  core.FormatRupees,
		"percent": core.FormatPercent,
	}
}

type changeView struct {
	Known    bool
	Display  string
	Positive bool
}

type badgeView struct {
	core.Badge
	Display core.BadgeDisplay
}

type categoryRow struct {
	core.CategoryShare
	Color string
	Width int
}

type txRow struct {
	Merchant    string
	Description string
	Category    string
	Color       string
	Amount      string
	When        string
	InputType   core.InputType
}

type dashboardView struct {
	Loading bool
	Stats   core.DashboardStats

	Change changeView

	HealthScore int
	HealthBand  core.Band

	Streak       int
	StreakStatus core.StreakStatus

	Badges      []badgeView
	BadgeCounts core.BadgeCounts

	Categories []categoryRow
	Trend      []core.TrendPoint
	Recent     []txRow
}

func txRows(transactions []core.Transaction) []txRow {
	rows := make([]txRow, 0, len(transactions))
	for _, t := range transactions {
		rows = append(rows, txRow{
			Merchant:    t.Merchant,
			Description: t.Description,
			Category:    t.Category,
			Color:       t.CategoryColor,
			Amount:      core.FormatRupees(t.Amount),
			When:        t.Date.Format("Jan 2, 03:04 PM"),
			InputType:   t.InputType,
		})
	}
	return rows
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	dash, ok := s.store.Dashboard()
	view := dashboardView{Loading: s.store.Loading() || !ok}
	if ok {
		view.Stats = dash.Stats

		// A zero previous month has no defined delta; the template renders a
		// dash instead of a number.
		if change, known := core.PercentageChange(dash.Stats.MonthlySpending, dash.Stats.PreviousMonth); known {
			view.Change = changeView{Known: true, Display: core.FormatPercent(change.Percent), Positive: change.Positive}
		}

		view.HealthScore = dash.HealthScore
		view.HealthBand = core.HealthBand(dash.HealthScore)
		view.Streak = dash.Streak
		view.StreakStatus = core.StreakProgress(dash.Streak)

		for _, b := range dash.Badges {
			view.Badges = append(view.Badges, badgeView{Badge: b, Display: core.DisplayForBadge(b.ID)})
		}
		view.BadgeCounts = core.BadgeSummary(dash.Badges)

		if shares, known := core.CategoryPercentages(dash.CategoryBreakdown); known {
			widths := core.BarWidths(dash.CategoryBreakdown)
			for i, share := range shares {
				view.Categories = append(view.Categories, categoryRow{
					CategoryShare: share,
					Color:         dash.CategoryBreakdown[i].Color,
					Width:         widths[i],
				})
			}
		}
		view.Trend = dash.SpendingTrend
		view.Recent = txRows(dash.RecentTransactions)
	}
	s.render(w, r, "dashboard.html", view)
}

type transactionsView struct {
	Loading bool

	Search    string
	Category  string
	InputType string

	Categories []string
	InputTypes []core.InputType

	Rows    []txRow
	Count   int
	Total   string
	Average string
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	q := core.Query{
		Search:    r.URL.Query().Get("search"),
		Category:  r.URL.Query().Get("category"),
		InputType: r.URL.Query().Get("inputType"),
	}
	if q.Category == "" {
		q.Category = core.FilterAll
	}
	if q.InputType == "" {
		q.InputType = core.FilterAll
	}

	filtered := core.FilterTransactions(s.store.Transactions(), q)
	view := transactionsView{
		Loading:    s.store.Loading(),
		Search:     q.Search,
		Category:   q.Category,
		InputType:  q.InputType,
		Categories: core.Categories,
		InputTypes: core.InputTypes,
		Rows:       txRows(filtered),
		Count:      len(filtered),
		Total:      core.FormatRupees(core.TotalAmount(filtered)),
		Average:    core.FormatRupees(core.AverageAmount(filtered)),
	}
	s.render(w, r, "transactions.html", view)
}

type anomalyView struct {
	core.Anomaly
	Amount string
	When   string
}

type comparisonRow struct {
	core.CategoryComparison
	Change changeView
}

type analyticsView struct {
	TimeRange string

	Comparison []comparisonRow
	Weekly     []core.WeekBucket
	Merchants  []core.TopMerchant
	Anomalies  []anomalyView
}

func (s *Server) fetchAnalytics(r *http.Request, timeRange core.TimeRange) (analyticsView, error) {
	key := string(timeRange)
	if cached, ok := s.analyticsCache.Get(key); ok {
		return cached, nil
	}

	analytics, err := s.client.Analytics(r.Context(), timeRange)
	if err != nil {
		return analyticsView{}, err
	}
	anomalies, err := s.client.Anomalies(r.Context())
	if err != nil {
		return analyticsView{}, err
	}

	view := analyticsView{TimeRange: string(timeRange)}
	for _, c := range analytics.CategoryComparison {
		row := comparisonRow{CategoryComparison: c}
		if change, known := core.PercentageChange(c.ThisMonth, c.LastMonth); known {
			row.Change = changeView{Known: true, Display: core.FormatPercent(change.Percent), Positive: change.Positive}
		}
		view.Comparison = append(view.Comparison, row)
	}
	view.Weekly = analytics.WeeklyBreakdown
	view.Merchants = analytics.TopMerchants
	for _, a := range anomalies {
		view.Anomalies = append(view.Anomalies, anomalyView{
			Anomaly: a,
			Amount:  core.FormatRupees(a.Amount),
			When:    a.Date.Format("Jan 2, 2006"),
		})
	}

	s.analyticsCache.Set(key, view)
	return view, nil
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	timeRange := core.TimeRange(r.URL.Query().Get("timeRange"))
	if !timeRange.Valid() {
		timeRange = core.RangeMonth
	}

	view, err := s.fetchAnalytics(r, timeRange)
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.redirectToLogin(w, r)
			return
		}
		s.logger.ErrorContext(r.Context(), "Analytics fetch failed",
			applog.FieldError, err.Error(),
			applog.FieldTimeRange, string(timeRange))
		http.Error(w, "analytics unavailable", http.StatusBadGateway)
		return
	}
	s.render(w, r, "analytics.html", view)
}

type messageRow struct {
	Type          core.InputType
	Input         string
	Transcription string
	When          string
	Receipt       *core.ReceiptScan
	Merchant      string
	Amount        string
	Category      string
	Confidence    string
	ReplyText     string
	ScoreImpact   string
	Status        string
}

func messageRows(messages []core.Message) []messageRow {
	rows := make([]messageRow, 0, len(messages))
	for _, m := range messages {
		rows = append(rows, messageRow{
			Type:          m.Type,
			Input:         m.Input,
			Transcription: m.Transcription,
			When:          m.Timestamp.Format("Jan 2, 03:04 PM"),
			Receipt:       m.Receipt,
			Merchant:      m.Transaction.Merchant,
			Amount:        core.FormatRupees(m.Transaction.Amount),
			Category:      m.Transaction.Category,
			Confidence:    m.Transaction.Confidence,
			ReplyText:     m.Reply.Text,
			ScoreImpact:   m.Reply.ScoreImpact,
			Status:        m.Status,
		})
	}
	return rows
}

type whatsappView struct {
	Status          core.WhatsAppStatus
	LastSync        string
	DisconnectError bool

	Messages []messageRow
	Counts   core.MessageStats
}

func (s *Server) handleWhatsApp(w http.ResponseWriter, r *http.Request) {
	status, err := s.client.WhatsAppStatus(r.Context())
	if err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.redirectToLogin(w, r)
			return
		}
		s.logger.ErrorContext(r.Context(), "WhatsApp status fetch failed", applog.FieldError, err.Error())
		status = core.WhatsAppStatus{Connected: false}
	}
	view := whatsappView{
		Status:          status,
		DisconnectError: r.URL.Query().Get("error") == "disconnect",
	}
	if !status.LastSync.IsZero() {
		view.LastSync = status.LastSync.Format("Jan 2, 03:04 PM")
	}
	// History only exists for a linked session.
	if status.Connected {
		messages, err := s.client.WhatsAppMessages(r.Context())
		if err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				s.redirectToLogin(w, r)
				return
			}
			s.logger.ErrorContext(r.Context(), "Message history fetch failed", applog.FieldError, err.Error())
		}
		view.Messages = messageRows(messages)
		view.Counts = core.MessageCounts(messages)
	}
	s.render(w, r, "whatsapp.html", view)
}

func (s *Server) handleDisconnect(w http.ResponseWriter, r *http.Request) {
	if err := s.client.DisconnectWhatsApp(r.Context()); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.redirectToLogin(w, r)
			return
		}
		// Write failure: prior state stays, the page shows a transient notice.
		s.logger.ErrorContext(r.Context(), "WhatsApp disconnect failed",
			applog.FieldOperation, applog.OpDisconnect,
			applog.FieldError, err.Error())
		http.Redirect(w, r, "/whatsapp?error=disconnect", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/whatsapp", http.StatusSeeOther)
}

type profileView struct {
	User      core.UserProfile
	SaveError bool
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if s.store.User() == (core.UserProfile{}) {
		if err := s.store.LoadProfile(r.Context()); err != nil {
			if errors.Is(err, api.ErrUnauthorized) {
				s.redirectToLogin(w, r)
				return
			}
			s.logger.ErrorContext(r.Context(), "Profile fetch failed", applog.FieldError, err.Error())
		}
	}
	view := profileView{
		User:      s.store.User(),
		SaveError: r.URL.Query().Get("error") == "save",
	}
	s.render(w, r, "profile.html", view)
}

func (s *Server) handleProfileSave(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	profile := s.store.User()
	if name := r.PostFormValue("name"); name != "" {
		profile.Name = name
	}
	if language := r.PostFormValue("language"); language != "" {
		profile.Language = language
	}
	if err := s.store.SaveProfile(r.Context(), profile); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.redirectToLogin(w, r)
			return
		}
		// Write failure: held state is unchanged, the page shows a notice.
		s.logger.ErrorContext(r.Context(), "Profile save failed",
			applog.FieldOperation, applog.OpUpdate,
			applog.FieldError, err.Error())
		http.Redirect(w, r, "/profile?error=save", http.StatusSeeOther)
		return
	}
	http.Redirect(w, r, "/profile", http.StatusSeeOther)
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	s.analyticsCache.Purge()
	if err := s.store.Refresh(r.Context()); err != nil {
		if errors.Is(err, api.ErrUnauthorized) {
			s.redirectToLogin(w, r)
			return
		}
		s.logger.ErrorContext(r.Context(), "Refresh failed",
			applog.FieldOperation, applog.OpRefresh,
			applog.FieldError, err.Error())
	}
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, "login.html", nil)
}

func (s *Server) redirectToLogin(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/login", http.StatusFound)
}
