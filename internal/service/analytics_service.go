package service

import (
	"context"

	"github.com/alligatorO15/jalali-finance/internal/cache"
	"github.com/alligatorO15/jalali-finance/internal/jalali"
	"github.com/alligatorO15/jalali-finance/internal/models"
	"github.com/alligatorO15/jalali-finance/internal/repository"
	"github.com/alligatorO15/jalali-finance/internal/stats"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

type AnalyticsService interface {
	DashboardStats(ctx context.Context, userID string, year, month int) (*models.DashboardStats, error)
	MonthlyBreakdown(ctx context.Context, userID string, year int) ([]models.MonthSummary, error)
	YearlyReport(ctx context.Context, userID string, year int) (*models.YearlyReport, error)
	CategoryBreakdown(ctx context.Context, userID string, typ models.TransactionType, year int) ([]models.CategoryBucket, error)
	ExpenseHeatmap(ctx context.Context, userID string, year int) ([]models.HeatmapCell, error)
	CalendarMonth(year, month int) (*models.CalendarMonth, error)
}

type analyticsService struct {
	transactionRepo repository.TransactionRepository
	cache           *cache.TransactionCache
	log             zerolog.Logger
}

func NewAnalyticsService(transactionRepo repository.TransactionRepository, txCache *cache.TransactionCache, log zerolog.Logger) AnalyticsService {
	return &analyticsService{
		transactionRepo: transactionRepo,
		cache:           txCache,
		log:             log,
	}
}

func (s *analyticsService) DashboardStats(ctx context.Context, userID string, year, month int) (*models.DashboardStats, error) {
	p, err := stats.MonthPeriod(year, month)
	if err != nil {
		return nil, err
	}
	prev := p.Previous()

	years, err := s.loadYears(ctx, userID, year, prev.Year)
	if err != nil {
		return nil, err
	}

	current := stats.Aggregate(years[year], p)
	previous := stats.Aggregate(years[prev.Year], prev)

	return &models.DashboardStats{
		Year:          year,
		Month:         month,
		Current:       current,
		Previous:      previous,
		YearToDate:    stats.YearToDate(years[year], year, month),
		IncomeChange:  stats.Compare(current.TotalIncome, previous.TotalIncome),
		ExpenseChange: stats.CompareInverse(current.TotalExpense, previous.TotalExpense),
		ProfitChange:  stats.Compare(current.Profit, previous.Profit),
	}, nil
}

func (s *analyticsService) MonthlyBreakdown(ctx context.Context, userID string, year int) ([]models.MonthSummary, error) {
	if _, err := stats.YearPeriod(year); err != nil {
		return nil, err
	}

	years, err := s.loadYears(ctx, userID, year, year-1)
	if err != nil {
		return nil, err
	}
	return monthSummaries(years[year], years[year-1], year), nil
}

func (s *analyticsService) YearlyReport(ctx context.Context, userID string, year int) (*models.YearlyReport, error) {
	p, err := stats.YearPeriod(year)
	if err != nil {
		return nil, err
	}
	prev := p.Previous()

	years, err := s.loadYears(ctx, userID, year, prev.Year)
	if err != nil {
		return nil, err
	}
	txs := years[year]

	summary := stats.Aggregate(txs, p)
	previous := stats.Aggregate(years[prev.Year], prev)

	report := &models.YearlyReport{
		Year:              year,
		Summary:           summary,
		PreviousSummary:   previous,
		IncomeChange:      stats.Compare(summary.TotalIncome, previous.TotalIncome),
		ExpenseChange:     stats.CompareInverse(summary.TotalExpense, previous.TotalExpense),
		ProfitChange:      stats.Compare(summary.Profit, previous.Profit),
		Months:            monthSummaries(txs, years[prev.Year], year),
		IncomeByCategory:  stats.CategoryBreakdown(txs, models.TransactionTypeIncome, year),
		ExpenseByCategory: stats.CategoryBreakdown(txs, models.TransactionTypeExpense, year),
	}
	report.BestMonth, report.WorstMonth = bestAndWorstMonth(report.Months)

	s.log.Debug().Str("user_id", userID).Int("year", year).Int("transactions", summary.TransactionCount).Msg("собран годовой отчет")
	return report, nil
}

func (s *analyticsService) CategoryBreakdown(ctx context.Context, userID string, typ models.TransactionType, year int) ([]models.CategoryBucket, error) {
	if !typ.IsValid() {
		return nil, ErrInvalidTransactionType
	}
	if _, err := stats.YearPeriod(year); err != nil {
		return nil, err
	}
	txs, err := s.loadYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	return stats.CategoryBreakdown(txs, typ, year), nil
}

func (s *analyticsService) ExpenseHeatmap(ctx context.Context, userID string, year int) ([]models.HeatmapCell, error) {
	if _, err := stats.YearPeriod(year); err != nil {
		return nil, err
	}
	txs, err := s.loadYear(ctx, userID, year)
	if err != nil {
		return nil, err
	}
	return stats.ExpenseHeatmap(txs, year), nil
}

func (s *analyticsService) CalendarMonth(year, month int) (*models.CalendarMonth, error) {
	if _, err := stats.MonthPeriod(year, month); err != nil {
		return nil, err
	}
	start, end, err := jalali.MonthBounds(year, month)
	if err != nil {
		return nil, err
	}
	weekday, err := jalali.FirstWeekday(year, month)
	if err != nil {
		return nil, err
	}
	return &models.CalendarMonth{
		Year:         year,
		Month:        month,
		MonthName:    jalali.MonthName(month),
		Days:         jalali.DaysInMonth(year, month),
		FirstWeekday: weekday,
		Start:        start,
		End:          end,
	}, nil
}

// loadYear транзакции пользователя за jalali год, сначала из кэша
func (s *analyticsService) loadYear(ctx context.Context, userID string, year int) ([]models.Transaction, error) {
	if txs, ok := s.cache.Get(userID, year); ok {
		return txs, nil
	}

	from, to, err := jalali.YearBounds(year)
	if err != nil {
		return nil, err
	}
	// запись, закоммиченная во время чтения, сменит поколение, и старый список не закэшируется
	gen := s.cache.Generation(userID)
	txs, err := s.transactionRepo.ListByDateRange(ctx, userID, from, to)
	if err != nil {
		return nil, err
	}
	if err := stats.CheckDates(txs); err != nil {
		return nil, err
	}
	if !s.cache.SetIfCurrent(userID, year, gen, txs) {
		s.log.Debug().Str("user_id", userID).Int("year", year).Msg("список устарел во время загрузки, не кэшируем")
	}
	return txs, nil
}

// loadYears грузит несколько лет параллельно. Годы вне поддерживаемого диапазона дают пустой список
func (s *analyticsService) loadYears(ctx context.Context, userID string, years ...int) (map[int][]models.Transaction, error) {
	results := make([][]models.Transaction, len(years))

	g, ctx := errgroup.WithContext(ctx)
	for i, year := range years {
		if year < jalali.MinYear || year > jalali.MaxYear {
			continue
		}
		i, year := i, year
		g.Go(func() error {
			txs, err := s.loadYear(ctx, userID, year)
			if err != nil {
				return err
			}
			results[i] = txs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	byYear := make(map[int][]models.Transaction, len(years))
	for i, year := range years {
		byYear[year] = results[i]
	}
	return byYear, nil
}

// monthSummaries 12 месяцев с изменением к предыдущему; для фарвардина это эсфанд прошлого года
func monthSummaries(txs, prevYearTxs []models.Transaction, year int) []models.MonthSummary {
	months := stats.MonthlyBreakdown(txs, year)
	previous := stats.Aggregate(prevYearTxs, stats.Period{Year: year - 1, Month: 12})

	result := make([]models.MonthSummary, len(months))
	for i, m := range months {
		result[i] = models.MonthSummary{
			PeriodAggregate: m,
			MonthName:       jalali.MonthName(m.Month),
			ProfitChange:    stats.Compare(m.Profit, previous.Profit),
			ExpenseChange:   stats.CompareInverse(m.TotalExpense, previous.TotalExpense),
		}
		previous = m
	}
	return result
}

// bestAndWorstMonth только среди месяцев с транзакциями, при равенстве берется более ранний
func bestAndWorstMonth(months []models.MonthSummary) (best, worst int) {
	for _, m := range months {
		if m.TransactionCount == 0 {
			continue
		}
		if best == 0 || m.Profit.GreaterThan(months[best-1].Profit) {
			best = m.Month
		}
		if worst == 0 || m.Profit.LessThan(months[worst-1].Profit) {
			worst = m.Month
		}
	}
	return best, worst
}
