package summary

import (
	"context"
	"testing"
	"time"

	"finance-tracker/internal/auth"
	"finance-tracker/internal/ledger"
	"finance-tracker/internal/models"
	"finance-tracker/internal/money"
	"finance-tracker/internal/storage"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"
)

type SummaryTestSuite struct {
	suite.Suite
	db     *storage.DB
	auth   *auth.Service
	ledger *ledger.Ledger
	engine *Engine
	ctx    context.Context
	now    time.Time
	userID int64
}

func (suite *SummaryTestSuite) SetupTest() {
	db, err := storage.NewDB(":memory:")
	require.NoError(suite.T(), err, "failed to create test database")
	suite.db = db
	suite.ctx = context.Background()
	suite.now = time.Date(2024, time.March, 20, 15, 0, 0, 0, time.UTC)

	cats := models.DefaultCategories()
	suite.auth = auth.NewService(db, cats, auth.Options{Cost: bcrypt.MinCost})
	suite.ledger = ledger.New(db, cats, nil)
	suite.engine = New(db, Options{Clock: func() time.Time { return suite.now }})

	suite.userID, err = suite.auth.Register(suite.ctx, "alice", "s3cret!")
	require.NoError(suite.T(), err)
}

func (suite *SummaryTestSuite) TearDownTest() {
	if suite.db != nil {
		suite.db.Close()
	}
}

func (suite *SummaryTestSuite) add(cents int64, category string, typ models.TxType, date models.Date) {
	_, err := suite.ledger.AddTransaction(suite.ctx, suite.userID, models.NewTransaction{
		Amount: money.FromCents(cents), Category: category, Type: typ, Date: date,
	})
	require.NoError(suite.T(), err)
}

func (suite *SummaryTestSuite) TestAliceScenario() {
	budgets, err := suite.ledger.ListBudgets(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Len(suite.T(), budgets, 8)

	_, err = suite.auth.Authenticate(suite.ctx, "alice", "wrong")
	assert.ErrorIs(suite.T(), err, models.ErrInvalidCredentials)

	suite.add(4500, "Dining Out", models.Expense, models.NewDate(2024, time.March, 5))

	totals, err := suite.engine.MonthlyTotals(suite.ctx, suite.userID, 2024, time.March)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), Totals{Income: 0, Expense: money.FromCents(4500)}, totals)

	breakdown, err := suite.engine.CategoryBreakdown(suite.ctx, suite.userID, models.Expense, models.MonthRange(2024, time.March))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]money.Amount{"Dining Out": money.FromCents(4500)}, breakdown)

	require.NoError(suite.T(), suite.ledger.UpsertBudget(suite.ctx, suite.userID, "Dining Out", money.FromCents(10000)))

	remaining, err := suite.engine.RemainingBudget(suite.ctx, suite.userID, models.MonthRange(2024, time.March))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "$55.00", remaining.String())
}

func (suite *SummaryTestSuite) TestBalanceMayBeNegative() {
	march := models.MonthRange(2024, time.March)
	suite.add(10000, "Wage", models.Income, models.NewDate(2024, time.March, 1))
	suite.add(25050, "Travel", models.Expense, models.NewDate(2024, time.March, 2))

	balance, err := suite.engine.Balance(suite.ctx, suite.userID, march)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), money.FromCents(-15050), balance)
	assert.Equal(suite.T(), "-$150.50", balance.String())
}

func (suite *SummaryTestSuite) TestRemainingNeverNegative() {
	march := models.MonthRange(2024, time.March)
	require.NoError(suite.T(), suite.ledger.UpsertBudget(suite.ctx, suite.userID, "Travel", money.FromCents(5000)))
	suite.add(9000, "Travel", models.Expense, models.NewDate(2024, time.March, 2))

	remaining, err := suite.engine.RemainingBudget(suite.ctx, suite.userID, march)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), money.Amount(0), remaining)

	status, err := suite.engine.BudgetStatus(suite.ctx, suite.userID, march)
	require.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 180.0, status.PercentUsed, 0.001)
}

func (suite *SummaryTestSuite) TestBudgetStatusUsesDefaultCapWhenUnset() {
	suite.add(25000, "Travel", models.Expense, models.NewDate(2024, time.March, 2))

	status, err := suite.engine.BudgetStatus(suite.ctx, suite.userID, models.MonthRange(2024, time.March))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), money.Amount(0), status.Total)
	assert.Equal(suite.T(), money.FromCents(2500_00), status.Cap)
	assert.Equal(suite.T(), money.Amount(0), status.Remaining)
	assert.InDelta(suite.T(), 10.0, status.PercentUsed, 0.001)
}

func (suite *SummaryTestSuite) TestConfiguredDefaultCap() {
	engine := New(suite.db, Options{DefaultCap: money.FromCents(1000_00)})
	suite.add(25000, "Travel", models.Expense, models.NewDate(2024, time.March, 2))

	status, err := engine.BudgetStatus(suite.ctx, suite.userID, models.MonthRange(2024, time.March))
	require.NoError(suite.T(), err)
	assert.InDelta(suite.T(), 25.0, status.PercentUsed, 0.001)
}

func (suite *SummaryTestSuite) TestTotalBudget() {
	require.NoError(suite.T(), suite.ledger.SaveBudgets(suite.ctx, suite.userID, map[string]money.Amount{
		"Travel": money.FromCents(30000), "Health": money.FromCents(12550),
	}))
	total, err := suite.engine.TotalBudget(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), money.FromCents(42550), total)
}

func (suite *SummaryTestSuite) TestMonthBoundaries() {
	suite.add(100, "Travel", models.Expense, models.NewDate(2024, time.February, 29))
	suite.add(200, "Travel", models.Expense, models.NewDate(2024, time.March, 1))
	suite.add(300, "Travel", models.Expense, models.NewDate(2024, time.March, 31))
	suite.add(400, "Travel", models.Expense, models.NewDate(2024, time.April, 1))

	totals, err := suite.engine.MonthlyTotals(suite.ctx, suite.userID, 2024, time.March)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), money.FromCents(500), totals.Expense)

	feb, err := suite.engine.MonthlyTotals(suite.ctx, suite.userID, 2024, time.February)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), money.FromCents(100), feb.Expense)
}

func (suite *SummaryTestSuite) TestMonthlyTotalsRejectsBadMonth() {
	_, err := suite.engine.MonthlyTotals(suite.ctx, suite.userID, 2024, 13)
	assert.ErrorIs(suite.T(), err, models.ErrInvalidDate)
}

func (suite *SummaryTestSuite) TestCategorySharesOrderAndPercent() {
	march := models.MonthRange(2024, time.March)
	suite.add(3000, "Travel", models.Expense, models.NewDate(2024, time.March, 1))
	suite.add(1000, "Health", models.Expense, models.NewDate(2024, time.March, 2))
	suite.add(5000, "Wage", models.Income, models.NewDate(2024, time.March, 3))

	shares, err := suite.engine.CategoryShares(suite.ctx, suite.userID, models.Expense, march)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), shares, 2)
	assert.Equal(suite.T(), "Travel", shares[0].Category)
	assert.InDelta(suite.T(), 75.0, shares[0].Percent, 0.001)
	assert.Equal(suite.T(), 1, shares[1].Count)

	income, err := suite.engine.CategoryBreakdown(suite.ctx, suite.userID, models.Income, march)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]money.Amount{"Wage": money.FromCents(5000)}, income)
}

func (suite *SummaryTestSuite) TestCategoryBreakdownRejectsUnknownType() {
	_, err := suite.engine.CategoryBreakdown(suite.ctx, suite.userID, "Transfer", models.MonthRange(2024, time.March))
	assert.ErrorIs(suite.T(), err, models.ErrInvalidCategory)
}

func (suite *SummaryTestSuite) TestYearToDateBreakdown() {
	suite.add(100, "Travel", models.Expense, models.NewDate(2023, time.December, 31))
	suite.add(200, "Travel", models.Expense, models.NewDate(2024, time.January, 1))
	suite.add(300, "Health", models.Expense, models.NewDate(2024, time.March, 20))
	suite.add(400, "Health", models.Expense, models.NewDate(2024, time.March, 21))

	ytd, err := suite.engine.YearToDateBreakdown(suite.ctx, suite.userID, models.Expense)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), map[string]money.Amount{
		"Travel": money.FromCents(200),
		"Health": money.FromCents(300),
	}, ytd)
}

func (suite *SummaryTestSuite) TestEmptyBreakdown() {
	ytd, err := suite.engine.YearToDateBreakdown(suite.ctx, suite.userID, models.Income)
	require.NoError(suite.T(), err)
	assert.Empty(suite.T(), ytd)
}

func (suite *SummaryTestSuite) TestDashboard() {
	require.NoError(suite.T(), suite.ledger.UpsertBudget(suite.ctx, suite.userID, "Dining Out", money.FromCents(10000)))
	suite.add(4500, "Dining Out", models.Expense, models.NewDate(2024, time.March, 5))
	suite.add(300000, "Wage", models.Income, models.NewDate(2024, time.March, 1))
	suite.add(999, "Travel", models.Expense, models.NewDate(2024, time.February, 10))
	for d := 10; d < 15; d++ {
		suite.add(100, "Health", models.Expense, models.NewDate(2024, time.March, d))
	}

	dash, err := suite.engine.Dashboard(suite.ctx, suite.userID)
	require.NoError(suite.T(), err)

	assert.Equal(suite.T(), "2024-03-01..2024-03-31", dash.Period.String())
	assert.Equal(suite.T(), money.FromCents(300000), dash.Totals.Income)
	assert.Equal(suite.T(), money.FromCents(5000), dash.Totals.Expense)
	assert.Equal(suite.T(), money.FromCents(295000), dash.Balance)
	assert.Equal(suite.T(), money.FromCents(5000), dash.Budget.Remaining)
	assert.Equal(suite.T(), money.FromCents(500), dash.Breakdown["Health"])
	require.Len(suite.T(), dash.Recent, RecentLimit)
	assert.Equal(suite.T(), "2024-03-14", dash.Recent[0].Date.String())
}

func TestSummarySuite(t *testing.T) {
	suite.Run(t, new(SummaryTestSuite))
}

func TestMonth(t *testing.T) {
	r, err := Month(2023, time.February)
	require.NoError(t, err)
	assert.Equal(t, "2023-02-28", r.To.String())

	_, err = Month(2023, 0)
	assert.ErrorIs(t, err, models.ErrInvalidDate)
}

func TestTotalsOf(t *testing.T) {
	txs := []models.Transaction{
		{Amount: money.FromCents(1000), Type: models.Income},
		{Amount: money.FromCents(250), Type: models.Expense},
		{Amount: money.FromCents(50), Type: models.Expense},
	}
	got := TotalsOf(txs)
	assert.Equal(t, Totals{Income: money.FromCents(1000), Expense: money.FromCents(300)}, got)
	assert.Equal(t, money.FromCents(700), got.Balance())
}
