package storage

import (
	"path/filepath"
	"testing"
	"time"

	"finspeak/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

// StoreTestSuite provides a test suite for record store operations
type StoreTestSuite struct {
	suite.Suite
	store *Store
}

// SetupTest runs before each test
func (suite *StoreTestSuite) SetupTest() {
	store, err := NewStore(":memory:")
	require.NoError(suite.T(), err, "failed to create test store")
	suite.store = store
}

// TearDownTest runs after each test
func (suite *StoreTestSuite) TearDownTest() {
	if suite.store != nil {
		suite.store.Close()
	}
}

func (suite *StoreTestSuite) TestAddExpenseRoundTrip() {
	e, err := models.NewExpense(500, models.CategoryFood)
	require.NoError(suite.T(), err)

	err = suite.store.AddExpense(e)
	require.NoError(suite.T(), err)

	expenses := suite.store.ListExpenses()
	require.Len(suite.T(), expenses, 1)
	assert.Equal(suite.T(), e.ID, expenses[0].ID)
	assert.Equal(suite.T(), 500.0, expenses[0].Amount)
	assert.Equal(suite.T(), models.CategoryFood, expenses[0].Category)
}

func (suite *StoreTestSuite) TestListExpensesOrderedByDateDesc() {
	base := time.Now().UTC()

	for i, amount := range []float64{10, 20, 30} {
		e, err := models.NewExpense(amount, models.CategoryOther)
		require.NoError(suite.T(), err)
		e.Date = base.Add(time.Duration(i) * time.Minute)
		require.NoError(suite.T(), suite.store.AddExpense(e))
	}

	expenses := suite.store.ListExpenses()
	require.Len(suite.T(), expenses, 3)
	assert.Equal(suite.T(), 30.0, expenses[0].Amount, "latest expense should come first")
	assert.Equal(suite.T(), 10.0, expenses[2].Amount)
}

func (suite *StoreTestSuite) TestReplaceExpenses() {
	first, err := models.NewExpense(100, models.CategoryBills)
	require.NoError(suite.T(), err)
	second, err := models.NewExpense(200, models.CategoryTravel)
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.store.AddExpense(first))
	require.NoError(suite.T(), suite.store.AddExpense(second))

	// Overwrite keeping only the second record
	err = suite.store.ReplaceExpenses([]models.Expense{second})
	require.NoError(suite.T(), err)

	expenses := suite.store.ListExpenses()
	require.Len(suite.T(), expenses, 1)
	assert.Equal(suite.T(), second.ID, expenses[0].ID)
}

func (suite *StoreTestSuite) TestGoals() {
	g, err := models.NewGoal("Vacation", 2000, time.Now().Add(90*24*time.Hour))
	require.NoError(suite.T(), err)

	require.NoError(suite.T(), suite.store.AddGoal(g))

	g.CurrentAmount = 2500 // may exceed the target
	require.NoError(suite.T(), suite.store.UpdateGoal(g))

	goals := suite.store.ListGoals()
	require.Len(suite.T(), goals, 1)
	assert.Equal(suite.T(), 2500.0, goals[0].CurrentAmount)
}

func (suite *StoreTestSuite) TestUpdateGoalNotFound() {
	g, err := models.NewGoal("Car", 5000, time.Now().Add(time.Hour))
	require.NoError(suite.T(), err)

	err = suite.store.UpdateGoal(g)
	assert.ErrorIs(suite.T(), err, ErrNotFound)
}

func (suite *StoreTestSuite) TestProfileDefaultsAndUpdate() {
	// Fresh store serves the default profile
	p := suite.store.Profile()
	assert.Equal(suite.T(), models.DefaultProfile(), p)

	p.Name = "Jordan"
	p.MonthlyIncome = 50000
	require.NoError(suite.T(), suite.store.SaveProfile(p))

	got := suite.store.Profile()
	assert.Equal(suite.T(), "Jordan", got.Name)
	assert.Equal(suite.T(), 50000.0, got.MonthlyIncome)
}

func TestStoreSuite(t *testing.T) {
	suite.Run(t, new(StoreTestSuite))
}

func TestStoreReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "finspeak.db")

	store, err := NewStore(path)
	require.NoError(t, err)

	e, err := models.NewExpense(42, models.CategoryShopping)
	require.NoError(t, err)
	require.NoError(t, store.AddExpense(e))

	p := store.Profile()
	p.MonthlyIncome = 1000
	require.NoError(t, store.SaveProfile(p))
	require.NoError(t, store.Close())

	// Records survive a reopen
	reopened, err := NewStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	expenses := reopened.ListExpenses()
	require.Len(t, expenses, 1)
	assert.Equal(t, e.ID, expenses[0].ID)
	assert.Equal(t, 1000.0, reopened.Profile().MonthlyIncome)
}
