package ledger

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"sol-paper-ledger/internal/engine"
	"sol-paper-ledger/internal/models"
)

// mockStateRepository is a mock implementation of the StateRepository
// interface for testing.
type mockStateRepository struct {
	sync.Mutex
	savedState   *models.LedgerState
	saveCount    int
	loadState    *models.LedgerState
	loadError    error
	saveError    error
	saveDoneChan chan bool // signals every completed SaveState
}

func newMockStateRepository() *mockStateRepository {
	return &mockStateRepository{
		saveDoneChan: make(chan bool, 64),
	}
}

func (m *mockStateRepository) SaveState(state *models.LedgerState) error {
	m.Lock()
	defer m.Unlock()

	m.saveCount++
	m.savedState = state.Clone()
	m.saveDoneChan <- true
	return m.saveError
}

func (m *mockStateRepository) LoadState() (*models.LedgerState, error) {
	m.Lock()
	defer m.Unlock()
	if m.loadState == nil {
		return models.NewLedgerState(), m.loadError
	}
	return m.loadState.Clone(), m.loadError
}

func (m *mockStateRepository) Close() error { return nil }

func (m *mockStateRepository) getSavedState() *models.LedgerState {
	m.Lock()
	defer m.Unlock()
	return m.savedState
}

func (m *mockStateRepository) getSaveCount() int {
	m.Lock()
	defer m.Unlock()
	return m.saveCount
}

func newTestManager(t *testing.T, repo *mockStateRepository) *Manager {
	t.Helper()
	mgr, err := NewManager(repo, nil, zap.NewNop())
	require.NoError(t, err)
	mgr.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	mgr.Start()
	t.Cleanup(func() { mgr.Close() })
	return mgr
}

func waitForSave(t *testing.T, repo *mockStateRepository) {
	t.Helper()
	select {
	case <-repo.saveDoneChan:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for async SaveState call")
	}
}

func TestNewManagerLoadsPersistedState(t *testing.T) {
	repo := newMockStateRepository()
	persisted, err := engine.InitializeSession(models.NewLedgerState(), 42)
	require.NoError(t, err)
	repo.loadState = persisted

	mgr := newTestManager(t, repo)

	state := mgr.State()
	require.True(t, state.Initialized())
	assert.Equal(t, 42.0, state.Balance)
}

func TestApplyPersistsAsynchronously(t *testing.T) {
	repo := newMockStateRepository()
	mgr := newTestManager(t, repo)

	require.NoError(t, mgr.InitializeSession(10))

	waitForSave(t, repo)
	saved := repo.getSavedState()
	require.NotNil(t, saved)
	require.True(t, saved.Initialized())
	assert.Equal(t, 10.0, saved.Balance)
}

func TestRejectionLeavesStateUntouchedAndUnsaved(t *testing.T) {
	repo := newMockStateRepository()
	mgr := newTestManager(t, repo)

	require.NoError(t, mgr.InitializeSession(10))
	waitForSave(t, repo)
	savesBefore := repo.getSaveCount()

	_, err := mgr.OpenPosition("X", 1000, 11)
	assert.ErrorIs(t, err, engine.ErrInsufficientBalance)

	state := mgr.State()
	assert.Equal(t, 10.0, state.Balance)
	assert.Empty(t, state.Positions)
	assert.Equal(t, savesBefore, repo.getSaveCount(), "a rejected operation must not persist anything")
}

func TestOperationsRecordHistory(t *testing.T) {
	repo := newMockStateRepository()
	mgr := newTestManager(t, repo)

	require.NoError(t, mgr.InitializeSession(10))
	pos, err := mgr.OpenPosition("X", 1000, 2)
	require.NoError(t, err)
	require.NoError(t, mgr.MarkPosition(pos.ID, 1500))

	state := mgr.State()
	// init, open and mark each changed balance or open value.
	assert.Len(t, state.History, 3)

	require.NoError(t, mgr.ClearHistory())
	assert.Empty(t, mgr.State().History)
}

func TestSellForProceedsClosesPosition(t *testing.T) {
	repo := newMockStateRepository()
	mgr := newTestManager(t, repo)

	require.NoError(t, mgr.InitializeSession(10))
	pos, err := mgr.OpenPosition("X", 1000, 4)
	require.NoError(t, err)

	// At multiplier 2 the full value of the position is 8 SOL.
	closed, err := mgr.SellForProceeds(pos.ID, 2000, 8)
	require.NoError(t, err)
	require.True(t, closed.IsClosed())
	assert.Equal(t, 8.0, closed.TotalProceeds)
	assert.Equal(t, 4.0, closed.FinalPnl)

	state := mgr.State()
	assert.InDelta(t, 14.0, state.Balance, 1e-9)
}

func TestResetSession(t *testing.T) {
	repo := newMockStateRepository()
	mgr := newTestManager(t, repo)

	require.NoError(t, mgr.InitializeSession(10))
	_, err := mgr.OpenPosition("X", 1000, 2)
	require.NoError(t, err)

	require.NoError(t, mgr.ResetSession())

	state := mgr.State()
	assert.False(t, state.Initialized())
	assert.Empty(t, state.Positions)
	assert.Empty(t, state.History)

	// A fresh init is accepted again.
	assert.NoError(t, mgr.InitializeSession(5))
}

func TestStateReturnsDeepCopy(t *testing.T) {
	repo := newMockStateRepository()
	mgr := newTestManager(t, repo)

	require.NoError(t, mgr.InitializeSession(10))
	_, err := mgr.OpenPosition("X", 1000, 2)
	require.NoError(t, err)

	snapshot := mgr.State()
	snapshot.Balance = -999
	snapshot.Positions[0].Name = "tampered"

	fresh := mgr.State()
	assert.Equal(t, 8.0, fresh.Balance)
	assert.Equal(t, "X", fresh.Positions[0].Name)
}

func TestCloseWritesFinalState(t *testing.T) {
	repo := newMockStateRepository()
	mgr, err := NewManager(repo, nil, zap.NewNop())
	require.NoError(t, err)
	mgr.Start()

	require.NoError(t, mgr.InitializeSession(10))
	require.NoError(t, mgr.Close())

	saved := repo.getSavedState()
	require.NotNil(t, saved)
	assert.Equal(t, 10.0, saved.Balance)
}
