package badger

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/Layr-Labs/sui-operator-go/pkg/logger"
	"github.com/Layr-Labs/sui-operator-go/pkg/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var baseTime = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func newTestPersistence(t *testing.T, dir string) *BadgerPersistence {
	t.Helper()
	testLogger, _ := logger.NewLogger(&logger.LoggerConfig{Debug: false})
	bp, err := NewBadgerPersistence(dir, testLogger)
	require.NoError(t, err)
	return bp
}

func TestBadgerPersistence_SaveAndLoadLease(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	lease := &persistence.LeaseState{
		Owner:        "0xowner",
		CoinObjectID: "0xcoin",
		ExpiresAt:    baseTime.Add(5 * time.Minute),
		UpdatedAt:    baseTime,
	}
	require.NoError(t, bp.SaveLease(lease))

	loaded, err := bp.LoadLease("0xowner")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, lease.CoinObjectID, loaded.CoinObjectID)
	assert.True(t, lease.ExpiresAt.Equal(loaded.ExpiresAt))

	// Overwrite
	lease.CoinObjectID = "0xcoin2"
	require.NoError(t, bp.SaveLease(lease))
	loaded, err = bp.LoadLease("0xowner")
	require.NoError(t, err)
	assert.Equal(t, "0xcoin2", loaded.CoinObjectID)
}

func TestBadgerPersistence_LoadLease_NotFound(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	loaded, err := bp.LoadLease("0xnobody")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestBadgerPersistence_SaveLease_Nil(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	err := bp.SaveLease(nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nil LeaseState")
}

func TestBadgerPersistence_DeleteLease(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	require.NoError(t, bp.SaveLease(&persistence.LeaseState{Owner: "0xowner", CoinObjectID: "0xcoin"}))
	require.NoError(t, bp.DeleteLease("0xowner"))

	loaded, err := bp.LoadLease("0xowner")
	require.NoError(t, err)
	assert.Nil(t, loaded)

	// Idempotent
	require.NoError(t, bp.DeleteLease("0xowner"))
}

func TestBadgerPersistence_Executions(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	first := persistence.NewExecutionRecord("0xa", "d1", baseTime.Add(time.Second))
	first.ImmutableObjects = []string{"0xpkg"}
	second := persistence.NewExecutionRecord("0xa", "d2", baseTime)
	// shares a prefix with 0xa and must not leak into its listing
	other := persistence.NewExecutionRecord("0xab", "d3", baseTime)

	for _, r := range []*persistence.ExecutionRecord{first, second, other} {
		require.NoError(t, bp.SaveExecution(r))
	}

	loaded, err := bp.LoadExecution(first.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, []string{"0xpkg"}, loaded.ImmutableObjects)

	list, err := bp.ListExecutions("0xa")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "d2", list[0].Digest)
	assert.Equal(t, "d1", list[1].Digest)

	list, err = bp.ListExecutions("0xab")
	require.NoError(t, err)
	require.Len(t, list, 1)

	empty, err := bp.ListExecutions("0xnobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	missing, err := bp.LoadExecution("missing")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestBadgerPersistence_Close(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())

	require.NoError(t, bp.Close())

	// Operations after close should fail
	err := bp.SaveLease(&persistence.LeaseState{Owner: "0xowner"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")

	_, err = bp.LoadLease("0xowner")
	require.Error(t, err)

	err = bp.SaveExecution(persistence.NewExecutionRecord("0xowner", "d", baseTime))
	require.Error(t, err)

	// Second close should also succeed
	require.NoError(t, bp.Close())
}

func TestBadgerPersistence_HealthCheck(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	require.NoError(t, bp.HealthCheck())

	require.NoError(t, bp.Close())
	err := bp.HealthCheck()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "closed")
}

func TestBadgerPersistence_ThreadSafety(t *testing.T) {
	bp := newTestPersistence(t, t.TempDir())
	defer func() { _ = bp.Close() }()

	var wg sync.WaitGroup
	numGoroutines := 10
	numOperations := 50

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			owner := fmt.Sprintf("0x%02d", id)
			for j := 0; j < numOperations; j++ {
				assert.NoError(t, bp.SaveLease(&persistence.LeaseState{Owner: owner, CoinObjectID: fmt.Sprintf("0xc%d", j)}))
				assert.NoError(t, bp.SaveExecution(persistence.NewExecutionRecord(owner, fmt.Sprintf("d%d", j), baseTime)))
				_, err := bp.LoadLease(owner)
				assert.NoError(t, err)
			}
		}(i)
	}

	for i := 0; i < numGoroutines; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < numOperations; j++ {
				_, err := bp.ListExecutions(fmt.Sprintf("0x%02d", id))
				assert.NoError(t, err)
			}
		}(i)
	}

	wg.Wait()

	list, err := bp.ListExecutions("0x03")
	require.NoError(t, err)
	assert.Len(t, list, numOperations)
}

func TestBadgerPersistence_Persistence_AcrossRestarts(t *testing.T) {
	tmpDir := t.TempDir()

	bp1 := newTestPersistence(t, tmpDir)
	require.NoError(t, bp1.SaveLease(&persistence.LeaseState{
		Owner:        "0xowner",
		CoinObjectID: "0xcoin",
		ExpiresAt:    baseTime.Add(time.Minute),
	}))
	record := persistence.NewExecutionRecord("0xowner", "d1", baseTime)
	require.NoError(t, bp1.SaveExecution(record))
	require.NoError(t, bp1.Close())

	bp2 := newTestPersistence(t, tmpDir)
	defer func() { _ = bp2.Close() }()

	lease, err := bp2.LoadLease("0xowner")
	require.NoError(t, err)
	require.NotNil(t, lease)
	assert.Equal(t, "0xcoin", lease.CoinObjectID)

	list, err := bp2.ListExecutions("0xowner")
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, record.ID, list[0].ID)
}
