package domain

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func passThrough(_ context.Context, combo Combination) (CaseResult, error) {
	return CaseResult{Selection: combo, Status: CasePass}, nil
}

func makeCombos(n int) []Combination {
	combos := make([]Combination, n)
	for i := range combos {
		combos[i] = Combination{"size": "A4"}
	}
	return combos
}

func TestRunPassThroughTalliesAllPassed(t *testing.T) {
	combos := Enumerate(threeSets())

	sum, err := Run(context.Background(), combos, passThrough, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 12, Passed: 12}, sum)
}

func TestRunBatchesToSink(t *testing.T) {
	var batches [][]CaseResult
	sink := func(_ context.Context, batch []CaseResult) error {
		copied := make([]CaseResult, len(batch))
		copy(copied, batch)
		batches = append(batches, copied)
		return nil
	}

	sum, err := Run(context.Background(), makeCombos(7), passThrough, sink, 3)
	require.NoError(t, err)
	assert.Equal(t, 7, sum.Total)
	require.Len(t, batches, 3, "3+3+1")
	assert.Len(t, batches[0], 3)
	assert.Len(t, batches[1], 3)
	assert.Len(t, batches[2], 1)
}

func TestRunExactBatchBoundary(t *testing.T) {
	var batches int
	sink := func(_ context.Context, batch []CaseResult) error {
		batches++
		assert.Len(t, batch, 3)
		return nil
	}

	_, err := Run(context.Background(), makeCombos(6), passThrough, sink, 3)
	require.NoError(t, err)
	assert.Equal(t, 2, batches)
}

func TestRunClassification(t *testing.T) {
	statuses := []CaseStatus{CasePass, CaseWarn, CaseError, CasePass}
	i := 0
	evaluate := func(_ context.Context, combo Combination) (CaseResult, error) {
		res := CaseResult{Selection: combo, Status: statuses[i]}
		i++
		return res, nil
	}

	sum, err := Run(context.Background(), makeCombos(4), evaluate, nil, 0)
	require.NoError(t, err)
	assert.Equal(t, Summary{Total: 4, Passed: 2, Warned: 1, Errored: 1}, sum)
}

func TestRunSinkErrorAbortsButKeepsTally(t *testing.T) {
	sinkErr := errors.New("storage down")
	calls := 0
	sink := func(_ context.Context, _ []CaseResult) error {
		calls++
		if calls == 2 {
			return sinkErr
		}
		return nil
	}

	sum, err := Run(context.Background(), makeCombos(9), passThrough, sink, 3)
	assert.ErrorIs(t, err, sinkErr)
	assert.Equal(t, 6, sum.Total, "first batch persisted, second in flight")
}

func TestRunEvaluatorErrorAborts(t *testing.T) {
	evalErr := errors.New("bad rule data")
	i := 0
	evaluate := func(_ context.Context, combo Combination) (CaseResult, error) {
		i++
		if i == 3 {
			return CaseResult{}, evalErr
		}
		return CaseResult{Selection: combo, Status: CasePass}, nil
	}

	sum, err := Run(context.Background(), makeCombos(5), evaluate, nil, 0)
	assert.ErrorIs(t, err, evalErr)
	assert.Equal(t, 2, sum.Total)
}

func TestRunCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	i := 0
	evaluate := func(_ context.Context, combo Combination) (CaseResult, error) {
		i++
		if i == 4 {
			cancel()
		}
		return CaseResult{Selection: combo, Status: CasePass}, nil
	}

	sum, err := Run(ctx, makeCombos(100), evaluate, nil, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 4, sum.Total, "stops at the next case after cancel")
}
