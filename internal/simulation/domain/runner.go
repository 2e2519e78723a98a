package domain

import "context"

// CaseStatus classifies one evaluated combination.
type CaseStatus string

const (
	CasePass  CaseStatus = "pass"
	CaseWarn  CaseStatus = "warn"
	CaseError CaseStatus = "error"
)

// CaseResult is one combination's outcome.
type CaseResult struct {
	Selection  Combination
	Status     CaseStatus
	TotalPrice int64
	Message    string
}

// EvaluateFunc prices and validates one combination. Pluggable so callers
// without full pricing data can run a pass-through evaluator.
type EvaluateFunc func(ctx context.Context, combo Combination) (CaseResult, error)

// SinkFunc receives completed result batches for persistence. A sink error
// aborts the run; batches already sunk stay persisted.
type SinkFunc func(ctx context.Context, batch []CaseResult) error

// Summary is the running tally of a run.
type Summary struct {
	Total   int `json:"total"`
	Passed  int `json:"passed"`
	Warned  int `json:"warned"`
	Errored int `json:"errored"`
}

func (s *Summary) add(status CaseStatus) {
	s.Total++
	switch status {
	case CasePass:
		s.Passed++
	case CaseWarn:
		s.Warned++
	case CaseError:
		s.Errored++
	}
}

// Run evaluates every combination in order, flushing results to the sink in
// batches of batchSize. Cancellation is cooperative: the context is checked
// per case, and a cancelled run returns the tally of what completed along
// with ctx.Err(). The summary always reflects exactly the cases handed to
// the sink plus the in-flight batch at failure time.
func Run(ctx context.Context, combos []Combination, evaluate EvaluateFunc, sink SinkFunc, batchSize int) (Summary, error) {
	if batchSize <= 0 {
		batchSize = len(combos)
	}

	var sum Summary
	batch := make([]CaseResult, 0, batchSize)

	flush := func() error {
		if len(batch) == 0 || sink == nil {
			return nil
		}
		if err := sink(ctx, batch); err != nil {
			return err
		}
		batch = batch[:0]
		return nil
	}

	for _, combo := range combos {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		res, err := evaluate(ctx, combo)
		if err != nil {
			return sum, err
		}
		sum.add(res.Status)
		batch = append(batch, res)
		if len(batch) >= batchSize {
			if err := flush(); err != nil {
				return sum, err
			}
		}
	}
	if err := flush(); err != nil {
		return sum, err
	}
	return sum, nil
}
