// pkg/pipeline/result.go
package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/retailops/ingress/pkg/model"
)

// Result accounts for one pipeline run
type Result struct {
	RunID     string    // Unique run identifier
	StartTime time.Time // Run start
	EndTime   time.Time // Run end
	Duration  time.Duration

	// Rows appended per layer
	RawTransactions   int64
	RawCatalog        int64
	CleanTransactions int64
	CleanCatalog      int64
	UnifiedRows       int64

	// Combined cleaning accounting over both feeds
	Cleaning model.CleaningStats

	// Number of reports exported
	ReportsExported int
}

// NewResult initializes a result for a fresh run
func NewResult() *Result {
	return &Result{
		RunID:     uuid.New().String(),
		StartTime: time.Now(),
	}
}

// Complete marks the run as finished and calculates duration
func (r *Result) Complete() {
	r.EndTime = time.Now()
	r.Duration = r.EndTime.Sub(r.StartTime)
}
