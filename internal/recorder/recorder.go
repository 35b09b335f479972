package recorder

import "StakeBanner/internal/model"

// Recorder persists refresh history for later analysis.
type Recorder interface {
	RecordReport(r *model.Report) error
	Close() error
}
