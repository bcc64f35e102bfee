package recorder

import "MVPScreener/internal/model"

// Recorder persists screening history for later analysis.
type Recorder interface {
	RecordRun(report *model.RunReport) error
	Close() error
}
