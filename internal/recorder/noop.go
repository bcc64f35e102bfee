package recorder

import "MVPScreener/internal/model"

// NoopRecorder is used when no history database is configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *model.RunReport) error { return nil }
func (n *NoopRecorder) Close() error                        { return nil }
