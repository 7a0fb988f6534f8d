package port

import "github.com/bnema/shrink/internal/domain"

type BatchMetrics interface {
	ObserveFile(r domain.ProcessingResult)
	ObserveRun(s domain.Summary)
	Flush() error
}
