package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/bnema/shrink/internal/domain"
)

type MockVideoTranscoder struct {
	mock.Mock
}

func (m *MockVideoTranscoder) EncodeVideo(ctx context.Context, job domain.VideoJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

type MockMediaProber struct {
	mock.Mock
}

func (m *MockMediaProber) ProbeFormat(ctx context.Context, path string) (*domain.ProbeResult, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ProbeResult), args.Error(1)
}

func (m *MockMediaProber) VideoHeight(ctx context.Context, path string) (int, error) {
	args := m.Called(ctx, path)
	return args.Int(0), args.Error(1)
}

type MockToolChecker struct {
	mock.Mock
}

func (m *MockToolChecker) CheckTools(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

type MockImageTranscoder struct {
	mock.Mock
}

func (m *MockImageTranscoder) EncodeImage(job domain.ImageJob) error {
	args := m.Called(job)
	return args.Error(0)
}

type MockExifReader struct {
	mock.Mock
}

func (m *MockExifReader) DateTaken(path string) (string, error) {
	args := m.Called(path)
	return args.String(0), args.Error(1)
}

type MockFileTimes struct {
	mock.Mock
}

func (m *MockFileTimes) Read(path string) (domain.TimestampTriple, error) {
	args := m.Called(path)
	return args.Get(0).(domain.TimestampTriple), args.Error(1)
}

func (m *MockFileTimes) SetTimes(path string, accessed, modified time.Time) error {
	args := m.Called(path, accessed, modified)
	return args.Error(0)
}

type MockCreationTimeSetter struct {
	mock.Mock
}

func (m *MockCreationTimeSetter) SetCreationTime(path string, t time.Time) error {
	args := m.Called(path, t)
	return args.Error(0)
}

func (m *MockCreationTimeSetter) Supported() bool {
	args := m.Called()
	return args.Bool(0)
}

type MockDateSource struct {
	mock.Mock
}

func (m *MockDateSource) CreationInstant(ctx context.Context, path string, class domain.MediaClass) (time.Time, bool) {
	args := m.Called(ctx, path, class)
	return args.Get(0).(time.Time), args.Bool(1)
}

type MockTimestampApplier struct {
	mock.Mock
}

func (m *MockTimestampApplier) Apply(ctx context.Context, src domain.SourceFile, destPath string, settings domain.EncodeSettings) {
	m.Called(ctx, src, destPath, settings)
}

type MockRunRecorder struct {
	mock.Mock
}

func (m *MockRunRecorder) StartRun(ctx context.Context, r *domain.RunRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRunRecorder) FinishRun(ctx context.Context, r *domain.RunRecord) error {
	args := m.Called(ctx, r)
	return args.Error(0)
}

func (m *MockRunRecorder) ListRuns(ctx context.Context, limit int) ([]*domain.RunRecord, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.RunRecord), args.Error(1)
}

type MockBatchMetrics struct {
	mock.Mock
}

func (m *MockBatchMetrics) ObserveFile(r domain.ProcessingResult) {
	m.Called(r)
}

func (m *MockBatchMetrics) ObserveRun(s domain.Summary) {
	m.Called(s)
}

func (m *MockBatchMetrics) Flush() error {
	args := m.Called()
	return args.Error(0)
}
