package pipeline

import (
	"bytes"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNoOpProgressCallback(t *testing.T) {
	callback := NoOpProgressCallback{}
	callback.OnStart(10)
	callback.OnProgress(5, 10)
	callback.OnComplete()
	callback.OnError(3, assert.AnError)
}

func TestConsoleProgressCallback(t *testing.T) {
	var buf bytes.Buffer
	callback := NewConsoleProgressCallback(&buf, "Test: ").WithWidth(10)

	callback.OnStart(10)
	assert.Contains(t, buf.String(), "Test: 0/10 (0.0%)")

	buf.Reset()
	callback.OnProgress(5, 10)
	output := buf.String()
	assert.Contains(t, output, "[#####.....]")
	assert.Contains(t, output, "5/10")
	assert.Contains(t, output, "50.0%")

	buf.Reset()
	callback.OnComplete()
	assert.Contains(t, buf.String(), "Test: Completed")

	buf.Reset()
	callback.OnError(3, assert.AnError)
	assert.Contains(t, buf.String(), "Test: Error at text 3")
}

func TestConsoleProgressCallback_Rate(t *testing.T) {
	var buf bytes.Buffer
	callback := NewConsoleProgressCallback(&buf, "").WithUpdateInterval(time.Millisecond)

	callback.OnStart(10)
	time.Sleep(5 * time.Millisecond)

	buf.Reset()
	callback.OnProgress(5, 10)
	assert.Contains(t, buf.String(), "texts/s")
}

func TestConsoleProgressCallback_UpdateThrottling(t *testing.T) {
	var buf bytes.Buffer
	callback := NewConsoleProgressCallback(&buf, "Test: ").
		WithUpdateInterval(time.Hour)

	callback.OnStart(10)

	buf.Reset()
	callback.OnProgress(1, 10)
	assert.NotEmpty(t, buf.String())

	buf.Reset()
	callback.OnProgress(2, 10)
	assert.Empty(t, buf.String())

	buf.Reset()
	callback.OnProgress(10, 10)
	assert.NotEmpty(t, buf.String(), "final update is never throttled")
}

func TestConsoleProgressCallback_ZeroTotal(t *testing.T) {
	var buf bytes.Buffer
	callback := NewConsoleProgressCallback(&buf, "")
	callback.OnStart(0)
	buf.Reset()
	callback.OnProgress(0, 0)
	assert.Empty(t, buf.String())
}

func TestLogProgressCallback(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	callback := NewLogProgressCallback(logger, slog.LevelInfo).WithInterval(2)

	callback.OnStart(10)
	assert.Contains(t, buf.String(), "Starting detection")
	assert.Contains(t, buf.String(), "total=10")

	buf.Reset()
	callback.OnProgress(1, 10)
	assert.Empty(t, buf.String())

	buf.Reset()
	callback.OnProgress(2, 10)
	assert.Contains(t, buf.String(), "Detection progress")
	assert.Contains(t, buf.String(), "current=2")

	buf.Reset()
	callback.OnProgress(3, 3)
	assert.Contains(t, buf.String(), "current=3")

	buf.Reset()
	callback.OnComplete()
	assert.Contains(t, buf.String(), "Detection completed")

	buf.Reset()
	callback.OnError(5, assert.AnError)
	assert.Contains(t, buf.String(), "level=ERROR")
	assert.Contains(t, buf.String(), "index=5")
}

func TestLogProgressCallback_DefaultLogger(t *testing.T) {
	callback := NewLogProgressCallback(nil, slog.LevelDebug)
	assert.NotNil(t, callback.logger)
	assert.Equal(t, 100, callback.interval)

	callback.WithInterval(0)
	assert.Equal(t, 100, callback.interval)
}

type recordingProgress struct {
	starts, completes int
	progress          [][2]int
	errors            []int
}

func (r *recordingProgress) OnStart(int)                   { r.starts++ }
func (r *recordingProgress) OnProgress(current, total int) { r.progress = append(r.progress, [2]int{current, total}) }
func (r *recordingProgress) OnComplete()                   { r.completes++ }
func (r *recordingProgress) OnError(index int, _ error)    { r.errors = append(r.errors, index) }

func TestMultiProgressCallback(t *testing.T) {
	a, b := &recordingProgress{}, &recordingProgress{}
	multi := NewMultiProgressCallback(a, b)

	multi.OnStart(2)
	multi.OnProgress(1, 2)
	multi.OnError(1, assert.AnError)
	multi.OnComplete()

	for _, r := range []*recordingProgress{a, b} {
		assert.Equal(t, 1, r.starts)
		assert.Equal(t, 1, r.completes)
		assert.Equal(t, [][2]int{{1, 2}}, r.progress)
		assert.Equal(t, []int{1}, r.errors)
	}
}
