package uploadqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testQueue() []Item {
	return New([]File{
		{Name: "a.jpg", Size: 100},
		{Name: "b.jpg", Size: 200},
		{Name: "c.jpg", Size: 300},
	})
}

func TestNew(t *testing.T) {
	t.Run("creates one queued item per file", func(t *testing.T) {
		queue := testQueue()

		require.Len(t, queue, 3)
		for _, item := range queue {
			assert.Equal(t, StatusQueued, item.Status)
			assert.Zero(t, item.Progress)
		}
	})

	t.Run("generates distinct ids for identical files", func(t *testing.T) {
		queue := New([]File{
			{Name: "same.jpg", Size: 100},
			{Name: "same.jpg", Size: 100},
		})

		assert.NotEqual(t, queue[0].ID, queue[1].ID)
	})
}

func TestSetProgress(t *testing.T) {
	t.Run("replaces only the matching item", func(t *testing.T) {
		queue := testQueue()

		updated := SetProgress(queue, queue[1].ID, 0.5, StatusUploading)

		assert.Equal(t, StatusQueued, updated[0].Status)
		assert.Equal(t, 0.5, updated[1].Progress)
		assert.Equal(t, StatusUploading, updated[1].Status)
		assert.Equal(t, StatusQueued, updated[2].Status)
	})

	t.Run("does not mutate the input queue", func(t *testing.T) {
		queue := testQueue()

		SetProgress(queue, queue[0].ID, 0.9, StatusUploading)

		assert.Zero(t, queue[0].Progress)
	})

	t.Run("clamps progress to the unit interval", func(t *testing.T) {
		queue := testQueue()

		updated := SetProgress(queue, queue[0].ID, 1.7, StatusUploading)
		assert.Equal(t, 1.0, updated[0].Progress)

		updated = SetProgress(queue, queue[0].ID, -0.3, StatusUploading)
		assert.Equal(t, 0.0, updated[0].Progress)
	})
}

func TestTerminalTransitions(t *testing.T) {
	t.Run("success sets full progress and clears the error", func(t *testing.T) {
		queue := testQueue()
		queue = MarkError(queue, queue[0].ID, "network down")

		queue = MarkSuccess(queue, queue[0].ID, "2026/02/a.jpg")

		assert.Equal(t, StatusSuccess, queue[0].Status)
		assert.Equal(t, 1.0, queue[0].Progress)
		assert.Equal(t, "2026/02/a.jpg", queue[0].UploadedPath)
		assert.Empty(t, queue[0].ErrorReason)
	})

	t.Run("error preserves last progress", func(t *testing.T) {
		queue := testQueue()
		queue = SetProgress(queue, queue[0].ID, 0.7, StatusUploading)

		queue = MarkError(queue, queue[0].ID, "timeout")

		assert.Equal(t, StatusError, queue[0].Status)
		assert.Equal(t, 0.7, queue[0].Progress)
		assert.Equal(t, "timeout", queue[0].ErrorReason)
	})

	t.Run("requeue is the only backward transition", func(t *testing.T) {
		queue := testQueue()
		queue = MarkError(queue, queue[0].ID, "timeout")

		queue = Requeue(queue, queue[0].ID)

		assert.Equal(t, StatusQueued, queue[0].Status)
		assert.Zero(t, queue[0].Progress)
		assert.Empty(t, queue[0].ErrorReason)
	})
}

func TestRetryTargets(t *testing.T) {
	queue := testQueue()
	queue = MarkSuccess(queue, queue[0].ID, "2026/02/a.jpg")
	queue = MarkError(queue, queue[1].ID, "timeout")
	queue = MarkError(queue, queue[2].ID, "server error")

	targets := RetryTargets(queue)

	require.Len(t, targets, 2)
	assert.Equal(t, "b.jpg", targets[0].Filename)
	assert.Equal(t, "c.jpg", targets[1].Filename)
}

func TestSummarize(t *testing.T) {
	t.Run("empty queue summarizes to zeros", func(t *testing.T) {
		s := Summarize(nil)

		assert.Zero(t, s.TotalCount)
		assert.Zero(t, s.TotalProgress)
	})

	t.Run("counts states and averages progress", func(t *testing.T) {
		queue := testQueue()
		queue = MarkSuccess(queue, queue[0].ID, "2026/02/a.jpg")
		queue = SetProgress(queue, queue[1].ID, 0.5, StatusUploading)
		queue = MarkError(queue, queue[2].ID, "timeout")

		s := Summarize(queue)

		assert.Equal(t, 3, s.TotalCount)
		assert.Equal(t, 1, s.SuccessCount)
		assert.Equal(t, 1, s.FailureCount)
		assert.Equal(t, 1, s.UploadingCount)
		assert.InDelta(t, 0.5, s.TotalProgress, 1e-9)
	})
}
