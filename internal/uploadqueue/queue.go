// Package uploadqueue tracks per-file upload state for the admin uploader.
// It is a pure state-transition module: every mutation returns a new queue
// slice and only the matching item is replaced.
package uploadqueue

import (
	"fmt"
	"time"
)

// Status is the lifecycle state of one queued file
type Status string

const (
	StatusQueued    Status = "queued"
	StatusUploading Status = "uploading"
	StatusSuccess   Status = "success"
	StatusError     Status = "error"
)

// Item is one file's upload state. Progress is in [0,1].
type Item struct {
	ID           string
	Filename     string
	Size         int64
	Status       Status
	Progress     float64
	UploadedPath string
	ErrorReason  string
}

// File describes a file being enqueued
type File struct {
	Name string
	Size int64
}

// New builds one queued item per file. Item ids combine timestamp, index,
// filename and size, which is collision-resistant within a single session.
func New(files []File) []Item {
	now := time.Now().UnixMilli()
	items := make([]Item, len(files))
	for i, f := range files {
		items[i] = Item{
			ID:       fmt.Sprintf("%d-%d-%s-%d", now, i, f.Name, f.Size),
			Filename: f.Name,
			Size:     f.Size,
			Status:   StatusQueued,
		}
	}
	return items
}

// SetProgress updates one item's progress, clamping the value to [0,1]
func SetProgress(queue []Item, id string, value float64, status Status) []Item {
	if value < 0 {
		value = 0
	}
	if value > 1 {
		value = 1
	}
	return replace(queue, id, func(item Item) Item {
		item.Progress = value
		item.Status = status
		return item
	})
}

// MarkSuccess transitions an item to its terminal success state
func MarkSuccess(queue []Item, id, uploadedPath string) []Item {
	return replace(queue, id, func(item Item) Item {
		item.Status = StatusSuccess
		item.Progress = 1
		item.UploadedPath = uploadedPath
		item.ErrorReason = ""
		return item
	})
}

// MarkError records a failure, preserving the last observed progress
func MarkError(queue []Item, id, reason string) []Item {
	return replace(queue, id, func(item Item) Item {
		item.Status = StatusError
		item.ErrorReason = reason
		return item
	})
}

// Requeue moves an item back to queued for a manual retry. This is the only
// backward transition in the state machine.
func Requeue(queue []Item, id string) []Item {
	return replace(queue, id, func(item Item) Item {
		item.Status = StatusQueued
		item.Progress = 0
		item.ErrorReason = ""
		return item
	})
}

// RetryTargets returns every item currently in the error state
func RetryTargets(queue []Item) []Item {
	var targets []Item
	for _, item := range queue {
		if item.Status == StatusError {
			targets = append(targets, item)
		}
	}
	return targets
}

// Summary holds queue-wide progress counters
type Summary struct {
	TotalCount     int
	SuccessCount   int
	FailureCount   int
	UploadingCount int
	TotalProgress  float64
}

// Summarize computes queue-wide counters. TotalProgress is the mean of
// per-item progress, zero for an empty queue.
func Summarize(queue []Item) Summary {
	s := Summary{TotalCount: len(queue)}
	if len(queue) == 0 {
		return s
	}

	var progressSum float64
	for _, item := range queue {
		progressSum += item.Progress
		switch item.Status {
		case StatusSuccess:
			s.SuccessCount++
		case StatusError:
			s.FailureCount++
		case StatusUploading:
			s.UploadingCount++
		}
	}
	s.TotalProgress = progressSum / float64(len(queue))
	return s
}

func replace(queue []Item, id string, fn func(Item) Item) []Item {
	out := make([]Item, len(queue))
	for i, item := range queue {
		if item.ID == id {
			out[i] = fn(item)
		} else {
			out[i] = item
		}
	}
	return out
}
