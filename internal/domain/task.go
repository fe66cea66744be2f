package domain

import "strings"

// TaskStatus enumerates the lifecycle states reported by the image job API.
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "PENDING"
	TaskStatusSuccess   TaskStatus = "SUCCESS"
	TaskStatusFailed    TaskStatus = "FAILED"
	TaskStatusCancelled TaskStatus = "CANCELLED"
	TaskStatusUnknown   TaskStatus = "UNKNOWN"
)

// GenerationTask is the client's read-only view of a remote generation job.
type GenerationTask struct {
	RequestID string
	Status    TaskStatus
}

// ParseTaskStatus maps the provider's free-form status strings onto TaskStatus.
func ParseTaskStatus(raw string) TaskStatus {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case "SUCCESS", "COMPLETED", "SUCCEEDED", "SUCCEED":
		return TaskStatusSuccess
	case "FAILED", "FAILURE", "ERROR":
		return TaskStatusFailed
	case "CANCELLED", "CANCELED":
		return TaskStatusCancelled
	case "PENDING", "QUEUED", "SUBMITTED", "RUNNING", "PROCESSING", "IN_PROGRESS":
		return TaskStatusPending
	default:
		return TaskStatusUnknown
	}
}

// Succeeded reports whether the job produced an asset.
func (s TaskStatus) Succeeded() bool {
	return s == TaskStatusSuccess
}

// Failed reports whether the job ended without an asset.
func (s TaskStatus) Failed() bool {
	return s == TaskStatusFailed || s == TaskStatusCancelled
}

// Terminal reports whether no further transition can occur.
func (s TaskStatus) Terminal() bool {
	return s.Succeeded() || s.Failed()
}
