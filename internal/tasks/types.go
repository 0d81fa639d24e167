package tasks

import "time"

// Task types
const (
	// Hourly sweep of abandoned temp uploads
	TaskTypeTempSweep = "uploads:temp_sweep"
)

// Task queues
const (
	QueueCritical = "critical" // time-sensitive work
	QueueDefault  = "default"  // regular tasks
	QueueLow      = "low"      // background cleanup
)

// Task timeouts
const (
	TimeoutShort  = 1 * time.Minute
	TimeoutMedium = 5 * time.Minute
	TimeoutLong   = 30 * time.Minute
)

// Task retry settings
const (
	RetryMax     = 5
	RetryDefault = 3
	RetryMin     = 1
)
