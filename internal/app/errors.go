package service

import "errors"

// Sentinel errors returned by Service.
var (
	ErrNotStarted    = errors.New("service not started")
	ErrQueueFull     = errors.New("report queue is full")
	ErrReportPending = errors.New("report is still being generated")
	ErrReportFailed  = errors.New("report generation failed")
)
