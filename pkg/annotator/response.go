package annotator

import (
	"errors"
	"fmt"
	"time"
)

// Response is the value every request returns, successful or not.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`

	Count        int    `json:"count"`
	TotalMatches int    `json:"totalMatches,omitempty"`
	MatchedBy    string `json:"matchedBy,omitempty"`
	AutoScrolled bool   `json:"autoScrolled,omitempty"`
	// Degraded counts visuals placed with a fallback position.
	Degraded int      `json:"degraded,omitempty"`
	IDs      []string `json:"ids,omitempty"`

	Selector string `json:"selector,omitempty"`
	Text     string `json:"text,omitempty"`
	Label    string `json:"label,omitempty"`
	Comment  string `json:"comment,omitempty"`
	Position string `json:"position,omitempty"`
	Color    string `json:"color,omitempty"`
	Style    string `json:"style,omitempty"`

	// RemovedCount is set by Clear.
	RemovedCount int `json:"removedCount,omitempty"`

	// Timestamp is the completion time in Unix milliseconds.
	Timestamp int64 `json:"timestamp,omitempty"`

	Duplicate    bool  `json:"duplicate,omitempty"`
	LastExecuted int64 `json:"lastExecuted,omitempty"`

	Suggestions []string  `json:"suggestions,omitempty"`
	ErrorKind   ErrorKind `json:"errorKind,omitempty"`
	Error       string    `json:"error,omitempty"`
}

// Err rebuilds the classified error of a failed response, or nil.
func (r Response) Err() error {
	if r.Success {
		return nil
	}
	return &Error{Kind: r.ErrorKind, Message: r.Message}
}

func unixMillis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// fail fills resp from err.
func fail(resp Response, err error) Response {
	resp.Success = false
	resp.Count = 0

	var e *Error
	if !errors.As(err, &e) {
		e = runtimeFault("annotation failed", err)
	}
	resp.ErrorKind = e.Kind

	switch e.Kind {
	case KindDuplicate:
		resp.Message = "The same annotation was just applied; try again shortly"
		resp.Duplicate = true
		resp.LastExecuted = unixMillis(e.LastExecuted)
	case KindNoMatch:
		resp.Message = e.Message
		resp.Suggestions = e.Suggestions
	case KindRuntimeFault:
		resp.Message = fmt.Sprintf("Annotation failed: %s", e.Error())
		resp.Error = e.Error()
	default:
		resp.Message = e.Error()
	}
	return resp
}
