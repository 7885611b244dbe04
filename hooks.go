package schemachecker

import (
	"time"

	"github.com/bpkcongli/schema-checker/pkg/schema"
)

// Stage names one of the three checks.
type Stage string

const (
	StagePayload         Stage = "payload"
	StageMandatoryFields Stage = "mandatory_fields"
	StageSchema          Stage = "schema"
)

// CheckEvent describes the outcome of a single check.
type CheckEvent struct {
	Checker  string
	Stage    Stage
	Err      error
	Code     schema.Code // empty on success
	Field    string
	Duration time.Duration
}

// Passed reports whether the check succeeded.
func (e *CheckEvent) Passed() bool { return e.Err == nil }

// Hooks observe checks. They run synchronously after each check and cannot
// change its outcome.
type Hooks struct {
	OnCheck func(*CheckEvent)
}

// Merge returns hooks that call h first and then other.
func (h Hooks) Merge(other Hooks) Hooks {
	switch {
	case h.OnCheck == nil:
		return other
	case other.OnCheck == nil:
		return h
	}
	first, second := h.OnCheck, other.OnCheck
	return Hooks{
		OnCheck: func(e *CheckEvent) {
			first(e)
			second(e)
		},
	}
}
