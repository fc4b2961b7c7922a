package model

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is returned when a status change skips or reverses a lifecycle
var ErrInvalidTransition = errors.New("invalid status transition")

var uploadTransitions = map[UploadStatus][]UploadStatus{
	UploadStatusUploaded:   {UploadStatusProcessing},
	UploadStatusProcessing: {UploadStatusReady, UploadStatusError},
}

// ValidateUploadTransition enforces uploaded -> processing -> ready|error
func ValidateUploadTransition(from, to UploadStatus) error {
	for _, next := range uploadTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: upload %s -> %s", ErrInvalidTransition, from, to)
}

// Terminal reports whether an upload can no longer change status
func (s UploadStatus) Terminal() bool {
	return s == UploadStatusReady || s == UploadStatusError
}

var adviceTransitions = map[AdviceApprovalStatus][]AdviceApprovalStatus{
	AdviceStatusPendingReview: {
		AdviceStatusUnderReview,
		AdviceStatusNeedsClarification,
		AdviceStatusApproved,
		AdviceStatusNotApproved,
		AdviceStatusRequiresConsultation,
	},
	AdviceStatusUnderReview: {
		AdviceStatusNeedsClarification,
		AdviceStatusApproved,
		AdviceStatusNotApproved,
		AdviceStatusRequiresConsultation,
	},
	AdviceStatusNeedsClarification: {
		AdviceStatusUnderReview,
		AdviceStatusApproved,
		AdviceStatusNotApproved,
		AdviceStatusRequiresConsultation,
	},
}

// ValidateAdviceTransition enforces the review lifecycle. Terminal statuses
// (approved, not_approved, requires_consultation) accept no further reviews.
func ValidateAdviceTransition(from, to AdviceApprovalStatus) error {
	for _, next := range adviceTransitions[from] {
		if next == to {
			return nil
		}
	}
	return fmt.Errorf("%w: advice %s -> %s", ErrInvalidTransition, from, to)
}

// AwaitingReview reports whether an advice item belongs in the review queue
func (s AdviceApprovalStatus) AwaitingReview() bool {
	_, ok := adviceTransitions[s]
	return ok
}

// Valid reports whether the status is a known lifecycle state
func (s AdviceApprovalStatus) Valid() bool {
	switch s {
	case AdviceStatusPendingReview, AdviceStatusUnderReview, AdviceStatusApproved,
		AdviceStatusNeedsClarification, AdviceStatusNotApproved, AdviceStatusRequiresConsultation:
		return true
	}
	return false
}
