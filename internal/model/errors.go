package model

import "errors"

var (
	ErrMissingCredential    = errors.New("credential is missing")
	ErrAttachmentTooLarge   = errors.New("attachment exceeds size limit")
	ErrAttachmentUnreadable = errors.New("attachment cannot be read")
	ErrSessionNotFound      = errors.New("session not found")
	ErrRequestInFlight      = errors.New("request is already in flight")
	ErrRepairNotApplicable  = errors.New("repair action is not applicable to message")
	ErrUnknownRepairAction  = errors.New("unknown repair action")
	ErrUnknownVehicle       = errors.New("unknown vehicle")
	ErrEmptyTurn            = errors.New("turn has no text and no attachment")
	ErrKeyNotFound          = errors.New("key not found")
)
