package solardb

import "errors"

var (
	// Wraps every failed Append. Nothing of that append is visible afterwards.
	ErrStorageFailure = errors.New("storage failure")
	ErrNotSelect      = errors.New("only single SELECT statements are allowed")
)

// Tables readable through QueryRows and described by Schema.
var queryableTables = []string{"readings", "room_activity"}
