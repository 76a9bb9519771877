package core

// errmap.go maps technical errors to user-facing messages with support
// codes. Patterns are matched case-insensitively with strings.Contains and
// the first match wins, so specific patterns come before general ones.
// Users quote the code to support staff; staff check the logs for the
// original error when the code is ERR000.

import (
	"fmt"
	"strings"
)

// UserMessage is user-facing error information with actionable guidance.
type UserMessage struct {
	Message string // What happened
	Action  string // What to do about it
	Code    string // Support reference code
}

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File and format errors (FILE001-FILE004)
	{
		pattern: "malformed workbook",
		msg: UserMessage{
			Message: "The uploaded file is not a valid Excel workbook",
			Action:  "Save the file as .xlsx and upload it again",
			Code:    "FILE001",
		},
	},
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File size exceeds the 2MB limit",
			Action:  "Split the workbook into smaller files",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Choose an Excel file to upload",
			Code:    "FILE003",
		},
	},
	{
		pattern: "unsupported content type",
		msg: UserMessage{
			Message: "Only Excel files are accepted",
			Action:  "Upload a .xlsx or .xls file",
			Code:    "FILE004",
		},
	},

	// Import payload errors (IMP001-IMP002)
	{
		pattern: "invalid import payload",
		msg: UserMessage{
			Message: "The import request is not a recognizable row collection",
			Action:  "Re-validate the file and retry the import",
			Code:    "IMP001",
		},
	},
	{
		pattern: "store write failed",
		msg: UserMessage{
			Message: "Saving the imported rows failed",
			Action:  "No rows from this attempt were kept; try again",
			Code:    "IMP002",
		},
	},

	// Document store errors (DB001-DB003)
	{
		pattern: "server selection error",
		msg: UserMessage{
			Message: "The database is unreachable",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to the database",
			Action:  "Please try again in a few moments",
			Code:    "DB001",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "Some rows collide with records that already exist",
			Action:  "Check the file for rows imported earlier",
			Code:    "DB002",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "The operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB003",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The request timed out",
			Action:  "Try a smaller file or check your connection",
			Code:    "DB003",
		},
	},

	// Throttling (RATE001)
	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-facing message. Unmatched
// errors map to the generic ERR000 fallback.
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}
	return defaultMessage
}

// FormatUserError renders a mapped error as display text:
// "Message (Code: XXX). Action".
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}
