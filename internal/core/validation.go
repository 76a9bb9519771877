package core

// validation.go applies the field-level rules to one row.
//
// Rules run in a fixed order (name, amount, date, verified) and problems
// are reported in evaluation order, so a row's problem list is stable
// across runs. The message strings are part of the response contract that
// clients render per row.

import "strings"

// Problem messages returned by ValidateRow.
const (
	MsgNameRequired    = "Name is required"
	MsgAmountRequired  = "Amount is required"
	MsgAmountNotNumber = "Amount must be a valid number"
	MsgAmountNegative  = "Amount cannot be negative"
	MsgDateRequired    = "Date is required"
	MsgDateInvalid     = "Invalid date format"
	MsgVerifiedInvalid = "Verified must be Yes or No"
)

// ValidateRow checks one row against the field schema and returns a problem
// message per violated rule. An empty result means the row is valid. Pure
// function: the row is never mutated.
func ValidateRow(row Row) []string {
	var problems []string

	if isBlank(row[FieldName]) {
		problems = append(problems, MsgNameRequired)
	}

	// The three amount messages are mutually exclusive: the negative check
	// only runs on a successfully parsed number.
	if amount, ok := row[FieldAmount]; !ok || isMissing(amount) {
		problems = append(problems, MsgAmountRequired)
	} else if parsed, err := ParseAmount(amount); err != nil {
		problems = append(problems, MsgAmountNotNumber)
	} else if parsed < 0 {
		problems = append(problems, MsgAmountNegative)
	}

	if date, ok := row[FieldDate]; !ok || isMissing(date) {
		problems = append(problems, MsgDateRequired)
	} else if _, ok := ParseDate(date); !ok {
		problems = append(problems, MsgDateInvalid)
	}

	// Verified is optional; only a present value with an unrecognized form
	// is a problem.
	if verified, ok := row[FieldVerified]; ok && verified != nil {
		switch strings.ToLower(fieldString(verified)) {
		case "yes", "no", "true", "false":
		default:
			problems = append(problems, MsgVerifiedInvalid)
		}
	}

	return problems
}
