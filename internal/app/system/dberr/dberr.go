// Package dberr turns driver errors into messages fit for API responses.
package dberr

import (
	"context"
	"errors"
	"regexp"
	"strings"

	wafflemongo "github.com/dalemusser/waffle/pantry/mongo"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// documentValidationFailure is the server code for a $jsonSchema rejection.
const documentValidationFailure = 121

var dupKeyRe = regexp.MustCompile(`dup key: \{ ?(.*?) ?\}`)

// Format returns a human-readable description of err. It never returns the
// raw driver text for duplicate keys, bad ids, missing documents or timeouts.
func Format(err error) string {
	switch {
	case err == nil:
		return ""
	case wafflemongo.IsDup(err):
		if m := dupKeyRe.FindStringSubmatch(err.Error()); len(m) == 2 && m[1] != "" {
			return "Duplicate entry: a record with " + m[1] + " already exists"
		}
		return "Duplicate entry: a record with this value already exists"
	case errors.Is(err, primitive.ErrInvalidHex), IsCastError(err):
		return "Invalid ID format"
	case errors.Is(err, mongo.ErrNoDocuments):
		return "Record not found"
	case errors.Is(err, context.DeadlineExceeded):
		return "Database operation timed out"
	case errors.Is(err, context.Canceled):
		return "Request was cancelled"
	}

	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == documentValidationFailure {
				return "Document failed validation"
			}
		}
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && ce.Message != "" {
		return "Database error: " + ce.Message
	}
	return "Database error: " + err.Error()
}

// IsCastError reports whether err came from converting a malformed id.
func IsCastError(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "not a valid ObjectID") || strings.Contains(msg, "invalid ObjectID")
}
