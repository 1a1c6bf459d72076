// Package respond writes the JSON envelope every API route answers with:
//
//	{ "success": true,  "data": ... }
//	{ "success": false, "error": "...", "message": "..." }
package respond

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/dalemusser/canopyhub/internal/app/system/dberr"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"
)

// MaxBodySize bounds JSON request bodies.
const MaxBodySize = 4 << 20 // 4 MB

// Envelope is the response body shape.
type Envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// OK writes a 200 success envelope.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, Envelope{Success: true, Data: data})
}

// Created writes a 201 success envelope.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, Envelope{Success: true, Data: data})
}

// Message writes a success envelope carrying only a message.
func Message(w http.ResponseWriter, msg string) {
	JSON(w, http.StatusOK, Envelope{Success: true, Message: msg})
}

// Fail writes an error envelope.
func Fail(w http.ResponseWriter, status int, msg string) {
	JSON(w, status, Envelope{Success: false, Error: msg})
}

func BadRequest(w http.ResponseWriter, msg string) { Fail(w, http.StatusBadRequest, msg) }
func NotFound(w http.ResponseWriter, msg string)   { Fail(w, http.StatusNotFound, msg) }
func Conflict(w http.ResponseWriter, msg string)   { Fail(w, http.StatusConflict, msg) }

// ServerError logs err and writes a 500 whose text comes from dberr.Format.
func ServerError(w http.ResponseWriter, log *zap.Logger, what string, err error, fields ...zap.Field) {
	if log != nil {
		log.Error(what, append(fields, zap.Error(err))...)
	}
	JSON(w, http.StatusInternalServerError, Envelope{
		Success: false,
		Message: what,
		Error:   dberr.Format(err),
	})
}

// ErrEmptyBody is returned by Decode when the request has no body.
var ErrEmptyBody = errors.New("request body is empty")

// Decode reads a JSON body of at most MaxBodySize bytes into v.
func Decode(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodySize)
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrEmptyBody
		}
		return fmt.Errorf("invalid JSON body: %w", err)
	}
	return nil
}

// PathID parses the URL parameter name as an ObjectID. On failure it writes
// a 400 and returns false.
func PathID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(chi.URLParam(r, name))
	if err != nil {
		BadRequest(w, "Invalid ID format")
		return primitive.NilObjectID, false
	}
	return oid, true
}

// QueryID parses an optional ObjectID query parameter. A blank value yields
// the nil id; a malformed one writes a 400 and returns false.
func QueryID(w http.ResponseWriter, r *http.Request, name string) (primitive.ObjectID, bool) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return primitive.NilObjectID, true
	}
	oid, err := primitive.ObjectIDFromHex(v)
	if err != nil {
		BadRequest(w, "Invalid "+name+" id")
		return primitive.NilObjectID, false
	}
	return oid, true
}
