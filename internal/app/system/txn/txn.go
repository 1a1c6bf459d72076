// internal/app/system/txn/txn.go
package txn

import (
	"context"
	"errors"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

// Run executes fn inside a MongoDB transaction when the deployment supports
// one. Standalone servers reject transactions before any write is applied,
// so on that error fn is re-run without a transaction and the writes become
// sequential and non-atomic.
//
// fn must use the ctx it is given so its operations join the session.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		if IsNotSupported(err) {
			warnFallback(log, err)
			return fn(ctx)
		}
		return err
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (any, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		warnFallback(log, err)
		return fn(ctx)
	}
	return err
}

func warnFallback(log *zap.Logger, err error) {
	if log == nil {
		return
	}
	log.Warn("transactions unavailable, running without one", zap.Error(err))
}

// Server error codes returned when transactions or sessions are unavailable:
// 20 IllegalOperation, 51 (legacy illegal operation), 263 OperationNotSupportedInTransaction.
var unsupportedCodes = map[int32]bool{20: true, 51: true, 263: true}

var unsupportedWords = []string{"transaction", "replica set", "session", "not supported", "illegal operation"}

// IsNotSupported reports whether err means the server cannot run transactions.
// Command errors are matched by code; other errors need at least two of the
// telltale phrases so that ordinary failures mentioning a transaction are not
// mistaken for an unsupported deployment.
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) && unsupportedCodes[ce.Code] {
		return true
	}
	msg := strings.ToLower(err.Error())
	hits := 0
	for _, w := range unsupportedWords {
		if strings.Contains(msg, w) {
			hits++
		}
	}
	return hits >= 2
}
