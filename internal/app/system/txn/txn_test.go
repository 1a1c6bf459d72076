package txn

import (
	"context"
	"errors"
	"testing"

	"github.com/dalemusser/canopyhub/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

func TestIsNotSupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil error", nil, false},
		{"generic error", errors.New("some random error"), false},
		{"code 20", mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member"}, true},
		{"code 51", mongo.CommandError{Code: 51, Message: "Illegal operation"}, true},
		{"code 263", mongo.CommandError{Code: 263, Message: "Cannot run in a multi-document transaction"}, true},
		{"other code", mongo.CommandError{Code: 100, Message: "Some other error"}, false},
		{"transaction and replica set", errors.New("transaction failed because this is not a replica set member"), true},
		{"session and not supported", errors.New("session operations are not supported on this server"), true},
		{"single keyword", errors.New("transaction failed"), false},
		{"transaction and session", errors.New("cannot start transaction in current session state"), true},
		{"illegal operation", errors.New("illegal operation during transaction"), true},
		{"upper case", errors.New("TRANSACTION FAILED on REPLICA SET"), true},
		{"wrapped command error", errors.Join(errors.New("insert survey"), mongo.CommandError{Code: 20}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNotSupported(tt.err); got != tt.want {
				t.Errorf("IsNotSupported(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestRun_CommitsWrites(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error {
		if _, err := db.Collection("surveys").InsertOne(ctx, bson.M{"refId": "A/B/123456X/A"}); err != nil {
			return err
		}
		_, err := db.Collection("surveyCollections").InsertOne(ctx, bson.M{"collectionRef": "A/B/123456X/A"})
		return err
	})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	n, err := db.Collection("surveyCollections").CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("CountDocuments failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 collection, got %d", n)
	}
}

func TestRun_ReturnsCallbackError(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	boom := errors.New("boom")
	err := Run(ctx, db, zap.NewNop(), func(ctx context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
}
