// Package txn runs groups of writes inside a MongoDB multi-document transaction.
//
// Transactions need a replica set or sharded cluster. A standalone mongod
// (the usual local dev setup) rejects them; in that case Run logs a warning
// and executes the callback without a transaction, unless transactions have
// been made mandatory with Require(true).
package txn

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

var required atomic.Bool

// Require makes Run fail instead of falling back when the deployment does
// not support transactions. Call it once during startup.
func Require(on bool) { required.Store(on) }

// Required reports the current setting.
func Required() bool { return required.Load() }

// ErrUnsupported is returned by Run when transactions are required but the
// deployment cannot run them.
var ErrUnsupported = errors.New("transactions are not supported by this deployment")

// Run executes fn inside a transaction on db's client. The ctx passed to fn
// carries the session; every collection call inside fn must use it.
// Whatever fn returns aborts (error) or commits (nil) the transaction.
func Run(ctx context.Context, db *mongo.Database, log *zap.Logger, fn func(ctx context.Context) error) error {
	sess, err := db.Client().StartSession()
	if err != nil {
		return fallback(ctx, log, err, fn)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil && IsNotSupported(err) {
		return fallback(ctx, log, err, fn)
	}
	return err
}

func fallback(ctx context.Context, log *zap.Logger, cause error, fn func(ctx context.Context) error) error {
	if required.Load() {
		return fmt.Errorf("%w: %v", ErrUnsupported, cause)
	}
	if log != nil {
		log.Warn("transactions unavailable; running without one", zap.Error(cause))
	}
	return fn(ctx)
}

// IsNotSupported reports whether err means the server cannot run sessions or
// transactions (standalone mongod, some DocumentDB versions).
func IsNotSupported(err error) bool {
	if err == nil {
		return false
	}
	var ce mongo.CommandError
	if errors.As(err, &ce) {
		switch ce.Code {
		case 20, 51, 263: // IllegalOperation, operation not supported in transaction
			return true
		}
	}
	s := strings.ToLower(err.Error())
	txn := strings.Contains(s, "transaction")
	sess := strings.Contains(s, "session")
	switch {
	case txn && strings.Contains(s, "replica set"):
		return true
	case txn && sess:
		return true
	case txn && strings.Contains(s, "illegal operation"):
		return true
	case sess && strings.Contains(s, "not supported"):
		return true
	}
	return false
}
