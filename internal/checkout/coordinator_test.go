package checkout

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// fakeAdmin implements commandRunner with a canned hello reply.
type fakeAdmin struct {
	reply bson.D
	err   error
	calls []string
}

func (f *fakeAdmin) RunCommand(ctx context.Context, cmd interface{}, opts ...*options.RunCmdOptions) *mongo.SingleResult {
	if d, ok := cmd.(bson.D); ok && len(d) > 0 {
		f.calls = append(f.calls, d[0].Key)
	}
	if f.err != nil {
		return mongo.NewSingleResultFromDocument(bson.D{}, f.err, nil)
	}
	return mongo.NewSingleResultFromDocument(f.reply, nil, nil)
}

// fakeStarter implements sessionStarter.
type fakeStarter struct {
	err error
}

func (f *fakeStarter) StartSession(opts ...*options.SessionOptions) (mongo.Session, error) {
	return nil, f.err
}

// fakeSession implements txnSession and records the calls it receives.
type fakeSession struct {
	started   bool
	committed bool
	aborted   bool
	ended     bool
	commitErr error
}

func (f *fakeSession) StartTransaction(opts ...*options.TransactionOptions) error {
	f.started = true
	return nil
}

func (f *fakeSession) CommitTransaction(ctx context.Context) error {
	f.committed = true
	return f.commitErr
}

func (f *fakeSession) AbortTransaction(ctx context.Context) error {
	f.aborted = true
	return nil
}

func (f *fakeSession) EndSession(ctx context.Context) {
	f.ended = true
}

type bindMarker struct{}

func markedBind(ctx context.Context) context.Context {
	return context.WithValue(ctx, bindMarker{}, true)
}

func isBound(ctx context.Context) bool {
	bound, _ := ctx.Value(bindMarker{}).(bool)
	return bound
}

func TestCoordinator_ProbeReplicaSet(t *testing.T) {
	c := &coordinator{
		admin:  &fakeAdmin{reply: bson.D{{Key: "setName", Value: "rs0"}}},
		logger: zerolog.Nop(),
	}

	assert.Equal(t, ModeTransactional, c.probe(context.Background()))
}

func TestCoordinator_ProbeMongos(t *testing.T) {
	c := &coordinator{
		admin:  &fakeAdmin{reply: bson.D{{Key: "msg", Value: "isdbgrid"}}},
		logger: zerolog.Nop(),
	}

	assert.Equal(t, ModeTransactional, c.probe(context.Background()))
}

func TestCoordinator_ProbeStandalone(t *testing.T) {
	c := &coordinator{
		admin:  &fakeAdmin{reply: bson.D{{Key: "ok", Value: 1}}},
		logger: zerolog.Nop(),
	}

	assert.Equal(t, ModeBestEffort, c.probe(context.Background()))
}

func TestCoordinator_ProbeFailureFallsBack(t *testing.T) {
	admin := &fakeAdmin{err: errors.New("no reachable servers")}
	c := &coordinator{admin: admin, logger: zerolog.Nop()}

	assert.Equal(t, ModeBestEffort, c.probe(context.Background()))
	// the legacy command name is tried before giving up
	assert.Equal(t, []string{"hello", "isMaster"}, admin.calls)
}

func TestCoordinator_BeginDegradesOnSessionFailure(t *testing.T) {
	c := &coordinator{
		admin:    &fakeAdmin{reply: bson.D{{Key: "setName", Value: "rs0"}}},
		sessions: &fakeStarter{err: errors.New("sessions not supported")},
		logger:   zerolog.Nop(),
	}

	exec, err := c.Begin(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ModeBestEffort, exec.Mode())
}

func TestCoordinator_BeginBestEffortForStandalone(t *testing.T) {
	c := &coordinator{
		admin:  &fakeAdmin{reply: bson.D{{Key: "ok", Value: 1}}},
		logger: zerolog.Nop(),
	}

	exec, err := c.Begin(context.Background())

	require.NoError(t, err)
	assert.Equal(t, ModeBestEffort, exec.Mode())
}

func TestExecution_WriteBindsSessionContext(t *testing.T) {
	sess := &fakeSession{}
	exec := &execution{
		mode:   ModeTransactional,
		sess:   sess,
		bindFn: markedBind,
		logger: zerolog.Nop(),
	}

	var sawBound bool
	err := exec.Write(context.Background(), "create-order", func(ctx context.Context) error {
		sawBound = isBound(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.True(t, sawBound)
	assert.Equal(t, ModeTransactional, exec.Mode())
}

func TestExecution_WriteDowngradesAndRetries(t *testing.T) {
	sess := &fakeSession{}
	exec := &execution{
		mode:   ModeTransactional,
		sess:   sess,
		bindFn: markedBind,
		logger: zerolog.Nop(),
	}

	var attempts int
	var retryBound bool
	err := exec.Write(context.Background(), "create-order", func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}
		}
		retryBound = isBound(ctx)
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.False(t, retryBound, "retry must run without the session context")
	assert.Equal(t, ModeBestEffort, exec.Mode())
	assert.True(t, sess.aborted)
	assert.True(t, sess.ended)
}

func TestExecution_WriteSecondFailurePropagates(t *testing.T) {
	sess := &fakeSession{}
	exec := &execution{
		mode:   ModeTransactional,
		sess:   sess,
		bindFn: markedBind,
		logger: zerolog.Nop(),
	}

	var attempts int
	err := exec.Write(context.Background(), "clear-cart", func(ctx context.Context) error {
		attempts++
		if attempts == 1 {
			return mongo.CommandError{Code: 20, Message: "Transaction numbers are only allowed on a replica set member or mongos"}
		}
		return errors.New("duplicate key")
	})

	require.Error(t, err)
	assert.Equal(t, 2, attempts)
	assert.Contains(t, err.Error(), "step clear-cart failed after transaction downgrade")
	assert.Equal(t, ModeBestEffort, exec.Mode())
}

func TestExecution_WriteOrdinaryFailurePropagates(t *testing.T) {
	sess := &fakeSession{}
	exec := &execution{
		mode:   ModeTransactional,
		sess:   sess,
		bindFn: markedBind,
		logger: zerolog.Nop(),
	}

	failure := errors.New("document too large")
	var attempts int
	err := exec.Write(context.Background(), "create-order", func(ctx context.Context) error {
		attempts++
		return failure
	})

	// no retry and no downgrade for failures unrelated to transaction support
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, ModeTransactional, exec.Mode())
	assert.False(t, sess.aborted)
}

func TestExecution_CommitEndsSession(t *testing.T) {
	sess := &fakeSession{}
	exec := &execution{mode: ModeTransactional, sess: sess, logger: zerolog.Nop()}

	require.NoError(t, exec.Commit(context.Background()))
	assert.True(t, sess.committed)
	assert.True(t, sess.ended)

	// Abort after Commit is a no-op
	exec.Abort(context.Background())
	assert.False(t, sess.aborted)
}

func TestExecution_CommitBestEffortIsNoOp(t *testing.T) {
	exec := &execution{mode: ModeBestEffort, logger: zerolog.Nop()}
	assert.NoError(t, exec.Commit(context.Background()))
}

func TestExecution_AbortDiscardsSession(t *testing.T) {
	sess := &fakeSession{}
	exec := &execution{mode: ModeTransactional, sess: sess, logger: zerolog.Nop()}

	exec.Abort(context.Background())

	assert.True(t, sess.aborted)
	assert.True(t, sess.ended)
}

func TestTransactionUnsupported(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"illegal operation code", mongo.CommandError{Code: 20, Message: "This MongoDB deployment does not support retryable writes"}, true},
		{"message match", mongo.CommandError{Code: 0, Message: "Transaction numbers are only allowed on a replica set member or mongos"}, true},
		{"wrapped command error", fmt.Errorf("insert failed: %w", mongo.CommandError{Code: 20}), true},
		{"plain message match", errors.New("Transaction numbers are only allowed on a replica set member or mongos"), true},
		{"other command error", mongo.CommandError{Code: 11000, Message: "duplicate key"}, false},
		{"ordinary error", errors.New("connection reset"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, TransactionUnsupported(tt.err))
		})
	}
}

func TestModeString(t *testing.T) {
	assert.Equal(t, "transactional", ModeTransactional.String())
	assert.Equal(t, "best-effort", ModeBestEffort.String())
}
