package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Mode is the execution strategy negotiated with the storage backend.
type Mode int

const (
	// ModeBestEffort executes writes sequentially without a session. A
	// mid-sequence fault leaves partial, observable state.
	ModeBestEffort Mode = iota
	// ModeTransactional binds every write to a multi-document transaction.
	ModeTransactional
)

func (m Mode) String() string {
	if m == ModeTransactional {
		return "transactional"
	}
	return "best-effort"
}

// mongoTxnNotSupportedCode is the server error code (IllegalOperation)
// returned when a session-bound write reaches a deployment that cannot run
// multi-document transactions.
const mongoTxnNotSupportedCode = 20

// Execution is the write context for one checkout attempt. All order writes
// go through Write so the downgrade rule is applied in exactly one place.
type Execution interface {
	// Write runs one storage write under the current mode. If the backend
	// rejects transaction semantics for a session-bound write, the execution
	// discards the session, flips to best-effort, and retries that write
	// once without a session. A second failure of the same kind, or any
	// other failure, propagates.
	Write(ctx context.Context, step string, fn func(ctx context.Context) error) error

	// Commit commits and ends the session in transactional mode; it is a
	// no-op in best-effort mode.
	Commit(ctx context.Context) error

	// Abort abandons the transaction, if any. Safe to call after Commit.
	Abort(ctx context.Context)

	// Mode reports the current execution mode.
	Mode() Mode
}

// Coordinator negotiates transactional capability with the storage backend
// and opens executions for checkout attempts.
type Coordinator interface {
	Begin(ctx context.Context) (Execution, error)
}

// commandRunner is the slice of *mongo.Database used by the capability probe.
type commandRunner interface {
	RunCommand(ctx context.Context, runCommand interface{}, opts ...*options.RunCmdOptions) *mongo.SingleResult
}

// sessionStarter is the slice of *mongo.Client used to open sessions.
type sessionStarter interface {
	StartSession(opts ...*options.SessionOptions) (mongo.Session, error)
}

// txnSession is the slice of mongo.Session an execution drives. mongo.Session
// cannot be implemented outside the driver, so the execution depends on this
// narrower view instead.
type txnSession interface {
	StartTransaction(opts ...*options.TransactionOptions) error
	CommitTransaction(ctx context.Context) error
	AbortTransaction(ctx context.Context) error
	EndSession(ctx context.Context)
}

type coordinator struct {
	admin    commandRunner
	sessions sessionStarter
	logger   zerolog.Logger
}

// NewCoordinator creates a coordinator bound to the given client.
func NewCoordinator(client *mongo.Client, logger zerolog.Logger) Coordinator {
	return &coordinator{
		admin:    client.Database("admin"),
		sessions: client,
		logger:   logger.With().Str("component", "tx-coordinator").Logger(),
	}
}

// helloReply carries the deployment fields the probe cares about. A replica
// set member reports setName; a mongos reports msg "isdbgrid".
type helloReply struct {
	SetName string `bson:"setName"`
	Msg     string `bson:"msg"`
}

// probe asks the backend whether multi-document transactions are available.
// Any probe failure is treated as "unsupported" rather than failing the
// checkout.
func (c *coordinator) probe(ctx context.Context) Mode {
	var reply helloReply
	err := c.admin.RunCommand(ctx, bson.D{{Key: "hello", Value: 1}}).Decode(&reply)
	if err != nil {
		// pre-5.0 servers only know the legacy command name
		if legacyErr := c.admin.RunCommand(ctx, bson.D{{Key: "isMaster", Value: 1}}).Decode(&reply); legacyErr != nil {
			c.logger.Warn().
				Err(err).
				Msg("capability probe failed, proceeding without transactions")
			return ModeBestEffort
		}
	}

	if reply.SetName != "" || reply.Msg == "isdbgrid" {
		return ModeTransactional
	}
	return ModeBestEffort
}

// Begin probes the backend and opens an execution in the negotiated mode.
// Session setup failures degrade to best-effort instead of failing the
// checkout.
func (c *coordinator) Begin(ctx context.Context) (Execution, error) {
	exec := &execution{
		mode:   ModeBestEffort,
		logger: c.logger,
	}

	if c.probe(ctx) == ModeTransactional {
		sess, err := c.sessions.StartSession()
		if err != nil {
			c.logger.Warn().Err(err).Msg("failed to start session, proceeding without transactions")
			return exec, nil
		}

		if err := sess.StartTransaction(); err != nil {
			sess.EndSession(ctx)
			c.logger.Warn().Err(err).Msg("failed to start transaction, proceeding without transactions")
			return exec, nil
		}

		exec.mode = ModeTransactional
		exec.sess = sess
		exec.bindFn = func(ctx context.Context) context.Context {
			return mongo.NewSessionContext(ctx, sess)
		}
	}

	c.logger.Debug().Stringer("mode", exec.mode).Msg("checkout execution opened")

	return exec, nil
}

// execution implements Execution for both modes; the mode is mutable because
// a downgrade can flip it mid-sequence.
type execution struct {
	mode   Mode
	sess   txnSession
	bindFn func(ctx context.Context) context.Context
	logger zerolog.Logger
}

func (e *execution) Mode() Mode { return e.mode }

// bind returns the context writes must run under: the session context in
// transactional mode, the caller's context otherwise.
func (e *execution) bind(ctx context.Context) context.Context {
	if e.mode == ModeTransactional && e.sess != nil && e.bindFn != nil {
		return e.bindFn(ctx)
	}
	return ctx
}

func (e *execution) Write(ctx context.Context, step string, fn func(ctx context.Context) error) error {
	err := fn(e.bind(ctx))
	if err == nil {
		return nil
	}

	if e.mode == ModeTransactional && TransactionUnsupported(err) {
		e.logger.Warn().
			Err(err).
			Str("step", step).
			Msg("backend rejected transaction semantics, downgrading and retrying without session")

		e.discardSession(ctx)
		e.mode = ModeBestEffort

		// one retry per write step; a second failure propagates
		if retryErr := fn(ctx); retryErr != nil {
			return fmt.Errorf("step %s failed after transaction downgrade: %w", step, retryErr)
		}
		return nil
	}

	return err
}

func (e *execution) Commit(ctx context.Context) error {
	if e.mode != ModeTransactional || e.sess == nil {
		return nil
	}

	defer func() {
		e.sess.EndSession(ctx)
		e.sess = nil
	}()

	if err := e.sess.CommitTransaction(ctx); err != nil {
		return fmt.Errorf("failed to commit checkout transaction: %w", err)
	}

	return nil
}

func (e *execution) Abort(ctx context.Context) {
	if e.sess == nil {
		return
	}
	e.discardSession(ctx)
}

func (e *execution) discardSession(ctx context.Context) {
	if e.sess == nil {
		return
	}
	if err := e.sess.AbortTransaction(ctx); err != nil {
		e.logger.Debug().Err(err).Msg("abort transaction failed")
	}
	e.sess.EndSession(ctx)
	e.sess = nil
}

// TransactionUnsupported classifies an error as "the backend rejects
// transaction semantics", the only failure kind the downgrade rule
// recovers from. Business-logic and ordinary storage failures return false.
func TransactionUnsupported(err error) bool {
	if err == nil {
		return false
	}

	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		if cmdErr.Code == mongoTxnNotSupportedCode {
			return true
		}
		if strings.Contains(cmdErr.Message, "Transaction numbers are only allowed") {
			return true
		}
	}

	return strings.Contains(err.Error(), "Transaction numbers are only allowed")
}
