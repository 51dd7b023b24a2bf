// Package committer collects Spanner mutations into a plan and applies them atomically.
//
// Repositories translate aggregates into mutations without applying them.
// The plan gathers aggregate writes and their outbox rows so that either
// all of them commit or none do:
//
//	plan := committer.NewPlan()
//	plan.Add(model.InsertMut(data))
//	for _, ev := range events {
//	    plan.Add(outbox.InsertMut(ev))
//	}
//	return c.Apply(ctx, plan)
//
// Writes that must only happen while a row is still in an expected state use
// ApplyGuarded, which reads the row inside a read-write transaction before
// buffering the plan.
package committer

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/spanner"
	"google.golang.org/grpc/codes"
)

var (
	// ErrPreconditionFailed is returned when a guard rejects the current row state.
	ErrPreconditionFailed = errors.New("commit precondition failed")
	// ErrRowNotFound is returned when the guarded row does not exist.
	ErrRowNotFound = errors.New("guarded row not found")
)

// CommitPlan is a typed wrapper around Spanner mutations.
type CommitPlan struct {
	mutations []*spanner.Mutation
}

// NewPlan creates a new empty CommitPlan.
func NewPlan() *CommitPlan {
	return &CommitPlan{
		mutations: make([]*spanner.Mutation, 0),
	}
}

// Add adds a mutation to the plan. Nil mutations are ignored.
func (cp *CommitPlan) Add(mut *spanner.Mutation) {
	if mut != nil {
		cp.mutations = append(cp.mutations, mut)
	}
}

// AddMultiple adds multiple mutations to the plan.
func (cp *CommitPlan) AddMultiple(muts []*spanner.Mutation) {
	for _, mut := range muts {
		cp.Add(mut)
	}
}

func (cp *CommitPlan) Mutations() []*spanner.Mutation {
	return cp.mutations
}

func (cp *CommitPlan) IsEmpty() bool {
	return len(cp.mutations) == 0
}

func (cp *CommitPlan) Count() int {
	return len(cp.mutations)
}

// Guard reads one row inside the transaction and decides whether the plan may commit.
type Guard struct {
	Table   string
	Key     spanner.Key
	Columns []string
	Check   func(row *spanner.Row) error
}

// VersionGuard requires the integer column to equal expected.
func VersionGuard(table string, key spanner.Key, column string, expected int64) Guard {
	return Guard{
		Table:   table,
		Key:     key,
		Columns: []string{column},
		Check: func(row *spanner.Row) error {
			var current int64
			if err := row.Column(0, &current); err != nil {
				return fmt.Errorf("failed to parse %s: %w", column, err)
			}
			if current != expected {
				return fmt.Errorf("%w: %s expected %d, got %d", ErrPreconditionFailed, column, expected, current)
			}
			return nil
		},
	}
}

// Committer provides transaction execution for CommitPlans.
type Committer struct {
	client *spanner.Client
}

func NewCommitter(client *spanner.Client) *Committer {
	return &Committer{client: client}
}

// Apply executes the CommitPlan atomically.
func (c *Committer) Apply(ctx context.Context, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	if _, err := c.client.Apply(ctx, plan.Mutations()); err != nil {
		return fmt.Errorf("failed to apply commit plan: %w", err)
	}
	return nil
}

// ApplyGuarded checks the guard and buffers the plan in one read-write transaction.
// It returns ErrPreconditionFailed or ErrRowNotFound (wrapped) when the guard rejects.
func (c *Committer) ApplyGuarded(ctx context.Context, guard Guard, plan *CommitPlan) error {
	if plan.IsEmpty() {
		return nil
	}

	_, err := c.client.ReadWriteTransaction(ctx, func(ctx context.Context, txn *spanner.ReadWriteTransaction) error {
		row, err := txn.ReadRow(ctx, guard.Table, guard.Key, guard.Columns)
		if err != nil {
			if spanner.ErrCode(err) == codes.NotFound {
				return ErrRowNotFound
			}
			return fmt.Errorf("failed to read guarded row: %w", err)
		}
		if err := guard.Check(row); err != nil {
			return err
		}
		return txn.BufferWrite(plan.Mutations())
	})
	if err != nil {
		if errors.Is(err, ErrPreconditionFailed) || errors.Is(err, ErrRowNotFound) {
			return err
		}
		return fmt.Errorf("failed to apply guarded commit plan: %w", err)
	}
	return nil
}
