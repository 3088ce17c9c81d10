// Copyright (c) 2026 Folio. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package ordering assigns and rewrites the sibling order of chapters within a
book and of pages within a chapter.

Orders are integers in [0, MaxValue], unique per scope at rest, with no
contiguity guarantee. New siblings append at max+1. Bulk reorders run in two
phases inside one transaction:

 1. quarantine: every touched row moves to a strictly negative value;
 2. commit: every touched row moves to its requested value.

After phase 1 no touched row holds a non-negative value, so phase 2 cannot
collide with itself regardless of statement order. Every statement is scoped by
(id, parent); a statement matching zero rows aborts and rolls back both phases.
*/
package ordering

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/taibuivan/folio/internal/platform/apperr"
	"github.com/taibuivan/folio/internal/platform/dberr"
	"github.com/taibuivan/folio/internal/platform/metrics"
	"github.com/taibuivan/folio/internal/platform/validate"
	"github.com/taibuivan/folio/pkg/slice"
)

var tracer = otel.Tracer("github.com/taibuivan/folio/internal/core/ordering")

// # Scope

// Kind selects which sibling set a [Scope] addresses.
type Kind string

const (
	// KindChapter orders chapters within a book.
	KindChapter Kind = "chapter"
	// KindPage orders pages within a chapter.
	KindPage Kind = "page"
)

// Scope is the parent within which sibling orders must be unique.
type Scope struct {
	Kind     Kind
	ParentID string
}

// ChapterScope addresses the chapters of a book.
func ChapterScope(bookID string) Scope { return Scope{Kind: KindChapter, ParentID: bookID} }

// PageScope addresses the pages of a chapter.
func PageScope(chapterID string) Scope { return Scope{Kind: KindPage, ParentID: chapterID} }

// Key identifies the scope for advisory locking.
func (scope Scope) Key() string { return string(scope.Kind) + ":" + scope.ParentID }

func (scope Scope) entity() string {
	if scope.Kind == KindChapter {
		return "Chapter"
	}
	return "Page"
}

func (scope Scope) parent() string {
	if scope.Kind == KindChapter {
		return "book"
	}
	return "chapter"
}

// Placement assigns an order to one sibling.
type Placement struct {
	ID    string `json:"id"`
	Order int    `json:"order"`
}

// QuarantineValue maps an order onto the strictly negative range.
// The +1 keeps order 0 from quarantining onto itself.
func QuarantineValue(order int) int {
	return -(order + 1)
}

// MaxValue is the largest order a sibling may hold. The column is INTEGER and
// one slot stays free so that max+1 always fits.
const MaxValue = math.MaxInt32 - 1

// # Collaborators

// Store persists sibling orders. Implementations must run every call on the
// transaction carried by ctx when there is one.
type Store interface {
	// Lock serialises order-changing work on scope until the transaction ends.
	Lock(ctx context.Context, scope Scope) error

	// MaxOrder returns the largest order in scope; found is false when empty.
	MaxOrder(ctx context.Context, scope Scope) (order int, found bool, err error)

	// SetOrders writes each placement scoped by (id, parent) and returns the
	// affected-row count of each statement, index-aligned with placements.
	SetOrders(ctx context.Context, scope Scope, placements []Placement) ([]int64, error)
}

// Transactor runs fn inside a transaction, joining one already on ctx.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// # Engine

// Engine implements the append default and the bulk reorder for any [Scope].
type Engine struct {
	store      Store
	transactor Transactor
	logger     *slog.Logger
}

// NewEngine creates a new ordering engine.
func NewEngine(store Store, transactor Transactor, logger *slog.Logger) *Engine {
	return &Engine{store: store, transactor: transactor, logger: logger}
}

// Next returns the append default for scope: max+1, or 1 when scope is empty.
// A scope whose last sibling already sits at [MaxValue] has no room to append.
func (engine *Engine) Next(ctx context.Context, scope Scope) (int, error) {
	maxOrder, found, err := engine.store.MaxOrder(ctx, scope)
	if err != nil {
		return 0, dberr.Wrap(err, scope.entity(), "read max order")
	}
	if !found {
		return 1, nil
	}
	if maxOrder >= MaxValue {
		return 0, apperr.ValidationError("Validation failed", apperr.FieldError{
			Field:   "order",
			Message: fmt.Sprintf("No room to append after order %d; reorder this %s first", maxOrder, scope.parent()),
		})
	}
	return maxOrder + 1, nil
}

// WithScopeLock runs fn in a transaction holding the scope lock.
// Order-changing writes outside [Engine.Reorder] go through here.
func (engine *Engine) WithScopeLock(ctx context.Context, scope Scope, fn func(ctx context.Context) error) error {
	return engine.transactor.WithinTx(ctx, func(txCtx context.Context) error {
		if err := engine.store.Lock(txCtx, scope); err != nil {
			return dberr.Wrap(err, scope.entity(), "lock scope")
		}
		return fn(txCtx)
	})
}

// Place resolves the order for a new sibling and calls insert with it.
//
// requested wins when non-nil; otherwise the append default applies. The
// lookup and the insert share one locked transaction, so concurrent appends
// to the same scope receive distinct orders.
func (engine *Engine) Place(ctx context.Context, scope Scope, requested *int, insert func(ctx context.Context, order int) error) error {
	if requested != nil {
		if err := CheckOrder(&validate.Validator{}, "order", *requested).Err(); err != nil {
			return err
		}
	}

	return engine.WithScopeLock(ctx, scope, func(txCtx context.Context) error {
		order := 0
		if requested != nil {
			order = *requested
		} else {
			next, err := engine.Next(txCtx, scope)
			if err != nil {
				return err
			}
			order = next
		}
		return insert(txCtx, order)
	})
}

// Reorder applies placements to scope atomically.
//
// Placements may cover any subset of the scope; untouched siblings keep their
// orders. The caller must not target orders still held by untouched siblings;
// such collisions surface as CONFLICT and roll back. Empty input is a no-op.
func (engine *Engine) Reorder(ctx context.Context, scope Scope, placements []Placement) ([]Placement, error) {
	if err := Validate(placements); err != nil {
		return nil, err
	}
	if len(placements) == 0 {
		return []Placement{}, nil
	}

	ctx, span := tracer.Start(ctx, "ordering.Reorder", trace.WithAttributes(
		attribute.String("folio.scope.kind", string(scope.Kind)),
		attribute.String("folio.scope.parent_id", scope.ParentID),
		attribute.Int("folio.placements", len(placements)),
	))
	defer span.End()

	metrics.ReorderSize.WithLabelValues(string(scope.Kind)).Observe(float64(len(placements)))

	quarantine := slice.Map(placements, func(placement Placement) Placement {
		return Placement{ID: placement.ID, Order: QuarantineValue(placement.Order)}
	})

	err := engine.WithScopeLock(ctx, scope, func(txCtx context.Context) error {
		if err := engine.apply(txCtx, scope, quarantine); err != nil {
			return err
		}
		return engine.apply(txCtx, scope, placements)
	})
	if err != nil {
		metrics.ReordersTotal.WithLabelValues(string(scope.Kind), outcome(err)).Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, "reorder aborted")
		engine.logger.WarnContext(ctx, "reorder_aborted",
			slog.String("scope", scope.Key()),
			slog.Int("placements", len(placements)),
			slog.String("error", err.Error()),
		)
		return nil, err
	}

	metrics.ReordersTotal.WithLabelValues(string(scope.Kind), "ok").Inc()

	result := make([]Placement, len(placements))
	copy(result, placements)
	return result, nil
}

// apply runs one phase and turns any affected-row mismatch into an abort.
func (engine *Engine) apply(ctx context.Context, scope Scope, placements []Placement) error {
	counts, err := engine.store.SetOrders(ctx, scope, placements)
	if err != nil {
		return dberr.Wrap(err, scope.entity(), "set "+string(scope.Kind)+" orders")
	}
	if len(counts) != len(placements) {
		return apperr.Internal(fmt.Errorf("ordering: %d results for %d placements", len(counts), len(placements)))
	}

	for i, count := range counts {
		if count != 1 {
			return apperr.NotFoundMessage(fmt.Sprintf("%s %s not found in this %s", scope.entity(), placements[i].ID, scope.parent()))
		}
	}
	return nil
}

func outcome(err error) string {
	if appError := apperr.As(err); appError != nil {
		switch appError.Code {
		case apperr.CodeNotFound:
			return "not_found"
		case apperr.CodeConflict:
			return "conflict"
		case apperr.CodeValidation:
			return "invalid"
		}
	}
	return "error"
}
