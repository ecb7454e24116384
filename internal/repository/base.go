// Package repository implements the data access layer for the application.
package repository

import (
	"context"

	"postboard/internal/models"
	"postboard/internal/observability"

	"gorm.io/gorm"
)

const (
	userTable = "User"
	postTable = "Post"
)

// instrumentation wraps repository calls with a span, a latency observation
// and error accounting for one table.
type instrumentation struct {
	table string
	log   *observability.RepoLogger
}

func newInstrumentation(table string) instrumentation {
	return instrumentation{table: table, log: observability.NewRepoLogger(table)}
}

// start opens a span for op. The returned func must be deferred with a
// pointer to the method's named error.
func (i instrumentation) start(ctx context.Context, db *gorm.DB, op string) (context.Context, func(*error)) {
	ctx, span := observability.TraceRepositoryMethod(ctx, db.Dialector.Name(), op, i.table)
	done := observability.TrackQuery(op, i.table)

	return ctx, func(errp *error) {
		done()
		err := *errp
		if err != nil {
			code := models.ErrorCode(err)
			observability.RepositoryErrors.WithLabelValues(i.table, code).Inc()
			if code == models.CodeInternal {
				i.log.LogError(ctx, err, op)
			}
		}
		observability.EndSpan(span, err)
	}
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}
