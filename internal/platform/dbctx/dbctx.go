package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
// Repositories run against Tx when it is set and against their root handle otherwise.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

// Background is a Context with no transaction, for reads outside a request.
func Background() Context {
	return Context{Ctx: context.Background()}
}

func From(ctx context.Context) Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return Context{Ctx: ctx}
}

// Query returns the handle a repository call should run on: Tx when present, root otherwise,
// bound to Ctx.
func (c Context) Query(root *gorm.DB) *gorm.DB {
	db := c.Tx
	if db == nil {
		db = root
	}
	if c.Ctx == nil {
		return db
	}
	return db.WithContext(c.Ctx)
}
