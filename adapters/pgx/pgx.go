// Package pgx implements saldoauth's user storage port on a pgx connection
// pool.
package pgx

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/saldofy/saldoauth"
)

type Adapter struct {
	pool *pgxpool.Pool
}

var _ saldoauth.UserStorage = (*Adapter)(nil)

func New(pool *pgxpool.Pool) *Adapter {
	return &Adapter{
		pool: pool,
	}
}
