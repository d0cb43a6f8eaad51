package sqlite

import (
	"database/sql"

	"github.com/lberndt/gatehouse/internal/register/store"
)

type txStore struct {
	tx *sql.Tx
}

func (t *txStore) Tokens() store.Tokens   { return &tokensRepo{q: t.tx} }
func (t *txStore) Admins() store.Admins   { return &adminsRepo{q: t.tx} }
func (t *txStore) Secrets() store.Secrets { return &secretsRepo{q: t.tx} }
