package models

import (
	"database/sql"
	"time"
)

// Session is one dashboard entry. UserID is the owner and is never
// serialized; it only scopes queries.
type Session struct {
	ID      int64     `json:"idsesion"`
	UserID  int64     `json:"-"`
	Label   string    `json:"cronica"`
	Number  int64     `json:"numero_de_sesion"`
	Date    time.Time `json:"fecha"`
	Summary *string   `json:"resumen"`
}

// SessionPatch carries a partial update. A nil field was not supplied and
// is left untouched. Summary additionally distinguishes an explicit null
// (Valid == false) from a value.
type SessionPatch struct {
	Label   *string
	Number  *int64
	Date    *time.Time
	Summary *sql.NullString
}

// IsEmpty reports whether the patch would change nothing.
func (p SessionPatch) IsEmpty() bool {
	return p.Label == nil && p.Number == nil && p.Date == nil && p.Summary == nil
}

// SessionInput is a create request as received from a client. Date is the
// raw text and is parsed during validation.
type SessionInput struct {
	Label   string
	Number  int64
	Date    string
	Summary *string
}
