package sqlbuilder

import (
	"strconv"

	"github.com/typedsql/typedsql/database/sqltypes"
	"github.com/typedsql/typedsql/encoding2"
)

type Dialect int

const (
	MySQL Dialect = iota
	Postgres
	SQLite
)

func (d Dialect) String() string {
	switch d {
	case MySQL:
		return "mysql"
	case Postgres:
		return "postgres"
	case SQLite:
		return "sqlite"
	}
	return "unknown"
}

// The database a statement is rendered for.  It decides identifier quoting,
// placeholder style and literal escaping, and optionally qualifies table
// names with a schema / database name.
type Database interface {
	Dialect() Dialect
	EscapeCharacter() rune
	InsertReturningClause() string
	// nil means table names are rendered unqualified.
	Name() *string

	// The placeholder for the position-th (1-based) bind parameter.
	Placeholder(position int) string

	// Writes v as an inline sql literal.
	EncodeLiteral(v sqltypes.Value, out encoding2.BinaryWriter)

	// The LIMIT value to use when OFFSET is given without LIMIT, or "" if
	// the dialect accepts a bare OFFSET.
	UnboundedLimit() string

	// The clause for SELECT ... WithSharedLock(), or "" if unsupported.
	SharedLockClause() string
	// The clause for SELECT ... ForUpdate(), or "" if unsupported.
	ForUpdateClause() string
}

type genericDatabase struct {
	dialect         Dialect
	escapeChar      rune
	returningClause string
	name            *string
	unboundedLimit  string
	sharedLock      string
	forUpdate       string
}

func (db *genericDatabase) Dialect() Dialect {
	return db.dialect
}

func (db *genericDatabase) EscapeCharacter() rune {
	return db.escapeChar
}

func (db *genericDatabase) InsertReturningClause() string {
	return db.returningClause
}

func (db *genericDatabase) Name() *string {
	return db.name
}

func (db *genericDatabase) Placeholder(position int) string {
	if db.dialect == Postgres {
		return "$" + strconv.Itoa(position)
	}
	return "?"
}

func (db *genericDatabase) EncodeLiteral(
	v sqltypes.Value,
	out encoding2.BinaryWriter) {

	switch db.dialect {
	case MySQL:
		v.EncodeSql(out)
	case Postgres:
		if v.IsString() && !v.IsUtf8String() {
			_, _ = out.Write([]byte("'\\x"))
			encoding2.HexEncodeToWriter(out, v.Raw())
			_, _ = out.Write([]byte("'::bytea"))
			return
		}
		v.EncodeStandardSql(out)
	default:
		v.EncodeStandardSql(out)
	}
}

func (db *genericDatabase) UnboundedLimit() string {
	return db.unboundedLimit
}

func (db *genericDatabase) SharedLockClause() string {
	return db.sharedLock
}

func (db *genericDatabase) ForUpdateClause() string {
	return db.forUpdate
}

// A nil dbName renders unqualified table names.
func NewMySQLDatabase(dbName *string) Database {
	return &genericDatabase{
		dialect:        MySQL,
		escapeChar:     '`',
		name:           dbName,
		unboundedLimit: "18446744073709551615",
		sharedLock:     " LOCK IN SHARE MODE",
		forUpdate:      " FOR UPDATE",
	}
}

func NewPostgresDatabase(dbName *string) Database {
	return &genericDatabase{
		dialect:         Postgres,
		escapeChar:      '"',
		returningClause: " RETURNING *",
		name:            dbName,
		sharedLock:      " FOR SHARE",
		forUpdate:       " FOR UPDATE",
	}
}

// SQLite has no row locking; table names are left unqualified so the
// statements run against whichever database the connection opened.
func NewSQLiteDatabase() Database {
	return &genericDatabase{
		dialect:         SQLite,
		escapeChar:      '"',
		returningClause: " RETURNING *",
		unboundedLimit:  "-1",
	}
}
