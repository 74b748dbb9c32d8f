// A library for generating typed sql programmatically.
//
// Every expression carries a sql type tag (see SqlType).  Tags are checked
// while a query is composed: comparing incompatible types, limiting by a
// non BigInt bound, or referencing a column that is not in the query's
// source is reported by the statement's Err method (and by any attempt to
// render it), never by the database.
//
// Outer joins make the rows of a table optional.  A select's RowType
// reflects this: columns of a table that an outer join can null are
// nullable, and a tuple made of such columns (e.g. the default projection
// of the joined table) is nullable as a whole.
//
// Statements render for a Database (NewMySQLDatabase, NewPostgresDatabase,
// NewSQLiteDatabase), which decides identifier quoting, placeholders and
// literal escaping.  Rendering yields the sql text and the ordered bind
// parameters.
//
// Known limitations for SELECT queries:
//  - does not support subqueries (since mysql is bad at it)
//  - does not currently support join table alias (and hence self join)
//  - does not support NATURAL joins and join USING
//
// Known limitation for INSERT statements:
//  - does not support "INSERT INTO SELECT"
//
// Known limitation for UPDATE statements:
//  - does not support update without a WHERE clause (since it is dangerous)
//  - does not support multi-table update
//
// Known limitation for DELETE statements:
//  - does not support delete without a WHERE clause (since it is dangerous)
//  - does not support multi-table delete
package sqlbuilder
