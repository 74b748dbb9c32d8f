package sqlbuilder

import (
	"time"

	gc "gopkg.in/check.v1"
)

type StmtSuite struct {
}

var _ = gc.Suite(&StmtSuite{})

// NOTE: tables / columns are defined in test_utils.go

func argStrings(args []BindValue) []string {
	result := make([]string, len(args))
	for i, arg := range args {
		result[i] = arg.Value.String()
	}
	return result
}

//
// SELECT statement tests
//

func (s *StmtSuite) TestSelectDefaultProjection(c *gc.C) {
	q := users.Select()
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `users`.`id`,`users`.`name` FROM `db`.`users`")
	c.Assert(q.RowType().String(), gc.Equals, "(Integer, Text)")
}

func (s *StmtSuite) TestSelectSingleColumn(c *gc.C) {
	q := table1.Select(table1Col1)
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `db`.`table1`")
	c.Assert(q.RowType().String(), gc.Equals, "Nullable<Integer>")
}

func (s *StmtSuite) TestSelectMultiColumns(c *gc.C) {
	q := table1.Select(table1Col1, table1Col2)
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1`,`table1`.`col2` FROM `db`.`table1`")
	c.Assert(
		q.RowType().String(),
		gc.Equals,
		"(Nullable<Integer>, Nullable<Integer>)")
}

func (s *StmtSuite) TestSelectNilProjection(c *gc.C) {
	_, err := table1.Select(table1Col1, nil).String(mysql)

	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestSelectWhere(c *gc.C) {
	q := table1.Select(table1Col1).Where(GtL(table1Col1, 123))
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `db`.`table1` WHERE `table1`.`col1`>123")
}

func (s *StmtSuite) TestSelectWhereDate(c *gc.C) {
	date := time.Date(1999, 1, 2, 3, 4, 5, 0, time.UTC)

	q := table1.Select(table1Col1).Where(GtL(table1Col4, date))
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `db`.`table1` "+
			"WHERE `table1`.`col4`>'1999-01-02 03:04:05.000000000'")
}

func (s *StmtSuite) TestSelectWhereBind(c *gc.C) {
	q := users.Select(usersName).Where(Eq(usersId, Bind(7)))

	rendered, err := q.Render(NewPostgresDatabase(nil))
	c.Assert(err, gc.IsNil)
	c.Assert(
		rendered.Sql,
		gc.Equals,
		`SELECT "users"."name" FROM "users" WHERE "users"."id"=$1`)
	c.Assert(argStrings(rendered.Args), gc.DeepEquals, []string{"7"})
}

func (s *StmtSuite) TestSelectAndWhere(c *gc.C) {
	q := table1.Select(table1Col1).Where(GtL(table1Col1, 123))
	q = q.AndWhere(LtL(table1Col1, 321))
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `db`.`table1` WHERE (`table1`.`col1`>123 AND `table1`.`col1`<321)")
}

func (s *StmtSuite) TestSelectAndWhereWithoutWhere(c *gc.C) {
	q := table1.Select(table1Col1).AndWhere(LtL(table1Col1, 321))
	sql, err := q.String(mysql)

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `table1` WHERE `table1`.`col1`<321")
}

func (s *StmtSuite) TestSelectCopy(c *gc.C) {
	q := table1.Select(table1Col1).Where(GtL(table1Col1, 123))
	qq := q.Copy().Where(GtL(table1Col1, 321)).OrderBy(table1Col1)

	// Initial query unchanged
	sql, err := q.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `db`.`table1` WHERE `table1`.`col1`>123")
	// New query changed
	sql, err = qq.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `db`.`table1` WHERE `table1`.`col1`>321 ORDER BY `table1`.`col1`")

}

func (s *StmtSuite) TestSelectCombinatorsDoNotModifyReceiver(c *gc.C) {
	q := table1.Select(table1Col1)
	_ = q.Where(GtL(table1Col1, 1)).Limit(5).OrderBy(table1Col1).ForUpdate()

	sql, err := q.String(mysql)
	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "SELECT `table1`.`col1` FROM `table1`")
}

func (s *StmtSuite) TestSelectLimitWithoutOffset(c *gc.C) {
	q := table1.Select(table1Col1).Limit(5)
	rendered, err := q.Render(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		rendered.Sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `db`.`table1` LIMIT ?")
	c.Assert(argStrings(rendered.Args), gc.DeepEquals, []string{"5"})
	c.Assert(rendered.Args[0].Type.Equals(BigInt), gc.Equals, true)
}

func (s *StmtSuite) TestSelectLimitWithOffset(c *gc.C) {
	q := table1.Select(table1Col1).Limit(5).Offset(2)
	rendered, err := q.Render(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		rendered.Sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `db`.`table1` LIMIT ? OFFSET ?")
	c.Assert(argStrings(rendered.Args), gc.DeepEquals, []string{"5", "2"})
}

func (s *StmtSuite) TestSelectOffsetOrderIndependent(c *gc.C) {
	q1 := users.Select(usersId).Offset(2).Limit(5)
	q2 := users.Select(usersId).Limit(5).Offset(2)

	r1, err := q1.Render(mysql)
	c.Assert(err, gc.IsNil)
	r2, err := q2.Render(mysql)
	c.Assert(err, gc.IsNil)

	c.Assert(r1.Sql, gc.Equals, r2.Sql)
	c.Assert(argStrings(r1.Args), gc.DeepEquals, argStrings(r2.Args))
}

func (s *StmtSuite) TestSelectOffsetWithoutLimit(c *gc.C) {
	q := users.Select(usersId).Offset(10)

	sql, err := q.String(mysql)
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `users`.`id` FROM `users` LIMIT 18446744073709551615 OFFSET ?")

	sql, err = q.String(NewSQLiteDatabase())
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		`SELECT "users"."id" FROM "users" LIMIT -1 OFFSET ?`)

	sql, err = q.String(NewPostgresDatabase(nil))
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		`SELECT "users"."id" FROM "users" OFFSET $1`)
}

func (s *StmtSuite) TestSelectOffsetExpr(c *gc.C) {
	q := users.Select(usersId).LimitExpr(Literal(int64(3))).OffsetExpr(Bind(4))

	rendered, err := q.Render(mysql)
	c.Assert(err, gc.IsNil)
	c.Assert(
		rendered.Sql,
		gc.Equals,
		"SELECT `users`.`id` FROM `users` LIMIT 3 OFFSET ?")
	c.Assert(argStrings(rendered.Args), gc.DeepEquals, []string{"4"})
}

func (s *StmtSuite) TestSelectOffsetTypeMismatch(c *gc.C) {
	q := users.Select(usersId).OffsetExpr(Literal(int32(1)))

	c.Assert(q.Err(), gc.NotNil)
	c.Assert(IsConstructionError(q.Err()), gc.Equals, true)

	_, err := q.String(mysql)
	c.Assert(err, gc.Equals, q.Err())

	// Later combinators keep the first error.
	q = q.Where(EqL(usersId, 1)).Limit(1)
	c.Assert(IsConstructionError(q.Err()), gc.Equals, true)
}

func (s *StmtSuite) TestSelectLimitTypeMismatch(c *gc.C) {
	q := users.Select(usersId).LimitExpr(usersName)

	c.Assert(IsConstructionError(q.Err()), gc.Equals, true)
}

func (s *StmtSuite) TestSelectGroupBy(c *gc.C) {
	q := table1.Select(
		table1Col1,
		table1Col2,
		Alias("total", SqlFunc("sum", table1Col3)))
	q = q.GroupBy(table1Col1, table1Col2)
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1`,`table1`.`col2`,"+
			"(sum(`table1`.`col3`)) AS `total` "+
			"FROM `db`.`table1` GROUP BY `table1`.`col1`,`table1`.`col2`")
}

func (s *StmtSuite) TestSelectCount(c *gc.C) {
	q := users.Select(usersName, Alias("n", Count(usersId))).GroupBy(usersName)
	sql, err := q.String(mysql)

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `users`.`name`,(COUNT(`users`.`id`)) AS `n` "+
			"FROM `users` GROUP BY `users`.`name`")
	c.Assert(q.RowType().String(), gc.Equals, "(Text, BigInt)")
}

func (s *StmtSuite) TestSelectSingleOrderBy(c *gc.C) {
	q := table1.Select(table1Col1, table1Col2).OrderBy(table1Col2)
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1`,`table1`.`col2` "+
			"FROM `db`.`table1` ORDER BY `table1`.`col2`")
}

func (s *StmtSuite) TestSelectOrderByAsc(c *gc.C) {
	q := table1.Select(table1Col1, table1Col2).OrderBy(Asc(table1Col2))
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1`,`table1`.`col2` "+
			"FROM `db`.`table1` ORDER BY `table1`.`col2` ASC")
}

func (s *StmtSuite) TestSelectOrderByDesc(c *gc.C) {
	q := table1.Select(table1Col1, table1Col2).OrderBy(Desc(table1Col2))
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1`,`table1`.`col2` "+
			"FROM `db`.`table1` ORDER BY `table1`.`col2` DESC")
}

func (s *StmtSuite) TestSelectMultiOrderBy(c *gc.C) {
	q := table1.Select(table1Col1, table1Col2)
	q = q.OrderBy(table1Col2, table1Col1)
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1`,`table1`.`col2` "+
			"FROM `db`.`table1` "+
			"ORDER BY `table1`.`col2`,`table1`.`col1`")
}

func (s *StmtSuite) TestSelectClauseOrder(c *gc.C) {
	q := users.Select(usersName).
		Limit(3).
		OrderBy(Desc(usersId)).
		Offset(1).
		GroupBy(usersName).
		Where(GtL(usersId, 0)).
		Comment("fixed order")
	sql, err := q.String(mysql)

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT /* fixed order */ `users`.`name` FROM `users` "+
			"WHERE `users`.`id`>0 GROUP BY `users`.`name` "+
			"ORDER BY `users`.`id` DESC LIMIT ? OFFSET ?")
}

func (s *StmtSuite) TestSelectInvalidComment(c *gc.C) {
	_, err := users.Select(usersId).Comment("*/ DROP").String(mysql)

	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestSelectDistinct(c *gc.C) {
	sql, err := users.Select(usersName).Distinct().String(mysql)

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "SELECT DISTINCT `users`.`name` FROM `users`")
}

func (s *StmtSuite) TestSelectOnJoin(c *gc.C) {

	join := table1.InnerJoinOn(table2, Eq(table1Col3, table2Col3))
	sql, err := join.Select(table1Col1, table2Col4).String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1`,`table2`.`col4` "+
			"FROM `db`.`table1` INNER JOIN `db`.`table2` "+
			"ON `table1`.`col3`=`table2`.`col3`")
}

func (s *StmtSuite) TestSelectWithSharedLock(c *gc.C) {

	q := table1.Select(table1Col1).Where(GtL(table1Col1, 123)).WithSharedLock()
	sql, err := q.String(mysqlDb("db"))

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"SELECT `table1`.`col1` FROM `db`.`table1` "+
			"WHERE `table1`.`col1`>123 LOCK IN SHARE MODE")

	sql, err = q.String(NewPostgresDatabase(nil))
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		`SELECT "table1"."col1" FROM "table1" `+
			`WHERE "table1"."col1">123 FOR SHARE`)
}

func (s *StmtSuite) TestSelectForUpdate(c *gc.C) {
	q := users.Select(usersId).ForUpdate().WithSharedLock()
	sql, err := q.String(mysql)

	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, "SELECT `users`.`id` FROM `users` FOR UPDATE")

	_, err = q.String(NewSQLiteDatabase())
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestSelectColumnNotInSource(c *gc.C) {
	q := users.Select(usersId, postsTitle)

	c.Assert(q.Err(), gc.NotNil)
	c.Assert(IsConstructionError(q.Err()), gc.Equals, true)

	q = users.Select(usersId).Where(EqL(postsId, 1))
	c.Assert(IsConstructionError(q.Err()), gc.Equals, true)

	q = users.Select(usersId).OrderBy(postsId)
	c.Assert(IsConstructionError(q.Err()), gc.Equals, true)

	_, err := q.String(mysql)
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestSelectMissingLookupColumn(c *gc.C) {
	q := users.Select(users.C("missing"))

	c.Assert(IsConstructionError(q.Err()), gc.Equals, true)
}

//
// UNION statement tests
//

func (s *StmtSuite) TestUnion(c *gc.C) {
	q := Union(
		users.Select(usersId).Where(EqL(usersId, 1)),
		posts.Select(postsUserId))
	sql, err := q.String(mysql)

	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"(SELECT `users`.`id` FROM `users` WHERE `users`.`id`=1) "+
			"UNION (SELECT `posts`.`user_id` FROM `posts`)")
	c.Assert(q.RowType().String(), gc.Equals, "Integer")
}

func (s *StmtSuite) TestUnionAllWithLimit(c *gc.C) {
	q := UnionAll(
		users.Select(usersId),
		posts.Select(postsUserId)).Limit(10).Offset(5)

	rendered, err := q.Render(NewSQLiteDatabase())
	c.Assert(err, gc.IsNil)
	c.Assert(
		rendered.Sql,
		gc.Equals,
		`SELECT "users"."id" FROM "users" UNION ALL `+
			`SELECT "posts"."user_id" FROM "posts" LIMIT ? OFFSET ?`)
	c.Assert(argStrings(rendered.Args), gc.DeepEquals, []string{"10", "5"})
}

func (s *StmtSuite) TestUnionUnifiesNullability(c *gc.C) {
	q := Union(users.Select(usersId), table1.Select(table1Col1))

	c.Assert(q.Err(), gc.IsNil)
	c.Assert(q.RowType().String(), gc.Equals, "Nullable<Integer>")
}

func (s *StmtSuite) TestUnionTypeMismatch(c *gc.C) {
	q := Union(users.Select(usersId), users.Select(usersName))

	c.Assert(IsConstructionError(q.Err()), gc.Equals, true)
	_, err := q.String(mysql)
	c.Assert(err, gc.NotNil)

	q = Union(users.Select(usersId), users.Select(usersId, usersName))
	c.Assert(IsConstructionError(q.Err()), gc.Equals, true)
}

func (s *StmtSuite) TestUnionInnerOrderByRequiresLimit(c *gc.C) {
	q := Union(
		users.Select(usersId).OrderBy(usersId),
		posts.Select(postsUserId))
	_, err := q.String(mysql)
	c.Assert(err, gc.NotNil)

	q = Union(
		users.Select(usersId).OrderBy(usersId).Limit(1),
		posts.Select(postsUserId))
	_, err = q.String(mysql)
	c.Assert(err, gc.IsNil)

	_, err = q.String(NewSQLiteDatabase())
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestUnionEmpty(c *gc.C) {
	c.Assert(Union().Err(), gc.NotNil)
}

//
// INSERT statement tests
//

func (s *StmtSuite) TestInsertNoColumn(c *gc.C) {
	_, err := table1.Insert().Add().String(mysqlDb("db"))

	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestInsertNoRow(c *gc.C) {
	_, err := table1.Insert(table1Col1).String(mysqlDb("db"))

	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestInsertColumnLengthMismatch(c *gc.C) {
	_, err := table1.Insert(table1Col1, table1Col2).Add(nil).String(mysqlDb("db"))

	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestInsertNilValue(c *gc.C) {
	_, err := table1.Insert(table1Col1).Add(nil).String(mysqlDb("db"))

	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestInsertNilColumn(c *gc.C) {
	_, err := table1.Insert(nil).Add(Literal(1)).String(mysqlDb("db"))

	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestInsertForeignColumn(c *gc.C) {
	stmt := users.Insert(postsTitle)

	c.Assert(IsConstructionError(stmt.Err()), gc.Equals, true)
}

func (s *StmtSuite) TestInsertSingleValue(c *gc.C) {
	sql, err := table1.Insert(table1Col1).Add(Literal(1)).String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"INSERT INTO `db`.`table1` (`col1`) VALUES (1)")
}

func (s *StmtSuite) TestInsertDate(c *gc.C) {
	date := time.Date(1999, 1, 2, 3, 4, 5, 0, time.UTC)

	sql, err := table1.Insert(table1Col4).Add(Literal(date)).String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"INSERT INTO `db`.`table1` (`col4`) "+
			"VALUES ('1999-01-02 03:04:05.000000000')")
}

func (s *StmtSuite) TestInsertTypeMismatch(c *gc.C) {
	stmt := users.Insert(usersId, usersName).Add(Literal("x"), Literal("y"))
	c.Assert(IsConstructionError(stmt.Err()), gc.Equals, true)

	stmt = users.Insert(usersName).Add(Literal(nil))
	c.Assert(IsConstructionError(stmt.Err()), gc.Equals, true)

	stmt = posts.Insert(postsBody).Add(Literal(nil))
	c.Assert(stmt.Err(), gc.IsNil)
}

func (s *StmtSuite) TestInsertIgnore(c *gc.C) {
	stmt := table1.Insert(table1Col1).Add(Literal(1)).IgnoreDuplicates(true)
	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"INSERT IGNORE INTO `db`.`table1` (`col1`) VALUES (1)")

	sql, err = stmt.String(NewSQLiteDatabase())
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		`INSERT OR IGNORE INTO "table1" ("col1") VALUES (1)`)

	sql, err = stmt.String(NewPostgresDatabase(nil))
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		`INSERT INTO "table1" ("col1") VALUES (1) ON CONFLICT DO NOTHING`)
}

func (s *StmtSuite) TestInsertMultipleValues(c *gc.C) {
	stmt := table1.Insert(table1Col1, table1Col2, table1Col3)
	stmt = stmt.Add(Literal(1), Literal(2), Literal(3))

	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"INSERT INTO `db`.`table1` "+
			"(`col1`,`col2`,`col3`) "+
			"VALUES (1,2,3)")
}

func (s *StmtSuite) TestInsertMultipleRows(c *gc.C) {
	stmt := table1.Insert(table1Col1, table1Col2).
		Add(Literal(1), Literal(2)).
		Add(Literal(11), Literal(22)).
		Add(Literal(111), Literal(222))

	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"INSERT INTO `db`.`table1` "+
			"(`col1`,`col2`) "+
			"VALUES (1,2), (11,22), (111,222)")
}

func (s *StmtSuite) TestInsertBindsReturning(c *gc.C) {
	stmt := users.Insert(usersId, usersName).
		Add(Bind(1), Bind("ann")).
		Add(Bind(2), Bind("bob")).
		Returning()

	rendered, err := stmt.Render(NewPostgresDatabase(nil))
	c.Assert(err, gc.IsNil)
	c.Assert(
		rendered.Sql,
		gc.Equals,
		`INSERT INTO "users" ("id","name") VALUES ($1,$2), ($3,$4) RETURNING *`)
	c.Assert(
		argStrings(rendered.Args),
		gc.DeepEquals,
		[]string{"1", "ann", "2", "bob"})

	_, err = stmt.String(mysql)
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestOnDuplicateKeyUpdateNilCol(c *gc.C) {
	stmt := table1.Insert(table1Col1, table1Col2).
		Add(Literal(1), Literal(2)).
		AddOnDuplicateKeyUpdate(nil, Literal(3))

	_, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestOnDuplicateKeyUpdateNilExpr(c *gc.C) {
	stmt := table1.Insert(table1Col1, table1Col2).
		Add(Literal(1), Literal(2)).
		AddOnDuplicateKeyUpdate(table1Col1, nil)

	_, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestOnDuplicateKeyUpdateSingle(c *gc.C) {
	stmt := table1.Insert(table1Col1, table1Col2).
		Add(Literal(1), Literal(2)).
		AddOnDuplicateKeyUpdate(table1Col3, Literal(3))

	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"INSERT INTO `db`.`table1` "+
			"(`col1`,`col2`) "+
			"VALUES (1,2) "+
			"ON DUPLICATE KEY UPDATE `table1`.`col3`=3")

	_, err = stmt.String(NewPostgresDatabase(nil))
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestOnDuplicateKeyUpdateMulti(c *gc.C) {
	stmt := table1.Insert(table1Col1, table1Col2).
		Add(Literal(1), Literal(2)).
		AddOnDuplicateKeyUpdate(table1Col3, Literal(3)).
		AddOnDuplicateKeyUpdate(table1Col2, ColumnValue(table1Col2))

	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"INSERT INTO `db`.`table1` "+
			"(`col1`,`col2`) "+
			"VALUES (1,2) "+
			"ON DUPLICATE KEY UPDATE `table1`.`col3`=3, "+
			"`table1`.`col2`=VALUES(`table1`.`col2`)")
}

//
// UPDATE statement tests =====================================================
//

func (s *StmtSuite) TestUpdateNilColumn(c *gc.C) {
	stmt := table1.Update().Set(nil, Literal(1))
	_, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestUpdateNilExpr(c *gc.C) {
	stmt := table1.Update().Set(table1Col1, nil).Where(EqL(table1Col2, 2))
	_, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestUpdateUnconditionally(c *gc.C) {
	stmt := table1.Update().Set(table1Col1, Literal(1))
	_, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestUpdateSingleValue(c *gc.C) {
	stmt := table1.Update().Set(table1Col1, Literal(1))
	stmt = stmt.Where(EqL(table1Col2, 2))
	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"UPDATE `db`.`table1` SET `col1`=1 WHERE `table1`.`col2`=2")
}

func (s *StmtSuite) TestUpdateUsingDeferredLookupColumns(c *gc.C) {
	stmt := table1.Update().
		Set(table1.C("col1"), Literal(1)).
		Where(EqL(table1Col2, 2))
	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"UPDATE `db`.`table1` SET `col1`=1 WHERE `table1`.`col2`=2")
}

func (s *StmtSuite) TestUpdateMultiValues(c *gc.C) {
	stmt := table1.Update().
		Set(table1Col1, Literal(1)).
		Set(table1Col2, Literal(2)).
		Where(EqL(table1Col2, 3))
	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"UPDATE `db`.`table1` "+
			"SET `col1`=1, `col2`=2 "+
			"WHERE `table1`.`col2`=3")
}

func (s *StmtSuite) TestUpdateCopyOnWrite(c *gc.C) {
	base := users.Update().Where(EqL(usersId, 1))
	rename := base.Set(usersName, Literal("x"))

	_, err := base.String(mysql)
	c.Assert(err, gc.NotNil)

	sql, err := rename.String(mysql)
	c.Assert(err, gc.IsNil)
	c.Assert(
		sql,
		gc.Equals,
		"UPDATE `users` SET `name`='x' WHERE `users`.`id`=1")
}

func (s *StmtSuite) TestUpdateTypeMismatch(c *gc.C) {
	stmt := users.Update().Set(usersId, Literal("x")).Where(EqL(usersId, 1))
	c.Assert(IsConstructionError(stmt.Err()), gc.Equals, true)

	stmt = users.Update().Set(postsTitle, Literal("x"))
	c.Assert(IsConstructionError(stmt.Err()), gc.Equals, true)
}

func (s *StmtSuite) TestUpdateWithOrderBy(c *gc.C) {
	stmt := table1.Update().
		Set(table1Col1, Literal(1)).
		Where(EqL(table1Col2, 2)).
		OrderBy(table1Col2)
	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"UPDATE `db`.`table1` "+
			"SET `col1`=1 "+
			"WHERE `table1`.`col2`=2 "+
			"ORDER BY `table1`.`col2`")
}

func (s *StmtSuite) TestUpdateWithLimit(c *gc.C) {
	stmt := table1.Update().
		Set(table1Col1, Literal(1)).
		Where(EqL(table1Col2, 2)).
		Limit(5)
	rendered, err := stmt.Render(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		rendered.Sql,
		gc.Equals,
		"UPDATE `db`.`table1` "+
			"SET `col1`=1 "+
			"WHERE `table1`.`col2`=2 "+
			"LIMIT ?")
	c.Assert(argStrings(rendered.Args), gc.DeepEquals, []string{"5"})

	_, err = stmt.String(NewPostgresDatabase(nil))
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestUpdatePostgres(c *gc.C) {
	stmt := users.Update().Set(usersName, Bind("y")).Where(Eq(usersId, Bind(3)))
	rendered, err := stmt.Render(NewPostgresDatabase(nil))
	c.Assert(err, gc.IsNil)

	c.Assert(
		rendered.Sql,
		gc.Equals,
		`UPDATE "users" SET "name"=$1 WHERE "users"."id"=$2`)
	c.Assert(argStrings(rendered.Args), gc.DeepEquals, []string{"y", "3"})
}

//
// DELETE statement tests =====================================================
//

func (s *StmtSuite) TestDeleteUnconditionally(c *gc.C) {
	_, err := table1.Delete().String(mysqlDb("db"))
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestDeleteWithWhere(c *gc.C) {
	sql, err := table1.Delete().Where(EqL(table1Col1, 1)).String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"DELETE FROM `db`.`table1` WHERE `table1`.`col1`=1")
}

func (s *StmtSuite) TestDeleteWithOrderBy(c *gc.C) {
	stmt := table1.Delete().Where(EqL(table1Col1, 1)).OrderBy(table1Col1)
	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"DELETE FROM `db`.`table1` "+
			"WHERE `table1`.`col1`=1 "+
			"ORDER BY `table1`.`col1`")
}

func (s *StmtSuite) TestDeleteWithLimit(c *gc.C) {
	stmt := table1.Delete().Where(EqL(table1Col1, 1)).Limit(5)
	sql, err := stmt.String(mysqlDb("db"))
	c.Assert(err, gc.IsNil)

	c.Assert(
		sql,
		gc.Equals,
		"DELETE FROM `db`.`table1` WHERE `table1`.`col1`=1 LIMIT ?")
}

func (s *StmtSuite) TestDeleteSQLite(c *gc.C) {
	stmt := users.Delete().Where(Eq(usersId, Bind(1)))
	sql, err := stmt.String(NewSQLiteDatabase())
	c.Assert(err, gc.IsNil)
	c.Assert(sql, gc.Equals, `DELETE FROM "users" WHERE "users"."id"=?`)

	_, err = stmt.OrderBy(usersId).String(NewSQLiteDatabase())
	c.Assert(err, gc.NotNil)
}

func (s *StmtSuite) TestDeleteColumnNotInSource(c *gc.C) {
	stmt := users.Delete().Where(EqL(postsId, 1))
	c.Assert(IsConstructionError(stmt.Err()), gc.Equals, true)
}
