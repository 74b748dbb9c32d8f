package sqlbuilder

var table1Col1 = IntColumn("col1", Nullable)
var table1Col2 = IntColumn("col2", Nullable)
var table1Col3 = IntColumn("col3", Nullable)
var table1Col4 = DateTimeColumn("col4", Nullable)
var table1 = NewTable(
	"table1",
	table1Col1,
	table1Col2,
	table1Col3,
	table1Col4)

var table2Col3 = IntColumn("col3", Nullable)
var table2Col4 = IntColumn("col4", Nullable)
var table2 = NewTable(
	"table2",
	table2Col3,
	table2Col4)

var table3Col1 = IntColumn("col1", Nullable)
var table3Col2 = IntColumn("col2", Nullable)
var table3 = NewTable(
	"table3",
	table3Col1,
	table3Col2)

// A small blog schema: posts reference users, comments reference posts.
var usersId = IntColumnWithIsPrimaryKey("id", NotNullable, IsPrimaryKey)
var usersName = TextColumn("name", NotNullable)
var users = NewTable(
	"users",
	usersId,
	usersName)

var postsId = IntColumnWithIsPrimaryKey("id", NotNullable, IsPrimaryKey)
var postsUserId = IntColumn("user_id", NotNullable)
var postsTitle = TextColumn("title", NotNullable)
var postsBody = TextColumn("body", Nullable)
var posts = NewTable(
	"posts",
	postsId,
	postsUserId,
	postsTitle,
	postsBody)

var commentsId = IntColumnWithIsPrimaryKey("id", NotNullable, IsPrimaryKey)
var commentsPostId = IntColumn("post_id", NotNullable)
var commentsText = TextColumn("text", NotNullable)
var comments = NewTable(
	"comments",
	commentsId,
	commentsPostId,
	commentsText)

// Not related to any other table.
var tagsId = IntColumn("id", NotNullable)
var tags = NewTable("tags", tagsId)

var blogSchema = NewSchema(users, posts, comments, tags).
	AddForeignKey(postsUserId, usersId).
	AddForeignKey(commentsPostId, postsId)

var mysql = NewMySQLDatabase(nil)

func mysqlDb(name string) Database {
	return NewMySQLDatabase(&name)
}

// Renders clause for mysql, without a database name.
func serialize(clause Clause) (string, error) {
	out := NewQueryBuilder(mysql)
	err := clause.SerializeSql(out)
	return out.String(), err
}
