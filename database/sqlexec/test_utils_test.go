package sqlexec

import (
	sb "github.com/typedsql/typedsql/database/sqlbuilder"
)

var usersId = sb.IntColumnWithIsPrimaryKey("id", sb.NotNullable, sb.IsPrimaryKey)
var usersName = sb.TextColumn("name", sb.NotNullable)
var users = sb.NewTable("users", usersId, usersName)

var postsId = sb.IntColumnWithIsPrimaryKey("id", sb.NotNullable, sb.IsPrimaryKey)
var postsUserId = sb.IntColumn("user_id", sb.NotNullable)
var postsTitle = sb.TextColumn("title", sb.NotNullable)
var postsBody = sb.TextColumn("body", sb.Nullable)
var posts = sb.NewTable("posts", postsId, postsUserId, postsTitle, postsBody)

var commentsId = sb.IntColumnWithIsPrimaryKey("id", sb.NotNullable, sb.IsPrimaryKey)
var commentsPostId = sb.IntColumn("post_id", sb.NotNullable)
var commentsBody = sb.TextColumn("body", sb.NotNullable)
var comments = sb.NewTable("comments", commentsId, commentsPostId, commentsBody)

var _ = sb.NewSchema(users, posts, comments).
	AddForeignKey(postsUserId, usersId).
	AddForeignKey(commentsPostId, postsId)

var eventsId = sb.BigIntColumn("id", sb.NotNullable)
var eventsAt = sb.DateTimeColumn("at", sb.NotNullable)
var eventsPrice = sb.DecimalColumn("price", 10, 2, sb.NotNullable)
var eventsRatio = sb.DoubleColumn("ratio", sb.NotNullable)
var eventsActive = sb.BoolColumn("active", sb.NotNullable)
var eventsPayload = sb.BytesColumn("payload", sb.Nullable)
var events = sb.NewTable(
	"events",
	eventsId,
	eventsAt,
	eventsPrice,
	eventsRatio,
	eventsActive,
	eventsPayload)
