package discussion

import (
	"errors"
	"fmt"
	"testing"

	"divelink/internal/models"
	"divelink/internal/utils"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*Store, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	// A single connection keeps every session on the same in-memory DB.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	err = db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.Post{},
		&models.PostImage{},
		&models.Comment{},
		&models.ViewMarker{},
		&models.LikeMarker{},
		&models.Notification{},
	)
	if err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	return NewStore(db), db
}

func createUser(t *testing.T, db *gorm.DB, nickname, role string) *models.User {
	t.Helper()
	user := models.User{
		Nickname: nickname,
		Email:    nickname + "@example.com",
		Password: "x",
		Role:     role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create user %s: %v", nickname, err)
	}
	return &user
}

func createBoard(t *testing.T, db *gorm.DB, slug string, acceptsAnswers bool) *models.Board {
	t.Helper()
	board := models.Board{Slug: slug, Name: slug, AcceptsAnswers: acceptsAnswers}
	if err := db.Create(&board).Error; err != nil {
		t.Fatalf("failed to create board %s: %v", slug, err)
	}
	return &board
}

func createPost(t *testing.T, db *gorm.DB, board *models.Board, author *models.User, title string) *models.Post {
	t.Helper()
	post := models.Post{
		Pid:     utils.RandStringBytesMaskImpr(8),
		UserID:  author.ID,
		BoardID: board.ID,
		Title:   title,
		Content: "Let's discuss",
	}
	if err := db.Create(&post).Error; err != nil {
		t.Fatalf("failed to create post: %v", err)
	}
	return &post
}

func TestLoadPostNotFound(t *testing.T) {
	store, _ := newTestStore(t)

	if _, err := store.LoadPost("missing1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordViewIdempotent(t *testing.T) {
	store, db := newTestStore(t)
	board := createBoard(t, db, "free", false)
	author := createUser(t, db, "alice", models.RoleUser)
	viewer := createUser(t, db, "bob", models.RoleUser)
	post := createPost(t, db, board, author, "Best dive spots")

	for i := 0; i < 3; i++ {
		counted, err := store.RecordView(post.ID, viewer.ID)
		if err != nil {
			t.Fatalf("RecordView call %d failed: %v", i+1, err)
		}
		// Only the first call records a view; the no-op path must say so.
		if want := i == 0; counted != want {
			t.Errorf("RecordView call %d reported counted = %v, want %v", i+1, counted, want)
		}
	}

	var got models.Post
	if err := db.First(&got, post.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if got.Views != 1 {
		t.Errorf("expected views = 1 after repeated views by one user, got %d", got.Views)
	}

	// A second viewer still counts.
	other := createUser(t, db, "carol", models.RoleUser)
	counted, err := store.RecordView(post.ID, other.ID)
	if err != nil {
		t.Fatalf("RecordView for second viewer failed: %v", err)
	}
	if !counted {
		t.Error("expected the second viewer's first view to be counted")
	}
	if err := db.First(&got, post.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if got.Views != 2 {
		t.Errorf("expected views = 2 after second viewer, got %d", got.Views)
	}
}

func TestLikeRatchet(t *testing.T) {
	store, db := newTestStore(t)
	board := createBoard(t, db, "free", false)
	author := createUser(t, db, "alice", models.RoleUser)
	liker := createUser(t, db, "carol", models.RoleUser)
	post := createPost(t, db, board, author, "Best dive spots")

	likes, err := store.LikePost(post.ID, liker.ID)
	if err != nil {
		t.Fatalf("first like failed: %v", err)
	}
	if likes != 1 {
		t.Errorf("expected 1 like, got %d", likes)
	}

	if _, err := store.LikePost(post.ID, liker.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Errorf("expected ErrAlreadyLiked on second like, got %v", err)
	}

	var got models.Post
	if err := db.First(&got, post.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if got.Likes != 1 {
		t.Errorf("expected likes unchanged at 1, got %d", got.Likes)
	}
}

func TestLikeCommentRatchet(t *testing.T) {
	store, db := newTestStore(t)
	board := createBoard(t, db, "free", false)
	author := createUser(t, db, "alice", models.RoleUser)
	liker := createUser(t, db, "bob", models.RoleUser)
	post := createPost(t, db, board, author, "Night diving")

	comment, err := store.AddComment(post.ID, author.ID, "self comment", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if _, err := store.LikeComment(comment.ID, liker.ID); err != nil {
		t.Fatalf("first comment like failed: %v", err)
	}
	if _, err := store.LikeComment(comment.ID, liker.ID); !errors.Is(err, ErrAlreadyLiked) {
		t.Errorf("expected ErrAlreadyLiked, got %v", err)
	}
}

func TestCommentOrdering(t *testing.T) {
	store, db := newTestStore(t)
	board := createBoard(t, db, "free", false)
	author := createUser(t, db, "alice", models.RoleUser)
	post := createPost(t, db, board, author, "Best dive spots")

	for i := 0; i < 5; i++ {
		if _, err := store.AddComment(post.ID, author.ID, fmt.Sprintf("comment %d", i), nil); err != nil {
			t.Fatalf("AddComment %d failed: %v", i, err)
		}
	}

	comments, err := store.ListComments(post.ID)
	if err != nil {
		t.Fatalf("ListComments failed: %v", err)
	}
	if len(comments) != 5 {
		t.Fatalf("expected 5 comments, got %d", len(comments))
	}
	for i := 1; i < len(comments); i++ {
		if comments[i].CreatedAt.Before(comments[i-1].CreatedAt) {
			t.Errorf("comments out of order at index %d", i)
		}
	}
}

func TestAddCommentValidation(t *testing.T) {
	store, db := newTestStore(t)
	board := createBoard(t, db, "free", false)
	author := createUser(t, db, "alice", models.RoleUser)
	post := createPost(t, db, board, author, "Best dive spots")

	if _, err := store.AddComment(post.ID, author.ID, "   ", nil); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for blank comment, got %v", err)
	}

	// Replies are one level deep: a reply cannot parent another reply.
	top, err := store.AddComment(post.ID, author.ID, "top", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	reply, err := store.AddComment(post.ID, author.ID, "reply", &top.ID)
	if err != nil {
		t.Fatalf("reply failed: %v", err)
	}
	if _, err := store.AddComment(post.ID, author.ID, "nested", &reply.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation for nested reply, got %v", err)
	}
}

func TestNotificationFanOut(t *testing.T) {
	store, db := newTestStore(t)
	board := createBoard(t, db, "free", false)
	author := createUser(t, db, "alice", models.RoleUser)
	commenter := createUser(t, db, "bob", models.RoleUser)
	post := createPost(t, db, board, author, "Best dive spots")

	// Commenting on one's own post produces no notification.
	if _, err := store.AddComment(post.ID, author.ID, "my own note", nil); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	var count int64
	db.Model(&models.Notification{}).Count(&count)
	if count != 0 {
		t.Errorf("expected 0 notifications for self-comment, got %d", count)
	}

	// Another user's comment produces exactly one, addressed to the author.
	if _, err := store.AddComment(post.ID, commenter.ID, "Great topic!", nil); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	notifications, err := store.ListNotifications(author.ID)
	if err != nil {
		t.Fatalf("ListNotifications failed: %v", err)
	}
	if len(notifications) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(notifications))
	}
	n := notifications[0]
	if n.Snippet != "Great topic!" {
		t.Errorf("expected snippet %q, got %q", "Great topic!", n.Snippet)
	}
	if n.BoardSlug != "free" || n.PostID != post.ID || n.PostTitle != post.Title {
		t.Errorf("notification fields wrong: %+v", n)
	}

	// Long comments are truncated to 30 runes.
	long := "다이빙은 정말 즐겁습니다. 같이 가실 분은 연락 주세요. 장비는 제가 준비하겠습니다."
	if _, err := store.AddComment(post.ID, commenter.ID, long, nil); err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	notifications, _ = store.ListNotifications(author.ID)
	got := notifications[0].Snippet // newest first
	if want := string([]rune(long)[:SnippetRunes]); got != want {
		t.Errorf("expected snippet %q, got %q", want, got)
	}
}

func TestNotificationReadFlow(t *testing.T) {
	store, db := newTestStore(t)
	board := createBoard(t, db, "free", false)
	author := createUser(t, db, "alice", models.RoleUser)
	commenter := createUser(t, db, "bob", models.RoleUser)
	post := createPost(t, db, board, author, "Wreck diving")

	for i := 0; i < 3; i++ {
		if _, err := store.AddComment(post.ID, commenter.ID, fmt.Sprintf("comment %d", i), nil); err != nil {
			t.Fatalf("AddComment failed: %v", err)
		}
	}

	notifications, _ := store.ListNotifications(author.ID)
	if len(notifications) != 3 {
		t.Fatalf("expected 3 unread, got %d", len(notifications))
	}

	// Recipients cannot read someone else's notification.
	if err := store.MarkNotificationRead(notifications[0].ID, commenter.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for foreign notification, got %v", err)
	}

	if err := store.MarkNotificationRead(notifications[0].ID, author.ID); err != nil {
		t.Fatalf("MarkNotificationRead failed: %v", err)
	}
	notifications, _ = store.ListNotifications(author.ID)
	if len(notifications) != 2 {
		t.Errorf("expected 2 unread after reading one, got %d", len(notifications))
	}

	if err := store.MarkAllNotificationsRead(author.ID); err != nil {
		t.Fatalf("MarkAllNotificationsRead failed: %v", err)
	}
	notifications, _ = store.ListNotifications(author.ID)
	if len(notifications) != 0 {
		t.Errorf("expected 0 unread after read-all, got %d", len(notifications))
	}
}

func TestDeleteCommentCascade(t *testing.T) {
	store, db := newTestStore(t)
	board := createBoard(t, db, "free", false)
	author := createUser(t, db, "alice", models.RoleUser)
	commenter := createUser(t, db, "bob", models.RoleUser)
	liker := createUser(t, db, "carol", models.RoleUser)
	post := createPost(t, db, board, author, "Best dive spots")

	top, err := store.AddComment(post.ID, commenter.ID, "top comment", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	for i := 0; i < 2; i++ {
		if _, err := store.AddComment(post.ID, author.ID, fmt.Sprintf("reply %d", i), &top.ID); err != nil {
			t.Fatalf("reply %d failed: %v", i, err)
		}
	}
	if _, err := store.LikeComment(top.ID, liker.ID); err != nil {
		t.Fatalf("LikeComment failed: %v", err)
	}

	if err := store.DeleteComment(post.ID, top.ID, commenter.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}

	var remaining int64
	db.Model(&models.Comment{}).Where("post_id = ?", post.ID).Count(&remaining)
	if remaining != 0 {
		t.Errorf("expected 0 comments after cascade delete, got %d", remaining)
	}
	var markers int64
	db.Model(&models.LikeMarker{}).Where("comment_id IS NOT NULL").Count(&markers)
	if markers != 0 {
		t.Errorf("expected like markers removed with comments, got %d", markers)
	}
}

func TestDeleteCommentAuthorization(t *testing.T) {
	store, db := newTestStore(t)
	board := createBoard(t, db, "free", false)
	author := createUser(t, db, "alice", models.RoleUser)
	commenter := createUser(t, db, "bob", models.RoleUser)
	stranger := createUser(t, db, "mallory", models.RoleUser)
	admin := createUser(t, db, "root", models.RoleAdmin)
	post := createPost(t, db, board, author, "Best dive spots")

	comment, err := store.AddComment(post.ID, commenter.ID, "Great topic!", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if err := store.DeleteComment(post.ID, comment.ID, stranger.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for stranger, got %v", err)
	}

	// Post authorship alone does not grant comment deletion; admin does.
	if err := store.DeleteComment(post.ID, comment.ID, admin.ID); err != nil {
		t.Fatalf("admin delete failed: %v", err)
	}

	if err := store.DeleteComment(post.ID, comment.ID, commenter.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for deleted comment, got %v", err)
	}
}

func TestMarkAccepted(t *testing.T) {
	store, db := newTestStore(t)
	qna := createBoard(t, db, "qna", true)
	free := createBoard(t, db, "free", false)
	asker := createUser(t, db, "alice", models.RoleUser)
	answerer := createUser(t, db, "bob", models.RoleUser)

	question := createPost(t, db, qna, asker, "Mask keeps fogging, help")
	answer, err := store.AddComment(question.ID, answerer.ID, "Burn it in with a lighter", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}

	if err := store.MarkAccepted(question.ID, answer.ID, answerer.ID); !errors.Is(err, ErrForbidden) {
		t.Errorf("expected ErrForbidden for non-author, got %v", err)
	}

	if err := store.MarkAccepted(question.ID, answer.ID, asker.ID); err != nil {
		t.Fatalf("MarkAccepted failed: %v", err)
	}
	var got models.Post
	if err := db.First(&got, question.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if got.AcceptedCommentID == nil || *got.AcceptedCommentID != answer.ID {
		t.Errorf("expected accepted comment %d, got %v", answer.ID, got.AcceptedCommentID)
	}

	// Boards without the Q&A flow refuse acceptance.
	chat := createPost(t, db, free, asker, "Weekend plans")
	c, err := store.AddComment(chat.ID, answerer.ID, "count me in", nil)
	if err != nil {
		t.Fatalf("AddComment failed: %v", err)
	}
	if err := store.MarkAccepted(chat.ID, c.ID, asker.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("expected ErrValidation on non-qna board, got %v", err)
	}

	// Deleting the accepted answer clears the pointer.
	if err := store.DeleteComment(question.ID, answer.ID, answerer.ID); err != nil {
		t.Fatalf("DeleteComment failed: %v", err)
	}
	if err := db.First(&got, question.ID).Error; err != nil {
		t.Fatalf("failed to reload post: %v", err)
	}
	if got.AcceptedCommentID != nil {
		t.Errorf("expected accepted pointer cleared after delete, got %v", *got.AcceptedCommentID)
	}
}
