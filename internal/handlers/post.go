package handlers

import (
	"context"
	"fmt"
	"log"
	"math"
	"net/http"
	"strconv"
	"strings"
	"time"

	"divelink/internal/db"
	"divelink/internal/discussion"
	"divelink/internal/models"
	"divelink/internal/utils"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PostHandler struct {
	store   *discussion.Store
	storage ObjectStorage
}

func NewPostHandler(store *discussion.Store, storage ObjectStorage) *PostHandler {
	return &PostHandler{store: store, storage: storage}
}

// fillCommentCounts batch-loads comment counts for a page of posts.
func fillCommentCounts(posts []models.Post) {
	if len(posts) == 0 {
		return
	}

	postIDs := make([]uint, len(posts))
	for i, p := range posts {
		postIDs[i] = p.ID
	}

	type countResult struct {
		PostID uint
		Count  int
	}
	var results []countResult
	db.DB.Model(&models.Comment{}).
		Select("post_id, COUNT(*) as count").
		Where("post_id IN ?", postIDs).
		Group("post_id").
		Scan(&results)

	countMap := make(map[uint]int)
	for _, r := range results {
		countMap[r.PostID] = r.Count
	}

	for i := range posts {
		posts[i].CommentCount = countMap[posts[i].ID]
	}
}

func loadBoard(slug string) (*models.Board, error) {
	var board models.Board
	err := db.DB.Where("slug = ?", slug).First(&board).Error
	if err != nil {
		return nil, err
	}
	return &board, nil
}

// Boards returns every board for the site navigation.
func (h *PostHandler) Boards(c *gin.Context) {
	var boards []models.Board
	if err := db.DB.Order("id ASC").Find(&boards).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"boards": boards})
}

// List returns one page of a board's posts, pinned notices first, then
// newest first. Anonymous pages are cached briefly; gallery boards hide
// private posts from everyone but their owner.
func (h *PostHandler) List(c *gin.Context) {
	board, err := loadBoard(c.Param("slug"))
	if err != nil {
		jsonError(c, http.StatusNotFound, "게시판을 찾을 수 없습니다.")
		return
	}

	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}

	user := CurrentUser(c)

	cacheKey := fmt.Sprintf("posts:%s:page:%d", board.Slug, page)
	if user == nil {
		if cached := utils.GetCache().Get(cacheKey); cached != nil {
			if data, ok := cached.(gin.H); ok {
				c.JSON(http.StatusOK, data)
				return
			}
		}
	}

	perPage := 20
	offset := (page - 1) * perPage

	query := db.DB.Model(&models.Post{}).Where("board_id = ?", board.ID)
	if board.Slug == "gallery" {
		if user != nil {
			query = query.Where("is_public = ? OR user_id = ?", true, user.ID)
		} else {
			query = query.Where("is_public = ?", true)
		}
	}

	var total int64
	query.Count(&total)

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	var posts []models.Post
	query.Preload("User").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Order("is_notice DESC, created_at DESC").
		Limit(perPage).
		Offset(offset).
		Find(&posts)

	fillCommentCounts(posts)

	data := gin.H{
		"board":       board,
		"posts":       posts,
		"page":        page,
		"total_pages": totalPages,
		"total":       total,
	}
	if user == nil {
		utils.GetCache().Set(cacheKey, data, 1*time.Minute)
	}
	c.JSON(http.StatusOK, data)
}

// commentThread is one top-level comment with its replies.
type commentThread struct {
	models.Comment
	Replies []models.Comment `json:"replies"`
}

// Detail returns a post with rendered content and its comment threads.
// Logged-in viewers get counted once.
func (h *PostHandler) Detail(c *gin.Context) {
	post, err := h.store.LoadPost(c.Param("pid"))
	if err != nil {
		discussionError(c, err)
		return
	}

	user := CurrentUser(c)
	if post.Board.Slug == "gallery" && !post.IsPublic &&
		(user == nil || (user.ID != post.UserID && !user.IsAdmin())) {
		jsonError(c, http.StatusNotFound, "찾을 수 없습니다.")
		return
	}

	viewCounted := false
	if user != nil {
		counted, err := h.store.RecordView(post.ID, user.ID)
		if err != nil {
			log.Printf("Failed to record view for post %d: %v", post.ID, err)
		} else if counted {
			post.Views++
			viewCounted = true
		}
	}

	comments, err := h.store.ListComments(post.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	post.CommentCount = len(comments)

	threads := make([]commentThread, 0)
	replyMap := make(map[uint][]models.Comment)
	for _, comment := range comments {
		if comment.ParentID != nil {
			replyMap[*comment.ParentID] = append(replyMap[*comment.ParentID], comment)
		}
	}
	for _, comment := range comments {
		if comment.ParentID == nil {
			threads = append(threads, commentThread{
				Comment: comment,
				Replies: replyMap[comment.ID],
			})
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"post":         post,
		"rendered":     utils.RenderMarkdown(post.Content),
		"comments":     threads,
		"accepted_id":  post.AcceptedCommentID,
		"view_counted": viewCounted,
	})
}

type postForm struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	Hashtags string `json:"hashtags"`
	IsPublic *bool  `json:"is_public"`
}

// Create adds a post to a board. Boards with a write level only accept
// authors at or above that certification.
func (h *PostHandler) Create(c *gin.Context) {
	board, err := loadBoard(c.Param("slug"))
	if err != nil {
		jsonError(c, http.StatusNotFound, "게시판을 찾을 수 없습니다.")
		return
	}

	user := CurrentUser(c)
	if board.AdminOnly && !user.IsAdmin() {
		jsonError(c, http.StatusForbidden, "관리자만 글을 쓸 수 있는 게시판입니다.")
		return
	}
	if !utils.MeetsLevel(user.Level, board.WriteLevel) {
		jsonError(c, http.StatusForbidden, "이 게시판에 글을 쓸 수 있는 자격 등급이 아닙니다.")
		return
	}

	var form postForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "제목과 내용을 입력해 주세요.")
		return
	}

	post := models.Post{
		Pid:      utils.RandStringBytesMaskImpr(8),
		UserID:   user.ID,
		BoardID:  board.ID,
		Title:    strings.TrimSpace(form.Title),
		Content:  form.Content,
		Hashtags: strings.TrimSpace(form.Hashtags),
	}
	if form.IsPublic != nil {
		post.IsPublic = *form.IsPublic
	} else {
		post.IsPublic = true
	}

	if err := db.DB.Create(&post).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// Update edits title, content and gallery fields. Author only.
func (h *PostHandler) Update(c *gin.Context) {
	post, err := h.store.LoadPost(c.Param("pid"))
	if err != nil {
		discussionError(c, err)
		return
	}

	user := CurrentUser(c)
	if post.UserID != user.ID {
		jsonError(c, http.StatusForbidden, "본인 글만 수정할 수 있습니다.")
		return
	}

	var form postForm
	if err := c.ShouldBindJSON(&form); err != nil {
		jsonError(c, http.StatusBadRequest, "제목과 내용을 입력해 주세요.")
		return
	}

	updates := map[string]interface{}{
		"title":    strings.TrimSpace(form.Title),
		"content":  form.Content,
		"hashtags": strings.TrimSpace(form.Hashtags),
	}
	if form.IsPublic != nil {
		updates["is_public"] = *form.IsPublic
	}
	if err := db.DB.Model(post).Updates(updates).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}
	c.JSON(http.StatusOK, gin.H{"post": post})
}

// Delete removes a post and its whole thread. Author or admin.
func (h *PostHandler) Delete(c *gin.Context) {
	post, err := h.store.LoadPost(c.Param("pid"))
	if err != nil {
		discussionError(c, err)
		return
	}

	user := CurrentUser(c)
	if post.UserID != user.ID && !user.IsAdmin() {
		jsonError(c, http.StatusForbidden, "권한이 없습니다.")
		return
	}

	keys, err := db.DeletePostContent(post.ID)
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	if h.storage != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		for _, key := range keys {
			if err := h.storage.Delete(ctx, key); err != nil {
				log.Printf("Failed to delete object %s: %v", key, err)
			}
		}
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
