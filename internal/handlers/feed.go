package handlers

import (
	"fmt"
	"net/http"
	"time"

	"divelink/internal/db"
	"divelink/internal/models"
	"divelink/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/feeds"
)

type FeedHandler struct {
	siteURL string
}

func NewFeedHandler(siteURL string) *FeedHandler {
	return &FeedHandler{siteURL: siteURL}
}

// BoardFeed serves a board's latest posts as RSS. Private gallery posts
// never appear. Output is cached per board.
func (h *FeedHandler) BoardFeed(c *gin.Context) {
	board, err := loadBoard(c.Param("slug"))
	if err != nil {
		jsonError(c, http.StatusNotFound, "게시판을 찾을 수 없습니다.")
		return
	}

	cacheKey := "feed:" + board.Slug
	if cached := utils.GetCache().Get(cacheKey); cached != nil {
		if rss, ok := cached.(string); ok {
			c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
			return
		}
	}

	var posts []models.Post
	query := db.DB.Preload("User").
		Where("board_id = ?", board.ID).
		Order("created_at DESC").
		Limit(30)
	if board.Slug == "gallery" {
		query = query.Where("is_public = ?", true)
	}
	if err := query.Find(&posts).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	feed := &feeds.Feed{
		Title:       "DiveLink - " + board.Name,
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/boards/%s", h.siteURL, board.Slug)},
		Description: board.Description,
		Created:     time.Now(),
	}
	for _, post := range posts {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          post.Pid,
			Title:       post.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/boards/%s/posts/%s", h.siteURL, board.Slug, post.Pid)},
			Author:      &feeds.Author{Name: post.User.Nickname},
			Description: string(utils.RenderMarkdown(post.Content)),
			Created:     post.CreatedAt,
		})
	}

	rss, err := feed.ToRss()
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	utils.GetCache().Set(cacheKey, rss, 5*time.Minute)
	c.Data(http.StatusOK, "application/rss+xml; charset=utf-8", []byte(rss))
}
