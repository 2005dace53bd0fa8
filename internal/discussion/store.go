// Package discussion is the data-access layer shared by every board:
// posts with one level of parent-pointer replies, per-viewer view and
// like markers that keep the counters idempotent, and notification
// fan-out to the post author on new comments.
//
// Counter writes go through marker rows guarded by composite unique
// indexes inside a transaction, so concurrent requests from the same
// viewer cannot double-count. Comment creation and its notification are
// one transaction as well; either both land or neither does.
package discussion

import (
	"errors"
	"strings"

	"divelink/internal/models"
	"divelink/internal/utils"

	"gorm.io/gorm"
)

// SnippetRunes is how much of a comment the notification carries.
const SnippetRunes = 30

type Store struct {
	db *gorm.DB
}

// NewStore wraps a gorm handle. The handle must have TranslateError
// enabled so marker races surface as gorm.ErrDuplicatedKey.
func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// LoadPost fetches a post by its public id with author, board and
// ordered images resolved.
func (s *Store) LoadPost(pid string) (*models.Post, error) {
	var post models.Post
	err := s.db.Preload("User").Preload("Board").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("pid = ?", pid).First(&post).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &post, nil
}

// RecordView counts a post view exactly once per viewer. The first call
// creates the marker and bumps the counter in one transaction; every
// later call (including concurrent ones) is a no-op. The returned bool
// reports whether this call actually recorded a new view, so callers can
// tell a fresh count from the no-op path.
func (s *Store) RecordView(postID, viewerID uint) (bool, error) {
	counted := false
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var existing models.ViewMarker
		err := tx.Where("user_id = ? AND post_id = ?", viewerID, postID).First(&existing).Error
		if err == nil {
			return nil // already counted for this viewer
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		marker := models.ViewMarker{UserID: viewerID, PostID: postID}
		if err := tx.Create(&marker).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("views", gorm.Expr("views + 1")).Error; err != nil {
			return err
		}
		counted = true
		return nil
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Lost the race against another request from the same viewer;
		// the view is already counted.
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return counted, nil
}

// LikePost adds the viewer to the post's likers and bumps the counter.
// Likes are a one-way ratchet: the second attempt fails with
// ErrAlreadyLiked and leaves the count unchanged.
func (s *Store) LikePost(postID, viewerID uint) (int, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing models.LikeMarker
		err := tx.Where("user_id = ? AND post_id = ?", viewerID, postID).First(&existing).Error
		if err == nil {
			return ErrAlreadyLiked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		marker := models.LikeMarker{UserID: viewerID, PostID: &postID}
		if err := tx.Create(&marker).Error; err != nil {
			return err
		}
		return tx.Model(&models.Post{}).Where("id = ?", postID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ErrAlreadyLiked
	}
	if err != nil {
		return 0, err
	}

	var post models.Post
	if err := s.db.Select("likes").First(&post, postID).Error; err != nil {
		return 0, err
	}
	return post.Likes, nil
}

// LikeComment is the comment-side ratchet.
func (s *Store) LikeComment(commentID, viewerID uint) (int, error) {
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.First(&comment, commentID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var existing models.LikeMarker
		err := tx.Where("user_id = ? AND comment_id = ?", viewerID, commentID).First(&existing).Error
		if err == nil {
			return ErrAlreadyLiked
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		marker := models.LikeMarker{UserID: viewerID, CommentID: &commentID}
		if err := tx.Create(&marker).Error; err != nil {
			return err
		}
		return tx.Model(&models.Comment{}).Where("id = ?", commentID).
			UpdateColumn("likes", gorm.Expr("likes + 1")).Error
	})
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		err = ErrAlreadyLiked
	}
	if err != nil {
		return 0, err
	}

	var comment models.Comment
	if err := s.db.Select("likes").First(&comment, commentID).Error; err != nil {
		return 0, err
	}
	return comment.Likes, nil
}

// AddComment creates a comment (or a reply when parentID is set) and, in
// the same transaction, fans a notification out to the post author. No
// notification is written when the author comments on their own post.
// Threads are one level deep: a reply's parent must be a top-level
// comment of the same post.
func (s *Store) AddComment(postID, authorID uint, text string, parentID *uint) (*models.Comment, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrValidation
	}

	comment := models.Comment{
		Cid:      utils.RandStringBytesMaskImpr(8),
		PostID:   postID,
		UserID:   authorID,
		ParentID: parentID,
		Content:  text,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Preload("Board").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		if parentID != nil {
			var parent models.Comment
			if err := tx.First(&parent, *parentID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrNotFound
				}
				return err
			}
			if parent.PostID != postID || parent.ParentID != nil {
				return ErrValidation
			}
		}

		if err := tx.Create(&comment).Error; err != nil {
			return err
		}

		if post.UserID != authorID {
			notification := models.Notification{
				RecipientID: post.UserID,
				PostID:      post.ID,
				BoardSlug:   post.Board.Slug,
				PostTitle:   post.Title,
				Snippet:     snippet(text),
			}
			if err := tx.Create(&notification).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

// ListComments returns all comments of a post in ascending creation
// order, authors resolved. Thread assembly is up to the caller.
func (s *Store) ListComments(postID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// DeleteComment removes a comment together with all of its replies and
// their like markers in one batched transaction. Only the comment's
// author or an admin may delete.
func (s *Store) DeleteComment(postID, commentID, requesterID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var comment models.Comment
		if err := tx.Where("id = ? AND post_id = ?", commentID, postID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		var requester models.User
		if err := tx.First(&requester, requesterID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrForbidden
			}
			return err
		}
		if comment.UserID != requesterID && !requester.IsAdmin() {
			return ErrForbidden
		}

		var replyIDs []uint
		if err := tx.Model(&models.Comment{}).
			Where("parent_id = ?", comment.ID).
			Pluck("id", &replyIDs).Error; err != nil {
			return err
		}

		doomed := append(replyIDs, comment.ID)
		if err := tx.Where("comment_id IN ?", doomed).Delete(&models.LikeMarker{}).Error; err != nil {
			return err
		}
		if err := tx.Where("parent_id = ?", comment.ID).Delete(&models.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}

		// A deleted answer cannot stay accepted.
		return tx.Model(&models.Post{}).
			Where("id = ? AND accepted_comment_id = ?", postID, comment.ID).
			Update("accepted_comment_id", nil).Error
	})
}

// MarkAccepted points the post at its accepted answer. Only the post
// author may accept, only on boards with the Q&A flow, and there is no
// unset path (re-pointing to another comment is allowed).
func (s *Store) MarkAccepted(postID, commentID, requesterID uint) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.Preload("Board").First(&post, postID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		if !post.Board.AcceptsAnswers {
			return ErrValidation
		}
		if post.UserID != requesterID {
			return ErrForbidden
		}

		var comment models.Comment
		if err := tx.Where("id = ? AND post_id = ?", commentID, postID).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		return tx.Model(&post).Update("accepted_comment_id", comment.ID).Error
	})
}

// ListNotifications returns the recipient's unread notifications, newest
// first. Re-querying reflects current state; this is a poll surface, not
// a frozen snapshot.
func (s *Store) ListNotifications(recipientID uint) ([]models.Notification, error) {
	var notifications []models.Notification
	err := s.db.Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, err
}

// MarkNotificationRead flips one notification's read flag. Recipients can
// only touch their own notifications.
func (s *Store) MarkNotificationRead(notificationID, recipientID uint) error {
	var notification models.Notification
	err := s.db.Where("id = ? AND recipient_id = ?", notificationID, recipientID).
		First(&notification).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.db.Model(&notification).Update("is_read", true).Error
}

// MarkAllNotificationsRead flips every unread notification of the
// recipient.
func (s *Store) MarkAllNotificationsRead(recipientID uint) error {
	return s.db.Model(&models.Notification{}).
		Where("recipient_id = ? AND is_read = ?", recipientID, false).
		Update("is_read", true).Error
}

func snippet(text string) string {
	r := []rune(text)
	if len(r) > SnippetRunes {
		r = r[:SnippetRunes]
	}
	return string(r)
}
