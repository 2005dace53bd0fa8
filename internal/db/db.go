package db

import (
	"log"

	"divelink/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init(dsn string) {
	var err error
	// TranslateError lets duplicate-key races surface as
	// gorm.ErrDuplicatedKey, which the discussion layer relies on.
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	// Auto Migrate
	err = DB.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.Post{},
		&models.PostImage{},
		&models.Comment{},
		&models.ViewMarker{},
		&models.LikeMarker{},
		&models.Notification{},
		&models.Product{},
	)
	if err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedBoards()
	seedProducts()
}

func seedBoards() {
	var count int64
	DB.Model(&models.Board{}).Count(&count)
	if count > 0 {
		log.Println("Boards already seeded, skipping")
		return
	}

	boards := []models.Board{
		{Slug: "free", Name: "자유게시판", Description: "다이빙 이야기를 자유롭게 나누는 곳"},
		{Slug: "qna", Name: "Q&A", Description: "다이빙 관련 질문과 답변", AcceptsAnswers: true},
		{Slug: "instructor", Name: "강사게시판", Description: "강사 전용 게시판", WriteLevel: models.LevelInstructor},
		{Slug: "tour", Name: "투어신청", Description: "다이빙 투어 신청과 후기"},
		{Slug: "gallery", Name: "갤러리", Description: "수중 사진 갤러리"},
		{Slug: "divepoint", Name: "다이브포인트", Description: "국내외 다이빙 포인트 정보"},
		{Slug: "gear", Name: "다이브기어", Description: "다이빙 장비 정보", AdminOnly: true},
	}

	for _, board := range boards {
		if err := DB.Create(&board).Error; err != nil {
			log.Printf("Failed to create board %s: %v", board.Slug, err)
		}
	}
	log.Println("Initial boards created successfully")
}

// DeletePostContent removes a post with its comments, markers, images
// and notifications in one transaction. Object-store cleanup is the
// caller's job; the post's image keys are returned for it.
func DeletePostContent(postID uint) ([]string, error) {
	var keys []string
	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.PostImage{}).Where("post_id = ?", postID).
			Pluck("object_key", &keys).Error; err != nil {
			return err
		}

		var commentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("post_id = ?", postID).
			Pluck("id", &commentIDs).Error; err != nil {
			return err
		}
		if len(commentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.LikeMarker{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id = ?", postID).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.LikeMarker{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.ViewMarker{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.PostImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", postID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Post{}, postID).Error
	})
	if err != nil {
		return nil, err
	}
	return keys, nil
}

// DeleteUserContent removes a user and everything tied to them: posts
// with their images and comment threads, standalone comments on other
// posts, markers and notifications. Runs in one transaction.
func DeleteUserContent(userID uint) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// Give back the user's likes first so counters on surviving
		// posts and comments stay accurate. Targets that get deleted
		// below just absorb a harmless extra decrement.
		var likeMarkers []models.LikeMarker
		if err := tx.Where("user_id = ?", userID).Find(&likeMarkers).Error; err != nil {
			return err
		}
		var likedPostIDs, likedCommentIDs []uint
		for _, marker := range likeMarkers {
			if marker.PostID != nil {
				likedPostIDs = append(likedPostIDs, *marker.PostID)
			} else if marker.CommentID != nil {
				likedCommentIDs = append(likedCommentIDs, *marker.CommentID)
			}
		}
		if len(likedPostIDs) > 0 {
			if err := tx.Model(&models.Post{}).Where("id IN ?", likedPostIDs).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error; err != nil {
				return err
			}
		}
		if len(likedCommentIDs) > 0 {
			if err := tx.Model(&models.Comment{}).Where("id IN ?", likedCommentIDs).
				UpdateColumn("likes", gorm.Expr("likes - 1")).Error; err != nil {
				return err
			}
		}

		var postIDs []uint
		if err := tx.Model(&models.Post{}).Where("user_id = ?", userID).
			Pluck("id", &postIDs).Error; err != nil {
			return err
		}

		if len(postIDs) > 0 {
			var commentIDs []uint
			if err := tx.Model(&models.Comment{}).Where("post_id IN ?", postIDs).
				Pluck("id", &commentIDs).Error; err != nil {
				return err
			}
			if len(commentIDs) > 0 {
				if err := tx.Where("comment_id IN ?", commentIDs).Delete(&models.LikeMarker{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.LikeMarker{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.ViewMarker{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.PostImage{}).Error; err != nil {
				return err
			}
			if err := tx.Where("post_id IN ?", postIDs).Delete(&models.Notification{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", postIDs).Delete(&models.Post{}).Error; err != nil {
				return err
			}
		}

		// Comments the user left on other people's posts.
		var ownCommentIDs []uint
		if err := tx.Model(&models.Comment{}).Where("user_id = ?", userID).
			Pluck("id", &ownCommentIDs).Error; err != nil {
			return err
		}
		if len(ownCommentIDs) > 0 {
			if err := tx.Where("comment_id IN ?", ownCommentIDs).Delete(&models.LikeMarker{}).Error; err != nil {
				return err
			}
			// Replies to those comments go too, markers included.
			var replyIDs []uint
			if err := tx.Model(&models.Comment{}).Where("parent_id IN ?", ownCommentIDs).
				Pluck("id", &replyIDs).Error; err != nil {
				return err
			}
			if len(replyIDs) > 0 {
				if err := tx.Where("comment_id IN ?", replyIDs).Delete(&models.LikeMarker{}).Error; err != nil {
					return err
				}
			}
			if err := tx.Where("parent_id IN ?", ownCommentIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
			if err := tx.Where("id IN ?", ownCommentIDs).Delete(&models.Comment{}).Error; err != nil {
				return err
			}
		}

		if err := tx.Where("user_id = ?", userID).Delete(&models.LikeMarker{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ViewMarker{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipient_id = ?", userID).Delete(&models.Notification{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.User{}, userID).Error
	})
}

func seedProducts() {
	var count int64
	DB.Model(&models.Product{}).Count(&count)
	if count > 0 {
		return
	}

	products := []models.Product{
		{Name: "다이빙 장비", Price: 150000, Description: "최고의 다이빙 장비", Category: "gear"},
		{Name: "스쿠버 마스크", Price: 50000, Description: "편안한 착용감의 스쿠버 마스크", Category: "gear"},
		{Name: "다이빙 컴퓨터", Price: 350000, Description: "정확한 다이빙 데이터 기록", Category: "gear"},
	}

	for _, product := range products {
		if err := DB.Create(&product).Error; err != nil {
			log.Printf("Failed to create product %s: %v", product.Name, err)
		}
	}
	log.Println("Initial products created successfully")
}
