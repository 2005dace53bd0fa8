package router

import (
	"divelink/internal/discussion"
	"divelink/internal/handlers"
	"divelink/internal/middleware"
	"divelink/internal/services"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.Engine, store *discussion.Store, storage *services.StorageService, mail *services.MailService, siteURL string) {
	// A nil *StorageService must stay a nil interface so the handlers'
	// availability checks work.
	var objectStorage handlers.ObjectStorage
	if storage != nil {
		objectStorage = storage
	}

	// Handlers
	authHandler := handlers.NewAuthHandler(mail)
	postHandler := handlers.NewPostHandler(store, objectStorage)
	commentHandler := handlers.NewCommentHandler(store, mail, siteURL)
	galleryHandler := handlers.NewGalleryHandler(objectStorage)
	shopHandler := handlers.NewShopHandler()
	userHandler := handlers.NewUserHandler()
	notificationHandler := handlers.NewNotificationHandler(store)
	adminHandler := handlers.NewAdminHandler(store, objectStorage)
	feedHandler := handlers.NewFeedHandler(siteURL)

	// 공개 라우트 (Public Routes)
	r.GET("/boards", postHandler.Boards)                 // 게시판 목록
	r.GET("/boards/:slug/posts", postHandler.List)       // 게시판 글 목록
	r.GET("/boards/:slug/feed.rss", feedHandler.BoardFeed) // 게시판 RSS
	r.GET("/posts/:pid", postHandler.Detail)             // 글 상세
	r.GET("/users/:id", userHandler.Profile)             // 회원 프로필
	r.GET("/users/online", userHandler.OnlineUsers)      // 접속 중인 회원
	r.GET("/shop/products", shopHandler.List)            // 상품 목록
	r.GET("/shop/products/:id", shopHandler.Detail)      // 상품 상세

	r.POST("/auth/register", authHandler.Register)             // 회원가입
	r.POST("/auth/login", authHandler.Login)                   // 로그인
	r.POST("/auth/logout", authHandler.Logout)                 // 로그아웃
	r.POST("/auth/forgot-password", authHandler.ForgotPassword) // 비밀번호 재설정 코드 발송
	r.POST("/auth/reset-password", authHandler.ResetPassword)  // 비밀번호 재설정

	// 로그인 필요 (Protected Routes)
	authorized := r.Group("/")
	authorized.Use(middleware.AuthRequired())
	{
		authorized.GET("/me", userHandler.Me)                       // 내 정보
		authorized.PUT("/me/profile", userHandler.UpdateProfile)    // 프로필 수정
		authorized.POST("/auth/verify", authHandler.VerifyEmail)    // 이메일 인증
		authorized.POST("/auth/resend-code", authHandler.ResendCode) // 인증 코드 재발송
		authorized.POST("/auth/change-password", authHandler.ChangePassword) // 비밀번호 변경
		authorized.DELETE("/me", authHandler.DeleteAccount)         // 회원 탈퇴

		authorized.GET("/notifications", notificationHandler.List)               // 내 알림
		authorized.POST("/notifications/:id/read", notificationHandler.MarkRead) // 알림 읽음
		authorized.POST("/notifications/read-all", notificationHandler.MarkAllRead) // 전체 읽음
	}

	// 이메일 인증 필요 (Verified Routes)
	verified := r.Group("/")
	verified.Use(middleware.VerifiedRequired())
	{
		verified.POST("/boards/:slug/posts", postHandler.Create) // 글 작성
		verified.PUT("/posts/:pid", postHandler.Update)          // 글 수정
		verified.DELETE("/posts/:pid", postHandler.Delete)       // 글 삭제

		verified.POST("/posts/:pid/comments", commentHandler.Create)            // 댓글 작성
		verified.DELETE("/posts/:pid/comments/:id", commentHandler.Delete)      // 댓글 삭제
		verified.POST("/posts/:pid/like", commentHandler.LikePost)              // 글 좋아요
		verified.POST("/comments/:id/like", commentHandler.LikeComment)         // 댓글 좋아요
		verified.POST("/posts/:pid/comments/:id/accept", commentHandler.Accept) // 답변 채택

		verified.POST("/gallery/upload", galleryHandler.Upload)            // 갤러리 업로드
		verified.POST("/posts/:pid/refresh-urls", galleryHandler.RefreshURLs) // 이미지 URL 갱신
	}

	// 관리자 라우트 (Admin Routes)
	admin := r.Group("/admin")
	admin.Use(middleware.AdminRequired())
	{
		admin.GET("/dashboard", adminHandler.Dashboard)      // 대시보드
		admin.GET("/users", adminHandler.ListUsers)          // 회원 목록
		admin.DELETE("/users/:id", adminHandler.DeleteUser)  // 회원 삭제
		admin.DELETE("/posts/:pid", adminHandler.DeletePost)      // 글 강제 삭제
		admin.POST("/boards/:slug/notice", adminHandler.WriteNotice) // 공지 등록

		admin.POST("/shop/products", shopHandler.Create)       // 상품 등록
		admin.PUT("/shop/products/:id", shopHandler.Update)    // 상품 수정
		admin.DELETE("/shop/products/:id", shopHandler.Delete) // 상품 삭제
	}
}
