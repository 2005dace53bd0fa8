package handlers

import (
	"log"
	"net/http"
	"strings"

	"divelink/internal/db"
	"divelink/internal/discussion"
	"divelink/internal/models"
	"divelink/internal/services"
	"divelink/internal/utils"

	"github.com/gin-gonic/gin"
)

const maxGalleryImages = 10

type GalleryHandler struct {
	storage ObjectStorage
}

func NewGalleryHandler(storage ObjectStorage) *GalleryHandler {
	return &GalleryHandler{storage: storage}
}

// Upload creates a gallery post from a multipart form. Each image is
// stored under the uploader's prefix and its EXIF metadata is captured
// for the viewer.
func (h *GalleryHandler) Upload(c *gin.Context) {
	if h.storage == nil {
		jsonError(c, http.StatusServiceUnavailable, "이미지 저장소를 사용할 수 없습니다.")
		return
	}

	board, err := loadBoard("gallery")
	if err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	user := CurrentUser(c)

	form, err := c.MultipartForm()
	if err != nil {
		jsonError(c, http.StatusBadRequest, "잘못된 업로드 요청입니다.")
		return
	}

	title := strings.TrimSpace(c.PostForm("title"))
	if title == "" {
		jsonError(c, http.StatusBadRequest, "제목을 입력해 주세요.")
		return
	}
	isPublic := c.PostForm("is_public") != "false"

	files := form.File["images"]
	if len(files) == 0 {
		jsonError(c, http.StatusBadRequest, "이미지를 한 장 이상 올려 주세요.")
		return
	}
	if len(files) > maxGalleryImages {
		jsonError(c, http.StatusBadRequest, "이미지는 최대 10장까지 올릴 수 있습니다.")
		return
	}

	post := models.Post{
		Pid:      utils.RandStringBytesMaskImpr(8),
		UserID:   user.ID,
		BoardID:  board.ID,
		Title:    title,
		Content:  c.PostForm("content"),
		Hashtags: strings.TrimSpace(c.PostForm("hashtags")),
		IsPublic: isPublic,
	}
	if err := db.DB.Create(&post).Error; err != nil {
		jsonError(c, http.StatusInternalServerError, "서버 오류가 발생했습니다.")
		return
	}

	prefix := "gallery/" + utils.UintToString(user.ID)
	ctx := c.Request.Context()

	var images []models.PostImage
	for i, header := range files {
		file, err := header.Open()
		if err != nil {
			log.Printf("Failed to open upload %s: %v", header.Filename, err)
			continue
		}

		// EXIF first, then rewind for the upload.
		meta := services.ExtractExif(file)
		if _, err := file.Seek(0, 0); err != nil {
			file.Close()
			continue
		}

		key, url, err := h.storage.Upload(ctx, prefix, file, header)
		file.Close()
		if err != nil {
			log.Printf("Failed to store upload %s: %v", header.Filename, err)
			continue
		}

		image := models.PostImage{
			PostID:      post.ID,
			ObjectKey:   key,
			URL:         url,
			Position:    i,
			CameraModel: meta.CameraModel,
			TakenAt:     meta.TakenAt,
			Aperture:    meta.Aperture,
			Shutter:     meta.Shutter,
			ISO:         meta.ISO,
		}
		if err := db.DB.Create(&image).Error; err != nil {
			log.Printf("Failed to save image record for %s: %v", key, err)
			// The object is already in the bucket; remove it so the
			// failed row does not leave an orphan behind.
			if delErr := h.storage.Delete(ctx, key); delErr != nil {
				log.Printf("Failed to delete orphan object %s: %v", key, delErr)
			}
			continue
		}
		images = append(images, image)
	}

	if len(images) == 0 {
		// No image survived; do not keep an empty gallery post.
		if _, err := db.DeletePostContent(post.ID); err != nil {
			log.Printf("Failed to clean up empty gallery post %d: %v", post.ID, err)
		}
		jsonError(c, http.StatusInternalServerError, "이미지 저장에 실패했습니다.")
		return
	}

	post.Images = images
	c.JSON(http.StatusCreated, gin.H{"post": post})
}

// RefreshURLs re-signs the download URLs of a gallery post's images.
func (h *GalleryHandler) RefreshURLs(c *gin.Context) {
	if h.storage == nil {
		jsonError(c, http.StatusServiceUnavailable, "이미지 저장소를 사용할 수 없습니다.")
		return
	}

	var post models.Post
	if err := db.DB.Preload("Images").Where("pid = ?", c.Param("pid")).First(&post).Error; err != nil {
		discussionError(c, discussion.ErrNotFound)
		return
	}

	ctx := c.Request.Context()
	for i := range post.Images {
		url, err := h.storage.DownloadURL(ctx, post.Images[i].ObjectKey)
		if err != nil {
			log.Printf("Failed to presign %s: %v", post.Images[i].ObjectKey, err)
			continue
		}
		post.Images[i].URL = url
		db.DB.Model(&post.Images[i]).Update("url", url)
	}
	c.JSON(http.StatusOK, gin.H{"images": post.Images})
}
