package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"lineup/internal/models"
	"lineup/internal/repository"

	"github.com/chai2010/webp"
	"gorm.io/gorm"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder

	_ "image/gif"
	_ "image/png"
)

const (
	DefaultMediaUploadDir       = "/tmp/lineup/uploads/media"
	DefaultMediaMaxUploadSizeMB = 10
	MediaMaxSize                = 2048
	ThumbnailMaxSize            = 320
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

// UploadMediaInput is the input for uploading a media file.
type UploadMediaInput struct {
	OwnerID     string
	Filename    string
	ContentType string
	Content     []byte
}

// MediaService validates, normalizes and stores uploaded images. Every upload
// produces a full-size WebP plus a JPEG thumbnail under a content-addressed
// directory.
type MediaService struct {
	mediaRepo          repository.MediaRepository
	uploadDir          string
	maxUploadSizeBytes int64
}

// NewMediaService returns a new MediaService.
func NewMediaService(mediaRepo repository.MediaRepository, uploadDir string, maxUploadSizeMB int) *MediaService {
	if uploadDir == "" {
		uploadDir = DefaultMediaUploadDir
	}
	if maxUploadSizeMB <= 0 {
		maxUploadSizeMB = DefaultMediaMaxUploadSizeMB
	}
	return &MediaService{
		mediaRepo:          mediaRepo,
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload decodes, resizes and persists the image, returning the stored media
// row.
func (s *MediaService) Upload(ctx context.Context, in UploadMediaInput) (*models.Media, error) {
	if in.OwnerID == "" {
		return nil, models.NewUnauthorizedError("Authentication required")
	}
	if len(in.Content) == 0 {
		return nil, models.NewValidationError("No file uploaded")
	}
	if int64(len(in.Content)) > s.maxUploadSizeBytes {
		return nil, models.NewValidationError(fmt.Sprintf("File too large (max %dMB)", s.maxUploadSizeBytes/(1024*1024)))
	}

	detectedType := http.DetectContentType(in.Content)
	if !isAllowedImageMIME(detectedType) {
		return nil, models.NewValidationError("Invalid image type")
	}

	decoded, _, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}

	full := resizeToFit(decoded, MediaMaxSize, MediaMaxSize)
	thumb := resizeToFit(decoded, ThumbnailMaxSize, ThumbnailMaxSize)

	encodedFull, err := encodeWebP(full, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedThumb, err := encodeJPEG(thumb, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hash := buildMediaHash(in.OwnerID, encodedFull)
	fullRel := filepath.ToSlash(filepath.Join(hash, "full.webp"))
	thumbRel := filepath.ToSlash(filepath.Join(hash, "thumb.jpg"))
	fullAbs := filepath.Join(s.uploadDir, fullRel)
	thumbAbs := filepath.Join(s.uploadDir, thumbRel)

	if err := writeBytesToFile(fullAbs, encodedFull); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(thumbAbs, encodedThumb); err != nil {
		_ = os.Remove(fullAbs)
		return nil, models.NewInternalError(err)
	}

	bounds := full.Bounds()
	thumbURL := "/media/" + thumbRel
	media := &models.Media{
		OwnerID:      in.OwnerID,
		URL:          "/media/" + fullRel,
		ThumbnailURL: &thumbURL,
		Type:         "image",
		Width:        bounds.Dx(),
		Height:       bounds.Dy(),
		SizeBytes:    int64(len(encodedFull)),
	}
	if err := s.mediaRepo.Create(ctx, media); err != nil {
		_ = os.Remove(fullAbs)
		_ = os.Remove(thumbAbs)
		return nil, err
	}
	return media, nil
}

// GetMedia returns the media row by ID.
func (s *MediaService) GetMedia(ctx context.Context, id string) (*models.Media, error) {
	media, err := s.mediaRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Media not found")
		}
		return nil, err
	}
	return media, nil
}

func resizeToFit(src image.Image, maxWidth, maxHeight int) image.Image {
	bounds := src.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()
	if w <= 0 || h <= 0 {
		return src
	}
	if w <= maxWidth && h <= maxHeight {
		return src
	}

	scaleW := float64(maxWidth) / float64(w)
	scaleH := float64(maxHeight) / float64(h)
	scale := scaleW
	if scaleH < scale {
		scale = scaleH
	}
	newW := int(float64(w) * scale)
	newH := int(float64(h) * scale)
	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, xdraw.Over, nil)
	return dst
}

func encodeJPEG(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := jpeg.Encode(buf, img, &jpeg.Options{Quality: quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func encodeWebP(img image.Image, quality int) ([]byte, error) {
	buf := bytes.NewBuffer(nil)
	if err := webp.Encode(buf, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func isAllowedImageMIME(contentType string) bool {
	switch normalizeContentType(contentType) {
	case "image/jpeg", "image/jpg", "image/png", "image/gif", "image/webp":
		return true
	default:
		return false
	}
}

func normalizeContentType(contentType string) string {
	if contentType == "" {
		return ""
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return strings.ToLower(strings.TrimSpace(contentType))
	}
	return strings.ToLower(strings.TrimSpace(mediaType))
}

func buildMediaHash(ownerID string, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%s:", ownerID)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
