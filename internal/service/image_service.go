package service

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	"image/draw"
	"image/jpeg"
	_ "image/png" // Register PNG decoder
	"mime"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cinetheque/internal/config"
	"cinetheque/internal/models"
	"cinetheque/internal/repository"

	"github.com/chai2010/webp"
	xdraw "golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // Register WebP decoder
	"gorm.io/gorm"
)

const (
	DefaultImageUploadDir       = "/tmp/cinetheque/uploads/images"
	DefaultImageMaxUploadSizeMB = 10
	JPEGQuality                 = 82
	WebPQuality                 = 70
)

// Image formats served from the media route.
const (
	ImageFormatJPEG = "jpg"
	ImageFormatWebP = "webp"
)

// imageShape is the target aspect ratio and bounding box of an image kind.
type imageShape struct {
	ratio     float64
	maxWidth  int
	maxHeight int
}

var imageShapes = map[string]imageShape{
	models.ImageKindAvatar: {ratio: 1.0, maxWidth: 512, maxHeight: 512},
	models.ImageKindCover:  {ratio: 2.0 / 3.0, maxWidth: 1000, maxHeight: 1500},
}

type UploadImageInput struct {
	UserID      uint
	Kind        string
	Filename    string
	ContentType string
	Content     []byte
}

type ImageService struct {
	repo               repository.ImageRepository
	uploadDir          string
	maxUploadSizeBytes int64
}

func NewImageService(repo repository.ImageRepository, cfg *config.Config) *ImageService {
	uploadDir := DefaultImageUploadDir
	maxUploadSizeMB := DefaultImageMaxUploadSizeMB

	if cfg != nil {
		if cfg.ImageUploadDir != "" {
			uploadDir = cfg.ImageUploadDir
		}
		if cfg.ImageMaxUploadSizeMB > 0 {
			maxUploadSizeMB = cfg.ImageMaxUploadSizeMB
		}
	}

	return &ImageService{
		repo:               repo,
		uploadDir:          uploadDir,
		maxUploadSizeBytes: int64(maxUploadSizeMB) * 1024 * 1024,
	}
}

// Upload validates, center-crops to the kind's aspect ratio, resizes and
// stores the image as JPEG and WebP under its content hash. Uploading the
// same picture twice returns the existing record.
func (s *ImageService) Upload(ctx context.Context, in UploadImageInput) (*models.Image, error) {
	if in.UserID == 0 {
		return nil, models.NewValidationError("Invalid user")
	}
	shape, ok := imageShapes[in.Kind]
	if !ok {
		return nil, models.NewValidationError("Image kind must be avatar or cover")
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

	decoded, format, err := image.Decode(bytes.NewReader(in.Content))
	if err != nil {
		return nil, models.NewValidationError("Invalid image file")
	}
	sourceMimeType := decodedFormatToMime(format)
	if sourceMimeType == "" {
		return nil, models.NewValidationError("Unsupported image format")
	}
	if provided := normalizeContentType(in.ContentType); strings.HasPrefix(provided, "image/") && !isMatchingContentType(provided, sourceMimeType) {
		return nil, models.NewValidationError("Image content type mismatch")
	}

	b := decoded.Bounds()
	cropX, cropY, cropW, cropH := centerCrop(b.Dx(), b.Dy(), shape.ratio)
	cropped := cropToRect(decoded, b.Min.X+cropX, b.Min.Y+cropY, cropW, cropH)
	master := resizeToFit(cropped, shape.maxWidth, shape.maxHeight)

	encodedJPG, err := encodeJPEG(master, JPEGQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	encodedWebP, err := encodeWebP(master, WebPQuality)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	hash := buildDeterministicImageHash(in.UserID, in.Kind, encodedJPG)
	existing, getErr := s.repo.GetByHash(ctx, hash)
	if getErr == nil {
		return s.withURLs(existing), nil
	}
	if !errors.Is(getErr, gorm.ErrRecordNotFound) {
		return nil, models.NewInternalError(getErr)
	}

	jpgRel := filepath.ToSlash(filepath.Join(hash, "master."+ImageFormatJPEG))
	webpRel := filepath.ToSlash(filepath.Join(hash, "master."+ImageFormatWebP))
	jpgAbs := filepath.Join(s.uploadDir, jpgRel)
	webpAbs := filepath.Join(s.uploadDir, webpRel)
	writtenPaths := []string{jpgAbs, webpAbs}

	if err := writeBytesToFile(jpgAbs, encodedJPG); err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := writeBytesToFile(webpAbs, encodedWebP); err != nil {
		cleanupImageFiles(writtenPaths)
		return nil, models.NewInternalError(err)
	}

	mb := master.Bounds()
	record := &models.Image{
		Hash:             hash,
		UserID:           in.UserID,
		Kind:             in.Kind,
		OriginalFilename: in.Filename,
		MimeType:         "image/jpeg",
		SizeBytes:        int64(len(encodedJPG)),
		Width:            mb.Dx(),
		Height:           mb.Dy(),
		JPEGPath:         jpgRel,
		WebPPath:         webpRel,
	}
	if err := s.repo.Create(ctx, record); err != nil {
		cleanupImageFiles(writtenPaths)
		return nil, translateRepoError(err, "Image", hash)
	}
	return s.withURLs(record), nil
}

func (s *ImageService) ListByUser(ctx context.Context, userID uint) ([]models.Image, error) {
	images, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range images {
		s.withURLs(&images[i])
	}
	if images == nil {
		images = []models.Image{}
	}
	return images, nil
}

// Delete removes an image the user owns, both the record and the files.
func (s *ImageService) Delete(ctx context.Context, userID uint, hash string) error {
	if !isValidImageHash(hash) {
		return models.NewValidationError("Invalid image hash")
	}
	img, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return translateRepoError(err, "Image", hash)
	}
	if img.UserID != userID {
		return models.NewForbiddenError("Not authorized to delete this image")
	}
	if err := s.repo.Delete(ctx, img.ID); err != nil {
		return models.NewInternalError(err)
	}
	cleanupImageFiles([]string{
		filepath.Join(s.uploadDir, img.JPEGPath),
		filepath.Join(s.uploadDir, img.WebPPath),
	})
	_ = os.Remove(filepath.Join(s.uploadDir, hash))
	return nil
}

// ResolveForServing returns the on-disk path of an image rendition.
func (s *ImageService) ResolveForServing(ctx context.Context, hash, format string) (*models.Image, string, error) {
	if !isValidImageHash(hash) {
		return nil, "", models.NewValidationError("Invalid image hash")
	}
	if format != ImageFormatJPEG && format != ImageFormatWebP {
		return nil, "", models.NewValidationError("Invalid image format")
	}
	img, err := s.repo.GetByHash(ctx, hash)
	if err != nil {
		return nil, "", translateRepoError(err, "Image", hash)
	}

	fullPath := filepath.Join(s.uploadDir, hash, "master."+format)
	if _, err := os.Stat(fullPath); err != nil {
		if os.IsNotExist(err) {
			return nil, "", models.NewNotFoundError("Image", hash)
		}
		return nil, "", models.NewInternalError(err)
	}
	return img, fullPath, nil
}

func (s *ImageService) BuildImageURL(hash, format string) string {
	return fmt.Sprintf("/media/i/%s/master.%s", hash, format)
}

func (s *ImageService) withURLs(img *models.Image) *models.Image {
	img.URL = s.BuildImageURL(img.Hash, ImageFormatJPEG)
	img.WebPURL = s.BuildImageURL(img.Hash, ImageFormatWebP)
	return img
}

// isValidImageHash checks that the hash is strictly lowercase hex (SHA-256 style).
// This prevents path traversal attacks via crafted hash parameters.
func isValidImageHash(hash string) bool {
	if len(hash) == 0 || len(hash) > 128 {
		return false
	}
	for _, c := range hash {
		if (c < '0' || c > '9') && (c < 'a' || c > 'f') {
			return false
		}
	}
	return true
}

// centerCrop returns the largest centered rectangle of the given aspect ratio.
func centerCrop(w, h int, ratio float64) (cropX, cropY, cropW, cropH int) {
	if w <= 0 || h <= 0 || ratio <= 0 {
		return 0, 0, w, h
	}
	if float64(w)/float64(h) > ratio {
		cropH = h
		cropW = int(float64(h) * ratio)
	} else {
		cropW = w
		cropH = int(float64(w) / ratio)
	}
	if cropW < 1 {
		cropW = 1
	}
	if cropH < 1 {
		cropH = 1
	}
	return (w - cropW) / 2, (h - cropH) / 2, cropW, cropH
}

func cropToRect(src image.Image, x, y, w, h int) image.Image {
	if w <= 0 || h <= 0 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), src, image.Point{X: x, Y: y}, draw.Src)
	return dst
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

	scale := float64(maxWidth) / float64(w)
	if scaleH := float64(maxHeight) / float64(h); scaleH < scale {
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
	case "image/jpeg", "image/jpg", "image/png", "image/webp":
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

func isMatchingContentType(provided, detected string) bool {
	p := normalizeContentType(provided)
	d := normalizeContentType(detected)
	if p == d {
		return true
	}
	return (p == "image/jpg" && d == "image/jpeg") || (p == "image/jpeg" && d == "image/jpg")
}

func decodedFormatToMime(format string) string {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "jpeg", "jpg":
		return "image/jpeg"
	case "png":
		return "image/png"
	case "webp":
		return "image/webp"
	default:
		return ""
	}
}

func buildDeterministicImageHash(userID uint, kind string, content []byte) string {
	h := sha256.New()
	_, _ = fmt.Fprintf(h, "%d:%s:", userID, kind)
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func writeBytesToFile(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

func cleanupImageFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
