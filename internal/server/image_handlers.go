package server

import (
	"io"
	"strings"

	"cinetheque/internal/models"
	"cinetheque/internal/service"

	"github.com/gofiber/fiber/v2"
)

// UploadImage handles POST /api/images/upload (multipart field "image", form value "kind")
// @Summary Upload an avatar or playlist cover
// @Tags images
// @Accept mpfd
// @Produce json
// @Security BearerAuth
// @Param image formData file true "Image file"
// @Param kind formData string true "avatar or cover"
// @Success 201 {object} models.Image
// @Failure 400 {object} models.ErrorResponse
// @Router /images/upload [post]
func (s *Server) UploadImage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	file, err := c.FormFile("image")
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("No file uploaded"))
	}

	src, err := file.Open()
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}
	defer func() { _ = src.Close() }()

	content, err := io.ReadAll(src)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest, models.NewValidationError("Unable to read uploaded file"))
	}

	uploaded, err := s.imageService.Upload(c.UserContext(), service.UploadImageInput{
		UserID:      userID,
		Kind:        strings.TrimSpace(c.FormValue("kind", models.ImageKindAvatar)),
		Filename:    file.Filename,
		ContentType: file.Header.Get("Content-Type"),
		Content:     content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(uploaded)
}

// GetMyImages handles GET /api/images
func (s *Server) GetMyImages(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	images, err := s.imageService.ListByUser(c.UserContext(), userID)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(images)
}

// DeleteImage handles DELETE /api/images/:hash
func (s *Server) DeleteImage(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	hash := strings.TrimSpace(c.Params("hash"))
	if err := s.imageService.Delete(c.UserContext(), userID, hash); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ServeImage handles GET /media/i/:hash/master.:format
func (s *Server) ServeImage(c *fiber.Ctx) error {
	hash := strings.TrimSpace(c.Params("hash"))
	format := strings.ToLower(c.Params("format"))

	img, path, err := s.imageService.ResolveForServing(c.UserContext(), hash, format)
	if err != nil {
		return models.RespondWithAppError(c, err)
	}

	contentType := "image/jpeg"
	if format == service.ImageFormatWebP {
		contentType = "image/webp"
	}
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderCacheControl, "public, max-age=31536000, immutable")
	c.Set(fiber.HeaderETag, `"`+img.Hash+"-"+format+`"`)
	return c.SendFile(path)
}
