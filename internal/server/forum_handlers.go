package server

import (
	"strings"

	"cinetheque/internal/models"
	"cinetheque/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCategories handles GET /api/forum/categories
// @Summary List forum categories
// @Tags forum
// @Produce json
// @Success 200 {array} models.ForumCategory
// @Router /forum/categories [get]
func (s *Server) GetCategories(c *fiber.Ctx) error {
	categories, err := s.forumService.ListCategories(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(categories)
}

// GetAllCategories handles GET /api/admin/forum/categories, inactive ones included.
func (s *Server) GetAllCategories(c *fiber.Ctx) error {
	categories, err := s.forumService.ListAllCategories(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(categories)
}

// GetCategory handles GET /api/forum/categories/:slug
func (s *Server) GetCategory(c *fiber.Ctx) error {
	category, err := s.forumService.GetCategory(c.UserContext(), c.Params("slug"))
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(category)
}

type categoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Slug        string `json:"slug"`
	SortOrder   int    `json:"sort_order"`
	IsActive    *bool  `json:"is_active"`
}

func (r categoryRequest) input() service.CategoryInput {
	return service.CategoryInput{
		Name:        r.Name,
		Description: r.Description,
		Slug:        r.Slug,
		SortOrder:   r.SortOrder,
		IsActive:    r.IsActive,
	}
}

// CreateCategory handles POST /api/admin/forum/categories
// @Summary Create a forum category
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body categoryRequest true "Category"
// @Success 201 {object} models.ForumCategory
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /admin/forum/categories [post]
func (s *Server) CreateCategory(c *fiber.Ctx) error {
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.forumService.CreateCategory(c.UserContext(), req.input())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// UpdateCategory handles PUT /api/admin/forum/categories/:id
func (s *Server) UpdateCategory(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req categoryRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	category, err := s.forumService.UpdateCategory(c.UserContext(), id, req.input())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(category)
}

// GetTags handles GET /api/forum/tags
func (s *Server) GetTags(c *fiber.Ctx) error {
	tags, err := s.forumService.ListTags(c.UserContext())
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(tags)
}

// CreateTag handles POST /api/admin/forum/tags
func (s *Server) CreateTag(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Description string `json:"description"`
		Color       string `json:"color"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	tag, err := s.forumService.CreateTag(c.UserContext(), service.TagInput{
		Name:        req.Name,
		Description: req.Description,
		Color:       req.Color,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(tag)
}

// GetTopics handles GET /api/forum/topics
// @Summary List forum topics
// @Description Pinned topics come first. Unknown sort keys fall back to last activity.
// @Tags forum
// @Produce json
// @Param category_id query int false "Category ID"
// @Param tag_id query int false "Tag ID"
// @Param author_id query int false "Author user ID"
// @Param q query string false "Title search"
// @Param sort_by query string false "lastPostAt, createdAt, viewCount, title, postCount or upvotes"
// @Param order query string false "asc or desc"
// @Param page query int false "Page number"
// @Param per_page query int false "Items per page"
// @Success 200 {object} object{items=[]models.ForumTopic,total=int,pagination=pagination.Page}
// @Router /forum/topics [get]
func (s *Server) GetTopics(c *fiber.Ctx) error {
	return s.listTopics(c, "")
}

// GetCategoryTopics handles GET /api/forum/categories/:slug/topics
func (s *Server) GetCategoryTopics(c *fiber.Ctx) error {
	return s.listTopics(c, c.Params("slug"))
}

func (s *Server) listTopics(c *fiber.Ctx, categorySlug string) error {
	page := parsePagination(c)
	userID, _ := s.optionalUserID(c)

	topics, err := s.forumService.ListTopics(c.UserContext(), service.ListTopicsInput{
		CategoryID:    uint(max(c.QueryInt("category_id"), 0)),
		CategorySlug:  categorySlug,
		TagID:         uint(max(c.QueryInt("tag_id"), 0)),
		AuthorID:      uint(max(c.QueryInt("author_id"), 0)),
		Search:        c.Query("q"),
		SortBy:        c.Query("sort_by"),
		Order:         c.Query("order"),
		Page:          page.Page,
		PerPage:       page.PerPage,
		CurrentUserID: userID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(topics)
}

// GetTopic handles GET /api/forum/topics/:id
// @Summary Get a topic
// @Description Counts a view and annotates the caller's vote.
// @Tags forum
// @Produce json
// @Param id path int true "Topic ID"
// @Success 200 {object} models.ForumTopic
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/topics/{id} [get]
func (s *Server) GetTopic(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID, _ := s.optionalUserID(c)

	topic, err := s.forumService.GetTopic(c.UserContext(), service.GetTopicInput{ID: id, CurrentUserID: userID})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(topic)
}

// GetTopicBySlug handles GET /api/forum/topics/slug/:slug
func (s *Server) GetTopicBySlug(c *fiber.Ctx) error {
	userID, _ := s.optionalUserID(c)

	topic, err := s.forumService.GetTopic(c.UserContext(), service.GetTopicInput{
		Slug:          strings.TrimSpace(c.Params("slug")),
		CurrentUserID: userID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(topic)
}

// CreateTopic handles POST /api/forum/topics
// @Summary Create a topic
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{category_id=int,title=string,content=string,tag_ids=[]int} true "Topic"
// @Success 201 {object} models.ForumTopic
// @Failure 400 {object} models.ErrorResponse
// @Router /forum/topics [post]
func (s *Server) CreateTopic(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	var req struct {
		CategoryID uint   `json:"category_id"`
		Title      string `json:"title"`
		Content    string `json:"content"`
		TagIDs     []uint `json:"tag_ids"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	topic, err := s.forumService.CreateTopic(c.UserContext(), service.CreateTopicInput{
		UserID:     userID,
		CategoryID: req.CategoryID,
		Title:      req.Title,
		Content:    req.Content,
		TagIDs:     req.TagIDs,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(topic)
}

// UpdateTopic handles PUT /api/forum/topics/:id
func (s *Server) UpdateTopic(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	topicID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title    *string `json:"title"`
		Content  *string `json:"content"`
		TagIDs   *[]uint `json:"tag_ids"`
		IsPinned *bool   `json:"is_pinned"`
		IsLocked *bool   `json:"is_locked"`
		Status   *string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	topic, err := s.forumService.UpdateTopic(c.UserContext(), service.UpdateTopicInput{
		UserID:   userID,
		TopicID:  topicID,
		Title:    req.Title,
		Content:  req.Content,
		TagIDs:   req.TagIDs,
		IsPinned: req.IsPinned,
		IsLocked: req.IsLocked,
		Status:   req.Status,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(topic)
}

// DeleteTopic handles DELETE /api/forum/topics/:id
func (s *Server) DeleteTopic(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	topicID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.forumService.DeleteTopic(c.UserContext(), userID, topicID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetTopicPosts handles GET /api/forum/topics/:id/posts
func (s *Server) GetTopicPosts(c *fiber.Ctx) error {
	topicID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c)
	userID, _ := s.optionalUserID(c)

	posts, err := s.forumService.ListPosts(c.UserContext(), service.ListPostsInput{
		TopicID:       topicID,
		Page:          page.Page,
		PerPage:       page.PerPage,
		CurrentUserID: userID,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(posts)
}

// CreatePost handles POST /api/forum/topics/:id/posts
// @Summary Post in a topic
// @Tags forum
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Topic ID"
// @Param request body object{content=string} true "Post"
// @Success 201 {object} models.ForumPost
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /forum/topics/{id}/posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	topicID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.forumService.CreatePost(c.UserContext(), service.CreatePostInput{
		UserID:  userID,
		TopicID: topicID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// UpdatePost handles PUT /api/forum/posts/:id
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.forumService.UpdatePost(c.UserContext(), service.UpdatePostInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(post)
}

// DeletePost handles DELETE /api/forum/posts/:id
func (s *Server) DeletePost(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.forumService.DeletePost(c.UserContext(), userID, postID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// GetPostReplies handles GET /api/forum/posts/:id/replies
func (s *Server) GetPostReplies(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	page := parsePagination(c)

	replies, err := s.forumService.ListReplies(c.UserContext(), service.ListRepliesInput{
		PostID:  postID,
		Page:    page.Page,
		PerPage: page.PerPage,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.JSON(replies)
}

// CreateReply handles POST /api/forum/posts/:id/replies
func (s *Server) CreateReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	reply, err := s.forumService.CreateReply(c.UserContext(), service.CreateReplyInput{
		UserID:  userID,
		PostID:  postID,
		Content: req.Content,
	})
	if err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(reply)
}

// DeleteReply handles DELETE /api/forum/replies/:id
func (s *Server) DeleteReply(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	replyID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.forumService.DeleteReply(c.UserContext(), userID, replyID); err != nil {
		return models.RespondWithAppError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
