package api

import (
	"net/http"
	"strconv"

	"alcyxob/bodytrack/internal/domain"
	"alcyxob/bodytrack/internal/service"

	"github.com/gin-gonic/gin"
)

type ForumHandler struct {
	forumService service.ForumService
}

func NewForumHandler(forumService service.ForumService) *ForumHandler {
	return &ForumHandler{forumService: forumService}
}

type PostRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content" binding:"required"`
}

type CommentRequest struct {
	Content string `json:"content" binding:"required"`
}

type PostSummaryResponse struct {
	domain.ForumPost
	CommentCount int64 `json:"commentCount"`
}

type PostDetailResponse struct {
	*domain.ForumPost
	Comments []domain.ForumComment `json:"comments"`
}

// ListPosts godoc
// @Summary Latest forum posts
// @Tags Forum
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Maximum posts (default 50)"
// @Success 200 {array} PostSummaryResponse
// @Router /forum/posts [get]
func (h *ForumHandler) ListPosts(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}
	posts, err := h.forumService.ListPosts(c.Request.Context(), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	resp := make([]PostSummaryResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, PostSummaryResponse{ForumPost: p.Post, CommentCount: p.Comments})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *ForumHandler) GetPost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	detail, err := h.forumService.GetPost(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, PostDetailResponse{ForumPost: detail.Post, Comments: detail.Comments})
}

func (h *ForumHandler) CreatePost(c *gin.Context) {
	principal := mustPrincipal(c)

	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	post, err := h.forumService.CreatePost(c.Request.Context(), principal.UserID, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *ForumHandler) UpdatePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	post, err := h.forumService.UpdatePost(c.Request.Context(), id, req.Title, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *ForumHandler) DeletePost(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.forumService.DeletePost(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *ForumHandler) AddComment(c *gin.Context) {
	principal := mustPrincipal(c)

	postID, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	comment, err := h.forumService.AddComment(c.Request.Context(), postID, principal.UserID, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *ForumHandler) UpdateComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	comment, err := h.forumService.UpdateComment(c.Request.Context(), id, req.Content)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, comment)
}

func (h *ForumHandler) DeleteComment(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.forumService.DeleteComment(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
