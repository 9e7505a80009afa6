package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"webappmanager/internal/authz"
	"webappmanager/internal/models"
	"webappmanager/internal/service"
)

type createUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password string  `json:"password" binding:"required,min=8"`
	Name     string  `json:"name" binding:"max=120"`
	Role     string  `json:"role" binding:"required,role"`
	Phone    *string `json:"phone" binding:"omitempty,max=32"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	Phone     *string   `json:"phone,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func toUserResponse(u models.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Name:      u.DisplayName,
		Role:      u.Role.String(),
		Status:    string(u.Status),
		Phone:     u.Phone,
		CreatedAt: u.CreatedAt,
	}
}

func (h HandlerSet) ListUsers(c *gin.Context) {
	var q pageQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		badRequest(c)
		return
	}
	page, perPage := service.Paginate(q.Page, q.PerPage)

	users, err := h.users.List(c.Request.Context(), perPage, (page-1)*perPage)
	if err != nil {
		h.respondError(c, err)
		return
	}
	out := make([]userResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toUserResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"users": out, "page": page, "perPage": perPage})
}

func (h HandlerSet) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c)
		return
	}
	role, err := models.ParseRole(req.Role)
	if err != nil {
		badRequest(c)
		return
	}

	actor, _ := authz.Current(c)
	user, err := h.users.CreateAs(c.Request.Context(), actor.Role, service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Role:     role,
		Phone:    req.Phone,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.log.Info().Str("actor_id", actor.ID).Str("user_id", user.ID).Str("role", user.Role.String()).Msg("user created")
	c.JSON(http.StatusCreated, gin.H{"user": toUserResponse(user)})
}

func (h HandlerSet) DeleteUser(c *gin.Context) {
	actor, _ := authz.Current(c)
	id := c.Param("id")
	if err := h.users.Delete(c.Request.Context(), actor.ID, id); err != nil {
		h.respondError(c, err)
		return
	}
	h.log.Info().Str("actor_id", actor.ID).Str("user_id", id).Msg("user deleted")
	c.Status(http.StatusNoContent)
}
