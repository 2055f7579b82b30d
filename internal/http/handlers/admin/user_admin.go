package admin

import (
	handlershared "github.com/tokoline/tokoline/internal/http/handlers/shared"
	"github.com/tokoline/tokoline/internal/http/response"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"
	"github.com/tokoline/tokoline/internal/service"

	"github.com/gin-gonic/gin"
)

type createUserPayload struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	RoleID   *uint  `json:"role_id"`
	IsActive bool   `json:"is_active"`
}

type updateUserPayload struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	RoleID   *uint   `json:"role_id"`
	IsActive *bool   `json:"is_active"`
}

type rolePayload struct {
	Name        string   `json:"name" binding:"required"`
	DisplayName string   `json:"display_name" binding:"required"`
	Permissions []string `json:"permissions"`
}

type roleUpdatePayload struct {
	DisplayName string   `json:"display_name"`
	Permissions []string `json:"permissions"`
}

// GetUsers 账号列表 (Admin)
func (h *Handler) GetUsers(c *gin.Context) {
	page, pageSize := handlershared.NormalizePagination(
		handlershared.QueryInt(c, "page", 1),
		handlershared.QueryInt(c, "page_size", 20),
	)
	filter := repository.UserListFilter{
		Page:     page,
		PageSize: pageSize,
		Search:   c.Query("search"),
		RoleID:   handlershared.QueryUint(c, "role_id"),
	}
	if raw := c.Query("is_active"); raw == "true" || raw == "false" {
		active := raw == "true"
		filter.IsActive = &active
	}
	users, total, err := h.UserAdminService.ListUsers(filter)
	if err != nil {
		requestLog(c).Warnw("admin_user_list_failed", "error", err)
		response.SuccessWithPage(c, []models.User{}, response.NewPagination(page, pageSize, 0))
		return
	}
	response.SuccessWithPage(c, users, response.NewPagination(page, pageSize, total))
}

// GetUser 账号详情 (Admin)
func (h *Handler) GetUser(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid user id")
		return
	}
	user, err := h.UserAdminService.GetUser(id)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// CreateUser 创建账号
func (h *Handler) CreateUser(c *gin.Context) {
	var payload createUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	user, err := h.UserAdminService.CreateUser(service.CreateUserInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		RoleID:   payload.RoleID,
		IsActive: payload.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, user)
}

// UpdateUser 更新账号
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid user id")
		return
	}
	var payload updateUserPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	user, err := h.UserAdminService.UpdateUser(id, service.UpdateUserInput{
		Name:     payload.Name,
		Email:    payload.Email,
		Password: payload.Password,
		RoleID:   payload.RoleID,
		IsActive: payload.IsActive,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, user)
}

// DeleteUser 删除账号，禁止自删
func (h *Handler) DeleteUser(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid user id")
		return
	}
	auth, ok := handlershared.AuthFromContext(c)
	if !ok {
		return
	}
	if err := h.UserAdminService.DeleteUser(id, auth.User.ID); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "User deleted", nil)
}

// GetRoles 角色列表 (Admin)
func (h *Handler) GetRoles(c *gin.Context) {
	roles, err := h.UserAdminService.ListRoles()
	if err != nil {
		requestLog(c).Warnw("admin_role_list_failed", "error", err)
		response.Success(c, []models.Role{})
		return
	}
	response.Success(c, roles)
}

// CreateRole 创建角色
func (h *Handler) CreateRole(c *gin.Context) {
	var payload rolePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	role := &models.Role{
		Name:        payload.Name,
		DisplayName: payload.DisplayName,
		Permissions: models.StringArray(payload.Permissions),
	}
	if err := h.UserAdminService.CreateRole(role); err != nil {
		respondServiceError(c, err)
		return
	}
	response.Created(c, role)
}

// UpdateRole 更新角色
func (h *Handler) UpdateRole(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid role id")
		return
	}
	var payload roleUpdatePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.BadRequest(c, "Invalid input")
		return
	}
	role, err := h.UserAdminService.UpdateRole(id, payload.DisplayName, payload.Permissions)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	response.Success(c, role)
}

// DeleteRole 删除角色
func (h *Handler) DeleteRole(c *gin.Context) {
	id, ok := handlershared.ParamUint(c, "id")
	if !ok {
		response.BadRequest(c, "Invalid role id")
		return
	}
	if err := h.UserAdminService.DeleteRole(id); err != nil {
		respondServiceError(c, err)
		return
	}
	response.SuccessWithMsg(c, "Role deleted", nil)
}
