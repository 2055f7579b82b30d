package service

import (
	"strings"

	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// 内置角色不可删除
var builtinRoleNames = map[string]struct{}{
	constants.RoleNameSuper: {},
	constants.RoleNameAdmin: {},
	constants.RoleNameStaff: {},
}

// UserAdminService 后台账号与角色管理服务
type UserAdminService struct {
	userRepo  repository.UserRepository
	roleRepo  repository.RoleRepository
	tokenRepo repository.ApiTokenRepository
}

// NewUserAdminService 创建后台账号管理服务实例
func NewUserAdminService(
	userRepo repository.UserRepository,
	roleRepo repository.RoleRepository,
	tokenRepo repository.ApiTokenRepository,
) *UserAdminService {
	return &UserAdminService{
		userRepo:  userRepo,
		roleRepo:  roleRepo,
		tokenRepo: tokenRepo,
	}
}

// CreateUserInput 创建账号输入
type CreateUserInput struct {
	Name     string
	Email    string
	Password string
	RoleID   *uint
	IsActive bool
}

// UpdateUserInput 更新账号输入，nil 表示不修改
type UpdateUserInput struct {
	Name     *string
	Email    *string
	Password *string
	RoleID   *uint
	IsActive *bool
}

// CreateUser 后台创建账号
func (s *UserAdminService) CreateUser(input CreateUserInput) (*models.User, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.ToLower(strings.TrimSpace(input.Email))
	if name == "" || email == "" || len(input.Password) < 6 {
		return nil, ErrInvalidInput
	}
	if err := s.checkIdentifierTaken(name, email, 0); err != nil {
		return nil, err
	}
	if input.RoleID != nil {
		role, err := s.roleRepo.GetByID(*input.RoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrNotFound
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	user := &models.User{
		Name:         name,
		Email:        email,
		PasswordHash: string(hash),
		RoleID:       input.RoleID,
		IsActive:     input.IsActive,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByIDWithRole(user.ID)
}

// UpdateUser 更新账号。停用账号即时吊销其全部令牌。
func (s *UserAdminService) UpdateUser(id uint, input UpdateUserInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
	}
	if input.Email != nil {
		user.Email = strings.ToLower(strings.TrimSpace(*input.Email))
	}
	if user.Name == "" || user.Email == "" {
		return nil, ErrInvalidInput
	}
	if err := s.checkIdentifierTaken(user.Name, user.Email, id); err != nil {
		return nil, err
	}
	if input.Password != nil {
		if len(*input.Password) < 6 {
			return nil, ErrInvalidInput
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		user.PasswordHash = string(hash)
	}
	if input.RoleID != nil {
		role, err := s.roleRepo.GetByID(*input.RoleID)
		if err != nil {
			return nil, err
		}
		if role == nil {
			return nil, ErrNotFound
		}
		user.RoleID = input.RoleID
	}
	deactivated := false
	if input.IsActive != nil {
		deactivated = user.IsActive && !*input.IsActive
		user.IsActive = *input.IsActive
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	if deactivated {
		if err := s.tokenRepo.DeleteByUserID(id); err != nil {
			return nil, err
		}
	}
	return s.userRepo.GetByIDWithRole(id)
}

// DeleteUser 删除账号，禁止删除自己，令牌一并清理
func (s *UserAdminService) DeleteUser(id, operatorID uint) error {
	if id == operatorID {
		return ErrSelfDeletion
	}
	user, err := s.userRepo.GetByID(id)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}
	if err := s.tokenRepo.DeleteByUserID(id); err != nil {
		return err
	}
	return s.userRepo.Delete(id)
}

// GetUser 获取账号详情（含角色）
func (s *UserAdminService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.GetByIDWithRole(id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	return user, nil
}

// ListUsers 账号列表
func (s *UserAdminService) ListUsers(filter repository.UserListFilter) ([]models.User, int64, error) {
	filter.WithRole = true
	return s.userRepo.List(filter)
}

// ListRoles 角色列表
func (s *UserAdminService) ListRoles() ([]models.Role, error) {
	return s.roleRepo.List()
}

// CreateRole 创建角色，权限取合法标识的交集
func (s *UserAdminService) CreateRole(role *models.Role) error {
	role.Name = strings.ToLower(strings.TrimSpace(role.Name))
	role.DisplayName = strings.TrimSpace(role.DisplayName)
	if role.Name == "" || role.DisplayName == "" {
		return ErrInvalidInput
	}
	existing, err := s.roleRepo.GetByName(role.Name)
	if err != nil {
		return err
	}
	if existing != nil {
		return ErrNameTaken
	}
	role.Permissions = filterPermissions(role.Permissions)
	return s.roleRepo.Create(role)
}

// UpdateRole 更新角色权限与展示名，角色标识不可改
func (s *UserAdminService) UpdateRole(id uint, displayName string, permissions []string) (*models.Role, error) {
	role, err := s.roleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if role == nil {
		return nil, ErrNotFound
	}
	if displayName = strings.TrimSpace(displayName); displayName != "" {
		role.DisplayName = displayName
	}
	// 超级管理员权限不可收窄
	if role.ID != constants.RoleIDSuperAdmin {
		role.Permissions = filterPermissions(models.StringArray(permissions))
	}
	if err := s.roleRepo.Update(role); err != nil {
		return nil, err
	}
	return role, nil
}

// DeleteRole 删除角色，内置角色与仍有账号引用的角色不可删除
func (s *UserAdminService) DeleteRole(id uint) error {
	role, err := s.roleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if role == nil {
		return ErrNotFound
	}
	if _, ok := builtinRoleNames[role.Name]; ok {
		return ErrBuiltinRole
	}
	count, err := s.userRepo.CountByRole(id)
	if err != nil {
		return err
	}
	if count > 0 {
		return ErrRoleInUse
	}
	return s.roleRepo.Delete(id)
}

func (s *UserAdminService) checkIdentifierTaken(name, email string, selfID uint) error {
	if existing, err := s.userRepo.GetByLoginIdentifier(name); err != nil {
		return err
	} else if existing != nil && existing.ID != selfID {
		return ErrNameTaken
	}
	if existing, err := s.userRepo.GetByLoginIdentifier(email); err != nil {
		return err
	} else if existing != nil && existing.ID != selfID {
		return ErrEmailTaken
	}
	return nil
}

func filterPermissions(raw models.StringArray) models.StringArray {
	known := make(map[string]struct{}, len(constants.AllPermissions()))
	for _, perm := range constants.AllPermissions() {
		known[perm] = struct{}{}
	}
	filtered := make(models.StringArray, 0, len(raw))
	seen := make(map[string]struct{})
	for _, perm := range raw {
		perm = strings.TrimSpace(perm)
		if _, ok := known[perm]; !ok {
			continue
		}
		if _, dup := seen[perm]; dup {
			continue
		}
		seen[perm] = struct{}{}
		filtered = append(filtered, perm)
	}
	return filtered
}
