package service

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tokoline/tokoline/internal/constants"
	"github.com/tokoline/tokoline/internal/models"
	"github.com/tokoline/tokoline/internal/repository"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupUserAdminServiceTest(t *testing.T) (*UserAdminService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Role{}, &models.ApiToken{}); err != nil {
		t.Fatalf("migrate user models failed: %v", err)
	}
	for _, role := range []models.Role{
		{ID: 1, Name: constants.RoleNameSuper, DisplayName: "Super Admin", Permissions: models.StringArray(constants.AllPermissions())},
		{ID: 2, Name: constants.RoleNameAdmin, DisplayName: "Admin"},
		{ID: 3, Name: constants.RoleNameStaff, DisplayName: "Staff"},
	} {
		if err := db.Create(&role).Error; err != nil {
			t.Fatalf("seed role failed: %v", err)
		}
	}
	svc := NewUserAdminService(
		repository.NewUserRepository(db),
		repository.NewRoleRepository(db),
		repository.NewApiTokenRepository(db),
	)
	return svc, db
}

func TestCreateUserChecksDuplicates(t *testing.T) {
	svc, _ := setupUserAdminServiceTest(t)

	roleID := uint(3)
	user, err := svc.CreateUser(CreateUserInput{
		Name: "kasir", Email: "Kasir@Toko.id", Password: "rahasia1", RoleID: &roleID, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if user.Email != "kasir@toko.id" {
		t.Fatalf("email = %q, want lowercased", user.Email)
	}
	if user.Role == nil || user.Role.Name != constants.RoleNameStaff {
		t.Fatalf("role not preloaded: %+v", user.Role)
	}

	if _, err := svc.CreateUser(CreateUserInput{Name: "KASIR", Email: "other@toko.id", Password: "rahasia1"}); !errors.Is(err, ErrNameTaken) {
		t.Fatalf("dup name err = %v, want ErrNameTaken", err)
	}
	if _, err := svc.CreateUser(CreateUserInput{Name: "lain", Email: "kasir@toko.id", Password: "rahasia1"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("dup email err = %v, want ErrEmailTaken", err)
	}
	if _, err := svc.CreateUser(CreateUserInput{Name: "pendek", Email: "p@toko.id", Password: "123"}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("short password err = %v, want ErrInvalidInput", err)
	}
}

func TestDeactivateUserRevokesTokens(t *testing.T) {
	svc, db := setupUserAdminServiceTest(t)

	user, err := svc.CreateUser(CreateUserInput{Name: "kasir", Email: "kasir@toko.id", Password: "rahasia1", IsActive: true})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := db.Create(&models.ApiToken{UserID: user.ID, Token: strings.Repeat("a", 64)}).Error; err != nil {
		t.Fatalf("seed token failed: %v", err)
	}

	inactive := false
	if _, err := svc.UpdateUser(user.ID, UpdateUserInput{IsActive: &inactive}); err != nil {
		t.Fatalf("deactivate failed: %v", err)
	}

	var tokens int64
	if err := db.Model(&models.ApiToken{}).Where("user_id = ?", user.ID).Count(&tokens).Error; err != nil {
		t.Fatalf("count tokens failed: %v", err)
	}
	if tokens != 0 {
		t.Fatalf("tokens = %d, want 0 after deactivation", tokens)
	}
}

func TestDeleteUserGuards(t *testing.T) {
	svc, _ := setupUserAdminServiceTest(t)

	user, err := svc.CreateUser(CreateUserInput{Name: "kasir", Email: "kasir@toko.id", Password: "rahasia1"})
	if err != nil {
		t.Fatalf("create user failed: %v", err)
	}

	if err := svc.DeleteUser(user.ID, user.ID); !errors.Is(err, ErrSelfDeletion) {
		t.Fatalf("self delete err = %v, want ErrSelfDeletion", err)
	}
	if err := svc.DeleteUser(user.ID, user.ID+100); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	if err := svc.DeleteUser(user.ID, user.ID+100); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing user err = %v, want ErrNotFound", err)
	}
}

func TestRoleGuards(t *testing.T) {
	svc, _ := setupUserAdminServiceTest(t)

	if err := svc.DeleteRole(1); !errors.Is(err, ErrBuiltinRole) {
		t.Fatalf("builtin role err = %v, want ErrBuiltinRole", err)
	}

	role := &models.Role{Name: "gudang", DisplayName: "Petugas Gudang", Permissions: models.StringArray{constants.PermProductsManage, "bogus:perm"}}
	if err := svc.CreateRole(role); err != nil {
		t.Fatalf("create role failed: %v", err)
	}
	if len(role.Permissions) != 1 || role.Permissions[0] != constants.PermProductsManage {
		t.Fatalf("permissions = %v, want unknown entries filtered", role.Permissions)
	}

	roleID := role.ID
	if _, err := svc.CreateUser(CreateUserInput{Name: "kasir", Email: "kasir@toko.id", Password: "rahasia1", RoleID: &roleID}); err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	if err := svc.DeleteRole(role.ID); !errors.Is(err, ErrRoleInUse) {
		t.Fatalf("in-use role err = %v, want ErrRoleInUse", err)
	}
}
