package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/domain"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/rbac"
	"github.com/Cyber-Mas-Solutions/Payroll-Sys-Back/internal/rbac/infra"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeRbacRepository struct {
	getUserRolesFn       func(ctx context.Context) ([]rbac.UserRoleRow, error)
	getRolePermissionsFn func(ctx context.Context) ([]rbac.RolePermissionRow, error)
	listRolesFn          func(ctx context.Context) ([]rbac.Role, error)
	findRoleByNameFn     func(ctx context.Context, name string) (*rbac.Role, error)
	assignRoleFn         func(ctx context.Context, userID, roleID string) error
}

func (f *fakeRbacRepository) GetUserRoles(ctx context.Context) ([]rbac.UserRoleRow, error) {
	if f.getUserRolesFn != nil {
		return f.getUserRolesFn(ctx)
	}
	return nil, nil
}

func (f *fakeRbacRepository) GetRolePermissions(ctx context.Context) ([]rbac.RolePermissionRow, error) {
	if f.getRolePermissionsFn != nil {
		return f.getRolePermissionsFn(ctx)
	}
	return nil, nil
}

func (f *fakeRbacRepository) ListRoles(ctx context.Context) ([]rbac.Role, error) {
	if f.listRolesFn != nil {
		return f.listRolesFn(ctx)
	}
	return nil, nil
}

func (f *fakeRbacRepository) FindRoleByName(ctx context.Context, name string) (*rbac.Role, error) {
	if f.findRoleByNameFn != nil {
		return f.findRoleByNameFn(ctx, name)
	}
	return nil, errors.New("not found")
}

func (f *fakeRbacRepository) AssignRole(ctx context.Context, userID, roleID string) error {
	if f.assignRoleFn != nil {
		return f.assignRoleFn(ctx, userID, roleID)
	}
	return nil
}

func newRbacService(t *testing.T, repo rbac.Repository) rbac.Service {
	t.Helper()

	enforcer, err := infra.NewEnforcer()
	require.NoError(t, err)

	return rbac.NewService(repo, enforcer, zap.NewNop())
}

func TestRbacService_Enforce(t *testing.T) {
	hrUser := uuid.New().String()
	employeeUser := uuid.New().String()

	repo := &fakeRbacRepository{
		getUserRolesFn: func(ctx context.Context) ([]rbac.UserRoleRow, error) {
			return []rbac.UserRoleRow{
				{UserID: hrUser, RoleName: "HR"},
				{UserID: employeeUser, RoleName: "Employee"},
			}, nil
		},
		getRolePermissionsFn: func(ctx context.Context) ([]rbac.RolePermissionRow, error) {
			return []rbac.RolePermissionRow{
				{RoleName: "HR", Resource: "payroll", Action: "process"},
				{RoleName: "HR", Resource: "leave", Action: "decide"},
				{RoleName: "Employee", Resource: "leave", Action: "read"},
			}, nil
		},
	}

	svc := newRbacService(t, repo)

	t.Run("hr can process payroll", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{UserID: hrUser, Resource: "payroll", Action: "process"})
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("employee cannot process payroll", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{UserID: employeeUser, Resource: "payroll", Action: "process"})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("employee can read leave", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{UserID: employeeUser, Resource: "leave", Action: "read"})
		assert.NoError(t, err)
		assert.True(t, allowed)
	})

	t.Run("unknown user denied", func(t *testing.T) {
		allowed, err := svc.Enforce(domain.EnforceRequest{UserID: uuid.New().String(), Resource: "leave", Action: "read"})
		assert.NoError(t, err)
		assert.False(t, allowed)
	})

	t.Run("negative repository failure surfaces", func(t *testing.T) {
		badRepo := &fakeRbacRepository{
			getUserRolesFn: func(ctx context.Context) ([]rbac.UserRoleRow, error) {
				return nil, errors.New("db down")
			},
		}
		badSvc := newRbacService(t, badRepo)

		_, err := badSvc.Enforce(domain.EnforceRequest{UserID: hrUser, Resource: "leave", Action: "read"})
		assert.Error(t, err)
	})
}

func TestRbacService_Enforce_ReloadsPolicy(t *testing.T) {
	userID := uuid.New().String()
	granted := false

	repo := &fakeRbacRepository{
		getUserRolesFn: func(ctx context.Context) ([]rbac.UserRoleRow, error) {
			if granted {
				return []rbac.UserRoleRow{{UserID: userID, RoleName: "HR"}}, nil
			}
			return nil, nil
		},
		getRolePermissionsFn: func(ctx context.Context) ([]rbac.RolePermissionRow, error) {
			return []rbac.RolePermissionRow{
				{RoleName: "HR", Resource: "employee", Action: "write"},
			}, nil
		},
	}

	svc := newRbacService(t, repo)

	allowed, err := svc.Enforce(domain.EnforceRequest{UserID: userID, Resource: "employee", Action: "write"})
	require.NoError(t, err)
	assert.False(t, allowed)

	// Role granted after the first check must apply without restart
	granted = true

	allowed, err = svc.Enforce(domain.EnforceRequest{UserID: userID, Resource: "employee", Action: "write"})
	require.NoError(t, err)
	assert.True(t, allowed)
}

func TestRbacService_AssignRole(t *testing.T) {
	roleID := uuid.New()

	t.Run("success", func(t *testing.T) {
		var assignedUser, assignedRole string
		repo := &fakeRbacRepository{
			findRoleByNameFn: func(ctx context.Context, name string) (*rbac.Role, error) {
				assert.Equal(t, "HR", name)
				return &rbac.Role{ID: roleID, Name: "HR"}, nil
			},
			assignRoleFn: func(ctx context.Context, userID, rID string) error {
				assignedUser = userID
				assignedRole = rID
				return nil
			},
		}

		svc := newRbacService(t, repo)
		userID := uuid.New().String()

		err := svc.AssignRole(context.Background(), rbac.AssignRoleRequest{UserID: userID, Role: "HR"})
		assert.NoError(t, err)
		assert.Equal(t, userID, assignedUser)
		assert.Equal(t, roleID.String(), assignedRole)
	})

	t.Run("negative unknown role", func(t *testing.T) {
		repo := &fakeRbacRepository{}
		svc := newRbacService(t, repo)

		err := svc.AssignRole(context.Background(), rbac.AssignRoleRequest{UserID: uuid.New().String(), Role: "Ghost"})
		assert.Error(t, err)
	})
}
