package handler

import (
	"github.com/brightdesk/user-directory/internal/core/domain"
	"github.com/brightdesk/user-directory/internal/core/ports"
)

// --- Request → Service input ---

func toCreateInput(req createUserRequest) ports.CreateUserInput {
	return ports.CreateUserInput{
		Email:     req.Email,
		Username:  req.Username,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Role:      req.Role,
		Status:    req.Status,
		Metadata:  req.Metadata,
	}
}

// --- Domain → HTTP response ---

func toUserResponse(u *domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		FullName:  u.FullName(),
		Role:      string(u.Role),
		Status:    string(u.Status),
		Permissions: permissionsResponse{
			CanRead:           u.Permissions.CanRead,
			CanWrite:          u.Permissions.CanWrite,
			CanDelete:         u.Permissions.CanDelete,
			CanAdmin:          u.Permissions.CanAdmin,
			CustomPermissions: u.Permissions.Custom,
		},
		Metadata:  u.Metadata,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
		IsAdmin:   u.IsAdmin(),
		IsActive:  u.IsActive(),
	}
}

func toUserListResponse(users []*domain.User) userListResponse {
	items := make([]userResponse, 0, len(users))
	for _, u := range users {
		items = append(items, toUserResponse(u))
	}
	return userListResponse{Items: items, Total: len(items)}
}
