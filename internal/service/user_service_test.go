package service

import (
	"context"
	"errors"
	"testing"

	"postboard/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) List(ctx context.Context) ([]models.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, user *models.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) (*models.User, error) {
	args := m.Called(ctx, id, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func sp(s string) *string { return &s }

func TestUserService_CreateUser(t *testing.T) {
	tests := []struct {
		name     string
		input    CreateUserInput
		wantName *string
		wantCode string
	}{
		{name: "email only", input: CreateUserInput{Email: "a@x.com"}},
		{name: "with name", input: CreateUserInput{Email: "a@x.com", Name: sp("Alice")}, wantName: sp("Alice")},
		{name: "empty name stored as null", input: CreateUserInput{Email: "a@x.com", Name: sp("")}},
		{name: "missing email", input: CreateUserInput{Name: sp("Alice")}, wantCode: models.CodeBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			svc := NewUserService(repo)

			if tt.wantCode == "" {
				repo.On("Create", mock.Anything, mock.MatchedBy(func(u *models.User) bool {
					if u.Email != tt.input.Email {
						return false
					}
					if tt.wantName == nil {
						return u.Name == nil
					}
					return u.Name != nil && *u.Name == *tt.wantName
				})).Return(nil).Once()
			}

			user, err := svc.CreateUser(context.Background(), tt.input)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, models.ErrorCode(err))
				assert.Equal(t, MsgEmailRequired, err.Error())
				assert.Nil(t, user)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.input.Email, user.Email)
			}
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_CreateUser_PropagatesDuplicate(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	dup := models.NewDuplicateKeyError("User", "email", errors.New("unique"))
	repo.On("Create", mock.Anything, mock.Anything).Return(dup)

	_, err := svc.CreateUser(context.Background(), CreateUserInput{Email: "a@x.com"})
	assert.ErrorIs(t, err, dup)
}

func TestUserService_UpdateUser_MergeRules(t *testing.T) {
	tests := []struct {
		name  string
		input UpdateUserInput
		want  map[string]interface{}
	}{
		{name: "nothing supplied", input: UpdateUserInput{}, want: map[string]interface{}{}},
		{name: "empty email ignored", input: UpdateUserInput{Email: models.Some("")}, want: map[string]interface{}{}},
		{name: "email applied", input: UpdateUserInput{Email: models.Some("b@x.com")}, want: map[string]interface{}{"email": "b@x.com"}},
		{name: "empty name ignored", input: UpdateUserInput{Name: models.Some("")}, want: map[string]interface{}{}},
		{name: "null name ignored", input: UpdateUserInput{Name: models.Null[string]()}, want: map[string]interface{}{}},
		{
			name:  "both applied",
			input: UpdateUserInput{Email: models.Some("b@x.com"), Name: models.Some("Bob")},
			want:  map[string]interface{}{"email": "b@x.com", "name": "Bob"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockUserRepository)
			svc := NewUserService(repo)
			repo.On("Update", mock.Anything, uint(3), tt.want).Return(&models.User{ID: 3}, nil).Once()

			user, err := svc.UpdateUser(context.Background(), 3, tt.input)
			require.NoError(t, err)
			assert.Equal(t, uint(3), user.ID)
			repo.AssertExpectations(t)
		})
	}
}

func TestUserService_ListAndDelete(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewUserService(repo)
	ctx := context.Background()

	repo.On("List", mock.Anything).Return([]models.User{{ID: 1, Email: "a@x.com"}}, nil)
	repo.On("Delete", mock.Anything, uint(1)).Return(nil)
	repo.On("Delete", mock.Anything, uint(2)).Return(models.NewNotFoundError("User", 2))

	users, err := svc.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)

	assert.NoError(t, svc.DeleteUser(ctx, 1))
	assert.True(t, models.IsCode(svc.DeleteUser(ctx, 2), models.CodeNotFound))
	repo.AssertExpectations(t)
}
