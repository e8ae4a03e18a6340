package repository

import (
	"context"
	"errors"
	"testing"

	"skool-sync/internal/domain"

	"firebase.google.com/go/v4/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var errUserNotFound = errors.New("user not found")

type MockAuthClient struct {
	mock.Mock
}

func (m *MockAuthClient) GetUserByEmail(ctx context.Context, email string) (*auth.UserRecord, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserRecord), args.Error(1)
}

func (m *MockAuthClient) CreateUser(ctx context.Context, user *auth.UserToCreate) (*auth.UserRecord, error) {
	args := m.Called(ctx, user)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.UserRecord), args.Error(1)
}

func (m *MockAuthClient) SetCustomUserClaims(ctx context.Context, uid string, customClaims map[string]interface{}) error {
	args := m.Called(ctx, uid, customClaims)
	return args.Error(0)
}

func newTestIdentityRepository(client *MockAuthClient) *FirebaseIdentityRepository {
	return &FirebaseIdentityRepository{
		client: client,
		isNotFound: func(err error) bool {
			return errors.Is(err, errUserNotFound)
		},
	}
}

func TestFirebaseIdentityRepository_LookupByEmail(t *testing.T) {
	ctx := context.Background()

	t.Run("found", func(t *testing.T) {
		client := new(MockAuthClient)
		client.On("GetUserByEmail", ctx, "a@x.com").Return(&auth.UserRecord{
			UserInfo:      &auth.UserInfo{UID: "uid-1", Email: "a@x.com", DisplayName: "A"},
			EmailVerified: true,
			CustomClaims:  map[string]interface{}{"skoolMember": true},
		}, nil)

		lookup := newTestIdentityRepository(client).LookupByEmail(ctx, "a@x.com")
		require.Equal(t, domain.LookupFound, lookup.Outcome)
		assert.Equal(t, "uid-1", lookup.Identity.UID)
		assert.Equal(t, "A", lookup.Identity.DisplayName)
		assert.True(t, lookup.Identity.EmailVerified)
		client.AssertExpectations(t)
	})

	t.Run("not found is a value", func(t *testing.T) {
		client := new(MockAuthClient)
		client.On("GetUserByEmail", ctx, "a@x.com").Return(nil, errUserNotFound)

		lookup := newTestIdentityRepository(client).LookupByEmail(ctx, "a@x.com")
		assert.Equal(t, domain.LookupNotFound, lookup.Outcome)
		assert.NoError(t, lookup.Err)
	})

	t.Run("other errors fail the lookup", func(t *testing.T) {
		client := new(MockAuthClient)
		client.On("GetUserByEmail", ctx, "a@x.com").Return(nil, errors.New("permission denied"))

		lookup := newTestIdentityRepository(client).LookupByEmail(ctx, "a@x.com")
		assert.Equal(t, domain.LookupFailed, lookup.Outcome)
		assert.ErrorContains(t, lookup.Err, "permission denied")
	})
}

func TestFirebaseIdentityRepository_Create(t *testing.T) {
	ctx := context.Background()

	client := new(MockAuthClient)
	client.On("CreateUser", ctx, mock.AnythingOfType("*auth.UserToCreate")).Return(&auth.UserRecord{
		UserInfo: &auth.UserInfo{UID: "uid-2", Email: "b@x.com", DisplayName: "B"},
	}, nil).Once()

	created, err := newTestIdentityRepository(client).Create(ctx, &domain.NewIdentity{
		Email:       "b@x.com",
		DisplayName: "B",
		Password:    "abcdefA1!",
	})
	require.NoError(t, err)
	assert.Equal(t, "uid-2", created.UID)
	assert.False(t, created.EmailVerified)
	client.AssertExpectations(t)
}

func TestFirebaseIdentityRepository_CreateFailure(t *testing.T) {
	ctx := context.Background()

	client := new(MockAuthClient)
	client.On("CreateUser", ctx, mock.Anything).Return(nil, errors.New("email already exists"))

	_, err := newTestIdentityRepository(client).Create(ctx, &domain.NewIdentity{Email: "b@x.com", Password: "abcdefA1!"})
	assert.ErrorContains(t, err, "failed to create auth user")
}

func TestFirebaseIdentityRepository_SetCustomClaims(t *testing.T) {
	ctx := context.Background()
	claims := map[string]interface{}{"skoolMember": true, "isPaid": false}

	client := new(MockAuthClient)
	client.On("SetCustomUserClaims", ctx, "uid-1", claims).Return(nil).Once()
	client.On("SetCustomUserClaims", ctx, "uid-2", claims).Return(errors.New("quota")).Once()

	repo := newTestIdentityRepository(client)
	assert.NoError(t, repo.SetCustomClaims(ctx, "uid-1", claims))
	assert.ErrorContains(t, repo.SetCustomClaims(ctx, "uid-2", claims), "uid-2")
	client.AssertExpectations(t)
}
