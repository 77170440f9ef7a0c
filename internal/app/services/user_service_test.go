package services

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nnadozi/kram-backend/internal/app/models"
	"github.com/Nnadozi/kram-backend/internal/app/models/dto"
	"github.com/Nnadozi/kram-backend/internal/pkg/apperrors"
)

type userFixture struct {
	svc     UserService
	users   *fakeUserRepo
	members *fakeMembershipRepo
	cache   *fakeProfileCache
}

func newUserFixture() *userFixture {
	users := newFakeUserRepo()
	members := newFakeMembershipRepo()
	cache := newFakeProfileCache()

	return &userFixture{
		svc:     NewUserService(users, members, cache, zerolog.Nop()),
		users:   users,
		members: members,
		cache:   cache,
	}
}

func (f *userFixture) addUser(t *testing.T, id, email string) *models.User {
	t.Helper()
	user := &models.User{
		ID:           id,
		Email:        email,
		AuthProvider: models.AuthProviderPassword,
		CreatedAt:    time.Now().Add(-time.Hour),
	}
	require.NoError(t, f.users.Create(context.Background(), user))
	return user
}

func strPtr(s string) *string {
	return &s
}

func validProfileRequest() *dto.UpdateProfileRequest {
	return &dto.UpdateProfileRequest{
		FirstName: strPtr("Ada"),
		LastName:  strPtr("Lovelace"),
		School:    strPtr("State University"),
	}
}

func TestGetProfileIncludesGroups(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "u1", "ada@example.com")
	require.NoError(t, f.members.AddMember(context.Background(), "g1", "u1"))
	require.NoError(t, f.members.AddMember(context.Background(), "g2", "u1"))

	resp, err := f.svc.GetProfile(context.Background(), "u1")
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", resp.Email)
	assert.ElementsMatch(t, []string{"g1", "g2"}, resp.Groups)
}

func TestGetProfileUnknownUser(t *testing.T) {
	f := newUserFixture()

	_, err := f.svc.GetProfile(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestUpdateProfileCompletesOnboarding(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "u1", "ada@example.com")

	year := 2028
	req := validProfileRequest()
	req.GraduationYear = &year
	req.Majors = &[]string{"Mathematics"}
	req.Bio = strPtr("  Enjoys difference engines.  ")

	resp, err := f.svc.UpdateProfile(context.Background(), "u1", req)
	require.NoError(t, err)

	assert.True(t, resp.OnboardingComplete)
	assert.Equal(t, "Ada", resp.FirstName)
	assert.Equal(t, "Enjoys difference engines.", resp.Bio)
	require.NotNil(t, resp.GraduationYear)
	assert.Equal(t, 2028, *resp.GraduationYear)

	// The saved row carries the flag too
	stored, err := f.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.True(t, stored.OnboardingComplete)
	assert.False(t, stored.UpdatedAt.IsZero())
}

func TestUpdateProfileMergesPartialPatch(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "u1", "ada@example.com")

	year := 2028
	full := validProfileRequest()
	full.GraduationYear = &year
	full.Majors = &[]string{"Mathematics"}
	_, err := f.svc.UpdateProfile(context.Background(), "u1", full)
	require.NoError(t, err)

	// A bio-only patch leaves every other field alone
	resp, err := f.svc.UpdateProfile(context.Background(), "u1", &dto.UpdateProfileRequest{
		Bio: strPtr("Enjoys difference engines."),
	})
	require.NoError(t, err)

	assert.Equal(t, "Enjoys difference engines.", resp.Bio)
	assert.Equal(t, "Ada", resp.FirstName)
	assert.Equal(t, "Lovelace", resp.LastName)
	assert.Equal(t, "State University", resp.School)
	assert.Equal(t, []string{"Mathematics"}, resp.Majors)
	require.NotNil(t, resp.GraduationYear)
	assert.Equal(t, 2028, *resp.GraduationYear)
	assert.True(t, resp.OnboardingComplete)
}

func TestUpdateProfileWithoutGraduationYearIncomplete(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "u1", "ada@example.com")

	// Name and school alone do not finish onboarding
	resp, err := f.svc.UpdateProfile(context.Background(), "u1", validProfileRequest())
	require.NoError(t, err)
	assert.False(t, resp.OnboardingComplete)

	year := 2028
	resp, err = f.svc.UpdateProfile(context.Background(), "u1", &dto.UpdateProfileRequest{
		GraduationYear: &year,
	})
	require.NoError(t, err)
	assert.True(t, resp.OnboardingComplete)
}

func TestUpdateProfileWritesThroughCache(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "u1", "ada@example.com")

	_, err := f.svc.UpdateProfile(context.Background(), "u1", validProfileRequest())
	require.NoError(t, err)

	cached, err := f.cache.Get(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", cached.FullName())
}

func TestUpdateProfileValidation(t *testing.T) {
	f := newUserFixture()
	f.addUser(t, "u1", "ada@example.com")

	badYear := time.Now().Year() + 50

	tests := []struct {
		name   string
		mutate func(req *dto.UpdateProfileRequest)
	}{
		{"first name too short", func(req *dto.UpdateProfileRequest) { req.FirstName = strPtr("A") }},
		{"last name missing", func(req *dto.UpdateProfileRequest) { req.LastName = strPtr("  ") }},
		{"school missing", func(req *dto.UpdateProfileRequest) { req.School = strPtr("") }},
		{"graduation year out of range", func(req *dto.UpdateProfileRequest) { req.GraduationYear = &badYear }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validProfileRequest()
			tt.mutate(req)

			_, err := f.svc.UpdateProfile(context.Background(), "u1", req)
			assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
		})
	}

	// Nothing persisted from the failed updates
	stored, err := f.users.GetByID(context.Background(), "u1")
	require.NoError(t, err)
	assert.False(t, stored.OnboardingComplete)
}

func TestDeleteAccountInvalidatesCache(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "u1", "ada@example.com")
	f.cache.Put(user)

	require.NoError(t, f.svc.DeleteAccount(context.Background(), "u1"))

	assert.Contains(t, f.users.deleted, "u1")
	assert.Contains(t, f.cache.invalidated, "u1")

	_, err := f.svc.GetProfile(context.Background(), "u1")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestDeleteAccountCascades(t *testing.T) {
	users := newFakeUserRepo()
	members := newFakeMembershipRepo()
	meetups := newFakeMeetupRepo()
	tokens := newFakeTokenRepo()
	cache := newFakeProfileCache()
	svc := NewUserService(users, members, cache, zerolog.Nop())

	// The production delete removes memberships, attendance and refresh
	// tokens in the same transaction as the user row
	users.cascade = func(userID string) {
		members.mu.Lock()
		for key := range members.members {
			if key.userID == userID {
				delete(members.members, key)
			}
		}
		members.mu.Unlock()

		meetups.mu.Lock()
		for key := range meetups.attendees {
			if key.userID == userID {
				delete(meetups.attendees, key)
			}
		}
		meetups.mu.Unlock()

		tokens.mu.Lock()
		for value, token := range tokens.tokens {
			if token.UserID == userID {
				delete(tokens.tokens, value)
			}
		}
		tokens.mu.Unlock()
	}

	user := &models.User{ID: "u1", Email: "ada@example.com", AuthProvider: models.AuthProviderPassword}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, seedAccountData(members, meetups, tokens))

	require.NoError(t, svc.DeleteAccount(context.Background(), "u1"))

	assert.Empty(t, members.members)
	assert.Empty(t, meetups.attendees)
	assert.Empty(t, tokens.tokens)
	_, err := users.GetByID(context.Background(), "u1")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}

func TestDeleteAccountFailureLeavesEverything(t *testing.T) {
	users := newFakeUserRepo()
	members := newFakeMembershipRepo()
	meetups := newFakeMeetupRepo()
	tokens := newFakeTokenRepo()
	cache := newFakeProfileCache()
	svc := NewUserService(users, members, cache, zerolog.Nop())

	user := &models.User{ID: "u1", Email: "ada@example.com", AuthProvider: models.AuthProviderPassword}
	require.NoError(t, users.Create(context.Background(), user))
	require.NoError(t, seedAccountData(members, meetups, tokens))
	users.failDelete = true

	require.Error(t, svc.DeleteAccount(context.Background(), "u1"))

	// Nothing was removed: the delete is all or nothing
	assert.Len(t, members.members, 2)
	assert.Len(t, meetups.attendees, 1)
	assert.Len(t, tokens.tokens, 1)
	_, err := users.GetByID(context.Background(), "u1")
	assert.NoError(t, err)
}

func seedAccountData(members *fakeMembershipRepo, meetups *fakeMeetupRepo, tokens *fakeTokenRepo) error {
	ctx := context.Background()
	if err := members.AddMember(ctx, "g1", "u1"); err != nil {
		return err
	}
	if err := members.AddMember(ctx, "g2", "u1"); err != nil {
		return err
	}
	meetups.mu.Lock()
	meetups.attendees[membershipKey{groupID: "m1", userID: "u1"}] = true
	meetups.mu.Unlock()
	return tokens.Save(ctx, &models.RefreshToken{
		UserID:    "u1",
		Token:     "t1",
		ExpiresAt: time.Now().Add(time.Hour),
	})
}

func TestDeleteAccountRepoFailureKeepsCache(t *testing.T) {
	f := newUserFixture()
	user := f.addUser(t, "u1", "ada@example.com")
	f.cache.Put(user)
	f.users.failDelete = true

	err := f.svc.DeleteAccount(context.Background(), "u1")
	require.Error(t, err)

	assert.Empty(t, f.cache.invalidated)
}

func TestDeleteUnknownAccount(t *testing.T) {
	f := newUserFixture()

	err := f.svc.DeleteAccount(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrUserNotFound)
}
