package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/adminsuite/user-service/internal/domain/entity"
)

func TestValidatePasswordOrder(t *testing.T) {
	tests := []struct {
		name     string
		password string
		code     string
	}{
		{"too short wins over everything", "a", CodePasswordTooShort},
		{"short even when otherwise complete", "Aa1", CodePasswordTooShort},
		{"uppercase checked before lowercase and digit", "alllowercase", CodePasswordNoUppercase},
		{"lowercase checked before digit", "ALLUPPERCASE", CodePasswordNoLowercase},
		{"digit checked last", "NoDigitsHere", CodePasswordNoNumber},
		{"valid", "Password1", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ValidatePassword(tt.password)
			if tt.code == "" {
				assert.True(t, res.Valid)
				assert.Empty(t, res.Code)
			} else {
				assert.False(t, res.Valid)
				assert.Equal(t, tt.code, res.Code)
			}
		})
	}
}

func TestEmailMustBeUnique(t *testing.T) {
	f := newFixture()
	f.seed("taken@example.com", "Taken", entity.RoleUser, "")

	res, err := EmailMustBeUnique(context.Background(), f.repo, "taken@example.com")
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, CodeEmailExists, res.Code)

	// comparison is case-insensitive
	res, err = EmailMustBeUnique(context.Background(), f.repo, "TAKEN@example.com")
	require.NoError(t, err)
	assert.False(t, res.Valid)

	res, err = EmailMustBeUnique(context.Background(), f.repo, "free@example.com")
	require.NoError(t, err)
	assert.True(t, res.Valid)
}

func TestEmailMustBeUniqueExcluding(t *testing.T) {
	f := newFixture()
	u := f.seed("self@example.com", "Self", entity.RoleUser, "")
	f.seed("other@example.com", "Other", entity.RoleUser, "")

	// own email does not conflict
	res, err := EmailMustBeUniqueExcluding(context.Background(), f.repo, "self@example.com", u.ID)
	require.NoError(t, err)
	assert.True(t, res.Valid)

	// someone else's email does
	res, err = EmailMustBeUniqueExcluding(context.Background(), f.repo, "other@example.com", u.ID)
	require.NoError(t, err)
	assert.False(t, res.Valid)
	assert.Equal(t, CodeEmailExists, res.Code)
}

func TestCannotDeleteSelf(t *testing.T) {
	res := CannotDeleteSelf(DeleteUserCommand{ID: "u-1", ActorID: "u-1"})
	assert.False(t, res.Valid)
	assert.Equal(t, CodeCannotDeleteSelf, res.Code)

	res = CannotDeleteSelf(DeleteUserCommand{ID: "u-1", ActorID: "u-2"})
	assert.True(t, res.Valid)
}

func TestCannotDeleteAdmin(t *testing.T) {
	f := newFixture()
	admin := f.seed("admin@example.com", "Admin", entity.RoleAdmin, "")
	admin2 := f.seed("admin2@example.com", "Admin Two", entity.RoleAdmin, "")
	user := f.seed("user@example.com", "User", entity.RoleUser, "")
	editor := f.seed("editor@example.com", "Editor", entity.RoleEditor, "")

	t.Run("non-admin cannot delete admin", func(t *testing.T) {
		target, res, err := CannotDeleteAdmin(context.Background(), f.repo, DeleteUserCommand{ID: admin.ID, ActorID: user.ID})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, CodeCannotDeleteAdmin, res.Code)
		assert.Nil(t, target)
	})

	t.Run("editor cannot delete admin either", func(t *testing.T) {
		_, res, err := CannotDeleteAdmin(context.Background(), f.repo, DeleteUserCommand{ID: admin.ID, ActorID: editor.ID})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, CodeCannotDeleteAdmin, res.Code)
	})

	t.Run("admin may delete admin", func(t *testing.T) {
		target, res, err := CannotDeleteAdmin(context.Background(), f.repo, DeleteUserCommand{ID: admin.ID, ActorID: admin2.ID})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		require.NotNil(t, target)
		assert.Equal(t, admin.ID, target.ID)
	})

	t.Run("missing target reported before missing actor", func(t *testing.T) {
		_, res, err := CannotDeleteAdmin(context.Background(), f.repo, DeleteUserCommand{ID: "missing", ActorID: "also-missing"})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, CodeUserNotFound, res.Code)
	})

	t.Run("missing actor", func(t *testing.T) {
		_, res, err := CannotDeleteAdmin(context.Background(), f.repo, DeleteUserCommand{ID: user.ID, ActorID: "missing"})
		require.NoError(t, err)
		assert.False(t, res.Valid)
		assert.Equal(t, CodeActorNotFound, res.Code)
	})
}

func TestValidateCreateUserShortCircuits(t *testing.T) {
	f := newFixture()
	f.seed("taken@example.com", "Taken", entity.RoleUser, "")

	// duplicate email reported even when the password is also bad
	cmd := validCreate("taken@example.com")
	cmd.Password = "bad"
	res, err := ValidateCreateUser(context.Background(), f.repo, cmd)
	require.NoError(t, err)
	assert.Equal(t, CodeEmailExists, res.Code)

	// with a free email the password rules run
	cmd.Email = "free@example.com"
	res, err = ValidateCreateUser(context.Background(), f.repo, cmd)
	require.NoError(t, err)
	assert.Equal(t, CodePasswordTooShort, res.Code)
}

func TestValidateUpdateUser(t *testing.T) {
	f := newFixture()
	u := f.seed("me@example.com", "Me", entity.RoleUser, "")
	f.seed("other@example.com", "Other", entity.RoleUser, "")

	t.Run("missing target", func(t *testing.T) {
		res, err := ValidateUpdateUser(context.Background(), f.repo, UpdateUserCommand{ID: "missing"})
		require.NoError(t, err)
		assert.Equal(t, CodeUserNotFound, res.Code)
	})

	t.Run("no uniqueness check without email change", func(t *testing.T) {
		before := f.repo.emailExistsCalls
		name := "New Name"
		res, err := ValidateUpdateUser(context.Background(), f.repo, UpdateUserCommand{ID: u.ID, FullName: &name})
		require.NoError(t, err)
		assert.True(t, res.Valid)
		assert.Equal(t, before, f.repo.emailExistsCalls)
	})

	t.Run("email change to taken address", func(t *testing.T) {
		email := "other@example.com"
		res, err := ValidateUpdateUser(context.Background(), f.repo, UpdateUserCommand{ID: u.ID, Email: &email})
		require.NoError(t, err)
		assert.Equal(t, CodeEmailExists, res.Code)
	})

	t.Run("keeping own email is fine", func(t *testing.T) {
		email := "me@example.com"
		res, err := ValidateUpdateUser(context.Background(), f.repo, UpdateUserCommand{ID: u.ID, Email: &email})
		require.NoError(t, err)
		assert.True(t, res.Valid)
	})
}
