package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/shop-admin/internal/domain/entity"
)

func TestSessionValidate_Errors(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u := f.registerVerified("a@x.io", "secret1", entity.RoleUser)

	_, err := f.session.Validate(ctx, "")
	assert.ErrorIs(t, err, ErrInvalidToken)
	_, err = f.session.Validate(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)

	past := time.Now().Add(-48 * time.Hour)
	f.session.JWT.WithClock(func() time.Time { return past })
	stale, err := f.session.Issue(u.ID)
	require.NoError(t, err)
	f.session.JWT.WithClock(time.Now)
	_, err = f.session.Validate(ctx, stale.Token)
	assert.ErrorIs(t, err, ErrExpiredToken)

	sess, err := f.session.Issue(u.ID)
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(ctx, u.ID))
	_, err = f.session.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestSessionValidate_UnverifiedUser(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	_, sess, err := f.auth.Register(ctx, RegisterInput{Email: "a@x.io", Name: "Ann", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.session.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrUnverifiedAccount)
}

func TestSessionValidate_RoleReadEveryTime(t *testing.T) {
	f := newAuthFixture()
	ctx := context.Background()
	u := f.registerVerified("a@x.io", "secret1", entity.RoleUser)
	sess, err := f.session.Issue(u.ID)
	require.NoError(t, err)

	uc, err := f.session.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.ErrorIs(t, f.session.Authorize(uc, entity.RoleAdmin), ErrForbidden)

	_, err = f.auth.SetRole(ctx, "a@x.io", entity.RoleAdmin)
	require.NoError(t, err)

	uc, err = f.session.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.NoError(t, f.session.Authorize(uc, entity.RoleAdmin))
	assert.ErrorIs(t, f.session.Authorize(nil, entity.RoleAdmin), ErrForbidden)
}
