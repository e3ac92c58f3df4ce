package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bookcart/internal/cache"
	"github.com/bookcart/internal/models"
	"github.com/bookcart/internal/repository"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.auth.Register(ctx, nil, "Reader@Example.com", "password1")
	require.NoError(t, err)

	_, err = env.auth.Register(ctx, nil, "reader@example.com", "password2")
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.EqualValues(t, 1, env.countRows(t, &models.User{}))
}

func TestRegisterValidatesInput(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	_, err := env.auth.Register(ctx, nil, "not-an-email", "password1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = env.auth.Register(ctx, nil, "guest+x@guest.invalid", "password1")
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = env.auth.Register(ctx, nil, "reader@example.com", "short1")
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = env.auth.Register(ctx, nil, "reader@example.com", "nodigitshere")
	assert.ErrorIs(t, err, ErrWeakPassword)
	var policyErr passwordPolicyError
	require.True(t, errors.As(err, &policyErr))
	assert.Equal(t, "error.password_require_number", policyErr.Key())
}

func TestLoginCredentials(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	env.register(t, "reader@example.com")

	_, err := env.auth.Login(ctx, nil, "reader@example.com", "wrong-password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.auth.Login(ctx, nil, "nobody@example.com", "password1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	result, err := env.auth.Login(ctx, nil, " READER@example.com ", "password1")
	require.NoError(t, err)
	sess := env.parse(t, result.Session.Token)
	assert.Equal(t, result.User.ID, sess.UserID)
	assert.True(t, sess.IsMember())
	assert.NotNil(t, result.User.LastLoginAt)
}

func TestLoginDisabledUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	sess := env.register(t, "reader@example.com")
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", sess.UserID).Update("status", models.UserStatusDisabled).Error)

	_, err := env.auth.Login(ctx, nil, "reader@example.com", "password1")
	assert.ErrorIs(t, err, ErrUserDisabled)
}

func TestLogoutInvalidatesSessionWithoutRedis(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	result, err := env.auth.Register(ctx, nil, "reader@example.com", "password1")
	require.NoError(t, err)
	sess := env.parse(t, result.Session.Token)

	require.NoError(t, env.auth.Logout(ctx, sess))
	require.NoError(t, env.auth.Logout(ctx, sess))

	_, err = env.sessions.Parse(ctx, result.Session.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)
	assert.True(t, IsSessionError(err))
}

func TestParseSessionRejectsTamperedToken(t *testing.T) {
	env := newTestEnv(t)
	result, err := env.auth.Register(t.Context(), nil, "reader@example.com", "password1")
	require.NoError(t, err)

	_, err = env.sessions.Parse(t.Context(), result.Session.Token+"x")
	assert.ErrorIs(t, err, ErrSessionInvalid)

	_, err = env.sessions.Parse(t.Context(), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestRegisterPromotesGuestAndKeepsCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	book := env.addBook(t, "BookA", "9.99")

	guestResult, err := env.auth.StartGuestSession(ctx)
	require.NoError(t, err)
	guest := env.parse(t, guestResult.Session.Token)
	require.True(t, guest.Guest)
	_, err = env.cart.AddToCart(ctx, guest, book.ID, 2)
	require.NoError(t, err)

	result, err := env.auth.Register(ctx, guest, "reader@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, guest.UserID, result.User.ID)

	// 旧访客令牌随账号版本提升而失效
	_, err = env.sessions.Parse(ctx, guestResult.Session.Token)
	assert.ErrorIs(t, err, ErrSessionRevoked)

	member := env.parse(t, result.Session.Token)
	view, err := env.cart.ViewCart(ctx, member)
	require.NoError(t, err)
	require.Len(t, view.Lines, 1)
	assert.Equal(t, 2, view.Lines[0].Quantity)
}

func TestLoginMergesGuestCart(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	bookA := env.addBook(t, "BookA", "9.99")
	bookB := env.addBook(t, "BookB", "14.50")

	member := env.register(t, "reader@example.com")
	_, err := env.cart.AddToCart(ctx, member, bookA.ID, 1)
	require.NoError(t, err)

	guestResult, err := env.auth.StartGuestSession(ctx)
	require.NoError(t, err)
	guest := env.parse(t, guestResult.Session.Token)
	_, err = env.cart.AddToCart(ctx, guest, bookA.ID, 2)
	require.NoError(t, err)
	_, err = env.cart.AddToCart(ctx, guest, bookB.ID, 1)
	require.NoError(t, err)

	result, err := env.auth.Login(ctx, guest, "reader@example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, member.UserID, result.User.ID)

	view, err := env.cart.ViewCart(ctx, env.parse(t, result.Session.Token))
	require.NoError(t, err)
	require.Len(t, view.Lines, 2)
	assert.Equal(t, 3, view.Lines[0].Quantity)
	assert.Equal(t, 1, view.Lines[1].Quantity)
	assert.Equal(t, "44.47", view.Total.String())

	deleted, err := env.users.GetByID(ctx, guest.UserID)
	require.NoError(t, err)
	assert.Nil(t, deleted)
}

func TestEnsureAccountIsIdempotent(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()

	user, created, err := env.auth.EnsureAccount(ctx, "admin@example.com", "admin-pass1")
	require.NoError(t, err)
	assert.True(t, created)

	again, created, err := env.auth.EnsureAccount(ctx, "ADMIN@example.com", "other-pass2")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, user.ID, again.ID)

	_, err = env.auth.Login(ctx, nil, "admin@example.com", "admin-pass1")
	assert.NoError(t, err)
}

func TestPurgeExpiredGuests(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	book := env.addBook(t, "BookA", "9.99")

	stale, err := env.auth.StartGuestSession(ctx)
	require.NoError(t, err)
	staleSess := env.parse(t, stale.Session.Token)
	_, err = env.cart.AddToCart(ctx, staleSess, book.ID, 1)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", stale.User.ID).
		Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	fresh, err := env.auth.StartGuestSession(ctx)
	require.NoError(t, err)
	member := env.register(t, "reader@example.com")
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", member.UserID).
		Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	purged, err := env.auth.PurgeExpiredGuests(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 1, purged)

	gone, err := env.users.GetByID(ctx, stale.User.ID)
	require.NoError(t, err)
	assert.Nil(t, gone)
	assert.EqualValues(t, 0, env.countRows(t, &models.CartEntry{}))

	kept, err := env.users.GetByID(ctx, fresh.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
	kept, err = env.users.GetByID(ctx, member.UserID)
	require.NoError(t, err)
	assert.NotNil(t, kept)
}

// registeringUserRepository 在列出过期访客后立即触发注册，模拟并发转正
type registeringUserRepository struct {
	repository.UserRepository
	afterList func()
}

func (r *registeringUserRepository) ListGuestIDsBefore(ctx context.Context, cutoff time.Time, limit int) ([]uint, error) {
	ids, err := r.UserRepository.ListGuestIDsBefore(ctx, cutoff, limit)
	if r.afterList != nil {
		r.afterList()
		r.afterList = nil
	}
	return ids, err
}

func TestPurgeExpiredGuestsKeepsConcurrentlyRegisteredAccount(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	book := env.addBook(t, "BookA", "9.99")

	guestResult, err := env.auth.StartGuestSession(ctx)
	require.NoError(t, err)
	guest := env.parse(t, guestResult.Session.Token)
	_, err = env.cart.AddToCart(ctx, guest, book.ID, 2)
	require.NoError(t, err)
	require.NoError(t, env.db.Model(&models.User{}).Where("id = ?", guest.UserID).
		Update("created_at", time.Now().Add(-48*time.Hour)).Error)

	repo := &registeringUserRepository{UserRepository: env.users}
	repo.afterList = func() {
		_, err := env.auth.Register(ctx, guest, "late@example.com", "password1")
		require.NoError(t, err)
	}
	purger := NewUserAuthService(env.cfg, repo, env.carts, env.sessions)

	purged, err := purger.PurgeExpiredGuests(ctx, time.Now())
	require.NoError(t, err)
	assert.Equal(t, 0, purged)

	member, err := env.users.GetByID(ctx, guest.UserID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, models.UserStatusActive, member.Status)
	assert.EqualValues(t, 1, env.countRows(t, &models.CartEntry{}))
}

func TestParseSessionFailsClosedWhenRevocationListUnavailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := t.Context()
	result, err := env.auth.Register(ctx, nil, "reader@example.com", "password1")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	cache.Use(client, "bc-test")
	t.Cleanup(func() {
		_ = client.Close()
		cache.Use(nil, "")
	})

	_, err = env.sessions.Parse(ctx, result.Session.Token)
	assert.ErrorIs(t, err, ErrStorageFailure)
	assert.False(t, IsSessionError(err))
}
