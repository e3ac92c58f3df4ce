package service

import (
	"testing"

	"github.com/bookcart/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCaptchaDisabledPassesThrough(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{Provider: "none", Scenes: config.CaptchaSceneConfig{Login: true}})
	assert.False(t, svc.Enabled())
	assert.NoError(t, svc.Verify("login", CaptchaVerifyPayload{}))

	_, err := svc.GenerateImageChallenge()
	assert.ErrorIs(t, err, ErrCaptchaConfigInvalid)
}

func TestCaptchaImageScenes(t *testing.T) {
	svc := NewCaptchaService(config.CaptchaConfig{
		Provider: "image",
		Scenes:   config.CaptchaSceneConfig{Login: true},
	})
	require.True(t, svc.Enabled())

	assert.NoError(t, svc.Verify("register", CaptchaVerifyPayload{}))
	assert.ErrorIs(t, svc.Verify("login", CaptchaVerifyPayload{}), ErrCaptchaRequired)

	challenge, err := svc.GenerateImageChallenge()
	require.NoError(t, err)
	assert.NotEmpty(t, challenge.CaptchaID)
	assert.NotEmpty(t, challenge.ImageBase64)

	err = svc.Verify("login", CaptchaVerifyPayload{CaptchaID: challenge.CaptchaID, CaptchaCode: "definitely-wrong"})
	assert.ErrorIs(t, err, ErrCaptchaInvalid)

	setting := svc.PublicSetting()
	assert.Equal(t, "image", setting.Provider)
	assert.True(t, setting.Scenes["login"])
	assert.False(t, setting.Scenes["register"])
}
