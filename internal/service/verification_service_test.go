package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/auth"
)

// captureSender keeps the last code instead of sending mail.
type captureSender struct {
	to   string
	code int
	err  error
}

func (s *captureSender) SendVerificationCode(_ context.Context, to string, code int, _ int) error {
	if s.err != nil {
		return s.err
	}
	s.to = to
	s.code = code
	return nil
}

func TestVerificationHandshake(t *testing.T) {
	issuer := newTestIssuer(t)
	sender := &captureSender{}
	svc := NewVerificationService(auth.NewCodeStore(10*time.Minute), sender, issuer, 10)

	require.NoError(t, svc.RequestCode(context.Background(), "Ada@Example.com"))
	assert.Equal(t, "ada@example.com", sender.to)
	assert.GreaterOrEqual(t, sender.code, 100000)
	assert.LessOrEqual(t, sender.code, 999999)

	token, err := svc.SubmitCode(context.Background(), "ada@example.com", sender.code)
	require.NoError(t, err)

	claims, err := issuer.Decode(token)
	require.NoError(t, err)
	assert.Equal(t, auth.KindVerify, claims.Kind)
	assert.Equal(t, "ada@example.com", claims.Email)
	assert.Zero(t, claims.UserID)

	// The code was consumed; a second redemption must fail.
	_, err = svc.SubmitCode(context.Background(), "ada@example.com", sender.code)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)
}

func TestSubmitWrongCode(t *testing.T) {
	sender := &captureSender{}
	svc := NewVerificationService(auth.NewCodeStore(10*time.Minute), sender, newTestIssuer(t), 10)

	require.NoError(t, svc.RequestCode(context.Background(), "ada@example.com"))

	wrong := sender.code + 1
	if wrong > 999999 {
		wrong = 100000
	}
	_, err := svc.SubmitCode(context.Background(), "ada@example.com", wrong)
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 401, appErr.Status)

	// The right code still works: a wrong guess does not burn it.
	_, err = svc.SubmitCode(context.Background(), "ada@example.com", sender.code)
	assert.NoError(t, err)
}

func TestRequestCodeDeliveryFailure(t *testing.T) {
	sender := &captureSender{err: errors.New("smtp down")}
	svc := NewVerificationService(auth.NewCodeStore(10*time.Minute), sender, newTestIssuer(t), 10)

	err := svc.RequestCode(context.Background(), "ada@example.com")
	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, 500, appErr.Status)
}

func TestReissueReplacesCode(t *testing.T) {
	sender := &captureSender{}
	svc := NewVerificationService(auth.NewCodeStore(10*time.Minute), sender, newTestIssuer(t), 10)

	require.NoError(t, svc.RequestCode(context.Background(), "ada@example.com"))
	first := sender.code
	require.NoError(t, svc.RequestCode(context.Background(), "ada@example.com"))
	second := sender.code

	if first != second {
		_, err := svc.SubmitCode(context.Background(), "ada@example.com", first)
		assert.Error(t, err, "replaced code must no longer redeem")
	}
	_, err := svc.SubmitCode(context.Background(), "ada@example.com", second)
	assert.NoError(t, err)
}
