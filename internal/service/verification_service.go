package service

import (
	"context"
	"strings"

	"github.com/volunteerhub/volunteer-platform/internal/apperr"
	"github.com/volunteerhub/volunteer-platform/internal/auth"
	"github.com/volunteerhub/volunteer-platform/internal/email"
)

// VerificationService runs the email ownership handshake: a 6-digit code is
// issued and delivered out of band, and redeeming it yields a short-lived
// verification token. It needs no database; codes live in process memory.
type VerificationService struct {
	codes   *auth.CodeStore
	sender  email.Sender
	issuer  *auth.Issuer
	codeTTL int // minutes, quoted in the email
}

func NewVerificationService(codes *auth.CodeStore, sender email.Sender, issuer *auth.Issuer, codeTTLMinutes int) *VerificationService {
	return &VerificationService{codes: codes, sender: sender, issuer: issuer, codeTTL: codeTTLMinutes}
}

// RequestCode issues a fresh code for the address and emails it. A code is
// issued even for addresses that already belong to registered accounts: the
// same handshake guards both registration and login, and refusing here would
// leak which addresses are registered. A delivery failure is a server error;
// the stored code is left in place and simply expires.
func (s *VerificationService) RequestCode(ctx context.Context, address string) error {
	address = strings.ToLower(strings.TrimSpace(address))
	code, err := s.codes.Issue(address)
	if err != nil {
		return apperr.Internal("could not generate verification code")
	}
	if err := s.sender.SendVerificationCode(ctx, address, code, s.codeTTL); err != nil {
		return apperr.Internal("could not send verification code")
	}
	return nil
}

// SubmitCode redeems a code and, on success, returns a verification token
// binding the proven address. Wrong, expired and already-used codes are
// indistinguishable to the caller.
func (s *VerificationService) SubmitCode(ctx context.Context, address string, code int) (string, error) {
	address = strings.ToLower(strings.TrimSpace(address))
	if !s.codes.Redeem(address, code) {
		return "", apperr.Unauthorized("invalid or expired code")
	}
	token, err := s.issuer.Create(auth.Claims{Email: address}, auth.KindVerify)
	if err != nil {
		return "", apperr.Internal("could not issue verification token")
	}
	return token, nil
}
