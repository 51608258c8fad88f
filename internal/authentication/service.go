package authentication

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mehmetcc/user-auth-service/internal/lock"
	"github.com/mehmetcc/user-auth-service/internal/user"
	"github.com/mehmetcc/user-auth-service/internal/utils"
)

type AuthenticationService interface {
	Register(ctx context.Context, email, name, password string) (*user.User, TokenPair, error)
	Login(ctx context.Context, email, password string) (TokenPair, error)
	Issue(ctx context.Context, u *user.User) (TokenPair, error)
	Refresh(ctx context.Context, rawRefreshToken string) (TokenPair, error)
	Logout(ctx context.Context, email string) error
}

// TokenSettings holds the lifetimes of the two token kinds.
type TokenSettings struct {
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

type authenticationService struct {
	users    user.Service
	records  RecordRepository
	signer   utils.Signer
	hasher   utils.Hasher
	locker   lock.Locker
	logger   *zap.Logger
	settings TokenSettings
	now      func() time.Time
}

func NewAuthenticationService(
	users user.Service,
	records RecordRepository,
	signer utils.Signer,
	hasher utils.Hasher,
	locker lock.Locker,
	logger *zap.Logger,
	settings TokenSettings,
) AuthenticationService {
	return &authenticationService{
		users:    users,
		records:  records,
		signer:   signer,
		hasher:   hasher,
		locker:   locker,
		logger:   logger,
		settings: settings,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func (a *authenticationService) Register(ctx context.Context, email, name, password string) (*user.User, TokenPair, error) {
	u, err := a.users.Create(ctx, email, name, password)
	if err != nil {
		return nil, TokenPair{}, err
	}
	pair, err := a.Issue(ctx, u)
	if err != nil {
		return nil, TokenPair{}, err
	}
	return u, pair, nil
}

func (a *authenticationService) Login(ctx context.Context, email, password string) (TokenPair, error) {
	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, err
	}
	if err := a.hasher.Compare(u.Password, password); err != nil {
		if !errors.Is(err, utils.ErrHashMismatch) {
			a.logger.Error("password comparison failed", zap.String("user_id", u.ID), zap.Error(err))
		}
		return TokenPair{}, ErrInvalidCredentials
	}
	if !u.IsActive {
		a.logger.Info("login refused for inactive user", zap.String("user_id", u.ID))
		return TokenPair{}, ErrInvalidCredentials
	}
	return a.Issue(ctx, u)
}

// Issue signs a fresh pair, supersedes the user's active refresh record and
// persists the hash of the new refresh token.
func (a *authenticationService) Issue(ctx context.Context, u *user.User) (TokenPair, error) {
	unlock, err := a.locker.Lock(ctx, u.ID)
	if err != nil {
		a.logger.Error("failed to lock user for issuance", zap.String("user_id", u.ID), zap.Error(err))
		return TokenPair{}, fmt.Errorf("%w: %w", ErrIssueFailed, err)
	}
	defer unlock()
	return a.issueLocked(ctx, u)
}

func (a *authenticationService) issueLocked(ctx context.Context, u *user.User) (TokenPair, error) {
	pair, record, err := a.signPair(u)
	if err != nil {
		return TokenPair{}, err
	}
	revoked, err := a.records.Replace(ctx, record, a.now())
	if err != nil {
		a.logger.Error("failed to persist refresh token record", zap.String("user_id", u.ID), zap.Error(err))
		return TokenPair{}, fmt.Errorf("%w: %w", ErrIssueFailed, err)
	}

	a.logger.Debug("issued token pair",
		zap.String("user_id", u.ID),
		zap.String("record_id", record.ID),
		zap.Int64("superseded", revoked),
	)
	return pair, nil
}

// signPair signs both tokens and builds the unsaved record for the refresh one.
func (a *authenticationService) signPair(u *user.User) (TokenPair, *RefreshTokenRecord, error) {
	payload := utils.Claims{
		Name:  u.Name,
		Email: u.Email,
		Role:  string(u.Role),
	}
	payload.Subject = u.ID

	var pair TokenPair
	var g errgroup.Group
	g.Go(func() error {
		claims := payload
		claims.Type = utils.AccessToken
		token, err := a.signer.Sign(claims, a.settings.AccessTTL)
		pair.AccessToken = token
		return err
	})
	g.Go(func() error {
		claims := payload
		claims.Type = utils.RefreshToken
		token, err := a.signer.Sign(claims, a.settings.RefreshTTL)
		pair.RefreshToken = token
		return err
	})
	if err := g.Wait(); err != nil {
		a.logger.Error("failed to sign tokens", zap.String("user_id", u.ID), zap.Error(err))
		return TokenPair{}, nil, fmt.Errorf("%w: %w", ErrIssueFailed, err)
	}

	tokenHash, err := a.hasher.Hash(pair.RefreshToken)
	if err != nil {
		a.logger.Error("failed to hash refresh token", zap.String("user_id", u.ID), zap.Error(err))
		return TokenPair{}, nil, fmt.Errorf("%w: %w", ErrIssueFailed, err)
	}

	record := &RefreshTokenRecord{
		UserID:    u.ID,
		TokenHash: tokenHash,
		ExpiresAt: a.now().Add(a.settings.RefreshTTL),
	}
	return pair, record, nil
}

// Refresh validates and consumes a refresh token, then issues the next pair.
// Every failure is a *RefreshFailure matching ErrInvalidRefreshToken.
func (a *authenticationService) Refresh(ctx context.Context, rawRefreshToken string) (TokenPair, error) {
	pair, err := a.refresh(ctx, rawRefreshToken)
	if err != nil {
		a.logger.Warn("refresh refused", zap.String("reason", string(ReasonOf(err))), zap.Error(err))
		return TokenPair{}, err
	}
	return pair, nil
}

func (a *authenticationService) refresh(ctx context.Context, raw string) (TokenPair, error) {
	claims, err := a.signer.Verify(raw)
	if err != nil {
		return TokenPair{}, refreshFailure(ReasonSignatureInvalid, err)
	}
	if claims.Type != utils.RefreshToken {
		return TokenPair{}, refreshFailure(ReasonTypeMismatch, fmt.Errorf("got %q token", claims.Type))
	}

	u, err := a.users.FindByEmail(ctx, claims.Email)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return TokenPair{}, refreshFailure(ReasonUserNotFound, nil)
		}
		return TokenPair{}, refreshFailure(ReasonInternal, err)
	}
	if !u.IsActive {
		return TokenPair{}, refreshFailure(ReasonUserInactive, nil)
	}

	unlock, err := a.locker.Lock(ctx, u.ID)
	if err != nil {
		return TokenPair{}, refreshFailure(ReasonInternal, err)
	}
	defer unlock()

	record, err := a.records.FindActiveByUser(ctx, u.ID, a.now())
	if err != nil {
		if errors.Is(err, ErrRecordNotFound) {
			return TokenPair{}, refreshFailure(ReasonTokenNotFound, nil)
		}
		return TokenPair{}, refreshFailure(ReasonInternal, err)
	}

	if err := a.hasher.Compare(record.TokenHash, raw); err != nil {
		if errors.Is(err, utils.ErrHashMismatch) {
			return TokenPair{}, refreshFailure(ReasonHashMismatch, nil)
		}
		return TokenPair{}, refreshFailure(ReasonInternal, err)
	}

	pair, next, err := a.signPair(u)
	if err != nil {
		return TokenPair{}, refreshFailure(ReasonInternal, err)
	}
	// consuming the old record and storing the new one commit together
	if err := a.records.Rotate(ctx, record.ID, next, a.now()); err != nil {
		if errors.Is(err, ErrRecordAlreadyRevoked) {
			return TokenPair{}, refreshFailure(ReasonAlreadyConsumed, nil)
		}
		return TokenPair{}, refreshFailure(ReasonInternal, err)
	}
	return pair, nil
}

// Logout revokes every active refresh record of the user. It is idempotent.
func (a *authenticationService) Logout(ctx context.Context, email string) error {
	u, err := a.users.FindByEmail(ctx, email)
	if err != nil {
		return err
	}

	unlock, err := a.locker.Lock(ctx, u.ID)
	if err != nil {
		return err
	}
	defer unlock()

	revoked, err := a.records.RevokeAllForUser(ctx, u.ID, a.now())
	if err != nil {
		a.logger.Error("failed to revoke refresh tokens on logout", zap.String("user_id", u.ID), zap.Error(err))
		return err
	}
	a.logger.Info("user logged out", zap.String("user_id", u.ID), zap.Int64("revoked", revoked))
	return nil
}
