package service

import (
	"context"
	"errors"
	"log/slog"

	"debarment_service/internal/apperr"
	"debarment_service/internal/auth"
	"debarment_service/internal/models"
	"debarment_service/internal/storage"
)

// Caller-facing messages, kept identical to what clients of the original
// functions already parse.
const (
	MsgUserCreated     = "Usuario creado exitosamente"
	MsgUserExists      = "El usuario ya existe"
	MsgInternalError   = "Error interno"
	MsgBadCredentials  = "Credenciales inválidas"
	MsgLoginError      = "Error en login"
	MsgTokenRequired   = "Token requerido"
	MsgTokenValid      = "Token válido"
	MsgTokenExpired    = "Token expirado"
	MsgTokenInvalid    = "Token inválido"
	MsgMissingFields   = "Faltan campos obligatorios: tenant_id, username, password"
	MsgPasswordTooLong = "La contraseña no puede superar 72 bytes"
)

type Credentials struct {
	storage storage.Storage
	tokens  *auth.TokenManager
	log     *slog.Logger
}

func NewCredentials(st storage.Storage, tokens *auth.TokenManager, lgr *slog.Logger) *Credentials {
	return &Credentials{
		storage: st,
		tokens:  tokens,
		log:     lgr,
	}
}

func (s *Credentials) Register(ctx context.Context, creds models.Credentials) error {
	const op = "service.Register"

	log := s.log.With(slog.String("op", op), slog.String("tenant_id", creds.TenantID), slog.String("username", creds.Username))

	if !complete(creds) {
		return apperr.New(apperr.BadRequest, MsgMissingFields, nil)
	}

	passwordHash, err := auth.HashPassword(creds.Password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return apperr.New(apperr.BadRequest, MsgPasswordTooLong, err)
		}
		log.Error("failed to hash password", slog.Any("error", err))
		return apperr.New(apperr.Internal, MsgInternalError, err)
	}

	err = s.storage.CreateUser(ctx, models.User{
		TenantID:     creds.TenantID,
		Username:     creds.Username,
		PasswordHash: passwordHash,
	})
	if err != nil {
		if errors.Is(err, storage.ErrUserExists) {
			log.Info("user already exists")
			return apperr.New(apperr.Conflict, MsgUserExists, err)
		}
		log.Error("failed to create user", slog.Any("error", err))
		return apperr.New(apperr.Internal, MsgInternalError, err)
	}

	log.Info("user created")

	return nil
}

// Login answers unknown users and wrong passwords the same way, with the
// same bcrypt cost.
func (s *Credentials) Login(ctx context.Context, creds models.Credentials) (string, error) {
	const op = "service.Login"

	log := s.log.With(slog.String("op", op), slog.String("tenant_id", creds.TenantID), slog.String("username", creds.Username))

	if !complete(creds) {
		return "", apperr.New(apperr.BadRequest, MsgMissingFields, nil)
	}

	user, err := s.storage.GetUser(ctx, creds.TenantID, creds.Username)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			auth.CheckDummyHash(creds.Password)
			log.Info("login rejected")
			return "", apperr.New(apperr.Unauthorized, MsgBadCredentials, err)
		}
		log.Error("failed to get user", slog.Any("error", err))
		return "", apperr.New(apperr.Internal, MsgLoginError, err)
	}

	if ok := auth.CheckPasswordHash(user.PasswordHash, creds.Password); !ok {
		log.Info("login rejected")
		return "", apperr.New(apperr.Unauthorized, MsgBadCredentials, nil)
	}

	token, err := s.tokens.GenerateJWT(user.TenantID, user.Username)
	if err != nil {
		log.Error("failed to sign token", slog.Any("error", err))
		return "", apperr.New(apperr.Internal, MsgLoginError, err)
	}

	return token, nil
}

func (s *Credentials) ValidateToken(token string) (*auth.Claims, error) {
	claims, err := s.tokens.ParseJWT(token)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrTokenMissing):
			return nil, apperr.New(apperr.Unauthorized, MsgTokenRequired, err)
		case errors.Is(err, auth.ErrTokenExpired):
			return nil, apperr.New(apperr.Unauthorized, MsgTokenExpired, err)
		default:
			return nil, apperr.New(apperr.Unauthorized, MsgTokenInvalid, err)
		}
	}

	return claims, nil
}

func complete(c models.Credentials) bool {
	return c.TenantID != "" && c.Username != "" && c.Password != ""
}
