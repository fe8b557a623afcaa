package session

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"storefront/internal/log"
	"storefront/internal/otel"
)

// AuthClient is the external auth collaborator. Both calls return the
// authenticated user and the issued bearer token; Register may return an
// empty token when the backend does not auto-log-in.
type AuthClient interface {
	Login(c context.Context, email, password string) (User, string, error)
	Register(c context.Context, username, email, password string) (User, string, error)
}

// Holder owns the current session. It is an explicit dependency, not a
// process-wide singleton, so tests instantiate isolated holders per case.
type Holder struct {
	client  AuthClient
	store   Store
	session Session
}

// NewHolder restores any persisted session. Malformed or expired persisted
// data degrades to anonymous rather than failing startup.
func NewHolder(c context.Context, client AuthClient, store Store) *Holder {
	c, span := otel.Tracer.Start(c, "session NewHolder")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "session NewHolder").
		Str(log.KeyProcess, "restoring session").
		Logger()

	h := &Holder{client: client, store: store}

	logger.Info().Msg("restoring session")
	restored, err := store.Load()
	if err != nil {
		logger.Info().Err(err).Msg("failed restoring session, starting anonymous")
		return h
	}
	if !restored.Authenticated() || restored.User == nil {
		logger.Info().Msg("no usable persisted session, starting anonymous")
		return h
	}
	if err := checkToken(restored.Token, time.Now()); err != nil {
		logger.Info().Err(err).Msg("persisted token is no longer usable, starting anonymous")
		return h
	}
	h.session = restored
	logger.Info().
		Str(log.KeyUserID, restored.User.ID.String()).
		Msg("restored session")
	return h
}

func (h *Holder) Current() Session {
	return h.session
}

func (h *Holder) Login(c context.Context, email, password string) (Session, error) {
	c, span := otel.Tracer.Start(c, "Holder Login")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Holder Login").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "logging in").Logger()
	logger.Info().Msg("logging in")
	user, token, err := h.client.Login(c, email, password)
	if err != nil {
		err = fmt.Errorf("failed logging in with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}
	h.session = Session{User: &user, Token: token}
	logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("logged in")

	logger = logger.With().Str(log.KeyProcess, "persisting session").Logger()
	logger.Info().Msg("persisting session")
	if err := h.store.Save(h.session); err != nil {
		err = fmt.Errorf("failed persisting session with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return h.session, err
	}
	logger.Info().Msg("persisted session")

	return h.session, nil
}

// Register creates an account. When the backend returns a token the session
// is populated and persisted in the same way login does; when it does not,
// the session is left untouched and the caller routes the user to login.
func (h *Holder) Register(c context.Context, username, email, password string) (Session, error) {
	c, span := otel.Tracer.Start(c, "Holder Register")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Holder Register").
		Str(log.KeyEmail, email).
		Logger()

	logger = logger.With().Str(log.KeyProcess, "registering").Logger()
	logger.Info().Msg("registering")
	user, token, err := h.client.Register(c, username, email, password)
	if err != nil {
		err = fmt.Errorf("failed registering with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Session{}, err
	}
	logger.Info().Str(log.KeyUserID, user.ID.String()).Msg("registered")

	if token == "" {
		logger.Info().Msg("registration returned no token, session unchanged")
		return h.session, nil
	}

	h.session = Session{User: &user, Token: token}

	logger = logger.With().Str(log.KeyProcess, "persisting session").Logger()
	logger.Info().Msg("persisting session")
	if err := h.store.Save(h.session); err != nil {
		err = fmt.Errorf("failed persisting session with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return h.session, err
	}
	logger.Info().Msg("persisted session")

	return h.session, nil
}

func (h *Holder) Logout(c context.Context) error {
	c, span := otel.Tracer.Start(c, "Holder Logout")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Holder Logout").
		Str(log.KeyProcess, "logging out").
		Logger()

	h.session = Session{}

	logger.Info().Msg("clearing persisted session")
	if err := h.store.Clear(); err != nil {
		err = fmt.Errorf("failed clearing persisted session with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return err
	}
	logger.Info().Msg("cleared persisted session")

	return nil
}

// Token lets the backend client read the current credential without holding
// a reference to the whole holder API.
func (h *Holder) Token() string {
	return h.session.Token
}
