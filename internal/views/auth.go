package views

import (
	"context"                       // Request cancellation
	"errors"                        // Error inspection
	"mobil_market/internal/client"  // REST client
	"mobil_market/internal/session" // Session state
	"strings"                       // String manipulation

	"github.com/sirupsen/logrus" // Structured logging
)

// Messages shown on the auth screen
const (
	MsgFillAllFields  = "Lütfen tüm alanları doldurun."
	MsgLoginFailed    = "Giriş başarısız. Bilgilerinizi kontrol edin."
	MsgUsernameTaken  = "Bu kullanıcı adı zaten alınmış olabilir."
	MsgSystemError    = "Sistem hatası. Lütfen daha sonra tekrar deneyin."
	MsgRegisterFailed = "Kayıt başarısız."
)

// AuthMode selects login or registration
type AuthMode int

const (
	ModeLogin AuthMode = iota
	ModeRegister
)

// Auth is the login/register form
type Auth struct {
	sess *session.Session

	Mode     AuthMode
	Username string
	Password string
	Error    string
	Loading  bool
}

func NewAuth(sess *session.Session) *Auth {
	return &Auth{sess: sess}
}

// SetMode switches between login and register and clears the error
func (a *Auth) SetMode(m AuthMode) {
	a.Mode = m
	a.Error = ""
}

// Submit validates the form and logs in or registers.
// On failure Error holds the message to show.
func (a *Auth) Submit(ctx context.Context) error {
	username := strings.TrimSpace(a.Username)
	if username == "" || a.Password == "" {
		a.Error = MsgFillAllFields
		return errors.New(MsgFillAllFields)
	}
	a.Error = ""
	a.Loading = true
	defer func() { a.Loading = false }()

	var err error
	if a.Mode == ModeLogin {
		err = a.sess.Login(ctx, username, a.Password)
	} else {
		err = a.sess.Register(ctx, username, a.Password)
	}
	if err != nil {
		a.Error = a.message(err)
		logrus.WithFields(logrus.Fields{"username": username, "register": a.Mode == ModeRegister}).WithError(err).Warn("Authentication failed")
		return err
	}
	a.Password = ""
	return nil
}

func (a *Auth) message(err error) string {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrInvalidCredentials):
		return MsgLoginFailed
	case errors.Is(err, client.ErrUsernameTaken):
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgUsernameTaken
	case a.Mode == ModeRegister && errors.As(err, &apiErr):
		if apiErr.Message != "" {
			return apiErr.Message
		}
		return MsgRegisterFailed
	case a.Mode == ModeLogin && errors.As(err, &apiErr) && apiErr.StatusCode < 500:
		return MsgLoginFailed
	default:
		return MsgSystemError
	}
}
