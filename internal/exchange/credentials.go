package exchange

import (
	"fmt"
	"log/slog"

	"github.com/tartampluch/go-dateselect/internal/config"
	"github.com/zalando/go-keyring"
)

// Credentials authenticate a vCard URL with HTTP basic auth.
type Credentials struct {
	User string
	Pass string
}

// password returns Pass, falling back to the keyring entry for User.
func (c Credentials) password() string {
	if c.Pass != "" || c.User == "" {
		return c.Pass
	}
	p, err := keyring.Get(config.KeyringService, c.User)
	if err != nil {
		slog.Debug(config.MsgPassFail,
			config.LogKeyUser, c.User,
			config.LogKeyError, err,
			config.LogKeyComponent, config.CompExchange)
		return ""
	}
	return p
}

// StorePassword saves pass for user in the OS keyring so later imports only need the user.
func StorePassword(user, pass string) error {
	if err := keyring.Set(config.KeyringService, user, pass); err != nil {
		return fmt.Errorf("%s: %w", config.ErrKeyringStore, err)
	}
	slog.Info(config.MsgPassStored,
		config.LogKeyUser, user,
		config.LogKeyComponent, config.CompExchange)
	return nil
}
