// Command userlog writes every stored user to stdout as one log line, with
// the sensitive fields masked by the redacting formatter.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/MKhiriev/go-user-auth/internal/config"
	"github.com/MKhiriev/go-user-auth/internal/logger"
	"github.com/MKhiriev/go-user-auth/internal/redact"
	"github.com/MKhiriev/go-user-auth/internal/store"
	"github.com/MKhiriev/go-user-auth/models"
	"github.com/rs/zerolog"
)

const (
	appName    = "USER_AUTH"
	loggerName = "user_data"
)

// credentialFields are masked on top of the configured fields. A session id
// or reset token in clear is enough to take over the account.
var credentialFields = []string{"hashed_password", "session_id", "reset_token"}

func main() {
	log := logger.NewLogger("go-user-auth-userlog")

	cfg, err := config.GetStructuredConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("error getting configs")
	}

	storages, err := store.NewStorages(context.Background(), cfg.Storage, log)
	if err != nil {
		log.Fatal().Err(err).Msg("error creating storages")
	}
	defer storages.Close()

	fields := cfg.Log.RedactFields
	if fields == nil {
		fields = redact.DefaultFields
	}

	if err := dumpUsers(context.Background(), storages.UserRepository, userDataLogger(fields, os.Stdout)); err != nil {
		log.Err(err).Msg("error dumping users")
	}
}

// userDataLogger returns the "user_data" logger. Records below info are
// dropped and nothing propagates to the service logger.
func userDataLogger(fields []string, out io.Writer) zerolog.Logger {
	masked := append(slices.Clone(fields), credentialFields...)
	formatter := redact.NewFormatter(appName, loggerName, masked)
	return zerolog.New(formatter.Writer(out)).
		Level(zerolog.InfoLevel).
		With().
		Timestamp().
		Logger()
}

type userLister interface {
	ListUsers(ctx context.Context) ([]models.User, error)
}

func dumpUsers(ctx context.Context, repo userLister, log zerolog.Logger) error {
	users, err := repo.ListUsers(ctx)
	if err != nil {
		return fmt.Errorf("list users: %w", err)
	}

	for _, u := range users {
		log.Info().Msg(userRecord(u))
	}
	return nil
}

// userRecord renders u as name=value pairs, each closed by the separator.
func userRecord(u models.User) string {
	var b strings.Builder
	pair := func(name, value string) {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(value)
		b.WriteString(redact.DefaultSeparator)
	}

	pair("email", u.Email)
	pair("hashed_password", u.HashedPassword)
	pair("session_id", u.SessionID.String)
	pair("reset_token", u.ResetToken.String)
	pair("created_at", u.CreatedAt.UTC().Format(time.RFC3339))

	return b.String()
}
