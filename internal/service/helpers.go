package service

import (
	"context"
	"errors"
	"fmt"
	"html"
	"sort"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/noah-isme/teamboard-api/internal/models"
	"github.com/noah-isme/teamboard-api/internal/repository"
	"github.com/noah-isme/teamboard-api/internal/scope"
)

var plainText = bluemonday.StrictPolicy()

// cleanText strips markup from free text and trims surrounding whitespace.
func cleanText(value string) string {
	return strings.TrimSpace(html.UnescapeString(plainText.Sanitize(value)))
}

func today(now time.Time) time.Time {
	return models.DateOf(now.UTC())
}

// notFound maps a missing row onto ErrNotFound and leaves other errors untouched.
func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func missingReference(id uint) string {
	return fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", id)
}

func actorOf(r scope.Requester) ActivityActor {
	return ActivityActor{ID: r.ID, Role: r.Role}
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

// passwordCost is lowered by tests.
var passwordCost = bcrypt.DefaultCost

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), passwordCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ensureUniqueAccount rejects a username or email that already belongs to an account.
func ensureUniqueAccount(ctx context.Context, users repository.UserRepository, username, email string) error {
	usernameTaken, emailTaken, err := users.ExistsByUsernameOrEmail(ctx, username, email)
	if err != nil {
		return err
	}
	fields := map[string]string{}
	if usernameTaken {
		fields["username"] = "A user with that username already exists."
	}
	if emailTaken {
		fields["email"] = "A user with that email already exists."
	}
	if len(fields) > 0 {
		return &ValidationError{Fields: fields}
	}
	return nil
}

// record appends an activity entry after a committed write. Failures are logged and do not
// undo the write.
func record(ctx context.Context, recorder ActivityRecorder, logger zerolog.Logger, entry ActivityEntry) {
	if recorder == nil {
		return
	}
	if err := recorder.Record(ctx, entry); err != nil {
		logger.Warn().Err(err).Str("action", entry.Action).Msg("failed to record activity")
	}
}

// changedFields lists the columns of an update map in a stable order for activity details.
func changedFields(updates map[string]interface{}) []string {
	fields := make([]string, 0, len(updates))
	for key := range updates {
		if key == "password_hash" {
			key = "password"
		}
		fields = append(fields, key)
	}
	sort.Strings(fields)
	return fields
}

// requireRole checks that the referenced user exists and holds role, reporting the problem
// against field.
func requireRole(ctx context.Context, users repository.UserRepository, field string, id uint, role models.Role, message string) (models.User, error) {
	user, err := users.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, fieldError(field, missingReference(id))
		}
		return models.User{}, err
	}
	if user.Role != role {
		return models.User{}, fieldError(field, message)
	}
	return user, nil
}
