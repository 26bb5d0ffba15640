package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"golang.org/x/crypto/bcrypt"

	"github.com/mkorolev87/simple-auth/internal/logger"
	"github.com/mkorolev87/simple-auth/internal/models"
)

// Error variables
var (
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// minPasswordLength is the host password strength policy.
const minPasswordLength = 8

// ValidationError enumerates which registration fields are invalid.
// No record is persisted when it is returned.
type ValidationError struct {
	Fields map[string][]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for field := range e.Fields {
		names = append(names, field)
	}
	sort.Strings(names)
	return fmt.Sprintf("invalid fields: %s", strings.Join(names, ", "))
}

func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(map[string][]string)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// UserReader defines read-only operations for users.
type UserReader interface {
	GetByEmail(ctx context.Context, email string) (*models.UserDB, error)
	ExistsByUsernameOrEmail(ctx context.Context, username, email string) (bool, error)
}

// UserWriter defines write operations for users.
type UserWriter interface {
	Save(ctx context.Context, user *models.UserDB) error
}

// SessionEstablisher creates a session for an authenticated user.
type SessionEstablisher interface {
	Establish(ctx context.Context, user *models.UserDB, remember bool) (*models.Session, error)
}

// KafkaWriter defines a Kafka writer abstraction.
type KafkaWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error // Writes messages to Kafka
	Close() error                                                   // Closes the Kafka writer
}

// RegisterInput is the candidate tuple submitted for registration.
type RegisterInput struct {
	Email           string
	Username        string
	Password        string
	PasswordConfirm string
	FirstName       string
	LastName        string
}

// AuthService handles registration, login and logout.
type AuthService struct {
	reader      UserReader
	writer      UserWriter
	sessions    SessionEstablisher
	kafkaWriter KafkaWriter
}

// NewAuthService creates a new AuthService instance. kafkaWriter may be
// nil, in which case no events are published.
func NewAuthService(reader UserReader, writer UserWriter, sessions SessionEstablisher, kafkaWriter KafkaWriter) *AuthService {
	return &AuthService{
		reader:      reader,
		writer:      writer,
		sessions:    sessions,
		kafkaWriter: kafkaWriter,
	}
}

// validateRegistration checks the candidate tuple against the field
// rules. It is pure: no lookups, no side effects.
func validateRegistration(in RegisterInput) *ValidationError {
	ve := &ValidationError{}

	if in.Email == "" {
		ve.add("email", "email is required")
	} else if _, err := mail.ParseAddress(in.Email); err != nil {
		ve.add("email", "email is not well-formed")
	}

	if in.Username == "" {
		ve.add("username", "username is required")
	}

	if in.Password == "" {
		ve.add("password", "password is required")
	} else if len(in.Password) < minPasswordLength {
		ve.add("password", fmt.Sprintf("password must be at least %d characters", minPasswordLength))
	}

	if in.Password != in.PasswordConfirm {
		ve.add("password_confirm", "passwords do not match")
	}

	if len(ve.Fields) == 0 {
		return nil
	}
	return ve
}

// Register validates the candidate tuple and persists a new user record.
// Persistence is all-or-nothing: a single insert whose uniqueness race
// is arbitrated by the store's constraints.
func (svc *AuthService) Register(ctx context.Context, in RegisterInput) (*models.UserDB, error) {
	if ve := validateRegistration(in); ve != nil {
		logger.Log.Errorw("registration validation failed", "err", ve)
		return nil, ve
	}

	exists, err := svc.reader.ExistsByUsernameOrEmail(ctx, in.Username, in.Email)
	if err != nil {
		logger.Log.Errorw("failed to check user exists", "err", err)
		return nil, err
	}
	if exists {
		logger.Log.Errorw("user already exists", "username", in.Username, "email", in.Email)
		return nil, ErrUserAlreadyExists
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.Errorw("failed to hash password", "err", err)
		return nil, err
	}

	user := &models.UserDB{
		UserID:       uuid.New(),
		Email:        in.Email,
		Username:     in.Username,
		PasswordHash: string(hashedPassword),
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		IsActive:     true,
	}

	if err := svc.writer.Save(ctx, user); err != nil {
		logger.Log.Errorw("failed to save user", "err", err)
		return nil, err
	}

	publishAuthEvent(ctx, svc.kafkaWriter, models.EventUserRegistered, user)

	return user, nil
}

// Login authenticates a user by email and establishes a session.
// Input is not form-validated first: a malformed email simply fails the
// credential lookup with the same generic failure.
func (svc *AuthService) Login(ctx context.Context, email, password string, remember bool) (*models.Session, error) {
	user, err := svc.reader.GetByEmail(ctx, email)
	if err != nil {
		logger.Log.Errorw("failed to get user", "err", err)
		return nil, err
	}
	if user == nil || !user.IsActive {
		logger.Log.Errorw("invalid credentials", "email", email)
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		logger.Log.Errorw("invalid credentials", "email", email)
		return nil, ErrInvalidCredentials
	}

	session, err := svc.sessions.Establish(ctx, user, remember)
	if err != nil {
		logger.Log.Errorw("failed to establish session", "err", err)
		return nil, err
	}

	return session, nil
}

// publishAuthEvent publishes an auth event to Kafka, best-effort.
func publishAuthEvent(ctx context.Context, w KafkaWriter, eventType string, user *models.UserDB) {
	if w == nil {
		logger.Log.Warnw("Kafka writer not configured, skipping publishing", "event", eventType)
		return
	}

	event := models.AuthEvent{
		EventID:   uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().Unix(),
		UserID:    user.UserID.String(),
		Username:  user.Username,
		Email:     user.Email,
	}

	data, err := json.Marshal(event)
	if err != nil {
		logger.Log.Errorw("failed to marshal auth event", "event", eventType, "error", err)
		return
	}

	msg := kafka.Message{
		Key:   []byte(event.EventID),
		Value: data,
	}

	if err := w.WriteMessages(ctx, msg); err != nil {
		logger.Log.Errorw("failed to publish auth event", "event", eventType, "error", err)
	} else {
		logger.Log.Infow("auth event published", "event", eventType, "username", user.Username)
	}
}
