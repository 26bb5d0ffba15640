package services_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mkorolev87/simple-auth/internal/facades"
	"github.com/mkorolev87/simple-auth/internal/models"
	"github.com/mkorolev87/simple-auth/internal/services"
	"github.com/mkorolev87/simple-auth/internal/tokens"
)

func newResetService(ctrl *gomock.Controller) (
	*services.PasswordResetService,
	*services.MockUserFilterer,
	*services.MockResetTokenMaker,
	*services.MockEmailRenderer,
	*services.MockMailer,
	*services.MockKafkaWriter,
) {
	mockUsers := services.NewMockUserFilterer(ctrl)
	mockTokens := services.NewMockResetTokenMaker(ctrl)
	mockRenderer := services.NewMockEmailRenderer(ctrl)
	mockMailer := services.NewMockMailer(ctrl)
	mockKafka := services.NewMockKafkaWriter(ctrl)

	site := services.SiteConfig{
		FromAddress: "noreply@example.com",
		SiteName:    "SimpleAuthentication",
		Domain:      "auth.example.com",
		Protocol:    "http",
	}

	svc := services.NewPasswordResetService(mockUsers, mockTokens, mockRenderer, mockMailer, mockKafka, site)
	return svc, mockUsers, mockTokens, mockRenderer, mockMailer, mockKafka
}

func TestPasswordResetService_RequestReset_FormInvalid(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No lookup, no dispatch: the flow stays in its initial state.
	svc, _, _, _, _, _ := newResetService(ctrl)

	for _, email := range []string{"", "not-an-email", "missing@domain@twice"} {
		err := svc.RequestReset(context.Background(), email)
		assert.ErrorIs(t, err, services.ErrFormInvalid, "email %q", email)
	}
}

func TestPasswordResetService_RequestReset_NoSuchUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _, _, _ := newResetService(ctrl)

	mockUsers.EXPECT().
		FilterByEmail(gomock.Any(), "nobody@example.com").
		Return(nil, nil)

	err := svc.RequestReset(context.Background(), "nobody@example.com")
	assert.ErrorIs(t, err, services.ErrNoSuchUser)
}

func TestPasswordResetService_RequestReset_Success(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockTokens, mockRenderer, mockMailer, mockKafka := newResetService(ctrl)

	user := models.UserDB{
		UserID:   uuid.New(),
		Email:    "alice@example.com",
		Username: "alice",
		IsActive: true,
	}

	mockUsers.EXPECT().
		FilterByEmail(gomock.Any(), user.Email).
		Return([]models.UserDB{user}, nil)

	mockTokens.EXPECT().
		Make(gomock.Any()).
		Return("abc-def123")

	mockRenderer.EXPECT().
		RenderResetEmail(facades.ResetEmailData{
			Email:    user.Email,
			Domain:   "auth.example.com",
			SiteName: "SimpleAuthentication",
			UID:      tokens.EncodeUID(user.UserID),
			Token:    "abc-def123",
			Protocol: "http",
		}).
		Return("rendered body", nil)

	// Exactly one dispatch
	mockMailer.EXPECT().
		Send(gomock.Any(), "Password Reset Requested", "rendered body", "noreply@example.com", []string{user.Email}).
		Return(nil).
		Times(1)

	mockKafka.EXPECT().
		WriteMessages(gomock.Any(), gomock.Any()).
		Return(nil)

	err := svc.RequestReset(context.Background(), user.Email)
	assert.NoError(t, err)
}

func TestPasswordResetService_RequestReset_FirstMatchWins(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockTokens, mockRenderer, mockMailer, mockKafka := newResetService(ctrl)

	first := models.UserDB{UserID: uuid.New(), Email: "shared@example.com", Username: "first"}
	second := models.UserDB{UserID: uuid.New(), Email: "shared@example.com", Username: "second"}

	mockUsers.EXPECT().
		FilterByEmail(gomock.Any(), "shared@example.com").
		Return([]models.UserDB{first, second}, nil)

	mockTokens.EXPECT().Make(gomock.Any()).Return("tok").Times(1)
	mockRenderer.EXPECT().RenderResetEmail(gomock.Any()).Return("body", nil).Times(1)
	mockMailer.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), []string{"shared@example.com"}).
		Return(nil).
		Times(1)
	mockKafka.EXPECT().WriteMessages(gomock.Any(), gomock.Any()).Return(nil).Times(1)

	err := svc.RequestReset(context.Background(), "shared@example.com")
	assert.NoError(t, err)
}

func TestPasswordResetService_RequestReset_BadHeader(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockTokens, mockRenderer, mockMailer, _ := newResetService(ctrl)

	user := models.UserDB{UserID: uuid.New(), Email: "alice@example.com"}

	mockUsers.EXPECT().
		FilterByEmail(gomock.Any(), user.Email).
		Return([]models.UserDB{user}, nil)
	mockTokens.EXPECT().Make(gomock.Any()).Return("tok")
	mockRenderer.EXPECT().RenderResetEmail(gomock.Any()).Return("body", nil)
	mockMailer.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(fmt.Errorf("%w: header value contains newline", facades.ErrBadHeader))

	err := svc.RequestReset(context.Background(), user.Email)
	assert.ErrorIs(t, err, services.ErrInvalidMailHeader)
}

func TestPasswordResetService_RequestReset_TransportError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, mockTokens, mockRenderer, mockMailer, _ := newResetService(ctrl)

	user := models.UserDB{UserID: uuid.New(), Email: "alice@example.com"}

	mockUsers.EXPECT().
		FilterByEmail(gomock.Any(), user.Email).
		Return([]models.UserDB{user}, nil)
	mockTokens.EXPECT().Make(gomock.Any()).Return("tok")
	mockRenderer.EXPECT().RenderResetEmail(gomock.Any()).Return("body", nil)
	mockMailer.EXPECT().
		Send(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(errors.New("connection refused"))

	// Anything beyond a header error propagates as-is: no retry, no
	// recovery.
	err := svc.RequestReset(context.Background(), user.Email)
	assert.EqualError(t, err, "connection refused")
}

func TestPasswordResetService_RequestReset_FilterError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockUsers, _, _, _, _ := newResetService(ctrl)

	mockUsers.EXPECT().
		FilterByEmail(gomock.Any(), "alice@example.com").
		Return(nil, errors.New("db error"))

	err := svc.RequestReset(context.Background(), "alice@example.com")
	assert.EqualError(t, err, "db error")
}
