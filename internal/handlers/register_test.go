package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/mkorolev87/simple-auth/internal/models"
	"github.com/mkorolev87/simple-auth/internal/services"
)

func TestRegisterHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockRegisterer(ctrl)

	validReq := RegisterRequest{
		Email:           "alice@example.com",
		Username:        "alice",
		Password:        "Secret123!",
		PasswordConfirm: "Secret123!",
	}

	tests := []struct {
		name         string
		inputBody    interface{}
		mockSetup    func()
		expectedCode int
		expectedBody interface{}
	}{
		{
			name:      "success",
			inputBody: validReq,
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), services.RegisterInput{
						Email:           "alice@example.com",
						Username:        "alice",
						Password:        "Secret123!",
						PasswordConfirm: "Secret123!",
					}).
					Return(&models.UserDB{UserID: uuid.New(), Username: "alice", IsActive: true}, nil)
			},
			expectedCode: http.StatusCreated,
			expectedBody: &RegisterResponse{
				Message: "alice created successfully. Please login to continue.",
			},
		},
		{
			name:         "invalid JSON",
			inputBody:    "{invalid json}",
			mockSetup:    func() {},
			expectedCode: http.StatusBadRequest,
			expectedBody: &RegisterErrorResponse{
				Error: "invalid request body",
			},
		},
		{
			name:      "validation failure",
			inputBody: validReq,
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(nil, &services.ValidationError{
						Fields: map[string][]string{
							"password_confirm": {"passwords do not match"},
						},
					})
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: &RegisterErrorResponse{
				Error: "Error validating form.",
				Fields: map[string][]string{
					"password_confirm": {"passwords do not match"},
				},
			},
		},
		{
			name:      "user already exists",
			inputBody: validReq,
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(nil, services.ErrUserAlreadyExists)
			},
			expectedCode: http.StatusBadRequest,
			expectedBody: &RegisterErrorResponse{
				Error: "Username or email already exists",
			},
		},
		{
			name:      "internal error",
			inputBody: validReq,
			mockSetup: func() {
				mockSvc.EXPECT().
					Register(gomock.Any(), gomock.Any()).
					Return(nil, errors.New("database error"))
			},
			expectedCode: http.StatusInternalServerError,
			expectedBody: &RegisterErrorResponse{
				Error: "Failed to create account. Please contact your local administrator",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.mockSetup()

			var bodyBytes []byte
			switch v := tt.inputBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, _ = json.Marshal(v)
			}

			req := httptest.NewRequest(http.MethodPost, "/register/", bytes.NewReader(bodyBytes))
			w := httptest.NewRecorder()

			handler := NewRegisterHandler(mockSvc)
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			var respBody interface{}
			switch tt.expectedCode {
			case http.StatusCreated:
				respBody = &RegisterResponse{}
			default:
				respBody = &RegisterErrorResponse{}
			}
			err := json.Unmarshal(w.Body.Bytes(), respBody)
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedBody, respBody)
		})
	}
}
