package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
)

func TestLogoutHandler(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	tests := []struct {
		name         string
		mockSetup    func(svc *MockSessionTerminator, ext *MockTokenExtractor)
		expectedCode int
	}{
		{
			name: "terminates session",
			mockSetup: func(svc *MockSessionTerminator, ext *MockTokenExtractor) {
				ext.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				svc.EXPECT().Terminate(gomock.Any(), "sometoken").
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "no session still succeeds",
			mockSetup: func(svc *MockSessionTerminator, ext *MockTokenExtractor) {
				ext.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("", errors.New("authorization header missing"))
				svc.EXPECT().Terminate(gomock.Any(), "").
					Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name: "store failure",
			mockSetup: func(svc *MockSessionTerminator, ext *MockTokenExtractor) {
				ext.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
					Return("sometoken", nil)
				svc.EXPECT().Terminate(gomock.Any(), "sometoken").
					Return(errors.New("store error"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockSvc := NewMockSessionTerminator(ctrl)
			mockExt := NewMockTokenExtractor(ctrl)
			tt.mockSetup(mockSvc, mockExt)

			req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
			w := httptest.NewRecorder()

			handler := NewLogoutHandler(mockSvc, mockExt)
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedCode, w.Code)

			if tt.expectedCode == http.StatusOK {
				var resp LogoutResponse
				assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
				assert.Equal(t, "/login/", resp.Redirect)
			}
		})
	}
}

func TestLogoutHandler_Idempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockSvc := NewMockSessionTerminator(ctrl)
	mockExt := NewMockTokenExtractor(ctrl)

	mockExt.EXPECT().GetTokenFromRequest(gomock.Any(), gomock.Any()).
		Return("sometoken", nil).Times(2)
	mockSvc.EXPECT().Terminate(gomock.Any(), "sometoken").
		Return(nil).Times(2)

	handler := NewLogoutHandler(mockSvc, mockExt)

	// Calling logout twice in succession never errors on the second call.
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/logout/", nil)
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
	}
}
