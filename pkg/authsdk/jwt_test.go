package authsdk

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func TestGenerateAndParseToken(t *testing.T) {
	token, err := GenerateToken(testSecret, "jti-1", 42, "a@test.com", "STUDENT", time.Hour, time.Now())
	require.NoError(t, err)

	claims, err := ParseToken(token, testSecret)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
	assert.Equal(t, "a@test.com", claims.Email)
	assert.Equal(t, "STUDENT", claims.Role)
	assert.Equal(t, "jti-1", claims.ID)
}

func TestParseToken_Failures(t *testing.T) {
	valid, err := GenerateToken(testSecret, "jti-2", 1, "b@test.com", "ADMIN", time.Hour, time.Now())
	require.NoError(t, err)
	expired, err := GenerateToken(testSecret, "jti-3", 1, "b@test.com", "ADMIN", time.Hour, time.Now().Add(-2*time.Hour))
	require.NoError(t, err)
	noID, err := GenerateToken(testSecret, "", 1, "b@test.com", "ADMIN", time.Hour, time.Now())
	require.NoError(t, err)

	tests := []struct {
		name    string
		token   string
		secret  string
		wantErr error
	}{
		{"空令牌", "", testSecret, ErrNoToken},
		{"签名密钥错误", valid, "other-secret", ErrInvalidToken},
		{"令牌已过期", expired, testSecret, ErrExpiredToken},
		{"缺少 jti", noID, testSecret, ErrInvalidToken},
		{"格式错误", "not-a-jwt", testSecret, ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseToken(tt.token, tt.secret)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExtractBearer(t *testing.T) {
	tests := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc", "abc", nil},
		{"bearer abc", "abc", nil},
		{"", "", ErrNoToken},
		{"Bearer ", "", ErrInvalidToken},
		{"Basic abc", "", ErrInvalidToken},
		{"abc", "", ErrInvalidToken},
	}

	for _, tt := range tests {
		got, err := ExtractBearer(tt.header)
		if tt.wantErr != nil {
			assert.ErrorIs(t, err, tt.wantErr, tt.header)
			continue
		}
		assert.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}
