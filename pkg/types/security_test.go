package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUserType(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    UserType
		wantErr bool
	}{
		{"guest", "guest", UserTypeGuest, false},
		{"student", "student", UserTypeStudent, false},
		{"teacher", "teacher", UserTypeTeacher, false},
		{"admin", "admin", UserTypeAdmin, false},
		{"unknown", "wizard", UserTypeGuest, true},
		{"empty", "", UserTypeGuest, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseUserType(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestUserTypeString(t *testing.T) {
	for _, ut := range []UserType{UserTypeGuest, UserTypeStudent, UserTypeTeacher, UserTypeAdmin} {
		parsed, err := ParseUserType(ut.String())
		require.NoError(t, err)
		assert.Equal(t, ut, parsed)
	}
}

func TestStaticSecurityGuestHeader(t *testing.T) {
	sec := StaticSecurity{User: "guest", Type: UserTypeGuest}

	headers := sec.GetAuthorizationHeader()
	require.Contains(t, headers, "X-User-Id")

	decoded, err := Deobfuscate(headers["X-User-Id"])
	require.NoError(t, err)
	assert.Equal(t, "guest", decoded)
}

func TestStaticSecurityExplicitHeaders(t *testing.T) {
	sec := StaticSecurity{
		User:    "alice",
		Type:    UserTypeStudent,
		Headers: map[string]string{"Authorization": "Bearer tok"},
	}
	assert.Equal(t, map[string]string{"Authorization": "Bearer tok"}, sec.GetAuthorizationHeader())
}
