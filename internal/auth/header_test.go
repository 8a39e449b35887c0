package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	tests := []struct {
		name    string
		header  string
		want    string
		wantErr bool
	}{
		{name: "ok", header: "Bearer abc.def.ghi", want: "abc.def.ghi"},
		{name: "empty", header: "", wantErr: true},
		{name: "no prefix", header: "abc.def.ghi", wantErr: true},
		{name: "lowercase scheme", header: "bearer abc", wantErr: true},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: true},
		{name: "prefix only", header: "Bearer ", wantErr: true},
		{name: "two tokens", header: "Bearer a b", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := BearerToken(tt.header)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrMalformedHeader)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestHeaderValue_CaseInsensitive(t *testing.T) {
	assert.Equal(t, "x", HeaderValue(map[string]string{"Authorization": "x"}, "Authorization"))
	assert.Equal(t, "y", HeaderValue(map[string]string{"authorization": "y"}, "Authorization"))
	assert.Equal(t, "", HeaderValue(map[string]string{"Accept": "z"}, "Authorization"))
	assert.Equal(t, "", HeaderValue(nil, "Authorization"))
}
