package shared

import (
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type taggedRequest struct {
	Name string `validate:"required,min=3"`
}

type selfValidating struct {
	err error
}

func (s selfValidating) Validate() error { return s.err }

func TestDecodeJSON(t *testing.T) {
	t.Parallel()

	t.Run("decodes valid body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/", strings.NewReader(`{"Name":"alice"}`))
		var req taggedRequest
		require.NoError(t, DecodeJSON(r, &req))
		assert.Equal(t, "alice", req.Name)
	})

	t.Run("rejects malformed body", func(t *testing.T) {
		t.Parallel()
		r := httptest.NewRequest("POST", "/", strings.NewReader("{broken"))
		var req taggedRequest
		assert.Error(t, DecodeJSON(r, &req))
	})
}

func TestValidateRequest(t *testing.T) {
	t.Parallel()

	t.Run("tag validation", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, ValidateRequest(taggedRequest{Name: "alice"}))
		assert.Error(t, ValidateRequest(taggedRequest{Name: "al"}))
		assert.Error(t, ValidateRequest(taggedRequest{}))
	})

	t.Run("prefers the type's own Validate method", func(t *testing.T) {
		t.Parallel()
		sentinel := errors.New("custom rule failed")
		assert.ErrorIs(t, ValidateRequest(selfValidating{err: sentinel}), sentinel)
		assert.NoError(t, ValidateRequest(selfValidating{}))
	})
}
