package httperr

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusinessCode(t *testing.T) {
	err := fmt.Errorf("reschedule: %w", ErrBusiness(CodeTimeConflict))

	code, ok := BusinessCode(err)
	require.True(t, ok)
	assert.Equal(t, CodeTimeConflict, code)
	assert.True(t, IsBusiness(err, CodeTimeConflict))
	assert.False(t, IsBusiness(err, CodeInvalidState))

	_, ok = BusinessCode(fmt.Errorf("boom"))
	assert.False(t, ok)
}

func TestIsExclusionConflict(t *testing.T) {
	assert.True(t, IsExclusionConflict(fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23P01"})))
	assert.False(t, IsExclusionConflict(&pgconn.PgError{Code: "23505"}))
	assert.False(t, IsExclusionConflict(fmt.Errorf("plain")))
}

func TestWrite(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	Conflict(c, CodeTimeConflict, "doctor already booked")

	assert.Equal(t, http.StatusConflict, w.Code)
	var body HTTPError
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, HTTPError{Code: CodeTimeConflict, Message: "doctor already booked"}, body)
}
