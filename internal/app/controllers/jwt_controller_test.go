package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoginReturnsBothTokensAndCookie(t *testing.T) {
	c, db := newTestContainer(t)
	seedAdminAccount(t, db, "alice@campus.edu", "password123")

	r := gin.New()
	r.POST("/auth", HandleJWTFunc(c, "login"))

	body, _ := json.Marshal(gin.H{"email": "alice@campus.edu", "password": "password123"})
	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var envelope struct {
		Code int                    `json:"code"`
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))

	// 响应体同时携带两种令牌
	accessToken, _ := envelope.Data["accessToken"].(string)
	refreshToken, _ := envelope.Data["refreshToken"].(string)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	// 刷新令牌同时写入httpOnly cookie
	var jwtCookie *http.Cookie
	for _, ck := range w.Result().Cookies() {
		if ck.Name == "jwt" {
			jwtCookie = ck
		}
	}
	require.NotNil(t, jwtCookie)
	assert.Equal(t, refreshToken, jwtCookie.Value)
	assert.True(t, jwtCookie.HttpOnly)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	c, db := newTestContainer(t)
	seedAdminAccount(t, db, "alice@campus.edu", "password123")

	r := gin.New()
	r.POST("/auth", HandleJWTFunc(c, "login"))

	body, _ := json.Marshal(gin.H{"email": "alice@campus.edu", "password": "wrong-password"})
	req := httptest.NewRequest(http.MethodPost, "/auth", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}
