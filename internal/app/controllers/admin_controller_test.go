package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"marciaknow-http-service/internal/domain/models"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateAdminFieldWhitelist(t *testing.T) {
	c, db := newTestContainer(t)
	admin := seedAdminAccount(t, db, "alice@campus.edu", "password123")
	other := seedAdminAccount(t, db, "bob@campus.edu", "password123")

	r := gin.New()
	r.PATCH("/admin/:id/field", HandleAdminFunc(c, "updateField"))

	patch := func(id uint, field, value string) *httptest.ResponseRecorder {
		body, _ := json.Marshal(gin.H{"field": field, "value": value})
		req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/admin/%d/field", id), bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	// 白名单字段正常更新
	w := patch(admin.ID, "full_name", "Alice Renamed")
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Admin
	require.NoError(t, db.First(&reloaded, admin.ID).Error)
	assert.Equal(t, "Alice Renamed", reloaded.FullName)

	// 白名单之外的字段被拒绝
	w = patch(admin.ID, "password", "sneaky")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// 修改邮箱时仍校验唯一性
	w = patch(admin.ID, "email", other.Email)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEnableAdminClearsDisabledFlag(t *testing.T) {
	c, db := newTestContainer(t)
	admin := seedAdminAccount(t, db, "carol@campus.edu", "password123")
	require.NoError(t, db.Model(admin).Update("is_disabled", true).Error)

	r := gin.New()
	r.PUT("/admin/:id/enable", HandleAdminFunc(c, "enable"))

	req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/admin/%d/enable", admin.ID), nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Admin
	require.NoError(t, db.First(&reloaded, admin.ID).Error)
	assert.False(t, reloaded.IsDisabled)
}
