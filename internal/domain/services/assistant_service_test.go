package services

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestParseReplyExtractsJSONBlock(t *testing.T) {
	raw := "Here is my answer:\n" + `{"answer": "The library is north of you.", "detected_location": {"name": "Library", "type": "building", "confidence": 0.92, "action": "navigate"}, "navigationGuide": "Head north past the fountain."}`

	reply := parseReply(raw)
	assert.Equal(t, "The library is north of you.", reply.Answer)
	assert.Equal(t, "Library", reply.DetectedLocation.Name)
	assert.Equal(t, "building", reply.DetectedLocation.Type)
	assert.InDelta(t, 0.92, reply.DetectedLocation.Confidence, 0.001)
	assert.Equal(t, "navigate", reply.DetectedLocation.Action)
	assert.Equal(t, "Head north past the fountain.", reply.NavigationGuide)
}

func TestParseReplyFallsBackToPlainText(t *testing.T) {
	reply := parseReply("  Sorry, I could not find that place.  ")
	assert.Equal(t, "Sorry, I could not find that place.", reply.Answer)
	assert.Equal(t, "none", reply.DetectedLocation.Type)

	// 残缺JSON同样降级为纯文本
	broken := parseReply(`{"answer": "unterminated`)
	assert.Equal(t, `{"answer": "unterminated`, broken.Answer)
	assert.Equal(t, "none", broken.DetectedLocation.Type)
}

// newStubbedAssistant 指向本地桩服务器的助手服务
func newStubbedAssistant(t *testing.T, db *gorm.DB, content string) InterfaceAssistantService {
	t.Helper()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-groq-key", r.Header.Get("Authorization"))

		var req groqRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		require.Len(t, req.Messages, 2)
		assert.Equal(t, "system", req.Messages[0].Role)

		resp := map[string]interface{}{
			"choices": []map[string]interface{}{
				{"message": map[string]string{"content": content}},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(server.Close)

	cfg := testConfig()
	cfg.GroqAPIKey = "test-groq-key"
	cfg.GroqAPIURL = server.URL
	cfg.GroqModel = "llama3-8b-8192"

	return NewAssistantService(db, cfg, nil)
}

func TestAskProxiesAndLogsInteraction(t *testing.T) {
	db := setupTestDB(t)
	seedBuilding(t, db, "Library")

	content := `{"answer": "Go north.", "detected_location": {"name": "Library", "type": "building", "confidence": 0.8, "action": "navigate"}}`
	svc := newStubbedAssistant(t, db, content)

	reply, err := svc.Ask("K100A1Y1", "Where is the library?", "s1")
	require.NoError(t, err)
	assert.Equal(t, "Go north.", reply.Answer)
	assert.Equal(t, "Library", reply.DetectedLocation.Name)
	assert.GreaterOrEqual(t, reply.ResponseTime, int64(0))

	// 问答已写入分析日志
	var entry models.ChatbotInteraction
	require.NoError(t, db.Where("session_id = ?", "s1").First(&entry).Error)
	assert.Equal(t, "K100A1Y1", entry.KioskID)
	assert.Equal(t, "Where is the library?", entry.UserMessage)
	assert.Equal(t, "Go north.", entry.AIResponse)
	assert.Equal(t, "navigate", entry.Action)
}

func TestAskFailsWithoutAPIKey(t *testing.T) {
	db := setupTestDB(t)

	cfg := &config.Config{GroqAPIURL: "http://localhost:0"}
	svc := NewAssistantService(db, cfg, nil)

	_, err := svc.Ask("K100A1Y1", "hello", "s1")
	assert.Error(t, err)
}
