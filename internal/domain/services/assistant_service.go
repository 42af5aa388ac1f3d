package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"
	Logger "marciaknow-http-service/pkg/logger"

	"gorm.io/gorm"
)

// 上下文提示词缓存时长
const assistantContextTTL = 5 * time.Minute

// 从模型输出中提取首个JSON对象
var jsonBlockPattern = regexp.MustCompile(`\{[\s\S]+\}`)

// AssistantDetectedLocation 助手识别出的目的地
type AssistantDetectedLocation struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Confidence float64 `json:"confidence"`
	Action     string  `json:"action"`
}

// AssistantNavigationStep 助手生成的导航步骤
type AssistantNavigationStep struct {
	Step        int    `json:"step"`
	Instruction string `json:"instruction"`
	Direction   string `json:"direction"`
	Distance    string `json:"distance"`
	Landmark    string `json:"landmark"`
}

// AssistantReply 助手回复
type AssistantReply struct {
	Answer           string                    `json:"answer"`
	DetectedLocation AssistantDetectedLocation `json:"detected_location"`
	NavigationGuide  string                    `json:"navigationGuide,omitempty"`
	NavigationPath   []AssistantNavigationStep `json:"navigationPath,omitempty"`
	ResponseTime     int64                     `json:"responseTime"`
}

// groqRequest Groq chat completions 请求体
type groqRequest struct {
	Model    string        `json:"model"`
	Messages []groqMessage `json:"messages"`
}

type groqMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// groqResponse Groq chat completions 响应体
type groqResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
	} `json:"error,omitempty"`
}

// InterfaceAssistantService defines the LLM assistant service interface
type InterfaceAssistantService interface {
	Ask(kioskID, question, sessionID string) (*AssistantReply, error)
}

// AssistantService 基于校园数据上下文代理Groq问答
type AssistantService struct {
	DB     *gorm.DB
	Config *config.Config
	Redis  InterfaceRedisService
	client *http.Client
}

// NewAssistantService 创建一个新的助手服务
func NewAssistantService(db *gorm.DB, cfg *config.Config, redisService InterfaceRedisService) InterfaceAssistantService {
	return &AssistantService{
		DB:     db,
		Config: cfg,
		Redis:  redisService,
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// buildContextPrompt 汇总楼栋与该亭房间数据生成上下文提示词
func (s *AssistantService) buildContextPrompt(kioskID string) (string, error) {
	// 缓存命中直接返回，缓存故障不影响主流程
	if s.Redis != nil {
		if cached, err := s.Redis.GetAssistantContext(kioskID); err == nil && cached != "" {
			return cached, nil
		}
	}

	var buildings []models.Building
	if err := s.DB.Order("id ASC").Find(&buildings).Error; err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("You are a campus wayfinding assistant installed on kiosk ")
	sb.WriteString(kioskID)
	sb.WriteString(".\nCampus buildings:\n")

	for _, building := range buildings {
		sb.WriteString(fmt.Sprintf("- %s (%d floors): %s\n", building.Name, building.NumberOfFloor, building.Description))

		var nav models.BuildingNavigation
		if err := s.DB.Where("building_id = ? AND kiosk_id = ?", building.ID, kioskID).
			First(&nav).Error; err == nil && len(nav.NavigationGuide) > 0 {
			sb.WriteString("  Directions from this kiosk:\n")
			for _, step := range nav.NavigationGuide {
				sb.WriteString("    * " + step.Description + "\n")
			}
		}

		var rooms []models.Room
		if err := s.DB.Where("building_id = ? AND kiosk_id = ?", building.ID, kioskID).
			Order("floor ASC, name ASC").Find(&rooms).Error; err != nil {
			return "", err
		}
		for _, room := range rooms {
			sb.WriteString(fmt.Sprintf("  - Room %s, floor %d: %s\n", room.Name, room.Floor, room.Description))
		}
	}

	sb.WriteString("\nAnswer strictly as a single JSON object with the shape: ")
	sb.WriteString(`{"answer": string, "detected_location": {"name": string, "type": "building"|"room"|"none", "confidence": number, "action": string}, "navigationGuide": string, "navigationPath": [{"step": number, "instruction": string, "direction": string, "distance": string, "landmark": string}]}. `)
	sb.WriteString("Do not output anything outside the JSON object.")

	prompt := sb.String()
	if s.Redis != nil {
		if err := s.Redis.CacheAssistantContext(kioskID, prompt, assistantContextTTL); err != nil {
			Logger.Warning("缓存助手上下文失败: %v", err)
		}
	}

	return prompt, nil
}

// callGroq 调用 Groq chat completions 接口
func (s *AssistantService) callGroq(systemPrompt, question string) (string, error) {
	if s.Config.GroqAPIKey == "" {
		return "", errors.New("Groq API密钥未配置")
	}

	payload := groqRequest{
		Model: s.Config.GroqModel,
		Messages: []groqMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: question},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest(http.MethodPost, s.Config.GroqAPIURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.Config.GroqAPIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("请求Groq失败: %w", err)
	}
	defer resp.Body.Close()

	var apiResp groqResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", fmt.Errorf("解析Groq响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		if apiResp.Error != nil {
			return "", fmt.Errorf("Groq返回错误: %s", apiResp.Error.Message)
		}
		return "", fmt.Errorf("Groq返回状态码 %d", resp.StatusCode)
	}
	if len(apiResp.Choices) == 0 {
		return "", errors.New("Groq响应为空")
	}

	return apiResp.Choices[0].Message.Content, nil
}

// parseReply 提取并规整模型输出，解析失败时降级为纯文本回答
func parseReply(raw string) *AssistantReply {
	reply := &AssistantReply{}

	match := jsonBlockPattern.FindString(raw)
	if match != "" {
		if err := json.Unmarshal([]byte(match), reply); err == nil {
			if reply.Answer == "" {
				reply.Answer = strings.TrimSpace(raw)
			}
			return reply
		}
	}

	// 模型没有给出合法JSON时，将原始文本作为回答
	reply.Answer = strings.TrimSpace(raw)
	reply.DetectedLocation = AssistantDetectedLocation{Type: "none"}
	return reply
}

// 1 Ask 代理一次问答：组装上下文、调用Groq、规整输出并记录分析日志
func (s *AssistantService) Ask(kioskID, question, sessionID string) (*AssistantReply, error) {
	start := time.Now()

	prompt, err := s.buildContextPrompt(kioskID)
	if err != nil {
		return nil, err
	}

	raw, err := s.callGroq(prompt, question)
	if err != nil {
		return nil, err
	}

	reply := parseReply(raw)
	reply.ResponseTime = time.Since(start).Milliseconds()

	// 记录问答日志，失败不影响回复
	entry := &models.ChatbotInteraction{
		KioskID:      kioskID,
		UserMessage:  question,
		AIResponse:   reply.Answer,
		DetectedName: reply.DetectedLocation.Name,
		DetectedType: reply.DetectedLocation.Type,
		Confidence:   reply.DetectedLocation.Confidence,
		Action:       reply.DetectedLocation.Action,
		ResponseTime: reply.ResponseTime,
		SessionID:    sessionID,
	}
	if err := s.DB.Create(entry).Error; err != nil {
		Logger.Warning("记录助手问答日志失败: %v", err)
	}

	return reply, nil
}
