package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"TourShield/internal/models"
	"TourShield/pkg/llm"
	"TourShield/pkg/logger"
	"TourShield/pkg/metrics"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	// 输入长度上限，校验在任何写入之前完成
	maxChatMessageLen = 1000
	// 送入模型的历史条数
	promptHistorySize = 10

	defaultHistoryLimit = 50
	maxHistoryLimit     = 200
)

type chatRequest struct {
	Message string `json:"message"`
}

// Chat 聊天中转。限流由路由上的中间件先行把关，这里依次做
// 校验、落库、上下文拼装、外部补全、回写助手消息
func (h *Handlers) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message is required"})
		return
	}
	msg := strings.TrimSpace(req.Message)
	if msg == "" || len([]rune(req.Message)) > maxChatMessageLen {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Message must be between 1 and 1000 characters"})
		return
	}

	user := models.CurrentUser(c)
	if _, err := models.AddChatMessage(h.DB, user.ID, models.ChatRoleUser, msg); err != nil {
		logger.Error("persist user message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process message"})
		return
	}

	history, err := models.GetChatHistory(h.DB, user.ID, promptHistorySize)
	if err != nil {
		logger.Error("chat history fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process message"})
		return
	}

	systemPrompt, err := h.buildSystemPrompt(c)
	if err != nil {
		logger.Error("prompt assembly failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process message"})
		return
	}

	msgs := make([]llm.Message, 0, len(history))
	for _, m := range history {
		msgs = append(msgs, llm.Message{Role: m.Role, Content: m.Content})
	}

	reply, usage, err := h.LLM.Complete(c.Request.Context(), systemPrompt, msgs)
	if err != nil {
		// 用户消息已落库，孤儿消息可接受，下次加载呈现为未回复
		metrics.RecordChatRelayFailure()
		logger.Error("completion call failed", zap.String("user", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": translate(c, "chat.failed", "Failed to get a response, please try again")})
		return
	}

	if _, err := models.AddChatMessage(h.DB, user.ID, models.ChatRoleAssistant, reply); err != nil {
		logger.Error("persist assistant message failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to process message"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply, "usage": usage})
}

// ChatHistory 按时间升序返回当前用户的消息
func (h *Handlers) ChatHistory(c *gin.Context) {
	limit := defaultHistoryLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "limit must be a positive integer"})
			return
		}
		if n > maxHistoryLimit {
			n = maxHistoryLimit
		}
		limit = n
	}

	user := models.CurrentUser(c)
	msgs, err := models.GetChatHistory(h.DB, user.ID, limit)
	if err != nil {
		logger.Error("chat history fetch failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to fetch chat history"})
		return
	}
	c.JSON(http.StatusOK, msgs)
}

// ClearChatHistory 清空当前用户的聊天记录，幂等
func (h *Handlers) ClearChatHistory(c *gin.Context) {
	user := models.CurrentUser(c)
	if err := models.ClearChatHistory(h.DB, user.ID); err != nil {
		logger.Error("chat history clear failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to clear chat history"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Chat history cleared"})
}

// buildSystemPrompt 组装系统指令：助手角色、参考提示摘要、联络方式，
// 以及紧急情况一律转向官方急救号码的硬性要求
func (h *Handlers) buildSystemPrompt(c *gin.Context) (string, error) {
	tipsExcerpt, err := models.TipsPromptExcerpt(c.Request.Context(), h.DB, h.Cache, 10)
	if err != nil {
		return "", err
	}
	contacts, err := models.GetEmergencyContacts(h.DB)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are an AI Safety Assistant for tourists in the %s area. ", h.Cfg.DefaultLocation)
	b.WriteString("Give practical, concise safety advice grounded in the reference material below.\n\n")
	if tipsExcerpt != "" {
		b.WriteString("Reference safety tips:\n")
		b.WriteString(tipsExcerpt)
		b.WriteString("\n")
	}
	if len(contacts) > 0 {
		b.WriteString("Emergency contacts:\n")
		for _, contact := range contacts {
			fmt.Fprintf(&b, "- %s (%s): %s\n", contact.Name, contact.Type, contact.PhoneNumber)
		}
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "If the user describes an active emergency, instruct them to immediately call %s. Never attempt to handle a real emergency yourself.", h.Cfg.EmergencyNumber)
	return b.String(), nil
}
