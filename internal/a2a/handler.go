package a2a

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/BerylCAtieno/ai-stack-agent/internal/logger"
	"github.com/BerylCAtieno/ai-stack-agent/internal/models"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ErrNoPayload is returned when no message part carries questionnaire answers.
var ErrNoPayload = errors.New("no questionnaire payload found in message")

type StackGenerator interface {
	Generate(ctx context.Context, req models.GenerateStackRequest) (*models.GenerateStackResponse, error)
}

type Handler struct {
	stacks StackGenerator
	card   AgentCard
	log    *logger.Logger
}

func NewHandler(stacks StackGenerator, baseURL string, log *logger.Logger) *Handler {
	return &Handler{
		stacks: stacks,
		card:   NewAgentCard(baseURL),
		log:    log.With("handler", "A2AHandler"),
	}
}

// HandleStack processes JSON-RPC message/send and agent/task calls.
func (h *Handler) HandleStack(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		h.sendError(c, nil, "Failed to read request body", CodeParseError)
		return
	}

	var rpcReq JSONRPCRequest
	if err := json.Unmarshal(body, &rpcReq); err != nil {
		h.log.Warn("a2a request is not valid JSON", "error", err)
		h.sendError(c, nil, "Parse error", CodeParseError)
		return
	}

	if rpcReq.JSONRPC == "" && rpcReq.Method == "" {
		h.handleDirectMessage(c, body)
		return
	}
	if rpcReq.JSONRPC != "2.0" {
		h.sendError(c, rpcReq.ID, "Invalid JSON-RPC version", CodeInvalidRequest)
		return
	}

	switch rpcReq.Method {
	case "message/send", "agent/task":
		h.handleTask(c, rpcReq)
	default:
		h.log.Warn("unknown a2a method", "method", rpcReq.Method)
		h.sendError(c, rpcReq.ID, fmt.Sprintf("Method not found: %s", rpcReq.Method), CodeMethodNotFound)
	}
}

// handleDirectMessage accepts a bare MessageParams body without the JSON-RPC envelope.
func (h *Handler) handleDirectMessage(c *gin.Context, body []byte) {
	var params MessageParams
	if err := json.Unmarshal(body, &params); err != nil || len(params.Message.Parts) == 0 {
		h.sendError(c, nil, "Invalid request format", CodeInvalidRequest)
		return
	}
	h.sendResult(c, "direct-message", h.run(c.Request.Context(), params.Message))
}

func (h *Handler) handleTask(c *gin.Context, rpcReq JSONRPCRequest) {
	var params MessageParams
	if len(rpcReq.Params) == 0 {
		h.sendError(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}
	if err := json.Unmarshal(rpcReq.Params, &params); err != nil {
		h.sendError(c, rpcReq.ID, "Invalid parameters", CodeInvalidParams)
		return
	}
	h.sendResult(c, rpcReq.ID, h.run(c.Request.Context(), params.Message))
}

func (h *Handler) run(ctx context.Context, msg A2AMessage) TaskResult {
	taskID := msg.TaskID
	if taskID == "" {
		taskID = uuid.NewString()
	}

	req, err := ExtractRequest(msg)
	if err != nil {
		return failedTask(taskID, msg.ContextID,
			"Please send the questionnaire answers as a JSON object (name, email, businessType, teamSize, objective, currentTools, otherTools, aiKnowledge).")
	}

	resp, err := h.stacks.Generate(ctx, *req)
	if err != nil {
		h.log.Error("a2a stack generation failed", "error", err)
		return failedTask(taskID, msg.ContextID, err.Error())
	}

	h.log.Info("a2a stack generated", "stack_id", resp.StackID, "recommendations", len(resp.Recommendations))
	return completedTask(taskID, msg.ContextID, resp)
}

// ExtractRequest returns the first data part holding a JSON object, or the
// first text part whose content parses as one.
func ExtractRequest(msg A2AMessage) (*models.GenerateStackRequest, error) {
	for _, part := range msg.Parts {
		var raw []byte
		switch part.Kind {
		case "data":
			raw = bytes.TrimSpace(part.Data)
		case "text":
			raw = []byte(unfence(part.Text))
		default:
			continue
		}
		if len(raw) == 0 || raw[0] != '{' {
			continue
		}
		var req models.GenerateStackRequest
		if err := json.Unmarshal(raw, &req); err != nil {
			continue
		}
		return &req, nil
	}
	return nil, ErrNoPayload
}

func unfence(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "```json")
	t = strings.TrimPrefix(t, "```")
	t = strings.TrimSuffix(t, "```")
	return strings.TrimSpace(t)
}

func completedTask(taskID, contextID string, resp *models.GenerateStackResponse) TaskResult {
	text := FormatStack(resp)

	result := TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateCompleted,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(text)},
			},
		},
		Artifacts: []Artifact{{
			ArtifactID: uuid.NewString(),
			Name:       "AI Stack",
			Parts:      []MessagePart{TextPart(text)},
		}},
	}
	if data, err := json.Marshal(resp); err == nil {
		result.Artifacts[0].Parts = append(result.Artifacts[0].Parts, DataPart(data))
	}
	return result
}

func failedTask(taskID, contextID, errorMsg string) TaskResult {
	return TaskResult{
		ID:        taskID,
		ContextID: contextID,
		Kind:      "task",
		Status: TaskStatus{
			State:     StateFailed,
			Timestamp: Timestamp(),
			Message: &A2AMessage{
				Kind:      "message",
				Role:      RoleAgent,
				MessageID: uuid.NewString(),
				TaskID:    taskID,
				Parts:     []MessagePart{TextPart(errorMsg)},
			},
		},
	}
}

// ServeAgentCard serves the agent card
func (h *Handler) ServeAgentCard(c *gin.Context) {
	c.JSON(http.StatusOK, h.card)
}

// JSON-RPC results and errors are both sent with 200 OK.
func (h *Handler) sendResult(c *gin.Context, id any, result TaskResult) {
	c.JSON(http.StatusOK, JSONRPCResponse{JSONRPC: "2.0", ID: id, Result: result})
}

func (h *Handler) sendError(c *gin.Context, id any, message string, code int) {
	c.JSON(http.StatusOK, JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &RPCError{Code: code, Message: message},
	})
}
