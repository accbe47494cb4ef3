// Package api implements the router's four HTTP endpoints as thin gin
// adapters over broker.Broker: parse and validate the request, invoke
// one Broker operation, translate the outcome to a status code.
package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ditef/router/internal/broker"
	"github.com/ditef/router/internal/registry"
	"github.com/ditef/router/pkg/logger"
)

var preferWaitPattern = regexp.MustCompile(`^wait=(\d+)$`)

// Handlers holds the dependencies the four endpoint handlers close over.
type Handlers struct {
	broker *broker.Broker
}

// New returns a Handlers bound to b.
func New(b *broker.Broker) *Handlers {
	return &Handlers{broker: b}
}

// Register installs the four task/result routes on engine.
func (h *Handlers) Register(engine *gin.Engine) {
	engine.POST("/task/run", h.TaskRun)
	engine.GET("/task/get", h.TaskGet)
	engine.POST("/task/heartbeat", h.TaskHeartbeat)
	engine.POST("/result/set", h.ResultSet)
}

// TaskRun implements POST /task/run?taskType=<string> (producer -> router).
func (h *Handlers) TaskRun(c *gin.Context) {
	taskType := c.Query("taskType")
	if taskType == "" {
		c.String(http.StatusBadRequest, "Missing taskType")
		return
	}

	payload, err := readJSONBody(c)
	if err != nil {
		c.String(http.StatusBadRequest, "Malformed payload")
		return
	}

	result, err := h.broker.Submit(c.Request.Context(), taskType, payload)
	if err != nil {
		// Producer disconnected; the response will never reach them.
		logger.DebugX("api", "task/run cancelled for type=%s: %v", taskType, err)
		return
	}

	c.Data(http.StatusOK, "application/json", result)
}

// TaskGet implements GET /task/get?taskType=<string>... (worker -> router).
func (h *Handlers) TaskGet(c *gin.Context) {
	prefer := c.GetHeader("Prefer")
	if prefer == "" {
		c.String(http.StatusBadRequest, "Missing Prefer header")
		return
	}
	match := preferWaitPattern.FindStringSubmatch(prefer)
	if match == nil {
		c.String(http.StatusBadRequest, "Malformed Prefer header")
		return
	}
	waitSeconds, err := strconv.Atoi(match[1])
	if err != nil || waitSeconds < 1 {
		c.String(http.StatusBadRequest, "Malformed Prefer header")
		return
	}

	types := c.QueryArray("taskType")
	if len(types) == 0 {
		c.String(http.StatusBadRequest, "Missing taskType")
		return
	}

	assignmentID, taskType, payload, err := h.broker.Claim(
		c.Request.Context(),
		types,
		time.Duration(waitSeconds)*time.Second,
	)
	if err != nil {
		c.Status(http.StatusNoContent)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"taskType": taskType,
		"taskId":   assignmentID,
		"payload":  json.RawMessage(payload),
	})
}

// TaskHeartbeat implements POST /task/heartbeat?taskId=<string> (worker -> router).
func (h *Handlers) TaskHeartbeat(c *gin.Context) {
	taskID := c.Query("taskId")
	if taskID == "" {
		c.String(http.StatusBadRequest, "Missing taskId")
		return
	}

	if err := h.broker.Heartbeat(taskID); err != nil {
		if errors.Is(err, registry.ErrUnknownAssignment) {
			c.String(http.StatusNotFound, "Task with taskId not found")
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}

// ResultSet implements POST /result/set?taskId=<string> (worker -> router).
func (h *Handlers) ResultSet(c *gin.Context) {
	taskID := c.Query("taskId")
	if taskID == "" {
		c.String(http.StatusBadRequest, "Missing taskId")
		return
	}

	result, err := readJSONBody(c)
	if err != nil {
		c.String(http.StatusBadRequest, "Malformed result")
		return
	}

	if err := h.broker.DeliverResult(taskID, result); err != nil {
		if errors.Is(err, registry.ErrUnknownAssignment) {
			c.String(http.StatusNotFound, "Task with taskId not found")
			return
		}
		c.Status(http.StatusInternalServerError)
		return
	}

	c.Status(http.StatusOK)
}

func readJSONBody(c *gin.Context) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := c.ShouldBindJSON(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}
