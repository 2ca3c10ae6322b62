package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// ListTasks returns active channel tasks with the caller's completion flags.
func (h *Handler) ListTasks(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	views, err := h.Economy.ListTasks(c.Request.Context(), tgID)
	if err != nil {
		respondError(c, err)
		return
	}

	out := make([]gin.H, 0, len(views))
	for _, v := range views {
		out = append(out, gin.H{
			"id":           v.Task.ID,
			"title":        v.Task.Title,
			"description":  v.Task.Description,
			"channel_link": v.Task.ChannelLink,
			"reward":       v.Task.Reward,
			"completed":    v.Completed,
		})
	}

	c.JSON(http.StatusOK, gin.H{"tasks": out})
}

// CheckTask verifies channel membership and credits the reward once.
func (h *Handler) CheckTask(c *gin.Context) {
	tgID, ok := getTgID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	taskID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}

	p, reward, err := h.Economy.CompleteTask(c.Request.Context(), tgID, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"player": playerJSON(p),
		"reward": reward,
	})
}
