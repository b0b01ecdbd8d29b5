package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avolkau/daybook/internal/auth"
)

// UnlockController handles the PIN lifecycle: status, set, unlock, lock.
type UnlockController struct {
	pin      *auth.Service
	sessions *auth.SessionManager
}

func NewUnlockController(pinService *auth.Service, sessionManager *auth.SessionManager) *UnlockController {
	return &UnlockController{pin: pinService, sessions: sessionManager}
}

type pinRequest struct {
	PIN string `json:"pin" binding:"required"`
}

// Status reports whether a PIN is configured and whether this session is
// unlocked. It is public so a locked client can render the right screen.
func (ctl *UnlockController) Status(c *gin.Context) {
	hasPIN, err := ctl.pin.HasPIN()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"configured": hasPIN,
		"unlocked":   !hasPIN || ctl.sessions.IsUnlocked(c.Request.Context()),
	})
}

// SetPIN stores a new PIN. The gate middleware ensures only an unlocked
// session reaches this once a PIN exists.
func (ctl *UnlockController) SetPIN(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.pin.SetPIN(req.PIN); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Unlock verifies the PIN and marks the session unlocked. A wrong PIN and
// an unconfigured PIN both answer 401; the PIN service deliberately does
// not distinguish them.
func (ctl *UnlockController) Unlock(c *gin.Context) {
	var req pinRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !ctl.pin.VerifyPIN(req.PIN) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid PIN"})
		return
	}

	if err := ctl.sessions.Unlock(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "unlocked"})
}

// Lock destroys the session.
func (ctl *UnlockController) Lock(c *gin.Context) {
	if err := ctl.sessions.Lock(c.Request); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "locked"})
}
