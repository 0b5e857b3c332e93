package handlers

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	apperrors "coinbuddy/internal/errors"
	"coinbuddy/internal/services"
)

// maxBackupSize caps uploaded backup files at 10 MiB.
const maxBackupSize = 10 << 20

// BackupHandler handles backup export and restore requests.
type BackupHandler struct {
	backupService services.BackupServicer
	auditService  services.AuditServicer
}

// NewBackupHandler creates a new BackupHandler
func NewBackupHandler(backupService services.BackupServicer, auditService services.AuditServicer) *BackupHandler {
	return &BackupHandler{backupService: backupService, auditService: auditService}
}

// CreateBackup exports the authenticated user's data as a downloadable
// JSON snapshot.
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	snapshot, err := h.backupService.CreateBackup(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "create_backup", "backup", "", c.ClientIP(), map[string]interface{}{
		"wallets":      len(snapshot.Wallets),
		"transactions": len(snapshot.Transactions),
	})

	filename := fmt.Sprintf("coinbuddy_backup_%d.json", time.Now().UnixMilli())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, snapshot)
}

// RestoreBackup replaces the authenticated user's wallets and transactions
// with the contents of an uploaded snapshot. All-or-nothing: a malformed
// file or a failed write leaves existing data untouched.
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	data, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBackupSize+1))
	if err != nil {
		respondWithError(c, apperrors.Wrap(apperrors.ErrInvalidInput, err))
		return
	}
	if len(data) > maxBackupSize {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, "backup file too large"))
		return
	}

	if err := h.backupService.RestoreBackup(userID, data); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, "restore_backup", "backup", "", c.ClientIP(), nil)
	c.JSON(http.StatusOK, gin.H{"message": "Backup restored"})
}
