package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/arzan03/CondoLedger/internal/services"
)

// RunBackupHandler copies the ledger to the configured backup targets
func (h *Handler) RunBackupHandler(c *fiber.Ctx) error {
	file, err := h.ledger.RunBackup(c.UserContext(), services.BackupPrefixManual)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"ok": true, "file": file})
}
