package jobs

import (
	"log"
	"time"

	"github.com/Alexandr290700/online-tutor/database"
	"github.com/Alexandr290700/online-tutor/models"
)

// Accounts that never activate are purged after this long.
const activationGracePeriod = 7 * 24 * time.Hour

func PurgeStaleAccounts() {
	log.Println("Running job: PurgeStaleAccounts...")

	cutoff := time.Now().Add(-activationGracePeriod)

	result := database.DB.
		Where("is_active = ? AND activation_code IS NOT NULL AND created_at < ?", false, cutoff).
		Delete(&models.Account{})
	if result.Error != nil {
		log.Printf("Error purging stale accounts: %v", result.Error)
		return
	}

	if result.RowsAffected > 0 {
		log.Printf("Purged %d stale unactivated accounts", result.RowsAffected)
	}
}
