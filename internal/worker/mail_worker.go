package worker

import (
	"github.com/spec-kit/marketplace-service/internal/service"
)

// StartMailWorker registers mail handlers on the event dispatcher.
func StartMailWorker(mailService *service.MailService) {
	if mailService == nil {
		return
	}
	mailService.RegisterHandlers()
}
