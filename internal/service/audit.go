package service

import "log/slog"

// audit emits one structured audit record for a state-changing
// operation. Best effort: logging never fails the operation. The field
// set mirrors the contract's original log shape (result, method, group,
// account, message) so downstream consumers can index events.
func audit(result, method, groupID, account, msg string) {
	slog.Info("Audit event",
		"result", result,
		"method", method,
		"group_id", groupID,
		"account", account,
		"message", msg,
	)
}
