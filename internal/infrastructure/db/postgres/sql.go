package postgres

const requestCols = `id, user_id, id_document, proof_of_address, business_registration, additional_documents, status, submitted_at, reviewed_at, reviewed_by, rejection_reason, notes`

const (
	sqlLockUserState = `SELECT role_verified, verification_status FROM users WHERE id = $1 FOR UPDATE`

	sqlHasPending = `SELECT EXISTS (SELECT 1 FROM verification_requests WHERE user_id = $1 AND status = 'pending')`

	sqlInsertRequest = `
INSERT INTO verification_requests (
  id, user_id, id_document, proof_of_address, business_registration, additional_documents, status, submitted_at
) VALUES ($1,$2,$3,$4,$5,$6,'pending',$7)`

	sqlMarkUserPending = `UPDATE users SET verification_status = 'pending', verification_rejection_reason = '', updated_at = NOW() WHERE id = $1`

	sqlTransitionRequest = `
UPDATE verification_requests
SET status = $2, reviewed_at = $3, reviewed_by = $4, rejection_reason = $5, notes = $6
WHERE id = $1 AND status = 'pending'
RETURNING ` + requestCols

	sqlRequestStatus = `SELECT status FROM verification_requests WHERE id = $1`

	sqlApplyDecision = `UPDATE users SET role_verified = $2, verification_status = $3, verification_rejection_reason = $4, updated_at = NOW() WHERE id = $1`

	sqlGetRequest = `SELECT ` + requestCols + ` FROM verification_requests WHERE id = $1`

	sqlLatestForUser = `SELECT ` + requestCols + ` FROM verification_requests WHERE user_id = $1 ORDER BY submitted_at DESC, id DESC LIMIT 1`

	sqlDeleteRequest = `DELETE FROM verification_requests WHERE id = $1 RETURNING ` + requestCols

	sqlLockRequestStatus = `SELECT status FROM verification_requests WHERE id = $1 FOR UPDATE`

	// the owner falls back to whatever their newest remaining request says
	sqlRestoreUserAfterWithdrawal = `UPDATE users SET
		verification_status = COALESCE((SELECT status FROM verification_requests WHERE user_id = $1 ORDER BY submitted_at DESC, id DESC LIMIT 1), 'not_submitted'),
		verification_rejection_reason = COALESCE((SELECT rejection_reason FROM verification_requests WHERE user_id = $1 ORDER BY submitted_at DESC, id DESC LIMIT 1), ''),
		updated_at = NOW()
		WHERE id = $1 AND verification_status = 'pending'`

	sqlDeleteRequestsByUser = `DELETE FROM verification_requests WHERE user_id = $1 RETURNING ` + requestCols
)
