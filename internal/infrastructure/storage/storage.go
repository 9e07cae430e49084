// Package storage holds the remote document stores used for verification uploads.
package storage

import "github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"

type (
	UploadFile   = domain.UploadFile
	StoredObject = domain.StoredObject
)
