package domain

import (
	"io"
	"mime"
	"path/filepath"
	"strings"
)

type DocumentSlot string

const (
	SlotIDDocument           DocumentSlot = "idDocument"
	SlotProofOfAddress       DocumentSlot = "proofOfAddress"
	SlotBusinessRegistration DocumentSlot = "businessRegistration"
	SlotAdditionalDocuments  DocumentSlot = "additionalDocuments"
)

const (
	MaxDocumentBytes       int64 = 10 << 20
	MaxAdditionalDocuments       = 5
)

var allowedExtensions = map[string]struct{}{
	".pdf": {}, ".jpg": {}, ".jpeg": {}, ".png": {},
	".doc": {}, ".docx": {}, ".xls": {}, ".xlsx": {},
}

var allowedMimeTypes = map[string]struct{}{
	"application/pdf":    {},
	"image/jpeg":         {},
	"image/jpg":          {},
	"image/png":          {},
	"application/msword": {},
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": {},
	"application/vnd.ms-excel": {},
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": {},
}

// UploadFile is a file received from a client, not yet stored.
type UploadFile struct {
	Slot        DocumentSlot
	Name        string
	ContentType string
	Size        int64
	Open        func() (io.ReadCloser, error)
}

// CheckFile enforces the per-file size and type rules.
func CheckFile(slot DocumentSlot, name, contentType string, size int64) error {
	if size > MaxDocumentBytes {
		return ErrFileTooLarge(string(slot), MaxDocumentBytes)
	}
	ext := strings.ToLower(filepath.Ext(name))
	if _, ok := allowedExtensions[ext]; !ok {
		return ErrUnsupportedFileType(string(slot), name)
	}
	ct := strings.TrimSpace(contentType)
	if ct == "" || ct == "application/octet-stream" {
		return nil
	}
	mt, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return ErrUnsupportedFileType(string(slot), name)
	}
	if _, ok := allowedMimeTypes[strings.ToLower(mt)]; !ok {
		return ErrUnsupportedFileType(string(slot), name)
	}
	return nil
}

// DocumentSet is the named-slot payload of a submission.
type DocumentSet struct {
	IDDocument           *UploadFile
	ProofOfAddress       *UploadFile
	BusinessRegistration *UploadFile
	AdditionalDocuments  []UploadFile
}

// Files lists every present file in slot order.
func (s DocumentSet) Files() []UploadFile {
	out := make([]UploadFile, 0, 3+len(s.AdditionalDocuments))
	for _, f := range []*UploadFile{s.IDDocument, s.BusinessRegistration, s.ProofOfAddress} {
		if f != nil {
			out = append(out, *f)
		}
	}
	return append(out, s.AdditionalDocuments...)
}

// ValidateFor checks slot presence for the role, then each file.
// businessRegistration is required for founders and refused for everyone else.
func (s DocumentSet) ValidateFor(role string) error {
	if s.IDDocument == nil {
		return ErrMissingRequiredDocument(string(SlotIDDocument))
	}
	switch Role(role) {
	case RoleFounder:
		if s.BusinessRegistration == nil {
			return ErrMissingRequiredDocument(string(SlotBusinessRegistration))
		}
	default:
		if s.BusinessRegistration != nil {
			return ErrUnexpectedDocument(string(SlotBusinessRegistration))
		}
	}
	if s.ProofOfAddress == nil {
		return ErrMissingRequiredDocument(string(SlotProofOfAddress))
	}
	if len(s.AdditionalDocuments) > MaxAdditionalDocuments {
		return ErrTooManyDocuments(string(SlotAdditionalDocuments), MaxAdditionalDocuments)
	}

	for _, f := range s.Files() {
		if err := CheckFile(f.Slot, f.Name, f.ContentType, f.Size); err != nil {
			return err
		}
	}
	return nil
}

// StoredObject is what the document collaborator returns for an upload.
type StoredObject struct {
	URL      string
	PublicID string
	Format   string
	Bytes    int64
}
