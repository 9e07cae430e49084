// Package upload turns a multipart verification submission into a domain.DocumentSet.
package upload

import (
	"errors"
	"io"
	"maps"
	"mime/multipart"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/baechuer/real-time-ressys/services/verification-service/internal/domain"
)

// DefaultMaxBody caps the whole multipart body.
const DefaultMaxBody int64 = 60 << 20

// Files up to this size stay in memory; larger ones spill to temp files.
const maxMemory int64 = 16 << 20

var singleSlots = map[string]domain.DocumentSlot{
	string(domain.SlotIDDocument):           domain.SlotIDDocument,
	string(domain.SlotProofOfAddress):       domain.SlotProofOfAddress,
	string(domain.SlotBusinessRegistration): domain.SlotBusinessRegistration,
}

// fieldOrder is the order fields are validated in, so a form with several bad
// files always reports the same one.
var fieldOrder = []string{
	string(domain.SlotIDDocument),
	string(domain.SlotBusinessRegistration),
	string(domain.SlotProofOfAddress),
	string(domain.SlotAdditionalDocuments),
	string(domain.SlotAdditionalDocuments) + "[]",
}

// ParseDocuments reads the named document slots from r. The returned cleanup
// removes any temp files and must be called once the files are no longer needed.
func ParseDocuments(w http.ResponseWriter, r *http.Request, maxBody int64) (domain.DocumentSet, func(), error) {
	noop := func() {}
	if maxBody <= 0 {
		maxBody = DefaultMaxBody
	}

	ct := r.Header.Get("Content-Type")
	if !strings.HasPrefix(strings.ToLower(ct), "multipart/form-data") {
		return domain.DocumentSet{}, noop, domain.ErrInvalidMultipart(errors.New("content type must be multipart/form-data"))
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBody)
	if err := r.ParseMultipartForm(maxMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return domain.DocumentSet{}, noop, domain.WithMeta(domain.ErrInvalidMultipart(err), map[string]string{
				"reason":    "body too large",
				"max_bytes": strconv.FormatInt(maxBody, 10),
			})
		}
		return domain.DocumentSet{}, noop, domain.ErrInvalidMultipart(err)
	}

	form := r.MultipartForm
	cleanup := func() { _ = form.RemoveAll() }

	set, err := collect(form)
	if err != nil {
		cleanup()
		return domain.DocumentSet{}, noop, err
	}
	return set, cleanup, nil
}

func collect(form *multipart.Form) (domain.DocumentSet, error) {
	var set domain.DocumentSet

	for _, name := range slices.Sorted(maps.Keys(form.File)) {
		if !slices.Contains(fieldOrder, name) {
			return domain.DocumentSet{}, domain.ErrUnexpectedDocument(name)
		}
	}

	for _, name := range fieldOrder {
		headers := form.File[name]
		if len(headers) == 0 {
			continue
		}

		if slot, ok := singleSlots[name]; ok {
			if len(headers) > 1 {
				return domain.DocumentSet{}, domain.ErrTooManyDocuments(name, 1)
			}
			f, err := toUploadFile(slot, headers[0])
			if err != nil {
				return domain.DocumentSet{}, err
			}
			switch slot {
			case domain.SlotIDDocument:
				set.IDDocument = &f
			case domain.SlotProofOfAddress:
				set.ProofOfAddress = &f
			case domain.SlotBusinessRegistration:
				set.BusinessRegistration = &f
			}
			continue
		}

		for _, fh := range headers {
			f, err := toUploadFile(domain.SlotAdditionalDocuments, fh)
			if err != nil {
				return domain.DocumentSet{}, err
			}
			set.AdditionalDocuments = append(set.AdditionalDocuments, f)
		}
	}

	if len(set.AdditionalDocuments) > domain.MaxAdditionalDocuments {
		return domain.DocumentSet{}, domain.ErrTooManyDocuments(string(domain.SlotAdditionalDocuments), domain.MaxAdditionalDocuments)
	}
	return set, nil
}

func toUploadFile(slot domain.DocumentSlot, fh *multipart.FileHeader) (domain.UploadFile, error) {
	ct := fh.Header.Get("Content-Type")
	if err := domain.CheckFile(slot, fh.Filename, ct, fh.Size); err != nil {
		return domain.UploadFile{}, err
	}
	return domain.UploadFile{
		Slot:        slot,
		Name:        fh.Filename,
		ContentType: ct,
		Size:        fh.Size,
		Open: func() (io.ReadCloser, error) {
			return fh.Open()
		},
	}, nil
}
