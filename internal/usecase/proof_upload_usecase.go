package usecase

import (
	"context"
	"mime/multipart"
	"time"

	"tukarlapak/internal/domain/entity"
	"tukarlapak/internal/domain/service"
	"tukarlapak/pkg/errors"
	"tukarlapak/pkg/logger"
)

const maxProofFileSize = 10 << 20 // 10 MB

var allowedProofMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/jpg":       true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
}

const proofStorageFolder = "disputes/proofs"

// ProofUploadUseCase is the upload guard in front of the storage
// collaborator: it caps the batch at five files, rejects anything that is
// not a PDF or image, and hands back the stored metadata.
type ProofUploadUseCase struct {
	storage service.FileUploadService
}

func NewProofUploadUseCase(storage service.FileUploadService) *ProofUploadUseCase {
	return &ProofUploadUseCase{
		storage: storage,
	}
}

func (uc *ProofUploadUseCase) UploadProofs(ctx context.Context, uploaderID string, files []*multipart.FileHeader) ([]entity.ProofFile, error) {
	if len(files) == 0 {
		return nil, nil
	}
	if len(files) > entity.MaxProofFiles {
		return nil, errors.BadRequest("A maximum of 5 proof files is allowed per submission", nil)
	}

	var proofs []entity.ProofFile
	for _, fileHeader := range files {
		contentType := fileHeader.Header.Get("Content-Type")
		if !allowedProofMimeTypes[contentType] {
			return nil, errors.BadRequest("Only PDF and image files are accepted as proof", nil)
		}
		if fileHeader.Size > maxProofFileSize {
			return nil, errors.BadRequest("Proof files must be 10MB or smaller", nil)
		}

		file, err := fileHeader.Open()
		if err != nil {
			return nil, errors.Internal("Failed to read uploaded file", err)
		}

		url, err := uc.storage.UploadFile(ctx, file, contentType, proofStorageFolder)
		file.Close()
		if err != nil {
			return nil, errors.Internal("Failed to store proof file", err)
		}

		proofs = append(proofs, entity.ProofFile{
			Name:       fileHeader.Filename,
			URL:        url,
			Size:       fileHeader.Size,
			MimeType:   contentType,
			UploadedBy: uploaderID,
			UploadedAt: time.Now(),
		})
	}

	return proofs, nil
}

// RemoveProofs deletes stored proofs whose dispute submission was rejected,
// so failed requests do not leave orphaned files in the bucket. Best effort;
// a leaked file is logged, not surfaced.
func (uc *ProofUploadUseCase) RemoveProofs(ctx context.Context, proofs []entity.ProofFile) {
	for _, proof := range proofs {
		if err := uc.storage.DeleteFile(ctx, proof.URL); err != nil {
			logger.Warn("Failed to remove rejected proof %s: %v", proof.URL, err)
		}
	}
}
