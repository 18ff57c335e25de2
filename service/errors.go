package service

import (
	"errors"
	"net/http"

	"github.com/zeebo/errs"

	"kardly-server/models"
)

// Failure classes of the add-photocard workflow and the catalog services.
var (
	// ValidationError marks a missing or inconsistent catalog reference.
	ValidationError = errs.Class("reference validation")
	// UploadError marks a failure of the remote asset store while uploading.
	UploadError = errs.Class("asset upload")
	// PersistError marks an insert or commit failure after a successful upload.
	PersistError = errs.Class("photocard persist")
	// CompensationError marks a failed compensating delete. It is logged, never returned.
	CompensationError = errs.Class("asset compensation")
	// InputError marks a malformed request value.
	InputError = errs.Class("invalid input")
)

var (
	ErrInvalidGroup        = errors.New("group does not exist")
	ErrInvalidMember       = errors.New("member does not exist")
	ErrInvalidAlbum        = errors.New("album does not exist")
	ErrMemberGroupMismatch = errors.New("member does not belong to the specified group")
	ErrAlbumGroupMismatch  = errors.New("album does not belong to the specified group")

	ErrPhotocardNotFound = errors.New("photocard not found")
	ErrNotCardOwner      = errors.New("photocard is owned by another user")

	// ErrUnsupportedImage is returned for payloads outside the allow-list or that do not decode
	ErrUnsupportedImage = errors.New("unsupported image")
	ErrFileTooLarge     = errors.New("upload exceeds the size limit")
	ErrTooManyFiles     = errors.New("more than one file uploaded")
)

type sentinelOutcome struct {
	err     error
	code    models.ReturnCode
	status  int
	message string
}

var sentinelOutcomes = []sentinelOutcome{
	{ErrInvalidGroup, models.CodeInvalidGroup, http.StatusBadRequest, "Group ID does not exist"},
	{ErrInvalidMember, models.CodeInvalidMember, http.StatusBadRequest, "Member ID does not exist"},
	{ErrInvalidAlbum, models.CodeInvalidAlbum, http.StatusBadRequest, "Album ID does not exist"},
	{ErrMemberGroupMismatch, models.CodeMemberGroupMismatch, http.StatusBadRequest, "Member does not belong to the specified group"},
	{ErrAlbumGroupMismatch, models.CodeAlbumGroupMismatch, http.StatusBadRequest, "Album does not belong to the specified group"},
	{ErrPhotocardNotFound, models.CodePhotocardMissing, http.StatusNotFound, "Photocard not found"},
	{ErrNotCardOwner, models.CodeUnauthorized, http.StatusForbidden, "You do not own this photocard"},
	{ErrUnsupportedImage, models.CodeInvalidFileType, http.StatusBadRequest, "Invalid file type. Only JPG, JPEG, PNG, and WEBP images are allowed."},
	{ErrFileTooLarge, models.CodeFileTooLarge, http.StatusBadRequest, "File size exceeds 5MB limit"},
	{ErrTooManyFiles, models.CodeTooManyFiles, http.StatusBadRequest, "Only one file can be uploaded at a time"},
}

// Classify maps an error returned by a service to the code, HTTP status and
// message shown to the caller. Unclassified errors never expose their text.
func Classify(err error) models.Outcome {
	if err == nil {
		return models.Outcome{Code: models.CodeSuccess, Status: http.StatusOK}
	}

	for _, s := range sentinelOutcomes {
		if errors.Is(err, s.err) {
			return models.Outcome{Code: s.code, Status: s.status, Message: s.message}
		}
	}

	switch {
	case InputError.Has(err):
		return models.Outcome{Code: models.CodeValidationError, Status: http.StatusBadRequest, Message: inputMessage(err)}
	case UploadError.Has(err):
		return models.Outcome{Code: models.CodeUploadFailed, Status: http.StatusBadGateway, Message: "Failed to upload image"}
	case PersistError.Has(err):
		return models.Outcome{Code: models.CodeDatabaseError, Status: http.StatusInternalServerError, Message: "Failed to save photocard"}
	default:
		return models.Outcome{Code: models.CodeServerError, Status: http.StatusInternalServerError, Message: "Internal server error"}
	}
}

// inputError carries a message that is safe to show to the caller.
type inputError struct{ msg string }

func (e *inputError) Error() string { return e.msg }

// NewInputError returns an InputError whose message is shown to the caller as is
func NewInputError(msg string) error {
	return InputError.Wrap(&inputError{msg: msg})
}

func inputMessage(err error) string {
	var ie *inputError
	if errors.As(err, &ie) {
		return ie.msg
	}
	return "Invalid request parameters"
}
