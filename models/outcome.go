package models

// ReturnCode is the stable classification carried by every API response
type ReturnCode string

const (
	CodeSuccess             ReturnCode = "SUCCESS"
	CodeValidationError     ReturnCode = "VALIDATION_ERROR"
	CodeInvalidGroup        ReturnCode = "INVALID_GROUP"
	CodeInvalidMember       ReturnCode = "INVALID_MEMBER"
	CodeInvalidAlbum        ReturnCode = "INVALID_ALBUM"
	CodeMemberGroupMismatch ReturnCode = "MEMBER_GROUP_MISMATCH"
	CodeAlbumGroupMismatch  ReturnCode = "ALBUM_GROUP_MISMATCH"
	CodeUploadFailed        ReturnCode = "UPLOAD_FAILED"
	CodeDatabaseError       ReturnCode = "DATABASE_ERROR"
	CodeServerError         ReturnCode = "SERVER_ERROR"

	CodeFileTooLarge     ReturnCode = "FILE_TOO_LARGE"
	CodeInvalidFileType  ReturnCode = "INVALID_FILE_TYPE"
	CodeTooManyFiles     ReturnCode = "TOO_MANY_FILES"
	CodeNotFound         ReturnCode = "NOT_FOUND"
	CodeNoToken          ReturnCode = "NO_TOKEN"
	CodeInvalidToken     ReturnCode = "INVALID_TOKEN"
	CodeTokenExpired     ReturnCode = "TOKEN_EXPIRED"
	CodePhotocardMissing ReturnCode = "PHOTOCARD_NOT_FOUND"
	CodeUnauthorized     ReturnCode = "UNAUTHORIZED"
)

// Outcome is the caller-visible result of a classified error
type Outcome struct {
	Code    ReturnCode
	Status  int
	Message string
}
