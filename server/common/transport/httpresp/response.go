package httpresp

const (
	KindRejectedInput       = "rejected_input"
	KindStorageWriteFailed  = "storage_write_failed"
	KindMetadataWriteFailed = "metadata_write_failed"
	KindInternal            = "internal"

	MsgFileFieldRequired = "multipart field 'file' is required"
	MsgInvalidBody       = "invalid request body"
)

type ErrorBody struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ErrorResponse is the envelope for every non-2xx body. The message is a
// caller-safe description; underlying causes stay in the server log only.
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

type OKResponse struct {
	OK bool `json:"ok"`
}

type IDResponse struct {
	ID string `json:"id"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UploadResponse struct {
	Message string `json:"message"`
	URL     string `json:"url"`
	ID      string `json:"id"`
}

func NewErrorResponse(kind, message string) ErrorResponse {
	return ErrorResponse{Error: ErrorBody{Kind: kind, Message: message}}
}

func NewOKResponse() OKResponse {
	return OKResponse{OK: true}
}

func NewIDResponse(id string) IDResponse {
	return IDResponse{ID: id}
}

func NewMessageResponse(message string) MessageResponse {
	return MessageResponse{Message: message}
}

func NewUploadResponse(message, url, id string) UploadResponse {
	return UploadResponse{Message: message, URL: url, ID: id}
}
