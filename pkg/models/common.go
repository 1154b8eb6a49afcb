package models

// Response is the envelope every endpoint returns: {"success":true,"data":...}
// on success, {"success":false,"error":{"message":...}} on failure.
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

type APIError struct {
	Message string `json:"message"`
}

func Success(data interface{}) Response {
	return Response{Success: true, Data: data}
}

func Failure(message string) Response {
	return Response{Success: false, Error: &APIError{Message: message}}
}
