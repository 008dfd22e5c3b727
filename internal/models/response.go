package models

type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Error   string      `json:"error,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

func SuccessResponse(data interface{}, message string) Response {
	return Response{
		Success: true,
		Message: message,
		Data:    data,
	}
}

func ErrorResponse(err string) Response {
	return Response{
		Success: false,
		Error:   err,
	}
}

// Paginated wraps list responses that take limit/offset query params.
type Paginated struct {
	Items  interface{} `json:"items"`
	Limit  int         `json:"limit"`
	Offset int         `json:"offset"`
}
