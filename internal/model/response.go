package model

// Response is the JSON envelope of every API response.
type Response struct {
	Data    interface{} `json:"data,omitempty"`
	Error   *string     `json:"error,omitempty"`
	Message string      `json:"message"`
}

// Success wraps data in an envelope with the "Success" message.
func Success(data interface{}) Response {
	return Response{Data: data, Message: "Success"}
}

// Failure builds an error envelope.
func Failure(errMsg, message string) Response {
	if message == "" {
		message = "Error"
	}
	return Response{Error: &errMsg, Message: message}
}
