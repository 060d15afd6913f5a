package utils

import (
	"encoding/json"
	"net/http"
)

// ErrorBody 是所有错误响应的结构，字段名与前端约定一致。
type ErrorBody struct {
	Detail string `json:"detail"`
}

// RespondJSON 发送JSON响应，返回编码错误供调用方记录。
func RespondJSON(w http.ResponseWriter, status int, payload any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(payload)
}

// RespondError 发送错误响应
func RespondError(w http.ResponseWriter, status int, message string) error {
	return RespondJSON(w, status, ErrorBody{Detail: message})
}
