package server

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/rushteam/scentkit/core"
)

type errorBody struct {
	Error string `json:"error"`
}

type messageBody struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError 把领域错误映射为 HTTP 状态码：NOT_FOUND 404，INVALID_INPUT 400，其余 500。
// 500 只返回通用信息，原始错误写日志。
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	msg := "internal error"
	if de := core.GetDomainError(err); de != nil {
		switch de.Code {
		case core.ErrorCodeNotFound:
			status, msg = http.StatusNotFound, de.Message
		case core.ErrorCodeInvalidInput:
			status, msg = http.StatusBadRequest, de.Message
		case core.ErrorCodeUnavailable:
			status, msg = http.StatusServiceUnavailable, de.Message
		}
	}
	if status >= http.StatusInternalServerError {
		zerolog.Ctx(r.Context()).Error().Err(err).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: msg})
}

var errInvalidBody = core.NewDomainError("http", core.ErrorCodeInvalidInput, "invalid request body")

// decode 解析 JSON 请求体并按 validate tag 校验。
func (s *Server) decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return errInvalidBody
	}
	if err := s.validate.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			return core.NewDomainError("http", core.ErrorCodeInvalidInput,
				fmt.Sprintf("%s is invalid (%s)", jsonFieldName(verrs[0]), verrs[0].Tag()))
		}
		return errInvalidBody
	}
	return nil
}

func jsonFieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		ns = ns[i+1:]
	}
	return ns
}

// queryInt 读取整数查询参数，缺省时返回 def，非法时返回 INVALID_INPUT。
func queryInt(r *http.Request, key string, def int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, core.NewDomainError("http", core.ErrorCodeInvalidInput, key+" must be an integer")
	}
	return v, nil
}

func queryFloat(r *http.Request, key string) (float64, bool, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(key))
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false, core.NewDomainError("http", core.ErrorCodeInvalidInput, key+" must be a number")
	}
	return v, true, nil
}

func pathInt64(raw string) (int64, error) {
	v, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, core.NewDomainError("http", core.ErrorCodeInvalidInput, "id must be an integer")
	}
	return v, nil
}
