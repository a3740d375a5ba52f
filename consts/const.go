package consts

import (
	"errors"
	"strconv"
)

// 通用错误码
const (
	CodeSuccess = 0 // 成功
)

// 客户端错误 (1xxxx)
const (
	CodeParamError       = 10001 // 参数验证失败
	CodeBodyError        = 10002 // 请求体格式错误
	CodeResourceNotFound = 10003 // 资源不存在
	CodeMethodNotAllowed = 10004 // 请求方法不允许
	CodeTooManyRequests  = 10005 // 请求过于频繁
)

// 用户模块错误 (11xxx)
const (
	CodeUserNotFound = 11001 // 用户不存在
	CodeUserDisabled = 11002 // 用户已被禁用
)

// 推荐模块错误 (15xxx)
const (
	CodeRecipientNotEligible = 15001 // 用户未完成推荐教程
	CodeSuggestEmpty         = 15002 // 暂无可推荐的用户
)

// 服务端错误 (3xxxx)
const (
	CodeInternalError      = 30001 // 服务器内部错误
	CodeServiceUnavailable = 30002 // 服务暂不可用
)

// 错误消息映射
var CodeMessage = map[int32]string{
	CodeSuccess: "success",

	// 客户端错误
	CodeParamError:       "参数验证失败",
	CodeBodyError:        "请求体格式错误",
	CodeResourceNotFound: "资源不存在",
	CodeMethodNotAllowed: "请求方法不允许",
	CodeTooManyRequests:  "请求过于频繁",

	// 用户模块
	CodeUserNotFound: "用户不存在",
	CodeUserDisabled: "用户已被禁用",

	// 推荐模块
	CodeRecipientNotEligible: "请先完成推荐好友引导",
	CodeSuggestEmpty:         "暂无可推荐的用户",

	// 服务端错误
	CodeInternalError:      "服务器内部错误",
	CodeServiceUnavailable: "服务暂不可用",
}

// GetMessage 根据错误码获取错误消息
func GetMessage(code int32) string {
	if msg, ok := CodeMessage[code]; ok {
		return msg
	}
	return "未知错误"
}

// IsNonServerError 判断是否为客户端/业务错误（非 3xxxx），此类错误不打 Error 日志
func IsNonServerError(code int32) bool {
	return code > 0 && code < 30000
}

// ==================== 业务错误 ====================

// BizError 携带业务错误码的 error，service 层返回，handler 层展开成响应码。
type BizError struct {
	Code int32
}

func (e *BizError) Error() string {
	return strconv.Itoa(int(e.Code)) + ": " + GetMessage(e.Code)
}

// NewBizError 创建业务错误
func NewBizError(code int32) error {
	return &BizError{Code: code}
}

// ExtractErrorCode 提取业务错误码，非业务错误一律归为内部错误
func ExtractErrorCode(err error) int32 {
	if err == nil {
		return CodeSuccess
	}
	var biz *BizError
	if errors.As(err, &biz) {
		return biz.Code
	}
	return CodeInternalError
}
