package code

// 错误码消息映射
var codeMessageMap = map[int]string{
	// 通用错误码
	ErrSuccess:         "成功",
	ErrUnknown:         "未知错误",
	ErrBind:            "请求参数绑定错误",
	ErrValidation:      "请求参数验证错误",
	ErrTokenInvalid:    "无效的认证令牌",
	ErrTooManyRequests: "请求频率过高",

	// 管理员相关错误码
	ErrAdminNotFound:          "管理员不存在",
	ErrAdminAlreadyExist:      "管理员已存在",
	ErrAdminPasswordIncorrect: "管理员密码错误",
	ErrAdminDisabled:          "账户已被禁用",
	ErrAdminProtected:         "超级管理员账户不可删除",
	ErrRefreshTokenMissing:    "缺少刷新令牌",
	ErrRefreshTokenInvalid:    "刷新令牌无效",
	ErrTokenVerification:      "令牌校验失败",
	ErrEmailMismatch:          "令牌与账户不匹配",

	// 信息亭相关错误码
	ErrKioskNotFound:     "信息亭不存在",
	ErrKioskAlreadyExist: "信息亭已存在",
	ErrKioskIDGenerate:   "信息亭编号生成失败",

	// 楼栋与房间相关错误码
	ErrBuildingNotFound:     "楼栋不存在",
	ErrBuildingAlreadyExist: "楼栋已存在",
	ErrRoomNotFound:         "房间不存在",

	// 图片相关错误码
	ErrImageFormat:    "仅支持JPEG和PNG格式图片",
	ErrImageDimension: "图片尺寸不符合要求",
	ErrImageNotFound:  "图片不存在",
	ErrImageTooMany:   "图片数量超出限制",

	// 数据库相关错误码
	ErrDatabase:       "数据库错误",
	ErrRecordNotFound: "记录不存在",

	// 反馈相关错误码
	ErrFeedbackNotFound: "反馈不存在",
	ErrFeedbackCategory: "反馈类别无效",
	ErrFeedbackStatus:   "反馈状态无效",
	ErrFeedbackPriority: "反馈优先级无效",

	// 智能助手相关错误码
	ErrAssistantUpstream: "助手上游服务错误",
	ErrAssistantParse:    "助手响应解析失败",
}

// 错误码HTTP状态码映射
var codeStatusMap = map[int]int{
	// 通用错误码
	ErrSuccess:         StatusOK,
	ErrUnknown:         StatusInternalServerError,
	ErrBind:            StatusBadRequest,
	ErrValidation:      StatusBadRequest,
	ErrTokenInvalid:    StatusUnauthorized,
	ErrTooManyRequests: StatusTooManyRequests,

	// 管理员相关错误码
	ErrAdminNotFound:          StatusNotFound,
	ErrAdminAlreadyExist:      StatusBadRequest,
	ErrAdminPasswordIncorrect: StatusUnauthorized,
	ErrAdminDisabled:          StatusForbidden,
	ErrAdminProtected:         StatusForbidden,
	ErrRefreshTokenMissing:    StatusUnauthorized,
	ErrRefreshTokenInvalid:    StatusForbidden,
	ErrTokenVerification:      StatusForbidden,
	ErrEmailMismatch:          StatusForbidden,

	// 信息亭相关错误码
	ErrKioskNotFound:     StatusNotFound,
	ErrKioskAlreadyExist: StatusBadRequest,
	ErrKioskIDGenerate:   StatusInternalServerError,

	// 楼栋与房间相关错误码
	ErrBuildingNotFound:     StatusNotFound,
	ErrBuildingAlreadyExist: StatusBadRequest,
	ErrRoomNotFound:         StatusNotFound,

	// 图片相关错误码
	ErrImageFormat:    StatusBadRequest,
	ErrImageDimension: StatusBadRequest,
	ErrImageNotFound:  StatusNotFound,
	ErrImageTooMany:   StatusBadRequest,

	// 数据库相关错误码
	ErrDatabase:       StatusInternalServerError,
	ErrRecordNotFound: StatusNotFound,

	// 反馈相关错误码
	ErrFeedbackNotFound: StatusNotFound,
	ErrFeedbackCategory: StatusBadRequest,
	ErrFeedbackStatus:   StatusBadRequest,
	ErrFeedbackPriority: StatusBadRequest,

	// 智能助手相关错误码
	ErrAssistantUpstream: StatusInternalServerError,
	ErrAssistantParse:    StatusInternalServerError,
}

// GetMessage 获取错误码对应的消息
func GetMessage(code int) string {
	if msg, ok := codeMessageMap[code]; ok {
		return msg
	}
	return "未知错误"
}

// GetStatus 获取错误码对应的HTTP状态码
func GetStatus(code int) int {
	if status, ok := codeStatusMap[code]; ok {
		return status
	}
	return StatusInternalServerError
}
