package code

// HTTP状态码.
const (
	// StatusOK - 200: 成功.
	StatusOK = 200
	// StatusBadRequest - 400: 请求参数错误.
	StatusBadRequest = 400
	// StatusUnauthorized - 401: 未授权.
	StatusUnauthorized = 401
	// StatusForbidden - 403: 禁止访问.
	StatusForbidden = 403
	// StatusNotFound - 404: 资源不存在.
	StatusNotFound = 404
	// StatusInternalServerError - 500: 服务器内部错误.
	StatusInternalServerError = 500
	// StatusTooManyRequests - 429: 请求过多.
	StatusTooManyRequests = 429
)

// 通用错误码 (100xxx).
const (
	// ErrSuccess - 200: 成功.
	ErrSuccess int = iota + 100000
	// ErrUnknown - 500: 未知错误.
	ErrUnknown
	// ErrBind - 400: 请求参数绑定错误.
	ErrBind
	// ErrValidation - 400: 请求参数验证错误.
	ErrValidation
	// ErrTokenInvalid - 401: 令牌无效.
	ErrTokenInvalid
	// ErrTooManyRequests - 429: 请求频率过高.
	ErrTooManyRequests
)

// 管理员相关错误码 (101xxx).
const (
	// ErrAdminNotFound - 404: 管理员不存在.
	ErrAdminNotFound int = iota + 101000
	// ErrAdminAlreadyExist - 400: 管理员已存在.
	ErrAdminAlreadyExist
	// ErrAdminPasswordIncorrect - 401: 管理员密码错误.
	ErrAdminPasswordIncorrect
	// ErrAdminDisabled - 403: 管理员账户已禁用.
	ErrAdminDisabled
	// ErrAdminProtected - 403: 超级管理员不可删除.
	ErrAdminProtected
	// ErrRefreshTokenMissing - 401: 缺少刷新令牌.
	ErrRefreshTokenMissing
	// ErrRefreshTokenInvalid - 403: 刷新令牌无效.
	ErrRefreshTokenInvalid
	// ErrTokenVerification - 403: 令牌校验失败.
	ErrTokenVerification
	// ErrEmailMismatch - 403: 令牌与账户不匹配.
	ErrEmailMismatch
)

// 信息亭相关错误码 (102xxx).
const (
	// ErrKioskNotFound - 404: 信息亭不存在.
	ErrKioskNotFound int = iota + 102000
	// ErrKioskAlreadyExist - 400: 信息亭已存在.
	ErrKioskAlreadyExist
	// ErrKioskIDGenerate - 500: 信息亭编号生成失败.
	ErrKioskIDGenerate
)

// 楼栋与房间相关错误码 (103xxx).
const (
	// ErrBuildingNotFound - 404: 楼栋不存在.
	ErrBuildingNotFound int = iota + 103000
	// ErrBuildingAlreadyExist - 400: 楼栋已存在.
	ErrBuildingAlreadyExist
	// ErrRoomNotFound - 404: 房间不存在.
	ErrRoomNotFound
)

// 图片相关错误码 (104xxx).
const (
	// ErrImageFormat - 400: 图片格式不支持.
	ErrImageFormat int = iota + 104000
	// ErrImageDimension - 400: 图片尺寸不符合要求.
	ErrImageDimension
	// ErrImageNotFound - 404: 图片不存在.
	ErrImageNotFound
	// ErrImageTooMany - 400: 图片数量超出限制.
	ErrImageTooMany
)

// 数据库相关错误码 (105xxx).
const (
	// ErrDatabase - 500: 数据库错误.
	ErrDatabase int = iota + 105000
	// ErrRecordNotFound - 404: 记录不存在.
	ErrRecordNotFound
)

// 反馈相关错误码 (106xxx).
const (
	// ErrFeedbackNotFound - 404: 反馈不存在.
	ErrFeedbackNotFound int = iota + 106000
	// ErrFeedbackCategory - 400: 反馈类别无效.
	ErrFeedbackCategory
	// ErrFeedbackStatus - 400: 反馈状态无效.
	ErrFeedbackStatus
	// ErrFeedbackPriority - 400: 反馈优先级无效.
	ErrFeedbackPriority
)

// 智能助手相关错误码 (107xxx).
const (
	// ErrAssistantUpstream - 500: 助手上游服务错误.
	ErrAssistantUpstream int = iota + 107000
	// ErrAssistantParse - 500: 助手响应解析失败.
	ErrAssistantParse
)
