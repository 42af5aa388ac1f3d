package services

import (
	"errors"
	"time"

	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// 管理员服务的业务错误
var (
	ErrAdminNotFound       = errors.New("管理员不存在")
	ErrEmailTaken          = errors.New("邮箱已被注册")
	ErrPasswordTooShort    = errors.New("密码长度不能少于8位")
	ErrWrongPassword       = errors.New("密码错误")
	ErrAccountDisabled     = errors.New("账户已被禁用")
	ErrSuperAdminProtected = errors.New("超级管理员账户不可删除")
)

// 重置密码后的默认口令
const DefaultResetPassword = "password"

// MinPasswordLength 密码最小长度
const MinPasswordLength = 8

// InterfaceAdminService defines the admin service interface
type InterfaceAdminService interface {
	GetAllAdmins() ([]models.Admin, error)
	GetAdminByID(id uint) (*models.Admin, error)
	GetAdminByEmail(email string) (*models.Admin, error)
	CreateAdmin(admin *models.Admin, plainPassword string) error
	Login(email, password string) (*models.Admin, error)
	StoreRefreshToken(adminID uint, token string) error
	FindByRefreshToken(token string) (*models.Admin, error)
	Logout(refreshToken string) error
	UpdateAdmin(id uint, updates map[string]interface{}) (*models.Admin, error)
	UpdatePassword(id uint, oldPassword, newPassword string) error
	ResetPassword(id uint) error
	SetDisabled(id uint, disabled bool) error
	DeleteAdmin(id uint) error
	TouchLastSeen(id uint) error
}

// AdminService 提供管理员相关的服务
type AdminService struct {
	DB     *gorm.DB
	Config *config.Config
}

// NewAdminService 创建一个新的管理员服务
func NewAdminService(db *gorm.DB, cfg *config.Config) InterfaceAdminService {
	return &AdminService{
		DB:     db,
		Config: cfg,
	}
}

// hashPassword 生成密码的bcrypt哈希
func hashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// checkPasswordHash 校验明文密码与存储的哈希是否匹配
func checkPasswordHash(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// 1 GetAllAdmins 获取所有管理员列表
func (s *AdminService) GetAllAdmins() ([]models.Admin, error) {
	var admins []models.Admin
	if err := s.DB.Order("id ASC").Find(&admins).Error; err != nil {
		return nil, err
	}

	return admins, nil
}

// 2 GetAdminByID 根据ID获取管理员
func (s *AdminService) GetAdminByID(id uint) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.First(&admin, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &admin, nil
}

// 3 GetAdminByEmail 根据邮箱获取管理员
func (s *AdminService) GetAdminByEmail(email string) (*models.Admin, error) {
	var admin models.Admin
	if err := s.DB.Where("email = ?", email).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &admin, nil
}

// 4 CreateAdmin 创建新管理员账户
func (s *AdminService) CreateAdmin(admin *models.Admin, plainPassword string) error {
	// 邮箱唯一性
	var count int64
	if err := s.DB.Model(&models.Admin{}).Where("email = ?", admin.Email).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}

	// 密码强度
	if len(plainPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := hashPassword(plainPassword)
	if err != nil {
		return err
	}
	admin.Password = hashed

	if admin.Roles == nil {
		admin.Roles = models.RoleList{}
	}
	if admin.Status == "" {
		admin.Status = models.AdminStatusOffline
	}

	return s.DB.Create(admin).Error
}

// 5 Login 校验凭证，成功时刷新登录时间与在线状态
func (s *AdminService) Login(email, password string) (*models.Admin, error) {
	admin, err := s.GetAdminByEmail(email)
	if err != nil {
		return nil, err
	}

	if admin.IsDisabled {
		return nil, ErrAccountDisabled
	}

	if !checkPasswordHash(password, admin.Password) {
		return nil, ErrWrongPassword
	}

	now := time.Now()
	if err := s.DB.Model(admin).Updates(map[string]interface{}{
		"last_login": now,
		"status":     models.AdminStatusOnline,
	}).Error; err != nil {
		return nil, err
	}
	admin.LastLogin = &now
	admin.Status = models.AdminStatusOnline

	return admin, nil
}

// 6 StoreRefreshToken 保存单一有效刷新令牌
func (s *AdminService) StoreRefreshToken(adminID uint, token string) error {
	return s.DB.Model(&models.Admin{}).Where("id = ?", adminID).
		Update("refresh_token", token).Error
}

// 7 FindByRefreshToken 按存储的刷新令牌查找管理员
func (s *AdminService) FindByRefreshToken(token string) (*models.Admin, error) {
	if token == "" {
		return nil, ErrAdminNotFound
	}

	var admin models.Admin
	if err := s.DB.Where("refresh_token = ?", token).First(&admin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, err
	}

	return &admin, nil
}

// 8 Logout 注销会话。令牌不存在时静默成功，保证注销幂等。
func (s *AdminService) Logout(refreshToken string) error {
	admin, err := s.FindByRefreshToken(refreshToken)
	if err != nil {
		if errors.Is(err, ErrAdminNotFound) {
			return nil
		}
		return err
	}

	return s.DB.Model(admin).Updates(map[string]interface{}{
		"refresh_token": "",
		"status":        models.AdminStatusOffline,
	}).Error
}

// 9 UpdateAdmin 更新管理员信息
func (s *AdminService) UpdateAdmin(id uint, updates map[string]interface{}) (*models.Admin, error) {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return nil, err
	}

	// 更新邮箱时校验唯一性
	if email, ok := updates["email"].(string); ok && email != admin.Email {
		var count int64
		if err := s.DB.Model(&models.Admin{}).Where("email = ? AND id != ?", email, id).Count(&count).Error; err != nil {
			return nil, err
		}
		if count > 0 {
			return nil, ErrEmailTaken
		}
	}

	if err := s.DB.Model(admin).Updates(updates).Error; err != nil {
		return nil, err
	}

	return s.GetAdminByID(id)
}

// 10 UpdatePassword 校验旧密码后更新密码
func (s *AdminService) UpdatePassword(id uint, oldPassword, newPassword string) error {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return err
	}

	if !checkPasswordHash(oldPassword, admin.Password) {
		return ErrWrongPassword
	}
	if len(newPassword) < MinPasswordLength {
		return ErrPasswordTooShort
	}

	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	return s.DB.Model(admin).Update("password", hashed).Error
}

// 11 ResetPassword 将密码重置为默认口令
func (s *AdminService) ResetPassword(id uint) error {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return err
	}

	hashed, err := hashPassword(DefaultResetPassword)
	if err != nil {
		return err
	}

	return s.DB.Model(admin).Update("password", hashed).Error
}

// 12 SetDisabled 启用或禁用账户，禁用时同时撤销刷新令牌
func (s *AdminService) SetDisabled(id uint, disabled bool) error {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"is_disabled": disabled}
	if disabled {
		updates["refresh_token"] = ""
		updates["status"] = models.AdminStatusOffline
	}

	return s.DB.Model(admin).Updates(updates).Error
}

// 13 DeleteAdmin 删除管理员，超级管理员受保护
func (s *AdminService) DeleteAdmin(id uint) error {
	admin, err := s.GetAdminByID(id)
	if err != nil {
		return err
	}

	if admin.Roles.Contains(s.Config.RoleSuperAdmin) {
		return ErrSuperAdminProtected
	}

	return s.DB.Delete(admin).Error
}

// 14 TouchLastSeen 刷新在线状态心跳
func (s *AdminService) TouchLastSeen(id uint) error {
	now := time.Now()
	return s.DB.Model(&models.Admin{}).Where("id = ?", id).Updates(map[string]interface{}{
		"last_login": now,
		"status":     models.AdminStatusOnline,
	}).Error
}
