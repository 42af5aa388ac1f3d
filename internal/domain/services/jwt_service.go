package services

import (
	"errors"
	"fmt"
	"marciaknow-http-service/internal/domain/models"
	"marciaknow-http-service/internal/infrastructure/config"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

// 令牌有效期
const (
	AccessTokenTTL  = 15 * time.Minute
	RefreshTokenTTL = 24 * time.Hour
)

// InterfaceJWTService defines the JWT service interface
type InterfaceJWTService interface {
	GenerateAccessToken(admin *models.Admin) (string, error)
	GenerateRefreshToken(admin *models.Admin) (string, error)
	ValidateAccessToken(tokenString string) (*jwt.Token, error)
	ValidateRefreshToken(tokenString string) (*jwt.Token, error)
	ExtractAccessClaims(tokenString string) (*AccessClaims, error)
}

// JWTService 提供JWT相关服务，访问令牌与刷新令牌使用独立密钥
type JWTService struct {
	accessSecret  string
	refreshSecret string
	issuer        string
	DB            *gorm.DB
}

// AccessClaims 定义访问令牌的声明结构
type AccessClaims struct {
	AdminID uint            `json:"adminId"`
	Email   string          `json:"email"`
	Roles   models.RoleList `json:"roles"`
	jwt.RegisteredClaims
}

// RefreshClaims 定义刷新令牌的声明结构
type RefreshClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// NewJWTService 创建一个新的JWT服务
func NewJWTService(cfg *config.Config, db *gorm.DB) InterfaceJWTService {
	return &JWTService{
		accessSecret:  cfg.AccessTokenSecret,
		refreshSecret: cfg.RefreshTokenSecret,
		issuer:        "marciaknow-http-service",
		DB:            db,
	}
}

// 1 GenerateAccessToken 生成短期访问令牌
func (s *JWTService) GenerateAccessToken(admin *models.Admin) (string, error) {
	expirationTime := time.Now().Add(AccessTokenTTL)

	claims := &AccessClaims{
		AdminID: admin.ID,
		Email:   admin.Email,
		Roles:   admin.Roles,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.accessSecret))
}

// 2 GenerateRefreshToken 生成长期刷新令牌
func (s *JWTService) GenerateRefreshToken(admin *models.Admin) (string, error) {
	expirationTime := time.Now().Add(RefreshTokenTTL)

	claims := &RefreshClaims{
		Email: admin.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expirationTime),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			NotBefore: jwt.NewNumericDate(time.Now()),
			Issuer:    s.issuer,
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.refreshSecret))
}

// validateWithSecret 使用指定密钥验证令牌
func validateWithSecret(tokenString, secret string) (*jwt.Token, error) {
	return jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// 验证签名算法
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
}

// 3 ValidateAccessToken 验证访问令牌
func (s *JWTService) ValidateAccessToken(tokenString string) (*jwt.Token, error) {
	return validateWithSecret(tokenString, s.accessSecret)
}

// 4 ValidateRefreshToken 验证刷新令牌
func (s *JWTService) ValidateRefreshToken(tokenString string) (*jwt.Token, error) {
	return validateWithSecret(tokenString, s.refreshSecret)
}

// 5 ExtractAccessClaims 从访问令牌中提取声明
func (s *JWTService) ExtractAccessClaims(tokenString string) (*AccessClaims, error) {
	token, err := s.ValidateAccessToken(tokenString)
	if err != nil {
		return nil, err
	}

	if claims, ok := token.Claims.(jwt.MapClaims); ok && token.Valid {
		accessClaims := &AccessClaims{}

		// 提取管理员ID
		if adminID, ok := claims["adminId"].(float64); ok {
			accessClaims.AdminID = uint(adminID)
		}

		// 提取邮箱
		if email, ok := claims["email"].(string); ok {
			accessClaims.Email = email
		}

		// 提取角色列表
		if roles, ok := claims["roles"].([]interface{}); ok {
			for _, r := range roles {
				if role, ok := r.(float64); ok {
					accessClaims.Roles = append(accessClaims.Roles, int(role))
				}
			}
		}

		return accessClaims, nil
	}

	return nil, errors.New("invalid token claims")
}
