package models

import (
	"time"
)

// 反馈类别
const (
	FeedbackCategoryBug        = "Bug"
	FeedbackCategorySuggestion = "Suggestion"
	FeedbackCategoryComplaint  = "Complaint"
	FeedbackCategoryPraise     = "Praise"
)

// 反馈处理状态
const (
	FeedbackStatusNew        = "New"
	FeedbackStatusReviewed   = "Reviewed"
	FeedbackStatusInProgress = "In Progress"
	FeedbackStatusResolved   = "Resolved"
)

// 反馈优先级
const (
	FeedbackPriorityLow      = "Low"
	FeedbackPriorityMedium   = "Medium"
	FeedbackPriorityHigh     = "High"
	FeedbackPriorityCritical = "Critical"
)

// ValidFeedbackCategories 所有合法的反馈类别
var ValidFeedbackCategories = []string{
	FeedbackCategoryBug,
	FeedbackCategorySuggestion,
	FeedbackCategoryComplaint,
	FeedbackCategoryPraise,
}

// ValidFeedbackStatuses 所有合法的反馈状态
var ValidFeedbackStatuses = []string{
	FeedbackStatusNew,
	FeedbackStatusReviewed,
	FeedbackStatusInProgress,
	FeedbackStatusResolved,
}

// ValidFeedbackPriorities 所有合法的反馈优先级
var ValidFeedbackPriorities = []string{
	FeedbackPriorityLow,
	FeedbackPriorityMedium,
	FeedbackPriorityHigh,
	FeedbackPriorityCritical,
}

// MaxFeedbackAttachments 单条反馈允许的最大附件数
const MaxFeedbackAttachments = 5

// MaxFeedbackMessageLength 反馈内容的最大字符数，与Message列宽一致
const MaxFeedbackMessageLength = 2000

// Feedback represents visitor feedback submitted from a kiosk
type Feedback struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Message       string    `gorm:"type:varchar(2000);not null" json:"message"`
	Category      string    `gorm:"type:varchar(20);index;not null" json:"category"`
	KioskLocation string    `gorm:"type:varchar(100)" json:"kioskLocation,omitempty"`
	PageSection   string    `gorm:"type:varchar(100)" json:"pageSection,omitempty"`
	Status        string    `gorm:"type:varchar(20);index;default:'New'" json:"status"`
	UserEmail     string    `gorm:"type:varchar(100)" json:"userEmail,omitempty"`
	UserPhone     string    `gorm:"type:varchar(30)" json:"userPhone,omitempty"`
	Priority      string    `gorm:"type:varchar(20);index;default:'Medium'" json:"priority"`
	AssignedTo    string    `gorm:"type:varchar(100)" json:"assignedTo,omitempty"`
	AdminNotes    string    `gorm:"type:varchar(1000)" json:"adminNotes,omitempty"`
	IPAddress     string    `gorm:"type:varchar(45)" json:"-"`
	UserAgent     string    `gorm:"type:varchar(255)" json:"-"`
	SessionID     string    `gorm:"type:varchar(64)" json:"sessionID,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`

	// Relations
	Attachments []Image `gorm:"foreignKey:FeedbackID" json:"attachments,omitempty"`
}

// IsValidFeedbackCategory 判断反馈类别是否合法
func IsValidFeedbackCategory(category string) bool {
	for _, v := range ValidFeedbackCategories {
		if v == category {
			return true
		}
	}
	return false
}

// IsValidFeedbackStatus 判断反馈状态是否合法
func IsValidFeedbackStatus(status string) bool {
	for _, v := range ValidFeedbackStatuses {
		if v == status {
			return true
		}
	}
	return false
}

// IsValidFeedbackPriority 判断反馈优先级是否合法
func IsValidFeedbackPriority(priority string) bool {
	for _, v := range ValidFeedbackPriorities {
		if v == priority {
			return true
		}
	}
	return false
}
