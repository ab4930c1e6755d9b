package model

import (
	"github.com/Guyuepp/go-article-service/domain"
)

type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Name     string `gorm:"type:varchar(128)"`
	Username string `gorm:"type:varchar(64);uniqueIndex"`
	Email    string `gorm:"type:varchar(255)"`
}

func (User) TableName() string {
	return "user"
}

func (m *User) ToDomain() domain.User {
	return domain.User{
		ID:       FormatID(m.ID),
		Name:     m.Name,
		Username: m.Username,
		Email:    m.Email,
	}
}
