package model

import (
	"time"
)

// ArticleLike 一行表示一个用户对一篇文章的赞, 联合主键保证不重复
type ArticleLike struct {
	ArticleID int64     `gorm:"column:article_id;primaryKey;autoIncrement:false"`
	UserID    string    `gorm:"column:user_id;type:varchar(64);primaryKey"`
	CreatedAt time.Time `gorm:"type:datetime(3)"`
}

func (ArticleLike) TableName() string {
	return "article_likes"
}
