package entity

import "time"

// Review - строка таблицы review; структура совместима с review_*.json
type Review struct {
	ReviewID     int64   `gorm:"column:review_id;primaryKey" json:"review_id"`
	UserID       int64   `gorm:"column:user_id" json:"user_id"`
	RestaurantID int64   `gorm:"column:restaurant_id" json:"restaurant_id"`
	Rating       float64 `gorm:"column:rating" json:"rating"`
	ReviewText   string  `gorm:"column:review_text" json:"review_text"`
	VisitedAt    string  `gorm:"column:visited_at" json:"visited_at"`
	IsDeleted    bool    `gorm:"column:is_deleted" json:"is_deleted"`
	CreatedAt    string  `gorm:"column:created_at" json:"created_at"`
	UpdatedAt    string  `gorm:"column:updated_at" json:"updated_at"`
}

// TableName задает имя таблицы для GORM
func (Review) TableName() string {
	return "review"
}

// ReviewPhoto - строка таблицы review_photo; photo_id в файлах всегда null,
// идентификатор присваивает SERIAL при вставке
type ReviewPhoto struct {
	PhotoID   *int64 `gorm:"column:photo_id;primaryKey;autoIncrement" json:"photo_id"`
	ReviewID  int64  `gorm:"column:review_id" json:"review_id"`
	ImageURL  string `gorm:"column:image_url" json:"image_url"`
	IsDeleted bool   `gorm:"column:is_deleted" json:"is_deleted"`
	CreatedAt string `gorm:"column:created_at" json:"created_at"`
	UpdatedAt string `gorm:"column:updated_at" json:"updated_at"`
}

// TableName задает имя таблицы для GORM
func (ReviewPhoto) TableName() string {
	return "review_photo"
}

// RestaurantReviewStats - агрегат по отзывам ресторана
type RestaurantReviewStats struct {
	RestaurantID int64     `gorm:"column:restaurant_id;primaryKey" json:"restaurant_id"`
	ReviewCount  int       `gorm:"column:review_count" json:"review_count"`
	AvgRating    float64   `gorm:"column:avg_rating" json:"avg_rating"`
	UpdatedAt    time.Time `gorm:"column:updated_at" json:"updated_at"`
}

// TableName задает имя таблицы для GORM
func (RestaurantReviewStats) TableName() string {
	return "restaurant_review_stats"
}

// LoadSummary - итог загрузки для финального лога
type LoadSummary struct {
	ReviewFiles     int   `json:"review_files"`
	PhotoFiles      int   `json:"photo_files"`
	ReviewsInserted int64 `json:"reviews_inserted"`
	PhotosInserted  int64 `json:"photos_inserted"`
	StatsRebuilt    bool  `json:"stats_rebuilt"`
}
