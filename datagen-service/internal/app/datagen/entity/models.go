package entity

import "time"

// Restaurant - строка restaurant.json (входной каталог, read-only для пайплайна)
type Restaurant struct {
	RestaurantID int64  `json:"restaurant_id"`
	Name         string `json:"name"`
	Description  string `json:"description"`
	PhoneNumber  string `json:"phone_number"`
	OpeningHours string `json:"opening_hours"`
	IsDeleted    bool   `json:"is_deleted"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// RestaurantLocation - строка restaurant_location.json (1:1 к ресторану)
type RestaurantLocation struct {
	RestaurantID  int64   `json:"restaurant_id"`
	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	AddressLine   string  `json:"address_line"`
	RegionSiDo    string  `json:"region_si_do"`
	RegionSiGunGu string  `json:"region_si_gun_gu"`
	CreatedAt     string  `json:"created_at"`
	UpdatedAt     string  `json:"updated_at"`
}

// RestaurantImage - строка restaurant_image.json (1..5 на ресторан)
type RestaurantImage struct {
	ImageID      int64  `json:"image_id"`
	RestaurantID int64  `json:"restaurant_id"`
	ImagePath    string `json:"image_path"`
	IsDeleted    bool   `json:"is_deleted"`
	Index        int    `json:"index"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// RestaurantCategoryLink - связь ресторан-категория (restaurant_category.json)
type RestaurantCategoryLink struct {
	RCID         int64  `json:"rc_id"`
	RestaurantID int64  `json:"restaurant_id"`
	CategoryID   int64  `json:"category_id"`
	CreatedAt    string `json:"created_at"`
}

// Category - категория ресторана (таблица category либо встроенный список)
type Category struct {
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// UserAccount - строка user_account.json
type UserAccount struct {
	UserID       int64  `json:"user_id"`
	Username     string `json:"username"`
	PasswordHash string `json:"password_hash"`
	Email        string `json:"email"`
	PhoneNumber  string `json:"phone_number"`
	JoinedAt     string `json:"joined_at"`
	IsDeleted    bool   `json:"is_deleted"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

// UserProfile - строка user_profile.json (1:1 к аккаунту)
type UserProfile struct {
	UserID    int64  `json:"user_id"`
	Nickname  string `json:"nickname"`
	ImagePath string `json:"image_path"`
	Bio       string `json:"bio"`
	IsDeleted bool   `json:"is_deleted"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// VisitStop - одна запланированная пара (ресторан, дата визита) внутри плана пользователя
type VisitStop struct {
	RestaurantID int64
	VisitedAt    string // YYYY-MM-DD
}

// Slot - единица работы генератора контента: один будущий отзыв.
// Создается при выравнивании планов визитов, неизменяем после создания.
type Slot struct {
	SlotID                int64
	UserID                int64
	RestaurantID          int64
	RestaurantName        string
	RestaurantDescription string
	VisitedAt             string // YYYY-MM-DD
}

// GeneratedReview - результат генерации для одного слота
// (внешний сервис либо локальный фолбэк), сопоставляется по SlotID
type GeneratedReview struct {
	SlotID     int64   `json:"slot_id"`
	ReviewText string  `json:"review_text"`
	Rating     float64 `json:"rating"`
}

// ReviewRow - итоговая строка review_*.json.
// ReviewID присваивается стримером в момент буферизации, строго монотонно.
type ReviewRow struct {
	ReviewID     int64   `json:"review_id"`
	UserID       int64   `json:"user_id"`
	RestaurantID int64   `json:"restaurant_id"`
	Rating       float64 `json:"rating"`
	ReviewText   string  `json:"review_text"`
	VisitedAt    string  `json:"visited_at"`
	IsDeleted    bool    `json:"is_deleted"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

// ReviewPhotoRow - строка review_photo_*.json.
// PhotoID всегда null: идентификатор присваивает хранилище (SERIAL).
type ReviewPhotoRow struct {
	PhotoID   *int64 `json:"photo_id"`
	ReviewID  int64  `json:"review_id"`
	ImageURL  string `json:"image_url"`
	IsDeleted bool   `json:"is_deleted"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// ChunkEvent - событие REVIEW_CHUNK_WRITTEN, публикуется в Kafka после записи чанка
type ChunkEvent struct {
	EventType    string    `json:"event_type"` // REVIEW_CHUNK_WRITTEN
	RunID        string    `json:"run_id"`
	ReviewFile   string    `json:"review_file"`
	PhotoFile    string    `json:"photo_file"`
	Rows         int       `json:"rows"`
	LastReviewID int64     `json:"last_review_id"`
	Timestamp    time.Time `json:"timestamp"`
}

// CachedReview - закэшированный сгенерированный контент (Redis)
type CachedReview struct {
	ReviewText string  `json:"review_text"`
	Rating     float64 `json:"rating"`
}
