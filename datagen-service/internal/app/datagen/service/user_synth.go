package service

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math/rand"
	"time"

	"matjip/datagen-service/internal/app/datagen/entity"
	"matjip/datagen-service/internal/app/datagen/repository"
	"matjip/pkg/logger"
)

// Сид синтеза пользователей независим от сида пайплайна отзывов
const userSynthSeed = 1337

var emailDomains = []string{
	"gmail.com", "naver.com", "daum.net", "kakao.com",
	"outlook.com", "icloud.com", "yahoo.com",
}

var korSyllables = []rune("가나다라마바사아자차카타파하허호희휴효혜예요유윤연영예우은은정준진지지수서선성세소송승시신아연영윤예유은주지하현호희환훈휘효")

var korNickPrefixes = []string{
	"푸른", "행복한", "웃는", "조용한", "작은", "큰", "느린", "빠른", "새벽의",
	"저녁의", "달빛", "햇살", "초록", "파랑", "노을", "봄날", "가을", "겨울",
	"따뜻한", "진지한", "싱그런", "산뜻한", "정다운", "기쁜",
}

var korNickNouns = []string{
	"고래", "여우", "판다", "수달", "고양이", "강아지", "고슴도치", "토끼",
	"참새", "부엉이", "펭귄", "코알라", "다람쥐", "돌고래", "스라소니", "늑대",
	"호랑이", "사자", "치타", "여치", "달팽이", "노루", "사슴", "두더지",
}

const (
	usernameChars = "abcdefghijklmnopqrstuvwxyz0123456789"
	saltChars     = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// UserSynthesizer генерирует входные каталоги user_account.json / user_profile.json
type UserSynthesizer struct {
	catalogRepo repository.CatalogRepository
	count       int
}

// NewUserSynthesizer создает новый генератор пользователей
func NewUserSynthesizer(catalogRepo repository.CatalogRepository, count int) *UserSynthesizer {
	return &UserSynthesizer{
		catalogRepo: catalogRepo,
		count:       count,
	}
}

// Generate создает count аккаунтов с профилями и сохраняет оба каталога
func (s *UserSynthesizer) Generate() error {
	rng := rand.New(rand.NewSource(userSynthSeed))

	users := make([]entity.UserAccount, 0, s.count)
	profiles := make([]entity.UserProfile, 0, s.count)

	usernames := make(map[string]struct{}, s.count)
	emails := make(map[string]struct{}, s.count)
	nicknames := make(map[string]struct{}, s.count)

	for uid := int64(1); uid <= int64(s.count); uid++ {
		createdTS := randDateRecent(rng, 3).Format(generatedAtLayout)

		username := genUsername(rng, usernames)
		email := genEmail(rng, username, emails)
		nick := genNickname(rng, nicknames)

		users = append(users, entity.UserAccount{
			UserID:       uid,
			Username:     username,
			PasswordHash: passwordFromUsername(rng, username),
			Email:        email,
			PhoneNumber:  genPhone(rng),
			JoinedAt:     createdTS,
			IsDeleted:    false,
			CreatedAt:    createdTS,
			UpdatedAt:    createdTS,
		})

		profiles = append(profiles, entity.UserProfile{
			UserID:    uid,
			Nickname:  nick,
			ImagePath: fmt.Sprintf("/u/%d", uid),
			Bio:       profileBio(rng, nick),
			IsDeleted: false,
			CreatedAt: createdTS,
			UpdatedAt: createdTS,
		})
	}

	if err := s.catalogRepo.SaveUserAccounts(users); err != nil {
		return fmt.Errorf("failed to save user accounts: %w", err)
	}
	if err := s.catalogRepo.SaveUserProfiles(profiles); err != nil {
		return fmt.Errorf("failed to save user profiles: %w", err)
	}

	logger.Info().Int("users", len(users)).Msg("User catalog generated")

	return nil
}

// randDateRecent возвращает случайный момент за последние years лет
func randDateRecent(rng *rand.Rand, years int) time.Time {
	now := time.Now()
	span := int64(years) * 365 * 24 * 3600
	return now.Add(-time.Duration(span-rng.Int63n(span)) * time.Second)
}

// saltedSHA256 хэширует текст с 8-символьной солью, формат sha256$salt$hex
func saltedSHA256(rng *rand.Rand, text string) string {
	salt := make([]byte, 8)
	for i := range salt {
		salt[i] = saltChars[rng.Intn(len(saltChars))]
	}
	sum := sha256.Sum256(append(salt, []byte(text)...))
	return fmt.Sprintf("sha256$%s$%s", string(salt), hex.EncodeToString(sum[:]))
}

// genPhone генерирует номер формата 010-XXXX-XXXX
func genPhone(rng *rand.Rand) string {
	return fmt.Sprintf("010-%d-%d", 1000+rng.Intn(9000), 1000+rng.Intn(9000))
}

// genUsername генерирует уникальный логин: латиница+цифры, 6-12 символов
func genUsername(rng *rand.Rand, existing map[string]struct{}) string {
	for {
		n := 6 + rng.Intn(7)
		b := make([]byte, n)
		for i := range b {
			b[i] = usernameChars[rng.Intn(len(usernameChars))]
		}
		uname := string(b)
		if _, ok := existing[uname]; !ok {
			existing[uname] = struct{}{}
			return uname
		}
	}
}

// genEmail строит email от логина; при коллизии добавляет числовой суффикс
func genEmail(rng *rand.Rand, username string, existing map[string]struct{}) string {
	base := fmt.Sprintf("%s@%s", username, emailDomains[rng.Intn(len(emailDomains))])
	if _, ok := existing[base]; !ok {
		existing[base] = struct{}{}
		return base
	}
	for n := 1; ; n++ {
		cand := fmt.Sprintf("%s%d@%s", username, n, emailDomains[rng.Intn(len(emailDomains))])
		if _, ok := existing[cand]; !ok {
			existing[cand] = struct{}{}
			return cand
		}
	}
}

// genNickname генерирует ник: 65% (префикс + животное), иначе 2-4 случайных слога
func genNickname(rng *rand.Rand, existing map[string]struct{}) string {
	var nick string
	if rng.Float64() < 0.65 {
		nick = korNickPrefixes[rng.Intn(len(korNickPrefixes))] + " " + korNickNouns[rng.Intn(len(korNickNouns))]
	} else {
		n := 2 + rng.Intn(3)
		runes := make([]rune, n)
		for i := range runes {
			runes[i] = korSyllables[rng.Intn(len(korSyllables))]
		}
		nick = string(runes)
	}
	for {
		if _, ok := existing[nick]; !ok {
			break
		}
		nick = fmt.Sprintf("%s%d", nick, 2+rng.Intn(9998))
	}
	existing[nick] = struct{}{}
	return nick
}

// passwordFromUsername строит демо-пароль от логина и хэширует его
func passwordFromUsername(rng *rand.Rand, username string) string {
	raw := fmt.Sprintf("%s!%d", username, 10+rng.Intn(90))
	return saltedSHA256(rng, raw)
}

// profileBio выбирает короткое описание профиля
func profileBio(rng *rand.Rand, nickname string) string {
	templates := []string{
		nickname + "입니다. 좋은 맛집 함께 찾아요!",
		nickname + "의 소소한 일상 기록.",
		nickname + " | 커피와 산책을 좋아해요.",
		nickname + " | 새로운 메뉴 탐험 중.",
		nickname + " | 오늘도 든든하게!",
		nickname + " | 음식 사진 찍는 걸 좋아합니다.",
	}
	return templates[rng.Intn(len(templates))]
}
