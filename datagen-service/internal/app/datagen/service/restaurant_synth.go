package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"sync"
	"time"

	"matjip/datagen-service/internal/app/datagen/entity"
	"matjip/datagen-service/internal/app/datagen/repository"
	"matjip/pkg/logger"
)

// Сид синтеза ресторанов независим от сида пайплайна отзывов
const restaurantSynthSeed = 42

// Одновременных запросов метаданных к внешнему сервису
const metaConcurrency = 10

// district - автономный округ Сеула: центр координат и дорожные названия
type district struct {
	Name    string
	Lat     float64
	Lon     float64
	Streets []string
}

var seoulDistricts = []district{
	{"종로구", 37.5730, 126.9794, []string{"종로", "율곡로", "사직로", "자하문로", "새문안로", "삼청로", "율곡로12길"}},
	{"중구", 37.5636, 126.9976, []string{"세종대로", "을지로", "퇴계로", "장충단로", "소공로", "청계천로", "동호로"}},
	{"용산구", 37.5326, 126.9905, []string{"한강대로", "이태원로", "후암로", "녹사평대로", "두텁바위로", "한남대로"}},
	{"성동구", 37.5633, 127.0364, []string{"왕십리로", "성수일로", "뚝섬로", "무학로", "고산자로", "금호로"}},
	{"광진구", 37.5380, 127.0820, []string{"광나루로", "능동로", "자양로", "아차산로", "화양로", "천호대로"}},
	{"동대문구", 37.5744, 127.0396, []string{"왕산로", "천호대로", "답십리로", "장한로", "회기로", "이문로"}},
	{"중랑구", 37.6060, 127.0927, []string{"면목로", "사가정로", "봉화산로", "망우로", "중랑천로", "상봉로"}},
	{"성북구", 37.5894, 127.0167, []string{"성북로", "정릉로", "월계로", "동소문로", "보문로", "장위로"}},
	{"강북구", 37.6396, 127.0257, []string{"도봉로", "삼양로", "한천로", "덕릉로", "인수봉로", "수유로"}},
	{"도봉구", 37.6688, 127.0471, []string{"도봉로", "마들로", "방학로", "노해로", "시루봉로", "노원로"}},
	{"노원구", 37.6543, 127.0568, []string{"노원로", "상계로", "한글비석로", "동일로", "중앙로", "마들로"}},
	{"은평구", 37.6176, 126.9227, []string{"연서로", "통일로", "불광로", "역말로", "진흥로", "수색로"}},
	{"서대문구", 37.5791, 126.9368, []string{"연세로", "신촌로", "가좌로", "충정로", "모래내로", "독립문로"}},
	{"마포구", 37.5663, 126.9018, []string{"마포대로", "월드컵로", "성산로", "독막로", "공덕로", "서강로"}},
	{"양천구", 37.5169, 126.8664, []string{"목동로", "오목로", "신월로", "안양천로", "양천로", "중앙로"}},
	{"강서구", 37.5509, 126.8495, []string{"화곡로", "공항대로", "방화대로", "곰달래로", "양천로", "가로공원로"}},
	{"구로구", 37.4954, 126.8876, []string{"구로중앙로", "경인로", "디지털로", "오리로", "고척로", "구로동로"}},
	{"금천구", 37.4569, 126.8956, []string{"시흥대로", "금하로", "독산로", "가산디지털1로", "두산로", "금하로15길"}},
	{"영등포구", 37.5268, 126.8960, []string{"국회대로", "여의대로", "영등포로", "도림로", "당산로", "선유로"}},
	{"동작구", 37.5124, 126.9393, []string{"노량진로", "흑석로", "장승배기로", "상도로", "동작대로", "알마타길"}},
	{"관악구", 37.4784, 126.9516, []string{"관악로", "신림로", "보라매로", "낙성대로", "남부순환로", "난곡로"}},
	{"서초구", 37.4836, 127.0327, []string{"서초대로", "반포대로", "사평대로", "양재대로", "남부순환로", "잠원로"}},
	{"강남구", 37.5172, 127.0473, []string{"강남대로", "테헤란로", "선릉로", "도산대로", "봉은사로", "언주로", "영동대로"}},
	{"송파구", 37.5146, 127.1059, []string{"올림픽로", "송파대로", "위례성대로", "가락로", "석촌호수로", "문정로"}},
	{"강동구", 37.5302, 127.1238, []string{"천호대로", "성내로", "양재대로", "올림픽로", "상일로", "둔촌로"}},
}

var defaultCategories = []string{
	"한식", "중식", "일식", "양식", "아시아음식",
	"카페/디저트", "패스트푸드", "치킨", "피자", "주점/술집", "기타",
}

var openingHoursOptions = []string{
	"10:00 ~ 22:00",
	"11:00 ~ 21:30",
	"09:30 ~ 20:00",
	"11:30 ~ 22:00",
	"10:00 ~ 20:00",
	"12:00 ~ 23:00",
	"월-금 11:00-21:00; 토-일 12:00-22:00",
	"매일 10:30-21:30(브레이크 15:00-17:00)",
}

var (
	fallbackNamePrefixes = []string{"맛집", "정담", "온기", "담소", "한숲", "소담", "호미", "반가", "다온", "초록", "도란", "한상", "행복", "모락", "미소", "풍미"}
	fallbackNameSuffixes = []string{"식당", "주택", "다방", "분식", "한상", "키친", "포차", "공방", "주점", "테이블", "당"}
)

// RestaurantSynthesizer генерирует входные каталоги ресторанов:
// restaurant.json, restaurant_location.json, restaurant_image.json, restaurant_category.json.
// Имена/описания/категории идут от внешнего сервиса (или локального фолбэка),
// координаты/адреса/телефоны/часы работы всегда локальные.
type RestaurantSynthesizer struct {
	catalogRepo  repository.CatalogRepository
	categoryRepo repository.CategoryRepository
	client       TextGenClient
	count        int
	batchSize    int

	// Словарь категорий текущего прогона, заполняется в Generate
	allowedNames []string
}

// NewRestaurantSynthesizer создает новый генератор ресторанов.
// categoryRepo и client могут быть nil: тогда встроенные категории и фолбэк-метаданные.
func NewRestaurantSynthesizer(
	catalogRepo repository.CatalogRepository,
	categoryRepo repository.CategoryRepository,
	client TextGenClient,
	count, batchSize int,
) *RestaurantSynthesizer {
	return &RestaurantSynthesizer{
		catalogRepo:  catalogRepo,
		categoryRepo: categoryRepo,
		client:       client,
		count:        count,
		batchSize:    batchSize,
	}
}

// Generate создает count ресторанов с равномерным распределением по округам
func (s *RestaurantSynthesizer) Generate(ctx context.Context) error {
	rng := rand.New(rand.NewSource(restaurantSynthSeed))

	categories, err := s.loadCategories(ctx)
	if err != nil {
		return err
	}
	nameToID := make(map[string]int64, len(categories))
	s.allowedNames = s.allowedNames[:0]
	for _, c := range categories {
		nameToID[c.Name] = c.CategoryID
		s.allowedNames = append(s.allowedNames, c.Name)
	}
	allowedNames := s.allowedNames

	// Равномерное распределение по 25 округам, затем перемешивание
	assigned := make([]int, 0, s.count)
	for len(assigned) < s.count {
		for di := range seoulDistricts {
			if len(assigned) >= s.count {
				break
			}
			assigned = append(assigned, di)
		}
	}
	rng.Shuffle(len(assigned), func(i, j int) {
		assigned[i], assigned[j] = assigned[j], assigned[i]
	})

	var batches [][]int
	for start := 0; start < len(assigned); start += s.batchSize {
		end := start + s.batchSize
		if end > len(assigned) {
			end = len(assigned)
		}
		batches = append(batches, assigned[start:end])
	}

	var (
		restaurants []entity.Restaurant
		locations   []entity.RestaurantLocation
		images      []entity.RestaurantImage
		links       []entity.RestaurantCategoryLink
	)
	nextRestaurantID := int64(1)

	// Подсказки формируются заранее единым rng, вызовы идут группами
	type batchMeta struct {
		districts []int
		catsHint  []string
	}
	metas := make([]batchMeta, 0, len(batches))
	for _, b := range batches {
		metas = append(metas, batchMeta{districts: b, catsHint: sampleStrings(rng, allowedNames, 6)})
	}

	for start := 0; start < len(metas); start += metaConcurrency {
		end := start + metaConcurrency
		if end > len(metas) {
			end = len(metas)
		}
		group := metas[start:end]

		results := make([][]entity.RestaurantMeta, len(group))
		var wg sync.WaitGroup
		for i, bm := range group {
			wg.Add(1)
			go func(i int, bm batchMeta) {
				defer wg.Done()
				districtNames := make([]string, 0, len(bm.districts))
				for _, di := range bm.districts {
					districtNames = append(districtNames, seoulDistricts[di].Name)
				}
				batchRng := rand.New(rand.NewSource(restaurantSynthSeed ^ int64(start+i+1)*batchSeedMix))
				results[i] = s.generateMetaBatch(ctx, batchRng, len(bm.districts), bm.catsHint, districtNames)
			}(i, bm)
		}
		wg.Wait()

		for gi, bm := range group {
			metaBatch := results[gi]
			for i, di := range bm.districts {
				rid := nextRestaurantID
				d := seoulDistricts[di]
				meta := metaBatch[i]
				createdAt := time.Now().Format(generatedAtLayout)

				lat, lon := jitterCoord(rng, d.Lat, d.Lon, 150+rng.Intn(501))

				restaurants = append(restaurants, entity.Restaurant{
					RestaurantID: rid,
					Name:         meta.Name,
					Description:  meta.Description,
					PhoneNumber:  fmt.Sprintf("02-%d-%d", 1000+rng.Intn(9000), 1000+rng.Intn(9000)),
					OpeningHours: meta.OpeningHours,
					IsDeleted:    false,
					CreatedAt:    createdAt,
					UpdatedAt:    createdAt,
				})

				locations = append(locations, entity.RestaurantLocation{
					RestaurantID:  rid,
					Latitude:      math.Round(lat*1e6) / 1e6,
					Longitude:     math.Round(lon*1e6) / 1e6,
					AddressLine:   addressLine(rng, d),
					RegionSiDo:    "서울특별시",
					RegionSiGunGu: d.Name,
					CreatedAt:     createdAt,
					UpdatedAt:     createdAt,
				})

				// Категории: предложения сервиса, отфильтрованные по словарю
				var pickedIDs []int64
				for _, cname := range meta.Categories {
					if cid, ok := nameToID[cname]; ok && !containsID(pickedIDs, cid) {
						pickedIDs = append(pickedIDs, cid)
					}
				}
				if len(pickedIDs) == 0 {
					k := []int{1, 2, 2, 3}[rng.Intn(4)]
					for _, cname := range sampleStrings(rng, allowedNames, k) {
						if cid := nameToID[cname]; !containsID(pickedIDs, cid) {
							pickedIDs = append(pickedIDs, cid)
						}
					}
				}
				for _, cid := range pickedIDs {
					links = append(links, entity.RestaurantCategoryLink{
						RCID:         int64(len(links) + 1),
						RestaurantID: rid,
						CategoryID:   cid,
						CreatedAt:    createdAt,
					})
				}

				// Изображения: 1-5 штук с перекосом в 3
				numImgs := []int{1, 2, 3, 3, 3, 4, 5}[rng.Intn(7)]
				for idx := 1; idx <= numImgs; idx++ {
					images = append(images, entity.RestaurantImage{
						ImageID:      int64(len(images) + 1),
						RestaurantID: rid,
						ImagePath:    fmt.Sprintf("/%d/%d", rid, idx),
						IsDeleted:    false,
						Index:        idx - 1,
						CreatedAt:    createdAt,
						UpdatedAt:    createdAt,
					})
				}

				nextRestaurantID++
			}
		}

		logger.Info().Int("batches_done", end).Int("batches_total", len(metas)).Msg("Restaurant metadata batches processed")

		if s.client != nil && end < len(metas) {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(200 * time.Millisecond):
			}
		}
	}

	if err := s.catalogRepo.SaveRestaurants(restaurants); err != nil {
		return fmt.Errorf("failed to save restaurants: %w", err)
	}
	if err := s.catalogRepo.SaveRestaurantLocations(locations); err != nil {
		return fmt.Errorf("failed to save restaurant locations: %w", err)
	}
	if err := s.catalogRepo.SaveRestaurantImages(images); err != nil {
		return fmt.Errorf("failed to save restaurant images: %w", err)
	}
	if err := s.catalogRepo.SaveRestaurantCategoryLinks(links); err != nil {
		return fmt.Errorf("failed to save restaurant category links: %w", err)
	}

	logger.Info().Int("restaurants", len(restaurants)).Bool("llm_used", s.client != nil).Msg("Restaurant catalog generated")

	return nil
}

// loadCategories читает категории из БД; без БД или при пустой таблице - встроенный список
func (s *RestaurantSynthesizer) loadCategories(ctx context.Context) ([]entity.Category, error) {
	if s.categoryRepo != nil {
		cats, err := s.categoryRepo.ListActive(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to load categories: %w", err)
		}
		if len(cats) > 0 {
			return cats, nil
		}
	}

	cats := make([]entity.Category, 0, len(defaultCategories))
	for i, name := range defaultCategories {
		cats = append(cats, entity.Category{CategoryID: int64(i + 1), Name: name})
	}
	return cats, nil
}

// generateMetaBatch получает count метаданных от внешнего сервиса.
// Недобор и любые сбои закрываются локальным фолбэком, ответ всегда полный.
func (s *RestaurantSynthesizer) generateMetaBatch(
	ctx context.Context,
	rng *rand.Rand,
	count int,
	catsHint, districtsHint []string,
) []entity.RestaurantMeta {
	if s.client == nil {
		return s.fallbackMetaBatch(rng, count, catsHint, districtsHint)
	}

	sysMsg := "당신은 한국어 식당 메타데이터를 간결히 생성합니다.\n" +
		"- JSON 줄 단위로만 반환: {name, description, categories}\n" +
		"- categories는 아래 목록에서만 1~3개 선택:\n" +
		"[" + strings.Join(s.allowed(), ", ") + "]\n" +
		"- name: 창의적인 한국어 매장 이름(2~12자, 지역 이름 포함 X), description: 100자 이내 1~2 문장(매장 이름 포함 X).\n" +
		"- 설명/장식 없이 JSON만 출력."
	userMsg := fmt.Sprintf(
		"%d개의 한국 식당 데이터를 만들어주세요.\n카테고리 힌트: %s\n자치구 힌트: %s\n출력은 {name, description, categories} 의 JSON 라인만.",
		count, strings.Join(catsHint, ", "), strings.Join(districtsHint, ", "),
	)

	raw, err := s.client.CreateCompletion(ctx, sysMsg, userMsg)
	if err != nil {
		logger.Warn().Err(err).Msg("Restaurant metadata request failed, falling back to local metadata")
		return s.fallbackMetaBatch(rng, count, catsHint, districtsHint)
	}

	allowedSet := make(map[string]struct{})
	for _, name := range s.allowed() {
		allowedSet[name] = struct{}{}
	}

	var items []entity.RestaurantMeta
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var rec struct {
			Name        string   `json:"name"`
			Description string   `json:"description"`
			Categories  []string `json:"categories"`
		}
		if err := json.Unmarshal([]byte(line), &rec); err != nil {
			continue
		}
		if rec.Name == "" || rec.Description == "" || len(rec.Categories) < 1 || len(rec.Categories) > 3 {
			continue
		}

		var filtered []string
		for _, c := range rec.Categories {
			if _, ok := allowedSet[c]; ok {
				filtered = append(filtered, c)
			}
		}
		if len(filtered) == 0 {
			filtered = []string{s.allowed()[rng.Intn(len(s.allowed()))]}
		}

		items = append(items, entity.RestaurantMeta{
			Name:        rec.Name,
			Description: rec.Description,
			Categories:  filtered,
		})
		if len(items) == count {
			break
		}
	}

	for len(items) < count {
		items = append(items, s.fallbackMetaItem(rng, catsHint, districtsHint))
	}

	// Часы работы всегда локальные
	for i := range items {
		items[i].OpeningHours = openingHoursOptions[rng.Intn(len(openingHoursOptions))]
	}

	return items
}

func (s *RestaurantSynthesizer) fallbackMetaBatch(rng *rand.Rand, count int, catsHint, districtsHint []string) []entity.RestaurantMeta {
	items := make([]entity.RestaurantMeta, 0, count)
	for i := 0; i < count; i++ {
		item := s.fallbackMetaItem(rng, catsHint, districtsHint)
		item.OpeningHours = openingHoursOptions[rng.Intn(len(openingHoursOptions))]
		items = append(items, item)
	}
	return items
}

func (s *RestaurantSynthesizer) fallbackMetaItem(rng *rand.Rand, catsHint, districtsHint []string) entity.RestaurantMeta {
	category := catsHint[rng.Intn(len(catsHint))]
	dName := districtsHint[rng.Intn(len(districtsHint))]
	name := fallbackNamePrefixes[rng.Intn(len(fallbackNamePrefixes))] + fallbackNameSuffixes[rng.Intn(len(fallbackNameSuffixes))]

	cats := []string{category}
	if !containsString(s.allowed(), category) {
		cats = []string{s.allowed()[rng.Intn(len(s.allowed()))]}
	}

	return entity.RestaurantMeta{
		Name:        name,
		Description: fmt.Sprintf("%s %s 전문점", dName, category),
		Categories:  cats,
	}
}

// allowed возвращает словарь разрешённых категорий текущего прогона
func (s *RestaurantSynthesizer) allowed() []string {
	if len(s.allowedNames) == 0 {
		return defaultCategories
	}
	return s.allowedNames
}

// jitterCoord сдвигает координаты центра округа на случайные meters
func jitterCoord(rng *rand.Rand, lat, lon float64, meters int) (float64, float64) {
	latJ := (float64(meters) / 111000.0) * (rng.Float64()*2 - 1)
	lonJ := (float64(meters) / 88800.0) * (rng.Float64()*2 - 1)
	return lat + latJ, lon + lonJ
}

// addressLine собирает дорожный адрес внутри округа
func addressLine(rng *rand.Rand, d district) string {
	street := d.Streets[rng.Intn(len(d.Streets))]
	mainNo := 1 + rng.Intn(200)
	sub := ""
	if rng.Float64() < 0.5 {
		sub = fmt.Sprintf("-%d", 1+rng.Intn(50))
	}
	return fmt.Sprintf("서울특별시 %s %s %d%s", d.Name, street, mainNo, sub)
}

// sampleStrings выбирает до k уникальных элементов из списка
func sampleStrings(rng *rand.Rand, src []string, k int) []string {
	if k > len(src) {
		k = len(src)
	}
	shuffled := make([]string, len(src))
	copy(shuffled, src)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	return shuffled[:k]
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
