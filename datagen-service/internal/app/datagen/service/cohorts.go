package service

import (
	"fmt"
	"math/rand"

	"matjip/datagen-service/internal/app/datagen/config"
	"matjip/datagen-service/internal/app/datagen/entity"
)

// Cohorts - результат разбиения пользователей по уровням активности
type Cohorts struct {
	VIP     []int64
	Loyal   []int64
	Regular []int64
}

// PickCohorts перемешивает ID пользователей и режет их на когорты VIP/LOYAL/REGULAR.
// Недостаток пользователей фатален: уменьшение когорт исказило бы профиль датасета.
func PickCohorts(rng *rand.Rand, userIDs []int64, cfg config.CohortConfig) (*Cohorts, error) {
	need := cfg.VIPCount + cfg.LoyalCount + cfg.RegularCount
	if len(userIDs) < need {
		return nil, fmt.Errorf("not enough users for the requested cohort sizes: have %d, need %d", len(userIDs), need)
	}

	shuffled := make([]int64, len(userIDs))
	copy(shuffled, userIDs)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	return &Cohorts{
		VIP:     shuffled[:cfg.VIPCount],
		Loyal:   shuffled[cfg.VIPCount : cfg.VIPCount+cfg.LoyalCount],
		Regular: shuffled[cfg.VIPCount+cfg.LoyalCount : need],
	}, nil
}

// ChooseRestaurants выбирает n идентификаторов ресторанов без повторов.
// Если n превышает размер каталога, возвращается весь каталог в случайном порядке.
func ChooseRestaurants(rng *rand.Rand, n int, restaurantIDs []int64) []int64 {
	shuffled := make([]int64, len(restaurantIDs))
	copy(shuffled, restaurantIDs)
	rng.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})

	if n >= len(shuffled) {
		return shuffled
	}
	return shuffled[:n]
}

// BuildVisitPlans строит план визитов (ресторан, дата) для каждого пользователя когорт.
// Порядок обхода фиксирован (VIP, LOYAL, REGULAR), чтобы при одном сиде
// план получался одинаковым от прогона к прогону.
func BuildVisitPlans(
	rng *rand.Rand,
	cohorts *Cohorts,
	restaurantIDs []int64,
	cohortCfg config.CohortConfig,
	dates config.DateRangeConfig,
) map[int64][]entity.VisitStop {
	plans := make(map[int64][]entity.VisitStop, len(cohorts.VIP)+len(cohorts.Loyal)+len(cohorts.Regular))

	assign := func(uid int64, r config.ReviewRange) {
		n := r.Min + rng.Intn(r.Max-r.Min+1)
		rids := ChooseRestaurants(rng, n, restaurantIDs)
		visitDates := GenerateVisitDates(rng, n, dates)

		stops := make([]entity.VisitStop, 0, len(rids))
		for i, rid := range rids {
			if i >= len(visitDates) {
				break
			}
			stops = append(stops, entity.VisitStop{RestaurantID: rid, VisitedAt: visitDates[i]})
		}
		plans[uid] = stops
	}

	for _, uid := range cohorts.VIP {
		assign(uid, cohortCfg.VIPReviews)
	}
	for _, uid := range cohorts.Loyal {
		assign(uid, cohortCfg.LoyalReviews)
	}
	for _, uid := range cohorts.Regular {
		assign(uid, cohortCfg.RegularReviews)
	}

	return plans
}
